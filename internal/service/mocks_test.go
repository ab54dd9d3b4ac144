package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"time"

	"github.com/jackc/pgx/v5"

	"mediatube/internal/domain"
	"mediatube/internal/repository"
)

type mockUserRepo struct {
	usersByID map[string]domain.User

	createErr       error
	hideAfterCreate bool
	refreshUpdates  int
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{usersByID: make(map[string]domain.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user domain.User) error {
	if m.createErr != nil {
		return m.createErr
	}
	for _, existing := range m.usersByID {
		if existing.Username == user.Username || existing.Email == user.Email {
			return repository.ErrDuplicate
		}
	}
	user.UpdatedAt = user.CreatedAt
	m.usersByID[user.ID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (domain.User, error) {
	if m.hideAfterCreate {
		return domain.User{}, pgx.ErrNoRows
	}
	user, ok := m.usersByID[id]
	if !ok {
		return domain.User{}, pgx.ErrNoRows
	}
	return user, nil
}

func (m *mockUserRepo) GetByIdentifier(_ context.Context, identifier string) (domain.User, error) {
	for _, user := range m.usersByID {
		if user.Username == identifier || user.Email == identifier {
			return user, nil
		}
	}
	return domain.User{}, pgx.ErrNoRows
}

func (m *mockUserRepo) ExistsByUsernameOrEmail(_ context.Context, username, email string) (bool, error) {
	for _, user := range m.usersByID {
		if user.Username == username || user.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockUserRepo) UpdateRefreshToken(_ context.Context, id, token string) error {
	user, ok := m.usersByID[id]
	if !ok {
		return pgx.ErrNoRows
	}
	user.RefreshToken = token
	m.usersByID[id] = user
	m.refreshUpdates++
	return nil
}

func (m *mockUserRepo) UpdatePassword(_ context.Context, id, passwordHash string) error {
	user, ok := m.usersByID[id]
	if !ok {
		return pgx.ErrNoRows
	}
	user.PasswordHash = passwordHash
	m.usersByID[id] = user
	return nil
}

func (m *mockUserRepo) UpdateAccount(_ context.Context, id, fullname, email string) error {
	user, ok := m.usersByID[id]
	if !ok {
		return pgx.ErrNoRows
	}
	for otherID, other := range m.usersByID {
		if otherID != id && other.Email == email {
			return repository.ErrDuplicate
		}
	}
	user.Fullname = fullname
	user.Email = email
	m.usersByID[id] = user
	return nil
}

func (m *mockUserRepo) UpdateAvatar(_ context.Context, id, url, publicID string) error {
	user, ok := m.usersByID[id]
	if !ok {
		return pgx.ErrNoRows
	}
	user.AvatarURL = url
	user.AvatarID = publicID
	m.usersByID[id] = user
	return nil
}

func (m *mockUserRepo) UpdateCoverImage(_ context.Context, id, url, publicID string) error {
	user, ok := m.usersByID[id]
	if !ok {
		return pgx.ErrNoRows
	}
	user.CoverImageURL = url
	user.CoverImageID = publicID
	m.usersByID[id] = user
	return nil
}

type mockObjectStorage struct {
	objects   map[string][]byte
	deleted   []string
	putCalls  int
	putErr    error
	failAfter int // falla a partir de la subida N (1-based); 0 desactiva
	deleteErr error
}

func newMockObjectStorage() *mockObjectStorage {
	return &mockObjectStorage{objects: make(map[string][]byte)}
}

func (m *mockObjectStorage) Put(_ context.Context, key string, r io.Reader, _ int64, _ string) error {
	m.putCalls++
	if m.putErr != nil {
		return m.putErr
	}
	if m.failAfter > 0 && m.putCalls >= m.failAfter {
		return errors.New("storage unavailable")
	}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(r); err != nil {
		return err
	}
	m.objects[key] = buf.Bytes()
	return nil
}

func (m *mockObjectStorage) Delete(_ context.Context, key string) error {
	m.deleted = append(m.deleted, key)
	if m.deleteErr != nil {
		return m.deleteErr
	}
	delete(m.objects, key)
	return nil
}

func (m *mockObjectStorage) URL(key string) string {
	return "https://cdn.test/media/" + key
}

func seedUser(repo *mockUserRepo, id, username, email, password string) domain.User {
	hash, err := HashPassword(password)
	if err != nil {
		panic(err)
	}
	user := domain.User{
		ID:           id,
		Username:     username,
		Email:        email,
		Fullname:     "Test User",
		AvatarURL:    "https://cdn.test/media/avatar.png",
		AvatarID:     "avatar.png",
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	repo.usersByID[id] = user
	return user
}
