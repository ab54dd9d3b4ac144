package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
)

func newUserService(repo *mockUserRepo, store *mockObjectStorage) *UserService {
	return NewUserService(zap.NewNop(), repo, NewMediaService(zap.NewNop(), store))
}

func TestUserService_GetByIDSanitizes(t *testing.T) {
	repo := newMockUserRepo()
	seeded := seedUser(repo, "u1", "alice", "alice@x.com", "Secret123!")
	seeded.RefreshToken = "some-refresh"
	repo.usersByID["u1"] = seeded

	svc := newUserService(repo, newMockObjectStorage())
	user, err := svc.GetByID(context.Background(), "u1")
	if err != nil {
		t.Fatalf("get by id: %v", err)
	}
	if user.PasswordHash != "" || user.RefreshToken != "" {
		t.Fatalf("sensitive fields must be stripped: %+v", user)
	}
}

func TestUserService_GetByIDNotFound(t *testing.T) {
	svc := newUserService(newMockUserRepo(), newMockObjectStorage())
	if _, err := svc.GetByID(context.Background(), "ghost"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUserService_ChangePassword(t *testing.T) {
	repo := newMockUserRepo()
	seedUser(repo, "u1", "alice", "alice@x.com", "Secret123!")
	svc := newUserService(repo, newMockObjectStorage())

	if err := svc.ChangePassword(context.Background(), "u1", "Secret123!", "NewSecret456!"); err != nil {
		t.Fatalf("change password: %v", err)
	}

	stored := repo.usersByID["u1"]
	if !VerifyPassword("NewSecret456!", stored.PasswordHash) {
		t.Fatalf("new password must verify after change")
	}
	if VerifyPassword("Secret123!", stored.PasswordHash) {
		t.Fatalf("old password must no longer verify")
	}
}

func TestUserService_ChangePasswordWrongOld(t *testing.T) {
	repo := newMockUserRepo()
	seedUser(repo, "u1", "alice", "alice@x.com", "Secret123!")
	svc := newUserService(repo, newMockObjectStorage())

	err := svc.ChangePassword(context.Background(), "u1", "wrong", "NewSecret456!")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestUserService_ChangePasswordMissingFields(t *testing.T) {
	svc := newUserService(newMockUserRepo(), newMockObjectStorage())
	if err := svc.ChangePassword(context.Background(), "u1", " ", "x"); !errors.Is(err, ErrMissingFields) {
		t.Fatalf("expected ErrMissingFields, got %v", err)
	}
}

func TestUserService_UpdateAccount(t *testing.T) {
	repo := newMockUserRepo()
	seedUser(repo, "u1", "alice", "alice@x.com", "Secret123!")
	svc := newUserService(repo, newMockObjectStorage())

	user, err := svc.UpdateAccount(context.Background(), "u1", "Alice B. Example", "ALICE@NEW.com")
	if err != nil {
		t.Fatalf("update account: %v", err)
	}
	if user.Fullname != "Alice B. Example" || user.Email != "alice@new.com" {
		t.Fatalf("unexpected account data: %+v", user)
	}
}

func TestUserService_UpdateAccountDuplicateEmail(t *testing.T) {
	repo := newMockUserRepo()
	seedUser(repo, "u1", "alice", "alice@x.com", "Secret123!")
	seedUser(repo, "u2", "bob", "bob@x.com", "Secret123!")
	svc := newUserService(repo, newMockObjectStorage())

	if _, err := svc.UpdateAccount(context.Background(), "u1", "Alice", "bob@x.com"); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestUserService_UpdateAvatarReplacesPrevious(t *testing.T) {
	repo := newMockUserRepo()
	seedUser(repo, "u1", "alice", "alice@x.com", "Secret123!")
	store := newMockObjectStorage()
	svc := newUserService(repo, store)

	path := writeTempFile(t, "new-avatar.png", []byte("new-bytes"))
	user, err := svc.UpdateAvatar(context.Background(), "u1", path)
	if err != nil {
		t.Fatalf("update avatar: %v", err)
	}
	if user.AvatarURL == "" || user.AvatarURL == "https://cdn.test/media/avatar.png" {
		t.Fatalf("avatar url must point to the new object: %+v", user)
	}

	// El objeto anterior se borra best-effort.
	if len(store.deleted) != 1 || store.deleted[0] != "avatar.png" {
		t.Fatalf("previous avatar must be deleted, got %v", store.deleted)
	}
}

func TestUserService_UpdateAvatarMissingFile(t *testing.T) {
	svc := newUserService(newMockUserRepo(), newMockObjectStorage())
	if _, err := svc.UpdateAvatar(context.Background(), "u1", ""); !errors.Is(err, ErrMissingAvatar) {
		t.Fatalf("expected ErrMissingAvatar, got %v", err)
	}
}

func TestUserService_UpdateCoverImage(t *testing.T) {
	repo := newMockUserRepo()
	seedUser(repo, "u1", "alice", "alice@x.com", "Secret123!")
	store := newMockObjectStorage()
	svc := newUserService(repo, store)

	path := writeTempFile(t, "cover.jpg", []byte("cover-bytes"))
	user, err := svc.UpdateCoverImage(context.Background(), "u1", path)
	if err != nil {
		t.Fatalf("update cover image: %v", err)
	}
	if user.CoverImageURL == "" {
		t.Fatalf("expected cover image url, got %+v", user)
	}
	// Sin portada previa no hay nada que borrar.
	if len(store.deleted) != 0 {
		t.Fatalf("no previous cover to delete, got %v", store.deleted)
	}
}
