package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"mediatube/internal/domain"
	"mediatube/internal/repository"
)

// UserService coordina las operaciones de cuenta del usuario autenticado.
type UserService struct {
	logger *zap.Logger
	users  repository.UserRepository
	media  *MediaService
}

func NewUserService(logger *zap.Logger, users repository.UserRepository, media *MediaService) *UserService {
	return &UserService{
		logger: logger,
		users:  users,
		media:  media,
	}
}

// GetByID devuelve el usuario sin campos sensibles.
func (s *UserService) GetByID(ctx context.Context, id string) (domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, ErrNotFound
		}
		return domain.User{}, fmt.Errorf("get user: %w", err)
	}
	return user.Sanitized(), nil
}

// ChangePassword verifica el password vigente y persiste el hash del nuevo.
func (s *UserService) ChangePassword(ctx context.Context, id, oldPassword, newPassword string) error {
	oldPassword = strings.TrimSpace(oldPassword)
	newPassword = strings.TrimSpace(newPassword)
	if oldPassword == "" || newPassword == "" {
		return ErrMissingFields
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("get user: %w", err)
	}

	if !VerifyPassword(oldPassword, user.PasswordHash) {
		return ErrInvalidCredentials
	}

	hash, err := HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.users.UpdatePassword(ctx, id, hash); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

// UpdateAccount actualiza fullname y email normalizados.
func (s *UserService) UpdateAccount(ctx context.Context, id, fullname, email string) (domain.User, error) {
	fullname = strings.TrimSpace(fullname)
	email = strings.ToLower(strings.TrimSpace(email))
	if fullname == "" || email == "" {
		return domain.User{}, ErrMissingFields
	}

	if err := s.users.UpdateAccount(ctx, id, fullname, email); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return domain.User{}, ErrConflict
		}
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, ErrNotFound
		}
		return domain.User{}, fmt.Errorf("update account: %w", err)
	}

	return s.GetByID(ctx, id)
}

// UpdateAvatar sube el nuevo avatar, lo asocia al usuario y borra el objeto
// anterior en modo best-effort. Si la escritura falla, el objeto recién
// subido se elimina para no dejar media huérfana.
func (s *UserService) UpdateAvatar(ctx context.Context, id, localPath string) (domain.User, error) {
	if strings.TrimSpace(localPath) == "" {
		return domain.User{}, ErrMissingAvatar
	}
	return s.replaceMedia(ctx, id, localPath, s.users.UpdateAvatar, func(u domain.User) string {
		return u.AvatarID
	})
}

// UpdateCoverImage reemplaza la imagen de portada del usuario.
func (s *UserService) UpdateCoverImage(ctx context.Context, id, localPath string) (domain.User, error) {
	if strings.TrimSpace(localPath) == "" {
		return domain.User{}, ErrMissingFields
	}
	return s.replaceMedia(ctx, id, localPath, s.users.UpdateCoverImage, func(u domain.User) string {
		return u.CoverImageID
	})
}

func (s *UserService) replaceMedia(
	ctx context.Context,
	id, localPath string,
	persist func(ctx context.Context, id, url, publicID string) error,
	previousID func(domain.User) string,
) (domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, ErrNotFound
		}
		return domain.User{}, fmt.Errorf("get user: %w", err)
	}

	media, err := s.media.Upload(ctx, localPath)
	if err != nil || media == nil {
		s.logger.Error("media upload failed", zap.Error(err), zap.String("user_id", id))
		return domain.User{}, ErrUploadFailed
	}

	if err := persist(ctx, id, media.URL, media.PublicID); err != nil {
		s.media.Remove(ctx, media.PublicID)
		return domain.User{}, fmt.Errorf("persist media reference: %w", err)
	}

	if prev := previousID(user); prev != "" {
		s.media.Remove(ctx, prev)
	}

	return s.GetByID(ctx, id)
}
