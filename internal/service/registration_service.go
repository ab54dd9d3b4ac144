package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"mediatube/internal/domain"
	"mediatube/internal/repository"
)

// RegistrationService compone validación, chequeo de duplicados, subida de
// media y creación del registro en una transacción con compensación.
type RegistrationService struct {
	logger *zap.Logger
	users  repository.UserRepository
	media  *MediaService
}

// RegisterInput son los campos del formulario de registro. Los paths
// apuntan a los archivos temporales ya recibidos por el transport.
type RegisterInput struct {
	Fullname            string
	Email               string
	Username            string
	Password            string
	AvatarLocalPath     string
	CoverImageLocalPath string
}

func NewRegistrationService(logger *zap.Logger, users repository.UserRepository, media *MediaService) *RegistrationService {
	return &RegistrationService{
		logger: logger,
		users:  users,
		media:  media,
	}
}

// Register da de alta un usuario completo con su media. Si algo falla
// después de haber subido archivos, los objetos remotos ya subidos se
// eliminan en orden inverso antes de devolver el error: nunca queda media
// huérfana sin registro de usuario asociado.
func (s *RegistrationService) Register(ctx context.Context, input RegisterInput) (domain.User, error) {
	fullname := strings.TrimSpace(input.Fullname)
	email := strings.ToLower(strings.TrimSpace(input.Email))
	username := strings.ToLower(strings.TrimSpace(input.Username))
	password := strings.TrimSpace(input.Password)

	if fullname == "" || email == "" || username == "" || password == "" {
		return domain.User{}, ErrMissingFields
	}

	// Pre-chequeo de duplicados. La garantía real la da el índice único;
	// esto solo evita subir media de más.
	exists, err := s.users.ExistsByUsernameOrEmail(ctx, username, email)
	if err != nil {
		return domain.User{}, fmt.Errorf("check existing user: %w", err)
	}
	if exists {
		return domain.User{}, ErrConflict
	}

	if strings.TrimSpace(input.AvatarLocalPath) == "" {
		return domain.User{}, ErrMissingAvatar
	}

	var uploaded []*UploadedMedia
	rollback := func() {
		for i := len(uploaded) - 1; i >= 0; i-- {
			s.media.Remove(ctx, uploaded[i].PublicID)
		}
	}

	avatar, err := s.media.Upload(ctx, input.AvatarLocalPath)
	if err != nil || avatar == nil {
		s.logger.Error("avatar upload failed", zap.Error(err))
		return domain.User{}, ErrUploadFailed
	}
	uploaded = append(uploaded, avatar)

	var coverImage *UploadedMedia
	if strings.TrimSpace(input.CoverImageLocalPath) != "" {
		coverImage, err = s.media.Upload(ctx, input.CoverImageLocalPath)
		if err != nil || coverImage == nil {
			s.logger.Error("cover image upload failed", zap.Error(err))
			rollback()
			return domain.User{}, ErrUploadFailed
		}
		uploaded = append(uploaded, coverImage)
	}

	passwordHash, err := HashPassword(password)
	if err != nil {
		rollback()
		return domain.User{}, fmt.Errorf("hash password: %w", err)
	}

	user := domain.User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		Fullname:     fullname,
		AvatarURL:    avatar.URL,
		AvatarID:     avatar.PublicID,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
	if coverImage != nil {
		user.CoverImageURL = coverImage.URL
		user.CoverImageID = coverImage.PublicID
	}

	if err := s.users.Create(ctx, user); err != nil {
		s.logger.Error("user creation failed", zap.Error(err), zap.String("username", username))
		rollback()
		if errors.Is(err, repository.ErrDuplicate) {
			return domain.User{}, ErrConflict
		}
		return domain.User{}, ErrCreationFailed
	}

	// Relectura defensiva: el registro recién creado debe poder resolverse.
	created, err := s.users.GetByID(ctx, user.ID)
	if err != nil {
		s.logger.Error("created user not readable", zap.Error(err), zap.String("user_id", user.ID))
		rollback()
		return domain.User{}, ErrCreationFailed
	}

	return created.Sanitized(), nil
}
