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

// SessionService orquesta login, logout y rotación de refresh tokens.
type SessionService struct {
	logger  *zap.Logger
	users   repository.UserRepository
	tokens  *TokenService
	limiter LoginRateLimiter
}

// SessionTokens es el par emitido en cada login o refresh.
type SessionTokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

func NewSessionService(logger *zap.Logger, users repository.UserRepository, tokens *TokenService, limiter LoginRateLimiter) *SessionService {
	return &SessionService{
		logger:  logger,
		users:   users,
		tokens:  tokens,
		limiter: limiter,
	}
}

// Login autentica por username o email y emite un par de tokens. El refresh
// token emitido queda persistido sobre el usuario e invalida al anterior.
func (s *SessionService) Login(ctx context.Context, identifier, password string) (domain.User, SessionTokens, error) {
	identifier = strings.ToLower(strings.TrimSpace(identifier))
	if identifier == "" || password == "" {
		return domain.User{}, SessionTokens{}, ErrInvalidCredentials
	}

	if s.limiter != nil && !s.limiter.Allow(identifier) {
		return domain.User{}, SessionTokens{}, ErrRateLimited
	}

	user, err := s.users.GetByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, SessionTokens{}, ErrNotFound
		}
		return domain.User{}, SessionTokens{}, fmt.Errorf("resolve identity: %w", err)
	}

	if !VerifyPassword(password, user.PasswordHash) {
		return domain.User{}, SessionTokens{}, ErrInvalidCredentials
	}

	tokens, err := s.issueAndPersist(ctx, user)
	if err != nil {
		return domain.User{}, SessionTokens{}, err
	}

	return user.Sanitized(), tokens, nil
}

// Refresh rota el refresh token presentado. El token solo se acepta si
// además de ser criptográficamente válido coincide con el valor guardado
// en el usuario; así un token ya rotado o revocado deja de servir.
func (s *SessionService) Refresh(ctx context.Context, presented string) (SessionTokens, error) {
	presented = strings.TrimSpace(presented)
	if presented == "" {
		return SessionTokens{}, ErrMissingToken
	}

	claims, err := s.tokens.VerifyRefreshToken(presented)
	if err != nil {
		return SessionTokens{}, ErrInvalidToken
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return SessionTokens{}, ErrInvalidToken
		}
		return SessionTokens{}, fmt.Errorf("load identity: %w", err)
	}

	if user.RefreshToken == "" || user.RefreshToken != presented {
		return SessionTokens{}, ErrInvalidToken
	}

	return s.issueAndPersist(ctx, user)
}

// Logout anula el refresh token guardado. Repetirlo no es error.
func (s *SessionService) Logout(ctx context.Context, userID string) error {
	if err := s.users.UpdateRefreshToken(ctx, userID, ""); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("clear refresh token: %w", err)
	}
	return nil
}

func (s *SessionService) issueAndPersist(ctx context.Context, user domain.User) (SessionTokens, error) {
	access, err := s.tokens.IssueAccessToken(user)
	if err != nil {
		s.logger.Error("issue access token failed", zap.Error(err))
		return SessionTokens{}, ErrTokenGeneration
	}
	refresh, err := s.tokens.IssueRefreshToken(user.ID)
	if err != nil {
		s.logger.Error("issue refresh token failed", zap.Error(err))
		return SessionTokens{}, ErrTokenGeneration
	}
	if err := s.users.UpdateRefreshToken(ctx, user.ID, refresh); err != nil {
		s.logger.Error("persist refresh token failed", zap.Error(err), zap.String("user_id", user.ID))
		return SessionTokens{}, ErrTokenGeneration
	}
	return SessionTokens{AccessToken: access, RefreshToken: refresh}, nil
}
