package service

import (
	"errors"
	"testing"
	"time"

	"mediatube/internal/domain"
)

func testTokenService() *TokenService {
	return NewTokenService(TokenConfig{
		AccessSecret:  "access-secret",
		RefreshSecret: "refresh-secret",
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    10 * 24 * time.Hour,
	})
}

func TestTokenService_IssueAndParseAccess(t *testing.T) {
	svc := testTokenService()
	user := domain.User{
		ID:       "u1",
		Email:    "alice@x.com",
		Username: "alice",
		Fullname: "Alice Example",
	}

	token, err := svc.IssueAccessToken(user)
	if err != nil {
		t.Fatalf("issue access token: %v", err)
	}

	claims, err := svc.ParseAccessToken(token)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}
	if claims.UserID != "u1" || claims.Email != "alice@x.com" || claims.Username != "alice" || claims.Fullname != "Alice Example" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestTokenService_VerifyRefresh(t *testing.T) {
	svc := testTokenService()

	token, err := svc.IssueRefreshToken("u1")
	if err != nil {
		t.Fatalf("issue refresh token: %v", err)
	}

	claims, err := svc.VerifyRefreshToken(token)
	if err != nil {
		t.Fatalf("verify refresh token: %v", err)
	}
	if claims.UserID != "u1" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestTokenService_RefreshRejectsAccessToken(t *testing.T) {
	svc := testTokenService()

	access, err := svc.IssueAccessToken(domain.User{ID: "u1", Email: "a@x.com", Username: "a"})
	if err != nil {
		t.Fatalf("issue access token: %v", err)
	}

	if _, err := svc.VerifyRefreshToken(access); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestTokenService_RefreshRejectsTampered(t *testing.T) {
	svc := testTokenService()

	token, err := svc.IssueRefreshToken("u1")
	if err != nil {
		t.Fatalf("issue refresh token: %v", err)
	}

	tampered := token[:len(token)-2] + "xx"
	if _, err := svc.VerifyRefreshToken(tampered); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestTokenService_RefreshRejectsWrongSecret(t *testing.T) {
	svc := testTokenService()
	other := NewTokenService(TokenConfig{
		AccessSecret:  "access-secret",
		RefreshSecret: "another-secret",
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    time.Hour,
	})

	token, err := other.IssueRefreshToken("u1")
	if err != nil {
		t.Fatalf("issue refresh token: %v", err)
	}

	if _, err := svc.VerifyRefreshToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestTokenService_RefreshRejectsExpired(t *testing.T) {
	svc := NewTokenService(TokenConfig{
		AccessSecret:  "access-secret",
		RefreshSecret: "refresh-secret",
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    time.Hour,
	})

	issuedAt := time.Now().Add(-48 * time.Hour)
	svc.now = func() time.Time { return issuedAt }
	token, err := svc.IssueRefreshToken("u1")
	if err != nil {
		t.Fatalf("issue refresh token: %v", err)
	}

	svc.now = time.Now
	if _, err := svc.VerifyRefreshToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestTokenService_EmptyToken(t *testing.T) {
	svc := testTokenService()
	if _, err := svc.VerifyRefreshToken(""); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
	if _, err := svc.ParseAccessToken("  "); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}
