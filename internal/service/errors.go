package service

import "errors"

// Errores de negocio que los handlers traducen a códigos HTTP.
var (
	ErrMissingFields      = errors.New("all fields are required")
	ErrConflict           = errors.New("user with email or username already exists")
	ErrMissingAvatar      = errors.New("avatar file is required")
	ErrUploadFailed       = errors.New("media upload failed")
	ErrCreationFailed     = errors.New("user registration failed")
	ErrNotFound           = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrMissingToken       = errors.New("missing token")
	ErrTokenGeneration    = errors.New("token generation failed")
	ErrRateLimited        = errors.New("rate limited")
)
