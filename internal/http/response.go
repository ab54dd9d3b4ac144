package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"mediatube/internal/service"
)

// APIResponse es el envelope uniforme de todas las respuestas.
type APIResponse struct {
	StatusCode int    `json:"statusCode"`
	Data       any    `json:"data,omitempty"`
	Message    string `json:"message"`
	Success    bool   `json:"success"`
}

func respond(c *gin.Context, status int, data any, message string) {
	c.JSON(status, APIResponse{
		StatusCode: status,
		Data:       data,
		Message:    message,
		Success:    status < http.StatusBadRequest,
	})
}

func respondError(c *gin.Context, status int, message string) {
	respond(c, status, nil, message)
}

// respondServiceError traduce errores de negocio a su clase HTTP. Errores
// no reconocidos salen como 500 genérico sin detalle interno.
func respondServiceError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrMissingFields),
		errors.Is(err, service.ErrMissingAvatar):
		respondError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrInvalidToken),
		errors.Is(err, service.ErrMissingToken):
		respondError(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrNotFound):
		respondError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrConflict):
		respondError(c, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrRateLimited):
		respondError(c, http.StatusTooManyRequests, err.Error())
	case errors.Is(err, service.ErrUploadFailed),
		errors.Is(err, service.ErrCreationFailed),
		errors.Is(err, service.ErrTokenGeneration):
		respondError(c, http.StatusInternalServerError, err.Error())
	default:
		respondError(c, http.StatusInternalServerError, fallback)
	}
}

const (
	accessTokenCookie  = "accessToken"
	refreshTokenCookie = "refreshToken"
)

func setAuthCookies(c *gin.Context, tokens service.SessionTokens, accessTTL, refreshTTL time.Duration, secure bool) {
	c.SetCookie(accessTokenCookie, tokens.AccessToken, int(accessTTL.Seconds()), "/", "", secure, true)
	c.SetCookie(refreshTokenCookie, tokens.RefreshToken, int(refreshTTL.Seconds()), "/", "", secure, true)
}

func clearAuthCookies(c *gin.Context, secure bool) {
	c.SetCookie(accessTokenCookie, "", -1, "/", "", secure, true)
	c.SetCookie(refreshTokenCookie, "", -1, "/", "", secure, true)
}
