package http

import (
	"context"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"mediatube/internal/domain"
	"mediatube/internal/service"
)

// UserHandler mantiene dependencias para endpoints de usuarios y sesión.
type UserHandler struct {
	logger        *zap.Logger
	registration  *service.RegistrationService
	sessions      *service.SessionService
	users         *service.UserService
	tempDir       string
	secureCookies bool
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

// UserHandlerOptions agrupa las opciones de transporte del handler.
type UserHandlerOptions struct {
	TempDir       string
	SecureCookies bool
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

// NewUserHandler crea una instancia de UserHandler con sus dependencias.
func NewUserHandler(
	logger *zap.Logger,
	registration *service.RegistrationService,
	sessions *service.SessionService,
	users *service.UserService,
	opts UserHandlerOptions,
) *UserHandler {
	if opts.TempDir == "" {
		opts.TempDir = "./public/temp"
	}
	return &UserHandler{
		logger:        logger,
		registration:  registration,
		sessions:      sessions,
		users:         users,
		tempDir:       opts.TempDir,
		secureCookies: opts.SecureCookies,
		accessTTL:     opts.AccessTTL,
		refreshTTL:    opts.RefreshTTL,
	}
}

// Register maneja POST /users/register (multipart con avatar y coverImage).
func (h *UserHandler) Register(c *gin.Context) {
	input := service.RegisterInput{
		Fullname: c.PostForm("fullname"),
		Email:    c.PostForm("email"),
		Username: c.PostForm("username"),
		Password: c.PostForm("password"),
	}

	avatarPath, err := h.saveUpload(c, "avatar")
	if err != nil {
		h.logger.Error("save avatar upload failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "could not receive avatar file")
		return
	}
	coverPath, err := h.saveUpload(c, "coverImage")
	if err != nil {
		h.logger.Error("save cover image upload failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "could not receive cover image file")
		return
	}
	input.AvatarLocalPath = avatarPath
	input.CoverImageLocalPath = coverPath

	user, err := h.registration.Register(c.Request.Context(), input)
	if err != nil {
		respondServiceError(c, err, "could not register user")
		return
	}

	respond(c, http.StatusCreated, user, "User registered successfully")
}

// Login maneja POST /users/login.
func (h *UserHandler) Login(c *gin.Context) {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid login request", zap.Error(err))
		respondError(c, http.StatusBadRequest, "username or email and password are required")
		return
	}

	identifier := req.Username
	if identifier == "" {
		identifier = req.Email
	}

	user, tokens, err := h.sessions.Login(c.Request.Context(), identifier, req.Password)
	if err != nil {
		respondServiceError(c, err, "could not login")
		return
	}

	setAuthCookies(c, tokens, h.accessTTL, h.refreshTTL, h.secureCookies)
	respond(c, http.StatusOK, gin.H{
		"user":         user,
		"accessToken":  tokens.AccessToken,
		"refreshToken": tokens.RefreshToken,
	}, "User logged in successfully")
}

// Refresh maneja POST /users/refresh-token. El refresh token puede venir en
// la cookie o en el body.
func (h *UserHandler) Refresh(c *gin.Context) {
	presented, _ := c.Cookie(refreshTokenCookie)
	if presented == "" {
		var req struct {
			RefreshToken string `json:"refreshToken"`
		}
		if err := c.ShouldBindJSON(&req); err == nil {
			presented = req.RefreshToken
		}
	}

	tokens, err := h.sessions.Refresh(c.Request.Context(), presented)
	if err != nil {
		respondServiceError(c, err, "could not refresh session")
		return
	}

	setAuthCookies(c, tokens, h.accessTTL, h.refreshTTL, h.secureCookies)
	respond(c, http.StatusOK, gin.H{
		"accessToken":  tokens.AccessToken,
		"refreshToken": tokens.RefreshToken,
	}, "Access token refreshed")
}

// Logout maneja POST /users/logout.
func (h *UserHandler) Logout(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, service.ErrMissingToken.Error())
		return
	}

	if err := h.sessions.Logout(c.Request.Context(), claims.UserID); err != nil {
		respondServiceError(c, err, "could not logout")
		return
	}

	clearAuthCookies(c, h.secureCookies)
	respond(c, http.StatusOK, nil, "User logged out successfully")
}

// Me maneja GET /users/me.
func (h *UserHandler) Me(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, service.ErrMissingToken.Error())
		return
	}

	user, err := h.users.GetByID(c.Request.Context(), claims.UserID)
	if err != nil {
		respondServiceError(c, err, "could not fetch user")
		return
	}

	respond(c, http.StatusOK, user, "Current user fetched successfully")
}

// ChangePassword maneja POST /users/change-password.
func (h *UserHandler) ChangePassword(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, service.ErrMissingToken.Error())
		return
	}

	var req struct {
		OldPassword string `json:"oldPassword" binding:"required"`
		NewPassword string `json:"newPassword" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, service.ErrMissingFields.Error())
		return
	}

	if err := h.users.ChangePassword(c.Request.Context(), claims.UserID, req.OldPassword, req.NewPassword); err != nil {
		respondServiceError(c, err, "could not change password")
		return
	}

	respond(c, http.StatusOK, nil, "Password changed successfully")
}

// UpdateAccount maneja PATCH /users/update-account.
func (h *UserHandler) UpdateAccount(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, service.ErrMissingToken.Error())
		return
	}

	var req struct {
		Fullname string `json:"fullname" binding:"required"`
		Email    string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, service.ErrMissingFields.Error())
		return
	}

	user, err := h.users.UpdateAccount(c.Request.Context(), claims.UserID, req.Fullname, req.Email)
	if err != nil {
		respondServiceError(c, err, "could not update account")
		return
	}

	respond(c, http.StatusOK, user, "Account details updated successfully")
}

// UpdateAvatar maneja PATCH /users/avatar.
func (h *UserHandler) UpdateAvatar(c *gin.Context) {
	h.updateMedia(c, "avatar", h.users.UpdateAvatar, "Avatar updated successfully")
}

// UpdateCoverImage maneja PATCH /users/cover-image.
func (h *UserHandler) UpdateCoverImage(c *gin.Context) {
	h.updateMedia(c, "coverImage", h.users.UpdateCoverImage, "Cover image updated successfully")
}

func (h *UserHandler) updateMedia(
	c *gin.Context,
	field string,
	update func(ctx context.Context, id, localPath string) (domain.User, error),
	message string,
) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, service.ErrMissingToken.Error())
		return
	}

	localPath, err := h.saveUpload(c, field)
	if err != nil {
		h.logger.Error("save media upload failed", zap.Error(err), zap.String("field", field))
		respondError(c, http.StatusInternalServerError, "could not receive media file")
		return
	}

	user, err := update(c.Request.Context(), claims.UserID, localPath)
	if err != nil {
		respondServiceError(c, err, "could not update media")
		return
	}

	respond(c, http.StatusOK, user, message)
}

func (h *UserHandler) saveUpload(c *gin.Context, field string) (string, error) {
	file, err := c.FormFile(field)
	if err != nil {
		// Campo ausente: no es un error de transporte.
		return "", nil
	}
	return h.persistUpload(c, file)
}

func (h *UserHandler) persistUpload(c *gin.Context, file *multipart.FileHeader) (string, error) {
	dst := filepath.Join(h.tempDir, uuid.NewString()+filepath.Ext(file.Filename))
	if err := c.SaveUploadedFile(file, dst); err != nil {
		return "", err
	}
	return dst, nil
}
