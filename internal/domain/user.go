package domain

import "time"

// User representa la cuenta de un usuario de la plataforma.
type User struct {
	ID            string    `json:"id"`
	Username      string    `json:"username"`
	Email         string    `json:"email"`
	Fullname      string    `json:"fullname"`
	AvatarURL     string    `json:"avatar"`
	AvatarID      string    `json:"-"`
	CoverImageURL string    `json:"cover_image,omitempty"`
	CoverImageID  string    `json:"-"`
	PasswordHash  string    `json:"-"`
	RefreshToken  string    `json:"-"`
	WatchHistory  []string  `json:"watch_history,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Sanitized devuelve una copia sin credenciales para respuestas HTTP.
func (u User) Sanitized() User {
	u.PasswordHash = ""
	u.RefreshToken = ""
	return u
}
