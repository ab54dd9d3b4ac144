package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"mediatube/internal/domain"
)

// ErrDuplicate indica violación de índice único (username o email ya existen).
var ErrDuplicate = errors.New("duplicate key")

// UserRepository define el contrato de persistencia para usuarios.
type UserRepository interface {
	Create(ctx context.Context, user domain.User) error
	GetByID(ctx context.Context, id string) (domain.User, error)
	GetByIdentifier(ctx context.Context, identifier string) (domain.User, error)
	ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error)
	UpdateRefreshToken(ctx context.Context, id, token string) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	UpdateAccount(ctx context.Context, id, fullname, email string) error
	UpdateAvatar(ctx context.Context, id, url, publicID string) error
	UpdateCoverImage(ctx context.Context, id, url, publicID string) error
}

// PgUserRepository implementa UserRepository usando pgxpool.
type PgUserRepository struct {
	pool *pgxpool.Pool
}

func NewPgUserRepository(pool *pgxpool.Pool) *PgUserRepository {
	return &PgUserRepository{pool: pool}
}

const userColumns = `
	id, username, email, fullname,
	avatar_url, avatar_id,
	COALESCE(cover_image_url, ''), COALESCE(cover_image_id, ''),
	password_hash, COALESCE(refresh_token, ''),
	created_at, updated_at
`

func scanUser(row pgx.Row) (domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.Fullname,
		&u.AvatarURL,
		&u.AvatarID,
		&u.CoverImageURL,
		&u.CoverImageID,
		&u.PasswordHash,
		&u.RefreshToken,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	return u, err
}

func (r *PgUserRepository) Create(ctx context.Context, user domain.User) error {
	const query = `
		INSERT INTO users (
			id, username, email, fullname,
			avatar_url, avatar_id, cover_image_url, cover_image_id,
			password_hash, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), NULLIF($8, ''), $9, $10, $10)
	`
	_, err := r.pool.Exec(ctx, query,
		user.ID,
		user.Username,
		user.Email,
		user.Fullname,
		user.AvatarURL,
		user.AvatarID,
		user.CoverImageURL,
		user.CoverImageID,
		user.PasswordHash,
		user.CreatedAt,
	)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

func (r *PgUserRepository) GetByID(ctx context.Context, id string) (domain.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.pool.QueryRow(ctx, query, id))
}

func (r *PgUserRepository) GetByIdentifier(ctx context.Context, identifier string) (domain.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE username = $1 OR email = $1`
	return scanUser(r.pool.QueryRow(ctx, query, identifier))
}

func (r *PgUserRepository) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM users WHERE username = $1 OR email = $2)`
	var exists bool
	err := r.pool.QueryRow(ctx, query, username, email).Scan(&exists)
	return exists, err
}

func (r *PgUserRepository) UpdateRefreshToken(ctx context.Context, id, token string) error {
	const query = `UPDATE users SET refresh_token = NULLIF($2, ''), updated_at = now() WHERE id = $1`
	return r.exec(ctx, query, id, token)
}

func (r *PgUserRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	const query = `UPDATE users SET password_hash = $2, updated_at = now() WHERE id = $1`
	return r.exec(ctx, query, id, passwordHash)
}

func (r *PgUserRepository) UpdateAccount(ctx context.Context, id, fullname, email string) error {
	const query = `UPDATE users SET fullname = $2, email = $3, updated_at = now() WHERE id = $1`
	err := r.exec(ctx, query, id, fullname, email)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

func (r *PgUserRepository) UpdateAvatar(ctx context.Context, id, url, publicID string) error {
	const query = `UPDATE users SET avatar_url = $2, avatar_id = $3, updated_at = now() WHERE id = $1`
	return r.exec(ctx, query, id, url, publicID)
}

func (r *PgUserRepository) UpdateCoverImage(ctx context.Context, id, url, publicID string) error {
	const query = `UPDATE users SET cover_image_url = $2, cover_image_id = $3, updated_at = now() WHERE id = $1`
	return r.exec(ctx, query, id, url, publicID)
}

func (r *PgUserRepository) exec(ctx context.Context, query string, args ...any) error {
	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
