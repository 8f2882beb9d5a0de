package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/netdesk/internal/domain"
)

// RefreshTokenRepository persists long-lived refresh credentials.
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *domain.RefreshToken) error
	GetByToken(ctx context.Context, token string) (*domain.RefreshToken, error)
	DeleteByToken(ctx context.Context, token string) error
	DeleteByUser(ctx context.Context, userID int64) error
}

type refreshTokenRepository struct {
	pool *pgxpool.Pool
}

// NewRefreshTokenRepository instantiates repository.
func NewRefreshTokenRepository(pool *pgxpool.Pool) RefreshTokenRepository {
	return &refreshTokenRepository{pool: pool}
}

func (r *refreshTokenRepository) Create(ctx context.Context, token *domain.RefreshToken) error {
	const query = `
        INSERT INTO refresh_tokens (token, user_id, expires_at)
        VALUES ($1, $2, $3)
        RETURNING id, created_at`
	return querier(ctx, r.pool).QueryRow(ctx, query,
		token.Token,
		token.UserID,
		token.ExpiresAt,
	).Scan(&token.ID, &token.CreatedAt)
}

func (r *refreshTokenRepository) GetByToken(ctx context.Context, token string) (*domain.RefreshToken, error) {
	var record domain.RefreshToken
	if err := querier(ctx, r.pool).QueryRow(ctx,
		`SELECT id, token, user_id, created_at, expires_at FROM refresh_tokens WHERE token=$1`,
		token,
	).Scan(&record.ID, &record.Token, &record.UserID, &record.CreatedAt, &record.ExpiresAt); err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *refreshTokenRepository) DeleteByToken(ctx context.Context, token string) error {
	_, err := querier(ctx, r.pool).Exec(ctx, `DELETE FROM refresh_tokens WHERE token=$1`, token)
	return err
}

func (r *refreshTokenRepository) DeleteByUser(ctx context.Context, userID int64) error {
	_, err := querier(ctx, r.pool).Exec(ctx, `DELETE FROM refresh_tokens WHERE user_id=$1`, userID)
	return err
}
