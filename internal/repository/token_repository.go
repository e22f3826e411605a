package repository

import (
	"context"
	"database/sql"
	"log/slog"

	"postdeck/internal/models"
)

type TokenRepository interface {
	Create(ctx context.Context, tx *sql.Tx, token *models.LinkedinToken) (int64, error)
	GetActive(ctx context.Context, userID int64) (*models.LinkedinToken, error)
}

type tokenRepository struct {
	db *sql.DB
}

func NewTokenRepository(db *sql.DB) TokenRepository {
	return &tokenRepository{db: db}
}

func (r *tokenRepository) Create(ctx context.Context, tx *sql.Tx, token *models.LinkedinToken) (int64, error) {
	query := `
		INSERT INTO linkedin_tokens (user_id, access_token, expires_at)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	var id int64
	var err error

	if tx != nil {
		err = tx.QueryRowContext(ctx, query, token.UserID, token.AccessToken, token.ExpiresAt).Scan(&id)
	} else {
		err = r.db.QueryRowContext(ctx, query, token.UserID, token.AccessToken, token.ExpiresAt).Scan(&id)
	}
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	return id, nil
}

// GetActive returns the newest token row for the user (any user when userID
// is 0) whose expiry is absent or still in the future. Rows are never updated
// or deleted, so several may exist; only the most recent valid one counts.
func (r *tokenRepository) GetActive(ctx context.Context, userID int64) (*models.LinkedinToken, error) {
	query := `
		SELECT id, user_id, access_token, expires_at, created_at
		FROM linkedin_tokens
		WHERE ($1 = 0 OR user_id = $1)
		AND (expires_at IS NULL OR expires_at > NOW())
		ORDER BY created_at DESC
		LIMIT 1
	`

	var token models.LinkedinToken
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&token.ID, &token.UserID, &token.AccessToken, &token.ExpiresAt, &token.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}

	return &token, nil
}
