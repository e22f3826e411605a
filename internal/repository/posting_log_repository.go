package repository

import (
	"context"
	"database/sql"
	"log/slog"

	"postdeck/internal/models"
)

// The posting log is an append-only audit trail; nothing in the API reads it
// back, so the interface stays write-heavy.
type PostingLogRepository interface {
	Create(ctx context.Context, entry *models.PostingLog) (int64, error)
	ListByPostID(ctx context.Context, postID int64) ([]*models.PostingLog, error)
}

type postingLogRepository struct {
	db *sql.DB
}

func NewPostingLogRepository(db *sql.DB) PostingLogRepository {
	return &postingLogRepository{db: db}
}

func (r *postingLogRepository) Create(ctx context.Context, entry *models.PostingLog) (int64, error) {
	query := `
		INSERT INTO posting_logs (post_id, action, message)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRowContext(ctx, query, entry.PostID, entry.Action, entry.Message).Scan(&id)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	return id, nil
}

func (r *postingLogRepository) ListByPostID(ctx context.Context, postID int64) ([]*models.PostingLog, error) {
	query := `SELECT id, post_id, action, message, created_at FROM posting_logs WHERE post_id = $1 ORDER BY created_at`

	rows, err := r.db.QueryContext(ctx, query, postID)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var entries []*models.PostingLog
	for rows.Next() {
		var entry models.PostingLog
		if err := rows.Scan(&entry.ID, &entry.PostID, &entry.Action, &entry.Message, &entry.CreatedAt); err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		entries = append(entries, &entry)
	}

	if err := rows.Err(); err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	return entries, nil
}
