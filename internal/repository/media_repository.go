package repository

import (
	"context"
	"database/sql"
	"log/slog"

	"postdeck/internal/models"
)

type MediaRepository interface {
	Create(ctx context.Context, tx *sql.Tx, media *models.Media) (int64, error)
	ListByPostID(ctx context.Context, postID int64) ([]*models.Media, error)
	RemoveByPostID(ctx context.Context, postID int64) error
}

type mediaRepository struct {
	db *sql.DB
}

func NewMediaRepository(db *sql.DB) MediaRepository {
	return &mediaRepository{db: db}
}

func (r *mediaRepository) Create(ctx context.Context, tx *sql.Tx, media *models.Media) (int64, error) {
	query := `
		INSERT INTO media (post_id, file_path, file_type)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	var id int64
	var err error

	if tx != nil {
		err = tx.QueryRowContext(ctx, query, media.PostID, media.FilePath, media.FileType).Scan(&id)
	} else {
		err = r.db.QueryRowContext(ctx, query, media.PostID, media.FilePath, media.FileType).Scan(&id)
	}
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	return id, nil
}

func (r *mediaRepository) ListByPostID(ctx context.Context, postID int64) ([]*models.Media, error) {
	query := `
		SELECT id, post_id, file_path, file_type, created_at
		FROM media
		WHERE post_id = $1
		ORDER BY created_at
	`

	rows, err := r.db.QueryContext(ctx, query, postID)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var medias []*models.Media
	for rows.Next() {
		var media models.Media
		if err := rows.Scan(&media.ID, &media.PostID, &media.FilePath, &media.FileType, &media.CreatedAt); err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		medias = append(medias, &media)
	}

	if err := rows.Err(); err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	return medias, nil
}

func (r *mediaRepository) RemoveByPostID(ctx context.Context, postID int64) error {
	query := `DELETE FROM media WHERE post_id = $1`
	_, err := r.db.ExecContext(ctx, query, postID)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}
