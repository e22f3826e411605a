package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"strings"

	"github.com/h2non/filetype"
	"github.com/h2non/filetype/types"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"postdeck/internal/models"
	"postdeck/internal/repository"
	"postdeck/internal/transfer"
)

const maxUploadSize = 5 * 1024 * 1024 // 5MB

var (
	ErrNoFile       = errors.New("no file provided")
	ErrNotAnImage   = errors.New("only image files are allowed")
	ErrFileTooLarge = errors.New("file size must be less than 5MB")
)

// ObjectStore is the slice of R2Service the upload path needs.
type ObjectStore interface {
	Upload(ctx context.Context, key string, file []byte, filetype string) error
	PublicURL(key string) string
}

type UploadService interface {
	Upload(ctx context.Context, file *multipart.FileHeader, postID int64) (*transfer.UploadResult, error)
}

type uploadService struct {
	mr    repository.MediaRepository
	store ObjectStore
}

func NewUploadService(mr repository.MediaRepository, store ObjectStore) UploadService {
	return &uploadService{
		mr:    mr,
		store: store,
	}
}

// Upload validates the file by sniffing its content (the client-supplied
// content type is not trusted), stores it and, when a post id is given,
// links a media row to the post.
func (s *uploadService) Upload(ctx context.Context, file *multipart.FileHeader, postID int64) (*transfer.UploadResult, error) {
	if file == nil {
		slog.Info(ErrNoFile.Error())
		return nil, ErrNoFile
	}

	if file.Size > maxUploadSize {
		slog.Info(ErrFileTooLarge.Error(), "size", file.Size)
		return nil, ErrFileTooLarge
	}

	fileContent, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("error opening file: %w", err)
	}
	defer fileContent.Close()

	fileBytes, err := io.ReadAll(fileContent)
	if err != nil {
		return nil, fmt.Errorf("error reading file content: %w", err)
	}

	fileType, err := filetype.Match(fileBytes)
	if err != nil || fileType == types.Unknown {
		slog.Info("unable to detect file type")
		return nil, ErrNotAnImage
	}
	if !strings.HasPrefix(fileType.MIME.Value, "image/") {
		slog.Info(ErrNotAnImage.Error(), "mime", fileType.MIME.Value)
		return nil, ErrNotAnImage
	}

	key, err := gonanoid.New()
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	if err := s.store.Upload(ctx, key, fileBytes, fileType.MIME.Value); err != nil {
		return nil, fmt.Errorf("failed to upload file: %w", err)
	}

	publicURL := s.store.PublicURL(key)

	if postID != 0 {
		media := &models.Media{
			PostID:   postID,
			FilePath: publicURL,
			FileType: "image",
		}
		if _, err := s.mr.Create(ctx, nil, media); err != nil {
			return nil, fmt.Errorf("failed to save media record: %w", err)
		}
	}

	return &transfer.UploadResult{
		Success:  true,
		URL:      publicURL,
		FilePath: key,
	}, nil
}
