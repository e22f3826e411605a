package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"postdeck/internal/models"
	"postdeck/internal/repository"
	"postdeck/internal/transfer"
)

var ErrInvalidTransition = errors.New("only draft posts can be approved")

type PostService interface {
	Create(ctx context.Context, userID int64, pc *transfer.PostCreation) (*models.Post, time.Duration, error)
	List(ctx context.Context, userID int64, status string) ([]*models.Post, error)
	PostInfo(ctx context.Context, postID int64) (*models.Post, error)
	Approve(ctx context.Context, postID int64) error
	Remove(ctx context.Context, postID int64) error
}

type postService struct {
	pr repository.PostRepository
	mr repository.MediaRepository
}

func NewPostService(pr repository.PostRepository, mr repository.MediaRepository) PostService {
	return &postService{
		pr: pr,
		mr: mr,
	}
}

var validPlatforms = map[string]struct{}{
	models.PlatformLinkedin:  {},
	models.PlatformTwitter:   {},
	models.PlatformFacebook:  {},
	models.PlatformInstagram: {},
}

// Create stores a new post. A post with a scheduled time starts out in
// "scheduled" and the returned delay tells the caller when to fire it;
// everything else starts as a draft.
func (s *postService) Create(ctx context.Context, userID int64, pc *transfer.PostCreation) (*models.Post, time.Duration, error) {
	if pc == nil {
		err := errors.New("post creation data is nil")
		slog.Error(err.Error())
		return nil, 0, err
	}
	if pc.Content == "" {
		err := errors.New("content cannot be empty")
		slog.Info(err.Error())
		return nil, 0, err
	}

	platform := pc.Platform
	if platform == "" {
		platform = models.PlatformLinkedin
	}
	if _, ok := validPlatforms[platform]; !ok {
		err := fmt.Errorf("unknown platform: %s", platform)
		slog.Info(err.Error())
		return nil, 0, err
	}

	post := models.Post{
		UserID:   userID,
		Content:  pc.Content,
		Platform: platform,
		Status:   models.PostStatusDraft,
	}

	var delay time.Duration
	if pc.ScheduledAt != "" {
		scheduledAt, err := time.Parse(time.RFC3339, pc.ScheduledAt)
		if err != nil {
			err = fmt.Errorf("invalid scheduled time format: %w", err)
			slog.Error(err.Error())
			return nil, 0, err
		}

		post.Status = models.PostStatusScheduled
		post.ScheduledAt = sql.NullTime{Time: scheduledAt, Valid: true}

		delay = time.Until(scheduledAt)
		if delay < 0 {
			delay = 0
		}
	}

	postID, err := s.pr.Create(ctx, nil, &post)
	if err != nil {
		return nil, 0, fmt.Errorf("error creating post: %w", err)
	}
	post.ID = postID

	return &post, delay, nil
}

func (s *postService) List(ctx context.Context, userID int64, status string) ([]*models.Post, error) {
	posts, err := s.pr.List(ctx, userID, status)
	if err != nil {
		return nil, fmt.Errorf("error listing posts: %w", err)
	}
	return posts, nil
}

func (s *postService) PostInfo(ctx context.Context, postID int64) (*models.Post, error) {
	if postID == 0 {
		err := errors.New("post id is not valid")
		slog.Info(err.Error())
		return nil, err
	}

	post, err := s.pr.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}

	media, err := s.mr.ListByPostID(ctx, postID)
	if err != nil {
		return nil, err
	}
	post.Media = media

	return post, nil
}

func (s *postService) Approve(ctx context.Context, postID int64) error {
	post, err := s.pr.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if post == nil {
		return ErrPostNotFound
	}

	if post.Status != models.PostStatusDraft {
		slog.Info(ErrInvalidTransition.Error(), "status", post.Status)
		return ErrInvalidTransition
	}

	return s.pr.UpdateStatus(ctx, models.PostStatusApproved, postID)
}

func (s *postService) Remove(ctx context.Context, postID int64) error {
	post, err := s.pr.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if post == nil {
		return ErrPostNotFound
	}

	if err := s.mr.RemoveByPostID(ctx, postID); err != nil {
		return fmt.Errorf("error removing post media: %w", err)
	}

	if err := s.pr.Remove(ctx, postID); err != nil {
		return fmt.Errorf("error removing post: %w", err)
	}

	return nil
}
