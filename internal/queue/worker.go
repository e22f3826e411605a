package queue

import (
	"context"
	"encoding/json"
	"log"
	"log/slog"

	"github.com/hibiken/asynq"
	"postdeck/internal/models"
)

func (q *Queue) HandlePublishPostTask(ctx context.Context, task *asynq.Task) error {
	var payload PublishPostPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return err
	}

	return q.PublishPost(ctx, payload.PostID, payload.UserID)
}

// PublishPost fires a scheduled post. The status re-check narrows the window
// for duplicate publishes when the sweep and a delayed task race, but does
// not close it; concurrent invocations are not serialized.
func (q *Queue) PublishPost(ctx context.Context, postID, userID int64) error {
	post, err := q.pr.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if post == nil {
		slog.Info("scheduled post no longer exists", "post_id", postID)
		return nil
	}

	if post.Status != models.PostStatusScheduled && post.Status != models.PostStatusApproved {
		slog.Info("skipping publish, post status changed", "post_id", postID, "status", post.Status)
		return nil
	}

	if post.Platform != models.PlatformLinkedin {
		slog.Info("skipping publish, platform has no publish path", "post_id", postID, "platform", post.Platform)
		return nil
	}

	result, err := q.ls.Publish(ctx, postID, userID)
	if err != nil {
		log.Printf("Error publishing PostID %d: %v", postID, err)
		// Terminal: mark failed so the sweep does not refire it.
		if updateErr := q.pr.UpdateStatus(ctx, models.PostStatusFailed, postID); updateErr != nil {
			log.Printf("Error marking PostID %d failed: %v", postID, updateErr)
		}
		return nil
	}

	log.Printf("Published PostID %d as %s", postID, result.LinkedinPostID)
	return nil
}
