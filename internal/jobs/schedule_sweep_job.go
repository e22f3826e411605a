package job

import (
	"context"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"postdeck/internal/queue"
	"postdeck/internal/repository"
)

// ScheduleSweepJob re-enqueues scheduled posts whose publish time has passed
// without a task firing, which happens when the queue backend loses its
// state between the enqueue and the scheduled time.
type ScheduleSweepJob struct {
	pr     repository.PostRepository
	client *asynq.Client
}

func NewScheduleSweepJob(pr repository.PostRepository, client *asynq.Client) *ScheduleSweepJob {
	return &ScheduleSweepJob{
		pr:     pr,
		client: client,
	}
}

func (j *ScheduleSweepJob) SweepDuePosts() {
	ctx := context.Background()

	posts, err := j.pr.ListDue(ctx, time.Now())
	if err != nil {
		slog.Info(err.Error())
		return
	}

	for _, post := range posts {
		payload := queue.PublishPostPayload{PostID: post.ID, UserID: post.UserID}
		if err := queue.EnqueuePost(j.client, payload, 0); err != nil {
			slog.Info("unable to enqueue overdue post", "post_id", post.ID, "error", err.Error())
		}
	}
}
