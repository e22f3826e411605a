package queue

import (
	"postdeck/internal/repository"
	"postdeck/internal/service"
)

type Queue struct {
	pr repository.PostRepository
	ls service.LinkedinService
}

func NewQueue(pr repository.PostRepository, ls service.LinkedinService) *Queue {
	return &Queue{
		pr: pr,
		ls: ls,
	}
}

const TaskTypePublishPost = "publish:post"

type PublishPostPayload struct {
	PostID int64 `json:"post_id"`
	UserID int64 `json:"user_id"`
}
