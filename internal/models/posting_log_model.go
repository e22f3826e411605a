package models

import "time"

type PostingLog struct {
	ID        int64     `db:"id" json:"id"`
	PostID    int64     `db:"post_id" json:"post_id"`
	Action    string    `db:"action" json:"action"` // posted, failed
	Message   string    `db:"message" json:"message"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

const (
	LogActionPosted = "posted"
	LogActionFailed = "failed"
)
