package models

import (
	"database/sql"
	"time"
)

type Post struct {
	ID             int64          `db:"id" json:"id"`
	UserID         int64          `db:"user_id" json:"user_id"`
	Content        string         `db:"content" json:"content"`
	Platform       string         `db:"platform" json:"platform"`
	Status         string         `db:"status" json:"status"` // draft, scheduled, approved, posted, failed
	ScheduledAt    sql.NullTime   `db:"scheduled_at" json:"scheduled_at"`
	PostedAt       sql.NullTime   `db:"posted_at" json:"posted_at"`
	PlatformPostID sql.NullString `db:"platform_post_id" json:"platform_post_id"`
	CreatedAt      time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at" json:"updated_at"`

	Media []*Media `db:"-" json:"media,omitempty"`
}

type Media struct {
	ID        int64     `db:"id" json:"id"`
	PostID    int64     `db:"post_id" json:"post_id"`
	FilePath  string    `db:"file_path" json:"file_path"`
	FileType  string    `db:"file_type" json:"file_type"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

const (
	PostStatusDraft     = "draft"
	PostStatusScheduled = "scheduled"
	PostStatusApproved  = "approved"
	PostStatusPosted    = "posted"
	PostStatusFailed    = "failed"
)

const (
	PlatformLinkedin  = "linkedin"
	PlatformTwitter   = "twitter"
	PlatformFacebook  = "facebook"
	PlatformInstagram = "instagram"
)
