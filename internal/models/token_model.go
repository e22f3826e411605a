package models

import (
	"database/sql"
	"time"
)

// LinkedinToken rows are append-only. Tokens are stored AES-GCM encrypted;
// the newest row with an unexpired (or absent) expiry is the active one.
type LinkedinToken struct {
	ID          int64        `db:"id" json:"id"`
	UserID      int64        `db:"user_id" json:"user_id"` // 0 means single-tenant
	AccessToken string       `db:"access_token" json:"-"`
	ExpiresAt   sql.NullTime `db:"expires_at" json:"expires_at"`
	CreatedAt   time.Time    `db:"created_at" json:"created_at"`
}
