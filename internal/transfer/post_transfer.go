package transfer

import "github.com/golang-jwt/jwt/v5"

type PostCreation struct {
	Content     string `json:"content"`
	Platform    string `json:"platform"`
	ScheduledAt string `json:"scheduled_at"`
}

type PublishRequest struct {
	PostID int64 `json:"postId"`
}

type PublishResult struct {
	Success        bool   `json:"success"`
	Message        string `json:"message"`
	LinkedinPostID string `json:"linkedInPostId,omitempty"`
}

type ConnectionStatus struct {
	Connected bool   `json:"connected"`
	ExpiresAt string `json:"expires_at,omitempty"`
}

type UploadResult struct {
	Success  bool   `json:"success"`
	URL      string `json:"url"`
	FilePath string `json:"filePath"`
}

// StateClaims is the signed OAuth state: a random nonce for CSRF protection
// plus the optional user id carried through the authorization round-trip.
type StateClaims struct {
	Nonce  string `json:"nonce"`
	UserID string `json:"user_id,omitempty"`
	jwt.RegisteredClaims
}
