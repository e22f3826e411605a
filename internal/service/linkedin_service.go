package service

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	config "postdeck/configs"
	"postdeck/internal/models"
	"postdeck/internal/repository"
	"postdeck/internal/transfer"
	"postdeck/pkg/utils"

	"golang.org/x/oauth2"
)

const (
	linkedinAuthURL  = "https://www.linkedin.com/oauth/v2/authorization"
	linkedinTokenURL = "https://www.linkedin.com/oauth/v2/accessToken"
	linkedinAPIURL   = "https://api.linkedin.com"
	linkedinScope    = "openid profile w_member_social"
)

var (
	ErrNotConnected = errors.New("LinkedIn not connected. Please connect via OAuth")
	ErrPostNotFound = errors.New("post not found")
	ErrTokenExpired = errors.New("failed to get LinkedIn user info. Token may be expired")
	ErrTokenStore   = errors.New("unable to store LinkedIn token")
	ErrLocalState   = errors.New("posted to LinkedIn but failed to update database")
)

type LinkedinService interface {
	GetAuthURL(state string) string
	Callback(ctx context.Context, code, userID string) error
	Status(ctx context.Context, userID int64) (*transfer.ConnectionStatus, error)
	Publish(ctx context.Context, postID, userID int64) (*transfer.PublishResult, error)
}

type linkedinService struct {
	cfg config.Config
	tr  repository.TokenRepository
	pr  repository.PostRepository
	mr  repository.MediaRepository
	lr  repository.PostingLogRepository

	// overridable in tests
	authURL  string
	tokenURL string
	apiURL   string
}

func NewLinkedinService(
	cfg config.Config,
	tr repository.TokenRepository,
	pr repository.PostRepository,
	mr repository.MediaRepository,
	lr repository.PostingLogRepository) LinkedinService {
	return &linkedinService{
		cfg:      cfg,
		tr:       tr,
		pr:       pr,
		mr:       mr,
		lr:       lr,
		authURL:  linkedinAuthURL,
		tokenURL: linkedinTokenURL,
		apiURL:   linkedinAPIURL,
	}
}

func (s *linkedinService) redirectURI() string {
	return s.cfg.AppURL + "/api/auth/linkedin/callback"
}

func (s *linkedinService) GetAuthURL(state string) string {
	params := url.Values{}
	params.Add("response_type", "code")
	params.Add("client_id", s.cfg.LinkedinClientID)
	params.Add("redirect_uri", s.redirectURI())
	params.Add("state", state)
	params.Add("scope", linkedinScope)

	return fmt.Sprintf("%s?%s", s.authURL, params.Encode())
}

// Callback exchanges the authorization code and persists a new token row.
// Token rows are append-only; the latest valid one wins on read.
func (s *linkedinService) Callback(ctx context.Context, code, userID string) error {
	if code == "" {
		err := errors.New("code is empty")
		slog.Info(err.Error())
		return err
	}

	oauth2Config := &oauth2.Config{
		ClientID:     s.cfg.LinkedinClientID,
		ClientSecret: s.cfg.LinkedinClientSecret,
		RedirectURL:  s.redirectURI(),
		Endpoint: oauth2.Endpoint{
			AuthURL:   s.authURL,
			TokenURL:  s.tokenURL,
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}

	token, err := oauth2Config.Exchange(ctx, code)
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) {
			slog.Info("token exchange failed", "body", string(retrieveErr.Body))
		} else {
			slog.Info(err.Error())
		}
		return fmt.Errorf("token exchange failed: %w", err)
	}

	encryptedToken, err := utils.Encrypt([]byte(token.AccessToken), []byte(s.cfg.SecretKey))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTokenStore, err)
	}

	var expiresAt sql.NullTime
	if !token.Expiry.IsZero() {
		expiresAt = sql.NullTime{Time: token.Expiry, Valid: true}
	}

	var uid int64
	if userID != "" {
		uid, _ = strconv.ParseInt(userID, 10, 64)
	}

	tokenRecord := &models.LinkedinToken{
		UserID:      uid,
		AccessToken: encryptedToken,
		ExpiresAt:   expiresAt,
	}

	if _, err := s.tr.Create(ctx, nil, tokenRecord); err != nil {
		return fmt.Errorf("%w: %v", ErrTokenStore, err)
	}

	return nil
}

func (s *linkedinService) Status(ctx context.Context, userID int64) (*transfer.ConnectionStatus, error) {
	token, err := s.tr.GetActive(ctx, userID)
	if err != nil {
		return nil, err
	}

	status := &transfer.ConnectionStatus{Connected: token != nil}
	if token != nil && token.ExpiresAt.Valid {
		status.ExpiresAt = token.ExpiresAt.Time.Format(time.RFC3339)
	}

	return status, nil
}

// Publish loads a post with its media, resolves the actor via /v2/userinfo
// and submits a UGC share. The audit log entry is written before the local
// status flip so the external post id survives a failed update. There are no
// retries; a re-invocation after a partial failure publishes a duplicate.
func (s *linkedinService) Publish(ctx context.Context, postID, userID int64) (*transfer.PublishResult, error) {
	accessToken, err := s.resolveToken(ctx, userID)
	if err != nil {
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

	userInfo, err := s.fetchUserInfo(ctx, accessToken)
	if err != nil {
		return nil, err
	}

	author := fmt.Sprintf("urn:li:person:%s", userInfo.Sub)

	ugcPost := transfer.UGCPost{
		Author:         author,
		LifecycleState: "PUBLISHED",
		SpecificContent: transfer.SpecificContent{
			ShareContent: transfer.ShareContent{
				ShareCommentary:    transfer.ShareCommentary{Text: post.Content},
				ShareMediaCategory: "NONE",
			},
		},
		Visibility: transfer.UGCVisibility{MemberNetworkVisibility: "PUBLIC"},
	}

	if len(post.Media) > 0 {
		shareMedia, err := s.uploadImages(ctx, accessToken, author, post.Media)
		if err != nil {
			s.logFailure(ctx, postID, fmt.Sprintf("LinkedIn image upload error: %v", err))
			return nil, fmt.Errorf("failed to post to LinkedIn: %w", err)
		}
		ugcPost.SpecificContent.ShareContent.ShareMediaCategory = "IMAGE"
		ugcPost.SpecificContent.ShareContent.Media = shareMedia
	}

	linkedinPostID, err := s.submitUGCPost(ctx, accessToken, &ugcPost)
	if err != nil {
		s.logFailure(ctx, postID, fmt.Sprintf("LinkedIn API error: %v", err))
		return nil, fmt.Errorf("failed to post to LinkedIn: %w", err)
	}

	entry := &models.PostingLog{
		PostID:  postID,
		Action:  models.LogActionPosted,
		Message: fmt.Sprintf("Posted to LinkedIn successfully. Post ID: %s", linkedinPostID),
	}
	if _, err := s.lr.Create(ctx, entry); err != nil {
		log.Printf("Error saving posting log for PostID %d: %v", postID, err)
	}

	if err := s.pr.MarkPosted(ctx, postID, linkedinPostID, time.Now()); err != nil {
		return nil, ErrLocalState
	}

	return &transfer.PublishResult{
		Success:        true,
		Message:        "Posted to LinkedIn successfully!",
		LinkedinPostID: linkedinPostID,
	}, nil
}

// resolveToken prefers the newest valid token row and falls back to the
// static token from the environment when no row exists.
func (s *linkedinService) resolveToken(ctx context.Context, userID int64) (string, error) {
	tokenRecord, err := s.tr.GetActive(ctx, userID)
	if err != nil {
		return "", err
	}

	if tokenRecord != nil {
		accessToken, err := utils.Decrypt(tokenRecord.AccessToken, []byte(s.cfg.SecretKey))
		if err != nil {
			return "", err
		}
		return accessToken, nil
	}

	if s.cfg.LinkedinAccessToken != "" {
		return s.cfg.LinkedinAccessToken, nil
	}

	return "", ErrNotConnected
}

func (s *linkedinService) fetchUserInfo(ctx context.Context, accessToken string) (*transfer.LinkedinUserInfo, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", s.apiURL+"/v2/userinfo", nil)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		slog.Info("LinkedIn user info error", "status", resp.StatusCode, "body", string(body))
		return nil, ErrTokenExpired
	}

	var userInfo transfer.LinkedinUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&userInfo); err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	return &userInfo, nil
}

func (s *linkedinService) submitUGCPost(ctx context.Context, accessToken string, ugcPost *transfer.UGCPost) (string, error) {
	jsonData, err := json.Marshal(ugcPost)
	if err != nil {
		slog.Info(err.Error())
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.apiURL+"/v2/ugcPosts", bytes.NewBuffer(jsonData))
	if err != nil {
		slog.Info(err.Error())
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Restli-Protocol-Version", "2.0.0")

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		slog.Info(err.Error())
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		slog.Info("LinkedIn API error", "status", resp.StatusCode, "body", string(body))

		var errResp transfer.LinkedinErrorResponse
		if jsonErr := json.Unmarshal(body, &errResp); jsonErr == nil && errResp.Message != "" {
			return "", errors.New(errResp.Message)
		}
		return "", fmt.Errorf("unknown error (status %d)", resp.StatusCode)
	}

	var result transfer.UGCPostResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		slog.Info(err.Error())
		return "", err
	}

	return result.ID, nil
}

// uploadImages registers each image with LinkedIn, pushes the bytes from the
// stored public URL to the returned upload endpoint and collects asset URNs.
func (s *linkedinService) uploadImages(ctx context.Context, accessToken, owner string, media []*models.Media) ([]transfer.ShareMedia, error) {
	shareMedia := make([]transfer.ShareMedia, 0, len(media))

	for _, m := range media {
		upload, err := s.registerUpload(ctx, accessToken, owner)
		if err != nil {
			return nil, err
		}

		imageBytes, err := fetchBytes(ctx, m.FilePath)
		if err != nil {
			return nil, err
		}

		if err := s.putImage(ctx, accessToken, upload.UploadMechanism.MediaUploadHTTPRequest.UploadURL, imageBytes); err != nil {
			return nil, err
		}

		shareMedia = append(shareMedia, transfer.ShareMedia{
			Status: "READY",
			Media:  upload.Asset,
		})
	}

	return shareMedia, nil
}

func (s *linkedinService) registerUpload(ctx context.Context, accessToken, owner string) (*transfer.RegisterUploadValue, error) {
	request := transfer.RegisterUploadRequest{
		RegisterUploadRequestBody: transfer.RegisterUploadRequestBody{
			Recipes: []string{"urn:li:digitalmediaRecipe:feedshare-image"},
			Owner:   owner,
			ServiceRelationships: []transfer.ServiceRelationship{
				{
					RelationshipType: "OWNER",
					Identifier:       "urn:li:userGeneratedContent",
				},
			},
		},
	}

	jsonData, err := json.Marshal(request)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.apiURL+"/v2/assets?action=registerUpload", bytes.NewBuffer(jsonData))
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		slog.Info("LinkedIn asset registration error", "status", resp.StatusCode, "body", string(body))
		return nil, fmt.Errorf("asset registration failed (status %d)", resp.StatusCode)
	}

	var result transfer.RegisterUploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	return &result.Value, nil
}

func (s *linkedinService) putImage(ctx context.Context, accessToken, uploadURL string, imageBytes []byte) error {
	req, err := http.NewRequestWithContext(ctx, "PUT", uploadURL, bytes.NewReader(imageBytes))
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		slog.Info("LinkedIn image upload error", "status", resp.StatusCode, "body", string(body))
		return fmt.Errorf("image upload failed (status %d)", resp.StatusCode)
	}

	return nil
}

func (s *linkedinService) logFailure(ctx context.Context, postID int64, message string) {
	entry := &models.PostingLog{
		PostID:  postID,
		Action:  models.LogActionFailed,
		Message: message,
	}
	if _, err := s.lr.Create(ctx, entry); err != nil {
		log.Printf("Error saving posting log for PostID %d: %v", postID, err)
	}
}

func fetchBytes(ctx context.Context, fileURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", fileURL, nil)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching %s returned status %d", fileURL, resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}
