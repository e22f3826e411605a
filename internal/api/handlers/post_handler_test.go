package handlers

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"postdeck/internal/models"
	"postdeck/internal/service"
	"postdeck/internal/transfer"
)

type fakePostService struct {
	post    *models.Post
	posts   []*models.Post
	err     error
	approve error
}

func (f *fakePostService) Create(ctx context.Context, userID int64, pc *transfer.PostCreation) (*models.Post, time.Duration, error) {
	return f.post, 0, f.err
}

func (f *fakePostService) List(ctx context.Context, userID int64, status string) ([]*models.Post, error) {
	return f.posts, f.err
}

func (f *fakePostService) PostInfo(ctx context.Context, postID int64) (*models.Post, error) {
	if f.post == nil {
		return nil, service.ErrPostNotFound
	}
	return f.post, nil
}

func (f *fakePostService) Approve(ctx context.Context, postID int64) error {
	return f.approve
}

func (f *fakePostService) Remove(ctx context.Context, postID int64) error {
	return f.err
}

type fakeUploadService struct {
	result *transfer.UploadResult
	err    error
	postID int64
}

func (f *fakeUploadService) Upload(ctx context.Context, file *multipart.FileHeader, postID int64) (*transfer.UploadResult, error) {
	f.postID = postID
	return f.result, f.err
}

func newPostApp(ps *fakePostService, ls *fakeLinkedinService, us *fakeUploadService) *fiber.App {
	app := fiber.New()
	h := NewPostHandler(ps, ls, us, nil)
	app.Post("/api/post-linkedin", h.PublishPost)
	app.Post("/api/upload", h.Upload)
	app.Get("/api/posts", h.ListPosts)
	app.Post("/api/posts/approve", h.ApprovePost)
	app.Post("/api/posts/remove", h.RemovePost)
	return app
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestPublishPost(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		publishErr error
		wantStatus int
		wantBody   string
	}{
		{
			name:       "missing post id",
			body:       `{}`,
			wantStatus: fiber.StatusBadRequest,
			wantBody:   "Post ID is required",
		},
		{
			name:       "malformed body",
			body:       `{not json`,
			wantStatus: fiber.StatusBadRequest,
			wantBody:   "Post ID is required",
		},
		{
			name:       "not connected",
			body:       `{"postId":1}`,
			publishErr: service.ErrNotConnected,
			wantStatus: fiber.StatusBadRequest,
			wantBody:   "connect via OAuth",
		},
		{
			name:       "post not found",
			body:       `{"postId":1}`,
			publishErr: service.ErrPostNotFound,
			wantStatus: fiber.StatusNotFound,
			wantBody:   "Post not found",
		},
		{
			name:       "token expired",
			body:       `{"postId":1}`,
			publishErr: service.ErrTokenExpired,
			wantStatus: fiber.StatusUnauthorized,
			wantBody:   "may be expired",
		},
		{
			name:       "provider failure",
			body:       `{"postId":1}`,
			publishErr: errTest,
			wantStatus: fiber.StatusInternalServerError,
		},
		{
			name:       "success",
			body:       `{"postId":1}`,
			wantStatus: fiber.StatusOK,
			wantBody:   "urn:li:share:999",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ls := &fakeLinkedinService{
				publishErr: tt.publishErr,
				publishResult: &transfer.PublishResult{
					Success:        true,
					LinkedinPostID: "urn:li:share:999",
				},
			}
			app := newPostApp(&fakePostService{}, ls, &fakeUploadService{})

			resp, err := app.Test(jsonRequest(http.MethodPost, "/api/post-linkedin", tt.body))
			if err != nil {
				t.Fatalf("app.Test() failed: %v", err)
			}

			if resp.StatusCode != tt.wantStatus {
				t.Errorf("PublishPost status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}
			if tt.wantBody != "" {
				if body := readBody(t, resp); !strings.Contains(body, tt.wantBody) {
					t.Errorf("PublishPost body = %s, want it to contain %q", body, tt.wantBody)
				}
			}
		})
	}
}

func TestListPosts(t *testing.T) {
	t.Run("single post not found", func(t *testing.T) {
		app := newPostApp(&fakePostService{}, &fakeLinkedinService{}, &fakeUploadService{})

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/posts?id=99", nil))
		if err != nil {
			t.Fatalf("app.Test() failed: %v", err)
		}
		if resp.StatusCode != fiber.StatusNotFound {
			t.Errorf("ListPosts status = %d, want %d", resp.StatusCode, fiber.StatusNotFound)
		}
	})

	t.Run("list", func(t *testing.T) {
		ps := &fakePostService{posts: []*models.Post{{ID: 1, Content: "hello"}}}
		app := newPostApp(ps, &fakeLinkedinService{}, &fakeUploadService{})

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/posts", nil))
		if err != nil {
			t.Fatalf("app.Test() failed: %v", err)
		}
		if resp.StatusCode != fiber.StatusOK {
			t.Errorf("ListPosts status = %d, want %d", resp.StatusCode, fiber.StatusOK)
		}
		if body := readBody(t, resp); !strings.Contains(body, "hello") {
			t.Errorf("ListPosts body = %s, want the post content", body)
		}
	})
}

func TestApprovePost(t *testing.T) {
	t.Run("invalid transition", func(t *testing.T) {
		ps := &fakePostService{approve: service.ErrInvalidTransition}
		app := newPostApp(ps, &fakeLinkedinService{}, &fakeUploadService{})

		resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/api/posts/approve?id=1", nil))
		if err != nil {
			t.Fatalf("app.Test() failed: %v", err)
		}
		if resp.StatusCode != fiber.StatusBadRequest {
			t.Errorf("ApprovePost status = %d, want %d", resp.StatusCode, fiber.StatusBadRequest)
		}
	})

	t.Run("not found", func(t *testing.T) {
		ps := &fakePostService{approve: service.ErrPostNotFound}
		app := newPostApp(ps, &fakeLinkedinService{}, &fakeUploadService{})

		resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/api/posts/approve?id=99", nil))
		if err != nil {
			t.Fatalf("app.Test() failed: %v", err)
		}
		if resp.StatusCode != fiber.StatusNotFound {
			t.Errorf("ApprovePost status = %d, want %d", resp.StatusCode, fiber.StatusNotFound)
		}
	})
}

func TestUploadHandler(t *testing.T) {
	multipartBody := func(t *testing.T, postID string) (*bytes.Buffer, string) {
		t.Helper()
		var body bytes.Buffer
		writer := multipart.NewWriter(&body)
		part, err := writer.CreateFormFile("file", "photo.png")
		if err != nil {
			t.Fatalf("CreateFormFile() failed: %v", err)
		}
		if _, err := part.Write([]byte{0x89, 'P', 'N', 'G'}); err != nil {
			t.Fatalf("writing form file failed: %v", err)
		}
		if postID != "" {
			if err := writer.WriteField("postId", postID); err != nil {
				t.Fatalf("WriteField() failed: %v", err)
			}
		}
		if err := writer.Close(); err != nil {
			t.Fatalf("closing multipart writer failed: %v", err)
		}
		return &body, writer.FormDataContentType()
	}

	t.Run("missing file", func(t *testing.T) {
		app := newPostApp(&fakePostService{}, &fakeLinkedinService{}, &fakeUploadService{})

		resp, err := app.Test(jsonRequest(http.MethodPost, "/api/upload", `{}`))
		if err != nil {
			t.Fatalf("app.Test() failed: %v", err)
		}
		if resp.StatusCode != fiber.StatusBadRequest {
			t.Errorf("Upload status = %d, want %d", resp.StatusCode, fiber.StatusBadRequest)
		}
		if body := readBody(t, resp); !strings.Contains(body, "No file provided") {
			t.Errorf("Upload body = %s, want the missing file message", body)
		}
	})

	t.Run("invalid post id", func(t *testing.T) {
		app := newPostApp(&fakePostService{}, &fakeLinkedinService{}, &fakeUploadService{})

		body, contentType := multipartBody(t, "not-a-number")
		req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
		req.Header.Set("Content-Type", contentType)

		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("app.Test() failed: %v", err)
		}
		if resp.StatusCode != fiber.StatusBadRequest {
			t.Errorf("Upload status = %d, want %d", resp.StatusCode, fiber.StatusBadRequest)
		}
	})

	t.Run("validation failure maps to 400", func(t *testing.T) {
		us := &fakeUploadService{err: service.ErrNotAnImage}
		app := newPostApp(&fakePostService{}, &fakeLinkedinService{}, us)

		body, contentType := multipartBody(t, "")
		req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
		req.Header.Set("Content-Type", contentType)

		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("app.Test() failed: %v", err)
		}
		if resp.StatusCode != fiber.StatusBadRequest {
			t.Errorf("Upload status = %d, want %d", resp.StatusCode, fiber.StatusBadRequest)
		}
	})

	t.Run("passes the post id through", func(t *testing.T) {
		us := &fakeUploadService{result: &transfer.UploadResult{Success: true, URL: "https://cdn.example.com/key"}}
		app := newPostApp(&fakePostService{}, &fakeLinkedinService{}, us)

		body, contentType := multipartBody(t, "7")
		req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
		req.Header.Set("Content-Type", contentType)

		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("app.Test() failed: %v", err)
		}
		if resp.StatusCode != fiber.StatusOK {
			t.Errorf("Upload status = %d, want %d", resp.StatusCode, fiber.StatusOK)
		}
		if us.postID != 7 {
			t.Errorf("upload service got post id %d, want 7", us.postID)
		}
	})
}
