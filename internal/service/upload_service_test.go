package service

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// pngBytes is a minimal buffer carrying the PNG magic number, enough for
// content sniffing.
var pngBytes = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0}

type fakeObjectStore struct {
	uploaded  map[string][]byte
	uploadErr error
}

func (f *fakeObjectStore) Upload(ctx context.Context, key string, file []byte, filetype string) error {
	if f.uploadErr != nil {
		return f.uploadErr
	}
	if f.uploaded == nil {
		f.uploaded = make(map[string][]byte)
	}
	f.uploaded[key] = file
	return nil
}

func (f *fakeObjectStore) PublicURL(key string) string {
	return "https://cdn.example.com/" + key
}

// multipartFileHeader builds a *multipart.FileHeader the way a fiber handler
// receives one, by round-tripping a form through the http package.
func multipartFileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("CreateFormFile() failed: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("writing form file failed: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("closing multipart writer failed: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/upload", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if err := req.ParseMultipartForm(32 << 20); err != nil {
		t.Fatalf("ParseMultipartForm() failed: %v", err)
	}

	return req.MultipartForm.File["file"][0]
}

func TestUploadServiceUpload(t *testing.T) {
	t.Run("stores image and links media row", func(t *testing.T) {
		store := &fakeObjectStore{}
		mr := &fakeMediaRepo{}
		s := NewUploadService(mr, store)

		file := multipartFileHeader(t, "photo.png", pngBytes)
		result, err := s.Upload(context.Background(), file, 1)
		if err != nil {
			t.Fatalf("Upload() failed: %v", err)
		}

		if !result.Success {
			t.Error("Upload() success = false, want true")
		}
		if len(store.uploaded) != 1 {
			t.Fatalf("object store holds %d objects, want 1", len(store.uploaded))
		}
		if !strings.HasPrefix(result.URL, "https://cdn.example.com/") {
			t.Errorf("Upload() url = %q, want public store URL", result.URL)
		}

		if len(mr.created) != 1 {
			t.Fatalf("media repo has %d rows, want 1", len(mr.created))
		}
		if mr.created[0].PostID != 1 || mr.created[0].FilePath != result.URL {
			t.Errorf("media row = %+v, want post 1 linked to %s", mr.created[0], result.URL)
		}
	})

	t.Run("no media row without a post id", func(t *testing.T) {
		mr := &fakeMediaRepo{}
		s := NewUploadService(mr, &fakeObjectStore{})

		file := multipartFileHeader(t, "photo.png", pngBytes)
		if _, err := s.Upload(context.Background(), file, 0); err != nil {
			t.Fatalf("Upload() failed: %v", err)
		}
		if len(mr.created) != 0 {
			t.Errorf("media repo has %d rows, want 0", len(mr.created))
		}
	})

	t.Run("rejects missing file", func(t *testing.T) {
		s := NewUploadService(&fakeMediaRepo{}, &fakeObjectStore{})
		if _, err := s.Upload(context.Background(), nil, 0); err != ErrNoFile {
			t.Errorf("Upload(nil) error = %v, want %v", err, ErrNoFile)
		}
	})

	t.Run("rejects non-image content regardless of filename", func(t *testing.T) {
		store := &fakeObjectStore{}
		s := NewUploadService(&fakeMediaRepo{}, store)

		file := multipartFileHeader(t, "notes.png", []byte("plain text pretending to be a png"))
		if _, err := s.Upload(context.Background(), file, 0); err != ErrNotAnImage {
			t.Errorf("Upload() error = %v, want %v", err, ErrNotAnImage)
		}
		if len(store.uploaded) != 0 {
			t.Errorf("object store holds %d objects after rejected upload, want 0", len(store.uploaded))
		}
	})

	t.Run("rejects oversized file before reading it", func(t *testing.T) {
		store := &fakeObjectStore{}
		s := NewUploadService(&fakeMediaRepo{}, store)

		file := multipartFileHeader(t, "big.png", pngBytes)
		file.Size = maxUploadSize + 1
		if _, err := s.Upload(context.Background(), file, 0); err != ErrFileTooLarge {
			t.Errorf("Upload() error = %v, want %v", err, ErrFileTooLarge)
		}
		if len(store.uploaded) != 0 {
			t.Errorf("object store holds %d objects after rejected upload, want 0", len(store.uploaded))
		}
	})

	t.Run("store failure surfaces", func(t *testing.T) {
		store := &fakeObjectStore{uploadErr: fmt.Errorf("bucket unavailable")}
		mr := &fakeMediaRepo{}
		s := NewUploadService(mr, store)

		file := multipartFileHeader(t, "photo.png", pngBytes)
		_, err := s.Upload(context.Background(), file, 1)
		if err == nil {
			t.Fatal("Upload() succeeded, want store error")
		}
		if len(mr.created) != 0 {
			t.Errorf("media repo has %d rows after failed upload, want 0", len(mr.created))
		}
	})
}
