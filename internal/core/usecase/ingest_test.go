package usecase

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/getclever/docqa/internal/core/domain"
)

func TestUploadPersistsStoresAndPublishes(t *testing.T) {
	repo := newFakeDocumentRepo()
	storage := newFakeStorage()
	queue := &fakeQueue{}
	uc := NewIngestDocumentUseCase(repo, storage, queue)

	doc, err := uc.Upload(context.Background(), "My Report.txt", "text/plain", strings.NewReader("hello world"))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if doc.ID == "" {
		t.Fatal("document id is empty")
	}
	if doc.Status != domain.StatusUploaded {
		t.Errorf("status = %q, want uploaded", doc.Status)
	}
	if doc.Filename != "My Report.txt" {
		t.Errorf("filename = %q, want original preserved", doc.Filename)
	}

	wantKey := doc.ID + "_My_Report.txt"
	if doc.StoragePath != wantKey {
		t.Errorf("storage path = %q, want %q", doc.StoragePath, wantKey)
	}
	if got := storage.saved[wantKey]; got != "hello world" {
		t.Errorf("stored content = %q", got)
	}

	if _, err := repo.GetByID(context.Background(), doc.ID); err != nil {
		t.Errorf("document not persisted: %v", err)
	}
	if len(queue.published) != 1 || queue.published[0] != doc.ID {
		t.Errorf("published = %v, want the document id", queue.published)
	}
}

func TestUploadStopsOnStorageFailure(t *testing.T) {
	repo := newFakeDocumentRepo()
	queue := &fakeQueue{}
	uc := NewIngestDocumentUseCase(repo, failingStorage{}, queue)

	if _, err := uc.Upload(context.Background(), "a.txt", "text/plain", strings.NewReader("x")); err == nil {
		t.Fatal("expected storage error")
	}
	if len(repo.docs) != 0 {
		t.Error("metadata persisted despite storage failure")
	}
	if len(queue.published) != 0 {
		t.Error("event published despite storage failure")
	}
}

func TestUploadReturnsPublishError(t *testing.T) {
	uc := NewIngestDocumentUseCase(newFakeDocumentRepo(), newFakeStorage(), &fakeQueue{err: errors.New("broker down")})

	if _, err := uc.Upload(context.Background(), "a.txt", "text/plain", strings.NewReader("x")); err == nil {
		t.Fatal("expected publish error")
	}
}

func TestSanitizeFilename(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"report.txt", "report.txt"},
		{"my file.txt", "my_file.txt"},
		{"../../etc/passwd", "passwd"},
		{"weird$name!.md", "weird_name_.md"},
		{"", "document.bin"},
	}
	for _, tc := range cases {
		if got := sanitizeFilename(tc.in); got != tc.want {
			t.Errorf("sanitizeFilename(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

type failingStorage struct{}

func (failingStorage) Save(context.Context, string, io.Reader) error {
	return errors.New("disk full")
}

func (failingStorage) Open(context.Context, string) (io.ReadCloser, error) {
	return nil, errors.New("disk full")
}
