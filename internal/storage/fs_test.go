package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/starford/contractviewer/internal/apperr"
)

func tempStore(t *testing.T) (*FS, string) {
	t.Helper()
	dir := t.TempDir()
	fs, err := NewFS(dir)
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}
	return fs, dir
}

func TestDownload(t *testing.T) {
	s, dir := tempStore(t)
	content := []byte(`{"data": {}}`)
	if err := os.WriteFile(filepath.Join(dir, "data.json"), content, 0o644); err != nil {
		t.Fatal(err)
	}

	obj, err := s.Download(context.Background(), "/data.json")
	if err != nil {
		t.Fatalf("Download: %v", err)
	}
	if string(obj.Data) != string(content) {
		t.Errorf("data = %q", obj.Data)
	}
	if obj.Path != "/data.json" {
		t.Errorf("path = %q", obj.Path)
	}
	if obj.Size != int64(len(content)) {
		t.Errorf("size = %d", obj.Size)
	}
	if obj.LastModified.IsZero() {
		t.Error("last modified not set")
	}
}

func TestDownloadNested(t *testing.T) {
	s, dir := tempStore(t)
	if err := os.MkdirAll(filepath.Join(dir, "exports"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "exports", "a.json"), []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}
	obj, err := s.Download(context.Background(), "exports/a.json")
	if err != nil {
		t.Fatalf("Download: %v", err)
	}
	if obj.Path != "/exports/a.json" {
		t.Errorf("path = %q", obj.Path)
	}
}

func TestDownloadMissing(t *testing.T) {
	s, _ := tempStore(t)
	_, err := s.Download(context.Background(), "/nope.json")
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestDownloadRejectsTraversal(t *testing.T) {
	s, _ := tempStore(t)
	for _, p := range []string{"../etc/passwd", "/../secret.json", "a/../../b.json", "", "/"} {
		if _, err := s.Download(context.Background(), p); err == nil {
			t.Errorf("Download(%q) should fail", p)
		}
	}
}

func TestDownloadCancelled(t *testing.T) {
	s, _ := tempStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := s.Download(ctx, "/data.json"); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestNewFSRejectsFile(t *testing.T) {
	dir := t.TempDir()
	f := filepath.Join(dir, "file")
	_ = os.WriteFile(f, []byte("x"), 0o644)
	if _, err := NewFS(f); err == nil {
		t.Error("NewFS on a file should fail")
	}
}
