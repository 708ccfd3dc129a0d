package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDiskStore_SaveImage(t *testing.T) {
	dir := t.TempDir()
	store, err := NewDiskStore(dir, "/uploads")
	if err != nil {
		t.Fatalf("NewDiskStore() error = %v", err)
	}

	url, err := store.Save(context.Background(), "image/png", strings.NewReader("fake-png-bytes"))
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if !strings.HasPrefix(url, "/uploads/") || !strings.HasSuffix(url, ".png") {
		t.Errorf("url = %q, want /uploads/<name>.png", url)
	}

	name := strings.TrimPrefix(url, "/uploads/")
	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		t.Fatalf("reading stored file: %v", err)
	}
	if string(data) != "fake-png-bytes" {
		t.Errorf("stored bytes = %q", data)
	}
}

func TestDiskStore_ExtensionsPerContentType(t *testing.T) {
	tests := []struct {
		contentType string
		wantExt     string
	}{
		{"image/jpeg", ".jpg"},
		{"image/png", ".png"},
		{"image/gif", ".gif"},
		{"image/webp", ".webp"},
	}

	store, err := NewDiskStore(t.TempDir(), "/uploads")
	if err != nil {
		t.Fatalf("NewDiskStore() error = %v", err)
	}

	for _, tt := range tests {
		t.Run(tt.contentType, func(t *testing.T) {
			url, err := store.Save(context.Background(), tt.contentType, strings.NewReader("x"))
			if err != nil {
				t.Fatalf("Save() error = %v", err)
			}
			if !strings.HasSuffix(url, tt.wantExt) {
				t.Errorf("url = %q, want suffix %q", url, tt.wantExt)
			}
		})
	}
}

func TestDiskStore_RejectsNonImages(t *testing.T) {
	store, err := NewDiskStore(t.TempDir(), "/uploads")
	if err != nil {
		t.Fatalf("NewDiskStore() error = %v", err)
	}

	for _, contentType := range []string{"text/html", "application/pdf", ""} {
		if _, err := store.Save(context.Background(), contentType, strings.NewReader("x")); !errors.Is(err, ErrUnsupportedType) {
			t.Errorf("Save(%q) error = %v, want ErrUnsupportedType", contentType, err)
		}
	}
}

func TestDiskStore_UniqueNames(t *testing.T) {
	store, err := NewDiskStore(t.TempDir(), "/uploads")
	if err != nil {
		t.Fatalf("NewDiskStore() error = %v", err)
	}

	first, _ := store.Save(context.Background(), "image/png", strings.NewReader("a"))
	second, _ := store.Save(context.Background(), "image/png", strings.NewReader("b"))
	if first == second {
		t.Errorf("two saves produced the same URL: %q", first)
	}
}
