package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestFileStoreWriteAndSanitize(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("new file store: %v", err)
	}

	key, err := store.Write(context.Background(), "originals/abc.png", []byte("data"))
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	if key != "originals/abc.png" {
		t.Fatalf("key = %q", key)
	}
	if _, err := os.Stat(filepath.Join(store.BasePath(), "originals", "abc.png")); err != nil {
		t.Fatalf("stored file missing: %v", err)
	}

	if _, err := store.Write(context.Background(), "../escape.png", []byte("data")); err == nil {
		t.Fatal("traversal key accepted")
	}
	if _, err := store.Write(context.Background(), "", []byte("data")); err == nil {
		t.Fatal("empty key accepted")
	}
}
