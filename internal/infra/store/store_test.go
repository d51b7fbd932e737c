package store_test

import (
	"path/filepath"
	"testing"

	"github.com/rafisgodoy/unibus-core-go/internal/domain"
	"github.com/rafisgodoy/unibus-core-go/internal/infra/store"
)

func TestStore_SetAndGet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "unibus.store")

	s, err := store.Open(path, "test-pass")
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	if err := s.Set(domain.StoreKeyToken, "tok-123"); err != nil {
		t.Fatalf("set: %v", err)
	}

	got, ok := s.Get(domain.StoreKeyToken)
	if !ok {
		t.Fatal("expected token to exist")
	}
	if got != "tok-123" {
		t.Errorf("expected 'tok-123', got %q", got)
	}
}

func TestStore_MissingKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "unibus.store")

	s, err := store.Open(path, "test-pass")
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	if _, ok := s.Get(domain.StoreKeyProfileImage); ok {
		t.Fatal("expected missing key")
	}
}

func TestStore_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "unibus.store")

	s, err := store.Open(path, "test-pass")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := s.Set(domain.StoreKeyProfileImage, "https://cdn.example/img.jpg"); err != nil {
		t.Fatalf("set: %v", err)
	}

	reopened, err := store.Open(path, "test-pass")
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	got, ok := reopened.Get(domain.StoreKeyProfileImage)
	if !ok || got != "https://cdn.example/img.jpg" {
		t.Errorf("expected persisted value, got %q (ok=%v)", got, ok)
	}
}

func TestStore_WrongPassphrase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "unibus.store")

	s, err := store.Open(path, "right")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := s.Set(domain.StoreKeyToken, "tok"); err != nil {
		t.Fatalf("set: %v", err)
	}

	if _, err := store.Open(path, "wrong"); err == nil {
		t.Fatal("expected unseal failure with wrong passphrase")
	}
}

func TestStore_Delete(t *testing.T) {
	path := filepath.Join(t.TempDir(), "unibus.store")

	s, err := store.Open(path, "test-pass")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := s.Set(domain.StoreKeyToken, "tok"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := s.Delete(domain.StoreKeyToken); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok := s.Get(domain.StoreKeyToken); ok {
		t.Fatal("expected key to be gone")
	}
}
