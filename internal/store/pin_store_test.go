package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestFilePinStoreLoadMissing(t *testing.T) {
	store := NewFilePinStore(filepath.Join(t.TempDir(), "pins.json"))
	set, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if set.Len() != 0 {
		t.Fatalf("expected empty set, got %d entries", set.Len())
	}
}

func TestFilePinStorePinUnpinRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "pins.json")
	store := NewFilePinStore(path)

	changed, err := store.Pin(ctx, "/c/abc123", "Refactor plan")
	if err != nil {
		t.Fatalf("pin: %v", err)
	}
	if !changed {
		t.Fatalf("expected first pin to report a change")
	}

	pinned, err := store.IsPinned(ctx, "/c/abc123")
	if err != nil {
		t.Fatalf("isPinned: %v", err)
	}
	if !pinned {
		t.Fatalf("expected conversation to be pinned")
	}

	again, err := store.Pin(ctx, "/c/abc123", "Refactor plan")
	if err != nil {
		t.Fatalf("re-pin: %v", err)
	}
	if again {
		t.Fatalf("expected re-pin to be a no-op")
	}

	removed, err := store.Unpin(ctx, "/c/abc123")
	if err != nil {
		t.Fatalf("unpin: %v", err)
	}
	if !removed {
		t.Fatalf("expected unpin to report a change")
	}

	removedAgain, err := store.Unpin(ctx, "/c/abc123")
	if err != nil {
		t.Fatalf("unpin absent: %v", err)
	}
	if removedAgain {
		t.Fatalf("expected unpin of absent id to be a no-op")
	}

	set, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if set.Len() != 0 {
		t.Fatalf("expected empty set after round trip, got %d", set.Len())
	}
}

func TestFilePinStoreValidation(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "pins.json")
	store := NewFilePinStore(path)

	if _, err := store.Pin(ctx, "", "Title"); !errors.Is(err, ErrInvalidConversationID) {
		t.Fatalf("expected invalid id error, got %v", err)
	}
	if _, err := store.Pin(ctx, "   ", "Title"); !errors.Is(err, ErrInvalidConversationID) {
		t.Fatalf("expected invalid id error for whitespace, got %v", err)
	}
	if _, err := store.Pin(ctx, "/c/abc", ""); !errors.Is(err, ErrInvalidTitle) {
		t.Fatalf("expected invalid title error, got %v", err)
	}
	if _, err := store.Pin(ctx, "/c/abc", "  \t "); !errors.Is(err, ErrInvalidTitle) {
		t.Fatalf("expected invalid title error for whitespace, got %v", err)
	}
	if _, err := store.Unpin(ctx, ""); !errors.Is(err, ErrInvalidConversationID) {
		t.Fatalf("expected invalid id error on unpin, got %v", err)
	}

	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected no blob after failed validations, stat err=%v", err)
	}
}

func TestFilePinStoreCorruptBlob(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pins.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatalf("write corrupt blob: %v", err)
	}
	store := NewFilePinStore(path)

	if _, err := store.Load(context.Background()); !errors.Is(err, ErrCorruptPins) {
		t.Fatalf("expected corrupt error, got %v", err)
	}
	if _, err := store.Pin(context.Background(), "/c/abc", "Title"); !errors.Is(err, ErrCorruptPins) {
		t.Fatalf("expected corrupt error on pin, got %v", err)
	}
}

func TestFilePinStoreOrderSurvivesReload(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "pins.json")
	store := NewFilePinStore(path)

	for _, pin := range []struct{ id, title string }{
		{"/c/first", "First"},
		{"/c/second", "Second"},
		{"/c/third", "Third"},
	} {
		if _, err := store.Pin(ctx, pin.id, pin.title); err != nil {
			t.Fatalf("pin %s: %v", pin.id, err)
		}
	}
	if _, err := store.Unpin(ctx, "/c/second"); err != nil {
		t.Fatalf("unpin: %v", err)
	}

	reopened := NewFilePinStore(path)
	set, err := reopened.All(ctx)
	if err != nil {
		t.Fatalf("all: %v", err)
	}
	entries := set.Entries()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].ConversationID != "/c/first" || entries[1].ConversationID != "/c/third" {
		t.Fatalf("unexpected order: %#v", entries)
	}
	if entries[0].Title != "First" || entries[1].Title != "Third" {
		t.Fatalf("unexpected titles: %#v", entries)
	}
}

func TestFilePinStoreDefensiveCopy(t *testing.T) {
	ctx := context.Background()
	store := NewFilePinStore(filepath.Join(t.TempDir(), "pins.json"))

	if _, err := store.Pin(ctx, "/c/abc", "Title"); err != nil {
		t.Fatalf("pin: %v", err)
	}
	set, err := store.All(ctx)
	if err != nil {
		t.Fatalf("all: %v", err)
	}
	set.remove("/c/abc")

	pinned, err := store.IsPinned(ctx, "/c/abc")
	if err != nil {
		t.Fatalf("isPinned: %v", err)
	}
	if !pinned {
		t.Fatalf("mutating the returned set must not affect the store")
	}
}

func TestFilePinStoreTrimsInput(t *testing.T) {
	ctx := context.Background()
	store := NewFilePinStore(filepath.Join(t.TempDir(), "pins.json"))

	if _, err := store.Pin(ctx, "  /c/abc  ", "  Padded title  "); err != nil {
		t.Fatalf("pin: %v", err)
	}
	pinned, err := store.IsPinned(ctx, "/c/abc")
	if err != nil {
		t.Fatalf("isPinned: %v", err)
	}
	if !pinned {
		t.Fatalf("expected trimmed id to be pinned")
	}
	set, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	title, ok := set.Title("/c/abc")
	if !ok || title != "Padded title" {
		t.Fatalf("unexpected stored title: %q ok=%v", title, ok)
	}
}
