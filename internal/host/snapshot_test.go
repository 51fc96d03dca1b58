package host

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"pinboard/internal/types"
)

func TestReadSnapshotMissing(t *testing.T) {
	_, err := ReadSnapshot(filepath.Join(t.TempDir(), "missing.json"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist, got %v", err)
	}
}

func TestReadSnapshotCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := ReadSnapshot(path); !errors.Is(err, ErrCorruptSnapshot) {
		t.Fatalf("expected corrupt snapshot, got %v", err)
	}
}

func TestReadSnapshotVersionGate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.json")
	if err := WriteSnapshot(path, types.HostSnapshot{Version: 2, Host: "chatgpt"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := ReadSnapshot(path); !errors.Is(err, ErrSnapshotVersion) {
		t.Fatalf("expected version error, got %v", err)
	}
}

func TestWriteSnapshotRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "snapshot.json")
	want := types.HostSnapshot{
		Host:     "claude",
		Location: "/chat/abc123",
		Conversations: []types.Conversation{
			{ID: "abc123", Title: "Trip planning"},
		},
	}
	if err := WriteSnapshot(path, want); err != nil {
		t.Fatalf("write: %v", err)
	}

	got, err := ReadSnapshot(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got.Version != SnapshotVersion {
		t.Fatalf("expected stamped version, got %d", got.Version)
	}
	if got.Host != "claude" || got.Location != "/chat/abc123" {
		t.Fatalf("unexpected snapshot: %#v", got)
	}
	if len(got.Conversations) != 1 || got.Conversations[0].Title != "Trip planning" {
		t.Fatalf("unexpected conversations: %#v", got.Conversations)
	}

	if err := WriteSnapshot("", want); err == nil {
		t.Fatalf("expected empty path to fail")
	}
}
