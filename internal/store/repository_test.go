package store

import (
	"context"
	"path/filepath"
	"testing"

	"pinboard/internal/types"
)

func TestOpenRepositoryBackends(t *testing.T) {
	dir := t.TempDir()
	paths := RepositoryPaths{
		PinsPath:    filepath.Join(dir, "pins.json"),
		UIStatePath: filepath.Join(dir, "state.json"),
		DBPath:      filepath.Join(dir, "pinboard.db"),
	}

	fileRepo, err := OpenRepository(paths, "file")
	if err != nil {
		t.Fatalf("open file repository: %v", err)
	}
	defer fileRepo.Close()
	if fileRepo.Backend() != RepositoryBackendFile {
		t.Fatalf("unexpected backend: %q", fileRepo.Backend())
	}

	defaulted, err := OpenRepository(paths, "")
	if err != nil {
		t.Fatalf("open default repository: %v", err)
	}
	defer defaulted.Close()
	if defaulted.Backend() != RepositoryBackendFile {
		t.Fatalf("expected empty backend to default to file, got %q", defaulted.Backend())
	}

	boltRepo, err := OpenRepository(paths, "bbolt")
	if err != nil {
		t.Fatalf("open bbolt repository: %v", err)
	}
	defer boltRepo.Close()
	if boltRepo.Backend() != RepositoryBackendBbolt {
		t.Fatalf("unexpected backend: %q", boltRepo.Backend())
	}

	if _, err := OpenRepository(paths, "redis"); err == nil {
		t.Fatalf("expected unsupported backend error")
	}
	if _, err := OpenRepository(RepositoryPaths{}, "bbolt"); err == nil {
		t.Fatalf("expected missing db path error")
	}
}

func TestSeedRepositoryFromFiles(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	paths := RepositoryPaths{
		PinsPath:    filepath.Join(dir, "pins.json"),
		UIStatePath: filepath.Join(dir, "state.json"),
		DBPath:      filepath.Join(dir, "pinboard.db"),
	}

	legacy := NewFileRepository(paths)
	if _, err := legacy.Pins().Pin(ctx, "/c/first", "First"); err != nil {
		t.Fatalf("pin legacy first: %v", err)
	}
	if _, err := legacy.Pins().Pin(ctx, "/c/second", "Second"); err != nil {
		t.Fatalf("pin legacy second: %v", err)
	}
	if err := legacy.UIState().Save(ctx, &types.UIState{PinnedCollapsed: true}); err != nil {
		t.Fatalf("save legacy state: %v", err)
	}

	dst, err := OpenRepository(paths, "bbolt")
	if err != nil {
		t.Fatalf("open bbolt repository: %v", err)
	}
	defer dst.Close()

	if err := SeedRepositoryFromFiles(ctx, dst, paths); err != nil {
		t.Fatalf("seed: %v", err)
	}

	set, err := dst.Pins().All(ctx)
	if err != nil {
		t.Fatalf("all: %v", err)
	}
	entries := set.Entries()
	if len(entries) != 2 || entries[0].ConversationID != "/c/first" || entries[1].ConversationID != "/c/second" {
		t.Fatalf("unexpected seeded entries: %#v", entries)
	}

	state, err := dst.UIState().Load(ctx)
	if err != nil {
		t.Fatalf("load state: %v", err)
	}
	if !state.PinnedCollapsed {
		t.Fatalf("expected seeded ui state")
	}

	// A second seed must not clobber live data.
	if _, err := dst.Pins().Unpin(ctx, "/c/first"); err != nil {
		t.Fatalf("unpin: %v", err)
	}
	if err := SeedRepositoryFromFiles(ctx, dst, paths); err != nil {
		t.Fatalf("second seed: %v", err)
	}
	set, err = dst.Pins().All(ctx)
	if err != nil {
		t.Fatalf("all after second seed: %v", err)
	}
	if set.Len() != 1 || !set.Has("/c/second") {
		t.Fatalf("second seed clobbered data: %#v", set.Entries())
	}
}
