package store

import (
	"context"
	"errors"
	"strings"

	"pinboard/internal/types"
)

const (
	RepositoryBackendFile  = "file"
	RepositoryBackendBbolt = "bbolt"
)

type Repository interface {
	Pins() PinStore
	UIState() UIStateStore
	Backend() string
	Close() error
}

type RepositoryPaths struct {
	PinsPath    string
	UIStatePath string
	DBPath      string
}

type fileRepository struct {
	pins    PinStore
	uiState UIStateStore
}

func NewFileRepository(paths RepositoryPaths) Repository {
	return &fileRepository{
		pins:    NewFilePinStore(paths.PinsPath),
		uiState: NewFileUIStateStore(paths.UIStatePath),
	}
}

func (r *fileRepository) Pins() PinStore {
	return r.pins
}

func (r *fileRepository) UIState() UIStateStore {
	return r.uiState
}

func (r *fileRepository) Backend() string {
	return RepositoryBackendFile
}

func (r *fileRepository) Close() error {
	return nil
}

func OpenRepository(paths RepositoryPaths, backend string) (Repository, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "", RepositoryBackendFile:
		return NewFileRepository(paths), nil
	case RepositoryBackendBbolt:
		if strings.TrimSpace(paths.DBPath) == "" {
			return nil, errors.New("db path is required for bbolt repository")
		}
		return NewBboltRepository(paths.DBPath)
	default:
		return nil, errors.New("unsupported repository backend: " + backend)
	}
}

// SeedRepositoryFromFiles copies file-backed pins and UI state into dst
// when dst is empty. Keeps state intact for users who switch the storage
// backend to bbolt.
func SeedRepositoryFromFiles(ctx context.Context, dst Repository, paths RepositoryPaths) error {
	if dst == nil || dst.Backend() == RepositoryBackendFile {
		return nil
	}
	src := NewFileRepository(paths)
	defer src.Close()

	if err := seedPins(ctx, dst.Pins(), src.Pins()); err != nil {
		return err
	}
	return seedUIState(ctx, dst.UIState(), src.UIState())
}

func seedPins(ctx context.Context, dst PinStore, src PinStore) error {
	if dst == nil || src == nil {
		return nil
	}
	current, err := dst.Load(ctx)
	if err != nil {
		return err
	}
	if current.Len() > 0 {
		return nil
	}
	legacy, err := src.Load(ctx)
	if err != nil {
		return err
	}
	for _, pin := range legacy.Entries() {
		if _, err := dst.Pin(ctx, pin.ConversationID, pin.Title); err != nil {
			return err
		}
	}
	return nil
}

func seedUIState(ctx context.Context, dst UIStateStore, src UIStateStore) error {
	if dst == nil || src == nil {
		return nil
	}
	current, err := dst.Load(ctx)
	if err != nil {
		return err
	}
	if !isZeroUIState(current) {
		return nil
	}
	legacy, err := src.Load(ctx)
	if err != nil {
		return err
	}
	if isZeroUIState(legacy) {
		return nil
	}
	return dst.Save(ctx, legacy)
}

func isZeroUIState(state *types.UIState) bool {
	if state == nil {
		return true
	}
	return !state.PinnedCollapsed && strings.TrimSpace(state.LastLocation) == ""
}
