package store

import (
	"context"
	"errors"
	"os"
	"sync"

	"pinboard/internal/types"
)

type UIStateStore interface {
	Load(ctx context.Context) (*types.UIState, error)
	Save(ctx context.Context, state *types.UIState) error
}

type FileUIStateStore struct {
	path string
	mu   sync.Mutex
}

func NewFileUIStateStore(path string) *FileUIStateStore {
	return &FileUIStateStore{path: path}
}

func (s *FileUIStateStore) Load(ctx context.Context) (*types.UIState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := &types.UIState{}
	err := readJSON(s.path, state)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return state, nil
		}
		return nil, err
	}
	return state, nil
}

func (s *FileUIStateStore) Save(ctx context.Context, state *types.UIState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if state == nil {
		return errors.New("state is required")
	}
	return writeJSONAtomic(s.path, state)
}
