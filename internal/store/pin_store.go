package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
)

var (
	ErrInvalidConversationID = errors.New("conversation id is required")
	ErrInvalidTitle          = errors.New("conversation title is required")
	ErrCorruptPins           = errors.New("pinned conversations blob is corrupt")
)

// PinStore persists the ordered set of pinned conversations. Every
// successful mutation rewrites the whole blob synchronously; there is no
// incremental patching and no conflict resolution, last writer wins.
type PinStore interface {
	Load(ctx context.Context) (*PinnedSet, error)
	Pin(ctx context.Context, id, title string) (bool, error)
	Unpin(ctx context.Context, id string) (bool, error)
	IsPinned(ctx context.Context, id string) (bool, error)
	All(ctx context.Context) (*PinnedSet, error)
}

func validatePinID(id string) error {
	if strings.TrimSpace(id) == "" {
		return ErrInvalidConversationID
	}
	return nil
}

func validatePin(id, title string) error {
	if err := validatePinID(id); err != nil {
		return err
	}
	if strings.TrimSpace(title) == "" {
		return ErrInvalidTitle
	}
	return nil
}

type FilePinStore struct {
	path string
	mu   sync.Mutex
}

func NewFilePinStore(path string) *FilePinStore {
	return &FilePinStore{path: path}
}

// Load reads the blob from disk. A missing file is not an error and
// yields an empty set; an unreadable or unparsable blob is a storage
// failure.
func (s *FilePinStore) Load(ctx context.Context) (*PinnedSet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *FilePinStore) Pin(ctx context.Context, id, title string) (bool, error) {
	if err := validatePin(id, title); err != nil {
		return false, err
	}
	id = strings.TrimSpace(id)
	title = strings.TrimSpace(title)

	s.mu.Lock()
	defer s.mu.Unlock()

	set, err := s.load()
	if err != nil {
		return false, err
	}
	if set.Has(id) {
		return false, nil
	}
	set.add(id, title)
	if err := s.save(set); err != nil {
		return false, err
	}
	return true, nil
}

func (s *FilePinStore) Unpin(ctx context.Context, id string) (bool, error) {
	if err := validatePinID(id); err != nil {
		return false, err
	}
	id = strings.TrimSpace(id)

	s.mu.Lock()
	defer s.mu.Unlock()

	set, err := s.load()
	if err != nil {
		return false, err
	}
	if !set.remove(id) {
		return false, nil
	}
	if err := s.save(set); err != nil {
		return false, err
	}
	return true, nil
}

func (s *FilePinStore) IsPinned(ctx context.Context, id string) (bool, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return false, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	set, err := s.load()
	if err != nil {
		return false, err
	}
	return set.Has(id), nil
}

// All returns a copy; callers may not mutate persisted state
// through it.
func (s *FilePinStore) All(ctx context.Context) (*PinnedSet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *FilePinStore) load() (*PinnedSet, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return NewPinnedSet(), nil
		}
		return nil, err
	}
	set := NewPinnedSet()
	if err := json.Unmarshal(data, set); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptPins, err)
	}
	return set, nil
}

func (s *FilePinStore) save(set *PinnedSet) error {
	return writeJSONAtomic(s.path, set)
}
