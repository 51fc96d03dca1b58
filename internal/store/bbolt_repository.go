package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"

	"pinboard/internal/types"
)

var (
	bucketPins    = []byte("pins")
	bucketUIState = []byte("ui_state")
	keyPins       = []byte("pins")
	keyUIState    = []byte("state")
)

type bboltRepository struct {
	db      *bolt.DB
	pins    PinStore
	uiState UIStateStore
}

func NewBboltRepository(path string) (Repository, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("repository db path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, err
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 2 * time.Second})
	if err != nil {
		return nil, err
	}
	if err := initBboltSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &bboltRepository{
		db:      db,
		pins:    &bboltPinStore{db: db},
		uiState: &bboltUIStateStore{db: db},
	}, nil
}

func (r *bboltRepository) Pins() PinStore {
	return r.pins
}

func (r *bboltRepository) UIState() UIStateStore {
	return r.uiState
}

func (r *bboltRepository) Backend() string {
	return RepositoryBackendBbolt
}

func (r *bboltRepository) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

func initBboltSchema(db *bolt.DB) error {
	return db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(bucketPins); err != nil {
			return err
		}
		if _, err := tx.CreateBucketIfNotExists(bucketUIState); err != nil {
			return err
		}
		return nil
	})
}

// bboltPinStore keeps the whole blob under one key, same layout as the
// file backend. The mutex serializes the read-modify-write across the
// separate view and update transactions.
type bboltPinStore struct {
	db *bolt.DB
	mu sync.Mutex
}

func (s *bboltPinStore) Load(ctx context.Context) (*PinnedSet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *bboltPinStore) Pin(ctx context.Context, id, title string) (bool, error) {
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

func (s *bboltPinStore) Unpin(ctx context.Context, id string) (bool, error) {
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

func (s *bboltPinStore) IsPinned(ctx context.Context, id string) (bool, error) {
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

func (s *bboltPinStore) All(ctx context.Context) (*PinnedSet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *bboltPinStore) load() (*PinnedSet, error) {
	set := NewPinnedSet()
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketPins)
		if b == nil {
			return nil
		}
		raw := b.Get(keyPins)
		if len(raw) == 0 {
			return nil
		}
		if err := json.Unmarshal(raw, set); err != nil {
			return fmt.Errorf("%w: %v", ErrCorruptPins, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return set, nil
}

func (s *bboltPinStore) save(set *PinnedSet) error {
	raw, err := json.Marshal(set)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketPins)
		if b == nil {
			return errors.New("pins bucket missing")
		}
		return b.Put(keyPins, raw)
	})
}

type bboltUIStateStore struct {
	db *bolt.DB
}

func (s *bboltUIStateStore) Load(ctx context.Context) (*types.UIState, error) {
	state := &types.UIState{}
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketUIState)
		if b == nil {
			return nil
		}
		raw := b.Get(keyUIState)
		if len(raw) == 0 {
			return nil
		}
		return json.Unmarshal(raw, state)
	})
	if err != nil {
		return nil, err
	}
	return state, nil
}

func (s *bboltUIStateStore) Save(ctx context.Context, state *types.UIState) error {
	if state == nil {
		return errors.New("state is required")
	}
	raw, err := json.Marshal(state)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketUIState)
		if b == nil {
			return errors.New("ui state bucket missing")
		}
		return b.Put(keyUIState, raw)
	})
}
