package store

import (
	"encoding/json"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"pinboard/internal/types"
)

// PinnedSet is the ordered collection of pinned conversations. Iteration
// order and the serialized JSON object both follow insertion order, so a
// reload renders pins exactly as they were pinned.
type PinnedSet struct {
	entries *orderedmap.OrderedMap[string, string]
}

func NewPinnedSet() *PinnedSet {
	return &PinnedSet{entries: orderedmap.New[string, string]()}
}

func (s *PinnedSet) Len() int {
	if s == nil || s.entries == nil {
		return 0
	}
	return s.entries.Len()
}

func (s *PinnedSet) Has(id string) bool {
	if s == nil || s.entries == nil {
		return false
	}
	_, ok := s.entries.Get(id)
	return ok
}

func (s *PinnedSet) Title(id string) (string, bool) {
	if s == nil || s.entries == nil {
		return "", false
	}
	return s.entries.Get(id)
}

// Entries returns the pins in insertion order.
func (s *PinnedSet) Entries() []types.PinnedConversation {
	if s == nil || s.entries == nil {
		return []types.PinnedConversation{}
	}
	out := make([]types.PinnedConversation, 0, s.entries.Len())
	for pair := s.entries.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, types.PinnedConversation{ConversationID: pair.Key, Title: pair.Value})
	}
	return out
}

func (s *PinnedSet) Clone() *PinnedSet {
	clone := NewPinnedSet()
	if s == nil || s.entries == nil {
		return clone
	}
	for pair := s.entries.Oldest(); pair != nil; pair = pair.Next() {
		clone.entries.Set(pair.Key, pair.Value)
	}
	return clone
}

func (s *PinnedSet) add(id, title string) {
	if s.entries == nil {
		s.entries = orderedmap.New[string, string]()
	}
	s.entries.Set(id, title)
}

func (s *PinnedSet) remove(id string) bool {
	if s == nil || s.entries == nil {
		return false
	}
	_, ok := s.entries.Delete(id)
	return ok
}

// MarshalJSON encodes the set as one flat object mapping conversation id
// to title. Key order is insertion order.
func (s *PinnedSet) MarshalJSON() ([]byte, error) {
	if s == nil || s.entries == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(s.entries)
}

func (s *PinnedSet) UnmarshalJSON(data []byte) error {
	entries := orderedmap.New[string, string]()
	if err := json.Unmarshal(data, entries); err != nil {
		return err
	}
	s.entries = entries
	return nil
}
