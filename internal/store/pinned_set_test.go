package store

import (
	"encoding/json"
	"testing"
)

func TestPinnedSetJSONKeepsInsertionOrder(t *testing.T) {
	set := NewPinnedSet()
	set.add("/c/charlie", "Charlie plan")
	set.add("/c/alpha", "Alpha review")
	set.add("/c/bravo", "Bravo notes")

	raw, err := json.Marshal(set)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"/c/charlie":"Charlie plan","/c/alpha":"Alpha review","/c/bravo":"Bravo notes"}`
	if string(raw) != want {
		t.Fatalf("unexpected blob: got=%s want=%s", raw, want)
	}

	decoded := NewPinnedSet()
	if err := json.Unmarshal(raw, decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	entries := decoded.Entries()
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	ids := []string{"/c/charlie", "/c/alpha", "/c/bravo"}
	for i, entry := range entries {
		if entry.ConversationID != ids[i] {
			t.Fatalf("entry %d out of order: got=%q want=%q", i, entry.ConversationID, ids[i])
		}
	}
}

func TestPinnedSetEmptyJSON(t *testing.T) {
	raw, err := json.Marshal(NewPinnedSet())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(raw) != "{}" {
		t.Fatalf("unexpected empty blob: %s", raw)
	}
}

func TestPinnedSetClone(t *testing.T) {
	set := NewPinnedSet()
	set.add("/c/one", "One")
	set.add("/c/two", "Two")

	clone := set.Clone()
	clone.add("/c/three", "Three")
	clone.remove("/c/one")

	if set.Len() != 2 {
		t.Fatalf("clone mutated the original: %d entries", set.Len())
	}
	if !set.Has("/c/one") || set.Has("/c/three") {
		t.Fatalf("unexpected original contents: %#v", set.Entries())
	}
	if clone.Len() != 2 || clone.Has("/c/one") {
		t.Fatalf("unexpected clone contents: %#v", clone.Entries())
	}
}

func TestPinnedSetTitle(t *testing.T) {
	set := NewPinnedSet()
	set.add("/c/one", "One")

	title, ok := set.Title("/c/one")
	if !ok || title != "One" {
		t.Fatalf("unexpected title: %q ok=%v", title, ok)
	}
	if _, ok := set.Title("/c/missing"); ok {
		t.Fatalf("expected missing id to report absent")
	}
}
