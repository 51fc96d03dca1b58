package types

type UIState struct {
	PinnedCollapsed bool   `json:"pinned_collapsed"`
	LastLocation    string `json:"last_location,omitempty"`
}
