package types

const (
	KeyActionMoveUp       = "move_up"
	KeyActionMoveDown     = "move_down"
	KeyActionOpen         = "open"
	KeyActionTogglePin    = "toggle_pin"
	KeyActionCopyLink     = "copy_link"
	KeyActionTogglePinned = "toggle_pinned"
	KeyActionRefresh      = "refresh"
	KeyActionQuit         = "quit"
)

type Keymap struct {
	Bindings map[string]string `json:"bindings"`
}

func DefaultKeymap() *Keymap {
	return &Keymap{
		Bindings: map[string]string{
			KeyActionMoveUp:       "k",
			KeyActionMoveDown:     "j",
			KeyActionOpen:         "enter",
			KeyActionTogglePin:    "p",
			KeyActionCopyLink:     "c",
			KeyActionTogglePinned: "P",
			KeyActionRefresh:      "r",
			KeyActionQuit:         "q",
		},
	}
}
