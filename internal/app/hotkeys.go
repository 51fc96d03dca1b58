package app

import (
	"sort"
	"strings"

	"pinboard/internal/types"
)

type Hotkey struct {
	Key      string
	Label    string
	Priority int
}

// HotkeysFromKeymap resolves the help-line entries against the user's
// bindings. Actions the keymap leaves unbound stay off the help line.
func HotkeysFromKeymap(keymap *types.Keymap) []Hotkey {
	if keymap == nil {
		keymap = types.DefaultKeymap()
	}
	binding := func(action string) string {
		return strings.TrimSpace(keymap.Bindings[action])
	}
	var hotkeys []Hotkey
	up, down := binding(types.KeyActionMoveUp), binding(types.KeyActionMoveDown)
	if up != "" && down != "" {
		hotkeys = append(hotkeys, Hotkey{Key: down + "/" + up, Label: "move", Priority: 10})
	}
	if key := binding(types.KeyActionOpen); key != "" {
		hotkeys = append(hotkeys, Hotkey{Key: key, Label: "open", Priority: 20})
	}
	if key := binding(types.KeyActionTogglePin); key != "" {
		hotkeys = append(hotkeys, Hotkey{Key: key, Label: "pin", Priority: 30})
	}
	if key := binding(types.KeyActionCopyLink); key != "" {
		hotkeys = append(hotkeys, Hotkey{Key: key, Label: "copy link", Priority: 40})
	}
	if key := binding(types.KeyActionTogglePinned); key != "" {
		hotkeys = append(hotkeys, Hotkey{Key: key, Label: "pinned", Priority: 50})
	}
	if key := binding(types.KeyActionRefresh); key != "" {
		hotkeys = append(hotkeys, Hotkey{Key: key, Label: "refresh", Priority: 60})
	}
	if key := binding(types.KeyActionQuit); key != "" {
		hotkeys = append(hotkeys, Hotkey{Key: key, Label: "quit", Priority: 90})
	}
	return hotkeys
}

type HotkeyRenderer struct {
	hotkeys []Hotkey
}

func NewHotkeyRenderer(hotkeys []Hotkey) *HotkeyRenderer {
	sorted := make([]Hotkey, len(hotkeys))
	copy(sorted, hotkeys)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Priority == sorted[j].Priority {
			return sorted[i].Key < sorted[j].Key
		}
		return sorted[i].Priority < sorted[j].Priority
	})
	return &HotkeyRenderer{hotkeys: sorted}
}

func (r *HotkeyRenderer) Render() string {
	if r == nil {
		return ""
	}
	parts := make([]string, 0, len(r.hotkeys))
	for _, hk := range r.hotkeys {
		parts = append(parts, hk.Key+" "+hk.Label)
	}
	return strings.Join(parts, " • ")
}
