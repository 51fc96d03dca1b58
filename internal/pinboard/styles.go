package pinboard

// Class names the board stamps onto the nodes it owns. The renderer
// resolves them through the style registry.
const (
	ClassPinnedSection = "pinned-section"
	ClassPinnedHeader  = "pinned-header"
	ClassPinnedList    = "pinned-list"
	ClassPinnedRow     = "pinned-row"
	ClassPinToggle     = "pin-toggle"
	ClassUnpinToggle   = "unpin-toggle"
	ClassActive        = "active"
	ClassRowReady      = "pin-ready"
)

// StyleSpec is a renderer-neutral presentation hint. The board declares
// how its classes should look; the UI decides what that means in its
// own medium.
type StyleSpec struct {
	Foreground string
	Background string
	Bold       bool
	Faint      bool
	Underline  bool
}

type StyleRegistry interface {
	Register(class string, spec StyleSpec)
}

type nopStyleRegistry struct{}

func (nopStyleRegistry) Register(string, StyleSpec) {}

func (b *Board) registerStyles() {
	b.styles.Register(ClassPinnedSection, StyleSpec{})
	b.styles.Register(ClassPinnedHeader, StyleSpec{Bold: true, Foreground: "105"})
	b.styles.Register(ClassPinnedList, StyleSpec{})
	b.styles.Register(ClassPinnedRow, StyleSpec{})
	b.styles.Register(ClassActive, StyleSpec{Bold: true, Foreground: "212"})
	b.styles.Register(ClassPinToggle, StyleSpec{Faint: true})
	b.styles.Register(ClassUnpinToggle, StyleSpec{Faint: true})
}
