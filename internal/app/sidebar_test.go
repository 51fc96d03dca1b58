package app

import (
	"strings"
	"testing"

	"pinboard/internal/hosts"
	"pinboard/internal/logging"
	"pinboard/internal/pinboard"
	"pinboard/internal/surface"
)

func newSidebarFixture(t *testing.T) (*surface.Tree, *SidebarController) {
	t.Helper()
	tree := surface.NewTree(logging.Nop())
	sidebar := surface.NewNode(surface.Desc{Tag: "nav", ID: "sidebar"})
	tree.Append(tree.Root(), sidebar)

	section := surface.NewNode(surface.Desc{
		Tag:     "section",
		ID:      "pinned-section",
		Classes: []string{pinboard.ClassPinnedSection},
		Children: []surface.Desc{
			{Tag: "header", Classes: []string{pinboard.ClassPinnedHeader}, Text: "Pinned"},
			{
				Tag: "ol", ID: "pinned-list", Classes: []string{pinboard.ClassPinnedList},
				Children: []surface.Desc{
					{
						Tag:     "li",
						Classes: []string{pinboard.ClassPinnedRow},
						Attrs:   map[string]string{"data-id": "/c/abc123"},
						Children: []surface.Desc{
							{Tag: "a", Attrs: map[string]string{"href": "/c/abc123"}, Text: "Kept thread"},
						},
					},
				},
			},
		},
	})
	tree.Append(sidebar, section)

	history := surface.NewNode(surface.Desc{
		Tag: "ol", ID: "history",
		Children: []surface.Desc{
			{
				Tag: "li", Classes: []string{"conversation"},
				Children: []surface.Desc{
					{Tag: "a", Attrs: map[string]string{"href": "/c/abc123"}, Text: "Kept thread"},
				},
			},
			{
				Tag: "li", Classes: []string{"conversation"},
				Children: []surface.Desc{
					{Tag: "a", Attrs: map[string]string{"href": "/c/def456"}, Text: "Throwaway chat"},
				},
			},
		},
	})
	tree.Append(sidebar, history)

	controller := NewSidebarController(NewStyles(), hosts.SelectorsFor("chatgpt"))
	controller.Rebuild(tree)
	return tree, controller
}

func TestSidebarRebuildProjectsTree(t *testing.T) {
	_, controller := newSidebarFixture(t)

	if controller.Len() != 5 {
		t.Fatalf("expected 5 rows, got %d", controller.Len())
	}
	current := controller.Current()
	if current == nil {
		t.Fatalf("expected a selected row")
	}
	if current.kind != sidebarRowPinned || current.path != "/c/abc123" {
		t.Fatalf("expected cursor on the pinned row, got kind=%d path=%q", current.kind, current.path)
	}
}

func TestSidebarMoveSkipsHeaders(t *testing.T) {
	_, controller := newSidebarFixture(t)

	row := controller.MoveDown()
	if row == nil || row.kind != sidebarRowHistory || row.path != "/c/abc123" {
		t.Fatalf("expected first history row, got %+v", row)
	}
	row = controller.MoveDown()
	if row == nil || row.path != "/c/def456" {
		t.Fatalf("expected second history row, got %+v", row)
	}
	if row = controller.MoveDown(); row == nil || row.path != "/c/def456" {
		t.Fatalf("expected cursor to stay at the bottom, got %+v", row)
	}

	row = controller.MoveUp()
	if row == nil || row.kind != sidebarRowHistory || row.path != "/c/abc123" {
		t.Fatalf("expected move back onto first history row, got %+v", row)
	}
	row = controller.MoveUp()
	if row == nil || row.kind != sidebarRowPinned {
		t.Fatalf("expected pinned row above the history header, got %+v", row)
	}
	if row = controller.MoveUp(); row == nil || row.kind != sidebarRowPinned {
		t.Fatalf("expected cursor to stay at the top, got %+v", row)
	}
}

func TestSidebarCollapsedHidesPinnedRows(t *testing.T) {
	tree, controller := newSidebarFixture(t)

	controller.SetCollapsed(true)
	controller.Rebuild(tree)

	if controller.Len() != 4 {
		t.Fatalf("expected 4 rows when collapsed, got %d", controller.Len())
	}
	view := controller.View()
	if !strings.Contains(view, "Pinned (1)") {
		t.Fatalf("expected collapsed header with count, got %q", view)
	}
	current := controller.Current()
	if current == nil || current.kind != sidebarRowHistory {
		t.Fatalf("expected cursor to land on a history row, got %+v", current)
	}
}

func TestSidebarCursorFollowsSelectedPath(t *testing.T) {
	tree, controller := newSidebarFixture(t)

	controller.MoveDown()
	row := controller.MoveDown()
	if row == nil || row.path != "/c/def456" {
		t.Fatalf("expected cursor on /c/def456, got %+v", row)
	}

	controller.Rebuild(tree)
	if current := controller.Current(); current == nil || current.path != "/c/def456" {
		t.Fatalf("expected cursor to survive a rebuild, got %+v", current)
	}

	removed := controller.Current()
	tree.Remove(removed.row)
	controller.Rebuild(tree)
	if current := controller.Current(); current == nil || current.path != "/c/abc123" {
		t.Fatalf("expected cursor to fall back to the first row, got %+v", current)
	}
}

func TestSidebarViewWindowsAroundCursor(t *testing.T) {
	_, controller := newSidebarFixture(t)

	controller.SetSize(24, 3)
	controller.MoveDown()
	controller.MoveDown()

	view := controller.View()
	lines := strings.Split(view, "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 visible lines, got %d: %q", len(lines), view)
	}
	if !strings.Contains(view, "> Throwaway chat") {
		t.Fatalf("expected cursor line in window, got %q", view)
	}
}

func TestSidebarViewTruncatesLongTitles(t *testing.T) {
	tree, controller := newSidebarFixture(t)

	link := tree.Find("#history a")
	tree.SetText(link, "a very long conversation title that overflows")
	controller.SetSize(14, 0)
	controller.Rebuild(tree)

	view := controller.View()
	if !strings.Contains(view, "…") {
		t.Fatalf("expected truncation marker, got %q", view)
	}
}

func TestSidebarEmptyTree(t *testing.T) {
	tree := surface.NewTree(logging.Nop())
	controller := NewSidebarController(NewStyles(), hosts.SelectorsFor("chatgpt"))
	controller.Rebuild(tree)

	if controller.Len() != 0 {
		t.Fatalf("expected no rows, got %d", controller.Len())
	}
	if controller.Current() != nil {
		t.Fatalf("did not expect a selected row")
	}
	if view := controller.View(); !strings.Contains(view, "No conversations") {
		t.Fatalf("expected placeholder view, got %q", view)
	}
}
