package app

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"pinboard/internal/hosts"
	"pinboard/internal/pinboard"
	"pinboard/internal/surface"
)

type sidebarRowKind uint8

const (
	sidebarRowHeader sidebarRowKind = iota
	sidebarRowPinned
	sidebarRowHistory
)

type sidebarRow struct {
	kind   sidebarRowKind
	class  string
	path   string
	title  string
	active bool
	row    *surface.Node
	link   *surface.Node
}

func (r sidebarRow) selectable() bool {
	return r.kind != sidebarRowHeader
}

// SidebarController projects the sidebar portion of the surface tree
// into a flat row list with a cursor. It never mutates the tree; the
// model dispatches hover and click events against the nodes it hands
// back.
type SidebarController struct {
	styles    *Styles
	selectors hosts.Selectors
	rows      []sidebarRow
	cursor    int
	collapsed bool
	width     int
	height    int
}

func NewSidebarController(styles *Styles, selectors hosts.Selectors) *SidebarController {
	return &SidebarController{
		styles:    styles,
		selectors: selectors,
		cursor:    -1,
		width:     minListWidth,
	}
}

func (c *SidebarController) SetCollapsed(collapsed bool) {
	if c != nil {
		c.collapsed = collapsed
	}
}

func (c *SidebarController) Collapsed() bool {
	return c != nil && c.collapsed
}

func (c *SidebarController) SetSize(width, height int) {
	if c == nil {
		return
	}
	if width > 0 {
		c.width = width
	}
	c.height = height
}

// Rebuild re-reads the tree. The cursor follows the selected
// conversation across rebuilds, including a move between the pinned
// section and the history list.
func (c *SidebarController) Rebuild(tree *surface.Tree) {
	if c == nil || tree == nil {
		return
	}
	prev := c.Current()
	rows := make([]sidebarRow, 0, len(c.rows)+4)

	if list := tree.Find("#pinned-list"); list != nil {
		title := "Pinned"
		if header := tree.Find("." + pinboard.ClassPinnedHeader); header != nil {
			if text := strings.TrimSpace(tree.Text(header)); text != "" {
				title = text
			}
		}
		pinned := tree.FindAllIn(list, "."+pinboard.ClassPinnedRow)
		if c.collapsed {
			rows = append(rows, sidebarRow{
				kind:  sidebarRowHeader,
				class: pinboard.ClassPinnedHeader,
				title: fmt.Sprintf("%s (%d)", title, len(pinned)),
			})
		} else {
			rows = append(rows, sidebarRow{kind: sidebarRowHeader, class: pinboard.ClassPinnedHeader, title: title})
			for _, row := range pinned {
				link := tree.FindIn(row, "a")
				if link == nil {
					continue
				}
				path, _ := tree.Attr(link, "href")
				rows = append(rows, sidebarRow{
					kind:   sidebarRowPinned,
					class:  pinboard.ClassPinnedRow,
					path:   path,
					title:  strings.TrimSpace(tree.Text(link)),
					active: tree.HasClass(row, pinboard.ClassActive),
					row:    row,
					link:   link,
				})
			}
		}
	}

	if history := tree.Find(c.selectors.History); history != nil {
		rows = append(rows, sidebarRow{kind: sidebarRowHeader, title: "History"})
		for _, row := range tree.FindAllIn(history, c.selectors.Row) {
			link := tree.FindIn(row, c.selectors.Link)
			if link == nil {
				continue
			}
			path, _ := tree.Attr(link, "href")
			rows = append(rows, sidebarRow{
				kind:  sidebarRowHistory,
				path:  path,
				title: strings.TrimSpace(tree.Text(link)),
				row:   row,
				link:  link,
			})
		}
	}

	c.rows = rows
	c.restoreCursor(prev)
}

func (c *SidebarController) restoreCursor(prev *sidebarRow) {
	if prev != nil {
		for i, row := range c.rows {
			if row.kind == prev.kind && row.path == prev.path {
				c.cursor = i
				return
			}
		}
		for i, row := range c.rows {
			if row.selectable() && row.path == prev.path {
				c.cursor = i
				return
			}
		}
	}
	c.cursor = c.firstSelectable()
}

func (c *SidebarController) firstSelectable() int {
	for i, row := range c.rows {
		if row.selectable() {
			return i
		}
	}
	return -1
}

func (c *SidebarController) MoveUp() *sidebarRow {
	return c.step(-1)
}

func (c *SidebarController) MoveDown() *sidebarRow {
	return c.step(1)
}

func (c *SidebarController) step(delta int) *sidebarRow {
	if c == nil || len(c.rows) == 0 {
		return nil
	}
	i := c.cursor
	for {
		i += delta
		if i < 0 || i >= len(c.rows) {
			return c.Current()
		}
		if c.rows[i].selectable() {
			c.cursor = i
			return c.Current()
		}
	}
}

func (c *SidebarController) Current() *sidebarRow {
	if c == nil || c.cursor < 0 || c.cursor >= len(c.rows) {
		return nil
	}
	row := c.rows[c.cursor]
	if !row.selectable() {
		return nil
	}
	return &row
}

func (c *SidebarController) Len() int {
	if c == nil {
		return 0
	}
	return len(c.rows)
}

func (c *SidebarController) View() string {
	if c == nil {
		return ""
	}
	if len(c.rows) == 0 {
		return mutedStyle.Render("No conversations.")
	}
	lines := make([]string, 0, len(c.rows))
	for i, row := range c.rows {
		lines = append(lines, c.renderRow(i, row))
	}
	if c.height > 0 && len(lines) > c.height {
		start := 0
		if c.cursor >= c.height {
			start = c.cursor - c.height + 1
		}
		end := min(start+c.height, len(lines))
		lines = lines[start:end]
	}
	return strings.Join(lines, "\n")
}

func (c *SidebarController) renderRow(index int, row sidebarRow) string {
	width := max(1, c.width)
	if row.kind == sidebarRowHeader {
		text := runewidth.Truncate(row.title, width, "…")
		if style, ok := c.styles.Class(row.class); ok {
			return style.Render(text)
		}
		return headerStyle.Render(text)
	}
	marker := "  "
	if index == c.cursor {
		marker = "> "
	}
	title := row.title
	if title == "" {
		title = row.path
	}
	text := runewidth.Truncate(marker+title, width, "…")
	switch {
	case index == c.cursor:
		return cursorStyle.Render(text)
	case row.active:
		if style, ok := c.styles.Class(pinboard.ClassActive); ok {
			return style.Render(text)
		}
		return rowStyle.Render(text)
	case row.class != "":
		if style, ok := c.styles.Class(row.class); ok {
			return style.Render(text)
		}
		return rowStyle.Render(text)
	default:
		return rowStyle.Render(text)
	}
}
