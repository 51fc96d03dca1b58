package surface

import "testing"

func TestTreeMutators(t *testing.T) {
	tree := buildSidebarTree(t)
	sidebar := tree.Find("#sidebar")
	history := tree.Find("#history")

	section := NewNode(Desc{Tag: "section", ID: "pinned-section"})
	tree.Prepend(sidebar, section)
	children := tree.Children(sidebar)
	if len(children) != 2 || children[0] != section {
		t.Fatalf("prepend did not take first position")
	}

	row := NewNode(Desc{Tag: "li", Classes: []string{"pinned-row"}})
	tree.Append(section, row)
	if tree.Parent(row) != section {
		t.Fatalf("append did not reparent")
	}

	tree.SetText(row, "Pinned thing")
	if tree.Text(row) != "Pinned thing" {
		t.Fatalf("set text failed")
	}

	tree.SetAttr(row, "data-id", "/c/abc123")
	if value, ok := tree.Attr(row, "data-id"); !ok || value != "/c/abc123" {
		t.Fatalf("set attr failed: %q ok=%v", value, ok)
	}

	tree.AddClass(row, "active")
	if !tree.HasClass(row, "active") {
		t.Fatalf("add class failed")
	}
	tree.AddClass(row, "active")
	snapshot := tree.CloneNode(row)
	count := 0
	for _, class := range snapshot.Classes {
		if class == "active" {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("duplicate class added: %v", snapshot.Classes)
	}

	tree.RemoveClass(row, "active")
	if tree.HasClass(row, "active") {
		t.Fatalf("remove class failed")
	}

	tree.Remove(row)
	if tree.Parent(row) != nil {
		t.Fatalf("remove did not detach")
	}
	if node := tree.FindIn(section, ".pinned-row"); node != nil {
		t.Fatalf("removed node still findable")
	}

	// Re-appending moves a node, never duplicates it.
	tree.Append(history, row)
	tree.Append(section, row)
	if len(tree.FindAll(".pinned-row")) != 1 {
		t.Fatalf("node duplicated across parents")
	}
	if tree.Parent(row) != section {
		t.Fatalf("expected final parent to win")
	}
}

func TestTreeCloneDropsHandlers(t *testing.T) {
	tree := buildSidebarTree(t)
	row := tree.Find("li.conversation")

	clicked := 0
	tree.OnClick(row, func(target *Node) { clicked++ })
	tree.Click(row)
	if clicked != 1 {
		t.Fatalf("expected click to fire, got %d", clicked)
	}

	clone := tree.CloneNode(row)
	if clone.Parent() != nil {
		t.Fatalf("clone must be detached")
	}
	if clone.onClick != nil {
		t.Fatalf("clone must not carry handlers")
	}
	tree.Click(clone)
	if clicked != 1 {
		t.Fatalf("clone click must not reach original handler, got %d", clicked)
	}

	link := clone.Children()
	if len(link) != 1 || link[0].Text != "Refactor plan" {
		t.Fatalf("clone lost its subtree: %#v", link)
	}
}

func TestTreeSnapshotIsDetached(t *testing.T) {
	tree := buildSidebarTree(t)
	snapshot := tree.Snapshot()

	row := tree.Find("li.conversation")
	tree.AddClass(row, "marked")

	var found bool
	var walk func(n *Node)
	walk = func(n *Node) {
		for _, class := range n.Classes {
			if class == "marked" {
				found = true
			}
		}
		for _, child := range n.Children() {
			walk(child)
		}
	}
	walk(snapshot)
	if found {
		t.Fatalf("snapshot shares state with live tree")
	}
}
