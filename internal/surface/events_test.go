package surface

import "testing"

func TestClickBubblesToAncestors(t *testing.T) {
	tree := buildSidebarTree(t)
	history := tree.Find("#history")
	link := tree.Find(`a[href=/c/abc123]`)

	var order []string
	tree.OnClick(link, func(target *Node) {
		order = append(order, "link")
		if target != link {
			t.Fatalf("link handler got wrong target: %#v", target)
		}
	})
	tree.OnClick(history, func(target *Node) {
		order = append(order, "history")
		if target != link {
			t.Fatalf("container handler must receive the original target")
		}
	})

	tree.Click(link)

	if len(order) != 2 || order[0] != "link" || order[1] != "history" {
		t.Fatalf("unexpected dispatch order: %v", order)
	}
}

func TestHoverDelegation(t *testing.T) {
	tree := buildSidebarTree(t)
	history := tree.Find("#history")
	rows := tree.FindAll("li.conversation")

	var hovered []*Node
	tree.OnHover(history, func(target *Node) {
		hovered = append(hovered, target)
	})

	for _, row := range rows {
		tree.Hover(row)
	}

	if len(hovered) != 2 || hovered[0] != rows[0] || hovered[1] != rows[1] {
		t.Fatalf("delegated hover missed targets: %#v", hovered)
	}
}

func TestHandlerReplacementAndClear(t *testing.T) {
	tree := buildSidebarTree(t)
	row := tree.Find("li.conversation")

	first, second := 0, 0
	tree.OnClick(row, func(*Node) { first++ })
	tree.OnClick(row, func(*Node) { second++ })
	tree.Click(row)
	if first != 0 || second != 1 {
		t.Fatalf("replacement failed: first=%d second=%d", first, second)
	}

	tree.OnClick(row, nil)
	tree.Click(row)
	if second != 1 {
		t.Fatalf("cleared handler still fired")
	}
}

func TestHandlerPanicRecovered(t *testing.T) {
	tree := buildSidebarTree(t)
	history := tree.Find("#history")
	link := tree.Find(`a[href=/c/abc123]`)

	reached := false
	tree.OnClick(link, func(*Node) { panic("handler boom") })
	tree.OnClick(history, func(*Node) { reached = true })

	tree.Click(link)

	if !reached {
		t.Fatalf("panic in target handler stopped the bubble")
	}
}

func TestHandlerMayMutateTree(t *testing.T) {
	tree := buildSidebarTree(t)
	row := tree.Find("li.conversation")

	tree.OnClick(row, func(target *Node) {
		tree.AddClass(target, "clicked")
	})
	tree.Click(row)

	if !tree.HasClass(row, "clicked") {
		t.Fatalf("handler mutation did not apply")
	}
}
