package surface

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestWaitForImmediate(t *testing.T) {
	tree := buildSidebarTree(t)
	node, err := WaitFor(context.Background(), tree, "#sidebar", WaitOptions{})
	if err != nil {
		t.Fatalf("wait: %v", err)
	}
	if node == nil || node.ID != "sidebar" {
		t.Fatalf("unexpected node: %#v", node)
	}
}

func TestWaitForLateArrival(t *testing.T) {
	tree := NewTree(nil)

	go func() {
		time.Sleep(40 * time.Millisecond)
		tree.Append(tree.Root(), NewNode(Desc{Tag: "nav", ID: "sidebar"}))
	}()

	node, err := WaitFor(context.Background(), tree, "#sidebar", WaitOptions{
		Interval: 5 * time.Millisecond,
		Timeout:  2 * time.Second,
	})
	if err != nil {
		t.Fatalf("wait: %v", err)
	}
	if node == nil || node.ID != "sidebar" {
		t.Fatalf("unexpected node: %#v", node)
	}
}

func TestWaitForTimeout(t *testing.T) {
	tree := NewTree(nil)
	_, err := WaitFor(context.Background(), tree, "#sidebar", WaitOptions{
		Interval: 5 * time.Millisecond,
		Timeout:  30 * time.Millisecond,
	})
	if !errors.Is(err, ErrElementNotFound) {
		t.Fatalf("expected element not found, got %v", err)
	}
}

func TestWaitForCancel(t *testing.T) {
	tree := NewTree(nil)
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	_, err := WaitFor(ctx, tree, "#sidebar", WaitOptions{
		Interval: 5 * time.Millisecond,
		Timeout:  5 * time.Second,
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context cancellation, got %v", err)
	}
}
