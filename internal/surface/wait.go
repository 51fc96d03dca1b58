package surface

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var ErrElementNotFound = errors.New("element not found")

type WaitOptions struct {
	Interval time.Duration
	Timeout  time.Duration
}

const (
	defaultWaitInterval = 50 * time.Millisecond
	defaultWaitTimeout  = 5 * time.Second
)

// WaitFor polls until the selector resolves, the timeout elapses, or
// ctx is cancelled. The host owns the structure and may render it late;
// each attempt is a plain lookup, so nothing holds the tree between
// polls.
func WaitFor(ctx context.Context, tree *Tree, sel string, opts WaitOptions) (*Node, error) {
	interval := opts.Interval
	if interval <= 0 {
		interval = defaultWaitInterval
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultWaitTimeout
	}

	if node := tree.Find(sel); node != nil {
		return node, nil
	}

	deadline := time.NewTimer(timeout)
	defer deadline.Stop()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-deadline.C:
			return nil, fmt.Errorf("%w: %s", ErrElementNotFound, sel)
		case <-ticker.C:
			if node := tree.Find(sel); node != nil {
				return node, nil
			}
		}
	}
}
