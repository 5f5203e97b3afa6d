package action

import (
	"context"

	"github.com/dshills/glideshow/internal/resource"
)

// View is the immutable snapshot of session state a handler executes
// against. Handlers never mutate the session directly; they return a
// StatePatch and the dispatcher applies it under the session lock.
type View struct {
	// SessionID identifies the session.
	SessionID string
	// CurrentIndex is the index of the current resource.
	CurrentIndex int
	// Cursor is the position within Order when shuffling.
	Cursor int
	// Order is the shuffle permutation, nil when shuffle is off.
	Order []int
	// Paused reports whether auto-advance is suspended.
	Paused bool
	// Repeat reports whether navigation wraps at the ends.
	Repeat bool
	// Shuffle reports whether shuffle mode is on.
	Shuffle bool
	// SpeedSeconds is the auto-advance interval.
	SpeedSeconds float64
	// Context is the active mapping context.
	Context string
	// Hidden is the set of resource indexes hidden in this session.
	Hidden map[int]bool
	// Resources is the shared resource list.
	Resources *resource.List
}

// Current returns the descriptor for the current resource.
func (v *View) Current() (resource.Descriptor, bool) {
	if v.Resources == nil {
		return resource.Descriptor{}, false
	}
	return v.Resources.At(v.CurrentIndex)
}

// IsHidden reports whether a resource index is hidden in this session.
func (v *View) IsHidden(index int) bool {
	return v.Hidden[index]
}

// VisibleCount returns the number of resources not hidden in this session.
func (v *View) VisibleCount() int {
	if v.Resources == nil {
		return 0
	}
	return v.Resources.Len() - len(v.Hidden)
}

// Handler executes an action against a session view. The context
// carries cancellation for handlers that do external work.
type Handler func(ctx context.Context, view *View, params map[string]any) Result
