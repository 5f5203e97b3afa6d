package action

import "fmt"

// Status represents the execution status of an action.
type Status int

const (
	// StatusSuccess indicates successful execution.
	StatusSuccess Status = iota
	// StatusFailure indicates execution failed.
	StatusFailure
	// StatusNoOp indicates the action was valid but changed nothing,
	// such as navigating past the end with repeat off.
	StatusNoOp
)

// String returns a human-readable status name.
func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusFailure:
		return "failure"
	case StatusNoOp:
		return "noop"
	default:
		return "unknown"
	}
}

// StatePatch describes the session state changes an action produced.
// Nil fields are left untouched; the dispatcher applies the patch
// atomically under the session lock.
type StatePatch struct {
	// CurrentIndex moves the session to a resource index.
	CurrentIndex *int
	// Cursor moves the position within the shuffle order.
	Cursor *int
	// Order replaces the shuffle order. An empty non-nil slice clears it.
	Order *[]int
	// Paused sets the paused flag.
	Paused *bool
	// Repeat sets the repeat flag.
	Repeat *bool
	// Shuffle sets the shuffle flag.
	Shuffle *bool
	// SpeedSeconds sets the auto-advance interval.
	SpeedSeconds *float64
	// Context switches the active mapping context.
	Context *string
	// Hide adds a resource index to the session's hidden set.
	Hide *int
	// ResetTimer restarts the auto-advance countdown.
	ResetTimer bool
}

// Empty reports whether the patch changes nothing.
func (p *StatePatch) Empty() bool {
	if p == nil {
		return true
	}
	return p.CurrentIndex == nil && p.Cursor == nil && p.Order == nil &&
		p.Paused == nil && p.Repeat == nil && p.Shuffle == nil &&
		p.SpeedSeconds == nil && p.Context == nil && p.Hide == nil &&
		!p.ResetTimer
}

// Result represents the outcome of executing an action.
type Result struct {
	// Status indicates how execution went.
	Status Status
	// Error holds the failure, if Status is StatusFailure.
	Error error
	// Message is an optional human-readable note.
	Message string
	// Data carries action-specific output for the caller.
	Data map[string]any
	// Patch is the session state change to apply.
	Patch *StatePatch
}

// Success creates a successful result.
func Success() Result {
	return Result{Status: StatusSuccess}
}

// NoOp creates a result for an action that changed nothing.
func NoOp(format string, args ...any) Result {
	return Result{Status: StatusNoOp, Message: fmt.Sprintf(format, args...)}
}

// Failure creates a failed result from an error.
func Failure(err error) Result {
	return Result{Status: StatusFailure, Error: err}
}

// Failuref creates a failed result with a classified error.
func Failuref(kind Kind, format string, args ...any) Result {
	return Result{Status: StatusFailure, Error: NewError(kind, format, args...)}
}

// WithMessage adds a message to the result.
func (r Result) WithMessage(format string, args ...any) Result {
	r.Message = fmt.Sprintf(format, args...)
	return r
}

// WithData adds a data entry to the result.
func (r Result) WithData(key string, value any) Result {
	if r.Data == nil {
		r.Data = make(map[string]any)
	}
	r.Data[key] = value
	return r
}

// WithPatch attaches a state patch to the result.
func (r Result) WithPatch(patch *StatePatch) Result {
	r.Patch = patch
	return r
}

// IsSuccess reports whether the action executed successfully.
func (r Result) IsSuccess() bool {
	return r.Status == StatusSuccess
}
