// Package gesture classifies raw touch contact events into discrete
// gesture tokens: taps, double taps, long presses, swipes, two-finger
// swipes, pinches, and multi-finger taps.
package gesture

import "time"

// Phase describes the lifecycle stage of a contact event.
type Phase uint8

const (
	// PhaseStart begins a gesture with the initial contact set.
	PhaseStart Phase = iota
	// PhaseMove updates contact positions while the gesture is held.
	PhaseMove
	// PhaseEnd finishes the gesture with the final contact positions.
	PhaseEnd
)

// String returns a human-readable phase name.
func (p Phase) String() string {
	switch p {
	case PhaseStart:
		return "start"
	case PhaseMove:
		return "move"
	case PhaseEnd:
		return "end"
	default:
		return "unknown"
	}
}

// Contact is a single touch point.
type Contact struct {
	// ID identifies the touch point across events.
	ID int
	// X, Y are positions in client pixels.
	X float64
	Y float64
}

// Event is one frame of touch input carrying the full contact set.
type Event struct {
	Phase    Phase
	Contacts []Contact
	Time     time.Time
}

// Thresholds holds the tunable limits that separate gesture classes.
type Thresholds struct {
	// SwipeDistance is the minimum travel for a swipe, in pixels.
	SwipeDistance float64
	// SwipeDuration is the maximum duration of a swipe.
	SwipeDuration time.Duration
	// LongPress is the hold time after which a long press fires.
	LongPress time.Duration
	// DoubleTapWindow is the maximum gap between taps of a double tap.
	DoubleTapWindow time.Duration
	// DoubleTapDistance is the maximum travel between taps of a double tap.
	DoubleTapDistance float64
	// PinchDistance is the minimum spread change for a pinch.
	PinchDistance float64
	// TapMovement is the travel above which a contact counts as moved.
	TapMovement float64
	// MultiTapDuration is the maximum hold time of a multi-finger tap.
	MultiTapDuration time.Duration
}

// DefaultThresholds returns the standard gesture thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{
		SwipeDistance:     50,
		SwipeDuration:     400 * time.Millisecond,
		LongPress:         500 * time.Millisecond,
		DoubleTapWindow:   300 * time.Millisecond,
		DoubleTapDistance: 30,
		PinchDistance:     30,
		TapMovement:       10,
		MultiTapDuration:  300 * time.Millisecond,
	}
}

// Gesture tokens emitted by the classifier. These are the keys used in
// gesture mapping configuration.
const (
	TokenTap                 = "tap"
	TokenDoubleTap           = "double_tap"
	TokenLongPress           = "long_press"
	TokenSwipeLeft           = "swipe_left"
	TokenSwipeRight          = "swipe_right"
	TokenSwipeUp             = "swipe_up"
	TokenSwipeDown           = "swipe_down"
	TokenTwoFingerSwipeLeft  = "two_finger_swipe_left"
	TokenTwoFingerSwipeRight = "two_finger_swipe_right"
	TokenTwoFingerSwipeUp    = "two_finger_swipe_up"
	TokenTwoFingerSwipeDown  = "two_finger_swipe_down"
	TokenPinchIn             = "pinch_in"
	TokenPinchOut            = "pinch_out"
	TokenThreeFingerTap      = "three_finger_tap"
	TokenFourFingerTap       = "four_finger_tap"
)
