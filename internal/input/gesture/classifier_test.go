package gesture

import (
	"testing"
	"time"
)

var t0 = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func ev(phase Phase, offset time.Duration, contacts ...Contact) Event {
	return Event{Phase: phase, Contacts: contacts, Time: t0.Add(offset)}
}

func c(id int, x, y float64) Contact {
	return Contact{ID: id, X: x, Y: y}
}

// feed runs a sequence of events and collects every emitted token.
func feed(cl *Classifier, events ...Event) []string {
	var tokens []string
	for _, e := range events {
		if token := cl.Feed(e); token != "" {
			tokens = append(tokens, token)
		}
	}
	return tokens
}

func TestClassifySwipes(t *testing.T) {
	tests := []struct {
		name   string
		events []Event
		want   string
	}{
		{
			name: "swipe left",
			events: []Event{
				ev(PhaseStart, 0, c(0, 100, 100)),
				ev(PhaseMove, 100*time.Millisecond, c(0, 60, 100)),
				ev(PhaseEnd, 200*time.Millisecond, c(0, 20, 100)),
			},
			want: TokenSwipeLeft,
		},
		{
			name: "swipe right",
			events: []Event{
				ev(PhaseStart, 0, c(0, 100, 100)),
				ev(PhaseEnd, 150*time.Millisecond, c(0, 190, 105)),
			},
			want: TokenSwipeRight,
		},
		{
			name: "swipe up dominant vertical",
			events: []Event{
				ev(PhaseStart, 0, c(0, 100, 300)),
				ev(PhaseEnd, 150*time.Millisecond, c(0, 110, 200)),
			},
			want: TokenSwipeUp,
		},
		{
			name: "swipe down",
			events: []Event{
				ev(PhaseStart, 0, c(0, 100, 100)),
				ev(PhaseEnd, 150*time.Millisecond, c(0, 100, 220)),
			},
			want: TokenSwipeDown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cl := NewClassifier(DefaultThresholds())
			got := feed(cl, tt.events...)
			if len(got) != 1 || got[0] != tt.want {
				t.Errorf("tokens = %v, want [%s]", got, tt.want)
			}
		})
	}
}

func TestSwipeTooSlowEmitsNothing(t *testing.T) {
	cl := NewClassifier(DefaultThresholds())
	got := feed(cl,
		ev(PhaseStart, 0, c(0, 100, 100)),
		ev(PhaseEnd, 900*time.Millisecond, c(0, 20, 100)),
	)
	if len(got) != 0 {
		t.Errorf("tokens = %v, want none for slow drag", got)
	}
}

func TestSwipeTooShortIsTap(t *testing.T) {
	// Travel below the tap-movement threshold still counts as a tap.
	cl := NewClassifier(DefaultThresholds())
	got := feed(cl,
		ev(PhaseStart, 0, c(0, 100, 100)),
		ev(PhaseEnd, 100*time.Millisecond, c(0, 105, 100)),
	)
	if len(got) != 1 || got[0] != TokenTap {
		t.Errorf("tokens = %v, want [%s]", got, TokenTap)
	}
}

func TestDoubleTap(t *testing.T) {
	cl := NewClassifier(DefaultThresholds())
	got := feed(cl,
		ev(PhaseStart, 0, c(0, 100, 100)),
		ev(PhaseEnd, 50*time.Millisecond, c(0, 100, 100)),
		ev(PhaseStart, 200*time.Millisecond, c(1, 105, 102)),
		ev(PhaseEnd, 250*time.Millisecond, c(1, 105, 102)),
	)
	want := []string{TokenTap, TokenDoubleTap}
	if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("tokens = %v, want %v", got, want)
	}
}

func TestDoubleTapWindowExpires(t *testing.T) {
	cl := NewClassifier(DefaultThresholds())
	got := feed(cl,
		ev(PhaseStart, 0, c(0, 100, 100)),
		ev(PhaseEnd, 50*time.Millisecond, c(0, 100, 100)),
		ev(PhaseStart, 600*time.Millisecond, c(1, 100, 100)),
		ev(PhaseEnd, 650*time.Millisecond, c(1, 100, 100)),
	)
	if len(got) != 2 || got[0] != TokenTap || got[1] != TokenTap {
		t.Errorf("tokens = %v, want two plain taps", got)
	}
}

func TestDoubleTapDistanceExceeded(t *testing.T) {
	cl := NewClassifier(DefaultThresholds())
	got := feed(cl,
		ev(PhaseStart, 0, c(0, 100, 100)),
		ev(PhaseEnd, 50*time.Millisecond, c(0, 100, 100)),
		ev(PhaseStart, 150*time.Millisecond, c(1, 200, 100)),
		ev(PhaseEnd, 200*time.Millisecond, c(1, 200, 100)),
	)
	if len(got) != 2 || got[1] != TokenTap {
		t.Errorf("tokens = %v, want second plain tap", got)
	}
}

func TestLongPressFiresWhileHeld(t *testing.T) {
	cl := NewClassifier(DefaultThresholds())

	if token := cl.Feed(ev(PhaseStart, 0, c(0, 100, 100))); token != "" {
		t.Fatalf("start emitted %q", token)
	}
	if token := cl.Feed(ev(PhaseMove, 600*time.Millisecond, c(0, 102, 101))); token != TokenLongPress {
		t.Fatalf("held move emitted %q, want %s", token, TokenLongPress)
	}
	// The release after a fired long press must not emit again.
	if token := cl.Feed(ev(PhaseEnd, 800*time.Millisecond, c(0, 102, 101))); token != "" {
		t.Errorf("release after long press emitted %q", token)
	}
}

func TestLongPressOnRelease(t *testing.T) {
	cl := NewClassifier(DefaultThresholds())
	got := feed(cl,
		ev(PhaseStart, 0, c(0, 100, 100)),
		ev(PhaseEnd, 700*time.Millisecond, c(0, 100, 100)),
	)
	if len(got) != 1 || got[0] != TokenLongPress {
		t.Errorf("tokens = %v, want [%s]", got, TokenLongPress)
	}
}

func TestLongPressCancelledByMovement(t *testing.T) {
	cl := NewClassifier(DefaultThresholds())
	got := feed(cl,
		ev(PhaseStart, 0, c(0, 100, 100)),
		ev(PhaseMove, 100*time.Millisecond, c(0, 130, 100)),
		ev(PhaseMove, 700*time.Millisecond, c(0, 130, 100)),
	)
	if len(got) != 0 {
		t.Errorf("tokens = %v, want none once the contact moved", got)
	}
}

func TestPinch(t *testing.T) {
	tests := []struct {
		name string
		endA Contact
		endB Contact
		want string
	}{
		{"pinch out", c(0, 50, 100), c(1, 250, 100), TokenPinchOut},
		{"pinch in", c(0, 140, 100), c(1, 160, 100), TokenPinchIn},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cl := NewClassifier(DefaultThresholds())
			got := feed(cl,
				ev(PhaseStart, 0, c(0, 100, 100), c(1, 200, 100)),
				ev(PhaseEnd, 200*time.Millisecond, tt.endA, tt.endB),
			)
			if len(got) != 1 || got[0] != tt.want {
				t.Errorf("tokens = %v, want [%s]", got, tt.want)
			}
		})
	}
}

func TestPinchBeatsTwoFingerSwipe(t *testing.T) {
	// Both contacts translate left far enough for a swipe, but the
	// spread also grows past the pinch threshold; pinch wins.
	cl := NewClassifier(DefaultThresholds())
	got := feed(cl,
		ev(PhaseStart, 0, c(0, 200, 100), c(1, 300, 100)),
		ev(PhaseEnd, 200*time.Millisecond, c(0, 100, 100), c(1, 260, 100)),
	)
	if len(got) != 1 || got[0] != TokenPinchOut {
		t.Errorf("tokens = %v, want [%s]", got, TokenPinchOut)
	}
}

func TestTwoFingerSwipe(t *testing.T) {
	cl := NewClassifier(DefaultThresholds())
	got := feed(cl,
		ev(PhaseStart, 0, c(0, 200, 100), c(1, 300, 100)),
		ev(PhaseEnd, 200*time.Millisecond, c(0, 120, 100), c(1, 220, 100)),
	)
	if len(got) != 1 || got[0] != TokenTwoFingerSwipeLeft {
		t.Errorf("tokens = %v, want [%s]", got, TokenTwoFingerSwipeLeft)
	}
}

func TestMultiFingerTap(t *testing.T) {
	cl := NewClassifier(DefaultThresholds())
	got := feed(cl,
		ev(PhaseStart, 0, c(0, 100, 100), c(1, 150, 100), c(2, 200, 100)),
		ev(PhaseEnd, 100*time.Millisecond, c(0, 100, 100), c(1, 150, 100), c(2, 200, 100)),
	)
	if len(got) != 1 || got[0] != TokenThreeFingerTap {
		t.Errorf("tokens = %v, want [%s]", got, TokenThreeFingerTap)
	}

	cl = NewClassifier(DefaultThresholds())
	got = feed(cl,
		ev(PhaseStart, 0, c(0, 100, 100), c(1, 150, 100), c(2, 200, 100), c(3, 250, 100)),
		ev(PhaseEnd, 100*time.Millisecond, c(0, 100, 100), c(1, 150, 100), c(2, 200, 100), c(3, 250, 100)),
	)
	if len(got) != 1 || got[0] != TokenFourFingerTap {
		t.Errorf("tokens = %v, want [%s]", got, TokenFourFingerTap)
	}
}

func TestMultiFingerHoldIsNotATap(t *testing.T) {
	// Three stationary fingers held past the multi-tap window resolve
	// to nothing; only a short release counts as a tap.
	cl := NewClassifier(DefaultThresholds())
	got := feed(cl,
		ev(PhaseStart, 0, c(0, 100, 100), c(1, 150, 100), c(2, 200, 100)),
		ev(PhaseEnd, 5*time.Second, c(0, 100, 100), c(1, 150, 100), c(2, 200, 100)),
	)
	if len(got) != 0 {
		t.Errorf("tokens = %v, want none for a long three-finger hold", got)
	}
}

func TestSecondFingerJoinsMidGesture(t *testing.T) {
	// A contact added after the start still makes it a two-finger gesture.
	cl := NewClassifier(DefaultThresholds())
	got := feed(cl,
		ev(PhaseStart, 0, c(0, 100, 100)),
		ev(PhaseMove, 50*time.Millisecond, c(0, 100, 100), c(1, 200, 100)),
		ev(PhaseEnd, 250*time.Millisecond, c(0, 100, 100), c(1, 300, 100)),
	)
	if len(got) != 1 || got[0] != TokenPinchOut {
		t.Errorf("tokens = %v, want [%s]", got, TokenPinchOut)
	}
}

func TestClassificationIsDeterministic(t *testing.T) {
	sequence := []Event{
		ev(PhaseStart, 0, c(0, 100, 100)),
		ev(PhaseMove, 100*time.Millisecond, c(0, 60, 100)),
		ev(PhaseEnd, 200*time.Millisecond, c(0, 20, 100)),
		ev(PhaseStart, 400*time.Millisecond, c(1, 50, 50)),
		ev(PhaseEnd, 450*time.Millisecond, c(1, 50, 50)),
		ev(PhaseStart, 550*time.Millisecond, c(2, 52, 51)),
		ev(PhaseEnd, 600*time.Millisecond, c(2, 52, 51)),
	}

	first := feed(NewClassifier(DefaultThresholds()), sequence...)
	second := feed(NewClassifier(DefaultThresholds()), sequence...)

	if len(first) != len(second) {
		t.Fatalf("runs differ: %v vs %v", first, second)
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("runs differ at %d: %v vs %v", i, first, second)
		}
	}
	want := []string{TokenSwipeLeft, TokenTap, TokenDoubleTap}
	for i, token := range want {
		if first[i] != token {
			t.Errorf("token[%d] = %s, want %s", i, first[i], token)
		}
	}
}

func TestCustomThresholds(t *testing.T) {
	th := DefaultThresholds()
	th.SwipeDistance = 200
	cl := NewClassifier(th)

	got := feed(cl,
		ev(PhaseStart, 0, c(0, 300, 100)),
		ev(PhaseEnd, 100*time.Millisecond, c(0, 200, 100)),
	)
	if len(got) != 0 {
		t.Errorf("tokens = %v, want none below raised swipe threshold", got)
	}
}
