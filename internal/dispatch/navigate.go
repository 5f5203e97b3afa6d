package dispatch

import "github.com/dshills/glideshow/internal/action"

// advancePatch computes the state change for moving delta steps (+1 or
// -1) through the visible resources. Hidden entries are skipped. With
// repeat off, running past either end changes nothing and reports
// false; with repeat on, navigation wraps. Either way the same input
// state always yields the same destination.
func advancePatch(v *action.View, delta int) (*action.StatePatch, bool) {
	if v.Shuffle && len(v.Order) > 0 {
		return advanceShuffled(v, delta)
	}
	return advanceLinear(v, delta)
}

func advanceLinear(v *action.View, delta int) (*action.StatePatch, bool) {
	n := v.Resources.Len()
	if n == 0 {
		return nil, false
	}

	i := v.CurrentIndex
	for steps := 0; steps < n; steps++ {
		i += delta
		if i < 0 || i >= n {
			if !v.Repeat {
				return nil, false
			}
			i = (i + n) % n
		}
		if i == v.CurrentIndex {
			return nil, false
		}
		if !v.IsHidden(i) {
			idx := i
			return &action.StatePatch{CurrentIndex: &idx, ResetTimer: true}, true
		}
	}
	return nil, false
}

func advanceShuffled(v *action.View, delta int) (*action.StatePatch, bool) {
	m := len(v.Order)
	if m == 0 {
		return nil, false
	}

	c := v.Cursor
	for steps := 0; steps < m; steps++ {
		c += delta
		if c < 0 || c >= m {
			if !v.Repeat {
				return nil, false
			}
			c = (c + m) % m
		}
		if c == v.Cursor {
			return nil, false
		}
		if idx := v.Order[c]; !v.IsHidden(idx) {
			cursor, index := c, idx
			return &action.StatePatch{Cursor: &cursor, CurrentIndex: &index, ResetTimer: true}, true
		}
	}
	return nil, false
}
