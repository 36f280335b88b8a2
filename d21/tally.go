// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package d21

import "math"

// Tally holds one signed counter per choice.
type Tally []int64

// Apply returns a new tally with sel added: +1 for each plus index and -1
// for each minus index. The receiver is never modified, so a failed Apply
// leaves no partial adjustment behind.
func (t Tally) Apply(sel Selection) (Tally, error) {
	next := make(Tally, len(t))
	copy(next, t)

	for _, i := range sel.Plus {
		if i < 0 || i >= len(next) {
			return nil, ErrChoiceOutOfRange
		}
		if next[i] == math.MaxInt64 {
			return nil, ErrOverflow
		}
		next[i]++
	}
	for _, i := range sel.Minus {
		if i < 0 || i >= len(next) {
			return nil, ErrChoiceOutOfRange
		}
		if next[i] == math.MinInt64 {
			return nil, ErrOverflow
		}
		next[i]--
	}

	return next, nil
}
