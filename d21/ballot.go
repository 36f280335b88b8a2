// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package d21

import "time"

// Ballot is what a voter submits. Indices refer to EventState.Choices.
// A nil Minus means no minus list was sent.
type Ballot struct {
	Plus  []int
	Minus []int
}

// Selection is a ballot that passed validation. Minus is never nil.
type Selection struct {
	Plus  []int
	Minus []int
}

// ValidateBallot checks b against ev at time now for a voter whose record
// says hasVoted. Checks run in a fixed order and the first failure is
// returned. It never modifies its arguments.
func ValidateBallot(ev EventState, hasVoted bool, b Ballot, now time.Time) (Selection, error) {
	if !ev.IsOpen(now) {
		return Selection{}, ErrVotingClosed
	}
	if hasVoted {
		return Selection{}, ErrAlreadyVoted
	}

	if len(b.Plus) == 0 {
		return Selection{}, ErrNoChoicesProvided
	}
	if len(b.Plus) > ev.MaxPlusVotes {
		return Selection{}, ErrTooManyPlusVotes
	}
	if hasDuplicates(b.Plus) {
		return Selection{}, ErrDuplicateChoices
	}
	if !inRange(b.Plus, len(ev.Choices)) {
		return Selection{}, ErrChoiceOutOfRange
	}

	minus := []int{}
	if b.Minus != nil {
		if !ev.AllowMinus {
			return Selection{}, ErrMinusVotesNotAllowed
		}
		if len(b.Minus) > ev.MaxMinusVotes {
			return Selection{}, ErrTooManyMinusVotes
		}
		if len(b.Plus) < ev.MinPlusForMinus {
			return Selection{}, ErrInsufficientPlusVotes
		}
		if hasDuplicates(b.Minus) {
			return Selection{}, ErrDuplicateChoices
		}
		if !inRange(b.Minus, len(ev.Choices)) {
			return Selection{}, ErrChoiceOutOfRange
		}
		if overlaps(b.Plus, b.Minus) {
			return Selection{}, ErrOverlappingChoices
		}
		minus = append(minus, b.Minus...)
	}

	return Selection{
		Plus:  append([]int(nil), b.Plus...),
		Minus: minus,
	}, nil
}

func hasDuplicates(idx []int) bool {
	seen := make(map[int]struct{}, len(idx))
	for _, i := range idx {
		if _, ok := seen[i]; ok {
			return true
		}
		seen[i] = struct{}{}
	}
	return false
}

func inRange(idx []int, n int) bool {
	for _, i := range idx {
		if i < 0 || i >= n {
			return false
		}
	}
	return true
}

func overlaps(a, b []int) bool {
	set := make(map[int]struct{}, len(a))
	for _, i := range a {
		set[i] = struct{}{}
	}
	for _, i := range b {
		if _, ok := set[i]; ok {
			return true
		}
	}
	return false
}
