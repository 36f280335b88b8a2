// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package d21

// VoteRecord is the per (event, voter) record of an accepted ballot.
// Once HasVoted is true the record never changes again.
type VoteRecord struct {
	Voter        string
	HasVoted     bool
	PlusChoices  []int
	MinusChoices []int
}

// Record stores sel as voter's ballot. It is the only code path that sets
// HasVoted and refuses to run twice.
func (r *VoteRecord) Record(voter string, sel Selection) error {
	if r.HasVoted {
		return ErrAlreadyVoted
	}

	minus := sel.Minus
	if minus == nil {
		minus = []int{}
	}

	r.Voter = voter
	r.HasVoted = true
	r.PlusChoices = append([]int(nil), sel.Plus...)
	r.MinusChoices = append([]int{}, minus...)
	return nil
}
