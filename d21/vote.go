// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package d21

import "time"

// CastVote validates b, applies it to the tally and records it for voter.
// On success it returns the updated event and record. On failure the
// returned values are ev and rec unchanged.
func CastVote(ev EventState, rec VoteRecord, voter string, b Ballot, now time.Time) (EventState, VoteRecord, error) {
	sel, err := ValidateBallot(ev, rec.HasVoted, b, now)
	if err != nil {
		return ev, rec, err
	}

	totals, err := ev.TotalVotes.Apply(sel)
	if err != nil {
		return ev, rec, err
	}

	next := rec
	if err := next.Record(voter, sel); err != nil {
		return ev, rec, err
	}

	updated := ev
	updated.TotalVotes = totals
	return updated, next, nil
}
