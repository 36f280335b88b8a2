// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package d21 implements event configuration, ballot validation and tallying
for the D21 (Janeček) voting method.

A D21 event has up to ten choices. Each voter casts exactly one ballot made
of one or more plus votes and, when the event allows it, a limited number of
minus votes. Every plus vote adds one to the choice's signed total, every
minus vote subtracts one.

# Creating an Event

	ev, err := d21.NewEvent(creator, d21.Config{
		Title:        "Lunch",
		Choices:      []string{"Pizza", "Sushi", "Tacos"},
		Deadline:     time.Now().Add(time.Hour),
		MaxPlusVotes: 2,
	})

NewEvent checks the configuration and returns an EventState whose tally is
zero for every choice.

# Casting a Ballot

	ev, rec, err := d21.CastVote(ev, rec, voter, d21.Ballot{Plus: []int{0, 2}}, time.Now())

CastVote runs three steps and touches nothing unless all of them succeed:

  - ValidateBallot checks the ballot against the event, the deadline and the
    voter's record, in a fixed order. The first failing check decides the
    returned error.
  - Tally.Apply adds the ballot to a copy of the tally with overflow checks.
  - VoteRecord.Record marks the voter as having voted.

A nil Ballot.Minus means the voter sent no minus list at all. An empty
non-nil slice is a minus list that happens to be empty, and is still subject
to the minus rules.

# Errors

All failures are *Error sentinels such as ErrVotingClosed or ErrOverflow.
Compare them with errors.Is and classify them with KindOf.

The package is pure: it does no I/O, keeps no global state and does no
locking. Callers serialize access to a single event.
*/
package d21
