// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package d21

import "errors"

// Kind groups errors by how a caller can react to them.
type Kind int

const (
	KindUnknown Kind = iota
	// KindConfiguration covers bad event parameters at creation.
	KindConfiguration
	// KindState covers per-voter or per-event conditions a new ballot cannot fix.
	KindState
	// KindStructural covers malformed ballots.
	KindStructural
	// KindArithmetic covers tally overflow.
	KindArithmetic
)

func (k Kind) String() string {
	switch k {
	case KindConfiguration:
		return "configuration"
	case KindState:
		return "state"
	case KindStructural:
		return "structural"
	case KindArithmetic:
		return "arithmetic"
	default:
		return "unknown"
	}
}

// Error is a D21 rule violation. Code is stable and safe to expose to clients.
type Error struct {
	Code    string
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

var (
	ErrNoChoicesProvided  = &Error{"NoChoicesProvided", KindConfiguration, "no choices provided"}
	ErrTitleTooLong       = &Error{"TitleTooLong", KindConfiguration, "title is too long (max 64 bytes)"}
	ErrDescriptionTooLong = &Error{"DescriptionTooLong", KindConfiguration, "description is too long (max 256 bytes)"}
	ErrInvalidConfig      = &Error{"InvalidConfig", KindConfiguration, "invalid event configuration"}

	ErrVotingClosed = &Error{"VotingClosed", KindState, "voting deadline has passed"}
	ErrAlreadyVoted = &Error{"AlreadyVoted", KindState, "voter has already voted"}

	ErrTooManyPlusVotes      = &Error{"TooManyPlusVotes", KindStructural, "too many plus votes"}
	ErrTooManyMinusVotes     = &Error{"TooManyMinusVotes", KindStructural, "too many minus votes"}
	ErrDuplicateChoices      = &Error{"DuplicateChoices", KindStructural, "duplicate choices provided"}
	ErrChoiceOutOfRange      = &Error{"ChoiceOutOfRange", KindStructural, "choice index out of range"}
	ErrMinusVotesNotAllowed  = &Error{"MinusVotesNotAllowed", KindStructural, "minus votes are not allowed for this event"}
	ErrInsufficientPlusVotes = &Error{"InsufficientPlusVotes", KindStructural, "insufficient plus votes to cast minus votes"}
	ErrOverlappingChoices    = &Error{"OverlappingChoices", KindStructural, "overlapping choices between plus and minus votes"}

	ErrOverflow = &Error{"Overflow", KindArithmetic, "overflow in vote tally"}
)

// KindOf reports the Kind of err, or KindUnknown if err is not a D21 error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// CodeOf returns the stable code of a D21 error, or "" for other errors.
func CodeOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}
