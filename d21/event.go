// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package d21

import "time"

// Capacity limits, in bytes for text.
const (
	MaxChoices        = 10
	MaxChoiceLen      = 64
	MaxTitleLen       = 64
	MaxDescriptionLen = 256
)

// Config holds the parameters an event is created with.
type Config struct {
	Title           string
	Description     string
	Choices         []string
	Deadline        time.Time
	MaxPlusVotes    int
	AllowMinus      bool
	MaxMinusVotes   int
	MinPlusForMinus int
}

// EventState is a created event plus its running tally.
// TotalVotes always has one entry per choice.
type EventState struct {
	Creator         string
	Title           string
	Description     string
	Choices         []string
	Deadline        time.Time
	MaxPlusVotes    int
	AllowMinus      bool
	MaxMinusVotes   int
	MinPlusForMinus int
	TotalVotes      Tally
}

// NewEvent validates cfg and returns the initial state of the event.
func NewEvent(creator string, cfg Config) (EventState, error) {
	if len(cfg.Choices) == 0 {
		return EventState{}, ErrNoChoicesProvided
	}
	if len(cfg.Title) > MaxTitleLen {
		return EventState{}, ErrTitleTooLong
	}
	if len(cfg.Description) > MaxDescriptionLen {
		return EventState{}, ErrDescriptionTooLong
	}
	if len(cfg.Choices) > MaxChoices {
		return EventState{}, ErrInvalidConfig
	}
	for _, c := range cfg.Choices {
		if len(c) > MaxChoiceLen {
			return EventState{}, ErrInvalidConfig
		}
	}
	if cfg.MaxPlusVotes < 1 || cfg.MaxPlusVotes > len(cfg.Choices) {
		return EventState{}, ErrInvalidConfig
	}
	if cfg.AllowMinus {
		if cfg.MaxMinusVotes < 1 || cfg.MaxMinusVotes > cfg.MaxPlusVotes {
			return EventState{}, ErrInvalidConfig
		}
		if cfg.MinPlusForMinus < 1 || cfg.MinPlusForMinus > cfg.MaxPlusVotes {
			return EventState{}, ErrInvalidConfig
		}
	}

	return EventState{
		Creator:         creator,
		Title:           cfg.Title,
		Description:     cfg.Description,
		Choices:         append([]string(nil), cfg.Choices...),
		Deadline:        cfg.Deadline,
		MaxPlusVotes:    cfg.MaxPlusVotes,
		AllowMinus:      cfg.AllowMinus,
		MaxMinusVotes:   cfg.MaxMinusVotes,
		MinPlusForMinus: cfg.MinPlusForMinus,
		TotalVotes:      make(Tally, len(cfg.Choices)),
	}, nil
}

// IsOpen reports whether ballots are still accepted at now.
func (e EventState) IsOpen(now time.Time) bool {
	return now.Before(e.Deadline)
}
