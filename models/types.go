package models

// Request types

type IssueIdentityRequest struct {
	Name string `json:"name"`
}

// Deadline is unix seconds.
type CreateEventRequest struct {
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	Choices         []string `json:"choices"`
	Deadline        int64    `json:"deadline"`
	MaxPlusVotes    int      `json:"max_plus_votes"`
	AllowMinus      bool     `json:"allow_minus"`
	MaxMinusVotes   int      `json:"max_minus_votes"`
	MinPlusForMinus int      `json:"min_plus_for_minus"`
}

// MinusChoices left out or null means no minus list; [] is an empty one.
type CastVoteRequest struct {
	PlusChoices  []int `json:"plus_choices"`
	MinusChoices []int `json:"minus_choices"`
}

// Response types

type IssueIdentityResponse struct {
	Identity string `json:"identity"`
	Token    string `json:"token"`
}

type CreateEventResponse struct {
	EventID string `json:"event_id"`
}

type CastVoteResponse struct {
	EventID    string  `json:"event_id"`
	Voter      string  `json:"voter"`
	TotalVotes []int64 `json:"total_votes"`
	Message    string  `json:"message"`
}

type ListEventsResponse struct {
	Events []Event `json:"events"`
}

// Domain types

type Event struct {
	ID              string   `json:"id"`
	Creator         string   `json:"creator"`
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	Choices         []string `json:"choices"`
	Deadline        int64    `json:"deadline"`
	MaxPlusVotes    int      `json:"max_plus_votes"`
	AllowMinus      bool     `json:"allow_minus"`
	MaxMinusVotes   int      `json:"max_minus_votes"`
	MinPlusForMinus int      `json:"min_plus_for_minus"`
	TotalVotes      []int64  `json:"total_votes"`
	CreatedAt       int64    `json:"created_at"`
	IsOpen          bool     `json:"is_open"`
	ClosesIn        string   `json:"closes_in"` // e.g. "3 hours from now" or "2 days ago"
}

type VoteRecord struct {
	EventID      string `json:"event_id"`
	Voter        string `json:"voter"`
	HasVoted     bool   `json:"has_voted"`
	PlusChoices  []int  `json:"plus_choices"`
	MinusChoices []int  `json:"minus_choices"`
}

// Result types

type ChoiceResult struct {
	Index   int     `json:"index"`
	Label   string  `json:"label"`
	Total   int64   `json:"total"`
	Share   float64 `json:"share"` // |total| over the sum of all |total|
	Rank    int     `json:"rank"`  // 1-indexed, ties share a rank
	Leading bool    `json:"leading"`
}

type Results struct {
	EventID string         `json:"event_id"`
	Title   string         `json:"title"`
	IsOpen  bool           `json:"is_open"`
	Ballots int            `json:"ballots"`
	Results []ChoiceResult `json:"results"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}
