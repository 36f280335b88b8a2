// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/danielhkuo/decentra-vote/auth"
	"github.com/danielhkuo/decentra-vote/d21"
	"github.com/danielhkuo/decentra-vote/models"
	"github.com/danielhkuo/decentra-vote/store"
	"github.com/danielhkuo/decentra-vote/testutil"
)

func castVote(t *testing.T, handler *VotingHandler, eventID string, headers map[string]string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	req := testutil.MakeRequest("POST", "/events/"+eventID+"/votes", body, headers)
	req.SetPathValue("id", eventID)
	w := httptest.NewRecorder()

	handler.CastVote(w, req)
	return w
}

func TestCastVote(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	st := store.New(db)
	handler := NewVotingHandler(st, cfg)

	eventID := testutil.CreateTestEvent(t, st, []string{"A", "B", "C"}, time.Hour, d21.Config{
		MaxPlusVotes:    2,
		AllowMinus:      true,
		MaxMinusVotes:   1,
		MinPlusForMinus: 2,
	})
	closedID := testutil.CreateTestEvent(t, st, []string{"A", "B"}, -time.Minute, d21.Config{})

	tests := []struct {
		name           string
		eventID        string
		voter          string
		body           interface{}
		expectedStatus int
		expectedCode   string
	}{
		{
			name:           "too many plus votes",
			eventID:        eventID,
			voter:          "bob",
			body:           models.CastVoteRequest{PlusChoices: []int{0, 1, 2}},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "TooManyPlusVotes",
		},
		{
			name:           "empty plus list",
			eventID:        eventID,
			voter:          "bob",
			body:           models.CastVoteRequest{PlusChoices: []int{}},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "NoChoicesProvided",
		},
		{
			name:           "out of range",
			eventID:        eventID,
			voter:          "bob",
			body:           models.CastVoteRequest{PlusChoices: []int{5}},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "ChoiceOutOfRange",
		},
		{
			name:           "minus without enough plus",
			eventID:        eventID,
			voter:          "bob",
			body:           models.CastVoteRequest{PlusChoices: []int{0}, MinusChoices: []int{1}},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "InsufficientPlusVotes",
		},
		{
			name:           "overlapping",
			eventID:        eventID,
			voter:          "bob",
			body:           models.CastVoteRequest{PlusChoices: []int{0, 1}, MinusChoices: []int{1}},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "OverlappingChoices",
		},
		{
			name:           "valid with minus",
			eventID:        eventID,
			voter:          "bob",
			body:           models.CastVoteRequest{PlusChoices: []int{0, 2}, MinusChoices: []int{1}},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "second ballot",
			eventID:        eventID,
			voter:          "bob",
			body:           models.CastVoteRequest{PlusChoices: []int{1}},
			expectedStatus: http.StatusConflict,
			expectedCode:   "AlreadyVoted",
		},
		{
			name:           "closed event",
			eventID:        closedID,
			voter:          "bob",
			body:           models.CastVoteRequest{PlusChoices: []int{0}},
			expectedStatus: http.StatusConflict,
			expectedCode:   "VotingClosed",
		},
		{
			name:           "unknown event",
			eventID:        "missing",
			voter:          "bob",
			body:           models.CastVoteRequest{PlusChoices: []int{0}},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "no identity",
			eventID:        eventID,
			body:           models.CastVoteRequest{PlusChoices: []int{0}},
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var headers map[string]string
			if tt.voter != "" {
				headers = testutil.AuthHeaders(cfg, tt.voter)
			}

			w := castVote(t, handler, tt.eventID, headers, tt.body)
			testutil.AssertStatus(t, w, tt.expectedStatus)

			if tt.expectedCode != "" {
				var resp models.ErrorResponse
				testutil.AssertJSON(t, w, &resp)
				if resp.Code != tt.expectedCode {
					t.Errorf("Expected code %s, got %s", tt.expectedCode, resp.Code)
				}
			}
		})
	}

	ev, err := st.GetEvent(t.Context(), eventID)
	if err != nil {
		t.Fatalf("Failed to load event: %v", err)
	}
	want := d21.Tally{1, -1, 1}
	for i := range want {
		if ev.TotalVotes[i] != want[i] {
			t.Fatalf("Expected tally %v, got %v", want, ev.TotalVotes)
		}
	}
}

func TestCastVote_Scenario(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	st := store.New(db)
	handler := NewVotingHandler(st, cfg)

	eventID := testutil.CreateTestEvent(t, st, []string{"A", "B", "C"}, time.Hour, d21.Config{MaxPlusVotes: 2})

	w := castVote(t, handler, eventID, testutil.AuthHeaders(cfg, "voter-1"), models.CastVoteRequest{PlusChoices: []int{0, 1}})
	testutil.AssertStatus(t, w, http.StatusCreated)

	var first models.CastVoteResponse
	testutil.AssertJSON(t, w, &first)
	if len(first.TotalVotes) != 3 || first.TotalVotes[0] != 1 || first.TotalVotes[1] != 1 || first.TotalVotes[2] != 0 {
		t.Errorf("Expected [1 1 0], got %v", first.TotalVotes)
	}

	w = castVote(t, handler, eventID, testutil.AuthHeaders(cfg, "voter-2"), models.CastVoteRequest{PlusChoices: []int{0}})
	testutil.AssertStatus(t, w, http.StatusCreated)

	var second models.CastVoteResponse
	testutil.AssertJSON(t, w, &second)
	if second.TotalVotes[0] != 2 || second.TotalVotes[1] != 1 || second.TotalVotes[2] != 0 {
		t.Errorf("Expected [2 1 0], got %v", second.TotalVotes)
	}
	if second.Voter != "voter-2" {
		t.Errorf("Expected voter-2, got %s", second.Voter)
	}
}

func TestCastVote_MinusRequiresAllowMinus(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	st := store.New(db)
	handler := NewVotingHandler(st, cfg)

	eventID := testutil.CreateTestEvent(t, st, []string{"A", "B"}, time.Hour, d21.Config{MaxPlusVotes: 2})

	// An explicit empty minus list is still a minus list.
	req := httptest.NewRequest("POST", "/events/"+eventID+"/votes",
		bytes.NewBufferString(`{"plus_choices":[0],"minus_choices":[]}`))
	req.SetPathValue("id", eventID)
	req.Header.Set("X-Identity-Token", testutil.IdentityToken(cfg, "bob"))
	w := httptest.NewRecorder()

	handler.CastVote(w, req)

	testutil.AssertStatus(t, w, http.StatusBadRequest)
	var resp models.ErrorResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.Code != "MinusVotesNotAllowed" {
		t.Errorf("Expected MinusVotesNotAllowed, got %s", resp.Code)
	}

	// Omitted and null both mean no minus list.
	for i, body := range []string{`{"plus_choices":[0]}`, `{"plus_choices":[1],"minus_choices":null}`} {
		voter := []string{"carol", "dave"}[i]
		req := httptest.NewRequest("POST", "/events/"+eventID+"/votes", bytes.NewBufferString(body))
		req.SetPathValue("id", eventID)
		req.Header.Set("X-Identity-Token", testutil.IdentityToken(cfg, voter))
		w := httptest.NewRecorder()

		handler.CastVote(w, req)

		testutil.AssertStatus(t, w, http.StatusCreated)
	}
}

func TestGetMyVote(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	st := store.New(db)
	handler := NewVotingHandler(st, cfg)

	eventID := testutil.CreateTestEvent(t, st, []string{"A", "B", "C"}, time.Hour, d21.Config{MaxPlusVotes: 2})

	w := castVote(t, handler, eventID, testutil.AuthHeaders(cfg, "bob"), models.CastVoteRequest{PlusChoices: []int{2, 0}})
	testutil.AssertStatus(t, w, http.StatusCreated)

	tests := []struct {
		name           string
		eventID        string
		voter          string
		expectedStatus int
	}{
		{"own vote", eventID, "bob", http.StatusOK},
		{"has not voted", eventID, "carol", http.StatusNotFound},
		{"unknown event", "missing", "bob", http.StatusNotFound},
		{"no identity", eventID, "", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var headers map[string]string
			if tt.voter != "" {
				headers = testutil.AuthHeaders(cfg, tt.voter)
			}
			req := testutil.MakeRequest("GET", "/events/"+tt.eventID+"/votes/me", nil, headers)
			req.SetPathValue("id", tt.eventID)
			w := httptest.NewRecorder()

			handler.GetMyVote(w, req)

			testutil.AssertStatus(t, w, tt.expectedStatus)
			if tt.expectedStatus != http.StatusOK {
				return
			}

			var resp models.VoteRecord
			testutil.AssertJSON(t, w, &resp)
			if !resp.HasVoted || resp.Voter != "bob" {
				t.Errorf("Unexpected record: %+v", resp)
			}
			if len(resp.PlusChoices) != 2 || resp.PlusChoices[0] != 2 || resp.PlusChoices[1] != 0 {
				t.Errorf("Expected plus choices [2 0], got %v", resp.PlusChoices)
			}
			if resp.MinusChoices == nil || len(resp.MinusChoices) != 0 {
				t.Errorf("Expected empty minus choices, got %v", resp.MinusChoices)
			}
		})
	}
}

func TestCastVote_IPHashIgnoresForwardedHeaders(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	st := store.New(db)
	handler := NewVotingHandler(st, cfg)

	eventID := testutil.CreateTestEvent(t, st, []string{"A", "B"}, time.Hour, d21.Config{})

	req := testutil.MakeRequest("POST", "/events/"+eventID+"/votes", models.CastVoteRequest{PlusChoices: []int{0}},
		map[string]string{
			"X-Identity-Token": testutil.IdentityToken(cfg, "bob"),
			"X-Forwarded-For":  "203.0.113.7",
		})
	req.RemoteAddr = "10.1.2.3:5555"
	req.SetPathValue("id", eventID)
	w := httptest.NewRecorder()

	handler.CastVote(w, req)
	testutil.AssertStatus(t, w, http.StatusCreated)

	var ipHash string
	if err := db.QueryRow(`SELECT ip_hash FROM vote_record WHERE event_id = $1 AND voter = $2`, eventID, "bob").Scan(&ipHash); err != nil {
		t.Fatalf("Failed to read ip_hash: %v", err)
	}
	if want := auth.HashIP("10.1.2.3", cfg.IdentitySalt); ipHash != want {
		t.Errorf("Expected ip_hash of RemoteAddr %s, got %s", want, ipHash)
	}
}
