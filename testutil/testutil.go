// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/danielhkuo/decentra-vote/auth"
	"github.com/danielhkuo/decentra-vote/cliparse"
	"github.com/danielhkuo/decentra-vote/d21"
	"github.com/danielhkuo/decentra-vote/db"
	"github.com/danielhkuo/decentra-vote/store"
)

// TestDBURL is the connection string for the in-memory test database
const TestDBURL = ":memory:"

// SetupTestDB creates a fresh in-memory database with the full schema
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := db.Open(db.TypeSQLite, TestDBURL)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	if err := db.CreateSchema(conn); err != nil {
		conn.Close()
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:         3318,
		DatabaseURL:  TestDBURL,
		DatabaseType: db.TypeSQLite,
		IdentitySalt: "test-identity-salt",
	}
}

// IdentityToken returns a valid X-Identity-Token value for the identity
func IdentityToken(cfg cliparse.Config, identity string) string {
	return auth.IssueToken(identity, cfg.IdentitySalt)
}

// AuthHeaders returns request headers authenticating as identity
func AuthHeaders(cfg cliparse.Config, identity string) map[string]string {
	return map[string]string{auth.IdentityHeader: IdentityToken(cfg, identity)}
}

// CreateTestEvent stores an event with the given choices and limits and returns its ID.
// deadline is relative to now; pass a negative duration for a closed event.
func CreateTestEvent(t *testing.T, st *store.Store, choices []string, deadline time.Duration, cfg d21.Config) string {
	t.Helper()

	cfg.Choices = choices
	if cfg.Title == "" {
		cfg.Title = "Test Event"
	}
	if cfg.MaxPlusVotes == 0 {
		cfg.MaxPlusVotes = 1
	}
	cfg.Deadline = time.Now().Add(deadline)

	ev, err := d21.NewEvent("creator", cfg)
	if err != nil {
		t.Fatalf("Invalid test event config: %v", err)
	}

	id, err := st.CreateEvent(context.Background(), ev, time.Now())
	if err != nil {
		t.Fatalf("Failed to create test event: %v", err)
	}

	return id
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
