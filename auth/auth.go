// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"net/http"
	"strings"
)

// IdentityHeader carries the caller's identity token.
const IdentityHeader = "X-Identity-Token"

const (
	minIdentityLen = 2
	maxIdentityLen = 64
)

var (
	ErrInvalidIdentity = errors.New("identity must be 2-64 characters without whitespace")
	ErrInvalidToken    = errors.New("invalid identity token")
	ErrMissingToken    = errors.New(IdentityHeader + " header required")
)

// ValidateIdentity checks that a requested identity name is acceptable.
func ValidateIdentity(identity string) error {
	if len(identity) < minIdentityLen || len(identity) > maxIdentityLen {
		return ErrInvalidIdentity
	}
	if strings.ContainsAny(identity, " \t\r\n") {
		return ErrInvalidIdentity
	}
	return nil
}

// IssueToken creates an HMAC-signed token proving ownership of identity.
// This is deterministic and verifiable without storage.
func IssueToken(identity, salt string) string {
	return identity + "." + sign(identity, salt)
}

// VerifyToken checks a token and returns the identity it was issued for.
func VerifyToken(token, salt string) (string, error) {
	i := strings.LastIndexByte(token, '.')
	if i <= 0 || i == len(token)-1 {
		return "", ErrInvalidToken
	}
	identity, sig := token[:i], token[i+1:]
	if ValidateIdentity(identity) != nil {
		return "", ErrInvalidToken
	}
	if !hmac.Equal([]byte(sig), []byte(sign(identity, salt))) {
		return "", ErrInvalidToken
	}
	return identity, nil
}

// FromRequest returns the verified identity of the caller.
func FromRequest(r *http.Request, salt string) (string, error) {
	token := r.Header.Get(IdentityHeader)
	if token == "" {
		return "", ErrMissingToken
	}
	return VerifyToken(token, salt)
}

func sign(identity, salt string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(identity))
	sum := h.Sum(nil)
	// Use URL-safe base64 and trim padding for cleaner tokens
	return strings.TrimRight(base64.URLEncoding.EncodeToString(sum), "=")
}

// HashIP creates a one-way hash of an IP address for privacy
// Includes salt to prevent rainbow table attacks
func HashIP(ip, salt string) string {
	if ip == "" {
		return ""
	}
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(ip))
	sum := h.Sum(nil)
	// Return first 16 hex chars (64 bits) - enough for deduplication
	return hex.EncodeToString(sum[:8])
}
