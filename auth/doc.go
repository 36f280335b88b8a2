// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth is the identity provider for event creators and voters.

# Identity Tokens

An identity is a short name. Tokens bind a name to the server secret with
HMAC-SHA256:

	token := auth.IssueToken("alice", salt)     // "alice.<signature>"
	identity, err := auth.VerifyToken(token, salt)

Tokens are deterministic, so the same identity and salt always produce the
same token and nothing needs to be stored. The signature is URL-safe base64
without padding.

Handlers read the token from the X-Identity-Token header:

	voter, err := auth.FromRequest(r, cfg.IdentitySalt)

# IP Hashing

For privacy-preserving fraud detection:

	hash := auth.HashIP(ipAddress, salt)

Returns first 8 bytes (16 hex chars) of HMAC-SHA256.
*/
package auth
