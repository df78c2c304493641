// Package auth implements the token lifecycle for a username/password
// authenticated service: issuance of signed access/refresh token pairs,
// verification of their authenticity and freshness, and server-side
// revocation bookkeeping.
//
// Tokens are compact JWTs signed with HMAC-SHA-512. Refresh tokens are
// recorded in a revocation ledger at issuance; a successful login or
// refresh revokes every previously outstanding token for that user before
// new material is issued. Ledger rows are never deleted, revocation flips
// flags only.
//
// The package exposes three boundary operations, Register, Login and
// Refresh, through the Authenticator interface. HTTP routing, password
// hashing policy and the storage engine are collaborators injected at
// construction time.
package auth
