// Package service declares the ports the use cases depend on: hashing, tokens,
// payments, media, events, metrics and time.
package service

// PasswordHasher hashes and verifies account passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)

	// Check reports whether password matches hash. Malformed hashes never match.
	Check(password, hash string) bool

	// NeedsRehash reports whether hash was produced with different parameters
	// than the hasher currently uses.
	NeedsRehash(hash string) bool
}
