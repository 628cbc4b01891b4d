// Package digest computes the one-way credential digest used for
// equality-based authentication. The format (hex-encoded SHA-256 of the
// cleartext) is a compatibility contract with the stored credentials and the
// existing clients.
package digest

import (
	"crypto/sha256"
	"encoding/hex"
)

// Password returns the deterministic digest of a cleartext password.
func Password(cleartext string) string {
	sum := sha256.Sum256([]byte(cleartext))
	return hex.EncodeToString(sum[:])
}
