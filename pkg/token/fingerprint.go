package token

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
)

const fingerprintLen = 12

// Fingerprint returns a short, stable identifier for secret.
// The empty string has an empty fingerprint.
func Fingerprint(secret string) string {
	if secret == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:])[:fingerprintLen]
}

// Equal compares two secrets in constant time.
func Equal(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
