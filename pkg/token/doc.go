// Package token holds small helpers for handling opaque secrets:
// random material, short fingerprints for logs, and constant-time
// comparison.
//
// Fingerprints are the first 12 hex characters of the SHA-256 digest.
// They identify a token in logs and status output without revealing it.
package token
