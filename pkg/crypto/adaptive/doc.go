// Package adaptive seals small secrets at rest with an AEAD chosen for
// the host.
//
// Algorithms:
//
//   - AES-256-GCM on architectures with hardware AES (amd64, arm64)
//   - ChaCha20-Poly1305 everywhere else
//
// A sealed envelope is self-describing:
//
//	[1 byte algorithm id][nonce][ciphertext+tag]
//
// so a value sealed on one host opens on any other that holds the key.
//
// Usage:
//
//	key, err := adaptive.LoadOrCreateKey(path)
//	s, err := adaptive.New(key)
//	sealed, err := s.Seal(plaintext, aad)
//	plaintext, err := s.Open(sealed, aad)
package adaptive
