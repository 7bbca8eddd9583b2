package adaptive

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"runtime"

	"golang.org/x/crypto/chacha20poly1305"
)

// KeySize is the only key length accepted by either algorithm.
const KeySize = 32

// Algorithm identifies the AEAD used for an envelope.
type Algorithm byte

const (
	AlgAESGCM   Algorithm = 1
	AlgChaCha20 Algorithm = 2
)

// String returns the conventional algorithm name.
func (a Algorithm) String() string {
	switch a {
	case AlgAESGCM:
		return "aes-256-gcm"
	case AlgChaCha20:
		return "chacha20-poly1305"
	default:
		return fmt.Sprintf("unknown(%d)", byte(a))
	}
}

var (
	ErrKeySize          = errors.New("adaptive: key must be 32 bytes")
	ErrUnknownAlgorithm = errors.New("adaptive: unknown algorithm")
	ErrEnvelope         = errors.New("adaptive: malformed envelope")
)

// Sealer encrypts and authenticates values. It is safe for concurrent use.
type Sealer struct {
	key  []byte
	alg  Algorithm
	aead cipher.AEAD
}

// New returns a Sealer using the preferred algorithm for this host.
func New(key []byte) (*Sealer, error) {
	return NewWithAlgorithm(key, Preferred())
}

// NewWithAlgorithm returns a Sealer that seals with alg.
func NewWithAlgorithm(key []byte, alg Algorithm) (*Sealer, error) {
	if len(key) != KeySize {
		return nil, ErrKeySize
	}
	aead, err := newAEAD(key, alg)
	if err != nil {
		return nil, err
	}
	k := make([]byte, len(key))
	copy(k, key)
	return &Sealer{key: k, alg: alg, aead: aead}, nil
}

// Preferred reports the algorithm New would pick.
func Preferred() Algorithm {
	switch runtime.GOARCH {
	case "amd64", "arm64":
		return AlgAESGCM
	default:
		return AlgChaCha20
	}
}

// Algorithm returns the algorithm used by Seal.
func (s *Sealer) Algorithm() Algorithm {
	return s.alg
}

// Seal encrypts plaintext bound to aad and returns a sealed envelope.
func (s *Sealer) Seal(plaintext, aad []byte) ([]byte, error) {
	nonceSize := s.aead.NonceSize()
	out := make([]byte, 1+nonceSize, 1+nonceSize+len(plaintext)+s.aead.Overhead())
	out[0] = byte(s.alg)
	nonce := out[1 : 1+nonceSize]
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("adaptive: read nonce: %w", err)
	}
	return s.aead.Seal(out, nonce, plaintext, aad), nil
}

// Open verifies and decrypts an envelope produced by Seal. Envelopes
// sealed with the other algorithm open as long as the key matches.
func (s *Sealer) Open(sealed, aad []byte) ([]byte, error) {
	if len(sealed) < 1 {
		return nil, ErrEnvelope
	}
	aead := s.aead
	if alg := Algorithm(sealed[0]); alg != s.alg {
		var err error
		if aead, err = newAEAD(s.key, alg); err != nil {
			return nil, err
		}
	}
	body := sealed[1:]
	if len(body) < aead.NonceSize()+aead.Overhead() {
		return nil, ErrEnvelope
	}
	nonce, ciphertext := body[:aead.NonceSize()], body[aead.NonceSize():]
	plaintext, err := aead.Open(nil, nonce, ciphertext, aad)
	if err != nil {
		return nil, fmt.Errorf("adaptive: open: %w", err)
	}
	return plaintext, nil
}

func newAEAD(key []byte, alg Algorithm) (cipher.AEAD, error) {
	switch alg {
	case AlgAESGCM:
		block, err := aes.NewCipher(key)
		if err != nil {
			return nil, err
		}
		return cipher.NewGCM(block)
	case AlgChaCha20:
		return chacha20poly1305.New(key)
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownAlgorithm, byte(alg))
	}
}
