package token

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// RandomBytes returns n bytes from crypto/rand.
func RandomBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return nil, fmt.Errorf("token: random: %w", err)
	}
	return b, nil
}

// RandomString returns n random bytes, base64 RawURL encoded.
func RandomString(n int) (string, error) {
	b, err := RandomBytes(n)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
