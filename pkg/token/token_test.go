package token

import (
	"encoding/base64"
	"testing"
)

func TestRandomBytes(t *testing.T) {
	a, err := RandomBytes(32)
	if err != nil {
		t.Fatalf("RandomBytes() error = %v", err)
	}
	b, _ := RandomBytes(32)
	if len(a) != 32 {
		t.Errorf("len = %d, want 32", len(a))
	}
	if string(a) == string(b) {
		t.Error("two draws should differ")
	}
}

func TestRandomString(t *testing.T) {
	s, err := RandomString(24)
	if err != nil {
		t.Fatalf("RandomString() error = %v", err)
	}
	raw, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		t.Fatalf("not RawURL base64: %v", err)
	}
	if len(raw) != 24 {
		t.Errorf("decoded len = %d, want 24", len(raw))
	}
}

func TestFingerprint(t *testing.T) {
	tests := []struct {
		name   string
		secret string
		want   string
	}{
		{"empty", "", ""},
		// sha256("abc") = ba7816bf8f01cfea...
		{"abc", "abc", "ba7816bf8f01"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Fingerprint(tt.secret); got != tt.want {
				t.Errorf("Fingerprint(%q) = %q, want %q", tt.secret, got, tt.want)
			}
		})
	}

	if Fingerprint("a") == Fingerprint("b") {
		t.Error("different secrets should have different fingerprints")
	}
}

func TestEqual(t *testing.T) {
	if !Equal("s3cret", "s3cret") {
		t.Error("Equal should match identical strings")
	}
	if Equal("s3cret", "s3cre") {
		t.Error("Equal should reject different strings")
	}
}
