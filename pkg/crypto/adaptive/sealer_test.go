package adaptive

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func testKey() []byte {
	key := make([]byte, KeySize)
	for i := range key {
		key[i] = byte(i)
	}
	return key
}

func TestNew_KeySize(t *testing.T) {
	for _, n := range []int{0, 16, 24, 31, 33} {
		if _, err := New(make([]byte, n)); !errors.Is(err, ErrKeySize) {
			t.Errorf("New(%d bytes) error = %v, want ErrKeySize", n, err)
		}
	}
	if _, err := NewWithAlgorithm(testKey(), Algorithm(9)); !errors.Is(err, ErrUnknownAlgorithm) {
		t.Errorf("unknown algorithm error = %v", err)
	}
}

func TestSealOpen(t *testing.T) {
	for _, alg := range []Algorithm{AlgAESGCM, AlgChaCha20} {
		t.Run(alg.String(), func(t *testing.T) {
			s, err := NewWithAlgorithm(testKey(), alg)
			if err != nil {
				t.Fatal(err)
			}
			tests := []struct {
				name      string
				plaintext []byte
				aad       []byte
			}{
				{"empty", []byte{}, nil},
				{"token", []byte("eyJhbGciOiJIUzI1NiJ9.e30.sig"), []byte("roster/access_token")},
				{"binary", []byte{0x00, 0xFF, 0x10}, []byte{0x01}},
			}
			for _, tt := range tests {
				sealed, err := s.Seal(tt.plaintext, tt.aad)
				if err != nil {
					t.Fatalf("%s: Seal() error = %v", tt.name, err)
				}
				if Algorithm(sealed[0]) != alg {
					t.Errorf("%s: envelope algorithm = %v", tt.name, Algorithm(sealed[0]))
				}
				got, err := s.Open(sealed, tt.aad)
				if err != nil {
					t.Fatalf("%s: Open() error = %v", tt.name, err)
				}
				if !bytes.Equal(got, tt.plaintext) {
					t.Errorf("%s: Open() = %v, want %v", tt.name, got, tt.plaintext)
				}
			}
		})
	}
}

func TestOpen_Rejects(t *testing.T) {
	s, _ := New(testKey())
	sealed, err := s.Seal([]byte("secret"), []byte("aad"))
	if err != nil {
		t.Fatal(err)
	}

	tampered := append([]byte(nil), sealed...)
	tampered[len(tampered)-1] ^= 0xFF
	if _, err := s.Open(tampered, []byte("aad")); err == nil {
		t.Error("tampered envelope should not open")
	}
	if _, err := s.Open(sealed, []byte("other")); err == nil {
		t.Error("wrong aad should not open")
	}
	if _, err := s.Open(nil, nil); !errors.Is(err, ErrEnvelope) {
		t.Errorf("empty envelope error = %v", err)
	}
	if _, err := s.Open(sealed[:5], []byte("aad")); !errors.Is(err, ErrEnvelope) {
		t.Errorf("short envelope error = %v", err)
	}

	other := testKey()
	other[0] ^= 1
	s2, _ := New(other)
	if _, err := s2.Open(sealed, []byte("aad")); err == nil {
		t.Error("different key should not open")
	}
}

func TestOpen_CrossAlgorithm(t *testing.T) {
	aes, _ := NewWithAlgorithm(testKey(), AlgAESGCM)
	chacha, _ := NewWithAlgorithm(testKey(), AlgChaCha20)

	sealed, err := chacha.Seal([]byte("portable"), nil)
	if err != nil {
		t.Fatal(err)
	}
	got, err := aes.Open(sealed, nil)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if string(got) != "portable" {
		t.Errorf("Open() = %q", got)
	}
}

func TestLoadOrCreateKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "token.key")

	first, err := LoadOrCreateKey(path)
	if err != nil {
		t.Fatalf("LoadOrCreateKey() error = %v", err)
	}
	if len(first) != KeySize {
		t.Fatalf("key len = %d", len(first))
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("key file mode = %o, want 600", perm)
	}

	second, err := LoadOrCreateKey(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(first, second) {
		t.Error("second load should return the stored key")
	}
}

func TestLoadOrCreateKey_WrongSize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.key")
	if err := os.WriteFile(path, []byte("short"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadOrCreateKey(path); !errors.Is(err, ErrKeySize) {
		t.Errorf("error = %v, want ErrKeySize", err)
	}
}
