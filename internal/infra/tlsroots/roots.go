package tlsroots

import (
	"crypto/tls"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"os"
)

var (
	// ErrNoCertsFound is returned when a bundle holds no CERTIFICATE blocks.
	ErrNoCertsFound = errors.New("tlsroots: no certificates found in PEM data")
)

// SystemPool returns a copy of the system roots, or an empty pool where
// the platform has none.
func SystemPool() *x509.CertPool {
	pool, err := x509.SystemCertPool()
	if err != nil || pool == nil {
		return x509.NewCertPool()
	}
	return pool
}

// AppendPEM adds every CERTIFICATE block in data to pool and returns how
// many were added. Other block types are skipped.
func AppendPEM(pool *x509.CertPool, data []byte) (int, error) {
	added := 0
	for len(data) > 0 {
		var block *pem.Block
		block, data = pem.Decode(data)
		if block == nil {
			break
		}
		if block.Type != "CERTIFICATE" {
			continue
		}
		cert, err := x509.ParseCertificate(block.Bytes)
		if err != nil {
			return added, fmt.Errorf("tlsroots: parse certificate: %w", err)
		}
		pool.AddCert(cert)
		added++
	}
	if added == 0 {
		return 0, ErrNoCertsFound
	}
	return added, nil
}

// LoadPool returns the system roots extended with the bundle at caFile.
func LoadPool(caFile string) (*x509.CertPool, error) {
	data, err := os.ReadFile(caFile)
	if err != nil {
		return nil, fmt.Errorf("tlsroots: read ca file: %w", err)
	}
	pool := SystemPool()
	if _, err := AppendPEM(pool, data); err != nil {
		return nil, fmt.Errorf("%s: %w", caFile, err)
	}
	return pool, nil
}

// ClientConfig returns the TLS config for API requests. With no caFile
// it returns nil, meaning Go's defaults.
func ClientConfig(caFile string) (*tls.Config, error) {
	if caFile == "" {
		return nil, nil
	}
	pool, err := LoadPool(caFile)
	if err != nil {
		return nil, err
	}
	return &tls.Config{
		RootCAs:    pool,
		MinVersion: tls.VersionTLS12,
	}, nil
}
