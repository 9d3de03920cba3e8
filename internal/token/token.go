// Package token generates the public tokens that let a customer retrieve
// their order without authentication.
package token

import (
	"crypto/rand"
	"encoding/hex"
)

// Source yields one public token per call. It is injected into the order
// service so tests can substitute a deterministic sequence.
type Source func() (string, error)

// NewSource returns the production token source: 16 bytes (128 bits) from
// crypto/rand, hex-encoded to a 32-character string. Uniqueness is backed by
// the unique index on orders.public_token.
func NewSource() Source {
	return func() (string, error) {
		b := make([]byte, 16)
		if _, err := rand.Read(b); err != nil {
			return "", err
		}
		return hex.EncodeToString(b), nil
	}
}
