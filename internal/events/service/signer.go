// Package service provides event payload signing.
// Implements HKDF-SHA256 key derivation and HMAC-SHA256 signatures.
package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"io"

	"golang.org/x/crypto/hkdf"

	"github.com/google/uuid"

	apperrors "github.com/allisson/vaultactions/internal/errors"
)

// Signer signs and verifies event payloads.
type Signer interface {
	// Sign returns the hex-encoded signature for an event payload.
	Sign(name string, entityID uuid.UUID, payload []byte) (string, error)

	// Verify reports whether the signature matches the event payload.
	Verify(name string, entityID uuid.UUID, payload []byte, signature string) bool

	// Enabled reports whether signing is configured.
	Enabled() bool
}

// hmacSigner implements Signer using a key derived from the configured
// signing secret. The HKDF info string is versioned so a future algorithm
// change can coexist with old signatures.
type hmacSigner struct {
	signingKey []byte
}

// NewHMACSigner creates a Signer from the raw signing secret. An empty
// secret disables signing: Sign returns empty signatures and Verify
// accepts anything.
func NewHMACSigner(secret []byte) (Signer, error) {
	if len(secret) == 0 {
		return &hmacSigner{}, nil
	}

	info := []byte("event-signing-v1")
	reader := hkdf.New(sha256.New, secret, nil, info)

	signingKey := make([]byte, 32)
	if _, err := io.ReadFull(reader, signingKey); err != nil {
		return nil, apperrors.Wrap(err, "failed to derive event signing key")
	}

	return &hmacSigner{signingKey: signingKey}, nil
}

// Enabled reports whether signing is configured.
func (s *hmacSigner) Enabled() bool {
	return len(s.signingKey) > 0
}

// canonicalize converts an event to its canonical byte representation.
// Format: entity_id || name (length-prefixed) || payload (length-prefixed).
// Length prefixes prevent ambiguity between adjacent variable-length fields.
func (s *hmacSigner) canonicalize(name string, entityID uuid.UUID, payload []byte) []byte {
	buf := make([]byte, 0, 64+len(name)+len(payload))
	buf = append(buf, entityID[:]...)
	buf = appendLengthPrefixed(buf, []byte(name))
	buf = appendLengthPrefixed(buf, payload)
	return buf
}

// appendLengthPrefixed adds a 4-byte big-endian length prefix followed by data.
func appendLengthPrefixed(buf []byte, data []byte) []byte {
	length := make([]byte, 4)
	binary.BigEndian.PutUint32(length, uint32(len(data)))
	buf = append(buf, length...)
	buf = append(buf, data...)
	return buf
}

// Sign returns the hex-encoded HMAC-SHA256 signature for an event payload.
func (s *hmacSigner) Sign(name string, entityID uuid.UUID, payload []byte) (string, error) {
	if !s.Enabled() {
		return "", nil
	}

	mac := hmac.New(sha256.New, s.signingKey)
	mac.Write(s.canonicalize(name, entityID, payload))
	return hex.EncodeToString(mac.Sum(nil)), nil
}

// Verify reports whether the signature matches the event payload.
// Uses constant-time comparison.
func (s *hmacSigner) Verify(name string, entityID uuid.UUID, payload []byte, signature string) bool {
	if !s.Enabled() {
		return true
	}

	expected, err := s.Sign(name, entityID, payload)
	if err != nil {
		return false
	}

	return hmac.Equal([]byte(expected), []byte(signature))
}
