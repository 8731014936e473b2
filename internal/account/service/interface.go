// Package service provides account secret generation and validation.
package service

// SecretService defines operations for account secret generation and validation.
type SecretService interface {
	// GenerateSecret creates a new cryptographically secure random secret.
	// Returns both the plain text secret (shown once to the caller) and the
	// hashed version (stored in the database).
	GenerateSecret() (plainSecret string, hashedSecret string, error error)

	// HashSecret hashes a plain text secret.
	HashSecret(plainSecret string) (hashedSecret string, error error)

	// CompareSecret compares a plain text secret against a hashed secret
	// in constant time.
	CompareSecret(plainSecret string, hashedSecret string) bool
}
