// Package domain defines API account domain models.
//
// An account is an API credential bound to an on-chain-style address. The
// address is what the authorization registry grants capabilities to; the
// secret is what the caller authenticates with.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Account represents an API account.
type Account struct {
	ID        uuid.UUID
	Secret    string //nolint:gosec // hashed account secret (not plaintext)
	Name      string
	Address   string // 0x-prefixed address identifying the account in grants
	IsActive  bool
	CreatedAt time.Time
}

// CreateAccountInput contains the parameters for creating an account.
type CreateAccountInput struct {
	Name    string
	Address string
}

// CreateAccountOutput contains the result of creating an account.
// The plain secret is only returned once.
type CreateAccountOutput struct {
	ID          uuid.UUID
	Address     string
	PlainSecret string
}
