// Package usecase defines business logic interfaces for account management.
package usecase

import (
	"context"

	"github.com/google/uuid"

	accountDomain "github.com/allisson/vaultactions/internal/account/domain"
)

// AccountRepository defines persistence operations for accounts.
// Implementations must support transaction-aware operations via context propagation.
type AccountRepository interface {
	// Create stores a new account. Returns ErrAddressTaken on duplicate address.
	Create(ctx context.Context, account *accountDomain.Account) error

	// Update modifies an existing account.
	Update(ctx context.Context, account *accountDomain.Account) error

	// Get retrieves an account by ID. Returns ErrAccountNotFound if not found.
	Get(ctx context.Context, accountID uuid.UUID) (*accountDomain.Account, error)

	// GetByAddress retrieves an account by address. Returns ErrAccountNotFound if not found.
	GetByAddress(ctx context.Context, address string) (*accountDomain.Account, error)

	// List retrieves accounts with pagination, newest first.
	List(ctx context.Context, limit, offset int) ([]*accountDomain.Account, error)
}

// AccountUseCase defines business logic operations for accounts.
type AccountUseCase interface {
	// Create generates a new account with a random secret. The plain secret
	// is only returned once.
	Create(ctx context.Context, input *accountDomain.CreateAccountInput) (*accountDomain.CreateAccountOutput, error)

	// Get retrieves an account by ID.
	Get(ctx context.Context, accountID uuid.UUID) (*accountDomain.Account, error)

	// List retrieves accounts with pagination, newest first.
	List(ctx context.Context, limit, offset int) ([]*accountDomain.Account, error)

	// Delete deactivates an account, preventing authentication while keeping
	// the record.
	Delete(ctx context.Context, accountID uuid.UUID) error

	// Authenticate validates an account secret. Returns the account on
	// success, ErrUnauthorized on bad credentials and ErrAccountInactive
	// for deactivated accounts.
	Authenticate(ctx context.Context, accountID uuid.UUID, plainSecret string) (*accountDomain.Account, error)
}
