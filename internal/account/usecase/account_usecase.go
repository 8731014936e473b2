// Package usecase implements account management business logic.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	accountDomain "github.com/allisson/vaultactions/internal/account/domain"
	accountService "github.com/allisson/vaultactions/internal/account/service"
	apperrors "github.com/allisson/vaultactions/internal/errors"
)

// accountUseCase implements AccountUseCase.
type accountUseCase struct {
	accountRepo   AccountRepository
	secretService accountService.SecretService
}

// NewAccountUseCase creates a new account use case.
func NewAccountUseCase(
	accountRepo AccountRepository,
	secretService accountService.SecretService,
) AccountUseCase {
	return &accountUseCase{
		accountRepo:   accountRepo,
		secretService: secretService,
	}
}

// Create generates and persists a new account with a random secret.
// The plain secret is only returned once and must be stored by the caller;
// only the Argon2id hash is persisted.
func (a *accountUseCase) Create(
	ctx context.Context,
	input *accountDomain.CreateAccountInput,
) (*accountDomain.CreateAccountOutput, error) {
	plainSecret, hashedSecret, err := a.secretService.GenerateSecret()
	if err != nil {
		return nil, err
	}

	account := &accountDomain.Account{
		ID:        uuid.Must(uuid.NewV7()),
		Secret:    hashedSecret,
		Name:      input.Name,
		Address:   input.Address,
		IsActive:  true,
		CreatedAt: time.Now().UTC(),
	}

	if err := a.accountRepo.Create(ctx, account); err != nil {
		return nil, err
	}

	return &accountDomain.CreateAccountOutput{
		ID:          account.ID,
		Address:     account.Address,
		PlainSecret: plainSecret,
	}, nil
}

// Get retrieves an account by ID.
func (a *accountUseCase) Get(ctx context.Context, accountID uuid.UUID) (*accountDomain.Account, error) {
	return a.accountRepo.Get(ctx, accountID)
}

// List retrieves accounts with pagination, newest first.
func (a *accountUseCase) List(ctx context.Context, limit, offset int) ([]*accountDomain.Account, error) {
	return a.accountRepo.List(ctx, limit, offset)
}

// Delete performs a soft delete by deactivating the account.
func (a *accountUseCase) Delete(ctx context.Context, accountID uuid.UUID) error {
	account, err := a.accountRepo.Get(ctx, accountID)
	if err != nil {
		return err
	}

	account.IsActive = false

	return a.accountRepo.Update(ctx, account)
}

// Authenticate validates an account secret.
// A missing account and a wrong secret both surface as ErrUnauthorized so
// the API does not leak which account IDs exist.
func (a *accountUseCase) Authenticate(
	ctx context.Context,
	accountID uuid.UUID,
	plainSecret string,
) (*accountDomain.Account, error) {
	account, err := a.accountRepo.Get(ctx, accountID)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrUnauthorized
		}
		return nil, err
	}

	if !a.secretService.CompareSecret(plainSecret, account.Secret) {
		return nil, apperrors.ErrUnauthorized
	}

	if !account.IsActive {
		return nil, accountDomain.ErrAccountInactive
	}

	return account, nil
}
