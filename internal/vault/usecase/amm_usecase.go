package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	vaultDomain "github.com/allisson/vaultactions/internal/vault/domain"
)

// ammUseCase implements AmmUseCase.
type ammUseCase struct {
	ammRepo AmmRepository
}

// NewAmmUseCase creates a new AMM registry use case.
func NewAmmUseCase(ammRepo AmmRepository) AmmUseCase {
	return &ammUseCase{ammRepo: ammRepo}
}

// Create registers a new AMM with its canonical token.
func (a *ammUseCase) Create(
	ctx context.Context,
	input *vaultDomain.CreateAmmInput,
) (*vaultDomain.Amm, error) {
	amm := &vaultDomain.Amm{
		ID:             uuid.Must(uuid.NewV7()),
		Address:        input.Address,
		CanonicalToken: input.CanonicalToken,
		CreatedAt:      time.Now().UTC(),
	}

	if err := a.ammRepo.Create(ctx, amm); err != nil {
		return nil, err
	}

	return amm, nil
}

// GetByAddress retrieves an AMM by address.
func (a *ammUseCase) GetByAddress(ctx context.Context, address string) (*vaultDomain.Amm, error) {
	return a.ammRepo.GetByAddress(ctx, address)
}

// List retrieves AMMs with pagination, newest first.
func (a *ammUseCase) List(ctx context.Context, limit, offset int) ([]*vaultDomain.Amm, error) {
	return a.ammRepo.List(ctx, limit, offset)
}
