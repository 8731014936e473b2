// Package usecase implements the vault collaborator business logic.
package usecase

import (
	"context"
	"math/big"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/vaultactions/internal/database"
	vaultDomain "github.com/allisson/vaultactions/internal/vault/domain"
)

// Event names emitted by the vault primitives.
const (
	EventWithdraw = "Withdraw"
	EventBridge   = "Bridge"
)

// withdrawEventPayload is the payload for Withdraw events.
type withdrawEventPayload struct {
	Token     string `json:"token"`
	Recipient string `json:"recipient"`
	Amount    string `json:"amount"`
	Fee       string `json:"fee"`
}

// bridgeEventPayload is the payload for Bridge events.
type bridgeEventPayload struct {
	Source       string `json:"source"`
	ChainID      uint64 `json:"chainId"`
	Token        string `json:"token"`
	Amount       string `json:"amount"`
	MinAmountOut string `json:"minAmountOut"`
	Payload      string `json:"payload"`
}

// vaultUseCase implements VaultUseCase.
type vaultUseCase struct {
	txManager    database.TxManager
	vaultRepo    VaultRepository
	eventEmitter EventEmitter
	bootstrapper GrantBootstrapper
}

// NewVaultUseCase creates a new vault use case.
func NewVaultUseCase(
	txManager database.TxManager,
	vaultRepo VaultRepository,
	eventEmitter EventEmitter,
	bootstrapper GrantBootstrapper,
) VaultUseCase {
	return &vaultUseCase{
		txManager:    txManager,
		vaultRepo:    vaultRepo,
		eventEmitter: eventEmitter,
		bootstrapper: bootstrapper,
	}
}

// Create stores a new vault and seeds the owner's capability grants in the
// same transaction, so a vault is never live without an owner able to manage
// its permissions.
func (v *vaultUseCase) Create(
	ctx context.Context,
	input *vaultDomain.CreateVaultInput,
	owner string,
) (*vaultDomain.Vault, error) {
	vault := &vaultDomain.Vault{
		ID:           uuid.Must(uuid.NewV7()),
		Name:         input.Name,
		FeeCollector: input.FeeCollector,
		CreatedAt:    time.Now().UTC(),
	}

	err := v.txManager.WithTx(ctx, func(ctx context.Context) error {
		if err := v.vaultRepo.Create(ctx, vault); err != nil {
			return err
		}
		return v.bootstrapper.Bootstrap(ctx, vault.ID, owner)
	})
	if err != nil {
		return nil, err
	}

	return vault, nil
}

// Get retrieves a vault by ID.
func (v *vaultUseCase) Get(ctx context.Context, vaultID uuid.UUID) (*vaultDomain.Vault, error) {
	return v.vaultRepo.Get(ctx, vaultID)
}

// List retrieves vaults with pagination, newest first.
func (v *vaultUseCase) List(ctx context.Context, limit, offset int) ([]*vaultDomain.Vault, error) {
	return v.vaultRepo.List(ctx, limit, offset)
}

// Deposit credits the vault's balance for a token.
func (v *vaultUseCase) Deposit(
	ctx context.Context,
	vaultID uuid.UUID,
	token string,
	amount *big.Int,
) error {
	if amount == nil || amount.Sign() <= 0 {
		return vaultDomain.ErrInvalidAmount
	}

	if _, err := v.vaultRepo.Get(ctx, vaultID); err != nil {
		return err
	}

	return v.vaultRepo.AddBalance(ctx, vaultID, token, amount)
}

// GetBalance retrieves the vault's balance for a token.
func (v *vaultUseCase) GetBalance(
	ctx context.Context,
	vaultID uuid.UUID,
	token string,
) (*big.Int, error) {
	if _, err := v.vaultRepo.Get(ctx, vaultID); err != nil {
		return nil, err
	}
	return v.vaultRepo.GetBalance(ctx, vaultID, token)
}

// Withdraw debits the vault's balance and records a Withdraw event. The
// deduction and the event join the caller's transaction, so a failed guard
// upstream rolls both back.
func (v *vaultUseCase) Withdraw(ctx context.Context, input *vaultDomain.WithdrawInput) error {
	if input.Amount == nil || input.Amount.Sign() <= 0 {
		return vaultDomain.ErrInvalidAmount
	}

	fee := input.Fee
	if fee == nil {
		fee = big.NewInt(0)
	}

	if err := v.vaultRepo.DeductBalance(ctx, input.VaultID, input.Token, input.Amount); err != nil {
		return err
	}

	return v.eventEmitter.Emit(ctx, EventWithdraw, input.VaultID, withdrawEventPayload{
		Token:     input.Token,
		Recipient: input.Recipient,
		Amount:    input.Amount.String(),
		Fee:       fee.String(),
	})
}

// Bridge debits the vault's balance and records a Bridge event. The deduction
// and the event join the caller's transaction.
func (v *vaultUseCase) Bridge(ctx context.Context, input *vaultDomain.BridgeInput) error {
	if input.Amount == nil || input.Amount.Sign() <= 0 {
		return vaultDomain.ErrInvalidAmount
	}

	minAmountOut := input.MinAmountOut
	if minAmountOut == nil {
		minAmountOut = big.NewInt(0)
	}

	if err := v.vaultRepo.DeductBalance(ctx, input.VaultID, input.Token, input.Amount); err != nil {
		return err
	}

	return v.eventEmitter.Emit(ctx, EventBridge, input.VaultID, bridgeEventPayload{
		Source:       input.Source,
		ChainID:      input.ChainID,
		Token:        input.Token,
		Amount:       input.Amount.String(),
		MinAmountOut: minAmountOut.String(),
		Payload:      input.Payload,
	})
}
