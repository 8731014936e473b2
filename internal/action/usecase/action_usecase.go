// Package usecase implements the guarded action business logic.
package usecase

import (
	"context"
	"encoding/json"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"

	actionDomain "github.com/allisson/vaultactions/internal/action/domain"
	authzDomain "github.com/allisson/vaultactions/internal/authz/domain"
	"github.com/allisson/vaultactions/internal/database"
	apperrors "github.com/allisson/vaultactions/internal/errors"
	"github.com/allisson/vaultactions/internal/fixedpoint"
	vaultDomain "github.com/allisson/vaultactions/internal/vault/domain"
)

// BridgeSource identifies the bridge connector bridging calls go through.
const BridgeSource = "hop"

// Event names emitted by action configuration setters and executions.
const (
	EventThresholdSet       = "ThresholdSet"
	EventRelayerSet         = "RelayerSet"
	EventLimitsSet          = "LimitsSet"
	EventTimeLockSet        = "TimeLockSet"
	EventRecipientSet       = "RecipientSet"
	EventTokenAmmSet        = "TokenAmmSet"
	EventAllowedChainSet    = "AllowedChainSet"
	EventMaxSlippageSet     = "MaxSlippageSet"
	EventMaxBonderFeePctSet = "MaxBonderFeePctSet"
	EventMaxDeadlineSet     = "MaxDeadlineSet"
	EventExecuted           = "Executed"
)

type thresholdSetPayload struct {
	Token  string `json:"token"`
	Amount string `json:"amount"`
}

type relayerSetPayload struct {
	Relayer string `json:"relayer"`
	Allowed bool   `json:"allowed"`
}

type limitsSetPayload struct {
	GasPriceLimit string `json:"gasPriceLimit"`
	TxCostLimit   string `json:"txCostLimit"`
	Token         string `json:"token"`
}

type timeLockSetPayload struct {
	CooldownSeconds int64 `json:"cooldownSeconds"`
}

type recipientSetPayload struct {
	Recipient string `json:"recipient"`
}

type tokenAmmSetPayload struct {
	Token string `json:"token"`
	Amm   string `json:"amm"`
}

type allowedChainSetPayload struct {
	ChainID uint64 `json:"chainId"`
	Allowed bool   `json:"allowed"`
}

type maxSlippageSetPayload struct {
	MaxSlippage string `json:"maxSlippage"`
}

type maxBonderFeePctSetPayload struct {
	MaxBonderFeePct string `json:"maxBonderFeePct"`
}

type maxDeadlineSetPayload struct {
	MaxDeadline int64 `json:"maxDeadline"`
}

type executedPayload struct {
	RelayerCost string `json:"relayerCost"`
}

// bridgePayload is the opaque connector data forwarded with a bridging call.
type bridgePayload struct {
	BonderFee string `json:"bonderFee"`
	Deadline  int64  `json:"deadline"`
}

// actionUseCase implements ActionUseCase.
type actionUseCase struct {
	txManager    database.TxManager
	actionRepo   ActionRepository
	registry     Registry
	vaultService VaultService
	ammRegistry  AmmRegistry
	eventEmitter EventEmitter
	priceOracle  PriceOracle
	chainID      uint64
	now          func() time.Time
}

// NewActionUseCase creates a new action use case. The chainID is the chain
// this deployment lives on; bridging to it is rejected.
func NewActionUseCase(
	txManager database.TxManager,
	actionRepo ActionRepository,
	registry Registry,
	vaultService VaultService,
	ammRegistry AmmRegistry,
	eventEmitter EventEmitter,
	priceOracle PriceOracle,
	chainID uint64,
) ActionUseCase {
	return &actionUseCase{
		txManager:    txManager,
		actionRepo:   actionRepo,
		registry:     registry,
		vaultService: vaultService,
		ammRegistry:  ammRegistry,
		eventEmitter: eventEmitter,
		priceOracle:  priceOracle,
		chainID:      chainID,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// Create stores a new action with zero-valued configuration, bootstraps the
// owner's grants and seeds the managers and relayers with the call
// capability, all in one transaction. Relayers are additionally whitelisted
// for gas reimbursement.
func (a *actionUseCase) Create(
	ctx context.Context,
	input *actionDomain.CreateActionInput,
	owner string,
) (*actionDomain.Action, error) {
	if !input.Kind.IsValid() {
		return nil, actionDomain.ErrInvalidKind
	}

	if _, err := a.vaultService.Get(ctx, input.VaultID); err != nil {
		return nil, err
	}

	now := a.now()
	action := &actionDomain.Action{
		ID:              uuid.Must(uuid.NewV7()),
		VaultID:         input.VaultID,
		Kind:            input.Kind,
		Name:            input.Name,
		ThresholdAmount: fixedpoint.Zero(),
		GasPriceLimit:   fixedpoint.Zero(),
		TxCostLimit:     fixedpoint.Zero(),
		MaxSlippage:     fixedpoint.Zero(),
		MaxBonderFeePct: fixedpoint.Zero(),
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	err := a.txManager.WithTx(ctx, func(ctx context.Context) error {
		if err := a.actionRepo.Create(ctx, action); err != nil {
			return err
		}
		if err := a.registry.Bootstrap(ctx, action.ID, owner); err != nil {
			return err
		}
		for _, manager := range input.Managers {
			if err := a.registry.Authorize(ctx, owner, action.ID, manager, authzDomain.CapabilityCall); err != nil {
				return err
			}
		}
		for _, relayer := range input.Relayers {
			if err := a.registry.Authorize(ctx, owner, action.ID, relayer, authzDomain.CapabilityCall); err != nil {
				return err
			}
			if err := a.actionRepo.AddRelayer(ctx, action.ID, relayer); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return action, nil
}

// Get retrieves an action by ID.
func (a *actionUseCase) Get(ctx context.Context, actionID uuid.UUID) (*actionDomain.Action, error) {
	return a.actionRepo.Get(ctx, actionID)
}

// ListByVault retrieves a vault's actions ordered by creation time.
func (a *actionUseCase) ListByVault(
	ctx context.Context,
	vaultID uuid.UUID,
	limit, offset int,
) ([]*actionDomain.Action, error) {
	return a.actionRepo.ListByVault(ctx, vaultID, limit, offset)
}

// configure runs a configuration mutation after checking the actor's
// capability, inside one transaction. A failed check or validation leaves
// no state change and no event.
func (a *actionUseCase) configure(
	ctx context.Context,
	actor string,
	actionID uuid.UUID,
	capability authzDomain.Capability,
	fn func(ctx context.Context, action *actionDomain.Action) error,
) error {
	return a.txManager.WithTx(ctx, func(ctx context.Context) error {
		if err := a.registry.Ensure(ctx, actionID, actor, capability); err != nil {
			return err
		}
		action, err := a.actionRepo.Get(ctx, actionID)
		if err != nil {
			return err
		}
		return fn(ctx, action)
	})
}

// SetThreshold configures the minimum vault balance gate.
func (a *actionUseCase) SetThreshold(
	ctx context.Context,
	actor string,
	actionID uuid.UUID,
	token string,
	amount *big.Int,
) error {
	if amount == nil {
		amount = fixedpoint.Zero()
	}
	if amount.Sign() < 0 {
		return apperrors.Wrap(apperrors.ErrInvalidInput, "threshold amount must not be negative")
	}

	return a.configure(ctx, actor, actionID, authzDomain.CapabilitySetThreshold, func(ctx context.Context, action *actionDomain.Action) error {
		action.ThresholdToken = token
		action.ThresholdAmount = amount
		if err := a.actionRepo.Update(ctx, action); err != nil {
			return err
		}
		return a.eventEmitter.Emit(ctx, EventThresholdSet, action.ID, thresholdSetPayload{
			Token:  token,
			Amount: fixedpoint.String(amount),
		})
	})
}

// SetRelayer adds or removes a relayer from the reimbursement whitelist.
func (a *actionUseCase) SetRelayer(
	ctx context.Context,
	actor string,
	actionID uuid.UUID,
	relayer string,
	allowed bool,
) error {
	return a.configure(ctx, actor, actionID, authzDomain.CapabilitySetRelayer, func(ctx context.Context, action *actionDomain.Action) error {
		var err error
		if allowed {
			err = a.actionRepo.AddRelayer(ctx, action.ID, relayer)
		} else {
			err = a.actionRepo.RemoveRelayer(ctx, action.ID, relayer)
		}
		if err != nil {
			return err
		}
		return a.eventEmitter.Emit(ctx, EventRelayerSet, action.ID, relayerSetPayload{
			Relayer: relayer,
			Allowed: allowed,
		})
	})
}

// SetLimits configures the gas accounting caps and the reimbursement token.
func (a *actionUseCase) SetLimits(
	ctx context.Context,
	actor string,
	actionID uuid.UUID,
	gasPriceLimit, txCostLimit *big.Int,
	token string,
) error {
	if gasPriceLimit == nil {
		gasPriceLimit = fixedpoint.Zero()
	}
	if txCostLimit == nil {
		txCostLimit = fixedpoint.Zero()
	}
	if gasPriceLimit.Sign() < 0 || txCostLimit.Sign() < 0 {
		return apperrors.Wrap(apperrors.ErrInvalidInput, "limits must not be negative")
	}

	return a.configure(ctx, actor, actionID, authzDomain.CapabilitySetLimits, func(ctx context.Context, action *actionDomain.Action) error {
		action.GasPriceLimit = gasPriceLimit
		action.TxCostLimit = txCostLimit
		action.PayingGasToken = token
		if err := a.actionRepo.Update(ctx, action); err != nil {
			return err
		}
		return a.eventEmitter.Emit(ctx, EventLimitsSet, action.ID, limitsSetPayload{
			GasPriceLimit: fixedpoint.String(gasPriceLimit),
			TxCostLimit:   fixedpoint.String(txCostLimit),
			Token:         token,
		})
	})
}

// SetTimeLock configures the cooldown between executions. The currently
// running window, if any, keeps its expiry.
func (a *actionUseCase) SetTimeLock(
	ctx context.Context,
	actor string,
	actionID uuid.UUID,
	period int64,
) error {
	if period < 0 {
		return apperrors.Wrap(apperrors.ErrInvalidInput, "time lock period must not be negative")
	}

	return a.configure(ctx, actor, actionID, authzDomain.CapabilitySetTimeLock, func(ctx context.Context, action *actionDomain.Action) error {
		action.TimeLockPeriod = period
		if err := a.actionRepo.Update(ctx, action); err != nil {
			return err
		}
		return a.eventEmitter.Emit(ctx, EventTimeLockSet, action.ID, timeLockSetPayload{
			CooldownSeconds: period,
		})
	})
}

// SetRecipient configures the withdrawer's fixed destination.
func (a *actionUseCase) SetRecipient(
	ctx context.Context,
	actor string,
	actionID uuid.UUID,
	recipient string,
) error {
	if actionDomain.IsZeroAddress(recipient) {
		return actionDomain.ErrRecipientZero
	}

	return a.configure(ctx, actor, actionID, authzDomain.CapabilitySetRecipient, func(ctx context.Context, action *actionDomain.Action) error {
		action.Recipient = recipient
		if err := a.actionRepo.Update(ctx, action); err != nil {
			return err
		}
		return a.eventEmitter.Emit(ctx, EventRecipientSet, action.ID, recipientSetPayload{
			Recipient: recipient,
		})
	})
}

// SetTokenAmm maps a bridgeable token to a registered AMM, or unsets the
// mapping when amm is the zero address. The AMM's canonical token must match
// the token being mapped.
func (a *actionUseCase) SetTokenAmm(
	ctx context.Context,
	actor string,
	actionID uuid.UUID,
	token, amm string,
) error {
	if actionDomain.IsZeroAddress(token) {
		return actionDomain.ErrTokenZero
	}

	return a.configure(ctx, actor, actionID, authzDomain.CapabilitySetTokenAmm, func(ctx context.Context, action *actionDomain.Action) error {
		if actionDomain.IsZeroAddress(amm) {
			if err := a.actionRepo.UnsetTokenAmm(ctx, action.ID, token); err != nil {
				return err
			}
			return a.eventEmitter.Emit(ctx, EventTokenAmmSet, action.ID, tokenAmmSetPayload{
				Token: token,
				Amm:   actionDomain.ZeroAddress,
			})
		}

		registered, err := a.ammRegistry.GetByAddress(ctx, amm)
		if err != nil {
			return err
		}
		if !strings.EqualFold(registered.CanonicalToken, token) {
			return actionDomain.ErrAmmTokenMismatch
		}

		if err := a.actionRepo.SetTokenAmm(ctx, action.ID, token, amm); err != nil {
			return err
		}
		return a.eventEmitter.Emit(ctx, EventTokenAmmSet, action.ID, tokenAmmSetPayload{
			Token: token,
			Amm:   amm,
		})
	})
}

// SetAllowedChain adds or removes a bridge destination chain. Bridging to
// the chain this deployment lives on is never allowed.
func (a *actionUseCase) SetAllowedChain(
	ctx context.Context,
	actor string,
	actionID uuid.UUID,
	chainID uint64,
	allowed bool,
) error {
	if chainID == 0 {
		return actionDomain.ErrChainIDZero
	}
	if chainID == a.chainID {
		return actionDomain.ErrSameChainID
	}

	return a.configure(ctx, actor, actionID, authzDomain.CapabilitySetAllowedChain, func(ctx context.Context, action *actionDomain.Action) error {
		var err error
		if allowed {
			err = a.actionRepo.AddAllowedChain(ctx, action.ID, chainID)
		} else {
			err = a.actionRepo.RemoveAllowedChain(ctx, action.ID, chainID)
		}
		if err != nil {
			return err
		}
		return a.eventEmitter.Emit(ctx, EventAllowedChainSet, action.ID, allowedChainSetPayload{
			ChainID: chainID,
			Allowed: allowed,
		})
	})
}

// SetMaxSlippage configures the bridge slippage cap.
func (a *actionUseCase) SetMaxSlippage(
	ctx context.Context,
	actor string,
	actionID uuid.UUID,
	slippage *big.Int,
) error {
	if slippage == nil {
		slippage = fixedpoint.Zero()
	}
	if slippage.Sign() < 0 {
		return apperrors.Wrap(apperrors.ErrInvalidInput, "slippage must not be negative")
	}
	if fixedpoint.GTOne(slippage) {
		return actionDomain.ErrSlippageAboveOne
	}

	return a.configure(ctx, actor, actionID, authzDomain.CapabilitySetMaxSlippage, func(ctx context.Context, action *actionDomain.Action) error {
		action.MaxSlippage = slippage
		if err := a.actionRepo.Update(ctx, action); err != nil {
			return err
		}
		return a.eventEmitter.Emit(ctx, EventMaxSlippageSet, action.ID, maxSlippageSetPayload{
			MaxSlippage: fixedpoint.String(slippage),
		})
	})
}

// SetMaxBonderFeePct configures the bonder fee cap.
func (a *actionUseCase) SetMaxBonderFeePct(
	ctx context.Context,
	actor string,
	actionID uuid.UUID,
	pct *big.Int,
) error {
	if pct == nil {
		pct = fixedpoint.Zero()
	}
	if pct.Sign() < 0 {
		return apperrors.Wrap(apperrors.ErrInvalidInput, "bonder fee pct must not be negative")
	}
	if fixedpoint.GTOne(pct) {
		return actionDomain.ErrBonderFeePctAboveOne
	}

	return a.configure(ctx, actor, actionID, authzDomain.CapabilitySetMaxBonderFeePct, func(ctx context.Context, action *actionDomain.Action) error {
		action.MaxBonderFeePct = pct
		if err := a.actionRepo.Update(ctx, action); err != nil {
			return err
		}
		return a.eventEmitter.Emit(ctx, EventMaxBonderFeePctSet, action.ID, maxBonderFeePctSetPayload{
			MaxBonderFeePct: fixedpoint.String(pct),
		})
	})
}

// SetMaxDeadline configures the bridge deadline horizon.
func (a *actionUseCase) SetMaxDeadline(
	ctx context.Context,
	actor string,
	actionID uuid.UUID,
	deadline int64,
) error {
	if deadline <= 0 {
		return actionDomain.ErrMaxDeadlineZero
	}

	return a.configure(ctx, actor, actionID, authzDomain.CapabilitySetMaxDeadline, func(ctx context.Context, action *actionDomain.Action) error {
		action.MaxDeadline = deadline
		if err := a.actionRepo.Update(ctx, action); err != nil {
			return err
		}
		return a.eventEmitter.Emit(ctx, EventMaxDeadlineSet, action.ID, maxDeadlineSetPayload{
			MaxDeadline: deadline,
		})
	})
}

// IsRelayer reports whether an address is whitelisted as a relayer.
func (a *actionUseCase) IsRelayer(ctx context.Context, actionID uuid.UUID, relayer string) (bool, error) {
	return a.actionRepo.IsRelayer(ctx, actionID, relayer)
}

// IsChainAllowed reports whether a destination chain is whitelisted.
func (a *actionUseCase) IsChainAllowed(ctx context.Context, actionID uuid.UUID, chainID uint64) (bool, error) {
	return a.actionRepo.IsChainAllowed(ctx, actionID, chainID)
}

// GetTokenAmm retrieves the AMM mapped to a token, or the empty string.
func (a *actionUseCase) GetTokenAmm(ctx context.Context, actionID uuid.UUID, token string) (string, error) {
	return a.actionRepo.GetTokenAmm(ctx, actionID, token)
}

// ExecuteBridge runs the bridging guard pipeline and triggers the vault's
// bridge primitive. Authorization, policy checks, the balance threshold, the
// time lock, the primitive, the time-lock advance, the relayer reimbursement
// and the Executed event all commit or roll back as one transaction.
func (a *actionUseCase) ExecuteBridge(
	ctx context.Context,
	caller string,
	actionID uuid.UUID,
	input *actionDomain.BridgeCallInput,
	gas *actionDomain.GasReport,
) (*ExecutionResult, error) {
	var result *ExecutionResult

	err := a.txManager.WithTx(ctx, func(ctx context.Context) error {
		action, minAmountOut, err := a.checkBridgeGuards(ctx, caller, actionID, input)
		if err != nil {
			return err
		}

		now := a.now()
		payload, err := json.Marshal(bridgePayload{
			BonderFee: fixedpoint.String(input.BonderFee),
			Deadline:  now.Unix() + action.MaxDeadline,
		})
		if err != nil {
			return apperrors.Wrap(err, "failed to marshal bridge payload")
		}

		err = a.vaultService.Bridge(ctx, &vaultDomain.BridgeInput{
			VaultID:      action.VaultID,
			Source:       BridgeSource,
			ChainID:      input.ChainID,
			Token:        input.Token,
			Amount:       input.Amount,
			MinAmountOut: minAmountOut,
			Payload:      string(payload),
		})
		if err != nil {
			return err
		}

		if err := a.advanceTimeLock(ctx, action, now); err != nil {
			return err
		}

		relayerCost, err := a.reimburseRelayer(ctx, action, caller, gas)
		if err != nil {
			return err
		}

		if err := a.eventEmitter.Emit(ctx, EventExecuted, action.ID, executedPayload{
			RelayerCost: fixedpoint.String(relayerCost),
		}); err != nil {
			return err
		}

		result = &ExecutionResult{
			Amount:       input.Amount,
			MinAmountOut: minAmountOut,
			RelayerCost:  relayerCost,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// ExecuteWithdraw runs the withdrawal guard pipeline and drains the
// configured token to the fixed recipient. Commits or rolls back as one
// transaction.
func (a *actionUseCase) ExecuteWithdraw(
	ctx context.Context,
	caller string,
	actionID uuid.UUID,
	gas *actionDomain.GasReport,
) (*ExecutionResult, error) {
	var result *ExecutionResult

	err := a.txManager.WithTx(ctx, func(ctx context.Context) error {
		action, amount, err := a.checkWithdrawGuards(ctx, caller, actionID)
		if err != nil {
			return err
		}

		// The relayer is paid first. A refund in the withdrawn token comes
		// out of the drained amount, so the recipient gets the remainder.
		relayerCost, err := a.reimburseRelayer(ctx, action, caller, gas)
		if err != nil {
			return err
		}
		if strings.EqualFold(action.PayingGasToken, action.ThresholdToken) {
			amount = new(big.Int).Sub(amount, relayerCost)
		}
		if amount.Sign() <= 0 {
			return vaultDomain.ErrInsufficientBalance
		}

		err = a.vaultService.Withdraw(ctx, &vaultDomain.WithdrawInput{
			VaultID:   action.VaultID,
			Token:     action.ThresholdToken,
			Recipient: action.Recipient,
			Amount:    amount,
			Fee:       fixedpoint.Zero(),
		})
		if err != nil {
			return err
		}

		if err := a.advanceTimeLock(ctx, action, a.now()); err != nil {
			return err
		}

		if err := a.eventEmitter.Emit(ctx, EventExecuted, action.ID, executedPayload{
			RelayerCost: fixedpoint.String(relayerCost),
		}); err != nil {
			return err
		}

		result = &ExecutionResult{
			Amount:      amount,
			RelayerCost: relayerCost,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// CanExecuteBridge re-derives the bridging guards without mutating state.
func (a *actionUseCase) CanExecuteBridge(
	ctx context.Context,
	caller string,
	actionID uuid.UUID,
	input *actionDomain.BridgeCallInput,
) (bool, error) {
	_, _, err := a.checkBridgeGuards(ctx, caller, actionID, input)
	return guardVerdict(err)
}

// CanExecuteWithdraw re-derives the withdrawal guards without mutating state.
func (a *actionUseCase) CanExecuteWithdraw(
	ctx context.Context,
	caller string,
	actionID uuid.UUID,
) (bool, error) {
	_, _, err := a.checkWithdrawGuards(ctx, caller, actionID)
	return guardVerdict(err)
}

// guardVerdict folds guard rejections into a negative verdict while letting
// infrastructure errors through.
func guardVerdict(err error) (bool, error) {
	switch {
	case err == nil:
		return true, nil
	case apperrors.Is(err, apperrors.ErrForbidden),
		apperrors.Is(err, apperrors.ErrPolicyViolation),
		apperrors.Is(err, apperrors.ErrGateClosed),
		apperrors.Is(err, apperrors.ErrInvalidInput):
		return false, nil
	default:
		return false, err
	}
}

// checkBridgeGuards verifies the bridging guard pipeline in order:
// authorization, AMM mapping, destination chain, slippage, bonder fee,
// balance threshold, time lock, then input sanity on the amount and the
// fraction ranges. Returns the loaded action and the slippage-adjusted
// minimum output.
func (a *actionUseCase) checkBridgeGuards(
	ctx context.Context,
	caller string,
	actionID uuid.UUID,
	input *actionDomain.BridgeCallInput,
) (*actionDomain.Action, *big.Int, error) {
	if err := a.registry.Ensure(ctx, actionID, caller, authzDomain.CapabilityCall); err != nil {
		return nil, nil, err
	}

	action, err := a.actionRepo.Get(ctx, actionID)
	if err != nil {
		return nil, nil, err
	}
	if action.Kind != actionDomain.KindBridger {
		return nil, nil, actionDomain.ErrKindMismatch
	}

	amount := input.Amount
	if amount == nil {
		amount = fixedpoint.Zero()
	}
	slippage := input.Slippage
	if slippage == nil {
		slippage = fixedpoint.Zero()
	}
	bonderFee := input.BonderFee
	if bonderFee == nil {
		bonderFee = fixedpoint.Zero()
	}

	amm, err := a.actionRepo.GetTokenAmm(ctx, action.ID, input.Token)
	if err != nil {
		return nil, nil, err
	}
	if amm == "" {
		return nil, nil, actionDomain.ErrTokenAmmNotSet
	}

	allowed, err := a.actionRepo.IsChainAllowed(ctx, action.ID, input.ChainID)
	if err != nil {
		return nil, nil, err
	}
	if !allowed {
		return nil, nil, actionDomain.ErrChainNotAllowed
	}

	if slippage.Cmp(action.MaxSlippage) > 0 {
		return nil, nil, actionDomain.ErrSlippageAboveMax
	}
	if bonderFee.Cmp(fixedpoint.MulDown(amount, action.MaxBonderFeePct)) > 0 {
		return nil, nil, actionDomain.ErrBonderFeeAboveMax
	}

	if err := a.checkThreshold(ctx, action); err != nil {
		return nil, nil, err
	}
	if action.TimeLockActive(a.now()) {
		return nil, nil, actionDomain.ErrTimeLockNotExpired
	}

	if amount.Sign() <= 0 {
		return nil, nil, vaultDomain.ErrInvalidAmount
	}
	if slippage.Sign() < 0 {
		return nil, nil, apperrors.Wrap(apperrors.ErrInvalidInput, "slippage must not be negative")
	}
	if bonderFee.Sign() < 0 {
		return nil, nil, apperrors.Wrap(apperrors.ErrInvalidInput, "bonder fee must not be negative")
	}

	minAmountOut := new(big.Int).Sub(amount, fixedpoint.MulDown(amount, slippage))
	return action, minAmountOut, nil
}

// checkWithdrawGuards verifies the withdrawal guard pipeline: authorization,
// recipient configuration, balance threshold, time lock. Returns the loaded
// action and the full withdrawable balance.
func (a *actionUseCase) checkWithdrawGuards(
	ctx context.Context,
	caller string,
	actionID uuid.UUID,
) (*actionDomain.Action, *big.Int, error) {
	if err := a.registry.Ensure(ctx, actionID, caller, authzDomain.CapabilityCall); err != nil {
		return nil, nil, err
	}

	action, err := a.actionRepo.Get(ctx, actionID)
	if err != nil {
		return nil, nil, err
	}
	if action.Kind != actionDomain.KindWithdrawer {
		return nil, nil, actionDomain.ErrKindMismatch
	}

	if actionDomain.IsZeroAddress(action.Recipient) {
		return nil, nil, actionDomain.ErrRecipientZero
	}

	if err := a.checkThreshold(ctx, action); err != nil {
		return nil, nil, err
	}
	if action.TimeLockActive(a.now()) {
		return nil, nil, actionDomain.ErrTimeLockNotExpired
	}

	amount, err := a.vaultService.GetBalance(ctx, action.VaultID, action.ThresholdToken)
	if err != nil {
		return nil, nil, err
	}
	if amount.Sign() <= 0 {
		return nil, nil, vaultDomain.ErrInvalidAmount
	}

	return action, amount, nil
}

// checkThreshold enforces the minimum balance gate. A zero threshold amount
// disables it.
func (a *actionUseCase) checkThreshold(ctx context.Context, action *actionDomain.Action) error {
	if action.ThresholdAmount == nil || action.ThresholdAmount.Sign() == 0 {
		return nil
	}

	balance, err := a.vaultService.GetBalance(ctx, action.VaultID, action.ThresholdToken)
	if err != nil {
		return err
	}
	if balance.Cmp(action.ThresholdAmount) < 0 {
		return actionDomain.ErrThresholdNotMet
	}
	return nil
}

// advanceTimeLock starts the next cooldown window after a successful
// execution. Disabled when no period is configured.
func (a *actionUseCase) advanceTimeLock(ctx context.Context, action *actionDomain.Action, now time.Time) error {
	if action.TimeLockPeriod <= 0 {
		return nil
	}
	expiresAt := now.Add(time.Duration(action.TimeLockPeriod) * time.Second)
	action.TimeLockExpiresAt = &expiresAt
	return a.actionRepo.Update(ctx, action)
}

// reimburseRelayer pays the caller's reported gas cost to the vault's fee
// collector when the caller is a whitelisted relayer. The reported gas price
// is capped by GasPriceLimit and the native total by TxCostLimit; zero caps
// are unbounded. The native cost is converted to the configured paying token
// rounding in the relayer's favor.
func (a *actionUseCase) reimburseRelayer(
	ctx context.Context,
	action *actionDomain.Action,
	caller string,
	gas *actionDomain.GasReport,
) (*big.Int, error) {
	if gas == nil || gas.GasUsed == nil || gas.GasUsed.Sign() <= 0 {
		return fixedpoint.Zero(), nil
	}
	if actionDomain.IsZeroAddress(action.PayingGasToken) {
		return fixedpoint.Zero(), nil
	}

	isRelayer, err := a.actionRepo.IsRelayer(ctx, action.ID, caller)
	if err != nil {
		return nil, err
	}
	if !isRelayer {
		return fixedpoint.Zero(), nil
	}

	gasPrice := gas.GasPrice
	if gasPrice == nil {
		gasPrice = fixedpoint.Zero()
	}
	if action.GasPriceLimit.Sign() > 0 {
		gasPrice = fixedpoint.Min(gasPrice, action.GasPriceLimit)
	}

	nativeCost := new(big.Int).Mul(gas.GasUsed, gasPrice)
	if nativeCost.Sign() <= 0 {
		return fixedpoint.Zero(), nil
	}
	if action.TxCostLimit.Sign() > 0 {
		nativeCost = fixedpoint.Min(nativeCost, action.TxCostLimit)
	}

	cost, err := a.priceOracle.Convert(nativeCost, action.PayingGasToken)
	if err != nil {
		return nil, err
	}
	if cost.Sign() == 0 {
		return fixedpoint.Zero(), nil
	}

	vault, err := a.vaultService.Get(ctx, action.VaultID)
	if err != nil {
		return nil, err
	}

	err = a.vaultService.Withdraw(ctx, &vaultDomain.WithdrawInput{
		VaultID:   action.VaultID,
		Token:     action.PayingGasToken,
		Recipient: vault.FeeCollector,
		Amount:    cost,
		Fee:       fixedpoint.Zero(),
	})
	if err != nil {
		return nil, err
	}

	return cost, nil
}
