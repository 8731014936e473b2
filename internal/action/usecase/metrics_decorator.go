package usecase

import (
	"context"
	"math/big"
	"time"

	"github.com/google/uuid"

	actionDomain "github.com/allisson/vaultactions/internal/action/domain"
	"github.com/allisson/vaultactions/internal/metrics"
)

// actionUseCaseWithMetrics decorates ActionUseCase with metrics instrumentation.
type actionUseCaseWithMetrics struct {
	next    ActionUseCase
	metrics metrics.BusinessMetrics
}

// NewActionUseCaseWithMetrics wraps an ActionUseCase with metrics recording.
func NewActionUseCaseWithMetrics(useCase ActionUseCase, m metrics.BusinessMetrics) ActionUseCase {
	return &actionUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Create records metrics for action creation operations.
func (a *actionUseCaseWithMetrics) Create(
	ctx context.Context,
	input *actionDomain.CreateActionInput,
	owner string,
) (*actionDomain.Action, error) {
	start := time.Now()
	action, err := a.next.Create(ctx, input, owner)

	status := "success"
	if err != nil {
		status = "error"
	}

	a.metrics.RecordOperation(ctx, "action", "create", status)
	a.metrics.RecordDuration(ctx, "action", "create", time.Since(start), status)

	return action, err
}

// Get records metrics for action retrieval operations.
func (a *actionUseCaseWithMetrics) Get(
	ctx context.Context,
	actionID uuid.UUID,
) (*actionDomain.Action, error) {
	start := time.Now()
	action, err := a.next.Get(ctx, actionID)

	status := "success"
	if err != nil {
		status = "error"
	}

	a.metrics.RecordOperation(ctx, "action", "get", status)
	a.metrics.RecordDuration(ctx, "action", "get", time.Since(start), status)

	return action, err
}

// ListByVault records metrics for action listing operations.
func (a *actionUseCaseWithMetrics) ListByVault(
	ctx context.Context,
	vaultID uuid.UUID,
	limit, offset int,
) ([]*actionDomain.Action, error) {
	start := time.Now()
	actions, err := a.next.ListByVault(ctx, vaultID, limit, offset)

	status := "success"
	if err != nil {
		status = "error"
	}

	a.metrics.RecordOperation(ctx, "action", "list_by_vault", status)
	a.metrics.RecordDuration(ctx, "action", "list_by_vault", time.Since(start), status)

	return actions, err
}

// SetThreshold records metrics for threshold configuration operations.
func (a *actionUseCaseWithMetrics) SetThreshold(
	ctx context.Context,
	actor string,
	actionID uuid.UUID,
	token string,
	amount *big.Int,
) error {
	start := time.Now()
	err := a.next.SetThreshold(ctx, actor, actionID, token, amount)

	status := "success"
	if err != nil {
		status = "error"
	}

	a.metrics.RecordOperation(ctx, "action", "set_threshold", status)
	a.metrics.RecordDuration(ctx, "action", "set_threshold", time.Since(start), status)

	return err
}

// SetRelayer records metrics for relayer whitelist operations.
func (a *actionUseCaseWithMetrics) SetRelayer(
	ctx context.Context,
	actor string,
	actionID uuid.UUID,
	relayer string,
	allowed bool,
) error {
	start := time.Now()
	err := a.next.SetRelayer(ctx, actor, actionID, relayer, allowed)

	status := "success"
	if err != nil {
		status = "error"
	}

	a.metrics.RecordOperation(ctx, "action", "set_relayer", status)
	a.metrics.RecordDuration(ctx, "action", "set_relayer", time.Since(start), status)

	return err
}

// SetLimits records metrics for relayer limit configuration operations.
func (a *actionUseCaseWithMetrics) SetLimits(
	ctx context.Context,
	actor string,
	actionID uuid.UUID,
	gasPriceLimit, txCostLimit *big.Int,
	token string,
) error {
	start := time.Now()
	err := a.next.SetLimits(ctx, actor, actionID, gasPriceLimit, txCostLimit, token)

	status := "success"
	if err != nil {
		status = "error"
	}

	a.metrics.RecordOperation(ctx, "action", "set_limits", status)
	a.metrics.RecordDuration(ctx, "action", "set_limits", time.Since(start), status)

	return err
}

// SetTimeLock records metrics for time-lock configuration operations.
func (a *actionUseCaseWithMetrics) SetTimeLock(
	ctx context.Context,
	actor string,
	actionID uuid.UUID,
	period int64,
) error {
	start := time.Now()
	err := a.next.SetTimeLock(ctx, actor, actionID, period)

	status := "success"
	if err != nil {
		status = "error"
	}

	a.metrics.RecordOperation(ctx, "action", "set_time_lock", status)
	a.metrics.RecordDuration(ctx, "action", "set_time_lock", time.Since(start), status)

	return err
}

// SetRecipient records metrics for recipient configuration operations.
func (a *actionUseCaseWithMetrics) SetRecipient(
	ctx context.Context,
	actor string,
	actionID uuid.UUID,
	recipient string,
) error {
	start := time.Now()
	err := a.next.SetRecipient(ctx, actor, actionID, recipient)

	status := "success"
	if err != nil {
		status = "error"
	}

	a.metrics.RecordOperation(ctx, "action", "set_recipient", status)
	a.metrics.RecordDuration(ctx, "action", "set_recipient", time.Since(start), status)

	return err
}

// SetTokenAmm records metrics for token AMM mapping operations.
func (a *actionUseCaseWithMetrics) SetTokenAmm(
	ctx context.Context,
	actor string,
	actionID uuid.UUID,
	token, amm string,
) error {
	start := time.Now()
	err := a.next.SetTokenAmm(ctx, actor, actionID, token, amm)

	status := "success"
	if err != nil {
		status = "error"
	}

	a.metrics.RecordOperation(ctx, "action", "set_token_amm", status)
	a.metrics.RecordDuration(ctx, "action", "set_token_amm", time.Since(start), status)

	return err
}

// SetAllowedChain records metrics for chain whitelist operations.
func (a *actionUseCaseWithMetrics) SetAllowedChain(
	ctx context.Context,
	actor string,
	actionID uuid.UUID,
	chainID uint64,
	allowed bool,
) error {
	start := time.Now()
	err := a.next.SetAllowedChain(ctx, actor, actionID, chainID, allowed)

	status := "success"
	if err != nil {
		status = "error"
	}

	a.metrics.RecordOperation(ctx, "action", "set_allowed_chain", status)
	a.metrics.RecordDuration(ctx, "action", "set_allowed_chain", time.Since(start), status)

	return err
}

// SetMaxSlippage records metrics for slippage cap configuration operations.
func (a *actionUseCaseWithMetrics) SetMaxSlippage(
	ctx context.Context,
	actor string,
	actionID uuid.UUID,
	slippage *big.Int,
) error {
	start := time.Now()
	err := a.next.SetMaxSlippage(ctx, actor, actionID, slippage)

	status := "success"
	if err != nil {
		status = "error"
	}

	a.metrics.RecordOperation(ctx, "action", "set_max_slippage", status)
	a.metrics.RecordDuration(ctx, "action", "set_max_slippage", time.Since(start), status)

	return err
}

// SetMaxBonderFeePct records metrics for bonder fee cap configuration operations.
func (a *actionUseCaseWithMetrics) SetMaxBonderFeePct(
	ctx context.Context,
	actor string,
	actionID uuid.UUID,
	pct *big.Int,
) error {
	start := time.Now()
	err := a.next.SetMaxBonderFeePct(ctx, actor, actionID, pct)

	status := "success"
	if err != nil {
		status = "error"
	}

	a.metrics.RecordOperation(ctx, "action", "set_max_bonder_fee_pct", status)
	a.metrics.RecordDuration(ctx, "action", "set_max_bonder_fee_pct", time.Since(start), status)

	return err
}

// SetMaxDeadline records metrics for deadline horizon configuration operations.
func (a *actionUseCaseWithMetrics) SetMaxDeadline(
	ctx context.Context,
	actor string,
	actionID uuid.UUID,
	deadline int64,
) error {
	start := time.Now()
	err := a.next.SetMaxDeadline(ctx, actor, actionID, deadline)

	status := "success"
	if err != nil {
		status = "error"
	}

	a.metrics.RecordOperation(ctx, "action", "set_max_deadline", status)
	a.metrics.RecordDuration(ctx, "action", "set_max_deadline", time.Since(start), status)

	return err
}

// IsRelayer records metrics for relayer lookup operations.
func (a *actionUseCaseWithMetrics) IsRelayer(
	ctx context.Context,
	actionID uuid.UUID,
	relayer string,
) (bool, error) {
	start := time.Now()
	allowed, err := a.next.IsRelayer(ctx, actionID, relayer)

	status := "success"
	if err != nil {
		status = "error"
	}

	a.metrics.RecordOperation(ctx, "action", "is_relayer", status)
	a.metrics.RecordDuration(ctx, "action", "is_relayer", time.Since(start), status)

	return allowed, err
}

// IsChainAllowed records metrics for chain lookup operations.
func (a *actionUseCaseWithMetrics) IsChainAllowed(
	ctx context.Context,
	actionID uuid.UUID,
	chainID uint64,
) (bool, error) {
	start := time.Now()
	allowed, err := a.next.IsChainAllowed(ctx, actionID, chainID)

	status := "success"
	if err != nil {
		status = "error"
	}

	a.metrics.RecordOperation(ctx, "action", "is_chain_allowed", status)
	a.metrics.RecordDuration(ctx, "action", "is_chain_allowed", time.Since(start), status)

	return allowed, err
}

// GetTokenAmm records metrics for token AMM lookup operations.
func (a *actionUseCaseWithMetrics) GetTokenAmm(
	ctx context.Context,
	actionID uuid.UUID,
	token string,
) (string, error) {
	start := time.Now()
	amm, err := a.next.GetTokenAmm(ctx, actionID, token)

	status := "success"
	if err != nil {
		status = "error"
	}

	a.metrics.RecordOperation(ctx, "action", "get_token_amm", status)
	a.metrics.RecordDuration(ctx, "action", "get_token_amm", time.Since(start), status)

	return amm, err
}

// ExecuteBridge records metrics for bridging call operations.
func (a *actionUseCaseWithMetrics) ExecuteBridge(
	ctx context.Context,
	caller string,
	actionID uuid.UUID,
	input *actionDomain.BridgeCallInput,
	gas *actionDomain.GasReport,
) (*ExecutionResult, error) {
	start := time.Now()
	result, err := a.next.ExecuteBridge(ctx, caller, actionID, input, gas)

	status := "success"
	if err != nil {
		status = "error"
	}

	a.metrics.RecordOperation(ctx, "action", "bridger_call", status)
	a.metrics.RecordDuration(ctx, "action", "bridger_call", time.Since(start), status)

	return result, err
}

// ExecuteWithdraw records metrics for withdrawal call operations.
func (a *actionUseCaseWithMetrics) ExecuteWithdraw(
	ctx context.Context,
	caller string,
	actionID uuid.UUID,
	gas *actionDomain.GasReport,
) (*ExecutionResult, error) {
	start := time.Now()
	result, err := a.next.ExecuteWithdraw(ctx, caller, actionID, gas)

	status := "success"
	if err != nil {
		status = "error"
	}

	a.metrics.RecordOperation(ctx, "action", "withdrawer_call", status)
	a.metrics.RecordDuration(ctx, "action", "withdrawer_call", time.Since(start), status)

	return result, err
}

// CanExecuteBridge records metrics for bridging guard checks.
func (a *actionUseCaseWithMetrics) CanExecuteBridge(
	ctx context.Context,
	caller string,
	actionID uuid.UUID,
	input *actionDomain.BridgeCallInput,
) (bool, error) {
	start := time.Now()
	ok, err := a.next.CanExecuteBridge(ctx, caller, actionID, input)

	status := "success"
	if err != nil {
		status = "error"
	}

	a.metrics.RecordOperation(ctx, "action", "can_bridger_call", status)
	a.metrics.RecordDuration(ctx, "action", "can_bridger_call", time.Since(start), status)

	return ok, err
}

// CanExecuteWithdraw records metrics for withdrawal guard checks.
func (a *actionUseCaseWithMetrics) CanExecuteWithdraw(
	ctx context.Context,
	caller string,
	actionID uuid.UUID,
) (bool, error) {
	start := time.Now()
	ok, err := a.next.CanExecuteWithdraw(ctx, caller, actionID)

	status := "success"
	if err != nil {
		status = "error"
	}

	a.metrics.RecordOperation(ctx, "action", "can_withdrawer_call", status)
	a.metrics.RecordDuration(ctx, "action", "can_withdrawer_call", time.Since(start), status)

	return ok, err
}
