// Package http provides HTTP handlers for guarded action management and
// execution.
package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	validation "github.com/jellydator/validation"

	accountHTTP "github.com/allisson/vaultactions/internal/account/http"
	actionDomain "github.com/allisson/vaultactions/internal/action/domain"
	actionUseCase "github.com/allisson/vaultactions/internal/action/usecase"
	apperrors "github.com/allisson/vaultactions/internal/errors"
	"github.com/allisson/vaultactions/internal/fixedpoint"
	"github.com/allisson/vaultactions/internal/httputil"
	customValidation "github.com/allisson/vaultactions/internal/validation"
)

// ActionHandler handles HTTP requests for action configuration and calls.
//
// Fractions (slippage, bonder fee pct) are decimal strings like "0.01" in
// requests and 1e18-scaled integer strings in responses. Token amounts are
// always integer strings in the token's smallest unit.
type ActionHandler struct {
	actionUseCase actionUseCase.ActionUseCase
	logger        *slog.Logger
}

// NewActionHandler creates a new action handler with required dependencies.
func NewActionHandler(actionUC actionUseCase.ActionUseCase, logger *slog.Logger) *ActionHandler {
	return &ActionHandler{
		actionUseCase: actionUC,
		logger:        logger,
	}
}

// CreateActionRequest contains the parameters for creating an action.
type CreateActionRequest struct {
	VaultID  string   `json:"vault_id"`
	Kind     string   `json:"kind"`
	Name     string   `json:"name"`
	Managers []string `json:"managers"`
	Relayers []string `json:"relayers"`
}

// Validate checks if the create action request is valid.
func (r *CreateActionRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.VaultID,
			validation.Required,
			uuidRule,
		),
		validation.Field(&r.Kind,
			validation.Required,
			validation.In(string(actionDomain.KindBridger), string(actionDomain.KindWithdrawer)),
		),
		validation.Field(&r.Name,
			validation.Required,
			customValidation.NotBlank,
			validation.Length(1, 255),
		),
		validation.Field(&r.Managers,
			validation.Each(customValidation.Address),
		),
		validation.Field(&r.Relayers,
			validation.Each(customValidation.Address),
		),
	)
}

// uuidRule validates a UUID string.
var uuidRule = validation.NewStringRuleWithError(
	func(s string) bool {
		_, err := uuid.Parse(s)
		return err == nil
	},
	validation.NewError("validation_uuid_format", "must be a valid UUID"),
)

// SetThresholdRequest configures the minimum vault balance gate.
type SetThresholdRequest struct {
	Token  string `json:"token"`
	Amount string `json:"amount"`
}

// Validate checks if the set threshold request is valid.
func (r *SetThresholdRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Token,
			validation.Required,
			customValidation.Address,
		),
		validation.Field(&r.Amount,
			validation.Required,
			customValidation.Amount,
		),
	)
}

// SetRelayerRequest toggles an address on the reimbursement whitelist.
type SetRelayerRequest struct {
	Relayer string `json:"relayer"`
	Allowed *bool  `json:"allowed"`
}

// Validate checks if the set relayer request is valid.
func (r *SetRelayerRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Relayer,
			validation.Required,
			customValidation.Address,
		),
		validation.Field(&r.Allowed, validation.NotNil),
	)
}

// SetLimitsRequest configures the gas accounting caps and reimbursement token.
type SetLimitsRequest struct {
	GasPriceLimit string `json:"gas_price_limit"`
	TxCostLimit   string `json:"tx_cost_limit"`
	Token         string `json:"token"`
}

// Validate checks if the set limits request is valid.
func (r *SetLimitsRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.GasPriceLimit,
			validation.Required,
			customValidation.Amount,
		),
		validation.Field(&r.TxCostLimit,
			validation.Required,
			customValidation.Amount,
		),
		validation.Field(&r.Token,
			validation.Required,
			customValidation.Address,
		),
	)
}

// SetTimeLockRequest configures the cooldown between executions.
type SetTimeLockRequest struct {
	PeriodSeconds *int64 `json:"period_seconds"`
}

// Validate checks if the set time lock request is valid.
func (r *SetTimeLockRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.PeriodSeconds,
			validation.NotNil,
			validation.Min(int64(0)),
		),
	)
}

// SetRecipientRequest configures the withdrawer's fixed destination.
type SetRecipientRequest struct {
	Recipient string `json:"recipient"`
}

// Validate checks if the set recipient request is valid.
func (r *SetRecipientRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Recipient,
			validation.Required,
			customValidation.Address,
		),
	)
}

// SetTokenAmmRequest maps a token to an AMM. The zero address unsets the
// mapping.
type SetTokenAmmRequest struct {
	Token string `json:"token"`
	Amm   string `json:"amm"`
}

// Validate checks if the set token AMM request is valid.
func (r *SetTokenAmmRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Token,
			validation.Required,
			customValidation.Address,
		),
		validation.Field(&r.Amm,
			validation.Required,
			customValidation.Address,
		),
	)
}

// SetAllowedChainRequest toggles a bridge destination chain.
type SetAllowedChainRequest struct {
	ChainID uint64 `json:"chain_id"`
	Allowed *bool  `json:"allowed"`
}

// Validate checks if the set allowed chain request is valid.
func (r *SetAllowedChainRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.ChainID, validation.Required),
		validation.Field(&r.Allowed, validation.NotNil),
	)
}

// SetMaxSlippageRequest configures the bridge slippage cap.
type SetMaxSlippageRequest struct {
	MaxSlippage string `json:"max_slippage"`
}

// Validate checks if the set max slippage request is valid.
func (r *SetMaxSlippageRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.MaxSlippage,
			validation.Required,
			customValidation.Fraction,
		),
	)
}

// SetMaxBonderFeePctRequest configures the bonder fee cap.
type SetMaxBonderFeePctRequest struct {
	MaxBonderFeePct string `json:"max_bonder_fee_pct"`
}

// Validate checks if the set max bonder fee pct request is valid.
func (r *SetMaxBonderFeePctRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.MaxBonderFeePct,
			validation.Required,
			customValidation.Fraction,
		),
	)
}

// SetMaxDeadlineRequest configures the bridge deadline horizon.
type SetMaxDeadlineRequest struct {
	MaxDeadlineSeconds int64 `json:"max_deadline_seconds"`
}

// Validate checks if the set max deadline request is valid.
func (r *SetMaxDeadlineRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.MaxDeadlineSeconds,
			validation.Required,
			validation.Min(int64(1)),
		),
	)
}

// GasReportRequest carries the optional gas accounting of a call.
type GasReportRequest struct {
	GasUsed  string `json:"gas_used"`
	GasPrice string `json:"gas_price"`
}

// Validate checks if the gas report is valid.
func (r *GasReportRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.GasUsed, validation.When(r.GasUsed != "", customValidation.Amount)),
		validation.Field(&r.GasPrice, validation.When(r.GasPrice != "", customValidation.Amount)),
	)
}

func (r *GasReportRequest) toDomain() (*actionDomain.GasReport, error) {
	if r.GasUsed == "" && r.GasPrice == "" {
		return nil, nil
	}
	report := &actionDomain.GasReport{
		GasUsed:  fixedpoint.Zero(),
		GasPrice: fixedpoint.Zero(),
	}
	var err error
	if r.GasUsed != "" {
		if report.GasUsed, err = fixedpoint.Parse(r.GasUsed); err != nil {
			return nil, err
		}
	}
	if r.GasPrice != "" {
		if report.GasPrice, err = fixedpoint.Parse(r.GasPrice); err != nil {
			return nil, err
		}
	}
	return report, nil
}

// BridgeCallRequest contains the caller-supplied arguments of a bridging call.
type BridgeCallRequest struct {
	ChainID   uint64           `json:"chain_id"`
	Token     string           `json:"token"`
	Amount    string           `json:"amount"`
	Slippage  string           `json:"slippage"`
	BonderFee string           `json:"bonder_fee"`
	Gas       GasReportRequest `json:"gas"`
}

// Validate checks if the bridging call request is valid.
func (r *BridgeCallRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.ChainID, validation.Required),
		validation.Field(&r.Token,
			validation.Required,
			customValidation.Address,
		),
		validation.Field(&r.Amount,
			validation.Required,
			customValidation.Amount,
		),
		validation.Field(&r.Slippage, validation.When(r.Slippage != "", customValidation.Fraction)),
		validation.Field(&r.BonderFee, validation.When(r.BonderFee != "", customValidation.Amount)),
	)
}

func (r *BridgeCallRequest) toDomain() (*actionDomain.BridgeCallInput, error) {
	amount, err := fixedpoint.Parse(r.Amount)
	if err != nil {
		return nil, err
	}

	slippage := fixedpoint.Zero()
	if r.Slippage != "" {
		if slippage, err = fixedpoint.ParseDecimal(r.Slippage); err != nil {
			return nil, err
		}
	}

	bonderFee := fixedpoint.Zero()
	if r.BonderFee != "" {
		if bonderFee, err = fixedpoint.Parse(r.BonderFee); err != nil {
			return nil, err
		}
	}

	return &actionDomain.BridgeCallInput{
		ChainID:   r.ChainID,
		Token:     r.Token,
		Amount:    amount,
		Slippage:  slippage,
		BonderFee: bonderFee,
	}, nil
}

// ActionResponse represents an action and its configuration in API responses.
type ActionResponse struct {
	ID                 string     `json:"id"`
	VaultID            string     `json:"vault_id"`
	Kind               string     `json:"kind"`
	Name               string     `json:"name"`
	ThresholdToken     string     `json:"threshold_token"`
	ThresholdAmount    string     `json:"threshold_amount"`
	GasPriceLimit      string     `json:"gas_price_limit"`
	TxCostLimit        string     `json:"tx_cost_limit"`
	PayingGasToken     string     `json:"paying_gas_token"`
	TimeLockPeriod     int64      `json:"time_lock_period_seconds"`
	TimeLockExpiresAt  *time.Time `json:"time_lock_expires_at,omitempty"`
	Recipient          string     `json:"recipient"`
	MaxSlippage        string     `json:"max_slippage"`
	MaxBonderFeePct    string     `json:"max_bonder_fee_pct"`
	MaxDeadlineSeconds int64      `json:"max_deadline_seconds"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// ActionListResponse wraps a page of actions.
type ActionListResponse struct {
	Actions []ActionResponse `json:"actions"`
	Limit   int              `json:"limit"`
	Offset  int              `json:"offset"`
}

// ExecutionResponse reports what a successful call moved out of the vault.
type ExecutionResponse struct {
	ActionID     string `json:"action_id"`
	Amount       string `json:"amount"`
	MinAmountOut string `json:"min_amount_out,omitempty"`
	RelayerCost  string `json:"relayer_cost"`
}

// CanExecuteResponse reports a read-only guard verdict.
type CanExecuteResponse struct {
	CanExecute bool `json:"can_execute"`
}

// mapActionToResponse converts a domain action to an API response.
func mapActionToResponse(action *actionDomain.Action) ActionResponse {
	return ActionResponse{
		ID:                 action.ID.String(),
		VaultID:            action.VaultID.String(),
		Kind:               string(action.Kind),
		Name:               action.Name,
		ThresholdToken:     action.ThresholdToken,
		ThresholdAmount:    fixedpoint.String(action.ThresholdAmount),
		GasPriceLimit:      fixedpoint.String(action.GasPriceLimit),
		TxCostLimit:        fixedpoint.String(action.TxCostLimit),
		PayingGasToken:     action.PayingGasToken,
		TimeLockPeriod:     action.TimeLockPeriod,
		TimeLockExpiresAt:  action.TimeLockExpiresAt,
		Recipient:          action.Recipient,
		MaxSlippage:        fixedpoint.String(action.MaxSlippage),
		MaxBonderFeePct:    fixedpoint.String(action.MaxBonderFeePct),
		MaxDeadlineSeconds: action.MaxDeadline,
		CreatedAt:          action.CreatedAt,
		UpdatedAt:          action.UpdatedAt,
	}
}

// actor returns the authenticated account address or writes a 401.
func (h *ActionHandler) actor(c *gin.Context) (string, bool) {
	account, ok := accountHTTP.GetAccount(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return "", false
	}
	return account.Address, true
}

// actionID parses the :id path parameter or writes a 422.
func (h *ActionHandler) actionID(c *gin.Context) (uuid.UUID, bool) {
	actionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleValidationErrorGin(c,
			fmt.Errorf("invalid action ID format: must be a valid UUID"),
			h.logger)
		return uuid.Nil, false
	}
	return actionID, true
}

// bindAndValidate decodes the JSON body and runs its validation.
type validatable interface {
	Validate() error
}

func (h *ActionHandler) bindAndValidate(c *gin.Context, req validatable) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return false
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return false
	}
	return true
}

// refreshed fetches the action again and writes it as the response.
func (h *ActionHandler) refreshed(c *gin.Context, actionID uuid.UUID) {
	action, err := h.actionUseCase.Get(c.Request.Context(), actionID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}
	c.JSON(http.StatusOK, mapActionToResponse(action))
}

// CreateHandler creates a new action owned by the authenticated account.
// POST /v1/actions
// Returns 201 Created with the action data.
func (h *ActionHandler) CreateHandler(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	var req CreateActionRequest
	if !h.bindAndValidate(c, &req) {
		return
	}

	vaultID, err := uuid.Parse(req.VaultID)
	if err != nil {
		httputil.HandleValidationErrorGin(c,
			fmt.Errorf("invalid vault ID format: must be a valid UUID"),
			h.logger)
		return
	}

	input := &actionDomain.CreateActionInput{
		VaultID:  vaultID,
		Kind:     actionDomain.Kind(req.Kind),
		Name:     req.Name,
		Managers: req.Managers,
		Relayers: req.Relayers,
	}

	action, err := h.actionUseCase.Create(c.Request.Context(), input, actor)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, mapActionToResponse(action))
}

// GetHandler retrieves an action by ID.
// GET /v1/actions/:id
func (h *ActionHandler) GetHandler(c *gin.Context) {
	actionID, ok := h.actionID(c)
	if !ok {
		return
	}

	action, err := h.actionUseCase.Get(c.Request.Context(), actionID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, mapActionToResponse(action))
}

// ListByVaultHandler retrieves a vault's actions.
// GET /v1/vaults/:id/actions?limit=50&offset=0
func (h *ActionHandler) ListByVaultHandler(c *gin.Context) {
	vaultID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleValidationErrorGin(c,
			fmt.Errorf("invalid vault ID format: must be a valid UUID"),
			h.logger)
		return
	}

	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	actions, err := h.actionUseCase.ListByVault(c.Request.Context(), vaultID, limit, offset)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	response := ActionListResponse{
		Actions: make([]ActionResponse, 0, len(actions)),
		Limit:   limit,
		Offset:  offset,
	}
	for _, action := range actions {
		response.Actions = append(response.Actions, mapActionToResponse(action))
	}

	c.JSON(http.StatusOK, response)
}

// SetThresholdHandler configures the minimum vault balance gate.
// PUT /v1/actions/:id/threshold
func (h *ActionHandler) SetThresholdHandler(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	actionID, ok := h.actionID(c)
	if !ok {
		return
	}

	var req SetThresholdRequest
	if !h.bindAndValidate(c, &req) {
		return
	}

	amount, err := fixedpoint.Parse(req.Amount)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := h.actionUseCase.SetThreshold(c.Request.Context(), actor, actionID, req.Token, amount); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	h.refreshed(c, actionID)
}

// SetRelayerHandler toggles an address on the reimbursement whitelist.
// PUT /v1/actions/:id/relayers
func (h *ActionHandler) SetRelayerHandler(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	actionID, ok := h.actionID(c)
	if !ok {
		return
	}

	var req SetRelayerRequest
	if !h.bindAndValidate(c, &req) {
		return
	}

	if err := h.actionUseCase.SetRelayer(c.Request.Context(), actor, actionID, req.Relayer, *req.Allowed); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	h.refreshed(c, actionID)
}

// SetLimitsHandler configures the gas accounting caps.
// PUT /v1/actions/:id/limits
func (h *ActionHandler) SetLimitsHandler(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	actionID, ok := h.actionID(c)
	if !ok {
		return
	}

	var req SetLimitsRequest
	if !h.bindAndValidate(c, &req) {
		return
	}

	gasPriceLimit, err := fixedpoint.Parse(req.GasPriceLimit)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}
	txCostLimit, err := fixedpoint.Parse(req.TxCostLimit)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	err = h.actionUseCase.SetLimits(c.Request.Context(), actor, actionID, gasPriceLimit, txCostLimit, req.Token)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	h.refreshed(c, actionID)
}

// SetTimeLockHandler configures the execution cooldown.
// PUT /v1/actions/:id/time-lock
func (h *ActionHandler) SetTimeLockHandler(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	actionID, ok := h.actionID(c)
	if !ok {
		return
	}

	var req SetTimeLockRequest
	if !h.bindAndValidate(c, &req) {
		return
	}

	if err := h.actionUseCase.SetTimeLock(c.Request.Context(), actor, actionID, *req.PeriodSeconds); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	h.refreshed(c, actionID)
}

// SetRecipientHandler configures the withdrawer's destination.
// PUT /v1/actions/:id/recipient
func (h *ActionHandler) SetRecipientHandler(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	actionID, ok := h.actionID(c)
	if !ok {
		return
	}

	var req SetRecipientRequest
	if !h.bindAndValidate(c, &req) {
		return
	}

	if err := h.actionUseCase.SetRecipient(c.Request.Context(), actor, actionID, req.Recipient); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	h.refreshed(c, actionID)
}

// SetTokenAmmHandler maps a token to an AMM.
// PUT /v1/actions/:id/token-amms
func (h *ActionHandler) SetTokenAmmHandler(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	actionID, ok := h.actionID(c)
	if !ok {
		return
	}

	var req SetTokenAmmRequest
	if !h.bindAndValidate(c, &req) {
		return
	}

	if err := h.actionUseCase.SetTokenAmm(c.Request.Context(), actor, actionID, req.Token, req.Amm); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	h.refreshed(c, actionID)
}

// SetAllowedChainHandler toggles a bridge destination chain.
// PUT /v1/actions/:id/allowed-chains
func (h *ActionHandler) SetAllowedChainHandler(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	actionID, ok := h.actionID(c)
	if !ok {
		return
	}

	var req SetAllowedChainRequest
	if !h.bindAndValidate(c, &req) {
		return
	}

	err := h.actionUseCase.SetAllowedChain(c.Request.Context(), actor, actionID, req.ChainID, *req.Allowed)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	h.refreshed(c, actionID)
}

// SetMaxSlippageHandler configures the bridge slippage cap.
// PUT /v1/actions/:id/max-slippage
func (h *ActionHandler) SetMaxSlippageHandler(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	actionID, ok := h.actionID(c)
	if !ok {
		return
	}

	var req SetMaxSlippageRequest
	if !h.bindAndValidate(c, &req) {
		return
	}

	slippage, err := fixedpoint.ParseDecimal(req.MaxSlippage)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := h.actionUseCase.SetMaxSlippage(c.Request.Context(), actor, actionID, slippage); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	h.refreshed(c, actionID)
}

// SetMaxBonderFeePctHandler configures the bonder fee cap.
// PUT /v1/actions/:id/max-bonder-fee-pct
func (h *ActionHandler) SetMaxBonderFeePctHandler(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	actionID, ok := h.actionID(c)
	if !ok {
		return
	}

	var req SetMaxBonderFeePctRequest
	if !h.bindAndValidate(c, &req) {
		return
	}

	pct, err := fixedpoint.ParseDecimal(req.MaxBonderFeePct)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := h.actionUseCase.SetMaxBonderFeePct(c.Request.Context(), actor, actionID, pct); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	h.refreshed(c, actionID)
}

// SetMaxDeadlineHandler configures the bridge deadline horizon.
// PUT /v1/actions/:id/max-deadline
func (h *ActionHandler) SetMaxDeadlineHandler(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	actionID, ok := h.actionID(c)
	if !ok {
		return
	}

	var req SetMaxDeadlineRequest
	if !h.bindAndValidate(c, &req) {
		return
	}

	err := h.actionUseCase.SetMaxDeadline(c.Request.Context(), actor, actionID, req.MaxDeadlineSeconds)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	h.refreshed(c, actionID)
}

// BridgeHandler triggers a bridging call through the guard pipeline.
// POST /v1/actions/:id/bridge
// Returns 200 OK with the execution result.
func (h *ActionHandler) BridgeHandler(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	actionID, ok := h.actionID(c)
	if !ok {
		return
	}

	var req BridgeCallRequest
	if !h.bindAndValidate(c, &req) {
		return
	}
	if err := req.Gas.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	input, err := req.toDomain()
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}
	gas, err := req.Gas.toDomain()
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	result, err := h.actionUseCase.ExecuteBridge(c.Request.Context(), actor, actionID, input, gas)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, ExecutionResponse{
		ActionID:     actionID.String(),
		Amount:       fixedpoint.String(result.Amount),
		MinAmountOut: fixedpoint.String(result.MinAmountOut),
		RelayerCost:  fixedpoint.String(result.RelayerCost),
	})
}

// WithdrawHandler triggers a time-locked withdrawal through the guard
// pipeline.
// POST /v1/actions/:id/withdraw
// Returns 200 OK with the execution result.
func (h *ActionHandler) WithdrawHandler(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	actionID, ok := h.actionID(c)
	if !ok {
		return
	}

	var req GasReportRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			httputil.HandleValidationErrorGin(c, err, h.logger)
			return
		}
		if err := req.Validate(); err != nil {
			httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
			return
		}
	}

	gas, err := req.toDomain()
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	result, err := h.actionUseCase.ExecuteWithdraw(c.Request.Context(), actor, actionID, gas)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	response := ExecutionResponse{
		ActionID:    actionID.String(),
		Amount:      fixedpoint.String(result.Amount),
		RelayerCost: fixedpoint.String(result.RelayerCost),
	}
	c.JSON(http.StatusOK, response)
}

// CanBridgeHandler re-derives the bridging guards without mutating state.
// POST /v1/actions/:id/can-bridge
func (h *ActionHandler) CanBridgeHandler(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	actionID, ok := h.actionID(c)
	if !ok {
		return
	}

	var req BridgeCallRequest
	if !h.bindAndValidate(c, &req) {
		return
	}

	input, err := req.toDomain()
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	canExecute, err := h.actionUseCase.CanExecuteBridge(c.Request.Context(), actor, actionID, input)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, CanExecuteResponse{CanExecute: canExecute})
}

// CanWithdrawHandler re-derives the withdrawal guards without mutating state.
// GET /v1/actions/:id/can-withdraw
func (h *ActionHandler) CanWithdrawHandler(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	actionID, ok := h.actionID(c)
	if !ok {
		return
	}

	canExecute, err := h.actionUseCase.CanExecuteWithdraw(c.Request.Context(), actor, actionID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, CanExecuteResponse{CanExecute: canExecute})
}
