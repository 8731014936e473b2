// Package http provides HTTP handlers for vault and AMM management.
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
	apperrors "github.com/allisson/vaultactions/internal/errors"
	"github.com/allisson/vaultactions/internal/fixedpoint"
	"github.com/allisson/vaultactions/internal/httputil"
	customValidation "github.com/allisson/vaultactions/internal/validation"
	vaultDomain "github.com/allisson/vaultactions/internal/vault/domain"
	vaultUseCase "github.com/allisson/vaultactions/internal/vault/usecase"
)

// VaultHandler handles HTTP requests for vault management operations.
type VaultHandler struct {
	vaultUseCase vaultUseCase.VaultUseCase
	logger       *slog.Logger
}

// NewVaultHandler creates a new vault handler with required dependencies.
func NewVaultHandler(vaultUC vaultUseCase.VaultUseCase, logger *slog.Logger) *VaultHandler {
	return &VaultHandler{
		vaultUseCase: vaultUC,
		logger:       logger,
	}
}

// CreateVaultRequest contains the parameters for creating a vault.
type CreateVaultRequest struct {
	Name         string `json:"name"`
	FeeCollector string `json:"fee_collector"`
}

// Validate checks if the create vault request is valid.
func (r *CreateVaultRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Name,
			validation.Required,
			customValidation.NotBlank,
			validation.Length(1, 255),
		),
		validation.Field(&r.FeeCollector,
			validation.Required,
			customValidation.Address,
		),
	)
}

// DepositRequest contains the parameters for funding a vault.
type DepositRequest struct {
	Token  string `json:"token"`
	Amount string `json:"amount"`
}

// Validate checks if the deposit request is valid.
func (r *DepositRequest) Validate() error {
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

// VaultResponse represents a vault in API responses.
type VaultResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	FeeCollector string    `json:"fee_collector"`
	CreatedAt    time.Time `json:"created_at"`
}

// VaultListResponse wraps a page of vaults.
type VaultListResponse struct {
	Vaults []VaultResponse `json:"vaults"`
	Limit  int             `json:"limit"`
	Offset int             `json:"offset"`
}

// BalanceResponse represents a vault's balance for one token.
type BalanceResponse struct {
	VaultID string `json:"vault_id"`
	Token   string `json:"token"`
	Amount  string `json:"amount"`
}

// mapVaultToResponse converts a domain vault to an API response.
func mapVaultToResponse(vault *vaultDomain.Vault) VaultResponse {
	return VaultResponse{
		ID:           vault.ID.String(),
		Name:         vault.Name,
		FeeCollector: vault.FeeCollector,
		CreatedAt:    vault.CreatedAt,
	}
}

// CreateHandler creates a new vault owned by the authenticated account.
// POST /v1/vaults
// Returns 201 Created with the vault data.
func (h *VaultHandler) CreateHandler(c *gin.Context) {
	account, ok := accountHTTP.GetAccount(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	var req CreateVaultRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	input := &vaultDomain.CreateVaultInput{
		Name:         req.Name,
		FeeCollector: req.FeeCollector,
	}

	vault, err := h.vaultUseCase.Create(c.Request.Context(), input, account.Address)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, mapVaultToResponse(vault))
}

// GetHandler retrieves a vault by ID.
// GET /v1/vaults/:id
func (h *VaultHandler) GetHandler(c *gin.Context) {
	vaultID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleValidationErrorGin(c,
			fmt.Errorf("invalid vault ID format: must be a valid UUID"),
			h.logger)
		return
	}

	vault, err := h.vaultUseCase.Get(c.Request.Context(), vaultID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, mapVaultToResponse(vault))
}

// ListHandler retrieves vaults with pagination, newest first.
// GET /v1/vaults?limit=50&offset=0
func (h *VaultHandler) ListHandler(c *gin.Context) {
	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	vaults, err := h.vaultUseCase.List(c.Request.Context(), limit, offset)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	response := VaultListResponse{
		Vaults: make([]VaultResponse, 0, len(vaults)),
		Limit:  limit,
		Offset: offset,
	}
	for _, vault := range vaults {
		response.Vaults = append(response.Vaults, mapVaultToResponse(vault))
	}

	c.JSON(http.StatusOK, response)
}

// DepositHandler credits a vault's balance for a token.
// POST /v1/vaults/:id/deposits
// Returns 200 OK with the resulting balance.
func (h *VaultHandler) DepositHandler(c *gin.Context) {
	vaultID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleValidationErrorGin(c,
			fmt.Errorf("invalid vault ID format: must be a valid UUID"),
			h.logger)
		return
	}

	var req DepositRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	amount, err := fixedpoint.Parse(req.Amount)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := h.vaultUseCase.Deposit(c.Request.Context(), vaultID, req.Token, amount); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	balance, err := h.vaultUseCase.GetBalance(c.Request.Context(), vaultID, req.Token)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, BalanceResponse{
		VaultID: vaultID.String(),
		Token:   req.Token,
		Amount:  balance.String(),
	})
}

// GetBalanceHandler retrieves a vault's balance for a token.
// GET /v1/vaults/:id/balances/:token
func (h *VaultHandler) GetBalanceHandler(c *gin.Context) {
	vaultID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleValidationErrorGin(c,
			fmt.Errorf("invalid vault ID format: must be a valid UUID"),
			h.logger)
		return
	}

	token := c.Param("token")
	if err := validation.Validate(token, validation.Required, customValidation.Address); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	balance, err := h.vaultUseCase.GetBalance(c.Request.Context(), vaultID, token)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, BalanceResponse{
		VaultID: vaultID.String(),
		Token:   token,
		Amount:  balance.String(),
	})
}
