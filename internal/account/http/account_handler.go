package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	validation "github.com/jellydator/validation"

	accountDomain "github.com/allisson/vaultactions/internal/account/domain"
	accountUseCase "github.com/allisson/vaultactions/internal/account/usecase"
	"github.com/allisson/vaultactions/internal/httputil"
	customValidation "github.com/allisson/vaultactions/internal/validation"
)

// AccountHandler handles HTTP requests for account management operations.
type AccountHandler struct {
	accountUseCase accountUseCase.AccountUseCase
	logger         *slog.Logger
}

// NewAccountHandler creates a new account handler with required dependencies.
func NewAccountHandler(accountUC accountUseCase.AccountUseCase, logger *slog.Logger) *AccountHandler {
	return &AccountHandler{
		accountUseCase: accountUC,
		logger:         logger,
	}
}

// CreateAccountRequest contains the parameters for creating a new account.
type CreateAccountRequest struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

// Validate checks if the create account request is valid.
func (r *CreateAccountRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Name,
			validation.Required,
			customValidation.NotBlank,
			validation.Length(1, 255),
		),
		validation.Field(&r.Address,
			validation.Required,
			customValidation.Address,
		),
	)
}

// CreateAccountResponse contains the result of creating a new account.
// SECURITY: The secret is only returned once and must be saved securely.
type CreateAccountResponse struct {
	ID      string `json:"id"`
	Address string `json:"address"`
	Secret  string `json:"secret"`
}

// AccountResponse represents an account in API responses (excludes secret).
type AccountResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// AccountListResponse wraps a page of accounts.
type AccountListResponse struct {
	Accounts []AccountResponse `json:"accounts"`
	Limit    int               `json:"limit"`
	Offset   int               `json:"offset"`
}

// mapAccountToResponse converts a domain account to an API response.
func mapAccountToResponse(account *accountDomain.Account) AccountResponse {
	return AccountResponse{
		ID:        account.ID.String(),
		Name:      account.Name,
		Address:   account.Address,
		IsActive:  account.IsActive,
		CreatedAt: account.CreatedAt,
	}
}

// CreateHandler creates a new account bound to an address.
// POST /v1/accounts
// Returns 201 Created with ID, address and plain text secret.
func (h *AccountHandler) CreateHandler(c *gin.Context) {
	var req CreateAccountRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	input := &accountDomain.CreateAccountInput{
		Name:    req.Name,
		Address: req.Address,
	}

	output, err := h.accountUseCase.Create(c.Request.Context(), input)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	response := CreateAccountResponse{
		ID:      output.ID.String(),
		Address: output.Address,
		Secret:  output.PlainSecret,
	}

	c.JSON(http.StatusCreated, response)
}

// GetHandler retrieves an account by ID.
// GET /v1/accounts/:id
// Returns 200 OK with account data (no secret).
func (h *AccountHandler) GetHandler(c *gin.Context) {
	accountID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleValidationErrorGin(c,
			fmt.Errorf("invalid account ID format: must be a valid UUID"),
			h.logger)
		return
	}

	account, err := h.accountUseCase.Get(c.Request.Context(), accountID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, mapAccountToResponse(account))
}

// ListHandler retrieves accounts with pagination, newest first.
// GET /v1/accounts?limit=50&offset=0
// Returns 200 OK with a page of accounts.
func (h *AccountHandler) ListHandler(c *gin.Context) {
	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	accounts, err := h.accountUseCase.List(c.Request.Context(), limit, offset)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	response := AccountListResponse{
		Accounts: make([]AccountResponse, 0, len(accounts)),
		Limit:    limit,
		Offset:   offset,
	}
	for _, account := range accounts {
		response.Accounts = append(response.Accounts, mapAccountToResponse(account))
	}

	c.JSON(http.StatusOK, response)
}

// DeleteHandler deactivates an account, preventing further authentication.
// DELETE /v1/accounts/:id
// Returns 204 No Content.
func (h *AccountHandler) DeleteHandler(c *gin.Context) {
	accountID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleValidationErrorGin(c,
			fmt.Errorf("invalid account ID format: must be a valid UUID"),
			h.logger)
		return
	}

	if err := h.accountUseCase.Delete(c.Request.Context(), accountID); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Data(http.StatusNoContent, "application/json", nil)
}
