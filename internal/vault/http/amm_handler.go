package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	validation "github.com/jellydator/validation"

	"github.com/allisson/vaultactions/internal/httputil"
	customValidation "github.com/allisson/vaultactions/internal/validation"
	vaultDomain "github.com/allisson/vaultactions/internal/vault/domain"
	vaultUseCase "github.com/allisson/vaultactions/internal/vault/usecase"
)

// AmmHandler handles HTTP requests for the AMM registry.
type AmmHandler struct {
	ammUseCase vaultUseCase.AmmUseCase
	logger     *slog.Logger
}

// NewAmmHandler creates a new AMM handler with required dependencies.
func NewAmmHandler(ammUC vaultUseCase.AmmUseCase, logger *slog.Logger) *AmmHandler {
	return &AmmHandler{
		ammUseCase: ammUC,
		logger:     logger,
	}
}

// CreateAmmRequest contains the parameters for registering an AMM.
type CreateAmmRequest struct {
	Address        string `json:"address"`
	CanonicalToken string `json:"canonical_token"`
}

// Validate checks if the create AMM request is valid.
func (r *CreateAmmRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Address,
			validation.Required,
			customValidation.Address,
		),
		validation.Field(&r.CanonicalToken,
			validation.Required,
			customValidation.Address,
		),
	)
}

// AmmResponse represents an AMM in API responses.
type AmmResponse struct {
	ID             string    `json:"id"`
	Address        string    `json:"address"`
	CanonicalToken string    `json:"canonical_token"`
	CreatedAt      time.Time `json:"created_at"`
}

// AmmListResponse wraps a page of AMMs.
type AmmListResponse struct {
	Amms   []AmmResponse `json:"amms"`
	Limit  int           `json:"limit"`
	Offset int           `json:"offset"`
}

// mapAmmToResponse converts a domain AMM to an API response.
func mapAmmToResponse(amm *vaultDomain.Amm) AmmResponse {
	return AmmResponse{
		ID:             amm.ID.String(),
		Address:        amm.Address,
		CanonicalToken: amm.CanonicalToken,
		CreatedAt:      amm.CreatedAt,
	}
}

// CreateHandler registers a new AMM.
// POST /v1/amms
// Returns 201 Created with the AMM data.
func (h *AmmHandler) CreateHandler(c *gin.Context) {
	var req CreateAmmRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	amm, err := h.ammUseCase.Create(c.Request.Context(), &vaultDomain.CreateAmmInput{
		Address:        req.Address,
		CanonicalToken: req.CanonicalToken,
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, mapAmmToResponse(amm))
}

// GetHandler retrieves an AMM by address.
// GET /v1/amms/:address
func (h *AmmHandler) GetHandler(c *gin.Context) {
	address := c.Param("address")
	if err := validation.Validate(address, validation.Required, customValidation.Address); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	amm, err := h.ammUseCase.GetByAddress(c.Request.Context(), address)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, mapAmmToResponse(amm))
}

// ListHandler retrieves AMMs with pagination, newest first.
// GET /v1/amms?limit=50&offset=0
func (h *AmmHandler) ListHandler(c *gin.Context) {
	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	amms, err := h.ammUseCase.List(c.Request.Context(), limit, offset)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	response := AmmListResponse{
		Amms:   make([]AmmResponse, 0, len(amms)),
		Limit:  limit,
		Offset: offset,
	}
	for _, amm := range amms {
		response.Amms = append(response.Amms, mapAmmToResponse(amm))
	}

	c.JSON(http.StatusOK, response)
}
