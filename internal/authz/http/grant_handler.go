// Package http provides HTTP handlers for the authorization registry.
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
	authzDomain "github.com/allisson/vaultactions/internal/authz/domain"
	authzUseCase "github.com/allisson/vaultactions/internal/authz/usecase"
	apperrors "github.com/allisson/vaultactions/internal/errors"
	"github.com/allisson/vaultactions/internal/httputil"
	customValidation "github.com/allisson/vaultactions/internal/validation"
)

// GrantHandler handles HTTP requests for capability grants. Grants are a
// sub-resource of the entity (vault or action) they apply to; granting and
// revoking are themselves capability-checked against the authenticated
// account's address.
type GrantHandler struct {
	registryUseCase authzUseCase.RegistryUseCase
	logger          *slog.Logger
}

// NewGrantHandler creates a new grant handler with required dependencies.
func NewGrantHandler(registryUC authzUseCase.RegistryUseCase, logger *slog.Logger) *GrantHandler {
	return &GrantHandler{
		registryUseCase: registryUC,
		logger:          logger,
	}
}

// CreateGrantRequest contains the parameters for granting a capability.
type CreateGrantRequest struct {
	Grantee    string `json:"grantee"`
	Capability string `json:"capability"`
}

// Validate checks if the create grant request is valid.
func (r *CreateGrantRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Grantee,
			validation.Required,
			customValidation.Address,
		),
		validation.Field(&r.Capability,
			validation.Required,
			capabilityRule,
		),
	)
}

// capabilityRule validates a known capability name.
var capabilityRule = validation.NewStringRuleWithError(
	func(s string) bool {
		return authzDomain.Capability(s).IsValid()
	},
	validation.NewError("validation_capability", "must be a known capability"),
)

// GrantResponse represents a capability grant in API responses.
type GrantResponse struct {
	EntityID   string    `json:"entity_id"`
	Grantee    string    `json:"grantee"`
	Capability string    `json:"capability"`
	CreatedAt  time.Time `json:"created_at,omitzero"`
}

// GrantListResponse wraps a page of grants.
type GrantListResponse struct {
	Grants []GrantResponse `json:"grants"`
	Limit  int             `json:"limit"`
	Offset int             `json:"offset"`
}

// entityID parses the :id path parameter or writes a 422.
func (h *GrantHandler) entityID(c *gin.Context) (uuid.UUID, bool) {
	entityID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleValidationErrorGin(c,
			fmt.Errorf("invalid entity ID format: must be a valid UUID"),
			h.logger)
		return uuid.Nil, false
	}
	return entityID, true
}

// actor returns the authenticated account address or writes a 401.
func (h *GrantHandler) actor(c *gin.Context) (string, bool) {
	account, ok := accountHTTP.GetAccount(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return "", false
	}
	return account.Address, true
}

// CreateHandler grants a capability to an address on an entity.
// POST /v1/entities/:id/grants
// Returns 201 Created with the grant data.
func (h *GrantHandler) CreateHandler(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	entityID, ok := h.entityID(c)
	if !ok {
		return
	}

	var req CreateGrantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	capability := authzDomain.Capability(req.Capability)
	if err := h.registryUseCase.Authorize(c.Request.Context(), actor, entityID, req.Grantee, capability); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, GrantResponse{
		EntityID:   entityID.String(),
		Grantee:    req.Grantee,
		Capability: req.Capability,
		CreatedAt:  time.Now().UTC(),
	})
}

// DeleteHandler revokes a capability from an address on an entity.
// DELETE /v1/entities/:id/grants/:grantee/:capability
// Returns 204 No Content on success.
func (h *GrantHandler) DeleteHandler(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	entityID, ok := h.entityID(c)
	if !ok {
		return
	}

	grantee := c.Param("grantee")
	if err := validation.Validate(grantee, validation.Required, customValidation.Address); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	capability := authzDomain.Capability(c.Param("capability"))
	if !capability.IsValid() {
		httputil.HandleValidationErrorGin(c, authzDomain.ErrInvalidCapability, h.logger)
		return
	}

	if err := h.registryUseCase.Unauthorize(c.Request.Context(), actor, entityID, grantee, capability); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Data(http.StatusNoContent, "application/json", nil)
}

// ListHandler retrieves an entity's grants with pagination.
// GET /v1/entities/:id/grants?limit=50&offset=0
func (h *GrantHandler) ListHandler(c *gin.Context) {
	entityID, ok := h.entityID(c)
	if !ok {
		return
	}

	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	grants, err := h.registryUseCase.List(c.Request.Context(), entityID, limit, offset)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	response := GrantListResponse{
		Grants: make([]GrantResponse, 0, len(grants)),
		Limit:  limit,
		Offset: offset,
	}
	for _, grant := range grants {
		response.Grants = append(response.Grants, GrantResponse{
			EntityID:   grant.EntityID.String(),
			Grantee:    grant.Grantee,
			Capability: string(grant.Capability),
			CreatedAt:  grant.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, response)
}
