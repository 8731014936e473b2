package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	accountDomain "github.com/allisson/vaultactions/internal/account/domain"
	accountHTTP "github.com/allisson/vaultactions/internal/account/http"
	authzDomain "github.com/allisson/vaultactions/internal/authz/domain"
	"github.com/allisson/vaultactions/internal/httputil"
)

// mockRegistryUseCase is a mock implementation of RegistryUseCase for testing.
type mockRegistryUseCase struct {
	mock.Mock
}

func (m *mockRegistryUseCase) Authorize(
	ctx context.Context,
	actor string,
	entityID uuid.UUID,
	grantee string,
	capability authzDomain.Capability,
) error {
	args := m.Called(ctx, actor, entityID, grantee, capability)
	return args.Error(0)
}

func (m *mockRegistryUseCase) Unauthorize(
	ctx context.Context,
	actor string,
	entityID uuid.UUID,
	grantee string,
	capability authzDomain.Capability,
) error {
	args := m.Called(ctx, actor, entityID, grantee, capability)
	return args.Error(0)
}

func (m *mockRegistryUseCase) IsAuthorized(
	ctx context.Context,
	entityID uuid.UUID,
	grantee string,
	capability authzDomain.Capability,
) (bool, error) {
	args := m.Called(ctx, entityID, grantee, capability)
	return args.Bool(0), args.Error(1)
}

func (m *mockRegistryUseCase) Ensure(
	ctx context.Context,
	entityID uuid.UUID,
	grantee string,
	capability authzDomain.Capability,
) error {
	args := m.Called(ctx, entityID, grantee, capability)
	return args.Error(0)
}

func (m *mockRegistryUseCase) Bootstrap(ctx context.Context, entityID uuid.UUID, owner string) error {
	args := m.Called(ctx, entityID, owner)
	return args.Error(0)
}

func (m *mockRegistryUseCase) List(
	ctx context.Context,
	entityID uuid.UUID,
	limit, offset int,
) ([]*authzDomain.Grant, error) {
	args := m.Called(ctx, entityID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*authzDomain.Grant), args.Error(1)
}

// TestMain sets Gin to test mode for all tests in this package.
func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

const (
	testOwnerAddress   = "0x1111111111111111111111111111111111111111"
	testGranteeAddress = "0x2222222222222222222222222222222222222222"
)

// setupGrantRouter wires the grant handler routes behind a stub that injects
// an authenticated account into the request context.
func setupGrantRouter(registryUC *mockRegistryUseCase) *gin.Engine {
	handler := NewGrantHandler(registryUC, testLogger())

	router := gin.New()
	router.Use(func(c *gin.Context) {
		account := &accountDomain.Account{
			ID:      uuid.Must(uuid.NewV7()),
			Address: testOwnerAddress,
		}
		c.Request = c.Request.WithContext(accountHTTP.WithAccount(c.Request.Context(), account))
		c.Next()
	})
	router.POST("/v1/entities/:id/grants", handler.CreateHandler)
	router.DELETE("/v1/entities/:id/grants/:grantee/:capability", handler.DeleteHandler)
	router.GET("/v1/entities/:id/grants", handler.ListHandler)
	return router
}

func performJSONRequest(router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var payload []byte
	if body != nil {
		payload, _ = json.Marshal(body) //nolint:errcheck
	}

	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func TestGrantHandler_Create(t *testing.T) {
	t.Run("grants capability with authenticated actor", func(t *testing.T) {
		registryUC := &mockRegistryUseCase{}
		router := setupGrantRouter(registryUC)

		entityID := uuid.Must(uuid.NewV7())
		registryUC.On("Authorize", mock.Anything, testOwnerAddress, entityID, testGranteeAddress, authzDomain.CapabilityCall).
			Return(nil)

		recorder := performJSONRequest(router, http.MethodPost, "/v1/entities/"+entityID.String()+"/grants", map[string]any{
			"grantee":    testGranteeAddress,
			"capability": "call",
		})

		require.Equal(t, http.StatusCreated, recorder.Code)

		var response GrantResponse
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
		assert.Equal(t, entityID.String(), response.EntityID)
		assert.Equal(t, testGranteeAddress, response.Grantee)
		assert.Equal(t, "call", response.Capability)
		registryUC.AssertExpectations(t)
	})

	t.Run("actor without authorize capability", func(t *testing.T) {
		registryUC := &mockRegistryUseCase{}
		router := setupGrantRouter(registryUC)

		entityID := uuid.Must(uuid.NewV7())
		registryUC.On("Authorize", mock.Anything, testOwnerAddress, entityID, testGranteeAddress, authzDomain.CapabilityCall).
			Return(authzDomain.ErrSenderNotAllowed)

		recorder := performJSONRequest(router, http.MethodPost, "/v1/entities/"+entityID.String()+"/grants", map[string]any{
			"grantee":    testGranteeAddress,
			"capability": "call",
		})

		require.Equal(t, http.StatusForbidden, recorder.Code)

		var response httputil.ErrorResponse
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
		assert.Equal(t, "AUTH_SENDER_NOT_ALLOWED", response.Code)
	})

	t.Run("unknown capability", func(t *testing.T) {
		registryUC := &mockRegistryUseCase{}
		router := setupGrantRouter(registryUC)

		recorder := performJSONRequest(router, http.MethodPost,
			"/v1/entities/"+uuid.Must(uuid.NewV7()).String()+"/grants",
			map[string]any{
				"grantee":    testGranteeAddress,
				"capability": "fly",
			})

		assert.Equal(t, http.StatusUnprocessableEntity, recorder.Code)
		registryUC.AssertNotCalled(t, "Authorize")
	})
}

func TestGrantHandler_Delete(t *testing.T) {
	t.Run("revokes capability", func(t *testing.T) {
		registryUC := &mockRegistryUseCase{}
		router := setupGrantRouter(registryUC)

		entityID := uuid.Must(uuid.NewV7())
		registryUC.On("Unauthorize", mock.Anything, testOwnerAddress, entityID, testGranteeAddress, authzDomain.CapabilityCall).
			Return(nil)

		recorder := performJSONRequest(router, http.MethodDelete,
			"/v1/entities/"+entityID.String()+"/grants/"+testGranteeAddress+"/call", nil)

		assert.Equal(t, http.StatusNoContent, recorder.Code)
		registryUC.AssertExpectations(t)
	})

	t.Run("revoking twice is idempotent", func(t *testing.T) {
		registryUC := &mockRegistryUseCase{}
		router := setupGrantRouter(registryUC)

		entityID := uuid.Must(uuid.NewV7())
		registryUC.On("Unauthorize", mock.Anything, testOwnerAddress, entityID, testGranteeAddress, authzDomain.CapabilityCall).
			Return(nil).Twice()

		path := "/v1/entities/" + entityID.String() + "/grants/" + testGranteeAddress + "/call"
		assert.Equal(t, http.StatusNoContent, performJSONRequest(router, http.MethodDelete, path, nil).Code)
		assert.Equal(t, http.StatusNoContent, performJSONRequest(router, http.MethodDelete, path, nil).Code)
		registryUC.AssertExpectations(t)
	})

	t.Run("unknown capability in path", func(t *testing.T) {
		registryUC := &mockRegistryUseCase{}
		router := setupGrantRouter(registryUC)

		recorder := performJSONRequest(router, http.MethodDelete,
			"/v1/entities/"+uuid.Must(uuid.NewV7()).String()+"/grants/"+testGranteeAddress+"/fly", nil)

		assert.Equal(t, http.StatusUnprocessableEntity, recorder.Code)
		registryUC.AssertNotCalled(t, "Unauthorize")
	})
}

func TestGrantHandler_List(t *testing.T) {
	t.Run("lists entity grants", func(t *testing.T) {
		registryUC := &mockRegistryUseCase{}
		router := setupGrantRouter(registryUC)

		entityID := uuid.Must(uuid.NewV7())
		grants := []*authzDomain.Grant{
			{
				ID:         uuid.Must(uuid.NewV7()),
				EntityID:   entityID,
				Grantee:    testOwnerAddress,
				Capability: authzDomain.CapabilityAuthorize,
				CreatedAt:  time.Now().UTC(),
			},
			{
				ID:         uuid.Must(uuid.NewV7()),
				EntityID:   entityID,
				Grantee:    testGranteeAddress,
				Capability: authzDomain.CapabilityCall,
				CreatedAt:  time.Now().UTC(),
			},
		}
		registryUC.On("List", mock.Anything, entityID, 50, 0).Return(grants, nil)

		recorder := performJSONRequest(router, http.MethodGet, "/v1/entities/"+entityID.String()+"/grants", nil)

		require.Equal(t, http.StatusOK, recorder.Code)

		var response GrantListResponse
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
		require.Len(t, response.Grants, 2)
		assert.Equal(t, "authorize", response.Grants[0].Capability)
		assert.Equal(t, testGranteeAddress, response.Grants[1].Grantee)
	})
}
