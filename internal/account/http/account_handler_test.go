package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	accountDomain "github.com/allisson/vaultactions/internal/account/domain"
	"github.com/allisson/vaultactions/internal/httputil"
)

// setupAccountRouter wires the account handler routes into a fresh router.
func setupAccountRouter(accountUC *mockAccountUseCase) *gin.Engine {
	handler := NewAccountHandler(accountUC, testLogger())

	router := gin.New()
	router.POST("/v1/accounts", handler.CreateHandler)
	router.GET("/v1/accounts", handler.ListHandler)
	router.GET("/v1/accounts/:id", handler.GetHandler)
	router.DELETE("/v1/accounts/:id", handler.DeleteHandler)
	return router
}

func performJSONRequest(router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		payload, _ := json.Marshal(body)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func TestAccountHandler_CreateHandler(t *testing.T) {
	t.Run("Success_ValidRequest", func(t *testing.T) {
		accountUC := &mockAccountUseCase{}
		router := setupAccountRouter(accountUC)

		accountID := uuid.Must(uuid.NewV7())
		address := "0x1111111111111111111111111111111111111111"

		accountUC.On("Create", mock.Anything, &accountDomain.CreateAccountInput{
			Name:    "relayer-1",
			Address: address,
		}).Return(&accountDomain.CreateAccountOutput{
			ID:          accountID,
			Address:     address,
			PlainSecret: "plain-secret",
		}, nil)

		w := performJSONRequest(router, http.MethodPost, "/v1/accounts", CreateAccountRequest{
			Name:    "relayer-1",
			Address: address,
		})

		assert.Equal(t, http.StatusCreated, w.Code)

		var response CreateAccountResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, accountID.String(), response.ID)
		assert.Equal(t, address, response.Address)
		assert.Equal(t, "plain-secret", response.Secret)
	})

	t.Run("Failure_InvalidAddress", func(t *testing.T) {
		accountUC := &mockAccountUseCase{}
		router := setupAccountRouter(accountUC)

		w := performJSONRequest(router, http.MethodPost, "/v1/accounts", CreateAccountRequest{
			Name:    "relayer-1",
			Address: "not-an-address",
		})

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		accountUC.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Failure_BlankName", func(t *testing.T) {
		accountUC := &mockAccountUseCase{}
		router := setupAccountRouter(accountUC)

		w := performJSONRequest(router, http.MethodPost, "/v1/accounts", CreateAccountRequest{
			Name:    "   ",
			Address: "0x1111111111111111111111111111111111111111",
		})

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("Failure_AddressTaken", func(t *testing.T) {
		accountUC := &mockAccountUseCase{}
		router := setupAccountRouter(accountUC)

		accountUC.On("Create", mock.Anything, mock.Anything).
			Return(nil, accountDomain.ErrAddressTaken)

		w := performJSONRequest(router, http.MethodPost, "/v1/accounts", CreateAccountRequest{
			Name:    "relayer-1",
			Address: "0x1111111111111111111111111111111111111111",
		})

		assert.Equal(t, http.StatusConflict, w.Code)

		var errorResponse httputil.ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &errorResponse))
		assert.Equal(t, "conflict", errorResponse.Error)
	})

	t.Run("Failure_MalformedJSON", func(t *testing.T) {
		accountUC := &mockAccountUseCase{}
		router := setupAccountRouter(accountUC)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/v1/accounts", bytes.NewReader([]byte("{not json")))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})
}

func TestAccountHandler_GetHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		accountUC := &mockAccountUseCase{}
		router := setupAccountRouter(accountUC)

		account := &accountDomain.Account{
			ID:        uuid.Must(uuid.NewV7()),
			Secret:    "hashed-secret",
			Name:      "relayer-1",
			Address:   "0x1111111111111111111111111111111111111111",
			IsActive:  true,
			CreatedAt: time.Now().UTC(),
		}
		accountUC.On("Get", mock.Anything, account.ID).Return(account, nil)

		w := performJSONRequest(router, http.MethodGet, "/v1/accounts/"+account.ID.String(), nil)

		assert.Equal(t, http.StatusOK, w.Code)

		var response AccountResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, account.ID.String(), response.ID)
		assert.Equal(t, account.Address, response.Address)
		assert.True(t, response.IsActive)

		// The secret must never leak into responses.
		assert.NotContains(t, w.Body.String(), "hashed-secret")
	})

	t.Run("Failure_InvalidUUID", func(t *testing.T) {
		accountUC := &mockAccountUseCase{}
		router := setupAccountRouter(accountUC)

		w := performJSONRequest(router, http.MethodGet, "/v1/accounts/not-a-uuid", nil)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("Failure_NotFound", func(t *testing.T) {
		accountUC := &mockAccountUseCase{}
		router := setupAccountRouter(accountUC)

		accountID := uuid.Must(uuid.NewV7())
		accountUC.On("Get", mock.Anything, accountID).Return(nil, accountDomain.ErrAccountNotFound)

		w := performJSONRequest(router, http.MethodGet, "/v1/accounts/"+accountID.String(), nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestAccountHandler_ListHandler(t *testing.T) {
	t.Run("Success_PassesPagination", func(t *testing.T) {
		accountUC := &mockAccountUseCase{}
		router := setupAccountRouter(accountUC)

		accounts := []*accountDomain.Account{
			{ID: uuid.Must(uuid.NewV7()), Name: "relayer-1", Address: "0x1111111111111111111111111111111111111111", IsActive: true},
			{ID: uuid.Must(uuid.NewV7()), Name: "relayer-2", Address: "0x2222222222222222222222222222222222222222", IsActive: true},
		}
		accountUC.On("List", mock.Anything, 10, 5).Return(accounts, nil)

		w := performJSONRequest(router, http.MethodGet, "/v1/accounts?limit=10&offset=5", nil)

		assert.Equal(t, http.StatusOK, w.Code)

		var response AccountListResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Len(t, response.Accounts, 2)
		assert.Equal(t, 10, response.Limit)
		assert.Equal(t, 5, response.Offset)
	})

	t.Run("Failure_InvalidPagination", func(t *testing.T) {
		accountUC := &mockAccountUseCase{}
		router := setupAccountRouter(accountUC)

		w := performJSONRequest(router, http.MethodGet, "/v1/accounts?limit=abc", nil)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		accountUC.AssertNotCalled(t, "List", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestAccountHandler_DeleteHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		accountUC := &mockAccountUseCase{}
		router := setupAccountRouter(accountUC)

		accountID := uuid.Must(uuid.NewV7())
		accountUC.On("Delete", mock.Anything, accountID).Return(nil)

		w := performJSONRequest(router, http.MethodDelete, "/v1/accounts/"+accountID.String(), nil)

		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("Failure_NotFound", func(t *testing.T) {
		accountUC := &mockAccountUseCase{}
		router := setupAccountRouter(accountUC)

		accountID := uuid.Must(uuid.NewV7())
		accountUC.On("Delete", mock.Anything, accountID).Return(accountDomain.ErrAccountNotFound)

		w := performJSONRequest(router, http.MethodDelete, "/v1/accounts/"+accountID.String(), nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
