package http

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	accountDomain "github.com/allisson/vaultactions/internal/account/domain"
	apperrors "github.com/allisson/vaultactions/internal/errors"
	"github.com/allisson/vaultactions/internal/httputil"
)

// mockAccountUseCase is a mock implementation of AccountUseCase for testing.
type mockAccountUseCase struct {
	mock.Mock
}

func (m *mockAccountUseCase) Create(
	ctx context.Context,
	input *accountDomain.CreateAccountInput,
) (*accountDomain.CreateAccountOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accountDomain.CreateAccountOutput), args.Error(1)
}

func (m *mockAccountUseCase) Get(ctx context.Context, accountID uuid.UUID) (*accountDomain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accountDomain.Account), args.Error(1)
}

func (m *mockAccountUseCase) List(ctx context.Context, limit, offset int) ([]*accountDomain.Account, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*accountDomain.Account), args.Error(1)
}

func (m *mockAccountUseCase) Delete(ctx context.Context, accountID uuid.UUID) error {
	args := m.Called(ctx, accountID)
	return args.Error(0)
}

func (m *mockAccountUseCase) Authenticate(
	ctx context.Context,
	accountID uuid.UUID,
	plainSecret string,
) (*accountDomain.Account, error) {
	args := m.Called(ctx, accountID, plainSecret)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accountDomain.Account), args.Error(1)
}

// TestMain sets Gin to test mode for all tests in this package.
func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// performAuthenticatedRequest runs a request with the authentication
// middleware installed and a handler that reports the account it sees.
func performAuthenticatedRequest(
	t *testing.T,
	accountUC *mockAccountUseCase,
	authHeader string,
) *httptest.ResponseRecorder {
	t.Helper()

	router := gin.New()
	router.Use(AuthenticationMiddleware(accountUC, testLogger()))
	router.GET("/protected", func(c *gin.Context) {
		account, ok := GetAccount(c.Request.Context())
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"address": account.Address})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	router.ServeHTTP(w, req)

	return w
}

func TestAuthenticationMiddleware(t *testing.T) {
	account := &accountDomain.Account{
		ID:       uuid.Must(uuid.NewV7()),
		Name:     "relayer-1",
		Address:  "0x1111111111111111111111111111111111111111",
		IsActive: true,
	}

	t.Run("Success_ValidCredential", func(t *testing.T) {
		accountUC := &mockAccountUseCase{}
		accountUC.On("Authenticate", mock.Anything, account.ID, "plain-secret").
			Return(account, nil)

		w := performAuthenticatedRequest(t, accountUC, "Bearer "+account.ID.String()+".plain-secret")

		assert.Equal(t, http.StatusOK, w.Code)
		var body map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, account.Address, body["address"])
	})

	t.Run("Success_CaseInsensitiveBearerPrefix", func(t *testing.T) {
		accountUC := &mockAccountUseCase{}
		accountUC.On("Authenticate", mock.Anything, account.ID, "plain-secret").
			Return(account, nil)

		w := performAuthenticatedRequest(t, accountUC, "bearer "+account.ID.String()+".plain-secret")

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Failure_MissingHeader", func(t *testing.T) {
		accountUC := &mockAccountUseCase{}

		w := performAuthenticatedRequest(t, accountUC, "")

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		accountUC.AssertNotCalled(t, "Authenticate", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Failure_MalformedHeader", func(t *testing.T) {
		accountUC := &mockAccountUseCase{}

		w := performAuthenticatedRequest(t, accountUC, "Basic dXNlcjpwYXNz")

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Failure_CredentialWithoutSeparator", func(t *testing.T) {
		accountUC := &mockAccountUseCase{}

		w := performAuthenticatedRequest(t, accountUC, "Bearer "+account.ID.String())

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		accountUC.AssertNotCalled(t, "Authenticate", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Failure_InvalidAccountID", func(t *testing.T) {
		accountUC := &mockAccountUseCase{}

		w := performAuthenticatedRequest(t, accountUC, "Bearer not-a-uuid.plain-secret")

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		accountUC.AssertNotCalled(t, "Authenticate", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Failure_BadSecret", func(t *testing.T) {
		accountUC := &mockAccountUseCase{}
		accountUC.On("Authenticate", mock.Anything, account.ID, "wrong-secret").
			Return(nil, apperrors.ErrUnauthorized)

		w := performAuthenticatedRequest(t, accountUC, "Bearer "+account.ID.String()+".wrong-secret")

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Failure_InactiveAccountIsForbidden", func(t *testing.T) {
		accountUC := &mockAccountUseCase{}
		accountUC.On("Authenticate", mock.Anything, account.ID, "plain-secret").
			Return(nil, accountDomain.ErrAccountInactive)

		w := performAuthenticatedRequest(t, accountUC, "Bearer "+account.ID.String()+".plain-secret")

		assert.Equal(t, http.StatusForbidden, w.Code)

		var errorResponse httputil.ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &errorResponse))
		assert.Equal(t, "forbidden", errorResponse.Error)
	})
}

func TestAccountContext(t *testing.T) {
	t.Run("RoundTrip", func(t *testing.T) {
		account := &accountDomain.Account{ID: uuid.Must(uuid.NewV7())}
		ctx := WithAccount(context.Background(), account)

		got, ok := GetAccount(ctx)
		require.True(t, ok)
		assert.Equal(t, account, got)
	})

	t.Run("MissingAccount", func(t *testing.T) {
		got, ok := GetAccount(context.Background())
		assert.False(t, ok)
		assert.Nil(t, got)
	})
}
