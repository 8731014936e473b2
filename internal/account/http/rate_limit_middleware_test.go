package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	accountDomain "github.com/allisson/vaultactions/internal/account/domain"
)

// setupRateLimitedRouter installs the rate limit middleware behind a stub that
// injects the given account into the request context.
func setupRateLimitedRouter(rps float64, burst int, account *accountDomain.Account) *gin.Engine {
	router := gin.New()
	router.Use(func(c *gin.Context) {
		if account != nil {
			c.Request = c.Request.WithContext(WithAccount(c.Request.Context(), account))
		}
		c.Next()
	})
	router.Use(RateLimitMiddleware(rps, burst, testLogger()))
	router.GET("/limited", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	return router
}

func performLimitedRequest(router *gin.Engine) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/limited", nil)
	router.ServeHTTP(w, req)
	return w
}

func TestRateLimitMiddleware(t *testing.T) {
	t.Run("Success_WithinBurst", func(t *testing.T) {
		account := &accountDomain.Account{ID: uuid.Must(uuid.NewV7())}
		router := setupRateLimitedRouter(1, 3, account)

		for i := 0; i < 3; i++ {
			w := performLimitedRequest(router)
			assert.Equal(t, http.StatusOK, w.Code)
		}
	})

	t.Run("Failure_ExceedsBurst", func(t *testing.T) {
		account := &accountDomain.Account{ID: uuid.Must(uuid.NewV7())}
		router := setupRateLimitedRouter(0.001, 1, account)

		w := performLimitedRequest(router)
		assert.Equal(t, http.StatusOK, w.Code)

		w = performLimitedRequest(router)
		assert.Equal(t, http.StatusTooManyRequests, w.Code)
		assert.NotEmpty(t, w.Header().Get("Retry-After"))
		assert.Contains(t, w.Body.String(), "rate_limit_exceeded")
	})

	t.Run("Failure_NoAuthenticatedAccount", func(t *testing.T) {
		router := setupRateLimitedRouter(1, 1, nil)

		w := performLimitedRequest(router)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Success_IndependentLimitsPerAccount", func(t *testing.T) {
		// Exhaust one account's bucket, a second account must still pass.
		router := gin.New()
		accountA := &accountDomain.Account{ID: uuid.Must(uuid.NewV7())}
		accountB := &accountDomain.Account{ID: uuid.Must(uuid.NewV7())}

		current := accountA
		router.Use(func(c *gin.Context) {
			c.Request = c.Request.WithContext(WithAccount(c.Request.Context(), current))
			c.Next()
		})
		router.Use(RateLimitMiddleware(0.001, 1, testLogger()))
		router.GET("/limited", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		w := performLimitedRequest(router)
		assert.Equal(t, http.StatusOK, w.Code)
		w = performLimitedRequest(router)
		assert.Equal(t, http.StatusTooManyRequests, w.Code)

		current = accountB
		w = performLimitedRequest(router)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}
