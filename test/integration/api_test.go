// Package integration provides end-to-end tests for the action API.
// Tests run the full stack (router, use cases, repositories) against a real
// PostgreSQL database and are skipped when none is available.
package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allisson/vaultactions/internal/app"
	"github.com/allisson/vaultactions/internal/config"
	"github.com/allisson/vaultactions/internal/testutil"
)

const (
	ownerAddress     = "0x1111111111111111111111111111111111111111"
	relayerAddress   = "0x3333333333333333333333333333333333333333"
	recipientAddress = "0x4444444444444444444444444444444444444444"
	collectorAddress = "0x5555555555555555555555555555555555555555"
	tokenAddress     = "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	ammAddress       = "0xcccccccccccccccccccccccccccccccccccccccc"

	homeChainID = uint64(10)
	destChainID = uint64(42161)
)

// apiTestContext holds the running server and the credentials for requests.
type apiTestContext struct {
	server     *httptest.Server
	credential string
}

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// setupAPI boots the full application against the test database and returns
// a context with a ready-to-use authenticated account for the owner address.
func setupAPI(t *testing.T) *apiTestContext {
	t.Helper()
	testutil.SkipIfNoPostgres(t)

	// Run migrations and clean state through the shared test helpers.
	db := testutil.SetupPostgresDB(t)
	testutil.TeardownDB(t, db)

	cfg := &config.Config{
		ServerHost:           "localhost",
		ServerPort:           0,
		DBDriver:             "postgres",
		DBConnectionString:   testutil.GetPostgresTestDSN(),
		DBMaxOpenConnections: 5,
		DBMaxIdleConnections: 5,
		DBConnMaxLifetime:    5 * time.Minute,
		LogLevel:             "error",
		ChainID:              homeChainID,
		PriceOracleRates:     tokenAddress + "=1",
		RateLimitEnabled:     false,
		MetricsEnabled:       false,
	}

	container := app.NewContainer(cfg)
	server, err := container.HTTPServer()
	require.NoError(t, err, "failed to initialize http server")

	ts := httptest.NewServer(server.Handler())
	t.Cleanup(func() {
		ts.Close()
		require.NoError(t, container.Shutdown(context.Background()))
	})

	ctx := &apiTestContext{server: ts}

	// Bootstrap an account acting as the owner address.
	status, body := ctx.request(t, http.MethodPost, "/v1/accounts", map[string]any{
		"name":    "integration owner",
		"address": ownerAddress,
	})
	require.Equal(t, http.StatusCreated, status, "account creation failed: %s", body)

	var account struct {
		ID     string `json:"id"`
		Secret string `json:"secret"`
	}
	require.NoError(t, json.Unmarshal(body, &account))
	ctx.credential = account.ID + "." + account.Secret

	return ctx
}

// request performs an HTTP request against the test server, attaching the
// bearer credential when one is set.
func (ctx *apiTestContext) request(t *testing.T, method, path string, body any) (int, []byte) {
	t.Helper()

	var bodyReader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		bodyReader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, ctx.server.URL+path, bodyReader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if ctx.credential != "" {
		req.Header.Set("Authorization", "Bearer "+ctx.credential)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close() //nolint:errcheck

	responseBody, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp.StatusCode, responseBody
}

// createVault creates a vault and returns its ID.
func (ctx *apiTestContext) createVault(t *testing.T, name string) string {
	t.Helper()

	status, body := ctx.request(t, http.MethodPost, "/v1/vaults", map[string]any{
		"name":          name,
		"fee_collector": collectorAddress,
	})
	require.Equal(t, http.StatusCreated, status, "vault creation failed: %s", body)

	var vault struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(body, &vault))
	return vault.ID
}

// deposit credits the vault's token balance.
func (ctx *apiTestContext) deposit(t *testing.T, vaultID, amount string) {
	t.Helper()

	status, body := ctx.request(t, http.MethodPost, "/v1/vaults/"+vaultID+"/deposits", map[string]any{
		"token":  tokenAddress,
		"amount": amount,
	})
	require.Equal(t, http.StatusOK, status, "deposit failed: %s", body)
}

// createAction creates an action of the given kind and returns its ID.
func (ctx *apiTestContext) createAction(t *testing.T, vaultID, kind, name string) string {
	t.Helper()

	status, body := ctx.request(t, http.MethodPost, "/v1/actions", map[string]any{
		"vault_id": vaultID,
		"kind":     kind,
		"name":     name,
		"managers": []string{ownerAddress},
		"relayers": []string{relayerAddress},
	})
	require.Equal(t, http.StatusCreated, status, "action creation failed: %s", body)

	var action struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(body, &action))
	return action.ID
}

// configure sends a PUT to an action configuration endpoint and requires 200.
func (ctx *apiTestContext) configure(t *testing.T, actionID, endpoint string, body any) {
	t.Helper()

	status, responseBody := ctx.request(
		t, http.MethodPut, "/v1/actions/"+actionID+"/"+endpoint, body)
	require.Equal(t, http.StatusOK, status, "configure %s failed: %s", endpoint, responseBody)
}

// balance fetches the vault's token balance as a string.
func (ctx *apiTestContext) balance(t *testing.T, vaultID string) string {
	t.Helper()

	status, body := ctx.request(
		t, http.MethodGet, "/v1/vaults/"+vaultID+"/balances/"+tokenAddress, nil)
	require.Equal(t, http.StatusOK, status)

	var response struct {
		Amount string `json:"amount"`
	}
	require.NoError(t, json.Unmarshal(body, &response))
	return response.Amount
}

func TestAPI_Authentication(t *testing.T) {
	ctx := setupAPI(t)

	unauthenticated := &apiTestContext{server: ctx.server}
	status, _ := unauthenticated.request(t, http.MethodGet, "/v1/vaults", nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = ctx.request(t, http.MethodGet, "/v1/vaults", nil)
	assert.Equal(t, http.StatusOK, status)
}

func TestAPI_BridgePipeline(t *testing.T) {
	ctx := setupAPI(t)

	// Register the AMM used to trade the token on the destination chain.
	status, body := ctx.request(t, http.MethodPost, "/v1/amms", map[string]any{
		"address":         ammAddress,
		"canonical_token": tokenAddress,
	})
	require.Equal(t, http.StatusCreated, status, "amm creation failed: %s", body)

	vaultID := ctx.createVault(t, "bridge vault")
	ctx.deposit(t, vaultID, "100000000000000000000") // 100 units

	actionID := ctx.createAction(t, vaultID, "bridger", "hop bridger")

	ctx.configure(t, actionID, "token-amms", map[string]any{
		"token": tokenAddress,
		"amm":   ammAddress,
	})
	ctx.configure(t, actionID, "allowed-chains", map[string]any{
		"chain_id": destChainID,
		"allowed":  true,
	})
	ctx.configure(t, actionID, "max-slippage", map[string]any{"max_slippage": "0.05"})
	ctx.configure(t, actionID, "max-bonder-fee-pct", map[string]any{"max_bonder_fee_pct": "0.02"})
	ctx.configure(t, actionID, "max-deadline", map[string]any{"max_deadline_seconds": 3600})
	ctx.configure(t, actionID, "threshold", map[string]any{
		"token":  tokenAddress,
		"amount": "10000000000000000000", // 10 units
	})

	bridgeCall := map[string]any{
		"chain_id":   destChainID,
		"token":      tokenAddress,
		"amount":     "50000000000000000000", // 50 units
		"slippage":   "0.01",
		"bonder_fee": "100000000000000000",
		"gas":        map[string]any{},
	}

	t.Run("can-bridge reports executable", func(t *testing.T) {
		status, body := ctx.request(
			t, http.MethodPost, "/v1/actions/"+actionID+"/can-bridge", bridgeCall)
		require.Equal(t, http.StatusOK, status, "can-bridge failed: %s", body)

		var response struct {
			CanExecute bool `json:"can_execute"`
		}
		require.NoError(t, json.Unmarshal(body, &response))
		assert.True(t, response.CanExecute)
	})

	t.Run("bridge to a non-whitelisted chain is rejected", func(t *testing.T) {
		badCall := map[string]any{
			"chain_id":   uint64(137),
			"token":      tokenAddress,
			"amount":     "50000000000000000000",
			"slippage":   "0.01",
			"bonder_fee": "100000000000000000",
			"gas":        map[string]any{},
		}

		status, body := ctx.request(t, http.MethodPost, "/v1/actions/"+actionID+"/bridge", badCall)
		require.Equal(t, http.StatusUnprocessableEntity, status)

		var response struct {
			Code string `json:"code"`
		}
		require.NoError(t, json.Unmarshal(body, &response))
		assert.Equal(t, "BRIDGER_CHAIN_NOT_ALLOWED", response.Code)
	})

	t.Run("bridge debits the vault", func(t *testing.T) {
		status, body := ctx.request(t, http.MethodPost, "/v1/actions/"+actionID+"/bridge", bridgeCall)
		require.Equal(t, http.StatusOK, status, "bridge failed: %s", body)

		var response struct {
			Amount       string `json:"amount"`
			MinAmountOut string `json:"min_amount_out"`
		}
		require.NoError(t, json.Unmarshal(body, &response))
		assert.Equal(t, "50000000000000000000", response.Amount)
		assert.Equal(t, "49500000000000000000", response.MinAmountOut) // 1% slippage

		assert.Equal(t, "50000000000000000000", ctx.balance(t, vaultID))
	})

	t.Run("second bridge below threshold is gated", func(t *testing.T) {
		bigCall := map[string]any{
			"chain_id":   destChainID,
			"token":      tokenAddress,
			"amount":     "45000000000000000000", // leaves 5, below the 10 unit threshold
			"slippage":   "0.01",
			"bonder_fee": "100000000000000000",
			"gas":        map[string]any{},
		}

		status, body := ctx.request(t, http.MethodPost, "/v1/actions/"+actionID+"/bridge", bigCall)
		require.Equal(t, http.StatusOK, status, "bridge failed: %s", body)

		// The remaining 5 units sit below the threshold, so the next call gates.
		status, body = ctx.request(t, http.MethodPost, "/v1/actions/"+actionID+"/bridge", map[string]any{
			"chain_id":   destChainID,
			"token":      tokenAddress,
			"amount":     "1000000000000000000",
			"slippage":   "0.01",
			"bonder_fee": "10000000000000000",
			"gas":        map[string]any{},
		})
		require.Equal(t, http.StatusConflict, status)

		var response struct {
			Error string `json:"error"`
			Code  string `json:"code"`
		}
		require.NoError(t, json.Unmarshal(body, &response))
		assert.Equal(t, "gate_closed", response.Error)
		assert.Equal(t, "MIN_THRESHOLD_NOT_MET", response.Code)
	})
}

func TestAPI_WithdrawPipeline(t *testing.T) {
	ctx := setupAPI(t)

	vaultID := ctx.createVault(t, "withdraw vault")
	ctx.deposit(t, vaultID, "30000000000000000000") // 30 units

	actionID := ctx.createAction(t, vaultID, "withdrawer", "dao withdrawer")

	ctx.configure(t, actionID, "recipient", map[string]any{"recipient": recipientAddress})
	ctx.configure(t, actionID, "threshold", map[string]any{
		"token":  tokenAddress,
		"amount": "1000000000000000000",
	})
	ctx.configure(t, actionID, "time-lock", map[string]any{"period_seconds": 3600})

	t.Run("withdraw drains the vault", func(t *testing.T) {
		status, body := ctx.request(t, http.MethodPost, "/v1/actions/"+actionID+"/withdraw", nil)
		require.Equal(t, http.StatusOK, status, "withdraw failed: %s", body)

		var response struct {
			Amount      string `json:"amount"`
			RelayerCost string `json:"relayer_cost"`
		}
		require.NoError(t, json.Unmarshal(body, &response))
		assert.Equal(t, "30000000000000000000", response.Amount)
		assert.Equal(t, "0", response.RelayerCost)

		assert.Equal(t, "0", ctx.balance(t, vaultID))
	})

	t.Run("time lock blocks the next run", func(t *testing.T) {
		ctx.deposit(t, vaultID, "30000000000000000000")

		status, body := ctx.request(t, http.MethodPost, "/v1/actions/"+actionID+"/withdraw", nil)
		require.Equal(t, http.StatusConflict, status)

		var response struct {
			Code string `json:"code"`
		}
		require.NoError(t, json.Unmarshal(body, &response))
		assert.Equal(t, "TIME_LOCK_NOT_EXPIRED", response.Code)

		status, body = ctx.request(t, http.MethodGet, "/v1/actions/"+actionID+"/can-withdraw", nil)
		require.Equal(t, http.StatusOK, status, "can-withdraw failed: %s", body)

		var verdict struct {
			CanExecute bool `json:"can_execute"`
		}
		require.NoError(t, json.Unmarshal(body, &verdict))
		assert.False(t, verdict.CanExecute)
	})
}

func TestAPI_Grants(t *testing.T) {
	ctx := setupAPI(t)

	vaultID := ctx.createVault(t, "grants vault")
	grantee := "0x2222222222222222222222222222222222222222"

	t.Run("owner bootstrap grants are listed", func(t *testing.T) {
		status, body := ctx.request(t, http.MethodGet, "/v1/entities/"+vaultID+"/grants", nil)
		require.Equal(t, http.StatusOK, status, "grant listing failed: %s", body)

		var response struct {
			Grants []struct {
				Grantee    string `json:"grantee"`
				Capability string `json:"capability"`
			} `json:"grants"`
		}
		require.NoError(t, json.Unmarshal(body, &response))
		require.NotEmpty(t, response.Grants)
		for _, grant := range response.Grants {
			assert.Equal(t, ownerAddress, grant.Grantee)
		}
	})

	t.Run("grant and revoke a capability", func(t *testing.T) {
		status, body := ctx.request(t, http.MethodPost, "/v1/entities/"+vaultID+"/grants", map[string]any{
			"grantee":    grantee,
			"capability": "call",
		})
		require.Equal(t, http.StatusCreated, status, "grant failed: %s", body)

		path := fmt.Sprintf("/v1/entities/%s/grants/%s/call", vaultID, grantee)
		status, _ = ctx.request(t, http.MethodDelete, path, nil)
		require.Equal(t, http.StatusNoContent, status)

		// Revoking again is an idempotent no-op.
		status, _ = ctx.request(t, http.MethodDelete, path, nil)
		assert.Equal(t, http.StatusNoContent, status)
	})
}
