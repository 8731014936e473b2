package http

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/metric"

	accountHTTP "github.com/allisson/vaultactions/internal/account/http"
	accountUseCase "github.com/allisson/vaultactions/internal/account/usecase"
	actionHTTP "github.com/allisson/vaultactions/internal/action/http"
	authzHTTP "github.com/allisson/vaultactions/internal/authz/http"
	"github.com/allisson/vaultactions/internal/config"
	"github.com/allisson/vaultactions/internal/metrics"
	vaultHTTP "github.com/allisson/vaultactions/internal/vault/http"
)

// RouterDependencies carries everything SetupRouter needs to assemble the
// API surface.
type RouterDependencies struct {
	Config         *config.Config
	AccountUC      accountUseCase.AccountUseCase
	AccountHandler *accountHTTP.AccountHandler
	VaultHandler   *vaultHTTP.VaultHandler
	AmmHandler     *vaultHTTP.AmmHandler
	ActionHandler  *actionHTTP.ActionHandler
	GrantHandler   *authzHTTP.GrantHandler
	MeterProvider  metric.MeterProvider
	Logger         *slog.Logger
}

// SetupRouter builds the gin engine and mounts every route. Account creation
// is the only unauthenticated API endpoint; everything else sits behind
// bearer authentication and, when enabled, per-account rate limiting.
func (s *Server) SetupRouter(deps RouterDependencies) {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestIDMiddleware())
	router.Use(CustomLoggerMiddleware(deps.Logger))
	router.Use(createCORSMiddleware(deps.Config.CORSEnabled, deps.Config.CORSAllowOrigins, deps.Logger))

	if deps.Config.MetricsEnabled && deps.MeterProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(deps.MeterProvider, deps.Config.MetricsNamespace))
	}

	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)

	v1 := router.Group("/v1")

	// Account creation bootstraps credentials, so it stays public.
	v1.POST("/accounts", deps.AccountHandler.CreateHandler)

	authenticated := v1.Group("")
	authenticated.Use(accountHTTP.AuthenticationMiddleware(deps.AccountUC, deps.Logger))
	if deps.Config.RateLimitEnabled {
		authenticated.Use(accountHTTP.RateLimitMiddleware(
			deps.Config.RateLimitRequestsPerSec,
			deps.Config.RateLimitBurst,
			deps.Logger,
		))
	}

	// Accounts
	authenticated.GET("/accounts", deps.AccountHandler.ListHandler)
	authenticated.GET("/accounts/:id", deps.AccountHandler.GetHandler)
	authenticated.DELETE("/accounts/:id", deps.AccountHandler.DeleteHandler)

	// AMMs
	authenticated.POST("/amms", deps.AmmHandler.CreateHandler)
	authenticated.GET("/amms", deps.AmmHandler.ListHandler)
	authenticated.GET("/amms/:address", deps.AmmHandler.GetHandler)

	// Vaults
	authenticated.POST("/vaults", deps.VaultHandler.CreateHandler)
	authenticated.GET("/vaults", deps.VaultHandler.ListHandler)
	authenticated.GET("/vaults/:id", deps.VaultHandler.GetHandler)
	authenticated.POST("/vaults/:id/deposits", deps.VaultHandler.DepositHandler)
	authenticated.GET("/vaults/:id/balances/:token", deps.VaultHandler.GetBalanceHandler)
	authenticated.GET("/vaults/:id/actions", deps.ActionHandler.ListByVaultHandler)

	// Actions
	authenticated.POST("/actions", deps.ActionHandler.CreateHandler)
	authenticated.GET("/actions/:id", deps.ActionHandler.GetHandler)
	authenticated.PUT("/actions/:id/threshold", deps.ActionHandler.SetThresholdHandler)
	authenticated.PUT("/actions/:id/relayers", deps.ActionHandler.SetRelayerHandler)
	authenticated.PUT("/actions/:id/limits", deps.ActionHandler.SetLimitsHandler)
	authenticated.PUT("/actions/:id/time-lock", deps.ActionHandler.SetTimeLockHandler)
	authenticated.PUT("/actions/:id/recipient", deps.ActionHandler.SetRecipientHandler)
	authenticated.PUT("/actions/:id/token-amms", deps.ActionHandler.SetTokenAmmHandler)
	authenticated.PUT("/actions/:id/allowed-chains", deps.ActionHandler.SetAllowedChainHandler)
	authenticated.PUT("/actions/:id/max-slippage", deps.ActionHandler.SetMaxSlippageHandler)
	authenticated.PUT("/actions/:id/max-bonder-fee-pct", deps.ActionHandler.SetMaxBonderFeePctHandler)
	authenticated.PUT("/actions/:id/max-deadline", deps.ActionHandler.SetMaxDeadlineHandler)
	authenticated.POST("/actions/:id/bridge", deps.ActionHandler.BridgeHandler)
	authenticated.POST("/actions/:id/withdraw", deps.ActionHandler.WithdrawHandler)
	authenticated.POST("/actions/:id/can-bridge", deps.ActionHandler.CanBridgeHandler)
	authenticated.GET("/actions/:id/can-withdraw", deps.ActionHandler.CanWithdrawHandler)

	// Capability grants
	authenticated.POST("/entities/:id/grants", deps.GrantHandler.CreateHandler)
	authenticated.GET("/entities/:id/grants", deps.GrantHandler.ListHandler)
	authenticated.DELETE("/entities/:id/grants/:grantee/:capability", deps.GrantHandler.DeleteHandler)

	s.router = router
}
