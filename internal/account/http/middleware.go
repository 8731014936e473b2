package http

import (
	"log/slog"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	accountUseCase "github.com/allisson/vaultactions/internal/account/usecase"
	apperrors "github.com/allisson/vaultactions/internal/errors"
	"github.com/allisson/vaultactions/internal/httputil"
)

// AuthenticationMiddleware provides authentication via Bearer credentials in
// the Authorization header.
//
// The middleware:
// 1. Extracts the Bearer credential from the Authorization header (case-insensitive)
// 2. Splits it into "<account_id>.<secret>"
// 3. Validates the secret using accountUseCase.Authenticate()
// 4. Stores the authenticated account in the request context
// 5. Allows downstream handlers to access the account via GetAccount()
//
// Authorization header format: "Bearer <account_id>.<secret>"
//
// Error handling:
//   - Missing Authorization header → 401 Unauthorized
//   - Malformed Authorization header → 401 Unauthorized
//   - Unknown account or wrong secret → 401 Unauthorized
//   - Inactive account → 403 Forbidden
//   - Other errors → 500 Internal Server Error
func AuthenticationMiddleware(
	accountUC accountUseCase.AccountUseCase,
	logger *slog.Logger,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			logger.Debug("authentication failed: missing authorization header")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		// Parse Bearer credential (case-insensitive prefix)
		const bearerPrefix = "bearer "
		if len(authHeader) < len(bearerPrefix) ||
			!strings.EqualFold(authHeader[:len(bearerPrefix)], bearerPrefix) {
			logger.Debug("authentication failed: malformed authorization header")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		credential := authHeader[len(bearerPrefix):]
		accountID, plainSecret, ok := strings.Cut(credential, ".")
		if !ok || accountID == "" || plainSecret == "" {
			logger.Debug("authentication failed: malformed bearer credential")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		// An unparseable account ID reveals nothing, treat it like a bad secret.
		parsedID, err := uuid.Parse(accountID)
		if err != nil {
			logger.Debug("authentication failed: invalid account id format")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		account, err := accountUC.Authenticate(c.Request.Context(), parsedID, plainSecret)
		if err != nil {
			logger.Debug("authentication failed",
				slog.String("error", err.Error()))
			httputil.HandleErrorGin(c, err, logger)
			c.Abort()
			return
		}

		// Store authenticated account in context
		ctx := WithAccount(c.Request.Context(), account)
		c.Request = c.Request.WithContext(ctx)

		logger.Debug("authentication successful",
			slog.String("account_id", account.ID.String()),
			slog.String("account_address", account.Address))

		c.Next()
	}
}
