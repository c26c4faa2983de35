package middleware

import (
	"net/http"
	"strings"

	"github.com/centrex/auth-service/internal/constants"
	"github.com/centrex/auth-service/internal/service"
	ctxutil "github.com/centrex/auth-service/pkg/context"
	"github.com/centrex/auth-service/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Gin context keys set by RequireAuth
const (
	GinKeyUserID   = "user_id"
	GinKeyDeviceID = "device_id"
)

type AuthMiddleware struct {
	tokens *service.TokenService
}

func NewAuthMiddleware(tokens *service.TokenService) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

// RequireAuth validates the bearer token and sets the resolved
// user/device identity on both the gin context and the request context.
// The response for every failure mode is the same generic 401.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader(constants.HeaderAuthorization)
		if authHeader == "" {
			logger.GetLogger().Warn("Missing Authorization header",
				zap.String("path", c.Request.URL.Path),
				zap.String("method", c.Request.Method))
			m.unauthorized(c)
			return
		}

		tokenParts := strings.Split(authHeader, " ")
		if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
			logger.GetLogger().Warn("Invalid Authorization header format",
				zap.String("path", c.Request.URL.Path),
				zap.String("method", c.Request.Method))
			m.unauthorized(c)
			return
		}

		userID, deviceID, err := m.tokens.Authenticate(c.Request.Context(), tokenParts[1])
		if err != nil {
			logger.GetLogger().Warn("Bearer token rejected",
				zap.String("path", c.Request.URL.Path),
				zap.String("method", c.Request.Method),
				zap.Error(err))
			m.unauthorized(c)
			return
		}

		c.Set(GinKeyUserID, userID)
		c.Set(GinKeyDeviceID, deviceID)

		ctx := ctxutil.WithUserID(c.Request.Context(), userID)
		ctx = ctxutil.WithDeviceID(ctx, deviceID)
		c.Request = c.Request.WithContext(ctx)

		logger.GetLogger().Debug("Request authenticated",
			zap.Uint("user_id", userID),
			zap.String("device_id", deviceID),
			zap.String("path", c.Request.URL.Path))

		c.Next()
	}
}

func (m *AuthMiddleware) unauthorized(c *gin.Context) {
	c.JSON(http.StatusUnauthorized, constants.BuildErrorResponse(constants.MsgUnauthorized, nil))
	c.Abort()
}

// AuthenticatedUser reads the identity RequireAuth stored on the gin
// context. The boolean is false on routes that skipped the middleware.
func AuthenticatedUser(c *gin.Context) (uint, string, bool) {
	userID, ok := c.Get(GinKeyUserID)
	if !ok {
		return 0, "", false
	}
	uid, ok := userID.(uint)
	if !ok {
		return 0, "", false
	}
	deviceID := c.GetString(GinKeyDeviceID)
	return uid, deviceID, true
}
