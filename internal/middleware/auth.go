// Package middleware provides HTTP middleware for the application.
// The orchestrator never manages login state itself: it verifies the
// bearer credential issued by the external auth collaborator and
// forwards it, untouched, to the ledger gateway.
package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/creastech-limited/XMWHS-sub001/internal/config"
	"github.com/creastech-limited/XMWHS-sub001/internal/models"
)

// Locals keys set by the auth middleware.
const (
	LocalsClaims = "claims"
	LocalsBearer = "bearer"
)

// AuthMiddleware validates bearer tokens and exposes the claims and the
// raw credential to handlers.
type AuthMiddleware struct {
	secret []byte
	logger *zap.Logger
}

// NewAuthMiddleware creates the middleware using JWT_SECRET.
func NewAuthMiddleware(logger *zap.Logger) *AuthMiddleware {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthMiddleware{
		secret: []byte(config.GetEnv("JWT_SECRET", "dev-secret")),
		logger: logger,
	}
}

// Handler validates the Authorization header and stores claims plus the
// raw bearer in request locals.
func (m *AuthMiddleware) Handler(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "missing authorization header"})
	}
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid authorization format"})
	}

	tokenString := strings.TrimPrefix(authHeader, "Bearer ")

	token, err := jwt.ParseWithClaims(tokenString, &models.UserClaims{}, func(token *jwt.Token) (interface{}, error) {
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		m.logger.Debug("token validation failed", zap.Error(err))
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid token"})
	}

	claims, ok := token.Claims.(*models.UserClaims)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid claims"})
	}

	c.Locals(LocalsClaims, claims)
	c.Locals(LocalsBearer, tokenString)
	return c.Next()
}

// RequirePermission gates a route on one claims permission.
func RequirePermission(permission string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, ok := c.Locals(LocalsClaims).(*models.UserClaims)
		if !ok || !claims.HasPermission(permission) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "insufficient permissions"})
		}
		return c.Next()
	}
}
