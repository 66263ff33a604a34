// Package middleware contains HTTP middleware functions for request processing
package middleware

import (
	"context"
	"strings"
	"time"

	"github.com/amirphl/studio-hiring-api/app/dto"
	businessflow "github.com/amirphl/studio-hiring-api/business_flow"
	"github.com/amirphl/studio-hiring-api/utils"
	"github.com/gofiber/fiber/v3"
	log "github.com/sirupsen/logrus"
)

const adminIdentityKey = "admin_identity"

// TokenVerifier turns a session token into the calling admin
type TokenVerifier interface {
	VerifyToken(ctx context.Context, token string) (*businessflow.AdminIdentity, error)
}

// AuthMiddleware guards the admin routes
type AuthMiddleware struct {
	verifier TokenVerifier
}

// NewAuthMiddleware creates a new authentication middleware
func NewAuthMiddleware(verifier TokenVerifier) *AuthMiddleware {
	return &AuthMiddleware{verifier: verifier}
}

// ExtractToken prefers an explicit bearer header and falls back to the session cookie
func ExtractToken(c fiber.Ctx) string {
	authHeader := c.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		if token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer ")); token != "" {
			return token
		}
	}
	return c.Cookies(utils.AdminTokenCookie)
}

// AdminAuthenticate verifies the token and stores the admin identity in locals
func (m *AuthMiddleware) AdminAuthenticate() fiber.Handler {
	return func(c fiber.Ctx) error {
		token := ExtractToken(c)
		if token == "" {
			return unauthorized(c, "Authentication token is required", "TOKEN_MISSING")
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		identity, err := m.verifier.VerifyToken(ctx, token)
		if err != nil {
			if !businessflow.IsUnauthorized(err) {
				log.WithError(err).Error("Admin token verification failed")
				return c.Status(fiber.StatusInternalServerError).JSON(dto.APIResponse{
					Success: false,
					Message: "Token verification failed",
					Error:   dto.ErrorDetail{Code: "TOKEN_VERIFICATION_FAILED"},
				})
			}
			code := "TOKEN_INVALID"
			message := "Invalid access token"
			if be, ok := businessflow.AsBusinessError(err); ok {
				code = be.Code
				message = be.Message
			}
			return unauthorized(c, message, code)
		}

		c.Locals(adminIdentityKey, identity)
		return c.Next()
	}
}

// RequireSuperAdmin rejects callers without the super-admin role. It must run
// after AdminAuthenticate.
func RequireSuperAdmin() fiber.Handler {
	return func(c fiber.Ctx) error {
		identity, ok := GetAdminIdentityFromContext(c)
		if !ok {
			return unauthorized(c, "Admin authentication required", "ADMIN_AUTHENTICATION_REQUIRED")
		}
		if !identity.IsSuperAdmin() {
			return c.Status(fiber.StatusForbidden).JSON(dto.APIResponse{
				Success: false,
				Message: "Super-admin role required",
				Error:   dto.ErrorDetail{Code: "FORBIDDEN"},
			})
		}
		return c.Next()
	}
}

// GetAdminIdentityFromContext extracts the authenticated admin from the request context
func GetAdminIdentityFromContext(c fiber.Ctx) (*businessflow.AdminIdentity, bool) {
	identity, ok := c.Locals(adminIdentityKey).(*businessflow.AdminIdentity)
	return identity, ok && identity != nil
}

func unauthorized(c fiber.Ctx, message, code string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error:   dto.ErrorDetail{Code: code},
	})
}
