package handlers

import (
	"time"

	"github.com/amirphl/studio-hiring-api/app/dto"
	"github.com/amirphl/studio-hiring-api/app/middleware"
	businessflow "github.com/amirphl/studio-hiring-api/business_flow"
	"github.com/amirphl/studio-hiring-api/utils"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/requestid"
)

// CookieConfig controls the admin session cookie
type CookieConfig struct {
	Secure bool
	Domain string
}

// AdminAuthHandlerInterface defines the contract for admin auth handlers
type AdminAuthHandlerInterface interface {
	Login(c fiber.Ctx) error
	Logout(c fiber.Ctx) error
	Verify(c fiber.Ctx) error
}

// AdminAuthHandler issues and clears admin sessions
type AdminAuthHandler struct {
	responder
	flow   businessflow.AdminAuthFlow
	cookie CookieConfig
}

func NewAdminAuthHandler(flow businessflow.AdminAuthFlow, cookie CookieConfig) AdminAuthHandlerInterface {
	return &AdminAuthHandler{flow: flow, cookie: cookie}
}

// Login authenticates an administrator and sets the session cookie
// @Router /api/v1/auth/login [post]
func (h *AdminAuthHandler) Login(c fiber.Ctx) error {
	var req dto.AdminLoginRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	ctx, cancel := createRequestContext(c, "/api/v1/auth/login")
	defer cancel()

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	metadata.SetRequestID(requestid.FromContext(c))

	result, err := h.flow.Login(ctx, &req, metadata)
	if err != nil {
		return h.handleFlowError(c, err, "Login failed")
	}

	expiresAt, _ := time.Parse(time.RFC3339, result.Session.ExpiresAt)
	c.Cookie(&fiber.Cookie{
		Name:     utils.AdminTokenCookie,
		Value:    result.Session.Token,
		Path:     "/",
		Domain:   h.cookie.Domain,
		Expires:  expiresAt,
		MaxAge:   result.Session.ExpiresIn,
		Secure:   h.cookie.Secure,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteStrictMode,
	})

	return h.SuccessResponse(c, fiber.StatusOK, "Login successful", result)
}

// Logout clears the session cookie. Tokens are stateless and expire on their own.
// @Router /api/v1/auth/logout [post]
func (h *AdminAuthHandler) Logout(c fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     utils.AdminTokenCookie,
		Value:    "",
		Path:     "/",
		Domain:   h.cookie.Domain,
		Expires:  time.Unix(0, 0).UTC(),
		MaxAge:   -1,
		Secure:   h.cookie.Secure,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteStrictMode,
	})
	return h.SuccessResponse(c, fiber.StatusOK, "Logged out", nil)
}

// Verify reports the admin behind the presented token
// @Router /api/v1/auth/verify [get]
func (h *AdminAuthHandler) Verify(c fiber.Ctx) error {
	ctx, cancel := createRequestContext(c, "/api/v1/auth/verify")
	defer cancel()

	identity, err := h.flow.VerifyToken(ctx, middleware.ExtractToken(c))
	if err != nil {
		return h.handleFlowError(c, err, "Token verification failed")
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Token is valid", fiber.Map{
		"uuid":     identity.UUID,
		"username": identity.Username,
		"role":     identity.Role,
	})
}
