// Package handlers contains HTTP request handlers and presentation layer logic for the API endpoints
package handlers

import (
	"context"
	"time"

	"github.com/amirphl/studio-hiring-api/app/dto"
	businessflow "github.com/amirphl/studio-hiring-api/business_flow"
	"github.com/amirphl/studio-hiring-api/utils"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/requestid"
	log "github.com/sirupsen/logrus"
)

const defaultRequestTimeout = 30 * time.Second

// responder carries the JSON envelope helpers shared by every handler
type responder struct{}

func (responder) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (responder) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// handleFlowError maps business errors to HTTP status codes. Anything not
// recognised is logged and returned as a generic 500.
func (r responder) handleFlowError(c fiber.Ctx, err error, fallbackMessage string) error {
	code, message := "INTERNAL_ERROR", fallbackMessage
	if be, ok := businessflow.AsBusinessError(err); ok {
		code, message = be.Code, be.Message
	}

	switch {
	case businessflow.IsValidationFailed(err):
		return r.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", businessflow.ValidationFields(err))
	case businessflow.IsInvalidIdentifier(err),
		businessflow.IsDuplicateSubmission(err),
		businessflow.IsDuplicateIdentity(err),
		businessflow.IsJobNotAccepting(err),
		businessflow.IsIncorrectPassword(err):
		return r.ErrorResponse(c, fiber.StatusBadRequest, message, code, nil)
	case businessflow.IsInvalidCredentials(err), businessflow.IsUnauthorized(err):
		return r.ErrorResponse(c, fiber.StatusUnauthorized, message, code, nil)
	case businessflow.IsForbidden(err), businessflow.IsAccountDeactivated(err):
		return r.ErrorResponse(c, fiber.StatusForbidden, message, code, nil)
	case businessflow.IsNotFound(err):
		return r.ErrorResponse(c, fiber.StatusNotFound, message, code, nil)
	case businessflow.IsAccountLocked(err):
		return r.ErrorResponse(c, fiber.StatusLocked, message, code, nil)
	}

	log.WithFields(log.Fields{
		"error_type": code,
		"path":       c.Path(),
		"method":     c.Method(),
		"request_id": requestid.FromContext(c),
	}).WithError(err).Error(fallbackMessage)
	return r.ErrorResponse(c, fiber.StatusInternalServerError, fallbackMessage, "INTERNAL_ERROR", nil)
}

func (r responder) unauthenticated(c fiber.Ctx) error {
	return r.ErrorResponse(c, fiber.StatusUnauthorized, "Admin authentication required", "ADMIN_AUTHENTICATION_REQUIRED", nil)
}

// createRequestContext detaches the flow from the fasthttp request context and
// attaches request-scoped values for logging. Callers must invoke cancel.
func createRequestContext(c fiber.Ctx, endpoint string) (context.Context, context.CancelFunc) {
	return createRequestContextWithTimeout(c, endpoint, defaultRequestTimeout)
}

func createRequestContextWithTimeout(c fiber.Ctx, endpoint string, timeout time.Duration) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	ctx = context.WithValue(ctx, utils.RequestIDKey, requestid.FromContext(c))
	ctx = context.WithValue(ctx, utils.UserAgentKey, c.Get("User-Agent"))
	ctx = context.WithValue(ctx, utils.IPAddressKey, c.IP())
	ctx = context.WithValue(ctx, utils.EndpointKey, endpoint)
	ctx = context.WithValue(ctx, utils.TimeoutKey, timeout)
	return ctx, cancel
}
