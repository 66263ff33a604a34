package handlers

import (
	"github.com/amirphl/studio-hiring-api/app/dto"
	"github.com/amirphl/studio-hiring-api/app/middleware"
	businessflow "github.com/amirphl/studio-hiring-api/business_flow"
	"github.com/gofiber/fiber/v3"
)

type ApplicationHandlerInterface interface {
	Submit(c fiber.Ctx) error
	List(c fiber.Ctx) error
	Stats(c fiber.Ctx) error
	Get(c fiber.Ctx) error
	Update(c fiber.Ctx) error
	Delete(c fiber.Ctx) error
}

type ApplicationHandler struct {
	responder
	flow businessflow.ApplicationFlow
}

func NewApplicationHandler(flow businessflow.ApplicationFlow) ApplicationHandlerInterface {
	return &ApplicationHandler{flow: flow}
}

// Submit files a public job application
// @Router /api/v1/applications [post]
func (h *ApplicationHandler) Submit(c fiber.Ctx) error {
	var req dto.SubmitApplicationRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	ctx, cancel := createRequestContext(c, "/api/v1/applications")
	defer cancel()

	resp, err := h.flow.Submit(ctx, &req)
	if err != nil {
		return h.handleFlowError(c, err, "Failed to submit application")
	}
	return h.SuccessResponse(c, fiber.StatusCreated, "Application submitted successfully", resp)
}

// @Router /api/v1/admin/applications [get]
func (h *ApplicationHandler) List(c fiber.Ctx) error {
	var req dto.ListApplicationsRequest
	if err := c.Bind().Query(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid query parameters", "INVALID_REQUEST", err.Error())
	}

	ctx, cancel := createRequestContext(c, "/api/v1/admin/applications")
	defer cancel()

	resp, err := h.flow.List(ctx, &req)
	if err != nil {
		return h.handleFlowError(c, err, "Failed to list applications")
	}
	return h.SuccessResponse(c, fiber.StatusOK, "Applications retrieved", resp)
}

// @Router /api/v1/admin/applications/stats [get]
func (h *ApplicationHandler) Stats(c fiber.Ctx) error {
	ctx, cancel := createRequestContext(c, "/api/v1/admin/applications/stats")
	defer cancel()

	resp, err := h.flow.Stats(ctx)
	if err != nil {
		return h.handleFlowError(c, err, "Failed to compute application statistics")
	}
	return h.SuccessResponse(c, fiber.StatusOK, "Application statistics retrieved", resp)
}

// @Router /api/v1/admin/applications/{id} [get]
func (h *ApplicationHandler) Get(c fiber.Ctx) error {
	ctx, cancel := createRequestContext(c, "/api/v1/admin/applications/:id")
	defer cancel()

	app, err := h.flow.Get(ctx, c.Params("id"))
	if err != nil {
		return h.handleFlowError(c, err, "Failed to get application")
	}
	return h.SuccessResponse(c, fiber.StatusOK, "Application retrieved", app)
}

// Update records a review decision. The reviewer is the authenticated admin.
// @Router /api/v1/admin/applications/{id} [patch]
func (h *ApplicationHandler) Update(c fiber.Ctx) error {
	identity, ok := middleware.GetAdminIdentityFromContext(c)
	if !ok {
		return h.unauthenticated(c)
	}

	var req dto.UpdateApplicationRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	ctx, cancel := createRequestContext(c, "/api/v1/admin/applications/:id")
	defer cancel()

	app, err := h.flow.Update(ctx, identity, c.Params("id"), &req)
	if err != nil {
		return h.handleFlowError(c, err, "Failed to update application")
	}
	return h.SuccessResponse(c, fiber.StatusOK, "Application updated", app)
}

// @Router /api/v1/admin/applications/{id} [delete]
func (h *ApplicationHandler) Delete(c fiber.Ctx) error {
	ctx, cancel := createRequestContext(c, "/api/v1/admin/applications/:id")
	defer cancel()

	if err := h.flow.Delete(ctx, c.Params("id")); err != nil {
		return h.handleFlowError(c, err, "Failed to delete application")
	}
	return h.SuccessResponse(c, fiber.StatusOK, "Application deleted", nil)
}
