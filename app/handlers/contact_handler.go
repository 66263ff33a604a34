package handlers

import (
	"github.com/amirphl/studio-hiring-api/app/dto"
	businessflow "github.com/amirphl/studio-hiring-api/business_flow"
	"github.com/gofiber/fiber/v3"
)

type ContactHandlerInterface interface {
	Submit(c fiber.Ctx) error
	List(c fiber.Ctx) error
	Stats(c fiber.Ctx) error
	Get(c fiber.Ctx) error
	Update(c fiber.Ctx) error
	Delete(c fiber.Ctx) error
}

type ContactHandler struct {
	responder
	flow businessflow.ContactFlow
}

func NewContactHandler(flow businessflow.ContactFlow) ContactHandlerInterface {
	return &ContactHandler{flow: flow}
}

// @Router /api/v1/contacts [post]
func (h *ContactHandler) Submit(c fiber.Ctx) error {
	var req dto.SubmitContactRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	ctx, cancel := createRequestContext(c, "/api/v1/contacts")
	defer cancel()

	resp, err := h.flow.Submit(ctx, &req)
	if err != nil {
		return h.handleFlowError(c, err, "Failed to submit contact request")
	}
	return h.SuccessResponse(c, fiber.StatusCreated, "Thank you, we will be in touch soon", resp)
}

// @Router /api/v1/admin/contacts [get]
func (h *ContactHandler) List(c fiber.Ctx) error {
	var req dto.ListContactsRequest
	if err := c.Bind().Query(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid query parameters", "INVALID_REQUEST", err.Error())
	}

	ctx, cancel := createRequestContext(c, "/api/v1/admin/contacts")
	defer cancel()

	resp, err := h.flow.List(ctx, &req)
	if err != nil {
		return h.handleFlowError(c, err, "Failed to list contacts")
	}
	return h.SuccessResponse(c, fiber.StatusOK, "Contacts retrieved", resp)
}

// @Router /api/v1/admin/contacts/stats [get]
func (h *ContactHandler) Stats(c fiber.Ctx) error {
	ctx, cancel := createRequestContext(c, "/api/v1/admin/contacts/stats")
	defer cancel()

	resp, err := h.flow.Stats(ctx)
	if err != nil {
		return h.handleFlowError(c, err, "Failed to compute contact statistics")
	}
	return h.SuccessResponse(c, fiber.StatusOK, "Contact statistics retrieved", resp)
}

// @Router /api/v1/admin/contacts/{id} [get]
func (h *ContactHandler) Get(c fiber.Ctx) error {
	ctx, cancel := createRequestContext(c, "/api/v1/admin/contacts/:id")
	defer cancel()

	lead, err := h.flow.Get(ctx, c.Params("id"))
	if err != nil {
		return h.handleFlowError(c, err, "Failed to get contact")
	}
	return h.SuccessResponse(c, fiber.StatusOK, "Contact retrieved", lead)
}

// @Router /api/v1/admin/contacts/{id} [patch]
func (h *ContactHandler) Update(c fiber.Ctx) error {
	var req dto.UpdateContactRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	ctx, cancel := createRequestContext(c, "/api/v1/admin/contacts/:id")
	defer cancel()

	lead, err := h.flow.Update(ctx, c.Params("id"), &req)
	if err != nil {
		return h.handleFlowError(c, err, "Failed to update contact")
	}
	return h.SuccessResponse(c, fiber.StatusOK, "Contact updated", lead)
}

// @Router /api/v1/admin/contacts/{id} [delete]
func (h *ContactHandler) Delete(c fiber.Ctx) error {
	ctx, cancel := createRequestContext(c, "/api/v1/admin/contacts/:id")
	defer cancel()

	if err := h.flow.Delete(ctx, c.Params("id")); err != nil {
		return h.handleFlowError(c, err, "Failed to delete contact")
	}
	return h.SuccessResponse(c, fiber.StatusOK, "Contact deleted", nil)
}
