package handlers

import (
	"github.com/amirphl/studio-hiring-api/app/dto"
	"github.com/amirphl/studio-hiring-api/app/middleware"
	businessflow "github.com/amirphl/studio-hiring-api/business_flow"
	"github.com/gofiber/fiber/v3"
)

type AdminAccountHandlerInterface interface {
	Profile(c fiber.Ctx) error
	UpdateProfile(c fiber.Ctx) error
	ListAccounts(c fiber.Ctx) error
	CreateAccount(c fiber.Ctx) error
	SetAccountStatus(c fiber.Ctx) error
	Dashboard(c fiber.Ctx) error
}

// AdminAccountHandler serves the admin's own profile, account management and the dashboard
type AdminAccountHandler struct {
	responder
	accountFlow   businessflow.AdminAccountFlow
	dashboardFlow businessflow.DashboardFlow
}

func NewAdminAccountHandler(accountFlow businessflow.AdminAccountFlow, dashboardFlow businessflow.DashboardFlow) AdminAccountHandlerInterface {
	return &AdminAccountHandler{accountFlow: accountFlow, dashboardFlow: dashboardFlow}
}

// @Router /api/v1/admin/profile [get]
func (h *AdminAccountHandler) Profile(c fiber.Ctx) error {
	identity, ok := middleware.GetAdminIdentityFromContext(c)
	if !ok {
		return h.unauthenticated(c)
	}

	ctx, cancel := createRequestContext(c, "/api/v1/admin/profile")
	defer cancel()

	profile, err := h.accountFlow.Profile(ctx, identity)
	if err != nil {
		return h.handleFlowError(c, err, "Failed to load profile")
	}
	return h.SuccessResponse(c, fiber.StatusOK, "Profile retrieved", profile)
}

// @Router /api/v1/admin/profile [put]
func (h *AdminAccountHandler) UpdateProfile(c fiber.Ctx) error {
	identity, ok := middleware.GetAdminIdentityFromContext(c)
	if !ok {
		return h.unauthenticated(c)
	}

	var req dto.UpdateAdminProfileRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	ctx, cancel := createRequestContext(c, "/api/v1/admin/profile")
	defer cancel()

	profile, err := h.accountFlow.UpdateProfile(ctx, identity, &req)
	if err != nil {
		return h.handleFlowError(c, err, "Failed to update profile")
	}
	return h.SuccessResponse(c, fiber.StatusOK, "Profile updated", profile)
}

// @Router /api/v1/admin/accounts [get]
func (h *AdminAccountHandler) ListAccounts(c fiber.Ctx) error {
	identity, ok := middleware.GetAdminIdentityFromContext(c)
	if !ok {
		return h.unauthenticated(c)
	}

	ctx, cancel := createRequestContext(c, "/api/v1/admin/accounts")
	defer cancel()

	resp, err := h.accountFlow.List(ctx, identity)
	if err != nil {
		return h.handleFlowError(c, err, "Failed to list admin accounts")
	}
	return h.SuccessResponse(c, fiber.StatusOK, "Admin accounts retrieved", resp)
}

// @Router /api/v1/admin/accounts [post]
func (h *AdminAccountHandler) CreateAccount(c fiber.Ctx) error {
	identity, ok := middleware.GetAdminIdentityFromContext(c)
	if !ok {
		return h.unauthenticated(c)
	}

	var req dto.CreateAdminRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	ctx, cancel := createRequestContext(c, "/api/v1/admin/accounts")
	defer cancel()

	admin, err := h.accountFlow.Create(ctx, identity, &req)
	if err != nil {
		return h.handleFlowError(c, err, "Failed to create admin account")
	}
	return h.SuccessResponse(c, fiber.StatusCreated, "Admin account created", admin)
}

// @Router /api/v1/admin/accounts/{id}/status [patch]
func (h *AdminAccountHandler) SetAccountStatus(c fiber.Ctx) error {
	identity, ok := middleware.GetAdminIdentityFromContext(c)
	if !ok {
		return h.unauthenticated(c)
	}

	var req dto.SetAdminStatusRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if req.IsActive == nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR",
			[]businessflow.FieldError{{Field: "is_active", Message: "is_active is required"}})
	}

	ctx, cancel := createRequestContext(c, "/api/v1/admin/accounts/:id/status")
	defer cancel()

	admin, err := h.accountFlow.SetActive(ctx, identity, c.Params("id"), *req.IsActive)
	if err != nil {
		return h.handleFlowError(c, err, "Failed to update admin account")
	}
	return h.SuccessResponse(c, fiber.StatusOK, "Admin account updated", admin)
}

// @Router /api/v1/admin/dashboard [get]
func (h *AdminAccountHandler) Dashboard(c fiber.Ctx) error {
	ctx, cancel := createRequestContext(c, "/api/v1/admin/dashboard")
	defer cancel()

	resp, err := h.dashboardFlow.Overview(ctx)
	if err != nil {
		return h.handleFlowError(c, err, "Failed to load dashboard")
	}
	return h.SuccessResponse(c, fiber.StatusOK, "Dashboard retrieved", resp)
}
