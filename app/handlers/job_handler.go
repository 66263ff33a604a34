package handlers

import (
	"fmt"

	"github.com/amirphl/studio-hiring-api/app/dto"
	businessflow "github.com/amirphl/studio-hiring-api/business_flow"
	"github.com/gofiber/fiber/v3"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type JobHandlerInterface interface {
	ListPublic(c fiber.Ctx) error
	GetPublic(c fiber.Ctx) error
	List(c fiber.Ctx) error
	Get(c fiber.Ctx) error
	Create(c fiber.Ctx) error
	Update(c fiber.Ctx) error
	Delete(c fiber.Ctx) error
	ExportApplications(c fiber.Ctx) error
}

// JobHandler serves the public job board and the admin catalog
type JobHandler struct {
	responder
	jobFlow businessflow.JobFlow
	appFlow businessflow.ApplicationFlow
}

func NewJobHandler(jobFlow businessflow.JobFlow, appFlow businessflow.ApplicationFlow) JobHandlerInterface {
	return &JobHandler{jobFlow: jobFlow, appFlow: appFlow}
}

// ListPublic returns active postings
// @Router /api/v1/jobs [get]
func (h *JobHandler) ListPublic(c fiber.Ctx) error {
	return h.list(c, "/api/v1/jobs", true)
}

// @Router /api/v1/jobs/{id} [get]
func (h *JobHandler) GetPublic(c fiber.Ctx) error {
	return h.get(c, "/api/v1/jobs/:id", true)
}

// @Router /api/v1/admin/jobs [get]
func (h *JobHandler) List(c fiber.Ctx) error {
	return h.list(c, "/api/v1/admin/jobs", false)
}

// @Router /api/v1/admin/jobs/{id} [get]
func (h *JobHandler) Get(c fiber.Ctx) error {
	return h.get(c, "/api/v1/admin/jobs/:id", false)
}

// @Router /api/v1/admin/jobs [post]
func (h *JobHandler) Create(c fiber.Ctx) error {
	var req dto.CreateJobRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	ctx, cancel := createRequestContext(c, "/api/v1/admin/jobs")
	defer cancel()

	job, err := h.jobFlow.Create(ctx, &req)
	if err != nil {
		return h.handleFlowError(c, err, "Failed to create job posting")
	}
	return h.SuccessResponse(c, fiber.StatusCreated, "Job posting created", job)
}

// @Router /api/v1/admin/jobs/{id} [put]
func (h *JobHandler) Update(c fiber.Ctx) error {
	var req dto.UpdateJobRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	ctx, cancel := createRequestContext(c, "/api/v1/admin/jobs/:id")
	defer cancel()

	job, err := h.jobFlow.Update(ctx, c.Params("id"), &req)
	if err != nil {
		return h.handleFlowError(c, err, "Failed to update job posting")
	}
	return h.SuccessResponse(c, fiber.StatusOK, "Job posting updated", job)
}

// Delete removes a posting and every application filed against it
// @Router /api/v1/admin/jobs/{id} [delete]
func (h *JobHandler) Delete(c fiber.Ctx) error {
	ctx, cancel := createRequestContext(c, "/api/v1/admin/jobs/:id")
	defer cancel()

	resp, err := h.jobFlow.Delete(ctx, c.Params("id"))
	if err != nil {
		return h.handleFlowError(c, err, "Failed to delete job posting")
	}
	return h.SuccessResponse(c, fiber.StatusOK, "Job posting deleted", resp)
}

// ExportApplications streams the posting's applications as an XLSX attachment
// @Router /api/v1/admin/jobs/{id}/applications/export [get]
func (h *JobHandler) ExportApplications(c fiber.Ctx) error {
	ctx, cancel := createRequestContext(c, "/api/v1/admin/jobs/:id/applications/export")
	defer cancel()

	filename, content, err := h.appFlow.ExportJobApplications(ctx, c.Params("id"))
	if err != nil {
		return h.handleFlowError(c, err, "Failed to export applications")
	}

	c.Set(fiber.HeaderContentType, xlsxContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Status(fiber.StatusOK).Send(content)
}

func (h *JobHandler) list(c fiber.Ctx, endpoint string, publicOnly bool) error {
	var req dto.ListJobsRequest
	if err := c.Bind().Query(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid query parameters", "INVALID_REQUEST", err.Error())
	}

	ctx, cancel := createRequestContext(c, endpoint)
	defer cancel()

	resp, err := h.jobFlow.List(ctx, &req, publicOnly)
	if err != nil {
		return h.handleFlowError(c, err, "Failed to list job postings")
	}
	return h.SuccessResponse(c, fiber.StatusOK, "Job postings retrieved", resp)
}

func (h *JobHandler) get(c fiber.Ctx, endpoint string, publicOnly bool) error {
	ctx, cancel := createRequestContext(c, endpoint)
	defer cancel()

	job, err := h.jobFlow.Get(ctx, c.Params("id"), publicOnly)
	if err != nil {
		return h.handleFlowError(c, err, "Failed to get job posting")
	}
	return h.SuccessResponse(c, fiber.StatusOK, "Job posting retrieved", job)
}
