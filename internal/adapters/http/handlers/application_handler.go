package handlers

import (
	"github.com/gofiber/fiber/v2"

	"clubhub/internal/adapters/http/middleware"
	"clubhub/internal/core/domain"
	"clubhub/internal/core/services"
	"clubhub/internal/pkg/response"
)

// ApplicationHandler handles application review and interview scheduling
type ApplicationHandler struct {
	workflow *services.WorkflowService
}

// NewApplicationHandler creates a new application handler
func NewApplicationHandler(workflow *services.WorkflowService) *ApplicationHandler {
	return &ApplicationHandler{workflow: workflow}
}

// ReviewRequest is the president's decision on a pending application
type ReviewRequest struct {
	Approve *bool  `json:"approve"`
	Comment string `json:"comment"`
}

// ListMine lists the actor's own applications
// @Summary My applications
// @Tags Applications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /applications/mine [get]
func (h *ApplicationHandler) ListMine(c *fiber.Ctx) error {
	apps, err := h.workflow.ListMyApplications(c.UserContext(), middleware.CurrentAccount(c))
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Applications retrieved", mapSlice(apps, toApplicationResponse))
}

// GetApplication returns an application to its applicant or the club president
// @Summary Get application
// @Tags Applications
// @Produce json
// @Security BearerAuth
// @Param id path int true "Application ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /applications/{id} [get]
func (h *ApplicationHandler) GetApplication(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}
	app, err := h.workflow.GetApplication(c.UserContext(), middleware.CurrentAccount(c), id)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Application retrieved", toApplicationResponse(app))
}

// ReviewApplication approves or rejects a pending application
// @Summary Review application
// @Tags Applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Application ID"
// @Param body body ReviewRequest true "Decision"
// @Success 200 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /applications/{id}/review [post]
func (h *ApplicationHandler) ReviewApplication(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}
	var req ReviewRequest
	if err := parseBody(c, &req); err != nil {
		return response.FromError(c, err)
	}
	if req.Approve == nil {
		return response.FromError(c, domain.InvalidInputf("approve is required"))
	}

	app, err := h.workflow.ReviewApplication(c.UserContext(), middleware.CurrentAccount(c), id, *req.Approve, req.Comment)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Application reviewed", toApplicationResponse(app))
}

// WithdrawApplication withdraws the actor's pending application
// @Summary Withdraw application
// @Tags Applications
// @Produce json
// @Security BearerAuth
// @Param id path int true "Application ID"
// @Success 200 {object} response.Response
// @Router /applications/{id}/withdraw [post]
func (h *ApplicationHandler) WithdrawApplication(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}
	app, err := h.workflow.WithdrawApplication(c.UserContext(), middleware.CurrentAccount(c), id)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Application withdrawn", toApplicationResponse(app))
}

// ScheduleInterview schedules the interview of an approved application
// @Summary Schedule interview
// @Tags Interviews
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Application ID"
// @Param body body services.ScheduleInterviewInput true "Interview"
// @Success 201 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /applications/{id}/interviews [post]
func (h *ApplicationHandler) ScheduleInterview(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}
	var req services.ScheduleInterviewInput
	if err := parseBody(c, &req); err != nil {
		return response.FromError(c, err)
	}

	iv, err := h.workflow.ScheduleInterview(c.UserContext(), middleware.CurrentAccount(c), id, req)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Created(c, "Interview scheduled", toInterviewResponse(iv))
}
