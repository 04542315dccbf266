package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"clubhub/internal/adapters/http/middleware"
	"clubhub/internal/adapters/persistence/repositories"
	"clubhub/internal/core/domain"
	"clubhub/internal/core/services"
	"clubhub/internal/pkg/pagination"
	"clubhub/internal/pkg/response"
)

// RecruitmentHandler handles recruitment lifecycle and application intake
type RecruitmentHandler struct {
	workflow *services.WorkflowService
}

// NewRecruitmentHandler creates a new recruitment handler
func NewRecruitmentHandler(workflow *services.WorkflowService) *RecruitmentHandler {
	return &RecruitmentHandler{workflow: workflow}
}

// CreateRecruitment creates a draft recruitment for a club
// @Summary Create recruitment
// @Tags Recruitments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Club ID"
// @Param body body services.CreateRecruitmentInput true "Recruitment"
// @Success 201 {object} response.Response
// @Router /clubs/{id}/recruitments [post]
func (h *RecruitmentHandler) CreateRecruitment(c *fiber.Ctx) error {
	clubID, err := idParam(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}
	var req services.CreateRecruitmentInput
	if err := parseBody(c, &req); err != nil {
		return response.FromError(c, err)
	}

	rec, err := h.workflow.CreateRecruitment(c.UserContext(), middleware.CurrentAccount(c), clubID, req)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Created(c, "Recruitment created", toRecruitmentResponse(rec))
}

// ListRecruitments lists recruitments, newest first
// @Summary List recruitments
// @Tags Recruitments
// @Produce json
// @Security BearerAuth
// @Param club_id query int false "Club ID"
// @Param status query string false "draft, open, closed or cancelled"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Success 200 {object} response.Response
// @Router /recruitments [get]
func (h *RecruitmentHandler) ListRecruitments(c *fiber.Ctx) error {
	var filter repositories.RecruitmentFilter
	if raw := c.Query("club_id"); raw != "" {
		clubID, err := parseID(raw, "club_id")
		if err != nil {
			return response.FromError(c, err)
		}
		filter.ClubID = &clubID
	}
	if raw := c.Query("status"); raw != "" {
		status, err := parseRecruitmentStatus(raw)
		if err != nil {
			return response.FromError(c, err)
		}
		filter.Status = &status
	}

	params := pagination.GetParams(c)
	recs, total, err := h.workflow.ListRecruitments(c.UserContext(), filter, params.Offset, params.Limit)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Recruitments retrieved", pagination.NewResponse(mapSlice(recs, toRecruitmentResponse), params, total))
}

// GetRecruitment returns a recruitment
// @Summary Get recruitment
// @Tags Recruitments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Recruitment ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /recruitments/{id} [get]
func (h *RecruitmentHandler) GetRecruitment(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}
	rec, err := h.workflow.GetRecruitment(c.UserContext(), id)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Recruitment retrieved", toRecruitmentResponse(rec))
}

// PublishRecruitment opens a draft for applications
// @Summary Publish recruitment
// @Tags Recruitments
// @Security BearerAuth
// @Param id path int true "Recruitment ID"
// @Success 200 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /recruitments/{id}/publish [post]
func (h *RecruitmentHandler) PublishRecruitment(c *fiber.Ctx) error {
	return h.transition(c, h.workflow.PublishRecruitment, "Recruitment published")
}

// CloseRecruitment stops accepting applications
// @Summary Close recruitment
// @Tags Recruitments
// @Security BearerAuth
// @Param id path int true "Recruitment ID"
// @Success 200 {object} response.Response
// @Router /recruitments/{id}/close [post]
func (h *RecruitmentHandler) CloseRecruitment(c *fiber.Ctx) error {
	return h.transition(c, h.workflow.CloseRecruitment, "Recruitment closed")
}

// CancelRecruitment abandons a draft or open recruitment
// @Summary Cancel recruitment
// @Tags Recruitments
// @Security BearerAuth
// @Param id path int true "Recruitment ID"
// @Success 200 {object} response.Response
// @Router /recruitments/{id}/cancel [post]
func (h *RecruitmentHandler) CancelRecruitment(c *fiber.Ctx) error {
	return h.transition(c, h.workflow.CancelRecruitment, "Recruitment cancelled")
}

type recruitmentTransition func(ctx context.Context, actor *domain.Account, id uint) (*domain.Recruitment, error)

func (h *RecruitmentHandler) transition(c *fiber.Ctx, fn recruitmentTransition, message string) error {
	id, err := idParam(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}
	rec, err := fn(c.UserContext(), middleware.CurrentAccount(c), id)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, message, toRecruitmentResponse(rec))
}

// SubmitApplication applies the actor to an open recruitment
// @Summary Submit application
// @Tags Applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Recruitment ID"
// @Param body body services.SubmitApplicationInput true "Application"
// @Success 201 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /recruitments/{id}/applications [post]
func (h *RecruitmentHandler) SubmitApplication(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}
	var req services.SubmitApplicationInput
	if err := parseBody(c, &req); err != nil {
		return response.FromError(c, err)
	}

	app, err := h.workflow.SubmitApplication(c.UserContext(), middleware.CurrentAccount(c), id, req)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Created(c, "Application submitted", toApplicationResponse(app))
}

// ListApplications lists a recruitment's applications; president only
// @Summary List applications of a recruitment
// @Tags Applications
// @Produce json
// @Security BearerAuth
// @Param id path int true "Recruitment ID"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Success 200 {object} response.Response
// @Router /recruitments/{id}/applications [get]
func (h *RecruitmentHandler) ListApplications(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}

	params := pagination.GetParams(c)
	apps, total, err := h.workflow.ListApplications(c.UserContext(), middleware.CurrentAccount(c), id, params.Offset, params.Limit)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Applications retrieved", pagination.NewResponse(mapSlice(apps, toApplicationResponse), params, total))
}
