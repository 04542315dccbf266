package handlers

import (
	"github.com/gofiber/fiber/v2"

	"clubhub/internal/adapters/http/middleware"
	"clubhub/internal/core/services"
	"clubhub/internal/pkg/response"
)

// InterviewHandler handles interview outcome endpoints
type InterviewHandler struct {
	workflow *services.WorkflowService
}

// NewInterviewHandler creates a new interview handler
func NewInterviewHandler(workflow *services.WorkflowService) *InterviewHandler {
	return &InterviewHandler{workflow: workflow}
}

// CompleteRequest is the interviewer's verdict
type CompleteRequest struct {
	Result  string   `json:"result"`
	Score   *float64 `json:"score"`
	Comment string   `json:"comment"`
}

// GetInterview returns an interview to its interviewer, applicant or club president
// @Summary Get interview
// @Tags Interviews
// @Produce json
// @Security BearerAuth
// @Param id path int true "Interview ID"
// @Success 200 {object} response.Response
// @Router /interviews/{id} [get]
func (h *InterviewHandler) GetInterview(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}
	iv, err := h.workflow.GetInterview(c.UserContext(), middleware.CurrentAccount(c), id)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Interview retrieved", toInterviewResponse(iv))
}

// CompleteInterview records the result; interviewer only
// @Summary Complete interview
// @Tags Interviews
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Interview ID"
// @Param body body CompleteRequest true "Verdict"
// @Success 200 {object} response.Response
// @Router /interviews/{id}/complete [post]
func (h *InterviewHandler) CompleteInterview(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}
	var req CompleteRequest
	if err := parseBody(c, &req); err != nil {
		return response.FromError(c, err)
	}
	result, err := parseInterviewResult(req.Result)
	if err != nil {
		return response.FromError(c, err)
	}

	iv, err := h.workflow.CompleteInterview(c.UserContext(), middleware.CurrentAccount(c), id, services.CompleteInterviewInput{
		Result:  result,
		Score:   req.Score,
		Comment: req.Comment,
	})
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Interview completed", toInterviewResponse(iv))
}

// CancelInterview cancels a scheduled interview; president only
// @Summary Cancel interview
// @Tags Interviews
// @Produce json
// @Security BearerAuth
// @Param id path int true "Interview ID"
// @Success 200 {object} response.Response
// @Router /interviews/{id}/cancel [post]
func (h *InterviewHandler) CancelInterview(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}
	iv, err := h.workflow.CancelInterview(c.UserContext(), middleware.CurrentAccount(c), id)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Interview cancelled", toInterviewResponse(iv))
}
