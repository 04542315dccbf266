package handlers

import (
	"github.com/gofiber/fiber/v2"

	"clubhub/internal/adapters/http/middleware"
	"clubhub/internal/core/services"
	"clubhub/internal/pkg/pagination"
	"clubhub/internal/pkg/response"
)

// ClubHandler handles club and membership endpoints
type ClubHandler struct {
	clubs *services.ClubService
}

// NewClubHandler creates a new club handler
func NewClubHandler(clubs *services.ClubService) *ClubHandler {
	return &ClubHandler{clubs: clubs}
}

// AddMemberRequest adds an account to a club
type AddMemberRequest struct {
	UserID uint   `json:"user_id"`
	Role   string `json:"role"`
}

// CreateClub creates a club presided by the actor
// @Summary Create club
// @Tags Clubs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.CreateClubInput true "Club"
// @Success 201 {object} response.Response
// @Router /clubs [post]
func (h *ClubHandler) CreateClub(c *fiber.Ctx) error {
	var req services.CreateClubInput
	if err := parseBody(c, &req); err != nil {
		return response.FromError(c, err)
	}

	club, err := h.clubs.CreateClub(c.UserContext(), middleware.CurrentAccount(c), req)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Created(c, "Club created", toClubResponse(club))
}

// ListClubs lists active clubs
// @Summary List clubs
// @Tags Clubs
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Success 200 {object} response.Response
// @Router /clubs [get]
func (h *ClubHandler) ListClubs(c *fiber.Ctx) error {
	params := pagination.GetParams(c)
	clubs, total, err := h.clubs.ListClubs(c.UserContext(), params.Offset, params.Limit)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Clubs retrieved", pagination.NewResponse(mapSlice(clubs, toClubResponse), params, total))
}

// GetClub returns a club
// @Summary Get club
// @Tags Clubs
// @Produce json
// @Security BearerAuth
// @Param id path int true "Club ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /clubs/{id} [get]
func (h *ClubHandler) GetClub(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}
	club, err := h.clubs.GetClub(c.UserContext(), id)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Club retrieved", toClubResponse(club))
}

// UpdateClub edits club details; president only
// @Summary Update club
// @Tags Clubs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Club ID"
// @Param body body services.UpdateClubInput true "Fields to change"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /clubs/{id} [patch]
func (h *ClubHandler) UpdateClub(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}
	var req services.UpdateClubInput
	if err := parseBody(c, &req); err != nil {
		return response.FromError(c, err)
	}

	club, err := h.clubs.UpdateClub(c.UserContext(), middleware.CurrentAccount(c), id, req)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Club updated", toClubResponse(club))
}

// ListMembers lists a club's active members
// @Summary List club members
// @Tags Clubs
// @Produce json
// @Security BearerAuth
// @Param id path int true "Club ID"
// @Success 200 {object} response.Response
// @Router /clubs/{id}/members [get]
func (h *ClubHandler) ListMembers(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}
	members, err := h.clubs.ListMembers(c.UserContext(), id)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Members retrieved", mapSlice(members, toMemberResponse))
}

// AddMember adds an account to the club; president only
// @Summary Add club member
// @Tags Clubs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Club ID"
// @Param body body AddMemberRequest true "Member"
// @Success 201 {object} response.Response
// @Router /clubs/{id}/members [post]
func (h *ClubHandler) AddMember(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}
	var req AddMemberRequest
	if err := parseBody(c, &req); err != nil {
		return response.FromError(c, err)
	}

	member, err := h.clubs.AddMember(c.UserContext(), middleware.CurrentAccount(c), id, req.UserID, req.Role)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Created(c, "Member added", toMemberResponse(member))
}

// RemoveMember removes an account from the club; president only
// @Summary Remove club member
// @Tags Clubs
// @Security BearerAuth
// @Param id path int true "Club ID"
// @Param userId path int true "Account ID"
// @Success 200 {object} response.Response
// @Router /clubs/{id}/members/{userId} [delete]
func (h *ClubHandler) RemoveMember(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}
	userID, err := idParam(c, "userId")
	if err != nil {
		return response.FromError(c, err)
	}

	if err := h.clubs.RemoveMember(c.UserContext(), middleware.CurrentAccount(c), id, userID); err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Member removed", nil)
}
