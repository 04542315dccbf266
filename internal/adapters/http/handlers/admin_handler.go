package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"clubhub/internal/core/services"
	"clubhub/internal/pkg/response"
)

// AdminHandler handles account administration and the permission graph
type AdminHandler struct {
	identity    *services.IdentityService
	permissions *services.PermissionService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(identity *services.IdentityService, permissions *services.PermissionService) *AdminHandler {
	return &AdminHandler{
		identity:    identity,
		permissions: permissions,
	}
}

// ProvisionRequest creates an account without a credential
type ProvisionRequest struct {
	Handle  string         `json:"handle"`
	Profile ProfileRequest `json:"profile"`
}

// RoleAssignmentRequest links an account to a role
type RoleAssignmentRequest struct {
	AccountID uint   `json:"account_id"`
	RoleCode  string `json:"role_code"`
}

// GrantRequest links a role to a permission
type GrantRequest struct {
	RoleCode       string `json:"role_code"`
	PermissionCode string `json:"permission_code"`
}

// StatusRequest toggles the active switch of a graph node
type StatusRequest struct {
	Active bool `json:"active"`
}

// ProvisionAccount creates an uninitialized account and returns its setup session
// @Summary Provision account
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body ProvisionRequest true "Handle and profile"
// @Success 201 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /admin/accounts [post]
func (h *AdminHandler) ProvisionAccount(c *fiber.Ctx) error {
	var req ProvisionRequest
	if err := parseBody(c, &req); err != nil {
		return response.FromError(c, err)
	}

	account, token, err := h.identity.Provision(c.UserContext(), req.Handle, req.Profile.toDomain())
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Created(c, "Account provisioned", SessionResponse{
		Session: token,
		Account: toAccountResponse(account),
	})
}

// GetAccount returns an account by ID
// @Summary Get account
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "Account ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/accounts/{id} [get]
func (h *AdminHandler) GetAccount(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}

	account, err := h.identity.GetAccount(c.UserContext(), id)
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Success(c, "Account retrieved", toAccountResponse(account))
}

// DisableAccount turns an account off; its sessions fail authentication from now on
// @Summary Disable account
// @Tags Admin
// @Security BearerAuth
// @Param id path int true "Account ID"
// @Success 200 {object} response.Response
// @Router /admin/accounts/{id}/disable [post]
func (h *AdminHandler) DisableAccount(c *fiber.Ctx) error {
	return h.accountAction(c, h.identity.Disable, "Account disabled")
}

// EnableAccount turns an account back on
// @Summary Enable account
// @Tags Admin
// @Security BearerAuth
// @Param id path int true "Account ID"
// @Success 200 {object} response.Response
// @Router /admin/accounts/{id}/enable [post]
func (h *AdminHandler) EnableAccount(c *fiber.Ctx) error {
	return h.accountAction(c, h.identity.Enable, "Account enabled")
}

// DeleteAccount logically deletes an account and frees its handle
// @Summary Delete account
// @Tags Admin
// @Security BearerAuth
// @Param id path int true "Account ID"
// @Success 200 {object} response.Response
// @Router /admin/accounts/{id} [delete]
func (h *AdminHandler) DeleteAccount(c *fiber.Ctx) error {
	return h.accountAction(c, h.identity.Delete, "Account deleted")
}

func (h *AdminHandler) accountAction(c *fiber.Ctx, action func(ctx context.Context, id uint) error, message string) error {
	id, err := idParam(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}
	if err := action(c.UserContext(), id); err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, message, nil)
}

// AssignRole links an account to a role
// @Summary Assign role
// @Tags Admin
// @Accept json
// @Security BearerAuth
// @Param body body RoleAssignmentRequest true "Account and role"
// @Success 200 {object} response.Response
// @Router /admin/roles/assign [post]
func (h *AdminHandler) AssignRole(c *fiber.Ctx) error {
	var req RoleAssignmentRequest
	if err := parseBody(c, &req); err != nil {
		return response.FromError(c, err)
	}
	if err := h.permissions.AssignRole(c.UserContext(), req.AccountID, req.RoleCode); err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Role assigned", nil)
}

// RevokeRole logically deletes an account's role link
// @Summary Revoke role
// @Tags Admin
// @Accept json
// @Security BearerAuth
// @Param body body RoleAssignmentRequest true "Account and role"
// @Success 200 {object} response.Response
// @Router /admin/roles/revoke [post]
func (h *AdminHandler) RevokeRole(c *fiber.Ctx) error {
	var req RoleAssignmentRequest
	if err := parseBody(c, &req); err != nil {
		return response.FromError(c, err)
	}
	if err := h.permissions.RevokeRole(c.UserContext(), req.AccountID, req.RoleCode); err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Role revoked", nil)
}

// ListRoles lists every role
// @Summary List roles
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /admin/roles [get]
func (h *AdminHandler) ListRoles(c *fiber.Ctx) error {
	roles, err := h.permissions.ListRoles(c.UserContext())
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Roles retrieved", mapSlice(roles, toRoleResponse))
}

// CreateRole creates a role
// @Summary Create role
// @Tags Admin
// @Accept json
// @Security BearerAuth
// @Param body body services.CreateRoleInput true "Role"
// @Success 201 {object} response.Response
// @Router /admin/roles [post]
func (h *AdminHandler) CreateRole(c *fiber.Ctx) error {
	var req services.CreateRoleInput
	if err := parseBody(c, &req); err != nil {
		return response.FromError(c, err)
	}
	role, err := h.permissions.CreateRole(c.UserContext(), req)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Created(c, "Role created", toRoleResponse(role))
}

// SetRoleStatus toggles a role
// @Summary Set role status
// @Tags Admin
// @Accept json
// @Security BearerAuth
// @Param code path string true "Role code"
// @Param body body StatusRequest true "Status"
// @Success 200 {object} response.Response
// @Router /admin/roles/{code}/status [patch]
func (h *AdminHandler) SetRoleStatus(c *fiber.Ctx) error {
	var req StatusRequest
	if err := parseBody(c, &req); err != nil {
		return response.FromError(c, err)
	}
	if err := h.permissions.SetRoleStatus(c.UserContext(), c.Params("code"), req.Active); err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Role status updated", nil)
}

// ListPermissions lists every permission
// @Summary List permissions
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /admin/permissions [get]
func (h *AdminHandler) ListPermissions(c *fiber.Ctx) error {
	perms, err := h.permissions.ListPermissions(c.UserContext())
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Permissions retrieved", mapSlice(perms, toPermissionResponse))
}

// CreatePermission creates a permission
// @Summary Create permission
// @Tags Admin
// @Accept json
// @Security BearerAuth
// @Param body body services.CreatePermissionInput true "Permission"
// @Success 201 {object} response.Response
// @Router /admin/permissions [post]
func (h *AdminHandler) CreatePermission(c *fiber.Ctx) error {
	var req services.CreatePermissionInput
	if err := parseBody(c, &req); err != nil {
		return response.FromError(c, err)
	}
	perm, err := h.permissions.CreatePermission(c.UserContext(), req)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Created(c, "Permission created", toPermissionResponse(perm))
}

// GrantPermission links a role to a permission
// @Summary Grant permission
// @Tags Admin
// @Accept json
// @Security BearerAuth
// @Param body body GrantRequest true "Role and permission"
// @Success 200 {object} response.Response
// @Router /admin/permissions/grant [post]
func (h *AdminHandler) GrantPermission(c *fiber.Ctx) error {
	var req GrantRequest
	if err := parseBody(c, &req); err != nil {
		return response.FromError(c, err)
	}
	if err := h.permissions.GrantPermission(c.UserContext(), req.RoleCode, req.PermissionCode); err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Permission granted", nil)
}

// RevokePermission logically deletes a role's permission link
// @Summary Revoke permission
// @Tags Admin
// @Accept json
// @Security BearerAuth
// @Param body body GrantRequest true "Role and permission"
// @Success 200 {object} response.Response
// @Router /admin/permissions/revoke [post]
func (h *AdminHandler) RevokePermission(c *fiber.Ctx) error {
	var req GrantRequest
	if err := parseBody(c, &req); err != nil {
		return response.FromError(c, err)
	}
	if err := h.permissions.RevokePermission(c.UserContext(), req.RoleCode, req.PermissionCode); err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Permission revoked", nil)
}
