package handlers

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"clubhub/internal/adapters/http/middleware"
	"clubhub/internal/core/services"
	"clubhub/internal/pkg/jwt"
	"clubhub/internal/pkg/logger"
	"clubhub/internal/pkg/response"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	identity    *services.IdentityService
	permissions *services.PermissionService
	defaultRole string
	logger      *slog.Logger
}

// NewAuthHandler creates a new auth handler. Self-registered accounts receive
// defaultRole when it is non-empty.
func NewAuthHandler(identity *services.IdentityService, permissions *services.PermissionService, defaultRole string, log *slog.Logger) *AuthHandler {
	return &AuthHandler{
		identity:    identity,
		permissions: permissions,
		defaultRole: defaultRole,
		logger:      logger.Resolve(log),
	}
}

// RegisterRequest represents registration request body
type RegisterRequest struct {
	Handle   string         `json:"handle"`
	Password string         `json:"password"`
	Profile  ProfileRequest `json:"profile"`
}

// LoginRequest represents login request body
type LoginRequest struct {
	Handle   string `json:"handle"`
	Password string `json:"password"`
}

// InitRequest represents first-time initialization of a provisioned account
type InitRequest struct {
	Password string         `json:"password"`
	Profile  ProfileRequest `json:"profile"`
}

// ChangePasswordRequest represents credential rotation
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

// SessionResponse is returned by register and login
type SessionResponse struct {
	Session jwt.SessionToken `json:"session"`
	Account *AccountResponse `json:"account"`
}

// Register handles self-registration
// @Summary Register new account
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body RegisterRequest true "Registration data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := parseBody(c, &req); err != nil {
		return response.FromError(c, err)
	}

	ctx := c.UserContext()
	if _, err := h.identity.Register(ctx, req.Handle, req.Password, req.Profile.toDomain()); err != nil {
		return response.FromError(c, err)
	}

	account, token, err := h.identity.Login(ctx, req.Handle, req.Password)
	if err != nil {
		return response.FromError(c, err)
	}

	if h.defaultRole != "" {
		if err := h.permissions.AssignRole(ctx, account.ID, h.defaultRole); err != nil {
			h.logger.Warn("default role not assigned",
				"event", "http_default_role_failed",
				"module", "http",
				"account_id", account.ID,
				"error", err,
			)
		}
	}

	return response.Created(c, "Account registered successfully", SessionResponse{
		Session: token,
		Account: toAccountResponse(account),
	})
}

// Login handles login
// @Summary Login
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body LoginRequest true "Login credentials"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := parseBody(c, &req); err != nil {
		return response.FromError(c, err)
	}

	account, token, err := h.identity.Login(c.UserContext(), req.Handle, req.Password)
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Success(c, "Login successful", SessionResponse{
		Session: token,
		Account: toAccountResponse(account),
	})
}

// Init sets the first credential and profile of a provisioned account
// @Summary Initialize provisioned account
// @Tags Auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body InitRequest true "Credential and profile"
// @Success 200 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /auth/init [post]
func (h *AuthHandler) Init(c *fiber.Ctx) error {
	var req InitRequest
	if err := parseBody(c, &req); err != nil {
		return response.FromError(c, err)
	}

	if err := h.identity.Initialize(c.UserContext(), middleware.CurrentAccount(c), req.Password, req.Profile.toDomain()); err != nil {
		return response.FromError(c, err)
	}

	return response.Success(c, "Account initialized, please log in", nil)
}

// ChangePassword rotates the credential; every outstanding session is revoked
// @Summary Change password
// @Tags Auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body ChangePasswordRequest true "Old and new password"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /auth/change-password [post]
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	var req ChangePasswordRequest
	if err := parseBody(c, &req); err != nil {
		return response.FromError(c, err)
	}

	if err := h.identity.RotateCredential(c.UserContext(), middleware.CurrentAccount(c), req.OldPassword, req.NewPassword); err != nil {
		return response.FromError(c, err)
	}

	return response.Success(c, "Password changed, please log in again", nil)
}

// Me returns the acting account with its effective roles and permissions
// @Summary Current account
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	actor := middleware.CurrentAccount(c)
	ctx := c.UserContext()

	roles, err := h.permissions.UserRoleCodes(ctx, actor.ID)
	if err != nil {
		return response.FromError(c, err)
	}
	perms, err := h.permissions.UserPermissionCodes(ctx, actor.ID)
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Success(c, "Account retrieved", fiber.Map{
		"account":     toAccountResponse(actor),
		"roles":       roles,
		"permissions": perms,
	})
}
