package services

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"strings"
	"sync/atomic"

	"clubhub/internal/adapters/persistence/repositories"
	"clubhub/internal/core/domain"
	"clubhub/internal/pkg/logger"
)

const (
	permissionModule   = "permission"
	invalidateAttempts = 3
)

// PermissionService resolves and administers the role/permission graph
type PermissionService struct {
	uow     repositories.UnitOfWork
	cache   PermissionCache
	clock   Clock
	metrics Metrics
	logger  *slog.Logger

	// cacheStale is set when a committed graph change could not invalidate the cache
	cacheStale atomic.Bool
}

// NewPermissionService creates a new permission service. cache may be nil.
func NewPermissionService(uow repositories.UnitOfWork, cache PermissionCache, clock Clock, metrics Metrics, log *slog.Logger) *PermissionService {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &PermissionService{
		uow:     uow,
		cache:   cache,
		clock:   clock,
		metrics: metrics,
		logger:  logger.Resolve(log),
	}
}

// UserPermissionCodes returns the sorted permission codes an account holds.
// A permission counts only if the user-role edge, the role, the role-permission
// edge and the permission are all enabled and not deleted.
func (s *PermissionService) UserPermissionCodes(ctx context.Context, accountID uint) ([]string, error) {
	var generation int64
	fill := false
	if s.cache != nil && !s.cacheTrusted(ctx) {
		s.metrics.PermissionCacheLookup("bypass")
	} else if s.cache != nil {
		codes, gen, hit, err := s.cache.Get(ctx, accountID)
		switch {
		case err != nil:
			s.metrics.PermissionCacheLookup("error")
			s.logger.Warn("permission cache read failed",
				"event", "permission_cache_read_failed",
				"module", permissionModule,
				"account_id", accountID,
				"error", err.Error(),
			)
		case hit:
			s.metrics.PermissionCacheLookup("hit")
			return codes, nil
		default:
			s.metrics.PermissionCacheLookup("miss")
			generation, fill = gen, true
		}
	}

	codes, err := s.uow.Graph().UserPermissionCodes(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if codes == nil {
		codes = []string{}
	}

	if fill {
		if err := s.cache.Set(ctx, accountID, generation, codes); err != nil {
			s.logger.Warn("permission cache write failed",
				"event", "permission_cache_write_failed",
				"module", permissionModule,
				"account_id", accountID,
				"error", err.Error(),
			)
		}
	}
	return codes, nil
}

// UserRoleCodes returns the sorted role codes an account holds through enabled edges
func (s *PermissionService) UserRoleCodes(ctx context.Context, accountID uint) ([]string, error) {
	codes, err := s.uow.Graph().UserRoleCodes(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if codes == nil {
		codes = []string{}
	}
	return codes, nil
}

// HasPermission reports whether the account holds the permission code
func (s *PermissionService) HasPermission(ctx context.Context, accountID uint, code string) (bool, error) {
	codes, err := s.UserPermissionCodes(ctx, accountID)
	if err != nil {
		return false, err
	}
	return slices.Contains(codes, code), nil
}

// HasRole reports whether the account holds the role code
func (s *PermissionService) HasRole(ctx context.Context, accountID uint, code string) (bool, error) {
	codes, err := s.UserRoleCodes(ctx, accountID)
	if err != nil {
		return false, err
	}
	return slices.Contains(codes, code), nil
}

// ============================================================
// Graph administration
// ============================================================

// CreateRoleInput represents role creation input
type CreateRoleInput struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// CreatePermissionInput represents permission creation input
type CreatePermissionInput struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Resource    string `json:"resource"`
	Action      string `json:"action"`
}

// CreateRole creates an enabled role
func (s *PermissionService) CreateRole(ctx context.Context, input CreateRoleInput) (*domain.Role, error) {
	code := strings.TrimSpace(input.Code)
	if code == "" {
		return nil, domain.InvalidInputf("role code is required")
	}
	role := &domain.Role{
		Code:        code,
		Name:        firstNonEmpty(input.Name, code),
		Description: input.Description,
		IsActive:    true,
	}
	err := s.mutate(ctx, func(ctx context.Context, tx repositories.Store) error {
		if err := tx.Graph().CreateRole(ctx, role); err != nil {
			if errors.Is(err, domain.ErrConflict) {
				return &domain.Error{Kind: domain.KindConflict, Message: "role code already exists"}
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return role, nil
}

// CreatePermission creates an enabled permission
func (s *PermissionService) CreatePermission(ctx context.Context, input CreatePermissionInput) (*domain.Permission, error) {
	code := strings.TrimSpace(input.Code)
	if code == "" {
		return nil, domain.InvalidInputf("permission code is required")
	}
	permission := &domain.Permission{
		Code:        code,
		Name:        firstNonEmpty(input.Name, code),
		Description: input.Description,
		Resource:    input.Resource,
		Action:      input.Action,
		IsActive:    true,
	}
	err := s.mutate(ctx, func(ctx context.Context, tx repositories.Store) error {
		if err := tx.Graph().CreatePermission(ctx, permission); err != nil {
			if errors.Is(err, domain.ErrConflict) {
				return &domain.Error{Kind: domain.KindConflict, Message: "permission code already exists"}
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return permission, nil
}

// GrantPermission links a role to a permission, re-enabling an existing disabled link
func (s *PermissionService) GrantPermission(ctx context.Context, roleCode, permissionCode string) error {
	return s.mutate(ctx, func(ctx context.Context, tx repositories.Store) error {
		role, err := tx.Graph().GetRoleByCode(ctx, roleCode)
		if err != nil {
			return notFoundAs(err, domain.ErrRoleNotFound)
		}
		permission, err := tx.Graph().GetPermissionByCode(ctx, permissionCode)
		if err != nil {
			return notFoundAs(err, domain.ErrPermissionNotFound)
		}

		edge, err := tx.Graph().FindRolePermission(ctx, role.ID, permission.ID)
		switch {
		case err == nil:
			if edge.IsActive {
				return nil
			}
			return tx.Graph().SetRolePermissionActive(ctx, edge.ID, true)
		case errors.Is(err, domain.ErrNotFound):
			return tx.Graph().CreateRolePermission(ctx, &domain.RolePermission{
				FromID:    role.ID,
				ToID:      permission.ID,
				IsActive:  true,
				CreatedAt: s.clock.Now(),
			})
		default:
			return err
		}
	})
}

// RevokePermission logically deletes the role-permission link
func (s *PermissionService) RevokePermission(ctx context.Context, roleCode, permissionCode string) error {
	return s.mutate(ctx, func(ctx context.Context, tx repositories.Store) error {
		role, err := tx.Graph().GetRoleByCode(ctx, roleCode)
		if err != nil {
			return notFoundAs(err, domain.ErrRoleNotFound)
		}
		permission, err := tx.Graph().GetPermissionByCode(ctx, permissionCode)
		if err != nil {
			return notFoundAs(err, domain.ErrPermissionNotFound)
		}
		edge, err := tx.Graph().FindRolePermission(ctx, role.ID, permission.ID)
		if err != nil {
			return err
		}
		return tx.Graph().SoftDeleteRolePermission(ctx, edge.ID, s.clock.Now())
	})
}

// AssignRole gives the account a role. Assigning a role the account already
// holds is a no-op; a disabled assignment is re-enabled.
func (s *PermissionService) AssignRole(ctx context.Context, accountID uint, roleCode string) error {
	err := s.mutate(ctx, func(ctx context.Context, tx repositories.Store) error {
		if _, err := tx.Accounts().GetByID(ctx, accountID); err != nil {
			return notFoundAs(err, domain.ErrAccountNotFound)
		}
		role, err := tx.Graph().GetRoleByCode(ctx, roleCode)
		if err != nil {
			return notFoundAs(err, domain.ErrRoleNotFound)
		}

		edge, err := tx.Graph().FindUserRole(ctx, accountID, role.ID)
		switch {
		case err == nil:
			if edge.IsActive {
				return nil
			}
			return tx.Graph().SetUserRoleActive(ctx, edge.ID, true)
		case errors.Is(err, domain.ErrNotFound):
			return tx.Graph().CreateUserRole(ctx, &domain.UserRole{
				FromID:    accountID,
				ToID:      role.ID,
				IsActive:  true,
				CreatedAt: s.clock.Now(),
			})
		default:
			return err
		}
	})
	if err == nil {
		s.logger.Info("role assigned",
			"event", "permission_role_assigned",
			"module", permissionModule,
			"account_id", accountID,
			"role", roleCode,
		)
	}
	return err
}

// RevokeRole logically deletes the account's role assignment
func (s *PermissionService) RevokeRole(ctx context.Context, accountID uint, roleCode string) error {
	err := s.mutate(ctx, func(ctx context.Context, tx repositories.Store) error {
		role, err := tx.Graph().GetRoleByCode(ctx, roleCode)
		if err != nil {
			return notFoundAs(err, domain.ErrRoleNotFound)
		}
		edge, err := tx.Graph().FindUserRole(ctx, accountID, role.ID)
		if err != nil {
			return notFoundAs(err, &domain.Error{Kind: domain.KindNotFound, Message: "role is not assigned to the account"})
		}
		return tx.Graph().SoftDeleteUserRole(ctx, edge.ID, s.clock.Now())
	})
	if err == nil {
		s.logger.Info("role revoked",
			"event", "permission_role_revoked",
			"module", permissionModule,
			"account_id", accountID,
			"role", roleCode,
		)
	}
	return err
}

// SetRoleStatus enables or disables a role
func (s *PermissionService) SetRoleStatus(ctx context.Context, roleCode string, active bool) error {
	return s.mutate(ctx, func(ctx context.Context, tx repositories.Store) error {
		role, err := tx.Graph().GetRoleByCode(ctx, roleCode)
		if err != nil {
			return notFoundAs(err, domain.ErrRoleNotFound)
		}
		return tx.Graph().SetRoleActive(ctx, role.ID, active)
	})
}

// SetPermissionStatus enables or disables a permission
func (s *PermissionService) SetPermissionStatus(ctx context.Context, permissionCode string, active bool) error {
	return s.mutate(ctx, func(ctx context.Context, tx repositories.Store) error {
		permission, err := tx.Graph().GetPermissionByCode(ctx, permissionCode)
		if err != nil {
			return notFoundAs(err, domain.ErrPermissionNotFound)
		}
		return tx.Graph().SetPermissionActive(ctx, permission.ID, active)
	})
}

// SetUserRoleStatus enables or disables an account's role assignment without deleting it
func (s *PermissionService) SetUserRoleStatus(ctx context.Context, accountID uint, roleCode string, active bool) error {
	return s.mutate(ctx, func(ctx context.Context, tx repositories.Store) error {
		role, err := tx.Graph().GetRoleByCode(ctx, roleCode)
		if err != nil {
			return notFoundAs(err, domain.ErrRoleNotFound)
		}
		edge, err := tx.Graph().FindUserRole(ctx, accountID, role.ID)
		if err != nil {
			return err
		}
		return tx.Graph().SetUserRoleActive(ctx, edge.ID, active)
	})
}

// SetRolePermissionStatus enables or disables a role-permission link without deleting it
func (s *PermissionService) SetRolePermissionStatus(ctx context.Context, roleCode, permissionCode string, active bool) error {
	return s.mutate(ctx, func(ctx context.Context, tx repositories.Store) error {
		role, err := tx.Graph().GetRoleByCode(ctx, roleCode)
		if err != nil {
			return notFoundAs(err, domain.ErrRoleNotFound)
		}
		permission, err := tx.Graph().GetPermissionByCode(ctx, permissionCode)
		if err != nil {
			return notFoundAs(err, domain.ErrPermissionNotFound)
		}
		edge, err := tx.Graph().FindRolePermission(ctx, role.ID, permission.ID)
		if err != nil {
			return err
		}
		return tx.Graph().SetRolePermissionActive(ctx, edge.ID, active)
	})
}

// ListRoles lists roles that are not deleted
func (s *PermissionService) ListRoles(ctx context.Context) ([]*domain.Role, error) {
	return s.uow.Graph().ListRoles(ctx)
}

// ListPermissions lists permissions that are not deleted
func (s *PermissionService) ListPermissions(ctx context.Context) ([]*domain.Permission, error) {
	return s.uow.Graph().ListPermissions(ctx)
}

// mutate runs a graph change in a transaction and drops cached permissions after commit.
// The change is committed even when invalidation fails; the cache is then bypassed
// until a later invalidation succeeds.
func (s *PermissionService) mutate(ctx context.Context, fn func(ctx context.Context, tx repositories.Store) error) error {
	if err := s.uow.WithinTx(ctx, fn); err != nil {
		return err
	}
	if s.cache == nil {
		return nil
	}

	var err error
	for i := 0; i < invalidateAttempts; i++ {
		if err = s.cache.Invalidate(ctx); err == nil {
			return nil
		}
	}
	s.cacheStale.Store(true)
	s.logger.Error("permission cache invalidation failed, bypassing cache",
		"event", "permission_cache_invalidate_failed",
		"module", permissionModule,
		"error", err.Error(),
	)
	return nil
}

// cacheTrusted reports whether cached entries may be served. A stale cache is
// trusted again only once an invalidation goes through.
func (s *PermissionService) cacheTrusted(ctx context.Context) bool {
	if !s.cacheStale.Load() {
		return true
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		return false
	}
	s.cacheStale.Store(false)
	s.logger.Info("permission cache trusted again",
		"event", "permission_cache_recovered",
		"module", permissionModule,
	)
	return true
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
