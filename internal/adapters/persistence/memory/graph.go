package memory

import (
	"context"
	"sort"
	"time"

	"clubhub/internal/core/domain"
)

type graphRepository struct {
	b backend
}

func (r *graphRepository) CreateRole(_ context.Context, role *domain.Role) error {
	return r.b.write(func(st *state) error {
		for _, existing := range st.roles {
			if existing.Code == role.Code {
				return domain.ErrConflict
			}
		}
		role.ID = st.next("roles")
		st.roles[role.ID] = *role
		return nil
	})
}

func (r *graphRepository) GetRoleByID(_ context.Context, id uint) (*domain.Role, error) {
	var out *domain.Role
	err := r.b.read(func(st *state) error {
		role, ok := st.roles[id]
		if !ok || role.DeletedAt != nil {
			return domain.ErrNotFound
		}
		out = &role
		return nil
	})
	return out, err
}

func (r *graphRepository) GetRoleByCode(_ context.Context, code string) (*domain.Role, error) {
	var out *domain.Role
	err := r.b.read(func(st *state) error {
		for _, role := range st.roles {
			if role.Code == code && role.DeletedAt == nil {
				out = &role
				return nil
			}
		}
		return domain.ErrNotFound
	})
	return out, err
}

func (r *graphRepository) ListRoles(_ context.Context) ([]*domain.Role, error) {
	var out []*domain.Role
	err := r.b.read(func(st *state) error {
		for _, id := range sortedIDs(st.roles) {
			role := st.roles[id]
			if role.DeletedAt == nil {
				out = append(out, &role)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, err
}

func (r *graphRepository) SetRoleActive(_ context.Context, id uint, active bool) error {
	return r.b.write(func(st *state) error {
		role, ok := st.roles[id]
		if !ok || role.DeletedAt != nil {
			return domain.ErrNotFound
		}
		role.IsActive = active
		st.roles[id] = role
		return nil
	})
}

func (r *graphRepository) CreatePermission(_ context.Context, permission *domain.Permission) error {
	return r.b.write(func(st *state) error {
		for _, existing := range st.permissions {
			if existing.Code == permission.Code {
				return domain.ErrConflict
			}
		}
		permission.ID = st.next("permissions")
		st.permissions[permission.ID] = *permission
		return nil
	})
}

func (r *graphRepository) GetPermissionByCode(_ context.Context, code string) (*domain.Permission, error) {
	var out *domain.Permission
	err := r.b.read(func(st *state) error {
		for _, p := range st.permissions {
			if p.Code == code && p.DeletedAt == nil {
				out = &p
				return nil
			}
		}
		return domain.ErrNotFound
	})
	return out, err
}

func (r *graphRepository) ListPermissions(_ context.Context) ([]*domain.Permission, error) {
	var out []*domain.Permission
	err := r.b.read(func(st *state) error {
		for _, id := range sortedIDs(st.permissions) {
			p := st.permissions[id]
			if p.DeletedAt == nil {
				out = append(out, &p)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, err
}

func (r *graphRepository) SetPermissionActive(_ context.Context, id uint, active bool) error {
	return r.b.write(func(st *state) error {
		p, ok := st.permissions[id]
		if !ok || p.DeletedAt != nil {
			return domain.ErrNotFound
		}
		p.IsActive = active
		st.permissions[id] = p
		return nil
	})
}

func (r *graphRepository) FindUserRole(_ context.Context, userID, roleID uint) (*domain.UserRole, error) {
	return r.findEdge(func(st *state) map[uint]domain.Edge { return st.userRoles }, userID, roleID)
}

func (r *graphRepository) CreateUserRole(_ context.Context, edge *domain.UserRole) error {
	return r.createEdge(func(st *state) map[uint]domain.Edge { return st.userRoles }, "user_roles", edge)
}

func (r *graphRepository) SetUserRoleActive(_ context.Context, id uint, active bool) error {
	return r.updateEdge(func(st *state) map[uint]domain.Edge { return st.userRoles }, id, func(e *domain.Edge) {
		e.IsActive = active
	})
}

func (r *graphRepository) SoftDeleteUserRole(_ context.Context, id uint, at time.Time) error {
	return r.updateEdge(func(st *state) map[uint]domain.Edge { return st.userRoles }, id, func(e *domain.Edge) {
		e.DeletedAt = &at
	})
}

func (r *graphRepository) FindRolePermission(_ context.Context, roleID, permissionID uint) (*domain.RolePermission, error) {
	return r.findEdge(func(st *state) map[uint]domain.Edge { return st.rolePerms }, roleID, permissionID)
}

func (r *graphRepository) CreateRolePermission(_ context.Context, edge *domain.RolePermission) error {
	return r.createEdge(func(st *state) map[uint]domain.Edge { return st.rolePerms }, "role_permissions", edge)
}

func (r *graphRepository) SetRolePermissionActive(_ context.Context, id uint, active bool) error {
	return r.updateEdge(func(st *state) map[uint]domain.Edge { return st.rolePerms }, id, func(e *domain.Edge) {
		e.IsActive = active
	})
}

func (r *graphRepository) SoftDeleteRolePermission(_ context.Context, id uint, at time.Time) error {
	return r.updateEdge(func(st *state) map[uint]domain.Edge { return st.rolePerms }, id, func(e *domain.Edge) {
		e.DeletedAt = &at
	})
}

// enabledRoles returns the enabled roles reachable from userID through enabled edges
func enabledRoles(st *state, userID uint) []domain.Role {
	var roles []domain.Role
	for _, id := range sortedIDs(st.userRoles) {
		edge := st.userRoles[id]
		if edge.FromID != userID || !edge.Enabled() {
			continue
		}
		role, ok := st.roles[edge.ToID]
		if !ok || !role.IsActive || role.DeletedAt != nil {
			continue
		}
		roles = append(roles, role)
	}
	return roles
}

func (r *graphRepository) UserRoleCodes(_ context.Context, userID uint) ([]string, error) {
	seen := map[string]struct{}{}
	err := r.b.read(func(st *state) error {
		for _, role := range enabledRoles(st, userID) {
			seen[role.Code] = struct{}{}
		}
		return nil
	})
	return sortedKeys(seen), err
}

func (r *graphRepository) UserPermissionCodes(_ context.Context, userID uint) ([]string, error) {
	seen := map[string]struct{}{}
	err := r.b.read(func(st *state) error {
		for _, role := range enabledRoles(st, userID) {
			for _, id := range sortedIDs(st.rolePerms) {
				edge := st.rolePerms[id]
				if edge.FromID != role.ID || !edge.Enabled() {
					continue
				}
				p, ok := st.permissions[edge.ToID]
				if !ok || !p.IsActive || p.DeletedAt != nil {
					continue
				}
				seen[p.Code] = struct{}{}
			}
		}
		return nil
	})
	return sortedKeys(seen), err
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

type edgeTable func(st *state) map[uint]domain.Edge

func (r *graphRepository) findEdge(table edgeTable, from, to uint) (*domain.Edge, error) {
	var out *domain.Edge
	err := r.b.read(func(st *state) error {
		for _, e := range table(st) {
			if e.FromID == from && e.ToID == to && e.DeletedAt == nil {
				out = &e
				return nil
			}
		}
		return domain.ErrNotFound
	})
	return out, err
}

func (r *graphRepository) createEdge(table edgeTable, name string, edge *domain.Edge) error {
	return r.b.write(func(st *state) error {
		rows := table(st)
		for _, e := range rows {
			if e.FromID == edge.FromID && e.ToID == edge.ToID && e.DeletedAt == nil {
				return domain.ErrConflict
			}
		}
		edge.ID = st.next(name)
		rows[edge.ID] = *edge
		return nil
	})
}

func (r *graphRepository) updateEdge(table edgeTable, id uint, fn func(e *domain.Edge)) error {
	return r.b.write(func(st *state) error {
		rows := table(st)
		e, ok := rows[id]
		if !ok || e.DeletedAt != nil {
			return domain.ErrNotFound
		}
		fn(&e)
		rows[id] = e
		return nil
	})
}
