package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"

	"clubhub/internal/adapters/persistence/models"
	"clubhub/internal/core/domain"
)

// graphRepository implements GraphRepository interface
type graphRepository struct {
	db *gorm.DB
}

// NewGraphRepository creates a new permission graph repository
func NewGraphRepository(db *gorm.DB) GraphRepository {
	return &graphRepository{db: db}
}

// ============================================================
// Roles
// ============================================================

func (r *graphRepository) CreateRole(ctx context.Context, role *domain.Role) error {
	m := models.NewRole(role)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return translate(err)
	}
	role.ID = m.ID
	return nil
}

func (r *graphRepository) GetRoleByID(ctx context.Context, id uint) (*domain.Role, error) {
	var m models.Role
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, translate(err)
	}
	return m.ToDomain(), nil
}

func (r *graphRepository) GetRoleByCode(ctx context.Context, code string) (*domain.Role, error) {
	var m models.Role
	if err := r.db.WithContext(ctx).Where("code = ?", code).First(&m).Error; err != nil {
		return nil, translate(err)
	}
	return m.ToDomain(), nil
}

func (r *graphRepository) ListRoles(ctx context.Context) ([]*domain.Role, error) {
	var rows []*models.Role
	if err := r.db.WithContext(ctx).Order("code").Find(&rows).Error; err != nil {
		return nil, err
	}
	roles := make([]*domain.Role, 0, len(rows))
	for _, m := range rows {
		roles = append(roles, m.ToDomain())
	}
	return roles, nil
}

func (r *graphRepository) SetRoleActive(ctx context.Context, id uint, active bool) error {
	return r.setStatus(ctx, &models.Role{}, id, active)
}

// ============================================================
// Permissions
// ============================================================

func (r *graphRepository) CreatePermission(ctx context.Context, permission *domain.Permission) error {
	m := models.NewPermission(permission)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return translate(err)
	}
	permission.ID = m.ID
	return nil
}

func (r *graphRepository) GetPermissionByCode(ctx context.Context, code string) (*domain.Permission, error) {
	var m models.Permission
	if err := r.db.WithContext(ctx).Where("code = ?", code).First(&m).Error; err != nil {
		return nil, translate(err)
	}
	return m.ToDomain(), nil
}

func (r *graphRepository) ListPermissions(ctx context.Context) ([]*domain.Permission, error) {
	var rows []*models.Permission
	if err := r.db.WithContext(ctx).Order("code").Find(&rows).Error; err != nil {
		return nil, err
	}
	permissions := make([]*domain.Permission, 0, len(rows))
	for _, m := range rows {
		permissions = append(permissions, m.ToDomain())
	}
	return permissions, nil
}

func (r *graphRepository) SetPermissionActive(ctx context.Context, id uint, active bool) error {
	return r.setStatus(ctx, &models.Permission{}, id, active)
}

// ============================================================
// Edges
// ============================================================

func (r *graphRepository) FindUserRole(ctx context.Context, userID, roleID uint) (*domain.UserRole, error) {
	var m models.UserRole
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND role_id = ?", userID, roleID).
		First(&m).Error
	if err != nil {
		return nil, translate(err)
	}
	return m.ToDomain(), nil
}

func (r *graphRepository) CreateUserRole(ctx context.Context, edge *domain.UserRole) error {
	m := models.NewUserRole(edge)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return translate(err)
	}
	edge.ID = m.ID
	edge.CreatedAt = m.CreatedAt
	return nil
}

func (r *graphRepository) SetUserRoleActive(ctx context.Context, id uint, active bool) error {
	return r.setStatus(ctx, &models.UserRole{}, id, active)
}

func (r *graphRepository) SoftDeleteUserRole(ctx context.Context, id uint, at time.Time) error {
	return r.softDeleteEdge(ctx, &models.UserRole{}, id, at)
}

func (r *graphRepository) FindRolePermission(ctx context.Context, roleID, permissionID uint) (*domain.RolePermission, error) {
	var m models.RolePermission
	err := r.db.WithContext(ctx).
		Where("role_id = ? AND permission_id = ?", roleID, permissionID).
		First(&m).Error
	if err != nil {
		return nil, translate(err)
	}
	return m.ToDomain(), nil
}

func (r *graphRepository) CreateRolePermission(ctx context.Context, edge *domain.RolePermission) error {
	m := models.NewRolePermission(edge)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return translate(err)
	}
	edge.ID = m.ID
	edge.CreatedAt = m.CreatedAt
	return nil
}

func (r *graphRepository) SetRolePermissionActive(ctx context.Context, id uint, active bool) error {
	return r.setStatus(ctx, &models.RolePermission{}, id, active)
}

func (r *graphRepository) SoftDeleteRolePermission(ctx context.Context, id uint, at time.Time) error {
	return r.softDeleteEdge(ctx, &models.RolePermission{}, id, at)
}

// ============================================================
// Traversal
// ============================================================

// UserRoleCodes resolves enabled role codes of an account
func (r *graphRepository) UserRoleCodes(ctx context.Context, userID uint) ([]string, error) {
	var codes []string
	err := r.db.WithContext(ctx).
		Table("roles AS r").
		Joins("JOIN user_roles ur ON ur.role_id = r.id").
		Where("ur.user_id = ?", userID).
		Where("ur.status = 1 AND ur.deleted_at IS NULL").
		Where("r.status = 1 AND r.deleted_at IS NULL").
		Distinct().
		Order("r.code").
		Pluck("r.code", &codes).Error
	return codes, err
}

// UserPermissionCodes resolves enabled permission codes of an account in one query
func (r *graphRepository) UserPermissionCodes(ctx context.Context, userID uint) ([]string, error) {
	var codes []string
	err := r.db.WithContext(ctx).
		Table("permissions AS p").
		Joins("JOIN role_permissions rp ON rp.permission_id = p.id").
		Joins("JOIN roles r ON r.id = rp.role_id").
		Joins("JOIN user_roles ur ON ur.role_id = r.id").
		Where("ur.user_id = ?", userID).
		Where("ur.status = 1 AND ur.deleted_at IS NULL").
		Where("r.status = 1 AND r.deleted_at IS NULL").
		Where("rp.status = 1 AND rp.deleted_at IS NULL").
		Where("p.status = 1 AND p.deleted_at IS NULL").
		Distinct().
		Order("p.code").
		Pluck("p.code", &codes).Error
	return codes, err
}

func (r *graphRepository) setStatus(ctx context.Context, model interface{}, id uint, active bool) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return domain.ErrNotFound
	}
	status := 0
	if active {
		status = 1
	}
	return r.db.WithContext(ctx).Model(model).Where("id = ?", id).UpdateColumn("status", status).Error
}

func (r *graphRepository) softDeleteEdge(ctx context.Context, model interface{}, id uint, at time.Time) error {
	return mustAffect(r.db.WithContext(ctx).
		Model(model).
		Where("id = ?", id).
		UpdateColumns(map[string]interface{}{"deleted_at": at, "active_slot": nil}))
}
