package repositories

import (
	"context"
	"time"

	"clubhub/internal/core/domain"
)

// Repositories report domain.ErrNotFound for missing or logically deleted
// rows and domain.ErrConflict for unique-key violations.

// AccountRepository defines account repository interface
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	GetByID(ctx context.Context, id uint) (*domain.Account, error)
	// GetByIDShared reads the account under a shared row lock when inside a transaction
	GetByIDShared(ctx context.Context, id uint) (*domain.Account, error)
	GetByHandle(ctx context.Context, handle string) (*domain.Account, error)
	ExistsByHandle(ctx context.Context, handle string) (bool, error)
	// InitializeCredential sets hash and profile only while the hash is still NULL
	InitializeCredential(ctx context.Context, id uint, hash string, profile domain.Profile, at time.Time) (bool, error)
	// RotateCredential sets hash and bumps the stamp only while the stamp equals expectedStamp
	RotateCredential(ctx context.Context, id uint, expectedStamp int, hash string, at time.Time) (bool, error)
	SetActive(ctx context.Context, id uint, active bool, at time.Time) error
	TouchLastLogin(ctx context.Context, id uint, at time.Time) error
	SoftDelete(ctx context.Context, id uint, at time.Time) error
}

// GraphRepository defines the role/permission graph repository interface
type GraphRepository interface {
	CreateRole(ctx context.Context, role *domain.Role) error
	GetRoleByID(ctx context.Context, id uint) (*domain.Role, error)
	GetRoleByCode(ctx context.Context, code string) (*domain.Role, error)
	ListRoles(ctx context.Context) ([]*domain.Role, error)
	SetRoleActive(ctx context.Context, id uint, active bool) error

	CreatePermission(ctx context.Context, permission *domain.Permission) error
	GetPermissionByCode(ctx context.Context, code string) (*domain.Permission, error)
	ListPermissions(ctx context.Context) ([]*domain.Permission, error)
	SetPermissionActive(ctx context.Context, id uint, active bool) error

	FindUserRole(ctx context.Context, userID, roleID uint) (*domain.UserRole, error)
	CreateUserRole(ctx context.Context, edge *domain.UserRole) error
	SetUserRoleActive(ctx context.Context, id uint, active bool) error
	SoftDeleteUserRole(ctx context.Context, id uint, at time.Time) error

	FindRolePermission(ctx context.Context, roleID, permissionID uint) (*domain.RolePermission, error)
	CreateRolePermission(ctx context.Context, edge *domain.RolePermission) error
	SetRolePermissionActive(ctx context.Context, id uint, active bool) error
	SoftDeleteRolePermission(ctx context.Context, id uint, at time.Time) error

	// UserRoleCodes returns codes of roles reachable through enabled edges to enabled roles
	UserRoleCodes(ctx context.Context, userID uint) ([]string, error)
	// UserPermissionCodes walks user_roles, roles, role_permissions and permissions,
	// requiring every row on the path to be enabled and not deleted
	UserPermissionCodes(ctx context.Context, userID uint) ([]string, error)
}

// ClubRepository defines club repository interface
type ClubRepository interface {
	Create(ctx context.Context, club *domain.Club) error
	GetByID(ctx context.Context, id uint) (*domain.Club, error)
	List(ctx context.Context, offset, limit int) ([]*domain.Club, int64, error)
	// Update saves the descriptive fields of a club
	Update(ctx context.Context, club *domain.Club) error
	// AdjustMemberCount adds delta to member_count, never going below zero
	AdjustMemberCount(ctx context.Context, id uint, delta int) error

	AddMember(ctx context.Context, member *domain.ClubMember) error
	GetMember(ctx context.Context, clubID, userID uint) (*domain.ClubMember, error)
	ListMembers(ctx context.Context, clubID uint) ([]*domain.ClubMember, error)
	RemoveMember(ctx context.Context, id uint, at time.Time) error
}

// RecruitmentFilter narrows recruitment listings
type RecruitmentFilter struct {
	ClubID *uint
	Status *domain.RecruitmentStatus
}

// RecruitmentRepository defines recruitment repository interface
type RecruitmentRepository interface {
	Create(ctx context.Context, recruitment *domain.Recruitment) error
	GetByID(ctx context.Context, id uint) (*domain.Recruitment, error)
	List(ctx context.Context, filter RecruitmentFilter, offset, limit int) ([]*domain.Recruitment, int64, error)
	ListExpiredOpen(ctx context.Context, now time.Time) ([]*domain.Recruitment, error)
	// UpdateStatus moves the recruitment from one status to another; false when the status already changed
	UpdateStatus(ctx context.Context, id uint, from, to domain.RecruitmentStatus, at time.Time) (bool, error)
	// AdjustApplicationCount adds delta to application_count, never going below zero
	AdjustApplicationCount(ctx context.Context, id uint, delta int) error
}

// ApplicationRepository defines application repository interface
type ApplicationRepository interface {
	Create(ctx context.Context, application *domain.Application) error
	GetByID(ctx context.Context, id uint) (*domain.Application, error)
	// FindActive returns the non-withdrawn application of an account for a recruitment
	FindActive(ctx context.Context, recruitmentID, userID uint) (*domain.Application, error)
	ListByRecruitment(ctx context.Context, recruitmentID uint, offset, limit int) ([]*domain.Application, int64, error)
	ListByUser(ctx context.Context, userID uint) ([]*domain.Application, error)
	// Save persists status and review fields while the stored status still equals from
	Save(ctx context.Context, application *domain.Application, from domain.ApplicationStatus) (bool, error)
}

// InterviewRepository defines interview repository interface
type InterviewRepository interface {
	Create(ctx context.Context, interview *domain.Interview) error
	GetByID(ctx context.Context, id uint) (*domain.Interview, error)
	// FindActive returns the non-cancelled interview of an application
	FindActive(ctx context.Context, applicationID uint) (*domain.Interview, error)
	// Save persists status and outcome fields while the stored status still equals from
	Save(ctx context.Context, interview *domain.Interview, from domain.InterviewStatus) (bool, error)
}

// SchoolFilter narrows school listings; empty fields do not filter
type SchoolFilter struct {
	Province string
	City     string
	Keyword  string
}

// MajorFilter selects majors. A keyword searches every school; otherwise
// SchoolID picks that school's majors and nil picks the general ones.
type MajorFilter struct {
	SchoolID *uint
	Keyword  string
}

// DictionaryRepository defines the school and major dictionary interface.
// Listings skip disabled and deleted rows and are ordered by name.
type DictionaryRepository interface {
	CreateSchool(ctx context.Context, school *domain.School) error
	// GetSchool reports ErrNotFound for disabled schools too
	GetSchool(ctx context.Context, id uint) (*domain.School, error)
	ListSchools(ctx context.Context, filter SchoolFilter) ([]*domain.School, error)
	ListProvinces(ctx context.Context) ([]string, error)
	ListCities(ctx context.Context, province string) ([]string, error)

	CreateMajor(ctx context.Context, major *domain.Major) error
	ListMajors(ctx context.Context, filter MajorFilter) ([]*domain.Major, error)
	ListMajorCategories(ctx context.Context) ([]string, error)
}

// Store groups the repositories that share one connection or transaction
type Store interface {
	Accounts() AccountRepository
	Graph() GraphRepository
	Clubs() ClubRepository
	Recruitments() RecruitmentRepository
	Applications() ApplicationRepository
	Interviews() InterviewRepository
	Dictionary() DictionaryRepository
}

// UnitOfWork runs fn in a single transaction. fn's error rolls everything back.
type UnitOfWork interface {
	Store
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx Store) error) error
}
