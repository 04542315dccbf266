package domain

import "time"

// Profile holds the editable profile fields of an account
type Profile struct {
	Name      string
	SchoolID  *uint
	Major     string
	StudentNo string
	IDCardNo  string
	Email     string
	AvatarURL string
}

// Account represents a user identity in the domain layer
type Account struct {
	ID              uint
	Handle          string  // phone number, unique among non-deleted accounts
	PasswordHash    *string // nil = uninitialized
	RevocationStamp int
	IsActive        bool
	Profile         Profile
	LastLoginAt     *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
	DeletedAt       *time.Time
}

// IsInitialized reports whether the account has a credential
func (a *Account) IsInitialized() bool {
	return a.PasswordHash != nil && *a.PasswordHash != ""
}

// IsDeleted reports whether the account was logically deleted
func (a *Account) IsDeleted() bool {
	return a.DeletedAt != nil
}

// Role is a named capability bundle
type Role struct {
	ID          uint
	Code        string
	Name        string
	Description string
	IsActive    bool
	DeletedAt   *time.Time
}

// Permission is an atomic capability
type Permission struct {
	ID          uint
	Code        string
	Name        string
	Description string
	Resource    string
	Action      string
	IsActive    bool
	DeletedAt   *time.Time
}

// Edge is a join row of the permission graph.
// It has two independent off switches: IsActive and DeletedAt.
type Edge struct {
	ID        uint
	FromID    uint
	ToID      uint
	IsActive  bool
	DeletedAt *time.Time
	CreatedAt time.Time
}

// Enabled reports whether both switches are on
func (e Edge) Enabled() bool {
	return e.IsActive && e.DeletedAt == nil
}

// UserRole links an account to a role (FromID = account, ToID = role)
type UserRole = Edge

// RolePermission links a role to a permission (FromID = role, ToID = permission)
type RolePermission = Edge

// School is a dictionary row referenced by profiles and clubs
type School struct {
	ID        uint
	Name      string
	Code      string
	Province  string
	City      string
	IsActive  bool
	DeletedAt *time.Time
}

// Available reports whether the school may be referenced
func (s *School) Available() bool {
	return s.IsActive && s.DeletedAt == nil
}

// Major is a dictionary row. A nil SchoolID marks a general major offered everywhere.
type Major struct {
	ID        uint
	Name      string
	Code      string
	Category  string
	SchoolID  *uint
	IsActive  bool
	DeletedAt *time.Time
}

// Club is owned administratively by its president
type Club struct {
	ID          uint
	Name        string
	Description string
	LogoURL     string
	CoverURL    string
	SchoolID    *uint
	PresidentID uint
	IsActive    bool
	MemberCount int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Club member role labels
const (
	MemberRolePresident = "president"
	MemberRoleMember    = "member"
)

// ClubMember is a (club, account) membership row
type ClubMember struct {
	ID        uint
	ClubID    uint
	UserID    uint
	Role      string
	IsActive  bool
	CreatedAt time.Time
	DeletedAt *time.Time
}

// Recruitment is a recruitment campaign of a club
type Recruitment struct {
	ID                 uint
	ClubID             uint
	Title              string
	Description        string
	StartTime          time.Time
	EndTime            time.Time
	InterviewStartTime *time.Time
	InterviewEndTime   *time.Time
	Status             RecruitmentStatus
	ApplicationCount   int
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// AcceptsApplicationsAt reports whether now falls in [start, end)
func (r *Recruitment) AcceptsApplicationsAt(now time.Time) bool {
	return !now.Before(r.StartTime) && now.Before(r.EndTime)
}

// Application is an account's application to a recruitment
type Application struct {
	ID            uint
	RecruitmentID uint
	UserID        uint
	Motivation    string
	Experience    string
	Skills        string
	Status        ApplicationStatus
	ReviewedBy    *uint
	ReviewedAt    *time.Time
	ReviewComment string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Interview belongs to exactly one application
type Interview struct {
	ID            uint
	ApplicationID uint
	InterviewerID uint
	ScheduledTime time.Time
	Duration      int // minutes
	Location      string
	Status        InterviewStatus
	Result        *InterviewResult
	Score         *float64
	Comment       string
	CompletedAt   *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
