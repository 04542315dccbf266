package models

import (
	"time"

	"gorm.io/gorm"

	"clubhub/internal/core/domain"
)

// ActiveSlot is stored in active_slot while a row occupies its unique key.
// Withdrawn, cancelled and deleted rows store NULL, which never collides.
const ActiveSlot = 1

func slot(occupied bool) *int {
	if !occupied {
		return nil
	}
	v := ActiveSlot
	return &v
}

func deletedAt(d gorm.DeletedAt) *time.Time {
	if !d.Valid {
		return nil
	}
	t := d.Time
	return &t
}

func toDeletedAt(t *time.Time) gorm.DeletedAt {
	if t == nil {
		return gorm.DeletedAt{}
	}
	return gorm.DeletedAt{Time: *t, Valid: true}
}

// ============================================================
// Identity
// ============================================================

// Account represents accounts table
type Account struct {
	ID              uint    `gorm:"primaryKey"`
	Handle          string  `gorm:"size:20;not null;uniqueIndex:uk_accounts_handle,priority:1"`
	ActiveSlot      *int    `gorm:"uniqueIndex:uk_accounts_handle,priority:2"`
	PasswordHash    *string `gorm:"size:255"`
	RevocationStamp int     `gorm:"not null;default:0"`
	IsActive        bool    `gorm:"not null;default:true"`
	Name            string  `gorm:"size:50"`
	SchoolID        *uint   `gorm:"index"`
	Major           string  `gorm:"size:100"`
	StudentNo       string  `gorm:"size:30"`
	IDCardNo        string  `gorm:"size:30"`
	Email           string  `gorm:"size:100"`
	AvatarURL       string  `gorm:"size:255"`
	LastLoginAt     *time.Time
	CreatedAt       time.Time      `gorm:"autoCreateTime"`
	UpdatedAt       time.Time      `gorm:"autoUpdateTime"`
	DeletedAt       gorm.DeletedAt `gorm:"index"`
}

func (Account) TableName() string {
	return "accounts"
}

func (m *Account) ToDomain() *domain.Account {
	return &domain.Account{
		ID:              m.ID,
		Handle:          m.Handle,
		PasswordHash:    m.PasswordHash,
		RevocationStamp: m.RevocationStamp,
		IsActive:        m.IsActive,
		Profile: domain.Profile{
			Name:      m.Name,
			SchoolID:  m.SchoolID,
			Major:     m.Major,
			StudentNo: m.StudentNo,
			IDCardNo:  m.IDCardNo,
			Email:     m.Email,
			AvatarURL: m.AvatarURL,
		},
		LastLoginAt: m.LastLoginAt,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
		DeletedAt:   deletedAt(m.DeletedAt),
	}
}

func NewAccount(a *domain.Account) *Account {
	return &Account{
		ID:              a.ID,
		Handle:          a.Handle,
		ActiveSlot:      slot(a.DeletedAt == nil),
		PasswordHash:    a.PasswordHash,
		RevocationStamp: a.RevocationStamp,
		IsActive:        a.IsActive,
		Name:            a.Profile.Name,
		SchoolID:        a.Profile.SchoolID,
		Major:           a.Profile.Major,
		StudentNo:       a.Profile.StudentNo,
		IDCardNo:        a.Profile.IDCardNo,
		Email:           a.Profile.Email,
		AvatarURL:       a.Profile.AvatarURL,
		LastLoginAt:     a.LastLoginAt,
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
		DeletedAt:       toDeletedAt(a.DeletedAt),
	}
}

// ProfileColumns returns the profile fields as an update map
func ProfileColumns(p domain.Profile) map[string]interface{} {
	return map[string]interface{}{
		"name":       p.Name,
		"school_id":  p.SchoolID,
		"major":      p.Major,
		"student_no": p.StudentNo,
		"id_card_no": p.IDCardNo,
		"email":      p.Email,
		"avatar_url": p.AvatarURL,
	}
}

// ============================================================
// Permission graph
// ============================================================

// Role represents roles table
type Role struct {
	ID          uint           `gorm:"primaryKey"`
	Code        string         `gorm:"size:50;uniqueIndex;not null"`
	Name        string         `gorm:"size:50;not null"`
	Description string         `gorm:"size:255"`
	Status      int            `gorm:"not null;default:1"`
	CreatedAt   time.Time      `gorm:"autoCreateTime"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime"`
	DeletedAt   gorm.DeletedAt `gorm:"index"`
}

func (Role) TableName() string {
	return "roles"
}

func (m *Role) ToDomain() *domain.Role {
	return &domain.Role{
		ID:          m.ID,
		Code:        m.Code,
		Name:        m.Name,
		Description: m.Description,
		IsActive:    m.Status == 1,
		DeletedAt:   deletedAt(m.DeletedAt),
	}
}

func NewRole(r *domain.Role) *Role {
	return &Role{
		ID:          r.ID,
		Code:        r.Code,
		Name:        r.Name,
		Description: r.Description,
		Status:      status(r.IsActive),
		DeletedAt:   toDeletedAt(r.DeletedAt),
	}
}

// Permission represents permissions table
type Permission struct {
	ID          uint           `gorm:"primaryKey"`
	Code        string         `gorm:"size:100;uniqueIndex;not null"`
	Name        string         `gorm:"size:100;not null"`
	Description string         `gorm:"size:255"`
	Resource    string         `gorm:"size:50"`
	Action      string         `gorm:"size:50"`
	Status      int            `gorm:"not null;default:1"`
	CreatedAt   time.Time      `gorm:"autoCreateTime"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime"`
	DeletedAt   gorm.DeletedAt `gorm:"index"`
}

func (Permission) TableName() string {
	return "permissions"
}

func (m *Permission) ToDomain() *domain.Permission {
	return &domain.Permission{
		ID:          m.ID,
		Code:        m.Code,
		Name:        m.Name,
		Description: m.Description,
		Resource:    m.Resource,
		Action:      m.Action,
		IsActive:    m.Status == 1,
		DeletedAt:   deletedAt(m.DeletedAt),
	}
}

func NewPermission(p *domain.Permission) *Permission {
	return &Permission{
		ID:          p.ID,
		Code:        p.Code,
		Name:        p.Name,
		Description: p.Description,
		Resource:    p.Resource,
		Action:      p.Action,
		Status:      status(p.IsActive),
		DeletedAt:   toDeletedAt(p.DeletedAt),
	}
}

// UserRole represents user_roles table
type UserRole struct {
	ID         uint           `gorm:"primaryKey"`
	UserID     uint           `gorm:"not null;uniqueIndex:uk_user_roles,priority:1"`
	RoleID     uint           `gorm:"not null;uniqueIndex:uk_user_roles,priority:2;index"`
	ActiveSlot *int           `gorm:"uniqueIndex:uk_user_roles,priority:3"`
	Status     int            `gorm:"not null;default:1"`
	CreatedAt  time.Time      `gorm:"autoCreateTime"`
	DeletedAt  gorm.DeletedAt `gorm:"index"`
}

func (UserRole) TableName() string {
	return "user_roles"
}

func (m *UserRole) ToDomain() *domain.UserRole {
	return &domain.UserRole{
		ID:        m.ID,
		FromID:    m.UserID,
		ToID:      m.RoleID,
		IsActive:  m.Status == 1,
		DeletedAt: deletedAt(m.DeletedAt),
		CreatedAt: m.CreatedAt,
	}
}

func NewUserRole(e *domain.UserRole) *UserRole {
	return &UserRole{
		ID:         e.ID,
		UserID:     e.FromID,
		RoleID:     e.ToID,
		ActiveSlot: slot(e.DeletedAt == nil),
		Status:     status(e.IsActive),
		CreatedAt:  e.CreatedAt,
		DeletedAt:  toDeletedAt(e.DeletedAt),
	}
}

// RolePermission represents role_permissions table
type RolePermission struct {
	ID           uint           `gorm:"primaryKey"`
	RoleID       uint           `gorm:"not null;uniqueIndex:uk_role_permissions,priority:1"`
	PermissionID uint           `gorm:"not null;uniqueIndex:uk_role_permissions,priority:2;index"`
	ActiveSlot   *int           `gorm:"uniqueIndex:uk_role_permissions,priority:3"`
	Status       int            `gorm:"not null;default:1"`
	CreatedAt    time.Time      `gorm:"autoCreateTime"`
	DeletedAt    gorm.DeletedAt `gorm:"index"`
}

func (RolePermission) TableName() string {
	return "role_permissions"
}

func (m *RolePermission) ToDomain() *domain.RolePermission {
	return &domain.RolePermission{
		ID:        m.ID,
		FromID:    m.RoleID,
		ToID:      m.PermissionID,
		IsActive:  m.Status == 1,
		DeletedAt: deletedAt(m.DeletedAt),
		CreatedAt: m.CreatedAt,
	}
}

func NewRolePermission(e *domain.RolePermission) *RolePermission {
	return &RolePermission{
		ID:           e.ID,
		RoleID:       e.FromID,
		PermissionID: e.ToID,
		ActiveSlot:   slot(e.DeletedAt == nil),
		Status:       status(e.IsActive),
		CreatedAt:    e.CreatedAt,
		DeletedAt:    toDeletedAt(e.DeletedAt),
	}
}

func status(active bool) int {
	if active {
		return 1
	}
	return 0
}

// ============================================================
// Clubs
// ============================================================

// Club represents clubs table
type Club struct {
	ID          uint      `gorm:"primaryKey"`
	Name        string    `gorm:"size:100;not null;index"`
	Description string    `gorm:"type:text"`
	LogoURL     string    `gorm:"size:255"`
	CoverURL    string    `gorm:"size:255"`
	SchoolID    *uint     `gorm:"index"`
	PresidentID uint      `gorm:"not null;index"`
	IsActive    bool      `gorm:"not null;default:true"`
	MemberCount int       `gorm:"not null;default:0"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

func (Club) TableName() string {
	return "clubs"
}

func (m *Club) ToDomain() *domain.Club {
	return &domain.Club{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		LogoURL:     m.LogoURL,
		CoverURL:    m.CoverURL,
		SchoolID:    m.SchoolID,
		PresidentID: m.PresidentID,
		IsActive:    m.IsActive,
		MemberCount: m.MemberCount,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func NewClub(c *domain.Club) *Club {
	return &Club{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		LogoURL:     c.LogoURL,
		CoverURL:    c.CoverURL,
		SchoolID:    c.SchoolID,
		PresidentID: c.PresidentID,
		IsActive:    c.IsActive,
		MemberCount: c.MemberCount,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

// ClubMember represents club_members table
type ClubMember struct {
	ID         uint           `gorm:"primaryKey"`
	ClubID     uint           `gorm:"not null;uniqueIndex:uk_club_members,priority:1"`
	UserID     uint           `gorm:"not null;uniqueIndex:uk_club_members,priority:2;index"`
	ActiveSlot *int           `gorm:"uniqueIndex:uk_club_members,priority:3"`
	Role       string         `gorm:"size:20;not null;default:'member'"`
	IsActive   bool           `gorm:"not null;default:true"`
	CreatedAt  time.Time      `gorm:"autoCreateTime"`
	DeletedAt  gorm.DeletedAt `gorm:"index"`
}

func (ClubMember) TableName() string {
	return "club_members"
}

func (m *ClubMember) ToDomain() *domain.ClubMember {
	return &domain.ClubMember{
		ID:        m.ID,
		ClubID:    m.ClubID,
		UserID:    m.UserID,
		Role:      m.Role,
		IsActive:  m.IsActive,
		CreatedAt: m.CreatedAt,
		DeletedAt: deletedAt(m.DeletedAt),
	}
}

func NewClubMember(c *domain.ClubMember) *ClubMember {
	return &ClubMember{
		ID:         c.ID,
		ClubID:     c.ClubID,
		UserID:     c.UserID,
		ActiveSlot: slot(c.DeletedAt == nil),
		Role:       c.Role,
		IsActive:   c.IsActive,
		CreatedAt:  c.CreatedAt,
		DeletedAt:  toDeletedAt(c.DeletedAt),
	}
}

// ============================================================
// Recruitment workflow
// ============================================================

// Recruitment represents recruitments table
type Recruitment struct {
	ID                 uint      `gorm:"primaryKey"`
	ClubID             uint      `gorm:"not null;index"`
	Title              string    `gorm:"size:100;not null"`
	Description        string    `gorm:"type:text"`
	StartTime          time.Time `gorm:"not null"`
	EndTime            time.Time `gorm:"not null;index"`
	InterviewStartTime *time.Time
	InterviewEndTime   *time.Time
	Status             int       `gorm:"not null;default:0;index"`
	ApplicationCount   int       `gorm:"not null;default:0"`
	CreatedAt          time.Time `gorm:"autoCreateTime"`
	UpdatedAt          time.Time `gorm:"autoUpdateTime"`
}

func (Recruitment) TableName() string {
	return "recruitments"
}

func (m *Recruitment) ToDomain() *domain.Recruitment {
	return &domain.Recruitment{
		ID:                 m.ID,
		ClubID:             m.ClubID,
		Title:              m.Title,
		Description:        m.Description,
		StartTime:          m.StartTime,
		EndTime:            m.EndTime,
		InterviewStartTime: m.InterviewStartTime,
		InterviewEndTime:   m.InterviewEndTime,
		Status:             domain.RecruitmentStatus(m.Status),
		ApplicationCount:   m.ApplicationCount,
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}
}

func NewRecruitment(r *domain.Recruitment) *Recruitment {
	return &Recruitment{
		ID:                 r.ID,
		ClubID:             r.ClubID,
		Title:              r.Title,
		Description:        r.Description,
		StartTime:          r.StartTime,
		EndTime:            r.EndTime,
		InterviewStartTime: r.InterviewStartTime,
		InterviewEndTime:   r.InterviewEndTime,
		Status:             int(r.Status),
		ApplicationCount:   r.ApplicationCount,
		CreatedAt:          r.CreatedAt,
		UpdatedAt:          r.UpdatedAt,
	}
}

// Application represents applications table
type Application struct {
	ID            uint   `gorm:"primaryKey"`
	RecruitmentID uint   `gorm:"not null;uniqueIndex:uk_applications,priority:1"`
	UserID        uint   `gorm:"not null;uniqueIndex:uk_applications,priority:2;index"`
	ActiveSlot    *int   `gorm:"uniqueIndex:uk_applications,priority:3"`
	Motivation    string `gorm:"type:text"`
	Experience    string `gorm:"type:text"`
	Skills        string `gorm:"type:text"`
	Status        int    `gorm:"not null;default:0;index"`
	ReviewedBy    *uint
	ReviewedAt    *time.Time
	ReviewComment string    `gorm:"type:text"`
	CreatedAt     time.Time `gorm:"autoCreateTime"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime"`
}

func (Application) TableName() string {
	return "applications"
}

func (m *Application) ToDomain() *domain.Application {
	return &domain.Application{
		ID:            m.ID,
		RecruitmentID: m.RecruitmentID,
		UserID:        m.UserID,
		Motivation:    m.Motivation,
		Experience:    m.Experience,
		Skills:        m.Skills,
		Status:        domain.ApplicationStatus(m.Status),
		ReviewedBy:    m.ReviewedBy,
		ReviewedAt:    m.ReviewedAt,
		ReviewComment: m.ReviewComment,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

func NewApplication(a *domain.Application) *Application {
	return &Application{
		ID:            a.ID,
		RecruitmentID: a.RecruitmentID,
		UserID:        a.UserID,
		ActiveSlot:    slot(a.Status.Occupying()),
		Motivation:    a.Motivation,
		Experience:    a.Experience,
		Skills:        a.Skills,
		Status:        int(a.Status),
		ReviewedBy:    a.ReviewedBy,
		ReviewedAt:    a.ReviewedAt,
		ReviewComment: a.ReviewComment,
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}
}

// Interview represents interviews table
type Interview struct {
	ID            uint      `gorm:"primaryKey"`
	ApplicationID uint      `gorm:"not null;uniqueIndex:uk_interviews,priority:1"`
	ActiveSlot    *int      `gorm:"uniqueIndex:uk_interviews,priority:2"`
	InterviewerID uint      `gorm:"not null;index"`
	ScheduledTime time.Time `gorm:"not null"`
	Duration      int       `gorm:"not null;default:30"`
	Location      string    `gorm:"size:255"`
	Status        int       `gorm:"not null;default:0"`
	Result        *int
	Score         *float64 `gorm:"type:decimal(5,2)"`
	Comment       string   `gorm:"type:text"`
	CompletedAt   *time.Time
	CreatedAt     time.Time `gorm:"autoCreateTime"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime"`
}

func (Interview) TableName() string {
	return "interviews"
}

func (m *Interview) ToDomain() *domain.Interview {
	iv := &domain.Interview{
		ID:            m.ID,
		ApplicationID: m.ApplicationID,
		InterviewerID: m.InterviewerID,
		ScheduledTime: m.ScheduledTime,
		Duration:      m.Duration,
		Location:      m.Location,
		Status:        domain.InterviewStatus(m.Status),
		Score:         m.Score,
		Comment:       m.Comment,
		CompletedAt:   m.CompletedAt,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
	if m.Result != nil {
		r := domain.InterviewResult(*m.Result)
		iv.Result = &r
	}
	return iv
}

func NewInterview(i *domain.Interview) *Interview {
	m := &Interview{
		ID:            i.ID,
		ApplicationID: i.ApplicationID,
		ActiveSlot:    slot(i.Status.Occupying()),
		InterviewerID: i.InterviewerID,
		ScheduledTime: i.ScheduledTime,
		Duration:      i.Duration,
		Location:      i.Location,
		Status:        int(i.Status),
		Score:         i.Score,
		Comment:       i.Comment,
		CompletedAt:   i.CompletedAt,
		CreatedAt:     i.CreatedAt,
		UpdatedAt:     i.UpdatedAt,
	}
	if i.Result != nil {
		r := int(*i.Result)
		m.Result = &r
	}
	return m
}

// ============================================================
// Dictionary
// ============================================================

// School represents schools table
type School struct {
	ID        uint           `gorm:"primaryKey"`
	Name      string         `gorm:"size:100;not null;index"`
	Code      string         `gorm:"size:50"`
	Province  string         `gorm:"size:50;index"`
	City      string         `gorm:"size:50;index"`
	Status    int            `gorm:"not null;default:1"`
	CreatedAt time.Time      `gorm:"autoCreateTime"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (School) TableName() string {
	return "schools"
}

func (m *School) ToDomain() *domain.School {
	return &domain.School{
		ID:        m.ID,
		Name:      m.Name,
		Code:      m.Code,
		Province:  m.Province,
		City:      m.City,
		IsActive:  m.Status == 1,
		DeletedAt: deletedAt(m.DeletedAt),
	}
}

func NewSchool(s *domain.School) *School {
	return &School{
		ID:        s.ID,
		Name:      s.Name,
		Code:      s.Code,
		Province:  s.Province,
		City:      s.City,
		Status:    status(s.IsActive),
		DeletedAt: toDeletedAt(s.DeletedAt),
	}
}

// Major represents majors table
type Major struct {
	ID        uint           `gorm:"primaryKey"`
	Name      string         `gorm:"size:100;not null;index"`
	Code      string         `gorm:"size:50"`
	Category  string         `gorm:"size:50;index"`
	SchoolID  *uint          `gorm:"index"`
	Status    int            `gorm:"not null;default:1"`
	CreatedAt time.Time      `gorm:"autoCreateTime"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (Major) TableName() string {
	return "majors"
}

func (m *Major) ToDomain() *domain.Major {
	return &domain.Major{
		ID:        m.ID,
		Name:      m.Name,
		Code:      m.Code,
		Category:  m.Category,
		SchoolID:  m.SchoolID,
		IsActive:  m.Status == 1,
		DeletedAt: deletedAt(m.DeletedAt),
	}
}

func NewMajor(mj *domain.Major) *Major {
	return &Major{
		ID:        mj.ID,
		Name:      mj.Name,
		Code:      mj.Code,
		Category:  mj.Category,
		SchoolID:  mj.SchoolID,
		Status:    status(mj.IsActive),
		DeletedAt: toDeletedAt(mj.DeletedAt),
	}
}

// AutoMigrate runs auto migration for all models
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		// Identity
		&Account{},
		// Permission graph
		&Role{},
		&Permission{},
		&UserRole{},
		&RolePermission{},
		// Clubs
		&Club{},
		&ClubMember{},
		// Workflow
		&Recruitment{},
		&Application{},
		&Interview{},
		// Dictionary
		&School{},
		&Major{},
	)
}
