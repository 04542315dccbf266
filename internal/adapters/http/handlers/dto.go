package handlers

import (
	"time"

	"clubhub/internal/core/domain"
)

// AccountResponse is the public view of an account. The credential hash never leaves the server.
type AccountResponse struct {
	ID          uint       `json:"id"`
	Handle      string     `json:"handle"`
	Name        string     `json:"name"`
	SchoolID    *uint      `json:"school_id,omitempty"`
	Major       string     `json:"major,omitempty"`
	StudentNo   string     `json:"student_no,omitempty"`
	Email       string     `json:"email,omitempty"`
	AvatarURL   string     `json:"avatar_url,omitempty"`
	IsActive    bool       `json:"is_active"`
	Initialized bool       `json:"initialized"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

func toAccountResponse(a *domain.Account) *AccountResponse {
	return &AccountResponse{
		ID:          a.ID,
		Handle:      a.Handle,
		Name:        a.Profile.Name,
		SchoolID:    a.Profile.SchoolID,
		Major:       a.Profile.Major,
		StudentNo:   a.Profile.StudentNo,
		Email:       a.Profile.Email,
		AvatarURL:   a.Profile.AvatarURL,
		IsActive:    a.IsActive,
		Initialized: a.IsInitialized(),
		LastLoginAt: a.LastLoginAt,
		CreatedAt:   a.CreatedAt,
	}
}

// ProfileRequest carries editable profile fields
type ProfileRequest struct {
	Name      string `json:"name"`
	SchoolID  *uint  `json:"school_id"`
	Major     string `json:"major"`
	StudentNo string `json:"student_no"`
	IDCardNo  string `json:"id_card_no"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatar_url"`
}

func (p ProfileRequest) toDomain() domain.Profile {
	return domain.Profile{
		Name:      p.Name,
		SchoolID:  p.SchoolID,
		Major:     p.Major,
		StudentNo: p.StudentNo,
		IDCardNo:  p.IDCardNo,
		Email:     p.Email,
		AvatarURL: p.AvatarURL,
	}
}

// ClubResponse is the public view of a club
type ClubResponse struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	LogoURL     string    `json:"logo_url,omitempty"`
	CoverURL    string    `json:"cover_url,omitempty"`
	SchoolID    *uint     `json:"school_id,omitempty"`
	PresidentID uint      `json:"president_id"`
	MemberCount int       `json:"member_count"`
	CreatedAt   time.Time `json:"created_at"`
}

func toClubResponse(c *domain.Club) *ClubResponse {
	return &ClubResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		LogoURL:     c.LogoURL,
		CoverURL:    c.CoverURL,
		SchoolID:    c.SchoolID,
		PresidentID: c.PresidentID,
		MemberCount: c.MemberCount,
		CreatedAt:   c.CreatedAt,
	}
}

// MemberResponse is a club membership row
type MemberResponse struct {
	UserID   uint      `json:"user_id"`
	Role     string    `json:"role"`
	JoinedAt time.Time `json:"joined_at"`
}

func toMemberResponse(m *domain.ClubMember) *MemberResponse {
	return &MemberResponse{UserID: m.UserID, Role: m.Role, JoinedAt: m.CreatedAt}
}

// RecruitmentResponse is the public view of a recruitment
type RecruitmentResponse struct {
	ID                 uint       `json:"id"`
	ClubID             uint       `json:"club_id"`
	Title              string     `json:"title"`
	Description        string     `json:"description"`
	StartTime          time.Time  `json:"start_time"`
	EndTime            time.Time  `json:"end_time"`
	InterviewStartTime *time.Time `json:"interview_start_time,omitempty"`
	InterviewEndTime   *time.Time `json:"interview_end_time,omitempty"`
	Status             string     `json:"status"`
	ApplicationCount   int        `json:"application_count"`
	CreatedAt          time.Time  `json:"created_at"`
}

func toRecruitmentResponse(r *domain.Recruitment) *RecruitmentResponse {
	return &RecruitmentResponse{
		ID:                 r.ID,
		ClubID:             r.ClubID,
		Title:              r.Title,
		Description:        r.Description,
		StartTime:          r.StartTime,
		EndTime:            r.EndTime,
		InterviewStartTime: r.InterviewStartTime,
		InterviewEndTime:   r.InterviewEndTime,
		Status:             r.Status.String(),
		ApplicationCount:   r.ApplicationCount,
		CreatedAt:          r.CreatedAt,
	}
}

// ApplicationResponse is the public view of an application
type ApplicationResponse struct {
	ID            uint       `json:"id"`
	RecruitmentID uint       `json:"recruitment_id"`
	UserID        uint       `json:"user_id"`
	Motivation    string     `json:"motivation"`
	Experience    string     `json:"experience,omitempty"`
	Skills        string     `json:"skills,omitempty"`
	Status        string     `json:"status"`
	ReviewedBy    *uint      `json:"reviewed_by,omitempty"`
	ReviewedAt    *time.Time `json:"reviewed_at,omitempty"`
	ReviewComment string     `json:"review_comment,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

func toApplicationResponse(a *domain.Application) *ApplicationResponse {
	return &ApplicationResponse{
		ID:            a.ID,
		RecruitmentID: a.RecruitmentID,
		UserID:        a.UserID,
		Motivation:    a.Motivation,
		Experience:    a.Experience,
		Skills:        a.Skills,
		Status:        a.Status.String(),
		ReviewedBy:    a.ReviewedBy,
		ReviewedAt:    a.ReviewedAt,
		ReviewComment: a.ReviewComment,
		CreatedAt:     a.CreatedAt,
	}
}

// InterviewResponse is the public view of an interview
type InterviewResponse struct {
	ID            uint       `json:"id"`
	ApplicationID uint       `json:"application_id"`
	InterviewerID uint       `json:"interviewer_id"`
	ScheduledTime time.Time  `json:"scheduled_time"`
	Duration      int        `json:"duration"`
	Location      string     `json:"location,omitempty"`
	Status        string     `json:"status"`
	Result        string     `json:"result,omitempty"`
	Score         *float64   `json:"score,omitempty"`
	Comment       string     `json:"comment,omitempty"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
}

func toInterviewResponse(iv *domain.Interview) *InterviewResponse {
	out := &InterviewResponse{
		ID:            iv.ID,
		ApplicationID: iv.ApplicationID,
		InterviewerID: iv.InterviewerID,
		ScheduledTime: iv.ScheduledTime,
		Duration:      iv.Duration,
		Location:      iv.Location,
		Status:        iv.Status.String(),
		Score:         iv.Score,
		Comment:       iv.Comment,
		CompletedAt:   iv.CompletedAt,
	}
	if iv.Result != nil {
		out.Result = resultName(*iv.Result)
	}
	return out
}

func resultName(r domain.InterviewResult) string {
	switch r {
	case domain.InterviewPass:
		return "pass"
	case domain.InterviewFail:
		return "fail"
	}
	return ""
}

func mapSlice[T, R any](in []T, fn func(T) R) []R {
	out := make([]R, 0, len(in))
	for _, v := range in {
		out = append(out, fn(v))
	}
	return out
}

// RoleResponse is a role node of the permission graph
type RoleResponse struct {
	ID          uint   `json:"id"`
	Code        string `json:"code"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	IsActive    bool   `json:"is_active"`
}

func toRoleResponse(r *domain.Role) *RoleResponse {
	return &RoleResponse{ID: r.ID, Code: r.Code, Name: r.Name, Description: r.Description, IsActive: r.IsActive}
}

// PermissionResponse is a permission node of the permission graph
type PermissionResponse struct {
	ID          uint   `json:"id"`
	Code        string `json:"code"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Resource    string `json:"resource,omitempty"`
	Action      string `json:"action,omitempty"`
	IsActive    bool   `json:"is_active"`
}

func toPermissionResponse(p *domain.Permission) *PermissionResponse {
	return &PermissionResponse{
		ID:          p.ID,
		Code:        p.Code,
		Name:        p.Name,
		Description: p.Description,
		Resource:    p.Resource,
		Action:      p.Action,
		IsActive:    p.IsActive,
	}
}

// SchoolResponse is a dictionary school
type SchoolResponse struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	Code     string `json:"code,omitempty"`
	Province string `json:"province,omitempty"`
	City     string `json:"city,omitempty"`
}

func toSchoolResponse(s *domain.School) *SchoolResponse {
	return &SchoolResponse{
		ID:       s.ID,
		Name:     s.Name,
		Code:     s.Code,
		Province: s.Province,
		City:     s.City,
	}
}

// MajorResponse is a dictionary major
type MajorResponse struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	Code     string `json:"code,omitempty"`
	Category string `json:"category,omitempty"`
	SchoolID *uint  `json:"school_id"`
}

func toMajorResponse(m *domain.Major) *MajorResponse {
	return &MajorResponse{
		ID:       m.ID,
		Name:     m.Name,
		Code:     m.Code,
		Category: m.Category,
		SchoolID: m.SchoolID,
	}
}
