package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"

	"clubhub/internal/adapters/persistence/models"
	"clubhub/internal/core/domain"
)

// clubRepository implements ClubRepository interface
type clubRepository struct {
	db *gorm.DB
}

// NewClubRepository creates a new club repository
func NewClubRepository(db *gorm.DB) ClubRepository {
	return &clubRepository{db: db}
}

// Create creates a new club
func (r *clubRepository) Create(ctx context.Context, club *domain.Club) error {
	m := models.NewClub(club)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return translate(err)
	}
	club.ID = m.ID
	club.CreatedAt = m.CreatedAt
	club.UpdatedAt = m.UpdatedAt
	return nil
}

// GetByID gets a club by ID
func (r *clubRepository) GetByID(ctx context.Context, id uint) (*domain.Club, error) {
	var m models.Club
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, translate(err)
	}
	return m.ToDomain(), nil
}

// List lists active clubs with pagination
func (r *clubRepository) List(ctx context.Context, offset, limit int) ([]*domain.Club, int64, error) {
	var rows []*models.Club
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Club{}).Where("is_active = ?", true).Session(&gorm.Session{})

	// Count total
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Order("id DESC").Offset(offset).Limit(limit).Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	clubs := make([]*domain.Club, 0, len(rows))
	for _, m := range rows {
		clubs = append(clubs, m.ToDomain())
	}
	return clubs, total, nil
}

// Update saves the descriptive fields of a club
func (r *clubRepository) Update(ctx context.Context, club *domain.Club) error {
	return mustAffect(r.db.WithContext(ctx).
		Model(&models.Club{}).
		Where("id = ?", club.ID).
		Updates(map[string]interface{}{
			"name":        club.Name,
			"description": club.Description,
			"logo_url":    club.LogoURL,
			"cover_url":   club.CoverURL,
			"updated_at":  club.UpdatedAt,
		}))
}

// AdjustMemberCount applies delta to the member counter in place
func (r *clubRepository) AdjustMemberCount(ctx context.Context, id uint, delta int) error {
	return mustAffect(r.db.WithContext(ctx).
		Model(&models.Club{}).
		Where("id = ?", id).
		UpdateColumn("member_count", gorm.Expr(
			"CASE WHEN member_count + ? < 0 THEN 0 ELSE member_count + ? END", delta, delta)))
}

// AddMember inserts an active membership row
func (r *clubRepository) AddMember(ctx context.Context, member *domain.ClubMember) error {
	m := models.NewClubMember(member)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return translate(err)
	}
	member.ID = m.ID
	member.CreatedAt = m.CreatedAt
	return nil
}

// GetMember gets the active membership of an account in a club
func (r *clubRepository) GetMember(ctx context.Context, clubID, userID uint) (*domain.ClubMember, error) {
	var m models.ClubMember
	err := r.db.WithContext(ctx).
		Where("club_id = ? AND user_id = ?", clubID, userID).
		Where("is_active = ?", true).
		First(&m).Error
	if err != nil {
		return nil, translate(err)
	}
	return m.ToDomain(), nil
}

// ListMembers lists the active members of a club
func (r *clubRepository) ListMembers(ctx context.Context, clubID uint) ([]*domain.ClubMember, error) {
	var rows []*models.ClubMember
	err := r.db.WithContext(ctx).
		Where("club_id = ? AND is_active = ?", clubID, true).
		Order("id").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	members := make([]*domain.ClubMember, 0, len(rows))
	for _, m := range rows {
		members = append(members, m.ToDomain())
	}
	return members, nil
}

// RemoveMember logically deletes a membership row
func (r *clubRepository) RemoveMember(ctx context.Context, id uint, at time.Time) error {
	return mustAffect(r.db.WithContext(ctx).
		Model(&models.ClubMember{}).
		Where("id = ?", id).
		UpdateColumns(map[string]interface{}{"deleted_at": at, "active_slot": nil, "is_active": false}))
}
