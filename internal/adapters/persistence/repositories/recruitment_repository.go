package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"

	"clubhub/internal/adapters/persistence/models"
	"clubhub/internal/core/domain"
)

// recruitmentRepository implements RecruitmentRepository interface
type recruitmentRepository struct {
	db *gorm.DB
}

// NewRecruitmentRepository creates a new recruitment repository
func NewRecruitmentRepository(db *gorm.DB) RecruitmentRepository {
	return &recruitmentRepository{db: db}
}

// Create creates a new recruitment
func (r *recruitmentRepository) Create(ctx context.Context, recruitment *domain.Recruitment) error {
	m := models.NewRecruitment(recruitment)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return translate(err)
	}
	recruitment.ID = m.ID
	recruitment.CreatedAt = m.CreatedAt
	recruitment.UpdatedAt = m.UpdatedAt
	return nil
}

// GetByID gets a recruitment by ID
func (r *recruitmentRepository) GetByID(ctx context.Context, id uint) (*domain.Recruitment, error) {
	var m models.Recruitment
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, translate(err)
	}
	return m.ToDomain(), nil
}

// List lists recruitments with filters and pagination
func (r *recruitmentRepository) List(ctx context.Context, filter RecruitmentFilter, offset, limit int) ([]*domain.Recruitment, int64, error) {
	var rows []*models.Recruitment
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Recruitment{})
	if filter.ClubID != nil {
		query = query.Where("club_id = ?", *filter.ClubID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", int(*filter.Status))
	}
	query = query.Session(&gorm.Session{})

	// Count total
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Order("id DESC").Offset(offset).Limit(limit).Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	recruitments := make([]*domain.Recruitment, 0, len(rows))
	for _, m := range rows {
		recruitments = append(recruitments, m.ToDomain())
	}
	return recruitments, total, nil
}

// ListExpiredOpen lists open recruitments whose window ended before now
func (r *recruitmentRepository) ListExpiredOpen(ctx context.Context, now time.Time) ([]*domain.Recruitment, error) {
	var rows []*models.Recruitment
	err := r.db.WithContext(ctx).
		Where("status = ? AND end_time < ?", int(domain.RecruitmentOpen), now).
		Order("id").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	recruitments := make([]*domain.Recruitment, 0, len(rows))
	for _, m := range rows {
		recruitments = append(recruitments, m.ToDomain())
	}
	return recruitments, nil
}

// UpdateStatus performs a compare-and-set on status
func (r *recruitmentRepository) UpdateStatus(ctx context.Context, id uint, from, to domain.RecruitmentStatus, at time.Time) (bool, error) {
	return affected(r.db.WithContext(ctx).
		Model(&models.Recruitment{}).
		Where("id = ? AND status = ?", id, int(from)).
		Updates(map[string]interface{}{"status": int(to), "updated_at": at}))
}

// AdjustApplicationCount applies delta to the application counter in place
func (r *recruitmentRepository) AdjustApplicationCount(ctx context.Context, id uint, delta int) error {
	return mustAffect(r.db.WithContext(ctx).
		Model(&models.Recruitment{}).
		Where("id = ?", id).
		UpdateColumn("application_count", gorm.Expr(
			"CASE WHEN application_count + ? < 0 THEN 0 ELSE application_count + ? END", delta, delta)))
}
