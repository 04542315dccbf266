package repositories

import (
	"context"

	"gorm.io/gorm"

	"clubhub/internal/adapters/persistence/models"
	"clubhub/internal/core/domain"
)

// applicationRepository implements ApplicationRepository interface
type applicationRepository struct {
	db *gorm.DB
}

// NewApplicationRepository creates a new application repository
func NewApplicationRepository(db *gorm.DB) ApplicationRepository {
	return &applicationRepository{db: db}
}

// Create creates a new application; a second active application for the
// same (recruitment, account) fails on uk_applications
func (r *applicationRepository) Create(ctx context.Context, application *domain.Application) error {
	m := models.NewApplication(application)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return translate(err)
	}
	application.ID = m.ID
	application.CreatedAt = m.CreatedAt
	application.UpdatedAt = m.UpdatedAt
	return nil
}

// GetByID gets an application by ID
func (r *applicationRepository) GetByID(ctx context.Context, id uint) (*domain.Application, error) {
	var m models.Application
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, translate(err)
	}
	return m.ToDomain(), nil
}

// FindActive gets the non-withdrawn application of an account
func (r *applicationRepository) FindActive(ctx context.Context, recruitmentID, userID uint) (*domain.Application, error) {
	var m models.Application
	err := r.db.WithContext(ctx).
		Where("recruitment_id = ? AND user_id = ?", recruitmentID, userID).
		Where("status <> ?", int(domain.ApplicationWithdrawn)).
		First(&m).Error
	if err != nil {
		return nil, translate(err)
	}
	return m.ToDomain(), nil
}

// ListByRecruitment lists applications of a recruitment with pagination
func (r *applicationRepository) ListByRecruitment(ctx context.Context, recruitmentID uint, offset, limit int) ([]*domain.Application, int64, error) {
	var rows []*models.Application
	var total int64

	query := r.db.WithContext(ctx).
		Model(&models.Application{}).
		Where("recruitment_id = ?", recruitmentID).
		Session(&gorm.Session{})

	// Count total
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Order("id").Offset(offset).Limit(limit).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return toApplications(rows), total, nil
}

// ListByUser lists all applications of an account
func (r *applicationRepository) ListByUser(ctx context.Context, userID uint) ([]*domain.Application, error) {
	var rows []*models.Application
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("id DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return toApplications(rows), nil
}

// Save writes status and review fields guarded by the previous status
func (r *applicationRepository) Save(ctx context.Context, application *domain.Application, from domain.ApplicationStatus) (bool, error) {
	m := models.NewApplication(application)
	return affected(r.db.WithContext(ctx).
		Model(&models.Application{}).
		Where("id = ? AND status = ?", application.ID, int(from)).
		Updates(map[string]interface{}{
			"status":         m.Status,
			"active_slot":    m.ActiveSlot,
			"reviewed_by":    m.ReviewedBy,
			"reviewed_at":    m.ReviewedAt,
			"review_comment": m.ReviewComment,
			"updated_at":     m.UpdatedAt,
		}))
}

func toApplications(rows []*models.Application) []*domain.Application {
	applications := make([]*domain.Application, 0, len(rows))
	for _, m := range rows {
		applications = append(applications, m.ToDomain())
	}
	return applications
}
