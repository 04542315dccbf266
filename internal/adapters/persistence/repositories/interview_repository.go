package repositories

import (
	"context"

	"gorm.io/gorm"

	"clubhub/internal/adapters/persistence/models"
	"clubhub/internal/core/domain"
)

// interviewRepository implements InterviewRepository interface
type interviewRepository struct {
	db *gorm.DB
}

// NewInterviewRepository creates a new interview repository
func NewInterviewRepository(db *gorm.DB) InterviewRepository {
	return &interviewRepository{db: db}
}

// Create creates a new interview; a second non-cancelled interview for the
// same application fails on uk_interviews
func (r *interviewRepository) Create(ctx context.Context, interview *domain.Interview) error {
	m := models.NewInterview(interview)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return translate(err)
	}
	interview.ID = m.ID
	interview.CreatedAt = m.CreatedAt
	interview.UpdatedAt = m.UpdatedAt
	return nil
}

// GetByID gets an interview by ID
func (r *interviewRepository) GetByID(ctx context.Context, id uint) (*domain.Interview, error) {
	var m models.Interview
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, translate(err)
	}
	return m.ToDomain(), nil
}

// FindActive gets the non-cancelled interview of an application
func (r *interviewRepository) FindActive(ctx context.Context, applicationID uint) (*domain.Interview, error) {
	var m models.Interview
	err := r.db.WithContext(ctx).
		Where("application_id = ? AND status <> ?", applicationID, int(domain.InterviewCancelled)).
		First(&m).Error
	if err != nil {
		return nil, translate(err)
	}
	return m.ToDomain(), nil
}

// Save writes status and outcome fields guarded by the previous status
func (r *interviewRepository) Save(ctx context.Context, interview *domain.Interview, from domain.InterviewStatus) (bool, error) {
	m := models.NewInterview(interview)
	return affected(r.db.WithContext(ctx).
		Model(&models.Interview{}).
		Where("id = ? AND status = ?", interview.ID, int(from)).
		Updates(map[string]interface{}{
			"status":       m.Status,
			"active_slot":  m.ActiveSlot,
			"result":       m.Result,
			"score":        m.Score,
			"comment":      m.Comment,
			"completed_at": m.CompletedAt,
			"updated_at":   m.UpdatedAt,
		}))
}
