package repositories

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"clubhub/internal/adapters/persistence/models"
	"clubhub/internal/core/domain"
)

// dictionaryRepository implements DictionaryRepository interface
type dictionaryRepository struct {
	db *gorm.DB
}

// NewDictionaryRepository creates a new school and major dictionary repository
func NewDictionaryRepository(db *gorm.DB) DictionaryRepository {
	return &dictionaryRepository{db: db}
}

// ============================================================
// Schools
// ============================================================

func (r *dictionaryRepository) CreateSchool(ctx context.Context, school *domain.School) error {
	m := models.NewSchool(school)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return translate(err)
	}
	school.ID = m.ID
	return nil
}

func (r *dictionaryRepository) GetSchool(ctx context.Context, id uint) (*domain.School, error) {
	var m models.School
	if err := r.db.WithContext(ctx).Where("id = ? AND status = 1", id).First(&m).Error; err != nil {
		return nil, translate(err)
	}
	return m.ToDomain(), nil
}

func (r *dictionaryRepository) ListSchools(ctx context.Context, filter SchoolFilter) ([]*domain.School, error) {
	query := r.db.WithContext(ctx).Where("status = 1")
	if filter.Province != "" {
		query = query.Where("province = ?", filter.Province)
	}
	if filter.City != "" {
		query = query.Where("city = ?", filter.City)
	}
	if filter.Keyword != "" {
		query = query.Where("name LIKE ?", likePattern(filter.Keyword))
	}

	var rows []*models.School
	if err := query.Order("name").Find(&rows).Error; err != nil {
		return nil, err
	}
	schools := make([]*domain.School, 0, len(rows))
	for _, m := range rows {
		schools = append(schools, m.ToDomain())
	}
	return schools, nil
}

func (r *dictionaryRepository) ListProvinces(ctx context.Context) ([]string, error) {
	var provinces []string
	err := r.db.WithContext(ctx).
		Model(&models.School{}).
		Where("status = 1 AND province <> ''").
		Distinct().
		Order("province").
		Pluck("province", &provinces).Error
	return provinces, err
}

func (r *dictionaryRepository) ListCities(ctx context.Context, province string) ([]string, error) {
	query := r.db.WithContext(ctx).
		Model(&models.School{}).
		Where("status = 1 AND city <> ''")
	if province != "" {
		query = query.Where("province = ?", province)
	}

	var cities []string
	err := query.Distinct().Order("city").Pluck("city", &cities).Error
	return cities, err
}

// ============================================================
// Majors
// ============================================================

func (r *dictionaryRepository) CreateMajor(ctx context.Context, major *domain.Major) error {
	m := models.NewMajor(major)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return translate(err)
	}
	major.ID = m.ID
	return nil
}

func (r *dictionaryRepository) ListMajors(ctx context.Context, filter MajorFilter) ([]*domain.Major, error) {
	query := r.db.WithContext(ctx).Where("status = 1")
	switch {
	case filter.Keyword != "":
		query = query.Where("name LIKE ?", likePattern(filter.Keyword))
	case filter.SchoolID != nil:
		query = query.Where("school_id = ?", *filter.SchoolID)
	default:
		query = query.Where("school_id IS NULL")
	}

	var rows []*models.Major
	if err := query.Order("name").Find(&rows).Error; err != nil {
		return nil, err
	}
	majors := make([]*domain.Major, 0, len(rows))
	for _, m := range rows {
		majors = append(majors, m.ToDomain())
	}
	return majors, nil
}

func (r *dictionaryRepository) ListMajorCategories(ctx context.Context) ([]string, error) {
	var categories []string
	err := r.db.WithContext(ctx).
		Model(&models.Major{}).
		Where("status = 1 AND category <> ''").
		Distinct().
		Order("category").
		Pluck("category", &categories).Error
	return categories, err
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// likePattern matches keyword anywhere, treating LIKE wildcards in it literally
func likePattern(keyword string) string {
	return "%" + likeEscaper.Replace(keyword) + "%"
}
