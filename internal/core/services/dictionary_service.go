package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"clubhub/internal/adapters/persistence/repositories"
	"clubhub/internal/core/domain"
	"clubhub/internal/pkg/logger"
)

const dictionaryModule = "dictionary"

// DictionaryService serves the school and major reference data
type DictionaryService struct {
	uow    repositories.UnitOfWork
	logger *slog.Logger
}

// NewDictionaryService creates a new dictionary service
func NewDictionaryService(uow repositories.UnitOfWork, log *slog.Logger) *DictionaryService {
	return &DictionaryService{uow: uow, logger: logger.Resolve(log)}
}

// CreateSchoolInput represents school creation input
type CreateSchoolInput struct {
	Name     string `json:"name"`
	Code     string `json:"code"`
	Province string `json:"province"`
	City     string `json:"city"`
}

// CreateMajorInput represents major creation input; a nil SchoolID makes a general major
type CreateMajorInput struct {
	Name     string `json:"name"`
	Code     string `json:"code"`
	Category string `json:"category"`
	SchoolID *uint  `json:"school_id"`
}

// ListSchools lists enabled schools ordered by name
func (s *DictionaryService) ListSchools(ctx context.Context, filter repositories.SchoolFilter) ([]*domain.School, error) {
	return s.uow.Dictionary().ListSchools(ctx, filter)
}

// GetSchool returns an enabled school
func (s *DictionaryService) GetSchool(ctx context.Context, id uint) (*domain.School, error) {
	school, err := s.uow.Dictionary().GetSchool(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrSchoolNotFound
	}
	return school, err
}

// ListProvinces lists the distinct provinces of enabled schools
func (s *DictionaryService) ListProvinces(ctx context.Context) ([]string, error) {
	return nonNil(s.uow.Dictionary().ListProvinces(ctx))
}

// ListCities lists the distinct cities of enabled schools, optionally within a province
func (s *DictionaryService) ListCities(ctx context.Context, province string) ([]string, error) {
	return nonNil(s.uow.Dictionary().ListCities(ctx, strings.TrimSpace(province)))
}

// ListMajors lists enabled majors. See repositories.MajorFilter for the selection rules.
func (s *DictionaryService) ListMajors(ctx context.Context, filter repositories.MajorFilter) ([]*domain.Major, error) {
	return s.uow.Dictionary().ListMajors(ctx, filter)
}

// ListMajorCategories lists the distinct categories of enabled majors
func (s *DictionaryService) ListMajorCategories(ctx context.Context) ([]string, error) {
	return nonNil(s.uow.Dictionary().ListMajorCategories(ctx))
}

// CreateSchool adds a school to the dictionary
func (s *DictionaryService) CreateSchool(ctx context.Context, input CreateSchoolInput) (*domain.School, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" || len(name) > 100 {
		return nil, domain.InvalidInputf("school name must be 1 to 100 characters")
	}

	school := &domain.School{
		Name:     name,
		Code:     strings.TrimSpace(input.Code),
		Province: strings.TrimSpace(input.Province),
		City:     strings.TrimSpace(input.City),
		IsActive: true,
	}
	if err := s.uow.Dictionary().CreateSchool(ctx, school); err != nil {
		return nil, err
	}

	s.logger.Info("school created",
		"event", "dictionary_school_created",
		"module", dictionaryModule,
		"school_id", school.ID,
	)
	return school, nil
}

// CreateMajor adds a major, checking that its school exists
func (s *DictionaryService) CreateMajor(ctx context.Context, input CreateMajorInput) (*domain.Major, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" || len(name) > 100 {
		return nil, domain.InvalidInputf("major name must be 1 to 100 characters")
	}

	major := &domain.Major{
		Name:     name,
		Code:     strings.TrimSpace(input.Code),
		Category: strings.TrimSpace(input.Category),
		SchoolID: input.SchoolID,
		IsActive: true,
	}
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx repositories.Store) error {
		if err := checkSchool(ctx, tx, major.SchoolID); err != nil {
			return err
		}
		return tx.Dictionary().CreateMajor(ctx, major)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("major created",
		"event", "dictionary_major_created",
		"module", dictionaryModule,
		"major_id", major.ID,
	)
	return major, nil
}

// checkSchool fails with ErrSchoolNotFound when schoolID is set but names no enabled school
func checkSchool(ctx context.Context, st repositories.Store, schoolID *uint) error {
	if schoolID == nil {
		return nil
	}
	_, err := st.Dictionary().GetSchool(ctx, *schoolID)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.ErrSchoolNotFound
	}
	return err
}

func nonNil(values []string, err error) ([]string, error) {
	if err != nil {
		return nil, err
	}
	if values == nil {
		values = []string{}
	}
	return values, nil
}
