package memory

import (
	"context"
	"sort"
	"strings"

	"clubhub/internal/adapters/persistence/repositories"
	"clubhub/internal/core/domain"
)

type dictionaryRepository struct {
	b backend
}

func (r *dictionaryRepository) CreateSchool(_ context.Context, school *domain.School) error {
	return r.b.write(func(st *state) error {
		school.ID = st.next("schools")
		st.schools[school.ID] = *school
		return nil
	})
}

func (r *dictionaryRepository) GetSchool(_ context.Context, id uint) (*domain.School, error) {
	var out *domain.School
	err := r.b.read(func(st *state) error {
		school, ok := st.schools[id]
		if !ok || !school.Available() {
			return domain.ErrNotFound
		}
		out = &school
		return nil
	})
	return out, err
}

func (r *dictionaryRepository) ListSchools(_ context.Context, filter repositories.SchoolFilter) ([]*domain.School, error) {
	var out []*domain.School
	err := r.b.read(func(st *state) error {
		for _, id := range sortedIDs(st.schools) {
			school := st.schools[id]
			if !school.Available() {
				continue
			}
			if filter.Province != "" && school.Province != filter.Province {
				continue
			}
			if filter.City != "" && school.City != filter.City {
				continue
			}
			if filter.Keyword != "" && !strings.Contains(school.Name, filter.Keyword) {
				continue
			}
			out = append(out, &school)
		}
		return nil
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, err
}

func (r *dictionaryRepository) ListProvinces(_ context.Context) ([]string, error) {
	var out []string
	err := r.b.read(func(st *state) error {
		out = distinctSorted(st.schools, func(s domain.School) (string, bool) {
			return s.Province, s.Available()
		})
		return nil
	})
	return out, err
}

func (r *dictionaryRepository) ListCities(_ context.Context, province string) ([]string, error) {
	var out []string
	err := r.b.read(func(st *state) error {
		out = distinctSorted(st.schools, func(s domain.School) (string, bool) {
			return s.City, s.Available() && (province == "" || s.Province == province)
		})
		return nil
	})
	return out, err
}

func (r *dictionaryRepository) CreateMajor(_ context.Context, major *domain.Major) error {
	return r.b.write(func(st *state) error {
		major.ID = st.next("majors")
		st.majors[major.ID] = *major
		return nil
	})
}

func (r *dictionaryRepository) ListMajors(_ context.Context, filter repositories.MajorFilter) ([]*domain.Major, error) {
	var out []*domain.Major
	err := r.b.read(func(st *state) error {
		for _, id := range sortedIDs(st.majors) {
			major := st.majors[id]
			if !major.IsActive || major.DeletedAt != nil {
				continue
			}
			switch {
			case filter.Keyword != "":
				if !strings.Contains(major.Name, filter.Keyword) {
					continue
				}
			case filter.SchoolID != nil:
				if major.SchoolID == nil || *major.SchoolID != *filter.SchoolID {
					continue
				}
			default:
				if major.SchoolID != nil {
					continue
				}
			}
			out = append(out, &major)
		}
		return nil
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, err
}

func (r *dictionaryRepository) ListMajorCategories(_ context.Context) ([]string, error) {
	var out []string
	err := r.b.read(func(st *state) error {
		out = distinctSorted(st.majors, func(m domain.Major) (string, bool) {
			return m.Category, m.IsActive && m.DeletedAt == nil
		})
		return nil
	})
	return out, err
}

// distinctSorted collects the non-empty values pick keeps, deduplicated and sorted
func distinctSorted[V any](rows map[uint]V, pick func(V) (string, bool)) []string {
	seen := map[string]bool{}
	out := []string{}
	for _, row := range rows {
		value, keep := pick(row)
		if !keep || value == "" || seen[value] {
			continue
		}
		seen[value] = true
		out = append(out, value)
	}
	sort.Strings(out)
	return out
}
