package memory

import (
	"context"
	"time"

	"clubhub/internal/adapters/persistence/repositories"
	"clubhub/internal/core/domain"
)

type recruitmentRepository struct {
	b backend
}

func (r *recruitmentRepository) Create(_ context.Context, recruitment *domain.Recruitment) error {
	return r.b.write(func(st *state) error {
		recruitment.ID = st.next("recruitments")
		st.recruitments[recruitment.ID] = *recruitment
		return nil
	})
}

func (r *recruitmentRepository) GetByID(_ context.Context, id uint) (*domain.Recruitment, error) {
	var out *domain.Recruitment
	err := r.b.read(func(st *state) error {
		rec, ok := st.recruitments[id]
		if !ok {
			return domain.ErrNotFound
		}
		out = &rec
		return nil
	})
	return out, err
}

func (r *recruitmentRepository) List(_ context.Context, filter repositories.RecruitmentFilter, offset, limit int) ([]*domain.Recruitment, int64, error) {
	var all []*domain.Recruitment
	err := r.b.read(func(st *state) error {
		ids := sortedIDs(st.recruitments)
		for i := len(ids) - 1; i >= 0; i-- {
			rec := st.recruitments[ids[i]]
			if filter.ClubID != nil && rec.ClubID != *filter.ClubID {
				continue
			}
			if filter.Status != nil && rec.Status != *filter.Status {
				continue
			}
			all = append(all, &rec)
		}
		return nil
	})
	return page(all, offset, limit), int64(len(all)), err
}

func (r *recruitmentRepository) ListExpiredOpen(_ context.Context, now time.Time) ([]*domain.Recruitment, error) {
	var out []*domain.Recruitment
	err := r.b.read(func(st *state) error {
		for _, id := range sortedIDs(st.recruitments) {
			rec := st.recruitments[id]
			if rec.Status == domain.RecruitmentOpen && rec.EndTime.Before(now) {
				out = append(out, &rec)
			}
		}
		return nil
	})
	return out, err
}

func (r *recruitmentRepository) UpdateStatus(_ context.Context, id uint, from, to domain.RecruitmentStatus, at time.Time) (bool, error) {
	var ok bool
	err := r.b.write(func(st *state) error {
		rec, found := st.recruitments[id]
		if !found || rec.Status != from {
			return nil
		}
		rec.Status = to
		rec.UpdatedAt = at
		st.recruitments[id] = rec
		ok = true
		return nil
	})
	return ok, err
}

func (r *recruitmentRepository) AdjustApplicationCount(_ context.Context, id uint, delta int) error {
	return r.b.write(func(st *state) error {
		rec, ok := st.recruitments[id]
		if !ok {
			return domain.ErrNotFound
		}
		rec.ApplicationCount = max(rec.ApplicationCount+delta, 0)
		st.recruitments[id] = rec
		return nil
	})
}

type applicationRepository struct {
	b backend
}

func (r *applicationRepository) Create(_ context.Context, application *domain.Application) error {
	return r.b.write(func(st *state) error {
		for _, a := range st.applications {
			if a.RecruitmentID == application.RecruitmentID && a.UserID == application.UserID && a.Status.Occupying() {
				return domain.ErrConflict
			}
		}
		application.ID = st.next("applications")
		st.applications[application.ID] = *application
		return nil
	})
}

func (r *applicationRepository) GetByID(_ context.Context, id uint) (*domain.Application, error) {
	var out *domain.Application
	err := r.b.read(func(st *state) error {
		a, ok := st.applications[id]
		if !ok {
			return domain.ErrNotFound
		}
		out = &a
		return nil
	})
	return out, err
}

func (r *applicationRepository) FindActive(_ context.Context, recruitmentID, userID uint) (*domain.Application, error) {
	var out *domain.Application
	err := r.b.read(func(st *state) error {
		for _, a := range st.applications {
			if a.RecruitmentID == recruitmentID && a.UserID == userID && a.Status.Occupying() {
				out = &a
				return nil
			}
		}
		return domain.ErrNotFound
	})
	return out, err
}

func (r *applicationRepository) ListByRecruitment(_ context.Context, recruitmentID uint, offset, limit int) ([]*domain.Application, int64, error) {
	var all []*domain.Application
	err := r.b.read(func(st *state) error {
		for _, id := range sortedIDs(st.applications) {
			a := st.applications[id]
			if a.RecruitmentID == recruitmentID {
				all = append(all, &a)
			}
		}
		return nil
	})
	return page(all, offset, limit), int64(len(all)), err
}

func (r *applicationRepository) ListByUser(_ context.Context, userID uint) ([]*domain.Application, error) {
	var out []*domain.Application
	err := r.b.read(func(st *state) error {
		ids := sortedIDs(st.applications)
		for i := len(ids) - 1; i >= 0; i-- {
			a := st.applications[ids[i]]
			if a.UserID == userID {
				out = append(out, &a)
			}
		}
		return nil
	})
	return out, err
}

func (r *applicationRepository) Save(_ context.Context, application *domain.Application, from domain.ApplicationStatus) (bool, error) {
	var ok bool
	err := r.b.write(func(st *state) error {
		a, found := st.applications[application.ID]
		if !found || a.Status != from {
			return nil
		}
		if application.Status.Occupying() && !from.Occupying() {
			for id, other := range st.applications {
				if id != a.ID && other.RecruitmentID == a.RecruitmentID && other.UserID == a.UserID && other.Status.Occupying() {
					return domain.ErrConflict
				}
			}
		}
		a.Status = application.Status
		a.ReviewedBy = application.ReviewedBy
		a.ReviewedAt = application.ReviewedAt
		a.ReviewComment = application.ReviewComment
		a.UpdatedAt = application.UpdatedAt
		st.applications[a.ID] = a
		ok = true
		return nil
	})
	return ok, err
}

type interviewRepository struct {
	b backend
}

func (r *interviewRepository) Create(_ context.Context, interview *domain.Interview) error {
	return r.b.write(func(st *state) error {
		for _, iv := range st.interviews {
			if iv.ApplicationID == interview.ApplicationID && iv.Status.Occupying() {
				return domain.ErrConflict
			}
		}
		interview.ID = st.next("interviews")
		st.interviews[interview.ID] = *interview
		return nil
	})
}

func (r *interviewRepository) GetByID(_ context.Context, id uint) (*domain.Interview, error) {
	var out *domain.Interview
	err := r.b.read(func(st *state) error {
		iv, ok := st.interviews[id]
		if !ok {
			return domain.ErrNotFound
		}
		out = &iv
		return nil
	})
	return out, err
}

func (r *interviewRepository) FindActive(_ context.Context, applicationID uint) (*domain.Interview, error) {
	var out *domain.Interview
	err := r.b.read(func(st *state) error {
		for _, iv := range st.interviews {
			if iv.ApplicationID == applicationID && iv.Status.Occupying() {
				out = &iv
				return nil
			}
		}
		return domain.ErrNotFound
	})
	return out, err
}

func (r *interviewRepository) Save(_ context.Context, interview *domain.Interview, from domain.InterviewStatus) (bool, error) {
	var ok bool
	err := r.b.write(func(st *state) error {
		iv, found := st.interviews[interview.ID]
		if !found || iv.Status != from {
			return nil
		}
		iv.Status = interview.Status
		iv.Result = interview.Result
		iv.Score = interview.Score
		iv.Comment = interview.Comment
		iv.CompletedAt = interview.CompletedAt
		iv.UpdatedAt = interview.UpdatedAt
		st.interviews[iv.ID] = iv
		ok = true
		return nil
	})
	return ok, err
}
