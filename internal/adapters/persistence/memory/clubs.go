package memory

import (
	"context"
	"time"

	"clubhub/internal/core/domain"
)

type clubRepository struct {
	b backend
}

func (r *clubRepository) Create(_ context.Context, club *domain.Club) error {
	return r.b.write(func(st *state) error {
		club.ID = st.next("clubs")
		st.clubs[club.ID] = *club
		return nil
	})
}

func (r *clubRepository) GetByID(_ context.Context, id uint) (*domain.Club, error) {
	var out *domain.Club
	err := r.b.read(func(st *state) error {
		c, ok := st.clubs[id]
		if !ok {
			return domain.ErrNotFound
		}
		out = &c
		return nil
	})
	return out, err
}

func (r *clubRepository) List(_ context.Context, offset, limit int) ([]*domain.Club, int64, error) {
	var all []*domain.Club
	err := r.b.read(func(st *state) error {
		ids := sortedIDs(st.clubs)
		for i := len(ids) - 1; i >= 0; i-- {
			c := st.clubs[ids[i]]
			if c.IsActive {
				all = append(all, &c)
			}
		}
		return nil
	})
	return page(all, offset, limit), int64(len(all)), err
}

func (r *clubRepository) Update(_ context.Context, club *domain.Club) error {
	return r.b.write(func(st *state) error {
		c, ok := st.clubs[club.ID]
		if !ok {
			return domain.ErrNotFound
		}
		c.Name = club.Name
		c.Description = club.Description
		c.LogoURL = club.LogoURL
		c.CoverURL = club.CoverURL
		c.UpdatedAt = club.UpdatedAt
		st.clubs[club.ID] = c
		return nil
	})
}

func (r *clubRepository) AdjustMemberCount(_ context.Context, id uint, delta int) error {
	return r.b.write(func(st *state) error {
		c, ok := st.clubs[id]
		if !ok {
			return domain.ErrNotFound
		}
		c.MemberCount = max(c.MemberCount+delta, 0)
		st.clubs[id] = c
		return nil
	})
}

func (r *clubRepository) AddMember(_ context.Context, member *domain.ClubMember) error {
	return r.b.write(func(st *state) error {
		for _, m := range st.members {
			if m.ClubID == member.ClubID && m.UserID == member.UserID && m.DeletedAt == nil {
				return domain.ErrConflict
			}
		}
		member.ID = st.next("club_members")
		st.members[member.ID] = *member
		return nil
	})
}

func (r *clubRepository) GetMember(_ context.Context, clubID, userID uint) (*domain.ClubMember, error) {
	var out *domain.ClubMember
	err := r.b.read(func(st *state) error {
		for _, m := range st.members {
			if m.ClubID == clubID && m.UserID == userID && m.IsActive && m.DeletedAt == nil {
				out = &m
				return nil
			}
		}
		return domain.ErrNotFound
	})
	return out, err
}

func (r *clubRepository) ListMembers(_ context.Context, clubID uint) ([]*domain.ClubMember, error) {
	var out []*domain.ClubMember
	err := r.b.read(func(st *state) error {
		for _, id := range sortedIDs(st.members) {
			m := st.members[id]
			if m.ClubID == clubID && m.IsActive && m.DeletedAt == nil {
				out = append(out, &m)
			}
		}
		return nil
	})
	return out, err
}

func (r *clubRepository) RemoveMember(_ context.Context, id uint, at time.Time) error {
	return r.b.write(func(st *state) error {
		m, ok := st.members[id]
		if !ok || m.DeletedAt != nil {
			return domain.ErrNotFound
		}
		m.DeletedAt = &at
		m.IsActive = false
		st.members[id] = m
		return nil
	})
}
