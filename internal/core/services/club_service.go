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

const clubModule = "club"

// ClubService handles clubs and their membership
type ClubService struct {
	uow    repositories.UnitOfWork
	gate   *AuthorizationGate
	clock  Clock
	logger *slog.Logger
}

// NewClubService creates a new club service
func NewClubService(uow repositories.UnitOfWork, gate *AuthorizationGate, clock Clock, log *slog.Logger) *ClubService {
	return &ClubService{
		uow:    uow,
		gate:   gate,
		clock:  clock,
		logger: logger.Resolve(log),
	}
}

// CreateClubInput represents club creation input
type CreateClubInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	LogoURL     string `json:"logo_url"`
	CoverURL    string `json:"cover_url"`
	SchoolID    *uint  `json:"school_id"`
}

// UpdateClubInput represents club update input; nil fields are left unchanged
type UpdateClubInput struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	LogoURL     *string `json:"logo_url"`
	CoverURL    *string `json:"cover_url"`
}

// CreateClub creates a club with the actor as president and first member
func (s *ClubService) CreateClub(ctx context.Context, actor *domain.Account, input CreateClubInput) (*domain.Club, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" || len(name) > 100 {
		return nil, domain.InvalidInputf("club name must be 1 to 100 characters")
	}

	var club *domain.Club
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx repositories.Store) error {
		president, err := s.gate.Reconfirm(ctx, tx, actor)
		if err != nil {
			return err
		}
		if err := checkSchool(ctx, tx, input.SchoolID); err != nil {
			return err
		}

		now := s.clock.Now()
		club = &domain.Club{
			Name:        name,
			Description: input.Description,
			LogoURL:     input.LogoURL,
			CoverURL:    input.CoverURL,
			SchoolID:    input.SchoolID,
			PresidentID: president.ID,
			IsActive:    true,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := tx.Clubs().Create(ctx, club); err != nil {
			return err
		}

		member := &domain.ClubMember{
			ClubID:    club.ID,
			UserID:    president.ID,
			Role:      domain.MemberRolePresident,
			IsActive:  true,
			CreatedAt: now,
		}
		if err := tx.Clubs().AddMember(ctx, member); err != nil {
			return err
		}
		if err := tx.Clubs().AdjustMemberCount(ctx, club.ID, 1); err != nil {
			return err
		}
		club.MemberCount = 1
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("club created",
		"event", "club_created",
		"module", clubModule,
		"club_id", club.ID,
		"president_id", club.PresidentID,
	)
	return club, nil
}

// UpdateClub changes the descriptive fields of a club; president only
func (s *ClubService) UpdateClub(ctx context.Context, actor *domain.Account, clubID uint, input UpdateClubInput) (*domain.Club, error) {
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" || len(name) > 100 {
			return nil, domain.InvalidInputf("club name must be 1 to 100 characters")
		}
		input.Name = &name
	}

	var club *domain.Club
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx repositories.Store) error {
		var err error
		club, err = s.presidentClub(ctx, tx, actor, clubID)
		if err != nil {
			return err
		}
		if input.Name != nil {
			club.Name = *input.Name
		}
		if input.Description != nil {
			club.Description = *input.Description
		}
		if input.LogoURL != nil {
			club.LogoURL = *input.LogoURL
		}
		if input.CoverURL != nil {
			club.CoverURL = *input.CoverURL
		}
		club.UpdatedAt = s.clock.Now()
		return tx.Clubs().Update(ctx, club)
	})
	if err != nil {
		return nil, err
	}
	return club, nil
}

// AddMember adds an account to the club; president only
func (s *ClubService) AddMember(ctx context.Context, actor *domain.Account, clubID, accountID uint, role string) (*domain.ClubMember, error) {
	role = strings.TrimSpace(role)
	if role == "" {
		role = domain.MemberRoleMember
	}
	if role == domain.MemberRolePresident {
		return nil, domain.InvalidInputf("a club has exactly one president")
	}

	var member *domain.ClubMember
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx repositories.Store) error {
		club, err := s.presidentClub(ctx, tx, actor, clubID)
		if err != nil {
			return err
		}
		if _, err := tx.Accounts().GetByID(ctx, accountID); err != nil {
			return notFoundAs(err, domain.ErrAccountNotFound)
		}

		if _, err := tx.Clubs().GetMember(ctx, club.ID, accountID); err == nil {
			return domain.ErrAlreadyMember
		} else if !errors.Is(err, domain.ErrNotFound) {
			return err
		}

		member = &domain.ClubMember{
			ClubID:    club.ID,
			UserID:    accountID,
			Role:      role,
			IsActive:  true,
			CreatedAt: s.clock.Now(),
		}
		if err := tx.Clubs().AddMember(ctx, member); err != nil {
			if errors.Is(err, domain.ErrConflict) {
				return domain.ErrAlreadyMember
			}
			return err
		}
		return tx.Clubs().AdjustMemberCount(ctx, club.ID, 1)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("club member added",
		"event", "club_member_added",
		"module", clubModule,
		"club_id", clubID,
		"account_id", accountID,
	)
	return member, nil
}

// RemoveMember logically deletes a membership; president only.
// The president's own membership cannot be removed.
func (s *ClubService) RemoveMember(ctx context.Context, actor *domain.Account, clubID, accountID uint) error {
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx repositories.Store) error {
		club, err := s.presidentClub(ctx, tx, actor, clubID)
		if err != nil {
			return err
		}
		member, err := tx.Clubs().GetMember(ctx, club.ID, accountID)
		if err != nil {
			return notFoundAs(err, domain.ErrMemberNotFound)
		}
		if accountID == club.PresidentID {
			return domain.InvalidStatef("the president cannot be removed from the club")
		}
		if err := tx.Clubs().RemoveMember(ctx, member.ID, s.clock.Now()); err != nil {
			return err
		}
		return tx.Clubs().AdjustMemberCount(ctx, club.ID, -1)
	})
	if err != nil {
		return err
	}

	s.logger.Info("club member removed",
		"event", "club_member_removed",
		"module", clubModule,
		"club_id", clubID,
		"account_id", accountID,
	)
	return nil
}

// GetClub gets a club by ID
func (s *ClubService) GetClub(ctx context.Context, clubID uint) (*domain.Club, error) {
	club, err := s.uow.Clubs().GetByID(ctx, clubID)
	if err != nil {
		return nil, notFoundAs(err, domain.ErrClubNotFound)
	}
	return club, nil
}

// ListClubs lists active clubs with pagination
func (s *ClubService) ListClubs(ctx context.Context, offset, limit int) ([]*domain.Club, int64, error) {
	return s.uow.Clubs().List(ctx, offset, limit)
}

// ListMembers lists active members of a club
func (s *ClubService) ListMembers(ctx context.Context, clubID uint) ([]*domain.ClubMember, error) {
	if _, err := s.GetClub(ctx, clubID); err != nil {
		return nil, err
	}
	return s.uow.Clubs().ListMembers(ctx, clubID)
}

// presidentClub reconfirms the actor inside tx, loads the club and requires presidency
func (s *ClubService) presidentClub(ctx context.Context, tx repositories.Store, actor *domain.Account, clubID uint) (*domain.Club, error) {
	current, err := s.gate.Reconfirm(ctx, tx, actor)
	if err != nil {
		return nil, err
	}
	club, err := tx.Clubs().GetByID(ctx, clubID)
	if err != nil {
		return nil, notFoundAs(err, domain.ErrClubNotFound)
	}
	if err := s.gate.Require(ctx, current, IsPresidentOf(club)); err != nil {
		return nil, err
	}
	return club, nil
}
