package services

import (
	"context"
	"errors"
	"log/slog"

	"clubhub/internal/adapters/persistence/repositories"
	"clubhub/internal/core/domain"
	"clubhub/internal/pkg/jwt"
	"clubhub/internal/pkg/logger"
)

const gateModule = "authorization"

// Predicate is one authorization check composed onto an authenticated account
type Predicate func(ctx context.Context, actor *domain.Account) error

// AuthorizationGate is the single authentication path and the home of capability checks
type AuthorizationGate struct {
	uow         repositories.UnitOfWork
	issuer      *jwt.Issuer
	permissions *PermissionService
	logger      *slog.Logger
}

// NewAuthorizationGate creates a new authorization gate
func NewAuthorizationGate(uow repositories.UnitOfWork, issuer *jwt.Issuer, permissions *PermissionService, log *slog.Logger) *AuthorizationGate {
	return &AuthorizationGate{
		uow:         uow,
		issuer:      issuer,
		permissions: permissions,
		logger:      logger.Resolve(log),
	}
}

// Authenticate resolves the account behind a raw session token.
// Checks run in order: token structure and expiry, live account,
// revocation stamp, active flag.
func (g *AuthorizationGate) Authenticate(ctx context.Context, rawToken string) (*domain.Account, error) {
	claims, err := g.issuer.Validate(rawToken)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrSessionExpired
		}
		return nil, domain.ErrSessionInvalid
	}

	account, err := g.uow.Accounts().GetByID(ctx, claims.AccountID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrAccountGone
		}
		return nil, err
	}

	if claims.RevocationStamp != account.RevocationStamp {
		g.logger.Info("revoked session presented",
			"event", "authz_session_revoked",
			"module", gateModule,
			"account_id", account.ID,
		)
		return nil, domain.ErrSessionRevoked
	}

	if !account.IsActive {
		return nil, domain.ErrAccountDisabled
	}

	return account, nil
}

// Require evaluates predicates in order and returns the first failure
func (g *AuthorizationGate) Require(ctx context.Context, actor *domain.Account, predicates ...Predicate) error {
	for _, p := range predicates {
		if err := p(ctx, actor); err != nil {
			if errors.Is(err, domain.ErrForbidden) {
				g.logger.Warn("authorization denied",
					"event", "authz_check_denied",
					"module", gateModule,
					"account_id", actor.ID,
					"reason", err.Error(),
				)
			}
			return err
		}
	}
	return nil
}

// Reconfirm re-reads the actor inside tx under a shared lock and repeats the
// deleted, stamp and active checks against the committed row
func (g *AuthorizationGate) Reconfirm(ctx context.Context, tx repositories.Store, actor *domain.Account) (*domain.Account, error) {
	return reconfirm(ctx, tx, actor)
}

func reconfirm(ctx context.Context, tx repositories.Store, actor *domain.Account) (*domain.Account, error) {
	account, err := tx.Accounts().GetByIDShared(ctx, actor.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrAccountGone
		}
		return nil, err
	}
	if account.RevocationStamp != actor.RevocationStamp {
		return nil, domain.ErrSessionRevoked
	}
	if !account.IsActive {
		return nil, domain.ErrAccountDisabled
	}
	return account, nil
}

// HasPermission requires the permission code
func (g *AuthorizationGate) HasPermission(code string) Predicate {
	return func(ctx context.Context, actor *domain.Account) error {
		ok, err := g.permissions.HasPermission(ctx, actor.ID, code)
		if err != nil {
			return err
		}
		if !ok {
			return domain.Forbiddenf("missing permission %q", code)
		}
		return nil
	}
}

// HasRole requires the role code
func (g *AuthorizationGate) HasRole(code string) Predicate {
	return func(ctx context.Context, actor *domain.Account) error {
		ok, err := g.permissions.HasRole(ctx, actor.ID, code)
		if err != nil {
			return err
		}
		if !ok {
			return domain.Forbiddenf("missing role %q", code)
		}
		return nil
	}
}

// IsPresidentOf requires the actor to be the club's president
func IsPresidentOf(club *domain.Club) Predicate {
	return func(_ context.Context, actor *domain.Account) error {
		if club.PresidentID != actor.ID {
			return domain.Forbiddenf("only the president of club %d may do this", club.ID)
		}
		return nil
	}
}

// IsInterviewerOf requires the actor to be the interview's interviewer
func IsInterviewerOf(interview *domain.Interview) Predicate {
	return func(_ context.Context, actor *domain.Account) error {
		if interview.InterviewerID != actor.ID {
			return domain.Forbiddenf("only the interviewer of interview %d may do this", interview.ID)
		}
		return nil
	}
}

// IsAccount requires the actor to be the given account
func IsAccount(accountID uint) Predicate {
	return func(_ context.Context, actor *domain.Account) error {
		if actor.ID != accountID {
			return domain.Forbiddenf("only account %d may do this", accountID)
		}
		return nil
	}
}

// AnyOf passes when at least one predicate passes; otherwise it returns the last failure
func AnyOf(predicates ...Predicate) Predicate {
	return func(ctx context.Context, actor *domain.Account) error {
		err := domain.Forbiddenf("no capability matched")
		for _, p := range predicates {
			if err = p(ctx, actor); err == nil {
				return nil
			}
			if !errors.Is(err, domain.ErrForbidden) {
				return err
			}
		}
		return err
	}
}
