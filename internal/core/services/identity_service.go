package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"clubhub/internal/adapters/persistence/repositories"
	"clubhub/internal/core/domain"
	"clubhub/internal/pkg/jwt"
	"clubhub/internal/pkg/logger"
	"clubhub/internal/pkg/password"
)

const (
	identityModule = "identity"
	maxHandleLen   = 20
)

// IdentityService handles registration, login, initialization and credential rotation
type IdentityService struct {
	uow        repositories.UnitOfWork
	vault      *password.Vault
	issuer     *jwt.Issuer
	clock      Clock
	sessionTTL time.Duration
	metrics    Metrics
	logger     *slog.Logger
}

// NewIdentityService creates a new identity service
func NewIdentityService(
	uow repositories.UnitOfWork,
	vault *password.Vault,
	issuer *jwt.Issuer,
	clock Clock,
	sessionTTL time.Duration,
	metrics Metrics,
	log *slog.Logger,
) *IdentityService {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &IdentityService{
		uow:        uow,
		vault:      vault,
		issuer:     issuer,
		clock:      clock,
		sessionTTL: sessionTTL,
		metrics:    metrics,
		logger:     logger.Resolve(log),
	}
}

func normalizeHandle(handle string) (string, error) {
	handle = strings.TrimSpace(handle)
	if handle == "" || utf8.RuneCountInString(handle) > maxHandleLen {
		return "", domain.ErrInvalidHandle
	}
	return handle, nil
}

func (s *IdentityService) hash(raw string) (string, error) {
	digest, err := s.vault.Hash(raw)
	if errors.Is(err, password.ErrEmptyPassword) {
		return "", domain.ErrEmptyCredential
	}
	return digest, err
}

// Register creates an initialized account with stamp 0
func (s *IdentityService) Register(ctx context.Context, handle, raw string, profile domain.Profile) (*domain.Account, error) {
	account, err := s.register(ctx, handle, raw, profile)
	s.metrics.AuthAttempt("register", outcome(err))
	return account, err
}

func (s *IdentityService) register(ctx context.Context, handle, raw string, profile domain.Profile) (*domain.Account, error) {
	handle, err := normalizeHandle(handle)
	if err != nil {
		return nil, err
	}
	digest, err := s.hash(raw)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	account := &domain.Account{
		Handle:       handle,
		PasswordHash: &digest,
		IsActive:     true,
		Profile:      profile,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.createAccount(ctx, account); err != nil {
		return nil, err
	}

	s.logger.Info("account registered",
		"event", "identity_account_registered",
		"module", identityModule,
		"account_id", account.ID,
	)
	return account, nil
}

// Provision creates an uninitialized account and issues it a session for Initialize
func (s *IdentityService) Provision(ctx context.Context, handle string, profile domain.Profile) (*domain.Account, jwt.SessionToken, error) {
	handle, err := normalizeHandle(handle)
	if err != nil {
		return nil, jwt.SessionToken{}, err
	}

	now := s.clock.Now()
	account := &domain.Account{
		Handle:    handle,
		IsActive:  true,
		Profile:   profile,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.createAccount(ctx, account); err != nil {
		s.metrics.AuthAttempt("provision", outcome(err))
		return nil, jwt.SessionToken{}, err
	}

	token, err := s.issuer.Issue(account.ID, account.RevocationStamp, s.sessionTTL)
	s.metrics.AuthAttempt("provision", outcome(err))
	if err != nil {
		return nil, jwt.SessionToken{}, err
	}

	s.logger.Info("account provisioned",
		"event", "identity_account_provisioned",
		"module", identityModule,
		"account_id", account.ID,
	)
	return account, token, nil
}

func (s *IdentityService) createAccount(ctx context.Context, account *domain.Account) error {
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx repositories.Store) error {
		if err := checkSchool(ctx, tx, account.Profile.SchoolID); err != nil {
			return err
		}
		exists, err := tx.Accounts().ExistsByHandle(ctx, account.Handle)
		if err != nil {
			return err
		}
		if exists {
			return domain.ErrHandleTaken
		}
		if err := tx.Accounts().Create(ctx, account); err != nil {
			if errors.Is(err, domain.ErrConflict) {
				return domain.ErrHandleTaken
			}
			return err
		}
		return nil
	})
}

// Login verifies the credential and issues a session carrying the current stamp.
// It never changes the stamp, so other sessions stay valid.
func (s *IdentityService) Login(ctx context.Context, handle, raw string) (*domain.Account, jwt.SessionToken, error) {
	account, token, err := s.login(ctx, handle, raw)
	s.metrics.AuthAttempt("login", outcome(err))
	if err != nil {
		s.logger.Warn("login rejected",
			"event", "identity_login_rejected",
			"module", identityModule,
			"reason", err.Error(),
		)
		return nil, jwt.SessionToken{}, err
	}
	s.logger.Info("login succeeded",
		"event", "identity_login_succeeded",
		"module", identityModule,
		"account_id", account.ID,
	)
	return account, token, nil
}

func (s *IdentityService) login(ctx context.Context, handle, raw string) (*domain.Account, jwt.SessionToken, error) {
	account, err := s.uow.Accounts().GetByHandle(ctx, strings.TrimSpace(handle))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, jwt.SessionToken{}, domain.ErrInvalidCredentials
		}
		return nil, jwt.SessionToken{}, err
	}

	if !account.IsActive {
		return nil, jwt.SessionToken{}, domain.ErrAccountDisabled
	}
	if !account.IsInitialized() {
		return nil, jwt.SessionToken{}, domain.ErrNotInitialized
	}
	if !s.vault.Verify(raw, *account.PasswordHash) {
		return nil, jwt.SessionToken{}, domain.ErrInvalidCredentials
	}

	token, err := s.issuer.Issue(account.ID, account.RevocationStamp, s.sessionTTL)
	if err != nil {
		return nil, jwt.SessionToken{}, err
	}

	now := s.clock.Now()
	if err := s.uow.Accounts().TouchLastLogin(ctx, account.ID, now); err != nil {
		return nil, jwt.SessionToken{}, err
	}
	account.LastLoginAt = &now
	return account, token, nil
}

// Initialize sets the first credential and the profile. It succeeds once per account.
func (s *IdentityService) Initialize(ctx context.Context, actor *domain.Account, raw string, profile domain.Profile) error {
	err := s.initialize(ctx, actor, raw, profile)
	s.metrics.AuthAttempt("initialize", outcome(err))
	if err == nil {
		s.logger.Info("account initialized",
			"event", "identity_account_initialized",
			"module", identityModule,
			"account_id", actor.ID,
		)
	}
	return err
}

func (s *IdentityService) initialize(ctx context.Context, actor *domain.Account, raw string, profile domain.Profile) error {
	// An initialized account is rejected whatever the payload
	current, err := reconfirm(ctx, s.uow, actor)
	if err != nil {
		return err
	}
	if current.IsInitialized() {
		return domain.ErrAlreadyInitialized
	}

	digest, err := s.hash(raw)
	if err != nil {
		return err
	}

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx repositories.Store) error {
		account, err := reconfirm(ctx, tx, actor)
		if err != nil {
			return err
		}
		if account.IsInitialized() {
			return domain.ErrAlreadyInitialized
		}
		if err := checkSchool(ctx, tx, profile.SchoolID); err != nil {
			return err
		}

		ok, err := tx.Accounts().InitializeCredential(ctx, account.ID, digest, profile, s.clock.Now())
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrAlreadyInitialized
		}
		return nil
	})
}

// RotateCredential replaces the credential and increments the revocation stamp,
// invalidating every outstanding session of the account
func (s *IdentityService) RotateCredential(ctx context.Context, actor *domain.Account, oldRaw, newRaw string) error {
	err := s.rotateCredential(ctx, actor, oldRaw, newRaw)
	s.metrics.AuthAttempt("rotate_credential", outcome(err))
	if err == nil {
		s.logger.Info("credential rotated",
			"event", "identity_credential_rotated",
			"module", identityModule,
			"account_id", actor.ID,
		)
	}
	return err
}

func (s *IdentityService) rotateCredential(ctx context.Context, actor *domain.Account, oldRaw, newRaw string) error {
	digest, err := s.hash(newRaw)
	if err != nil {
		return err
	}

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx repositories.Store) error {
		account, err := reconfirm(ctx, tx, actor)
		if err != nil {
			return err
		}
		if !account.IsInitialized() {
			return domain.ErrNotInitialized
		}
		if !s.vault.Verify(oldRaw, *account.PasswordHash) {
			return domain.ErrInvalidCredentials
		}

		ok, err := tx.Accounts().RotateCredential(ctx, account.ID, account.RevocationStamp, digest, s.clock.Now())
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrConcurrentModification
		}
		return nil
	})
}

// Disable turns the account off; its sessions fail authentication with Forbidden
func (s *IdentityService) Disable(ctx context.Context, accountID uint) error {
	return s.setActive(ctx, accountID, false)
}

// Enable turns the account back on
func (s *IdentityService) Enable(ctx context.Context, accountID uint) error {
	return s.setActive(ctx, accountID, true)
}

func (s *IdentityService) setActive(ctx context.Context, accountID uint, active bool) error {
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx repositories.Store) error {
		return notFoundAs(tx.Accounts().SetActive(ctx, accountID, active, s.clock.Now()), domain.ErrAccountNotFound)
	})
	if err != nil {
		return err
	}
	s.logger.Info("account status changed",
		"event", "identity_account_status_changed",
		"module", identityModule,
		"account_id", accountID,
		"active", active,
	)
	return nil
}

// Delete logically deletes the account and frees its handle
func (s *IdentityService) Delete(ctx context.Context, accountID uint) error {
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx repositories.Store) error {
		return notFoundAs(tx.Accounts().SoftDelete(ctx, accountID, s.clock.Now()), domain.ErrAccountNotFound)
	})
	if err != nil {
		return err
	}
	s.logger.Info("account deleted",
		"event", "identity_account_deleted",
		"module", identityModule,
		"account_id", accountID,
	)
	return nil
}

// GetAccount returns a non-deleted account
func (s *IdentityService) GetAccount(ctx context.Context, accountID uint) (*domain.Account, error) {
	account, err := s.uow.Accounts().GetByID(ctx, accountID)
	if err != nil {
		return nil, notFoundAs(err, domain.ErrAccountNotFound)
	}
	return account, nil
}

// GetAccountByHandle returns the non-deleted account holding the handle
func (s *IdentityService) GetAccountByHandle(ctx context.Context, handle string) (*domain.Account, error) {
	account, err := s.uow.Accounts().GetByHandle(ctx, strings.TrimSpace(handle))
	if err != nil {
		return nil, notFoundAs(err, domain.ErrAccountNotFound)
	}
	return account, nil
}

// notFoundAs replaces a generic NotFound with a specific one
func notFoundAs(err, specific error) error {
	if err != nil && errors.Is(err, domain.ErrNotFound) {
		return specific
	}
	return err
}

// outcome labels an error for metrics
func outcome(err error) string {
	if err == nil {
		return "success"
	}
	if kind := domain.KindOf(err); kind != "" {
		return string(kind)
	}
	return "error"
}
