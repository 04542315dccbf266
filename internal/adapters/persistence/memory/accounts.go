package memory

import (
	"context"
	"errors"
	"time"

	"clubhub/internal/core/domain"
)

type accountRepository struct {
	b backend
}

func (r *accountRepository) Create(_ context.Context, account *domain.Account) error {
	return r.b.write(func(st *state) error {
		for _, a := range st.accounts {
			if a.DeletedAt == nil && a.Handle == account.Handle {
				return domain.ErrConflict
			}
		}
		account.ID = st.next("accounts")
		st.accounts[account.ID] = *account
		return nil
	})
}

func (r *accountRepository) GetByID(_ context.Context, id uint) (*domain.Account, error) {
	var out *domain.Account
	err := r.b.read(func(st *state) error {
		a, ok := st.accounts[id]
		if !ok || a.DeletedAt != nil {
			return domain.ErrNotFound
		}
		out = &a
		return nil
	})
	return out, err
}

// GetByIDShared is GetByID; transactions are already serialized
func (r *accountRepository) GetByIDShared(ctx context.Context, id uint) (*domain.Account, error) {
	return r.GetByID(ctx, id)
}

func (r *accountRepository) GetByHandle(_ context.Context, handle string) (*domain.Account, error) {
	var out *domain.Account
	err := r.b.read(func(st *state) error {
		for _, id := range sortedIDs(st.accounts) {
			a := st.accounts[id]
			if a.DeletedAt == nil && a.Handle == handle {
				out = &a
				return nil
			}
		}
		return domain.ErrNotFound
	})
	return out, err
}

func (r *accountRepository) ExistsByHandle(ctx context.Context, handle string) (bool, error) {
	_, err := r.GetByHandle(ctx, handle)
	if errors.Is(err, domain.ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (r *accountRepository) InitializeCredential(_ context.Context, id uint, hash string, profile domain.Profile, at time.Time) (bool, error) {
	var ok bool
	err := r.update(id, func(a *domain.Account) {
		if a.PasswordHash != nil {
			return
		}
		a.PasswordHash = &hash
		a.Profile = profile
		a.UpdatedAt = at
		ok = true
	})
	if errors.Is(err, domain.ErrNotFound) {
		return false, nil
	}
	return ok, err
}

func (r *accountRepository) RotateCredential(_ context.Context, id uint, expectedStamp int, hash string, at time.Time) (bool, error) {
	var ok bool
	err := r.update(id, func(a *domain.Account) {
		if a.RevocationStamp != expectedStamp {
			return
		}
		a.PasswordHash = &hash
		a.RevocationStamp++
		a.UpdatedAt = at
		ok = true
	})
	if errors.Is(err, domain.ErrNotFound) {
		return false, nil
	}
	return ok, err
}

func (r *accountRepository) SetActive(_ context.Context, id uint, active bool, at time.Time) error {
	return r.update(id, func(a *domain.Account) {
		a.IsActive = active
		a.UpdatedAt = at
	})
}

func (r *accountRepository) TouchLastLogin(_ context.Context, id uint, at time.Time) error {
	return r.update(id, func(a *domain.Account) {
		a.LastLoginAt = &at
	})
}

func (r *accountRepository) SoftDelete(_ context.Context, id uint, at time.Time) error {
	return r.update(id, func(a *domain.Account) {
		a.DeletedAt = &at
		a.UpdatedAt = at
	})
}

// update applies fn to a non-deleted account
func (r *accountRepository) update(id uint, fn func(a *domain.Account)) error {
	return r.b.write(func(st *state) error {
		a, ok := st.accounts[id]
		if !ok || a.DeletedAt != nil {
			return domain.ErrNotFound
		}
		fn(&a)
		st.accounts[id] = a
		return nil
	})
}
