package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"clubhub/internal/adapters/persistence/models"
	"clubhub/internal/core/domain"
)

// accountRepository implements AccountRepository interface
type accountRepository struct {
	db *gorm.DB
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(db *gorm.DB) AccountRepository {
	return &accountRepository{db: db}
}

// Create creates a new account
func (r *accountRepository) Create(ctx context.Context, account *domain.Account) error {
	m := models.NewAccount(account)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return translate(err)
	}
	account.ID = m.ID
	account.CreatedAt = m.CreatedAt
	account.UpdatedAt = m.UpdatedAt
	return nil
}

// GetByID gets a non-deleted account by ID
func (r *accountRepository) GetByID(ctx context.Context, id uint) (*domain.Account, error) {
	var m models.Account
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error
	if err != nil {
		return nil, translate(err)
	}
	return m.ToDomain(), nil
}

// GetByIDShared gets a non-deleted account by ID holding a shared lock
func (r *accountRepository) GetByIDShared(ctx context.Context, id uint) (*domain.Account, error) {
	var m models.Account
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "SHARE"}).
		Where("id = ?", id).
		First(&m).Error
	if err != nil {
		return nil, translate(err)
	}
	return m.ToDomain(), nil
}

// GetByHandle gets a non-deleted account by handle
func (r *accountRepository) GetByHandle(ctx context.Context, handle string) (*domain.Account, error) {
	var m models.Account
	err := r.db.WithContext(ctx).Where("handle = ?", handle).First(&m).Error
	if err != nil {
		return nil, translate(err)
	}
	return m.ToDomain(), nil
}

// ExistsByHandle checks if a non-deleted account holds the handle
func (r *accountRepository) ExistsByHandle(ctx context.Context, handle string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Account{}).Where("handle = ?", handle).Count(&count).Error
	return count > 0, err
}

// InitializeCredential sets the first credential and profile
func (r *accountRepository) InitializeCredential(ctx context.Context, id uint, hash string, profile domain.Profile, at time.Time) (bool, error) {
	updates := models.ProfileColumns(profile)
	updates["password_hash"] = hash
	updates["updated_at"] = at
	return affected(r.db.WithContext(ctx).
		Model(&models.Account{}).
		Where("id = ? AND password_hash IS NULL", id).
		Updates(updates))
}

// RotateCredential replaces the credential and increments the revocation stamp
func (r *accountRepository) RotateCredential(ctx context.Context, id uint, expectedStamp int, hash string, at time.Time) (bool, error) {
	return affected(r.db.WithContext(ctx).
		Model(&models.Account{}).
		Where("id = ? AND revocation_stamp = ?", id, expectedStamp).
		Updates(map[string]interface{}{
			"password_hash":    hash,
			"revocation_stamp": gorm.Expr("revocation_stamp + 1"),
			"updated_at":       at,
		}))
}

// SetActive enables or disables an account
func (r *accountRepository) SetActive(ctx context.Context, id uint, active bool, at time.Time) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Account{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return domain.ErrNotFound
	}
	return r.db.WithContext(ctx).
		Model(&models.Account{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"is_active": active, "updated_at": at}).Error
}

// TouchLastLogin records a successful login
func (r *accountRepository) TouchLastLogin(ctx context.Context, id uint, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.Account{}).
		Where("id = ?", id).
		UpdateColumn("last_login_at", at).Error
}

// SoftDelete marks the account deleted and releases its handle
func (r *accountRepository) SoftDelete(ctx context.Context, id uint, at time.Time) error {
	return mustAffect(r.db.WithContext(ctx).
		Model(&models.Account{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"deleted_at": at, "active_slot": nil, "updated_at": at}))
}
