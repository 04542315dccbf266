package repositories

import (
	"context"

	"gorm.io/gorm"
)

// gormStore implements Store on a *gorm.DB, which may be a transaction
type gormStore struct {
	db *gorm.DB
}

func (s *gormStore) Accounts() AccountRepository         { return NewAccountRepository(s.db) }
func (s *gormStore) Graph() GraphRepository              { return NewGraphRepository(s.db) }
func (s *gormStore) Clubs() ClubRepository               { return NewClubRepository(s.db) }
func (s *gormStore) Recruitments() RecruitmentRepository { return NewRecruitmentRepository(s.db) }
func (s *gormStore) Applications() ApplicationRepository { return NewApplicationRepository(s.db) }
func (s *gormStore) Interviews() InterviewRepository     { return NewInterviewRepository(s.db) }
func (s *gormStore) Dictionary() DictionaryRepository    { return NewDictionaryRepository(s.db) }

// gormUnitOfWork implements UnitOfWork with gorm transactions
type gormUnitOfWork struct {
	gormStore
}

// NewUnitOfWork creates a unit of work backed by db
func NewUnitOfWork(db *gorm.DB) UnitOfWork {
	return &gormUnitOfWork{gormStore{db: db}}
}

// WithinTx runs fn inside db.Transaction; a returned error rolls back
func (u *gormUnitOfWork) WithinTx(ctx context.Context, fn func(ctx context.Context, tx Store) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, &gormStore{db: tx})
	})
}
