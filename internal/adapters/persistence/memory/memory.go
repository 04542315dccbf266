// Package memory is an in-process implementation of the repositories.
// Transactions are serialized and run against a private copy of the data
// that replaces the committed copy only when fn succeeds.
package memory

import (
	"context"
	"sort"
	"sync"

	"clubhub/internal/adapters/persistence/repositories"
	"clubhub/internal/core/domain"
)

type state struct {
	seq          map[string]uint
	accounts     map[uint]domain.Account
	roles        map[uint]domain.Role
	permissions  map[uint]domain.Permission
	userRoles    map[uint]domain.UserRole
	rolePerms    map[uint]domain.RolePermission
	clubs        map[uint]domain.Club
	members      map[uint]domain.ClubMember
	recruitments map[uint]domain.Recruitment
	applications map[uint]domain.Application
	interviews   map[uint]domain.Interview
	schools      map[uint]domain.School
	majors       map[uint]domain.Major
}

func newState() *state {
	return &state{
		seq:          map[string]uint{},
		accounts:     map[uint]domain.Account{},
		roles:        map[uint]domain.Role{},
		permissions:  map[uint]domain.Permission{},
		userRoles:    map[uint]domain.UserRole{},
		rolePerms:    map[uint]domain.RolePermission{},
		clubs:        map[uint]domain.Club{},
		members:      map[uint]domain.ClubMember{},
		recruitments: map[uint]domain.Recruitment{},
		applications: map[uint]domain.Application{},
		interviews:   map[uint]domain.Interview{},
		schools:      map[uint]domain.School{},
		majors:       map[uint]domain.Major{},
	}
}

func copyMap[V any](m map[uint]V) map[uint]V {
	out := make(map[uint]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (s *state) clone() *state {
	seq := make(map[string]uint, len(s.seq))
	for k, v := range s.seq {
		seq[k] = v
	}
	return &state{
		seq:          seq,
		accounts:     copyMap(s.accounts),
		roles:        copyMap(s.roles),
		permissions:  copyMap(s.permissions),
		userRoles:    copyMap(s.userRoles),
		rolePerms:    copyMap(s.rolePerms),
		clubs:        copyMap(s.clubs),
		members:      copyMap(s.members),
		recruitments: copyMap(s.recruitments),
		applications: copyMap(s.applications),
		interviews:   copyMap(s.interviews),
		schools:      copyMap(s.schools),
		majors:       copyMap(s.majors),
	}
}

func (s *state) next(table string) uint {
	s.seq[table]++
	return s.seq[table]
}

// sortedIDs returns the keys of m in ascending order
func sortedIDs[V any](m map[uint]V) []uint {
	ids := make([]uint, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func page[T any](items []T, offset, limit int) []T {
	if offset >= len(items) {
		return []T{}
	}
	end := len(items)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return items[offset:end]
}

// backend gives repositories access to a state for reading or writing
type backend interface {
	read(fn func(st *state) error) error
	write(fn func(st *state) error) error
}

// DB is the committed store. It implements repositories.UnitOfWork.
type DB struct {
	mu   sync.RWMutex
	txMu sync.Mutex
	st   *state
}

// New creates an empty store
func New() *DB {
	return &DB{st: newState()}
}

var _ repositories.UnitOfWork = (*DB)(nil)

func (db *DB) read(fn func(st *state) error) error {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return fn(db.st)
}

// write outside an explicit transaction commits a single statement
func (db *DB) write(fn func(st *state) error) error {
	db.txMu.Lock()
	defer db.txMu.Unlock()
	return db.commit(fn)
}

func (db *DB) commit(fn func(st *state) error) error {
	db.mu.RLock()
	work := db.st.clone()
	db.mu.RUnlock()

	if err := fn(work); err != nil {
		return err
	}

	db.mu.Lock()
	db.st = work
	db.mu.Unlock()
	return nil
}

// WithinTx runs fn against a private copy of the store and commits it on success
func (db *DB) WithinTx(ctx context.Context, fn func(ctx context.Context, tx repositories.Store) error) error {
	db.txMu.Lock()
	defer db.txMu.Unlock()

	return db.commit(func(work *state) error {
		if err := fn(ctx, newStore(&txBackend{st: work})); err != nil {
			return err
		}
		return ctx.Err()
	})
}

func (db *DB) Accounts() repositories.AccountRepository         { return &accountRepository{b: db} }
func (db *DB) Graph() repositories.GraphRepository              { return &graphRepository{b: db} }
func (db *DB) Clubs() repositories.ClubRepository               { return &clubRepository{b: db} }
func (db *DB) Recruitments() repositories.RecruitmentRepository { return &recruitmentRepository{b: db} }
func (db *DB) Applications() repositories.ApplicationRepository { return &applicationRepository{b: db} }
func (db *DB) Interviews() repositories.InterviewRepository     { return &interviewRepository{b: db} }
func (db *DB) Dictionary() repositories.DictionaryRepository    { return &dictionaryRepository{b: db} }

// txBackend reads and writes the transaction's private copy
type txBackend struct {
	st *state
}

func (t *txBackend) read(fn func(st *state) error) error  { return fn(t.st) }
func (t *txBackend) write(fn func(st *state) error) error { return fn(t.st) }

type store struct {
	b backend
}

func newStore(b backend) *store {
	return &store{b: b}
}

func (s *store) Accounts() repositories.AccountRepository         { return &accountRepository{b: s.b} }
func (s *store) Graph() repositories.GraphRepository              { return &graphRepository{b: s.b} }
func (s *store) Clubs() repositories.ClubRepository               { return &clubRepository{b: s.b} }
func (s *store) Recruitments() repositories.RecruitmentRepository { return &recruitmentRepository{b: s.b} }
func (s *store) Applications() repositories.ApplicationRepository { return &applicationRepository{b: s.b} }
func (s *store) Interviews() repositories.InterviewRepository     { return &interviewRepository{b: s.b} }
func (s *store) Dictionary() repositories.DictionaryRepository    { return &dictionaryRepository{b: s.b} }
