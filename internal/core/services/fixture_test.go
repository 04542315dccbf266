package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"clubhub/internal/adapters/persistence/memory"
	"clubhub/internal/core/domain"
	"clubhub/internal/pkg/jwt"
	"clubhub/internal/pkg/logger"
	"clubhub/internal/pkg/password"
)

const (
	testSecret     = "test-secret"
	testCredential = "secret1"
	sessionTTL     = time.Hour
)

var testEpoch = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

type recordingPublisher struct {
	mu     sync.Mutex
	events []Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, event Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

type recordingMetrics struct {
	mu          sync.Mutex
	auth        map[string]int
	transitions map[string]int
	cache       map[string]int
}

func newRecordingMetrics() *recordingMetrics {
	return &recordingMetrics{
		auth:        map[string]int{},
		transitions: map[string]int{},
		cache:       map[string]int{},
	}
}

func (m *recordingMetrics) AuthAttempt(operation, outcome string) {
	m.mu.Lock()
	m.auth[operation+"/"+outcome]++
	m.mu.Unlock()
}

func (m *recordingMetrics) WorkflowTransition(entity, transition, outcome string) {
	m.mu.Lock()
	m.transitions[entity+"/"+transition+"/"+outcome]++
	m.mu.Unlock()
}

func (m *recordingMetrics) PermissionCacheLookup(result string) {
	m.mu.Lock()
	m.cache[result]++
	m.mu.Unlock()
}

type cacheKey struct {
	generation int64
	accountID  uint
}

// mapCache is a PermissionCache backed by a map
type mapCache struct {
	mu            sync.Mutex
	generation    int64
	entries       map[cacheKey][]string
	getErr        error
	invalidateErr error
}

func newMapCache() *mapCache {
	return &mapCache{entries: map[cacheKey][]string{}}
}

func (c *mapCache) Get(_ context.Context, accountID uint) ([]string, int64, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return nil, 0, false, c.getErr
	}
	codes, ok := c.entries[cacheKey{c.generation, accountID}]
	return codes, c.generation, ok, nil
}

func (c *mapCache) Set(_ context.Context, accountID uint, generation int64, codes []string) error {
	c.mu.Lock()
	c.entries[cacheKey{generation, accountID}] = codes
	c.mu.Unlock()
	return nil
}

func (c *mapCache) Invalidate(context.Context) error {
	c.mu.Lock()
	if c.invalidateErr != nil {
		c.mu.Unlock()
		return c.invalidateErr
	}
	c.generation++
	c.mu.Unlock()
	return nil
}

type fixture struct {
	t        *testing.T
	ctx      context.Context
	db       *memory.DB
	clock    *FixedClock
	issuer   *jwt.Issuer
	cache    *mapCache
	events   *recordingPublisher
	metrics  *recordingMetrics
	identity *IdentityService
	perms    *PermissionService
	gate     *AuthorizationGate
	clubs    *ClubService
	workflow *WorkflowService
	dict     *DictionaryService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	log := logger.Setup(io.Discard, slog.LevelDebug)
	db := memory.New()
	clock := NewFixedClock(testEpoch)
	issuer := jwt.NewIssuer(testSecret, "clubhub", clock.Now)
	cache := newMapCache()
	events := &recordingPublisher{}
	metrics := newRecordingMetrics()

	perms := NewPermissionService(db, cache, clock, metrics, log)
	gate := NewAuthorizationGate(db, issuer, perms, log)

	return &fixture{
		t:        t,
		ctx:      context.Background(),
		db:       db,
		clock:    clock,
		issuer:   issuer,
		cache:    cache,
		events:   events,
		metrics:  metrics,
		identity: NewIdentityService(db, password.NewVault(bcrypt.MinCost), issuer, clock, sessionTTL, metrics, log),
		perms:    perms,
		gate:     gate,
		clubs:    NewClubService(db, gate, clock, log),
		workflow: NewWorkflowService(db, gate, clock, events, metrics, log),
		dict:     NewDictionaryService(db, log),
	}
}

// register creates an initialized account and returns it as authenticated by a fresh session
func (f *fixture) register(handle string) *domain.Account {
	f.t.Helper()
	_, err := f.identity.Register(f.ctx, handle, testCredential, domain.Profile{Name: handle})
	require.NoError(f.t, err)
	return f.login(handle)
}

func (f *fixture) login(handle string) *domain.Account {
	f.t.Helper()
	_, token, err := f.identity.Login(f.ctx, handle, testCredential)
	require.NoError(f.t, err)
	account, err := f.gate.Authenticate(f.ctx, token.Token)
	require.NoError(f.t, err)
	return account
}

func (f *fixture) club(president *domain.Account, name string) *domain.Club {
	f.t.Helper()
	club, err := f.clubs.CreateClub(f.ctx, president, CreateClubInput{Name: name})
	require.NoError(f.t, err)
	return club
}

// draft creates a draft recruitment whose window opens an hour ago and closes in a week
func (f *fixture) draft(president *domain.Account, club *domain.Club) *domain.Recruitment {
	f.t.Helper()
	now := f.clock.Now()
	rec, err := f.workflow.CreateRecruitment(f.ctx, president, club.ID, CreateRecruitmentInput{
		Title:     "Spring intake",
		StartTime: now.Add(-time.Hour),
		EndTime:   now.Add(7 * 24 * time.Hour),
	})
	require.NoError(f.t, err)
	return rec
}

func (f *fixture) open(president *domain.Account, club *domain.Club) *domain.Recruitment {
	f.t.Helper()
	rec := f.draft(president, club)
	rec, err := f.workflow.PublishRecruitment(f.ctx, president, rec.ID)
	require.NoError(f.t, err)
	return rec
}

func (f *fixture) approved(president, applicant *domain.Account, rec *domain.Recruitment) *domain.Application {
	f.t.Helper()
	app, err := f.workflow.SubmitApplication(f.ctx, applicant, rec.ID, SubmitApplicationInput{Motivation: "I like it"})
	require.NoError(f.t, err)
	app, err = f.workflow.ReviewApplication(f.ctx, president, app.ID, true, "welcome")
	require.NoError(f.t, err)
	return app
}

// grant gives the account a role holding the permission
func (f *fixture) grant(account *domain.Account, roleCode, permissionCode string) {
	f.t.Helper()
	if _, err := f.perms.CreateRole(f.ctx, CreateRoleInput{Code: roleCode}); err != nil {
		require.True(f.t, errors.Is(err, domain.ErrConflict), err)
	}
	if _, err := f.perms.CreatePermission(f.ctx, CreatePermissionInput{Code: permissionCode}); err != nil {
		require.True(f.t, errors.Is(err, domain.ErrConflict), err)
	}
	require.NoError(f.t, f.perms.GrantPermission(f.ctx, roleCode, permissionCode))
	require.NoError(f.t, f.perms.AssignRole(f.ctx, account.ID, roleCode))
}
