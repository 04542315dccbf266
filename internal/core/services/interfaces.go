package services

import (
	"context"
	"sync"
	"time"
)

// Clock abstracts current time for deterministic tests
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock in UTC
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }

// FixedClock is a settable clock
type FixedClock struct {
	mu sync.Mutex
	t  time.Time
}

// NewFixedClock creates a clock stopped at t
func NewFixedClock(t time.Time) *FixedClock {
	return &FixedClock{t: t}
}

func (c *FixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

// Set moves the clock to t
func (c *FixedClock) Set(t time.Time) {
	c.mu.Lock()
	c.t = t
	c.mu.Unlock()
}

// Advance moves the clock forward by d
func (c *FixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

// PermissionCache stores resolved permission codes per account under a
// generation. Get reports the current generation even on a miss and Set
// stores under the generation the caller saw, so an Invalidate racing a
// fill strands the entry instead of serving it.
type PermissionCache interface {
	Get(ctx context.Context, accountID uint) (codes []string, generation int64, hit bool, err error)
	Set(ctx context.Context, accountID uint, generation int64, codes []string) error
	Invalidate(ctx context.Context) error
}

// Event is a domain event published after a transaction commits
type Event struct {
	ID         string                 `json:"id"`
	Type       string                 `json:"type"`
	OccurredAt time.Time              `json:"occurred_at"`
	Payload    map[string]interface{} `json:"payload"`
}

// Event types
const (
	EventRecruitmentPublished = "recruitment.published"
	EventRecruitmentClosed    = "recruitment.closed"
	EventApplicationSubmitted = "application.submitted"
	EventApplicationReviewed  = "application.reviewed"
	EventInterviewScheduled   = "interview.scheduled"
	EventInterviewCompleted   = "interview.completed"
)

// EventPublisher delivers domain events to external consumers
type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
}

// Metrics records service outcomes
type Metrics interface {
	AuthAttempt(operation, outcome string)
	WorkflowTransition(entity, transition, outcome string)
	PermissionCacheLookup(result string)
}

type noopPublisher struct{}

func (noopPublisher) Publish(context.Context, Event) error { return nil }

type noopMetrics struct{}

func (noopMetrics) AuthAttempt(string, string)                {}
func (noopMetrics) WorkflowTransition(string, string, string) {}
func (noopMetrics) PermissionCacheLookup(string)              {}
