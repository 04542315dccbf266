package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"clubhub/internal/adapters/persistence/repositories"
	"clubhub/internal/core/domain"
	"clubhub/internal/pkg/logger"
)

const (
	workflowModule          = "workflow"
	defaultInterviewMinutes = 30
	maxScore                = 100
)

// WorkflowService runs the recruitment, application and interview state machine.
// Each mutation reconfirms the actor, loads the entities, checks ownership
// (Forbidden), then the state precondition (InvalidState), and writes inside
// one transaction. Events are published after commit.
type WorkflowService struct {
	uow       repositories.UnitOfWork
	gate      *AuthorizationGate
	clock     Clock
	publisher EventPublisher
	metrics   Metrics
	logger    *slog.Logger
}

// NewWorkflowService creates a new workflow service. publisher and metrics may be nil.
func NewWorkflowService(
	uow repositories.UnitOfWork,
	gate *AuthorizationGate,
	clock Clock,
	publisher EventPublisher,
	metrics Metrics,
	log *slog.Logger,
) *WorkflowService {
	if publisher == nil {
		publisher = noopPublisher{}
	}
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &WorkflowService{
		uow:       uow,
		gate:      gate,
		clock:     clock,
		publisher: publisher,
		metrics:   metrics,
		logger:    logger.Resolve(log),
	}
}

// ============================================================
// Inputs
// ============================================================

// CreateRecruitmentInput represents recruitment creation input
type CreateRecruitmentInput struct {
	Title              string     `json:"title"`
	Description        string     `json:"description"`
	StartTime          time.Time  `json:"start_time"`
	EndTime            time.Time  `json:"end_time"`
	InterviewStartTime *time.Time `json:"interview_start_time"`
	InterviewEndTime   *time.Time `json:"interview_end_time"`
}

// SubmitApplicationInput represents application input
type SubmitApplicationInput struct {
	Motivation string `json:"motivation"`
	Experience string `json:"experience"`
	Skills     string `json:"skills"`
}

// ScheduleInterviewInput represents interview scheduling input
type ScheduleInterviewInput struct {
	InterviewerID uint      `json:"interviewer_id"`
	ScheduledTime time.Time `json:"scheduled_time"`
	Duration      int       `json:"duration"`
	Location      string    `json:"location"`
}

// CompleteInterviewInput represents the interviewer's verdict
type CompleteInterviewInput struct {
	Result  domain.InterviewResult `json:"result"`
	Score   *float64               `json:"score"`
	Comment string                 `json:"comment"`
}

// ============================================================
// Recruitment
// ============================================================

// CreateRecruitment creates a draft recruitment; club president only
func (s *WorkflowService) CreateRecruitment(ctx context.Context, actor *domain.Account, clubID uint, input CreateRecruitmentInput) (*domain.Recruitment, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" || len(title) > 100 {
		return nil, domain.InvalidInputf("title must be 1 to 100 characters")
	}
	if input.StartTime.IsZero() || input.EndTime.IsZero() {
		return nil, domain.InvalidInputf("start_time and end_time are required")
	}
	if !input.EndTime.After(input.StartTime) {
		return nil, domain.InvalidInputf("end_time must be after start_time")
	}
	if input.InterviewStartTime != nil && input.InterviewEndTime != nil &&
		!input.InterviewEndTime.After(*input.InterviewStartTime) {
		return nil, domain.InvalidInputf("interview_end_time must be after interview_start_time")
	}

	var rec *domain.Recruitment
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx repositories.Store) error {
		current, err := s.gate.Reconfirm(ctx, tx, actor)
		if err != nil {
			return err
		}
		club, err := tx.Clubs().GetByID(ctx, clubID)
		if err != nil {
			return notFoundAs(err, domain.ErrClubNotFound)
		}
		if err := s.gate.Require(ctx, current, IsPresidentOf(club)); err != nil {
			return err
		}

		now := s.clock.Now()
		rec = &domain.Recruitment{
			ClubID:             club.ID,
			Title:              title,
			Description:        input.Description,
			StartTime:          input.StartTime,
			EndTime:            input.EndTime,
			InterviewStartTime: input.InterviewStartTime,
			InterviewEndTime:   input.InterviewEndTime,
			Status:             domain.RecruitmentDraft,
			CreatedAt:          now,
			UpdatedAt:          now,
		}
		return tx.Recruitments().Create(ctx, rec)
	})
	s.record("recruitment", "create", err)
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// PublishRecruitment moves a draft to Open. It fails once end_time has passed.
func (s *WorkflowService) PublishRecruitment(ctx context.Context, actor *domain.Account, recruitmentID uint) (*domain.Recruitment, error) {
	rec, err := s.transitionRecruitment(ctx, actor, recruitmentID, domain.RecruitmentOpen,
		func(rec *domain.Recruitment, now time.Time) error {
			if rec.Status != domain.RecruitmentDraft {
				return domain.InvalidStatef("only draft recruitments can be published, recruitment is %s", rec.Status)
			}
			if now.After(rec.EndTime) {
				return domain.ErrRecruitmentExpired
			}
			return nil
		})
	s.record("recruitment", "publish", err)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, EventRecruitmentPublished, map[string]interface{}{
		"recruitment_id": rec.ID,
		"club_id":        rec.ClubID,
		"end_time":       rec.EndTime,
	})
	return rec, nil
}

// CloseRecruitment moves an open recruitment to Closed
func (s *WorkflowService) CloseRecruitment(ctx context.Context, actor *domain.Account, recruitmentID uint) (*domain.Recruitment, error) {
	rec, err := s.transitionRecruitment(ctx, actor, recruitmentID, domain.RecruitmentClosed,
		func(rec *domain.Recruitment, _ time.Time) error {
			if rec.Status != domain.RecruitmentOpen {
				return domain.InvalidStatef("only open recruitments can be closed, recruitment is %s", rec.Status)
			}
			return nil
		})
	s.record("recruitment", "close", err)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, EventRecruitmentClosed, map[string]interface{}{
		"recruitment_id": rec.ID,
		"club_id":        rec.ClubID,
	})
	return rec, nil
}

// CancelRecruitment moves a draft or open recruitment to the terminal Cancelled state
func (s *WorkflowService) CancelRecruitment(ctx context.Context, actor *domain.Account, recruitmentID uint) (*domain.Recruitment, error) {
	rec, err := s.transitionRecruitment(ctx, actor, recruitmentID, domain.RecruitmentCancelled,
		func(rec *domain.Recruitment, _ time.Time) error {
			if rec.Status != domain.RecruitmentDraft && rec.Status != domain.RecruitmentOpen {
				return domain.InvalidStatef("recruitment is already %s", rec.Status)
			}
			return nil
		})
	s.record("recruitment", "cancel", err)
	return rec, err
}

func (s *WorkflowService) transitionRecruitment(
	ctx context.Context,
	actor *domain.Account,
	recruitmentID uint,
	to domain.RecruitmentStatus,
	precondition func(rec *domain.Recruitment, now time.Time) error,
) (*domain.Recruitment, error) {
	var rec *domain.Recruitment
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx repositories.Store) error {
		current, err := s.gate.Reconfirm(ctx, tx, actor)
		if err != nil {
			return err
		}
		var club *domain.Club
		rec, club, err = s.loadRecruitment(ctx, tx, recruitmentID)
		if err != nil {
			return err
		}
		if err := s.gate.Require(ctx, current, IsPresidentOf(club)); err != nil {
			return err
		}

		now := s.clock.Now()
		if err := precondition(rec, now); err != nil {
			return err
		}
		ok, err := tx.Recruitments().UpdateStatus(ctx, rec.ID, rec.Status, to, now)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrConcurrentModification
		}
		rec.Status = to
		rec.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// CloseExpiredRecruitments closes every open recruitment whose end_time has passed.
// It runs without an actor and returns how many recruitments it closed.
func (s *WorkflowService) CloseExpiredRecruitments(ctx context.Context) (int, error) {
	now := s.clock.Now()
	expired, err := s.uow.Recruitments().ListExpiredOpen(ctx, now)
	if err != nil {
		return 0, err
	}

	closed := 0
	for _, rec := range expired {
		var ok bool
		err := s.uow.WithinTx(ctx, func(ctx context.Context, tx repositories.Store) error {
			var err error
			ok, err = tx.Recruitments().UpdateStatus(ctx, rec.ID, domain.RecruitmentOpen, domain.RecruitmentClosed, now)
			return err
		})
		if err != nil {
			s.record("recruitment", "expire", err)
			return closed, err
		}
		if !ok {
			continue
		}
		closed++
		s.record("recruitment", "expire", nil)
		s.publish(ctx, EventRecruitmentClosed, map[string]interface{}{
			"recruitment_id": rec.ID,
			"club_id":        rec.ClubID,
			"expired":        true,
		})
	}

	if closed > 0 {
		s.logger.Info("expired recruitments closed",
			"event", "workflow_recruitments_expired",
			"module", workflowModule,
			"count", closed,
		)
	}
	return closed, nil
}

// GetRecruitment gets a recruitment by ID
func (s *WorkflowService) GetRecruitment(ctx context.Context, recruitmentID uint) (*domain.Recruitment, error) {
	rec, err := s.uow.Recruitments().GetByID(ctx, recruitmentID)
	if err != nil {
		return nil, notFoundAs(err, domain.ErrRecruitmentNotFound)
	}
	return rec, nil
}

// ListRecruitments lists recruitments with filters and pagination
func (s *WorkflowService) ListRecruitments(ctx context.Context, filter repositories.RecruitmentFilter, offset, limit int) ([]*domain.Recruitment, int64, error) {
	return s.uow.Recruitments().List(ctx, filter, offset, limit)
}

// ============================================================
// Application
// ============================================================

// SubmitApplication applies the actor to an open recruitment inside its window
func (s *WorkflowService) SubmitApplication(ctx context.Context, actor *domain.Account, recruitmentID uint, input SubmitApplicationInput) (*domain.Application, error) {
	var app *domain.Application
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx repositories.Store) error {
		current, err := s.gate.Reconfirm(ctx, tx, actor)
		if err != nil {
			return err
		}
		rec, err := tx.Recruitments().GetByID(ctx, recruitmentID)
		if err != nil {
			return notFoundAs(err, domain.ErrRecruitmentNotFound)
		}

		now := s.clock.Now()
		if rec.Status != domain.RecruitmentOpen {
			return domain.InvalidStatef("recruitment is %s, applications need an open recruitment", rec.Status)
		}
		if !rec.AcceptsApplicationsAt(now) {
			return domain.ErrOutsideWindow
		}

		if _, err := tx.Applications().FindActive(ctx, rec.ID, current.ID); err == nil {
			return domain.ErrDuplicateApplication
		} else if !errors.Is(err, domain.ErrNotFound) {
			return err
		}

		app = &domain.Application{
			RecruitmentID: rec.ID,
			UserID:        current.ID,
			Motivation:    input.Motivation,
			Experience:    input.Experience,
			Skills:        input.Skills,
			Status:        domain.ApplicationPending,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := tx.Applications().Create(ctx, app); err != nil {
			if errors.Is(err, domain.ErrConflict) {
				return domain.ErrDuplicateApplication
			}
			return err
		}
		return tx.Recruitments().AdjustApplicationCount(ctx, rec.ID, 1)
	})
	s.record("application", "submit", err)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, EventApplicationSubmitted, map[string]interface{}{
		"application_id": app.ID,
		"recruitment_id": app.RecruitmentID,
		"user_id":        app.UserID,
	})
	return app, nil
}

// WithdrawApplication lets the applicant withdraw a pending application
func (s *WorkflowService) WithdrawApplication(ctx context.Context, actor *domain.Account, applicationID uint) (*domain.Application, error) {
	var app *domain.Application
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx repositories.Store) error {
		current, err := s.gate.Reconfirm(ctx, tx, actor)
		if err != nil {
			return err
		}
		app, err = tx.Applications().GetByID(ctx, applicationID)
		if err != nil {
			return notFoundAs(err, domain.ErrApplicationNotFound)
		}
		if err := s.gate.Require(ctx, current, IsAccount(app.UserID)); err != nil {
			return err
		}
		if app.Status != domain.ApplicationPending {
			return domain.InvalidStatef("only pending applications can be withdrawn, application is %s", app.Status)
		}

		app.Status = domain.ApplicationWithdrawn
		app.UpdatedAt = s.clock.Now()
		if err := s.saveApplication(ctx, tx, app, domain.ApplicationPending); err != nil {
			return err
		}
		return tx.Recruitments().AdjustApplicationCount(ctx, app.RecruitmentID, -1)
	})
	s.record("application", "withdraw", err)
	if err != nil {
		return nil, err
	}
	return app, nil
}

// ReviewApplication approves or rejects a pending application; club president only
func (s *WorkflowService) ReviewApplication(ctx context.Context, actor *domain.Account, applicationID uint, approve bool, comment string) (*domain.Application, error) {
	var app *domain.Application
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx repositories.Store) error {
		current, err := s.gate.Reconfirm(ctx, tx, actor)
		if err != nil {
			return err
		}
		var club *domain.Club
		app, _, club, err = s.loadApplication(ctx, tx, applicationID)
		if err != nil {
			return err
		}
		if err := s.gate.Require(ctx, current, IsPresidentOf(club)); err != nil {
			return err
		}
		if app.Status != domain.ApplicationPending {
			return domain.InvalidStatef("application was already reviewed, application is %s", app.Status)
		}

		now := s.clock.Now()
		app.Status = domain.ApplicationRejected
		if approve {
			app.Status = domain.ApplicationApproved
		}
		app.ReviewedBy = &current.ID
		app.ReviewedAt = &now
		app.ReviewComment = comment
		app.UpdatedAt = now
		return s.saveApplication(ctx, tx, app, domain.ApplicationPending)
	})
	s.record("application", "review", err)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, EventApplicationReviewed, map[string]interface{}{
		"application_id": app.ID,
		"recruitment_id": app.RecruitmentID,
		"user_id":        app.UserID,
		"approved":       approve,
	})
	return app, nil
}

func (s *WorkflowService) saveApplication(ctx context.Context, tx repositories.Store, app *domain.Application, from domain.ApplicationStatus) error {
	ok, err := tx.Applications().Save(ctx, app, from)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrConcurrentModification
	}
	return nil
}

// GetApplication returns an application to its applicant or the club president
func (s *WorkflowService) GetApplication(ctx context.Context, actor *domain.Account, applicationID uint) (*domain.Application, error) {
	app, _, club, err := s.loadApplication(ctx, s.uow, applicationID)
	if err != nil {
		return nil, err
	}
	if err := s.gate.Require(ctx, actor, AnyOf(IsAccount(app.UserID), IsPresidentOf(club))); err != nil {
		return nil, err
	}
	return app, nil
}

// ListApplications lists the applications of a recruitment; club president only
func (s *WorkflowService) ListApplications(ctx context.Context, actor *domain.Account, recruitmentID uint, offset, limit int) ([]*domain.Application, int64, error) {
	_, club, err := s.loadRecruitment(ctx, s.uow, recruitmentID)
	if err != nil {
		return nil, 0, err
	}
	if err := s.gate.Require(ctx, actor, IsPresidentOf(club)); err != nil {
		return nil, 0, err
	}
	return s.uow.Applications().ListByRecruitment(ctx, recruitmentID, offset, limit)
}

// ListMyApplications lists the actor's own applications
func (s *WorkflowService) ListMyApplications(ctx context.Context, actor *domain.Account) ([]*domain.Application, error) {
	return s.uow.Applications().ListByUser(ctx, actor.ID)
}

// ============================================================
// Interview
// ============================================================

// ScheduleInterview creates an interview for an approved application; club president only
func (s *WorkflowService) ScheduleInterview(ctx context.Context, actor *domain.Account, applicationID uint, input ScheduleInterviewInput) (*domain.Interview, error) {
	if input.InterviewerID == 0 {
		return nil, domain.InvalidInputf("interviewer_id is required")
	}
	if input.ScheduledTime.IsZero() {
		return nil, domain.InvalidInputf("scheduled_time is required")
	}
	if input.Duration < 0 {
		return nil, domain.InvalidInputf("duration must not be negative")
	}
	if input.Duration == 0 {
		input.Duration = defaultInterviewMinutes
	}

	var iv *domain.Interview
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx repositories.Store) error {
		current, err := s.gate.Reconfirm(ctx, tx, actor)
		if err != nil {
			return err
		}
		app, _, club, err := s.loadApplication(ctx, tx, applicationID)
		if err != nil {
			return err
		}
		if err := s.gate.Require(ctx, current, IsPresidentOf(club)); err != nil {
			return err
		}
		if app.Status != domain.ApplicationApproved {
			return domain.InvalidStatef("interviews need an approved application, application is %s", app.Status)
		}
		if _, err := tx.Accounts().GetByID(ctx, input.InterviewerID); err != nil {
			return notFoundAs(err, &domain.Error{Kind: domain.KindNotFound, Message: "interviewer not found"})
		}

		if _, err := tx.Interviews().FindActive(ctx, app.ID); err == nil {
			return domain.ErrDuplicateInterview
		} else if !errors.Is(err, domain.ErrNotFound) {
			return err
		}

		now := s.clock.Now()
		iv = &domain.Interview{
			ApplicationID: app.ID,
			InterviewerID: input.InterviewerID,
			ScheduledTime: input.ScheduledTime,
			Duration:      input.Duration,
			Location:      input.Location,
			Status:        domain.InterviewScheduled,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := tx.Interviews().Create(ctx, iv); err != nil {
			if errors.Is(err, domain.ErrConflict) {
				return domain.ErrDuplicateInterview
			}
			return err
		}
		return nil
	})
	s.record("interview", "schedule", err)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, EventInterviewScheduled, map[string]interface{}{
		"interview_id":   iv.ID,
		"application_id": iv.ApplicationID,
		"interviewer_id": iv.InterviewerID,
		"scheduled_time": iv.ScheduledTime,
	})
	return iv, nil
}

// CompleteInterview records the verdict. Only the assigned interviewer may call it;
// identity equality is the whole check. Cancelled interviews cannot be completed.
func (s *WorkflowService) CompleteInterview(ctx context.Context, actor *domain.Account, interviewID uint, input CompleteInterviewInput) (*domain.Interview, error) {
	if !input.Result.Valid() {
		return nil, domain.InvalidInputf("result must be 1 (pass) or 2 (fail)")
	}
	if input.Score != nil && (*input.Score < 0 || *input.Score > maxScore) {
		return nil, domain.InvalidInputf("score must be between 0 and %d", maxScore)
	}

	var iv *domain.Interview
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx repositories.Store) error {
		current, err := s.gate.Reconfirm(ctx, tx, actor)
		if err != nil {
			return err
		}
		iv, err = tx.Interviews().GetByID(ctx, interviewID)
		if err != nil {
			return notFoundAs(err, domain.ErrInterviewNotFound)
		}
		if err := s.gate.Require(ctx, current, IsInterviewerOf(iv)); err != nil {
			return err
		}
		if iv.Status == domain.InterviewCancelled {
			return domain.InvalidStatef("interview was cancelled")
		}

		from := iv.Status
		now := s.clock.Now()
		result := input.Result
		iv.Status = domain.InterviewCompleted
		iv.Result = &result
		iv.Score = input.Score
		iv.Comment = input.Comment
		iv.CompletedAt = &now
		iv.UpdatedAt = now
		return s.saveInterview(ctx, tx, iv, from)
	})
	s.record("interview", "complete", err)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, EventInterviewCompleted, map[string]interface{}{
		"interview_id":   iv.ID,
		"application_id": iv.ApplicationID,
		"result":         int(*iv.Result),
	})
	return iv, nil
}

// CancelInterview cancels a scheduled interview, freeing the application for a new one
func (s *WorkflowService) CancelInterview(ctx context.Context, actor *domain.Account, interviewID uint) (*domain.Interview, error) {
	var iv *domain.Interview
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx repositories.Store) error {
		current, err := s.gate.Reconfirm(ctx, tx, actor)
		if err != nil {
			return err
		}
		iv, err = tx.Interviews().GetByID(ctx, interviewID)
		if err != nil {
			return notFoundAs(err, domain.ErrInterviewNotFound)
		}
		_, _, club, err := s.loadApplication(ctx, tx, iv.ApplicationID)
		if err != nil {
			return err
		}
		if err := s.gate.Require(ctx, current, IsPresidentOf(club)); err != nil {
			return err
		}
		if iv.Status != domain.InterviewScheduled {
			return domain.InvalidStatef("only scheduled interviews can be cancelled, interview is %s", iv.Status)
		}

		iv.Status = domain.InterviewCancelled
		iv.UpdatedAt = s.clock.Now()
		return s.saveInterview(ctx, tx, iv, domain.InterviewScheduled)
	})
	s.record("interview", "cancel", err)
	if err != nil {
		return nil, err
	}
	return iv, nil
}

func (s *WorkflowService) saveInterview(ctx context.Context, tx repositories.Store, iv *domain.Interview, from domain.InterviewStatus) error {
	ok, err := tx.Interviews().Save(ctx, iv, from)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrConcurrentModification
	}
	return nil
}

// GetInterview returns an interview to its interviewer, the applicant or the club president
func (s *WorkflowService) GetInterview(ctx context.Context, actor *domain.Account, interviewID uint) (*domain.Interview, error) {
	iv, err := s.uow.Interviews().GetByID(ctx, interviewID)
	if err != nil {
		return nil, notFoundAs(err, domain.ErrInterviewNotFound)
	}
	app, _, club, err := s.loadApplication(ctx, s.uow, iv.ApplicationID)
	if err != nil {
		return nil, err
	}
	err = s.gate.Require(ctx, actor, AnyOf(IsInterviewerOf(iv), IsAccount(app.UserID), IsPresidentOf(club)))
	if err != nil {
		return nil, err
	}
	return iv, nil
}

// ============================================================
// Helpers
// ============================================================

func (s *WorkflowService) loadRecruitment(ctx context.Context, st repositories.Store, recruitmentID uint) (*domain.Recruitment, *domain.Club, error) {
	rec, err := st.Recruitments().GetByID(ctx, recruitmentID)
	if err != nil {
		return nil, nil, notFoundAs(err, domain.ErrRecruitmentNotFound)
	}
	club, err := st.Clubs().GetByID(ctx, rec.ClubID)
	if err != nil {
		return nil, nil, notFoundAs(err, domain.ErrClubNotFound)
	}
	return rec, club, nil
}

func (s *WorkflowService) loadApplication(ctx context.Context, st repositories.Store, applicationID uint) (*domain.Application, *domain.Recruitment, *domain.Club, error) {
	app, err := st.Applications().GetByID(ctx, applicationID)
	if err != nil {
		return nil, nil, nil, notFoundAs(err, domain.ErrApplicationNotFound)
	}
	rec, club, err := s.loadRecruitment(ctx, st, app.RecruitmentID)
	if err != nil {
		return nil, nil, nil, err
	}
	return app, rec, club, nil
}

func (s *WorkflowService) record(entity, transition string, err error) {
	s.metrics.WorkflowTransition(entity, transition, outcome(err))
	if err != nil {
		s.logger.Debug("workflow transition rejected",
			"event", "workflow_transition_rejected",
			"module", workflowModule,
			"entity", entity,
			"transition", transition,
			"reason", err.Error(),
		)
		return
	}
	s.logger.Info("workflow transition applied",
		"event", "workflow_transition_applied",
		"module", workflowModule,
		"entity", entity,
		"transition", transition,
	)
}

// publish sends an event after commit; delivery failures are logged, not returned
func (s *WorkflowService) publish(ctx context.Context, eventType string, payload map[string]interface{}) {
	event := Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		OccurredAt: s.clock.Now(),
		Payload:    payload,
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Error("event publish failed",
			"event", "workflow_event_publish_failed",
			"module", workflowModule,
			"event_type", eventType,
			"event_id", event.ID,
			"error", err.Error(),
		)
	}
}
