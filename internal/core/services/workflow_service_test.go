package services

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clubhub/internal/adapters/persistence/repositories"
	"clubhub/internal/core/domain"
)

func TestPublishRecruitment(t *testing.T) {
	f := newFixture(t)
	president := f.register("5551000")
	outsider := f.register("5552000")
	club := f.club(president, "Chess")
	rec := f.draft(president, club)
	assert.Equal(t, domain.RecruitmentDraft, rec.Status)
	assert.Equal(t, 0, rec.ApplicationCount)

	_, err := f.workflow.PublishRecruitment(f.ctx, outsider, rec.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	f.clock.Advance(8 * 24 * time.Hour)
	_, err = f.workflow.PublishRecruitment(f.ctx, president, rec.ID)
	assert.ErrorIs(t, err, domain.ErrRecruitmentExpired)
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	f.clock.Set(testEpoch)
	published, err := f.workflow.PublishRecruitment(f.ctx, president, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RecruitmentOpen, published.Status)

	stored, err := f.workflow.GetRecruitment(f.ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RecruitmentOpen, stored.Status)

	_, err = f.workflow.PublishRecruitment(f.ctx, president, rec.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	assert.Equal(t, []string{EventRecruitmentPublished}, f.events.types())
	assert.Equal(t, 1, f.metrics.transitions["recruitment/publish/success"])
	assert.Equal(t, 1, f.metrics.transitions["recruitment/publish/forbidden"])
	assert.Equal(t, 2, f.metrics.transitions["recruitment/publish/invalid_state"])
}

func TestForbiddenWinsOverInvalidState(t *testing.T) {
	f := newFixture(t)
	president := f.register("5551000")
	outsider := f.register("5552000")
	rec := f.open(president, f.club(president, "Chess"))

	// already open, but the outsider must learn only that it is not allowed
	_, err := f.workflow.PublishRecruitment(f.ctx, outsider, rec.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestCreateRecruitmentValidation(t *testing.T) {
	f := newFixture(t)
	president := f.register("5551000")
	outsider := f.register("5552000")
	club := f.club(president, "Chess")
	now := f.clock.Now()

	valid := CreateRecruitmentInput{Title: "Intake", StartTime: now, EndTime: now.Add(time.Hour)}

	_, err := f.workflow.CreateRecruitment(f.ctx, outsider, club.ID, valid)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = f.workflow.CreateRecruitment(f.ctx, president, 999, valid)
	assert.ErrorIs(t, err, domain.ErrClubNotFound)

	backwards := valid
	backwards.EndTime = now
	_, err = f.workflow.CreateRecruitment(f.ctx, president, club.ID, backwards)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	untitled := valid
	untitled.Title = " "
	_, err = f.workflow.CreateRecruitment(f.ctx, president, club.ID, untitled)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	ivStart, ivEnd := now.Add(2*time.Hour), now.Add(time.Hour)
	badInterviews := valid
	badInterviews.InterviewStartTime = &ivStart
	badInterviews.InterviewEndTime = &ivEnd
	_, err = f.workflow.CreateRecruitment(f.ctx, president, club.ID, badInterviews)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCloseAndCancelRecruitment(t *testing.T) {
	f := newFixture(t)
	president := f.register("5551000")
	club := f.club(president, "Chess")

	draft := f.draft(president, club)
	_, err := f.workflow.CloseRecruitment(f.ctx, president, draft.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	cancelled, err := f.workflow.CancelRecruitment(f.ctx, president, draft.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RecruitmentCancelled, cancelled.Status)
	_, err = f.workflow.CancelRecruitment(f.ctx, president, draft.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	_, err = f.workflow.PublishRecruitment(f.ctx, president, draft.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	open := f.open(president, club)
	closed, err := f.workflow.CloseRecruitment(f.ctx, president, open.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RecruitmentClosed, closed.Status)
	_, err = f.workflow.CancelRecruitment(f.ctx, president, open.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	_, err = f.workflow.CloseRecruitment(f.ctx, president, 999)
	assert.ErrorIs(t, err, domain.ErrRecruitmentNotFound)
}

func TestSubmitApplicationOnce(t *testing.T) {
	f := newFixture(t)
	president := f.register("5551000")
	applicant := f.register("5552000")
	rec := f.open(president, f.club(president, "Chess"))

	app, err := f.workflow.SubmitApplication(f.ctx, applicant, rec.ID, SubmitApplicationInput{Motivation: "I like chess"})
	require.NoError(t, err)
	assert.Equal(t, domain.ApplicationPending, app.Status)
	assert.Equal(t, applicant.ID, app.UserID)

	stored, err := f.workflow.GetRecruitment(f.ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.ApplicationCount)

	_, err = f.workflow.SubmitApplication(f.ctx, applicant, rec.ID, SubmitApplicationInput{})
	assert.ErrorIs(t, err, domain.ErrDuplicateApplication)
	assert.ErrorIs(t, err, domain.ErrConflict)

	stored, err = f.workflow.GetRecruitment(f.ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.ApplicationCount)
}

func TestConcurrentSubmissionsBookOnce(t *testing.T) {
	f := newFixture(t)
	president := f.register("5551000")
	applicant := f.register("5552000")
	rec := f.open(president, f.club(president, "Chess"))

	const attempts = 8
	var wg sync.WaitGroup
	errs := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.workflow.SubmitApplication(f.ctx, applicant, rec.ID, SubmitApplicationInput{})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	succeeded := 0
	for err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, domain.ErrConflict)
	}
	assert.Equal(t, 1, succeeded)

	stored, err := f.workflow.GetRecruitment(f.ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.ApplicationCount)
}

func TestSubmitApplicationWindow(t *testing.T) {
	f := newFixture(t)
	president := f.register("5551000")
	applicant := f.register("5552000")
	club := f.club(president, "Chess")

	draft := f.draft(president, club)
	_, err := f.workflow.SubmitApplication(f.ctx, applicant, draft.ID, SubmitApplicationInput{})
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	now := f.clock.Now()
	future, err := f.workflow.CreateRecruitment(f.ctx, president, club.ID, CreateRecruitmentInput{
		Title:     "Autumn intake",
		StartTime: now.Add(time.Hour),
		EndTime:   now.Add(2 * time.Hour),
	})
	require.NoError(t, err)
	_, err = f.workflow.PublishRecruitment(f.ctx, president, future.ID)
	require.NoError(t, err)

	_, err = f.workflow.SubmitApplication(f.ctx, applicant, future.ID, SubmitApplicationInput{})
	assert.ErrorIs(t, err, domain.ErrOutsideWindow)

	f.clock.Set(now.Add(time.Hour))
	_, err = f.workflow.SubmitApplication(f.ctx, applicant, future.ID, SubmitApplicationInput{})
	require.NoError(t, err)

	other := f.register("5553000")
	f.clock.Set(now.Add(2 * time.Hour))
	_, err = f.workflow.SubmitApplication(f.ctx, other, future.ID, SubmitApplicationInput{})
	assert.ErrorIs(t, err, domain.ErrOutsideWindow)

	_, err = f.workflow.SubmitApplication(f.ctx, other, 999, SubmitApplicationInput{})
	assert.ErrorIs(t, err, domain.ErrRecruitmentNotFound)
}

func TestWithdrawApplication(t *testing.T) {
	f := newFixture(t)
	president := f.register("5551000")
	applicant := f.register("5552000")
	rec := f.open(president, f.club(president, "Chess"))

	app, err := f.workflow.SubmitApplication(f.ctx, applicant, rec.ID, SubmitApplicationInput{})
	require.NoError(t, err)

	_, err = f.workflow.WithdrawApplication(f.ctx, president, app.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	withdrawn, err := f.workflow.WithdrawApplication(f.ctx, applicant, app.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ApplicationWithdrawn, withdrawn.Status)

	stored, err := f.workflow.GetRecruitment(f.ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, stored.ApplicationCount)

	_, err = f.workflow.WithdrawApplication(f.ctx, applicant, app.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	// the slot is free again
	again, err := f.workflow.SubmitApplication(f.ctx, applicant, rec.ID, SubmitApplicationInput{})
	require.NoError(t, err)
	assert.NotEqual(t, app.ID, again.ID)
}

func TestReviewApplication(t *testing.T) {
	f := newFixture(t)
	president := f.register("5551000")
	applicant := f.register("5552000")
	rec := f.open(president, f.club(president, "Chess"))

	app, err := f.workflow.SubmitApplication(f.ctx, applicant, rec.ID, SubmitApplicationInput{})
	require.NoError(t, err)

	_, err = f.workflow.ReviewApplication(f.ctx, applicant, app.ID, true, "")
	assert.ErrorIs(t, err, domain.ErrForbidden)

	reviewed, err := f.workflow.ReviewApplication(f.ctx, president, app.ID, false, "not this time")
	require.NoError(t, err)
	assert.Equal(t, domain.ApplicationRejected, reviewed.Status)
	require.NotNil(t, reviewed.ReviewedBy)
	assert.Equal(t, president.ID, *reviewed.ReviewedBy)
	require.NotNil(t, reviewed.ReviewedAt)
	assert.True(t, testEpoch.Equal(*reviewed.ReviewedAt))
	assert.Equal(t, "not this time", reviewed.ReviewComment)

	_, err = f.workflow.ReviewApplication(f.ctx, president, app.ID, true, "")
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	_, err = f.workflow.WithdrawApplication(f.ctx, applicant, app.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	// a rejected application still holds the slot
	_, err = f.workflow.SubmitApplication(f.ctx, applicant, rec.ID, SubmitApplicationInput{})
	assert.ErrorIs(t, err, domain.ErrDuplicateApplication)
}

func TestScheduleInterview(t *testing.T) {
	f := newFixture(t)
	president := f.register("5551000")
	applicant := f.register("5552000")
	interviewer := f.register("5553000")
	rec := f.open(president, f.club(president, "Chess"))
	when := testEpoch.Add(48 * time.Hour)

	pending, err := f.workflow.SubmitApplication(f.ctx, applicant, rec.ID, SubmitApplicationInput{})
	require.NoError(t, err)
	input := ScheduleInterviewInput{InterviewerID: interviewer.ID, ScheduledTime: when, Location: "Room 101"}

	_, err = f.workflow.ScheduleInterview(f.ctx, president, pending.ID, input)
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	app, err := f.workflow.ReviewApplication(f.ctx, president, pending.ID, true, "")
	require.NoError(t, err)

	_, err = f.workflow.ScheduleInterview(f.ctx, applicant, app.ID, input)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = f.workflow.ScheduleInterview(f.ctx, president, app.ID, ScheduleInterviewInput{InterviewerID: 999, ScheduledTime: when})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.workflow.ScheduleInterview(f.ctx, president, app.ID, ScheduleInterviewInput{InterviewerID: interviewer.ID})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	iv, err := f.workflow.ScheduleInterview(f.ctx, president, app.ID, input)
	require.NoError(t, err)
	assert.Equal(t, domain.InterviewScheduled, iv.Status)
	assert.Equal(t, defaultInterviewMinutes, iv.Duration)

	_, err = f.workflow.ScheduleInterview(f.ctx, president, app.ID, input)
	assert.ErrorIs(t, err, domain.ErrDuplicateInterview)

	_, err = f.workflow.CancelInterview(f.ctx, interviewer, iv.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	cancelled, err := f.workflow.CancelInterview(f.ctx, president, iv.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.InterviewCancelled, cancelled.Status)
	_, err = f.workflow.CancelInterview(f.ctx, president, iv.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	rescheduled, err := f.workflow.ScheduleInterview(f.ctx, president, app.ID, input)
	require.NoError(t, err)
	assert.NotEqual(t, iv.ID, rescheduled.ID)

	assert.Equal(t, []string{
		EventRecruitmentPublished,
		EventApplicationSubmitted,
		EventApplicationReviewed,
		EventInterviewScheduled,
		EventInterviewScheduled,
	}, f.events.types())
}

func TestCompleteInterview(t *testing.T) {
	f := newFixture(t)
	president := f.register("5551000")
	applicant := f.register("5552000")
	interviewer := f.register("5553000")
	rec := f.open(president, f.club(president, "Chess"))
	app := f.approved(president, applicant, rec)

	iv, err := f.workflow.ScheduleInterview(f.ctx, president, app.ID, ScheduleInterviewInput{
		InterviewerID: interviewer.ID,
		ScheduledTime: testEpoch.Add(time.Hour),
		Duration:      45,
	})
	require.NoError(t, err)

	score := 88.5
	verdict := CompleteInterviewInput{Result: domain.InterviewPass, Score: &score, Comment: "sharp"}

	// the president is not the interviewer
	_, err = f.workflow.CompleteInterview(f.ctx, president, iv.ID, verdict)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = f.workflow.CompleteInterview(f.ctx, interviewer, iv.ID, CompleteInterviewInput{Result: 3})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	tooHigh := 101.0
	_, err = f.workflow.CompleteInterview(f.ctx, interviewer, iv.ID, CompleteInterviewInput{Result: domain.InterviewFail, Score: &tooHigh})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	f.clock.Advance(2 * time.Hour)
	done, err := f.workflow.CompleteInterview(f.ctx, interviewer, iv.ID, verdict)
	require.NoError(t, err)
	assert.Equal(t, domain.InterviewCompleted, done.Status)
	require.NotNil(t, done.Result)
	assert.Equal(t, domain.InterviewPass, *done.Result)
	require.NotNil(t, done.Score)
	assert.InDelta(t, 88.5, *done.Score, 0.001)
	require.NotNil(t, done.CompletedAt)
	assert.True(t, testEpoch.Add(2*time.Hour).Equal(*done.CompletedAt))

	got, err := f.workflow.GetInterview(f.ctx, applicant, iv.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.InterviewCompleted, got.Status)

	_, err = f.workflow.CompleteInterview(f.ctx, interviewer, 999, verdict)
	assert.ErrorIs(t, err, domain.ErrInterviewNotFound)
}

func TestCancelledInterviewCannotComplete(t *testing.T) {
	f := newFixture(t)
	president := f.register("5551000")
	applicant := f.register("5552000")
	interviewer := f.register("5553000")
	app := f.approved(president, applicant, f.open(president, f.club(president, "Chess")))

	iv, err := f.workflow.ScheduleInterview(f.ctx, president, app.ID, ScheduleInterviewInput{
		InterviewerID: interviewer.ID,
		ScheduledTime: testEpoch.Add(time.Hour),
	})
	require.NoError(t, err)
	_, err = f.workflow.CancelInterview(f.ctx, president, iv.ID)
	require.NoError(t, err)

	_, err = f.workflow.CompleteInterview(f.ctx, interviewer, iv.ID, CompleteInterviewInput{Result: domain.InterviewPass})
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestApplicationVisibility(t *testing.T) {
	f := newFixture(t)
	president := f.register("5551000")
	applicant := f.register("5552000")
	stranger := f.register("5553000")
	rec := f.open(president, f.club(president, "Chess"))

	app, err := f.workflow.SubmitApplication(f.ctx, applicant, rec.ID, SubmitApplicationInput{})
	require.NoError(t, err)

	_, err = f.workflow.GetApplication(f.ctx, applicant, app.ID)
	assert.NoError(t, err)
	_, err = f.workflow.GetApplication(f.ctx, president, app.ID)
	assert.NoError(t, err)
	_, err = f.workflow.GetApplication(f.ctx, stranger, app.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = f.workflow.GetApplication(f.ctx, applicant, 999)
	assert.ErrorIs(t, err, domain.ErrApplicationNotFound)

	list, total, err := f.workflow.ListApplications(f.ctx, president, rec.ID, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, list, 1)
	_, _, err = f.workflow.ListApplications(f.ctx, applicant, rec.ID, 0, 10)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	mine, err := f.workflow.ListMyApplications(f.ctx, applicant)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, app.ID, mine[0].ID)

	open := domain.RecruitmentOpen
	recs, total, err := f.workflow.ListRecruitments(f.ctx, repositories.RecruitmentFilter{Status: &open}, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, recs, 1)
}

func TestCloseExpiredRecruitments(t *testing.T) {
	f := newFixture(t)
	president := f.register("5551000")
	club := f.club(president, "Chess")
	first := f.open(president, club)
	second := f.open(president, club)
	draft := f.draft(president, club)

	closed, err := f.workflow.CloseExpiredRecruitments(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, closed)

	f.clock.Advance(8 * 24 * time.Hour)
	closed, err = f.workflow.CloseExpiredRecruitments(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, closed)

	for _, id := range []uint{first.ID, second.ID} {
		rec, err := f.workflow.GetRecruitment(f.ctx, id)
		require.NoError(t, err)
		assert.Equal(t, domain.RecruitmentClosed, rec.Status)
	}
	rec, err := f.workflow.GetRecruitment(f.ctx, draft.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RecruitmentDraft, rec.Status)

	closed, err = f.workflow.CloseExpiredRecruitments(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, closed)
}

func TestPublishFailureDoesNotFailTransition(t *testing.T) {
	f := newFixture(t)
	president := f.register("5551000")
	f.events.err = errors.New("broker unreachable")

	rec := f.open(president, f.club(president, "Chess"))
	assert.Equal(t, domain.RecruitmentOpen, rec.Status)
	assert.Empty(t, f.events.types())
}

func TestDisabledActorCannotMutate(t *testing.T) {
	f := newFixture(t)
	president := f.register("5551000")
	applicant := f.register("5552000")
	rec := f.open(president, f.club(president, "Chess"))

	require.NoError(t, f.identity.Disable(f.ctx, applicant.ID))
	_, err := f.workflow.SubmitApplication(f.ctx, applicant, rec.ID, SubmitApplicationInput{})
	assert.ErrorIs(t, err, domain.ErrAccountDisabled)

	stored, err := f.workflow.GetRecruitment(f.ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, stored.ApplicationCount)
}
