package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"clubhub/internal/pkg/logger"
)

// DefaultSweepSpec closes expired recruitments every 5 minutes
const DefaultSweepSpec = "@every 5m"

const sweepTimeout = time.Minute

// RecruitmentSweeper closes open recruitments whose application window has ended
type RecruitmentSweeper struct {
	workflow *WorkflowService
	cron     *cron.Cron
	spec     string
	logger   *slog.Logger
}

// NewRecruitmentSweeper creates a sweeper; an empty spec uses DefaultSweepSpec
func NewRecruitmentSweeper(workflow *WorkflowService, spec string, log *slog.Logger) *RecruitmentSweeper {
	if spec == "" {
		spec = DefaultSweepSpec
	}
	return &RecruitmentSweeper{
		workflow: workflow,
		cron:     cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		spec:     spec,
		logger:   logger.Resolve(log),
	}
}

// Start schedules the sweep and launches the cron loop
func (s *RecruitmentSweeper) Start() error {
	if _, err := s.cron.AddFunc(s.spec, s.Sweep); err != nil {
		return err
	}
	s.cron.Start()
	s.logger.Info("recruitment sweeper started",
		"event", "sweeper_started",
		"module", workflowModule,
		"spec", s.spec,
	)
	return nil
}

// Stop halts scheduling and waits for a running sweep to finish
func (s *RecruitmentSweeper) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info("recruitment sweeper stopped",
		"event", "sweeper_stopped",
		"module", workflowModule,
	)
}

// Sweep runs one pass
func (s *RecruitmentSweeper) Sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
	defer cancel()

	if _, err := s.workflow.CloseExpiredRecruitments(ctx); err != nil {
		s.logger.Error("recruitment sweep failed",
			"event", "sweeper_failed",
			"module", workflowModule,
			"error", err.Error(),
		)
	}
}
