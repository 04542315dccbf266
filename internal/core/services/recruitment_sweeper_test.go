package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clubhub/internal/core/domain"
)

func TestSweepClosesExpiredRecruitments(t *testing.T) {
	f := newFixture(t)
	president := f.register("5551000")
	rec := f.open(president, f.club(president, "Chess"))

	sweeper := NewRecruitmentSweeper(f.workflow, "", nil)
	assert.Equal(t, DefaultSweepSpec, sweeper.spec)

	sweeper.Sweep()
	stored, err := f.workflow.GetRecruitment(f.ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RecruitmentOpen, stored.Status)

	f.clock.Advance(8 * 24 * time.Hour)
	sweeper.Sweep()
	stored, err = f.workflow.GetRecruitment(f.ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RecruitmentClosed, stored.Status)
	assert.Contains(t, f.events.types(), EventRecruitmentClosed)
}

func TestSweeperStartStop(t *testing.T) {
	f := newFixture(t)

	assert.Error(t, NewRecruitmentSweeper(f.workflow, "not a schedule", nil).Start())

	sweeper := NewRecruitmentSweeper(f.workflow, "@every 1h", nil)
	require.NoError(t, sweeper.Start())
	sweeper.Stop()
}
