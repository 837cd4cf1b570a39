package scheduler

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/bookshelf/internal/tasks"
)

type stubPruner struct {
	calls  int
	cutoff time.Time
}

func (p *stubPruner) PruneOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	p.calls++
	p.cutoff = cutoff
	return 0, nil
}

func TestValidateCronSchedule(t *testing.T) {
	assert.NoError(t, ValidateCronSchedule("0 3 * * *"))
	assert.NoError(t, ValidateCronSchedule("*/5 * * * *"))
	assert.Error(t, ValidateCronSchedule("every day"))
	assert.Error(t, ValidateCronSchedule("0 0 3 * * *"))
}

func TestRecentsPruneScheduler_StartStop(t *testing.T) {
	s := NewRecentsPruneScheduler("", 24*time.Hour, nil, &stubPruner{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, s.Start(ctx))
	require.NotNil(t, s.NextRun())
	assert.True(t, s.NextRun().After(time.Now()))

	require.NoError(t, s.Start(ctx))

	s.Stop()
	assert.Nil(t, s.NextRun())
}

func TestRecentsPruneScheduler_StopsWithContext(t *testing.T) {
	s := NewRecentsPruneScheduler("0 3 * * *", time.Hour, nil, &stubPruner{})

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, s.Start(ctx))
	cancel()

	assert.Eventually(t, func() bool { return s.NextRun() == nil }, time.Second, 5*time.Millisecond)
}

func TestRecentsPruneScheduler_DisabledWithoutMaxAge(t *testing.T) {
	s := NewRecentsPruneScheduler("0 3 * * *", 0, nil, &stubPruner{})

	require.NoError(t, s.Start(context.Background()))
	assert.Nil(t, s.NextRun())
}

func TestRecentsPruneScheduler_InvalidSchedule(t *testing.T) {
	s := NewRecentsPruneScheduler("not a schedule", time.Hour, nil, &stubPruner{})

	assert.Error(t, s.Start(context.Background()))
	assert.Nil(t, s.NextRun())
}

func TestRecentsPruneScheduler_RunNowInline(t *testing.T) {
	pruner := &stubPruner{}
	s := NewRecentsPruneScheduler("", 48*time.Hour, nil, pruner)
	now := time.Date(2025, 10, 27, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	require.NoError(t, s.RunNow(context.Background()))
	assert.Equal(t, 1, pruner.calls)
	assert.Equal(t, now.Add(-48*time.Hour), pruner.cutoff)
}

func TestRecentsPruneScheduler_RunNowEnqueues(t *testing.T) {
	cfg := tasks.DefaultConfig()
	cfg.Workers = 1
	client, err := tasks.NewClient(filepath.Join(t.TempDir(), "test.db"), cfg)
	require.NoError(t, err)
	defer client.Close()

	pruner := &stubPruner{}
	client.Register(tasks.NewPruneRecentViewsQueue(pruner))

	s := NewRecentsPruneScheduler("", time.Hour, client, pruner)
	require.NoError(t, s.RunNow(context.Background()))
	assert.Zero(t, pruner.calls, "pruning runs on the queue, not inline")
}
