// Package scheduler runs periodic maintenance jobs on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/mikestefanello/backlite"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/mrlokans/bookshelf/internal/tasks"
)

// DefaultPruneSchedule runs the recent-view retention job once a day.
const DefaultPruneSchedule = "0 3 * * *"

var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// ValidateCronSchedule checks a five-field cron expression.
func ValidateCronSchedule(schedule string) error {
	_, err := cronParser.Parse(schedule)
	return err
}

// TaskAdder enqueues background tasks.
type TaskAdder interface {
	Add(tasks ...backlite.Task) *backlite.TaskAddOp
}

// RecentsPruneScheduler periodically removes recent views older than MaxAge.
// With a task queue the job is enqueued; without one it runs inline.
type RecentsPruneScheduler struct {
	schedule string
	maxAge   time.Duration
	queue    TaskAdder
	pruner   tasks.RecentViewPruner
	now      func() time.Time

	cron      *cron.Cron
	entryID   cron.EntryID
	mu        sync.RWMutex
	isRunning bool
	log       *logrus.Entry
}

// NewRecentsPruneScheduler creates a new scheduler instance. queue may be nil.
func NewRecentsPruneScheduler(schedule string, maxAge time.Duration, queue TaskAdder, pruner tasks.RecentViewPruner) *RecentsPruneScheduler {
	if schedule == "" {
		schedule = DefaultPruneSchedule
	}
	return &RecentsPruneScheduler{
		schedule: schedule,
		maxAge:   maxAge,
		queue:    queue,
		pruner:   pruner,
		now:      time.Now,
		cron:     cron.New(cron.WithParser(cronParser)),
		log:      logrus.WithField("component", "recents_prune_scheduler"),
	}
}

// Start begins the scheduler. A non-positive max age disables it.
func (s *RecentsPruneScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}
	if s.maxAge <= 0 {
		s.log.Info("Recent view pruning disabled")
		return nil
	}
	if err := ValidateCronSchedule(s.schedule); err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", s.schedule, err)
	}

	entryID, err := s.cron.AddFunc(s.schedule, func() {
		s.run(ctx)
	})
	if err != nil {
		return fmt.Errorf("failed to schedule prune job: %w", err)
	}
	s.entryID = entryID

	s.cron.Start()
	s.isRunning = true

	s.log.WithFields(logrus.Fields{
		"schedule": s.schedule,
		"max_age":  s.maxAge.String(),
		"next_run": s.cron.Entry(entryID).Next,
	}).Info("Recent view pruning scheduled")

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return nil
}

// Stop gracefully stops the scheduler
func (s *RecentsPruneScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	stopped := s.cron.Stop()
	<-stopped.Done()
	s.isRunning = false

	s.log.Info("Recent view pruning stopped")
}

// NextRun returns when the next prune will occur, or nil when the scheduler
// is not running.
func (s *RecentsPruneScheduler) NextRun() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}
	next := s.cron.Entry(s.entryID).Next
	return &next
}

// RunNow triggers one prune immediately.
func (s *RecentsPruneScheduler) RunNow(ctx context.Context) error {
	return s.run(ctx)
}

func (s *RecentsPruneScheduler) run(ctx context.Context) error {
	task := tasks.PruneRecentViewsTask{MaxAge: s.maxAge}

	if s.queue != nil {
		ids, err := s.queue.Add(task).Ctx(ctx).Save()
		if err != nil {
			s.log.WithError(err).Error("Failed to enqueue recent view pruning")
			return err
		}
		s.log.WithField("task_ids", ids).Debug("Recent view pruning enqueued")
		return nil
	}

	if err := tasks.PruneRecentViewsProcessor(s.pruner, s.now)(ctx, task); err != nil {
		s.log.WithError(err).Error("Recent view pruning failed")
		return err
	}
	return nil
}
