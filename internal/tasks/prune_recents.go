package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/mikestefanello/backlite"
	"github.com/sirupsen/logrus"
)

// RecentViewPruner deletes recent views older than a cutoff.
type RecentViewPruner interface {
	PruneOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// PruneRecentViewsTask removes recent views older than MaxAge.
type PruneRecentViewsTask struct {
	MaxAge time.Duration `json:"max_age"`
}

// Config returns the queue configuration for pruning tasks.
func (t PruneRecentViewsTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        QueuePruneRecentViews,
		MaxAttempts: 1,
		Backoff:     time.Minute,
		Timeout:     time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// PruneRecentViewsProcessor creates a processor function for PruneRecentViewsTask.
func PruneRecentViewsProcessor(pruner RecentViewPruner, now func() time.Time) backlite.QueueProcessor[PruneRecentViewsTask] {
	if now == nil {
		now = time.Now
	}
	return func(ctx context.Context, task PruneRecentViewsTask) error {
		if pruner == nil {
			return fmt.Errorf("recent view pruner not configured")
		}
		if task.MaxAge <= 0 {
			return fmt.Errorf("invalid max age %s", task.MaxAge)
		}

		deleted, err := pruner.PruneOlderThan(ctx, now().Add(-task.MaxAge))
		if err != nil {
			return fmt.Errorf("prune recent views: %w", err)
		}

		logrus.WithFields(logrus.Fields{
			"deleted": deleted,
			"max_age": task.MaxAge.String(),
		}).Info("Pruned recent views")
		return nil
	}
}

// NewPruneRecentViewsQueue creates a backlite queue for pruning tasks.
func NewPruneRecentViewsQueue(pruner RecentViewPruner) backlite.Queue {
	return backlite.NewQueue(observed(QueuePruneRecentViews, PruneRecentViewsProcessor(pruner, nil)))
}
