package tasks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mikestefanello/backlite"

	"github.com/mrlokans/bookshelf/internal/entities"
	"github.com/mrlokans/bookshelf/internal/logger"
)

// RecentViewWriter persists a recent view.
type RecentViewWriter interface {
	Save(ctx context.Context, book entities.Book) error
}

// RecordRecentViewTask stores one recent view off the request path.
type RecordRecentViewTask struct {
	Book entities.Book `json:"book"`
}

// Config returns the queue configuration for recent-view tasks.
func (t RecordRecentViewTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        QueueRecordRecentView,
		MaxAttempts: 3,
		Backoff:     5 * time.Second,
		Timeout:     30 * time.Second,
		Retention: &backlite.Retention{
			Duration:   time.Hour,
			OnlyFailed: true,
		},
	}
}

// RecordRecentViewProcessor creates a processor function for RecordRecentViewTask.
func RecordRecentViewProcessor(writer RecentViewWriter) backlite.QueueProcessor[RecordRecentViewTask] {
	return func(ctx context.Context, task RecordRecentViewTask) error {
		if writer == nil {
			return fmt.Errorf("recent view writer not configured")
		}
		if err := writer.Save(ctx, task.Book); err != nil {
			return fmt.Errorf("record recent view %q: %w", task.Book.Title, err)
		}
		logger.For(ctx).WithField("title", task.Book.Title).Debug("Recorded recent view")
		return nil
	}
}

// NewRecordRecentViewQueue creates a backlite queue for recent-view tasks.
func NewRecordRecentViewQueue(writer RecentViewWriter) backlite.Queue {
	return backlite.NewQueue(observed(QueueRecordRecentView, RecordRecentViewProcessor(writer)))
}

// ErrNotStarted is returned when a task is enqueued before the client exists.
var ErrNotStarted = errors.New("task queue not available")

// TaskAdder enqueues tasks.
type TaskAdder interface {
	Add(tasks ...backlite.Task) *backlite.TaskAddOp
}

// RecentViewRecorder defers recent-view writes to the task queue. It satisfies
// the same Save contract as the recent book repository.
type RecentViewRecorder struct {
	client TaskAdder
}

func NewRecentViewRecorder(client TaskAdder) *RecentViewRecorder {
	return &RecentViewRecorder{client: client}
}

func (r *RecentViewRecorder) Save(ctx context.Context, book entities.Book) error {
	if r.client == nil {
		return ErrNotStarted
	}
	if _, err := r.client.Add(RecordRecentViewTask{Book: book}).Ctx(ctx).Save(); err != nil {
		return fmt.Errorf("enqueue recent view: %w", err)
	}
	return nil
}
