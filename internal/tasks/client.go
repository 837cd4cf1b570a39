// Package tasks runs bookshelf's background work on a backlite queue stored
// in its own SQLite file.
package tasks

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/mikestefanello/backlite"
	"github.com/sirupsen/logrus"

	"github.com/mrlokans/bookshelf/internal/metrics"
)

// Queue names, also used as metric labels.
const (
	QueueRecordRecentView  = "record_recent_view"
	QueuePruneRecentViews  = "prune_recent_views"
	tasksDBSuffix          = "-tasks"
	tasksDBConnectionFlags = "?_journal=WAL&_timeout=5000&_busy_timeout=5000"
)

type Client struct {
	backlite *backlite.Client
	db       *sql.DB
	workers  int
	log      *logrus.Entry

	mu      sync.Mutex
	started bool
	stopped bool
}

// NewClient opens (or creates) the task database next to mainDBPath and
// installs the backlite schema.
func NewClient(mainDBPath string, cfg Config) (*Client, error) {
	cfg = cfg.withDefaults()
	path := TasksDBPath(mainDBPath)

	db, err := sql.Open("sqlite3", path+tasksDBConnectionFlags)
	if err != nil {
		return nil, fmt.Errorf("open task database %s: %w", path, err)
	}
	// Every worker holds a connection while it runs; the rest serve enqueues.
	db.SetMaxOpenConns(cfg.Workers + 4)
	db.SetMaxIdleConns(cfg.Workers + 1)
	db.SetConnMaxLifetime(time.Hour)

	log := logrus.WithField("component", "tasks")
	client, err := backlite.NewClient(backlite.ClientConfig{
		DB:              db,
		NumWorkers:      cfg.Workers,
		ReleaseAfter:    cfg.ReleaseAfter,
		CleanupInterval: cfg.CleanupInterval,
		Logger:          backliteLogger{entry: log},
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create task client: %w", err)
	}
	if err := client.Install(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("install task schema: %w", err)
	}

	return &Client{backlite: client, db: db, workers: cfg.Workers, log: log}, nil
}

// TasksDBPath returns "<dir>/<name>-tasks<ext>" for "<dir>/<name><ext>".
func TasksDBPath(mainDBPath string) string {
	ext := filepath.Ext(mainDBPath)
	return strings.TrimSuffix(mainDBPath, ext) + tasksDBSuffix + ext
}

// Register adds queues. Call before Start.
func (c *Client) Register(queues ...backlite.Queue) {
	for _, q := range queues {
		c.backlite.Register(q)
	}
}

// Start launches the workers. Repeated calls are no-ops.
func (c *Client) Start(ctx context.Context) {
	c.mu.Lock()
	if c.started {
		c.mu.Unlock()
		return
	}
	c.started = true
	c.mu.Unlock()

	c.log.WithField("workers", c.workers).Info("Task queue started")
	c.backlite.Start(ctx)
}

// Stop waits for running tasks until ctx expires and reports whether all
// workers finished in time.
func (c *Client) Stop(ctx context.Context) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.started || c.stopped {
		return true
	}
	c.stopped = true

	if !c.backlite.Stop(ctx) {
		c.log.Warn("Task queue stopped before running tasks finished")
		return false
	}
	c.log.Info("Task queue stopped")
	return true
}

func (c *Client) Close() error {
	return c.db.Close()
}

// Add starts an enqueue operation; finish it with Save.
func (c *Client) Add(tasks ...backlite.Task) *backlite.TaskAddOp {
	return c.backlite.Add(tasks...)
}

// observed counts every run of processor under the queue label.
func observed[T backlite.Task](queue string, processor backlite.QueueProcessor[T]) backlite.QueueProcessor[T] {
	return func(ctx context.Context, task T) error {
		err := processor(ctx, task)
		metrics.ObserveTask(queue, err)
		return err
	}
}

// backliteLogger adapts logrus to backlite.Logger.
type backliteLogger struct {
	entry *logrus.Entry
}

func (l backliteLogger) Info(message string, params ...any) {
	l.entry.WithFields(pairs(params)).Info(message)
}

func (l backliteLogger) Error(message string, params ...any) {
	l.entry.WithFields(pairs(params)).Error(message)
}

// pairs turns backlite's alternating key/value params into logrus fields.
func pairs(params []any) logrus.Fields {
	fields := logrus.Fields{}
	for i := 0; i+1 < len(params); i += 2 {
		fields[fmt.Sprint(params[i])] = params[i+1]
	}
	if len(params)%2 == 1 {
		fields["extra"] = params[len(params)-1]
	}
	return fields
}
