package tasks

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/mikestefanello/backlite"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/bookshelf/internal/metrics"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	client, err := NewClient(filepath.Join(t.TempDir(), "bookshelf.db"), Config{Workers: 1})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestNewClient_CreatesTaskDatabase(t *testing.T) {
	dir := t.TempDir()

	client, err := NewClient(filepath.Join(dir, "bookshelf.db"), Config{})
	require.NoError(t, err)
	defer client.Close()

	assert.FileExists(t, filepath.Join(dir, "bookshelf-tasks.db"))
	assert.Equal(t, defaultWorkers, client.workers)
}

func TestTasksDBPath(t *testing.T) {
	tests := map[string]string{
		filepath.Join("data", "bookshelf.db"): filepath.Join("data", "bookshelf-tasks.db"),
		"bookshelf":                           "bookshelf-tasks",
		"./books.sqlite3":                     "./books-tasks.sqlite3",
	}
	for in, want := range tests {
		assert.Equal(t, want, TasksDBPath(in), in)
	}
}

func TestConfig_WithDefaults(t *testing.T) {
	assert.Equal(t, DefaultConfig(), Config{}.withDefaults())

	custom := Config{Workers: 4, ReleaseAfter: time.Minute, CleanupInterval: 2 * time.Hour}
	assert.Equal(t, custom, custom.withDefaults())

	partial := Config{Workers: 3}.withDefaults()
	assert.Equal(t, 3, partial.Workers)
	assert.Equal(t, defaultReleaseAfter, partial.ReleaseAfter)
}

func TestClient_StopIsIdempotent(t *testing.T) {
	client := newTestClient(t)
	assert.True(t, client.Stop(context.Background()), "stop before start")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	client.Start(ctx)
	client.Start(ctx)
	time.Sleep(20 * time.Millisecond)

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer stopCancel()
	assert.True(t, client.Stop(stopCtx))
	assert.True(t, client.Stop(stopCtx))
}

type echoTask struct {
	Value string `json:"value"`
}

func (echoTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "echo",
		MaxAttempts: 1,
		Timeout:     5 * time.Second,
	}
}

func TestClient_RunsEnqueuedTask(t *testing.T) {
	client := newTestClient(t)

	executed := make(chan string, 1)
	client.Register(backlite.NewQueue(observed("echo", func(ctx context.Context, task echoTask) error {
		executed <- task.Value
		return nil
	})))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go client.Start(ctx)

	ids, err := client.Add(echoTask{Value: "hello"}).Save()
	require.NoError(t, err)
	assert.Len(t, ids, 1)

	select {
	case got := <-executed:
		assert.Equal(t, "hello", got)
	case <-time.After(5 * time.Second):
		t.Fatal("task was not executed")
	}
	assert.Eventually(t, func() bool {
		return testutil.ToFloat64(metrics.TasksProcessedTotal.WithLabelValues("echo", metrics.OutcomeSuccess)) >= 1
	}, time.Second, 10*time.Millisecond)
}

func TestObserved_CountsFailures(t *testing.T) {
	failing := observed("observed_test", func(ctx context.Context, task echoTask) error {
		return errors.New("boom")
	})
	before := testutil.ToFloat64(metrics.TasksProcessedTotal.WithLabelValues("observed_test", metrics.OutcomeError))

	assert.EqualError(t, failing(context.Background(), echoTask{}), "boom")
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.TasksProcessedTotal.WithLabelValues("observed_test", metrics.OutcomeError)))
}

func TestPairs(t *testing.T) {
	assert.Equal(t, logrus.Fields{"queue": "q", "id": 7}, pairs([]any{"queue", "q", "id", 7}))
	assert.Equal(t, logrus.Fields{"extra": "dangling"}, pairs([]any{"dangling"}))
	assert.Empty(t, pairs(nil))
}
