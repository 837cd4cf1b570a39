package tasks

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/bookshelf/internal/entities"
)

type memoryWriter struct {
	mu    sync.Mutex
	saved []entities.Book
	err   error
}

func (w *memoryWriter) Save(ctx context.Context, book entities.Book) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	w.saved = append(w.saved, book)
	return nil
}

func (w *memoryWriter) titles() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]string, 0, len(w.saved))
	for _, b := range w.saved {
		out = append(out, b.Title)
	}
	return out
}

type stubPruner struct {
	cutoff time.Time
	err    error
}

func (p *stubPruner) PruneOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	p.cutoff = cutoff
	return 3, p.err
}

func TestRecordRecentViewTaskConfig(t *testing.T) {
	cfg := RecordRecentViewTask{}.Config()

	assert.Equal(t, "record_recent_view", cfg.Name)
	assert.Equal(t, 3, cfg.MaxAttempts)
	assert.NotNil(t, cfg.Retention)
}

func TestRecordRecentViewProcessor(t *testing.T) {
	writer := &memoryWriter{}
	process := RecordRecentViewProcessor(writer)

	err := process(context.Background(), RecordRecentViewTask{Book: entities.Book{Title: "데미안"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"데미안"}, writer.titles())

	writer.err = errors.New("disk full")
	err = process(context.Background(), RecordRecentViewTask{Book: entities.Book{Title: "1984"}})
	assert.ErrorIs(t, err, writer.err)

	assert.Error(t, RecordRecentViewProcessor(nil)(context.Background(), RecordRecentViewTask{}))
}

func TestRecentViewRecorder_EndToEnd(t *testing.T) {
	client := newTestClient(t)
	writer := &memoryWriter{}
	client.Register(NewRecordRecentViewQueue(writer))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go client.Start(ctx)

	sale := 17820.0
	book := entities.Book{
		Title:       "사피엔스",
		Authors:     []string{"유발 하라리"},
		PublishedAt: time.Date(2015, 11, 2, 0, 0, 0, 0, time.UTC),
		Price:       19800,
		SalePrice:   &sale,
		Status:      entities.DefaultStatus,
	}
	recorder := NewRecentViewRecorder(client)
	require.NoError(t, recorder.Save(context.Background(), book))

	require.Eventually(t, func() bool {
		return len(writer.titles()) == 1
	}, 5*time.Second, 20*time.Millisecond)

	writer.mu.Lock()
	saved := writer.saved[0]
	writer.mu.Unlock()
	assert.True(t, book.Equal(saved), "got %+v", saved)
}

func TestRecentViewRecorder_NoClient(t *testing.T) {
	err := NewRecentViewRecorder(nil).Save(context.Background(), entities.Book{Title: "x"})
	assert.ErrorIs(t, err, ErrNotStarted)
}

func TestPruneRecentViewsProcessor(t *testing.T) {
	now := time.Date(2025, 10, 27, 12, 0, 0, 0, time.UTC)
	pruner := &stubPruner{}
	process := PruneRecentViewsProcessor(pruner, func() time.Time { return now })

	require.NoError(t, process(context.Background(), PruneRecentViewsTask{MaxAge: 24 * time.Hour}))
	assert.Equal(t, now.Add(-24*time.Hour), pruner.cutoff)

	assert.Error(t, process(context.Background(), PruneRecentViewsTask{}))

	pruner.err = errors.New("locked")
	assert.ErrorIs(t, process(context.Background(), PruneRecentViewsTask{MaxAge: time.Hour}), pruner.err)

	assert.Error(t, PruneRecentViewsProcessor(nil, nil)(context.Background(), PruneRecentViewsTask{MaxAge: time.Hour}))
}

func TestPruneRecentViewsTaskConfig(t *testing.T) {
	cfg := PruneRecentViewsTask{}.Config()
	assert.Equal(t, "prune_recent_views", cfg.Name)
	assert.Equal(t, 1, cfg.MaxAttempts)
}
