package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveCatalogRequest(t *testing.T) {
	successBefore := testutil.ToFloat64(CatalogRequestsTotal.WithLabelValues(OutcomeSuccess))
	errorBefore := testutil.ToFloat64(CatalogRequestsTotal.WithLabelValues(OutcomeError))

	ObserveCatalogRequest(time.Now(), nil)
	ObserveCatalogRequest(time.Now(), errors.New("boom"))
	ObserveCatalogRequest(time.Now(), errors.New("boom"))

	assert.Equal(t, successBefore+1, testutil.ToFloat64(CatalogRequestsTotal.WithLabelValues(OutcomeSuccess)))
	assert.Equal(t, errorBefore+2, testutil.ToFloat64(CatalogRequestsTotal.WithLabelValues(OutcomeError)))
}

func TestObserveStoreOperation(t *testing.T) {
	before := testutil.ToFloat64(StoreOperationsTotal.WithLabelValues("bookmarks", "insert", OutcomeSuccess))

	ObserveStoreOperation("bookmarks", "insert", nil)

	assert.Equal(t, before+1, testutil.ToFloat64(StoreOperationsTotal.WithLabelValues("bookmarks", "insert", OutcomeSuccess)))
}

func TestObserveTask(t *testing.T) {
	okBefore := testutil.ToFloat64(TasksProcessedTotal.WithLabelValues("prune_recent_views", OutcomeSuccess))
	failBefore := testutil.ToFloat64(TasksProcessedTotal.WithLabelValues("prune_recent_views", OutcomeError))

	ObserveTask("prune_recent_views", nil)
	ObserveTask("prune_recent_views", errors.New("locked"))

	assert.Equal(t, okBefore+1, testutil.ToFloat64(TasksProcessedTotal.WithLabelValues("prune_recent_views", OutcomeSuccess)))
	assert.Equal(t, failBefore+1, testutil.ToFloat64(TasksProcessedTotal.WithLabelValues("prune_recent_views", OutcomeError)))
}
