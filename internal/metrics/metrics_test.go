package metrics

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seenimoa/agripulse/pkg/models"
)

func TestObserveSnapshot(t *testing.T) {
	r := NewRegistry()
	r.ObserveSnapshot("wheat", models.TrendBullish, time.Millisecond)
	r.ObserveSnapshot("wheat", models.TrendBullish, time.Millisecond)
	r.ObserveSnapshot("onion", models.TrendStable, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.SnapshotsBuilt.WithLabelValues("wheat", "Bullish")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.SnapshotsBuilt.WithLabelValues("onion", "Stable")))

	var m dto.Metric
	require.NoError(t, r.BuildDuration.Write(&m))
	assert.Equal(t, uint64(3), m.GetHistogram().GetSampleCount())
}

func TestObserveSnapshotNilRegistry(t *testing.T) {
	var r *Registry
	assert.NotPanics(t, func() { r.ObserveSnapshot("wheat", models.TrendStable, 0) })
}

func TestHandlerExposesMetrics(t *testing.T) {
	r := NewRegistry()
	r.StaleSelections.Inc()

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "agripulse_stream_stale_selections_total 1")
	assert.Contains(t, string(body), "go_goroutines")
}
