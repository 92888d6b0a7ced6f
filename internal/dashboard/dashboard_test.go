package dashboard

import (
	"context"
	"math"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/seenimoa/agripulse/internal/config"
	"github.com/seenimoa/agripulse/internal/metrics"
	"github.com/seenimoa/agripulse/pkg/models"
)

func testService(t *testing.T, opts ...Option) *Service {
	t.Helper()
	cfg := config.Default()
	require.NoError(t, config.Validate(cfg))
	return New(cfg, opts...)
}

func intPtr(v int) *int { return &v }

func TestBuildWheat(t *testing.T) {
	s := testService(t)
	snap, err := s.Build(context.Background(), Request{Commodity: "Wheat"})
	require.NoError(t, err)

	assert.NotEmpty(t, snap.ID)
	assert.Equal(t, "wheat", snap.Commodity.ID)
	assert.Equal(t, "Punjab", snap.State)
	assert.Equal(t, 6, snap.CurrentMonth)
	assert.Equal(t, "Jul", snap.CurrentLabel)
	assert.Len(t, snap.Series, 12)
	assert.Len(t, snap.Markets, 5)
	require.NotNil(t, snap.Summary)
	assert.Nil(t, snap.Summary.Selected)
	assert.Equal(t, *snap.Series[6].Actual, snap.Advice.CurrentPrice)
}

func TestBuildDeterministicAcrossCalls(t *testing.T) {
	s := testService(t)
	a, err := s.Build(context.Background(), Request{Commodity: "maize"})
	require.NoError(t, err)
	b, err := s.Build(context.Background(), Request{Commodity: "maize"})
	require.NoError(t, err)

	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, a.Series, b.Series)
	assert.Equal(t, a.Markets, b.Markets)
	assert.Equal(t, a.Advice, b.Advice)
}

func TestBuildStateDoesNotChangePrices(t *testing.T) {
	s := testService(t)
	punjab, err := s.Build(context.Background(), Request{Commodity: "rice", State: "punjab"})
	require.NoError(t, err)
	gujarat, err := s.Build(context.Background(), Request{Commodity: "rice", State: "Gujarat"})
	require.NoError(t, err)

	assert.Equal(t, "Punjab", punjab.State)
	assert.Equal(t, "Gujarat", gujarat.State)
	assert.Equal(t, punjab.Series, gujarat.Series)
}

func TestBuildSelectedMarket(t *testing.T) {
	s := testService(t)
	snap, err := s.Build(context.Background(), Request{Commodity: "onion", Market: " koyambedu "})
	require.NoError(t, err)
	require.NotNil(t, snap.Summary.Selected)
	assert.Equal(t, "Koyambedu", snap.Summary.Selected.Market)
	assert.LessOrEqual(t, snap.Summary.SpreadPct, 0.0)
}

func TestBuildCurrentMonthOverride(t *testing.T) {
	s := testService(t)
	snap, err := s.Build(context.Background(), Request{Commodity: "wheat", CurrentMonth: intPtr(11)})
	require.NoError(t, err)
	assert.Equal(t, "Dec", snap.CurrentLabel)
	assert.Nil(t, snap.Advice.RecommendedMonth)
	assert.Nil(t, snap.Advice.RecommendedPrice)
}

func TestBuildErrors(t *testing.T) {
	s := testService(t)
	tests := []struct {
		name string
		req  Request
		want error
	}{
		{"unknown commodity", Request{Commodity: "saffron"}, config.ErrUnknownCommodity},
		{"month too large", Request{Commodity: "wheat", CurrentMonth: intPtr(12)}, config.ErrInvalidMonth},
		{"negative month", Request{Commodity: "wheat", CurrentMonth: intPtr(-1)}, config.ErrInvalidMonth},
		{"unknown state", Request{Commodity: "wheat", State: "Atlantis"}, ErrUnknownState},
		{"unknown market", Request{Commodity: "wheat", Market: "Nowhere"}, ErrUnknownMarket},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Build(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestBuildCancelledContext(t *testing.T) {
	s := testService(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := s.Build(ctx, Request{Commodity: "wheat"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBuildAllKeepsCatalogOrder(t *testing.T) {
	reg := metrics.NewRegistry()
	s := testService(t, WithMetrics(reg))

	snaps, err := s.BuildAll(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, snaps, len(s.Catalog().Commodities))
	for i, c := range s.Catalog().Commodities {
		assert.Equal(t, c.ID, snaps[i].Commodity.ID)
	}

	var total float64
	for _, snap := range snaps {
		total += testutil.ToFloat64(reg.SnapshotsBuilt.WithLabelValues(snap.Commodity.ID, string(snap.Advice.Trend)))
	}
	assert.Equal(t, float64(len(snaps)), total)
}

func TestBuildAllMarketRange(t *testing.T) {
	s := testService(t)
	snaps, err := s.BuildAll(context.Background(), intPtr(3))
	require.NoError(t, err)
	for _, snap := range snaps {
		base := snap.Commodity.BasePrice
		for _, q := range snap.Markets {
			assert.GreaterOrEqual(t, q.Price, math.Round(0.9*base), snap.Commodity.ID)
			assert.LessOrEqual(t, q.Price, math.Round(1.1*base), snap.Commodity.ID)
		}
		assert.Equal(t, 3, snap.CurrentMonth)
	}
}

func TestBuildAllInvalidMonth(t *testing.T) {
	s := testService(t)
	_, err := s.BuildAll(context.Background(), intPtr(40))
	assert.ErrorIs(t, err, config.ErrInvalidMonth)
}

func TestBuildWithoutStates(t *testing.T) {
	cfg := config.Default()
	cfg.Catalog.States = nil
	s := New(cfg)
	snap, err := s.Build(context.Background(), Request{Commodity: "potato"})
	require.NoError(t, err)
	assert.Empty(t, snap.State)
	assert.Equal(t, models.CalendarMonths, s.Catalog().Months)
}

func TestBuildLogsStreamSeeds(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	s := testService(t, WithLogger(zap.New(core)))

	_, err := s.Build(context.Background(), Request{Commodity: "wheat"})
	require.NoError(t, err)

	entries := logs.FilterMessage("snapshot built").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "wheat", fields["commodity"])
	assert.Equal(t, int64(15413), fields["price_noise_seed"])
	assert.Equal(t, int64(11011), fields["average_seed"])
	assert.Equal(t, int64(6607), fields["market_seed"])
}
