// Package dashboard assembles everything the presentation layer shows for a
// commodity selection: the price series, the market comparison, and the
// trend advice.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/seenimoa/agripulse/internal/analysis/advisory"
	"github.com/seenimoa/agripulse/internal/config"
	"github.com/seenimoa/agripulse/internal/metrics"
	"github.com/seenimoa/agripulse/internal/synth"
	"github.com/seenimoa/agripulse/pkg/models"
)

var (
	// ErrUnknownState is returned when a request names a state not in the catalog.
	ErrUnknownState = errors.New("unknown state")
	// ErrUnknownMarket is returned when a request names a market not in the catalog.
	ErrUnknownMarket = errors.New("unknown market")
)

// Request selects a commodity and, optionally, a state, a highlighted market,
// and a current month overriding the configured one.
type Request struct {
	Commodity    string `json:"commodity"`
	State        string `json:"state,omitempty"`
	Market       string `json:"market,omitempty"`
	CurrentMonth *int   `json:"current_month,omitempty"`
}

// Snapshot is the complete, independently computed result of one selection.
type Snapshot struct {
	ID           string                      `json:"id"`
	Commodity    models.Commodity            `json:"commodity"`
	State        string                      `json:"state,omitempty"`
	CurrentMonth int                         `json:"current_month"`
	CurrentLabel string                      `json:"current_label"`
	Series       []models.MonthPoint         `json:"series"`
	Markets      []models.MarketQuote        `json:"markets"`
	Summary      *models.MarketSummary       `json:"summary,omitempty"`
	Advice       models.ClassificationResult `json:"advice"`
}

// Service builds snapshots from a validated catalog. It holds no mutable
// state and is safe for concurrent use.
type Service struct {
	catalog config.CatalogConfig
	current int
	metrics *metrics.Registry
	logger  *zap.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithMetrics records every built snapshot in r.
func WithMetrics(r *metrics.Registry) Option {
	return func(s *Service) { s.metrics = r }
}

// WithLogger sets the service logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// New creates a Service over cfg's catalog and forecast settings. cfg must
// already be validated.
func New(cfg *config.Config, opts ...Option) *Service {
	s := &Service{
		catalog: cfg.Catalog,
		current: cfg.Forecast.CurrentMonth,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Catalog returns the catalog the service was built with.
func (s *Service) Catalog() config.CatalogConfig { return s.catalog }

// CurrentMonth returns the configured current-month index.
func (s *Service) CurrentMonth() int { return s.current }

// Build synthesizes a snapshot for req.
func (s *Service) Build(ctx context.Context, req Request) (*Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c, err := s.catalog.Commodity(req.Commodity)
	if err != nil {
		return nil, err
	}
	current := s.current
	if req.CurrentMonth != nil {
		current = *req.CurrentMonth
	}
	if err := s.catalog.CheckMonth(current); err != nil {
		return nil, err
	}
	state, err := s.resolveState(req.State)
	if err != nil {
		return nil, err
	}
	market := strings.TrimSpace(req.Market)
	if err := s.checkMarket(market); err != nil {
		return nil, err
	}

	start := time.Now()
	series := synth.PriceSeries(c, s.catalog.Months, current)
	quotes := synth.MarketComparison(c, s.catalog.Markets)
	snap := &Snapshot{
		ID:           uuid.NewString(),
		Commodity:    c,
		State:        state,
		CurrentMonth: current,
		CurrentLabel: s.catalog.Months[current],
		Series:       series,
		Markets:      quotes,
		Summary:      synth.SummarizeMarkets(quotes, market),
		Advice:       advisory.Classify(series, current, c.BasePrice),
	}
	took := time.Since(start)

	s.metrics.ObserveSnapshot(c.ID, snap.Advice.Trend, took)
	s.logger.Debug("snapshot built", append([]zap.Field{
		zap.String("id", snap.ID),
		zap.String("commodity", c.ID),
		zap.Int("current_month", current),
		zap.String("trend", string(snap.Advice.Trend)),
		zap.Duration("took", took),
	}, seedFields(c.BasePrice)...)...)
	return snap, nil
}

// BuildAll builds one snapshot per catalog commodity, in catalog order.
// current overrides the configured month when non-nil.
func (s *Service) BuildAll(ctx context.Context, current *int) ([]*Snapshot, error) {
	out := make([]*Snapshot, len(s.catalog.Commodities))

	g, gctx := errgroup.WithContext(ctx)
	for i, c := range s.catalog.Commodities {
		g.Go(func() error {
			snap, err := s.Build(gctx, Request{Commodity: c.ID, CurrentMonth: current})
			if err != nil {
				return fmt.Errorf("%s: %w", c.ID, err)
			}
			out[i] = snap
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// seedFields returns one field per synthesis stream, keyed by stream name.
func seedFields(base float64) []zap.Field {
	streams := []synth.Stream{synth.StreamPriceNoise, synth.StreamAverage, synth.StreamMarket}
	fields := make([]zap.Field, len(streams))
	for i, st := range streams {
		fields[i] = zap.Int64(st.Name+"_seed", st.Seed(base))
	}
	return fields
}

// resolveState returns the catalog spelling of state. An empty state selects
// the first catalog state, if any.
func (s *Service) resolveState(state string) (string, error) {
	if state == "" {
		if len(s.catalog.States) > 0 {
			return s.catalog.States[0], nil
		}
		return "", nil
	}
	for _, st := range s.catalog.States {
		if strings.EqualFold(st, strings.TrimSpace(state)) {
			return st, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownState, state)
}

func (s *Service) checkMarket(market string) error {
	if market == "" {
		return nil
	}
	for _, m := range s.catalog.Markets {
		if strings.EqualFold(m.Name, market) {
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrUnknownMarket, market)
}
