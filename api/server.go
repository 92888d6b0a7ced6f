// Package api provides the HTTP API server for AgriPulse.
//
// It exposes the catalog, per-commodity price series, market comparison,
// trend advice and full snapshots as JSON, a WebSocket selection stream, and
// Prometheus metrics.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/seenimoa/agripulse/internal/config"
	"github.com/seenimoa/agripulse/internal/dashboard"
	"github.com/seenimoa/agripulse/internal/metrics"
	"github.com/seenimoa/agripulse/pkg/models"
	"github.com/seenimoa/agripulse/pkg/utils"
)

// Version is reported by the health endpoint. Set by the CLI at startup.
var Version = "dev"

// Server is the HTTP API server.
type Server struct {
	router     chi.Router
	cfg        *config.Config
	configFile string
	svc        *dashboard.Service
	metrics    *metrics.Registry
	logger     *zap.Logger
	hub        *Hub
}

// NewServer creates a configured API server with all routes and middleware.
// cfg must already be validated. configFile is reported by the config
// endpoint and may be empty.
func NewServer(cfg *config.Config, configFile string, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	reg := metrics.NewRegistry()

	s := &Server{
		cfg:        cfg,
		configFile: configFile,
		metrics:    reg,
		logger:     logger,
		hub:        NewHub(reg),
		svc: dashboard.New(cfg,
			dashboard.WithMetrics(reg),
			dashboard.WithLogger(logger.Named("dashboard")),
		),
	}
	s.router = s.buildRouter()
	return s
}

// Router returns the chi router for testing.
func (s *Server) Router() chi.Router {
	return s.router
}

// ListenAndServe starts the HTTP server and shuts it down gracefully on
// SIGINT or SIGTERM.
func (s *Server) ListenAndServe(addr string) error {
	httpSrv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(done)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("api server listening", zap.String("addr", addr))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-done:
	}
	s.logger.Info("shutting down api server")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	s.hub.CloseAll()
	return httpSrv.Shutdown(ctx)
}

// buildRouter configures all routes and middleware.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.logger.Named("http")))
	r.Use(middleware.Recoverer)

	// CORS
	origins := []string{"*"}
	if len(s.cfg.API.CORSOrigins) > 0 {
		origins = s.cfg.API.CORSOrigins
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", s.metrics.Handler())

	// The stream is long-lived; keep it outside the request timeout.
	r.Get("/ws", s.handleStream)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Timeout(10 * time.Second))

		r.Get("/health", s.handleHealth)
		r.Get("/catalog", s.handleCatalog)
		r.Get("/config", s.handleGetConfig)
		r.Get("/dashboard", s.handleDashboard)

		r.Route("/commodities/{id}", func(r chi.Router) {
			r.Get("/prices", s.handlePrices)
			r.Get("/markets", s.handleMarkets)
			r.Get("/advice", s.handleAdvice)
			r.Get("/snapshot", s.handleSnapshot)
		})
	})

	return r
}

// ============================================================
// Request / Response types
// ============================================================

// APIResponse is the standard JSON envelope.
type APIResponse struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// CatalogResponse describes every selectable option.
type CatalogResponse struct {
	Commodities  []models.Commodity `json:"commodities"`
	Markets      []models.Market    `json:"markets"`
	States       []string           `json:"states"`
	Months       []string           `json:"months"`
	CurrentMonth int                `json:"current_month"`
}

// PricesResponse is the body of GET /commodities/{id}/prices.
type PricesResponse struct {
	Commodity    models.Commodity    `json:"commodity"`
	CurrentMonth int                 `json:"current_month"`
	Series       []models.MonthPoint `json:"series"`
}

// MarketsResponse is the body of GET /commodities/{id}/markets.
type MarketsResponse struct {
	Commodity models.Commodity      `json:"commodity"`
	Markets   []models.MarketQuote  `json:"markets"`
	Summary   *models.MarketSummary `json:"summary,omitempty"`
}

// AdviceResponse is the body of GET /commodities/{id}/advice.
type AdviceResponse struct {
	Commodity    models.Commodity            `json:"commodity"`
	CurrentMonth int                         `json:"current_month"`
	Advice       models.ClassificationResult `json:"advice"`
}

// ============================================================
// Handlers
// ============================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data: map[string]any{
			"status":   "ok",
			"version":  Version,
			"sessions": s.hub.ClientCount(),
			"time_ist": utils.FormatDateTimeIST(utils.NowIST()),
		},
	})
}

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	cat := s.svc.Catalog()
	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data: CatalogResponse{
			Commodities:  cat.Commodities,
			Markets:      cat.Markets,
			States:       cat.States,
			Months:       cat.Months,
			CurrentMonth: s.svc.CurrentMonth(),
		},
	})
}

func (s *Server) handlePrices(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.snapshot(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data: PricesResponse{
			Commodity:    snap.Commodity,
			CurrentMonth: snap.CurrentMonth,
			Series:       snap.Series,
		},
	})
}

func (s *Server) handleMarkets(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.snapshot(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data: MarketsResponse{
			Commodity: snap.Commodity,
			Markets:   snap.Markets,
			Summary:   snap.Summary,
		},
	})
}

func (s *Server) handleAdvice(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.snapshot(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data: AdviceResponse{
			Commodity:    snap.Commodity,
			CurrentMonth: snap.CurrentMonth,
			Advice:       snap.Advice,
		},
	})
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.snapshot(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: snap})
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	current, err := parseCurrent(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	snaps, err := s.svc.BuildAll(r.Context(), current)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: snaps})
}

// snapshot builds the snapshot named by the {id} path parameter and the
// current, state and market query parameters. It writes the error response
// itself and reports false on failure.
func (s *Server) snapshot(w http.ResponseWriter, r *http.Request) (*dashboard.Snapshot, bool) {
	current, err := parseCurrent(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return nil, false
	}
	q := r.URL.Query()
	snap, err := s.svc.Build(r.Context(), dashboard.Request{
		Commodity:    chi.URLParam(r, "id"),
		State:        q.Get("state"),
		Market:       q.Get("market"),
		CurrentMonth: current,
	})
	if err != nil {
		s.fail(w, r, err)
		return nil, false
	}
	return snap, true
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed",
			zap.String("path", r.URL.Path),
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.Error(err),
		)
	}
	writeError(w, status, err.Error())
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, config.ErrUnknownCommodity):
		return http.StatusNotFound
	case errors.Is(err, config.ErrInvalidMonth),
		errors.Is(err, dashboard.ErrUnknownState),
		errors.Is(err, dashboard.ErrUnknownMarket):
		return http.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// parseCurrent reads the optional "current" query parameter.
func parseCurrent(r *http.Request) (*int, error) {
	raw := r.URL.Query().Get("current")
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, errors.New("current must be an integer month index")
	}
	return &v, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, APIResponse{
		Success: false,
		Error:   msg,
	})
}

// requestLogger logs one line per request with zap.
func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			defer func() {
				logger.Info("request",
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.Int("status", ww.Status()),
					zap.Int("bytes", ww.BytesWritten()),
					zap.Duration("took", time.Since(start)),
					zap.String("request_id", middleware.GetReqID(r.Context())),
				)
			}()
			next.ServeHTTP(ww, r)
		})
	}
}
