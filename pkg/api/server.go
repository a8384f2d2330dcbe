package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/uhyunpark/dexbook/pkg/orders"
	"github.com/uhyunpark/dexbook/pkg/util"
)

// Options tune the proxy. Zero values pick the defaults noted on each field.
type Options struct {
	SourceTimeout    time.Duration // 10s
	VerifySignatures bool
	AllowedOrigins   []string // http://localhost:3000
	Clock            util.Clock
}

// Server relays order book requests to an orders.Source.
type Server struct {
	source  orders.Source
	router  *mux.Router
	logger  *zap.SugaredLogger
	metrics *metrics
	opts    Options
}

func NewServer(source orders.Source, logger *zap.SugaredLogger, opts Options) *Server {
	if opts.SourceTimeout <= 0 {
		opts.SourceTimeout = 10 * time.Second
	}
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"http://localhost:3000"}
	}
	if opts.Clock == nil {
		opts.Clock = util.RealClock{}
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	s := &Server{
		source:  source,
		router:  mux.NewRouter(),
		logger:  logger,
		metrics: newMetrics(),
		opts:    opts,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	// keep %2F inside a segment from splitting it; handlers unescape
	s.router.UseEncodedPath()

	api := s.router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/getOrders/{address}", s.handleGetOrders).Methods("GET")
	api.HandleFunc("/getOrders/{address}/{wallet}/{signature}", s.handleGetOrders).Methods("GET")

	s.router.Handle("/metrics", s.metrics.handler()).Methods("GET")
	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")
}

// Handler returns the router wrapped with CORS.
func (s *Server) Handler() http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: s.opts.AllowedOrigins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	})
	return c.Handler(s.router)
}

// Start serves on addr until ctx is cancelled, then drains in-flight requests.
func (s *Server) Start(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Infow("api_server_listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// ==============================
// REST Handlers
// ==============================

func (s *Server) handleGetOrders(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	vars := mux.Vars(r)
	address, err1 := url.PathUnescape(vars["address"])
	wallet, err2 := url.PathUnescape(vars["wallet"])
	signature, err3 := url.PathUnescape(vars["signature"])
	if err := errors.Join(err1, err2, err3); err != nil {
		s.finish(w, start, outcomeBadRequest, http.StatusBadRequest, "invalid path encoding")
		return
	}

	if strings.TrimSpace(address) == "" {
		s.finish(w, start, outcomeBadRequest, http.StatusBadRequest, "address required")
		return
	}

	s.logger.Infow("get_orders",
		"address", address,
		"wallet", wallet,
		"signature", signature,
		"signed", signature != "")

	if s.opts.VerifySignatures {
		if err := s.verifyAttestation(address, wallet, signature); err != nil {
			s.logger.Warnw("get_orders_unauthorized", "address", address, "wallet", wallet, "err", err)
			s.finish(w, start, outcomeUnauthorized, http.StatusUnauthorized, err.Error())
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.opts.SourceTimeout)
	defer cancel()

	book, err := s.source.GetOrders(ctx, address)
	if err != nil {
		msg := err.Error()
		if errors.Is(err, context.DeadlineExceeded) {
			msg = "order source timed out"
		}
		s.logger.Errorw("get_orders_failed", "address", address, "err", err)
		s.finish(w, start, outcomeError, http.StatusInternalServerError, msg)
		return
	}

	book = normalizeBook(book)
	if err := book.Validate(); err != nil {
		s.logger.Errorw("get_orders_malformed", "address", address, "err", err)
		s.finish(w, start, outcomeError, http.StatusInternalServerError, "order source returned a malformed book")
		return
	}

	respondJSON(w, http.StatusOK, orders.Envelope{Response: book})
	s.metrics.observe(outcomeOK, time.Since(start))
}

// normalizeBook returns a copy whose missing lists encode as [] rather than null.
// The source's book is left untouched since a cache may share it.
func normalizeBook(book *orders.Book) *orders.Book {
	out := orders.Book{}
	if book != nil {
		out = *book
	}
	if out.BuyOrders == nil {
		out.BuyOrders = []orders.Order{}
	}
	if out.SellOrders == nil {
		out.SellOrders = []orders.Order{}
	}
	return &out
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ==============================
// Helper Functions
// ==============================

func (s *Server) finish(w http.ResponseWriter, start time.Time, outcome string, status int, message string) {
	respondError(w, status, message)
	s.metrics.observe(outcome, time.Since(start))
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, orders.Envelope{Error: message})
}
