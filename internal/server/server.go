// Package server is the tool dispatch surface: a thin HTTP layer mapping
// flat JSON argument objects onto the operations service and the search
// engine. No business logic lives here.
package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"finvasia-agent/internal/interfaces"
	"finvasia-agent/internal/logger"
	"finvasia-agent/internal/noren"
	"finvasia-agent/internal/search"
	"finvasia-agent/internal/types"
)

// RefreshRunner triggers an instrument snapshot rebuild.
type RefreshRunner interface {
	Refresh(ctx context.Context) error
}

// Server routes tool calls to their operations.
type Server struct {
	router    chi.Router
	ops       interfaces.Operations
	searcher  interfaces.Searcher
	refresher RefreshRunner
}

// New builds the dispatch server.
func New(ops interfaces.Operations, searcher interfaces.Searcher, refresher RefreshRunner) *Server {
	s := &Server{
		router:    chi.NewRouter(),
		ops:       ops,
		searcher:  searcher,
		refresher: refresher,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.Use(middleware.Recoverer)

	s.router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	s.router.Route("/tools", func(r chi.Router) {
		r.Post("/search", s.handleSearch)
		r.Post("/quotes", decode(func(ctx context.Context, p types.QuotesParams) noren.Response {
			return s.ops.Quotes(ctx, p)
		}))
		r.Post("/place_order", decode(func(ctx context.Context, p types.PlaceOrderParams) noren.Response {
			return s.ops.PlaceOrder(ctx, p)
		}))
		r.Post("/modify_order", decode(func(ctx context.Context, p types.ModifyOrderParams) noren.Response {
			return s.ops.ModifyOrder(ctx, p)
		}))
		r.Post("/cancel_order", decode(func(ctx context.Context, p struct {
			Norenordno string `json:"norenordno"`
		}) noren.Response {
			return s.ops.CancelOrder(ctx, p.Norenordno)
		}))
		r.Post("/order_status", decode(func(ctx context.Context, p types.OrderStatusParams) noren.Response {
			return s.ops.OrderStatus(ctx, p)
		}))
		r.Post("/order_history", decode(func(ctx context.Context, p struct {
			Norenordno string `json:"norenordno"`
		}) noren.Response {
			return s.ops.OrderHistory(ctx, p.Norenordno)
		}))
		r.Post("/order_book", decode(func(ctx context.Context, p struct {
			Prd string `json:"prd"`
		}) noren.Response {
			return s.ops.OrderBook(ctx, p.Prd)
		}))
		r.Post("/trade_book", decode(func(ctx context.Context, p struct {
			Actid string `json:"actid"`
		}) noren.Response {
			return s.ops.TradeBook(ctx, p.Actid)
		}))
		r.Post("/order_margin", decode(func(ctx context.Context, p types.OrderMarginParams) noren.Response {
			return s.ops.OrderMargin(ctx, p)
		}))
		r.Post("/positions", decode(func(ctx context.Context, p struct {
			Actid string `json:"actid"`
		}) noren.Response {
			return s.ops.Positions(ctx, p.Actid)
		}))
		r.Post("/holdings", decode(func(ctx context.Context, p types.HoldingsParams) noren.Response {
			return s.ops.Holdings(ctx, p)
		}))
		r.Post("/watchlist", s.handleNoArgs(func(ctx context.Context) noren.Response {
			return s.ops.Watchlist(ctx)
		}))
		r.Post("/profile", s.handleNoArgs(func(ctx context.Context) noren.Response {
			return s.ops.Profile(ctx)
		}))
		r.Post("/balance", s.handleNoArgs(func(ctx context.Context) noren.Response {
			return s.ops.Balance(ctx)
		}))
	})

	s.router.Post("/instruments/refresh", s.handleRefresh)
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var q search.Query
	if err := decodeBody(r, &q); err != nil {
		writeJSON(w, http.StatusBadRequest, noren.Fail("invalid search arguments: "+err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, s.searcher.Search(r.Context(), q))
}

func (s *Server) handleNoArgs(op func(ctx context.Context) noren.Response) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeResponse(w, op(r.Context()))
	}
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if err := s.refresher.Refresh(r.Context()); err != nil {
		logger.ErrorWithErr(r.Context(), "Instrument refresh failed", err)
		writeJSON(w, http.StatusBadGateway, noren.Fail(err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"stat": noren.StatOK})
}

// decode builds a handler that unmarshals the flat argument object into P
// and runs the operation.
func decode[P any](op func(ctx context.Context, p P) noren.Response) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var p P
		if err := decodeBody(r, &p); err != nil {
			writeJSON(w, http.StatusBadRequest, noren.Fail("invalid arguments: "+err.Error()))
			return
		}
		writeResponse(w, op(r.Context(), p))
	}
}

func decodeBody(r *http.Request, v any) error {
	defer r.Body.Close()
	err := json.NewDecoder(r.Body).Decode(v)
	if err == io.EOF {
		// Empty body means no arguments; every field keeps its zero value.
		return nil
	}
	return err
}

// writeResponse renders a broker response: successful bodies pass through
// verbatim so broker fields survive untouched.
func writeResponse(w http.ResponseWriter, resp noren.Response) {
	w.Header().Set("Content-Type", "application/json")
	if resp.OK() && len(resp.Raw) > 0 {
		w.WriteHeader(http.StatusOK)
		w.Write(resp.Raw)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"stat": resp.Stat, "emsg": resp.Emsg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.ErrorWithErr(context.Background(), "Encoding response failed", err)
	}
}
