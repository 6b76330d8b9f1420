package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/Simplici0/teeworks/internal/estimator"
	"github.com/Simplici0/teeworks/internal/store"
)

const maxBodyBytes = 1 << 20

type estimateStore interface {
	Create(ctx context.Context, n store.NewEstimate) (store.Estimate, error)
	Get(ctx context.Context, id string) (store.Estimate, error)
	List(ctx context.Context, query string) ([]store.EstimateListItem, error)
	Delete(ctx context.Context, id string) error
}

type server struct {
	estimates estimateStore
	log       *zap.Logger
}

type errorResponse struct {
	Error string `json:"error"`
}

func newServer(estimates estimateStore, log *zap.Logger) *server {
	if log == nil {
		log = zap.NewNop()
	}
	return &server{estimates: estimates, log: log}
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.accessLog)

	r.Get("/healthz", s.handleHealth)
	r.Post("/unit-prices", s.handleUnitPrices)
	r.Route("/estimates", func(r chi.Router) {
		r.Get("/", s.handleEstimatesList)
		r.Post("/", s.handleEstimatesCreate)
		r.Get("/{id}", s.handleEstimateDetail)
		r.Get("/{id}/text", s.handleEstimateText)
		r.Delete("/{id}", s.handleEstimateDelete)
	})

	return r
}

func (s *server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		s.log.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *server) handleUnitPrices(w http.ResponseWriter, r *http.Request) {
	var group estimator.GroupCost
	if err := decodeJSON(w, r, &group); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	if err := group.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, estimator.Price(group))
}

func (s *server) handleEstimatesList(w http.ResponseWriter, r *http.Request) {
	items, err := s.estimates.List(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		s.internalError(w, r, "failed to load estimates", err)
		return
	}

	writeJSON(w, http.StatusOK, items)
}

func (s *server) handleEstimatesCreate(w http.ResponseWriter, r *http.Request) {
	var in store.NewEstimate
	if err := decodeJSON(w, r, &in); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	est, err := s.estimates.Create(r.Context(), in)
	if err != nil {
		if errors.Is(err, store.ErrInvalidEstimate) {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}
		s.internalError(w, r, "failed to create estimate", err)
		return
	}

	s.log.Info("estimate created", zap.String("id", est.ID), zap.Int("subtotal", est.Subtotal))
	w.Header().Set("Location", "/estimates/"+est.ID)
	writeJSON(w, http.StatusCreated, est)
}

func (s *server) handleEstimateDetail(w http.ResponseWriter, r *http.Request) {
	est, ok := s.loadEstimate(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, est)
}

func (s *server) handleEstimateText(w http.ResponseWriter, r *http.Request) {
	est, ok := s.loadEstimate(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, renderEstimateText(est))
}

func (s *server) handleEstimateDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.estimates.Delete(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
			return
		}
		s.internalError(w, r, "failed to delete estimate", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) loadEstimate(w http.ResponseWriter, r *http.Request) (store.Estimate, bool) {
	est, err := s.estimates.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
			return store.Estimate{}, false
		}
		s.internalError(w, r, "failed to load estimate", err)
		return store.Estimate{}, false
	}
	return est, true
}

func (s *server) internalError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	s.log.Error(msg,
		zap.Error(err),
		zap.String("path", r.URL.Path),
		zap.String("request_id", middleware.GetReqID(r.Context())),
	)
	writeJSON(w, http.StatusInternalServerError, errorResponse{Error: msg})
}

func renderEstimateText(est store.Estimate) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Estimate: %s\n", est.Title)
	if est.Customer != "" {
		fmt.Fprintf(&b, "Customer: %s\n", est.Customer)
	}
	fmt.Fprintf(&b, "Date: %s\n", est.CreatedAt.Format("2006-01-02"))
	if est.Notes != "" {
		fmt.Fprintf(&b, "Notes: %s\n", est.Notes)
	}

	for i, g := range est.Groups {
		name := g.Name
		if name == "" {
			name = fmt.Sprintf("Group %d", i+1)
		}
		fmt.Fprintf(&b, "\n%d. %s\n", i+1, name)
		fmt.Fprintf(&b, "   Quantity: %d (bring-in: %d)\n", g.Quantity, g.BringInQuantity)
		fmt.Fprintf(&b, "   Labor unit price: %d\n", g.LaborUnitPrice)
		fmt.Fprintf(&b, "   Sales unit price: %d\n", g.SalesUnitPrice)
		fmt.Fprintf(&b, "   Amount: %d\n", g.Amount)
	}

	fmt.Fprintf(&b, "\nSubtotal: %d\n", est.Subtotal)
	return b.String()
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
