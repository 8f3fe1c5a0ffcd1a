package httpx

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/ariefcatur/go-factory-ledger/internal/auth"
	"github.com/ariefcatur/go-factory-ledger/internal/transactions"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type TransactionsHandler struct {
	Service *transactions.Service
	Log     *zap.Logger
}

func (h *TransactionsHandler) Register(r chi.Router) {
	r.Route("/transactions", func(r chi.Router) {
		r.Get("/", h.list)
		r.Post("/", h.add)
		r.Get("/summary", h.summary)
		r.Get("/{tid}", h.get)
		r.With(RequireRole(auth.RoleAdmin)).Delete("/{tid}", h.delete)
	})
}

func (h *TransactionsHandler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	list, err := h.Service.List(ctx, transactions.Filter{Search: q.Get("search"), Type: q.Get("type"), Status: q.Get("status")})
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *TransactionsHandler) add(w http.ResponseWriter, r *http.Request) {
	var in transactions.Input
	if !decode(w, r, &in) {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	t, err := h.Service.Add(ctx, in)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

func (h *TransactionsHandler) summary(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	s, err := h.Service.Summary(ctx)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

func (h *TransactionsHandler) get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	t, err := h.Service.Get(ctx, chi.URLParam(r, "tid"))
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// delete needs ?confirm=true; there is no undo.
func (h *TransactionsHandler) delete(w http.ResponseWriter, r *http.Request) {
	confirm, _ := strconv.ParseBool(r.URL.Query().Get("confirm"))
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.Service.Delete(ctx, chi.URLParam(r, "tid"), confirm); err != nil {
		writeError(w, h.Log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
