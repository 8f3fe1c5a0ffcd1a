package httpx

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/ariefcatur/go-factory-ledger/internal/listing"
	"github.com/ariefcatur/go-factory-ledger/internal/orders"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// LedgerHandler serves both order collections under /{kind}, where kind is
// sales or purchases.
type LedgerHandler struct {
	Ledger *orders.Ledger
	Log    *zap.Logger
}

func (h *LedgerHandler) Register(r chi.Router) {
	r.Get("/products", h.listProducts)
	r.Route("/{kind}", func(r chi.Router) {
		r.Get("/", h.list)
		r.Get("/summary", h.summary)
		r.Get("/{id}", h.get)
		r.Get("/{id}/payments", h.payments)
		r.Post("/{id}/payments", h.pay)
	})
}

func (h *LedgerHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, orders.Catalog)
}

func kindParam(w http.ResponseWriter, r *http.Request) (orders.Kind, bool) {
	kind, err := orders.ParseKind(chi.URLParam(r, "kind"))
	if err != nil {
		writeMsg(w, http.StatusNotFound, err.Error())
		return "", false
	}
	return kind, true
}

func idParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeMsg(w, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}

func (h *LedgerHandler) list(w http.ResponseWriter, r *http.Request) {
	kind, ok := kindParam(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	date, err := listing.ParseDateRange(q.Get("date"))
	if err != nil {
		writeMsg(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	list, err := h.Ledger.List(ctx, kind, orders.Filter{Search: q.Get("search"), Status: q.Get("status"), Date: date})
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *LedgerHandler) summary(w http.ResponseWriter, r *http.Request) {
	kind, ok := kindParam(w, r)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	s, err := h.Ledger.Summary(ctx, kind)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

func (h *LedgerHandler) get(w http.ResponseWriter, r *http.Request) {
	kind, ok := kindParam(w, r)
	if !ok {
		return
	}
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	o, err := h.Ledger.Get(ctx, kind, id)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (h *LedgerHandler) payments(w http.ResponseWriter, r *http.Request) {
	kind, ok := kindParam(w, r)
	if !ok {
		return
	}
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	ps, err := h.Ledger.Payments(ctx, kind, id)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, ps)
}

type PayResp struct {
	Order   orders.Order   `json:"order"`
	Payment orders.Payment `json:"payment"`
}

// pay records a follow-up payment in one call, without a checkout session.
func (h *LedgerHandler) pay(w http.ResponseWriter, r *http.Request) {
	kind, ok := kindParam(w, r)
	if !ok {
		return
	}
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var in orders.PaymentInput
	if !decode(w, r, &in) {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	o, p, err := h.Ledger.Pay(ctx, kind, id, in)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusCreated, PayResp{Order: o, Payment: p})
}
