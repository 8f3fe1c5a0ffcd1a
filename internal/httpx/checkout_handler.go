package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/ariefcatur/go-factory-ledger/internal/checkout"
	"github.com/ariefcatur/go-factory-ledger/internal/orders"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type CheckoutHandler struct {
	Service *checkout.Service
	Log     *zap.Logger
}

func (h *CheckoutHandler) Register(r chi.Router) {
	r.Route("/checkout", func(r chi.Router) {
		r.Post("/", h.open)
		r.Post("/payment", h.openPayment)
		r.Get("/{sid}", h.get)
		r.Delete("/{sid}", h.cancel)
		r.Patch("/{sid}", h.setDetails)
		r.Post("/{sid}/items", h.addItem)
		r.Patch("/{sid}/items/{index}", h.setItemField)
		r.Delete("/{sid}/items/{index}", h.removeItem)
		r.Post("/{sid}/submit", h.submitOrder)
		r.Post("/{sid}/pay", h.submitPayment)
		r.Post("/{sid}/back", h.goBack)
	})
}

type OpenCheckoutReq struct {
	Kind    string `json:"kind"`
	OrderID int64  `json:"order_id,omitempty"`
}

type DetailsReq struct {
	OrderNumber   string               `json:"order_number"`
	PaymentTiming orders.PaymentTiming `json:"payment_timing"`
	Date          string               `json:"date"`
}

// ItemFieldReq carries the raw form value; numbers and strings are both
// accepted.
type ItemFieldReq struct {
	Field orders.ItemField `json:"field"`
	Value json.RawMessage  `json:"value"`
}

func (q ItemFieldReq) text() string {
	var s string
	if err := json.Unmarshal(q.Value, &s); err == nil {
		return s
	}
	return strings.TrimSpace(string(q.Value))
}

// SubmitResp is the result of the order step: either the created order
// (pay later) or the session now waiting for payment.
type SubmitResp struct {
	Order   *orders.Order     `json:"order,omitempty"`
	Session *checkout.Session `json:"session,omitempty"`
}

func (h *CheckoutHandler) ctx(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), 5*time.Second)
}

func (h *CheckoutHandler) reply(w http.ResponseWriter, code int, s checkout.Session, err error) {
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, code, s)
}

func (h *CheckoutHandler) open(w http.ResponseWriter, r *http.Request) {
	var req OpenCheckoutReq
	if !decode(w, r, &req) {
		return
	}
	kind, err := orders.ParseKind(req.Kind)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	ctx, cancel := h.ctx(r)
	defer cancel()
	s, err := h.Service.Open(ctx, kind)
	h.reply(w, http.StatusCreated, s, err)
}

func (h *CheckoutHandler) openPayment(w http.ResponseWriter, r *http.Request) {
	var req OpenCheckoutReq
	if !decode(w, r, &req) {
		return
	}
	kind, err := orders.ParseKind(req.Kind)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	if req.OrderID <= 0 {
		writeMsg(w, http.StatusBadRequest, "missing order_id")
		return
	}
	ctx, cancel := h.ctx(r)
	defer cancel()
	s, err := h.Service.OpenPayment(ctx, kind, req.OrderID)
	h.reply(w, http.StatusCreated, s, err)
}

func (h *CheckoutHandler) get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.ctx(r)
	defer cancel()
	s, err := h.Service.Get(ctx, chi.URLParam(r, "sid"))
	h.reply(w, http.StatusOK, s, err)
}

func (h *CheckoutHandler) cancel(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.ctx(r)
	defer cancel()
	if err := h.Service.Cancel(ctx, chi.URLParam(r, "sid")); err != nil {
		writeError(w, h.Log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CheckoutHandler) setDetails(w http.ResponseWriter, r *http.Request) {
	var req DetailsReq
	if !decode(w, r, &req) {
		return
	}
	ctx, cancel := h.ctx(r)
	defer cancel()
	s, err := h.Service.SetDetails(ctx, chi.URLParam(r, "sid"), req.OrderNumber, req.PaymentTiming, req.Date)
	h.reply(w, http.StatusOK, s, err)
}

func (h *CheckoutHandler) addItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.ctx(r)
	defer cancel()
	s, err := h.Service.AddItem(ctx, chi.URLParam(r, "sid"))
	h.reply(w, http.StatusOK, s, err)
}

func indexParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	i, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeMsg(w, http.StatusBadRequest, "invalid item index")
		return 0, false
	}
	return i, true
}

func (h *CheckoutHandler) setItemField(w http.ResponseWriter, r *http.Request) {
	i, ok := indexParam(w, r)
	if !ok {
		return
	}
	var req ItemFieldReq
	if !decode(w, r, &req) {
		return
	}
	ctx, cancel := h.ctx(r)
	defer cancel()
	s, err := h.Service.SetItemField(ctx, chi.URLParam(r, "sid"), i, req.Field, req.text())
	h.reply(w, http.StatusOK, s, err)
}

func (h *CheckoutHandler) removeItem(w http.ResponseWriter, r *http.Request) {
	i, ok := indexParam(w, r)
	if !ok {
		return
	}
	ctx, cancel := h.ctx(r)
	defer cancel()
	s, err := h.Service.RemoveItem(ctx, chi.URLParam(r, "sid"), i)
	h.reply(w, http.StatusOK, s, err)
}

func (h *CheckoutHandler) submitOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.ctx(r)
	defer cancel()
	s, o, err := h.Service.SubmitOrder(ctx, chi.URLParam(r, "sid"))
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	if o != nil {
		writeJSON(w, http.StatusCreated, SubmitResp{Order: o})
		return
	}
	writeJSON(w, http.StatusOK, SubmitResp{Session: &s})
}

func (h *CheckoutHandler) submitPayment(w http.ResponseWriter, r *http.Request) {
	var in orders.PaymentInput
	if !decode(w, r, &in) {
		return
	}
	ctx, cancel := h.ctx(r)
	defer cancel()
	o, err := h.Service.SubmitPayment(ctx, chi.URLParam(r, "sid"), in)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusCreated, SubmitResp{Order: &o})
}

func (h *CheckoutHandler) goBack(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.ctx(r)
	defer cancel()
	s, err := h.Service.GoBack(ctx, chi.URLParam(r, "sid"))
	h.reply(w, http.StatusOK, s, err)
}
