package httpx

import (
	"context"
	"net/http"
	"time"

	"github.com/ariefcatur/go-factory-ledger/internal/summary"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type DashboardSource interface {
	Dashboard(ctx context.Context) (summary.Dashboard, error)
}

type DashboardHandler struct {
	Source DashboardSource
	Log    *zap.Logger
}

func (h *DashboardHandler) Register(r chi.Router) {
	r.Get("/dashboard", h.dashboard)
}

func (h *DashboardHandler) dashboard(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	d, err := h.Source.Dashboard(ctx)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}
