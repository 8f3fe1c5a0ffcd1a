package httpx

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ariefcatur/go-factory-ledger/internal/auth"
	"github.com/ariefcatur/go-factory-ledger/internal/checkout"
	"github.com/ariefcatur/go-factory-ledger/internal/orders"
	"github.com/ariefcatur/go-factory-ledger/internal/transactions"
	"go.uber.org/zap"
)

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMsg(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeMsg(w, http.StatusBadRequest, "invalid json")
		return false
	}
	return true
}

// statusOf maps domain errors to HTTP status codes.
func statusOf(err error) int {
	switch {
	case orders.IsValidation(err), errors.Is(err, transactions.ErrInvalid):
		return http.StatusBadRequest
	case errors.Is(err, orders.ErrNotFound),
		errors.Is(err, transactions.ErrNotFound),
		errors.Is(err, checkout.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, orders.ErrAlreadyPaid),
		errors.Is(err, orders.ErrNothingOwed),
		errors.Is(err, checkout.ErrWrongStep),
		errors.Is(err, checkout.ErrCannotGoBack),
		errors.Is(err, checkout.ErrSessionBusy),
		errors.Is(err, transactions.ErrConfirmationRequired):
		return http.StatusConflict
	case errors.Is(err, auth.ErrInvalidCredentials), errors.Is(err, auth.ErrInvalidToken):
		return http.StatusUnauthorized
	}
	return http.StatusInternalServerError
}

func writeError(w http.ResponseWriter, log *zap.Logger, err error) {
	code := statusOf(err)
	if code == http.StatusInternalServerError {
		if log != nil {
			log.Error("request failed", zap.Error(err))
		}
		writeMsg(w, code, "internal error")
		return
	}
	writeMsg(w, code, err.Error())
}
