package httpx

import (
	"github.com/ariefcatur/go-factory-ledger/internal/auth"
	"github.com/go-chi/chi/v5"
)

// API wires the handlers behind token auth:
//
//	POST /login                    public
//	/api/sales, /api/purchases     admin, cashier
//	/api/checkout                  admin, cashier
//	/api/transactions              admin, cashier (delete: admin)
//	/api/dashboard                 admin
//
// A nil handler leaves its routes out.
type API struct {
	Issuer       *auth.Issuer
	Auth         *AuthHandler
	Ledger       *LedgerHandler
	Checkout     *CheckoutHandler
	Transactions *TransactionsHandler
	Dashboard    *DashboardHandler
}

func (a *API) Register(r chi.Router) {
	if a.Auth != nil {
		a.Auth.Register(r)
	}
	r.Route("/api", func(r chi.Router) {
		r.Use(Authenticate(a.Issuer))

		r.Group(func(r chi.Router) {
			r.Use(RequireRole(auth.RoleAdmin))
			if a.Dashboard != nil {
				a.Dashboard.Register(r)
			}
		})

		r.Group(func(r chi.Router) {
			r.Use(RequireRole(auth.RoleAdmin, auth.RoleCashier))
			if a.Checkout != nil {
				a.Checkout.Register(r)
			}
			if a.Transactions != nil {
				a.Transactions.Register(r)
			}
			if a.Ledger != nil {
				a.Ledger.Register(r)
			}
		})
	})
}
