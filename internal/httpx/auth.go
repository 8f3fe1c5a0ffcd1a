package httpx

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/ariefcatur/go-factory-ledger/internal/auth"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type claimsKey struct{}

func ClaimsFrom(ctx context.Context) (*auth.Claims, bool) {
	c, ok := ctx.Value(claimsKey{}).(*auth.Claims)
	return c, ok
}

// Authenticate requires a valid bearer token and stores its claims in the
// request context.
func Authenticate(iss *auth.Issuer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				writeMsg(w, http.StatusUnauthorized, "authorization header is required")
				return
			}
			token := strings.TrimPrefix(header, "Bearer ")
			if token == header {
				writeMsg(w, http.StatusUnauthorized, "authorization header must start with Bearer")
				return
			}
			claims, err := iss.Validate(token)
			if err != nil {
				writeMsg(w, http.StatusUnauthorized, err.Error())
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), claimsKey{}, claims)))
		})
	}
}

// RequireRole lets the request through only for the given roles.
func RequireRole(roles ...auth.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c, ok := ClaimsFrom(r.Context())
			if !ok || !c.Role.In(roles...) {
				writeMsg(w, http.StatusForbidden, "you do not have permission to access this resource")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

type LoginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResp struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	Username  string    `json:"username"`
	Role      auth.Role `json:"role"`
}

type AuthHandler struct {
	Users  *auth.Users
	Issuer *auth.Issuer
	Log    *zap.Logger
}

func (h *AuthHandler) Register(r chi.Router) {
	r.Post("/login", h.login)
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	var req LoginReq
	if !decode(w, r, &req) {
		return
	}
	if req.Username == "" || req.Password == "" {
		writeMsg(w, http.StatusBadRequest, "missing fields")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	user, err := h.Users.Authenticate(ctx, req.Username, req.Password)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	token, exp, err := h.Issuer.Generate(user)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, LoginResp{Token: token, ExpiresAt: exp, Username: user.Username, Role: user.Role})
}
