// Package auth issues and verifies signed login tokens and keeps the user
// accounts they are issued for.
package auth

type Role string

const (
	RoleAdmin      Role = "admin"
	RoleCashier    Role = "cashier"
	RoleProduction Role = "production"
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleCashier || r == RoleProduction
}

// In reports whether r is one of allowed.
func (r Role) In(allowed ...Role) bool {
	for _, a := range allowed {
		if r == a {
			return true
		}
	}
	return false
}
