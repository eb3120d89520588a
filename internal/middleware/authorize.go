package middleware

import (
	"net/http"
	"strings"

	"doggy-daycare/internal/platform/respond"
	"doggy-daycare/internal/ports/capabilities"
)

// Authorizer exige capabilities por ruta.
// Un *Authorizer nil (auth deshabilitada) deja pasar todo.
type Authorizer struct {
	resolver capabilities.Resolver
}

func NewAuthorizer(resolver capabilities.Resolver) *Authorizer {
	return &Authorizer{resolver: resolver}
}

func (a *Authorizer) Require(c capabilities.Capability) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if a == nil || a.resolver == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := GetClaims(r.Context())
			if !ok || strings.TrimSpace(claims.UserID) == "" {
				respond.Message(w, http.StatusUnauthorized, "unauthorized")
				return
			}

			allowed, err := a.resolver.Has(r.Context(), claims, c)
			if err != nil || !allowed {
				respond.Message(w, http.StatusForbidden, "forbidden")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
