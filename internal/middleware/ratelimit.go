package middleware

import (
	"context"
	"net"
	"net/http"

	"doggy-daycare/internal/platform/metrics"
	"doggy-daycare/internal/platform/respond"

	"github.com/rs/zerolog"
)

// Limiter decide si una clave puede hacer otro request.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// RateLimit limita por usuario autenticado o, sin claims, por IP.
// Debe ir después de AuthContext: solo cuenta claims ya verificados.
// Si el limiter falla (p.ej. redis caído) el request pasa y se loguea.
func RateLimit(l Limiter, log zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if l == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := clientKey(r)
			ok, err := l.Allow(r.Context(), key)
			if err != nil {
				log.Warn().Err(err).Str("key", key).Msg("rate limiter unavailable")
				next.ServeHTTP(w, r)
				return
			}
			if !ok {
				metrics.IncRateLimited()
				respond.Message(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientKey(r *http.Request) string {
	if c, ok := GetClaims(r.Context()); ok && c.UserID != "" {
		return "user:" + c.UserID
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return "ip:" + host
}
