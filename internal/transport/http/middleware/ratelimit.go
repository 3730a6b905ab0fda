package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/httprate"

	"github.com/baechuer/real-time-ressys/services/ad-service/internal/domain"
)

// RateLimitByIP limits each client IP to limit requests per window and
// answers overflow with the standard error body.
func RateLimitByIP(limit int, window time.Duration, writeErr WriteErrFunc) func(http.Handler) http.Handler {
	return httprate.Limit(
		limit,
		window,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			writeErr(w, r, domain.ErrRateLimited())
		}),
	)
}
