package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/baechuer/real-time-ressys/services/ad-service/internal/domain"
	"github.com/baechuer/real-time-ressys/services/ad-service/internal/transport/http/validate"
)

// uuidParam reads a chi URL parameter that must be a UUID.
func uuidParam(r *http.Request, name string) (string, error) {
	v := chi.URLParam(r, name)
	if !validate.IsUUID(v) {
		return "", domain.ErrInvalidField(name, "must be a UUID")
	}
	return v, nil
}

// intQuery parses an optional integer query parameter bounded below by min.
func intQuery(r *http.Request, name string, def, min int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, domain.ErrInvalidField(name, "must be an integer")
	}
	if n < min {
		return 0, domain.ErrInvalidField(name, "must be at least "+strconv.Itoa(min))
	}
	return n, nil
}
