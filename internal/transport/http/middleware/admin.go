package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	zlog "github.com/rs/zerolog/log"

	"github.com/baechuer/real-time-ressys/services/ad-service/internal/domain"
)

const RoleAdmin = "admin"

type WriteErrFunc func(w http.ResponseWriter, r *http.Request, err error)

type AdminClaims struct {
	UserID string `json:"uid"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// RequireAdmin accepts HS256 bearer tokens carrying role=admin. An empty
// secret disables the guard; config requires one outside dev.
func RequireAdmin(secret, issuer string, writeErr WriteErrFunc) func(http.Handler) http.Handler {
	key := []byte(secret)
	return func(next http.Handler) http.Handler {
		if secret == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := parseAdmin(r, key, issuer)
			if err != nil {
				zlog.Debug().Err(err).Msg("admin token rejected")
				writeErr(w, r, err)
				return
			}
			if claims.Role != RoleAdmin {
				writeErr(w, r, domain.ErrForbidden())
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func parseAdmin(r *http.Request, key []byte, issuer string) (*AdminClaims, error) {
	h := strings.TrimSpace(r.Header.Get("Authorization"))
	if !strings.HasPrefix(h, "Bearer ") {
		return nil, domain.ErrTokenMissing()
	}
	raw := strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithLeeway(30 * time.Second),
	}
	if issuer != "" {
		opts = append(opts, jwt.WithIssuer(issuer))
	}

	claims := &AdminClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		return key, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrTokenExpired()
		}
		return nil, domain.ErrTokenInvalid()
	}
	return claims, nil
}
