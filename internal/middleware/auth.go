package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/armonia-saas/access-service-go/internal/util"
)

type contextKey string

const StationContextKey contextKey = "station"

// DefaultStationID is used when a scan station does not identify itself.
const DefaultStationID = "desconocida"

// GetStation returns the scan station identifier attached by StationAuthMiddleware.
func GetStation(ctx context.Context) string {
	if station, ok := ctx.Value(StationContextKey).(string); ok {
		return station
	}
	return ""
}

// StationAuthMiddleware authenticates guard stations against a shared bcrypt
// token hash and tags the request with the station identifier from the
// X-Station-Id header.
type StationAuthMiddleware struct {
	tokenHash string
}

func NewStationAuthMiddleware(tokenHash string) *StationAuthMiddleware {
	return &StationAuthMiddleware{tokenHash: tokenHash}
}

func (m *StationAuthMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.tokenHash == "" {
			// Auth disabled outside production.
			ctx := context.WithValue(r.Context(), StationContextKey, stationID(r))
			next.ServeHTTP(w, r.WithContext(ctx))
			return
		}

		token := extractToken(r)
		if token == "" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{
				"error": "Missing authentication token",
			})
			return
		}

		if !util.CheckTokenHash(token, m.tokenHash) {
			log.Warn().Str("station", stationID(r)).Msg("auth middleware: invalid token attempt")
			writeJSON(w, http.StatusUnauthorized, map[string]string{
				"error": "Invalid token",
			})
			return
		}

		ctx := context.WithValue(r.Context(), StationContextKey, stationID(r))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func stationID(r *http.Request) string {
	if station := r.Header.Get("X-Station-Id"); station != "" {
		return station
	}
	return DefaultStationID
}

func extractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return ""
}
