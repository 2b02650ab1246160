package http

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/GobLyne/ECommerce/internal/auth"
	"github.com/GobLyne/ECommerce/pkg/logger"
	"github.com/GobLyne/ECommerce/pkg/metrics"
)

type ctxKeyUserID struct{}

// getUserID returns the authenticated user's id, or "" for anonymous
// requests.
func getUserID(ctx context.Context) string {
	if userID, ok := ctx.Value(ctxKeyUserID{}).(string); ok {
		return userID
	}
	return ""
}

// RequestIDMiddleware tags every request with an id and injects a
// request-scoped logger carrying it.
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}

		w.Header().Set("X-Request-ID", requestID)
		log := logger.FromCtx(r.Context()).With("request_id", requestID)
		next.ServeHTTP(w, r.WithContext(logger.Inject(r.Context(), log)))
	})
}

// AuthMiddleware validates the bearer credential and stores the user id in
// the request context. The credential travels with the request; there is no
// process-wide auth state.
func AuthMiddleware(tokens *auth.TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := userIDFromHeader(tokens, r)
			if !ok {
				respondError(w, http.StatusUnauthorized, "unauthorized", "missing or invalid credential")
				return
			}

			ctx := context.WithValue(r.Context(), ctxKeyUserID{}, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuthMiddleware attaches the user id when a valid credential is
// present and lets anonymous requests through. Used by the chatbot routes,
// which work without a cart.
func OptionalAuthMiddleware(tokens *auth.TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if userID, ok := userIDFromHeader(tokens, r); ok {
				r = r.WithContext(context.WithValue(r.Context(), ctxKeyUserID{}, userID))
			}
			next.ServeHTTP(w, r)
		})
	}
}

func userIDFromHeader(tokens *auth.TokenManager, r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	token := strings.TrimPrefix(header, "Bearer ")
	if token == "" || token == header {
		return "", false
	}

	claims, err := tokens.Validate(token)
	if err != nil {
		return "", false
	}
	return claims.UserID, true
}

// CORSMiddleware adds permissive cross-origin headers for the browser
// client.
func CORSMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Accept, Authorization, Content-Type, X-Request-ID")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(status int) {
	rec.status = status
	rec.ResponseWriter.WriteHeader(status)
}

// MetricsMiddleware records request counts and latency per route pattern.
func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		next.ServeHTTP(rec, r)

		path := chi.RouteContext(r.Context()).RoutePattern()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(rec.status)
		metrics.RequestTotal.WithLabelValues(r.Method, path, status).Inc()
		metrics.RequestDuration.WithLabelValues(r.Method, path, status).Observe(time.Since(start).Seconds())
	})
}
