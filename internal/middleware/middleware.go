package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/atelierprint/printshop-service/internal/auth"
	"github.com/atelierprint/printshop-service/pkg/httputil"
	"github.com/atelierprint/printshop-service/pkg/logger"
	"go.uber.org/zap"
)

// Authenticator verifies bearer tokens and stamps the user context onto
// each request before it reaches a handler.
type Authenticator struct {
	secret string
	logger logger.ZapLogger
}

func NewAuthenticator(secret string, log logger.ZapLogger) *Authenticator {
	return &Authenticator{secret: secret, logger: log}
}

func (a *Authenticator) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			httputil.RespondWithError(w, http.StatusUnauthorized, "missing authorization header")
			return
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			httputil.RespondWithError(w, http.StatusUnauthorized, "malformed authorization header")
			return
		}

		user, err := auth.VerifyToken(a.secret, parts[1])
		if err != nil {
			a.logger.Warn("token rejected", zap.Error(err))
			httputil.RespondWithError(w, http.StatusUnauthorized, "invalid token")
			return
		}

		next.ServeHTTP(w, r.WithContext(auth.WithUser(r.Context(), user)))
	})
}

// RequirePermission gates a handler on the caller's role. It must run after
// Authenticate, which populates the role in the request context.
func RequirePermission(p auth.Permission, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		role := auth.GetRole(r.Context())
		if !role.Can(p) {
			httputil.RespondWithError(w, http.StatusForbidden, "role not allowed")
			return
		}
		next(w, r)
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// RequestLogger logs one structured line per request.
func RequestLogger(log logger.ZapLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)
			log.Info("http request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", rec.status),
				zap.Duration("duration", time.Since(start)),
			)
		})
	}
}
