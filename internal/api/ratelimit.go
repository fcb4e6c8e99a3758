package api

import (
	"net/http"
	"strings"

	"github.com/earmarkapp/earmark-server/internal/http/response"
)

// rateLimitSessions limits session writes per client IP, answering 429
// when the bucket is empty.
func (s *Server) rateLimitSessions(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := clientIP(r)

		if !s.sessionLimiter.Allow(key) {
			s.logger.Warn("rate limit exceeded",
				"ip", key,
				"path", r.URL.Path,
			)
			response.TooManyRequests(w, "Too many requests. Please try again later.", s.logger)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// clientIP extracts the client IP from the request. The RealIP
// middleware already folds X-Forwarded-For and X-Real-IP into
// RemoteAddr.
func clientIP(r *http.Request) string {
	addr := r.RemoteAddr
	if i := strings.LastIndex(addr, ":"); i != -1 {
		return addr[:i]
	}
	return addr
}
