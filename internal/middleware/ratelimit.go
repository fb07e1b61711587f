package middleware

import (
	"net"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/tastebook/tastebook/internal/constants"
	"github.com/tastebook/tastebook/internal/utils"
	"github.com/tastebook/tastebook/internal/utils/ratelimit"
)

// RateLimit limits requests per client IP using the given limiter store.
// Intended for the credential endpoints, where guessing must stay expensive.
func RateLimit(store *ratelimit.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			clientIP := clientAddr(r)

			if !store.GetLimiter(clientIP).Allow() {
				log.Warn().
					Str("client_ip", clientIP).
					Str("path", r.URL.Path).
					Msg("Rate limit exceeded")

				utils.Error(
					w,
					http.StatusTooManyRequests,
					constants.CodeRateLimited,
					"Too many requests, please try again later",
					nil,
				)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// clientAddr extracts the client IP, stripping the port RemoteAddr carries.
func clientAddr(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
