package middleware

import (
	"net/http"
	"strconv"

	"golang.org/x/time/rate"

	"github.com/dtroode/recipes-server/internal/api/rest/response"
)

// RateLimit is a process-wide token bucket in front of the API.
type RateLimit struct {
	limiter *rate.Limiter
	limit   float64
	burst   int
}

// NewRateLimit allows limit requests per second with the given burst.
func NewRateLimit(limit float64, burst int) *RateLimit {
	return &RateLimit{
		limiter: rate.NewLimiter(rate.Limit(limit), burst),
		limit:   limit,
		burst:   burst,
	}
}

func (m *RateLimit) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !m.limiter.Allow() {
			rateLimitRejects.Inc()
			w.Header().Set("Retry-After", "1")
			response.WriteMessage(w, http.StatusTooManyRequests, "Rate limit exceeded")
			return
		}

		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(int(m.limit)))
		w.Header().Set("X-RateLimit-Burst", strconv.Itoa(m.burst))

		next.ServeHTTP(w, r)
	})
}
