package interceptors

import (
	"log/slog"
	"net"
	"net/http"
	"runtime/debug"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"github.com/FACorreiaa/loci-trip-planner/pkg/observability"
)

// Middleware wraps an http.Handler.
type Middleware func(http.Handler) http.Handler

// Chain applies mws so that the first one is the outermost.
func Chain(h http.Handler, mws ...Middleware) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

// HTTPRequestID mirrors NewRequestIDInterceptor for plain HTTP routes.
func HTTPRequestID(header string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(header)
			if id == "" {
				id = uuid.NewString()
			}
			w.Header().Set(header, id)
			next.ServeHTTP(w, r.WithContext(WithRequestID(r.Context(), id)))
		})
	}
}

// HTTPRecovery answers 500 when a handler panics.
func HTTPRecovery(logger *slog.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.ErrorContext(r.Context(), "Recovered from panic", withRequestID(r.Context(),
						slog.String("path", r.URL.Path),
						slog.Any("panic", rec),
						slog.String("stack", string(debug.Stack())),
					)...)
					http.Error(w, "internal server error", http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// VisitorLimiter hands out one token bucket per client IP. Idle buckets expire.
type VisitorLimiter struct {
	limit    rate.Limit
	burst    int
	visitors *cache.Cache
}

func NewVisitorLimiter(perSecond float64, burst int, idle time.Duration) *VisitorLimiter {
	return &VisitorLimiter{
		limit:    rate.Limit(perSecond),
		burst:    burst,
		visitors: cache.New(idle, 2*idle),
	}
}

func (v *VisitorLimiter) limiterFor(ip string) *rate.Limiter {
	if l, found := v.visitors.Get(ip); found {
		v.visitors.SetDefault(ip, l)
		return l.(*rate.Limiter)
	}
	l := rate.NewLimiter(v.limit, v.burst)
	if err := v.visitors.Add(ip, l, cache.DefaultExpiration); err != nil {
		// Another request created it first.
		if existing, found := v.visitors.Get(ip); found {
			return existing.(*rate.Limiter)
		}
	}
	return l
}

// Allow reports whether the client at remoteAddr may proceed.
func (v *VisitorLimiter) Allow(remoteAddr string) bool {
	ip, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		ip = remoteAddr
	}
	return v.limiterFor(ip).Allow()
}

// HTTPRateLimit answers 429 once the caller's bucket is empty.
func HTTPRateLimit(v *VisitorLimiter) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !v.Allow(r.RemoteAddr) {
				http.Error(w, "Too many requests", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// HTTPMetrics counts requests per route and status.
func HTTPMetrics(route string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)
			observability.HTTPRequests.WithLabelValues(route, strconv.Itoa(rec.status)).Inc()
		})
	}
}
