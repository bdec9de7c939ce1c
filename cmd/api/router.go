package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"connectrpc.com/connect"
	connectcors "connectrpc.com/cors"
	"connectrpc.com/validate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"go.opentelemetry.io/otel"
	"golang.org/x/time/rate"

	"github.com/FACorreiaa/loci-trip-planner/internal/domain/itinerary"
	"github.com/FACorreiaa/loci-trip-planner/pkg/interceptors"
	"github.com/FACorreiaa/loci-trip-planner/pkg/observability"
)

const requestIDHeader = "X-Request-ID"

// SetupRouter configures all routes and returns the HTTP service
func SetupRouter(deps *Dependencies) http.Handler {
	mux := http.NewServeMux()

	tracer := otel.GetTracerProvider().Tracer("loci/trip-planner")

	var rateLimiter connect.Interceptor
	var visitorLimiter *interceptors.VisitorLimiter
	if deps.Config.Server.RateLimitPerSecond > 0 && deps.Config.Server.RateLimitBurst > 0 {
		limiter := rate.NewLimiter(
			rate.Limit(float64(deps.Config.Server.RateLimitPerSecond)),
			deps.Config.Server.RateLimitBurst,
		)
		rateLimiter = interceptors.NewRateLimitInterceptor(limiter)
		visitorLimiter = interceptors.NewVisitorLimiter(
			float64(deps.Config.Server.RateLimitPerSecond),
			deps.Config.Server.RateLimitBurst,
			10*time.Minute,
		)
	}

	requestIDInterceptor := interceptors.NewRequestIDInterceptor(requestIDHeader)
	tracingInterceptor := interceptors.NewTracingInterceptor(tracer)
	validationInterceptor := validate.NewInterceptor()

	// Setup interceptor chain
	interceptorChain := connect.WithInterceptors(
		requestIDInterceptor,
		tracingInterceptor,
		validationInterceptor,
		rateLimiter,
		interceptors.NewRecoveryInterceptor(deps.Logger),
		interceptors.NewLoggingInterceptor(deps.Logger),
		observability.NewMetricsInterceptor(),
	)

	registerConnectRoutes(mux, deps, interceptorChain)
	registerHTTPRoutes(mux, deps, visitorLimiter)
	registerUtilityRoutes(mux, deps)

	// Enable CORS for browser clients (Buf Studio, local frontend)
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   append([]string{"https://buf.build", "https://studio.buf.build"}, deps.Config.Server.AllowedOrigins...),
		AllowedMethods:   connectcors.AllowedMethods(),
		AllowedHeaders:   append(connectcors.AllowedHeaders(), requestIDHeader),
		ExposedHeaders:   append(connectcors.ExposedHeaders(), requestIDHeader, "Content-Disposition"),
		AllowCredentials: true,
	})

	return corsHandler.Handler(mux)
}

// registerConnectRoutes registers all Connect RPC services
func registerConnectRoutes(mux *http.ServeMux, deps *Dependencies, opts connect.HandlerOption) {
	path, handler := itinerary.NewConnectHandler(deps.ItineraryHandler, opts)
	mux.Handle(path, handler)
	deps.Logger.Info("registered Connect RPC service", "path", path)
}

// registerHTTPRoutes registers the plain JSON endpoints behind the HTTP middleware.
func registerHTTPRoutes(mux *http.ServeMux, deps *Dependencies, limiter *interceptors.VisitorLimiter) {
	routes := http.NewServeMux()
	deps.ItineraryHandler.RegisterRoutes(routes)

	mws := []interceptors.Middleware{
		interceptors.HTTPRequestID(requestIDHeader),
		interceptors.HTTPLogging(deps.Logger),
		interceptors.HTTPMetrics(itinerary.GeneratePath),
		interceptors.HTTPRecovery(deps.Logger),
	}
	if limiter != nil {
		mws = append(mws, interceptors.HTTPRateLimit(limiter))
	}
	handler := interceptors.Chain(routes, mws...)

	mux.Handle(itinerary.GeneratePath, handler)
	mux.Handle(itinerary.GeneratePath+"/", handler)
	mux.Handle(itinerary.GeneratePDFPath, handler)
	deps.Logger.Info("registered HTTP routes", "path", itinerary.GeneratePath)

	mux.HandleFunc("/interests", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string][]string{"interests": deps.Matcher.Supported()})
	})
}

// registerUtilityRoutes registers health check, metrics, and other utility routes
func registerUtilityRoutes(mux *http.ServeMux, deps *Dependencies) {
	// Health check endpoint
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if deps.DB != nil {
			if err := deps.DB.Health(); err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				w.Write([]byte("database unhealthy"))
				return
			}
		}
		if deps.Redis != nil {
			if err := deps.Redis.Ping(r.Context()).Err(); err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				w.Write([]byte("cache unhealthy"))
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	deps.Logger.Info("registered health check", "path", "/health")

	// Readiness requires a loadable catalog snapshot
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()
		if _, err := deps.CatalogService.Snapshot(ctx); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte("catalog unavailable"))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ready"))
	})
	deps.Logger.Info("registered readiness check", "path", "/ready")

	// Metrics endpoint (Prometheus)
	if deps.Config.Observability.MetricsEnabled {
		mux.Handle("/metrics", promhttp.Handler())
		deps.Logger.Info("registered metrics endpoint", "path", "/metrics")
	}
}
