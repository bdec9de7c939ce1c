package interceptors

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"connectrpc.com/connect"
	"google.golang.org/protobuf/proto"
)

// NewLoggingInterceptor logs every unary call with its duration and payload sizes.
func NewLoggingInterceptor(logger *slog.Logger) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			start := time.Now()
			procedure := req.Spec().Procedure

			requestSize := 0
			if msg, ok := req.Any().(proto.Message); ok {
				requestSize = proto.Size(msg)
			}

			logger.DebugContext(ctx, "RPC started", withRequestID(ctx,
				slog.String("procedure", procedure),
				slog.String("peer", req.Peer().Addr),
				slog.Int("request_size_bytes", requestSize),
			)...)

			resp, err := next(ctx, req)
			duration := time.Since(start)

			if err != nil {
				logger.ErrorContext(ctx, "RPC failed", withRequestID(ctx,
					slog.String("procedure", procedure),
					slog.String("code", connect.CodeOf(err).String()),
					slog.Int64("duration_ms", duration.Milliseconds()),
					slog.Int("request_size_bytes", requestSize),
					slog.Any("error", err),
				)...)
				return resp, err
			}

			// A successful response can still carry a nil message.
			responseSize := 0
			if msg, ok := resp.Any().(proto.Message); ok && msg != nil {
				responseSize = proto.Size(msg)
			}
			logger.InfoContext(ctx, "RPC completed", withRequestID(ctx,
				slog.String("procedure", procedure),
				slog.Int64("duration_ms", duration.Milliseconds()),
				slog.Int("request_size_bytes", requestSize),
				slog.Int("response_size_bytes", responseSize),
			)...)
			return resp, nil
		}
	}
}

// HTTPLogging logs plain HTTP requests with their status and duration.
func HTTPLogging(logger *slog.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			level := slog.LevelInfo
			if rec.status >= http.StatusInternalServerError {
				level = slog.LevelError
			}
			logger.Log(r.Context(), level, "HTTP request", withRequestID(r.Context(),
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", rec.status),
				slog.Int("response_size_bytes", rec.bytes),
				slog.Int64("duration_ms", time.Since(start).Milliseconds()),
			)...)
		})
	}
}

func withRequestID(ctx context.Context, attrs ...any) []any {
	if requestID, ok := RequestIDFromContext(ctx); ok && requestID != "" {
		attrs = append(attrs, slog.String("request_id", requestID))
	}
	return attrs
}

type statusRecorder struct {
	http.ResponseWriter
	status      int
	bytes       int
	wroteHeader bool
}

func (r *statusRecorder) WriteHeader(status int) {
	if !r.wroteHeader {
		r.status = status
		r.wroteHeader = true
	}
	r.ResponseWriter.WriteHeader(status)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	r.wroteHeader = true
	n, err := r.ResponseWriter.Write(b)
	r.bytes += n
	return n, err
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}
