package interceptors

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
	"golang.org/x/time/rate"
	"google.golang.org/protobuf/types/known/structpb"
)

const echoProcedure = "/test.v1.EchoService/Echo"

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newEchoClient(
	t *testing.T,
	fn func(context.Context, *connect.Request[structpb.Struct]) (*connect.Response[structpb.Struct], error),
	interceptors ...connect.Interceptor) *connect.Client[structpb.Struct, structpb.Struct] {
	t.Helper()
	mux := http.NewServeMux()
	mux.Handle(echoProcedure, connect.NewUnaryHandler(echoProcedure, fn, connect.WithInterceptors(interceptors...)))
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return connect.NewClient[structpb.Struct, structpb.Struct](srv.Client(), srv.URL+echoProcedure)
}

func echo(ctx context.Context, req *connect.Request[structpb.Struct]) (*connect.Response[structpb.Struct], error) {
	out := &structpb.Struct{Fields: map[string]*structpb.Value{}}
	for k, v := range req.Msg.GetFields() {
		out.Fields[k] = v
	}
	if id, ok := RequestIDFromContext(ctx); ok {
		out.Fields["request_id"] = structpb.NewStringValue(id)
	}
	return connect.NewResponse(out), nil
}

func TestRequestIDInterceptor(t *testing.T) {
	client := newEchoClient(t, echo, NewRequestIDInterceptor("X-Request-ID"))

	t.Run("generated", func(t *testing.T) {
		resp, err := client.CallUnary(context.Background(), connect.NewRequest(&structpb.Struct{}))
		require.NoError(t, err)
		id := resp.Header().Get("X-Request-ID")
		assert.NotEmpty(t, id)
		assert.Equal(t, id, resp.Msg.Fields["request_id"].GetStringValue())
	})

	t.Run("propagated", func(t *testing.T) {
		req := connect.NewRequest(&structpb.Struct{})
		req.Header().Set("X-Request-ID", "abc-123")
		resp, err := client.CallUnary(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, "abc-123", resp.Header().Get("X-Request-ID"))
		assert.Equal(t, "abc-123", resp.Msg.Fields["request_id"].GetStringValue())
	})
}

func TestRecoveryInterceptor(t *testing.T) {
	client := newEchoClient(t, func(context.Context, *connect.Request[structpb.Struct]) (*connect.Response[structpb.Struct], error) {
		panic("boom")
	}, NewRecoveryInterceptor(newTestLogger()))

	_, err := client.CallUnary(context.Background(), connect.NewRequest(&structpb.Struct{}))
	require.Error(t, err)
	assert.Equal(t, connect.CodeInternal, connect.CodeOf(err))
}

func TestRateLimitInterceptor(t *testing.T) {
	client := newEchoClient(t, echo, NewRateLimitInterceptor(rate.NewLimiter(rate.Every(time.Hour), 1)))

	_, err := client.CallUnary(context.Background(), connect.NewRequest(&structpb.Struct{}))
	require.NoError(t, err)

	_, err = client.CallUnary(context.Background(), connect.NewRequest(&structpb.Struct{}))
	require.Error(t, err)
	assert.Equal(t, connect.CodeResourceExhausted, connect.CodeOf(err))
}

func TestLoggingAndTracingInterceptors(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	failing := func(context.Context, *connect.Request[structpb.Struct]) (*connect.Response[structpb.Struct], error) {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("bad days"))
	}

	client := newEchoClient(t, failing,
		NewRequestIDInterceptor("X-Request-ID"),
		NewTracingInterceptor(noop.NewTracerProvider().Tracer("test")),
		NewLoggingInterceptor(logger),
	)
	_, err := client.CallUnary(context.Background(), connect.NewRequest(&structpb.Struct{}))
	require.Error(t, err)

	out := buf.String()
	assert.Contains(t, out, "RPC failed")
	assert.Contains(t, out, "procedure="+echoProcedure)
	assert.Contains(t, out, "code=invalid_argument")
	assert.Contains(t, out, "request_id=")
}

func TestHTTPMiddlewareChain(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	h := Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/panic" {
			panic("boom")
		}
		id, _ := RequestIDFromContext(r.Context())
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, id)
	}),
		HTTPRequestID("X-Request-ID"),
		HTTPLogging(logger),
		HTTPMetrics("/test"),
		HTTPRecovery(logger),
	)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/ok", nil)
	req.Header.Set("X-Request-ID", "req-1")
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "req-1", rec.Body.String())
	assert.Equal(t, "req-1", rec.Header().Get("X-Request-ID"))

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/panic", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	logs := buf.String()
	assert.Contains(t, logs, "status=201")
	assert.Contains(t, logs, "status=500")
	assert.Contains(t, logs, "Recovered from panic")
	assert.Equal(t, 2, strings.Count(logs, "HTTP request"))
}

func TestHTTPRateLimitPerVisitor(t *testing.T) {
	limiter := NewVisitorLimiter(0.001, 1, time.Minute)
	h := HTTPRateLimit(limiter)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	call := func(addr string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, call("10.0.0.1:5000"))
	assert.Equal(t, http.StatusTooManyRequests, call("10.0.0.1:5001"))
	assert.Equal(t, http.StatusOK, call("10.0.0.2:5000"))
}
