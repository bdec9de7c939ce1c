package itinerary

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"connectrpc.com/connect"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/FACorreiaa/loci-trip-planner/internal/domain/itinerary/presenter"
	"github.com/FACorreiaa/loci-trip-planner/internal/types"
)

const (
	// ItineraryServiceName is the fully-qualified name of the itinerary service.
	ItineraryServiceName = "loci.itinerary.v1.ItineraryService"

	// GenerateItineraryProcedure is the Connect path of the generation RPC.
	GenerateItineraryProcedure = "/" + ItineraryServiceName + "/GenerateItinerary"
)

// NewConnectHandler builds the Connect service handler. The returned path is the
// prefix to mount it on.
func NewConnectHandler(h *Handler, opts ...connect.HandlerOption) (string, http.Handler) {
	generate := connect.NewUnaryHandler(GenerateItineraryProcedure, h.GenerateItinerary, opts...)
	return "/" + ItineraryServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case GenerateItineraryProcedure:
			generate.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// GenerateItinerary takes the request body as a Struct and answers with the success
// envelope as a Struct.
func (h *Handler) GenerateItinerary(
	ctx context.Context,
	req *connect.Request[structpb.Struct],
) (*connect.Response[structpb.Struct], error) {
	l := h.logger.With(slog.String("method", "GenerateItinerary"))

	var body GenerateRequest
	if err := presenter.DecodeStruct(req.Msg, &body); err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, decodeError(err))
	}
	prefs, err := body.Preferences(h.normalizer)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	it, err := h.svc.Generate(ctx, prefs)
	if err != nil {
		switch {
		case errors.Is(err, types.ErrBadRequest):
			return nil, connect.NewError(connect.CodeInvalidArgument, err)
		case errors.Is(err, types.ErrCatalog):
			return nil, connect.NewError(connect.CodeUnavailable, err)
		default:
			l.ErrorContext(ctx, "Failed to generate itinerary", slog.Any("error", err))
			return nil, connect.NewError(connect.CodeInternal, err)
		}
	}

	out, err := presenter.ToStruct(presenter.Success(it))
	if err != nil {
		l.ErrorContext(ctx, "Failed to encode itinerary", slog.Any("error", err))
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	return connect.NewResponse(out), nil
}
