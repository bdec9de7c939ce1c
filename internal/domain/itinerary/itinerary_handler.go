package itinerary

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/FACorreiaa/loci-trip-planner/internal/domain/itinerary/presenter"
	"github.com/FACorreiaa/loci-trip-planner/internal/domain/itinerary/render"
	"github.com/FACorreiaa/loci-trip-planner/internal/types"
)

const (
	GeneratePath    = "/itinerary/generate"
	GeneratePDFPath = "/itinerary/generate.pdf"

	maxBodyBytes = 1 << 20
)

// Handler serves itinerary generation over plain HTTP and Connect.
type Handler struct {
	svc        Service
	normalizer InterestNormalizer
	logger     *slog.Logger
}

// NewHandler wires an itinerary handler. normalizer may be nil to keep interests as sent.
func NewHandler(svc Service, normalizer InterestNormalizer, logger *slog.Logger) *Handler {
	return &Handler{
		svc:        svc,
		normalizer: normalizer,
		logger:     logger,
	}
}

// RegisterRoutes mounts the JSON and PDF endpoints on mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc(GeneratePath, h.Generate)
	mux.HandleFunc(GeneratePath+"/", h.Generate)
	mux.HandleFunc(GeneratePDFPath, h.GeneratePDF)
}

// Generate answers POST /itinerary/generate with the JSON envelope.
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	it, status, msg := h.generate(r)
	if it == nil {
		writeEnvelope(w, status, presenter.Failure(msg))
		return
	}
	writeEnvelope(w, http.StatusOK, presenter.Success(it))
}

// GeneratePDF answers POST /itinerary/generate.pdf with a printable itinerary.
// Failures use the same JSON envelope as Generate.
func (h *Handler) GeneratePDF(w http.ResponseWriter, r *http.Request) {
	it, status, msg := h.generate(r)
	if it == nil {
		writeEnvelope(w, status, presenter.Failure(msg))
		return
	}

	var buf bytes.Buffer
	if err := render.WritePDF(&buf, it); err != nil {
		h.logger.ErrorContext(r.Context(), "Failed to render itinerary pdf", slog.Any("error", err))
		writeEnvelope(w, http.StatusInternalServerError, presenter.Failure("Server error: "+err.Error()))
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	filename := "itinerary.pdf"
	if len(it.Days) > 0 {
		filename = fmt.Sprintf("itinerary-%s.pdf", it.Days[0].Date)
	}
	w.Header().Set("Content-Disposition", "attachment; filename="+filename)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// generate runs the shared request pipeline. On failure it returns a nil itinerary
// with the HTTP status and the envelope message.
func (h *Handler) generate(r *http.Request) (*types.Itinerary, int, string) {
	if r.Method != http.MethodPost {
		return nil, http.StatusMethodNotAllowed, "Method not allowed"
	}

	l := h.logger.With(slog.String("method", "Generate"))

	req, err := DecodeRequest(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	if err != nil {
		l.InfoContext(r.Context(), "Rejected itinerary request", slog.Any("error", err))
		return nil, http.StatusBadRequest, err.Error()
	}
	prefs, err := req.Preferences(h.normalizer)
	if err != nil {
		l.InfoContext(r.Context(), "Rejected itinerary request", slog.Any("error", err))
		return nil, http.StatusBadRequest, err.Error()
	}

	it, err := h.svc.Generate(r.Context(), prefs)
	if err != nil {
		if errors.Is(err, types.ErrBadRequest) {
			return nil, http.StatusBadRequest, err.Error()
		}
		return nil, http.StatusInternalServerError, "Server error: " + err.Error()
	}
	return it, http.StatusOK, ""
}

func writeEnvelope(w http.ResponseWriter, status int, env presenter.Envelope) {
	w.Header().Set("Content-Type", "application/json")
	if status == http.StatusMethodNotAllowed {
		w.Header().Set("Allow", http.MethodPost)
	}
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(env)
}
