package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/FACorreiaa/loci-trip-planner/internal/types"
)

var _ Repository = (*FileRepository)(nil)

// catalogFile is the on-disk seed format.
type catalogFile struct {
	Destinations   []types.Destination   `json:"destinations"`
	Accommodations []types.Accommodation `json:"accommodations"`
	TransportHubs  []types.TransportHub  `json:"transport_hubs"`
}

// FileRepository serves a catalog loaded once from a JSON document. Inactive records
// are kept in memory but never returned.
type FileRepository struct {
	data catalogFile
}

// LoadFileRepository reads a JSON catalog from path.
func LoadFileRepository(path string) (*FileRepository, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog file: %w", err)
	}
	defer f.Close()
	return NewFileRepository(f)
}

// NewFileRepository decodes a JSON catalog from r.
func NewFileRepository(r io.Reader) (*FileRepository, error) {
	var data catalogFile
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to decode catalog file: %w", err)
	}
	return &FileRepository{data: data}, nil
}

func (r *FileRepository) ListActiveDestinations(_ context.Context) ([]types.Destination, error) {
	out := make([]types.Destination, 0, len(r.data.Destinations))
	for _, d := range r.data.Destinations {
		if d.Available() {
			out = append(out, d)
		}
	}
	return out, nil
}

func (r *FileRepository) ListActiveAccommodations(_ context.Context) ([]types.Accommodation, error) {
	out := make([]types.Accommodation, 0, len(r.data.Accommodations))
	for _, a := range r.data.Accommodations {
		if a.Available() {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *FileRepository) ListActiveTransportHubs(_ context.Context) ([]types.TransportHub, error) {
	out := make([]types.TransportHub, 0, len(r.data.TransportHubs))
	for _, h := range r.data.TransportHubs {
		if h.IsActive && h.Status == types.StatusActive {
			out = append(out, h)
		}
	}
	return out, nil
}
