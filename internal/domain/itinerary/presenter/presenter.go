// Package presenter shapes itinerary results for the HTTP and Connect transports.
package presenter

import (
	"encoding/json"
	"fmt"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/FACorreiaa/loci-trip-planner/internal/types"
)

// Envelope is the response body of every generation call. Data and Error are
// mutually exclusive.
type Envelope struct {
	Success bool             `json:"success"`
	Data    *types.Itinerary `json:"data,omitempty"`
	Error   string           `json:"error,omitempty"`
}

// Success wraps a generated itinerary.
func Success(it *types.Itinerary) Envelope {
	return Envelope{Success: true, Data: it}
}

// Failure wraps a human-readable error.
func Failure(msg string) Envelope {
	return Envelope{Success: false, Error: msg}
}

// ToStruct converts an envelope into a protobuf Struct via its JSON form.
func ToStruct(env Envelope) (*structpb.Struct, error) {
	raw, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("failed to encode envelope: %w", err)
	}
	out := &structpb.Struct{}
	if err := protojson.Unmarshal(raw, out); err != nil {
		return nil, fmt.Errorf("failed to convert envelope: %w", err)
	}
	return out, nil
}

// DecodeStruct decodes a protobuf Struct into v through JSON.
func DecodeStruct(s *structpb.Struct, v any) error {
	if s == nil {
		s = &structpb.Struct{}
	}
	raw, err := protojson.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("failed to decode payload: %w", err)
	}
	return nil
}

// FromStruct reads an envelope back from its Struct form.
func FromStruct(s *structpb.Struct) (Envelope, error) {
	var env Envelope
	if err := DecodeStruct(s, &env); err != nil {
		return Envelope{}, err
	}
	return env, nil
}
