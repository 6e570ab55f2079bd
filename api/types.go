// Package api - API types for price estimation
// These types define the JSON contract of POST /predict/price.
package api

import (
	"bytes"
	"encoding/json"
	"fmt"

	"realestate-price/core/types"
)

// PriceRequest is the input to POST /predict/price.
// Pointers distinguish omitted fields from zero values.
type PriceRequest struct {
	// Area in 坪; required, must be > 0
	Area *float64 `json:"area"`

	// Address or district; required
	Address *string `json:"address"`

	NumRooms       *int     `json:"num_rooms,omitempty"`
	NumBathrooms   *int     `json:"num_bathrooms,omitempty"`
	Age            *int     `json:"age,omitempty"`
	LocationFactor *float64 `json:"location_factor,omitempty"`
	IsNearMRT      *MRTFlag `json:"is_near_mrt,omitempty"`
}

// MRTFlag accepts 0, 1, true or false
type MRTFlag bool

// UnmarshalJSON implements json.Unmarshaler
func (f *MRTFlag) UnmarshalJSON(data []byte) error {
	switch string(bytes.TrimSpace(data)) {
	case "1", "true":
		*f = true
	case "0", "false":
		*f = false
	default:
		return fmt.Errorf("is_near_mrt must be 0, 1, true or false, got %s", data)
	}
	return nil
}

// MarshalJSON encodes the flag as 0 or 1
func (f MRTFlag) MarshalJSON() ([]byte, error) {
	if f {
		return []byte("1"), nil
	}
	return []byte("0"), nil
}

// toDomain converts the wire request; required fields must already be checked
func (r *PriceRequest) toDomain() *types.PredictionRequest {
	req := &types.PredictionRequest{
		Area:           *r.Area,
		Address:        *r.Address,
		NumRooms:       r.NumRooms,
		NumBathrooms:   r.NumBathrooms,
		Age:            r.Age,
		LocationFactor: r.LocationFactor,
	}
	if r.IsNearMRT != nil {
		v := bool(*r.IsNearMRT)
		req.IsNearMRT = &v
	}
	return req
}

// PriceResponse is the output of POST /predict/price
type PriceResponse struct {
	// PredictedPrice in 萬TWD, always rendered with two decimals
	PredictedPrice json.Number `json:"predicted_price"`
}

// ErrorBody is the error envelope
type ErrorBody struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail describes a failed request
type ErrorDetail struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// HealthResponse is returned by GET / and GET /health
type HealthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Version string `json:"version"`
	Model   string `json:"model"`
	Time    string `json:"time"`
}

// VersionResponse is returned by GET /version
type VersionResponse struct {
	Version      string   `json:"version"`
	Service      string   `json:"service"`
	APIVersion   string   `json:"api_version"`
	CurrencyUnit string   `json:"currency_unit"`
	AreaUnit     string   `json:"area_unit"`
	ModelKind    string   `json:"model_kind,omitempty"`
	Features     []string `json:"features"`
}
