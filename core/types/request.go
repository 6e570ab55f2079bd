package types

// Request defaults applied when a caller omits a field
const (
	DefaultNumRooms       = 3
	DefaultNumBathrooms   = 2
	DefaultAge            = 10
	DefaultLocationFactor = 1.0
	DefaultIsNearMRT      = false
)

// PredictionRequest is the input to a single price estimate.
// Optional fields are pointers so an explicitly supplied value can be told
// apart from an omitted one.
type PredictionRequest struct {
	// Area is the floor area in AreaUnit; must be > 0
	Area float64 `json:"area"`

	// Address is free text used to derive location features
	Address string `json:"address"`

	NumRooms     *int `json:"num_rooms,omitempty"`
	NumBathrooms *int `json:"num_bathrooms,omitempty"`
	Age          *int `json:"age,omitempty"`

	// LocationFactor and IsNearMRT override address derivation when set
	LocationFactor *float64 `json:"location_factor,omitempty"`
	IsNearMRT      *bool    `json:"is_near_mrt,omitempty"`
}

// Rooms returns NumRooms or its default
func (r *PredictionRequest) Rooms() int {
	if r.NumRooms != nil {
		return *r.NumRooms
	}
	return DefaultNumRooms
}

// Bathrooms returns NumBathrooms or its default
func (r *PredictionRequest) Bathrooms() int {
	if r.NumBathrooms != nil {
		return *r.NumBathrooms
	}
	return DefaultNumBathrooms
}

// BuildingAge returns Age or its default
func (r *PredictionRequest) BuildingAge() int {
	if r.Age != nil {
		return *r.Age
	}
	return DefaultAge
}

// LocationProfile is the (factor, transit flag) pair derived from an address
type LocationProfile struct {
	LocationFactor float64 `json:"location_factor"`
	IsNearMRT      bool    `json:"is_near_mrt"`
}

// DefaultLocationProfile is returned when no rule matches an address
func DefaultLocationProfile() LocationProfile {
	return LocationProfile{
		LocationFactor: DefaultLocationFactor,
		IsNearMRT:      DefaultIsNearMRT,
	}
}
