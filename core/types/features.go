package types

// FeatureColumns is the column order shared with the trained artifact.
// Reordering it requires retraining the model.
var FeatureColumns = []string{
	"area",
	"num_rooms",
	"num_bathrooms",
	"age",
	"location_factor",
	"is_near_mrt",
}

// FeatureVector is the model input for one request
type FeatureVector struct {
	Area           float64 `json:"area"`
	NumRooms       int     `json:"num_rooms"`
	NumBathrooms   int     `json:"num_bathrooms"`
	Age            int     `json:"age"`
	LocationFactor float64 `json:"location_factor"`
	IsNearMRT      bool    `json:"is_near_mrt"`
}

// Values returns the features in FeatureColumns order
func (f FeatureVector) Values() []float64 {
	mrt := 0.0
	if f.IsNearMRT {
		mrt = 1.0
	}
	return []float64{
		f.Area,
		float64(f.NumRooms),
		float64(f.NumBathrooms),
		float64(f.Age),
		f.LocationFactor,
		mrt,
	}
}

// Profile returns the location part of the vector
func (f FeatureVector) Profile() LocationProfile {
	return LocationProfile{LocationFactor: f.LocationFactor, IsNearMRT: f.IsNearMRT}
}
