// README: Prediction inputs, feature ordering and errors.
package prediction

import "errors"

var (
	ErrNoModel         = errors.New("no model loaded")
	ErrFeatureCount    = errors.New("feature count mismatch")
	ErrEmptyPrediction = errors.New("model returned no prediction")
	ErrNonFinite       = errors.New("model returned a non-finite prediction")
	ErrInvalidArtifact = errors.New("invalid model artifact")
)

// Formula coefficients for the closed-form estimate.
const (
	distanceRate = 2.0
	durationRate = 0.5
)

// Trip is the input of the closed-form estimate.
type Trip struct {
	Distance float64
	Duration float64
}

// Features is the input of the loaded model.
type Features struct {
	PickupLatitude   float64
	PickupLongitude  float64
	DropoffLatitude  float64
	DropoffLongitude float64
	PickupHour       int
	PickupWeekday    int
	PassengerCount   int
}

// FeatureNames lists the model columns in the order Vector emits them.
var FeatureNames = []string{
	"pickup_latitude",
	"pickup_longitude",
	"dropoff_latitude",
	"dropoff_longitude",
	"pickup_hour",
	"pickup_weekday",
	"passenger_count",
}

// Vector returns the single model row. The order must match FeatureNames.
func (f Features) Vector() []float64 {
	return []float64{
		f.PickupLatitude,
		f.PickupLongitude,
		f.DropoffLatitude,
		f.DropoffLongitude,
		float64(f.PickupHour),
		float64(f.PickupWeekday),
		float64(f.PassengerCount),
	}
}
