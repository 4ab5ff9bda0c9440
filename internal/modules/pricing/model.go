// README: Pricing rate definition, request/result types and errors.
package pricing

import (
	"errors"
	"time"

	"farecast/internal/types"
)

var (
	ErrInvalidCoordinates = errors.New("latitude must be between -90 and 90, longitude must be between -180 and 180")
	ErrInvalidTimeRange   = errors.New("pickup time must be before dropoff time")
	ErrInvalidDistance    = errors.New("distance must be a number between 0 and 10000 miles")
	ErrInvalidDuration    = errors.New("duration must be a number between 0 and 10080 minutes")
	ErrInvalidTimeOfDay   = errors.New("time of day must be one of: morning, afternoon, evening, night")
	ErrRateNotFound       = errors.New("rate not found")
)

const DefaultRideType = "standard"

// Upper bounds on trip inputs; fares beyond them are not meaningful.
const (
	MaxDistanceMiles   = 10000
	MaxDurationMinutes = 7 * 24 * 60
)

// Rate amounts are in major currency units.
type Rate struct {
	RideType    string
	BaseFare    float64
	PerMinute   float64
	PerMile     float64
	BookingFee  float64
	MinimumFare float64
	Currency    string
}

// DefaultRate applies when no override exists for a ride type.
func DefaultRate(rideType string) Rate {
	return Rate{
		RideType:    rideType,
		BaseFare:    2.50,
		PerMinute:   0.35,
		PerMile:     1.75,
		BookingFee:  2.00,
		MinimumFare: 7.00,
		Currency:    "USD",
	}
}

type TimeOfDay string

const (
	Morning   TimeOfDay = "morning"
	Afternoon TimeOfDay = "afternoon"
	Evening   TimeOfDay = "evening"
	Night     TimeOfDay = "night"
)

// Average speed in mph per time of day.
var averageSpeedMph = map[TimeOfDay]float64{
	Morning:   20,
	Afternoon: 25,
	Evening:   18,
	Night:     30,
}

// Surge levels a computed multiplier is snapped to.
const (
	SurgeNone     = 1.0
	SurgeLow      = 1.2
	SurgeMedium   = 1.5
	SurgeHigh     = 2.0
	SurgeVeryHigh = 2.5
	SurgeExtreme  = 3.0
)

type EstimateRequest struct {
	Pickup      types.Point
	Dropoff     types.Point
	RequestTime time.Time
	RideType    string
	// Optional; computed when zero.
	DistanceMiles   float64
	DurationMinutes float64
}

type Breakdown struct {
	BaseAmount     types.Money
	TimeAmount     types.Money
	DistanceAmount types.Money
	BookingFee     types.Money
	Surge          float64
	DistanceMiles  float64
	Minutes        float64
}

type Estimate struct {
	Fare      types.Money
	Breakdown Breakdown
}

type ActualRequest struct {
	Pickup        types.Point
	Dropoff       types.Point
	PickupTime    time.Time
	DropoffTime   time.Time
	RideType      string
	DistanceMiles float64 // optional; haversine when zero
}

type ActualFare struct {
	Fare         types.Money
	Breakdown    Breakdown
	Taxes        types.Money
	DriverPayout types.Money
	PlatformFee  types.Money
}

// FareEstimated is published after every successful estimate.
type FareEstimated struct {
	EventID       string    `json:"event_id"`
	RideType      string    `json:"ride_type"`
	PickupLat     float64   `json:"pickup_lat"`
	PickupLng     float64   `json:"pickup_lng"`
	DropoffLat    float64   `json:"dropoff_lat"`
	DropoffLng    float64   `json:"dropoff_lng"`
	Fare          float64   `json:"fare"`
	Currency      string    `json:"currency"`
	Surge         float64   `json:"surge"`
	DistanceMiles float64   `json:"distance_miles"`
	Minutes       float64   `json:"minutes"`
	Timestamp     time.Time `json:"timestamp"`
}
