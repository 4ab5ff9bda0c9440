// README: Pricing service computes rule-based fare estimates and settlements.
package pricing

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"farecast/internal/types"
)

const (
	taxRate        = 0.08
	driverShare    = 0.8
	platformShare  = 0.2
	publishTimeout = 2 * time.Second
)

type RateSource interface {
	GetRate(ctx context.Context, rideType string) (Rate, error)
}

type SurgeStore interface {
	Get(ctx context.Context, key string) (float64, bool, error)
	Set(ctx context.Context, key string, multiplier float64, ttl time.Duration) error
}

type RouteEstimator interface {
	Route(ctx context.Context, origin, destination types.Point) (float64, time.Duration, error)
}

type EventPublisher interface {
	PublishEstimate(ctx context.Context, evt FareEstimated) error
}

// Deps are all optional. Missing rates fall back to DefaultRate, a missing cache
// recomputes surge every call, missing routes use haversine distance, and a
// missing publisher skips events.
type Deps struct {
	Rates  RateSource
	Surge  SurgeStore
	Routes RouteEstimator
	Events EventPublisher
	Logger *zerolog.Logger
}

type Service struct {
	rates  RateSource
	surge  SurgeStore
	routes RouteEstimator
	events EventPublisher
	log    *zerolog.Logger
	now    func() time.Time
}

func NewService(deps Deps) *Service {
	log := deps.Logger
	if log == nil {
		nop := zerolog.Nop()
		log = &nop
	}
	return &Service{
		rates:  deps.Rates,
		surge:  deps.Surge,
		routes: deps.Routes,
		events: deps.Events,
		log:    log,
		now:    time.Now,
	}
}

// Distance returns the straight-line distance in miles.
func (s *Service) Distance(pickup, dropoff types.Point) (float64, error) {
	if !pickup.Valid() || !dropoff.Valid() {
		return 0, ErrInvalidCoordinates
	}
	return haversineMiles(pickup, dropoff), nil
}

// TravelTime estimates minutes for a distance. An empty time of day means afternoon.
func (s *Service) TravelTime(distanceMiles float64, timeOfDay string) (float64, error) {
	if !validDistance(distanceMiles) {
		return 0, ErrInvalidDistance
	}
	tod := TimeOfDay(timeOfDay)
	if tod == "" {
		tod = Afternoon
	}
	if _, ok := averageSpeedMph[tod]; !ok {
		return 0, ErrInvalidTimeOfDay
	}
	return travelMinutes(distanceMiles, tod), nil
}

// Surge returns the multiplier in effect at p and at.
func (s *Service) Surge(ctx context.Context, p types.Point, at time.Time) (float64, error) {
	if !p.Valid() {
		return 0, ErrInvalidCoordinates
	}
	if at.IsZero() {
		at = s.now()
	}
	return s.surgeFor(ctx, p, at), nil
}

// surgeFor never fails: cache errors are logged and the multiplier is recomputed.
func (s *Service) surgeFor(ctx context.Context, p types.Point, at time.Time) float64 {
	if s.surge == nil {
		return surgeAt(at)
	}
	key := surgeKey(p, at)
	if m, ok, err := s.surge.Get(ctx, key); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("surge cache read failed")
	} else if ok {
		return m
	}

	m := surgeAt(at)
	if err := s.surge.Set(ctx, key, m, surgeTTL); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("surge cache write failed")
	}
	return m
}

func (s *Service) Estimate(ctx context.Context, req EstimateRequest) (Estimate, error) {
	if !req.Pickup.Valid() || !req.Dropoff.Valid() {
		return Estimate{}, ErrInvalidCoordinates
	}
	if !validDistance(req.DistanceMiles) {
		return Estimate{}, ErrInvalidDistance
	}
	if !validDuration(req.DurationMinutes) {
		return Estimate{}, ErrInvalidDuration
	}
	at := req.RequestTime
	if at.IsZero() {
		at = s.now()
	}

	rate := s.rate(ctx, req.RideType)
	miles, minutes := s.trip(ctx, req, at)
	surge := s.surgeFor(ctx, req.Pickup, at)

	breakdown, _, fare := price(rate, miles, minutes, surge)
	est := Estimate{Fare: fare, Breakdown: breakdown}

	s.publish(ctx, rate.RideType, req, est, at)
	return est, nil
}

func (s *Service) Actual(ctx context.Context, req ActualRequest) (ActualFare, error) {
	if !req.Pickup.Valid() || !req.Dropoff.Valid() {
		return ActualFare{}, ErrInvalidCoordinates
	}
	if req.PickupTime.IsZero() || req.DropoffTime.IsZero() || !req.PickupTime.Before(req.DropoffTime) {
		return ActualFare{}, ErrInvalidTimeRange
	}
	if !validDistance(req.DistanceMiles) {
		return ActualFare{}, ErrInvalidDistance
	}
	if !validDuration(req.DropoffTime.Sub(req.PickupTime).Minutes()) {
		return ActualFare{}, ErrInvalidDuration
	}

	miles := req.DistanceMiles
	if miles == 0 {
		miles = haversineMiles(req.Pickup, req.Dropoff)
	}
	minutes := req.DropoffTime.Sub(req.PickupTime).Minutes()

	rate := s.rate(ctx, req.RideType)
	surge := s.surgeFor(ctx, req.Pickup, req.PickupTime)
	breakdown, subtotal, fare := price(rate, miles, minutes, surge)

	return ActualFare{
		Fare:         fare,
		Breakdown:    breakdown,
		Taxes:        types.MoneyFromFloat(fare.Float()*taxRate, rate.Currency),
		DriverPayout: types.MoneyFromFloat(subtotal*driverShare, rate.Currency),
		PlatformFee:  types.MoneyFromFloat(subtotal*platformShare, rate.Currency),
	}, nil
}

// NaN fails both comparisons.
func validDistance(miles float64) bool {
	return miles >= 0 && miles <= MaxDistanceMiles
}

func validDuration(minutes float64) bool {
	return minutes >= 0 && minutes <= MaxDurationMinutes
}

// price returns the breakdown, the surged subtotal before fees, and the final fare.
func price(rate Rate, miles, minutes, surge float64) (Breakdown, float64, types.Money) {
	timeAmount := minutes * rate.PerMinute
	distanceAmount := miles * rate.PerMile
	subtotal := (rate.BaseFare + timeAmount + distanceAmount) * surge
	total := math.Max(subtotal+rate.BookingFee, rate.MinimumFare)

	return Breakdown{
		BaseAmount:     types.MoneyFromFloat(rate.BaseFare, rate.Currency),
		TimeAmount:     types.MoneyFromFloat(timeAmount, rate.Currency),
		DistanceAmount: types.MoneyFromFloat(distanceAmount, rate.Currency),
		BookingFee:     types.MoneyFromFloat(rate.BookingFee, rate.Currency),
		Surge:          surge,
		DistanceMiles:  miles,
		Minutes:        minutes,
	}, subtotal, types.MoneyFromFloat(total, rate.Currency)
}

func (s *Service) rate(ctx context.Context, rideType string) Rate {
	if rideType == "" {
		rideType = DefaultRideType
	}
	if s.rates == nil {
		return DefaultRate(rideType)
	}
	r, err := s.rates.GetRate(ctx, rideType)
	if err != nil {
		if !errors.Is(err, ErrRateNotFound) {
			s.log.Warn().Err(err).Str("ride_type", rideType).Msg("rate lookup failed, using defaults")
		}
		return DefaultRate(rideType)
	}
	return r
}

// trip resolves distance and duration: request values first, then the route
// provider, then haversine distance and speed-table minutes.
func (s *Service) trip(ctx context.Context, req EstimateRequest, at time.Time) (float64, float64) {
	miles, minutes := req.DistanceMiles, req.DurationMinutes
	if miles == 0 && s.routes != nil {
		routeMiles, d, err := s.routes.Route(ctx, req.Pickup, req.Dropoff)
		if err != nil {
			s.log.Warn().Err(err).Msg("route lookup failed, using straight-line distance")
		} else {
			miles = routeMiles
			if minutes == 0 {
				minutes = d.Minutes()
			}
		}
	}
	if miles == 0 {
		miles = haversineMiles(req.Pickup, req.Dropoff)
	}
	if minutes == 0 {
		minutes = travelMinutes(miles, TimeOfDayFor(at.Hour()))
	}
	return miles, minutes
}

func (s *Service) publish(ctx context.Context, rideType string, req EstimateRequest, est Estimate, at time.Time) {
	if s.events == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	err := s.events.PublishEstimate(ctx, FareEstimated{
		EventID:       uuid.NewString(),
		RideType:      rideType,
		PickupLat:     req.Pickup.Lat,
		PickupLng:     req.Pickup.Lng,
		DropoffLat:    req.Dropoff.Lat,
		DropoffLng:    req.Dropoff.Lng,
		Fare:          est.Fare.Float(),
		Currency:      est.Fare.Currency,
		Surge:         est.Breakdown.Surge,
		DistanceMiles: est.Breakdown.DistanceMiles,
		Minutes:       est.Breakdown.Minutes,
		Timestamp:     at.UTC(),
	})
	if err != nil {
		s.log.Error().Err(err).Msg("publish fare.estimated failed")
	}
}
