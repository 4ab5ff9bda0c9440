package pricing

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"farecast/internal/types"
)

var (
	// 2026-02-10 is a Tuesday.
	baseTime    = time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)
	eveningTime = time.Date(2026, 2, 10, 17, 0, 0, 0, time.UTC)
	nightTime   = time.Date(2026, 2, 10, 23, 30, 0, 0, time.UTC)
	// Friday morning rush.
	fridayPeak = time.Date(2026, 2, 13, 8, 0, 0, 0, time.UTC)

	midtown  = types.Point{Lat: 40.7549, Lng: -73.9840}
	downtown = types.Point{Lat: 40.7075, Lng: -74.0113}
)

func TestService_Estimate(t *testing.T) {
	tests := []struct {
		name     string
		req      EstimateRequest
		wantFare int64
	}{
		{
			name: "Minimum fare applies to short trips",
			req: EstimateRequest{
				DistanceMiles:   0.1,
				DurationMinutes: 1,
				RequestTime:     baseTime,
			},
			// 2.50 + 0.35 + 0.175 = 3.025, + 2.00 = 5.025 -> min 7.00
			wantFare: 700,
		},
		{
			name: "Distance and time, no surge",
			req: EstimateRequest{
				DistanceMiles:   1,
				DurationMinutes: 5,
				RequestTime:     baseTime,
			},
			// 2.50 + 1.75 + 1.75 = 6.00, + 2.00
			wantFare: 800,
		},
		{
			name: "Friday morning surge (1.3 * 1.2 -> 1.5)",
			req: EstimateRequest{
				DistanceMiles:   2,
				DurationMinutes: 10,
				RequestTime:     fridayPeak,
			},
			// (2.50 + 3.50 + 3.50) * 1.5 = 14.25, + 2.00
			wantFare: 1625,
		},
		{
			name: "Evening surge (1.4 -> 1.5)",
			req: EstimateRequest{
				DistanceMiles:   2,
				DurationMinutes: 10,
				RequestTime:     eveningTime,
			},
			wantFare: 1625,
		},
		{
			name: "Late night surge (1.2)",
			req: EstimateRequest{
				DistanceMiles:   2,
				DurationMinutes: 10,
				RequestTime:     nightTime,
			},
			// 9.50 * 1.2 = 11.40, + 2.00
			wantFare: 1340,
		},
		{
			name: "Travel time from afternoon speed (5mi @ 25mph -> 12min)",
			req: EstimateRequest{
				DistanceMiles: 5,
				RequestTime:   baseTime,
			},
			// 2.50 + 4.20 + 8.75 = 15.45, + 2.00
			wantFare: 1745,
		},
	}

	s := NewService(Deps{}) // no backing services needed

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.req.Pickup, tt.req.Dropoff = midtown, downtown
			got, err := s.Estimate(context.Background(), tt.req)
			if err != nil {
				t.Fatalf("Estimate() error = %v", err)
			}
			if got.Fare.Amount != tt.wantFare {
				t.Errorf("Estimate() = %v, want %v", got.Fare.Amount, tt.wantFare)
			}
			if got.Fare.Currency != "USD" {
				t.Errorf("currency = %q, want USD", got.Fare.Currency)
			}
		})
	}
}

func TestService_EstimateHaversineFallback(t *testing.T) {
	s := NewService(Deps{})

	got, err := s.Estimate(context.Background(), EstimateRequest{
		Pickup:      midtown,
		Dropoff:     downtown,
		RequestTime: baseTime,
	})
	if err != nil {
		t.Fatalf("Estimate() error = %v", err)
	}
	want := haversineMiles(midtown, downtown)
	if math.Abs(got.Breakdown.DistanceMiles-want) > 1e-9 {
		t.Errorf("distance = %v, want %v", got.Breakdown.DistanceMiles, want)
	}
	if math.Abs(got.Breakdown.Minutes-want/25*60) > 1e-9 {
		t.Errorf("minutes = %v, want afternoon speed estimate", got.Breakdown.Minutes)
	}
}

func TestService_EstimateInvalid(t *testing.T) {
	s := NewService(Deps{})
	ctx := context.Background()

	_, err := s.Estimate(ctx, EstimateRequest{Pickup: types.Point{Lat: 91}, Dropoff: downtown})
	if !errors.Is(err, ErrInvalidCoordinates) {
		t.Errorf("expected ErrInvalidCoordinates, got %v", err)
	}
	_, err = s.Estimate(ctx, EstimateRequest{Pickup: midtown, Dropoff: types.Point{Lng: -181}})
	if !errors.Is(err, ErrInvalidCoordinates) {
		t.Errorf("expected ErrInvalidCoordinates, got %v", err)
	}

	tests := []struct {
		name    string
		miles   float64
		minutes float64
		wantErr error
	}{
		{"negative distance", -1, 0, ErrInvalidDistance},
		{"huge distance", 1e300, 0, ErrInvalidDistance},
		{"nan distance", math.NaN(), 0, ErrInvalidDistance},
		{"negative duration", 1, -5, ErrInvalidDuration},
		{"huge duration", 1, 1e18, ErrInvalidDuration},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Estimate(ctx, EstimateRequest{
				Pickup: midtown, Dropoff: downtown,
				DistanceMiles: tt.miles, DurationMinutes: tt.minutes,
			})
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestService_EstimateAtBounds(t *testing.T) {
	s := NewService(Deps{})

	got, err := s.Estimate(context.Background(), EstimateRequest{
		Pickup: midtown, Dropoff: downtown, RequestTime: baseTime,
		DistanceMiles: MaxDistanceMiles, DurationMinutes: MaxDurationMinutes,
	})
	if err != nil {
		t.Fatalf("Estimate() error = %v", err)
	}
	if got.Fare.Amount <= 0 {
		t.Errorf("fare = %d, want positive", got.Fare.Amount)
	}
}

func TestService_ActualInvalidInput(t *testing.T) {
	s := NewService(Deps{})
	ctx := context.Background()

	_, err := s.Actual(ctx, ActualRequest{
		Pickup: midtown, Dropoff: downtown,
		PickupTime: baseTime, DropoffTime: baseTime.Add(time.Hour),
		DistanceMiles: 1e300,
	})
	if !errors.Is(err, ErrInvalidDistance) {
		t.Errorf("expected ErrInvalidDistance, got %v", err)
	}

	_, err = s.Actual(ctx, ActualRequest{
		Pickup: midtown, Dropoff: downtown,
		PickupTime: baseTime, DropoffTime: baseTime.AddDate(1, 0, 0),
	})
	if !errors.Is(err, ErrInvalidDuration) {
		t.Errorf("expected ErrInvalidDuration, got %v", err)
	}
}

func TestRound2_HalvesTowardPositive(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{1.125, "1.13"},
		{-1.125, "-1.12"},
		{-74.006, "-74.01"},
	}
	for _, tt := range tests {
		if got := round2(tt.in); got != tt.want {
			t.Errorf("round2(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

type stubRates struct {
	rate Rate
	err  error
}

func (s stubRates) GetRate(_ context.Context, rideType string) (Rate, error) {
	if s.err != nil {
		return Rate{}, s.err
	}
	r := s.rate
	r.RideType = rideType
	return r, nil
}

func TestService_EstimateRateOverride(t *testing.T) {
	premium := Rate{BaseFare: 5, PerMinute: 1, PerMile: 3, BookingFee: 3, MinimumFare: 15, Currency: "USD"}
	s := NewService(Deps{Rates: stubRates{rate: premium}})

	got, err := s.Estimate(context.Background(), EstimateRequest{
		Pickup: midtown, Dropoff: downtown,
		DistanceMiles: 2, DurationMinutes: 10, RequestTime: baseTime,
		RideType: "premium",
	})
	if err != nil {
		t.Fatalf("Estimate() error = %v", err)
	}
	// 5 + 10 + 6 = 21, + 3
	if got.Fare.Amount != 2400 {
		t.Errorf("Estimate() = %v, want 2400", got.Fare.Amount)
	}
}

func TestService_EstimateRateLookupFailureUsesDefaults(t *testing.T) {
	for _, lookupErr := range []error{ErrRateNotFound, errors.New("connection refused")} {
		s := NewService(Deps{Rates: stubRates{err: lookupErr}})
		got, err := s.Estimate(context.Background(), EstimateRequest{
			Pickup: midtown, Dropoff: downtown,
			DistanceMiles: 1, DurationMinutes: 5, RequestTime: baseTime,
		})
		if err != nil {
			t.Fatalf("Estimate() error = %v", err)
		}
		if got.Fare.Amount != 800 {
			t.Errorf("%v: Estimate() = %v, want 800", lookupErr, got.Fare.Amount)
		}
	}
}

type stubRoutes struct {
	miles float64
	dur   time.Duration
	err   error
}

func (s stubRoutes) Route(context.Context, types.Point, types.Point) (float64, time.Duration, error) {
	return s.miles, s.dur, s.err
}

func TestService_EstimateUsesRouteProvider(t *testing.T) {
	s := NewService(Deps{Routes: stubRoutes{miles: 4, dur: 20 * time.Minute}})

	got, err := s.Estimate(context.Background(), EstimateRequest{
		Pickup: midtown, Dropoff: downtown, RequestTime: baseTime,
	})
	if err != nil {
		t.Fatalf("Estimate() error = %v", err)
	}
	if got.Breakdown.DistanceMiles != 4 || got.Breakdown.Minutes != 20 {
		t.Errorf("breakdown = %+v, want route distance and duration", got.Breakdown)
	}
	// 2.50 + 7.00 + 7.00 = 16.50, + 2.00
	if got.Fare.Amount != 1850 {
		t.Errorf("Estimate() = %v, want 1850", got.Fare.Amount)
	}

	s = NewService(Deps{Routes: stubRoutes{err: errors.New("quota exceeded")}})
	got, err = s.Estimate(context.Background(), EstimateRequest{
		Pickup: midtown, Dropoff: downtown, RequestTime: baseTime,
	})
	if err != nil {
		t.Fatalf("Estimate() error = %v", err)
	}
	if math.Abs(got.Breakdown.DistanceMiles-haversineMiles(midtown, downtown)) > 1e-9 {
		t.Errorf("expected haversine fallback, got %v", got.Breakdown.DistanceMiles)
	}
}

type recordingPublisher struct {
	events []FareEstimated
	err    error
}

func (p *recordingPublisher) PublishEstimate(_ context.Context, evt FareEstimated) error {
	p.events = append(p.events, evt)
	return p.err
}

func TestService_EstimatePublishesEvent(t *testing.T) {
	pub := &recordingPublisher{}
	s := NewService(Deps{Events: pub})

	_, err := s.Estimate(context.Background(), EstimateRequest{
		Pickup: midtown, Dropoff: downtown,
		DistanceMiles: 1, DurationMinutes: 5, RequestTime: baseTime,
	})
	if err != nil {
		t.Fatalf("Estimate() error = %v", err)
	}
	if len(pub.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(pub.events))
	}
	evt := pub.events[0]
	if evt.EventID == "" || evt.Fare != 8 || evt.RideType != DefaultRideType || !evt.Timestamp.Equal(baseTime) {
		t.Errorf("unexpected event %+v", evt)
	}

	// Publish failures never fail the estimate.
	pub.err = errors.New("broker down")
	if _, err := s.Estimate(context.Background(), EstimateRequest{Pickup: midtown, Dropoff: downtown, RequestTime: baseTime}); err != nil {
		t.Errorf("Estimate() error = %v", err)
	}
}

func TestService_Actual(t *testing.T) {
	s := NewService(Deps{})

	got, err := s.Actual(context.Background(), ActualRequest{
		Pickup:        midtown,
		Dropoff:       downtown,
		PickupTime:    baseTime,
		DropoffTime:   baseTime.Add(20 * time.Minute),
		DistanceMiles: 3,
	})
	if err != nil {
		t.Fatalf("Actual() error = %v", err)
	}
	// 2.50 + 7.00 + 5.25 = 14.75 subtotal, + 2.00
	checks := map[string][2]int64{
		"fare":          {got.Fare.Amount, 1675},
		"taxes":         {got.Taxes.Amount, 134},
		"driver payout": {got.DriverPayout.Amount, 1180},
		"platform fee":  {got.PlatformFee.Amount, 295},
	}
	for name, c := range checks {
		if c[0] != c[1] {
			t.Errorf("%s = %d, want %d", name, c[0], c[1])
		}
	}
	if got.Breakdown.Minutes != 20 {
		t.Errorf("minutes = %v, want 20", got.Breakdown.Minutes)
	}
}

func TestService_ActualInvalid(t *testing.T) {
	s := NewService(Deps{})
	ctx := context.Background()

	_, err := s.Actual(ctx, ActualRequest{
		Pickup: midtown, Dropoff: downtown,
		PickupTime: baseTime, DropoffTime: baseTime,
	})
	if !errors.Is(err, ErrInvalidTimeRange) {
		t.Errorf("expected ErrInvalidTimeRange, got %v", err)
	}

	_, err = s.Actual(ctx, ActualRequest{
		Pickup: midtown, Dropoff: downtown,
		PickupTime: baseTime, DropoffTime: baseTime.Add(time.Minute),
		DistanceMiles: -2,
	})
	if !errors.Is(err, ErrInvalidDistance) {
		t.Errorf("expected ErrInvalidDistance, got %v", err)
	}
}

func TestService_TravelTime(t *testing.T) {
	s := NewService(Deps{})

	tests := []struct {
		name     string
		distance float64
		tod      string
		want     float64
		wantErr  error
	}{
		{name: "night", distance: 25, tod: "night", want: 50},
		{name: "evening", distance: 9, tod: "evening", want: 30},
		{name: "default afternoon", distance: 25, tod: "", want: 60},
		{name: "unknown bucket", distance: 1, tod: "dawn", wantErr: ErrInvalidTimeOfDay},
		{name: "negative distance", distance: -1, tod: "night", wantErr: ErrInvalidDistance},
		{name: "distance beyond bound", distance: 1e9, tod: "night", wantErr: ErrInvalidDistance},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.TravelTime(tt.distance, tt.tod)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("TravelTime() error = %v, want %v", err, tt.wantErr)
			}
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("TravelTime() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestService_Distance(t *testing.T) {
	s := NewService(Deps{})

	// New York to Los Angeles, ~2451 miles.
	got, err := s.Distance(types.Point{Lat: 40.7128, Lng: -74.0060}, types.Point{Lat: 34.0522, Lng: -118.2437})
	if err != nil {
		t.Fatalf("Distance() error = %v", err)
	}
	if math.Abs(got-2451) > 30 {
		t.Errorf("Distance() = %v, want ~2451", got)
	}

	if _, err := s.Distance(types.Point{Lat: -95}, downtown); !errors.Is(err, ErrInvalidCoordinates) {
		t.Errorf("expected ErrInvalidCoordinates, got %v", err)
	}
}

func TestTimeOfDayFor(t *testing.T) {
	cases := map[int]TimeOfDay{
		0: Night, 5: Night, 6: Morning, 9: Morning, 10: Afternoon,
		15: Afternoon, 16: Evening, 19: Evening, 20: Night, 23: Night,
	}
	for hour, want := range cases {
		if got := TimeOfDayFor(hour); got != want {
			t.Errorf("TimeOfDayFor(%d) = %s, want %s", hour, got, want)
		}
	}
}

func TestSnapSurge(t *testing.T) {
	cases := []struct {
		in, want float64
	}{
		{1.0, SurgeNone}, {1.1, SurgeNone}, {1.2, SurgeLow}, {1.3, SurgeLow},
		{1.44, SurgeMedium}, {1.7, SurgeMedium}, {2.0, SurgeHigh}, {2.5, SurgeVeryHigh}, {3.2, SurgeExtreme},
	}
	for _, c := range cases {
		if got := snapSurge(c.in); got != c.want {
			t.Errorf("snapSurge(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestSurgeKey(t *testing.T) {
	got := surgeKey(types.Point{Lat: 40.7128, Lng: -74.006}, fridayPeak)
	if got != "surge:40.71:-74.01:8" {
		t.Errorf("surgeKey() = %q", got)
	}
}
