// README: Pricing rate overrides backed by PostgreSQL.
package pricing

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Schema:
//
//	CREATE TABLE pricing_rates (
//	    ride_type    TEXT PRIMARY KEY,
//	    base_fare    DOUBLE PRECISION NOT NULL,
//	    per_minute   DOUBLE PRECISION NOT NULL,
//	    per_mile     DOUBLE PRECISION NOT NULL,
//	    booking_fee  DOUBLE PRECISION NOT NULL,
//	    minimum_fare DOUBLE PRECISION NOT NULL,
//	    currency     TEXT NOT NULL DEFAULT 'USD'
//	);
type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

func (s *Store) GetRate(ctx context.Context, rideType string) (Rate, error) {
	r := Rate{RideType: rideType}
	err := s.db.QueryRow(ctx, `
		SELECT base_fare, per_minute, per_mile, booking_fee, minimum_fare, currency
		FROM pricing_rates
		WHERE ride_type = $1`, rideType,
	).Scan(&r.BaseFare, &r.PerMinute, &r.PerMile, &r.BookingFee, &r.MinimumFare, &r.Currency)
	if errors.Is(err, pgx.ErrNoRows) {
		return Rate{}, ErrRateNotFound
	}
	if err != nil {
		return Rate{}, err
	}
	return r, nil
}
