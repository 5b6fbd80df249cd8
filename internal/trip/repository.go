package trip

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

var (
	ErrTripNotFound         = errors.New("trip not found")
	ErrTripAlreadyCancelled = errors.New("trip already cancelled")
)

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

const tripColumns = `
	t.id, t.creator_id, t.category,
	t.origin_address, t.origin_lat, t.origin_lng,
	t.destination_address, t.destination_lat, t.destination_lng,
	t.departure_time, t.available_seats, t.price_per_person_cents,
	t.notes, t.car_model, t.car_color, t.license_plate,
	t.status, t.created_at`

// bookedSeats counts only confirmed bookings so cancelled seats free up again.
const detailColumns = tripColumns + `,
	u.name AS creator_name,
	(SELECT COUNT(*) FROM bookings b WHERE b.trip_id = t.id AND b.status = 'confirmed') AS booked_seats`

func (r *repository) Create(ctx context.Context, t *Trip) (*Trip, error) {
	query := `
		INSERT INTO trips (
			creator_id, category,
			origin_address, origin_lat, origin_lng,
			destination_address, destination_lat, destination_lng,
			departure_time, available_seats, price_per_person_cents,
			notes, car_model, car_color, license_plate, status
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, 'active')
		RETURNING id, creator_id, category,
			origin_address, origin_lat, origin_lng,
			destination_address, destination_lat, destination_lng,
			departure_time, available_seats, price_per_person_cents,
			notes, car_model, car_color, license_plate,
			status, created_at
	`

	var created Trip
	err := r.db.GetContext(ctx, &created, query,
		t.CreatorID, t.Category,
		t.OriginAddress, t.OriginLat, t.OriginLng,
		t.DestinationAddress, t.DestinationLat, t.DestinationLng,
		t.DepartureTime, t.AvailableSeats, t.PricePerPersonCents,
		t.Notes, t.CarModel, t.CarColor, t.LicensePlate,
	)
	if err != nil {
		return nil, err
	}

	return &created, nil
}

func (r *repository) GetByID(ctx context.Context, id int) (*TripWithDetails, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM trips t
		JOIN users u ON t.creator_id = u.id
		WHERE t.id = $1
	`, detailColumns)

	var t TripWithDetails
	if err := r.db.GetContext(ctx, &t, query, id); err != nil {
		return nil, ErrTripNotFound
	}

	t.RemainingSeats = t.AvailableSeats - t.BookedSeats
	return &t, nil
}

func (r *repository) GetRiders(ctx context.Context, tripID int) ([]Rider, error) {
	query := `
		SELECT b.user_id, u.name, u.email, b.payment_method
		FROM bookings b
		JOIN users u ON b.user_id = u.id
		WHERE b.trip_id = $1 AND b.status = 'confirmed'
		ORDER BY b.created_at
	`

	var riders []Rider
	if err := r.db.SelectContext(ctx, &riders, query, tripID); err != nil {
		return nil, err
	}

	return riders, nil
}

func (r *repository) ListActive(ctx context.Context) ([]TripWithDetails, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM trips t
		JOIN users u ON t.creator_id = u.id
		WHERE t.status = 'active' AND t.departure_time > NOW()
		ORDER BY t.departure_time
	`, detailColumns)

	return r.selectTrips(ctx, query)
}

func (r *repository) ListAirport(ctx context.Context) ([]TripWithDetails, error) {
	// Matches both Istanbul airports by code and the generic Turkish/English
	// words, in either direction of travel.
	query := fmt.Sprintf(`
		SELECT %s
		FROM trips t
		JOIN users u ON t.creator_id = u.id
		WHERE t.status = 'active' AND t.departure_time > NOW()
		  AND (
			t.origin_address ILIKE ANY($1) OR
			t.destination_address ILIKE ANY($1)
		  )
		ORDER BY t.departure_time
	`, detailColumns)

	keywords := "{%airport%,%havalimani%,%havalimanı%,%IST%,%SAW%}"
	return r.selectTrips(ctx, query, keywords)
}

func (r *repository) ListByCreator(ctx context.Context, userID int) ([]TripWithDetails, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM trips t
		JOIN users u ON t.creator_id = u.id
		WHERE t.creator_id = $1
		ORDER BY t.departure_time DESC
	`, detailColumns)

	return r.selectTrips(ctx, query, userID)
}

func (r *repository) ListBookedBy(ctx context.Context, userID int) ([]TripWithDetails, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM trips t
		JOIN users u ON t.creator_id = u.id
		JOIN bookings b ON b.trip_id = t.id
		WHERE b.user_id = $1 AND b.status = 'confirmed'
		ORDER BY t.departure_time DESC
	`, detailColumns)

	return r.selectTrips(ctx, query, userID)
}

func (r *repository) Cancel(ctx context.Context, tripID int) error {
	query := `
		UPDATE trips
		SET status = 'cancelled'
		WHERE id = $1 AND status = 'active'
	`

	result, err := r.db.ExecContext(ctx, query, tripID)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrTripAlreadyCancelled
	}

	return nil
}

func (r *repository) selectTrips(ctx context.Context, query string, args ...interface{}) ([]TripWithDetails, error) {
	var trips []TripWithDetails
	if err := r.db.SelectContext(ctx, &trips, query, args...); err != nil {
		return nil, err
	}

	for i := range trips {
		trips[i].RemainingSeats = trips[i].AvailableSeats - trips[i].BookedSeats
	}

	return trips, nil
}
