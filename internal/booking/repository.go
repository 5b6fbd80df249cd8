package booking

import (
	"context"
	"errors"

	"github.com/jmoiron/sqlx"
)

var ErrBookingNotFoundOrAlreadyCancelled = errors.New("booking not found or already cancelled")

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateBooking(ctx context.Context, b *Booking) (*Booking, error) {
	query := `
		INSERT INTO bookings (trip_id, user_id, payment_method, amount_paid_cents, status)
		VALUES ($1, $2, $3, $4, 'confirmed')
		RETURNING id, trip_id, user_id, payment_method, amount_paid_cents, status, created_at
	`

	var created Booking
	err := r.db.GetContext(ctx, &created, query, b.TripID, b.UserID, b.PaymentMethod, b.AmountPaidCents)
	if err != nil {
		return nil, err
	}

	return &created, nil
}

func (r *repository) GetBookingByID(ctx context.Context, id int) (*Booking, error) {
	query := `
		SELECT id, trip_id, user_id, payment_method, amount_paid_cents, status, created_at
		FROM bookings
		WHERE id = $1
	`

	var b Booking
	if err := r.db.GetContext(ctx, &b, query, id); err != nil {
		return nil, err
	}

	return &b, nil
}

func (r *repository) CancelBooking(ctx context.Context, id int) error {
	query := `
		UPDATE bookings
		SET status = 'cancelled'
		WHERE id = $1 AND status = 'confirmed'
	`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrBookingNotFoundOrAlreadyCancelled
	}

	return nil
}

func (r *repository) CountConfirmedForTrip(ctx context.Context, tripID int) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM bookings
		WHERE trip_id = $1 AND status = 'confirmed'
	`

	var count int
	if err := r.db.GetContext(ctx, &count, query, tripID); err != nil {
		return 0, err
	}

	return count, nil
}

func (r *repository) UserHasBookingForTrip(ctx context.Context, userID, tripID int) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM bookings
			WHERE user_id = $1 AND trip_id = $2 AND status = 'confirmed'
		)
	`

	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, userID, tripID); err != nil {
		return false, err
	}

	return exists, nil
}

func (r *repository) GetUserBookings(ctx context.Context, userID int) ([]BookingWithTrip, error) {
	query := `
		SELECT
			b.id,
			b.trip_id,
			b.user_id,
			b.payment_method,
			b.amount_paid_cents,
			b.status,
			b.created_at,
			t.category,
			t.origin_address,
			t.destination_address,
			t.departure_time,
			t.status AS trip_status
		FROM bookings b
		JOIN trips t ON b.trip_id = t.id
		WHERE b.user_id = $1
		ORDER BY b.created_at DESC
	`

	var bookings []BookingWithTrip
	if err := r.db.SelectContext(ctx, &bookings, query, userID); err != nil {
		return nil, err
	}

	return bookings, nil
}

func (r *repository) ListConfirmedByTrip(ctx context.Context, tripID int) ([]Booking, error) {
	query := `
		SELECT id, trip_id, user_id, payment_method, amount_paid_cents, status, created_at
		FROM bookings
		WHERE trip_id = $1 AND status = 'confirmed'
		ORDER BY created_at
	`

	var bookings []Booking
	if err := r.db.SelectContext(ctx, &bookings, query, tripID); err != nil {
		return nil, err
	}

	return bookings, nil
}
