package booking

import "time"

const (
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
)

type Booking struct {
	ID              int       `db:"id" json:"id"`
	TripID          int       `db:"trip_id" json:"trip_id"`
	UserID          int       `db:"user_id" json:"user_id"`
	PaymentMethod   string    `db:"payment_method" json:"payment_method"`
	AmountPaidCents int64     `db:"amount_paid_cents" json:"amount_paid_cents"`
	Status          string    `db:"status" json:"status"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}

// BookingWithTrip carries the route alongside the booking for listings.
type BookingWithTrip struct {
	Booking
	Category           string    `db:"category" json:"category"`
	OriginAddress      string    `db:"origin_address" json:"origin_address"`
	DestinationAddress string    `db:"destination_address" json:"destination_address"`
	DepartureTime      time.Time `db:"departure_time" json:"departure_time"`
	TripStatus         string    `db:"trip_status" json:"trip_status"`
}

type BookTripRequest struct {
	PaymentMethod string `json:"payment_method" binding:"omitempty,oneof=wallet cash card"`
}
