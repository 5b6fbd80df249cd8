package booking

import "context"

type Repository interface {
	CreateBooking(ctx context.Context, b *Booking) (*Booking, error)
	GetBookingByID(ctx context.Context, id int) (*Booking, error)
	CancelBooking(ctx context.Context, id int) error
	CountConfirmedForTrip(ctx context.Context, tripID int) (int, error)
	UserHasBookingForTrip(ctx context.Context, userID, tripID int) (bool, error)
	GetUserBookings(ctx context.Context, userID int) ([]BookingWithTrip, error)
	ListConfirmedByTrip(ctx context.Context, tripID int) ([]Booking, error)
}
