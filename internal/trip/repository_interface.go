package trip

import "context"

type Repository interface {
	Create(ctx context.Context, t *Trip) (*Trip, error)
	GetByID(ctx context.Context, id int) (*TripWithDetails, error)
	GetRiders(ctx context.Context, tripID int) ([]Rider, error)
	ListActive(ctx context.Context) ([]TripWithDetails, error)
	ListAirport(ctx context.Context) ([]TripWithDetails, error)
	ListByCreator(ctx context.Context, userID int) ([]TripWithDetails, error)
	ListBookedBy(ctx context.Context, userID int) ([]TripWithDetails, error)
	Cancel(ctx context.Context, tripID int) error
}
