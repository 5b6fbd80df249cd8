package trip

import "time"

type Category string

const (
	CategoryTaxi        Category = "taxi"
	CategoryPersonalCar Category = "personal_car"

	StatusActive    = "active"
	StatusCancelled = "cancelled"

	// MaxRiders is a company rule: at most three colleagues share a car.
	MaxRiders = 3
)

type Trip struct {
	ID                  int       `db:"id" json:"id"`
	CreatorID           int       `db:"creator_id" json:"creator_id"`
	Category            Category  `db:"category" json:"category"`
	OriginAddress       string    `db:"origin_address" json:"origin_address"`
	OriginLat           float64   `db:"origin_lat" json:"origin_lat"`
	OriginLng           float64   `db:"origin_lng" json:"origin_lng"`
	DestinationAddress  string    `db:"destination_address" json:"destination_address"`
	DestinationLat      float64   `db:"destination_lat" json:"destination_lat"`
	DestinationLng      float64   `db:"destination_lng" json:"destination_lng"`
	DepartureTime       time.Time `db:"departure_time" json:"departure_time"`
	AvailableSeats      int       `db:"available_seats" json:"available_seats"`
	PricePerPersonCents int64     `db:"price_per_person_cents" json:"price_per_person_cents"`
	Notes               *string   `db:"notes" json:"notes,omitempty"`
	CarModel            *string   `db:"car_model" json:"car_model,omitempty"`
	CarColor            *string   `db:"car_color" json:"car_color,omitempty"`
	LicensePlate        *string   `db:"license_plate" json:"license_plate,omitempty"`
	Status              string    `db:"status" json:"status"`
	CreatedAt           time.Time `db:"created_at" json:"created_at"`
}

type TripWithDetails struct {
	Trip
	CreatorName    string `db:"creator_name" json:"creator_name"`
	BookedSeats    int    `db:"booked_seats" json:"booked_seats"`
	RemainingSeats int    `db:"-" json:"remaining_seats"`
}

// Rider is one confirmed passenger on a trip.
type Rider struct {
	UserID        int    `db:"user_id" json:"user_id"`
	Name          string `db:"name" json:"name"`
	Email         string `db:"email" json:"email"`
	PaymentMethod string `db:"payment_method" json:"payment_method"`
}

type Location struct {
	Address     string      `json:"address" binding:"required"`
	Coordinates Coordinates `json:"coordinates"`
}

type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type CreateTripRequest struct {
	Origin              Location  `json:"origin" binding:"required"`
	Destination         Location  `json:"destination" binding:"required"`
	DepartureTime       time.Time `json:"departure_time" binding:"required"`
	AvailableSeats      int       `json:"available_seats"`
	PricePerPersonCents int64     `json:"price_per_person_cents" binding:"required,gt=0"`
	Notes               *string   `json:"notes,omitempty"`
}

type CreatePersonalCarTripRequest struct {
	CreateTripRequest
	CarModel     string `json:"car_model" binding:"required"`
	CarColor     string `json:"car_color" binding:"required"`
	LicensePlate string `json:"license_plate" binding:"required"`
}
