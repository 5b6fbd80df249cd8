package trip

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "sqlmock"), mock
}

func tripColumnNames() []string {
	return []string{
		"id", "creator_id", "category",
		"origin_address", "origin_lat", "origin_lng",
		"destination_address", "destination_lat", "destination_lng",
		"departure_time", "available_seats", "price_per_person_cents",
		"notes", "car_model", "car_color", "license_plate",
		"status", "created_at",
	}
}

func detailColumnNames() []string {
	return append(tripColumnNames(), "creator_name", "booked_seats")
}

func TestRepository_Create(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRepository(db)

	departure := time.Now().Add(24 * time.Hour)
	mock.ExpectQuery(`INSERT INTO trips`).
		WillReturnRows(sqlmock.NewRows(tripColumnNames()).AddRow(
			1, 7, "taxi",
			"Atasehir", 40.98, 29.12,
			"IST Airport", 41.26, 28.74,
			departure, 3, int64(2500),
			nil, nil, nil, nil,
			"active", time.Now(),
		))

	created, err := repo.Create(context.Background(), &Trip{
		CreatorID:           7,
		Category:            CategoryTaxi,
		OriginAddress:       "Atasehir",
		OriginLat:           40.98,
		OriginLng:           29.12,
		DestinationAddress:  "IST Airport",
		DestinationLat:      41.26,
		DestinationLng:      28.74,
		DepartureTime:       departure,
		AvailableSeats:      3,
		PricePerPersonCents: 2500,
	})

	require.NoError(t, err)
	assert.Equal(t, 1, created.ID)
	assert.Equal(t, CategoryTaxi, created.Category)
	assert.Equal(t, "active", created.Status)
}

func TestRepository_GetByID_ComputesRemainingSeats(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRepository(db)

	mock.ExpectQuery(`SELECT .+ FROM trips t\s+JOIN users u`).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows(detailColumnNames()).AddRow(
			1, 7, "personal_car",
			"Atasehir", 40.98, 29.12,
			"SAW Airport", 40.90, 29.31,
			time.Now().Add(time.Hour), 3, int64(3000),
			nil, "Renault Clio", "Blue", "34ABC123",
			"active", time.Now(),
			"Ayse Yilmaz", 2,
		))

	trip, err := repo.GetByID(context.Background(), 1)

	require.NoError(t, err)
	assert.Equal(t, 2, trip.BookedSeats)
	assert.Equal(t, 1, trip.RemainingSeats)
	assert.Equal(t, "Ayse Yilmaz", trip.CreatorName)
}

func TestRepository_GetByID_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRepository(db)

	mock.ExpectQuery(`SELECT .+ FROM trips t`).
		WithArgs(99).
		WillReturnRows(sqlmock.NewRows(detailColumnNames()))

	_, err := repo.GetByID(context.Background(), 99)

	assert.ErrorIs(t, err, ErrTripNotFound)
}

func TestRepository_ListActive(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRepository(db)

	mock.ExpectQuery(`WHERE t\.status = 'active' AND t\.departure_time > NOW\(\)`).
		WillReturnRows(sqlmock.NewRows(detailColumnNames()).
			AddRow(1, 7, "taxi", "A", 1.0, 1.0, "B", 2.0, 2.0, time.Now().Add(time.Hour), 3, int64(2500), nil, nil, nil, nil, "active", time.Now(), "Ayse", 1).
			AddRow(2, 8, "taxi", "C", 1.0, 1.0, "D", 2.0, 2.0, time.Now().Add(2*time.Hour), 2, int64(1500), nil, nil, nil, nil, "active", time.Now(), "Mehmet", 0))

	trips, err := repo.ListActive(context.Background())

	require.NoError(t, err)
	require.Len(t, trips, 2)
	assert.Equal(t, 2, trips[0].RemainingSeats)
	assert.Equal(t, 2, trips[1].RemainingSeats)
}

func TestRepository_Cancel(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRepository(db)

	mock.ExpectExec(`UPDATE trips\s+SET status = 'cancelled'\s+WHERE id = \$1 AND status = 'active'`).
		WithArgs(1).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.Cancel(context.Background(), 1))
}

func TestRepository_Cancel_AlreadyCancelled(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRepository(db)

	mock.ExpectExec(`UPDATE trips`).
		WithArgs(1).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, repo.Cancel(context.Background(), 1), ErrTripAlreadyCancelled)
}
