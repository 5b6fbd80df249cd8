package trip

import (
	"errors"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/yashcdw/Crew-Car/internal/auth"
	"github.com/yashcdw/Crew-Car/internal/metrics"
	"github.com/yashcdw/Crew-Car/internal/user"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	repo  Repository
	users user.Repository
}

func NewHandler(repo Repository, users user.Repository) *Handler {
	return &Handler{repo: repo, users: users}
}

// CreateTaxiTrip godoc
// @Summary      Create taxi trip
// @Description  Publishes a shared taxi trip. Riders may pay with cash, card or wallet.
// @Tags         trips
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      CreateTripRequest  true  "Trip data"
// @Success      201      {object}  Trip
// @Failure      400      {object}  gin.H
// @Failure      401      {object}  gin.H
// @Failure      500      {object}  gin.H
// @Router       /trips [post]
func (h *Handler) CreateTaxiTrip(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req CreateTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.createTrip(c, userID, CategoryTaxi, req, nil)
}

// CreatePersonalCarTrip godoc
// @Summary      Create personal car trip
// @Description  Publishes a personal car trip. Riders can only pay with wallet.
// @Tags         trips
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      CreatePersonalCarTripRequest  true  "Trip data with car details"
// @Success      201      {object}  Trip
// @Failure      400      {object}  gin.H
// @Failure      401      {object}  gin.H
// @Failure      500      {object}  gin.H
// @Router       /trips/personal-car [post]
func (h *Handler) CreatePersonalCarTrip(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req CreatePersonalCarTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.createTrip(c, userID, CategoryPersonalCar, req.CreateTripRequest, &req)
}

func (h *Handler) createTrip(c *gin.Context, userID int, category Category, req CreateTripRequest, car *CreatePersonalCarTripRequest) {
	if req.AvailableSeats < 1 || req.AvailableSeats > MaxRiders {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Available seats must be between 1 and 3"})
		return
	}
	if !req.DepartureTime.After(time.Now()) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Departure time must be in the future"})
		return
	}

	t := &Trip{
		CreatorID:           userID,
		Category:            category,
		OriginAddress:       req.Origin.Address,
		OriginLat:           req.Origin.Coordinates.Lat,
		OriginLng:           req.Origin.Coordinates.Lng,
		DestinationAddress:  req.Destination.Address,
		DestinationLat:      req.Destination.Coordinates.Lat,
		DestinationLng:      req.Destination.Coordinates.Lng,
		DepartureTime:       req.DepartureTime,
		AvailableSeats:      req.AvailableSeats,
		PricePerPersonCents: req.PricePerPersonCents,
		Notes:               req.Notes,
	}
	if car != nil {
		t.CarModel = &car.CarModel
		t.CarColor = &car.CarColor
		t.LicensePlate = &car.LicensePlate
	}

	created, err := h.repo.Create(c.Request.Context(), t)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create trip"})
		return
	}

	metrics.RecordTripCreated(string(category))
	c.JSON(http.StatusCreated, created)
}

// ListTrips godoc
// @Summary      List active trips
// @Description  Returns upcoming active trips with remaining seat counts.
// @Tags         trips
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  gin.H
// @Failure      500  {object}  gin.H
// @Router       /trips [get]
func (h *Handler) ListTrips(c *gin.Context) {
	trips, err := h.repo.ListActive(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list trips"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"trips": trips})
}

// ListAirportTrips godoc
// @Summary      List airport trips
// @Description  Returns upcoming trips to or from the Istanbul airports, nearest pickup first when the employee has a saved home address.
// @Tags         trips
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  gin.H
// @Failure      500  {object}  gin.H
// @Router       /trips/airport [get]
func (h *Handler) ListAirportTrips(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	trips, err := h.repo.ListAirport(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list trips"})
		return
	}

	// Sort by pickup distance from home when coordinates are on file.
	if u, err := h.users.FindByID(c.Request.Context(), userID); err == nil && u.HomeLat != nil && u.HomeLng != nil {
		sort.SliceStable(trips, func(i, j int) bool {
			di := HaversineKm(*u.HomeLat, *u.HomeLng, trips[i].OriginLat, trips[i].OriginLng)
			dj := HaversineKm(*u.HomeLat, *u.HomeLng, trips[j].OriginLat, trips[j].OriginLng)
			return di < dj
		})
	}

	c.JSON(http.StatusOK, gin.H{"trips": trips})
}

// GetTrip godoc
// @Summary      Get trip details
// @Description  Returns one trip with its confirmed riders.
// @Tags         trips
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      int  true  "Trip ID"
// @Success      200  {object}  gin.H
// @Failure      400  {object}  gin.H
// @Failure      404  {object}  gin.H
// @Router       /trips/{id} [get]
func (h *Handler) GetTrip(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid trip ID"})
		return
	}

	t, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrTripNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Trip not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load trip"})
		return
	}

	riders, err := h.repo.GetRiders(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load riders"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"trip": t, "riders": riders})
}

// MyTrips godoc
// @Summary      My trips
// @Description  Returns trips the employee created and trips they booked.
// @Tags         trips
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  gin.H
// @Failure      401  {object}  gin.H
// @Failure      500  {object}  gin.H
// @Router       /trips/my [get]
func (h *Handler) MyTrips(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	created, err := h.repo.ListByCreator(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list trips"})
		return
	}

	booked, err := h.repo.ListBookedBy(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list trips"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"created": created, "booked": booked})
}
