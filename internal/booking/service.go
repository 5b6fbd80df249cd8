package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/yashcdw/Crew-Car/internal/logger"
	"github.com/yashcdw/Crew-Car/internal/metrics"
	"github.com/yashcdw/Crew-Car/internal/payment"
	"github.com/yashcdw/Crew-Car/internal/trip"
	"github.com/yashcdw/Crew-Car/internal/user"
	"github.com/yashcdw/Crew-Car/internal/wallet"
)

var (
	ErrTripNotFound    = errors.New("trip not found")
	ErrTripNotActive   = errors.New("trip is not active")
	ErrTripDeparted    = errors.New("cannot book a trip that already departed")
	ErrOwnTrip         = errors.New("cannot book your own trip")
	ErrAlreadyBooked   = errors.New("already booked this trip")
	ErrTripFull        = errors.New("trip is full")
	ErrBookingNotFound = errors.New("booking not found")
	ErrNotYourBooking  = errors.New("can only cancel your own bookings")
	ErrNotYourTrip     = errors.New("can only cancel your own trips")
)

// Authorizer settles the fare before a seat is persisted.
type Authorizer interface {
	AuthorizePayment(ctx context.Context, category trip.Category, method payment.Method, payerID, payeeID int, amountCents int64, description string) error
}

type Notifier interface {
	SendBookingConfirmation(ctx context.Context, to, name, route, departure, paymentMethod string) error
	SendNewRiderNotification(ctx context.Context, to, name, riderName, route, departure string) error
	SendBookingCancellation(ctx context.Context, to, name, route string, refundedCents int64) error
}

type Service interface {
	BookTrip(ctx context.Context, userID, tripID int, method payment.Method) (*Booking, error)
	CancelBooking(ctx context.Context, userID, bookingID int) error
	CancelTrip(ctx context.Context, userID, tripID int) error
	GetUserBookings(ctx context.Context, userID int) ([]BookingWithTrip, error)
}

type service struct {
	bookingRepo Repository
	tripRepo    trip.Repository
	userRepo    user.Repository
	wallet      wallet.Service
	authorizer  Authorizer
	notifier    Notifier
}

func NewService(
	bookingRepo Repository,
	tripRepo trip.Repository,
	userRepo user.Repository,
	walletService wallet.Service,
	authorizer Authorizer,
	notifier Notifier,
) Service {
	return &service{
		bookingRepo: bookingRepo,
		tripRepo:    tripRepo,
		userRepo:    userRepo,
		wallet:      walletService,
		authorizer:  authorizer,
		notifier:    notifier,
	}
}

func (s *service) BookTrip(ctx context.Context, userID, tripID int, method payment.Method) (*Booking, error) {
	t, err := s.tripRepo.GetByID(ctx, tripID)
	if err != nil {
		return nil, ErrTripNotFound
	}

	if t.Status != trip.StatusActive {
		return nil, ErrTripNotActive
	}
	if t.DepartureTime.Before(time.Now()) {
		return nil, ErrTripDeparted
	}
	if t.CreatorID == userID {
		return nil, ErrOwnTrip
	}

	hasBooking, err := s.bookingRepo.UserHasBookingForTrip(ctx, userID, tripID)
	if err != nil {
		return nil, err
	}
	if hasBooking {
		return nil, ErrAlreadyBooked
	}

	booked, err := s.bookingRepo.CountConfirmedForTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if booked >= t.AvailableSeats {
		return nil, ErrTripFull
	}

	if method == "" {
		method = payment.MethodWallet
	}

	route := t.OriginAddress + " to " + t.DestinationAddress
	description := fmt.Sprintf("Trip booking - %s", route)

	// Settle the fare first. A booking row must never exist without its
	// payment having been authorized.
	if err := s.authorizer.AuthorizePayment(ctx, t.Category, method, userID, t.CreatorID, t.PricePerPersonCents, description); err != nil {
		return nil, err
	}

	b, err := s.bookingRepo.CreateBooking(ctx, &Booking{
		TripID:          tripID,
		UserID:          userID,
		PaymentMethod:   string(method),
		AmountPaidCents: t.PricePerPersonCents,
	})
	if err != nil {
		// Fare already moved for wallet bookings. Loud log so the ledger
		// can be reconciled by hand.
		logger.Error("booking insert failed after payment authorization",
			"trip_id", tripID, "user_id", userID, "method", string(method), "error", err)
		return nil, err
	}

	metrics.RecordBooking(string(t.Category), string(method))
	s.notifyBooked(ctx, b, t)

	return b, nil
}

func (s *service) notifyBooked(ctx context.Context, b *Booking, t *trip.TripWithDetails) {
	route := t.OriginAddress + " to " + t.DestinationAddress
	departure := t.DepartureTime.Format("Jan 2, 2006 at 3:04 PM")

	if rider, err := s.userRepo.FindByID(ctx, b.UserID); err == nil {
		s.notifier.SendBookingConfirmation(ctx, rider.Email, rider.Name, route, departure, b.PaymentMethod)

		if creator, err := s.userRepo.FindByID(ctx, t.CreatorID); err == nil {
			s.notifier.SendNewRiderNotification(ctx, creator.Email, creator.Name, rider.Name, route, departure)
		}
	}
}

func (s *service) CancelBooking(ctx context.Context, userID, bookingID int) error {
	b, err := s.bookingRepo.GetBookingByID(ctx, bookingID)
	if err != nil {
		return ErrBookingNotFound
	}

	if b.UserID != userID {
		return ErrNotYourBooking
	}

	t, err := s.tripRepo.GetByID(ctx, b.TripID)
	if err != nil {
		return ErrTripNotFound
	}

	if err := s.bookingRepo.CancelBooking(ctx, bookingID); err != nil {
		if errors.Is(err, ErrBookingNotFoundOrAlreadyCancelled) {
			return ErrBookingNotFound
		}
		return err
	}

	refunded := s.refundIfWalletPaid(ctx, b, t, "Refund - booking cancelled")

	metrics.RecordBookingCancellation()

	route := t.OriginAddress + " to " + t.DestinationAddress
	if rider, err := s.userRepo.FindByID(ctx, b.UserID); err == nil {
		s.notifier.SendBookingCancellation(ctx, rider.Email, rider.Name, route, refunded)
	}

	return nil
}

func (s *service) CancelTrip(ctx context.Context, userID, tripID int) error {
	t, err := s.tripRepo.GetByID(ctx, tripID)
	if err != nil {
		return ErrTripNotFound
	}

	if t.CreatorID != userID {
		return ErrNotYourTrip
	}

	bookings, err := s.bookingRepo.ListConfirmedByTrip(ctx, tripID)
	if err != nil {
		return err
	}

	if err := s.tripRepo.Cancel(ctx, tripID); err != nil {
		if errors.Is(err, trip.ErrTripAlreadyCancelled) {
			return ErrTripNotActive
		}
		return err
	}

	route := t.OriginAddress + " to " + t.DestinationAddress
	for _, b := range bookings {
		if err := s.bookingRepo.CancelBooking(ctx, b.ID); err != nil {
			logger.Error("failed to cancel booking for cancelled trip",
				"booking_id", b.ID, "trip_id", tripID, "error", err)
			continue
		}

		refunded := s.refundIfWalletPaid(ctx, &b, t, "Refund - trip cancelled")
		metrics.RecordBookingCancellation()

		if rider, err := s.userRepo.FindByID(ctx, b.UserID); err == nil {
			s.notifier.SendBookingCancellation(ctx, rider.Email, rider.Name, route, refunded)
		}
	}

	return nil
}

// refundIfWalletPaid moves the fare from the trip creator back to the rider.
// Cash and card fares were settled outside the platform, nothing to return.
func (s *service) refundIfWalletPaid(ctx context.Context, b *Booking, t *trip.TripWithDetails, reason string) int64 {
	if b.PaymentMethod != string(payment.MethodWallet) {
		return 0
	}

	description := fmt.Sprintf("%s - %s to %s", reason, t.OriginAddress, t.DestinationAddress)
	if err := s.wallet.Refund(ctx, t.CreatorID, b.UserID, b.AmountPaidCents, description); err != nil {
		logger.Error("refund failed", "booking_id", b.ID, "amount_cents", b.AmountPaidCents, "error", err)
		return 0
	}

	return b.AmountPaidCents
}

func (s *service) GetUserBookings(ctx context.Context, userID int) ([]BookingWithTrip, error) {
	return s.bookingRepo.GetUserBookings(ctx, userID)
}
