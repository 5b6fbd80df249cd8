package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crewcar_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "crewcar_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	BookingsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crewcar_bookings_total",
			Help: "Total number of trip bookings",
		},
		[]string{"trip_category", "payment_method"},
	)

	BookingCancellationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "crewcar_booking_cancellations_total",
			Help: "Total number of booking cancellations",
		},
	)

	WalletTopUpsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crewcar_wallet_topups_total",
			Help: "Total number of wallet top-up reconciliations by outcome",
		},
		[]string{"outcome"},
	)

	WalletTransfersTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "crewcar_wallet_transfers_total",
			Help: "Total number of completed wallet transfers",
		},
	)

	WalletTransferLeaksTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "crewcar_wallet_transfer_leaks_total",
			Help: "Debits whose paired credit failed and needs reconciliation",
		},
	)

	EmailsSentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crewcar_emails_sent_total",
			Help: "Total number of emails sent",
		},
		[]string{"type", "status"},
	)

	EmailQueueLength = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "crewcar_email_queue_length",
			Help: "Current length of email queue",
		},
	)

	TripsCreatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crewcar_trips_created_total",
			Help: "Total number of trips created",
		},
		[]string{"category"},
	)
)

func RecordHTTPRequest(method, path, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

func RecordBooking(tripCategory, paymentMethod string) {
	BookingsTotal.WithLabelValues(tripCategory, paymentMethod).Inc()
}

func RecordBookingCancellation() {
	BookingCancellationsTotal.Inc()
}

func RecordWalletTopUp(outcome string) {
	WalletTopUpsTotal.WithLabelValues(outcome).Inc()
}

func RecordWalletTransfer() {
	WalletTransfersTotal.Inc()
}

func RecordWalletTransferLeak() {
	WalletTransferLeaksTotal.Inc()
}

func RecordEmail(emailType, status string) {
	EmailsSentTotal.WithLabelValues(emailType, status).Inc()
}

func SetEmailQueueLength(n int64) {
	EmailQueueLength.Set(float64(n))
}

func RecordTripCreated(category string) {
	TripsCreatedTotal.WithLabelValues(category).Inc()
}
