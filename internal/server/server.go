package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	"github.com/yashcdw/Crew-Car/internal/auth"
	"github.com/yashcdw/Crew-Car/internal/booking"
	"github.com/yashcdw/Crew-Car/internal/config"
	"github.com/yashcdw/Crew-Car/internal/email"
	"github.com/yashcdw/Crew-Car/internal/payment"
	"github.com/yashcdw/Crew-Car/internal/trip"
	"github.com/yashcdw/Crew-Car/internal/user"
	"github.com/yashcdw/Crew-Car/internal/wallet"
)

type Server struct {
	router     *gin.Engine
	httpServer *http.Server
	db         *sqlx.DB
	config     *config.Config
	email      *email.Service
}

func New(db *sqlx.DB, cfg *config.Config, emailService *email.Service) *Server {
	router := gin.Default()
	router.Use(corsMiddleware())
	router.Use(RequestLoggingMiddleware())
	router.Use(MetricsMiddleware())
	router.Use(RateLimitMiddleware(20, 40))

	walletRepo := wallet.NewRepository(db)
	walletService := wallet.NewService(walletRepo)
	walletHandler := wallet.NewHandler(walletRepo)

	userRepo := user.NewRepository(db)
	userService := user.NewService(userRepo, walletRepo, cfg.JWTSecret)
	userHandler := user.NewHandler(userService)

	tripRepo := trip.NewRepository(db)
	tripHandler := trip.NewHandler(tripRepo, userRepo)

	policy := payment.NewPolicy(walletService)
	stripeClient := payment.NewStripeClient(cfg.StripeAPIKey, cfg.StripeAPIURL)
	bridge := payment.NewBridge(walletRepo, walletService, stripeClient)
	paymentHandler := payment.NewHandler(bridge)

	bookingRepo := booking.NewRepository(db)
	bookingService := booking.NewService(bookingRepo, tripRepo, userRepo, walletService, policy, emailService)
	bookingHandler := booking.NewHandler(bookingService)

	public := router.Group("/api")
	{
		public.POST("/auth/register", userHandler.Register)
		public.POST("/auth/login", userHandler.Login)
		public.POST("/auth/refresh", userHandler.RefreshToken)

		// Package table is public so the top-up screen renders before login.
		public.GET("/wallet/packages", paymentHandler.ListPackages)
	}

	protected := router.Group("/api")
	protected.Use(auth.AuthMiddleware(cfg.JWTSecret))
	{
		protected.GET("/profile", userHandler.GetMe)
		protected.PUT("/profile", userHandler.UpdateProfile)

		protected.GET("/wallet", walletHandler.GetBalance)
		protected.GET("/wallet/transactions", walletHandler.ListTransactions)
		protected.POST("/wallet/topup", paymentHandler.StartTopUp)
		protected.GET("/wallet/topup/:sessionID", paymentHandler.TopUpStatus)

		protected.POST("/trips", tripHandler.CreateTaxiTrip)
		protected.POST("/trips/personal-car", tripHandler.CreatePersonalCarTrip)
		protected.GET("/trips", tripHandler.ListTrips)
		protected.GET("/trips/airport", tripHandler.ListAirportTrips)
		protected.GET("/trips/my", tripHandler.MyTrips)
		protected.GET("/trips/:id", tripHandler.GetTrip)
		protected.DELETE("/trips/:id", bookingHandler.CancelTrip)

		protected.POST("/trips/:id/book", bookingHandler.BookTrip)
		protected.GET("/bookings", bookingHandler.MyBookings)
		protected.DELETE("/bookings/:id", bookingHandler.CancelBooking)
	}

	router.GET("/health", Health)
	router.GET("/metrics", Metrics())
	router.GET("/test-email", TestEmail(emailService))
	SetupSwagger(router)

	return &Server{
		router: router,
		db:     db,
		config: cfg,
		email:  emailService,
	}
}

func (s *Server) Start(port string) error {
	s.httpServer = &http.Server{
		Addr:    ":" + port,
		Handler: s.router,
	}
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) Router() *gin.Engine {
	return s.router
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
