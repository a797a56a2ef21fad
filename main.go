package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/stripe/stripe-go/v76"
	"go.uber.org/zap"

	"medibook/config"
	"medibook/cron"
	"medibook/database"
	chatRepo "medibook/database/repository/chat"
	ledgerRepo "medibook/database/repository/ledger"
	reservationRepo "medibook/database/repository/reservation"
	schedulerRepo "medibook/database/repository/scheduler"
	"medibook/handlers"
	"medibook/middleware"
	"medibook/routes"
	"medibook/services/chat"
	"medibook/services/payment"
	"medibook/services/scheduling"
	"medibook/utils"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()
	utils.InitAuthCache()
	stripe.Key = config.AppConfig.StripeKey

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	corsCfg := cors.DefaultConfig()
	corsCfg.AllowOrigins = strings.Split(config.AppConfig.CORSOrigins, ",")
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization")
	router.Use(cors.New(corsCfg))

	// Repositories.
	ledger := ledgerRepo.NewMongoLedgerRepo()
	reservations := reservationRepo.NewMongoReservationRepo()
	scheduler := schedulerRepo.NewMongoSchedulerRepo()
	chats := chatRepo.NewMongoChatRepo()

	if err := ledger.EnsureIndexes(); err != nil {
		logger.Sugar().Fatalf("main: availability indexes: %v", err)
	}
	if err := reservations.EnsureIndexes(); err != nil {
		logger.Sugar().Fatalf("main: reservation indexes: %v", err)
	}

	// Services.
	window := config.Window()
	availCache := &scheduling.AvailabilityCache{
		Client: utils.GetCacheClient(),
		TTL:    time.Duration(config.AppConfig.AvailabilityCacheTTLSec) * time.Second,
	}

	availabilitySvc := &scheduling.DefaultAvailabilityService{
		Ledger:    ledger,
		Scheduler: scheduler,
		Window:    window,
		Cache:     availCache,
	}

	engine := scheduling.NewDefaultSchedulingEngine(scheduler, reservations, window, config.AppConfig.ConsultationFee)
	engine.Cache = availCache
	engine.Reminders = cron.NewReminderScheduler()

	chatSvc := &chat.DefaultChatService{Repo: chats}
	paymentHandler := payment.NewStripePaymentHandler(logger, reservations)

	cron.InitReminderWorker(reservations)
	utils.StartHealthMonitor([]*redis.Client{utils.GetCacheClient(), utils.GetAuthCacheClient()}, database.MongoClient)

	// Handlers.
	bundle := &routes.HandlerBundle{
		Availability: handlers.NewAvailabilityHandler(availabilitySvc),
		Booking:      handlers.NewBookingHandler(engine, paymentHandler),
		Appointments: handlers.NewAppointmentHandler(engine),
		Chat:         handlers.NewChatHandler(chatSvc),
	}
	routes.RegisterRoutes(router, bundle)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	go func() {
		logger.Sugar().Infof("Starting server on %s...", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("forced shutdown", zap.Error(err))
	}
	if err := database.MongoClient.Disconnect(ctx); err != nil {
		logger.Error("mongo disconnect", zap.Error(err))
	}
	logger.Info("Server stopped")
}
