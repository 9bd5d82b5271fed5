package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"saludagenda/config"
	"saludagenda/cron"
	"saludagenda/database"
	appointmentRepo "saludagenda/database/repository/appointment"
	blockedRepo "saludagenda/database/repository/blocked"
	userRepoPkg "saludagenda/database/repository/user"
	"saludagenda/handlers"
	"saludagenda/middleware"
	"saludagenda/routes"
	"saludagenda/services/booking"
	"saludagenda/services/user"
	"saludagenda/utils"

	"github.com/gin-gonic/gin"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitAuthCache()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// repositories.
	apptRepo := appointmentRepo.NewMongoAppointmentRepo()
	blkRepo := blockedRepo.NewMongoBlockedSlotRepo()
	userRepo := userRepoPkg.NewMongoUserRepo()

	// The unique slot index is what guarantees no double-booking survives a
	// write race, so a failure here is fatal.
	idxCtx, idxCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer idxCancel()
	if err := apptRepo.EnsureIndexes(idxCtx); err != nil {
		logger.Sugar().Fatalf("main: failed to create appointment indexes: %v", err)
	}
	if err := blkRepo.EnsureIndexes(idxCtx); err != nil {
		logger.Sugar().Fatalf("main: failed to create blocked slot indexes: %v", err)
	}
	if err := userRepo.EnsureIndexes(idxCtx); err != nil {
		logger.Sugar().Fatalf("main: failed to create user indexes: %v", err)
	}

	// services.
	userService := &user.DefaultService{
		Repo: userRepo,
	}

	reminderQueue := cron.NewReminderQueue()
	defer reminderQueue.Close()

	bookingService := &booking.DefaultService{
		Appointments: apptRepo,
		Blocks:       blkRepo,
		Users:        userRepo,
		Reminders:    reminderQueue,
	}

	handlerBundle := handlers.NewHandler(bookingService, userService)

	// Register routes with the assembled handler bundle.
	routes.RegisterRoutes(router, handlerBundle, userService)

	// Start the reminder worker alongside the HTTP server.
	cron.InitReminderWorker()

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
