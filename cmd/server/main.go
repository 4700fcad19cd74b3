package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"nursing-home-backend/internal/config"
	"nursing-home-backend/internal/database"
	"nursing-home-backend/internal/handler"
	"nursing-home-backend/internal/lock"
	"nursing-home-backend/internal/logger"
	"nursing-home-backend/internal/metrics"
	"nursing-home-backend/internal/middleware"
	"nursing-home-backend/internal/remote"
	"nursing-home-backend/internal/repository"
	"nursing-home-backend/internal/service"
	"nursing-home-backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const serviceName = "nursing-home-backend"

func main() {
	// 1. Load configuration
	cfg := config.LoadConfig()

	log, err := logger.New(cfg.Log.Level, cfg.Log.Format, serviceName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync() //nolint:errcheck

	if err := cfg.Validate(); err != nil {
		log.Fatal("Invalid configuration", zap.Error(err))
	}
	log.Info("Configuration loaded successfully", zap.String("data_backend", cfg.Remote.DataBackend))

	// 2. Initialize JWT utilities with config
	utils.InitJWT(cfg.JWT.AccessSecret, cfg.JWT.AccessTokenExpiry)

	m := metrics.New()

	// 3. Select the data backend
	var (
		store service.TransferStore
		audit service.AuditRecorder
	)
	switch cfg.Remote.DataBackend {
	case config.BackendRemote:
		store = remote.NewClient(cfg.Remote.BaseURL, cfg.Remote.Token, cfg.Remote.Timeout, log)
		audit = service.NewLogAuditRecorder(log)
		log.Info("Using remote data backend", zap.String("base_url", cfg.Remote.BaseURL))
	default:
		db, err := database.Connect(cfg, log)
		if err != nil {
			log.Fatal("Failed to connect to database", zap.Error(err))
		}
		if err := database.Migrate(db); err != nil {
			log.Fatal("Failed to migrate database", zap.Error(err))
		}
		store = repository.NewStore(db)
		audit = repository.NewAuditRepo(db)
	}

	// 4. Transfer lock
	var locker lock.Locker = lock.NewLocalLocker()
	if cfg.Redis.Enabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		pingCtx, cancelPing := context.WithTimeout(context.Background(), 5*time.Second)
		err := rdb.Ping(pingCtx).Err()
		cancelPing()
		if err != nil {
			log.Fatal("Failed to connect to redis", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
		}
		defer rdb.Close()
		locker = lock.NewRedisLocker(rdb, "nursing-home:transfer:")
		log.Info("Using redis transfer lock", zap.String("addr", cfg.Redis.Addr))
	}

	// 5. Initialize services
	transferService := service.NewTransferService(store, audit, locker, m, log.Named("transfer"), cfg.Transfer.LockTTL)
	workerService := service.NewWorkerService(transferService, m, log, cfg.Transfer.OccupancyRefresh)

	// 6. Start background worker in goroutine
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go workerService.Start(ctx)

	// 7. Setup Gin
	gin.SetMode(cfg.Server.GinMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(log.Named("http"), m))
	r.Use(middleware.CORS(cfg))

	// 8. Register handlers
	transferHandler := handler.NewTransferHandler(transferService, log)
	roomHandler := handler.NewRoomHandler(transferService, log)
	residentHandler := handler.NewResidentHandler(transferService, log)

	// 9. Define routes
	r.GET("/health", func(c *gin.Context) {
		utils.SuccessResponse(c, gin.H{
			"status":       "healthy",
			"service":      serviceName,
			"data_backend": cfg.Remote.DataBackend,
		})
	})
	r.GET("/metrics", gin.WrapH(m.Handler()))

	api := r.Group("/api")
	api.Use(middleware.AuthMiddleware())
	{
		transfers := api.Group("/transfers")
		transfers.GET("/options", transferHandler.GetOptions)
		transfers.GET("/beds", transferHandler.GetAvailableBeds)
		transfers.POST("", middleware.RequireRole(middleware.RoleAdmin, middleware.RoleStaff), transferHandler.ExecuteTransfer)

		api.GET("/rooms", roomHandler.ListRooms)
		api.GET("/rooms/occupancy/export", roomHandler.ExportOccupancy)
		api.GET("/residents/:id/bed-assignments", residentHandler.GetBedAssignments)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// 10. Setup graceful shutdown
	go func() {
		log.Info("Server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	// Cancel background worker context
	cancel()

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	log.Info("Server exited")
}
