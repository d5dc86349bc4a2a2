package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"github.com/go-redis/redis/v8"
	_ "github.com/go-sql-driver/mysql"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/hibiken/asynq"
	_ "github.com/memberclass/platform/docs"
	"github.com/memberclass/platform/internal/auth/middleware"
	"github.com/memberclass/platform/internal/auth/service"
	"github.com/memberclass/platform/internal/config"
	"github.com/memberclass/platform/internal/handlers"
	"github.com/memberclass/platform/internal/logger"
	loggerMiddleware "github.com/memberclass/platform/internal/logger/middleware"
	"github.com/memberclass/platform/internal/middlewares"
	"github.com/memberclass/platform/internal/models"
	"github.com/memberclass/platform/internal/player"
	"github.com/memberclass/platform/internal/repositories"
	"github.com/memberclass/platform/internal/services"
	"github.com/memberclass/platform/internal/storage"
	"github.com/memberclass/platform/internal/tasks"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"
)

// @title MemberClass API
// @version 1.0
// @description Members area: course catalog, course player and admin content management

// @host localhost:8080
// @BasePath /api/v1
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key
// @description API key for service-to-service calls
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v\n", err)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level); err != nil {
		log.Fatalf("Failed to initialize logger: %v\n", err)
	}
	defer logger.Sync()

	logger.Logger.Info("Starting MemberClass API")

	// Connect to database
	db, err := connectDB(cfg.DSN())
	if err != nil {
		logger.Logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Run migrations
	if err := runMigrations(db); err != nil {
		logger.Logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	// Connect to Redis
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()

	if err := rdb.Ping(context.Background()).Err(); err != nil {
		logger.Logger.Fatal("Failed to connect to Redis", zap.Error(err))
	}

	// Create Asynq client
	asynqClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     cfg.RedisAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer asynqClient.Close()

	tokenValidator := service.NewTokenGenerator(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry)

	// Initialize repositories
	courseRepo := repositories.NewCourseRepository(db)
	moduleRepo := repositories.NewModuleRepository(db)
	lessonRepo := repositories.NewLessonRepository(db)
	enrollmentRepo := repositories.NewEnrollmentRepository(db)
	profileRepo := repositories.NewProfileRepository(db)
	materialRepo := repositories.NewSupportMaterialRepository(db)
	settingsRepo := repositories.NewDashboardSettingsRepository(db)
	fileRepo := repositories.NewStoredFileRepository(db)
	purchaseRepo := repositories.NewPurchaseRepository(db)
	statsRepo := repositories.NewStatsRepository(db)

	// Initialize services
	enrollmentService := services.NewEnrollmentService(courseRepo, enrollmentRepo, tasks.NewEnqueuer(asynqClient), logger.Logger)
	catalogService := services.NewCatalogService(courseRepo, settingsRepo, logger.Logger)
	dashboardService := services.NewDashboardService(settingsRepo)
	materialService := services.NewSupportMaterialService(materialRepo, logger.Logger)
	courseService := services.NewAdminCourseService(courseRepo, logger.Logger)
	moduleService := services.NewAdminModuleService(moduleRepo, courseRepo)
	lessonService := services.NewAdminLessonService(lessonRepo, moduleRepo)
	adminService := services.NewAdminService(profileRepo, statsRepo)
	purchaseService := services.NewPurchaseService(purchaseRepo)
	mediaService := services.NewMediaService(fileRepo, storage.NewLocalStorage(cfg.Storage.BasePath), cfg.Storage.PublicBaseURL, logger.Logger)

	// Course player sessions
	playerSource := services.NewPlayerContentSource(courseRepo, moduleRepo, lessonRepo, enrollmentRepo, enrollmentService)
	sessions := player.NewSessionManager(playerSource, cfg.Player.SessionTTL, logger.Logger)
	stopSweeper, err := sessions.StartSweeper(cfg.Player.SweepSchedule)
	if err != nil {
		logger.Logger.Fatal("Failed to start player session sweeper", zap.Error(err))
	}
	defer stopSweeper()

	// Initialize auth middleware
	authMiddleware := middleware.AuthMiddleware(tokenValidator)
	adminMiddleware := middleware.RoleMiddleware(tokenValidator, int(models.RoleAdmin))
	apiKeyMiddleware := middleware.APIKeyMiddleware(cfg.APIKey)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(map[string]handlers.Pinger{
		"database": db,
		"redis":    handlers.PingerFunc(func(ctx context.Context) error { return rdb.Ping(ctx).Err() }),
	}, logger.Logger)
	catalogHandler := handlers.NewCatalogHandler(catalogService, enrollmentService, materialService, logger.Logger)
	playerHandler := handlers.NewPlayerHandler(sessions, logger.Logger)
	fileHandler := handlers.NewFileHandler(mediaService, logger.Logger, authMiddleware)
	adminContentHandler := handlers.NewAdminContentHandler(courseService, moduleService, lessonService, logger.Logger)
	adminHandler := handlers.NewAdminHandler(materialService, dashboardService, adminService, mediaService, logger.Logger)
	purchaseHandler := handlers.NewPurchaseHandler(purchaseService, logger.Logger)

	// Setup router
	r := chi.NewRouter()

	r.Use(middlewares.RequestIDMiddleware)
	r.Use(loggerMiddleware.LoggerMiddleware(logger.Logger))
	r.Use(middlewares.RecoveryMiddleware(logger.Logger))
	r.Use(middlewares.CORSMiddleware(cfg.CORS.AllowedOrigins))
	r.Use(httprate.LimitByIP(100, time.Minute))
	// 2MB for JSON routes, 55MB for multipart uploads (50MB file plus form overhead)
	r.Use(middlewares.RequestSizeLimitMiddleware(2*1024*1024, map[string]int64{
		"/api/v1/admin/uploads/": 55 * 1024 * 1024,
	}))

	healthHandler.RegisterRoutes(r)

	// Swagger documentation
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL(fmt.Sprintf("%s/swagger/doc.json", cfg.Storage.PublicBaseURL)),
	))

	r.Route("/api/v1", func(r chi.Router) {
		// Public bucket files are served without a token
		fileHandler.RegisterRoutes(r)

		// Service-to-service endpoints (API key protected)
		r.Group(func(r chi.Router) {
			r.Use(apiKeyMiddleware)
			purchaseHandler.RegisterRoutes(r)
		})

		// Student endpoints (JWT protected)
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware)
			catalogHandler.RegisterRoutes(r)
			playerHandler.RegisterRoutes(r)
		})

		// Admin endpoints
		r.Group(func(r chi.Router) {
			r.Use(adminMiddleware)
			adminContentHandler.RegisterRoutes(r)
			adminHandler.RegisterRoutes(r)
		})
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Logger.Info("Server starting", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Logger.Info("Server exited", zap.Int("open_player_sessions", sessions.Len()))
}

// connectDB connects to the database
func connectDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// runMigrations applies pending migrations from the migrations folder
func runMigrations(db *sql.DB) error {
	driver, err := mysql.WithInstance(db, &mysql.Config{
		MigrationsTable: "schema_migrations",
	})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	migrationPath := "file://migrations"
	if _, err := os.Stat("migrations"); os.IsNotExist(err) {
		// running from cmd/api
		if _, err := os.Stat("../../migrations"); err == nil {
			migrationPath = "file://../../migrations"
		}
	}

	m, err := migrate.NewWithDatabaseInstance(migrationPath, "mysql", driver)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}
