package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/courseloom/backend/internal/auth"
	"github.com/courseloom/backend/internal/config"
	"github.com/courseloom/backend/internal/events"
	"github.com/courseloom/backend/internal/handlers"
	"github.com/courseloom/backend/internal/logger"
	"github.com/courseloom/backend/internal/middleware"
	"github.com/courseloom/backend/internal/models"
	"github.com/courseloom/backend/internal/repositories"
	"github.com/courseloom/backend/internal/services"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	_ "github.com/go-sql-driver/mysql"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"
)

// @title CourseLoom API
// @version 1.0
// @description API for course access, enrollment and progress tracking

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:8080
// @BasePath /api/v1
// @securityDefinitions.apikey ApiKeyAuth
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

	logger.Logger.Info("Starting CourseLoom backend")

	// Connect to database
	db, err := connectDB(cfg.DSN())
	if err != nil {
		logger.Logger.Fatal("Failed to connect to database", zap.Error(err))
		os.Exit(1)
	}
	defer db.Close()

	// Run migrations
	if err := runMigrations(db); err != nil {
		logger.Logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	// Initialize JWT token generator
	tokenGenerator := auth.NewTokenGenerator(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry)

	// Initialize repositories
	courseRepo := repositories.NewCourseRepository(db)
	lessonRepo := repositories.NewLessonRepository(db)
	enrollmentRepo := repositories.NewEnrollmentRepository(db)
	completionRepo := repositories.NewCompletionRepository(db)
	paymentRepo := repositories.NewPaymentRepository(db)
	assignmentRepo := repositories.NewAssignmentRepository(db)

	// Initialize services
	publisher := events.NewLogPublisher(logger.Logger)
	paymentGate := services.NewPaymentGate(paymentRepo)
	accessService := services.NewAccessService(courseRepo, enrollmentRepo, paymentGate, logger.Logger)
	catalogService := services.NewCatalogService(courseRepo, lessonRepo, enrollmentRepo, accessService, logger.Logger)
	enrollmentService := services.NewEnrollmentService(courseRepo, enrollmentRepo, paymentRepo, publisher, logger.Logger)
	progressService := services.NewProgressService(lessonRepo, completionRepo, enrollmentRepo, publisher, logger.Logger)
	instructorService := services.NewInstructorService(courseRepo, lessonRepo, assignmentRepo, accessService, logger.Logger)
	assignmentService := services.NewAssignmentService(assignmentRepo, accessService, logger.Logger)
	paymentService := services.NewPaymentService(paymentRepo, logger.Logger)

	// Initialize handlers
	courseHandler := handlers.NewCourseHandler(catalogService, enrollmentService, logger.Logger)
	lessonHandler := handlers.NewLessonHandler(catalogService, progressService, logger.Logger)
	assignmentHandler := handlers.NewAssignmentHandler(assignmentService, logger.Logger)
	instructorHandler := handlers.NewInstructorHandler(instructorService, logger.Logger)
	adminHandler := handlers.NewAdminHandler(enrollmentService, logger.Logger)
	paymentHandler := handlers.NewPaymentHandler(paymentService, logger.Logger)

	// Initialize auth middleware
	authMiddleware := middleware.AuthMiddleware(tokenGenerator)
	optionalAuthMiddleware := middleware.OptionalAuthMiddleware(tokenGenerator)
	instructorMiddleware := middleware.RoleMiddleware(tokenGenerator, models.RoleInstructor)
	adminMiddleware := middleware.RoleMiddleware(tokenGenerator, models.RoleAdmin)
	apiKeyMiddleware := middleware.APIKeyMiddleware(cfg.APIKey)

	// Setup router
	r := chi.NewRouter()

	// Apply middleware
	r.Use(middleware.RequestIDMiddleware)
	r.Use(middleware.LoggerMiddleware(logger.Logger))
	r.Use(middleware.RecoveryMiddleware(logger.Logger))
	r.Use(middleware.CORSMiddleware(cfg.CORS.AllowedOrigins))
	r.Use(httprate.LimitByIP(100, time.Minute))
	r.Use(middleware.RequestSizeLimitMiddleware(1 * 1024 * 1024)) // 1MB

	// Swagger documentation
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL(fmt.Sprintf("http://localhost:%d/swagger/doc.json", cfg.Server.Port)),
	))

	// Scope router to /api/v1
	r.Route("/api/v1", func(r chi.Router) {
		// Catalog and enrollment routes
		courseHandler.RegisterRoutes(r, optionalAuthMiddleware, authMiddleware)
		// Lesson and assignment routes require authentication
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware)
			lessonHandler.RegisterRoutes(r)
			assignmentHandler.RegisterRoutes(r)
		})
		// Instructor back office routes
		r.Group(func(r chi.Router) {
			r.Use(instructorMiddleware)
			instructorHandler.RegisterRoutes(r)
		})
		// Admin routes
		r.Group(func(r chi.Router) {
			r.Use(adminMiddleware)
			adminHandler.RegisterRoutes(r)
		})
		// Internal payment intake behind the service API key
		r.Group(func(r chi.Router) {
			r.Use(apiKeyMiddleware)
			paymentHandler.RegisterRoutes(r)
		})
	})

	// Start server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Logger.Info("Server starting", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Logger.Info("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Logger.Info("Server exited")
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

// runMigrations runs database migrations
func runMigrations(db *sql.DB) error {
	driver, err := mysql.WithInstance(db, &mysql.Config{
		MigrationsTable: "courseloom_schema_migrations",
	})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	// Get the working directory or use migrations folder relative to the binary
	migrationPath := "file://migrations"
	if _, err := os.Stat("migrations"); os.IsNotExist(err) {
		// Try parent directory if running from cmd
		if _, err := os.Stat("../migrations"); err == nil {
			migrationPath = "file://../migrations"
		}
	}

	m, err := migrate.NewWithDatabaseInstance(
		migrationPath,
		"mysql",
		driver,
	)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}
