package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cabinet-portal/config"
	deliveryHttp "cabinet-portal/internal/delivery/http"
	"cabinet-portal/internal/delivery/http/handler"
	"cabinet-portal/internal/delivery/http/middleware"
	"cabinet-portal/internal/infrastructure/backend"
	"cabinet-portal/internal/infrastructure/cache"
	"cabinet-portal/internal/infrastructure/database"
	"cabinet-portal/internal/infrastructure/messaging"
	"cabinet-portal/internal/repository"
	"cabinet-portal/internal/service"
	"cabinet-portal/internal/usecase"
	"cabinet-portal/pkg/jwt"
	"cabinet-portal/pkg/validator"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// App holds all dependencies for the application
type App struct {
	Config      *config.Config
	Log         *logrus.Logger
	DB          *gorm.DB
	RedisClient *redis.Client
	AMQPConn    *amqp.Connection
	Server      *http.Server
}

// New creates a new App instance with all dependencies initialized
func New() (*App, error) {
	app := &App{}

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	app.Config = cfg

	// Setup logger
	log := setupLogger(cfg.App.LogLevel)
	app.Log = log
	log.Info("Configuration loaded successfully")

	// Initialize database (audit trail and medecin workspace)
	db, err := database.NewPostgresConnection(cfg.DB, cfg.App.Timezone, log)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = db
	log.Info("Database connected successfully")

	if cfg.DB.AutoMigrate {
		if err := database.Migrate(db, log); err != nil {
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	// Initialize Redis (sessions and in-flight guard)
	redisClient, err := cache.NewRedisClient(cfg.Redis, log)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	app.RedisClient = redisClient
	log.Info("Redis connected successfully")

	// Initialize lifecycle event publishing; without a broker events are only logged
	publisher := service.NewLogEventPublisher(log)
	if cfg.AMQP.URL != "" {
		conn, err := messaging.NewRabbitMQ(cfg.AMQP.URL, log)
		if err != nil {
			log.Warnf("Failed to connect to RabbitMQ, events will only be logged: %+v", err)
		} else if amqpPublisher, err := service.NewAMQPEventPublisher(conn, cfg.AMQP.Exchange, log); err != nil {
			log.Warnf("Failed to declare exchange %s, events will only be logged: %+v", cfg.AMQP.Exchange, err)
			conn.Close()
		} else {
			app.AMQPConn = conn
			publisher = amqpPublisher
			log.Info("RabbitMQ connected successfully")
		}
	}

	// Initialize all layers
	app.Server = initializeServer(cfg, log, db, redisClient, publisher)

	return app, nil
}

// setupLogger configures a JSON logrus logger at the configured level
func setupLogger(level string) *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	log.SetLevel(lvl)
	return log
}

// initializeServer creates and configures the HTTP server
func initializeServer(
	cfg *config.Config,
	log *logrus.Logger,
	db *gorm.DB,
	redisClient *redis.Client,
	publisher service.EventPublisher,
) *http.Server {
	loc := cfg.App.Location()

	// Initialize JWT service
	jwtService := jwt.NewJWTService(cfg.JWT)

	// Initialize validator
	customValidator := validator.NewValidator()

	// Initialize repositories; the backend client serves every backend-owned resource
	backendClient := backend.NewClient(cfg.Backend, log)
	sessionRepo := repository.NewSessionRepository(redisClient)
	auditLogRepo := repository.NewAuditLogRepository()
	templateRepo := repository.NewPrescriptionTemplateRepository()
	slotBlockRepo := repository.NewSlotBlockRepository()

	// Initialize services
	auditService := service.NewAuditService(db, log, auditLogRepo)
	guard := service.NewInFlightGuard(redisClient, cfg.App.InFlightTTL, log)
	slotCalendar := service.NewSlotCalendar(db, log, slotBlockRepo)

	// Initialize usecases
	authUsecase := usecase.NewAuthUsecase(log, backendClient, sessionRepo, auditService, jwtService)
	appointmentUsecase := usecase.NewAppointmentUsecase(log, backendClient, backendClient, auditService, publisher, guard, slotCalendar, loc)
	dashboardUsecase := usecase.NewDashboardUsecase(log, backendClient, backendClient, backendClient, loc)
	directoryUsecase := usecase.NewDirectoryUsecase(log, backendClient, backendClient, sessionRepo, auditService, guard, cfg.Dashboard.MaxConcurrency)
	auditLogUsecase := usecase.NewAuditLogUsecase(db, log, auditLogRepo)
	templateUsecase := usecase.NewPrescriptionTemplateUsecase(db, log, templateRepo, auditService)
	slotBlockUsecase := usecase.NewSlotBlockUsecase(db, log, slotBlockRepo, auditService, loc)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authUsecase, customValidator, log)
	appointmentHandler := handler.NewAppointmentHandler(appointmentUsecase, customValidator, log)
	dashboardHandler := handler.NewDashboardHandler(dashboardUsecase, log)
	directoryHandler := handler.NewDirectoryHandler(directoryUsecase, customValidator, log)
	auditLogHandler := handler.NewAuditLogHandler(auditLogUsecase, log)
	workspaceHandler := handler.NewMedecinWorkspaceHandler(templateUsecase, slotBlockUsecase, customValidator, log)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(authUsecase, log)
	corsMiddleware := middleware.NewCORSMiddleware()
	loggerMiddleware := middleware.NewLoggerMiddleware(log)

	// Initialize router
	router := deliveryHttp.NewRouter(
		authHandler,
		appointmentHandler,
		dashboardHandler,
		directoryHandler,
		auditLogHandler,
		workspaceHandler,
		authMiddleware,
		corsMiddleware,
		loggerMiddleware,
		cfg.App.AuthRateLimit,
	)
	httpRouter := router.Setup()

	// Create server
	serverAddr := fmt.Sprintf(":%s", cfg.App.Port)
	return &http.Server{
		Addr:              serverAddr,
		Handler:           httpRouter,
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// Run starts the HTTP server and handles graceful shutdown
func (app *App) Run() {
	// Start server in goroutine
	go func() {
		app.Log.Infof("Server starting on port %s", app.Config.App.Port)
		app.Log.Infof("Environment: %s", app.Config.App.Env)
		if err := app.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			app.Log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	app.waitForShutdown()
}

// waitForShutdown blocks until an interrupt signal is received
func (app *App) waitForShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	app.Log.Info("Shutting down server...")

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown HTTP server gracefully
	if err := app.Server.Shutdown(ctx); err != nil {
		app.Log.Errorf("Server forced to shutdown: %v", err)
	}

	// Close connections
	app.Close()

	app.Log.Info("Server shutdown complete")
}

// Close closes all connections (database, redis, broker)
func (app *App) Close() {
	if app.DB != nil {
		sqlDB, err := app.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}

	if app.RedisClient != nil {
		app.RedisClient.Close()
	}

	if app.AMQPConn != nil {
		app.AMQPConn.Close()
	}
}
