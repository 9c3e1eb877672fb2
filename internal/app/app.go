package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	reviewdomain "github.com/confhub/server/internal/domain/review"
	scheduledomain "github.com/confhub/server/internal/domain/schedule"
	"github.com/confhub/server/internal/module/mailer"
	reviewmodule "github.com/confhub/server/internal/module/review"
	schedulemodule "github.com/confhub/server/internal/module/schedule"
	"github.com/confhub/server/internal/port/outbound"
	sharedcache "github.com/confhub/server/internal/shared/cache"
	"github.com/confhub/server/internal/shared/config"
	"github.com/confhub/server/internal/shared/database"
	"github.com/confhub/server/internal/shared/logger"
	"github.com/confhub/server/internal/shared/middleware"
	"github.com/confhub/server/internal/utils/metrics"
)

// App is the application container. It owns the shared infrastructure and
// wires the domain services to their adapters.
type App struct {
	config    *config.Config
	logger    *logger.Logger
	zapLogger *zap.Logger
	db        *gorm.DB
	redis     redis.UniversalClient
	metrics   *metrics.Metrics
	router    *gin.Engine
	server    *http.Server

	reviewService   *reviewdomain.Service
	scheduleService *scheduledomain.Service
	reviewHandler   *reviewmodule.Handler
	scheduleHandler *schedulemodule.Handler
}

// New creates a new application instance.
func New(cfg *config.Config) (*App, error) {
	// Initialize logger
	log := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})

	// Initialize zap logger for the domain services
	zapLog, err := logger.NewZapLogger(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})
	if err != nil {
		return nil, fmt.Errorf("init zap logger: %w", err)
	}

	app := &App{
		config:    cfg,
		logger:    log,
		zapLogger: zapLog,
		metrics:   metrics.New("confhub"),
	}

	// Initialize database
	db, err := database.New(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("init database: %w", err)
	}
	if err := database.Migrate(db); err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	app.db = db

	// Initialize Redis (optional)
	if cfg.Redis.Address != "" {
		redisClient, err := sharedcache.NewRedisClient(&cfg.Redis)
		if err != nil {
			// Redis is optional, the count cache falls back to the database
			log.Warn("redis connection failed, reviewer count cache disabled", "error", err)
		} else {
			app.redis = redisClient
		}
	}

	app.initModules()

	app.router = app.setupRouter()
	app.registerRoutes()

	return app, nil
}

// initModules wires the domain services to their adapters.
func (a *App) initModules() {
	invitationRepo := reviewmodule.NewInvitationRepository(a.db)

	var assignmentStore outbound.AssignmentDatabasePort = reviewmodule.NewAssignmentRepository(a.db)
	if a.redis != nil {
		assignmentStore = reviewmodule.NewCachedAssignmentStore(
			assignmentStore, a.redis, a.config.Redis.CountTTL, a.metrics, a.zapLogger)
	}

	smtpMailer := mailer.NewSMTP(mailer.Config{
		Addr:     a.config.SMTP.Address,
		From:     a.config.SMTP.From,
		Username: a.config.SMTP.Username,
		Password: a.config.SMTP.Password,
		Hello:    a.config.SMTP.Hello,
		UseTLS:   a.config.SMTP.UseTLS,
	}, a.zapLogger)
	invitationMailer := mailer.NewBreaker(smtpMailer, a.zapLogger)

	reviewCfg := reviewdomain.DefaultConfig()
	reviewCfg.InvitationExpiry = a.config.Review.InvitationExpiry
	reviewCfg.MaxReviewersPerPaper = a.config.Review.MaxReviewersPerPaper
	reviewCfg.BaseURL = a.config.Review.BaseURL
	reviewCfg.MailFrom = a.config.SMTP.From

	a.reviewService = reviewdomain.NewService(
		invitationRepo, assignmentStore, invitationMailer, reviewCfg, a.zapLogger)

	scheduleRepo := schedulemodule.NewRepository(a.db)
	a.scheduleService = scheduledomain.NewService(scheduleRepo, scheduleRepo, a.zapLogger)

	a.reviewHandler = reviewmodule.NewHandler(a.reviewService, a.metrics)
	a.scheduleHandler = schedulemodule.NewHandler(a.scheduleService, a.metrics)
}

// setupRouter creates and configures the Gin router.
func (a *App) setupRouter() *gin.Engine {
	// Set Gin mode based on environment
	if a.config.Log.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Apply global middleware
	r.Use(middleware.Recovery(a.zapLogger))
	r.Use(middleware.Metrics(a.metrics))
	r.Use(cors.Default())

	// Health check endpoint
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Prometheus metrics endpoint
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

// registerRoutes registers routes for all modules.
func (a *App) registerRoutes() {
	// API v1 group
	v1 := a.router.Group("/api/v1")
	a.reviewHandler.RegisterRoutes(v1)
	a.scheduleHandler.RegisterRoutes(v1)

	// Public routes reachable from invitation emails
	public := a.router.Group("")
	a.reviewHandler.RegisterPublicRoutes(public)
}

// Router returns the HTTP router.
func (a *App) Router() *gin.Engine {
	return a.router
}

// Run starts the HTTP server and blocks until it stops.
func (a *App) Run() error {
	a.server = &http.Server{
		Addr:         a.config.Server.Address,
		Handler:      a.router,
		ReadTimeout:  a.config.Server.ReadTimeout,
		WriteTimeout: a.config.Server.WriteTimeout,
		IdleTimeout:  a.config.Server.IdleTimeout,
	}

	a.logger.Info("server starting", "address", a.config.Server.Address)
	if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("listen and serve: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the HTTP server and closes infrastructure.
func (a *App) Shutdown(ctx context.Context) error {
	if a.server != nil {
		if err := a.server.Shutdown(ctx); err != nil {
			return fmt.Errorf("shutdown server: %w", err)
		}
	}

	if a.redis != nil {
		if err := sharedcache.Close(a.redis); err != nil {
			a.logger.Warn("close redis", "error", err)
		}
	}
	if a.db != nil {
		if err := database.Close(a.db); err != nil {
			a.logger.Warn("close database", "error", err)
		}
	}

	_ = a.zapLogger.Sync()
	return nil
}
