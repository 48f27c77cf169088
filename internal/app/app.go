package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"hireflow_backend/database"
	"hireflow_backend/internal/auth"
	"hireflow_backend/internal/config"
	"hireflow_backend/internal/email"
	"hireflow_backend/internal/handlers"
	"hireflow_backend/internal/logger"
	"hireflow_backend/internal/middleware"
	"hireflow_backend/internal/notify"
	"hireflow_backend/internal/repositories"
	"hireflow_backend/internal/routes"
	"hireflow_backend/internal/services"
	"hireflow_backend/internal/storage"
	"hireflow_backend/internal/telemetry"
	"hireflow_backend/internal/validator"
	"hireflow_backend/internal/workers"
	"hireflow_backend/pkg/apperrors"
	"hireflow_backend/ws"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"gorm.io/gorm"
)

// Run поднимает все зависимости, HTTP сервер и фоновые воркеры.
// Завершается по SIGINT/SIGTERM.
func Run() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", "error", err)
	}
	logger.Init(cfg.Server.Env)
	apperrors.SetDebug(cfg.IsDevelopment())
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Init(ctx, cfg)
	if err != nil {
		logger.Warn("Tracing disabled", "error", err)
	}

	logger.Info("Connecting to database...")
	gormDB, err := database.Open(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to GORM", "error", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Fatal("Failed to get *sql.DB from GORM", "error", err)
	}
	if err = sqlDB.PingContext(ctx); err != nil {
		logger.Fatal("Database unavailable", "error", err)
	}
	logger.Info("Database connected")

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(gormDB); err != nil {
			logger.Fatal("Failed to migrate database", "error", err)
		}
		logger.Info("Database migrated")
	}

	srv, background := SetupServer(ctx, cfg, gormDB)

	go func() {
		logger.Info(fmt.Sprintf("Server starting on %s", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server startup error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
	}
	background.Wait()
	if shutdownTracing != nil {
		if err := shutdownTracing(shutdownCtx); err != nil {
			logger.Error("Tracing shutdown error", "error", err)
		}
	}
	if err := sqlDB.Close(); err != nil {
		logger.Error("Database close error", "error", err)
	}
	logger.Info("Server stopped")
}

// Background - фоновые процессы, привязанные к контексту Run
type Background struct {
	dispatcher *notify.Dispatcher
}

// Wait ждет, пока воркеры диспетчера допишут текущие уведомления
func (b *Background) Wait() {
	b.dispatcher.Wait()
}

// SetupServer собирает зависимости и возвращает готовый *http.Server.
// Воркеры стартуют на ctx и останавливаются вместе с ним.
func SetupServer(ctx context.Context, cfg *config.Config, gormDB *gorm.DB) (*http.Server, *Background) {
	store, err := storage.New(cfg)
	if err != nil {
		logger.Fatal("Failed to initialize storage", "error", err)
	}
	logger.Info("Storage initialized", "type", cfg.Storage.Type)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	repos := initializeRepositories()

	// 1. WebSocket hub - адресат in-app уведомлений
	hub := ws.NewHub()
	go hub.Run(ctx)

	// 2. Очередь уведомлений
	dispatcher := initializeDispatcher(cfg, gormDB, repos, hub, registry)
	dispatcher.Start(ctx)
	workers.NewNotificationRetryWorker(gormDB, repos.notifications, dispatcher, cfg.Notify.RetryInterval).Start(ctx)
	workers.NewTokenCleanupWorker(gormDB, repos.users, 0).Start(ctx)

	// 3. Сервисы и хэндлеры
	tokens := auth.NewTokenManager(auth.TokenConfig{
		AccessSecret:  cfg.JWT.AccessSecret,
		RefreshSecret: cfg.JWT.RefreshSecret,
		AccessTTL:     cfg.JWT.AccessTTL,
		RefreshTTL:    cfg.JWT.RefreshTTL,
		Issuer:        cfg.JWT.Issuer,
	})
	serviceContainer := initializeServices(cfg, repos, tokens, store, dispatcher)

	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Fatal("Failed to get *sql.DB from GORM", "error", err)
	}
	appHandlers := initializeHandlers(serviceContainer, sqlDB)

	// 4. Gin
	ginRouter := initializeGinRouter(cfg, gormDB, registry)
	if local, ok := store.(*storage.LocalStorage); ok {
		ginRouter.Static("/files", local.BasePath())
	}
	ginRouter.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	guards := handlers.Guards{
		Auth:      middleware.AuthMiddleware(tokens, repos.users),
		AuthLimit: middleware.RateLimit(initializeLimiter(ctx, cfg), "auth", cfg.Redis.AuthLimit, cfg.Redis.AuthWindow),
	}
	routes.RegisterRoutes(ginRouter, appHandlers, ws.NewHandler(hub, cfg.Server.CORSOrigins), guards)

	srv := &http.Server{
		Addr:              cfg.Address(),
		Handler:           otelhttp.NewHandler(ginRouter, "hireflow-http"),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return srv, &Background{dispatcher: dispatcher}
}

type repositorySet struct {
	users          repositories.UserRepository
	orgs           repositories.OrganizationRepository
	students       repositories.StudentRepository
	drives         repositories.DriveRepository
	participations repositories.ParticipationRepository
	applications   repositories.ApplicationRepository
	offers         repositories.OfferRepository
	placements     repositories.PlacementRepository
	notifications  repositories.NotificationRepository
}

func initializeRepositories() *repositorySet {
	return &repositorySet{
		users:          repositories.NewUserRepository(),
		orgs:           repositories.NewOrganizationRepository(),
		students:       repositories.NewStudentRepository(),
		drives:         repositories.NewDriveRepository(),
		participations: repositories.NewParticipationRepository(),
		applications:   repositories.NewApplicationRepository(),
		offers:         repositories.NewOfferRepository(),
		placements:     repositories.NewPlacementRepository(),
		notifications:  repositories.NewNotificationRepository(),
	}
}

func initializeDispatcher(cfg *config.Config, gormDB *gorm.DB, repos *repositorySet, hub *ws.Hub, reg prometheus.Registerer) *notify.Dispatcher {
	var sender email.Sender = email.NoopSender{}
	if cfg.EmailEnabled() {
		smtpSender, err := email.NewSMTPSender(cfg)
		if err != nil {
			logger.Fatal("Failed to initialize SMTP sender", "error", err)
		}
		sender = smtpSender
	} else {
		logger.Warn("SMTP is not configured, emails will only be logged")
	}

	templates, err := email.NewTemplateManager()
	if err != nil {
		logger.Fatal("Failed to parse email templates", "error", err)
	}

	return notify.NewDispatcher(gormDB, repos.notifications, repos.users, sender, templates, hub,
		notify.NewMetrics(reg),
		notify.Options{
			Workers:     cfg.Notify.Workers,
			QueueSize:   cfg.Notify.QueueSize,
			MaxAttempts: cfg.Notify.MaxAttempts,
			RetryBase:   cfg.Notify.RetryBase,
		},
	)
}

// initializeLimiter - без redis.url лимит отключен
func initializeLimiter(ctx context.Context, cfg *config.Config) middleware.Limiter {
	if cfg.Redis.URL == "" {
		logger.Warn("Redis is not configured, auth rate limiting disabled")
		return nil
	}
	opts, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		logger.Fatal("Invalid redis url", "error", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		// лимитер пропускает запросы, пока Redis недоступен
		logger.Warn("Redis ping failed", "error", err)
	}
	return middleware.NewRedisLimiter(client)
}

func initializeServices(
	cfg *config.Config,
	repos *repositorySet,
	tokens *auth.TokenManager,
	store storage.Storage,
	queue notify.Enqueuer,
) *services.ServiceContainer {
	notificationService := services.NewNotificationService(repos.notifications, queue)

	return &services.ServiceContainer{
		AuthService:    services.NewAuthService(repos.users, repos.students, repos.orgs, tokens),
		StudentService: services.NewStudentService(repos.students),
		DriveService:   services.NewDriveService(repos.students, repos.drives, repos.participations, repos.applications),
		ApplicationService: services.NewApplicationService(
			repos.students, repos.drives, repos.participations, repos.applications),
		OfferService: services.NewOfferService(
			repos.users, repos.students, repos.offers, repos.applications, notificationService),
		CollegeService: services.NewCollegeService(
			repos.users, repos.orgs, repos.students, repos.drives, repos.participations,
			repos.applications, repos.placements, notificationService),
		PlacementService: services.NewPlacementService(repos.users, repos.applications, repos.placements),
		CompanyService: services.NewCompanyService(
			repos.users, repos.orgs, repos.drives, repos.participations, repos.applications,
			repos.offers, notificationService),
		RecruitmentService: services.NewRecruitmentService(
			repos.users, repos.drives, repos.applications, repos.offers, notificationService),
		NotificationService: notificationService,
		UploadService: services.NewUploadService(
			repos.users, repos.students, repos.drives, store, services.NewUploadConfig(cfg)),
	}
}

func initializeHandlers(services *services.ServiceContainer, pinger handlers.Pinger) *handlers.AppHandlers {
	baseHandler := handlers.NewBaseHandler(validator.New())

	return &handlers.AppHandlers{
		AuthHandler:         handlers.NewAuthHandler(baseHandler, services.AuthService),
		StudentHandler:      handlers.NewStudentHandler(baseHandler, services.StudentService, services.UploadService),
		DriveHandler:        handlers.NewDriveHandler(baseHandler, services.DriveService),
		ApplicationHandler:  handlers.NewApplicationHandler(baseHandler, services.ApplicationService),
		OfferHandler:        handlers.NewOfferHandler(baseHandler, services.OfferService),
		CollegeHandler:      handlers.NewCollegeHandler(baseHandler, services.CollegeService),
		PlacementHandler:    handlers.NewPlacementHandler(baseHandler, services.PlacementService),
		CompanyHandler:      handlers.NewCompanyHandler(baseHandler, services.CompanyService, services.RecruitmentService, services.UploadService),
		NotificationHandler: handlers.NewNotificationHandler(baseHandler, services.NotificationService),
		HealthHandler:       handlers.NewHealthHandler(pinger),
	}
}

func initializeGinRouter(cfg *config.Config, db *gorm.DB, reg prometheus.Registerer) *gin.Engine {
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	metrics, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		logger.Fatal("Failed to register HTTP metrics", "error", err)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORSMiddleware(cfg.Server.CORSOrigins))
	router.Use(metrics.Handler())
	router.Use(middleware.DBMiddleware(db))
	return router
}
