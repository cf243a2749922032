package app

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/kinfolkhq/kinfolk-backend/internal/db"
	httpx "github.com/kinfolkhq/kinfolk-backend/internal/http"
	httpMW "github.com/kinfolkhq/kinfolk-backend/internal/http/middleware"
	"github.com/kinfolkhq/kinfolk-backend/internal/platform/envutil"
	"github.com/kinfolkhq/kinfolk-backend/internal/platform/logger"
)

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Router   *gin.Engine
	Cfg      Config
	Clients  Clients
	Repos    Repos
	Services Services

	cancel context.CancelFunc
}

func New() (*App, error) {
	log, err := logger.New(envutil.Str("LOG_MODE", "development"))
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	log.Info("Loading environment variables...")
	cfg := LoadConfig(log)

	pg, err := db.NewPostgresService(log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init postgres: %w", err)
	}
	if err := pg.AutoMigrateAll(); err != nil {
		log.Sync()
		return nil, fmt.Errorf("postgres automigrate: %w", err)
	}
	theDB := pg.DB()

	clientset := wireClients(log)
	reposet := wireRepos(theDB, log)

	serviceset, err := wireServices(log, cfg, clientset, reposet)
	if err != nil {
		log.Sync()
		return nil, err
	}

	handlerset := wireHandlers(log, serviceset)

	router := httpx.NewRouter(httpx.RouterConfig{
		AuthMiddleware: httpMW.NewAuthMiddleware(log, cfg.JWTSecretKey),
		Metrics:        serviceset.Metrics,
		AllowedOrigins: cfg.AllowedOrigins,
		ContentHandler: handlerset.Content,
		HealthHandler:  handlerset.Health,
		MetricsHandler: handlerset.Metrics,
	})

	return &App{
		Log:      log,
		DB:       theDB,
		Router:   router,
		Cfg:      cfg,
		Clients:  clientset,
		Repos:    reposet,
		Services: serviceset,
	}, nil
}

// Start launches background work: initial pool fills (must not block or
// fail startup) and the reconciliation scheduler.
func (a *App) Start() {
	if a == nil || a.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel

	go a.Services.QuestionReconciler.EnsureMinimum(ctx)
	go a.Services.TodoReconciler.EnsureMinimum(ctx)

	a.Services.Scheduler.Start()
}

func (a *App) Run(addr string) error {
	if a == nil || a.Router == nil {
		return fmt.Errorf("app not initialized")
	}
	return a.Router.Run(addr)
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.Services.Scheduler != nil {
		a.Services.Scheduler.Stop()
	}
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	if a.Clients.Redis != nil {
		_ = a.Clients.Redis.Close()
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
