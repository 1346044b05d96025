package app

import (
	"net/http"
	"time"

	"clubhub/internal/config"
	"clubhub/internal/db"
	clubdomain "clubhub/internal/domain/club"
	scheduledomain "clubhub/internal/domain/schedule"
	userdomain "clubhub/internal/domain/user"
	"clubhub/internal/metrics"
	clubrepo "clubhub/internal/repository/postgres/club"
	schedulerepo "clubhub/internal/repository/postgres/schedule"
	userrepo "clubhub/internal/repository/postgres/user"
	"clubhub/internal/storage/oss"
	"clubhub/internal/transport/httpserver"
	"clubhub/internal/transport/httpserver/handler"
	"clubhub/internal/transport/httpserver/middleware"
	"clubhub/pkg/logger"
	"gorm.io/gorm"
)

type App struct {
	cfg        config.Config
	httpServer *http.Server
	db         *gorm.DB
	limiter    *middleware.RateLimiter
}

func New(log logger.Logger) (*App, error) {
	log.Info("app: loading config")
	cfg, err := config.Load(log)
	if err != nil {
		return nil, err
	}

	log.Info("app: initializing database")
	dbConn, err := db.NewPostgres(cfg.DB, log)
	if err != nil {
		return nil, err
	}

	sqlDB, err := dbConn.DB()
	if err != nil {
		return nil, err
	}

	// Migrations run over the same connection gorm uses, so DSN-based
	// and component-based configs always target one database.
	log.Info("app: applying migrations")
	if err := db.Migrate(sqlDB); err != nil {
		return nil, err
	}

	var uploads oss.Uploader
	if cfg.OSS.Endpoint != "" {
		uploads, err = oss.NewClient(cfg.OSS)
		if err != nil {
			return nil, err
		}
	} else {
		log.Warn("app: object store not configured; uploads disabled")
		uploads = oss.Disabled{}
	}

	users := userdomain.NewService(userrepo.NewPostgres(dbConn))
	clubs := clubdomain.NewService(clubrepo.NewPostgres(dbConn))
	schedules := scheduledomain.NewService(schedulerepo.NewPostgres(dbConn))

	handlers := handler.New(users, clubs, schedules, uploads, cfg.OSS.MaxUploadSize, log)
	collector := metrics.NewCollector()
	limiter := middleware.NewRateLimiter(cfg.Rate)

	log.Info("app: initializing router")
	router := httpserver.NewRouter(cfg, handlers, collector, limiter, log)

	return &App{
		cfg:        cfg,
		httpServer: httpserver.New(cfg, router),
		db:         dbConn,
		limiter:    limiter,
	}, nil
}

func (a *App) HTTPServer() *http.Server {
	return a.httpServer
}

func (a *App) ShutdownTimeout() time.Duration {
	return a.cfg.ShutdownTimeout
}

func (a *App) Close() error {
	if a.limiter != nil {
		a.limiter.Stop()
	}
	if a.db == nil {
		return nil
	}
	sqlDB, err := a.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
