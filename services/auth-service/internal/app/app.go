package app

import (
	"context"
	"database/sql"

	"go.uber.org/zap"

	"github.com/Brupez/EletricNET/libs/db"
	libhttp "github.com/Brupez/EletricNET/libs/httpserver"
	appconfig "github.com/Brupez/EletricNET/services/auth-service/internal/config"
	httpserver "github.com/Brupez/EletricNET/services/auth-service/internal/http"
	"github.com/Brupez/EletricNET/services/auth-service/internal/http/handlers"
	"github.com/Brupez/EletricNET/services/auth-service/internal/password"
	"github.com/Brupez/EletricNET/services/auth-service/internal/repository"
	"github.com/Brupez/EletricNET/services/auth-service/internal/service"
)

// App wires the auth service dependency graph.
type App struct {
	server *libhttp.Server
	db     *sql.DB
	logger *zap.Logger
}

// New builds the application graph.
func New(cfg *appconfig.Config, logger *zap.Logger) (*App, error) {
	sqlDB, err := db.NewPostgres(cfg.Database.DSN)
	if err != nil {
		return nil, err
	}

	userRepo := repository.NewUserRepository(sqlDB)
	hasher := password.NewBcrypt(0)
	tokens := service.NewTokenService(cfg.JWT.Secret, cfg.JWT.ExpiresIn)
	authSvc := service.NewAuthService(userRepo, hasher, tokens, logger)

	router := httpserver.NewRouter(httpserver.Routes{
		Login:    handlers.NewLoginHandler(authSvc),
		Register: handlers.NewRegisterHandler(authSvc),
		Health:   libhttp.NewHealthHandler(),
	})

	server := libhttp.NewServer(
		cfg.HTTPAddress(),
		router,
		logger,
		libhttp.Recovery(logger),
		libhttp.Logging(logger),
	)

	return &App{server: server, db: sqlDB, logger: logger}, nil
}

// Run serves HTTP traffic until the context is cancelled.
func (a *App) Run(ctx context.Context) error {
	return a.server.Run(ctx)
}

// Close releases acquired resources.
func (a *App) Close() {
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Warn("failed to close db", zap.Error(err))
		}
	}
}
