package app

import (
	"context"
	"database/sql"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/Brupez/EletricNET/libs/db"
	libhttp "github.com/Brupez/EletricNET/libs/httpserver"
	appconfig "github.com/Brupez/EletricNET/services/booking-service/internal/config"
	httpserver "github.com/Brupez/EletricNET/services/booking-service/internal/http"
	"github.com/Brupez/EletricNET/services/booking-service/internal/http/handlers"
	"github.com/Brupez/EletricNET/services/booking-service/internal/metrics"
	"github.com/Brupez/EletricNET/services/booking-service/internal/repository"
	"github.com/Brupez/EletricNET/services/booking-service/internal/service"
)

// App wires the booking service dependency graph.
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

	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	stationRepo := repository.NewStationRepository(sqlDB)
	slotRepo := repository.NewSlotRepository(sqlDB)
	reservationRepo := repository.NewReservationRepository(sqlDB)

	slotSvc := service.NewSlotService(slotRepo, stationRepo, logger)
	reservationSvc := service.NewReservationService(reservationRepo, slotRepo, collector, logger)

	router := httpserver.NewRouter(httpserver.RouterDeps{
		Slots:        handlers.NewSlotHandlers(slotSvc, logger),
		Reservations: handlers.NewReservationHandlers(reservationSvc, logger),
		Metrics:      metrics.Handler(registry),
		Health:       libhttp.NewHealthHandler(),
		JWTSecret:    cfg.JWT.Secret,
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
