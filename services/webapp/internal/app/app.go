package app

import (
	"context"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	libhttp "github.com/Brupez/EletricNET/libs/httpserver"
	libredis "github.com/Brupez/EletricNET/libs/redis"
	"github.com/Brupez/EletricNET/services/webapp/internal/clients"
	"github.com/Brupez/EletricNET/services/webapp/internal/config"
	"github.com/Brupez/EletricNET/services/webapp/internal/geo"
	httpserver "github.com/Brupez/EletricNET/services/webapp/internal/http"
	"github.com/Brupez/EletricNET/services/webapp/internal/http/handlers"
	"github.com/Brupez/EletricNET/services/webapp/internal/hub"
	"github.com/Brupez/EletricNET/services/webapp/internal/search"
	"github.com/Brupez/EletricNET/services/webapp/internal/session"
	"github.com/Brupez/EletricNET/services/webapp/internal/ws"
)

const sweepInterval = 15 * time.Minute

// App wires the webapp dependency graph.
type App struct {
	server *libhttp.Server
	hub    *hub.Hub
	redis  *goredis.Client
	logger *zap.Logger
}

// New constructs the application graph.
func New(cfg *config.Config, logger *zap.Logger) (*App, error) {
	httpClient := clients.NewDefaultHTTPClient(cfg.HTTPClient.Timeout)

	authClient := clients.NewAuthClient(cfg.Services.AuthURL, httpClient)
	inventoryClient := clients.NewInventoryClient(cfg.Services.BookingURL, httpClient)
	reservationsClient := clients.NewReservationsClient(cfg.Services.BookingURL, httpClient)
	geoClient := geo.NewClient(cfg.Geo.BaseURL, cfg.Geo.APIKey)

	decoder := session.NewJWTDecoder(cfg.JWT.Secret)
	feed := ws.NewFeed(logger)

	var redisClient *goredis.Client
	if cfg.Redis.Addr != "" {
		var err error
		redisClient, err = libredis.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return nil, err
		}
	} else {
		logger.Warn("no redis configured, web sessions will not survive restarts")
	}

	factory := func(sessionID string) (*session.Store, *search.Controller) {
		var kv session.KeyValue
		if redisClient != nil {
			kv = session.NewRedisKV(redisClient, "webapp:session:"+sessionID, cfg.Session.TTL)
		} else {
			kv = session.NewMemoryKV()
		}
		store := session.NewStore(kv, decoder, authClient, logger)
		controller := search.NewController(geoClient, inventoryClient, feed.SinkFor(sessionID), logger)
		return store, controller
	}
	sessions := hub.New(factory, cfg.Session.TTL)

	router := httpserver.NewRouter(httpserver.RouterDeps{
		Session:      handlers.NewSessionHandlers(sessions, authClient, logger),
		Search:       handlers.NewSearchHandlers(sessions, logger),
		Reservations: handlers.NewReservationsHandlers(sessions, reservationsClient, logger),
		Markers:      handlers.NewMarkersHandler(sessions, feed, cfg.HTTP.AllowedOrigin, logger),
		Health:       handlers.NewHealthHandler(),
	})

	server := libhttp.NewServer(
		cfg.HTTPAddress(),
		router,
		logger,
		libhttp.Recovery(logger),
		libhttp.Logging(logger),
	)

	return &App{
		server: server,
		hub:    sessions,
		redis:  redisClient,
		logger: logger,
	}, nil
}

// Run serves HTTP traffic until the context is cancelled.
func (a *App) Run(ctx context.Context) error {
	go a.hub.Sweep(ctx, sweepInterval)
	return a.server.Run(ctx)
}

// Close releases acquired resources.
func (a *App) Close() {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Warn("failed to close redis client", zap.Error(err))
		}
	}
}
