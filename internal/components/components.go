package components

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/Dibyajyoti630/RedZone/internal/api"
	"github.com/Dibyajyoti630/RedZone/internal/config"
	"github.com/Dibyajyoti630/RedZone/internal/notify"
	"github.com/Dibyajyoti630/RedZone/internal/observability"
	"github.com/Dibyajyoti630/RedZone/internal/redis"
	"github.com/Dibyajyoti630/RedZone/internal/service"
	"github.com/Dibyajyoti630/RedZone/internal/sms"
	"github.com/Dibyajyoti630/RedZone/internal/storage/postgres"
	"github.com/Dibyajyoti630/RedZone/pkg/logger"

	"github.com/jonboulle/clockwork"
)

type Components struct {
	logger     *slog.Logger
	HttpServer *api.Server
	Postgres   *postgres.Postgres
	Redis      *redis.Redis
	Dispatcher *notify.Dispatcher
}

func InitComponents(ctx context.Context, cfg *config.Config, log *slog.Logger) (*Components, error) {
	log.Info("initializing postgres")
	storage, err := postgres.NewPostgres(ctx, cfg, log)
	if err != nil {
		log.Error("failed to init postgres", slog.Any("error", err))
		return nil, fmt.Errorf("failed to init postgres: %w", err)
	}

	log.Info("initializing redis")
	redisClient, err := redis.NewRedis(ctx, cfg, log)
	if err != nil {
		return nil, fmt.Errorf("failed to init redis: %w", err)
	}

	queue := redis.NewNotifyQueue(redisClient.Client, cfg.Notify.QueueKey)
	zoneCache := redis.NewZoneCache(redisClient)
	metrics := observability.NewMetrics()

	var provider sms.Provider
	if cfg.SMSEnabled() {
		provider = sms.NewTwilio(log, cfg.SMS)
	} else {
		log.Warn("sms credentials missing or disabled, running in simulated mode")
		provider = sms.NewSimulated(log)
	}

	fanout := notify.NewFanout(log, provider, metrics, cfg.Notify.Workers, cfg.Notify.CountryPrefix)
	dispatcher := notify.NewDispatcher(log, queue, fanout, cfg.Notify.PopTimeout)

	clock := clockwork.NewRealClock()
	zoneSvc := service.NewZoneService(storage.Zones(), storage.Contacts(), queue, zoneCache, log, clock)
	moderationSvc := service.NewModerationService(storage.Zones(), storage.Contacts(), queue, zoneCache, metrics, log, clock)
	contactSvc := service.NewContactService(storage.Contacts(), log, clock, cfg.Notify.CountryPrefix)
	proximitySvc := service.NewProximityService(storage.Zones(), zoneCache, metrics, log)

	srv := service.NewService(zoneSvc, moderationSvc, contactSvc, proximitySvc)

	httpServer := api.NewServer(cfg, log, srv)
	log.Info("initialized server")

	return &Components{
		logger:     log,
		HttpServer: httpServer,
		Postgres:   storage,
		Redis:      redisClient,
		Dispatcher: dispatcher,
	}, nil
}

func SetupLogger(env string) *slog.Logger {
	switch env {
	case "local":
		return logger.SetupPrettySlog()
	case "dev":
		return slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelDebug,
			}),
		)
	default:
		return slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelInfo,
			}),
		)
	}
}

func (c *Components) ShutdownAll() {
	start := time.Now()
	c.logger.Info("component shutdown started")

	c.Postgres.Pool.Close()
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			c.logger.Error("redis close failed", slog.String("err", err.Error()))
		}
	}

	c.logger.Info("all components stopped",
		slog.Duration("latency", time.Since(start)))
}
