package main

import (
	"context"
	"fmt"

	"github.com/septivank/fleet-admin-api/internal/config"
	"github.com/septivank/fleet-admin-api/internal/db"
	"github.com/septivank/fleet-admin-api/internal/httpapi"
	"github.com/septivank/fleet-admin-api/internal/mq"
	"github.com/septivank/fleet-admin-api/internal/repository"
	"github.com/septivank/fleet-admin-api/internal/service"
	"github.com/septivank/fleet-admin-api/tools/civiltime"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Stores groups the storage backends handed to the services
type Stores struct {
	fx.Out

	Thresholds service.ThresholdStore
	Devices    service.DeviceStore
	Customers  service.CustomerStore
	Pinger     httpapi.Pinger
}

// ProvideStores picks the Postgres repositories, or the in-memory store when
// DB_ENABLED=false
func ProvideStores(lc fx.Lifecycle, logger *zap.Logger, cfg *config.Config) (Stores, error) {
	if !cfg.Database.Enabled {
		store, err := newMemoryStore(logger, cfg.Database)
		if err != nil {
			return Stores{}, err
		}
		return Stores{Thresholds: store, Devices: store, Customers: store, Pinger: store}, nil
	}

	pool, err := db.NewPool(lc, logger, cfg.Database.URL, cfg.Database.MaxConns)
	if err != nil {
		return Stores{}, err
	}

	devices := repository.NewDeviceRepository(pool)
	return Stores{
		Thresholds: repository.NewThresholdRepository(pool),
		Devices:    devices,
		Customers:  devices,
		Pinger:     devices,
	}, nil
}

func newMemoryStore(logger *zap.Logger, cfg config.DatabaseConfig) (*repository.MemoryStore, error) {
	seed, err := repository.ParseSeedUsers(cfg.MemorySeedUsers)
	if err != nil {
		return nil, fmt.Errorf("failed to parse MEMORY_SEED_USERS: %w", err)
	}

	opts := []repository.MemoryOption{repository.WithCustomers(seed...)}
	if cfg.MemoryAutoCustomers {
		opts = append(opts, repository.WithAutoCustomers())
	}

	logger.Warn("database disabled, serving from the in-memory store; data is lost on restart",
		zap.Int("seed_users", len(seed)),
		zap.Bool("auto_customers", cfg.MemoryAutoCustomers),
	)
	return repository.NewMemoryStore(opts...), nil
}

// ProvidePublisher connects the audit event publisher, or a no-op one when
// RABBITMQ_URL is empty
func ProvidePublisher(lc fx.Lifecycle, logger *zap.Logger, cfg *config.Config) (service.EventPublisher, error) {
	if cfg.RabbitMQ.URL == "" {
		logger.Info("RABBITMQ_URL not set, admin events disabled")
		return mq.NewNopPublisher(logger), nil
	}

	conn, err := mq.NewConnection(lc, logger, cfg.RabbitMQ.URL)
	if err != nil {
		return nil, err
	}

	publisher, err := mq.NewPublisher(conn, cfg.RabbitMQ.AdminExchange, logger)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return publisher.Close()
		},
	})

	return publisher, nil
}

// ProvideClock creates the civil clock timestamps are written with
func ProvideClock(cfg *config.Config) (*civiltime.Clock, error) {
	return civiltime.NewClock(cfg.API.Timezone)
}

// ProvideStatusCodes selects the response contract
func ProvideStatusCodes(cfg *config.Config) httpapi.StatusCodes {
	return httpapi.StatusCodesFor(cfg.API.LegacyStatusCodes)
}
