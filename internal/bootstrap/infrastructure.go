// Package bootstrap собирает зависимости для бинарников niche-dashboard и niche-sync.
package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"github.com/paradoxie/niche-dashboard/internal/application/port"
	"github.com/paradoxie/niche-dashboard/internal/domain/repository"
	rediscache "github.com/paradoxie/niche-dashboard/internal/infrastructure/cache/redis"
	natspub "github.com/paradoxie/niche-dashboard/internal/infrastructure/messaging/nats"
	"github.com/paradoxie/niche-dashboard/internal/infrastructure/observability/cloudwatch"
	"github.com/paradoxie/niche-dashboard/internal/infrastructure/persistence/memory"
	"github.com/paradoxie/niche-dashboard/internal/infrastructure/persistence/postgres"
	s3storage "github.com/paradoxie/niche-dashboard/internal/infrastructure/storage/s3"
	"github.com/paradoxie/niche-dashboard/pkg/config"
	"github.com/paradoxie/niche-dashboard/pkg/logger"
)

// Pinger - зависимость для /readyz
type Pinger interface {
	Ping(ctx context.Context) error
}

// Infrastructure - хранилище и необязательные адаптеры.
// Отключенный адаптер остается nil-интерфейсом, а не typed nil.
type Infrastructure struct {
	Store   repository.Store
	Cache   port.Cache
	Events  port.EventPublisher
	Backups port.BackupStorage
	Metrics port.MetricsPublisher

	Pingers map[string]Pinger

	cloudWatch *cloudwatch.MetricsPublisher
	closers    []func() error
	log        *logger.Logger
}

// Open подключает хранилище и включенные в конфигурации адаптеры.
// Ошибка обязательной зависимости (БД) возвращается; необязательные только логируются как Warn.
func Open(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Infrastructure, error) {
	infra := &Infrastructure{
		Pingers: make(map[string]Pinger),
		log:     log,
	}

	store, err := openStore(ctx, cfg.Database, log)
	if err != nil {
		return nil, err
	}
	infra.Store = store
	infra.Pingers["database"] = store
	infra.closers = append(infra.closers, store.Close)

	if cfg.Redis.Enabled {
		cache, err := rediscache.NewRedisCache(ctx, cfg.Redis)
		if err != nil {
			log.Warn("Redis unavailable, analytics cache disabled", "error", err)
		} else {
			infra.Cache = cache
			infra.Pingers["redis"] = cache
			infra.closers = append(infra.closers, cache.Close)
			log.Info("Redis cache connected", "host", cfg.Redis.Host, "ttl", cfg.Redis.TTL.String())
		}
	}

	if cfg.NATS.Enabled {
		publisher, err := natspub.NewNATSPublisher(cfg.NATS, log)
		if err != nil {
			log.Warn("NATS unavailable, events disabled", "error", err)
		} else {
			infra.Events = publisher
			infra.Pingers["nats"] = publisher
			infra.closers = append(infra.closers, publisher.Close)
		}
	}

	if cfg.S3.Enabled {
		backups, err := s3storage.NewBackupStorage(ctx, cfg.S3)
		if err != nil {
			_ = infra.Close(ctx)
			return nil, fmt.Errorf("failed to initialize backup storage: %w", err)
		}
		infra.Backups = backups
		log.Info("S3 backups enabled", "bucket", cfg.S3.Bucket, "prefix", cfg.S3.KeyPrefix)
	}

	if cfg.CloudWatch.Enabled {
		publisher, err := cloudwatch.NewMetricsPublisher(ctx, cfg.CloudWatch, log)
		if err != nil {
			log.Warn("CloudWatch unavailable, rollups disabled", "error", err)
		} else {
			infra.Metrics = publisher
			infra.cloudWatch = publisher
		}
	}

	return infra, nil
}

func openStore(ctx context.Context, cfg config.DatabaseConfig, log *logger.Logger) (repository.Store, error) {
	if cfg.Driver == "memory" {
		log.Warn("Using in-memory storage, data is lost on restart")
		return memory.NewStore(), nil
	}

	db, err := postgres.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if cfg.AutoMigrate {
		if err := postgres.Migrate(ctx, db); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	log.Info("Database connected successfully", "host", cfg.Host, "database", cfg.Database)
	return postgres.NewStore(db), nil
}

// Close сбрасывает буфер CloudWatch и закрывает соединения в обратном порядке
func (i *Infrastructure) Close(ctx context.Context) error {
	var errs []error
	if i.cloudWatch != nil {
		if err := i.cloudWatch.Close(ctx); err != nil {
			errs = append(errs, fmt.Errorf("cloudwatch: %w", err))
		}
	}
	for idx := len(i.closers) - 1; idx >= 0; idx-- {
		if err := i.closers[idx](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
