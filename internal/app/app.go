// Package app initializes and holds the long-lived application services,
// acting as the dependency injection container for the crawler.
package app

import (
	"context"
	"fmt"

	pubsub "cloud.google.com/go/pubsub/v2"
	gcstorage "cloud.google.com/go/storage"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/goodwatch/goodwatch-crawler/internal/archive"
	archivegcs "github.com/goodwatch/goodwatch-crawler/internal/archive/gcs"
	"github.com/goodwatch/goodwatch-crawler/internal/config"
	"github.com/goodwatch/goodwatch-crawler/internal/datasource"
	"github.com/goodwatch/goodwatch-crawler/internal/db"
	"github.com/goodwatch/goodwatch-crawler/internal/ingest"
	"github.com/goodwatch/goodwatch-crawler/internal/logging"
	"github.com/goodwatch/goodwatch-crawler/internal/metrics"
	"github.com/goodwatch/goodwatch-crawler/internal/ops"
	"github.com/goodwatch/goodwatch-crawler/internal/publisher"
	publisherpubsub "github.com/goodwatch/goodwatch-crawler/internal/publisher/pubsub"
	"github.com/goodwatch/goodwatch-crawler/internal/scheduler"
	"github.com/goodwatch/goodwatch-crawler/internal/tmdb"
)

// App holds all shared, long-lived services. It is built once at startup
// and handed to the commands that need it.
type App struct {
	Config    config.Config
	Logger    *zap.Logger
	Pool      *pgxpool.Pool
	Scheduler *scheduler.Scheduler
	Sources   []datasource.DataSource
	Ops       *ops.Server

	pubsubClient  *pubsub.Client
	storageClient *gcstorage.Client
}

// New builds the App from configuration, failing fast when a critical
// service cannot be initialized.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	logger, err := logging.New(cfg.Logging.Development)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	metrics.Init()

	pool, err := db.NewPool(ctx, db.PoolConfig{
		DSN:             cfg.DB.DSN,
		MaxConns:        int32(cfg.DB.MaxConns),
		MinConns:        int32(cfg.DB.MinConns),
		MaxConnLifetime: cfg.ConnLifetime(),
	})
	if err != nil {
		return nil, fmt.Errorf("init postgres pool: %w", err)
	}

	archiveStore, storageClient, err := buildArchive(ctx, cfg, logger)
	if err != nil {
		pool.Close()
		return nil, err
	}
	events, pubsubClient, err := buildPublisher(ctx, cfg, logger)
	if err != nil {
		pool.Close()
		return nil, err
	}

	runner := db.NewTxRunner(pool, logger)
	saver := ingest.NewSaver(pool, runner, logger)
	status := datasource.NewStatusStore(pool)
	selector := datasource.NewSelector(pool)
	client := tmdb.NewClient(tmdb.Config{
		APIKey:            cfg.TMDB.APIKey,
		BaseURL:           cfg.TMDB.BaseURL,
		Timeout:           cfg.TMDBTimeout(),
		RequestsPerSecond: cfg.TMDB.RequestsPerSecond,
		Burst:             cfg.TMDB.Burst,
	}, logger)

	details := ingest.NewTMDBDetails(client, saver, status, archiveStore, events, logger)

	return &App{
		Config:        cfg,
		Logger:        logger,
		Pool:          pool,
		Scheduler:     scheduler.New(selector, logger),
		Sources:       []datasource.DataSource{details},
		Ops:           ops.NewServer(pool, pool, logger),
		pubsubClient:  pubsubClient,
		storageClient: storageClient,
	}, nil
}

func buildArchive(ctx context.Context, cfg config.Config, logger *zap.Logger) (archive.Store, *gcstorage.Client, error) {
	switch cfg.Archive.Provider {
	case "gcs":
		client, err := gcstorage.NewClient(ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("init gcs client: %w", err)
		}
		store, err := archivegcs.New(client, archivegcs.Config{Bucket: cfg.Archive.GCSBucket})
		if err != nil {
			return nil, nil, fmt.Errorf("init gcs archive: %w", err)
		}
		logger.Info("raw payloads archived to gcs", zap.String("bucket", cfg.Archive.GCSBucket))
		return store, client, nil
	default:
		logger.Info("payload archive disabled")
		return archive.Noop{}, nil, nil
	}
}

func buildPublisher(ctx context.Context, cfg config.Config, logger *zap.Logger) (publisher.Publisher, *pubsub.Client, error) {
	if cfg.PubSub.ProjectID == "" {
		logger.Info("event publishing disabled")
		return publisher.Noop{}, nil, nil
	}
	client, err := pubsub.NewClient(ctx, cfg.PubSub.ProjectID)
	if err != nil {
		return nil, nil, fmt.Errorf("init pubsub client: %w", err)
	}
	logger.Info("crawl events published to pubsub", zap.String("topic", cfg.PubSub.TopicName))
	return publisherpubsub.New(client.Publisher(cfg.PubSub.TopicName), cfg.PubSub.TopicName), client, nil
}

// Close shuts down every service the App owns. Best effort; shutdown
// errors are logged, not returned.
func (a *App) Close() {
	a.Logger.Info("shutting down application services")
	if a.pubsubClient != nil {
		if err := a.pubsubClient.Close(); err != nil {
			a.Logger.Warn("close pubsub client", zap.Error(err))
		}
	}
	if a.storageClient != nil {
		if err := a.storageClient.Close(); err != nil {
			a.Logger.Warn("close storage client", zap.Error(err))
		}
	}
	a.Pool.Close()
	_ = a.Logger.Sync()
}
