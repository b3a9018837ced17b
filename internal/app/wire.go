package app

import (
	"context"
	"fmt"
	"log/slog"

	s3blob "github.com/pairdesk/pairtrader/internal/blob/s3"
	"github.com/pairdesk/pairtrader/internal/cache/redis"
	"github.com/pairdesk/pairtrader/internal/config"
	"github.com/pairdesk/pairtrader/internal/domain"
	"github.com/pairdesk/pairtrader/internal/notify"
	"github.com/pairdesk/pairtrader/internal/platform/yahoo"
	"github.com/pairdesk/pairtrader/internal/service"
	"github.com/pairdesk/pairtrader/internal/store/postgres"
)

// Dependencies bundles every concrete dependency the application modes need.
// It is constructed by Wire and torn down by the returned cleanup function.
type Dependencies struct {
	// Stores
	TxStore domain.TransactionStore

	// Caches
	SeriesCache domain.PairSeriesCache
	QuoteCache  domain.QuoteCache

	// Blob storage (nil unless s3.enabled)
	BlobWriter domain.BlobWriter
	BlobReader domain.BlobReader

	// Services
	Pairs  *service.PairService
	Ledger *service.LedgerService

	// Notifications
	Notifier *notify.Notifier
}

// Wire constructs all concrete dependency implementations from the given
// configuration and returns them together with a cleanup function that should
// be called on shutdown to release resources.
func Wire(ctx context.Context, cfg *config.Config) (*Dependencies, func(), error) {
	logger := slog.Default()

	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	deps := &Dependencies{}

	// --- PostgreSQL: the transaction log backs every mode ---
	pgClient, err := postgres.New(ctx, postgres.ClientConfig{
		DSN:      cfg.Postgres.DSN,
		Host:     cfg.Postgres.Host,
		Port:     cfg.Postgres.Port,
		Database: cfg.Postgres.Database,
		User:     cfg.Postgres.User,
		Password: cfg.Postgres.Password,
		SSLMode:  cfg.Postgres.SSLMode,
		MaxConns: cfg.Postgres.PoolMaxConns,
		MinConns: cfg.Postgres.PoolMinConns,
	})
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("wire: postgres: %w", err)
	}
	closers = append(closers, pgClient.Close)

	if cfg.Postgres.RunMigrations {
		if err := pgClient.RunMigrations(ctx); err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: postgres migrations: %w", err)
		}
	}

	deps.TxStore = postgres.NewTransactionStore(pgClient.Pool())

	// --- Redis ---
	redisClient, err := redis.New(ctx, redis.ClientConfig{
		Addr:       cfg.Redis.Addr,
		Password:   cfg.Redis.Password,
		DB:         cfg.Redis.DB,
		PoolSize:   cfg.Redis.PoolSize,
		MaxRetries: cfg.Redis.MaxRetries,
		TLSEnabled: cfg.Redis.TLSEnabled,
	})
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("wire: redis: %w", err)
	}
	closers = append(closers, func() { _ = redisClient.Close() })

	ttl := cfg.Redis.CacheTTL.Duration
	deps.SeriesCache = redis.NewPairSeriesCache(redisClient, ttl)
	deps.QuoteCache = redis.NewQuoteCache(redisClient, ttl)

	// --- S3 blob storage (archive and legacy import, optional) ---
	var (
		archiver service.Archiver
		importer service.Importer
	)
	if cfg.S3.Enabled {
		s3Client, err := s3blob.New(ctx, s3blob.ClientConfig{
			Endpoint:       cfg.S3.Endpoint,
			Region:         cfg.S3.Region,
			Bucket:         cfg.S3.Bucket,
			AccessKey:      cfg.S3.AccessKey,
			SecretKey:      cfg.S3.SecretKey,
			UseSSL:         cfg.S3.UseSSL,
			ForcePathStyle: cfg.S3.ForcePathStyle,
		})
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: s3: %w", err)
		}
		closers = append(closers, func() { _ = s3Client.Close() })

		deps.BlobWriter = s3blob.NewWriter(s3Client)
		deps.BlobReader = s3blob.NewReader(s3Client)
		archiver = s3blob.NewLedgerArchiver(deps.BlobWriter, deps.TxStore)
		importer = s3blob.NewLegacyImporter(deps.BlobReader, deps.TxStore)
	}

	// --- Market data feed ---
	feed := yahoo.NewClient("")

	// --- Services ---
	deps.Pairs = service.NewPairService(
		feed, deps.SeriesCache, deps.QuoteCache,
		cfg.Pair, cfg.Strategy, logger.With(slog.String("component", "pair_service")),
	)
	deps.Ledger = service.NewLedgerService(
		deps.TxStore, archiver, importer,
		logger.With(slog.String("component", "ledger_service")),
	)

	// --- Notifications ---
	var senders []notify.Sender
	if cfg.Notify.TelegramToken != "" && cfg.Notify.TelegramChatID != "" {
		senders = append(senders, notify.NewTelegramSender(
			cfg.Notify.TelegramToken,
			cfg.Notify.TelegramChatID,
		))
	}
	if cfg.Notify.DiscordWebhookURL != "" {
		senders = append(senders, notify.NewDiscordSender(cfg.Notify.DiscordWebhookURL))
	}
	deps.Notifier = notify.NewNotifier(senders, cfg.Notify.Events, logger)

	return deps, cleanup, nil
}
