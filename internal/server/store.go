package server

import (
	"context"
	"fmt"
	"io"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"join/internal/config"
	"join/internal/firebase"
	"join/internal/migrations"
	"join/internal/repository"
)

// Backend is the opened collection store plus whatever must be closed on
// shutdown.
type Backend struct {
	Store   repository.CollectionStore
	closers []io.Closer
}

func (b *Backend) Close() error {
	var first error
	for i := len(b.closers) - 1; i >= 0; i-- {
		if err := b.closers[i].Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// OpenBackend connects the store selected by STORE_BACKEND and wraps it in
// the Redis cache when REDIS_URL is set.
func OpenBackend(ctx context.Context, cfg *config.Config) (*Backend, error) {
	b := &Backend{}

	switch cfg.StoreBackend {
	case config.BackendFirebase:
		opts := []firebase.Option{firebase.WithTimeout(cfg.HTTPTimeout)}
		if cfg.FirebaseAuth != "" {
			opts = append(opts, firebase.WithAuth(cfg.FirebaseAuth))
		}
		b.Store = firebase.New(cfg.FirebaseURL, opts...)
		log.WithField("url", cfg.FirebaseURL).Info("✅ Using Firebase Realtime Database")

	case config.BackendPostgres:
		dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName,
		)
		db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
		if err != nil {
			return nil, fmt.Errorf("❌ failed to connect to DB: %w", err)
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("❌ failed to get DB handle: %w", err)
		}
		b.closers = append(b.closers, sqlDB)
		if err := migrations.Up(sqlDB); err != nil {
			_ = b.Close()
			return nil, fmt.Errorf("❌ migrations failed: %w", err)
		}
		b.Store = repository.NewSQLCollectionStore(db)
		log.Info("✅ Connected to database")

	case config.BackendMemory:
		b.Store = repository.NewMemoryStore()
		log.Warn("⚠️  Using in-memory store, data is lost on restart")

	default:
		return nil, fmt.Errorf("unknown STORE_BACKEND %q", cfg.StoreBackend)
	}

	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			_ = b.Close()
			return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
		}
		rc := redis.NewClient(opts)
		if err := rc.Ping(ctx).Err(); err != nil {
			log.WithError(err).Warn("⚠️  Redis unreachable, running without cache")
			_ = rc.Close()
		} else {
			b.closers = append(b.closers, rc)
			b.Store = repository.NewCachedCollectionStore(b.Store, rc, cfg.CacheTTL)
			log.Info("✅ Redis cache enabled")
		}
	}

	return b, nil
}
