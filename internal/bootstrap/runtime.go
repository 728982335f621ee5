// Package bootstrap connects the runtime dependencies shared by the commands.
package bootstrap

import (
	"context"
	"fmt"

	"studentvoice/internal/cache"
	"studentvoice/internal/config"
	"studentvoice/internal/database"
	"studentvoice/internal/middleware"
	"studentvoice/internal/seed"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct {
	// SeedDemo fills an empty development database with demo data.
	SeedDemo bool
}

// InitRuntime connects to the database and Redis. Redis is optional: the
// returned client is nil when it cannot be reached.
func InitRuntime(cfg *config.Config, opts Options) (*gorm.DB, *redis.Client, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)
	rdb := cache.GetClient()

	if opts.SeedDemo {
		if err := seedDemo(cfg, db); err != nil {
			return nil, nil, err
		}
	}

	return db, rdb, nil
}

func seedDemo(cfg *config.Config, db *gorm.DB) error {
	if cfg.IsProduction() {
		middleware.Logger.Warn("SEED_DEMO ignored in production")
		return nil
	}
	opts := seed.DefaultOptions()
	opts.SkipIfPopulated = true
	if _, err := seed.Run(context.Background(), db, opts); err != nil {
		return fmt.Errorf("failed to seed demo data: %w", err)
	}
	return nil
}
