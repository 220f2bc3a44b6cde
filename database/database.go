package database

import (
	"context"
	"fmt"
	"time"

	"streaming-app/config"
	"streaming-app/internal/domain/accounts"
	"streaming-app/internal/domain/admins"
	"streaming-app/internal/domain/catalog"
	"streaming-app/internal/domain/library"
	"streaming-app/internal/domain/subscriptions"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	DefaultAttempts = 30
	DefaultDelay    = 2 * time.Second
)

// Dialer opens a gorm dialector. Replaced in tests.
type Dialer func(dsn string) gorm.Dialector

type Options struct {
	Attempts int
	Delay    time.Duration
	Dial     Dialer
}

// Open connects to Postgres, waiting for it to come up. The database is
// usually started next to the API, so the first attempts are expected to fail.
func Open(ctx context.Context, cfg config.DatabaseConfig, log logrus.FieldLogger, opts Options) (*gorm.DB, error) {
	if opts.Attempts <= 0 {
		opts.Attempts = DefaultAttempts
	}
	if opts.Delay <= 0 {
		opts.Delay = DefaultDelay
	}
	if opts.Dial == nil {
		opts.Dial = postgres.Open
	}

	gormCfg := &gorm.Config{
		TranslateError: true,
		Logger: logger.New(log, logger.Config{
			SlowThreshold:             500 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	}

	var lastErr error
	for attempt := 1; attempt <= opts.Attempts; attempt++ {
		db, err := gorm.Open(opts.Dial(cfg.DSN()), gormCfg)
		if err == nil {
			err = configurePool(ctx, db, cfg)
		}
		if err == nil {
			log.WithField("attempt", attempt).Info("database connected")
			return db, nil
		}
		lastErr = err
		log.WithError(err).WithField("attempt", attempt).Warn("database not ready")

		if attempt == opts.Attempts {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(opts.Delay):
		}
	}
	return nil, fmt.Errorf("database unavailable after %d attempts: %w", opts.Attempts, lastErr)
}

func configurePool(ctx context.Context, db *gorm.DB, cfg config.DatabaseConfig) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnLifetime)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		sqlDB.Close()
		return err
	}
	return nil
}

// Models lists every persisted type in dependency order.
func Models() []interface{} {
	return []interface{}{
		&subscriptions.Subscription{},
		&accounts.Account{},
		&accounts.Profile{},
		&catalog.Content{},
		&catalog.Genre{},
		&catalog.ContentGenre{},
		&catalog.MediaFile{},
		&catalog.Season{},
		&catalog.Episode{},
		&library.WishlistEntry{},
		&library.ViewingHistory{},
		&admins.Admin{},
	}
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}

func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
