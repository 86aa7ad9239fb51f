// Package iocatalog implements the catalog Repository on PostgreSQL.
// This is an impure I/O package: schema management goes through GORM
// AutoMigrate, record operations go through a pgx connection pool.
package iocatalog

import (
	"context"
	"fmt"

	"github.com/CUAHSI-APPS/timeseries-manager/pkg/catalog"
	"github.com/CUAHSI-APPS/timeseries-manager/pkg/config"
	"github.com/jackc/pgx/v5/pgxpool"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Store implements catalog.Repository backed by PostgreSQL.
type Store struct {
	pool *pgxpool.Pool
}

// New creates a Store (without connecting).
func New() *Store {
	return &Store{}
}

// Connect establishes the connection pool to the catalog database.
func (s *Store) Connect(ctx context.Context, cfg *config.CatalogConfig) error {
	poolConfig, err := pgxpool.ParseConfig(dsn(cfg))
	if err != nil {
		return ConnectionError(cfg, err)
	}

	poolConfig.MaxConns = 10
	poolConfig.MinConns = 2

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return ConnectionError(cfg, err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return ConnectionError(cfg, err)
	}

	s.pool = pool
	return nil
}

// Close closes the connection pool.
func (s *Store) Close() error {
	if s.pool != nil {
		s.pool.Close()
		s.pool = nil
	}
	return nil
}

// Migrate creates or updates the catalog schema via GORM AutoMigrate.
// Idempotent - safe to run on every startup.
func (s *Store) Migrate(cfg *config.CatalogConfig) error {
	db, err := gorm.Open(postgres.Open(dsn(cfg)), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return MigrateError(err)
	}

	err = db.AutoMigrate(
		&catalog.TimeSeriesReference{},
		&catalog.PendingTimeseries{},
	)
	if err != nil {
		return MigrateError(err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return MigrateError(err)
	}
	return sqlDB.Close()
}

func dsn(cfg *config.CatalogConfig) string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.Database,
		cfg.SSLMode,
	)
}
