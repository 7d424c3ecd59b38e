package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"time"
	"tumotrack/pkg/storage"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// Options defines the configuration parameters for PostgreSQL database connection.
type Options struct {
	// Username is the PostgreSQL user to connect as
	Username string
	// Password is the password for the specified user
	Password string
	// Host is the PostgreSQL server hostname or IP address
	Host string
	// SslMode specifies the SSL mode for the connection (e.g., "disable", "require")
	SslMode string
	// Port is the PostgreSQL server port number
	Port int
	// Database is the name of the database to connect to
	Database string
	// ConnMaxLifetime is the maximum amount of time a connection may be reused
	ConnMaxLifetime time.Duration
	// ConnMaxIdleTime is the maximum amount of time a connection may be idle
	ConnMaxIdleTime time.Duration
	// MaxOpenConnections is the maximum number of open connections to the database
	MaxOpenConnections int
	// MaxIdleConnections is the maximum number of connections in the idle connection pool
	MaxIdleConnections int
}

// PgSQL is the PostgreSQL prediction journal, built on database/sql and goqu.
type PgSQL struct {
	// DB is the database/sql view of Pool, used by goqu and goose.
	DB *sql.DB
	// Builder constructs queries bound to DB.
	Builder *goqu.Database
	// Pool is the underlying pgx connection pool.
	Pool *pgxpool.Pool
}

var _ storage.PredictionStorage = (*PgSQL)(nil)

// Close closes the database/sql wrapper and the pgx pool beneath it.
func (p *PgSQL) Close() error {
	var err error
	if p.DB != nil {
		err = p.DB.Close()
	}
	if p.Pool != nil {
		p.Pool.Close()
	}
	if err != nil {
		return fmt.Errorf("could not close db: %w", err)
	}

	return nil
}

// Migrate applies the goose migrations found in dir of fsys and returns the
// resulting schema version.
func (p *PgSQL) Migrate(ctx context.Context, fsys fs.FS, dir string) (int64, error) {
	goose.SetBaseFS(fsys)
	if err := goose.SetDialect("postgres"); err != nil {
		return 0, fmt.Errorf("could not set goose dialect to postgres: %w", err)
	}
	if err := goose.UpContext(ctx, p.DB, dir); err != nil {
		return 0, fmt.Errorf("could not apply migrations: %w", err)
	}

	version, err := goose.GetDBVersionContext(ctx, p.DB)
	if err != nil {
		return 0, fmt.Errorf("could not read schema version: %w", err)
	}

	return version, nil
}

// New connects to PostgreSQL through a pgx pool and wraps it for goqu and goose.
func New(ctx context.Context, options Options) (*PgSQL, error) {
	connStr := fmt.Sprintf("host=%s port=%d user=%s dbname=%s password=%s sslmode=%s",
		options.Host,
		options.Port,
		options.Username,
		options.Database,
		options.Password,
		options.SslMode)
	cfg, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		return nil, fmt.Errorf("could not parse pgxpool config: %w", err)
	}
	if options.MaxOpenConnections > 0 {
		cfg.MaxConns = int32(options.MaxOpenConnections) //nolint: gosec
	}
	if options.MaxIdleConnections > 0 {
		cfg.MinConns = int32(options.MaxIdleConnections) //nolint: gosec
	}
	if options.ConnMaxLifetime > 0 {
		cfg.MaxConnLifetime = options.ConnMaxLifetime
	}
	if options.ConnMaxIdleTime > 0 {
		cfg.MaxConnIdleTime = options.ConnMaxIdleTime
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("could not create pgx Pool: %w", err)
	}

	sqlDB := stdlib.OpenDBFromPool(pool)

	return &PgSQL{
		DB:      sqlDB,
		Builder: goqu.Dialect("postgres").DB(sqlDB),
		Pool:    pool,
	}, nil
}
