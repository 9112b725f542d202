package store

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"database/sql"
	"embed"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/globelend/waitlist-manager/internal/dependency"
	"github.com/jmoiron/sqlx"
	migrate "github.com/rubenv/sql-migrate"
)

// DefaultQueryTimeout bounds every store call so an unreachable database
// surfaces as unavailable instead of hanging the request.
const DefaultQueryTimeout = 5 * time.Second

const (
	tlsConfigName  = "custom"
	pingTimeout    = 10 * time.Second
	migrateTimeout = 5 * time.Minute
)

// Config defines configurations to connect database
type Config struct {
	DSN                string        `mapstructure:"dsn"`
	Automigrate        bool          `mapstructure:"automigrate"`
	MaxOpenConnections int           `mapstructure:"max_open_connections"`
	MaxIdleConnections int           `mapstructure:"max_idle_connections"`
	TLSCAPath          string        `mapstructure:"tls_ca_path"`
	QueryTimeout       time.Duration `mapstructure:"query_timeout"`
}

// MYSQLStore is the waitlist entry store on MySQL.
type MYSQLStore struct {
	db           dependency.DB
	queryTimeout time.Duration
	now          func() time.Time
	close        func()
}

// registerTLSConfig makes tls=custom in the DSN verify the server against
// the configured CA bundle.
func registerTLSConfig(caPath string) error {
	if caPath == "" {
		return nil
	}
	pem, err := os.ReadFile(caPath)
	if err != nil {
		return fmt.Errorf("read CA bundle %s: %w", caPath, err)
	}
	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(pem) {
		return fmt.Errorf("no certificates in CA bundle %s", caPath)
	}
	return mysql.RegisterTLSConfig(tlsConfigName, &tls.Config{RootCAs: pool})
}

// New opens the connection pool, optionally applies migrations and returns
// the store.
func New(ctx context.Context, cfg Config) (*MYSQLStore, error) {
	if err := registerTLSConfig(cfg.TLSCAPath); err != nil {
		return nil, err
	}

	d, err := sqlx.Open("mysql", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("open mysql: %w", err)
	}
	if cfg.MaxOpenConnections > 0 {
		d.SetMaxOpenConns(cfg.MaxOpenConnections)
	}
	if cfg.MaxIdleConnections > 0 {
		d.SetMaxIdleConns(cfg.MaxIdleConnections)
	}
	d.SetConnMaxLifetime(2 * time.Minute)
	d.SetConnMaxIdleTime(30 * time.Second)

	if err := prepare(ctx, d, cfg); err != nil {
		d.Close()
		return nil, err
	}

	ms := NewWithDB(d, cfg)
	ms.close = func() {
		if err := d.Close(); err != nil {
			slog.Default().Error("close mysql", slog.String("err", err.Error()))
		}
	}
	return ms, nil
}

func prepare(ctx context.Context, d *sqlx.DB, cfg Config) error {
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := d.PingContext(pingCtx); err != nil {
		return fmt.Errorf("ping mysql: %w", err)
	}
	if !cfg.Automigrate {
		return nil
	}

	slog.Default().InfoContext(ctx, "applying migrations")
	migrateCtx, cancel := context.WithTimeout(ctx, migrateTimeout)
	defer cancel()
	return MigrateWithContext(migrateCtx, d.DB)
}

// NewWithDB wraps an already opened database handle.
func NewWithDB(db dependency.DB, cfg Config) *MYSQLStore {
	timeout := cfg.QueryTimeout
	if timeout <= 0 {
		timeout = DefaultQueryTimeout
	}
	return &MYSQLStore{
		db:           db,
		queryTimeout: timeout,
		now:          time.Now,
		close:        func() {},
	}
}

//go:embed sql
var migrations embed.FS

// MigrateWithContext applies the embedded migrations. sql-migrate has no
// context support so the run is abandoned, not cancelled, when ctx expires.
func MigrateWithContext(ctx context.Context, db *sql.DB) error {
	src := &migrate.EmbedFileSystemMigrationSource{
		FileSystem: migrations,
		Root:       "sql",
	}

	type outcome struct {
		applied int
		err     error
	}
	ch := make(chan outcome, 1)
	go func() {
		n, err := migrate.Exec(db, "mysql", src, migrate.Up)
		ch <- outcome{applied: n, err: err}
	}()

	select {
	case <-ctx.Done():
		return fmt.Errorf("migrations: %w", ctx.Err())
	case o := <-ch:
		if o.err != nil {
			return fmt.Errorf("migrations: %w", o.err)
		}
		slog.Default().InfoContext(ctx, "applied migrations", slog.Int("count", o.applied))
		return nil
	}
}

// Close releases the connection pool.
func (ms *MYSQLStore) Close() {
	ms.close()
}

// Ping checks database connectivity by executing a simple query
func (ms *MYSQLStore) Ping(ctx context.Context) error {
	ctx, cancel := ms.withTimeout(ctx)
	defer cancel()

	var result int
	if err := ms.db.QueryRowxContext(ctx, "SELECT 1").Scan(&result); err != nil {
		return unavailable("database ping failed", err)
	}
	return nil
}
