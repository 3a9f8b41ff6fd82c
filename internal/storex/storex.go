// Package storex opens SQL connections for migration bookkeeping queries.
//
// Overview:
//   - Responsibility: Translate Sequelize-style database URLs to GORM connections,
//     check health, and read migration metadata tables
//   - Key Types: Store, GORMStore, Options
//   - Concurrency Model: Stores are safe for concurrent use (backed by *sql.DB)
//   - Error Semantics: INVALID_ARGUMENT for bad URLs, UNIMPLEMENTED for dialects without
//     a Go driver, UNAVAILABLE when the server cannot be reached
//
// Usage:
//
//	store, err := storex.Open(ctx, storex.Options{Dialect: "postgres", URL: url, Logger: logger})
//	defer store.Close()
//	names, err := store.Strings(ctx, "SequelizeMeta", "name")
package storex

import (
	"context"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	mysqldriver "github.com/go-sql-driver/mysql"
	"gorm.io/gorm"

	"go.eggybyte.com/yolk/internal/errors"
	"go.eggybyte.com/yolk/internal/log"
)

// Store defines the interface for storage backends.
type Store interface {
	// Ping checks if the storage backend is healthy.
	Ping(ctx context.Context) error

	// Close closes the storage connection.
	Close() error
}

// GORMStore extends Store with GORM access and metadata helpers.
type GORMStore interface {
	Store

	// GetDB returns the underlying GORM database instance.
	GetDB() *gorm.DB

	// HasTable reports whether table exists.
	HasTable(ctx context.Context, table string) (bool, error)

	// Strings returns column values of table ordered by that column.
	// A missing table yields an empty result.
	Strings(ctx context.Context, table, column string) ([]string, error)
}

// Options configures a connection.
type Options struct {
	Dialect         string        // Sequelize dialect: mysql, mariadb, postgres, sqlite, mssql
	URL             string        // Sequelize-style URL, e.g. postgres://u:p@host:5432/db
	Root            string        // Project root for relative sqlite paths
	ConnMaxLifetime time.Duration // Maximum connection lifetime (0 keeps the default)
	Logger          log.Logger    // Logger for database operations
}

type gormStore struct {
	db *gorm.DB
}

// Open connects to the database described by opts.
func Open(ctx context.Context, opts Options) (GORMStore, error) {
	driver, err := DriverForDialect(opts.Dialect)
	if err != nil {
		return nil, err
	}

	dsn, err := DSNFromURL(opts.Dialect, opts.URL, opts.Root)
	if err != nil {
		return nil, err
	}

	db, err := openGORM(driver, dsn, opts.ConnMaxLifetime, opts.Logger)
	if err != nil {
		return nil, errors.Wrapf(errors.CodeUnavailable, "storex.open", err, "connect to %s", opts.Dialect)
	}

	store := &gormStore{db: db}
	if err := store.Ping(ctx); err != nil {
		_ = store.Close()
		return nil, err
	}
	return store, nil
}

// Ping checks the connection, classifying failures as UNAVAILABLE.
func (s *gormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return errors.Wrap(errors.CodeInternal, "storex.ping", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return errors.Wrap(errors.CodeUnavailable, "storex.ping", err)
	}
	return nil
}

// Close releases the connection pool.
func (s *gormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return errors.Wrap(errors.CodeInternal, "storex.close", err)
	}
	return sqlDB.Close()
}

// GetDB returns the underlying GORM handle.
func (s *gormStore) GetDB() *gorm.DB {
	return s.db
}

// HasTable reports whether table exists.
func (s *gormStore) HasTable(ctx context.Context, table string) (bool, error) {
	return s.GetDB().WithContext(ctx).Migrator().HasTable(table), nil
}

// Strings returns column values of table ordered by column.
func (s *gormStore) Strings(ctx context.Context, table, column string) ([]string, error) {
	exists, err := s.HasTable(ctx, table)
	if err != nil || !exists {
		return nil, err
	}

	var values []string
	db := s.GetDB().WithContext(ctx)
	if err := db.Table(table).Order(column).Pluck(column, &values).Error; err != nil {
		code := errors.CodeInternal
		if isConnectionError(err) {
			code = errors.CodeUnavailable
		}
		return nil, errors.Wrapf(code, "storex.query", err, "read %s.%s", table, column)
	}
	return values, nil
}

// DriverForDialect maps a Sequelize dialect to a GORM driver name.
func DriverForDialect(dialect string) (string, error) {
	switch strings.ToLower(dialect) {
	case "mysql", "mariadb":
		return "mysql", nil
	case "postgres", "postgresql":
		return "postgres", nil
	case "sqlite", "sqlite3":
		return "sqlite", nil
	case "mssql":
		return "", errors.New(errors.CodeUnimplemented, "mssql connections are not supported; use sequelize-cli directly")
	default:
		return "", errors.Newf(errors.CodeInvalidArgument, "unknown SQL dialect %q", dialect)
	}
}

// DSNFromURL converts a Sequelize-style URL into a driver DSN.
// Values that are already driver DSNs are returned unchanged.
//
// Parameters:
//   - dialect: Sequelize dialect
//   - rawURL: Connection URL from config or DATABASE_URL
//   - root: Directory relative sqlite paths are resolved against
//
// Returns:
//   - string: Driver-specific DSN
//   - error: INVALID_ARGUMENT for empty or malformed URLs
func DSNFromURL(dialect, rawURL, root string) (string, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return "", errors.New(errors.CodeInvalidArgument, "database.url is required to connect")
	}

	switch strings.ToLower(dialect) {
	case "mysql", "mariadb":
		if !strings.HasPrefix(rawURL, "mysql://") && !strings.HasPrefix(rawURL, "mariadb://") {
			return rawURL, nil
		}
		return mysqlDSN(rawURL)
	case "sqlite", "sqlite3":
		return sqlitePath(rawURL, root), nil
	default:
		return rawURL, nil
	}
}

func mysqlDSN(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", errors.Wrap(errors.CodeInvalidArgument, "storex.dsn", err)
	}

	host := u.Host
	if host == "" {
		host = "localhost"
	}
	if u.Port() == "" {
		host += ":3306"
	}

	cfg := mysqldriver.NewConfig()
	cfg.Net = "tcp"
	cfg.Addr = host
	cfg.DBName = strings.TrimPrefix(u.Path, "/")
	cfg.ParseTime = true
	if u.User != nil {
		cfg.User = u.User.Username()
		cfg.Passwd, _ = u.User.Password()
	}
	for key, values := range u.Query() {
		if len(values) > 0 {
			if cfg.Params == nil {
				cfg.Params = map[string]string{}
			}
			cfg.Params[key] = values[0]
		}
	}
	return cfg.FormatDSN(), nil
}

func sqlitePath(rawURL, root string) string {
	p := rawURL
	switch {
	case strings.HasPrefix(p, "sqlite://"):
		p = strings.TrimPrefix(p, "sqlite://")
	case strings.HasPrefix(p, "sqlite:"):
		p = strings.TrimPrefix(p, "sqlite:")
	}
	if p == ":memory:" || p == "" || filepath.IsAbs(p) || root == "" {
		return p
	}
	return filepath.Join(root, p)
}
