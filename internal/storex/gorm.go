package storex

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"go.eggybyte.com/yolk/internal/errors"
	"go.eggybyte.com/yolk/internal/log"
)

// Pool sizing for a one-shot CLI process.
const (
	maxIdleConns           = 1
	maxOpenConns           = 2
	defaultConnMaxLifetime = time.Minute
)

// connectionFailures are substrings of driver errors that mean the server,
// rather than the query, is the problem.
var connectionFailures = []string{
	"connection refused",
	"connection reset",
	"timeout",
	"network is unreachable",
	"no such host",
	"broken pipe",
	"access denied",
	"authentication failed",
	"eof",
}

// dialector returns the GORM dialector for a driver name from DriverForDialect.
func dialector(driver, dsn string) (gorm.Dialector, error) {
	switch driver {
	case "mysql":
		return mysql.Open(dsn), nil
	case "postgres":
		return postgres.Open(dsn), nil
	case "sqlite":
		return sqlite.Open(dsn), nil
	default:
		return nil, fmt.Errorf("no GORM dialector for driver %q", driver)
	}
}

// openGORM opens a pooled *gorm.DB whose SQL trace goes to logger at debug level.
func openGORM(driver, dsn string, lifetime time.Duration, logger log.Logger) (*gorm.DB, error) {
	d, err := dialector(driver, dsn)
	if err != nil {
		return nil, err
	}

	var gl gormlogger.Interface = gormlogger.Discard
	if logger != nil {
		gl = &gormLogger{logger: logger.With("driver", driver)}
	}

	db, err := gorm.Open(d, &gorm.Config{Logger: gl})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}
	if lifetime <= 0 {
		lifetime = defaultConnMaxLifetime
	}
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetConnMaxLifetime(lifetime)
	return db, nil
}

// isConnectionError reports whether err looks like a server or network failure.
func isConnectionError(err error) bool {
	if err == nil || errors.Is(err, gorm.ErrRecordNotFound) {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, s := range connectionFailures {
		if strings.Contains(msg, s) {
			return true
		}
	}
	return false
}

// gormLogger routes GORM's logging through log.Logger.
type gormLogger struct {
	logger log.Logger
}

func (l *gormLogger) LogMode(gormlogger.LogLevel) gormlogger.Interface { return l }

func (l *gormLogger) Info(_ context.Context, msg string, data ...any) {
	l.logger.Debug(fmt.Sprintf(msg, data...))
}

func (l *gormLogger) Warn(_ context.Context, msg string, data ...any) {
	l.logger.Warn(fmt.Sprintf(msg, data...))
}

func (l *gormLogger) Error(_ context.Context, msg string, data ...any) {
	l.logger.Error(nil, fmt.Sprintf(msg, data...))
}

func (l *gormLogger) Trace(_ context.Context, begin time.Time, fc func() (string, int64), err error) {
	sql, rows := fc()
	kv := []any{log.Str("sql", sql), log.Int("rows", int(rows)), log.Dur("took", time.Since(begin))}
	if err != nil {
		// A missing SequelizeMeta table on a fresh database is routine.
		l.logger.Debug("sql failed", append(kv, log.Str("error", err.Error()))...)
		return
	}
	l.logger.Debug("sql", kv...)
}
