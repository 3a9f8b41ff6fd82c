// Package runner dispatches migration operations to ORM adapters.
//
// Overview:
//   - Responsibility: Resolve the project's ORM adapter, build tool options from
//     configuration and environment, and report migration status
//   - Key Types: Runner, Status, MigrationStatus
//   - Concurrency Model: Sequential; one Runner per command invocation
//   - Error Semantics: NOT_FOUND for unknown ORMs, INVALID_ARGUMENT for dialects the ORM
//     does not support, UNAVAILABLE when the database or migration tool cannot be reached
//
// Usage:
//
//	r := runner.New(orms, exec, fs, config, logger)
//	r.SetEnv(env)
//	err := r.Migrate(ctx, "")
package runner

import (
	"context"
	"sort"
	"strings"

	"go.eggybyte.com/yolk/internal/configschema"
	"go.eggybyte.com/yolk/internal/errors"
	"go.eggybyte.com/yolk/internal/log"
	"go.eggybyte.com/yolk/internal/orm"
	"go.eggybyte.com/yolk/internal/projectfs"
	"go.eggybyte.com/yolk/internal/toolrunner"
)

// DatabaseURLEnv is read when database.url is not configured.
const DatabaseURLEnv = "DATABASE_URL"

// migrationExtensions are the file types migration tools load.
var migrationExtensions = []string{".js", ".cjs", ".mjs", ".ts"}

// Runner runs migrations through the adapter's own tool.
type Runner struct {
	orms   *orm.Registry
	exec   toolrunner.Executor
	fs     *projectfs.ProjectFS
	config *configschema.Config
	env    []string
	logger log.Logger
}

// MigrationStatus is one migration file and whether it has been applied.
type MigrationStatus struct {
	Name    string `json:"name"`
	Applied bool   `json:"applied"`
}

// Status is the result of a status query.
type Status struct {
	ORM        string            `json:"orm"`
	Dialect    string            `json:"dialect"`
	Migrations []MigrationStatus `json:"migrations"`
	Missing    []string          `json:"missing,omitempty"` // Applied but not on disk
}

// Pending returns the number of migrations not yet applied.
func (s *Status) Pending() int {
	n := 0
	for _, m := range s.Migrations {
		if !m.Applied {
			n++
		}
	}
	return n
}

// New creates a Runner.
//
// Parameters:
//   - orms: ORM adapter registry
//   - exec: Process executor for npx tools
//   - fs: Project file system used to list migration files
//   - config: Project configuration (nil means defaults)
//   - logger: Logger (nil means discard)
//
// Returns:
//   - *Runner: Runner instance
func New(orms *orm.Registry, exec toolrunner.Executor, fs *projectfs.ProjectFS, config *configschema.Config, logger log.Logger) *Runner {
	if config == nil {
		config = configschema.Default(orm.DefaultAdapter)
	}
	if logger == nil {
		logger = log.Nop()
	}
	return &Runner{orms: orms, exec: exec, fs: fs, config: config, logger: logger}
}

// SetEnv sets the KEY=value environment used to resolve DATABASE_URL.
func (r *Runner) SetEnv(env []string) {
	r.env = env
}

// Migrate applies pending migrations.
func (r *Runner) Migrate(ctx context.Context, ormName string) error {
	adapter, _, err := r.resolve(ormName)
	if err != nil {
		return err
	}
	opts := r.migrateOptions()
	r.logger.Info("migrating", log.Str("orm", adapter.Name()), log.Str("dir", opts.Dir))
	return adapter.Migrate(ctx, opts)
}

// Rollback reverts the last step migrations, or all of them.
func (r *Runner) Rollback(ctx context.Context, ormName string, step int, all bool) error {
	if step < 0 {
		return errors.Newf(errors.CodeInvalidArgument, "--step must be positive, got %d", step)
	}
	adapter, _, err := r.resolve(ormName)
	if err != nil {
		return err
	}
	opts := orm.RollbackOptions{MigrateOptions: r.migrateOptions(), Step: step, All: all}
	r.logger.Info("rolling back", log.Str("orm", adapter.Name()), log.Int("step", opts.Steps()))
	return adapter.Rollback(ctx, opts)
}

// Status compares migration files on disk with the migrations the database reports.
func (r *Runner) Status(ctx context.Context, ormName string) (*Status, error) {
	adapter, dialect, err := r.resolve(ormName)
	if err != nil {
		return nil, err
	}

	files, err := r.migrationFiles()
	if err != nil {
		return nil, err
	}

	conn, err := r.connect(ctx, adapter, dialect)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	applied, err := conn.AppliedMigrations(ctx)
	if err != nil {
		return nil, err
	}

	status := Compare(files, applied)
	status.ORM = adapter.Name()
	status.Dialect = dialect
	return status, nil
}

// Check connects to the configured database and pings it.
func (r *Runner) Check(ctx context.Context, ormName string) error {
	adapter, dialect, err := r.resolve(ormName)
	if err != nil {
		return err
	}
	conn, err := r.connect(ctx, adapter, dialect)
	if err != nil {
		return err
	}
	defer conn.Close()
	return conn.Ping(ctx)
}

// Compare builds a Status from file names on disk and applied names.
// Names match with or without their extension.
func Compare(files, applied []string) *Status {
	appliedSet := make(map[string]bool, len(applied))
	for _, name := range applied {
		appliedSet[migrationKey(name)] = true
	}

	sorted := append([]string(nil), files...)
	sort.Strings(sorted)

	status := &Status{Migrations: make([]MigrationStatus, 0, len(sorted))}
	onDisk := make(map[string]bool, len(sorted))
	for _, name := range sorted {
		key := migrationKey(name)
		onDisk[key] = true
		status.Migrations = append(status.Migrations, MigrationStatus{Name: name, Applied: appliedSet[key]})
	}

	for _, name := range applied {
		if !onDisk[migrationKey(name)] {
			status.Missing = append(status.Missing, name)
		}
	}
	sort.Strings(status.Missing)
	return status
}

// DatabaseURL returns database.url, falling back to DATABASE_URL from the environment.
func (r *Runner) DatabaseURL() string {
	if r.config.Database.URL != "" {
		return r.config.Database.URL
	}
	prefix := DatabaseURLEnv + "="
	url := ""
	for _, kv := range r.env {
		if strings.HasPrefix(kv, prefix) {
			url = strings.TrimPrefix(kv, prefix)
		}
	}
	return url
}

// resolve picks the adapter and the dialect it runs against.
func (r *Runner) resolve(ormName string) (orm.Adapter, string, error) {
	adapter, err := r.orms.Resolve(ormName, r.config.ORM)
	if err != nil {
		return nil, "", err
	}

	dialect := r.config.Database.Dialect
	if !strings.EqualFold(adapter.Name(), r.config.ORM) || dialect == "" {
		dialect = configschema.DefaultDialect(adapter.Name())
	}
	if !r.orms.Supports(adapter.Name(), dialect) {
		return nil, "", errors.Newf(errors.CodeInvalidArgument, "%s does not support the %s dialect (supported: %s)",
			adapter.Name(), dialect, strings.Join(adapter.Databases(), ", "))
	}
	return adapter, dialect, nil
}

func (r *Runner) migrateOptions() orm.MigrateOptions {
	return orm.MigrateOptions{
		Dir:        r.config.Paths.Migrations,
		URL:        r.DatabaseURL(),
		Env:        r.config.Database.Env,
		ConfigFile: r.config.Mongoose.Config,
		Exec:       r.exec,
		Logger:     r.logger,
	}
}

func (r *Runner) connect(ctx context.Context, adapter orm.Adapter, dialect string) (orm.Connection, error) {
	url := r.DatabaseURL()
	if url == "" {
		return nil, errors.Newf(errors.CodeInvalidArgument,
			"no database URL: set database.url in %s or %s in .env", configschema.DefaultFile, DatabaseURLEnv)
	}
	r.logger.Debug("connecting to database", log.Str("orm", adapter.Name()), log.Str("dialect", dialect))
	return adapter.DatabaseConnection(ctx, orm.DatabaseConfig{
		Dialect: dialect,
		URL:     url,
		Root:    r.fs.GetRootDir(),
		Logger:  r.logger,
	})
}

// migrationFiles lists migration files; a missing directory has none.
func (r *Runner) migrationFiles() ([]string, error) {
	names, err := r.fs.ListFiles(r.config.Paths.Migrations)
	if errors.IsCode(err, errors.CodeNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var files []string
	for _, name := range names {
		for _, ext := range migrationExtensions {
			if strings.HasSuffix(name, ext) {
				files = append(files, name)
				break
			}
		}
	}
	return files, nil
}

func migrationKey(name string) string {
	for _, ext := range migrationExtensions {
		if strings.HasSuffix(name, ext) {
			return strings.TrimSuffix(name, ext)
		}
	}
	return name
}
