// Package orm defines the adapter contract yolk uses to talk to Node.js ORMs.
//
// Overview:
//   - Responsibility: Field parsing, migration intent inference, migration naming and
//     the adapter registry shared by the Sequelize and Mongoose adapters
//   - Key Types: Adapter, Registry, Field, MigrationIntent, MigrationFile, Connection
//   - Concurrency Model: Registry is safe for concurrent use; adapters are stateless
//   - Error Semantics: INVALID_ARGUMENT for bad field specs, NOT_FOUND for unknown
//     adapters, ALREADY_EXISTS for duplicate registrations
//
// Usage:
//
//	registry := orm.NewRegistry()
//	_ = registry.Register(sequelize.New())
//	adapter, err := registry.Resolve(flagORM, config.ORM)
//	file, err := adapter.CreateMigration(orm.MigrationRequest{Name: "create_users_table"})
package orm

import (
	"context"
	"time"

	"go.eggybyte.com/yolk/internal/log"
	"go.eggybyte.com/yolk/internal/naming"
	"go.eggybyte.com/yolk/internal/toolrunner"
)

// DefaultAdapter is used when neither a flag nor the config names an ORM.
const DefaultAdapter = "sequelize"

// Adapter generates ORM-specific code and drives the ORM's migration tool.
type Adapter interface {
	// Name returns the registry key, e.g. "sequelize".
	Name() string

	// Databases returns the supported dialects.
	Databases() []string

	// ParseModelFields parses a field spec and fills each Field.Expr with the ORM's DSL.
	ParseModelFields(spec string) ([]Field, error)

	// CreateMigration renders a migration file for the request.
	CreateMigration(req MigrationRequest) (*MigrationFile, error)

	// Migrate applies pending migrations through the ORM's CLI.
	Migrate(ctx context.Context, opts MigrateOptions) error

	// Rollback reverts applied migrations through the ORM's CLI.
	Rollback(ctx context.Context, opts RollbackOptions) error

	// DatabaseConnection opens a connection for status and health queries.
	DatabaseConnection(ctx context.Context, cfg DatabaseConfig) (Connection, error)

	// ModelDefinition renders the attribute or schema block placed in model stubs.
	ModelDefinition(fields []Field) string

	// ControllerStyle returns the suffix of the resource controller stub.
	ControllerStyle() string
}

// Renderer renders named stubs. *stub.Loader satisfies it.
type Renderer interface {
	Render(name string, vars map[string]string) (string, error)
}

// MigrationRequest describes a migration to generate.
type MigrationRequest struct {
	Name   string    // Migration name, e.g. "add_email_to_users"
	Table  string    // Explicit table, overrides the inferred one
	Fields []Field   // Columns for create and add migrations
	Now    time.Time // Timestamp for the file name
	Stubs  Renderer  // Stub source for the migration body
}

// MigrationFile is a rendered migration.
type MigrationFile struct {
	Name     string          // File name without extension
	Filename string          // File name with extension
	Content  string          // Rendered source
	Intent   MigrationIntent // What the migration does
}

// MigrateOptions configures a migration tool run.
type MigrateOptions struct {
	Dir        string              // Migrations directory relative to the project root
	URL        string              // Database URL passed to the tool (may be empty)
	Env        string              // Tool environment name, e.g. "development"
	ConfigFile string              // Tool config file (migrate-mongo)
	Exec       toolrunner.Executor // Process runner
	Logger     log.Logger
}

// RollbackOptions configures a rollback run.
type RollbackOptions struct {
	MigrateOptions
	Step int  // Number of migrations to revert (default 1)
	All  bool // Revert everything
}

// Steps returns the effective number of migrations to revert.
func (o RollbackOptions) Steps() int {
	if o.Step < 1 {
		return 1
	}
	return o.Step
}

// DatabaseConfig describes how to reach the database for status queries.
type DatabaseConfig struct {
	Dialect string
	URL     string
	Root    string // Project root for relative file databases
	Logger  log.Logger
}

// Connection is an open database connection.
type Connection interface {
	// Ping checks that the database answers.
	Ping(ctx context.Context) error

	// AppliedMigrations returns the names of applied migrations, sorted.
	AppliedMigrations(ctx context.Context) ([]string, error)

	// Close releases the connection.
	Close() error
}

// MigrationName returns "<UTC yyyymmddhhmmss>-<kebab name>".
func MigrationName(now time.Time, name string) string {
	return now.UTC().Format("20060102150405") + "-" + naming.Kebab(name)
}

// StripExtension removes a trailing ".js" from a migration file name.
func StripExtension(name string) string {
	if len(name) > 3 && name[len(name)-3:] == ".js" {
		return name[:len(name)-3]
	}
	return name
}
