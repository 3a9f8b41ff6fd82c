// Package sequelize implements the orm.Adapter for Sequelize projects.
//
// Overview:
//   - Responsibility: Sequelize model attributes, sequelize-cli migrations, and
//     db:migrate / db:migrate:undo dispatch through npx
//   - Key Types: Adapter
//   - Concurrency Model: Adapter is stateless and safe for concurrent use
//   - Error Semantics: Tool failures are returned from toolrunner unchanged; connection
//     problems come from storex
package sequelize

import (
	"context"
	"fmt"
	"strings"

	"go.eggybyte.com/yolk/internal/errors"
	"go.eggybyte.com/yolk/internal/log"
	"go.eggybyte.com/yolk/internal/naming"
	"go.eggybyte.com/yolk/internal/orm"
	"go.eggybyte.com/yolk/internal/storex"
)

// Name is the registry key of this adapter.
const Name = "sequelize"

// MetaTable is where sequelize-cli records applied migrations.
const MetaTable = "SequelizeMeta"

// MigrationStub renders migration files.
const MigrationStub = "migration.sequelize.stub"

var databases = []string{"mysql", "mariadb", "postgres", "sqlite", "mssql"}

var dataTypes = map[string]string{
	orm.TypeString:   "STRING",
	orm.TypeText:     "TEXT",
	orm.TypeInteger:  "INTEGER",
	orm.TypeBigInt:   "BIGINT",
	orm.TypeFloat:    "FLOAT",
	orm.TypeDecimal:  "DECIMAL",
	orm.TypeBoolean:  "BOOLEAN",
	orm.TypeDate:     "DATEONLY",
	orm.TypeDateTime: "DATE",
	orm.TypeUUID:     "UUID",
	orm.TypeJSON:     "JSON",
	orm.TypeRef:      "INTEGER",
}

// Adapter generates Sequelize code and drives sequelize-cli.
type Adapter struct{}

// New creates a Sequelize adapter.
func New() *Adapter {
	return &Adapter{}
}

// Name returns "sequelize".
func (a *Adapter) Name() string { return Name }

// Databases returns the dialects Sequelize supports.
func (a *Adapter) Databases() []string {
	return append([]string(nil), databases...)
}

// ControllerStyle selects controller.resource.sequelize.stub.
func (a *Adapter) ControllerStyle() string { return Name }

// ParseModelFields parses spec and fills Expr with a DataTypes attribute definition.
func (a *Adapter) ParseModelFields(spec string) ([]orm.Field, error) {
	fields, err := orm.ParseFieldSpec(spec)
	if err != nil {
		return nil, err
	}
	for i := range fields {
		fields[i].Expr = columnDefinition(fields[i], "DataTypes")
	}
	return fields, nil
}

// ModelDefinition renders the attribute block for model.sequelize.stub.
func (a *Adapter) ModelDefinition(fields []orm.Field) string {
	blocks := make([]string, 0, len(fields))
	for _, f := range fields {
		expr := f.Expr
		if expr == "" {
			expr = columnDefinition(f, "DataTypes")
		}
		blocks = append(blocks, orm.Indent(expr, 6))
	}
	return strings.Join(blocks, "\n")
}

// CreateMigration renders a sequelize-cli migration for req.
func (a *Adapter) CreateMigration(req orm.MigrationRequest) (*orm.MigrationFile, error) {
	if req.Stubs == nil {
		return nil, errors.New(errors.CodeInternal, "sequelize: no stub renderer")
	}
	if strings.TrimSpace(req.Name) == "" {
		return nil, errors.New(errors.CodeInvalidArgument, "migration name must not be empty")
	}

	intent := orm.InferMigration(req.Name).WithTable(req.Table)
	up, down := migrationBody(intent, req.Fields)

	content, err := req.Stubs.Render(MigrationStub, map[string]string{
		"up":   orm.Indent(up, 4),
		"down": orm.Indent(down, 4),
	})
	if err != nil {
		return nil, err
	}

	name := orm.MigrationName(req.Now, req.Name)
	return &orm.MigrationFile{
		Name:     name,
		Filename: name + ".js",
		Content:  content,
		Intent:   intent,
	}, nil
}

// Migrate runs "npx sequelize-cli db:migrate".
func (a *Adapter) Migrate(ctx context.Context, opts orm.MigrateOptions) error {
	if opts.Exec == nil {
		return errors.New(errors.CodeInternal, "sequelize: no executor")
	}
	logger := loggerOf(opts.Logger)

	logger.Info("running sequelize-cli db:migrate", log.Str("dir", opts.Dir))
	_, err := opts.Exec.Npx(ctx, cliArgs("db:migrate", opts)...)
	return err
}

// Rollback runs "db:migrate:undo" Steps() times, or "db:migrate:undo:all" when All is set.
func (a *Adapter) Rollback(ctx context.Context, opts orm.RollbackOptions) error {
	if opts.Exec == nil {
		return errors.New(errors.CodeInternal, "sequelize: no executor")
	}
	logger := loggerOf(opts.Logger)

	if opts.All {
		logger.Info("running sequelize-cli db:migrate:undo:all")
		_, err := opts.Exec.Npx(ctx, cliArgs("db:migrate:undo:all", opts.MigrateOptions)...)
		return err
	}

	for i := 1; i <= opts.Steps(); i++ {
		logger.Info("running sequelize-cli db:migrate:undo", log.Int("step", i), log.Int("steps", opts.Steps()))
		if _, err := opts.Exec.Npx(ctx, cliArgs("db:migrate:undo", opts.MigrateOptions)...); err != nil {
			return err
		}
	}
	return nil
}

// DatabaseConnection opens the database through storex.
func (a *Adapter) DatabaseConnection(ctx context.Context, cfg orm.DatabaseConfig) (orm.Connection, error) {
	store, err := storex.Open(ctx, storex.Options{
		Dialect: cfg.Dialect,
		URL:     cfg.URL,
		Root:    cfg.Root,
		Logger:  cfg.Logger,
	})
	if err != nil {
		return nil, err
	}
	return &connection{store: store}, nil
}

type connection struct {
	store storex.GORMStore
}

func (c *connection) Ping(ctx context.Context) error {
	return c.store.Ping(ctx)
}

func (c *connection) AppliedMigrations(ctx context.Context) ([]string, error) {
	return c.store.Strings(ctx, MetaTable, "name")
}

func (c *connection) Close() error {
	return c.store.Close()
}

func cliArgs(command string, opts orm.MigrateOptions) []string {
	args := []string{"sequelize-cli", command}
	if opts.Dir != "" {
		args = append(args, "--migrations-path", opts.Dir)
	}
	if opts.URL != "" {
		args = append(args, "--url", opts.URL)
	}
	if opts.Env != "" {
		args = append(args, "--env", opts.Env)
	}
	return args
}

func loggerOf(l log.Logger) log.Logger {
	if l == nil {
		return log.Nop()
	}
	return l.With("orm", Name)
}

// columnDefinition renders "name: { ... }," using prefix for type constants
// (DataTypes in models, Sequelize in migrations).
func columnDefinition(f orm.Field, prefix string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: {\n", f.Name)
	fmt.Fprintf(&b, "  type: %s.%s,\n", prefix, dataTypes[f.Type])
	if f.Required {
		b.WriteString("  allowNull: false,\n")
	}
	if f.Unique {
		b.WriteString("  unique: true,\n")
	}
	if f.HasDefault {
		fmt.Fprintf(&b, "  defaultValue: %s,\n", orm.DefaultLiteral(f))
	}
	if f.Ref != "" {
		fmt.Fprintf(&b, "  references: { model: %s, key: 'id' },\n", orm.JSString(refTable(f.Ref)))
	}
	b.WriteString("},")
	return b.String()
}

// refTable returns the table for a referenced model name, e.g. "BlogPost" -> "blog_posts".
func refTable(model string) string {
	return naming.Plural(naming.Snake(model))
}
