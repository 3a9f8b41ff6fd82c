// Package mongoose implements the orm.Adapter for Mongoose projects.
//
// Overview:
//   - Responsibility: Mongoose schema definitions, migrate-mongo migrations, and
//     up/down dispatch through npx
//   - Key Types: Adapter
//   - Concurrency Model: Adapter is stateless and safe for concurrent use
//   - Error Semantics: Tool failures come from toolrunner; connection problems are
//     UNAVAILABLE, malformed URLs INVALID_ARGUMENT
package mongoose

import (
	"context"
	"fmt"
	"strings"

	"go.eggybyte.com/yolk/internal/errors"
	"go.eggybyte.com/yolk/internal/log"
	"go.eggybyte.com/yolk/internal/orm"
)

// Name is the registry key of this adapter.
const Name = "mongoose"

// MigrationStub renders migration files.
const MigrationStub = "migration.mongoose.stub"

// maxRollbackAll bounds the down loop of a full rollback.
const maxRollbackAll = 10000

var schemaTypes = map[string]string{
	orm.TypeString:   "String",
	orm.TypeText:     "String",
	orm.TypeInteger:  "Number",
	orm.TypeBigInt:   "Number",
	orm.TypeFloat:    "Number",
	orm.TypeDecimal:  "Schema.Types.Decimal128",
	orm.TypeBoolean:  "Boolean",
	orm.TypeDate:     "Date",
	orm.TypeDateTime: "Date",
	orm.TypeUUID:     "Schema.Types.UUID",
	orm.TypeJSON:     "Schema.Types.Mixed",
	orm.TypeRef:      "Schema.Types.ObjectId",
}

// Adapter generates Mongoose code and drives migrate-mongo.
type Adapter struct{}

// New creates a Mongoose adapter.
func New() *Adapter {
	return &Adapter{}
}

// Name returns "mongoose".
func (a *Adapter) Name() string { return Name }

// Databases returns the databases Mongoose supports.
func (a *Adapter) Databases() []string { return []string{"mongodb"} }

// ControllerStyle selects controller.resource.mongoose.stub.
func (a *Adapter) ControllerStyle() string { return Name }

// ParseModelFields parses spec and fills Expr with a schema path definition.
func (a *Adapter) ParseModelFields(spec string) ([]orm.Field, error) {
	fields, err := orm.ParseFieldSpec(spec)
	if err != nil {
		return nil, err
	}
	for i := range fields {
		fields[i].Expr = schemaPath(fields[i])
	}
	return fields, nil
}

// ModelDefinition renders the schema body for model.mongoose.stub.
func (a *Adapter) ModelDefinition(fields []orm.Field) string {
	blocks := make([]string, 0, len(fields))
	for _, f := range fields {
		expr := f.Expr
		if expr == "" {
			expr = schemaPath(f)
		}
		blocks = append(blocks, orm.Indent(expr, 4))
	}
	return strings.Join(blocks, "\n")
}

// CreateMigration renders a migrate-mongo migration for req.
func (a *Adapter) CreateMigration(req orm.MigrationRequest) (*orm.MigrationFile, error) {
	if req.Stubs == nil {
		return nil, errors.New(errors.CodeInternal, "mongoose: no stub renderer")
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

// Migrate runs "npx migrate-mongo up".
func (a *Adapter) Migrate(ctx context.Context, opts orm.MigrateOptions) error {
	if opts.Exec == nil {
		return errors.New(errors.CodeInternal, "mongoose: no executor")
	}
	loggerOf(opts.Logger).Info("running migrate-mongo up", log.Str("config", opts.ConfigFile))
	_, err := opts.Exec.Npx(ctx, cliArgs("up", opts)...)
	return err
}

// Rollback runs "npx migrate-mongo down" Steps() times. With All it repeats
// until "migrate-mongo status" reports nothing applied.
func (a *Adapter) Rollback(ctx context.Context, opts orm.RollbackOptions) error {
	if opts.Exec == nil {
		return errors.New(errors.CodeInternal, "mongoose: no executor")
	}
	logger := loggerOf(opts.Logger)

	if !opts.All {
		for i := 1; i <= opts.Steps(); i++ {
			logger.Info("running migrate-mongo down", log.Int("step", i), log.Int("steps", opts.Steps()))
			if _, err := opts.Exec.Npx(ctx, cliArgs("down", opts.MigrateOptions)...); err != nil {
				return err
			}
		}
		return nil
	}

	previous := -1
	for i := 0; i < maxRollbackAll; i++ {
		applied, err := a.appliedCount(ctx, opts.MigrateOptions)
		if err != nil {
			return err
		}
		if applied == 0 {
			logger.Info("all migrations rolled back", log.Int("steps", i))
			return nil
		}
		if applied == previous {
			return errors.Newf(errors.CodeInternal, "migrate-mongo down did not revert anything (%d still applied)", applied)
		}
		previous = applied

		logger.Info("running migrate-mongo down", log.Int("remaining", applied))
		if _, err := opts.Exec.Npx(ctx, cliArgs("down", opts.MigrateOptions)...); err != nil {
			return err
		}
	}
	return errors.Newf(errors.CodeInternal, "rollback stopped after %d steps", maxRollbackAll)
}

func (a *Adapter) appliedCount(ctx context.Context, opts orm.MigrateOptions) (int, error) {
	result, err := opts.Exec.Npx(ctx, cliArgs("status", opts)...)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, row := range ParseStatus(result.Stdout) {
		if row.Applied {
			count++
		}
	}
	return count, nil
}

// StatusRow is one line of "migrate-mongo status" output.
type StatusRow struct {
	Filename  string
	Applied   bool
	AppliedAt string
}

// ParseStatus extracts rows from the table printed by "migrate-mongo status".
func ParseStatus(output string) []StatusRow {
	var rows []StatusRow
	for _, line := range strings.Split(output, "\n") {
		cells := strings.FieldsFunc(line, func(r rune) bool { return r == '│' || r == '|' })
		if len(cells) < 2 {
			continue
		}
		filename := strings.TrimSpace(cells[0])
		appliedAt := strings.TrimSpace(cells[1])
		if !isMigrationFile(filename) {
			continue
		}
		row := StatusRow{Filename: filename}
		if !strings.EqualFold(appliedAt, "PENDING") {
			row.Applied = true
			row.AppliedAt = appliedAt
		}
		rows = append(rows, row)
	}
	return rows
}

func isMigrationFile(name string) bool {
	for _, ext := range []string{".js", ".cjs", ".mjs", ".ts"} {
		if strings.HasSuffix(name, ext) && !strings.ContainsAny(name, " \t") {
			return true
		}
	}
	return false
}

func cliArgs(command string, opts orm.MigrateOptions) []string {
	args := []string{"migrate-mongo", command}
	if opts.ConfigFile != "" {
		args = append(args, "-f", opts.ConfigFile)
	}
	return args
}

func loggerOf(l log.Logger) log.Logger {
	if l == nil {
		return log.Nop()
	}
	return l.With("orm", Name)
}

// schemaPath renders "name: { type: ..., ... },".
func schemaPath(f orm.Field) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: {\n", f.Name)
	fmt.Fprintf(&b, "  type: %s,\n", schemaTypes[f.Type])
	if f.Required {
		b.WriteString("  required: true,\n")
	}
	if f.Unique {
		b.WriteString("  unique: true,\n")
	}
	if f.HasDefault {
		fmt.Fprintf(&b, "  default: %s,\n", orm.DefaultLiteral(f))
	}
	if f.Ref != "" {
		fmt.Fprintf(&b, "  ref: %s,\n", orm.JSString(f.Ref))
	}
	b.WriteString("},")
	return b.String()
}
