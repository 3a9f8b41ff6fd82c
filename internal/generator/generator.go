// Package generator renders controllers, models, migrations and routes from stubs.
//
// Overview:
//   - Responsibility: Normalize resource names, pick the ORM adapter, render the stub
//     and write the result under the configured project paths
//   - Key Types: Generator, ControllerOptions, ModelOptions, MigrationOptions, RouteOptions
//   - Concurrency Model: Sequential; one Generator per command invocation
//   - Error Semantics: INVALID_ARGUMENT for bad names or fields, ALREADY_EXISTS when a
//     target exists without Force, NOT_FOUND for unknown ORMs or stubs
//
// Usage:
//
//	gen := generator.New(fs, stubs, orms, config, logger)
//	written, err := gen.Model(generator.ModelOptions{Name: "post", Fields: "title:string", Migration: true})
package generator

import (
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"go.eggybyte.com/yolk/internal/configschema"
	"go.eggybyte.com/yolk/internal/errors"
	"go.eggybyte.com/yolk/internal/log"
	"go.eggybyte.com/yolk/internal/naming"
	"go.eggybyte.com/yolk/internal/orm"
	"go.eggybyte.com/yolk/internal/projectfs"
	"go.eggybyte.com/yolk/internal/stub"
)

// Generator writes scaffolding files into a project.
type Generator struct {
	fs     *projectfs.ProjectFS
	stubs  *stub.Loader
	orms   *orm.Registry
	config *configschema.Config
	clock  func() time.Time
	logger log.Logger
}

// ControllerOptions configures Controller.
type ControllerOptions struct {
	Name     string // "post", "PostsController", "admin/user"
	ORM      string // Overrides the configured ORM for resource controllers
	Resource bool   // Generate CRUD actions bound to a model
	Model    string // Model for resource actions (default: singular of Name)
	Force    bool
}

// ModelOptions configures Model.
type ModelOptions struct {
	Name      string
	ORM       string
	Fields    string // Field spec, e.g. "title:string:required body:text"
	Migration bool   // Also write a create_<table>_table migration
	Force     bool
}

// MigrationOptions configures Migration.
type MigrationOptions struct {
	Name   string // e.g. "add_slug_to_posts"
	ORM    string
	Table  string // Overrides the table inferred from Name
	Fields string
	Force  bool
}

// RouteOptions configures Route.
type RouteOptions struct {
	Name       string
	Controller string // Controller to bind (default: Name)
	Resource   bool   // Generate all CRUD routes
	Force      bool
}

// file is a rendered output waiting to be written.
type file struct {
	path    string
	content string
}

// New creates a Generator.
//
// Parameters:
//   - fs: Project file system rooted at the project directory
//   - stubs: Stub loader (project overrides plus embedded defaults)
//   - orms: ORM adapter registry
//   - config: Loaded project configuration (nil means defaults)
//   - logger: Logger for generated files (nil means discard)
//
// Returns:
//   - *Generator: Generator using the wall clock for migration timestamps
func New(fs *projectfs.ProjectFS, stubs *stub.Loader, orms *orm.Registry, config *configschema.Config, logger log.Logger) *Generator {
	if config == nil {
		config = configschema.Default(orm.DefaultAdapter)
	}
	if logger == nil {
		logger = log.Nop()
	}
	return &Generator{
		fs:     fs,
		stubs:  stubs,
		orms:   orms,
		config: config,
		clock:  time.Now,
		logger: logger,
	}
}

// SetClock replaces the clock used for migration timestamps.
func (g *Generator) SetClock(clock func() time.Time) {
	g.clock = clock
}

// Controller writes <paths.controllers>/<dir>/<PascalPlural>Controller.js.
func (g *Generator) Controller(opts ControllerOptions) ([]string, error) {
	n, err := naming.Parse(opts.Name, "controller")
	if err != nil {
		return nil, err
	}

	className := n.PascalPlural + "Controller"
	target := path.Join(g.config.Paths.Controllers, n.Dir, className+".js")

	stubName := "controller.stub"
	vars := map[string]string{"controllerName": className}

	if opts.Resource {
		adapter, err := g.orms.Resolve(opts.ORM, g.config.ORM)
		if err != nil {
			return nil, err
		}
		modelRaw := opts.Model
		if modelRaw == "" {
			modelRaw = path.Join(n.Dir, n.Singular)
		}
		model, err := naming.Parse(modelRaw, "model")
		if err != nil {
			return nil, err
		}

		style := adapter.ControllerStyle()
		stubName = "controller.resource." + style + ".stub"
		vars["modelName"] = model.Pascal
		vars["modelImport"] = importPath(path.Dir(target), g.modelImportTarget(style, model))
		vars["collectionVariable"] = model.CamelPlural
		vars["modelVariable"] = model.Camel
	}

	content, err := g.stubs.Render(stubName, vars)
	if err != nil {
		return nil, err
	}
	return g.write([]file{{path: target, content: content}}, opts.Force)
}

// Model writes <paths.models>/<dir>/<Pascal>.js and, with Migration, its create migration.
func (g *Generator) Model(opts ModelOptions) ([]string, error) {
	n, err := naming.Parse(opts.Name, "model")
	if err != nil {
		return nil, err
	}
	adapter, err := g.orms.Resolve(opts.ORM, g.config.ORM)
	if err != nil {
		return nil, err
	}
	fields, err := adapter.ParseModelFields(opts.Fields)
	if err != nil {
		return nil, err
	}
	g.logger.Debug("parsed model fields", log.Str("model", n.Pascal), log.Strs("fields", orm.FieldNames(fields)))

	content, err := g.stubs.Render("model."+adapter.Name()+".stub", map[string]string{
		"modelName":     n.Pascal,
		"modelVariable": n.Camel,
		"tableName":     n.SnakePlural,
		"attributes":    adapter.ModelDefinition(fields),
	})
	if err != nil {
		return nil, err
	}

	files := []file{{path: path.Join(g.config.Paths.Models, n.Dir, n.Pascal+".js"), content: content}}

	if opts.Migration {
		migration, err := g.renderMigration(adapter, "create_"+n.SnakePlural+"_table", n.SnakePlural, fields, opts.Force)
		if err != nil {
			return nil, err
		}
		files = append(files, migration)
	}

	return g.write(files, opts.Force)
}

// Migration writes <paths.migrations>/<timestamp>-<kebab name>.js.
func (g *Generator) Migration(opts MigrationOptions) ([]string, error) {
	adapter, err := g.orms.Resolve(opts.ORM, g.config.ORM)
	if err != nil {
		return nil, err
	}
	fields, err := adapter.ParseModelFields(opts.Fields)
	if err != nil {
		return nil, err
	}

	migration, err := g.renderMigration(adapter, opts.Name, opts.Table, fields, opts.Force)
	if err != nil {
		return nil, err
	}
	return g.write([]file{migration}, opts.Force)
}

// Route writes <paths.routes>/<dir>/<kebab plural>.js bound to a controller.
func (g *Generator) Route(opts RouteOptions) ([]string, error) {
	n, err := naming.Parse(opts.Name, "route")
	if err != nil {
		return nil, err
	}

	controllerRaw := opts.Controller
	if controllerRaw == "" {
		controllerRaw = path.Join(n.Dir, n.Singular)
	}
	controller, err := naming.Parse(controllerRaw, "controller")
	if err != nil {
		return nil, err
	}

	target := path.Join(g.config.Paths.Routes, n.Dir, n.KebabPlural+".js")
	controllerFile := path.Join(g.config.Paths.Controllers, controller.Dir, controller.PascalPlural+"Controller")

	stubName := "route.stub"
	if opts.Resource {
		stubName = "route.resource.stub"
	}
	content, err := g.stubs.Render(stubName, map[string]string{
		"controllerVariable": controller.CamelPlural + "Controller",
		"controllerImport":   importPath(path.Dir(target), controllerFile),
		"resourcePath":       "/" + path.Join(n.Dir, n.KebabPlural),
	})
	if err != nil {
		return nil, err
	}
	return g.write([]file{{path: target, content: content}}, opts.Force)
}

// renderMigration asks the adapter for a migration and refuses a second migration
// with the same name unless force is set.
func (g *Generator) renderMigration(adapter orm.Adapter, name, table string, fields []orm.Field, force bool) (file, error) {
	if naming.Snake(name) == "" {
		return file{}, errors.New(errors.CodeInvalidArgument, "migration name must not be empty")
	}
	if strings.ContainsAny(name, `/\.`) {
		return file{}, errors.Newf(errors.CodeInvalidArgument, "migration name %q must not contain path characters", name)
	}

	migration, err := adapter.CreateMigration(orm.MigrationRequest{
		Name:   naming.Snake(name),
		Table:  table,
		Fields: fields,
		Now:    g.clock(),
		Stubs:  g.stubs,
	})
	if err != nil {
		return file{}, err
	}

	if !force {
		if existing, err := g.existingMigration(naming.Kebab(name)); err != nil {
			return file{}, err
		} else if existing != "" {
			return file{}, errors.Newf(errors.CodeAlreadyExists,
				"a migration named %s already exists: %s (use --force to add another)", naming.Snake(name), existing)
		}
	}

	return file{path: path.Join(g.config.Paths.Migrations, migration.Filename), content: migration.Content}, nil
}

// migrationFilePattern captures the kebab name of a "<timestamp>-<name>" file.
var migrationFilePattern = regexp.MustCompile(`^\d{14}-(.+)$`)

func (g *Generator) existingMigration(kebab string) (string, error) {
	names, err := g.fs.ListFiles(g.config.Paths.Migrations)
	if errors.IsCode(err, errors.CodeNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	for _, name := range names {
		m := migrationFilePattern.FindStringSubmatch(orm.StripExtension(name))
		if m != nil && m[1] == kebab {
			return name, nil
		}
	}
	return "", nil
}

// write checks every target before writing any of them.
func (g *Generator) write(files []file, force bool) ([]string, error) {
	if !force {
		for _, f := range files {
			exists, err := g.fs.FileExists(f.path)
			if err != nil {
				return nil, err
			}
			if exists {
				return nil, errors.Newf(errors.CodeAlreadyExists, "%s already exists (use --force to overwrite)", f.path)
			}
		}
	}

	written := make([]string, 0, len(files))
	for _, f := range files {
		if err := g.fs.CreateFile(f.path, f.content, force); err != nil {
			return written, err
		}
		g.logger.Info("generated file", log.Str("path", f.path))
		written = append(written, f.path)
	}
	return written, nil
}

// modelImportTarget returns what a resource controller requires for model.
// Sequelize projects load models through the models/index.js registry.
func (g *Generator) modelImportTarget(style string, model naming.Name) string {
	if style == "sequelize" {
		return g.config.Paths.Models
	}
	return path.Join(g.config.Paths.Models, model.Dir, model.Pascal)
}

// importPath returns a relative require() path from dir to target.
func importPath(dir, target string) string {
	rel, err := filepath.Rel(filepath.FromSlash(dir), filepath.FromSlash(strings.TrimSuffix(target, ".js")))
	if err != nil {
		return target
	}
	rel = filepath.ToSlash(rel)
	if !strings.HasPrefix(rel, ".") {
		rel = "./" + rel
	}
	return rel
}
