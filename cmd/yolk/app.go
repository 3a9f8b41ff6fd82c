package main

import (
	"context"
	"os"
	"path/filepath"

	"go.eggybyte.com/yolk/internal/command"
	"go.eggybyte.com/yolk/internal/configschema"
	"go.eggybyte.com/yolk/internal/envloader"
	"go.eggybyte.com/yolk/internal/errors"
	"go.eggybyte.com/yolk/internal/generator"
	"go.eggybyte.com/yolk/internal/log"
	"go.eggybyte.com/yolk/internal/logx"
	"go.eggybyte.com/yolk/internal/orm"
	"go.eggybyte.com/yolk/internal/orm/mongoose"
	"go.eggybyte.com/yolk/internal/orm/sequelize"
	"go.eggybyte.com/yolk/internal/projectfs"
	"go.eggybyte.com/yolk/internal/runner"
	"go.eggybyte.com/yolk/internal/stub"
	"go.eggybyte.com/yolk/internal/toolrunner"
	"go.eggybyte.com/yolk/internal/ui"
)

// app is the per-invocation wiring shared by command handlers.
type app struct {
	root   string
	config *configschema.Config
	diags  *configschema.Diagnostics
	logger log.Logger
	fs     *projectfs.ProjectFS
	stubs  *stub.Loader
	orms   *orm.Registry
	exec   *toolrunner.Runner
	env    []string
}

var current *app

// loadApp loads configuration and builds the shared components once.
func loadApp() (*app, error) {
	if current != nil {
		return current, nil
	}

	root, err := projectRoot()
	if err != nil {
		return nil, err
	}
	orms, err := newORMRegistry()
	if err != nil {
		return nil, err
	}

	config, diags := configschema.Load(configPath(root), configSchema(orms))
	if diags.HasErrors() {
		reportDiagnostics(diags)
		return nil, diags.Err()
	}
	for _, d := range diags.Items() {
		if d.Severity == configschema.SeverityWarning {
			ui.Warning("%s", d.Message)
		}
	}

	logger := newLogger(root, config)

	env, _, err := envloader.LoadProject(root, os.Environ())
	if err != nil {
		return nil, err
	}

	exec := toolrunner.NewRunner(root, logger)
	exec.SetEnv(env)
	if !ui.JSONOutput() {
		exec.SetStream(ui.Stdout(), os.Stderr)
	}

	fs := projectfs.NewProjectFS(root, logger)
	logger.Debug("project loaded", log.Str("root", root), log.Str("orm", config.ORM))

	current = &app{
		root:   root,
		config: config,
		diags:  diags,
		logger: logger,
		fs:     fs,
		stubs:  stub.NewLoader(fs, config.Paths.Stubs, logger),
		orms:   orms,
		exec:   exec,
		env:    env,
	}
	return current, nil
}

// closeApp flushes buffered logs.
func closeApp() {
	if current == nil {
		return
	}
	if s, ok := current.logger.(interface{ Sync() error }); ok {
		_ = s.Sync()
	}
	current = nil
}

func (a *app) generator() *generator.Generator {
	return generator.New(a.fs, a.stubs, a.orms, a.config, a.logger)
}

func (a *app) runner() *runner.Runner {
	r := runner.New(a.orms, a.exec, a.fs, a.config, a.logger)
	r.SetEnv(a.env)
	return r
}

// newORMRegistry registers the built-in adapters.
func newORMRegistry() (*orm.Registry, error) {
	orms := orm.NewRegistry()
	for _, a := range []orm.Adapter{sequelize.New(), mongoose.New()} {
		if err := orms.Register(a); err != nil {
			return nil, err
		}
	}
	return orms, nil
}

func configSchema(orms *orm.Registry) configschema.Schema {
	return configschema.Schema{
		ORMs:         orms.Dialects(),
		CoreCommands: registry.Names(command.SourceCore),
	}
}

func newLogger(root string, config *configschema.Config) log.Logger {
	level := config.Log.Level
	if verbose {
		level = "debug"
	}
	opts := []logx.Option{
		logx.WithLevel(level),
		logx.WithFormat(logx.Format(config.Log.Format)),
	}
	if config.Log.File != "" {
		path := config.Log.File
		if !filepath.IsAbs(path) {
			path = filepath.Join(root, path)
		}
		opts = append(opts, logx.WithFile(logx.FileOptions{Path: path}))
	}
	return logx.New(opts...)
}

func projectRoot() (string, error) {
	root, err := filepath.Abs(workDir)
	if err != nil {
		return "", errors.Wrap(errors.CodeInvalidArgument, "cwd", err)
	}
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return "", errors.Newf(errors.CodeNotFound, "project directory %s does not exist", root)
	}
	return root, nil
}

func configPath(root string) string {
	if filepath.IsAbs(configFile) {
		return configFile
	}
	return filepath.Join(root, configFile)
}

func reportDiagnostics(diags *configschema.Diagnostics) {
	for _, d := range diags.Items() {
		switch d.Severity {
		case configschema.SeverityError:
			ui.Error("%s: %s", d.Path, d.Message)
		case configschema.SeverityWarning:
			ui.Warning("%s: %s", d.Path, d.Message)
		default:
			ui.Debug("%s: %s", d.Path, d.Message)
		}
		if d.Suggestion != "" {
			ui.Info("  Suggestion: %s", d.Suggestion)
		}
	}
}

// appExecutor runs project scripts through the loaded app's runner, so scripts
// see the project's .env and working directory.
type appExecutor struct{}

func (appExecutor) Exec(ctx context.Context, name string, args ...string) (*toolrunner.CommandResult, error) {
	a, err := loadApp()
	if err != nil {
		return nil, err
	}
	return a.exec.Exec(ctx, name, args...)
}

func (appExecutor) Npx(ctx context.Context, args ...string) (*toolrunner.CommandResult, error) {
	a, err := loadApp()
	if err != nil {
		return nil, err
	}
	return a.exec.Npx(ctx, args...)
}

func (appExecutor) Shell(ctx context.Context, script string, args ...string) (*toolrunner.CommandResult, error) {
	a, err := loadApp()
	if err != nil {
		return nil, err
	}
	return a.exec.Shell(ctx, script, args...)
}
