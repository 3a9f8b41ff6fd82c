// Package main provides the yolk init command.
//
// Usage:
//
//	yolk init
//	yolk init --orm mongoose --database-url mongodb://localhost:27017/blog
package main

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"go.eggybyte.com/yolk/internal/command"
	"go.eggybyte.com/yolk/internal/configschema"
	"go.eggybyte.com/yolk/internal/errors"
	"go.eggybyte.com/yolk/internal/orm"
	"go.eggybyte.com/yolk/internal/projectfs"
	"go.eggybyte.com/yolk/internal/ui"
)

func init() {
	core(command.Command{
		Name:    "init",
		Summary: "Create yolk.yaml and the project directories",
		Args:    cobra.NoArgs,
		Flags: func(fs *pflag.FlagSet) {
			fs.String("orm", orm.DefaultAdapter, "ORM used by generators and migrations")
			fs.String("dialect", "", "Database dialect (default: postgres for sequelize, mongodb for mongoose)")
			fs.String("database-url", "", "Database URL (DATABASE_URL in .env also works)")
			fs.String("project-name", "", "Project name (default: directory name)")
			fs.BoolP("force", "f", false, "Overwrite an existing configuration file")
		},
		Run: runInit,
	})
}

func runInit(ctx context.Context, inv *command.Invocation) error {
	root, err := projectRoot()
	if err != nil {
		return err
	}
	orms, err := newORMRegistry()
	if err != nil {
		return err
	}

	adapter, err := orms.Get(stringFlag(inv, "orm"))
	if err != nil {
		return err
	}

	config := configschema.Default(adapter.Name())
	config.ProjectName = stringFlag(inv, "project-name")
	if config.ProjectName == "" {
		config.ProjectName = filepath.Base(root)
	}
	if dialect := stringFlag(inv, "dialect"); dialect != "" {
		config.Database.Dialect = strings.ToLower(dialect)
	}
	config.Database.URL = stringFlag(inv, "database-url")

	if !orms.Supports(adapter.Name(), config.Database.Dialect) {
		return errors.Newf(errors.CodeInvalidArgument, "%s does not support the %s dialect", adapter.Name(), config.Database.Dialect)
	}

	path := configPath(root)
	fs := projectfs.NewProjectFS(root, nil)
	exists, err := fs.FileExists(path)
	if err != nil {
		return err
	}
	if exists && !boolFlag(inv, "force") {
		return errors.Newf(errors.CodeAlreadyExists, "%s already exists (use --force to overwrite)", configFile)
	}

	ui.Info("Initializing yolk project: %s", config.ProjectName)

	ui.Step(1, 2, "Writing %s", configFile)
	if err := configschema.Save(path, config); err != nil {
		return err
	}
	ui.Success("Wrote %s", configFile)

	dirs := []string{
		config.Paths.Controllers,
		config.Paths.Models,
		config.Paths.Migrations,
		config.Paths.Routes,
	}
	ui.Step(2, 2, "Creating project directories")
	for _, dir := range dirs {
		if err := fs.CreateDirectory(dir); err != nil {
			return err
		}
		ui.Success("Created %s/", dir)
	}

	ui.Info("")
	ui.Info("Next steps:")
	ui.Info("  yolk make:model post title:string --migration")
	ui.Info("  yolk migrate")
	return nil
}
