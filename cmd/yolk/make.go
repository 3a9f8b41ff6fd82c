// Package main provides the yolk generator commands.
//
// Usage:
//
//	yolk make:controller posts --resource
//	yolk make:model post title:string:required body:text --migration
//	yolk make:migration add_slug_to_posts slug:string:unique
//	yolk make:route posts --resource
package main

import (
	"context"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"go.eggybyte.com/yolk/internal/command"
	"go.eggybyte.com/yolk/internal/generator"
	"go.eggybyte.com/yolk/internal/ui"
)

func init() {
	core(command.Command{
		Name:    "make:controller",
		Summary: "Create a controller",
		Usage:   "<name>",
		Args:    cobra.ExactArgs(1),
		Flags: func(fs *pflag.FlagSet) {
			writeFlags(fs)
			fs.String("orm", "", "ORM for resource actions (default: from yolk.yaml)")
			fs.BoolP("resource", "r", false, "Generate index/show/store/update/destroy actions")
			fs.StringP("model", "m", "", "Model used by resource actions (default: singular of name)")
		},
		Run: runMakeController,
	})

	core(command.Command{
		Name:    "make:model",
		Summary: "Create a model",
		Usage:   "<name> [field:type[:modifier]...]",
		Args:    cobra.MinimumNArgs(1),
		Flags: func(fs *pflag.FlagSet) {
			writeFlags(fs)
			fs.String("orm", "", "ORM to generate for (default: from yolk.yaml)")
			fs.String("fields", "", "Fields, e.g. \"title:string:required,body:text\"")
			fs.BoolP("migration", "m", false, "Also create a migration for the table")
		},
		Run: runMakeModel,
	})

	core(command.Command{
		Name:    "make:migration",
		Summary: "Create a migration",
		Usage:   "<name> [field:type[:modifier]...]",
		Args:    cobra.MinimumNArgs(1),
		Flags: func(fs *pflag.FlagSet) {
			writeFlags(fs)
			fs.String("orm", "", "ORM to generate for (default: from yolk.yaml)")
			fs.String("fields", "", "Columns for create and add migrations")
			fs.String("table", "", "Table or collection (default: inferred from name)")
		},
		Run: runMakeMigration,
	})

	core(command.Command{
		Name:    "make:route",
		Summary: "Create a route file",
		Usage:   "<name>",
		Args:    cobra.ExactArgs(1),
		Flags: func(fs *pflag.FlagSet) {
			writeFlags(fs)
			fs.StringP("controller", "c", "", "Controller to bind (default: name)")
			fs.BoolP("resource", "r", false, "Generate routes for every resource action")
		},
		Run: runMakeRoute,
	})
}

// writeFlags adds the flags shared by every generator.
func writeFlags(fs *pflag.FlagSet) {
	fs.BoolP("force", "f", false, "Overwrite existing files")
	fs.Bool("dry-run", false, "Print generated files instead of writing them")
}

func runMakeController(ctx context.Context, inv *command.Invocation) error {
	gen, err := newGenerator(inv)
	if err != nil {
		return err
	}
	written, err := gen.Controller(generator.ControllerOptions{
		Name:     inv.Args[0],
		ORM:      stringFlag(inv, "orm"),
		Resource: boolFlag(inv, "resource"),
		Model:    stringFlag(inv, "model"),
		Force:    boolFlag(inv, "force"),
	})
	return reportWritten(inv, "controller", written, err)
}

func runMakeModel(ctx context.Context, inv *command.Invocation) error {
	gen, err := newGenerator(inv)
	if err != nil {
		return err
	}
	written, err := gen.Model(generator.ModelOptions{
		Name:      inv.Args[0],
		ORM:       stringFlag(inv, "orm"),
		Fields:    fieldSpec(inv),
		Migration: boolFlag(inv, "migration"),
		Force:     boolFlag(inv, "force"),
	})
	return reportWritten(inv, "model", written, err)
}

func runMakeMigration(ctx context.Context, inv *command.Invocation) error {
	gen, err := newGenerator(inv)
	if err != nil {
		return err
	}
	written, err := gen.Migration(generator.MigrationOptions{
		Name:   inv.Args[0],
		ORM:    stringFlag(inv, "orm"),
		Table:  stringFlag(inv, "table"),
		Fields: fieldSpec(inv),
		Force:  boolFlag(inv, "force"),
	})
	return reportWritten(inv, "migration", written, err)
}

func runMakeRoute(ctx context.Context, inv *command.Invocation) error {
	gen, err := newGenerator(inv)
	if err != nil {
		return err
	}
	written, err := gen.Route(generator.RouteOptions{
		Name:       inv.Args[0],
		Controller: stringFlag(inv, "controller"),
		Resource:   boolFlag(inv, "resource"),
		Force:      boolFlag(inv, "force"),
	})
	return reportWritten(inv, "route", written, err)
}

func newGenerator(inv *command.Invocation) (*generator.Generator, error) {
	a, err := loadApp()
	if err != nil {
		return nil, err
	}
	if boolFlag(inv, "dry-run") {
		a.fs.SetDryRun(inv.Stdout)
	}
	return a.generator(), nil
}

// fieldSpec joins positional fields after the name with --fields.
func fieldSpec(inv *command.Invocation) string {
	parts := append([]string(nil), inv.Args[1:]...)
	if f := stringFlag(inv, "fields"); f != "" {
		parts = append(parts, f)
	}
	return strings.Join(parts, " ")
}

func reportWritten(inv *command.Invocation, kind string, written []string, err error) error {
	if err != nil {
		return err
	}
	if ui.JSONOutput() {
		ui.Result(map[string]any{"kind": kind, "files": written, "dryRun": boolFlag(inv, "dry-run")}, "")
		return nil
	}
	if boolFlag(inv, "dry-run") {
		return nil
	}
	for _, path := range written {
		ui.Success("Created %s", path)
	}
	return nil
}

func stringFlag(inv *command.Invocation, name string) string {
	v, _ := inv.Flags.GetString(name)
	return v
}

func boolFlag(inv *command.Invocation, name string) bool {
	v, _ := inv.Flags.GetBool(name)
	return v
}

func intFlag(inv *command.Invocation, name string) int {
	v, _ := inv.Flags.GetInt(name)
	return v
}
