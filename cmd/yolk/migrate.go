// Package main provides the yolk migration commands.
//
// Usage:
//
//	yolk migrate
//	yolk migrate:rollback --step 2
//	yolk migrate:status
//	yolk db:check
package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"go.eggybyte.com/yolk/internal/command"
	"go.eggybyte.com/yolk/internal/runner"
	"go.eggybyte.com/yolk/internal/ui"
)

func init() {
	ormFlag := func(fs *pflag.FlagSet) {
		fs.String("orm", "", "ORM whose migration tool runs (default: from yolk.yaml)")
	}

	core(command.Command{
		Name:    "migrate",
		Summary: "Run pending migrations",
		Args:    cobra.NoArgs,
		Flags:   ormFlag,
		Run:     runMigrate,
	})

	core(command.Command{
		Name:    "migrate:rollback",
		Summary: "Revert the latest migrations",
		Args:    cobra.NoArgs,
		Flags: func(fs *pflag.FlagSet) {
			ormFlag(fs)
			fs.Int("step", 1, "Number of migrations to revert")
			fs.Bool("all", false, "Revert every migration")
		},
		Run: runMigrateRollback,
	})

	core(command.Command{
		Name:    "migrate:status",
		Summary: "Show applied and pending migrations",
		Args:    cobra.NoArgs,
		Flags:   ormFlag,
		Run:     runMigrateStatus,
	})

	core(command.Command{
		Name:    "db:check",
		Summary: "Check that the database is reachable",
		Args:    cobra.NoArgs,
		Flags:   ormFlag,
		Run:     runDBCheck,
	})
}

func runMigrate(ctx context.Context, inv *command.Invocation) error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	ui.Info("Running migrations...")
	if err := a.runner().Migrate(ctx, stringFlag(inv, "orm")); err != nil {
		return err
	}
	ui.Success("Migrations applied")
	return nil
}

func runMigrateRollback(ctx context.Context, inv *command.Invocation) error {
	a, err := loadApp()
	if err != nil {
		return err
	}

	all := boolFlag(inv, "all")
	step := intFlag(inv, "step")
	if all && !ui.Confirm("Revert every migration?") {
		ui.Info("Rollback cancelled")
		return nil
	}

	if err := a.runner().Rollback(ctx, stringFlag(inv, "orm"), step, all); err != nil {
		return err
	}
	if all {
		ui.Success("All migrations reverted")
	} else {
		ui.Success("Reverted %d migration(s)", max(step, 1))
	}
	return nil
}

func runMigrateStatus(ctx context.Context, inv *command.Invocation) error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	status, err := a.runner().Status(ctx, stringFlag(inv, "orm"))
	if err != nil {
		return err
	}

	ui.Result(status, formatStatus(status))
	if !ui.JSONOutput() {
		for _, name := range status.Missing {
			ui.Warning("Applied migration %s has no file in %s", name, a.config.Paths.Migrations)
		}
	}
	return nil
}

func formatStatus(status *runner.Status) string {
	if len(status.Migrations) == 0 {
		return "No migrations found."
	}
	rows := make([][]string, 0, len(status.Migrations))
	for _, m := range status.Migrations {
		state := "Pending"
		if m.Applied {
			state = "Applied"
		}
		rows = append(rows, []string{m.Name, state})
	}
	return ui.Table([]string{"MIGRATION", "STATUS"}, rows) +
		fmt.Sprintf("\n%d applied, %d pending (%s, %s)", len(status.Migrations)-status.Pending(), status.Pending(), status.ORM, status.Dialect)
}

func runDBCheck(ctx context.Context, inv *command.Invocation) error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	if err := a.runner().Check(ctx, stringFlag(inv, "orm")); err != nil {
		return err
	}
	ui.Success("Database is reachable")
	return nil
}
