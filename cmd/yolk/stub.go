// Package main provides the yolk stub:publish command.
//
// Usage:
//
//	yolk stub:publish [--force]
package main

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"go.eggybyte.com/yolk/internal/command"
	"go.eggybyte.com/yolk/internal/ui"
)

func init() {
	core(command.Command{
		Name:    "stub:publish",
		Summary: "Copy the default stubs into the project for customization",
		Args:    cobra.NoArgs,
		Flags: func(fs *pflag.FlagSet) {
			fs.BoolP("force", "f", false, "Overwrite stubs already in the project")
		},
		Run: runStubPublish,
	})
}

func runStubPublish(ctx context.Context, inv *command.Invocation) error {
	a, err := loadApp()
	if err != nil {
		return err
	}

	written, skipped, err := a.stubs.Publish(boolFlag(inv, "force"))
	if err != nil {
		return err
	}

	if ui.JSONOutput() {
		ui.Result(map[string]any{"written": written, "skipped": skipped}, "")
		return nil
	}
	for _, path := range written {
		ui.Success("Published %s", path)
	}
	for _, path := range skipped {
		ui.Warning("Skipped %s (exists, use --force to overwrite)", path)
	}
	ui.Info("Stubs in %s now take precedence over the built-in ones", a.stubs.OverrideDir())
	return nil
}
