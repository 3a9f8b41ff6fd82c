// Package main provides the yolk version command.
//
// Usage:
//
//	yolk version
//	yolk --version
package main

import (
	"context"

	"github.com/spf13/cobra"

	"go.eggybyte.com/yolk/internal/command"
	"go.eggybyte.com/yolk/internal/ui"
	"go.eggybyte.com/yolk/internal/version"
)

func init() {
	core(command.Command{
		Name:    "version",
		Summary: "Show yolk version information",
		Args:    cobra.NoArgs,
		Run:     runVersion,
	})

	rootCmd.Version = version.GetVersionString()
	rootCmd.SetVersionTemplate(`{{.Version}}
`)
}

func runVersion(ctx context.Context, inv *command.Invocation) error {
	ui.Result(version.Get(), version.GetFullVersionInfo())
	return nil
}
