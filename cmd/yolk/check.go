// Package main provides the yolk check command.
//
// Usage:
//
//	yolk check
package main

import (
	"context"

	"github.com/spf13/cobra"

	"go.eggybyte.com/yolk/internal/command"
	"go.eggybyte.com/yolk/internal/errors"
	"go.eggybyte.com/yolk/internal/lint"
	"go.eggybyte.com/yolk/internal/ui"
)

func init() {
	core(command.Command{
		Name:    "check",
		Summary: "Check project structure, migrations, routes and stubs for problems",
		Args:    cobra.NoArgs,
		Run:     runCheck,
	})
}

func runCheck(ctx context.Context, inv *command.Invocation) error {
	a, err := loadApp()
	if err != nil {
		return err
	}

	results, err := lint.NewLinter(a.logger).Check(a.config, a.diags, a.fs, configFile)
	if err != nil {
		return err
	}

	if ui.JSONOutput() {
		ui.Result(results, "")
	} else {
		displayLintResults(results)
	}

	if results.ErrorCount > 0 {
		return errors.Newf(errors.CodeInvalidArgument, "project check failed with %d errors", results.ErrorCount)
	}

	if results.WarningCount > 0 {
		ui.Warning("Project check completed with %d warnings and %d info messages",
			results.WarningCount, results.InfoCount)
	} else {
		ui.Success("Project check passed")
	}
	return nil
}

// displayLintResults prints findings grouped by level.
func displayLintResults(results *lint.LintResults) {
	groups := []struct {
		level  string
		header func(string, ...any)
		title  string
	}{
		{lint.LevelError, ui.Error, "Errors found:"},
		{lint.LevelWarning, ui.Warning, "Warnings found:"},
		{lint.LevelInfo, ui.Info, "Info:"},
	}

	for _, group := range groups {
		var matched []lint.LintResult
		for _, result := range results.Results {
			if result.Level == group.level {
				matched = append(matched, result)
			}
		}
		if len(matched) == 0 {
			continue
		}

		ui.Info("")
		group.header("%s", group.title)
		for _, result := range matched {
			ui.Info("  %s: %s", result.Path, result.Message)
			if result.Suggestion != "" {
				ui.Info("    Suggestion: %s", result.Suggestion)
			}
		}
	}
}
