// Package main provides the yolk doctor command.
//
// Overview:
//   - Responsibility: Diagnose the Node.js toolchain, migration CLIs, configuration
//     and database reachability for the current project
//   - Error Semantics: Missing required tools or invalid configuration fail the command;
//     optional problems are reported as warnings
//
// Usage:
//
//	yolk doctor
package main

import (
	"context"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"go.eggybyte.com/yolk/internal/command"
	"go.eggybyte.com/yolk/internal/configschema"
	"go.eggybyte.com/yolk/internal/errors"
	"go.eggybyte.com/yolk/internal/orm/mongoose"
	"go.eggybyte.com/yolk/internal/orm/sequelize"
	"go.eggybyte.com/yolk/internal/toolrunner"
	"go.eggybyte.com/yolk/internal/ui"
)

// doctorDBTimeout bounds the database reachability check.
const doctorDBTimeout = 10 * time.Second

// migrationCLIs maps an ORM to the npx package that runs its migrations.
var migrationCLIs = map[string]string{
	sequelize.Name: "sequelize-cli",
	mongoose.Name:  "migrate-mongo",
}

func init() {
	core(command.Command{
		Name:    "doctor",
		Summary: "Diagnose the development environment",
		Args:    cobra.NoArgs,
		Run:     runDoctor,
	})
}

func runDoctor(ctx context.Context, inv *command.Invocation) error {
	ui.Info("yolk environment diagnostics")
	separator := strings.Repeat("=", 60)
	ui.Info("%s", separator)
	ui.Info("")

	hasErrors := false
	hasWarnings := false

	ui.Info("System Information")
	ui.Info("  OS/Arch: %s/%s", runtime.GOOS, runtime.GOARCH)
	ui.Info("")

	a, err := loadApp()
	if err != nil {
		ui.Error("  [x] Configuration: %v", err)
		return errors.New(errors.CodeInvalidArgument, "environment check failed")
	}
	a.exec.SetStream(nil, nil)

	ui.Info("Node.js Toolchain")
	for _, tool := range []string{"node", "npx"} {
		if v, err := checkTool(ctx, a.exec, tool); err != nil {
			ui.Error("  [x] %s: %v", tool, err)
			hasErrors = true
		} else {
			ui.Success("  [+] %s %s", tool, v)
		}
	}
	ui.Info("")

	ui.Info("Migration Tool")
	if cli, ok := migrationCLIs[a.config.ORM]; ok {
		if _, err := a.exec.Npx(ctx, "--no-install", cli, "--version"); err != nil {
			ui.Warning("  [!] %s is not installed locally (npm install --save-dev %s)", cli, cli)
			hasWarnings = true
		} else {
			ui.Success("  [+] %s", cli)
		}
	} else {
		ui.Warning("  [!] no known migration CLI for %s", a.config.ORM)
		hasWarnings = true
	}
	ui.Info("")

	ui.Info("Configuration")
	if exists, _ := a.fs.FileExists(configPath(a.root)); !exists {
		ui.Warning("  [!] %s not found, using defaults (run 'yolk init')", configFile)
		hasWarnings = true
	} else {
		ui.Success("  [+] %s (orm %s, dialect %s)", configFile, a.config.ORM, a.config.Database.Dialect)
	}
	for _, d := range a.diags.Items() {
		if d.Severity == configschema.SeverityWarning {
			ui.Warning("  [!] %s", d.Message)
			hasWarnings = true
		}
	}
	for _, dir := range []string{a.config.Paths.Controllers, a.config.Paths.Models, a.config.Paths.Migrations, a.config.Paths.Routes} {
		if exists, _ := a.fs.DirectoryExists(dir); !exists {
			ui.Warning("  [!] %s/ does not exist yet", dir)
			hasWarnings = true
		}
	}
	ui.Info("")

	ui.Info("Database")
	r := a.runner()
	if r.DatabaseURL() == "" {
		ui.Warning("  [!] no database URL configured (database.url or DATABASE_URL)")
		hasWarnings = true
	} else {
		checkCtx, cancel := context.WithTimeout(ctx, doctorDBTimeout)
		err := r.Check(checkCtx, "")
		cancel()
		if err != nil {
			ui.Error("  [x] %v", err)
			hasErrors = true
		} else {
			ui.Success("  [+] %s database reachable", a.config.Database.Dialect)
		}
	}

	ui.Info("")
	ui.Info("%s", separator)
	if hasErrors {
		ui.Error("Diagnostics completed with ERRORS")
		return errors.New(errors.CodeUnavailable, "environment check failed")
	} else if hasWarnings {
		ui.Warning("Diagnostics completed with WARNINGS")
	} else {
		ui.Success("All checks passed - environment ready")
	}
	return nil
}

// checkTool verifies a tool is on PATH and returns its version.
func checkTool(ctx context.Context, runner *toolrunner.Runner, tool string) (string, error) {
	if available, _ := toolrunner.CheckToolAvailability(tool); !available {
		return "", errors.New(errors.CodeUnavailable, "not found in PATH")
	}
	return runner.Version(ctx, tool, "--version")
}
