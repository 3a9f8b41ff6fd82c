// Package main provides the yolk CLI entry point.
//
// Overview:
//   - Responsibility: Build the cobra command tree from the command registry and run it
//   - Key Types: Cobra command structure, command.Registry
//   - Concurrency Model: Single-threaded CLI execution; SIGINT cancels the context
//   - Error Semantics: Errors are printed once and mapped to exit codes by errors.ExitCode
//
// Usage:
//
//	yolk [command] [flags]
package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"go.eggybyte.com/yolk/internal/command"
	"go.eggybyte.com/yolk/internal/configschema"
	"go.eggybyte.com/yolk/internal/errors"
	"go.eggybyte.com/yolk/internal/ui"
)

var (
	verbose        bool
	nonInteractive bool
	jsonOutput     bool
	configFile     string
	workDir        string
)

// registry holds every command; core commands register from init functions.
var registry = command.NewRegistry()

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "yolk",
	Short: "Scaffolding for Node.js web applications",
	Long: `yolk generates controllers, models, migrations and routes for Node.js
web applications and runs migrations through the project's ORM tooling.

Supported ORMs:
- Sequelize (sequelize-cli migrations)
- Mongoose (migrate-mongo migrations)

Commands read yolk.yaml from the project root. Commands declared under
"commands:" in yolk.yaml run as project scripts.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		ui.SetVerbose(verbose)
		ui.SetNonInteractive(nonInteractive)
		ui.SetJSONOutput(jsonOutput)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", configschema.DefaultFile, "Configuration file, relative to --cwd")
	rootCmd.PersistentFlags().StringVar(&workDir, "cwd", ".", "Project root directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "V", false, "Enable verbose output and debug logs")
	rootCmd.PersistentFlags().BoolVar(&nonInteractive, "non-interactive", false, "Disable interactive prompts")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")

	rootCmd.AddGroup(
		&cobra.Group{ID: string(command.SourceCore), Title: "Commands:"},
		&cobra.Group{ID: string(command.SourceUser), Title: "Project commands:"},
	)
	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return errors.Wrap(errors.CodeInvalidArgument, cmd.Name(), err)
	})
}

// core registers a built-in command.
func core(cmd command.Command) {
	cmd.Source = command.SourceCore
	if err := registry.Register(cmd); err != nil {
		panic(err)
	}
}

// Execute builds the command tree, runs it and returns the process exit code.
func Execute(args []string) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	resetFlags()
	rootCmd.ResetCommands()
	registry.RemoveSource(command.SourceUser)
	registerProjectCommands(args)
	for _, c := range registry.List() {
		cc := c.Cobra()
		cc.GroupID = string(c.Source)
		rootCmd.AddCommand(cc)
	}

	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(ctx)
	closeApp()

	if err != nil {
		if errors.CodeOf(err) == "" && strings.HasPrefix(err.Error(), "unknown command") {
			err = errors.Wrap(errors.CodeNotFound, "yolk", err)
		}
		ui.Error("%v", err)
	}
	return errors.ExitCode(err)
}

// registerProjectCommands adds the commands declared in yolk.yaml. Global flags
// are parsed ahead of cobra so --cwd and --config select the right file.
func registerProjectCommands(args []string) {
	fs := pflag.NewFlagSet("yolk", pflag.ContinueOnError)
	fs.ParseErrorsWhitelist.UnknownFlags = true
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}
	fs.StringVar(&workDir, "cwd", ".", "")
	fs.StringVar(&configFile, "config", configschema.DefaultFile, "")
	fs.BoolP("help", "h", false, "")
	_ = fs.Parse(args)

	root, err := projectRoot()
	if err != nil {
		return
	}
	config, _ := configschema.Load(configPath(root), configschema.Schema{})
	if config == nil {
		return
	}

	for name, spec := range config.Commands {
		// Names taken by core commands are rejected here and reported as
		// config warnings once the app loads.
		_ = registry.Register(command.Script(name, spec, appExecutor{}))
	}
}

// resetFlags restores global flag defaults so Execute can run more than once.
func resetFlags() {
	rootCmd.PersistentFlags().VisitAll(func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	})
}

// main is the entry point for the yolk CLI tool.
func main() {
	os.Exit(Execute(os.Args[1:]))
}
