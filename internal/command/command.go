// Package command holds the registry of yolk commands.
//
// Overview:
//   - Responsibility: Map command names to handlers for core commands and user
//     commands declared in yolk.yaml, and expose them as cobra subcommands
//   - Key Types: Registry, Command, Handler, Invocation
//   - Concurrency Model: Registry is safe for concurrent use
//   - Error Semantics: INVALID_ARGUMENT for malformed names, ALREADY_EXISTS for
//     duplicates or user commands that collide with core ones, NOT_FOUND on lookup miss
//
// Usage:
//
//	reg := command.NewRegistry()
//	err := reg.Register(command.Command{Name: "make:model", Run: runMakeModel})
//	cmd, err := reg.Lookup("make:model")
package command

import (
	"context"
	"io"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"go.eggybyte.com/yolk/internal/configschema"
	"go.eggybyte.com/yolk/internal/errors"
	"go.eggybyte.com/yolk/internal/toolrunner"
)

// Source tells where a command comes from.
type Source string

const (
	SourceCore Source = "core"
	SourceUser Source = "user"
)

// Handler runs a command.
type Handler func(ctx context.Context, inv *Invocation) error

// Invocation is what a handler receives from the parser.
type Invocation struct {
	Args   []string       // Positional arguments
	Flags  *pflag.FlagSet // Parsed flags
	Stdout io.Writer
}

// Command is a registry entry.
type Command struct {
	Name    string
	Summary string
	Usage   string // Argument synopsis, e.g. "<name> [fields...]"
	Args    cobra.PositionalArgs
	Flags   func(fs *pflag.FlagSet)
	Run     Handler
	Source  Source
}

// Registry maps names to commands.
type Registry struct {
	mu       sync.RWMutex
	commands map[string]Command
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{commands: make(map[string]Command)}
}

// Register adds cmd. An empty Source means SourceCore.
//
// Parameters:
//   - cmd: Command to add; Name and Run are required
//
// Returns:
//   - error: INVALID_ARGUMENT for empty names, names with spaces or a missing handler;
//     ALREADY_EXISTS when the name is taken
func (r *Registry) Register(cmd Command) error {
	if strings.TrimSpace(cmd.Name) == "" {
		return errors.New(errors.CodeInvalidArgument, "command name must not be empty")
	}
	if strings.ContainsFunc(cmd.Name, func(r rune) bool { return r == ' ' || r == '\t' || r == '\n' }) {
		return errors.Newf(errors.CodeInvalidArgument, "command name %q must not contain spaces", cmd.Name)
	}
	if cmd.Run == nil {
		return errors.Newf(errors.CodeInvalidArgument, "command %q has no handler", cmd.Name)
	}
	if cmd.Source == "" {
		cmd.Source = SourceCore
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.commands[cmd.Name]; ok {
		if existing.Source == SourceCore && cmd.Source == SourceUser {
			return errors.Newf(errors.CodeAlreadyExists, "command %q shadows a core command", cmd.Name)
		}
		return errors.Newf(errors.CodeAlreadyExists, "command %q is already registered", cmd.Name)
	}
	r.commands[cmd.Name] = cmd
	return nil
}

// RemoveSource drops every command registered from source and returns how many were removed.
func (r *Registry) RemoveSource(source Source) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for name, cmd := range r.commands {
		if cmd.Source == source {
			delete(r.commands, name)
			removed++
		}
	}
	return removed
}

// Lookup returns the named command.
func (r *Registry) Lookup(name string) (Command, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cmd, ok := r.commands[name]
	if !ok {
		return Command{}, errors.Newf(errors.CodeNotFound, "unknown command %q (run 'yolk list')", name)
	}
	return cmd, nil
}

// List returns every command sorted by name.
func (r *Registry) List() []Command {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Command, 0, len(r.commands))
	for _, cmd := range r.commands {
		out = append(out, cmd)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Names returns the names of commands from source, sorted. An empty source means all.
func (r *Registry) Names(source Source) []string {
	var names []string
	for _, cmd := range r.List() {
		if source == "" || cmd.Source == source {
			names = append(names, cmd.Name)
		}
	}
	return names
}

// Script builds a user command that runs spec.Run through the shell.
// Positional arguments are appended to the script.
func Script(name string, spec configschema.CommandSpec, exec toolrunner.Executor) Command {
	summary := spec.Description
	if summary == "" {
		summary = "Run: " + spec.Run
	}
	return Command{
		Name:    name,
		Summary: summary,
		Usage:   "[args...]",
		Args:    cobra.ArbitraryArgs,
		Source:  SourceUser,
		Run: func(ctx context.Context, inv *Invocation) error {
			script := spec.Run
			if len(inv.Args) > 0 && runtime.GOOS != "windows" {
				script += ` "$@"`
			}
			_, err := exec.Shell(ctx, script, inv.Args...)
			return err
		},
	}
}

// Cobra converts cmd into a cobra subcommand. Flags registered by cmd.Flags are
// parsed by cobra and handed to the handler through Invocation.Flags. Script
// commands receive flags meant for the script after "--".
func (c Command) Cobra() *cobra.Command {
	use := c.Name
	if c.Usage != "" {
		use += " " + c.Usage
	}

	cc := &cobra.Command{
		Use:   use,
		Short: c.Summary,
		Args: func(cmd *cobra.Command, args []string) error {
			if c.Args == nil {
				return nil
			}
			return errors.Wrap(errors.CodeInvalidArgument, c.Name, c.Args(cmd, args))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.Run(cmd.Context(), &Invocation{
				Args:   args,
				Flags:  cmd.Flags(),
				Stdout: cmd.OutOrStdout(),
			})
		},
	}
	if c.Flags != nil {
		c.Flags(cc.Flags())
	}
	return cc
}
