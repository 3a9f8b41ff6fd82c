// Package main provides the yolk listing commands.
//
// Usage:
//
//	yolk list
//	yolk orm:list
package main

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"go.eggybyte.com/yolk/internal/command"
	"go.eggybyte.com/yolk/internal/orm"
	"go.eggybyte.com/yolk/internal/ui"
)

func init() {
	core(command.Command{
		Name:    "list",
		Summary: "List available commands",
		Args:    cobra.NoArgs,
		Run:     runList,
	})

	core(command.Command{
		Name:    "orm:list",
		Summary: "List supported ORMs and their databases",
		Args:    cobra.NoArgs,
		Run:     runORMList,
	})
}

type commandInfo struct {
	Name    string `json:"name"`
	Source  string `json:"source"`
	Summary string `json:"summary"`
}

func runList(ctx context.Context, inv *command.Invocation) error {
	commands := registry.List()

	infos := make([]commandInfo, 0, len(commands))
	rows := make([][]string, 0, len(commands))
	for _, c := range commands {
		infos = append(infos, commandInfo{Name: c.Name, Source: string(c.Source), Summary: c.Summary})
		rows = append(rows, []string{c.Name, string(c.Source), c.Summary})
	}

	ui.Result(infos, ui.Table([]string{"COMMAND", "SOURCE", "DESCRIPTION"}, rows))
	return nil
}

type ormInfo struct {
	Name      string   `json:"name"`
	Databases []string `json:"databases"`
	Default   bool     `json:"default"`
}

func runORMList(ctx context.Context, inv *command.Invocation) error {
	orms, err := newORMRegistry()
	if err != nil {
		return err
	}

	configured := orm.DefaultAdapter
	if a, err := loadApp(); err == nil {
		configured = a.config.ORM
	}

	infos := make([]ormInfo, 0)
	rows := make([][]string, 0)
	for _, name := range orms.Names() {
		adapter, err := orms.Get(name)
		if err != nil {
			return err
		}
		marker := ""
		if name == configured {
			marker = "*"
		}
		infos = append(infos, ormInfo{Name: name, Databases: adapter.Databases(), Default: name == configured})
		rows = append(rows, []string{name + marker, strings.Join(adapter.Databases(), ", ")})
	}

	ui.Result(infos, ui.Table([]string{"ORM", "DATABASES"}, rows))
	return nil
}
