package repo

import (
	"errors"
	"flag"
	"fmt"

	"github.com/keshon/snapvcs/internal/command"
	"github.com/keshon/snapvcs/internal/middleware"
	"github.com/keshon/snapvcs/internal/registry"
)

// Command manages the registry of named repositories.
type Command struct{}

func (c *Command) Name() string      { return "repo" }
func (c *Command) Short() string     { return "R" }
func (c *Command) Aliases() []string { return []string{"repos"} }
func (c *Command) Usage() string     { return "repo <add|list|select|remove> [args]" }
func (c *Command) Brief() string     { return "Manage named repositories" }
func (c *Command) Help() string {
	return `Register storage roots under names and choose which one other
commands use.

Subcommands:
  add <name> [root]   Register a repository (default root: <repos_dir>/<name>/data).
  list                List registered repositories; * marks the selected one.
  select <name>       Make <name> the repository other commands use.
  remove <name>       Forget <name>. Its files are left on disk.

$SNAPVCS_ROOT, when set, overrides the selection.`
}

func (c *Command) Subcommands() []command.Command {
	return []command.Command{&addCmd{}, &listCmd{}, &selectCmd{}, &removeCmd{}}
}
func (c *Command) Flags(fs *flag.FlagSet) {}

func (c *Command) Run(ctx *command.Context) error {
	if len(ctx.Args) > 0 {
		return fmt.Errorf("unknown subcommand %q\nusage: %s", ctx.Args[0], c.Usage())
	}
	return (&listCmd{}).Run(ctx)
}

func reg(ctx *command.Context) (*registry.Registry, error) {
	if ctx.Env == nil || ctx.Env.Registry == nil {
		return nil, errors.New("no repository registry configured")
	}
	return ctx.Env.Registry, nil
}

// sub carries the parts every repo subcommand shares.
type sub struct{}

func (sub) Short() string                  { return "" }
func (sub) Aliases() []string              { return nil }
func (sub) Subcommands() []command.Command { return nil }
func (sub) Flags(fs *flag.FlagSet)         {}

type addCmd struct{ sub }

func (c *addCmd) Name() string  { return "add" }
func (c *addCmd) Usage() string { return "repo add <name> [root]" }
func (c *addCmd) Brief() string { return "Register a repository" }
func (c *addCmd) Help() string  { return "Register <name> at [root]. The first registered repository is selected." }

func (c *addCmd) Run(ctx *command.Context) error {
	if len(ctx.Args) < 1 || len(ctx.Args) > 2 {
		return fmt.Errorf("usage: %s", c.Usage())
	}
	r, err := reg(ctx)
	if err != nil {
		return err
	}
	root := ""
	if len(ctx.Args) == 2 {
		root = ctx.Args[1]
	}
	e, err := r.Add(ctx.Args[0], root)
	if err != nil {
		return err
	}
	if _, ok := r.Selected(); !ok {
		if err := r.Select(e.Name); err != nil {
			return err
		}
	}
	if err := r.Save(); err != nil {
		return err
	}
	fmt.Fprintf(ctx.Out(), "Registered %s at %q\n", e.Name, e.Root)
	return nil
}

type listCmd struct{ sub }

func (c *listCmd) Name() string  { return "list" }
func (c *listCmd) Usage() string { return "repo list" }
func (c *listCmd) Brief() string { return "List registered repositories" }
func (c *listCmd) Help() string  { return "List registered repositories; * marks the selected one." }

func (c *listCmd) Run(ctx *command.Context) error {
	r, err := reg(ctx)
	if err != nil {
		return err
	}
	entries := r.List()
	if len(entries) == 0 {
		fmt.Fprintln(ctx.Out(), "No repositories registered")
		return nil
	}
	selected, _ := r.Selected()
	for _, e := range entries {
		mark := " "
		if e.Name == selected.Name {
			mark = "*"
		}
		fmt.Fprintf(ctx.Out(), "%s %s\t%s\n", mark, e.Name, e.Root)
	}
	return nil
}

type selectCmd struct{ sub }

func (c *selectCmd) Name() string  { return "select" }
func (c *selectCmd) Usage() string { return "repo select <name>" }
func (c *selectCmd) Brief() string { return "Select the repository to work on" }
func (c *selectCmd) Help() string  { return "Make <name> the repository other commands use." }

func (c *selectCmd) Run(ctx *command.Context) error {
	if len(ctx.Args) != 1 {
		return fmt.Errorf("usage: %s", c.Usage())
	}
	r, err := reg(ctx)
	if err != nil {
		return err
	}
	if err := r.Select(ctx.Args[0]); err != nil {
		return err
	}
	if err := r.Save(); err != nil {
		return err
	}
	fmt.Fprintf(ctx.Out(), "Selected %s\n", ctx.Args[0])
	return nil
}

type removeCmd struct{ sub }

func (c *removeCmd) Name() string  { return "remove" }
func (c *removeCmd) Usage() string { return "repo remove <name>" }
func (c *removeCmd) Brief() string { return "Forget a repository" }
func (c *removeCmd) Help() string  { return "Forget <name>. Its files are left on disk." }

func (c *removeCmd) Run(ctx *command.Context) error {
	if len(ctx.Args) != 1 {
		return fmt.Errorf("usage: %s", c.Usage())
	}
	r, err := reg(ctx)
	if err != nil {
		return err
	}
	if err := r.Remove(ctx.Args[0]); err != nil {
		return err
	}
	if err := r.Save(); err != nil {
		return err
	}
	fmt.Fprintf(ctx.Out(), "Removed %s\n", ctx.Args[0])
	return nil
}

func init() {
	command.RegisterCommand(
		command.ApplyMiddlewares(
			&Command{},
			middleware.WithDebugArgsPrint(),
		),
	)
}
