package initcmd

import (
	"errors"
	"flag"
	"fmt"

	"github.com/keshon/snapvcs/internal/command"
	"github.com/keshon/snapvcs/internal/errs"
	"github.com/keshon/snapvcs/internal/middleware"
)

type Command struct {
	quiet bool
}

func (c *Command) Name() string      { return "init" }
func (c *Command) Short() string     { return "i" }
func (c *Command) Aliases() []string { return []string{"initialize"} }
func (c *Command) Usage() string     { return "init [-q]" }
func (c *Command) Brief() string     { return "Initialize a new repository" }
func (c *Command) Help() string {
	return `Initialize a repository at the resolved storage root.

The root is $SNAPVCS_ROOT, the selected repository (see 'repo'),
or the default_root setting, in that order.

Options:
  -q    Suppress normal output.

Usage:
  snap init`
}

func (c *Command) Subcommands() []command.Command { return nil }
func (c *Command) Flags(fs *flag.FlagSet) {
	fs.BoolVar(&c.quiet, "q", false, "suppress output")
}

func (c *Command) Run(ctx *command.Context) error {
	r, err := ctx.Repo()
	if err != nil {
		return fmt.Errorf("failed to open repository: %w", err)
	}

	if err := r.Initialize(); err != nil {
		if errors.Is(err, errs.ErrAlreadyInitialized) {
			return fmt.Errorf("repository already initialized at %q", r.Config.Root)
		}
		return err
	}

	if !c.quiet {
		fmt.Fprintf(ctx.Out(), "Initialized empty repository in %q\n", r.Config.Root)
	}
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
