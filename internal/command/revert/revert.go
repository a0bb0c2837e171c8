package revert

import (
	"flag"
	"fmt"
	"strconv"

	"github.com/keshon/snapvcs/internal/command"
	"github.com/keshon/snapvcs/internal/middleware"
)

type Command struct{}

func (c *Command) Name() string      { return "revert" }
func (c *Command) Short() string     { return "r" }
func (c *Command) Aliases() []string { return []string{"checkout"} }
func (c *Command) Usage() string     { return "revert <id>" }
func (c *Command) Brief() string     { return "Restore the working set from a commit" }
func (c *Command) Help() string {
	return `Replace the working set with the files of commit <id>.

History is not changed: later commits stay in the log and the next
commit is still appended after the newest one. Use 'undo' to go back.
Id 0 is the empty initial commit.

Usage:
  snap revert 2`
}

func (c *Command) Subcommands() []command.Command { return nil }
func (c *Command) Flags(fs *flag.FlagSet)         {}

func (c *Command) Run(ctx *command.Context) error {
	if len(ctx.Args) != 1 {
		return fmt.Errorf("usage: %s", c.Usage())
	}
	id, err := strconv.Atoi(ctx.Args[0])
	if err != nil || id < 0 {
		return fmt.Errorf("invalid commit id %q", ctx.Args[0])
	}

	r, err := ctx.Repo()
	if err != nil {
		return err
	}
	target, err := r.Revert(id)
	if err != nil {
		return err
	}

	fmt.Fprintf(ctx.Out(), "Reverted to #%d %s (%d files)\n", target.ID(), target.Message(), target.Len())
	return nil
}

func init() {
	command.RegisterCommand(
		command.ApplyMiddlewares(
			&Command{},
			middleware.WithDebugArgsPrint(),
			middleware.WithRepoCheck(),
		),
	)
}
