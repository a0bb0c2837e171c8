package undo

import (
	"flag"
	"fmt"

	"github.com/keshon/snapvcs/internal/command"
	"github.com/keshon/snapvcs/internal/middleware"
)

type Command struct{}

func (c *Command) Name() string      { return "undo" }
func (c *Command) Short() string     { return "u" }
func (c *Command) Aliases() []string { return nil }
func (c *Command) Usage() string     { return "undo" }
func (c *Command) Brief() string     { return "Undo the last revert" }
func (c *Command) Help() string {
	return `Return the working set to the commit that was current before the
last revert. Reverts can be undone one by one until a commit is made.

Usage:
  snap undo`
}

func (c *Command) Subcommands() []command.Command { return nil }
func (c *Command) Flags(fs *flag.FlagSet)         {}

func (c *Command) Run(ctx *command.Context) error {
	r, err := ctx.Repo()
	if err != nil {
		return err
	}
	back, err := r.UndoRevert()
	if err != nil {
		return err
	}
	fmt.Fprintf(ctx.Out(), "Back at #%d %s\n", back.ID(), back.Message())
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
