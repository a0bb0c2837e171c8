package ls

import (
	"flag"
	"fmt"
	"text/tabwriter"

	"github.com/keshon/snapvcs/internal/command"
	"github.com/keshon/snapvcs/internal/middleware"
)

type Command struct{}

func (c *Command) Name() string      { return "ls" }
func (c *Command) Short() string     { return "l" }
func (c *Command) Aliases() []string { return []string{"list", "files"} }
func (c *Command) Usage() string     { return "ls" }
func (c *Command) Brief() string     { return "List files in the working set" }
func (c *Command) Help() string {
	return `List every file in the working set with its size and line count.

Usage:
  snap ls`
}

func (c *Command) Subcommands() []command.Command { return nil }
func (c *Command) Flags(fs *flag.FlagSet)         {}

func (c *Command) Run(ctx *command.Context) error {
	r, err := ctx.Repo()
	if err != nil {
		return err
	}

	st := r.Status()
	if len(st.Files) == 0 {
		fmt.Fprintln(ctx.Out(), "No files in the working set")
		return nil
	}

	tw := tabwriter.NewWriter(ctx.Out(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tSIZE\tLINES")
	for _, f := range st.Files {
		fmt.Fprintf(tw, "%s\t%d\t%d\n", f.Name, f.Size, f.Lines)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(ctx.Out(), "Total files: %d\n", len(st.Files))
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
