package compare

import (
	"flag"
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/keshon/snapvcs/internal/command"
	"github.com/keshon/snapvcs/internal/middleware"
	"github.com/keshon/snapvcs/internal/repo"
)

type Command struct{}

func (c *Command) Name() string      { return "compare" }
func (c *Command) Short() string     { return "d" }
func (c *Command) Aliases() []string { return []string{"diff"} }
func (c *Command) Usage() string     { return "compare <id-a> <id-b>" }
func (c *Command) Brief() string     { return "Compare the files of two commits" }
func (c *Command) Help() string {
	return `List every file of two commits and whether it is identical,
different, or present in only one of them.

Usage:
  snap compare 1 3`
}

func (c *Command) Subcommands() []command.Command { return nil }
func (c *Command) Flags(fs *flag.FlagSet)         {}

func (c *Command) Run(ctx *command.Context) error {
	if len(ctx.Args) != 2 {
		return fmt.Errorf("usage: %s", c.Usage())
	}
	var ids [2]int
	for i, a := range ctx.Args {
		id, err := strconv.Atoi(a)
		if err != nil || id < 0 {
			return fmt.Errorf("invalid commit id %q", a)
		}
		ids[i] = id
	}

	r, err := ctx.Repo()
	if err != nil {
		return err
	}
	entries, err := r.Compare(ids[0], ids[1])
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(ctx.Out(), "Both commits are empty")
		return nil
	}

	tw := tabwriter.NewWriter(ctx.Out(), 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "FILE\tSTATUS\t#%d\t#%d\n", ids[0], ids[1])
	changed := 0
	for _, e := range entries {
		if e.Status != repo.Identical {
			changed++
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", e.Name, e.Status, size(e.SizeA), size(e.SizeB))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(ctx.Out(), "%d of %d files differ\n", changed, len(entries))
	return nil
}

func size(n int) string {
	if n < 0 {
		return "-"
	}
	return strconv.Itoa(n)
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
