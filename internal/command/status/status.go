package status

import (
	"flag"
	"fmt"

	"github.com/keshon/snapvcs/internal/command"
	"github.com/keshon/snapvcs/internal/middleware"
	"github.com/keshon/snapvcs/internal/repo"
)

type Command struct {
	short bool
}

func (c *Command) Name() string      { return "status" }
func (c *Command) Short() string     { return "S" }
func (c *Command) Aliases() []string { return []string{"st"} }
func (c *Command) Usage() string     { return "status [-s]" }
func (c *Command) Brief() string     { return "Show repository and working set status" }

func (c *Command) Help() string {
	return `Show head, the current commit and how each working file differs
from the current commit.

Options:
  -s    Short output: one "X name" line per changed file
        (M modified, A added).
`
}

func (c *Command) Subcommands() []command.Command { return nil }
func (c *Command) Flags(fs *flag.FlagSet) {
	fs.BoolVar(&c.short, "s", false, "short output")
}

func (c *Command) Run(ctx *command.Context) error {
	r, err := ctx.Repo()
	if err != nil {
		return err
	}
	st := r.Status()
	out := ctx.Out()

	if c.short {
		for _, f := range st.Files {
			switch f.State {
			case repo.Modified:
				fmt.Fprintf(out, "M %s\n", f.Name)
			case repo.Added:
				fmt.Fprintf(out, "A %s\n", f.Name)
			}
		}
		return nil
	}

	fmt.Fprintf(out, "Root:     %s\n", r.Config.Root)
	fmt.Fprintf(out, "Commits:  %d\n", st.TotalCommits)
	fmt.Fprintf(out, "Head:     #%d\n", st.HeadID)
	if st.CurrentID != st.HeadID {
		fmt.Fprintf(out, "Current:  #%d (reverted, next commit is appended after #%d)\n", st.CurrentID, st.HeadID)
	} else {
		fmt.Fprintf(out, "Current:  #%d\n", st.CurrentID)
	}
	if r.CanUndo() {
		fmt.Fprintln(out, "Undo:     available")
	}
	fmt.Fprintln(out)

	if !st.Dirty() {
		fmt.Fprintf(out, "Nothing changed since #%d (%d files)\n", st.CurrentID, len(st.Files))
		return nil
	}
	for _, f := range st.Files {
		switch f.State {
		case repo.Modified:
			fmt.Fprintf(out, "  \033[33mmodified:\033[0m %s\n", f.Name)
		case repo.Added:
			fmt.Fprintf(out, "  \033[32madded:\033[0m    %s\n", f.Name)
		}
	}
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
