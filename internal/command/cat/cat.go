package cat

import (
	"flag"
	"fmt"

	"github.com/keshon/snapvcs/internal/command"
	"github.com/keshon/snapvcs/internal/errs"
	"github.com/keshon/snapvcs/internal/middleware"
)

type Command struct {
	commit int
}

func (c *Command) Name() string      { return "cat" }
func (c *Command) Short() string     { return "c" }
func (c *Command) Aliases() []string { return []string{"show"} }
func (c *Command) Usage() string     { return "cat [-c <id>] <name>" }
func (c *Command) Brief() string     { return "Print a file's content" }
func (c *Command) Help() string {
	return `Print a file from the working set, or from a commit with -c.

Options:
  -c <id>   Read the file as recorded in commit <id>.

Usage:
  snap cat notes.txt
  snap cat -c 2 notes.txt`
}

func (c *Command) Subcommands() []command.Command { return nil }
func (c *Command) Flags(fs *flag.FlagSet) {
	fs.IntVar(&c.commit, "c", -1, "commit id to read from")
}

func (c *Command) Run(ctx *command.Context) error {
	if len(ctx.Args) != 1 {
		return fmt.Errorf("usage: %s", c.Usage())
	}
	name := ctx.Args[0]

	r, err := ctx.Repo()
	if err != nil {
		return err
	}

	var content string
	var ok bool
	if c.commit >= 0 {
		cm, err := r.CommitByID(c.commit)
		if err != nil {
			return err
		}
		content, ok = cm.File(name)
	} else {
		content, ok = r.FileContent(name)
	}
	if !ok {
		return fmt.Errorf("%q: %w", name, errs.ErrFileNotFound)
	}

	fmt.Fprint(ctx.Out(), content)
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
