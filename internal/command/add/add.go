package add

import (
	"flag"
	"fmt"

	"github.com/keshon/snapvcs/internal/command"
	"github.com/keshon/snapvcs/internal/errs"
	"github.com/keshon/snapvcs/internal/middleware"
	"github.com/keshon/snapvcs/internal/repo/meta"
)

type Command struct {
	file string
}

func (c *Command) Name() string      { return "add" }
func (c *Command) Short() string     { return "a" }
func (c *Command) Aliases() []string { return []string{"new"} }
func (c *Command) Usage() string     { return "add [-f <path>] <name>" }
func (c *Command) Brief() string     { return "Stage a new file" }
func (c *Command) Help() string {
	return `Stage a new file in the working set.

The name must not exist yet; use 'edit' to change an existing file.
Content comes from -f, or from standard input. On a terminal, type the
content and finish with '###' on its own line.

Options:
  -f <path>   Read the content from a file on disk.

Usage:
  snap add notes.txt
  snap add -f ./README.md readme.md
  echo hello | snap add greeting.txt`
}

func (c *Command) Subcommands() []command.Command { return nil }
func (c *Command) Flags(fs *flag.FlagSet) {
	fs.StringVar(&c.file, "f", "", "read content from path")
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
	if r.HasFile(name) {
		return fmt.Errorf("%q: %w (use 'edit' to modify it)", name, errs.ErrFileExists)
	}
	if !meta.ValidFilename(name) {
		return fmt.Errorf("%q: %w", name, errs.ErrInvalidFilename)
	}

	content, err := command.ReadContent(ctx, c.file)
	if err != nil {
		return err
	}
	if err := r.Stage(name, content); err != nil {
		return err
	}

	fmt.Fprintf(ctx.Out(), "Added %s (%d bytes, %d lines)\n", name, len(content), meta.Lines(content))
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
