package edit

import (
	"flag"
	"fmt"

	"github.com/keshon/snapvcs/internal/command"
	"github.com/keshon/snapvcs/internal/errs"
	"github.com/keshon/snapvcs/internal/middleware"
	"github.com/keshon/snapvcs/internal/repo/meta"
)

type Command struct {
	file       string
	appendMode bool
}

func (c *Command) Name() string      { return "edit" }
func (c *Command) Short() string     { return "e" }
func (c *Command) Aliases() []string { return nil }
func (c *Command) Usage() string     { return "edit [-f <path>] [--append] <name>" }
func (c *Command) Brief() string     { return "Replace or append to an existing file" }
func (c *Command) Help() string {
	return `Change a file that is already in the working set.

Content is read the same way as for 'add'. By default it replaces the
file; with --append it is added to the end.

Options:
  -f <path>   Read the content from a file on disk.
  --append    Append instead of replacing.

Usage:
  snap edit notes.txt
  snap edit --append -f ./more.txt notes.txt`
}

func (c *Command) Subcommands() []command.Command { return nil }
func (c *Command) Flags(fs *flag.FlagSet) {
	fs.StringVar(&c.file, "f", "", "read content from path")
	fs.BoolVar(&c.appendMode, "append", false, "append to the file")
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
	current, ok := r.FileContent(name)
	if !ok {
		return fmt.Errorf("%q: %w (use 'add' to create it)", name, errs.ErrFileNotFound)
	}

	content, err := command.ReadContent(ctx, c.file)
	if err != nil {
		return err
	}
	if c.appendMode {
		content = current + content
	}
	if err := r.Stage(name, content); err != nil {
		return err
	}

	fmt.Fprintf(ctx.Out(), "Updated %s (%d bytes, %d lines)\n", name, len(content), meta.Lines(content))
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
