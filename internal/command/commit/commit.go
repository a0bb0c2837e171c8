package commit

import (
	"flag"
	"fmt"
	"strings"

	"github.com/keshon/snapvcs/internal/command"
	"github.com/keshon/snapvcs/internal/middleware"
	"github.com/keshon/snapvcs/internal/repo/meta"
)

type Command struct {
	message string
}

func (c *Command) Name() string  { return "commit" }
func (c *Command) Short() string { return "C" }
func (c *Command) Brief() string { return "Record the working set as a new commit" }
func (c *Command) Usage() string { return `commit -m "<message>"` }
func (c *Command) Help() string {
	return `Create a new commit holding every file in the working set.

The working set is kept after the commit, so the next commit builds on it.
Line breaks in the message are folded into spaces.

Usage:
  commit -m "<message>"   - commit with a given message
  commit <message words>  - same, message taken from the arguments`
}
func (c *Command) Aliases() []string              { return []string{"ci"} }
func (c *Command) Subcommands() []command.Command { return nil }
func (c *Command) Flags(fs *flag.FlagSet) {
	fs.StringVar(&c.message, "m", "", "commit message")
}

func (c *Command) Run(ctx *command.Context) error {
	message := c.message
	if message == "" {
		message = strings.Join(ctx.Args, " ")
	}
	if strings.TrimSpace(message) == "" {
		return fmt.Errorf("commit message required (use -m or pass message directly)")
	}

	r, err := ctx.Repo()
	if err != nil {
		return err
	}
	cm, err := r.Commit(message)
	if err != nil {
		return err
	}

	fmt.Fprintf(ctx.Out(), "Committed #%d %s (%d files, %s)\n", cm.ID(), cm.Message(), cm.Len(), meta.ShortHash(cm.Checksum()))
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
