package log

import (
	"flag"
	"fmt"

	"github.com/keshon/snapvcs/internal/command"
	"github.com/keshon/snapvcs/internal/middleware"
	"github.com/keshon/snapvcs/internal/repo/meta"
)

type Command struct {
	oneline bool
	limit   int
}

func (c *Command) Name() string      { return "log" }
func (c *Command) Short() string     { return "L" }
func (c *Command) Aliases() []string { return []string{"history", "commits"} }
func (c *Command) Usage() string     { return "log [--oneline] [-n <count>]" }
func (c *Command) Brief() string     { return "Show commit history, newest first" }
func (c *Command) Help() string {
	return `Show commit logs from the newest commit back to the first one.

Options:
      --oneline         Show each commit as a single line (ID + message).
  -n <count>            Limit to the last N commits.

Usage:
  snap log
  snap log --oneline -n 10`
}

func (c *Command) Subcommands() []command.Command { return nil }
func (c *Command) Flags(fs *flag.FlagSet) {
	fs.BoolVar(&c.oneline, "oneline", false, "show each commit on one line")
	fs.IntVar(&c.limit, "n", 0, "limit number of commits")
}

func (c *Command) Run(ctx *command.Context) error {
	r, err := ctx.Repo()
	if err != nil {
		return err
	}
	out := ctx.Out()

	commits := r.History()
	if len(commits) == 0 {
		fmt.Fprintln(out, "No commits yet")
		return nil
	}
	total := len(commits)
	if c.limit > 0 && c.limit < len(commits) {
		commits = commits[:c.limit]
	}

	current := r.CurrentCommit().ID()
	for _, cm := range commits {
		marker := ""
		if cm.ID() == current {
			marker = " (current)"
		}
		if c.oneline {
			fmt.Fprintf(out, "%d %s%s\n", cm.ID(), cm.Message(), marker)
			continue
		}
		fmt.Fprintf(out, "\033[90mCommit:\033[0m #%d%s\n", cm.ID(), marker)
		fmt.Fprintf(out, "\033[90mDate:\033[0m   %s\n", cm.Timestamp())
		fmt.Fprintf(out, "\033[90mFiles:\033[0m  %d (%s)\n\n", cm.Len(), meta.ShortHash(cm.Checksum()))
		fmt.Fprintf(out, "    %s\n\n", cm.Message())
	}

	fmt.Fprintf(out, "Total commits: %d\n", total)
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
