package help

import (
	"flag"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/keshon/snapvcs/internal/command"
	"github.com/keshon/snapvcs/internal/middleware"
)

type Command struct{}

func (c *Command) Name() string      { return "help" }
func (c *Command) Short() string     { return "H" }
func (c *Command) Aliases() []string { return []string{"h", "?"} }
func (c *Command) Usage() string     { return "help [command]" }
func (c *Command) Brief() string     { return "Show help for commands" }
func (c *Command) Help() string {
	return `Display help information for commands.

Usage:
  help          List all commands.
  help <name>   Show detailed help for a specific command.`
}

func (c *Command) Subcommands() []command.Command { return nil }
func (c *Command) Flags(fs *flag.FlagSet)         {}

func (c *Command) Run(ctx *command.Context) error {
	if len(ctx.Args) > 0 {
		return runCommandHelp(ctx.Out(), ctx.Args)
	}
	return runListAllCommands(ctx.Out())
}

// runCommandHelp shows detailed help for a command or subcommand path
func runCommandHelp(out io.Writer, path []string) error {
	node, rest, err := command.ResolveCommand(path)
	if err != nil || len(rest) > 0 {
		fmt.Fprintf(out, "Unknown command: %s\n", strings.Join(path, " "))
		return nil
	}
	cmd := node.Cmd

	if usage := cmd.Usage(); usage != "" {
		fmt.Fprintf(out, "\033[90mUsage:\033[0m %s\n\n", usage)
	}
	fmt.Fprintf(out, "%s\n\n", cmd.Help())

	if aliases := cmd.Aliases(); len(aliases) > 0 {
		fmt.Fprintf(out, "Aliases: %s\n", strings.Join(aliases, ", "))
	}
	if short := cmd.Short(); short != "" {
		fmt.Fprintf(out, "Short:   %s\n", short)
	}
	return nil
}

// runListAllCommands lists all commands in a Git-style layout
func runListAllCommands(out io.Writer) error {
	commands := command.AllCommands()
	sort.Slice(commands, func(i, j int) bool {
		return commands[i].Name() < commands[j].Name()
	})

	fmt.Fprint(out, "Available commands:\n\n")
	longest := 0
	for _, cmd := range commands {
		if l := len(cmd.Name()); l > longest {
			longest = l
		}
	}

	for _, cmd := range commands {
		name := cmd.Name()
		desc := cmd.Brief()
		if desc == "" {
			desc = "-"
		}

		padding := strings.Repeat(" ", longest-len(name)+2)
		fmt.Fprintf(out, "  \033[1m%s\033[0m%s%s\n", name, padding, desc)
	}

	fmt.Fprintln(out, "\nType 'help <command>' to see detailed information about a specific command.")
	return nil
}

func init() {
	command.RegisterCommand(
		command.ApplyMiddlewares(
			&Command{},
			middleware.WithDebugArgsPrint(),
		),
	)
}
