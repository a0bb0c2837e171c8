package command

import (
	"flag"
	"fmt"
	"io"
	"os"
)

// Execute resolves args against the command tree, parses the target's
// flags and runs it.
func Execute(args []string, env *Env) error {
	if len(args) == 0 {
		return fmt.Errorf("no command provided (try 'help')")
	}

	node, remaining, err := ResolveCommand(args)
	if err != nil {
		return fmt.Errorf("%w: %s", err, args[0])
	}
	cmd := node.Cmd

	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	cmd.Flags(fs)
	if err := fs.Parse(remaining); err != nil {
		return fmt.Errorf("parsing flags: %w\nusage: %s", err, cmd.Usage())
	}

	ctx := &Context{
		Args:  fs.Args(),
		Flags: fs,
		Env:   env,
	}
	return cmd.Run(ctx)
}

// RunCLI is the main entrypoint for executing commands.
func RunCLI(args []string, env *Env) {
	if err := Execute(args, env); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
