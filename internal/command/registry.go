package command

var tree = NewTree()

// RegisterCommand adds a command to the global tree
func RegisterCommand(cmd Command) {
	tree.Register(cmd)
}

// ResolveCommand finds a command from args
func ResolveCommand(args []string) (*Node, []string, error) {
	return tree.Resolve(args)
}

// GetCommand returns a command by name
func GetCommand(name string) (Command, bool) {
	return tree.Get(name)
}

// AllCommands returns the top-level commands registered in the global tree.
func AllCommands() []Command {
	cmds := make([]Command, 0)
	seen := make(map[Command]struct{})
	for _, node := range tree.root.Subcommands {
		if _, ok := seen[node.Cmd]; ok {
			continue
		}
		seen[node.Cmd] = struct{}{}
		cmds = append(cmds, node.Cmd)
	}
	return cmds
}
