package middleware

import (
	"github.com/keshon/snapvcs/internal/command"
)

// WithDebugArgsPrint logs the parsed arguments at debug level.
func WithDebugArgsPrint() command.Middleware {
	return func(cmd command.Command) command.Command {
		return &command.WrappedCommand{
			Command: cmd,
			Wrap: func(ctx *command.Context) error {
				ctx.Log().Debug("running command", "cmd", cmd.Name(), "args", ctx.Args)
				return cmd.Run(ctx)
			},
		}
	}
}
