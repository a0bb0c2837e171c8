package middleware

import (
	"fmt"

	"github.com/keshon/snapvcs/internal/command"
	"github.com/keshon/snapvcs/internal/errs"
)

// WithRepoCheck opens the repository and refuses to run the command
// unless it is initialized.
func WithRepoCheck() command.Middleware {
	return func(cmd command.Command) command.Command {
		return &command.WrappedCommand{
			Command: cmd,
			Wrap: func(ctx *command.Context) error {
				r, err := ctx.Repo()
				if err != nil {
					return fmt.Errorf("failed to open repository: %w", err)
				}
				if !r.IsInitialized() {
					return fmt.Errorf("%w at %s\nRun `snap init` first", errs.ErrNotInitialized, r.Config.Root)
				}
				return cmd.Run(ctx)
			},
		}
	}
}
