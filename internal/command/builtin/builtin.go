// Package builtin registers every snap command with the command tree.
package builtin

import (
	_ "github.com/keshon/snapvcs/internal/command/add"
	_ "github.com/keshon/snapvcs/internal/command/cat"
	_ "github.com/keshon/snapvcs/internal/command/commit"
	_ "github.com/keshon/snapvcs/internal/command/compare"
	_ "github.com/keshon/snapvcs/internal/command/edit"
	_ "github.com/keshon/snapvcs/internal/command/help"
	_ "github.com/keshon/snapvcs/internal/command/init"
	_ "github.com/keshon/snapvcs/internal/command/log"
	_ "github.com/keshon/snapvcs/internal/command/ls"
	_ "github.com/keshon/snapvcs/internal/command/repo"
	_ "github.com/keshon/snapvcs/internal/command/revert"
	_ "github.com/keshon/snapvcs/internal/command/status"
	_ "github.com/keshon/snapvcs/internal/command/undo"
	_ "github.com/keshon/snapvcs/internal/command/verify"
)
