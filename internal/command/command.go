package command

import (
	"flag"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/keshon/snapvcs/internal/config"
	"github.com/keshon/snapvcs/internal/fs"
	"github.com/keshon/snapvcs/internal/logger"
	"github.com/keshon/snapvcs/internal/registry"
	"github.com/keshon/snapvcs/internal/repo"
)

// Command represents a cli command
type Command interface {
	Name() string
	Short() string
	Aliases() []string
	Usage() string
	Brief() string
	Help() string
	Subcommands() []Command
	Flags(fs *flag.FlagSet)
	Run(ctx *Context) error
}

// Env is what a process hands to every command: settings, the registry
// and the resolved storage root.
type Env struct {
	Settings config.Settings
	Registry *registry.Registry
	Logger   *log.Logger
	Root     string
	FS       fs.FS // nil means the OS filesystem

	In  io.Reader
	Out io.Writer
}

// Context represents a cli context
type Context struct {
	Args  []string
	Flags *flag.FlagSet
	Env   *Env

	repo *repo.Repository
}

// Out is where user-facing output goes.
func (c *Context) Out() io.Writer {
	if c.Env != nil && c.Env.Out != nil {
		return c.Env.Out
	}
	return os.Stdout
}

// In is where content is read from when no file is given.
func (c *Context) In() io.Reader {
	if c.Env != nil && c.Env.In != nil {
		return c.Env.In
	}
	return os.Stdin
}

// Log returns the process logger.
func (c *Context) Log() *log.Logger {
	if c.Env == nil {
		return logger.OrDefault(nil)
	}
	return logger.OrDefault(c.Env.Logger)
}

// Repo opens the repository at the resolved root once per invocation.
func (c *Context) Repo() (*repo.Repository, error) {
	if c.repo != nil {
		return c.repo, nil
	}
	env := c.Env
	if env == nil {
		env = &Env{}
	}
	root := env.Root
	if root == "" {
		root = env.Settings.DefaultRoot
	}
	r, err := repo.Open(root, &repo.Options{
		FS:            env.FS,
		Logger:        env.Logger,
		Compress:      env.Settings.Compress,
		KeepWorkspace: true,
	})
	if err != nil {
		return nil, err
	}
	c.repo = r
	return r, nil
}
