package main

import (
	"fmt"
	"os"

	"github.com/keshon/snapvcs/internal/command"
	_ "github.com/keshon/snapvcs/internal/command/builtin"
	"github.com/keshon/snapvcs/internal/config"
	"github.com/keshon/snapvcs/internal/logger"
	"github.com/keshon/snapvcs/internal/registry"
)

func main() {
	settings, err := config.LoadSettings(config.SettingsPath())
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
	l := logger.Setup(settings.LogLevel, settings.LogTimestamps)

	reg := registry.New(settings.RegistryFile, &registry.Options{
		Logger:  l,
		RootFor: settings.RepoRootFor,
	})
	if err := reg.Load(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}

	env := &command.Env{
		Settings: settings,
		Registry: reg,
		Logger:   l,
		Root:     config.ResolveRepoRoot(settings, reg),
	}

	args := os.Args[1:]
	if len(args) == 0 {
		args = []string{"help"}
	}
	command.RunCLI(args, env)
}
