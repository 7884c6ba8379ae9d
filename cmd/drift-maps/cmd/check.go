package cmd

import (
	"fmt"
	"strings"

	"github.com/go-drift/drift-maps/pkg/mapsapi"
)

func init() {
	RegisterCommand(&Command{
		Name:  "check",
		Short: "Validate drift_maps.yaml",
		Long: `Validate the project's drift_maps.yaml.

Checks the engine version, the channel prefix and that every preloaded
library is available in the configured engine version. The marker library
is always checked since advanced markers depend on it.`,
		Usage: "drift-maps check [--dir DIR]",
		Run:   runCheck,
	})
}

func runCheck(env *Env, args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("unexpected arguments: %s", strings.Join(args, " "))
	}
	cfg, err := loadProject(env)
	if err != nil {
		return err
	}
	if err := cfg.CheckLibrary(mapsapi.LibraryMarker); err != nil {
		return err
	}

	module := cfg.ModulePath
	if module == "" {
		module = "(no go.mod)"
	}
	preload := "none"
	if len(cfg.Preload) > 0 {
		preload = strings.Join(cfg.Preload, ", ")
	}
	fmt.Fprintf(env.Stdout, "Project:  %s\n", cfg.Root)
	fmt.Fprintf(env.Stdout, "Module:   %s\n", module)
	fmt.Fprintf(env.Stdout, "Engine:   %s\n", cfg.EngineVersion)
	fmt.Fprintf(env.Stdout, "Channels: %s/engine, %s/events\n", cfg.ChannelPrefix, cfg.ChannelPrefix)
	fmt.Fprintf(env.Stdout, "Preload:  %s\n", preload)
	fmt.Fprintln(env.Stdout, "OK")
	return nil
}
