package cmd

import (
	"go.uber.org/zap"

	"github.com/go-drift/drift-maps/pkg/config"
	"github.com/go-drift/drift-maps/pkg/errors"
)

// loadProject resolves the configuration for env.Dir, or for the nearest
// project root when no directory was given.
func loadProject(env *Env) (*config.Resolved, error) {
	dir := env.Dir
	if dir == "" {
		root, err := config.FindProjectRoot()
		if err != nil {
			return nil, err
		}
		dir = root
	}
	cfg, err := config.Resolve(dir)
	if err != nil {
		return nil, &errors.MapsError{Op: "config.Resolve", Kind: errors.KindConfig, Err: err}
	}
	if env.Verbose {
		cfg.Verbose = true
	}
	return cfg, nil
}

// newLogger builds the CLI logger: development output at debug level when
// verbose, info level otherwise.
func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.DisableStacktrace = true
	if !verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	return cfg.Build()
}

// installLogging routes the errors package to logger and returns a function
// that restores the defaults.
func installLogging(logger *zap.Logger, verbose bool) func() {
	errors.SetLogger(logger)
	errors.SetHandler(&errors.LogHandler{Verbose: verbose})
	return func() {
		_ = logger.Sync()
		errors.SetHandler(nil)
		errors.SetLogger(nil)
	}
}
