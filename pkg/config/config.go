// Package config loads the optional drift_maps.yaml project file and
// resolves it against defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/mod/modfile"
	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"

	"github.com/go-drift/drift-maps/pkg/mapsapi"
	"github.com/go-drift/drift-maps/pkg/platform"
)

// FileName is the name of the project configuration file.
const FileName = "drift_maps.yaml"

// Config represents the optional drift_maps.yaml configuration.
type Config struct {
	Engine    EngineConfig  `yaml:"engine"`
	Libraries []string      `yaml:"libraries,omitempty"`
	Logging   LoggingConfig `yaml:"logging"`
}

// EngineConfig contains map engine settings.
type EngineConfig struct {
	// Version is a semantic version such as "3.55" or one of the release
	// channels in ReleaseChannels.
	Version string `yaml:"version,omitempty"`
	// Channel is the platform channel prefix.
	Channel string `yaml:"channel,omitempty"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Verbose bool `yaml:"verbose,omitempty"`
}

// Resolved contains resolved configuration values.
type Resolved struct {
	Root          string
	ModulePath    string
	EngineVersion string
	ChannelPrefix string
	Preload       []string
	Verbose       bool
}

// ReleaseChannels are engine versions that always track the newest release.
var ReleaseChannels = []string{"latest", "weekly", "beta", "quarterly"}

// minimumEngine lists the first engine version that ships each library.
// Libraries not listed are available in every version.
var minimumEngine = map[string]string{
	mapsapi.LibraryMarker: "v3.53.0",
}

// ErrUnsupportedLibrary is returned when the configured engine version
// predates a library.
var ErrUnsupportedLibrary = errors.New("library not supported by engine version")

// LoadOptional reads drift_maps.yaml from dir if present.
func LoadOptional(dir string) (*Config, error) {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", FileName, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", FileName, err)
	}

	return &cfg, nil
}

// Resolve loads drift_maps.yaml (if present) and resolves defaults. The
// module path is read from go.mod when dir has one.
func Resolve(dir string) (*Resolved, error) {
	cfg, err := LoadOptional(dir)
	if err != nil {
		return nil, err
	}

	modulePath, err := modulePath(dir)
	if err != nil {
		return nil, err
	}

	engineVersion := strings.TrimSpace(cfg.Engine.Version)
	if engineVersion == "" {
		engineVersion = "latest"
	}
	if err := validateEngineVersion(engineVersion); err != nil {
		return nil, err
	}

	channel := strings.TrimSpace(cfg.Engine.Channel)
	if channel == "" {
		channel = platform.DefaultChannelPrefix
	}
	if err := validateChannel(channel); err != nil {
		return nil, err
	}

	var preload []string
	seen := make(map[string]bool)
	for _, name := range cfg.Libraries {
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, fmt.Errorf("libraries contains an empty name")
		}
		if !seen[name] {
			seen[name] = true
			preload = append(preload, name)
		}
	}

	resolved := &Resolved{
		Root:          dir,
		ModulePath:    modulePath,
		EngineVersion: engineVersion,
		ChannelPrefix: channel,
		Preload:       preload,
		Verbose:       cfg.Logging.Verbose,
	}
	for _, name := range preload {
		if err := resolved.CheckLibrary(name); err != nil {
			return nil, err
		}
	}
	return resolved, nil
}

// CheckLibrary reports whether the configured engine version ships the
// named library. Its signature matches maps.WithLibraryCheck.
func (r *Resolved) CheckLibrary(name string) error {
	minimum, ok := minimumEngine[name]
	if !ok || isReleaseChannel(r.EngineVersion) {
		return nil
	}
	if semver.Compare(canonicalVersion(r.EngineVersion), minimum) < 0 {
		return fmt.Errorf("%w: %q needs engine %s or newer, configured %s",
			ErrUnsupportedLibrary, name, strings.TrimPrefix(semver.MajorMinor(minimum), "v"), r.EngineVersion)
	}
	return nil
}

// FindProjectRoot walks up from the current directory to the nearest
// directory holding drift_maps.yaml or go.mod.
func FindProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		for _, marker := range []string{FileName, "go.mod"} {
			if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
				return dir, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("no %s or go.mod found", FileName)
		}
		dir = parent
	}
}

func modulePath(dir string) (string, error) {
	data, err := os.ReadFile(filepath.Join(dir, "go.mod"))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("failed to read go.mod: %w", err)
	}
	path := modfile.ModulePath(data)
	if path == "" {
		return "", fmt.Errorf("could not determine module path from go.mod")
	}
	return path, nil
}

func isReleaseChannel(version string) bool {
	for _, channel := range ReleaseChannels {
		if version == channel {
			return true
		}
	}
	return false
}

// canonicalVersion turns "3.55" into "v3.55".
func canonicalVersion(version string) string {
	if strings.HasPrefix(version, "v") {
		return version
	}
	return "v" + version
}

func validateEngineVersion(version string) error {
	if isReleaseChannel(version) {
		return nil
	}
	if !semver.IsValid(canonicalVersion(version)) {
		return fmt.Errorf("engine.version must be a semantic version or one of %s (got %q)",
			strings.Join(ReleaseChannels, ", "), version)
	}
	return nil
}

func validateChannel(channel string) error {
	if strings.HasSuffix(channel, "/") || strings.HasPrefix(channel, "/") {
		return fmt.Errorf("engine.channel must not start or end with '/' (got %q)", channel)
	}
	for _, r := range channel {
		if !(r == '_' || r == '/' || r == '.' || r >= 'a' && r <= 'z' || r >= '0' && r <= '9') {
			return fmt.Errorf("engine.channel contains invalid character %q in %q", r, channel)
		}
	}
	return nil
}
