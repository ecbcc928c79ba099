package config

import (
	"os"
	"path/filepath"
)

const (
	// EnvConfigPath is the environment variable for an explicit config path.
	EnvConfigPath = "NETDRAW_CONFIG"
	// ConfigDirName is the config directory name under XDG.
	ConfigDirName = "netdraw"
)

// configFileNames are tried in order inside the config directory.
var configFileNames = []string{"config.toml", "config.yaml", "config.yml"}

// Dir returns the config directory ($XDG_CONFIG_HOME/netdraw, falling back to
// ~/.config/netdraw).
func Dir() (string, error) {
	if xdgHome := os.Getenv("XDG_CONFIG_HOME"); xdgHome != "" {
		return filepath.Join(xdgHome, ConfigDirName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", ConfigDirName), nil
}

// FindConfigPath searches for a config file in priority order:
//  1. explicit (the --config flag)
//  2. $NETDRAW_CONFIG
//  3. $XDG_CONFIG_HOME/netdraw/config.{toml,yaml,yml}
//  4. ~/.config/netdraw/config.{toml,yaml,yml}
//
// required reports whether the path was named by the user, in which case a
// missing file is an error. An empty path means no config file was found.
func FindConfigPath(explicit string) (path string, required bool) {
	if explicit != "" {
		return explicit, true
	}
	if env := os.Getenv(EnvConfigPath); env != "" {
		return env, true
	}

	dir, err := Dir()
	if err != nil {
		return "", false
	}
	for _, name := range configFileNames {
		candidate := filepath.Join(dir, name)
		if fileExists(candidate) {
			return candidate, false
		}
	}
	return "", false
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
