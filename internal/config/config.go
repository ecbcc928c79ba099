// Package config loads the optional netdraw config file.
//
// The file supplies defaults for the convert and inventory commands. Flags the
// user sets explicitly always win over the file.
//
// Config file locations (priority order):
//  1. --config
//  2. $NETDRAW_CONFIG
//  3. $XDG_CONFIG_HOME/netdraw/config.toml (or .yaml / .yml)
//  4. ~/.config/netdraw/config.toml (or .yaml / .yml)
//
// Example config.toml:
//
//	page_name = "Office LAN"
//	sort = "ip"
//	columns = 6
//
//	[shapes]
//	camera = "mxgraph.cisco19.camera"
package config

import (
	"bytes"
	"io"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/netdraw/pkg/errors"
	"github.com/matzehuels/netdraw/pkg/pipeline"
)

// Config mirrors the file. Zero values mean "not set".
type Config struct {
	PageName string            `toml:"page_name" yaml:"page_name"`
	NoEdges  bool              `toml:"no_edges" yaml:"no_edges"`
	Sort     string            `toml:"sort" yaml:"sort"`
	Format   string            `toml:"format" yaml:"format"`
	Columns  int               `toml:"columns" yaml:"columns"`
	Shapes   map[string]string `toml:"shapes" yaml:"shapes"`
}

// Load finds and loads the config file. It returns an empty config and an
// empty path when no file exists at the default locations.
func Load(explicit string) (*Config, string, error) {
	path, required := FindConfigPath(explicit)
	if path == "" {
		return &Config{}, "", nil
	}
	if !required && !fileExists(path) {
		return &Config{}, "", nil
	}
	cfg, err := LoadFromPath(path)
	if err != nil {
		return nil, path, err
	}
	return cfg, path, nil
}

// LoadFromPath decodes the file at path. The extension selects the decoder:
// .toml uses TOML, .yaml and .yml use YAML. Unknown keys are rejected.
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config")
	}

	var cfg Config
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		md, err := toml.Decode(string(data), &cfg)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			return nil, errors.New(errors.ErrCodeInvalidConfig,
				"%s: unknown keys: %s", path, strings.Join(keys, ", "))
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		// An empty document decodes to io.EOF; treat it as an empty config.
		if err := dec.Decode(&cfg); err != nil && err != io.EOF {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
		}
	default:
		return nil, errors.New(errors.ErrCodeInvalidConfig,
			"unsupported config extension %q (use .toml, .yaml or .yml)", ext)
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "%s", path)
	}
	return &cfg, nil
}

// Validate checks every set value with the same rules the flags use.
func (c *Config) Validate() error {
	if c.PageName != "" {
		if err := errors.ValidatePageName(c.PageName); err != nil {
			return err
		}
	}
	if c.Sort != "" {
		if err := pipeline.ValidateSort(c.Sort); err != nil {
			return err
		}
	}
	if c.Format != "" {
		if err := pipeline.ValidateFormat(c.Format); err != nil {
			return err
		}
	}
	if err := pipeline.ValidateColumns(c.Columns); err != nil {
		return err
	}
	opts := pipeline.Options{Shapes: c.Shapes}
	_, err := opts.Catalog()
	return err
}

// Apply copies set values into opts. Options whose flag name is in changed
// were set explicitly on the command line and are left alone.
func (c *Config) Apply(opts *pipeline.Options, changed []string) {
	set := func(flag string) bool { return !slices.Contains(changed, flag) }

	if c.PageName != "" && set("page-name") {
		opts.PageName = c.PageName
	}
	if c.NoEdges && set("no-edges") {
		opts.NoEdges = true
	}
	if c.Sort != "" && set("sort") {
		opts.Sort = c.Sort
	}
	if c.Format != "" && set("format") {
		opts.Format = c.Format
	}
	if c.Columns != 0 && set("columns") {
		opts.Columns = c.Columns
	}
	if len(c.Shapes) > 0 {
		merged := maps.Clone(c.Shapes)
		maps.Copy(merged, opts.Shapes)
		opts.Shapes = merged
	}
}
