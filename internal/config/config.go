// Package config loads filter-fallback settings from YAML or JSON files.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"bennypowers.dev/filterfallback/internal/fallback"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig indicates a config file could not be decoded
var ErrInvalidConfig = errors.New("invalid config")

// FileNames are the config file names Load looks for, in order, first under
// .config/ and then in the root itself
var FileNames = []string{
	"filter-fallback.yaml",
	"filter-fallback.yml",
	"filter-fallback.json",
}

// Config is the on-disk configuration. Fields missing from a file keep
// their Default value.
type Config struct {
	// Legacy adds proprietary filter declarations for old engines
	Legacy bool `yaml:"legacy" json:"legacy"`
	// SVG adds a filter declaration referencing an inline SVG document
	SVG bool `yaml:"svg" json:"svg"`
	// Webkit adds a -webkit-filter clone
	Webkit bool `yaml:"webkit" json:"webkit"`
	// Strict is true, false or "warn"
	Strict fallback.StrictMode `yaml:"strict" json:"strict"`
	// SkipIfDuplicated leaves rules with several filter declarations alone
	SkipIfDuplicated bool `yaml:"skipIfDuplicated" json:"skipIfDuplicated"`
	// EncodeDataURI percent-encodes the SVG document
	EncodeDataURI bool `yaml:"encodeDataURI" json:"encodeDataURI"`
	// Files are doublestar globs the CLI expands when given no paths
	Files []string `yaml:"files" json:"files"`
	// LogLevel is one of debug, info, warn, error
	LogLevel string `yaml:"logLevel" json:"logLevel"`
}

// Default returns the CLI defaults: SVG and -webkit- fallbacks for CSS files
func Default() Config {
	return Config{
		SVG:              true,
		Webkit:           true,
		Strict:           fallback.StrictWarn,
		SkipIfDuplicated: true,
		Files:            []string{"**/*.css"},
		LogLevel:         "info",
	}
}

// Options maps the config onto processor options
func (c Config) Options() fallback.Options {
	return fallback.Options{
		LegacyOutput:     c.Legacy,
		VectorOutput:     c.SVG,
		VendorPrefix:     c.Webkit,
		Strict:           c.Strict,
		SkipIfDuplicated: c.SkipIfDuplicated,
		EncodeDataURI:    c.EncodeDataURI,
	}
}

// Find returns the first config file present under root, or "" if none is
func Find(root string) string {
	for _, dir := range []string{filepath.Join(root, ".config"), root} {
		for _, name := range FileNames {
			path := filepath.Join(dir, name)
			if info, err := os.Stat(path); err == nil && !info.IsDir() {
				return path
			}
		}
	}
	return ""
}

// Load reads the config file found under root over the defaults. It
// returns the path it read, or "" when root has no config file.
func Load(root string) (Config, string, error) {
	path := Find(root)
	if path == "" {
		return Default(), "", nil
	}
	cfg, err := LoadFile(path)
	return cfg, path, err
}

// LoadFile reads one config file over the defaults, choosing the decoder by
// extension
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Default(), fmt.Errorf("reading config: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FromYAML(data, path)
	default:
		return FromJSON(data, path)
	}
}

// FromYAML decodes YAML config data over the defaults. source names the data
// in error messages.
func FromYAML(data []byte, source string) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("%w: %s: %v", ErrInvalidConfig, source, err)
	}
	return cfg, nil
}

// FromJSON decodes JSON config data, comments and trailing commas allowed,
// over the defaults
func FromJSON(data []byte, source string) (Config, error) {
	cfg, err := Default().WithJSON(data, source)
	if err != nil {
		return Default(), err
	}
	return cfg, nil
}

// WithJSON decodes JSON config data over c. Fields absent from data keep
// their value in c.
func (c Config) WithJSON(data []byte, source string) (Config, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return c, nil
	}
	out := c
	out.Files = append([]string(nil), c.Files...)
	if err := json.Unmarshal(jsonc.ToJSON(data), &out); err != nil {
		return c, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, source, err)
	}
	return out, nil
}
