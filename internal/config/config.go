// Package config handles epsconv configuration loading.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"epsconv/internal/rewrite"
	"epsconv/pkg/format"
)

// ErrUnknownFormat is returned for format names missing from the built-in table.
var ErrUnknownFormat = errors.New("unknown output format")

// Config is the root configuration structure.
type Config struct {
	Ghostscript GhostscriptConfig       `yaml:"ghostscript"`
	Formats     map[string]FormatConfig `yaml:"formats"`
	Convert     ConvertConfig           `yaml:"convert"`
	Report      ReportConfig            `yaml:"report"`
}

// GhostscriptConfig holds rasterizer process settings.
type GhostscriptConfig struct {
	Binary    string        `yaml:"binary"`
	ExtraArgs []string      `yaml:"extra_args"`
	Timeout   time.Duration `yaml:"timeout"` // per format invocation; 0 disables
}

// FormatConfig overrides the built-in device table for one format.
// Zero values keep the built-in setting.
type FormatConfig struct {
	Device     string `yaml:"device"`
	Resolution int    `yaml:"resolution"`
}

// ConvertConfig holds conversion defaults.
type ConvertConfig struct {
	Formats     []string `yaml:"formats"`
	Orientation string   `yaml:"orientation"` // none, flip or remove
	OutputDir   string   `yaml:"output_dir"`
	TempDir     string   `yaml:"temp_dir"` // empty means os.TempDir()
	Concurrency int      `yaml:"concurrency"`
}

// ReportConfig holds report persistence settings.
type ReportConfig struct {
	File string `yaml:"file"` // JSON history; empty disables
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Ghostscript: GhostscriptConfig{
			Binary:  "gs",
			Timeout: 2 * time.Minute,
		},
		Formats: map[string]FormatConfig{},
		Convert: ConvertConfig{
			Formats:     []string{format.PNG},
			Orientation: rewrite.NoChange.String(),
			OutputDir:   ".",
			Concurrency: 4,
		},
		Report: ReportConfig{
			File: ".epsconv_reports.json",
		},
	}
}

// Load loads configuration from a file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// LoadOrDefault loads config from path, or returns default if not found.
func LoadOrDefault(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), nil
	}

	return Load(path)
}

// Save saves configuration to a file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Validate checks values that would otherwise fail later, mid-conversion.
func (c *Config) Validate() error {
	if c.Ghostscript.Binary == "" {
		return errors.New("ghostscript.binary must not be empty")
	}
	if c.Ghostscript.Timeout < 0 {
		return errors.New("ghostscript.timeout must not be negative")
	}
	if c.Convert.Concurrency < 0 {
		return errors.New("convert.concurrency must not be negative")
	}
	if _, err := rewrite.ParseMode(c.Convert.Orientation); err != nil {
		return err
	}
	seen := make(map[string]string, len(c.Formats))
	for name, fc := range c.Formats {
		f, ok := format.Lookup(name)
		if !ok {
			return fmt.Errorf("%w: %q", ErrUnknownFormat, name)
		}
		if prev, dup := seen[f.Name]; dup {
			return fmt.Errorf("formats.%s and formats.%s both configure %s", prev, name, f.Name)
		}
		seen[f.Name] = name
		if fc.Resolution < 0 {
			return fmt.Errorf("formats.%s.resolution must not be negative", name)
		}
	}
	if _, err := format.Parse(c.Convert.Formats); err != nil {
		return fmt.Errorf("%w: %v", ErrUnknownFormat, err)
	}
	return nil
}

// Resolve returns the formats for names with this config's overrides applied.
// An empty names list selects Convert.Formats.
func (c *Config) Resolve(names []string) ([]format.Format, error) {
	if len(names) == 0 {
		names = c.Convert.Formats
	}
	formats, err := format.Parse(names)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnknownFormat, err)
	}
	for i, f := range formats {
		formats[i] = c.apply(f)
	}
	return formats, nil
}

// Table returns every built-in format with overrides applied.
func (c *Config) Table() []format.Format {
	all := format.All()
	for i, f := range all {
		all[i] = c.apply(f)
	}
	return all
}

func (c *Config) apply(f format.Format) format.Format {
	for name, fc := range c.Formats {
		if canonical, ok := format.Lookup(name); !ok || canonical.Name != f.Name {
			continue
		}
		if fc.Device != "" {
			f.Device = fc.Device
		}
		if fc.Resolution > 0 {
			f.Resolution = fc.Resolution
		}
	}
	return f
}

// OrientationMode parses Convert.Orientation.
func (c *Config) OrientationMode() (rewrite.Mode, error) {
	return rewrite.ParseMode(c.Convert.Orientation)
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	if _, err := os.Stat("epsconv.yaml"); err == nil {
		return "epsconv.yaml"
	}
	if dir, err := os.UserConfigDir(); err == nil {
		p := filepath.Join(dir, "epsconv", "config.yaml")
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return "epsconv.yaml"
}
