package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/hyphen-docs/hyphen/internal/docset"
	"github.com/hyphen-docs/hyphen/internal/progress"
)

// Config is the optional YAML configuration file.
type Config struct {
	// SourceDocset is the installed Apple API Reference docset.
	SourceDocset string `yaml:"source_docset"`
	// StyleOverrides replaces the built-in stylesheet additions.
	StyleOverrides string `yaml:"style_overrides"`
	ProgressEvery  int    `yaml:"progress_every"`
	LogLevel       string `yaml:"log_level"`
}

func Default() *Config {
	return &Config{
		SourceDocset:  docset.DefaultSourcePath,
		ProgressEvery: progress.DefaultEvery,
		LogLevel:      "info",
	}
}

// DefaultPath is HYPHEN_CONFIG_FILE when set, otherwise
// <user config dir>/hyphen/config.yaml.
func DefaultPath() string {
	if path := os.Getenv("HYPHEN_CONFIG_FILE"); path != "" {
		return path
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "hyphen", "config.yaml")
}

// Load reads path over the defaults. Keys missing from the file keep
// their default values.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadDefault loads DefaultPath if it exists and falls back to Default.
func LoadDefault() (*Config, error) {
	path := DefaultPath()
	if path == "" {
		return Default(), nil
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return Load(path)
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.SourceDocset) == "" {
		return errors.New("config source_docset is required")
	}
	if c.ProgressEvery <= 0 {
		return errors.New("config progress_every must be positive")
	}
	switch strings.ToLower(c.LogLevel) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("config log_level %q is not one of debug, info, warn, error", c.LogLevel)
	}
	return nil
}

// Options are the validated command-line choices for one run.
type Options struct {
	Languages []docset.Language
	Platforms []docset.Platform
	OutputDir string
}

// ParseOptions validates raw flag values. Repeated values are collapsed,
// keeping the first occurrence.
func ParseOptions(languages, platforms []string, outputDir string) (Options, error) {
	var opts Options
	if len(languages) == 0 {
		return opts, errors.New("at least one language is required")
	}
	if len(platforms) == 0 {
		return opts, errors.New("at least one platform is required")
	}

	for _, raw := range languages {
		l, err := docset.ParseLanguage(raw)
		if err != nil {
			return Options{}, err
		}
		if !slices.Contains(opts.Languages, l) {
			opts.Languages = append(opts.Languages, l)
		}
	}
	for _, raw := range platforms {
		p, err := docset.ParsePlatform(raw)
		if err != nil {
			return Options{}, err
		}
		if !slices.Contains(opts.Platforms, p) {
			opts.Platforms = append(opts.Platforms, p)
		}
	}

	if outputDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return Options{}, fmt.Errorf("resolve working directory: %w", err)
		}
		outputDir = wd
	}
	opts.OutputDir = outputDir
	return opts, nil
}
