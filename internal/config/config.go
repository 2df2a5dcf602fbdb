package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"gopkg.in/yaml.v3"
)

// Config represents the complete configuration for jsonkit
type Config struct {
	Output OutputConfig `yaml:"output"`
	Parse  ParseConfig  `yaml:"parse"`
	Diff   DiffConfig   `yaml:"diff"`
	Dev    DevConfig    `yaml:"dev"`
}

// OutputConfig controls how documents are written
type OutputConfig struct {
	// Format is json or yaml. Empty keeps the format of the input.
	Format   string `yaml:"format"`
	Minify   bool   `yaml:"minify"`
	SortKeys bool   `yaml:"sort_keys"`
	KeyCase  string `yaml:"key_case"`
}

// ParseConfig controls how input is read
type ParseConfig struct {
	StrictYAML bool `yaml:"strict_yaml"`
	Repair     bool `yaml:"repair"`
}

// DiffConfig controls comparison output
type DiffConfig struct {
	Output        string       `yaml:"output"`
	Color         string       `yaml:"color"`
	ShowUnchanged bool         `yaml:"show_unchanged"`
	ContextLines  int          `yaml:"context_lines"`
	Ignore        []IgnoreRule `yaml:"ignore"`
}

// IgnoreRule hides matching paths from comparisons
type IgnoreRule struct {
	Pattern string `yaml:"pattern"`
	Comment string `yaml:"comment,omitempty"`

	// compiled regex (not serialized)
	regex *regexp.Regexp
}

// DevConfig contains development/debug options
type DevConfig struct {
	Debug bool `yaml:"debug"`
}

var (
	outputFormats = []string{"", "json", "yaml"}
	diffOutputs   = []string{"tree", "json", "patch", "merge", "unified"}
	colorModes    = []string{"auto", "always", "never"}
)

// NewConfig creates a new Config with default values
func NewConfig() *Config {
	return &Config{
		Output: OutputConfig{
			Format:   "",
			Minify:   false,
			SortKeys: false,
		},
		Parse: ParseConfig{
			StrictYAML: false,
			Repair:     true,
		},
		Diff: DiffConfig{
			Output:       "tree",
			Color:        "auto",
			ContextLines: 3,
			Ignore:       []IgnoreRule{},
		},
		Dev: DevConfig{
			Debug: false,
		},
	}
}

// LoadConfig loads configuration from a YAML file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Start with defaults
	cfg := NewConfig()

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if err := cfg.compilePatterns(); err != nil {
		return nil, fmt.Errorf("failed to compile patterns: %w", err)
	}

	return cfg, nil
}

// FindConfigFile searches for a config file in current directory and parents
func FindConfigFile() string {
	configNames := []string{".jsonkit.yml", ".jsonkit.yaml", "jsonkit.yml", "jsonkit.yaml"}

	currentDir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		for _, name := range configNames {
			configPath := filepath.Join(currentDir, name)
			if _, err := os.Stat(configPath); err == nil {
				return configPath
			}
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached root directory
			break
		}
		currentDir = parentDir
	}

	return ""
}

// Resolve loads the config at explicitPath, or the nearest discovered
// config file, or the defaults. It returns the path it used, if any.
func Resolve(explicitPath string) (*Config, string, error) {
	configPath := explicitPath
	if configPath == "" {
		configPath = FindConfigFile()
	}
	if configPath == "" {
		return NewConfig(), "", nil
	}
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return nil, configPath, err
	}
	return cfg, configPath, nil
}

// Validate checks the enumerated settings
func (c *Config) Validate() error {
	if !oneOf(c.Output.Format, outputFormats) {
		return fmt.Errorf("invalid output.format '%s': expected json or yaml", c.Output.Format)
	}
	if !oneOf(c.Diff.Output, diffOutputs) {
		return fmt.Errorf("invalid diff.output '%s': expected one of %v", c.Diff.Output, diffOutputs)
	}
	if !oneOf(c.Diff.Color, colorModes) {
		return fmt.Errorf("invalid diff.color '%s': expected one of %v", c.Diff.Color, colorModes)
	}
	if c.Diff.ContextLines < 0 {
		return fmt.Errorf("invalid diff.context_lines %d: must not be negative", c.Diff.ContextLines)
	}
	return nil
}

func oneOf(value string, allowed []string) bool {
	for _, a := range allowed {
		if value == a {
			return true
		}
	}
	return false
}

// compilePatterns compiles all regex patterns in the config
func (c *Config) compilePatterns() error {
	for i := range c.Diff.Ignore {
		rule := &c.Diff.Ignore[i]
		regex, err := regexp.Compile(rule.Pattern)
		if err != nil {
			return fmt.Errorf("invalid ignore pattern '%s': %w", rule.Pattern, err)
		}
		rule.regex = regex
	}
	return nil
}

// MatchesPath checks if this rule matches the given canonical path
func (r *IgnoreRule) MatchesPath(path string) bool {
	if r.regex == nil {
		// Try to compile if not already compiled (fallback)
		regex, err := regexp.Compile(r.Pattern)
		if err != nil {
			return false
		}
		r.regex = regex
	}
	return r.regex.MatchString(path)
}

// IgnoresPath reports whether any ignore rule matches path
func (c *Config) IgnoresPath(path string) bool {
	for i := range c.Diff.Ignore {
		if c.Diff.Ignore[i].MatchesPath(path) {
			return true
		}
	}
	return false
}

// MergeConfigs merges CLI overrides into a base config.
// Non-empty values from override take precedence over base values. Boolean
// flags can only switch a setting on.
func MergeConfigs(base, override *Config) *Config {
	merged := *base // Start with a copy of base
	merged.Diff.Ignore = append(append([]IgnoreRule{}, base.Diff.Ignore...), override.Diff.Ignore...)

	if override.Output.Format != "" {
		merged.Output.Format = override.Output.Format
	}
	if override.Output.KeyCase != "" {
		merged.Output.KeyCase = override.Output.KeyCase
	}
	merged.Output.Minify = base.Output.Minify || override.Output.Minify
	merged.Output.SortKeys = base.Output.SortKeys || override.Output.SortKeys

	merged.Parse.StrictYAML = base.Parse.StrictYAML || override.Parse.StrictYAML

	if override.Diff.Output != "" {
		merged.Diff.Output = override.Diff.Output
	}
	if override.Diff.Color != "" {
		merged.Diff.Color = override.Diff.Color
	}
	if override.Diff.ContextLines > 0 {
		merged.Diff.ContextLines = override.Diff.ContextLines
	}
	merged.Diff.ShowUnchanged = base.Diff.ShowUnchanged || override.Diff.ShowUnchanged

	merged.Dev.Debug = base.Dev.Debug || override.Dev.Debug

	return &merged
}
