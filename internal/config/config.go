// Package config holds the scan configuration table: the recognized loader
// functions and the rule constants the classifier evaluates. Everything here
// is data, so new loader APIs are added by configuration, not code changes.
package config

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/spf13/viper"

	"github.com/revscan-dev/revscan/internal/classify"
)

// Config is the complete scan configuration. Defaults cover the hub loader
// APIs; a .revscan.yaml file or REVSCAN_* environment variables override.
type Config struct {
	Functions          []string `mapstructure:"functions"`
	RevisionKeyword    string   `mapstructure:"revision_keyword"`
	AuthKeywords       []string `mapstructure:"auth_keywords"`
	LocalFlagKeywords  []string `mapstructure:"local_flag_keywords"`
	IdentifierKeywords []string `mapstructure:"identifier_keywords"`
	ShaPattern         string   `mapstructure:"sha_pattern"`
	Extensions         []string `mapstructure:"extensions"`
	ExcludeDirs        []string `mapstructure:"exclude_dirs"`
	Workers            int      `mapstructure:"workers"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Functions: []string{
			"from_pretrained",
			"load_dataset",
			"hf_hub_download",
			"snapshot_download",
		},
		RevisionKeyword:    "revision",
		AuthKeywords:       []string{"use_auth_token", "token"},
		LocalFlagKeywords:  []string{"local_files_only"},
		IdentifierKeywords: []string{"pretrained_model_name_or_path", "repo_id", "path"},
		ShaPattern:         classify.DefaultShaPattern,
		Extensions:         []string{".py", ".pyw"},
		ExcludeDirs: []string{
			".git",
			"node_modules",
			"__pycache__",
			".mypy_cache",
			".venv",
			"venv",
			".env",
		},
		Workers: 0, // 0 means one worker per CPU
	}
}

// Load builds the configuration from defaults, an optional config file, and
// the environment. An empty path searches for .revscan.yaml in the working
// directory; a missing file is not an error, a malformed one is.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v, Default())

	v.SetEnvPrefix("REVSCAN")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	} else {
		v.SetConfigName(".revscan")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("functions", cfg.Functions)
	v.SetDefault("revision_keyword", cfg.RevisionKeyword)
	v.SetDefault("auth_keywords", cfg.AuthKeywords)
	v.SetDefault("local_flag_keywords", cfg.LocalFlagKeywords)
	v.SetDefault("identifier_keywords", cfg.IdentifierKeywords)
	v.SetDefault("sha_pattern", cfg.ShaPattern)
	v.SetDefault("extensions", cfg.Extensions)
	v.SetDefault("exclude_dirs", cfg.ExcludeDirs)
	v.SetDefault("workers", cfg.Workers)
}

// Validate checks the configuration values.
func (c *Config) Validate() error {
	if len(c.Functions) == 0 {
		return errors.New("functions cannot be empty")
	}
	for _, fn := range c.Functions {
		if !identifierRe.MatchString(fn) {
			return fmt.Errorf("function %q is not a plain identifier", fn)
		}
	}
	if c.RevisionKeyword == "" {
		return errors.New("revision_keyword cannot be empty")
	}
	if len(c.Extensions) == 0 {
		return errors.New("extensions cannot be empty")
	}
	for _, ext := range c.Extensions {
		if !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("extension %q must start with a dot", ext)
		}
	}
	if c.Workers < 0 {
		return errors.New("workers cannot be negative")
	}
	if _, err := regexp.Compile(c.ShaPattern); err != nil {
		return fmt.Errorf("invalid sha_pattern: %w", err)
	}
	return nil
}

// Rules compiles the classifier rule set from the configuration.
func (c *Config) Rules() (*classify.Rules, error) {
	return classify.NewRules(
		c.RevisionKeyword,
		c.AuthKeywords,
		c.LocalFlagKeywords,
		c.IdentifierKeywords,
		c.ShaPattern,
	)
}

var identifierRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
