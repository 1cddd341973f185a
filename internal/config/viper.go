// Package config loads the importer configuration: defaults, config.yaml, .env and STMTIMPORT_* variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable read by InitializeConfig.
const EnvPrefix = "STMTIMPORT"

// LogConfig controls the logging adapter.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// CSVConfig controls the ledger CSV written by the CLI.
type CSVConfig struct {
	Delimiter string `mapstructure:"delimiter" yaml:"delimiter"`
}

// ImportConfig holds the import pipeline limits.
type ImportConfig struct {
	MaxFileSize           int64 `mapstructure:"max_file_size" yaml:"max_file_size"`
	HeaderScanRows        int   `mapstructure:"header_scan_rows" yaml:"header_scan_rows"`
	DescriptionMaxLength  int   `mapstructure:"description_max_length" yaml:"description_max_length"`
	MaxStoredTransactions int   `mapstructure:"max_stored_transactions" yaml:"max_stored_transactions"` // 0 = unlimited
}

// FormatsConfig points at user descriptors and the format used when none is named.
type FormatsConfig struct {
	File    string `mapstructure:"file" yaml:"file"`
	Default string `mapstructure:"default" yaml:"default"`
}

// CardsConfig holds the card filter. An empty allowed list admits every card.
type CardsConfig struct {
	Allowed []string `mapstructure:"allowed" yaml:"allowed"`
	Blocked []string `mapstructure:"blocked" yaml:"blocked"`
}

// Config is the full importer configuration.
type Config struct {
	Log     LogConfig     `mapstructure:"log" yaml:"log"`
	CSV     CSVConfig     `mapstructure:"csv" yaml:"csv"`
	Import  ImportConfig  `mapstructure:"import" yaml:"import"`
	Formats FormatsConfig `mapstructure:"formats" yaml:"formats"`
	Cards   CardsConfig   `mapstructure:"cards" yaml:"cards"`
}

// searchPaths are tried in order for config.yaml.
var searchPaths = []string{"$HOME/.stmt-import", ".stmt-import", "."}

// defaults holds every key InitializeConfig knows about.
var defaults = map[string]interface{}{
	"log.level":                      "info",
	"log.format":                     "text",
	"csv.delimiter":                  ",",
	"import.max_file_size":           5 << 20,
	"import.header_scan_rows":        15,
	"import.description_max_length":  200,
	"import.max_stored_transactions": 0,
	"formats.file":                   "",
	"formats.default":                "generic",
	"cards.allowed":                  []string{},
	"cards.blocked":                  []string{},
}

func newViper() *viper.Viper {
	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	return v
}

// InitializeConfig layers defaults, an optional config.yaml and STMTIMPORT_* variables,
// then validates the result.
func InitializeConfig() (*Config, error) {
	v := newViper()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, p := range searchPaths {
		v.AddConfigPath(p)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	err := v.ReadInConfig()
	var notFound viper.ConfigFileNotFoundError
	if err != nil && !errors.As(err, &notFound) {
		return nil, fmt.Errorf("error reading config file %s: %w", v.ConfigFileUsed(), err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Default returns the configuration InitializeConfig produces with no file and no environment.
func Default() *Config {
	cfg := &Config{}
	_ = newViper().Unmarshal(cfg)
	return cfg
}

// Validate reports the first out-of-range setting.
func (c *Config) Validate() error {
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", c.Log.Level)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", c.Log.Format)
	}
	if utf8.RuneCountInString(c.CSV.Delimiter) != 1 {
		return fmt.Errorf("CSV delimiter must be a single character, got: %s", c.CSV.Delimiter)
	}

	imp := c.Import
	switch {
	case imp.MaxFileSize <= 0:
		return fmt.Errorf("import.max_file_size must be positive, got: %d", imp.MaxFileSize)
	case imp.HeaderScanRows < 1 || imp.HeaderScanRows > 100:
		return fmt.Errorf("import.header_scan_rows must be between 1 and 100, got: %d", imp.HeaderScanRows)
	case imp.DescriptionMaxLength < 1:
		return fmt.Errorf("import.description_max_length must be positive, got: %d", imp.DescriptionMaxLength)
	case imp.MaxStoredTransactions < 0:
		return fmt.Errorf("import.max_stored_transactions must not be negative, got: %d", imp.MaxStoredTransactions)
	}
	return nil
}

// DelimiterRune returns the configured ledger delimiter.
func (c *Config) DelimiterRune() rune {
	r, _ := utf8.DecodeRuneInString(c.CSV.Delimiter)
	return r
}
