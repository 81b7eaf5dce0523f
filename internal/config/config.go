// Package config loads the bitstream tool configuration from a YAML file,
// BITSTREAM_* environment variables and built-in defaults.
package config

import (
	"fmt"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"

	"github.com/thebagchi/bitstream-go/internal/layout"
	"github.com/thebagchi/bitstream-go/internal/logger"
)

// Config is the bitstream tool configuration.
//
// Sections:
//   - Logging: level, format and destination of diagnostic output
//   - Output: how decoded records are printed
//   - Layout: the record layout used by decode and encode
type Config struct {
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`
	Output  OutputConfig  `mapstructure:"output" yaml:"output"`
	Layout  layout.Layout `mapstructure:"layout" yaml:"layout"`
}

// LoggingConfig mirrors logger.Config.
type LoggingConfig struct {
	// Level is the minimum level written: DEBUG, INFO, WARN or ERROR.
	Level string `mapstructure:"level" validate:"required,oneof=DEBUG INFO WARN ERROR debug info warn error" yaml:"level"`

	// Format is text or json.
	Format string `mapstructure:"format" validate:"required,oneof=text json" yaml:"format"`

	// Output is stdout, stderr or a file path.
	Output string `mapstructure:"output" validate:"required" yaml:"output"`
}

// Logger converts the section for logger.Init.
func (c LoggingConfig) Logger() logger.Config {
	return logger.Config{Level: c.Level, Format: c.Format, Output: c.Output}
}

// OutputConfig controls decode output.
type OutputConfig struct {
	// Format selects the renderer: table, json, yaml or msgpack.
	Format string `mapstructure:"format" validate:"required,oneof=table json yaml msgpack" yaml:"format"`

	// Trace logs every bit engine call at DEBUG.
	Trace bool `mapstructure:"trace" yaml:"trace"`
}

// GetDefaultConfig returns the configuration used when no file is given.
func GetDefaultConfig() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:  "INFO",
			Format: "text",
			Output: "stderr",
		},
		Output: OutputConfig{
			Format: "table",
		},
	}
}

// Load loads configuration from file, environment, and defaults.
//
// Configuration precedence (highest to lowest):
//  1. Environment variables (BITSTREAM_*)
//  2. Configuration file
//  3. Default values
//
// An empty configPath skips the file. A path that does not exist is an error.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setupViper(v, configPath)

	if configPath != "" {
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, viper.DecodeHook(configDecodeHooks())); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

// Validate checks struct tags and the layout semantics.
func Validate(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return err
	}
	if len(cfg.Layout.Fields) == 0 {
		return nil
	}
	return cfg.Layout.Validate()
}

// setupViper configures environment variable support, defaults and the
// config file.
func setupViper(v *viper.Viper, configPath string) {
	// Example: BITSTREAM_OUTPUT_FORMAT=json
	v.SetEnvPrefix("BITSTREAM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults make every key known to viper so the environment can override it
	defaults := GetDefaultConfig()
	v.SetDefault("logging.level", defaults.Logging.Level)
	v.SetDefault("logging.format", defaults.Logging.Format)
	v.SetDefault("logging.output", defaults.Logging.Output)
	v.SetDefault("output.format", defaults.Output.Format)
	v.SetDefault("output.trace", defaults.Output.Trace)
	v.SetDefault("layout.name", "")
	v.SetDefault("layout.fields", []string{})

	if configPath != "" {
		v.SetConfigFile(configPath)
		if filepath.Ext(configPath) == "" {
			v.SetConfigType("yaml")
		}
	}
}

// configDecodeHooks returns a combined decode hook for all custom types.
func configDecodeHooks() mapstructure.DecodeHookFunc {
	return mapstructure.ComposeDecodeHookFunc(
		fieldDecodeHook(),
		mapstructure.StringToSliceHookFunc(","),
	)
}

// fieldDecodeHook returns a mapstructure decode hook that converts shorthand
// strings such as "x:quantized:20:8192:0" to layout.Field. Mappings are left
// to the default decoder.
func fieldDecodeHook() mapstructure.DecodeHookFunc {
	return func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		// Only handle conversion to Field
		if to != reflect.TypeOf(layout.Field{}) {
			return data, nil
		}

		switch v := data.(type) {
		case string:
			return layout.ParseField(v)
		default:
			return data, nil
		}
	}
}
