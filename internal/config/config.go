// Package config loads Scriptor configuration via viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

var (
	configData Config
	v          *viper.Viper
)

// Config holds all configuration settings.
type Config struct {
	// Plugin subsystem configuration
	Plugins struct {
		Dir              string
		ExecTimeout      time.Duration
		InstructionLimit int64
	}
	// Logging configuration
	Log struct {
		Level  string
		Format string
	}
}

// Initialize sets up the configuration system. Missing config files are
// not an error; defaults and SCRIPTOR_* environment variables apply.
func Initialize() error {
	v = viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.scriptor")
	v.AddConfigPath("/etc/scriptor/")

	setDefaults()

	v.SetEnvPrefix("SCRIPTOR")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	if err := v.Unmarshal(&configData); err != nil {
		return fmt.Errorf("unable to decode into config struct: %w", err)
	}

	return nil
}

// setDefaults sets default values for all configuration options.
func setDefaults() {
	v.SetDefault("plugins.dir", "plugins")
	v.SetDefault("plugins.exectimeout", 5*time.Second)
	v.SetDefault("plugins.instructionlimit", int64(10_000_000))

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "human")
}

// Get returns the loaded configuration.
func Get() Config {
	return configData
}

// Set overrides a configuration value at runtime (used by CLI flags).
func Set(key string, value any) error {
	if v == nil {
		return nil
	}
	v.Set(key, value)
	if err := v.Unmarshal(&configData); err != nil {
		return fmt.Errorf("unable to decode into config struct: %w", err)
	}
	return nil
}
