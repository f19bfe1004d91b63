// Package config loads the settings of the select-related tool.
//
// Values come from defaults, an optional select-related.yaml and environment variables
// prefixed with SELECT_RELATED_, later sources winning. Nested keys map to env names by
// replacing dots with underscores, so database.url is SELECT_RELATED_DATABASE_URL.
package config

import (
	"errors"
	"fmt"
	"github.com/spf13/viper"
	"strings"
)

const (
	EnvPrefix  = "SELECT_RELATED"
	configName = "select-related"
)

type Config struct {
	Database Database `mapstructure:"database"`
	Log      Log      `mapstructure:"log"`
}

// Database selects the storage. URL, when set, takes precedence over Driver and DSN.
type Database struct {
	URL    string `mapstructure:"url"`
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
}

type Log struct {
	Level string `mapstructure:"level"`
	SQL   bool   `mapstructure:"sql"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("database.url", "")
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "select_related.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.sql", false)
}

// Load reads configFile, or select-related.yaml in the working directory when configFile is empty.
// A missing select-related.yaml is not an error, a missing configFile is.
func Load(configFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(configName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &cfg, nil
}
