// Package config loads the settings of the contacts app from an optional config file and from
// environment variables.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Server ServerConfig
	Swipe  SwipeConfig
}

// ServerConfig holds the settings of the HTTP shell adapter.
type ServerConfig struct {
	Port           int    `mapstructure:"port"`
	GinMode        string `mapstructure:"gin_mode"`
	RequestLogging bool   `mapstructure:"request_logging"`
}

// SwipeConfig holds the settings of the swipe-to-delete rows.
type SwipeConfig struct {
	DeleteDuration time.Duration `mapstructure:"delete_duration"`
}

// Load reads configuration from file and env. Env var overrides use prefix CONTACTS_, for example
// CONTACTS_SERVER_PORT=9090. The file named by CONTACTS_CONFIG is read if set.
func Load() (Config, error) {
	v := viper.New()

	// default values
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.gin_mode", "release")
	v.SetDefault("server.request_logging", true)
	v.SetDefault("swipe.delete_duration", 200*time.Millisecond)

	v.SetEnvPrefix("CONTACTS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgPath := os.Getenv("CONTACTS_CONFIG"); cfgPath != "" {
		v.SetConfigFile(cfgPath)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", cfgPath, err)
		}
	}

	// GIN_LOGGING=off keeps working as it did for the REST service.
	if strings.EqualFold(os.Getenv("GIN_LOGGING"), "off") {
		v.Set("server.request_logging", false)
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return Config{}, fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	switch c.Server.GinMode {
	case "debug", "release", "test":
	default:
		return Config{}, fmt.Errorf("invalid gin mode %q", c.Server.GinMode)
	}
	if c.Swipe.DeleteDuration <= 0 {
		return Config{}, fmt.Errorf("invalid swipe delete duration %s, must be positive", c.Swipe.DeleteDuration)
	}
	return c, nil
}

// Addr returns the listen address of the server.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf(":%d", s.Port)
}
