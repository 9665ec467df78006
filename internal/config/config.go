package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const EnvPrefix = "AGENDA"

type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Images   ImagesConfig   `mapstructure:"images"`
	Server   ServerConfig   `mapstructure:"server"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

type ImagesConfig struct {
	Dir           string `mapstructure:"dir"`
	DefaultAvatar string `mapstructure:"default_avatar"`
	ThumbnailSize int    `mapstructure:"thumbnail_size"`
}

type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("database.path", "./contacts.db")

	v.SetDefault("images.dir", "./images")
	v.SetDefault("images.default_avatar", "icons/person.png")
	v.SetDefault("images.thumbnail_size", 128)

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.shutdown_timeout", 5*time.Second)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
}

// Load reads configuration into v from defaults, the optional file at path and
// AGENDA_ prefixed environment variables, in increasing order of precedence.
// Flags already bound to v take precedence over all of them.
func Load(v *viper.Viper, path string) (*Config, error) {
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if path = strings.TrimSpace(path); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if cfg.Images.ThumbnailSize <= 0 {
		return nil, fmt.Errorf("images.thumbnail_size must be positive, got %d", cfg.Images.ThumbnailSize)
	}

	return &cfg, nil
}
