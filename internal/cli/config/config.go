package config

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/spf13/viper"

	"github.com/conduit-lang/classmeta/runtime/text"
)

// FileName is the configuration file looked up in the working directory
const FileName = "classmeta"

// EnvPrefix prefixes environment overrides: CLASSMETA_SERVER_PORT
const EnvPrefix = "CLASSMETA"

// Config represents the classmeta configuration
type Config struct {
	Definitions []string     `mapstructure:"definitions"`
	Log         LogConfig    `mapstructure:"log"`
	Text        TextConfig   `mapstructure:"text"`
	Store       StoreConfig  `mapstructure:"store"`
	Server      ServerConfig `mapstructure:"server"`
}

// LogConfig represents logging configuration
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// TextConfig bounds the builders used to render listings
type TextConfig struct {
	MaxCapacity int `mapstructure:"max_capacity"`
}

// StoreConfig selects where imported definitions are kept. An empty driver
// disables the store.
type StoreConfig struct {
	Driver    string      `mapstructure:"driver"`
	DSN       string      `mapstructure:"dsn"`
	Redis     RedisConfig `mapstructure:"redis"`
	CacheSize int         `mapstructure:"cache_size"`
}

// RedisConfig represents the redis store connection
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

// ServerConfig represents server configuration
type ServerConfig struct {
	Host      string `mapstructure:"host"`
	Port      int    `mapstructure:"port"`
	JWTSecret string `mapstructure:"jwt_secret"`
}

// Drivers lists the accepted store.driver values
var Drivers = []string{"sqlite3", "pgx", "postgres", "redis"}

func setDefaults(v *viper.Viper) {
	v.SetDefault("definitions", []string{})
	v.SetDefault("log.level", "warn")
	v.SetDefault("text.max_capacity", text.MaxCapacity)
	v.SetDefault("store.driver", "")
	v.SetDefault("store.dsn", "")
	v.SetDefault("store.redis.addr", "localhost:6379")
	v.SetDefault("store.redis.password", "")
	v.SetDefault("store.redis.db", 0)
	v.SetDefault("store.redis.prefix", "classmeta:definitions:")
	v.SetDefault("store.cache_size", 256)
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.jwt_secret", "")
}

// Load loads the configuration from classmeta.yaml in the working
// directory, or from path when it is not empty. A missing default file is
// not an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(FileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Write saves cfg as YAML at path
func Write(path string, cfg *Config) error {
	if err := Validate(cfg); err != nil {
		return err
	}
	v := viper.New()
	v.SetConfigType("yaml")
	v.Set("definitions", cfg.Definitions)
	v.Set("log.level", cfg.Log.Level)
	v.Set("text.max_capacity", cfg.Text.MaxCapacity)
	v.Set("store.driver", cfg.Store.Driver)
	v.Set("store.dsn", cfg.Store.DSN)
	v.Set("store.cache_size", cfg.Store.CacheSize)
	if cfg.Store.Driver == "redis" {
		v.Set("store.redis.addr", cfg.Store.Redis.Addr)
		v.Set("store.redis.db", cfg.Store.Redis.DB)
		v.Set("store.redis.prefix", cfg.Store.Redis.Prefix)
	}
	v.Set("server.host", cfg.Server.Host)
	v.Set("server.port", cfg.Server.Port)
	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Default returns the configuration used when no file is present
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	// Defaults always decode.
	_ = v.Unmarshal(&cfg)
	return &cfg
}

// Validate validates the configuration
func Validate(cfg *Config) error {
	var errs []error
	if cfg.Store.Driver != "" && !isDriver(cfg.Store.Driver) {
		errs = append(errs, fmt.Errorf("store.driver must be one of %s, got: %s",
			strings.Join(Drivers, ", "), cfg.Store.Driver))
	}
	if cfg.Store.Driver != "" && cfg.Store.Driver != "redis" && cfg.Store.DSN == "" {
		errs = append(errs, fmt.Errorf("store.dsn is required for driver %s", cfg.Store.Driver))
	}
	if cfg.Store.CacheSize <= 0 {
		errs = append(errs, fmt.Errorf("store.cache_size must be positive, got: %d", cfg.Store.CacheSize))
	}
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port must be between 1 and 65535, got: %d", cfg.Server.Port))
	}
	if cfg.Text.MaxCapacity <= 0 || cfg.Text.MaxCapacity > text.MaxCapacity {
		errs = append(errs, fmt.Errorf("text.max_capacity must be between 1 and %d, got: %d",
			text.MaxCapacity, cfg.Text.MaxCapacity))
	}
	return errors.Join(errs...)
}

func isDriver(name string) bool {
	for _, d := range Drivers {
		if d == name {
			return true
		}
	}
	return false
}

// Address returns the server listen address
func (c *Config) Address() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}

// BuilderConfig returns the builder configuration for rendering
func (c *Config) BuilderConfig() text.Config {
	cfg := text.DefaultConfig()
	cfg.MaxCapacity = c.Text.MaxCapacity
	if cfg.InitialCapacity > cfg.MaxCapacity {
		cfg.InitialCapacity = cfg.MaxCapacity
	}
	return cfg
}
