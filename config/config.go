package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	HTTPPort        int           `mapstructure:"http_port"`
	GRPCPort        int           `mapstructure:"grpc_port"` // 0 disables the gRPC health server
	LogLevel        string        `mapstructure:"log_level"`
	ServiceName     string        `mapstructure:"service_name"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`

	Database DatabaseConfig `mapstructure:"database"`
	Uploads  UploadsConfig  `mapstructure:"uploads"`
	CORS     CORSConfig     `mapstructure:"cors"`
	Consul   ConsulConfig   `mapstructure:"consul"`
}

type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"` // sqlite, mysql or postgres
	DSN             string        `mapstructure:"dsn"`
	LogLevel        string        `mapstructure:"log_level"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

type UploadsConfig struct {
	Dir          string `mapstructure:"dir"`
	MaxBodyBytes int64  `mapstructure:"max_body_bytes"`
	SniffContent bool   `mapstructure:"sniff_content"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type ConsulConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Address string `mapstructure:"address"`

	// ServiceHost is the address Consul uses to reach this instance; empty
	// means the machine's hostname.
	ServiceHost string `mapstructure:"service_host"`
}

const envPrefix = "TIERLIST"

var knownDrivers = map[string]bool{"sqlite": true, "mysql": true, "postgres": true}

// Load reads config.yaml from the given search paths (defaults to "." and
// "./config"), applies TIERLIST_* environment overrides and fills defaults.
// A missing config file is not an error.
func Load(searchPaths ...string) (Config, error) {
	// .env is optional; values already set in the environment win.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("loading .env: %w", err)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if len(searchPaths) == 0 {
		searchPaths = []string{".", "./config"}
	}
	for _, p := range searchPaths {
		v.AddConfigPath(p)
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("http_port", 8080)
	v.SetDefault("grpc_port", 50051)
	v.SetDefault("log_level", "info")
	v.SetDefault("service_name", "tierlist")
	v.SetDefault("shutdown_timeout", 10*time.Second)

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "tierlist.db")
	v.SetDefault("database.log_level", "warn")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", 30*time.Minute)

	v.SetDefault("uploads.dir", "uploads")
	v.SetDefault("uploads.max_body_bytes", 16<<20)
	v.SetDefault("uploads.sniff_content", true)

	v.SetDefault("cors.allowed_origins", []string{"*"})

	v.SetDefault("consul.enabled", false)
	v.SetDefault("consul.address", "127.0.0.1:8500")
	v.SetDefault("consul.service_host", "")
}

// Validate rejects configurations the service cannot start with.
func (c Config) Validate() error {
	if !knownDrivers[c.Database.Driver] {
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	if c.Database.DSN == "" {
		return errors.New("database.dsn must not be empty")
	}
	if c.Uploads.Dir == "" {
		return errors.New("uploads.dir must not be empty")
	}
	if c.Uploads.MaxBodyBytes <= 0 {
		return fmt.Errorf("uploads.max_body_bytes must be positive, got %d", c.Uploads.MaxBodyBytes)
	}
	if c.HTTPPort <= 0 {
		return fmt.Errorf("invalid http_port %d", c.HTTPPort)
	}
	if c.GRPCPort < 0 {
		return fmt.Errorf("invalid grpc_port %d", c.GRPCPort)
	}
	return nil
}
