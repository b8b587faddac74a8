// Package config holds the immutable service configuration. A Config is
// resolved once at startup from defaults, an optional YAML file, the process
// environment and command-line flags, in that order of precedence.
package config

import (
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment variable read by ApplyEnv.
const EnvPrefix = "CALCULATOR_"

type Config struct {
	Host            string          `yaml:"host" env:"HOST" validate:"required"`
	Port            int             `yaml:"port" env:"PORT" validate:"min=1,max=65535"`
	CORS            CORSConfig      `yaml:"cors" envPrefix:"CORS_"`
	Log             LogConfig       `yaml:"log" envPrefix:"LOG_"`
	Telemetry       TelemetryConfig `yaml:"telemetry" envPrefix:"TELEMETRY_"`
	ShutdownTimeout time.Duration   `yaml:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT" validate:"gt=0"`
	MaxBodyBytes    int64           `yaml:"max_body_bytes" env:"MAX_BODY_BYTES" validate:"gt=0"`
}

type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins" env:"ALLOWED_ORIGINS" envSeparator:"," validate:"min=1,dive,required"`
}

// LogConfig controls the zap logger. File is optional; when set, log lines
// are also written to a size-rotated file.
type LogConfig struct {
	Level      string `yaml:"level" env:"LEVEL" validate:"oneof=debug info warn error"`
	File       string `yaml:"file" env:"FILE"`
	MaxSizeMB  int    `yaml:"max_size_mb" env:"MAX_SIZE_MB" validate:"min=0"`
	MaxBackups int    `yaml:"max_backups" env:"MAX_BACKUPS" validate:"min=0"`
	MaxAgeDays int    `yaml:"max_age_days" env:"MAX_AGE_DAYS" validate:"min=0"`
}

type TelemetryConfig struct {
	Enabled     bool   `yaml:"enabled" env:"ENABLED"`
	ServiceName string `yaml:"service_name" validate:"required"`
}

func Default() Config {
	return Config{
		Host: "0.0.0.0",
		Port: 5005,
		CORS: CORSConfig{
			AllowedOrigins: []string{"*"},
		},
		Log: LogConfig{
			Level:      "info",
			MaxSizeMB:  100,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
		Telemetry: TelemetryConfig{
			ServiceName: "calculator-api",
		},
		ShutdownTimeout: 5 * time.Second,
		MaxBodyBytes:    1 << 20,
	}
}

// Addr returns the listen address in host:port form.
func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return errors.Wrap(err, "invalid configuration")
	}
	return nil
}

// LoadFile overlays the YAML document at path onto cfg. Keys absent from the
// file keep their current values.
func LoadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "read config file %s", path)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return errors.Wrapf(err, "parse config file %s", path)
	}

	return nil
}

// ApplyEnv overlays the CALCULATOR_* variables in environ onto cfg. A nil
// environ reads the process environment. Variables that are not set keep the
// current value.
func ApplyEnv(cfg *Config, environ map[string]string) error {
	if err := env.ParseWithOptions(cfg, env.Options{
		Prefix:      EnvPrefix,
		Environment: environ,
	}); err != nil {
		return errors.Wrap(err, "parse environment")
	}

	cfg.Host = strings.TrimSpace(cfg.Host)
	cfg.CORS.AllowedOrigins = SplitList(strings.Join(cfg.CORS.AllowedOrigins, ","))
	cfg.Log.Level = strings.ToLower(strings.TrimSpace(cfg.Log.Level))

	// The service name follows the OpenTelemetry convention, not our prefix.
	name, ok := environ["OTEL_SERVICE_NAME"]
	if environ == nil {
		name, ok = os.LookupEnv("OTEL_SERVICE_NAME")
	}
	if v := strings.TrimSpace(name); ok && v != "" {
		cfg.Telemetry.ServiceName = v
	}

	return nil
}

// SplitList splits a comma separated list, dropping empty entries.
func SplitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
