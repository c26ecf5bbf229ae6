package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Feedback backends understood by FeedbackConfig.Backend.
const (
	BackendFile     = "file"
	BackendBadger   = "badger"
	BackendValkey   = "valkey"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

// Config aggregates runtime configuration used across the service.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Predictor PredictorConfig `yaml:"predictor"`
	Weather   WeatherConfig   `yaml:"weather"`
	Feedback  FeedbackConfig  `yaml:"feedback"`
	Snapshot  SnapshotConfig  `yaml:"snapshot"`
}

// HTTPConfig controls server level behavior.
type HTTPConfig struct {
	Address        string          `yaml:"address"`
	ReadTimeout    time.Duration   `yaml:"readTimeout"`
	WriteTimeout   time.Duration   `yaml:"writeTimeout"`
	ShutdownGrace  time.Duration   `yaml:"shutdownGrace"`
	AllowedOrigins []string        `yaml:"allowedOrigins"`
	RateLimit      RateLimitConfig `yaml:"rateLimit"`
}

// RateLimitConfig drives the request limiting middleware.
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requestsPerMinute"`
	Burst             int  `yaml:"burst"`
}

// PredictorConfig describes the external predictor process.
type PredictorConfig struct {
	Command   []string      `yaml:"command"`
	Timeout   time.Duration `yaml:"timeout"`
	WaitDelay time.Duration `yaml:"waitDelay"`
}

// WeatherConfig controls the Open-Meteo lookup and the time-of-day clock.
type WeatherConfig struct {
	BaseURL          string        `yaml:"baseUrl"`
	Timeout          time.Duration `yaml:"timeout"`
	Location         string        `yaml:"location"`
	Country          string        `yaml:"country"`
	Timezone         string        `yaml:"timezone"`
	FailureThreshold uint32        `yaml:"failureThreshold"`
	OpenTimeout      time.Duration `yaml:"openTimeout"`
}

// FeedbackConfig selects and configures the feedback store.
type FeedbackConfig struct {
	Backend  string         `yaml:"backend"`
	Path     string         `yaml:"path"`
	Badger   BadgerConfig   `yaml:"badger"`
	Valkey   ValkeyConfig   `yaml:"valkey"`
	Postgres PostgresConfig `yaml:"postgres"`
}

// BadgerConfig points at the embedded database directory. Empty means in-memory.
type BadgerConfig struct {
	Dir string `yaml:"dir"`
}

// ValkeyConfig contains connection information for the list-backed store.
type ValkeyConfig struct {
	Addr   string `yaml:"addr"`
	Prefix string `yaml:"prefix"`
}

// PostgresConfig contains DSN and pooling settings.
type PostgresConfig struct {
	DSN      string `yaml:"dsn"`
	MaxConns int32  `yaml:"maxConns"`
	MinConns int32  `yaml:"minConns"`
}

// SnapshotConfig points feedback exports at S3-compatible storage.
type SnapshotConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"accessKey"`
	SecretKey string `yaml:"secretKey"`
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region"`
}

// Load reads configuration from a YAML file and environment variables.
func Load() (*Config, error) {
	cfg := defaultConfig()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	} else if _, err := os.Stat("configs/config.yaml"); err == nil {
		if err := hydrateFromFile(cfg, "configs/config.yaml"); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("HTTP_ADDRESS"); v != "" {
		cfg.HTTP.Address = v
	}
	if v := os.Getenv("HTTP_ALLOWED_ORIGINS"); v != "" {
		cfg.HTTP.AllowedOrigins = splitList(v)
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_ENABLED"); v != "" {
		cfg.HTTP.RateLimit.Enabled = parseBool(v)
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_RPM"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.RequestsPerMinute = parsed
		}
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_BURST"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.Burst = parsed
		}
	}
	if v := os.Getenv("PREDICTOR_COMMAND"); v != "" {
		cfg.Predictor.Command = strings.Fields(v)
	}
	if v := os.Getenv("PREDICTOR_TIMEOUT"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Predictor.Timeout = parsed
		}
	}
	if v := os.Getenv("WEATHER_BASE_URL"); v != "" {
		cfg.Weather.BaseURL = v
	}
	if v := os.Getenv("WEATHER_LOCATION"); v != "" {
		cfg.Weather.Location = v
	}
	if v := os.Getenv("WEATHER_COUNTRY"); v != "" {
		cfg.Weather.Country = v
	}
	if v := os.Getenv("WEATHER_TIMEZONE"); v != "" {
		cfg.Weather.Timezone = v
	}
	if v := os.Getenv("FEEDBACK_BACKEND"); v != "" {
		cfg.Feedback.Backend = strings.ToLower(strings.TrimSpace(v))
	}
	if v := os.Getenv("FEEDBACK_PATH"); v != "" {
		cfg.Feedback.Path = v
	}
	if v := os.Getenv("FEEDBACK_BADGER_DIR"); v != "" {
		cfg.Feedback.Badger.Dir = v
	}
	if v := os.Getenv("FEEDBACK_VALKEY_ADDR"); v != "" {
		cfg.Feedback.Valkey.Addr = v
	}
	if v := os.Getenv("FEEDBACK_POSTGRES_DSN"); v != "" {
		cfg.Feedback.Postgres.DSN = v
	}
	if v := os.Getenv("FEEDBACK_POSTGRES_MAX_CONNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Feedback.Postgres.MaxConns = int32(parsed)
		}
	}
	if v := os.Getenv("SNAPSHOT_ENABLED"); v != "" {
		cfg.Snapshot.Enabled = parseBool(v)
	}
	if v := os.Getenv("SNAPSHOT_ENDPOINT"); v != "" {
		cfg.Snapshot.Endpoint = v
	}
	if v := os.Getenv("SNAPSHOT_ACCESS_KEY"); v != "" {
		cfg.Snapshot.AccessKey = v
	}
	if v := os.Getenv("SNAPSHOT_SECRET_KEY"); v != "" {
		cfg.Snapshot.SecretKey = v
	}
	if v := os.Getenv("SNAPSHOT_BUCKET"); v != "" {
		cfg.Snapshot.Bucket = v
	}
	if v := os.Getenv("SNAPSHOT_REGION"); v != "" {
		cfg.Snapshot.Region = v
	}
}

func defaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Address:       ":8080",
			ReadTimeout:   5 * time.Second,
			WriteTimeout:  20 * time.Second,
			ShutdownGrace: 20 * time.Second,
			RateLimit: RateLimitConfig{
				Enabled:           true,
				RequestsPerMinute: 60,
				Burst:             20,
			},
		},
		Predictor: PredictorConfig{
			Command:   []string{"brew-predictor"},
			Timeout:   15 * time.Second,
			WaitDelay: 2 * time.Second,
		},
		Weather: WeatherConfig{
			BaseURL:          "https://api.open-meteo.com/v1/forecast",
			Timeout:          10 * time.Second,
			Location:         "Jodhpur",
			Country:          "IN",
			Timezone:         "Local",
			FailureThreshold: 5,
			OpenTimeout:      30 * time.Second,
		},
		Feedback: FeedbackConfig{
			Backend: BackendFile,
			Path:    "data/feedback.json",
			Valkey: ValkeyConfig{
				Prefix: "brew",
			},
			Postgres: PostgresConfig{
				MaxConns: 4,
			},
		},
	}
}

// Validate ensures the configuration is safe to use.
func (c *Config) Validate() error {
	if c.HTTP.Address == "" {
		return errors.New("http.address cannot be empty")
	}
	if c.HTTP.RateLimit.Enabled {
		if c.HTTP.RateLimit.RequestsPerMinute <= 0 {
			return errors.New("http.rateLimit.requestsPerMinute must be positive")
		}
		if c.HTTP.RateLimit.Burst <= 0 {
			return errors.New("http.rateLimit.burst must be positive")
		}
	}
	if len(c.Predictor.Command) == 0 || strings.TrimSpace(c.Predictor.Command[0]) == "" {
		return errors.New("predictor.command cannot be empty")
	}
	if c.Predictor.Timeout <= 0 {
		return errors.New("predictor.timeout must be positive")
	}
	if c.HTTP.WriteTimeout > 0 && c.HTTP.WriteTimeout <= c.Predictor.Timeout {
		return errors.New("http.writeTimeout must exceed predictor.timeout")
	}
	if _, err := c.Weather.ClockLocation(); err != nil {
		return fmt.Errorf("weather.timezone: %w", err)
	}
	switch c.Feedback.Backend {
	case BackendFile:
		if strings.TrimSpace(c.Feedback.Path) == "" {
			return errors.New("feedback.path cannot be empty for the file backend")
		}
	case BackendValkey:
		if strings.TrimSpace(c.Feedback.Valkey.Addr) == "" {
			return errors.New("feedback.valkey.addr cannot be empty for the valkey backend")
		}
	case BackendPostgres:
		if strings.TrimSpace(c.Feedback.Postgres.DSN) == "" {
			return errors.New("feedback.postgres.dsn cannot be empty for the postgres backend")
		}
	case BackendBadger, BackendMemory:
	default:
		return fmt.Errorf("feedback.backend %q is not supported", c.Feedback.Backend)
	}
	if c.Snapshot.Enabled {
		if strings.TrimSpace(c.Snapshot.Endpoint) == "" {
			return errors.New("snapshot.endpoint cannot be empty when snapshots are enabled")
		}
		if strings.TrimSpace(c.Snapshot.Bucket) == "" {
			return errors.New("snapshot.bucket cannot be empty when snapshots are enabled")
		}
	}
	return nil
}

// ClockLocation resolves the configured timezone.
func (w WeatherConfig) ClockLocation() (*time.Location, error) {
	switch strings.TrimSpace(w.Timezone) {
	case "", "Local":
		return time.Local, nil
	case "UTC":
		return time.UTC, nil
	default:
		return time.LoadLocation(w.Timezone)
	}
}

func parseBool(v string) bool {
	return v == "1" || strings.EqualFold(v, "true")
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
