package config

import (
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

const envPrefix = "AIRLINE"

type Config struct {
	HTTP         HTTPConfig         `yaml:"http"`
	GRPC         GRPCConfig         `yaml:"grpc"`
	Database     DatabaseConfig     `yaml:"database"`
	Redis        RedisConfig        `yaml:"redis"`
	Kafka        KafkaConfig        `yaml:"kafka"`
	Cancellation CancellationConfig `yaml:"cancellation"`
	Flights      FlightsConfig      `yaml:"flights"`
	Auth         AuthConfig         `yaml:"auth"`
	Log          LogConfig          `yaml:"log"`
}

type HTTPConfig struct {
	Address    string `yaml:"address" split_words:"true"`
	SwaggerDir string `yaml:"swagger_dir" split_words:"true"`
}

type GRPCConfig struct {
	Address string `yaml:"address" split_words:"true"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host" split_words:"true"`
	Port     int    `yaml:"port" split_words:"true"`
	User     string `yaml:"user" split_words:"true"`
	Password string `yaml:"password" split_words:"true"`
	Name     string `yaml:"name" split_words:"true"`
	SSLMode  string `yaml:"ssl_mode" split_words:"true"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s", d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

type RedisConfig struct {
	Addr     string `yaml:"addr" split_words:"true"`
	Password string `yaml:"password" split_words:"true"`
	DB       int    `yaml:"db" split_words:"true"`
}

type KafkaConfig struct {
	Brokers            []string `yaml:"brokers" split_words:"true"`
	BookingEventsTopic string   `yaml:"booking_events_topic" split_words:"true"`
	NotificationsTopic string   `yaml:"notifications_topic" split_words:"true"`
	GroupID            string   `yaml:"group_id" split_words:"true"`
}

type CancellationConfig struct {
	ChargeRate               float64 `yaml:"charge_rate" split_words:"true"`
	RefundMinDays            int     `yaml:"refund_min_days" split_words:"true"`
	RefundMaxDays            int     `yaml:"refund_max_days" split_words:"true"`
	ReconcileIntervalMinutes int     `yaml:"reconcile_interval_minutes" split_words:"true"`
	LockTTLSeconds           int     `yaml:"lock_ttl_seconds" split_words:"true"`
}

func (c CancellationConfig) ReconcileInterval() time.Duration {
	return time.Duration(c.ReconcileIntervalMinutes) * time.Minute
}

func (c CancellationConfig) LockTTL() time.Duration {
	return time.Duration(c.LockTTLSeconds) * time.Second
}

type FlightsConfig struct {
	SearchCacheTTLSeconds int `yaml:"search_cache_ttl_seconds" split_words:"true"`
}

func (f FlightsConfig) SearchCacheTTL() time.Duration {
	return time.Duration(f.SearchCacheTTLSeconds) * time.Second
}

type AuthConfig struct {
	JWTSecret     string `yaml:"jwt_secret" split_words:"true"`
	TokenTTLHours int    `yaml:"token_ttl_hours" split_words:"true"`
	BcryptCost    int    `yaml:"bcrypt_cost" split_words:"true"`
}

func (a AuthConfig) TokenTTL() time.Duration {
	return time.Duration(a.TokenTTLHours) * time.Hour
}

type LogConfig struct {
	Level string `yaml:"level" split_words:"true"`
}

// LoadConfig reads the YAML file at path, applies AIRLINE_* environment
// overrides and fills defaults for anything left unset.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to apply env overrides: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.HTTP.Address == "" {
		c.HTTP.Address = ":5000"
	}
	if c.GRPC.Address == "" {
		c.GRPC.Address = ":5001"
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.Cancellation.ChargeRate == 0 {
		c.Cancellation.ChargeRate = 0.30
	}
	if c.Cancellation.RefundMinDays == 0 {
		c.Cancellation.RefundMinDays = 4
	}
	if c.Cancellation.RefundMaxDays == 0 {
		c.Cancellation.RefundMaxDays = 7
	}
	if c.Cancellation.ReconcileIntervalMinutes == 0 {
		c.Cancellation.ReconcileIntervalMinutes = 60
	}
	if c.Cancellation.LockTTLSeconds == 0 {
		c.Cancellation.LockTTLSeconds = 300
	}
	if c.Flights.SearchCacheTTLSeconds == 0 {
		c.Flights.SearchCacheTTLSeconds = 600
	}
	if c.Auth.TokenTTLHours == 0 {
		c.Auth.TokenTTLHours = 24
	}
	if c.Auth.BcryptCost == 0 {
		c.Auth.BcryptCost = 10
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

func (c *Config) validate() error {
	if c.Cancellation.ChargeRate < 0 || c.Cancellation.ChargeRate > 1 {
		return fmt.Errorf("cancellation.charge_rate must be within [0, 1], got %v", c.Cancellation.ChargeRate)
	}
	if c.Cancellation.RefundMinDays > c.Cancellation.RefundMaxDays {
		return fmt.Errorf("cancellation.refund_min_days (%d) exceeds refund_max_days (%d)",
			c.Cancellation.RefundMinDays, c.Cancellation.RefundMaxDays)
	}
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwt_secret is required")
	}
	return nil
}
