package config

import (
	"errors"
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	DB        DBConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Backend   BackendConfig
	Dashboard DashboardConfig
	AMQP      AMQPConfig
}

type AppConfig struct {
	Port          string
	Env           string
	Timezone      string
	LogLevel      string
	InFlightTTL   time.Duration
	AuthRateLimit int
}

type DBConfig struct {
	Host        string
	Port        string
	User        string
	Password    string
	Name        string
	AutoMigrate bool
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret        string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
}

type BackendConfig struct {
	BaseURL string
	Timeout time.Duration
}

type DashboardConfig struct {
	MaxConcurrency int
}

type AMQPConfig struct {
	URL      string
	Exchange string
}

// Location returns the configured timezone, falling back to UTC.
func (c AppConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// LoadConfig reads .env when present, then the process environment.
func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}

	return fromViper(v), nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_TIMEZONE", "Europe/Paris")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("INFLIGHT_TTL", "30s")
	v.SetDefault("RATE_LIMIT_AUTH", 20)
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_AUTO_MIGRATE", true)
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("BACKEND_URL", "http://localhost:5000")
	v.SetDefault("BACKEND_TIMEOUT", "10s")
	v.SetDefault("DASHBOARD_MAX_CONCURRENCY", 4)
	v.SetDefault("AMQP_EXCHANGE", "cabinet.rendezvous")
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		App: AppConfig{
			Port:          v.GetString("APP_PORT"),
			Env:           v.GetString("APP_ENV"),
			Timezone:      v.GetString("APP_TIMEZONE"),
			LogLevel:      v.GetString("LOG_LEVEL"),
			InFlightTTL:   durationOr(v.GetString("INFLIGHT_TTL"), 30*time.Second),
			AuthRateLimit: v.GetInt("RATE_LIMIT_AUTH"),
		},
		DB: DBConfig{
			Host:        v.GetString("DB_HOST"),
			Port:        v.GetString("DB_PORT"),
			User:        v.GetString("DB_USER"),
			Password:    v.GetString("DB_PASSWORD"),
			Name:        v.GetString("DB_NAME"),
			AutoMigrate: v.GetBool("DB_AUTO_MIGRATE"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetString("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		JWT: JWTConfig{
			Secret:        v.GetString("JWT_SECRET"),
			AccessExpiry:  durationOr(v.GetString("JWT_ACCESS_EXPIRY"), 15*time.Minute),
			RefreshExpiry: durationOr(v.GetString("JWT_REFRESH_EXPIRY"), 7*24*time.Hour),
		},
		Backend: BackendConfig{
			BaseURL: v.GetString("BACKEND_URL"),
			Timeout: durationOr(v.GetString("BACKEND_TIMEOUT"), 10*time.Second),
		},
		Dashboard: DashboardConfig{
			MaxConcurrency: v.GetInt("DASHBOARD_MAX_CONCURRENCY"),
		},
		AMQP: AMQPConfig{
			URL:      v.GetString("AMQP_URL"),
			Exchange: v.GetString("AMQP_EXCHANGE"),
		},
	}
}

func durationOr(raw string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
