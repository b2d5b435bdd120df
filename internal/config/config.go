package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	SMTP      SMTPConfig      `mapstructure:"smtp"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Worker    WorkerConfig    `mapstructure:"worker"`
}

type ServerConfig struct {
	Port           int `mapstructure:"port" envconfig:"SERVER_PORT"`
	TimeoutSeconds int `mapstructure:"timeout_seconds" envconfig:"SERVER_TIMEOUT_SECONDS"`
}

type DatabaseConfig struct {
	Host                   string `mapstructure:"host" envconfig:"DB_HOST"`
	Port                   int    `mapstructure:"port" envconfig:"DB_PORT"`
	User                   string `mapstructure:"user" envconfig:"DB_USER"`
	Password               string `mapstructure:"password" envconfig:"DB_PASSWORD"`
	Name                   string `mapstructure:"name" envconfig:"DB_NAME"`
	SSLMode                string `mapstructure:"sslmode" envconfig:"DB_SSLMODE"`
	MaxOpenConns           int    `mapstructure:"max_open_conns"`
	MaxIdleConns           int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetimeMinutes int    `mapstructure:"conn_max_lifetime_minutes"`
}

type RedisConfig struct {
	URL string `mapstructure:"url" envconfig:"REDIS_URL"`
}

type JWTConfig struct {
	Secret     string `mapstructure:"secret" envconfig:"JWT_SECRET"`
	ExpiryDays int    `mapstructure:"expiry_days"`
}

type SMTPConfig struct {
	Host     string `mapstructure:"host" envconfig:"SMTP_HOST"`
	Port     int    `mapstructure:"port" envconfig:"SMTP_PORT"`
	Username string `mapstructure:"username" envconfig:"SMTP_USERNAME"`
	Password string `mapstructure:"password" envconfig:"SMTP_PASSWORD"`
	From     string `mapstructure:"from"`
}

// SchedulerConfig parameterizes the implicit slot grid: 30-minute
// boundaries between facility operating hours.
type SchedulerConfig struct {
	DayStart    string `mapstructure:"day_start"`
	DayEnd      string `mapstructure:"day_end"`
	SlotMinutes int    `mapstructure:"slot_minutes"`
}

type StorageConfig struct {
	Dir string `mapstructure:"dir" envconfig:"STORAGE_DIR"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level" envconfig:"LOG_LEVEL"`
	Pretty bool   `mapstructure:"pretty"`
}

type WorkerConfig struct {
	IntervalSeconds int `mapstructure:"interval_seconds"`
	MaxRetries      int `mapstructure:"max_retries"`
	BatchSize       int `mapstructure:"batch_size"`
}

// Load reads config.yaml and then applies OPS_-prefixed environment
// overrides on top.
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := envconfig.Process("ops", &cfg); err != nil {
		return nil, fmt.Errorf("failed to apply env overrides: %w", err)
	}

	applyDefaults(&cfg)
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.TimeoutSeconds == 0 {
		cfg.Server.TimeoutSeconds = 30
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 25
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 5
	}
	if cfg.Database.ConnMaxLifetimeMinutes == 0 {
		cfg.Database.ConnMaxLifetimeMinutes = 30
	}
	if cfg.JWT.ExpiryDays == 0 {
		cfg.JWT.ExpiryDays = 30
	}
	if cfg.Scheduler.DayStart == "" {
		cfg.Scheduler.DayStart = "09:00"
	}
	if cfg.Scheduler.DayEnd == "" {
		cfg.Scheduler.DayEnd = "17:00"
	}
	if cfg.Scheduler.SlotMinutes == 0 {
		cfg.Scheduler.SlotMinutes = 30
	}
	if cfg.Storage.Dir == "" {
		cfg.Storage.Dir = "./data/uploads"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Worker.IntervalSeconds == 0 {
		cfg.Worker.IntervalSeconds = 30
	}
	if cfg.Worker.MaxRetries == 0 {
		cfg.Worker.MaxRetries = 3
	}
	if cfg.Worker.BatchSize == 0 {
		cfg.Worker.BatchSize = 50
	}
}
