package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Storage.
	Storage      string `mapstructure:"STORAGE"`
	DatabaseURL  string `mapstructure:"DATABASE_URL"`
	DatabaseName string `mapstructure:"DATABASE_NAME"`

	// Wizard sessions.
	SessionStore      string `mapstructure:"SESSION_STORE"`
	SessionTTLMinutes int    `mapstructure:"SESSION_TTL_MINUTES"`
	SessionSecret     string `mapstructure:"SESSION_SECRET"`

	// Redis configuration.
	RedisAddr      string `mapstructure:"REDIS_ADDR"`
	RedisPassword  string `mapstructure:"REDIS_PASSWORD"`
	RedisSessionDB int    `mapstructure:"REDIS_SESSION_DB"`
	RedisQueueDB   int    `mapstructure:"REDIS_QUEUE_DB"`

	// Simulated registration backend.
	SubmitDelayMS      int     `mapstructure:"SUBMIT_DELAY_MS"`
	FailureRate        float64 `mapstructure:"FAILURE_RATE"`
	FailureSeed        int64   `mapstructure:"FAILURE_SEED"`
	ForceFailSubstring string  `mapstructure:"FORCE_FAIL_SUBSTRING"`

	// Wizard wiring.
	BackendURL          string `mapstructure:"BACKEND_URL"`
	ConfirmationEmails  bool   `mapstructure:"CONFIRMATION_EMAILS"`
	IndicatorNavigation bool   `mapstructure:"INDICATOR_NAVIGATION"`
}

var AppConfig Config

// SetDefaults registers the default value of every key.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	v.SetDefault("STORAGE", "memory")
	v.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	v.SetDefault("DATABASE_NAME", "bikereg")
	v.SetDefault("SESSION_STORE", "memory")
	v.SetDefault("SESSION_TTL_MINUTES", 30)
	v.SetDefault("SESSION_SECRET", "change-me")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_SESSION_DB", 0)
	v.SetDefault("REDIS_QUEUE_DB", 1)
	v.SetDefault("SUBMIT_DELAY_MS", 3000)
	v.SetDefault("FAILURE_RATE", 0.2)
	v.SetDefault("FAILURE_SEED", 1)
	v.SetDefault("FORCE_FAIL_SUBSTRING", "fail")
	v.SetDefault("BACKEND_URL", "")
	v.SetDefault("CONFIRMATION_EMAILS", false)
	v.SetDefault("INDICATOR_NAVIGATION", false)
}

// Load reads configuration from v into a Config.
func Load(v *viper.Viper) (Config, error) {
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func LoadConfig() {
	v := viper.GetViper()
	// Look for a config file named "config.yaml" in the current and "config" directory.
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	// Automatically use environment variables where available.
	v.AutomaticEnv()
	SetDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	cfg, err := Load(v)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	AppConfig = cfg
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}

// SessionTTL is the lifetime of a wizard session.
func (c Config) SessionTTL() time.Duration {
	if c.SessionTTLMinutes <= 0 {
		return 30 * time.Minute
	}
	return time.Duration(c.SessionTTLMinutes) * time.Minute
}

// SubmitDelay is the artificial latency of the registration endpoint.
func (c Config) SubmitDelay() time.Duration {
	if c.SubmitDelayMS < 0 {
		return 0
	}
	return time.Duration(c.SubmitDelayMS) * time.Millisecond
}
