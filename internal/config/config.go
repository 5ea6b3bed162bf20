package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	AppEnv         string        `mapstructure:"APP_ENV"`
	Port           string        `mapstructure:"PORT"`
	BaseURL        string        `mapstructure:"BASE_URL"`
	DatabaseURL    string        `mapstructure:"DATABASE_URL"`
	MigrationsPath string        `mapstructure:"MIGRATIONS_PATH"`
	RedisURL       string        `mapstructure:"REDIS_URL"`
	RedisPassword  string        `mapstructure:"REDIS_PASSWORD"`
	CacheTTL       time.Duration `mapstructure:"CACHE_TTL"`
	GeoIPDBPath    string        `mapstructure:"GEOIP_DB_PATH"`
	ClickWorkers   int           `mapstructure:"CLICK_WORKERS"`
	ClickQueueSize int           `mapstructure:"CLICK_QUEUE_SIZE"`
	MaskIPs        bool          `mapstructure:"MASK_IPS"`
	RateLimitRPS   float64       `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst int           `mapstructure:"RATE_LIMIT_BURST"`
}

// LoadConfig reads configuration from the environment on top of the defaults
// below. A fresh viper instance is used so repeated calls see the current env.
func LoadConfig() (Config, error) {
	v := viper.New()

	v.SetDefault("APP_ENV", "local")
	v.SetDefault("PORT", "8080")
	v.SetDefault("BASE_URL", "")
	v.SetDefault("DATABASE_URL", "sqlite://linkstat.db")
	v.SetDefault("MIGRATIONS_PATH", "file://migration")
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("CACHE_TTL", "10m")
	v.SetDefault("GEOIP_DB_PATH", "")
	v.SetDefault("CLICK_WORKERS", 4)
	v.SetDefault("CLICK_QUEUE_SIZE", 1000)
	v.SetDefault("MASK_IPS", false)
	v.SetDefault("RATE_LIMIT_RPS", 0)
	v.SetDefault("RATE_LIMIT_BURST", 10)

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unable to decode config: %w", err)
	}

	if cfg.ClickWorkers < 1 {
		cfg.ClickWorkers = 1
	}
	if cfg.ClickQueueSize < 1 {
		cfg.ClickQueueSize = 1
	}

	return cfg, nil
}

func (c Config) IsProduction() bool {
	return c.AppEnv == "production"
}
