package config

import (
	"bytes"
	_ "embed"
	"time"

	"github.com/spf13/viper"
)

//go:embed defaults.yaml
var defaults []byte

// ---- Root ----

type Config struct {
	Env        string          `mapstructure:"env"` // development | production
	Log        LogConfig       `mapstructure:"log"`
	HTTP       HTTPConfig      `mapstructure:"http"`
	MySQL      DatabaseConfig  `mapstructure:"mysql"`
	ClickHouse DatabaseConfig  `mapstructure:"clickhouse"`
	Redis      RedisConfig     `mapstructure:"redis"`
	Kafka      KafkaConfig     `mapstructure:"kafka"`
	RateLimit  RateLimitConfig `mapstructure:"rate_limit"`
	Provider   ProviderConfig  `mapstructure:"provider"`
	Cache      CacheConfig     `mapstructure:"cache"`
}

// ---- Leaf structs ----

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type HTTPConfig struct {
	Addr string `mapstructure:"addr"`
}

type DatabaseConfig struct {
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idletime"`
	PingTimeout     time.Duration `mapstructure:"ping_timeout"`
}

type RedisConfig struct {
	Addr        string        `mapstructure:"addr"`
	Password    string        `mapstructure:"password"`
	DB          int           `mapstructure:"db"`
	DialTimeout time.Duration `mapstructure:"dial_timeout"`
}

type KafkaConfig struct {
	Enabled bool     `mapstructure:"enabled"`
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
}

type TierConfig struct {
	Requests      int `mapstructure:"requests"`
	WindowSeconds int `mapstructure:"window_seconds"`
}

type RateLimitConfig struct {
	APIPrefix     string     `mapstructure:"api_prefix"`
	KeysPath      string     `mapstructure:"keys_path"`
	BypassPaths   []string   `mapstructure:"bypass_paths"`
	Anonymous     TierConfig `mapstructure:"anonymous"`
	Authenticated TierConfig `mapstructure:"authenticated"`
}

type ProviderConfig struct {
	BaseURL   string   `mapstructure:"base_url"`
	Path      string   `mapstructure:"path"`
	TimeoutMs int      `mapstructure:"timeout_ms"`
	Bases     []string `mapstructure:"bases"`
}

type CacheConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

// IsProduction reports whether the limiter should fail closed on store errors.
func (c Config) IsProduction() bool { return c.Env == "production" }

// Load reads embedded defaults, merges user YAML (if provided), and applies env overrides (FLARE_*).
func Load(path string) (Config, error) {
	v := viper.New()

	// embedded defaults
	v.SetConfigType("yaml")
	if err := v.ReadConfig(bytes.NewReader(defaults)); err != nil {
		return Config{}, err
	}

	if path != "" {
		v.SetConfigFile(path)
		_ = v.MergeInConfig()
	}

	// env override (FLARE_*)
	v.SetEnvPrefix("FLARE")
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
