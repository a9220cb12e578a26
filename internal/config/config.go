package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
)

type Config struct {
	App    AppConfig    `toml:"app"`
	Auth   AuthConfig   `toml:"auth"`
	SQLite SQLiteConfig `toml:"sqlite"`
	Redis  RedisConfig  `toml:"redis"`
	LLM    LLMConfig    `toml:"llm"`
}

type AppConfig struct {
	Name    string `toml:"name"`
	Env     string `toml:"env"`
	Host    string `toml:"host"`
	Port    int    `toml:"port"`
	GinMode string `toml:"gin_mode"`
	WebDir  string `toml:"web_dir"`
}

type AuthConfig struct {
	JWTSecret     string `toml:"jwt_secret"`
	JWTExpireHour int    `toml:"jwt_expire_hour"`
	BcryptCost    int    `toml:"bcrypt_cost"`
}

type SQLiteConfig struct {
	Path string `toml:"path"`
}

// Redis backs the best-effort question-catalog cache. An empty addr
// disables caching entirely.
type RedisConfig struct {
	Addr              string `toml:"addr"`
	Password          string `toml:"password"`
	DB                int    `toml:"db"`
	CatalogTTLSeconds int    `toml:"catalog_ttl_seconds"`
}

// LLM holds fallback settings for AI question generation. Requests may
// override every field per call.
type LLMConfig struct {
	BaseURL string `toml:"base_url"`
	APIKey  string `toml:"api_key"`
	Model   string `toml:"model"`
}

func Load() (*Config, error) {
	cfg := defaultConfig()

	configPath := getEnv("CONFIG_FILE", "configs/config.toml")
	if _, err := os.Stat(configPath); err == nil {
		if _, err := toml.DecodeFile(configPath, cfg); err != nil {
			return nil, fmt.Errorf("decode config file failed: %w", err)
		}
	}

	overrideByEnv(cfg)
	return cfg, nil
}

func (c *Config) HTTPAddr() string {
	return fmt.Sprintf("%s:%d", c.App.Host, c.App.Port)
}

func defaultConfig() *Config {
	return &Config{
		App: AppConfig{
			Name:    "ponder",
			Env:     "dev",
			Host:    "0.0.0.0",
			Port:    3001,
			GinMode: "debug",
			WebDir:  "web",
		},
		Auth: AuthConfig{
			JWTSecret:     "change-me-in-production",
			JWTExpireHour: 24 * 30,
			BcryptCost:    12,
		},
		SQLite: SQLiteConfig{
			Path: "data/ponder.db",
		},
		Redis: RedisConfig{
			Addr:              "",
			Password:          "",
			DB:                0,
			CatalogTTLSeconds: 60,
		},
		LLM: LLMConfig{
			BaseURL: "https://api.openai.com/v1",
			APIKey:  "",
			Model:   "gpt-4o-mini",
		},
	}
}

func overrideByEnv(cfg *Config) {
	cfg.App.Name = getEnv("APP_NAME", cfg.App.Name)
	cfg.App.Env = getEnv("APP_ENV", cfg.App.Env)
	cfg.App.Host = getEnv("APP_HOST", cfg.App.Host)
	cfg.App.Port = getEnvAsInt("APP_PORT", cfg.App.Port)
	cfg.App.GinMode = getEnv("GIN_MODE", cfg.App.GinMode)
	cfg.App.WebDir = getEnv("APP_WEB_DIR", cfg.App.WebDir)

	cfg.Auth.JWTSecret = getEnv("JWT_SECRET", cfg.Auth.JWTSecret)
	cfg.Auth.JWTExpireHour = getEnvAsInt("JWT_EXPIRE_HOUR", cfg.Auth.JWTExpireHour)
	cfg.Auth.BcryptCost = getEnvAsInt("BCRYPT_COST", cfg.Auth.BcryptCost)

	cfg.SQLite.Path = getEnv("SQLITE_PATH", cfg.SQLite.Path)

	cfg.Redis.Addr = getEnv("REDIS_ADDR", cfg.Redis.Addr)
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", cfg.Redis.Password)
	cfg.Redis.DB = getEnvAsInt("REDIS_DB", cfg.Redis.DB)
	cfg.Redis.CatalogTTLSeconds = getEnvAsInt("REDIS_CATALOG_TTL_SECONDS", cfg.Redis.CatalogTTLSeconds)

	cfg.LLM.BaseURL = getEnv("LLM_BASE_URL", cfg.LLM.BaseURL)
	cfg.LLM.APIKey = getEnv("LLM_API_KEY", cfg.LLM.APIKey)
	cfg.LLM.Model = getEnv("LLM_MODEL", cfg.LLM.Model)
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return parsed
}
