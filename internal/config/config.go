package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigPath is used when --config is not provided.
	DefaultConfigPath = "config.yml"
	defaultPort       = 2334
	defaultEnv        = "development"

	defaultDBHost     = "127.0.0.1"
	defaultDBPort     = 3306
	defaultDBUser     = "root"
	defaultDBPassword = "password"
	defaultDBName     = "tsundoku"
	defaultDBCharset  = "utf8mb4"
	defaultDBLoc      = "Local"

	defaultRedisHost = "localhost"
	defaultRedisPort = 6379
	defaultRedisDB   = 0

	defaultGoogleBooksEndpoint = "https://www.googleapis.com/books/v1"
	defaultOpenAIModel         = "gpt-4o-mini"

	// Exclusion windows for the weekly cycle, in days.
	defaultExcludeRecentDays  = 30
	defaultNotifyCooldownDays = 7
)

// Load reads, defaults and validates the YAML config file.
func Load(configPath string) (*AppConfig, error) {
	path := strings.TrimSpace(configPath)
	if path == "" {
		path = DefaultConfigPath
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file %q: %w", path, err)
	}

	cfg := defaultAppConfig()
	decoder := yaml.NewDecoder(bytes.NewReader(content))
	decoder.KnownFields(true)
	raw := rawAppConfig{}
	if err := decoder.Decode(&raw); err != nil {
		return nil, fmt.Errorf("parse config file %q: %w", path, err)
	}

	applyRawAppConfig(&cfg, raw)
	if cfg.Port < 1 || cfg.Port > 65535 {
		return nil, fmt.Errorf("invalid port %d in %q, expected 1-65535", cfg.Port, path)
	}
	if cfg.Recommendation.ExcludeRecentDays < 1 {
		return nil, fmt.Errorf("recommendation.exclude_recent_days must be >= 1")
	}
	if cfg.Recommendation.NotifyCooldownDays < 1 {
		return nil, fmt.Errorf("recommendation.notify_cooldown_days must be >= 1")
	}

	return &cfg, nil
}

func defaultAppConfig() AppConfig {
	cfg := AppConfig{
		Port: defaultPort,
		Env:  defaultEnv,
		Database: DatabaseRuntimeConfig{
			Host:      defaultDBHost,
			Port:      defaultDBPort,
			User:      defaultDBUser,
			Password:  defaultDBPassword,
			Name:      defaultDBName,
			Charset:   defaultDBCharset,
			ParseTime: true,
			Loc:       defaultDBLoc,
		},
		Redis: RedisRuntimeConfig{
			Host: defaultRedisHost,
			Port: defaultRedisPort,
			DB:   defaultRedisDB,
		},
		GoogleBooks: GoogleBooksConfig{
			Endpoint:       defaultGoogleBooksEndpoint,
			TimeoutSeconds: 15,
		},
		OpenAI: OpenAIConfig{
			Model:          defaultOpenAIModel,
			TimeoutSeconds: 30,
		},
		Recommendation: RecommendationConfig{
			ExcludeRecentDays:  defaultExcludeRecentDays,
			NotifyCooldownDays: defaultNotifyCooldownDays,
		},
	}
	cfg.DSN = cfg.Database.DSNValue()
	cfg.RedisURL = cfg.Redis.URLValue()
	return cfg
}

func applyRawAppConfig(cfg *AppConfig, raw rawAppConfig) {
	if raw.Port != 0 {
		cfg.Port = raw.Port
	}

	cfg.Database = mergeDatabaseConfig(cfg.Database, raw.Database)
	switch {
	case strings.TrimSpace(raw.DSN) != "":
		cfg.DSN = strings.TrimSpace(raw.DSN)
	case strings.TrimSpace(raw.DatabaseURL) != "":
		cfg.DSN = strings.TrimSpace(raw.DatabaseURL)
	default:
		cfg.DSN = cfg.Database.DSNValue()
	}

	cfg.Redis = mergeRedisConfig(cfg.Redis, raw.Redis)
	if v := strings.TrimSpace(raw.RedisURL); v != "" {
		cfg.RedisURL = v
	} else {
		cfg.RedisURL = cfg.Redis.URLValue()
	}

	if v := strings.TrimSpace(raw.Env); v != "" {
		cfg.Env = v
	}
	switch {
	case raw.AllowedOrigins != nil:
		cfg.AllowedOrigins = normalizeOrigins(raw.AllowedOrigins)
	case raw.CORSAllowedOrigins != nil:
		cfg.AllowedOrigins = normalizeOrigins(raw.CORSAllowedOrigins)
	}
	if v := strings.TrimSpace(raw.JWTSecret); v != "" {
		cfg.JWTSecret = v
	}
	if v := strings.TrimSpace(raw.Timezone); v != "" {
		cfg.Timezone = v
	}
	if v := strings.TrimSpace(raw.TZ); v != "" {
		cfg.Timezone = v
	}

	cfg.Mail = raw.Mail
	if v := strings.TrimSpace(raw.GoogleBooks.Endpoint); v != "" {
		cfg.GoogleBooks.Endpoint = strings.TrimRight(v, "/")
	}
	if v := strings.TrimSpace(raw.GoogleBooks.APIKey); v != "" {
		cfg.GoogleBooks.APIKey = v
	}
	if raw.GoogleBooks.TimeoutSeconds > 0 {
		cfg.GoogleBooks.TimeoutSeconds = raw.GoogleBooks.TimeoutSeconds
	}
	if v := strings.TrimSpace(raw.OpenAI.APIKey); v != "" {
		cfg.OpenAI.APIKey = v
	}
	if v := strings.TrimSpace(raw.OpenAI.Endpoint); v != "" {
		cfg.OpenAI.Endpoint = strings.TrimRight(v, "/")
	}
	if v := strings.TrimSpace(raw.OpenAI.Model); v != "" {
		cfg.OpenAI.Model = v
	}
	if raw.OpenAI.TimeoutSeconds > 0 {
		cfg.OpenAI.TimeoutSeconds = raw.OpenAI.TimeoutSeconds
	}

	if raw.Recommendation.ExcludeRecentDays != nil {
		cfg.Recommendation.ExcludeRecentDays = *raw.Recommendation.ExcludeRecentDays
	}
	if raw.Recommendation.NotifyCooldownDays != nil {
		cfg.Recommendation.NotifyCooldownDays = *raw.Recommendation.NotifyCooldownDays
	}
}

func mergeDatabaseConfig(base, raw DatabaseRuntimeConfig) DatabaseRuntimeConfig {
	out := base
	if v := strings.TrimSpace(raw.DSN); v != "" {
		out.DSN = v
	}
	if v := strings.TrimSpace(raw.URL); v != "" {
		out.URL = v
	}
	if v := strings.TrimSpace(raw.Host); v != "" {
		out.Host = v
	}
	if raw.Port != 0 {
		out.Port = raw.Port
	}
	if v := strings.TrimSpace(raw.User); v != "" {
		out.User = v
	}
	if v := strings.TrimSpace(raw.Username); v != "" {
		out.User = v
	}
	if v := strings.TrimSpace(raw.Password); v != "" {
		out.Password = v
	}
	if v := strings.TrimSpace(raw.Name); v != "" {
		out.Name = v
	}
	if v := strings.TrimSpace(raw.DBName); v != "" {
		out.Name = v
	}
	if v := strings.TrimSpace(raw.Charset); v != "" {
		out.Charset = v
	}
	if v := strings.TrimSpace(raw.Loc); v != "" {
		out.Loc = v
	}
	if len(raw.Params) > 0 {
		out.Params = raw.Params
	}
	return out
}

func mergeRedisConfig(base, raw RedisRuntimeConfig) RedisRuntimeConfig {
	out := base
	if v := strings.TrimSpace(raw.URL); v != "" {
		out.URL = v
	}
	if v := strings.TrimSpace(raw.Host); v != "" {
		out.Host = v
	}
	if raw.Port != 0 {
		out.Port = raw.Port
	}
	if v := strings.TrimSpace(raw.Username); v != "" {
		out.Username = v
	}
	if v := strings.TrimSpace(raw.Password); v != "" {
		out.Password = v
	}
	if raw.DB != 0 {
		out.DB = raw.DB
	}
	if raw.TLS {
		out.TLS = true
	}
	return out
}

func normalizeOrigins(origins []string) []string {
	out := make([]string, 0, len(origins))
	for _, o := range origins {
		if v := strings.TrimSpace(o); v != "" {
			out = append(out, v)
		}
	}
	return out
}
