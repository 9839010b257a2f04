package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	TokenModeLegacy = "legacy"
	TokenModeSigned = "signed"
)

type Config struct {
	Server    Server
	Database  Database
	Auth      Auth
	Upload    Upload
	Redis     Redis
	Log       Log
	RateLimit RateLimit
}

type Server struct {
	Port         string
	AppName      string
	AllowOrigins string
}

type Database struct {
	URL      string
	MaxConns int32
}

type Auth struct {
	TokenMode   string
	TokenSecret string
	TokenTTL    time.Duration
}

type Upload struct {
	Dir           string
	PublicBaseURL string
	MaxSize       int64
}

type Redis struct {
	Addr       string
	Password   string
	DB         int
	ProfileTTL time.Duration
}

type Log struct {
	Level       string
	Development bool
}

type RateLimit struct {
	Enabled bool
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.appname", "Capsule Chat API v1.0")
	v.SetDefault("server.alloworigins", "http://localhost:3000")

	v.SetDefault("database.url", "")
	v.SetDefault("database.maxconns", 10)

	v.SetDefault("auth.tokenmode", TokenModeLegacy)
	v.SetDefault("auth.tokensecret", "")
	v.SetDefault("auth.tokenttl", 30*24*time.Hour)

	v.SetDefault("upload.dir", "./uploads")
	v.SetDefault("upload.publicbaseurl", "")
	v.SetDefault("upload.maxsize", 10*1024*1024)

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.profilettl", 10*time.Minute)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", false)

	v.SetDefault("ratelimit.enabled", true)
}

// envKeys maps config keys onto the environment variables operators set.
var envKeys = map[string]string{
	"server.port":          "SERVER_PORT",
	"server.appname":       "SERVER_APP_NAME",
	"server.alloworigins":  "SERVER_ALLOW_ORIGINS",
	"database.url":         "DATABASE_URL",
	"database.maxconns":    "DATABASE_MAX_CONNS",
	"auth.tokenmode":       "AUTH_TOKEN_MODE",
	"auth.tokensecret":     "AUTH_TOKEN_SECRET",
	"auth.tokenttl":        "AUTH_TOKEN_TTL",
	"upload.dir":           "UPLOAD_DIR",
	"upload.publicbaseurl": "UPLOAD_PUBLIC_BASE_URL",
	"upload.maxsize":       "UPLOAD_MAX_SIZE",
	"redis.addr":           "REDIS_ADDR",
	"redis.password":       "REDIS_PASSWORD",
	"redis.db":             "REDIS_DB",
	"redis.profilettl":     "REDIS_PROFILE_TTL",
	"log.level":            "LOG_LEVEL",
	"log.development":      "LOG_DEVELOPMENT",
	"ratelimit.enabled":    "RATELIMIT_ENABLED",
}

// Load reads .env (if present), an optional YAML file named by CONFIG_FILE,
// and the environment, in increasing order of precedence.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	if file := os.Getenv("CONFIG_FILE"); file != "" {
		v.SetConfigFile(file)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", file, err)
		}
	}

	for key, env := range envKeys {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("binding %s: %w", env, err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) Validate() error {
	if c.Database.URL == "" {
		return errors.New("DATABASE_URL environment variable is not set")
	}
	if c.Database.MaxConns < 1 {
		return errors.New("DATABASE_MAX_CONNS must be at least 1")
	}

	c.Auth.TokenMode = strings.ToLower(c.Auth.TokenMode)
	switch c.Auth.TokenMode {
	case TokenModeLegacy:
	case TokenModeSigned:
		if c.Auth.TokenSecret == "" {
			return errors.New("AUTH_TOKEN_SECRET is required when AUTH_TOKEN_MODE=signed")
		}
	default:
		return fmt.Errorf("unknown AUTH_TOKEN_MODE %q", c.Auth.TokenMode)
	}

	if c.Auth.TokenTTL <= 0 {
		return errors.New("AUTH_TOKEN_TTL must be positive")
	}
	if c.Upload.MaxSize <= 0 {
		return errors.New("UPLOAD_MAX_SIZE must be positive")
	}
	return nil
}
