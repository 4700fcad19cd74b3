package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	BackendDatabase = "database"
	BackendRemote   = "remote"
)

type Config struct {
	Database DatabaseConfig
	JWT      JWTConfig
	Server   ServerConfig
	CORS     CORSConfig
	Log      LogConfig
	Redis    RedisConfig
	Remote   RemoteConfig
	Transfer TransferConfig
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Database string
}

type JWTConfig struct {
	AccessSecret      string
	AccessTokenExpiry time.Duration
}

type ServerConfig struct {
	Port    string
	GinMode string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// RedisConfig controls the distributed transfer lock. When disabled the
// server falls back to an in-process lock.
type RedisConfig struct {
	Enabled  bool
	Addr     string
	Password string
	DB       int
}

// RemoteConfig points at the facility REST API used when DataBackend is "remote".
type RemoteConfig struct {
	DataBackend string
	BaseURL     string
	Token       string
	Timeout     time.Duration
}

type TransferConfig struct {
	LockTTL time.Duration
	// OccupancyRefresh is how often the bed gauges are recomputed. Zero
	// disables the refresher.
	OccupancyRefresh time.Duration
}

func LoadConfig() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()

	config := &Config{
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "3306"),
			User:     getEnv("DB_USER", "root"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "nursing_home"),
		},
		JWT: JWTConfig{
			AccessSecret:      getEnv("JWT_ACCESS_SECRET", "your-access-secret-key"),
			AccessTokenExpiry: parseDuration(getEnv("ACCESS_TOKEN_EXPIRY", "15m"), 15*time.Minute),
		},
		Server: ServerConfig{
			Port:    getEnv("PORT", "8080"),
			GinMode: getEnv("GIN_MODE", "debug"),
		},
		CORS: CORSConfig{
			AllowedOrigins: parseOrigins(getEnv("ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173")),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Redis: RedisConfig{
			Enabled:  getEnv("REDIS_ENABLED", "false") == "true",
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       parseInt(getEnv("REDIS_DB", "0"), 0),
		},
		Remote: RemoteConfig{
			DataBackend: strings.ToLower(getEnv("DATA_BACKEND", BackendDatabase)),
			BaseURL:     getEnv("REMOTE_API_URL", "http://localhost:9000/api"),
			Token:       getEnv("REMOTE_API_TOKEN", ""),
			Timeout:     parseDuration(getEnv("REMOTE_API_TIMEOUT", "15s"), 15*time.Second),
		},
		Transfer: TransferConfig{
			LockTTL:          parseDuration(getEnv("TRANSFER_LOCK_TTL", "10s"), 10*time.Second),
			OccupancyRefresh: parseDuration(getEnv("OCCUPANCY_REFRESH_INTERVAL", "1m"), time.Minute),
		},
	}

	return config
}

// Validate reports configuration combinations the server cannot start with.
func (c *Config) Validate() error {
	switch c.Remote.DataBackend {
	case BackendDatabase:
	case BackendRemote:
		if c.Remote.BaseURL == "" {
			return fmt.Errorf("REMOTE_API_URL is required when DATA_BACKEND=%s", BackendRemote)
		}
	default:
		return fmt.Errorf("unknown DATA_BACKEND %q: must be %q or %q", c.Remote.DataBackend, BackendDatabase, BackendRemote)
	}
	if c.Transfer.LockTTL <= 0 {
		return fmt.Errorf("TRANSFER_LOCK_TTL must be positive")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDuration(s string, def time.Duration) time.Duration {
	duration, err := time.ParseDuration(s)
	if err != nil {
		fmt.Printf("Warning: Invalid duration format '%s', using default\n", s)
		return def
	}
	return duration
}

func parseInt(s string, def int) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}

func parseOrigins(s string) []string {
	origins := []string{}
	for _, origin := range strings.Split(s, ",") {
		origin = strings.TrimSpace(origin)
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}
