package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	CatalogSourceFiles    = "files"
	CatalogSourcePostgres = "postgres"
)

type Config struct {
	Server   ServerConfig
	Data     DataConfig
	Database DatabaseConfig
	Redis    RedisConfig
	CORS     CORSConfig
	Log      LogConfig
}

type ServerConfig struct {
	Port                   int
	Mode                   string
	ShutdownTimeoutSeconds int
}

type DataConfig struct {
	RootDir       string
	DataDir       string
	ModelsDir     string
	CatalogSource string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

func (d DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode,
	)
}

type RedisConfig struct {
	Enabled         bool
	Host            string
	Port            int
	Password        string
	DB              int
	CacheTTLSeconds int
	Channel         string
}

func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

type CORSConfig struct {
	AllowedOrigins string
}

type LogConfig struct {
	Level  string
	Format string
}

// LoadConfig reads the environment, after applying a .env file from the
// working directory when one exists. Variables already set win over .env.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	serverPort, err := getIntEnv("SERVER_PORT", 8080)
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT: %w", err)
	}
	shutdownTimeout, err := getIntEnv("SHUTDOWN_TIMEOUT_SEC", 10)
	if err != nil {
		return nil, fmt.Errorf("invalid SHUTDOWN_TIMEOUT_SEC: %w", err)
	}

	dbPort, err := getIntEnv("DB_PORT", 5432)
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	redisEnabled, err := getBoolEnv("REDIS_ENABLED", false)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_ENABLED: %w", err)
	}
	redisPort, err := getIntEnv("REDIS_PORT", 6379)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_PORT: %w", err)
	}
	redisDB, err := getIntEnv("REDIS_DB", 0)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}
	cacheTTL, err := getIntEnv("REDIS_CACHE_TTL_SEC", 300)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_CACHE_TTL_SEC: %w", err)
	}
	// go-redis reads 0 as no expiry and -1 as keep TTL
	if cacheTTL <= 0 {
		return nil, fmt.Errorf("invalid REDIS_CACHE_TTL_SEC: %d is not positive", cacheTTL)
	}

	root := getEnv("APP_ROOT", ".")
	source := strings.ToLower(getEnv("CATALOG_SOURCE", CatalogSourceFiles))
	if source != CatalogSourceFiles && source != CatalogSourcePostgres {
		return nil, fmt.Errorf("invalid CATALOG_SOURCE %q: want %s or %s", source, CatalogSourceFiles, CatalogSourcePostgres)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:                   serverPort,
			Mode:                   getEnv("GIN_MODE", "release"),
			ShutdownTimeoutSeconds: shutdownTimeout,
		},
		Data: DataConfig{
			RootDir:       root,
			DataDir:       getEnv("DATA_DIR", filepath.Join(root, "data")),
			ModelsDir:     getEnv("MODELS_DIR", filepath.Join(root, "models")),
			CatalogSource: source,
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     dbPort,
			User:     getEnv("DB_USER", "leadtime"),
			Password: getEnv("DB_PASSWORD", "leadtime_dev_password"),
			Name:     getEnv("DB_NAME", "leadtime"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Enabled:         redisEnabled,
			Host:            getEnv("REDIS_HOST", "localhost"),
			Port:            redisPort,
			Password:        getEnv("REDIS_PASSWORD", ""),
			DB:              redisDB,
			CacheTTLSeconds: cacheTTL,
			Channel:         getEnv("REDIS_CHANNEL", "leadtime:predictions"),
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getIntEnv(key string, fallback int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}
	return parsed, nil
}

func getBoolEnv(key string, fallback bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	return strconv.ParseBool(value)
}
