package config

import (
	"os"
	"strconv"
	"time"
)

const (
	CatalogSourceFile     = "file"
	CatalogSourcePostgres = "postgres"
)

type Config struct {
	Database       DatabaseConfig
	Upstream       UpstreamConfig
	APIPort        string
	LogLevel       string
	CORSOrigin     string
	RequestTimeout time.Duration
	CatalogSource  string
	CatalogFile    string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	Name     string
	User     string
	Password string
	SSLMode  string
	MaxConns int
	MinConns int
}

// UpstreamConfig points at the scraped history and marketplace pages
type UpstreamConfig struct {
	ClearVinURL string
	EpicVinURL  string
	CarsURL     string
	SearchZip   string
	UserAgent   string
	HTTPTimeout time.Duration
}

func Load() *Config {
	return &Config{
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			Name:     getEnv("DB_NAME", "vehicles"),
			User:     getEnv("DB_USER", "vehicles"),
			Password: getEnv("DB_PASSWORD", ""),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			MaxConns: getEnvInt("DB_MAX_CONNS", 5),
			MinConns: getEnvInt("DB_MIN_CONNS", 1),
		},
		Upstream: UpstreamConfig{
			ClearVinURL: getEnv("CLEARVIN_URL", "https://www.clearvin.com/en/copart-vin-check/?lotNumber="),
			EpicVinURL:  getEnv("EPICVIN_URL", "https://epicvin.com/check-vin-number-and-get-the-vehicle-history-report/checkout/"),
			CarsURL:     getEnv("CARS_URL", "https://www.cars.com/shopping/results"),
			SearchZip:   getEnv("SEARCH_ZIP", "92620"),
			UserAgent:   getEnv("USER_AGENT", "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"),
			HTTPTimeout: getEnvDuration("HTTP_TIMEOUT", 20*time.Second),
		},
		APIPort:        getEnv("API_PORT", "3050"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		CORSOrigin:     getEnv("CORS_ORIGIN", "*"),
		RequestTimeout: getEnvDuration("REQUEST_TIMEOUT", 60*time.Second),
		CatalogSource:  getEnv("CATALOG_SOURCE", CatalogSourceFile),
		CatalogFile:    getEnv("CATALOG_FILE", "./mapping/carscom_models.json"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvDuration accepts Go durations ("45s") or plain seconds ("45")
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}
