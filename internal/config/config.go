// internal/config/config.go
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/unclebandit/customer-service/internal/db"
)

type Config struct {
	DB            db.Config
	HTTPAddr      string
	AMQPURL       string // empty selects the in-memory queue
	SeedOnStartup bool
	LogLevel      string
	AppEnv        string
}

// Load reads .env from the working directory, if present, and then the process environment.
func Load(files ...string) (Config, error) {
	if err := godotenv.Load(files...); err != nil {
		log.Debug().Err(err).Msg("⚠️ No .env file found, relying on OS environment variables")
	}
	return FromEnv()
}

// FromEnv builds a Config from environment variables only.
func FromEnv() (Config, error) {
	driver, err := db.ParseDialect(os.Getenv("DB_DRIVER"))
	if err != nil {
		return Config{}, err
	}

	seed, err := strconv.ParseBool(getEnv("SEED_ON_STARTUP", "true"))
	if err != nil {
		return Config{}, err
	}

	return Config{
		DB: db.Config{
			Driver:     driver,
			URL:        os.Getenv("DATABASE_URL"),
			User:       os.Getenv("DB_USER"),
			Password:   os.Getenv("DB_PASSWORD"),
			Host:       getEnv("DB_HOST", "localhost"),
			Port:       getEnv("DB_PORT", "5432"),
			Name:       getEnv("DB_NAME", "customers"),
			SSLMode:    getEnv("DB_SSLMODE", "disable"),
			SQLitePath: getEnv("SQLITE_PATH", "customers.db"),
		},
		HTTPAddr:      getEnv("HTTP_ADDR", ":8080"),
		AMQPURL:       os.Getenv("AMQP_URL"),
		SeedOnStartup: seed,
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		AppEnv:        getEnv("APP_ENV", "development"),
	}, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}
