package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// LoadTestConfig loads the database configuration for integration tests from
// TEST_DB_* environment variables or a .env file. When TEST_DB_HOST is unset
// the returned config is empty and integration tests skip themselves.
func LoadTestConfig() (*Config, error) {
	// Try to load .env file (ignore error if file doesn't exist - it's optional)
	_ = godotenv.Load("./../../.env")
	_ = godotenv.Load()

	cfg := &Config{}
	dbHost := os.Getenv("TEST_DB_HOST")
	if dbHost == "" {
		return cfg, nil
	}
	cfg.Database.Host = dbHost

	dbPortStr := os.Getenv("TEST_DB_PORT")
	if dbPortStr == "" {
		dbPortStr = "3306"
	}
	dbPort, err := strconv.Atoi(dbPortStr)
	if err != nil {
		return nil, fmt.Errorf("invalid TEST_DB_PORT: %w", err)
	}
	cfg.Database.Port = dbPort

	cfg.Database.User = os.Getenv("TEST_DB_USER")
	if cfg.Database.User == "" {
		cfg.Database.User = "root"
	}
	cfg.Database.Password = os.Getenv("TEST_DB_PASSWORD")

	cfg.Database.DBName = os.Getenv("TEST_DB_NAME")
	if cfg.Database.DBName == "" {
		cfg.Database.DBName = "courseloom_test"
	}

	return cfg, nil
}
