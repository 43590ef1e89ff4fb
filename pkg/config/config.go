// Package config loads process-wide configuration from environment
// variables, in the same plain os.Getenv-plus-fallback style used
// throughout this codebase (no config framework).
package config

import "os"

// Config holds server/CLI configuration.
type Config struct {
	Port                string
	LogLevel            string
	DatabaseURL         string
	StoragePath         string
	EnrichmentConfig    string
	ValidateEvaluations bool
	StrictAgent         bool
}

// Load loads configuration from environment variables.
func Load() *Config {
	port := os.Getenv("HELM_DECIDE_PORT")
	if port == "" {
		port = "8080"
	}

	logLevel := os.Getenv("HELM_DECIDE_LOG_LEVEL")
	if logLevel == "" {
		logLevel = "INFO"
	}

	dbURL := os.Getenv("HELM_DECIDE_DB_URL")
	if dbURL == "" {
		// Default to local generic postgres
		dbURL = "postgres://helm@localhost:5433/helm_decide?sslmode=disable"
	}

	storagePath := os.Getenv("HELM_DECIDE_STORAGE_PATH")
	if storagePath == "" {
		storagePath = "./data/rulesets"
	}

	enrichmentConfig := os.Getenv("HELM_DECIDE_ENRICHMENT_CONFIG")
	if enrichmentConfig == "" {
		enrichmentConfig = "./config/enrichment.yaml"
	}

	return &Config{
		Port:                port,
		LogLevel:            logLevel,
		DatabaseURL:         dbURL,
		StoragePath:         storagePath,
		EnrichmentConfig:    enrichmentConfig,
		ValidateEvaluations: os.Getenv("HELM_DECIDE_VALIDATE_EVALUATIONS") == "true",
		StrictAgent:         os.Getenv("HELM_DECIDE_STRICT") != "false",
	}
}
