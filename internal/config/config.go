// Package config reads the example server configuration from the
// environment, with an optional .env file for local development.
package config

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/3lvia/problemdetails/internal/runtime"
)

type Config struct {
	Env     runtime.Env
	ApiAddr string

	// Otel disables the exporter setup when false, for running the
	// example without a collector.
	Otel bool
}

func New() *Config {
	_ = godotenv.Load(".env")

	return &Config{
		Env:     runtime.Env(get("ENVIRONMENT", string(runtime.Development))),
		ApiAddr: get("API_ADDR", ":8080"),
		Otel:    get("OTEL_ENABLED", "false") == "true",
	}
}

func get(name string, alt string) string {
	v, ok := os.LookupEnv(name)
	if !ok {
		return alt
	}
	return v
}
