// Package config loads service configuration with Viper.
//
// LoadConfig looks for cmd/<service>/config.yml (and a few fallbacks), loads a
// matching .env file with godotenv, lets environment variables override any
// known key, and unmarshals the result into the caller's struct. Services
// embed ServiceConfig to pick up name, environment, and logging settings.
package config
