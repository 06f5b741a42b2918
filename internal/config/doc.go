// Package config loads the service configuration.
//
// Sources, highest precedence first:
//
//  1. Environment variables prefixed with BIKE_ (a .env file is read first)
//  2. A YAML file: BIKE_CONFIG_FILE, config.yaml or configs/config.yaml
//  3. Defaults declared in struct tags
//
// Example:
//
//	BIKE_SERVER_PORT=9090
//	BIKE_DATASET_FILE=day.csv
//	BIKE_LOGGING_LEVEL=debug
package config
