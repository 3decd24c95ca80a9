// Package config provides centralized configuration management for the ride
// pipeline. It handles loading configuration from multiple sources, validation,
// and a type-safe API for accessing configuration values throughout both
// pipeline binaries.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Environment variables (highest priority)
//	2. Configuration file (config.yaml)
//	3. Default values (lowest priority)
//
// A .env file in the working directory, when present, is applied to the
// environment before processing.
//
// # Environment Variables
//
// All environment variables follow the pattern RIDE_* for namespacing:
//
//	RIDE_LOGGING_LEVEL=info
//	RIDE_LOGGING_OUTPUT=both
//	RIDE_PATHS_EXTRACTS_DIR=data/extracts
//	RIDE_PATHS_REPORTS_DIR=data/reports
//
// # Path Management
//
// The package provides centralized path management through the Paths type,
// which resolves all file system paths relative to the executable location:
//
//	paths, err := config.GetPaths()
//	extractPath := paths.GetExtractPath("202401-divvy-tripdata.csv")
//	artifactPath := paths.GetCleanedCSVPath()
//
// # Policy Constants
//
// Fixed cleaning policy lives in constants.go rather than configuration: the
// ride-length quality bounds, the canonical artifact file names, and the
// chart file naming convention. These are deliberately not configurable.
//
// # Usage
//
// Load configuration at application startup:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
package config
