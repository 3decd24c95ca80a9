package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Logging LoggingConfig `yaml:"logging" envconfig:"LOGGING"`
	Paths   PathsConfig   `yaml:"paths" envconfig:"PATHS"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level      string `yaml:"level" envconfig:"LEVEL" default:"info" validate:"oneof=debug info warn error"`
	Format     string `yaml:"format" envconfig:"FORMAT" default:"json" validate:"oneof=json"`
	Output     string `yaml:"output" envconfig:"OUTPUT" default:"both" validate:"oneof=stdout file both"`
	FilePath   string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/app.log" validate:"required"`
	MaxSizeMB  int    `yaml:"max_size_mb" envconfig:"MAX_SIZE_MB" default:"100" validate:"gt=0"`
	MaxAgeDays int    `yaml:"max_age_days" envconfig:"MAX_AGE_DAYS" default:"30" validate:"gte=0"`
	MaxBackups int    `yaml:"max_backups" envconfig:"MAX_BACKUPS" default:"10" validate:"gte=0"`
}

// PathsConfig contains file system paths configuration. All relative paths
// are resolved against the executable directory, never the working directory.
type PathsConfig struct {
	ExecutableDir string `yaml:"executable_dir" envconfig:"EXECUTABLE_DIR"`
	DataDir       string `yaml:"data_dir" envconfig:"DATA_DIR" default:"data"`
	ExtractsDir   string `yaml:"extracts_dir" envconfig:"EXTRACTS_DIR"`
	ReportsDir    string `yaml:"reports_dir" envconfig:"REPORTS_DIR"`
	ChartsDir     string `yaml:"charts_dir" envconfig:"CHARTS_DIR"`
	LogsDir       string `yaml:"logs_dir" envconfig:"LOGS_DIR" default:"logs"`
}

// Load loads configuration from the environment and an optional config file.
// A .env file in the working directory is applied to the environment first;
// explicit environment variables win over file values.
func Load() (*Config, error) {
	// Optional; absence of a .env file is the normal case.
	_ = godotenv.Load()

	var cfg Config

	// Load from environment variables first
	if err := envconfig.Process("RIDE", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	// Load from config file if exists
	configFile := getConfigFilePath()
	if configFile != "" {
		fileConfig, err := loadFromFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
		cfg = mergeConfigs(*fileConfig, cfg)
	}

	// Resolve relative paths
	if err := cfg.resolvePaths(); err != nil {
		return nil, fmt.Errorf("failed to resolve paths: %w", err)
	}

	// Validate configuration
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// loadFromFile loads configuration from YAML file
func loadFromFile(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// mergeConfigs merges file config with env config (env takes precedence);
// file values only fill fields the environment left unset.
func mergeConfigs(fileConfig, envConfig Config) Config {
	if envConfig.Logging.Level == "" {
		envConfig.Logging.Level = fileConfig.Logging.Level
	}
	if envConfig.Logging.Format == "" {
		envConfig.Logging.Format = fileConfig.Logging.Format
	}
	if envConfig.Logging.Output == "" {
		envConfig.Logging.Output = fileConfig.Logging.Output
	}
	if envConfig.Logging.FilePath == "" {
		envConfig.Logging.FilePath = fileConfig.Logging.FilePath
	}
	if envConfig.Logging.MaxSizeMB == 0 {
		envConfig.Logging.MaxSizeMB = fileConfig.Logging.MaxSizeMB
	}
	if envConfig.Logging.MaxAgeDays == 0 {
		envConfig.Logging.MaxAgeDays = fileConfig.Logging.MaxAgeDays
	}
	if envConfig.Logging.MaxBackups == 0 {
		envConfig.Logging.MaxBackups = fileConfig.Logging.MaxBackups
	}
	if envConfig.Paths.DataDir == "" {
		envConfig.Paths.DataDir = fileConfig.Paths.DataDir
	}
	if envConfig.Paths.ExtractsDir == "" {
		envConfig.Paths.ExtractsDir = fileConfig.Paths.ExtractsDir
	}
	if envConfig.Paths.ReportsDir == "" {
		envConfig.Paths.ReportsDir = fileConfig.Paths.ReportsDir
	}
	if envConfig.Paths.ChartsDir == "" {
		envConfig.Paths.ChartsDir = fileConfig.Paths.ChartsDir
	}
	if envConfig.Paths.LogsDir == "" {
		envConfig.Paths.LogsDir = fileConfig.Paths.LogsDir
	}

	return envConfig
}

// resolvePaths sets up the executable directory from the centralized paths system
func (c *Config) resolvePaths() error {
	paths, err := GetPaths()
	if err != nil {
		return fmt.Errorf("failed to get paths: %w", err)
	}

	c.Paths.ExecutableDir = paths.ExecutableDir

	// Configured overrides; unset fields fall back to the centralized layout.
	if c.Paths.ExtractsDir == "" {
		c.Paths.ExtractsDir = paths.ExtractsDir
	}
	if c.Paths.ReportsDir == "" {
		c.Paths.ReportsDir = paths.ReportsDir
	}
	if c.Paths.ChartsDir == "" {
		c.Paths.ChartsDir = paths.ChartsDir
	}

	return nil
}

// ValidatePaths validates that required directories exist or can be created
func (c *Config) ValidatePaths() error {
	paths, err := GetPaths()
	if err != nil {
		return fmt.Errorf("failed to get paths: %w", err)
	}

	if err := paths.EnsureDirectories(); err != nil {
		return fmt.Errorf("failed to ensure directories: %w", err)
	}

	paths.LogPathResolution()

	return nil
}

var validate = validator.New()

// validate normalizes then validates the configuration
func (c *Config) validate() error {
	if c.Logging.Level == "" {
		c.Logging.Level = DefaultLogLevel
	}
	if c.Logging.Format != "json" {
		// The operator log stream is always structured JSON.
		c.Logging.Format = "json"
	}
	if c.Logging.Output == "" {
		c.Logging.Output = "both"
	}
	if c.Logging.FilePath == "" {
		c.Logging.FilePath = "logs/app.log"
	}
	if c.Logging.MaxSizeMB == 0 {
		c.Logging.MaxSizeMB = MaxLogFileSizeMB
	}

	if err := validate.Struct(c); err != nil {
		var fields []string
		for _, ve := range err.(validator.ValidationErrors) {
			fields = append(fields, formatValidationError(ve))
		}
		return fmt.Errorf("invalid configuration: %s", strings.Join(fields, "; "))
	}

	return nil
}

// formatValidationError formats a single field error into an operator-readable message
func formatValidationError(err validator.FieldError) string {
	field := err.Namespace()
	switch err.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.Replace(err.Param(), " ", ", ", -1))
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, err.Param())
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, err.Param())
	default:
		return fmt.Sprintf("%s failed %s validation", field, err.Tag())
	}
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	// Check for config file in common locations
	locations := []string{
		"config.yaml",
		"configs/config.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // No config file found, use env vars only
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:      DefaultLogLevel,
			Format:     DefaultLogFormat,
			Output:     "both",
			FilePath:   "logs/app.log",
			MaxSizeMB:  MaxLogFileSizeMB,
			MaxAgeDays: MaxLogFileAge,
			MaxBackups: MaxLogFileBackups,
		},
		Paths: PathsConfig{
			DataDir: DefaultDataDir,
			LogsDir: DefaultLogsDir,
		},
	}
}
