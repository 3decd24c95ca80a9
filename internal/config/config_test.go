package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLoad tests the Load function with various scenarios
func TestLoad(t *testing.T) {
	// Save original environment to restore later
	originalEnv := make(map[string]string)
	envVars := []string{
		"RIDE_LOGGING_LEVEL", "RIDE_LOGGING_FORMAT", "RIDE_LOGGING_OUTPUT",
		"RIDE_LOGGING_FILE_PATH", "RIDE_LOGGING_MAX_SIZE_MB",
		"RIDE_PATHS_DATA_DIR", "RIDE_PATHS_EXTRACTS_DIR", "RIDE_PATHS_REPORTS_DIR",
		"RIDE_PATHS_CHARTS_DIR", "RIDE_PATHS_LOGS_DIR",
	}

	for _, envVar := range envVars {
		originalEnv[envVar] = os.Getenv(envVar)
	}

	defer func() {
		for _, envVar := range envVars {
			if val, exists := originalEnv[envVar]; exists && val != "" {
				os.Setenv(envVar, val)
			} else {
				os.Unsetenv(envVar)
			}
		}
	}()

	tests := []struct {
		name        string
		setupEnv    func()
		setupFile   func() string // returns temp file path
		wantErr     bool
		validateCfg func(*testing.T, *Config)
	}{
		{
			name: "default configuration with no env vars",
			setupEnv: func() {
				for _, envVar := range envVars {
					os.Unsetenv(envVar)
				}
			},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "info", cfg.Logging.Level)
				assert.Equal(t, "json", cfg.Logging.Format)
				assert.Equal(t, "both", cfg.Logging.Output)
				assert.Equal(t, "logs/app.log", cfg.Logging.FilePath)
				assert.Equal(t, 100, cfg.Logging.MaxSizeMB)

				assert.Equal(t, "data", cfg.Paths.DataDir)
				assert.Equal(t, "logs", cfg.Paths.LogsDir)
				assert.NotEmpty(t, cfg.Paths.ExtractsDir)
				assert.NotEmpty(t, cfg.Paths.ReportsDir)
				assert.NotEmpty(t, cfg.Paths.ChartsDir)
			},
		},
		{
			name: "custom environment variables",
			setupEnv: func() {
				os.Setenv("RIDE_LOGGING_LEVEL", "debug")
				os.Setenv("RIDE_LOGGING_FORMAT", "text")
				os.Setenv("RIDE_LOGGING_OUTPUT", "stdout")
				os.Setenv("RIDE_PATHS_EXTRACTS_DIR", "/srv/ride/extracts")
			},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "debug", cfg.Logging.Level)
				assert.Equal(t, "json", cfg.Logging.Format) // validate() should force this to json
				assert.Equal(t, "stdout", cfg.Logging.Output)
				assert.Equal(t, "/srv/ride/extracts", cfg.Paths.ExtractsDir)
			},
		},
		{
			name: "invalid log level",
			setupEnv: func() {
				os.Setenv("RIDE_LOGGING_LEVEL", "verbose")
			},
			wantErr: true,
		},
		{
			name: "invalid log output",
			setupEnv: func() {
				os.Setenv("RIDE_LOGGING_OUTPUT", "syslog")
			},
			wantErr: true,
		},
		{
			name: "config file with environment override",
			setupEnv: func() {
				os.Setenv("RIDE_LOGGING_LEVEL", "warn")
			},
			setupFile: func() string {
				tempDir := t.TempDir()
				configFile := filepath.Join(tempDir, "config.yaml")
				configContent := `
logging:
  level: error
paths:
  charts_dir: /srv/ride/charts
`
				require.NoError(t, os.WriteFile(configFile, []byte(configContent), 0644))
				// Change to temp directory so config file is found
				originalDir, _ := os.Getwd()
				os.Chdir(tempDir)
				t.Cleanup(func() { os.Chdir(originalDir) })
				return configFile
			},
			validateCfg: func(t *testing.T, cfg *Config) {
				// Environment should override file
				assert.Equal(t, "warn", cfg.Logging.Level)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, envVar := range envVars {
				os.Unsetenv(envVar)
			}

			if tt.setupEnv != nil {
				tt.setupEnv()
			}

			if tt.setupFile != nil {
				_ = tt.setupFile()
			}

			cfg, err := Load()

			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, cfg)

			if tt.validateCfg != nil {
				tt.validateCfg(t, cfg)
			}
		})
	}
}

// TestLoadFromFile tests the loadFromFile function
func TestLoadFromFile(t *testing.T) {
	tests := []struct {
		name        string
		fileContent string
		wantErr     bool
		validateCfg func(*testing.T, *Config)
	}{
		{
			name: "valid YAML config",
			fileContent: `
logging:
  level: debug
  output: file
  file_path: /var/log/ride.log
paths:
  extracts_dir: /srv/extracts
  reports_dir: /srv/reports
`,
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "debug", cfg.Logging.Level)
				assert.Equal(t, "file", cfg.Logging.Output)
				assert.Equal(t, "/var/log/ride.log", cfg.Logging.FilePath)
				assert.Equal(t, "/srv/extracts", cfg.Paths.ExtractsDir)
				assert.Equal(t, "/srv/reports", cfg.Paths.ReportsDir)
			},
		},
		{
			name:        "invalid YAML syntax",
			fileContent: "invalid: yaml: content: [unclosed",
			wantErr:     true,
		},
		{
			name: "partial config",
			fileContent: `
logging:
  level: error
`,
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "error", cfg.Logging.Level)
				// Other fields should be zero values
				assert.Empty(t, cfg.Logging.Output)
				assert.Empty(t, cfg.Paths.ExtractsDir)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tempDir := t.TempDir()
			configFile := filepath.Join(tempDir, "config.yaml")
			require.NoError(t, os.WriteFile(configFile, []byte(tt.fileContent), 0644))

			cfg, err := loadFromFile(configFile)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, cfg)

			if tt.validateCfg != nil {
				tt.validateCfg(t, cfg)
			}
		})
	}

	t.Run("non-existent file", func(t *testing.T) {
		_, err := loadFromFile("/non/existent/file.yaml")
		assert.Error(t, err)
	})
}

// TestMergeConfigs tests the mergeConfigs function
func TestMergeConfigs(t *testing.T) {
	fileConfig := Config{
		Logging: LoggingConfig{
			Level:      "error",
			Output:     "file",
			FilePath:   "/var/log/file.log",
			MaxSizeMB:  50,
			MaxAgeDays: 7,
		},
		Paths: PathsConfig{
			ExtractsDir: "/file/extracts",
			ChartsDir:   "/file/charts",
		},
	}

	envConfig := Config{
		Logging: LoggingConfig{
			Level:     "debug", // Should override file config
			Output:    "",      // Should use file config
			FilePath:  "",      // Should use file config
			MaxSizeMB: 200,     // Should override file config
		},
		Paths: PathsConfig{
			ExtractsDir: "/env/extracts", // Should override file config
			ChartsDir:   "",              // Should use file config
		},
	}

	merged := mergeConfigs(fileConfig, envConfig)

	// Environment should take precedence when set
	assert.Equal(t, "debug", merged.Logging.Level)
	assert.Equal(t, 200, merged.Logging.MaxSizeMB)
	assert.Equal(t, "/env/extracts", merged.Paths.ExtractsDir)

	// File config should be used when env is zero/empty
	assert.Equal(t, "file", merged.Logging.Output)
	assert.Equal(t, "/var/log/file.log", merged.Logging.FilePath)
	assert.Equal(t, 7, merged.Logging.MaxAgeDays)
	assert.Equal(t, "/file/charts", merged.Paths.ChartsDir)
}

// TestValidate tests the validate function
func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
		errMsg  string
	}{
		{
			name:   "valid configuration",
			config: *Default(),
		},
		{
			name: "empty logging config normalized",
			config: Config{
				Paths: PathsConfig{DataDir: "data", LogsDir: "logs"},
			},
		},
		{
			name: "text format auto-corrected to json",
			config: Config{
				Logging: LoggingConfig{
					Level:     "info",
					Format:    "text",
					Output:    "both",
					FilePath:  "logs/app.log",
					MaxSizeMB: 10,
				},
			},
		},
		{
			name: "invalid level rejected",
			config: Config{
				Logging: LoggingConfig{
					Level:     "verbose",
					Format:    "json",
					Output:    "both",
					FilePath:  "logs/app.log",
					MaxSizeMB: 10,
				},
			},
			wantErr: true,
			errMsg:  "must be one of",
		},
		{
			name: "invalid output rejected",
			config: Config{
				Logging: LoggingConfig{
					Level:     "info",
					Format:    "json",
					Output:    "syslog",
					FilePath:  "logs/app.log",
					MaxSizeMB: 10,
				},
			},
			wantErr: true,
			errMsg:  "must be one of",
		},
		{
			name: "negative max age rejected",
			config: Config{
				Logging: LoggingConfig{
					Level:      "info",
					Format:     "json",
					Output:     "both",
					FilePath:   "logs/app.log",
					MaxSizeMB:  10,
					MaxAgeDays: -1,
				},
			},
			wantErr: true,
			errMsg:  "greater than or equal to",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.validate()

			if tt.wantErr {
				require.Error(t, err)
				if tt.errMsg != "" {
					assert.Contains(t, err.Error(), tt.errMsg)
				}
				return
			}

			assert.NoError(t, err)
			// Normalization guarantees
			assert.Equal(t, "json", tt.config.Logging.Format)
			assert.NotEmpty(t, tt.config.Logging.Output)
			assert.NotEmpty(t, tt.config.Logging.FilePath)
		})
	}
}

// TestGetConfigFilePath tests the getConfigFilePath function
func TestGetConfigFilePath(t *testing.T) {
	t.Run("no config file exists", func(t *testing.T) {
		tempDir := t.TempDir()
		originalDir, _ := os.Getwd()
		defer os.Chdir(originalDir)
		os.Chdir(tempDir)

		path := getConfigFilePath()
		assert.Empty(t, path)
	})

	t.Run("config file in current directory", func(t *testing.T) {
		tempDir := t.TempDir()
		originalDir, _ := os.Getwd()
		defer os.Chdir(originalDir)
		os.Chdir(tempDir)

		configFile := filepath.Join(tempDir, "config.yaml")
		require.NoError(t, os.WriteFile(configFile, []byte("test"), 0644))

		path := getConfigFilePath()
		assert.Equal(t, "config.yaml", path)
	})

	t.Run("config file in configs directory", func(t *testing.T) {
		tempDir := t.TempDir()
		originalDir, _ := os.Getwd()
		defer os.Chdir(originalDir)
		os.Chdir(tempDir)

		configsDir := filepath.Join(tempDir, "configs")
		require.NoError(t, os.MkdirAll(configsDir, 0755))
		configFile := filepath.Join(configsDir, "config.yaml")
		require.NoError(t, os.WriteFile(configFile, []byte("test"), 0644))

		path := getConfigFilePath()
		assert.Equal(t, "configs/config.yaml", path)
	})
}

// TestDefault tests the Default function
func TestDefault(t *testing.T) {
	cfg := Default()
	require.NotNil(t, cfg)

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "both", cfg.Logging.Output)
	assert.Equal(t, "logs/app.log", cfg.Logging.FilePath)
	assert.Equal(t, MaxLogFileSizeMB, cfg.Logging.MaxSizeMB)
	assert.Equal(t, MaxLogFileAge, cfg.Logging.MaxAgeDays)
	assert.Equal(t, MaxLogFileBackups, cfg.Logging.MaxBackups)

	assert.Equal(t, "data", cfg.Paths.DataDir)
	assert.Equal(t, "logs", cfg.Paths.LogsDir)

	assert.NoError(t, cfg.validate())
}

// TestRideLengthBounds pins the fixed cleaning policy constants
func TestRideLengthBounds(t *testing.T) {
	assert.Equal(t, 1.0, MinRideLengthMinutes)
	assert.Equal(t, 1440.0, MaxRideLengthMinutes)
}
