package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	"salescli/internal/errors"
)

// Config represents the complete application configuration. It is built
// once in main and threaded explicitly through every pipeline stage; no
// stage reads ambient globals.
type Config struct {
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
	Paths    PathsConfig    `yaml:"paths" envconfig:"PATHS"`
	Pipeline PipelineConfig `yaml:"pipeline" envconfig:"PIPELINE"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn error"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=stdout file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// PathsConfig contains file system paths configuration
type PathsConfig struct {
	DataDir   string `yaml:"data_dir" envconfig:"DATA_DIR" validate:"required"`
	OutputDir string `yaml:"output_dir" envconfig:"OUTPUT_DIR" validate:"required"`
	LogsDir   string `yaml:"logs_dir" envconfig:"LOGS_DIR"`
}

// PipelineConfig names the pipeline input and output artifacts
type PipelineConfig struct {
	InputFile    string `yaml:"input_file" envconfig:"INPUT_FILE" validate:"required"`
	EnrichedFile string `yaml:"enriched_file" envconfig:"ENRICHED_FILE" validate:"required"`
	ReportFile   string `yaml:"report_file" envconfig:"REPORT_FILE" validate:"required"`
}

// Load builds the configuration in three layers: built-in defaults, then an
// optional YAML config file, then environment variables (SALES_ prefix).
// Later layers win.
func Load(configFile string) (*Config, error) {
	cfg := *Default()

	if configFile != "" {
		data, err := os.ReadFile(configFile)
		if err != nil {
			return nil, errors.NewConfigError("failed to read config file", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, errors.NewConfigError("failed to parse config file", err)
		}
	}

	if err := envconfig.Process("SALES", &cfg); err != nil {
		return nil, errors.NewConfigError("failed to load config from environment", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.NewConfigError("config validation failed", err)
	}

	return &cfg, nil
}

// Validate checks the configuration with struct-level validation rules
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return err
	}
	if c.Pipeline.EnrichedFile == c.Pipeline.ReportFile {
		return fmt.Errorf("enriched file and report file must differ: %s", c.Pipeline.ReportFile)
	}
	return nil
}

// GetPaths builds the resolved Paths helper for this configuration
func (c *Config) GetPaths() *Paths {
	return NewPaths(c.Paths.DataDir, c.Paths.OutputDir)
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:    "info",
			Output:   "stdout",
			FilePath: "logs/pipeline.log",
		},
		Paths: PathsConfig{
			DataDir:   "dataset",
			OutputDir: "output",
			LogsDir:   "logs",
		},
		Pipeline: PipelineConfig{
			InputFile:    "sales_data.csv",
			EnrichedFile: "updated_dataset.csv",
			ReportFile:   "preprocessing_report.txt",
		},
	}
}
