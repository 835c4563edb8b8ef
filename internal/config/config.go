package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	apperrors "surveycharts/internal/errors"
)

// EnvPrefix namespaces every environment variable, e.g. SURVEY_REPORT_FORMAT.
const EnvPrefix = "SURVEY"

// Category chart modes
const (
	CategoryModeFirstRow = "first-row"
	CategoryModeSum      = "sum"
)

// Global respondent modes
const (
	RespondentsMaxRow = "max-row"
	RespondentsSum    = "sum"
)

// Config represents the complete application configuration
type Config struct {
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Paths     PathsConfig     `yaml:"paths" envconfig:"PATHS"`
	Report    ReportConfig    `yaml:"report" envconfig:"REPORT"`
	Summary   SummaryConfig   `yaml:"summary" envconfig:"SUMMARY"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn warning error"`
	Format   string `yaml:"format" envconfig:"FORMAT"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"` // relative to paths.logs_dir
}

// PathsConfig contains file system paths configuration
type PathsConfig struct {
	DataDir   string `yaml:"data_dir" envconfig:"DATA_DIR" validate:"required"`
	ChartsDir string `yaml:"charts_dir" envconfig:"CHARTS_DIR" validate:"required"`
	LogsDir   string `yaml:"logs_dir" envconfig:"LOGS_DIR"`
}

// ReportConfig controls chart rendering.
type ReportConfig struct {
	Format            string  `yaml:"format" envconfig:"FORMAT" validate:"oneof=png svg"`
	DPI               float64 `yaml:"dpi" envconfig:"DPI" validate:"gt=0,lte=1200"`
	WidthIn           float64 `yaml:"width_in" envconfig:"WIDTH_IN" validate:"gt=0"`
	HeightIn          float64 `yaml:"height_in" envconfig:"HEIGHT_IN" validate:"gt=0"`
	BaselineFile      string  `yaml:"baseline_file" envconfig:"BASELINE_FILE"`
	GlobalFile        string  `yaml:"global_file" envconfig:"GLOBAL_FILE" validate:"required"`
	CategoryMode      string  `yaml:"category_mode" envconfig:"CATEGORY_MODE" validate:"oneof=first-row sum"`
	GlobalRespondents string  `yaml:"global_respondents" envconfig:"GLOBAL_RESPONDENTS" validate:"oneof=max-row sum"`
	Workers           int     `yaml:"workers" envconfig:"WORKERS" validate:"min=1,max=64"`
}

// SummaryConfig controls the tabular summary export.
type SummaryConfig struct {
	Enabled bool   `yaml:"enabled" envconfig:"ENABLED"`
	Dir     string `yaml:"dir" envconfig:"DIR" validate:"required_if=Enabled true"`
}

// TelemetryConfig controls tracing and metrics output.
type TelemetryConfig struct {
	ServiceName string  `yaml:"service_name" envconfig:"SERVICE_NAME" validate:"required"`
	Tracing     bool    `yaml:"tracing" envconfig:"TRACING"`
	TraceFile   string  `yaml:"trace_file" envconfig:"TRACE_FILE"`
	SampleRatio float64 `yaml:"sample_ratio" envconfig:"SAMPLE_RATIO" validate:"gte=0,lte=1"`
	MetricsFile string  `yaml:"metrics_file" envconfig:"METRICS_FILE"`
}

// PixelSize returns the output image size in pixels.
func (r ReportConfig) PixelSize() (int, int) {
	return int(r.WidthIn * r.DPI), int(r.HeightIn * r.DPI)
}

// Load builds the configuration from defaults, an optional YAML file and
// SURVEY_* environment variables, in increasing order of precedence.
// An empty path searches the usual locations; a missing explicit path is an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	configFile := path
	if configFile == "" {
		configFile = getConfigFilePath()
	}
	if configFile != "" {
		if err := loadFromFile(configFile, cfg); err != nil {
			return nil, apperrors.NewConfigError("failed to load config file", err).
				WithContext("path", configFile)
		}
	}

	// Only variables that are actually set override; defaults come from Default()
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, apperrors.NewConfigError("failed to load config from env", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadFromFile decodes a YAML file over cfg, keeping fields it does not set
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// Validate normalizes and validates the configuration
func (c *Config) Validate() error {
	c.Logging.Level = strings.ToLower(c.Logging.Level)
	c.Logging.Output = strings.ToLower(c.Logging.Output)
	c.Report.Format = strings.ToLower(strings.TrimPrefix(c.Report.Format, "."))

	// Logs are always JSON
	c.Logging.Format = "json"

	if err := validate.Struct(c); err != nil {
		return apperrors.NewConfigError("config validation failed", formatValidationErrors(err))
	}
	return nil
}

var validate = validator.New()

func formatValidationErrors(err error) error {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("%s: failed %s=%s (got %v)", fe.Namespace(), fe.Tag(), fe.Param(), fe.Value()))
		} else {
			msgs = append(msgs, fmt.Sprintf("%s: failed %s (got %v)", fe.Namespace(), fe.Tag(), fe.Value()))
		}
	}
	return fmt.Errorf("%s", strings.Join(msgs, "; "))
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	locations := []string{
		"surveycharts.yaml",
		"configs/surveycharts.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return ""
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "console",
			FilePath: DefaultLogFile,
		},
		Paths: PathsConfig{
			DataDir:   "data",
			ChartsDir: "charts",
			LogsDir:   "logs",
		},
		Report: ReportConfig{
			Format:            "png",
			DPI:               300,
			WidthIn:           10,
			HeightIn:          7,
			BaselineFile:      "original.csv",
			GlobalFile:        "all_categories",
			CategoryMode:      CategoryModeFirstRow,
			GlobalRespondents: RespondentsMaxRow,
			Workers:           1,
		},
		Summary: SummaryConfig{
			Enabled: false,
			Dir:     "reports",
		},
		Telemetry: TelemetryConfig{
			ServiceName: "surveycharts",
			SampleRatio: 1.0,
		},
	}
}
