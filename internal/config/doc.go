// Package config provides configuration management for surveycharts.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//  1. Environment variables (highest priority)
//  2. YAML configuration file
//  3. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern SURVEY_<SECTION>_<FIELD>:
//
//	SURVEY_PATHS_DATA_DIR=./data
//	SURVEY_PATHS_CHARTS_DIR=./charts
//	SURVEY_REPORT_FORMAT=svg
//	SURVEY_REPORT_CATEGORY_MODE=sum
//	SURVEY_LOGGING_LEVEL=debug
//	SURVEY_SUMMARY_ENABLED=true
//
// # Configuration File
//
// When no file is given explicitly, surveycharts.yaml and
// configs/surveycharts.yaml are tried in that order:
//
//	paths:
//	  data_dir: data
//	  charts_dir: charts
//	report:
//	  format: png
//	  dpi: 300
//	  baseline_file: original.csv
//
// # Validation
//
// The merged configuration is validated with go-playground/validator struct
// tags; any failure is returned as a CONFIG AppError.
//
// # Paths
//
// Paths resolves relative directories against the working directory:
//
//	paths, err := config.GetPaths(cfg)
//	logFile := paths.GetLogPath(cfg.Logging.FilePath)
package config
