package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Paths contains the resolved, absolute directories for one run
type Paths struct {
	WorkingDir string
	DataDir    string
	ChartsDir  string
	SummaryDir string
	LogsDir    string
}

// GetPaths resolves the configured directories against the current working
// directory. Absolute paths are kept as-is.
func GetPaths(cfg *Config) (*Paths, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}
	return ResolvePaths(wd, cfg), nil
}

// ResolvePaths resolves the configured directories against baseDir
func ResolvePaths(baseDir string, cfg *Config) *Paths {
	resolve := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(baseDir, p)
	}

	return &Paths{
		WorkingDir: baseDir,
		DataDir:    resolve(cfg.Paths.DataDir),
		ChartsDir:  resolve(cfg.Paths.ChartsDir),
		SummaryDir: resolve(cfg.Summary.Dir),
		LogsDir:    resolve(cfg.Paths.LogsDir),
	}
}

// EnsureDirectories creates the output directories if they don't exist.
// The data directory is input only and is never created.
func (p *Paths) EnsureDirectories(withSummary bool) error {
	directories := []string{p.ChartsDir}
	if withSummary && p.SummaryDir != "" {
		directories = append(directories, p.SummaryDir)
	}

	logger := slog.Default()
	for _, dir := range directories {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
		logger.Debug("Ensured directory exists", slog.String("directory", dir))
	}

	return nil
}

// GetSummaryPath returns the path for a summary report file
func (p *Paths) GetSummaryPath(filename string) string {
	return filepath.Join(p.SummaryDir, filename)
}

// GetLogPath returns the path for a log file. Relative names are placed in
// the logs directory; absolute paths are kept as-is.
func (p *Paths) GetLogPath(filename string) string {
	if filename == "" {
		filename = DefaultLogFile
	}
	if filepath.IsAbs(filename) {
		return filename
	}
	return filepath.Join(p.LogsDir, filename)
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

// LogPathResolution logs the resolved directories for debugging
func (p *Paths) LogPathResolution(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}

	logger.Info("Path resolution summary",
		slog.Group("directories",
			slog.String("working", p.WorkingDir),
			slog.String("data", p.DataDir),
			slog.String("charts", p.ChartsDir),
			slog.String("summary", p.SummaryDir),
			slog.String("logs", p.LogsDir),
		),
		slog.Bool("data_exists", FileExists(p.DataDir)))
}
