package files

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// Manager writes output files under a base directory
type Manager struct {
	baseDir string
}

// NewManager creates a new file manager instance
func NewManager(baseDir string) *Manager {
	return &Manager{baseDir: baseDir}
}

// Path returns the full path for name
func (m *Manager) Path(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(m.baseDir, name)
}

// WriteFile writes name through write. Content goes to a temporary file in
// the same directory that is renamed into place only after write and Close
// succeed, so a failed write never leaves a truncated output behind.
func (m *Manager) WriteFile(name string, write func(w io.Writer) error) (string, error) {
	fullPath := m.Path(name)
	dir := filepath.Dir(fullPath)

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(fullPath)+".*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if err := write(tmp); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := os.Rename(tmpName, fullPath); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("failed to move file into place: %w", err)
	}

	slog.Debug("Wrote file",
		slog.String("name", name),
		slog.String("full_path", fullPath))

	return fullPath, nil
}

// FileExists checks if a file exists at the given path
func (m *Manager) FileExists(name string) bool {
	_, err := os.Stat(m.Path(name))
	return err == nil
}
