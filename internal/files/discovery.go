package files

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Supported tabular file extensions
const (
	ExtCSV  = ".csv"
	ExtXLSX = ".xlsx"
)

// FileInfo represents information about a discovered file
type FileInfo struct {
	Path    string
	Name    string
	Ext     string
	Size    int64
	ModTime time.Time
}

// Source returns the file name without its extension
func (f FileInfo) Source() string {
	return SourceName(f.Name)
}

// Discovery provides file discovery operations
type Discovery struct {
	basePath string
	exclude  map[string]bool
}

// NewDiscovery creates a new file discovery instance. Files whose base name
// equals one of exclude, case-insensitively, are never returned.
func NewDiscovery(basePath string, exclude ...string) *Discovery {
	d := &Discovery{basePath: basePath, exclude: make(map[string]bool)}
	for _, name := range exclude {
		if name != "" {
			d.exclude[strings.ToLower(name)] = true
		}
	}
	return d
}

// FindTabularFiles finds all CSV and XLSX files in dir, sorted by name
func (d *Discovery) FindTabularFiles(dir string) ([]FileInfo, error) {
	fullPath := dir
	if !filepath.IsAbs(dir) && d.basePath != "" {
		fullPath = filepath.Join(d.basePath, dir)
	}

	entries, err := os.ReadDir(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", fullPath, err)
	}

	var files []FileInfo
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		if !IsTabular(name) || d.IsExcluded(name) {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}

		files = append(files, FileInfo{
			Path:    filepath.Join(fullPath, name),
			Name:    name,
			Ext:     strings.ToLower(filepath.Ext(name)),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Name < files[j].Name
	})

	return files, nil
}

// IsExcluded reports whether name is a reserved file, ignoring case
func (d *Discovery) IsExcluded(name string) bool {
	return d.exclude[strings.ToLower(name)]
}

// IsTabular reports whether name has a supported tabular extension
func IsTabular(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ExtCSV, ExtXLSX:
		return true
	}
	return false
}

// SourceName strips the extension from a file name
func SourceName(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name))
}
