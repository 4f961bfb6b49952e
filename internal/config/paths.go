package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Paths resolves locations of the dataset and the pipeline artifacts.
// All lookups go through this type so no component hard-codes a path.
type Paths struct {
	DataDir   string
	OutputDir string
}

// NewPaths creates a Paths helper rooted at the given directories
func NewPaths(dataDir, outputDir string) *Paths {
	return &Paths{
		DataDir:   dataDir,
		OutputDir: outputDir,
	}
}

// GetDataPath returns the path of a file inside the dataset directory
func (p *Paths) GetDataPath(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(p.DataDir, name)
}

// GetOutputPath returns the path of a file inside the output directory
func (p *Paths) GetOutputPath(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(p.OutputDir, name)
}

// EnsureDirectories creates the output directory tree if absent. The data
// directory is only read, never created.
func (p *Paths) EnsureDirectories() error {
	if err := os.MkdirAll(p.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", p.OutputDir, err)
	}
	return nil
}
