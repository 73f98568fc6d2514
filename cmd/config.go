package cmd

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"ptxparse/pkg/ast"

	"gopkg.in/yaml.v2"
)

const configFileName = ".ptxparse.yaml"

// Config represents the structure of a .ptxparse.yaml configuration file
type Config struct {
	Format     string   `yaml:"format,omitempty"`     // human, json or yaml
	ShowBodies bool     `yaml:"showBodies,omitempty"` // Print function bodies in human output
	Exclude    []string `yaml:"exclude,omitempty"`    // Glob patterns of declaration names to hide
}

// loadConfig reads the configuration for inputFile. An explicit path must
// exist and parse; an auto-discovered file next to the input is optional and
// only produces a warning when malformed.
func loadConfig(explicitPath, inputFile string, stderr io.Writer) (*Config, error) {
	if explicitPath != "" {
		content, err := os.ReadFile(explicitPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", explicitPath, err)
		}
		var config Config
		if err := yaml.Unmarshal(content, &config); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", explicitPath, err)
		}
		return &config, nil
	}

	path := filepath.Join(filepath.Dir(inputFile), configFileName)
	content, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &Config{}, nil
	}
	if err != nil {
		fmt.Fprintf(stderr, "⚠️  Warning: Failed to read %s: %v\n", path, err)
		return &Config{}, nil
	}

	var config Config
	if err := yaml.Unmarshal(content, &config); err != nil {
		fmt.Fprintf(stderr, "⚠️  Warning: Failed to parse %s: %v\n", path, err)
		return &Config{}, nil
	}
	return &config, nil
}

// isExcluded reports whether name matches any exclude pattern
func (c *Config) isExcluded(name string) bool {
	for _, pattern := range c.Exclude {
		if matched, _ := filepath.Match(pattern, name); matched {
			return true
		}
	}
	return false
}

// filter returns a copy of file without excluded declarations
func (c *Config) filter(file *ast.PtxFile) *ast.PtxFile {
	if len(c.Exclude) == 0 {
		return file
	}
	filtered := ast.NewPtxFile(file.Filename, file.Content, file.Preamble)
	for _, decl := range file.Declarations {
		if !c.isExcluded(decl.Name()) {
			filtered.AddDeclaration(decl)
		}
	}
	return filtered
}
