// Package config loads the project configuration file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/go-nbpreview/internal/fileutil"
	"github.com/alnah/go-nbpreview/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// DefaultConfigName is the project file looked up in the working directory.
const DefaultConfigName = "_nbpreview"

// Project types.
const (
	ProjectTypeDefault = "default"
	ProjectTypeBook    = "book"
)

// Render engines.
const (
	EngineNative = "native"
	EnginePandoc = "pandoc"
)

// Field length limits.
const (
	MaxTypeLength  = 20
	MaxThemeLength = 64
	MaxPathLength  = 4096
	MaxTitleLength = 200
	MaxURLLength   = 2048 // Browser limit
)

// Config holds the project configuration.
type Config struct {
	Project      ProjectConfig      `yaml:"project"`
	Format       FormatConfig       `yaml:"format"`
	NotebookView NotebookViewConfig `yaml:"notebook-view"`
	Assets       AssetsConfig       `yaml:"assets"`
}

// ProjectConfig describes the project the documents belong to.
type ProjectConfig struct {
	Type      string `yaml:"type"`       // "default" or "book"
	OutputDir string `yaml:"output-dir"` // Empty = next to the sources
}

// IsBook reports whether the project is a book. Books never get download
// artifacts.
func (p ProjectConfig) IsBook() bool {
	return strings.EqualFold(p.Type, ProjectTypeBook)
}

// FormatConfig defines rendering options.
type FormatConfig struct {
	Theme  string `yaml:"theme"`  // Name of style in internal/assets/styles/ (empty = default)
	Engine string `yaml:"engine"` // "native" or "pandoc" (empty = native)
}

// AssetsConfig defines asset loading options.
type AssetsConfig struct {
	BasePath string `yaml:"basePath"` // Empty = use embedded assets
}

// NotebookViewConfig is the notebook-view key. It accepts a boolean, one
// descriptor, or a list of descriptors:
//
//	notebook-view: false
//	notebook-view: {notebook: a.ipynb, title: Analysis}
//	notebook-view:
//	  - notebook: a.ipynb
//	    download-url: https://example.com/a.ipynb
type NotebookViewConfig struct {
	Disabled  bool
	Notebooks []NotebookDescriptor
}

// NotebookDescriptor overrides how one notebook is presented.
type NotebookDescriptor struct {
	Notebook    string `yaml:"notebook"`
	Title       string `yaml:"title"`
	URL         string `yaml:"url"`
	DownloadURL string `yaml:"download-url"`
}

// UnmarshalYAML decodes the boolean, mapping and sequence forms.
func (n *NotebookViewConfig) UnmarshalYAML(b []byte) error {
	if len(bytes.TrimSpace(b)) == 0 {
		*n = NotebookViewConfig{}
		return nil
	}

	var raw any
	if err := yamlutil.Unmarshal(b, &raw); err != nil {
		return err
	}

	switch v := raw.(type) {
	case nil:
		*n = NotebookViewConfig{}
	case bool:
		*n = NotebookViewConfig{Disabled: !v}
	case map[string]any:
		var d NotebookDescriptor
		if err := yamlutil.UnmarshalStrict(b, &d); err != nil {
			return err
		}
		*n = NotebookViewConfig{Notebooks: []NotebookDescriptor{d}}
	case []any:
		var list []NotebookDescriptor
		if err := yamlutil.UnmarshalStrict(b, &list); err != nil {
			return err
		}
		*n = NotebookViewConfig{Notebooks: list}
	default:
		return fmt.Errorf("%w: notebook-view must be a boolean, a descriptor or a list, got %T", ErrInvalidValue, raw)
	}
	return nil
}

// Validate checks enumerations, required fields and field lengths.
// Called automatically by LoadConfig, but available for consumers
// who construct Config manually.
func (c *Config) Validate() error {
	if err := validateFieldLength("project.type", c.Project.Type, MaxTypeLength); err != nil {
		return err
	}
	switch strings.ToLower(c.Project.Type) {
	case "", ProjectTypeDefault, ProjectTypeBook:
	default:
		return fmt.Errorf("%w: project.type %q (must be default or book)", ErrInvalidValue, c.Project.Type)
	}
	if err := validateFieldLength("project.output-dir", c.Project.OutputDir, MaxPathLength); err != nil {
		return err
	}

	if err := validateFieldLength("format.theme", c.Format.Theme, MaxThemeLength); err != nil {
		return err
	}
	switch strings.ToLower(c.Format.Engine) {
	case "", EngineNative, EnginePandoc:
	default:
		return fmt.Errorf("%w: format.engine %q (must be native or pandoc)", ErrInvalidValue, c.Format.Engine)
	}

	if err := validateFieldLength("assets.basePath", c.Assets.BasePath, MaxPathLength); err != nil {
		return err
	}

	for i, d := range c.NotebookView.Notebooks {
		field := fmt.Sprintf("notebook-view[%d]", i)
		if d.Notebook == "" {
			return fmt.Errorf("%w: %s.notebook is required", ErrInvalidValue, field)
		}
		if err := validateFieldLength(field+".notebook", d.Notebook, MaxPathLength); err != nil {
			return err
		}
		if err := validateFieldLength(field+".title", d.Title, MaxTitleLength); err != nil {
			return err
		}
		if err := validateFieldLength(field+".url", d.URL, MaxURLLength); err != nil {
			return err
		}
		if err := validateFieldLength(field+".download-url", d.DownloadURL, MaxURLLength); err != nil {
			return err
		}
	}

	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// DefaultConfig returns a configuration with previews enabled, the native
// engine and the default theme.
func DefaultConfig() *Config {
	return &Config{
		Project: ProjectConfig{Type: ProjectTypeDefault},
		Format:  FormatConfig{Engine: EngineNative},
	}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if fileutil.IsFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadProjectConfig loads the project file from dir when one exists and
// returns the defaults otherwise.
func LoadProjectConfig(dir string) (*Config, error) {
	for _, ext := range []string{".yml", ".yaml"} {
		path := filepath.Join(dir, DefaultConfigName+ext)
		if fileutil.FileExists(path) {
			return LoadConfig(path)
		}
	}
	return DefaultConfig(), nil
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yml, .yaml
// Tries locations in order: current directory, ~/.config/go-nbpreview/
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yml", ".yaml"}
	triedPaths := make([]string, 0, len(extensions)*2) // 2 locations

	for _, ext := range extensions {
		localPath := name + ext
		if fileutil.FileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	userConfigDir, err := os.UserConfigDir()
	if err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, "go-nbpreview", name+ext)
			if fileutil.FileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}

