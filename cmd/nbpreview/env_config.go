package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/alnah/go-nbpreview/internal/config"
)

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring a project file.
type envConfig struct {
	ConfigPath string // NBPREVIEW_CONFIG: config file name or path
	Theme      string // NBPREVIEW_THEME: preview theme
	Engine     string // NBPREVIEW_ENGINE: native or pandoc
	Pandoc     string // NBPREVIEW_PANDOC: pandoc binary
}

// knownEnvVars lists valid NBPREVIEW_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"NBPREVIEW_CONFIG":    true,
	"NBPREVIEW_THEME":     true,
	"NBPREVIEW_ENGINE":    true,
	"NBPREVIEW_PANDOC":    true,
	"NBPREVIEW_BIN_DIR":   true, // read by internal/tools
	"NBPREVIEW_CONTAINER": true, // read by doctor
}

// loadEnvConfig reads configuration from environment variables.
func loadEnvConfig() *envConfig {
	return &envConfig{
		ConfigPath: os.Getenv("NBPREVIEW_CONFIG"),
		Theme:      os.Getenv("NBPREVIEW_THEME"),
		Engine:     os.Getenv("NBPREVIEW_ENGINE"),
		Pandoc:     os.Getenv("NBPREVIEW_PANDOC"),
	}
}

// warnUnknownEnvVars logs warnings for unrecognized NBPREVIEW_* variables.
// Helps catch typos like NBPREVIEW_THEMES.
func warnUnknownEnvVars(w io.Writer) {
	var unknown []string
	for _, env := range os.Environ() {
		if !strings.HasPrefix(env, "NBPREVIEW_") {
			continue
		}
		name := strings.SplitN(env, "=", 2)[0]
		if !knownEnvVars[name] {
			unknown = append(unknown, name)
		}
	}
	sort.Strings(unknown)
	for _, name := range unknown {
		fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
	}
}

// applyEnvConfig overlays environment values on cfg.
// Priority: CLI flags > env vars > config file > defaults
// (CLI flags are applied later via mergePreviewFlags)
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.Theme != "" {
		cfg.Format.Theme = env.Theme
	}
	if env.Engine != "" {
		cfg.Format.Engine = env.Engine
	}
}
