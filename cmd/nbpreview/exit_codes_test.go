package main

// Notes:
// - exitCodeFor: we test the sentinel errors of every package the CLI calls,
//   plus wrapped errors to verify the errors.Is() chain and the precedence of
//   usage and I/O causes over render failures.
// - hintFor: we test that known failures carry a hint.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"

	nbpreview "github.com/alnah/go-nbpreview"
	"github.com/alnah/go-nbpreview/internal/assets"
	"github.com/alnah/go-nbpreview/internal/config"
	"github.com/alnah/go-nbpreview/internal/engine"
	"github.com/alnah/go-nbpreview/internal/extension"
	"github.com/alnah/go-nbpreview/internal/notebook"
	"github.com/alnah/go-nbpreview/internal/tools"
)

// ---------------------------------------------------------------------------
// TestExitCodeFor - Error to exit code mapping
// ---------------------------------------------------------------------------

func TestExitCodeFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil error", nil, ExitSuccess},

		// Engine errors (exit 4)
		{"render failed", nbpreview.ErrRenderFailed, ExitEngine},
		{"pandoc not found", engine.ErrPandocNotFound, ExitEngine},
		{"pandoc failed", engine.ErrPandocFailed, ExitEngine},
		{"tool install failed", tools.ErrInstallFailed, ExitEngine},
		{"manual install", tools.ErrManualInstall, ExitEngine},
		{"wrapped render", fmt.Errorf("%w: preview for a.ipynb: %w", nbpreview.ErrRenderFailed, engine.ErrPandocFailed), ExitEngine},

		// I/O errors (exit 3)
		{"file not exist", os.ErrNotExist, ExitIO},
		{"permission denied", os.ErrPermission, ExitIO},
		{"notebook read", notebook.ErrNotebookRead, ExitIO},
		{"write output", engine.ErrWriteOutput, ExitIO},
		{"invalid archive", extension.ErrInvalidArchive, ExitIO},
		{"extension copy", extension.ErrCopy, ExitIO},
		{"update path", tools.ErrUpdatePath, ExitIO},
		{"no input", ErrNoInput, ExitIO},
		{"read document", ErrReadDocument, ExitIO},
		{"output dir", ErrOutputDir, ExitIO},
		{"render of missing notebook", fmt.Errorf("%w: preview for a.ipynb: %w", nbpreview.ErrRenderFailed, os.ErrNotExist), ExitIO},

		// Usage/config/validation errors (exit 2)
		{"config not found", config.ErrConfigNotFound, ExitUsage},
		{"config parse", config.ErrConfigParse, ExitUsage},
		{"field too long", config.ErrFieldTooLong, ExitUsage},
		{"invalid value", config.ErrInvalidValue, ExitUsage},
		{"style not found", assets.ErrStyleNotFound, ExitUsage},
		{"template not found", assets.ErrTemplateNotFound, ExitUsage},
		{"invalid asset path", nbpreview.ErrInvalidAssetPath, ExitUsage},
		{"unknown tool", tools.ErrUnknownTool, ExitUsage},
		{"unsupported source", extension.ErrUnsupportedSource, ExitUsage},
		{"no manifest", extension.ErrNoManifest, ExitUsage},
		{"embed not found", extension.ErrEmbedNotFound, ExitUsage},
		{"unknown action", ErrUnknownAction, ExitUsage},
		{"unsupported input", ErrUnsupportedInput, ExitUsage},
		{"no notebooks", ErrNoNotebooks, ExitUsage},
		{"render with missing theme", fmt.Errorf("%w: preview for a.ipynb: %w", nbpreview.ErrRenderFailed, assets.ErrStyleNotFound), ExitUsage},

		// General errors (exit 1)
		{"unknown error", errors.New("something unexpected"), ExitGeneral},
		{"wrapped unknown", fmt.Errorf("context: %w", errors.New("unknown")), ExitGeneral},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := exitCodeFor(tt.err); got != tt.want {
				t.Errorf("exitCodeFor(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestExitCodeConstants - Unix conventions
// ---------------------------------------------------------------------------

func TestExitCodeConstants(t *testing.T) {
	t.Parallel()

	if ExitSuccess != 0 || ExitGeneral != 1 || ExitUsage != 2 {
		t.Errorf("standard codes changed: success=%d general=%d usage=%d", ExitSuccess, ExitGeneral, ExitUsage)
	}
	for _, code := range []int{ExitIO, ExitEngine} {
		if code <= ExitUsage || code >= 126 {
			t.Errorf("custom exit code %d outside (2, 126)", code)
		}
	}
}

// ---------------------------------------------------------------------------
// TestHintFor - Actionable hints
// ---------------------------------------------------------------------------

func TestHintFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"pandoc missing", engine.ErrPandocNotFound, "install pandoc"},
		{"theme missing", fmt.Errorf("theme %q: %w", "neon", assets.ErrStyleNotFound), "available:"},
		{"no manifest", extension.ErrNoManifest, "_extension.yml"},
		{"output dir", ErrOutputDir, "writable"},
		{"config missing", config.ErrConfigNotFound, "--config"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			hint := hintFor(tt.err)
			if !strings.HasPrefix(hint, "\n  hint: ") || !strings.Contains(hint, tt.want) {
				t.Errorf("hintFor(%v) = %q, want hint containing %q", tt.err, hint, tt.want)
			}
		})
	}

	if hint := hintFor(errors.New("other")); hint != "" {
		t.Errorf("hintFor(other) = %q, want empty", hint)
	}
}
