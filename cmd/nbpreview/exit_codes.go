package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	nbpreview "github.com/alnah/go-nbpreview"
	"github.com/alnah/go-nbpreview/internal/assets"
	"github.com/alnah/go-nbpreview/internal/config"
	"github.com/alnah/go-nbpreview/internal/engine"
	"github.com/alnah/go-nbpreview/internal/extension"
	"github.com/alnah/go-nbpreview/internal/hints"
	"github.com/alnah/go-nbpreview/internal/notebook"
	"github.com/alnah/go-nbpreview/internal/tools"
)

// Exit codes for the nbpreview CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Command completed
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, assets or install target
	ExitIO      = 3 // File not found, permission denied, write failures
	ExitEngine  = 4 // Render engine or tool installation failures
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
// Usage and I/O causes are checked first: a render failure caused by a
// missing theme or notebook is reported as such.
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, assets.ErrStyleNotFound) ||
		errors.Is(err, assets.ErrTemplateNotFound) ||
		errors.Is(err, assets.ErrInvalidAssetName) ||
		errors.Is(err, nbpreview.ErrInvalidAssetPath) ||
		errors.Is(err, tools.ErrUnknownTool) ||
		errors.Is(err, extension.ErrUnsupportedSource) ||
		errors.Is(err, extension.ErrNoManifest) ||
		errors.Is(err, extension.ErrManifestParse) ||
		errors.Is(err, extension.ErrEmbedNotFound) ||
		errors.Is(err, ErrUnknownAction) ||
		errors.Is(err, ErrUnsupportedInput) ||
		errors.Is(err, ErrNoNotebooks) {
		return ExitUsage
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, notebook.ErrNotebookRead) ||
		errors.Is(err, engine.ErrWriteOutput) ||
		errors.Is(err, extension.ErrInvalidArchive) ||
		errors.Is(err, extension.ErrCopy) ||
		errors.Is(err, tools.ErrUpdatePath) ||
		errors.Is(err, ErrNoInput) ||
		errors.Is(err, ErrReadDocument) ||
		errors.Is(err, ErrOutputDir) {
		return ExitIO
	}

	// Engine and tool errors (exit 4)
	if errors.Is(err, nbpreview.ErrRenderFailed) ||
		errors.Is(err, engine.ErrPandocNotFound) ||
		errors.Is(err, engine.ErrPandocFailed) ||
		errors.Is(err, tools.ErrInstallFailed) ||
		errors.Is(err, tools.ErrManualInstall) {
		return ExitEngine
	}

	return ExitGeneral
}

// hintFor returns an actionable hint for err, or "".
func hintFor(err error) string {
	switch {
	case errors.Is(err, engine.ErrPandocNotFound), errors.Is(err, tools.ErrManualInstall):
		return hints.ForPandocNotFound()
	case errors.Is(err, tools.ErrInstallFailed):
		return hints.ForChromiumInstall()
	case errors.Is(err, config.ErrConfigNotFound):
		return hints.ForConfigNotFound(nil)
	case errors.Is(err, assets.ErrStyleNotFound):
		return hints.ForThemeNotFound(assets.StyleNames())
	case errors.Is(err, extension.ErrNoManifest):
		return hints.ForExtensionManifest()
	case errors.Is(err, ErrOutputDir):
		return hints.ForOutputDirectory()
	}
	return ""
}

// reportError prints err with its hint and returns its exit code.
func reportError(w io.Writer, err error) int {
	fmt.Fprintf(w, "error: %v%s\n", err, hintFor(err))
	return exitCodeFor(err)
}
