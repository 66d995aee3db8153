package nbpreview

import "errors"

// Sentinel errors for library operations.
var (
	// ErrRenderFailed indicates the engine failed to render a notebook. The
	// engine error is wrapped alongside it.
	ErrRenderFailed = errors.New("render failed")

	ErrEmbedTemplate    = errors.New("embed template rendering failed")
	ErrInvalidAssetPath = errors.New("invalid asset path")
)
