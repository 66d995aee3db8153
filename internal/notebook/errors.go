package notebook

import "errors"

// Sentinel errors for notebook operations.
var (
	ErrInvalidNotebook  = errors.New("invalid notebook")
	ErrUnsupportedInput = errors.New("unsupported notebook input")
	ErrNotebookRead     = errors.New("failed to read notebook")
	ErrNotebookTooLarge = errors.New("notebook exceeds maximum size")
	ErrNotebookExport   = errors.New("failed to export notebook")
)
