package nbpreview

import (
	"fmt"
	"io"
)

// ProgressLogger receives single-line progress messages.
type ProgressLogger interface {
	LogProgress(msg string)
}

// WriterProgress writes each progress message as a line to W.
type WriterProgress struct {
	W io.Writer
}

// LogProgress implements ProgressLogger.
func (p WriterProgress) LogProgress(msg string) {
	_, _ = fmt.Fprintln(p.W, msg)
}

// DiscardProgress drops progress messages.
type DiscardProgress struct{}

// LogProgress implements ProgressLogger.
func (DiscardProgress) LogProgress(string) {}
