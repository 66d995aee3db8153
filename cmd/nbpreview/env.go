package main

import (
	"io"
	"os"
	"time"

	"github.com/alnah/go-nbpreview/internal/selector"
	"github.com/alnah/go-nbpreview/internal/tools"
)

// SelectFunc asks the user to pick one of items and returns its name.
type SelectFunc func(items []selector.Item, title string, in io.Reader, out io.Writer) (string, error)

// Environment holds injectable dependencies for testability.
// Includes I/O, time, the tool registry and the interactive selector.
type Environment struct {
	Now    func() time.Time
	Stdout io.Writer
	Stderr io.Writer
	Stdin  io.Reader
	Tools  tools.Registry
	Select SelectFunc
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Now:    time.Now,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Stdin:  os.Stdin,
		Tools:  tools.DefaultRegistry(),
		Select: selector.Select,
	}
}

// now returns the current time, falling back to time.Now when Now is unset.
func (e *Environment) now() time.Time {
	if e.Now == nil {
		return time.Now()
	}
	return e.Now()
}

// registry returns the tool registry, falling back to the default one.
func (e *Environment) registry() tools.Registry {
	if e.Tools == nil {
		return tools.DefaultRegistry()
	}
	return e.Tools
}
