package tools

import (
	"context"
	"fmt"
	"os"
	"os/exec"
)

// Pandoc is the pandoc binary used by the pandoc engine. It is located, not
// downloaded.
type Pandoc struct {
	lookPath func(string) (string, error)
}

// NewPandoc returns the pandoc tool. NBPREVIEW_PANDOC overrides the lookup.
func NewPandoc() *Pandoc {
	return &Pandoc{lookPath: exec.LookPath}
}

// Name implements Tool.
func (p *Pandoc) Name() string { return "pandoc" }

// Description implements Tool.
func (p *Pandoc) Description() string { return "pandoc, required by --engine pandoc" }

// Installed implements Tool.
func (p *Pandoc) Installed() bool { return p.BinPath() != "" }

// BinPath implements Tool.
func (p *Pandoc) BinPath() string {
	name := os.Getenv("NBPREVIEW_PANDOC")
	if name == "" {
		name = "pandoc"
	}
	path, err := p.lookPath(name)
	if err != nil {
		return ""
	}
	return path
}

// Install returns the installed binary, or ErrManualInstall.
func (p *Pandoc) Install(context.Context) (string, error) {
	if path := p.BinPath(); path != "" {
		return path, nil
	}
	return "", fmt.Errorf("%w: pandoc (see https://pandoc.org/installing.html)", ErrManualInstall)
}
