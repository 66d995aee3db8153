package tools

import (
	"context"
	"fmt"

	"github.com/go-rod/rod/lib/launcher"

	"github.com/alnah/go-nbpreview/internal/fileutil"
)

// browserFetcher is the part of launcher.Browser used to manage Chromium.
type browserFetcher interface {
	BinPath() string
	Get() (string, error)
	Validate() error
}

// Chromium is the managed Chromium build downloaded by go-rod.
type Chromium struct {
	newBrowser func(ctx context.Context) browserFetcher
}

// NewChromium returns the managed Chromium tool.
func NewChromium() *Chromium {
	return &Chromium{newBrowser: func(ctx context.Context) browserFetcher {
		b := launcher.NewBrowser()
		b.Context = ctx
		return b
	}}
}

// Name implements Tool.
func (c *Chromium) Name() string { return "chromium" }

// Description implements Tool.
func (c *Chromium) Description() string { return "Chromium build managed by go-rod" }

// Installed reports whether the managed browser has been downloaded.
func (c *Chromium) Installed() bool {
	return fileutil.FileExists(c.newBrowser(context.Background()).BinPath())
}

// BinPath implements Tool.
func (c *Chromium) BinPath() string {
	path := c.newBrowser(context.Background()).BinPath()
	if !fileutil.FileExists(path) {
		return ""
	}
	return path
}

// Install downloads the managed browser when missing and checks it starts.
func (c *Chromium) Install(ctx context.Context) (string, error) {
	b := c.newBrowser(ctx)
	path, err := b.Get()
	if err != nil {
		return "", fmt.Errorf("%w: chromium: %v", ErrInstallFailed, err)
	}
	if err := b.Validate(); err != nil {
		return "", fmt.Errorf("%w: chromium: %v", ErrInstallFailed, err)
	}
	return path, nil
}
