package tools

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"testing"
)

// ---------------------------------------------------------------------------
// Test helpers
// ---------------------------------------------------------------------------

type fakeBrowser struct {
	bin         string
	getErr      error
	validateErr error
	gets        int
}

func (f *fakeBrowser) BinPath() string { return f.bin }

func (f *fakeBrowser) Get() (string, error) {
	f.gets++
	if f.getErr != nil {
		return "", f.getErr
	}
	return f.bin, nil
}

func (f *fakeBrowser) Validate() error { return f.validateErr }

func newFakeChromium(b *fakeBrowser) *Chromium {
	return &Chromium{newBrowser: func(context.Context) browserFetcher { return b }}
}

// fakeTool is a Tool with a fixed installed state.
type fakeTool struct {
	name      string
	installed bool
}

func (f fakeTool) Name() string        { return f.name }
func (f fakeTool) Description() string { return f.name + " tool" }
func (f fakeTool) Installed() bool     { return f.installed }
func (f fakeTool) BinPath() string     { return "" }
func (f fakeTool) Install(context.Context) (string, error) {
	return "/bin/" + f.name, nil
}

// ---------------------------------------------------------------------------
// Registry
// ---------------------------------------------------------------------------

func TestRegistry(t *testing.T) {
	t.Parallel()

	r := NewRegistry(fakeTool{name: "zeta", installed: true}, fakeTool{name: "alpha"}, fakeTool{name: "mid"})

	if got := r.Names(); !slices.Equal(got, []string{"alpha", "mid", "zeta"}) {
		t.Errorf("Names() = %v", got)
	}

	var missing []string
	for _, tool := range r.Missing() {
		missing = append(missing, tool.Name())
	}
	if !slices.Equal(missing, []string{"alpha", "mid"}) {
		t.Errorf("Missing() = %v, want [alpha mid]", missing)
	}

	if tool, err := r.Lookup("ALPHA"); err != nil || tool.Name() != "alpha" {
		t.Errorf("Lookup(ALPHA) = %v, %v", tool, err)
	}
	if _, err := r.Lookup("tinytex"); !errors.Is(err, ErrUnknownTool) {
		t.Errorf("Lookup(tinytex) error = %v, want ErrUnknownTool", err)
	}
}

func TestDefaultRegistry(t *testing.T) {
	t.Parallel()

	if got := DefaultRegistry().Names(); !slices.Equal(got, []string{"chromium", "pandoc"}) {
		t.Errorf("DefaultRegistry().Names() = %v", got)
	}
}

// ---------------------------------------------------------------------------
// Chromium
// ---------------------------------------------------------------------------

func TestChromium_Installed(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	bin := filepath.Join(dir, "chrome")

	c := newFakeChromium(&fakeBrowser{bin: bin})
	if c.Installed() || c.BinPath() != "" {
		t.Errorf("missing binary: Installed() = %v, BinPath() = %q", c.Installed(), c.BinPath())
	}

	if err := os.WriteFile(bin, []byte("#!/bin/sh\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if !c.Installed() || c.BinPath() != bin {
		t.Errorf("present binary: Installed() = %v, BinPath() = %q", c.Installed(), c.BinPath())
	}
}

func TestChromium_Install(t *testing.T) {
	t.Parallel()

	downloadErr := errors.New("network down")
	tests := []struct {
		name    string
		browser *fakeBrowser
		wantErr bool
	}{
		{name: "downloads and validates", browser: &fakeBrowser{bin: "/cache/chrome"}},
		{name: "download fails", browser: &fakeBrowser{getErr: downloadErr}, wantErr: true},
		{name: "validation fails", browser: &fakeBrowser{bin: "/cache/chrome", validateErr: errors.New("crash")}, wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			path, err := newFakeChromium(tt.browser).Install(context.Background())
			if tt.wantErr {
				if !errors.Is(err, ErrInstallFailed) {
					t.Errorf("Install() error = %v, want ErrInstallFailed", err)
				}
				return
			}
			if err != nil || path != "/cache/chrome" {
				t.Errorf("Install() = %q, %v", path, err)
			}
			if tt.browser.gets != 1 {
				t.Errorf("Get() calls = %d, want 1", tt.browser.gets)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Pandoc
// ---------------------------------------------------------------------------

func TestPandoc(t *testing.T) {
	t.Setenv("NBPREVIEW_PANDOC", "")

	found := &Pandoc{lookPath: func(name string) (string, error) { return "/usr/bin/" + name, nil }}
	if !found.Installed() || found.BinPath() != "/usr/bin/pandoc" {
		t.Errorf("found: Installed() = %v, BinPath() = %q", found.Installed(), found.BinPath())
	}
	if path, err := found.Install(context.Background()); err != nil || path != "/usr/bin/pandoc" {
		t.Errorf("found: Install() = %q, %v", path, err)
	}

	missing := &Pandoc{lookPath: func(string) (string, error) { return "", errors.New("not found") }}
	if missing.Installed() {
		t.Error("missing: Installed() = true")
	}
	if _, err := missing.Install(context.Background()); !errors.Is(err, ErrManualInstall) {
		t.Errorf("missing: Install() error = %v, want ErrManualInstall", err)
	}
}

func TestPandoc_EnvOverride(t *testing.T) {
	t.Setenv("NBPREVIEW_PANDOC", "/opt/pandoc/bin/pandoc")

	var looked string
	p := &Pandoc{lookPath: func(name string) (string, error) { looked = name; return name, nil }}
	p.BinPath()
	if looked != "/opt/pandoc/bin/pandoc" {
		t.Errorf("looked up %q, want NBPREVIEW_PANDOC value", looked)
	}
}

// ---------------------------------------------------------------------------
// LinkIntoPath
// ---------------------------------------------------------------------------

func TestLinkIntoPath(t *testing.T) {
	t.Parallel()
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need elevated rights on windows")
	}

	dir := t.TempDir()
	bin := filepath.Join(dir, "chrome")
	if err := os.WriteFile(bin, []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}
	binDir := filepath.Join(dir, "bin")

	for i := 0; i < 2; i++ { // second call replaces the link
		link, err := LinkIntoPath(bin, binDir, "chromium")
		if err != nil {
			t.Fatalf("LinkIntoPath() error = %v", err)
		}
		target, err := os.Readlink(link)
		if err != nil || target != bin {
			t.Errorf("Readlink(%s) = %q, %v, want %q", link, target, err, bin)
		}
	}

	if _, err := LinkIntoPath("", binDir, "pandoc"); !errors.Is(err, ErrUpdatePath) {
		t.Errorf("empty bin error = %v, want ErrUpdatePath", err)
	}
}

func TestUserBinDir_Env(t *testing.T) {
	t.Setenv("NBPREVIEW_BIN_DIR", "/custom/bin")

	if dir, err := UserBinDir(); err != nil || dir != "/custom/bin" {
		t.Errorf("UserBinDir() = %q, %v", dir, err)
	}
}
