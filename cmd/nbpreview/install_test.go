package main

// Notes:
// - resolveArgs: we test every argument shape.
// - runInstall: tools are fakes registered in the test environment; stdin
//   answers the y/N prompt. Extensions install into t.TempDir() projects.
// - --update-path reads NBPREVIEW_BIN_DIR, so that test uses t.Setenv and
//   cannot run in parallel.
// These are acceptable gaps: real downloads are not exercised here.

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/alnah/go-nbpreview/internal/extension"
	"github.com/alnah/go-nbpreview/internal/fileutil"
	"github.com/alnah/go-nbpreview/internal/selector"
	"github.com/alnah/go-nbpreview/internal/tools"
)

func installTemp(t *testing.T) *fileutil.TempContext {
	t.Helper()
	tmp := fileutil.NewTempContext()
	t.Cleanup(func() { _ = tmp.Cleanup() })
	return tmp
}

// ---------------------------------------------------------------------------
// TestResolveArgs - Action and name resolution
// ---------------------------------------------------------------------------

func TestResolveArgs(t *testing.T) {
	t.Parallel()

	registry := tools.NewRegistry(&fakeTool{name: "pandoc"}, &fakeTool{name: "chromium"})

	tests := []struct {
		name       string
		args       []string
		wantAction string
		wantName   string
	}{
		{"no args", nil, "tool", ""},
		{"tool action", []string{"tool"}, "tool", ""},
		{"extension action", []string{"extension"}, "extension", ""},
		{"known tool", []string{"chromium"}, "tool", "chromium"},
		{"known tool any case", []string{"Pandoc"}, "tool", "Pandoc"},
		{"extension source", []string{"./callouts"}, "extension", "./callouts"},
		{"action and name", []string{"extension", "ext.zip"}, "extension", "ext.zip"},
		{"unknown action", []string{"plugin", "x"}, "plugin", "x"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			action, name := resolveArgs(tt.args, "tool", registry)
			if action != tt.wantAction || name != tt.wantName {
				t.Errorf("resolveArgs(%v) = (%q, %q), want (%q, %q)", tt.args, action, name, tt.wantAction, tt.wantName)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestRunInstall - Tools
// ---------------------------------------------------------------------------

func TestRunInstall_AllInstalled(t *testing.T) {
	t.Parallel()

	env := newTestEnv("", &fakeTool{name: "pandoc", installed: true})
	if err := runInstall(context.Background(), nil, &installFlags{}, installTemp(t), env.Environment); err != nil {
		t.Fatalf("runInstall() error = %v", err)
	}
	if got := env.stdout.String(); got != "All tools are already installed.\n" {
		t.Errorf("stdout = %q", got)
	}
}

func TestRunInstall_SelectMissing(t *testing.T) {
	t.Parallel()

	chromium := &fakeTool{name: "chromium", bin: "/cache/chrome"}
	env := newTestEnv("", chromium, &fakeTool{name: "pandoc", installed: true})

	var offered []string
	env.Select = func(items []selector.Item, _ string, _ io.Reader, _ io.Writer) (string, error) {
		for _, item := range items {
			offered = append(offered, item.Name)
		}
		return "chromium", nil
	}

	if err := runInstall(context.Background(), nil, &installFlags{noPrompt: true}, installTemp(t), env.Environment); err != nil {
		t.Fatalf("runInstall() error = %v", err)
	}
	if len(offered) != 1 || offered[0] != "chromium" {
		t.Errorf("offered %v, want only the missing tool", offered)
	}
	if chromium.installs != 1 {
		t.Errorf("Install() calls = %d, want 1", chromium.installs)
	}
	if !strings.Contains(env.stdout.String(), "Installed chromium at /cache/chrome") {
		t.Errorf("stdout = %q", env.stdout.String())
	}
}

func TestRunInstall_SelectCanceled(t *testing.T) {
	t.Parallel()

	chromium := &fakeTool{name: "chromium"}
	env := newTestEnv("", chromium)

	if err := runInstall(context.Background(), nil, &installFlags{}, installTemp(t), env.Environment); err != nil {
		t.Fatalf("runInstall() error = %v", err)
	}
	if chromium.installs != 0 || !strings.Contains(env.stdout.String(), "Installation canceled.") {
		t.Errorf("installs = %d, stdout = %q", chromium.installs, env.stdout.String())
	}
}

func TestRunInstall_Prompt(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		answer      string
		wantInstall int
	}{
		{"yes", "y\n", 1},
		{"full yes", "YES\n", 1},
		{"no", "n\n", 0},
		{"empty answer", "\n", 0},
		{"eof", "", 0},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			chromium := &fakeTool{name: "chromium", bin: "/cache/chrome"}
			env := newTestEnv(tt.answer, chromium)
			if err := runInstall(context.Background(), []string{"chromium"}, &installFlags{}, installTemp(t), env.Environment); err != nil {
				t.Fatalf("runInstall() error = %v", err)
			}
			if chromium.installs != tt.wantInstall {
				t.Errorf("Install() calls = %d, want %d", chromium.installs, tt.wantInstall)
			}
			if !strings.Contains(env.stdout.String(), "Install chromium for tests? [y/N]") {
				t.Errorf("prompt missing: %q", env.stdout.String())
			}
		})
	}
}

func TestRunInstall_ToolErrors(t *testing.T) {
	t.Parallel()

	failing := &fakeTool{name: "chromium", err: tools.ErrInstallFailed}
	env := newTestEnv("", failing)

	err := runInstall(context.Background(), []string{"tool", "chromium"}, &installFlags{noPrompt: true}, installTemp(t), env.Environment)
	if exitCodeFor(err) != ExitEngine {
		t.Errorf("failed install error = %v, want engine exit code", err)
	}

	err = runInstall(context.Background(), []string{"tool", "tinytex"}, &installFlags{noPrompt: true}, installTemp(t), env.Environment)
	if !errors.Is(err, tools.ErrUnknownTool) {
		t.Errorf("unknown tool error = %v, want ErrUnknownTool", err)
	}
}

func TestRunInstall_UpdatePath(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need elevated rights on windows")
	}
	binDir := t.TempDir()
	t.Setenv("NBPREVIEW_BIN_DIR", binDir)

	bin := writeFile(t, t.TempDir(), "chrome", "#!/bin/sh\n")
	env := newTestEnv("", &fakeTool{name: "chromium", installed: true, bin: bin})

	flags := &installFlags{noPrompt: true, updatePath: true}
	if err := runInstall(context.Background(), []string{"chromium"}, flags, installTemp(t), env.Environment); err != nil {
		t.Fatalf("runInstall() error = %v", err)
	}

	target, err := os.Readlink(filepath.Join(binDir, "chromium"))
	if err != nil || target != bin {
		t.Errorf("link target = %q, %v, want %q", target, err, bin)
	}
	if !strings.Contains(env.stdout.String(), "already installed") {
		t.Errorf("stdout = %q", env.stdout.String())
	}
}

// ---------------------------------------------------------------------------
// TestRunInstall - Extensions and argument errors
// ---------------------------------------------------------------------------

func TestRunInstall_Extension(t *testing.T) {
	t.Parallel()

	src := filepath.Join(t.TempDir(), "callouts")
	writeFile(t, src, extension.ManifestName, "title: Callouts\nversion: 0.3.0\n")
	writeFile(t, src, "callouts.lua", "-- filter")
	project := t.TempDir()

	env := newTestEnv("y\n")
	flags := &installFlags{project: project}
	if err := runInstall(context.Background(), []string{src}, flags, installTemp(t), env.Environment); err != nil {
		t.Fatalf("runInstall() error = %v", err)
	}

	if _, err := os.Stat(filepath.Join(project, extension.ExtensionsDir, "callouts", "callouts.lua")); err != nil {
		t.Errorf("extension not installed: %v", err)
	}
	out := env.stdout.String()
	if !strings.Contains(out, "Install callouts 0.3.0 into") || !strings.Contains(out, "Installed Callouts -> ") {
		t.Errorf("stdout = %q", out)
	}
}

func TestRunInstall_ExtensionDeclined(t *testing.T) {
	t.Parallel()

	src := filepath.Join(t.TempDir(), "callouts")
	writeFile(t, src, extension.ManifestName, "title: Callouts\n")
	project := t.TempDir()

	env := newTestEnv("n\n")
	if err := runInstall(context.Background(), []string{"extension", src}, &installFlags{project: project}, installTemp(t), env.Environment); err != nil {
		t.Fatalf("runInstall() error = %v", err)
	}
	if !strings.Contains(env.stdout.String(), "Installation canceled.") {
		t.Errorf("stdout = %q", env.stdout.String())
	}
	if _, err := os.Stat(filepath.Join(project, extension.ExtensionsDir)); !os.IsNotExist(err) {
		t.Error("declined install wrote files")
	}
}

func TestRunInstall_Messages(t *testing.T) {
	t.Parallel()

	env := newTestEnv("")
	if err := runInstall(context.Background(), []string{"extension"}, &installFlags{}, installTemp(t), env.Environment); err != nil {
		t.Fatalf("runInstall() error = %v", err)
	}
	if got := env.stdout.String(); got != "Please provide an extension name, url, or path.\n" {
		t.Errorf("stdout = %q", got)
	}

	env = newTestEnv("")
	err := runInstall(context.Background(), []string{"plugin", "x"}, &installFlags{}, installTemp(t), env.Environment)
	if !errors.Is(err, ErrUnknownAction) {
		t.Errorf("error = %v, want ErrUnknownAction", err)
	}
	if got := env.stderr.String(); got != "Unrecognized option 'plugin' - please choose 'tool' or 'extension'.\n" {
		t.Errorf("stderr = %q", got)
	}
}

func TestRunInstallCmd_ExitCodes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		args     []string
		wantCode int
	}{
		{"unknown action", []string{"plugin", "x"}, ExitUsage},
		{"url source", []string{"extension", "https://example.com/ext.zip", "--no-prompt"}, ExitUsage},
		{"bad flag", []string{"--bogus"}, ExitUsage},
		{"help", []string{"--help"}, ExitSuccess},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env := newTestEnv("")
			if code := runInstallCmd(context.Background(), tt.args, env.Environment); code != tt.wantCode {
				t.Errorf("runInstallCmd(%v) = %d, want %d\nstderr: %s", tt.args, code, tt.wantCode, env.stderr.String())
			}
		})
	}
}
