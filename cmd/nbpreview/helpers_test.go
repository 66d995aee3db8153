package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alnah/go-nbpreview/internal/selector"
	"github.com/alnah/go-nbpreview/internal/tools"
)

// ---------------------------------------------------------------------------
// Test Infrastructure - environment, tools and fixtures
// ---------------------------------------------------------------------------

// testEnv bundles an Environment with its captured output.
type testEnv struct {
	*Environment
	stdout *bytes.Buffer
	stderr *bytes.Buffer
}

// newTestEnv returns an environment with captured output, stdin reading
// input, and the given tools.
func newTestEnv(input string, ts ...tools.Tool) *testEnv {
	var stdout, stderr bytes.Buffer
	env := &Environment{
		Now:    func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) },
		Stdout: &stdout,
		Stderr: &stderr,
		Stdin:  strings.NewReader(input),
		Tools:  tools.NewRegistry(ts...),
		Select: func([]selector.Item, string, io.Reader, io.Writer) (string, error) {
			return "", selector.ErrCanceled
		},
	}
	return &testEnv{Environment: env, stdout: &stdout, stderr: &stderr}
}

// fakeTool is a Tool recording Install calls.
type fakeTool struct {
	name      string
	installed bool
	bin       string
	installs  int
	err       error
}

func (f *fakeTool) Name() string        { return f.name }
func (f *fakeTool) Description() string { return f.name + " for tests" }
func (f *fakeTool) Installed() bool     { return f.installed }

func (f *fakeTool) BinPath() string {
	if !f.installed {
		return ""
	}
	return f.bin
}

func (f *fakeTool) Install(context.Context) (string, error) {
	f.installs++
	if f.err != nil {
		return "", f.err
	}
	f.installed = true
	return f.bin, nil
}

const testNotebook = `{
 "nbformat": 4,
 "nbformat_minor": 5,
 "metadata": {"kernelspec": {"name": "python3", "language": "python"}},
 "cells": [
  {"cell_type": "markdown", "metadata": {}, "source": ["# Model\n", "Fit and plot."]},
  {"cell_type": "code", "metadata": {}, "execution_count": 1, "source": ["print(6 * 7)"],
   "outputs": [{"output_type": "stream", "name": "stdout", "text": ["42\n"]}]}
 ]
}`

// writeFile writes content to dir/rel, creating parents, and returns the path.
func writeFile(t *testing.T, dir, rel, content string) string {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}
