package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	flag "github.com/spf13/pflag"

	nbpreview "github.com/alnah/go-nbpreview"
	"github.com/alnah/go-nbpreview/internal/config"
	"github.com/alnah/go-nbpreview/internal/notebook"
	"github.com/alnah/go-nbpreview/internal/pipeline"
)

// Sentinel errors for the preview command.
var (
	ErrNoInput          = errors.New("no input specified")
	ErrUnsupportedInput = errors.New("unsupported input")
	ErrReadDocument     = errors.New("failed to read document")
	ErrNoNotebooks      = errors.New("no notebooks referenced")
	ErrOutputDir        = errors.New("failed to move rendered files")
)

// File permission constants.
const (
	dirPermissions  = 0o750 // rwxr-x---: owner full, group read+execute
	filePermissions = 0o644 // rw-r--r--: owner read+write, others read
)

// previewEntry is one line of the preview table.
type previewEntry struct {
	Notebook string `json:"notebook"`
	nbpreview.Preview
}

// runPreviewCmd executes the preview command and returns an exit code.
func runPreviewCmd(ctx context.Context, args []string, env *Environment) int {
	flags, inputs, err := parsePreviewFlags(args, env.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ExitSuccess
		}
		fmt.Fprintln(env.Stderr, err)
		return ExitUsage
	}

	if err := runPreview(ctx, inputs, flags, env); err != nil {
		return reportError(env.Stderr, err)
	}
	return ExitSuccess
}

// runPreview orchestrates the preview process.
func runPreview(ctx context.Context, inputs []string, flags *previewFlags, env *Environment) error {
	if len(inputs) == 0 {
		return ErrNoInput
	}

	envCfg := loadEnvConfig()
	warnUnknownEnvVars(env.Stderr)

	cfg, err := loadPreviewConfig(flags.render.config, envCfg)
	if err != nil {
		return err
	}
	applyEnvConfig(envCfg, cfg)
	mergePreviewFlags(flags, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	requests, order, err := collectRequests(inputs)
	if err != nil {
		return err
	}

	previewer, err := newPreviewer(cfg, flags, envCfg, env)
	if err != nil {
		return err
	}
	defer func() { _ = previewer.Close() }()

	for _, req := range requests {
		previewer.Enqueue(req)
	}

	start := env.now()
	previews, err := previewer.RenderPreviews(ctx)
	if err != nil {
		return err
	}

	if cfg.Project.OutputDir != "" && !cfg.NotebookView.Disabled {
		root, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("%w: %v", ErrOutputDir, err)
		}
		if err := relocate(previews, root, cfg.Project.OutputDir); err != nil {
			return err
		}
	}

	entries := make([]previewEntry, 0, len(order))
	for _, nb := range order {
		entries = append(entries, previewEntry{Notebook: nb, Preview: previews[nb]})
	}

	if flags.output.json {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}
	printPreviews(env.Stdout, entries, flags.common)
	if flags.common.verbose {
		fmt.Fprintf(env.Stderr, "Rendered %d notebook(s) in %v\n", len(entries), env.now().Sub(start).Round(time.Millisecond))
	}
	return nil
}

// loadPreviewConfig loads --config, then NBPREVIEW_CONFIG, then the project
// file in the working directory, then the defaults.
func loadPreviewConfig(flagConfig string, envCfg *envConfig) (*config.Config, error) {
	name := flagConfig
	if name == "" {
		name = envCfg.ConfigPath
	}
	if name == "" {
		cfg, err := config.LoadProjectConfig(".")
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
		return cfg, nil
	}

	cfg, err := config.LoadConfig(name)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// mergePreviewFlags applies explicitly set flags over cfg (CLI wins).
func mergePreviewFlags(flags *previewFlags, cfg *config.Config) {
	if flags.render.engine != "" {
		cfg.Format.Engine = flags.render.engine
	}
	if flags.render.theme != "" {
		cfg.Format.Theme = flags.render.theme
	}
	if flags.render.assetPath != "" {
		cfg.Assets.BasePath = flags.render.assetPath
	}
	if flags.render.noPreview {
		cfg.NotebookView.Disabled = true
	}
	if flags.render.book {
		cfg.Project.Type = config.ProjectTypeBook
	}
	if flags.output.outputDir != "" {
		cfg.Project.OutputDir = flags.output.outputDir
	}
}

// collectRequests turns inputs into preview requests. Notebooks preview
// themselves; documents request every notebook they link to or embed.
// The returned order lists each notebook once, as first requested.
func collectRequests(inputs []string) ([]nbpreview.Request, []string, error) {
	var (
		requests []nbpreview.Request
		order    []string
		seen     = make(map[string]bool)
	)
	add := func(req nbpreview.Request) {
		requests = append(requests, req)
		if !seen[req.Notebook] {
			seen[req.Notebook] = true
			order = append(order, req.Notebook)
		}
	}

	for _, input := range inputs {
		switch {
		case notebook.IsNotebookPath(input):
			add(nbpreview.Request{Input: input, Notebook: notebookKey(input)})

		case notebook.IsMarkdownPath(input):
			source, err := os.ReadFile(input) // #nosec G304 -- input is user-provided
			if err != nil {
				return nil, nil, fmt.Errorf("%w: %w", ErrReadDocument, err)
			}
			dir := filepath.Dir(input)
			for _, ref := range pipeline.FindNotebookRefs(source) {
				add(nbpreview.Request{
					Input:    input,
					Notebook: notebookKey(filepath.Join(dir, filepath.FromSlash(ref.Path))),
					Title:    ref.Title,
				})
			}

		default:
			return nil, nil, fmt.Errorf("%w: %s (expected .md, .qmd or .ipynb)", ErrUnsupportedInput, input)
		}
	}

	if len(requests) == 0 {
		return nil, nil, fmt.Errorf("%w in %s", ErrNoNotebooks, strings.Join(inputs, ", "))
	}
	return requests, order, nil
}

// notebookKey normalizes a notebook path so that requests and descriptors
// for the same file agree: relative to the working directory when the file
// is inside it, absolute otherwise.
func notebookKey(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	wd, err := os.Getwd()
	if err != nil {
		return abs
	}
	rel, err := filepath.Rel(wd, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return abs
	}
	return rel
}

// newPreviewer builds the previewer for cfg.
func newPreviewer(cfg *config.Config, flags *previewFlags, envCfg *envConfig, env *Environment) (*nbpreview.Previewer, error) {
	loader, err := nbpreview.NewAssetLoader(cfg.Assets.BasePath)
	if err != nil {
		return nil, err
	}
	if cfg.Format.Theme != "" {
		if _, err := loader.LoadStyle(cfg.Format.Theme); err != nil {
			return nil, fmt.Errorf("theme %q: %w", cfg.Format.Theme, err)
		}
	}

	var eng nbpreview.Engine
	switch strings.ToLower(cfg.Format.Engine) {
	case config.EnginePandoc:
		eng = nbpreview.NewPandocEngine(envCfg.Pandoc, loader)
	default:
		eng = nbpreview.NewNativeEngine(loader)
	}

	var progress nbpreview.ProgressLogger = nbpreview.WriterProgress{W: env.Stderr}
	if flags.common.quiet {
		progress = nbpreview.DiscardProgress{}
	}

	descriptors := make([]nbpreview.Descriptor, 0, len(cfg.NotebookView.Notebooks))
	for _, d := range cfg.NotebookView.Notebooks {
		descriptors = append(descriptors, nbpreview.Descriptor{
			Notebook:    notebookKey(d.Notebook),
			Title:       d.Title,
			URL:         d.URL,
			DownloadURL: d.DownloadURL,
		})
	}

	return nbpreview.NewPreviewer(
		nbpreview.WithEngine(eng),
		nbpreview.WithAssetLoader(loader),
		nbpreview.WithTheme(cfg.Format.Theme),
		nbpreview.WithPreviews(!cfg.NotebookView.Disabled),
		nbpreview.WithProject(cfg.Project),
		nbpreview.WithProgress(progress),
		nbpreview.WithQuiet(!flags.common.verbose),
		nbpreview.WithDescriptors(descriptors...),
	)
}

// printPreviews writes the preview table.
func printPreviews(w io.Writer, entries []previewEntry, flags commonFlags) {
	if flags.quiet {
		return
	}
	fmt.Fprintln(w)
	for _, e := range entries {
		fmt.Fprintf(w, "%s -> %s\n", e.Notebook, e.Href)
		if !flags.verbose {
			continue
		}
		fmt.Fprintf(w, "  title: %s\n", e.Title)
		for _, s := range e.Supporting {
			fmt.Fprintf(w, "  file:  %s\n", s)
		}
	}
	if len(entries) > 1 {
		fmt.Fprintf(w, "\n%d notebook previews\n", len(entries))
	}
}

// relocate moves every supporting file or directory into outDir, keeping its
// path relative to root, and updates the previews to the new locations.
func relocate(previews map[string]nbpreview.Preview, root, outDir string) error {
	if !filepath.IsAbs(outDir) {
		outDir = filepath.Join(root, outDir)
	}
	for nb, preview := range previews {
		moved := make([]string, 0, len(preview.Supporting))
		for _, src := range preview.Supporting {
			rel, ok := within(root, src)
			if !ok {
				return fmt.Errorf("%w: %s is outside %s", ErrOutputDir, src, root)
			}
			dst := filepath.Join(outDir, rel)
			if err := movePath(src, dst); err != nil {
				return fmt.Errorf("%w: %v", ErrOutputDir, err)
			}
			moved = append(moved, dst)
		}
		preview.Supporting = moved
		previews[nb] = preview
	}
	return nil
}

// within returns path relative to base when path is base or below it.
func within(base, path string) (string, bool) {
	rel, err := filepath.Rel(base, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return rel, true
}

// movePath moves the file or directory at src to dst, replacing what dst held
// from an earlier run. It copies when a rename is not possible.
func movePath(src, dst string) error {
	if src == dst {
		return nil
	}
	if _, ok := within(dst, src); ok {
		return fmt.Errorf("cannot move %s into itself at %s", src, dst)
	}
	if err := os.RemoveAll(dst); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dst), dirPermissions); err != nil {
		return err
	}
	if err := os.Rename(src, dst); err == nil {
		return nil
	}

	if err := copyTree(src, dst); err != nil {
		return err
	}
	return os.RemoveAll(src)
}

// copyTree copies the file or directory at src to dst. Entries other than
// directories and regular files are skipped.
func copyTree(src, dst string) error {
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		switch {
		case d.IsDir():
			return os.MkdirAll(target, dirPermissions)
		case d.Type().IsRegular():
			return copyFile(path, target)
		}
		return nil
	})
}

func copyFile(src, dst string) error {
	in, err := os.Open(src) // #nosec G304 -- src was produced by the engine
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, filePermissions) // #nosec G302 G304 -- previews are meant to be readable
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
