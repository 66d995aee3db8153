// Package extension installs project extensions: directories carrying an
// _extension.yml manifest, copied into the project's _extensions directory.
package extension

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/alnah/go-nbpreview/internal/fileutil"
	"github.com/alnah/go-nbpreview/internal/yamlutil"
)

// Sentinel errors for extension operations.
var (
	ErrNoManifest        = errors.New("no extension manifest found")
	ErrManifestParse     = errors.New("failed to parse extension manifest")
	ErrUnsupportedSource = errors.New("unsupported extension source")
	ErrInvalidArchive    = errors.New("invalid extension archive")
	ErrEmbedNotFound     = errors.New("extension to embed into not found")
	ErrInstallCanceled   = errors.New("extension installation canceled")
	ErrCopy              = errors.New("failed to copy extension")
)

// Manifest and directory names.
const (
	ManifestName    = "_extension.yml"
	manifestAltName = "_extension.yaml"
	ExtensionsDir   = "_extensions"
)

const (
	dirPermissions  = 0o750
	filePermissions = 0o644
)

// Manifest is the content of _extension.yml.
type Manifest struct {
	Title       string         `yaml:"title"`
	Author      string         `yaml:"author"`
	Version     string         `yaml:"version"`
	Contributes map[string]any `yaml:"contributes"`
}

// Extension is an installed extension.
type Extension struct {
	Name     string
	Dir      string
	Manifest Manifest
}

// TempDirs creates scratch directories for archive extraction.
type TempDirs interface {
	CreateDir() (string, error)
}

// Options controls Install.
type Options struct {
	// ProjectDir holds the _extensions directory. Empty means ".".
	ProjectDir string
	// Embed installs inside the named extension instead of the project.
	Embed string
	// Confirm is asked before anything is written. Nil installs without asking.
	Confirm func(question string) bool
}

// found is an extension located in a source before installation.
type found struct {
	name     string
	dir      string
	manifest Manifest
}

// Install installs every extension found in source, a local directory or
// .zip archive, and returns them ordered by name.
func Install(source string, temp TempDirs, opts Options) ([]Extension, error) {
	if fileutil.IsRemote(source) {
		return nil, fmt.Errorf("%w: %s (download the archive and install it from disk)", ErrUnsupportedSource, source)
	}

	root, fallbackName, err := openSource(source, temp)
	if err != nil {
		return nil, err
	}

	exts, err := findExtensions(root, fallbackName)
	if err != nil {
		return nil, err
	}

	dest, err := destination(opts)
	if err != nil {
		return nil, err
	}

	if opts.Confirm != nil && !opts.Confirm(confirmQuestion(exts, dest)) {
		return nil, ErrInstallCanceled
	}

	installed := make([]Extension, 0, len(exts))
	for _, ext := range exts {
		target := filepath.Join(dest, ext.name)
		if err := os.RemoveAll(target); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCopy, err)
		}
		if err := copyDir(ext.dir, target); err != nil {
			return nil, err
		}
		installed = append(installed, Extension{Name: ext.name, Dir: target, Manifest: ext.manifest})
	}
	return installed, nil
}

// openSource returns the directory to search and the name used when the
// manifest sits at its root.
func openSource(source string, temp TempDirs) (root, name string, err error) {
	info, err := os.Stat(source)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrUnsupportedSource, err)
	}

	if info.IsDir() {
		abs, err := filepath.Abs(source)
		if err != nil {
			return "", "", fmt.Errorf("%w: %v", ErrUnsupportedSource, err)
		}
		return abs, filepath.Base(abs), nil
	}

	if !strings.EqualFold(filepath.Ext(source), ".zip") {
		return "", "", fmt.Errorf("%w: %s (expected a directory or .zip archive)", ErrUnsupportedSource, source)
	}
	dir, err := temp.CreateDir()
	if err != nil {
		return "", "", err
	}
	if err := extractZip(source, dir); err != nil {
		return "", "", err
	}
	_, stem := fileutil.DirAndStem(source)
	return dir, stem, nil
}

// findExtensions returns every directory under root holding a manifest.
func findExtensions(root, rootName string) ([]found, error) {
	var exts []found
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || (d.Name() != ManifestName && d.Name() != manifestAltName) {
			return nil
		}

		manifest, err := readManifest(path)
		if err != nil {
			return err
		}
		dir := filepath.Dir(path)
		name := filepath.Base(dir)
		if dir == root {
			name = rootName
		}
		exts = append(exts, found{name: name, dir: dir, manifest: manifest})
		return filepath.SkipDir
	})
	if err != nil {
		return nil, err
	}
	if len(exts) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoManifest, root)
	}

	sort.Slice(exts, func(i, j int) bool { return exts[i].name < exts[j].name })
	return exts, nil
}

func readManifest(path string) (Manifest, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path found while walking the source
	if err != nil {
		return Manifest{}, fmt.Errorf("%w: %v", ErrManifestParse, err)
	}
	var m Manifest
	if err := yamlutil.Unmarshal(data, &m); err != nil {
		return Manifest{}, fmt.Errorf("%w: %s: %v", ErrManifestParse, path, err)
	}
	return m, nil
}

// destination returns the _extensions directory extensions are copied into.
func destination(opts Options) (string, error) {
	project := opts.ProjectDir
	if project == "" {
		project = "."
	}
	base := filepath.Join(project, ExtensionsDir)
	if opts.Embed == "" {
		return base, nil
	}

	host := filepath.Join(base, opts.Embed)
	if !fileutil.DirExists(host) {
		return "", fmt.Errorf("%w: %s", ErrEmbedNotFound, host)
	}
	return filepath.Join(host, ExtensionsDir), nil
}

func confirmQuestion(exts []found, dest string) string {
	names := make([]string, len(exts))
	for i, e := range exts {
		names[i] = e.name
		if e.manifest.Version != "" {
			names[i] += " " + e.manifest.Version
		}
	}
	return fmt.Sprintf("Install %s into %s?", strings.Join(names, ", "), dest)
}

// copyDir copies the tree at src to dst. Symlinks are skipped.
func copyDir(src, dst string) error {
	err := filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
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
		case d.Type()&fs.ModeSymlink != 0:
			return nil
		default:
			data, err := os.ReadFile(path) // #nosec G304 -- path found while walking the source
			if err != nil {
				return err
			}
			return os.WriteFile(target, data, filePermissions) // #nosec G306 -- extension files are project sources
		}
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCopy, err)
	}
	return nil
}
