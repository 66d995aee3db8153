package extension

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// maxEntrySize caps a single extracted file.
const maxEntrySize = 64 << 20

// extractZip unpacks the archive at src into dst. Entries that would land
// outside dst are rejected.
func extractZip(src, dst string) error {
	r, err := zip.OpenReader(src)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidArchive, err)
	}
	defer func() { _ = r.Close() }()

	root := filepath.Clean(dst) + string(os.PathSeparator)
	for _, f := range r.File {
		target := filepath.Join(dst, f.Name) // #nosec G305 -- checked against root below
		if !strings.HasPrefix(target, root) {
			return fmt.Errorf("%w: entry %q escapes the archive", ErrInvalidArchive, f.Name)
		}

		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, dirPermissions); err != nil {
				return fmt.Errorf("%w: %v", ErrInvalidArchive, err)
			}
			continue
		}
		if err := extractFile(f, target); err != nil {
			return err
		}
	}
	return nil
}

func extractFile(f *zip.File, target string) error {
	if f.UncompressedSize64 > maxEntrySize {
		return fmt.Errorf("%w: entry %q is too large", ErrInvalidArchive, f.Name)
	}
	if err := os.MkdirAll(filepath.Dir(target), dirPermissions); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidArchive, err)
	}

	in, err := f.Open()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidArchive, err)
	}
	defer func() { _ = in.Close() }()

	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, filePermissions) // #nosec G304 -- target checked by extractZip
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidArchive, err)
	}
	n, err := io.CopyN(out, in, maxEntrySize+1)
	if err != nil && !errors.Is(err, io.EOF) {
		_ = out.Close()
		return fmt.Errorf("%w: %v", ErrInvalidArchive, err)
	}
	if n > maxEntrySize {
		_ = out.Close()
		return fmt.Errorf("%w: entry %q is too large", ErrInvalidArchive, f.Name)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidArchive, err)
	}
	return nil
}
