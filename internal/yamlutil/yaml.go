// Package yamlutil decodes the YAML nbpreview reads: project files,
// notebook front matter and extension manifests. Decode errors carry the
// offending line so users can fix their files.
package yamlutil

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/goccy/go-yaml"
)

// MaxInputSize limits YAML input to prevent memory exhaustion (default 1MB).
var MaxInputSize = 1 << 20

var (
	ErrNilData        = errors.New("yamlutil: nil or empty data")
	ErrNilDestination = errors.New("yamlutil: nil destination pointer")
	ErrInputTooLarge  = errors.New("yamlutil: input exceeds maximum size")
	ErrDecode         = errors.New("yamlutil: invalid YAML")
)

// frontMatterDelim opens and closes a front matter block.
var frontMatterDelim = []byte("---")

// Unmarshal decodes data into v, ignoring unknown fields.
func Unmarshal(data []byte, v any) error {
	return decode(data, v)
}

// UnmarshalStrict decodes data into v and rejects unknown fields.
func UnmarshalStrict(data []byte, v any) error {
	return decode(data, v, yaml.Strict())
}

func decode(data []byte, v any, opts ...yaml.DecodeOption) error {
	switch {
	case len(data) == 0:
		return ErrNilData
	case len(data) > MaxInputSize:
		return fmt.Errorf("%w: %d bytes (max %d)", ErrInputTooLarge, len(data), MaxInputSize)
	case v == nil:
		return ErrNilDestination
	}
	if err := yaml.UnmarshalWithOptions(data, v, opts...); err != nil {
		return fmt.Errorf("%w:\n%s", ErrDecode, yaml.FormatError(err, false, true))
	}
	return nil
}

// SplitFrontMatter separates a leading "---" delimited YAML block from the
// rest of a Markdown document. Documents without front matter return a nil
// block and the content unchanged. An unterminated block is treated as body.
func SplitFrontMatter(content []byte) (frontMatter, body []byte) {
	trimmed := bytes.TrimPrefix(content, []byte("\ufeff"))
	if !bytes.HasPrefix(trimmed, frontMatterDelim) {
		return nil, content
	}

	firstLineEnd := bytes.IndexByte(trimmed, '\n')
	if firstLineEnd == -1 || len(bytes.TrimSpace(trimmed[:firstLineEnd])) != len(frontMatterDelim) {
		return nil, content
	}

	rest := trimmed[firstLineEnd+1:]
	offset := 0
	for offset <= len(rest) {
		lineEnd := bytes.IndexByte(rest[offset:], '\n')
		var line []byte
		if lineEnd == -1 {
			line = rest[offset:]
		} else {
			line = rest[offset : offset+lineEnd]
		}

		if bytes.Equal(bytes.TrimRight(line, " \t\r"), frontMatterDelim) {
			frontMatter = rest[:offset]
			if lineEnd == -1 {
				return frontMatter, nil
			}
			return frontMatter, rest[offset+lineEnd+1:]
		}

		if lineEnd == -1 {
			break
		}
		offset += lineEnd + 1
	}

	return nil, content
}
