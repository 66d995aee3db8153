package notebook

import (
	"fmt"
	"slices"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"
)

// uiMetadataKeys are cell metadata entries that only carry editor state.
var uiMetadataKeys = []string{"metadata.collapsed", "metadata.scrolled", "metadata.jupyter"}

// exportOptions formats exported notebooks the way Jupyter writes them.
var exportOptions = &pretty.Options{Width: 80, Indent: " ", SortKeys: true}

// Clean returns a copy of nb with hidden content resolved: cells tagged
// remove-cell are dropped, outputs of cells tagged remove-output are cleared,
// the hidden tag and editor-only metadata are stripped.
func Clean(nb *Notebook) (*Notebook, error) {
	out := &Notebook{Title: nb.Title, Language: nb.Language, raw: nb.raw}
	for _, c := range nb.Cells {
		if c.HasTag(TagRemoveCell) {
			continue
		}

		cleaned := c
		cleaned.Tags = slices.DeleteFunc(slices.Clone(c.Tags), func(t string) bool { return t == TagHidden })
		if c.HasTag(TagRemoveOutput) {
			cleaned.Outputs = nil
			cleaned.ExecutionCount = 0
		}

		if c.raw != "" {
			raw, err := cleanRaw(c.raw, cleaned.Tags, c.Type == CellCode && c.HasTag(TagRemoveOutput))
			if err != nil {
				return nil, err
			}
			cleaned.raw = raw
		}
		out.Cells = append(out.Cells, cleaned)
	}
	return out, nil
}

func cleanRaw(raw string, tags []string, clearOutputs bool) (string, error) {
	var err error
	for _, key := range uiMetadataKeys {
		if raw, err = sjson.Delete(raw, key); err != nil {
			return "", fmt.Errorf("%w: %v", ErrNotebookExport, err)
		}
	}

	if gjson.Get(raw, "metadata.tags").Exists() {
		if len(tags) == 0 {
			raw, err = sjson.Delete(raw, "metadata.tags")
		} else {
			raw, err = sjson.Set(raw, "metadata.tags", tags)
		}
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrNotebookExport, err)
		}
	}

	if clearOutputs {
		if raw, err = sjson.SetRaw(raw, "outputs", "[]"); err != nil {
			return "", fmt.Errorf("%w: %v", ErrNotebookExport, err)
		}
		if raw, err = sjson.SetRaw(raw, "execution_count", "null"); err != nil {
			return "", fmt.Errorf("%w: %v", ErrNotebookExport, err)
		}
	}
	return raw, nil
}

// Export writes nb as nbformat 4 JSON. Notebooks read from JSON keep their
// document and cell metadata; Markdown sources get a fresh document.
func Export(nb *Notebook) ([]byte, error) {
	doc := nb.raw
	if doc == nil {
		var err error
		if doc, err = skeleton(nb); err != nil {
			return nil, err
		}
	}

	cells := make([]string, 0, len(nb.Cells))
	for _, c := range nb.Cells {
		raw := c.raw
		if raw == "" {
			var err error
			if raw, err = cellJSON(c); err != nil {
				return nil, err
			}
		}
		cells = append(cells, raw)
	}

	doc, err := sjson.SetRawBytes(doc, "cells", []byte("["+strings.Join(cells, ",")+"]"))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotebookExport, err)
	}
	return pretty.PrettyOptions(doc, exportOptions), nil
}

func skeleton(nb *Notebook) ([]byte, error) {
	doc := []byte(`{"cells":[],"metadata":{},"nbformat":4,"nbformat_minor":5}`)
	var err error
	if doc, err = sjson.SetBytes(doc, "metadata.language_info.name", nb.Language); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotebookExport, err)
	}
	if nb.Title != "" {
		if doc, err = sjson.SetBytes(doc, "metadata.title", nb.Title); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrNotebookExport, err)
		}
	}
	return doc, nil
}

func cellJSON(c Cell) (string, error) {
	raw := `{"metadata":{}}`
	var err error
	set := func(path string, value any) {
		if err == nil {
			raw, err = sjson.Set(raw, path, value)
		}
	}
	setRaw := func(path, value string) {
		if err == nil {
			raw, err = sjson.SetRaw(raw, path, value)
		}
	}

	set("cell_type", c.Type)
	set("source", sourceLines(c.Source))
	if len(c.Tags) > 0 {
		set("metadata.tags", c.Tags)
	}
	if c.Type == CellCode {
		setRaw("execution_count", "null")
		setRaw("outputs", "[]")
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNotebookExport, err)
	}
	return raw, nil
}

// sourceLines splits text into nbformat source lines, each keeping its newline.
func sourceLines(text string) []string {
	if text == "" {
		return []string{}
	}
	return strings.SplitAfter(text, "\n")
}
