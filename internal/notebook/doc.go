// Package notebook reads Jupyter notebooks and computational Markdown
// documents into a common cell model and exports that model back to nbformat 4
// JSON.
//
// Notebook JSON is read with gjson and rewritten with sjson so that metadata
// the model does not know about survives an export unchanged. Markdown sources
// (.md, .qmd) become notebooks by splitting the body on executable chunks:
//
//	```{python}
//	#| tags: [remove-output]
//	print("hi")
//	```
//
// Chunk option lines (#|) are YAML and are removed from the cell source.
package notebook
