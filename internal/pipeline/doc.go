// Package pipeline implements the HTML building blocks of the native render
// engine.
//
// This package handles the content stages of a notebook page:
//   - Markdown cell conversion via Goldmark (GFM, footnotes, syntax highlighting)
//   - Code cell highlighting via Chroma, with class-based styles
//   - Attachment reference rewriting in rendered Markdown cells
//   - CSS injection into complete HTML documents
//   - Notebook reference discovery in Markdown documents
//
// Page assembly (templates, themes, figure files) is handled by the engine
// package. This separation keeps the pipeline free of filesystem access.
package pipeline
