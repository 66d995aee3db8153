// Package assets provides the HTML templates and theme styles used to render
// notebook previews.
//
// # Loader Architecture
//
// Assets come in two kinds, Styles and Templates. Every loader reads both:
//
//	EmbeddedLoader    built into the binary
//	FilesystemLoader  a project directory (--asset-path)
//	AssetResolver     the project directory, then the built-in set
//
// # Directory Structure
//
//	{basePath}/
//	├── styles/
//	│   └── {theme}.css          # Preview theme (e.g., default.css)
//	└── templates/
//	    ├── embed.html           # Preview wrapper for the native engine
//	    ├── embed-pandoc.html    # Preview wrapper for the pandoc engine
//	    └── page.html            # Standalone page for the native engine
//
// Embed templates are rendered twice. The previewer fills the [[ ]] actions
// (title, download link) and writes the result to a temp file; the render
// engine then fills its own placeholders ({{ }} for native, $body$ for pandoc).
//
// # Security
//
// Asset names are validated to prevent path traversal attacks.
// FilesystemLoader resolves symlinks and verifies paths stay within basePath.
package assets
