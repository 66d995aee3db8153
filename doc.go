// Package nbpreview renders previews of the notebooks referenced by a set of
// documents.
//
// # Quick Start
//
// Create a previewer, queue one request per notebook reference, then render
// the batch once:
//
//	tmp := nbpreview.NewTempContext()
//	defer tmp.Cleanup()
//
//	p, err := nbpreview.NewPreviewer(nbpreview.WithTempContext(tmp))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	p.Enqueue(nbpreview.Request{
//	    Input:    "docs/index.qmd",
//	    Notebook: "docs/analysis.ipynb",
//	    Callback: func(pv nbpreview.Preview) { fmt.Println(pv.Href) },
//	})
//
//	previews, err := p.RenderPreviews(ctx)
//
// Requests for the same notebook are rendered once. Every request's callback
// receives the shared result, and the returned map is keyed by notebook path.
//
// # Rendering
//
// For each distinct notebook the previewer:
//
//  1. Exports a downloadable copy (<stem>.out.ipynb) with hidden cells removed,
//     unless a download URL is registered or the project is a book.
//  2. Renders an HTML preview (<name>.html) through the embed template, which
//     carries the title and a download link, unless an external URL is
//     registered for the notebook.
//
// Rendering is delegated to an Engine. The default engine is pure Go; the
// pandoc engine shells out to an installed pandoc:
//
//	p, err := nbpreview.NewPreviewer(
//	    nbpreview.WithEngine(nbpreview.NewPandocEngine("pandoc", nil)),
//	)
//
// # Descriptors
//
// Per-notebook overrides are registered as descriptors. Later registrations
// for the same notebook override the fields they set:
//
//	p.RegisterDescriptor(nbpreview.Descriptor{
//	    Notebook: "docs/analysis.ipynb",
//	    Title:    "Analysis",
//	})
//
// # Disabled Previews
//
// WithPreviews(false) skips every render and links documents straight to the
// notebook files.
package nbpreview
