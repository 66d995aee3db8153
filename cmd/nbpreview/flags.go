package main

import (
	"io"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	quiet   bool
	verbose bool
}

// renderFlags holds flags that choose how notebooks are rendered.
type renderFlags struct {
	config    string
	engine    string
	theme     string
	assetPath string
	noPreview bool
	book      bool
}

// outputFlags holds flags controlling what the preview command emits.
type outputFlags struct {
	json      bool
	outputDir string
}

// previewFlags holds all flags for the preview command.
type previewFlags struct {
	common commonFlags
	render renderFlags
	output outputFlags
}

// installFlags holds all flags for the install command.
type installFlags struct {
	common     commonFlags
	noPrompt   bool
	embed      string
	updatePath bool
	project    string
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show engine output and timing")
}

// addRenderFlags adds rendering flags to a FlagSet.
func addRenderFlags(fs *flag.FlagSet, f *renderFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.StringVar(&f.engine, "engine", "", "render engine: native, pandoc")
	fs.StringVar(&f.theme, "theme", "", "preview theme name")
	fs.StringVar(&f.assetPath, "asset-path", "", "custom asset directory")
	fs.BoolVar(&f.noPreview, "no-preview", false, "link notebooks without rendering previews")
	fs.BoolVar(&f.book, "book", false, "treat the project as a book (no output notebooks)")
}

// addOutputFlags adds output flags to a FlagSet.
func addOutputFlags(fs *flag.FlagSet, f *outputFlags) {
	fs.BoolVar(&f.json, "json", false, "print previews as JSON")
	fs.StringVarP(&f.outputDir, "output-dir", "o", "", "move rendered files into this directory")
}

// parsePreviewFlags parses preview command flags and returns positional args.
func parsePreviewFlags(args []string, usage io.Writer) (*previewFlags, []string, error) {
	fs := flag.NewFlagSet("preview", flag.ContinueOnError)
	f := &previewFlags{}

	addCommonFlags(fs, &f.common)
	addRenderFlags(fs, &f.render)
	addOutputFlags(fs, &f.output)

	fs.SetOutput(usage)
	fs.Usage = func() { printPreviewUsage(usage) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// parseInstallFlags parses install command flags and returns positional args.
func parseInstallFlags(args []string, usage io.Writer) (*installFlags, []string, error) {
	fs := flag.NewFlagSet("install", flag.ContinueOnError)
	f := &installFlags{}

	addCommonFlags(fs, &f.common)
	fs.BoolVar(&f.noPrompt, "no-prompt", false, "do not ask for confirmation")
	fs.StringVar(&f.embed, "embed", "", "install inside this extension instead of the project")
	fs.BoolVar(&f.updatePath, "update-path", false, "link the installed tool into the user bin directory")
	fs.StringVarP(&f.project, "project", "C", ".", "project directory for extensions")

	fs.SetOutput(usage)
	fs.Usage = func() { printInstallUsage(usage) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}
