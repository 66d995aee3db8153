package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: nbpreview <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  preview    Render HTML previews of notebooks")
	fmt.Fprintln(w, "  install    Install a tool or an extension")
	fmt.Fprintln(w, "  doctor     Check the rendering environment")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'nbpreview help <command>' for details on a specific command.")
}

// printPreviewUsage prints usage for the preview command.
func printPreviewUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: nbpreview preview <input>... [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Render an HTML preview and a downloadable output notebook for every")
	fmt.Fprintln(w, "notebook linked from the input documents.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  input    Markdown document (.md, .qmd) or notebook (.ipynb)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Rendering:")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path (default: _nbpreview.yml)")
	fmt.Fprintln(w, "      --engine <s>          Engine: native, pandoc")
	fmt.Fprintln(w, "      --theme <s>           Preview theme")
	fmt.Fprintln(w, "      --asset-path <dir>    Custom asset directory")
	fmt.Fprintln(w, "      --no-preview          Link notebooks without rendering")
	fmt.Fprintln(w, "      --book                Book project: no output notebooks")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output:")
	fmt.Fprintln(w, "  -o, --output-dir <dir>    Move rendered files into this directory")
	fmt.Fprintln(w, "      --json                Print previews as JSON")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show engine output and timing")
}

// printInstallUsage prints usage for the install command.
func printInstallUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: nbpreview install [tool|extension] [name] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Install a tool (chromium, pandoc) or an extension from a local")
	fmt.Fprintln(w, "directory or .zip archive. A bare tool name installs that tool;")
	fmt.Fprintln(w, "no arguments offers the missing tools.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "      --no-prompt           Do not ask for confirmation")
	fmt.Fprintln(w, "      --embed <name>        Install inside an existing extension")
	fmt.Fprintln(w, "      --update-path         Link the tool into the user bin directory")
	fmt.Fprintln(w, "  -C, --project <dir>       Project directory for extensions")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) int {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return ExitSuccess
	}

	switch args[0] {
	case "preview":
		printPreviewUsage(env.Stdout)
	case "install":
		printInstallUsage(env.Stdout)
	case "doctor":
		fmt.Fprintln(env.Stdout, "Usage: nbpreview doctor [--json]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Check pandoc, Chromium, the temp directory and the environment.")
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: nbpreview version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: nbpreview help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
		return ExitUsage
	}
	return ExitSuccess
}
