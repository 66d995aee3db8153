package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/alnah/go-nbpreview/internal/extension"
	"github.com/alnah/go-nbpreview/internal/fileutil"
	"github.com/alnah/go-nbpreview/internal/selector"
	"github.com/alnah/go-nbpreview/internal/tools"
)

// ErrUnknownAction is returned for install actions other than tool and
// extension. The user-facing message is printed by runInstall.
var ErrUnknownAction = errors.New("unrecognized install action")

// Install actions.
const (
	actionTool      = "tool"
	actionExtension = "extension"
)

// runInstallCmd executes the install command and returns an exit code.
// The temp context lives for the whole command.
func runInstallCmd(ctx context.Context, args []string, env *Environment) int {
	flags, targets, err := parseInstallFlags(args, env.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ExitSuccess
		}
		fmt.Fprintln(env.Stderr, err)
		return ExitUsage
	}

	temp := fileutil.NewTempContext()
	defer func() { _ = temp.Cleanup() }()

	if err := runInstall(ctx, targets, flags, temp, env); err != nil {
		if errors.Is(err, ErrUnknownAction) {
			return ExitUsage
		}
		return reportError(env.Stderr, err)
	}
	return ExitSuccess
}

// runInstall dispatches to the tool or extension installer.
func runInstall(ctx context.Context, targets []string, flags *installFlags, temp extension.TempDirs, env *Environment) error {
	action, name := resolveArgs(targets, actionTool, env.registry())

	switch action {
	case actionTool:
		return installTool(ctx, name, flags, env)
	case actionExtension:
		if name == "" {
			fmt.Fprintln(env.Stdout, "Please provide an extension name, url, or path.")
			return nil
		}
		return installExtension(name, flags, temp, env)
	default:
		fmt.Fprintf(env.Stderr, "Unrecognized option '%s' - please choose 'tool' or 'extension'.\n", action)
		return ErrUnknownAction
	}
}

// resolveArgs splits install targets into an action and a name. A single
// argument is an action when it names one, a tool when the registry knows
// it, and an extension source otherwise.
func resolveArgs(args []string, defaultAction string, registry tools.Registry) (action, name string) {
	switch len(args) {
	case 0:
		return defaultAction, ""
	case 1:
		arg := args[0]
		if arg == actionTool || arg == actionExtension {
			return arg, ""
		}
		if _, err := registry.Lookup(arg); err == nil {
			return actionTool, arg
		}
		return actionExtension, arg
	default:
		return args[0], args[1]
	}
}

// installTool installs the named tool, or lets the user pick one of the
// missing tools when name is empty.
func installTool(ctx context.Context, name string, flags *installFlags, env *Environment) error {
	registry := env.registry()

	if name == "" {
		missing := registry.Missing()
		if len(missing) == 0 {
			fmt.Fprintln(env.Stdout, "All tools are already installed.")
			return nil
		}
		items := make([]selector.Item, len(missing))
		for i, t := range missing {
			items[i] = selector.Item{Name: t.Name(), Desc: t.Description()}
		}
		choice, err := env.Select(items, "Select a tool to install", env.Stdin, env.Stdout)
		if errors.Is(err, selector.ErrCanceled) {
			fmt.Fprintln(env.Stdout, "Installation canceled.")
			return nil
		}
		if err != nil {
			return err
		}
		name = choice
	}

	tool, err := registry.Lookup(name)
	if err != nil {
		return err
	}

	path := tool.BinPath()
	if tool.Installed() {
		if !flags.common.quiet {
			fmt.Fprintf(env.Stdout, "%s is already installed at %s\n", tool.Name(), path)
		}
	} else {
		if !flags.noPrompt && !confirm(env, fmt.Sprintf("Install %s?", tool.Description())) {
			fmt.Fprintln(env.Stdout, "Installation canceled.")
			return nil
		}
		if path, err = tool.Install(ctx); err != nil {
			return err
		}
		if !flags.common.quiet {
			fmt.Fprintf(env.Stdout, "Installed %s at %s\n", tool.Name(), path)
		}
	}

	if !flags.updatePath {
		return nil
	}
	binDir, err := tools.UserBinDir()
	if err != nil {
		return err
	}
	link, err := tools.LinkIntoPath(path, binDir, tool.Name())
	if err != nil {
		return err
	}
	if !flags.common.quiet {
		fmt.Fprintf(env.Stdout, "Linked %s\n", link)
	}
	return nil
}

// installExtension installs the extensions found in source.
func installExtension(source string, flags *installFlags, temp extension.TempDirs, env *Environment) error {
	opts := extension.Options{ProjectDir: flags.project, Embed: flags.embed}
	if !flags.noPrompt {
		opts.Confirm = func(question string) bool { return confirm(env, question) }
	}

	exts, err := extension.Install(source, temp, opts)
	if errors.Is(err, extension.ErrInstallCanceled) {
		fmt.Fprintln(env.Stdout, "Installation canceled.")
		return nil
	}
	if err != nil {
		return err
	}

	if flags.common.quiet {
		return nil
	}
	for _, ext := range exts {
		title := ext.Manifest.Title
		if title == "" {
			title = ext.Name
		}
		fmt.Fprintf(env.Stdout, "Installed %s -> %s\n", title, ext.Dir)
	}
	return nil
}

// confirm asks a y/N question on the environment's terminal.
func confirm(env *Environment, question string) bool {
	fmt.Fprintf(env.Stdout, "%s [y/N] ", question)
	if env.Stdin == nil {
		fmt.Fprintln(env.Stdout)
		return false
	}
	answer, err := bufio.NewReader(env.Stdin).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	}
	return false
}
