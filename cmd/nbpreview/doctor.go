package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/go-rod/rod/lib/launcher"

	"github.com/alnah/go-nbpreview/internal/hints"
	"github.com/alnah/go-nbpreview/internal/tools"
)

// doctorResult holds all diagnostic information.
type doctorResult struct {
	Status   string     `json:"status"` // "ready", "warnings", "errors"
	Pandoc   toolInfo   `json:"pandoc"`
	Chromium chromeInfo `json:"chromium"`
	Env      envInfo    `json:"environment"`
	System   systemInfo `json:"system"`
	Warnings []string   `json:"warnings,omitempty"`
	Errors   []string   `json:"errors,omitempty"`
}

// toolInfo holds detection results for an external program.
type toolInfo struct {
	Found   bool   `json:"found"`
	Path    string `json:"path,omitempty"`
	Version string `json:"version,omitempty"`
}

// chromeInfo holds Chrome/Chromium detection results.
type chromeInfo struct {
	toolInfo
	Managed bool `json:"managed"`
	Sandbox bool `json:"sandbox"`
}

// envInfo holds environment detection results.
type envInfo struct {
	OS            string `json:"os"`
	Arch          string `json:"arch"`
	Container     bool   `json:"container"`
	ContainerHint string `json:"container_hint,omitempty"`
	CI            bool   `json:"ci"`
	NoSandbox     string `json:"rod_no_sandbox"`
	BrowserBin    string `json:"rod_browser_bin"`
}

// systemInfo holds system check results.
type systemInfo struct {
	TempWritable bool   `json:"temp_writable"`
	BinDir       string `json:"bin_dir,omitempty"`
	BinDirOnPath bool   `json:"bin_dir_on_path"`
}

// runDoctorCmd executes the doctor command and returns an exit code.
// Exit codes: 0 = OK (including warnings), 1 = errors found.
func runDoctorCmd(args []string, env *Environment) int {
	jsonOutput := false
	for _, arg := range args {
		if arg == "--json" {
			jsonOutput = true
		}
	}

	result := runDoctor(env.registry())

	if jsonOutput {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
	} else {
		printDoctorResult(env.Stdout, result)
	}

	if result.Status == "errors" {
		return ExitGeneral
	}
	return ExitSuccess
}

// runDoctor performs all diagnostic checks.
func runDoctor(registry tools.Registry) *doctorResult {
	result := &doctorResult{
		Status: "ready",
		Env: envInfo{
			OS:         runtime.GOOS,
			Arch:       runtime.GOARCH,
			NoSandbox:  os.Getenv("ROD_NO_SANDBOX"),
			BrowserBin: os.Getenv("ROD_BROWSER_BIN"),
		},
	}

	checkPandoc(result, registry)
	checkChromium(result, registry)
	checkEnvironment(result)
	checkSystem(result)

	if len(result.Errors) > 0 {
		result.Status = "errors"
	} else if len(result.Warnings) > 0 {
		result.Status = "warnings"
	}

	return result
}

// checkPandoc detects the pandoc binary. The native engine does not need it,
// so a missing pandoc is a warning.
func checkPandoc(result *doctorResult, registry tools.Registry) {
	tool, err := registry.Lookup("pandoc")
	if err != nil || !tool.Installed() {
		result.Warnings = append(result.Warnings,
			"pandoc not found: --engine pandoc is unavailable"+hints.ForPandocNotFound())
		return
	}

	result.Pandoc.Found = true
	result.Pandoc.Path = tool.BinPath()
	result.Pandoc.Version = programVersion(result.Pandoc.Path)
}

// checkChromium detects a system Chrome, then the managed Chromium.
func checkChromium(result *doctorResult, registry tools.Registry) {
	chromePath := result.Env.BrowserBin
	if chromePath == "" {
		chromePath, _ = launcher.LookPath()
	}
	if chromePath == "" {
		if tool, err := registry.Lookup("chromium"); err == nil && tool.Installed() {
			chromePath = tool.BinPath()
			result.Chromium.Managed = true
		}
	}

	if chromePath == "" {
		result.Warnings = append(result.Warnings,
			"Chrome/Chromium not found. Run 'nbpreview install chromium' or set ROD_BROWSER_BIN")
		return
	}
	if _, err := os.Stat(chromePath); err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Chrome not found at %s", chromePath))
		return
	}

	result.Chromium.Found = true
	result.Chromium.Path = chromePath
	result.Chromium.Version = programVersion(chromePath)
	result.Chromium.Sandbox = result.Env.NoSandbox != "1"
}

// programVersion returns the first line of `<bin> --version`, or "".
func programVersion(bin string) string {
	out, err := exec.Command(bin, "--version").Output() // #nosec G204 -- bin is a located executable
	if err != nil {
		return ""
	}
	line, _, _ := strings.Cut(strings.TrimSpace(string(out)), "\n")
	return line
}

// checkEnvironment detects container and CI environments.
func checkEnvironment(result *doctorResult) {
	result.Env.Container, result.Env.ContainerHint = isContainer()
	result.Env.CI = hints.InCI()

	if result.Chromium.Found && (result.Env.Container || result.Env.CI) && result.Env.NoSandbox != "1" {
		result.Warnings = append(result.Warnings,
			"Container/CI detected but ROD_NO_SANDBOX not set. Set ROD_NO_SANDBOX=1")
	}
}

// isContainer detects if running in a container environment.
// Returns (isContainer, hint) where hint indicates which signal was detected.
func isContainer() (bool, string) {
	if os.Getenv("NBPREVIEW_CONTAINER") == "1" {
		return true, "NBPREVIEW_CONTAINER=1"
	}
	if hints.IsInContainer() {
		return true, "/.dockerenv"
	}
	if v := os.Getenv("container"); v != "" {
		return true, "container=" + v
	}
	if os.Getenv("KUBERNETES_SERVICE_HOST") != "" {
		return true, "KUBERNETES_SERVICE_HOST"
	}
	return false, ""
}

// checkSystem verifies the temp directory and the user bin directory.
func checkSystem(result *doctorResult) {
	tmpDir := os.TempDir()
	testFile := filepath.Join(tmpDir, "nbpreview-doctor-test")
	if err := os.WriteFile(testFile, []byte("test"), 0o600); err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Temp directory not writable: %s", tmpDir))
	} else {
		_ = os.Remove(testFile)
		result.System.TempWritable = true
	}

	binDir, err := tools.UserBinDir()
	if err != nil {
		return
	}
	result.System.BinDir = binDir
	for _, dir := range filepath.SplitList(os.Getenv("PATH")) {
		if filepath.Clean(dir) == filepath.Clean(binDir) {
			result.System.BinDirOnPath = true
			return
		}
	}
}

// printDoctorResult outputs human-readable diagnostic results.
func printDoctorResult(w io.Writer, r *doctorResult) {
	fmt.Fprintln(w, "nbpreview doctor")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Pandoc")
	printToolInfo(w, r.Pandoc, "[WARN] Not found (native engine only)")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Chrome/Chromium")
	printToolInfo(w, r.Chromium.toolInfo, "[WARN] Not found")
	if r.Chromium.Found {
		if r.Chromium.Managed {
			fmt.Fprintln(w, "  [OK] Managed by nbpreview install")
		}
		if r.Chromium.Sandbox {
			fmt.Fprintln(w, "  [OK] Sandbox: enabled")
		} else {
			fmt.Fprintln(w, "  [OK] Sandbox: disabled (ROD_NO_SANDBOX=1)")
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Environment")
	fmt.Fprintf(w, "  [OK] Platform: %s/%s\n", r.Env.OS, r.Env.Arch)
	if r.Env.Container {
		fmt.Fprintf(w, "  [OK] Container: detected (%s)\n", r.Env.ContainerHint)
	}
	if r.Env.CI {
		fmt.Fprintln(w, "  [OK] CI: detected")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "System")
	if r.System.TempWritable {
		fmt.Fprintln(w, "  [OK] Temp directory: writable")
	} else {
		fmt.Fprintln(w, "  [ERROR] Temp directory: not writable")
	}
	if r.System.BinDir != "" {
		if r.System.BinDirOnPath {
			fmt.Fprintf(w, "  [OK] Bin directory on PATH: %s\n", r.System.BinDir)
		} else {
			fmt.Fprintf(w, "  [WARN] Bin directory not on PATH: %s (needed by --update-path)\n", r.System.BinDir)
		}
	}
	fmt.Fprintln(w)

	if len(r.Warnings) > 0 {
		fmt.Fprintln(w, "Warnings:")
		for _, warn := range r.Warnings {
			fmt.Fprintf(w, "  [WARN] %s\n", warn)
		}
		fmt.Fprintln(w)
	}

	if len(r.Errors) > 0 {
		fmt.Fprintln(w, "Errors:")
		for _, err := range r.Errors {
			fmt.Fprintf(w, "  [ERROR] %s\n", err)
		}
		fmt.Fprintln(w)
	}

	switch r.Status {
	case "ready":
		fmt.Fprintln(w, "Status: Ready to preview")
	case "warnings":
		fmt.Fprintln(w, "Status: Ready with warnings")
	case "errors":
		fmt.Fprintln(w, "Status: Not ready (see errors above)")
	}
}

func printToolInfo(w io.Writer, info toolInfo, missing string) {
	if !info.Found {
		fmt.Fprintf(w, "  %s\n", missing)
		return
	}
	fmt.Fprintf(w, "  [OK] Found at %s\n", info.Path)
	if info.Version != "" {
		fmt.Fprintf(w, "  [OK] Version: %s\n", info.Version)
	}
}
