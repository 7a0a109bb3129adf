// Command riv is the entrypoint for the editor: it parses flags and
// positional file arguments, loads configuration, wires up logging, and
// either services a one-shot flag (--help, --version, --tutor,
// --health, -g) or launches the bubbletea program from internal/app.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	flags "github.com/jessevdk/go-flags"
	"github.com/pkg/errors"
	"github.com/pterm/pterm"
	"golang.org/x/term"

	"github.com/rivedit/riv/internal/app"
	"github.com/rivedit/riv/internal/cliargs"
	"github.com/rivedit/riv/internal/config"
)

// version is overridden at build time via -ldflags "-X main.version=...".
var version = ""

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(argv []string) int {
	parsed, err := cliargs.Parse(argv)
	if err != nil {
		if flagErr, ok := err.(*flags.Error); ok && flagErr.Type == flags.ErrHelp {
			return 0
		}
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	opts := parsed.Options

	if opts.Help {
		fmt.Println("riv: a modal, terminal-hosted code editor")
		fmt.Println("Usage: riv [options] [+LINE[:COL]] [FILE[:LINE[:COL]]]...")
		return 0
	}
	if opts.Version {
		fmt.Println("riv", effectiveVersion())
		return 0
	}
	if opts.Tutor {
		runTutor()
		return 0
	}
	if opts.Grammar != "" {
		return runGrammar(opts.Grammar)
	}

	workspaceRoot, err := os.Getwd()
	if err != nil {
		fmt.Fprintln(os.Stderr, errors.Wrap(err, "riv: resolve working directory"))
		return 1
	}

	cfg, cfgErr := loadConfig(opts.Config, workspaceRoot)
	if cfgErr != nil {
		fmt.Fprintln(os.Stderr, errors.Wrap(cfgErr, "riv: load config"))
		return 1
	}

	logger, closeLog := setupLogging(opts.Log, parsed.Verbosity())
	if closeLog != nil {
		defer closeLog()
	}
	slog.SetDefault(logger)

	if opts.Health != "" {
		return runHealth(cfg, opts.Health)
	}

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Fprintln(os.Stderr, "riv requires an interactive terminal")
		return 1
	}

	model := app.New(cfg, workspaceRoot, parsed.Files, parsed.Split)
	defer model.Close()
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseAllMotion())
	if _, err := p.Run(); err != nil {
		fmt.Fprintln(os.Stderr, errors.Wrap(err, "riv: run"))
		return 1
	}
	return model.ExitCode()
}

// loadConfig resolves the `-c/--config` override (a single file,
// layered over built-in defaults) or the layered repo/user/default
// discovery.
func loadConfig(explicitPath, workspaceRoot string) (*config.Config, error) {
	if explicitPath != "" {
		return config.LoadFrom(explicitPath)
	}
	return config.Load(workspaceRoot)
}

// setupLogging opens the `--log` file (if given) and builds a slog
// logger whose level rises with repeated `-v`. With no log path the
// logger writes to stderr, which only matters for the one-shot flag
// paths; once the TUI takes over the alternate screen nothing else
// writes there.
func setupLogging(path string, verbosity int) (*slog.Logger, func() error) {
	level := slog.LevelWarn
	switch {
	case verbosity >= 2:
		level = slog.LevelDebug
	case verbosity == 1:
		level = slog.LevelInfo
	}

	if path == "" {
		return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})), nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})), nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})), nil
	}
	return slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: level})), f.Close
}

// runTutor prints the runtime tutor file when installed, falling back
// to a short embedded walkthrough. Plain text; markdown rendering is
// left to external viewers.
func runTutor() {
	if data, err := os.ReadFile(filepath.Join(config.RuntimeDir(), "tutor.txt")); err == nil {
		fmt.Print(string(data))
		return
	}
	fmt.Println(`riv tutorial

riv opens in Normal mode. Press 'i' to enter Insert mode and type text,
Esc to return to Normal mode. ':' enters command-line mode; try :w to
save and :q to quit. 'ctrl+grave' toggles the integrated terminal panel.

A full walkthrough ships as the runtime/tutor.txt asset; install the
runtime directory (or set HELIX_RUNTIME) to get it.`)
}

// runGrammar implements `-g fetch|build`. riv's highlighter is
// chroma-backed (internal/highlight) and needs no grammar artifacts, so
// both subcommands are accepted for CLI-surface parity and report that
// there is nothing to fetch or build.
func runGrammar(mode string) int {
	switch mode {
	case "fetch":
		fmt.Println("riv: no external grammars to fetch (syntax highlighting is chroma-backed)")
	case "build":
		fmt.Println("riv: no external grammars to build (syntax highlighting is chroma-backed)")
	default:
		fmt.Fprintf(os.Stderr, "riv: unknown -g mode %q (want fetch|build)\n", mode)
		return 1
	}
	return 0
}

// runHealth implements `--health [lang]`: it reports whether each
// configured language server's command is runnable, rendered as a
// pterm table.
func runHealth(cfg *config.Config, lang string) int {
	pterm.DefaultHeader.Println("riv health check")

	servers := cfg.LanguageServer
	if lang != "all" && lang != "" {
		var filtered []config.LanguageServerConfig
		for _, s := range servers {
			if containsString(s.Languages, lang) {
				filtered = append(filtered, s)
			}
		}
		servers = filtered
		if len(servers) == 0 {
			pterm.Warning.Printf("no language server configured for %q\n", lang)
		}
	}

	rows := [][]string{{"Language Server", "Command", "Languages", "Status"}}
	allOK := true
	for _, s := range servers {
		status := "ok"
		if _, err := exec.LookPath(s.Command); err != nil {
			status = "not found on PATH"
			allOK = false
		}
		rows = append(rows, []string{s.Name, s.Command, joinLanguages(s.Languages), status})
	}
	if len(rows) > 1 {
		_ = pterm.DefaultTable.WithHasHeader().WithData(rows).Render()
	}

	adapterRows := [][]string{{"Debug Adapter", "Command", "Languages", "Status"}}
	for _, a := range cfg.DebugAdapter {
		status := "ok"
		if _, err := exec.LookPath(a.Command); err != nil {
			status = "not found on PATH"
			allOK = false
		}
		adapterRows = append(adapterRows, []string{a.Name, a.Command, joinLanguages(a.Languages), status})
	}
	if len(adapterRows) > 1 {
		_ = pterm.DefaultTable.WithHasHeader().WithData(adapterRows).Render()
	}

	if allOK {
		pterm.Success.Println("all configured servers and adapters are runnable")
		return 0
	}
	return 1
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func joinLanguages(langs []string) string {
	out := ""
	for i, l := range langs {
		if i > 0 {
			out += ","
		}
		out += l
	}
	return out
}

// effectiveVersion prefers a build-time ldflags value, then module
// build info, then the VCS revision.
func effectiveVersion() string {
	if version != "" {
		return version
	}
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "devel"
	}
	if info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	var revision string
	var dirty bool
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			revision = s.Value
		case "vcs.modified":
			dirty = s.Value == "true"
		}
	}
	if revision == "" {
		return "devel"
	}
	v := "devel+" + revision
	if len(v) > 20 {
		v = v[:20]
	}
	if dirty {
		v += "+dirty"
	}
	return v
}
