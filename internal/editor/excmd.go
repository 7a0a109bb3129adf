// Ex-command parsing and execution: riv only implements the subset its
// command-line mode actually exposes (write, quit, write-quit, force
// variants).
package editor

import (
	"os"

	"github.com/rivedit/riv/internal/keymap"
)

// cmdCancelCommandLine discards the in-progress command line and
// returns to Normal mode (Esc from command-line mode).
func cmdCancelCommandLine(e *Editor) Effect {
	e.CommandLine = ""
	return cmdEnterNormalMode(e)
}

// cmdExecuteCommandLine parses the accumulated command line and runs
// it, then clears the buffer and returns to Normal mode regardless of
// outcome (errors are reported via Effect.Status, not by staying in
// command-line mode).
func cmdExecuteCommandLine(e *Editor) Effect {
	line := e.CommandLine
	e.CommandLine = ""
	e.SetMode(keymap.ModeNormal)

	name, bang, arg := parseExCommand(line)
	switch name {
	case "":
		return Effect{}
	case "w", "write":
		return e.exWrite(bang, arg)
	case "q", "quit":
		return e.exQuit(bang)
	case "wq", "x":
		if eff := e.exWrite(bang, arg); eff.IsError {
			return eff
		}
		return e.exQuit(bang)
	default:
		return Effect{Status: "unknown command: " + name, IsError: true}
	}
}

// parseExCommand splits a command line like "w!  path/to/file" into
// its bare name, force ("!") flag and trailing argument.
func parseExCommand(line string) (name string, bang bool, arg string) {
	i := 0
	for i < len(line) && line[i] == ' ' {
		i++
	}
	start := i
	for i < len(line) && line[i] != ' ' && line[i] != '!' {
		i++
	}
	name = line[start:i]
	if i < len(line) && line[i] == '!' {
		bang = true
		i++
	}
	for i < len(line) && line[i] == ' ' {
		i++
	}
	arg = line[i:]
	return
}

// exWrite implements :w[!] [path].
func (e *Editor) exWrite(bang bool, arg string) Effect {
	doc := e.FocusedDocument()
	if doc == nil {
		return Effect{Status: "no document to write", IsError: true}
	}
	path := doc.Path
	if arg != "" {
		path = arg
	}
	if path == "" {
		return Effect{Status: "no file name", IsError: true}
	}
	if _, err := os.Stat(path); err == nil && (IsReadonly(path) || ownerMismatch(path)) {
		if !bang {
			return Effect{Status: "'" + path + "' is read-only; use :w! to override", IsError: true}
		}
		if err := forceWrite(path, []byte(doc.Text().String())); err != nil {
			return Effect{Status: err.Error(), IsError: true}
		}
	} else if err := os.WriteFile(path, []byte(doc.Text().String()), 0o644); err != nil {
		return Effect{Status: err.Error(), IsError: true}
	}
	doc.Path = path
	doc.MarkSaved()
	return Effect{Status: "\"" + path + "\" written"}
}

// exQuit implements :q[!]. The caller (internal/app) is responsible for
// refusing a bare :q against modified documents before this runs, per
// its own confirmation-dialog flow; exQuit itself always honors the
// request once dispatched.
func (e *Editor) exQuit(bang bool) Effect {
	return Effect{Kind: EffectQuit}
}
