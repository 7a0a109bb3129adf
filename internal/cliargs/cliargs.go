// Package cliargs implements riv's command-line surface: the
// named-flag portion is declared as a go-flags struct (one struct, one
// flags.NewParser, errors surfaced before any TUI state exists); the
// positional file-argument grammar (`+ROW[:COL]` before a file, or a
// trailing `:ROW[:COL]` on the file itself, never both) is not
// something go-flags models, so it is hand-rolled on top of the
// leftover positional slice go-flags.Parser.Parse returns.
package cliargs

import (
	"fmt"
	"regexp"
	"strconv"

	flags "github.com/jessevdk/go-flags"
	"github.com/rivedit/riv/internal/app"
)

// Options holds every named flag riv's CLI accepts.
type Options struct {
	Help    bool     `short:"h" long:"help" description:"print help and exit"`
	Version bool     `short:"V" long:"version" description:"print version and exit"`
	Tutor   bool     `long:"tutor" description:"open the embedded tutorial"`
	Health  string   `long:"health" optional:"yes" optional-value:"all" description:"check for potential configuration/runtime problems, optionally for one language"`
	Grammar string   `short:"g" long:"grammar" choice:"fetch" choice:"build" description:"fetch or build the tree-sitter grammars named in the config"`
	VSplit  bool     `long:"vsplit" description:"open all given files in vertical splits"`
	HSplit  bool     `long:"hsplit" description:"open all given files in horizontal splits"`
	Config  string   `short:"c" long:"config" value-name:"PATH" description:"load configuration from PATH instead of the layered discovery"`
	Log     string   `long:"log" value-name:"PATH" description:"write the session log to PATH"`
	Verbose []bool   `short:"v" description:"increase log verbosity (repeatable: warn -> info -> debug)"`
}

// Parsed is the fully resolved result of parsing argv: flags plus the
// positional file arguments, each with its resolved cursor position.
type Parsed struct {
	Options Options
	Files   []app.FileArg
	Split   app.SplitLayout
}

// Parse parses argv (as passed to the process, excluding argv[0]).
func Parse(argv []string) (*Parsed, error) {
	opts := Options{}
	parser := flags.NewParser(&opts, flags.PassDoubleDash)
	parser.Usage = "[options] [+LINE[:COL]] [FILE[:LINE[:COL]]]..."

	rest, err := parser.ParseArgs(argv)
	if err != nil {
		return nil, err
	}

	if opts.VSplit && opts.HSplit {
		return nil, fmt.Errorf("riv: --vsplit and --hsplit are mutually exclusive")
	}

	files, err := parsePositional(rest)
	if err != nil {
		return nil, err
	}

	split := app.SplitNone
	switch {
	case opts.VSplit:
		split = app.SplitVertical
	case opts.HSplit:
		split = app.SplitHorizontal
	}

	return &Parsed{Options: opts, Files: files, Split: split}, nil
}

// Verbosity maps the repeated -v flag to a 0 (warn), 1 (info), 2+
// (debug) level; -v is repeatable and increases verbosity.
func (p *Parsed) Verbosity() int {
	return len(p.Options.Verbose)
}

// prefixPositionRE matches a standalone "+LINE[:COL]" or bare "+:"
// token that applies to the next file argument.
var prefixPositionRE = regexp.MustCompile(`^\+(\d*)(?::(\d*))?$`)

// postfixPositionRE matches a trailing ":LINE[:COL]" or bare ":" on a
// file argument itself.
var postfixPositionRE = regexp.MustCompile(`:(\d*)(?::(\d*))?$`)

// parsePositional walks the leftover (non-flag) tokens applying the
// prefix/postfix position grammar.
func parsePositional(tokens []string) ([]app.FileArg, error) {
	var out []app.FileArg
	var pending *app.FileArg // a "+LINE[:COL]" seen with no file yet

	for _, tok := range tokens {
		if m := prefixPositionRE.FindStringSubmatch(tok); m != nil {
			if pending != nil {
				return nil, fmt.Errorf("riv: position %q given with no file to place it on", tok)
			}
			f := positionFromMatch(m[1], m[2])
			pending = &f
			continue
		}

		path := tok
		var fa app.FileArg
		hasPostfix := false
		if loc := postfixPositionRE.FindStringSubmatchIndex(tok); loc != nil {
			hasPostfix = true
			path = tok[:loc[0]]
			rowStr, colStr := submatch(tok, loc, 1), submatch(tok, loc, 2)
			fa = positionFromMatch(rowStr, colStr)
		}
		fa.Path = path

		switch {
		case pending != nil && hasPostfix:
			return nil, fmt.Errorf("riv: %q carries both a +position and a trailing :position", tok)
		case pending != nil:
			fa.Row, fa.Col, fa.HasPos = pending.Row, pending.Col, true
			pending = nil
		case hasPostfix:
			fa.HasPos = true
		}
		out = append(out, fa)
	}
	if pending != nil {
		return nil, fmt.Errorf("riv: trailing position with no file argument")
	}
	return out, nil
}

// positionFromMatch converts 1-indexed row/col capture strings (empty
// row means "no line given", i.e. the bare `+:`/`:` EOF marker) into
// riv's 0-indexed FileArg.
func positionFromMatch(rowStr, colStr string) app.FileArg {
	fa := app.FileArg{HasPos: true, Row: -1, Col: 0}
	if rowStr != "" {
		n, _ := strconv.Atoi(rowStr)
		if n > 0 {
			fa.Row = n - 1
		}
	}
	if colStr != "" {
		n, _ := strconv.Atoi(colStr)
		if n > 0 {
			fa.Col = n - 1
		}
	}
	return fa
}

// submatch extracts regexp group i (1-indexed) from FindSubmatchIndex
// output loc against s, returning "" if the group did not participate.
func submatch(s string, loc []int, i int) string {
	start, end := loc[2*i], loc[2*i+1]
	if start < 0 || end < 0 {
		return ""
	}
	return s[start:end]
}
