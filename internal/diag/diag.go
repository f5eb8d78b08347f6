// Package diag collects the diagnostics produced while scanning, parsing and
// running a program, and maps them to process exit codes.
package diag

import (
	"errors"
	"fmt"
	"io"

	"github.com/sergev/plam/lang"
	"github.com/sergev/plam/parser"
)

// Exit codes follow sysexits(3).
const (
	ExitOK       = 0
	ExitUsage    = 64 // bad command line
	ExitDataErr  = 65 // lexical or syntax errors
	ExitNoInput  = 66 // script file could not be read
	ExitSoftware = 70 // runtime error
	ExitConfig   = 78 // bad settings file
)

// Reporter accumulates error state for one driver. It is not safe for
// concurrent use.
type Reporter struct {
	w               io.Writer
	hadError        bool
	hadRuntimeError bool
}

// NewReporter returns a Reporter writing diagnostics to w.
func NewReporter(w io.Writer) *Reporter {
	return &Reporter{w: w}
}

// ReportError records a lexical error on line.
func (r *Reporter) ReportError(line int, msg string) {
	r.syntaxError(&parser.Error{
		Tok:     parser.Token{Pos: parser.Position{Line: line}},
		Msg:     msg,
		Lexical: true,
	})
}

// ReportErrorAt records a syntax error located at tok.
func (r *Reporter) ReportErrorAt(tok parser.Token, msg string) {
	r.syntaxError(&parser.Error{Tok: tok, Msg: msg})
}

// ReportRuntimeError records an evaluation failure at tok.
func (r *Reporter) ReportRuntimeError(tok parser.Token, msg string) {
	fmt.Fprintln(r.w, lang.NewRuntimeError(tok, msg).Error())
	r.hadRuntimeError = true
}

// Report records err according to its kind. Parse errors set the syntax
// flag; runtime and host errors set the runtime flag.
func (r *Reporter) Report(err error) {
	if err == nil {
		return
	}
	var (
		list parser.ErrorList
		perr *parser.Error
		rerr *lang.RuntimeError
	)
	switch {
	case errors.As(err, &list):
		for _, e := range list {
			r.reportParseError(e)
		}
	case errors.As(err, &perr):
		r.reportParseError(perr)
	case errors.As(err, &rerr):
		r.ReportRuntimeError(rerr.Token, rerr.Message)
		if rerr.Hint != "" {
			fmt.Fprintf(r.w, "    %s\n", rerr.Hint)
		}
	default:
		fmt.Fprintf(r.w, "error: %v\n", err)
		r.hadRuntimeError = true
	}
}

func (r *Reporter) reportParseError(e *parser.Error) {
	if e.Lexical {
		r.ReportError(e.Line(), e.Msg)
		return
	}
	r.ReportErrorAt(e.Tok, e.Msg)
}

func (r *Reporter) syntaxError(e *parser.Error) {
	fmt.Fprintln(r.w, e.Error())
	r.hadError = true
}

// HadError reports whether a lexical or syntax error was recorded.
func (r *Reporter) HadError() bool {
	return r.hadError
}

// HadRuntimeError reports whether a runtime error was recorded.
func (r *Reporter) HadRuntimeError() bool {
	return r.hadRuntimeError
}

// Reset clears both flags; the REPL calls it between inputs.
func (r *Reporter) Reset() {
	r.hadError = false
	r.hadRuntimeError = false
}

// ExitCode maps the recorded state to a process exit status. Syntax errors
// take precedence because a program that fails to parse never runs.
func (r *Reporter) ExitCode() int {
	switch {
	case r.hadError:
		return ExitDataErr
	case r.hadRuntimeError:
		return ExitSoftware
	default:
		return ExitOK
	}
}
