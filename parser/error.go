package parser

import (
	"errors"
	"fmt"
	"strings"
)

// Error is a lexical or syntax error tied to the token where it was detected.
type Error struct {
	Tok        Token
	Msg        string
	Lexical    bool // reported by line only, without the offending lexeme
	Incomplete bool // input ended before the construct was closed
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("[line %d] Error%s: %s", e.Tok.Line(), e.where(), e.Msg)
}

func (e *Error) where() string {
	switch {
	case e.Lexical:
		return ""
	case e.Tok.Type == TokenEOF:
		return " at end"
	default:
		return fmt.Sprintf(" at '%s'", e.Tok.Lexeme)
	}
}

// Line returns the source line the error refers to.
func (e *Error) Line() int {
	return e.Tok.Line()
}

// ErrorList collects every error reported during a scan or parse.
type ErrorList []*Error

func (l ErrorList) Error() string {
	switch len(l) {
	case 0:
		return "no errors"
	case 1:
		return l[0].Error()
	}
	var b strings.Builder
	for i, err := range l {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(err.Error())
	}
	return b.String()
}

func (l ErrorList) Unwrap() []error {
	errs := make([]error, len(l))
	for i, err := range l {
		errs[i] = err
	}
	return errs
}

// Err returns nil for an empty list, so callers can return it directly.
func (l ErrorList) Err() error {
	if len(l) == 0 {
		return nil
	}
	return l
}

func newIncompleteError(err error) error {
	return &Error{
		Msg:        err.Error(),
		Lexical:    true,
		Incomplete: true,
	}
}

// asError turns a lexer failure into a positioned lexical error.
func asError(err error, tok Token) *Error {
	var perr *Error
	if errors.As(err, &perr) {
		perr.Tok = tok
		return perr
	}
	return &Error{
		Tok:     tok,
		Msg:     err.Error(),
		Lexical: true,
	}
}

// IsIncomplete reports whether the supplied error represents input that
// stopped in the middle of a construct, such as an unclosed block or string.
func IsIncomplete(err error) bool {
	var list ErrorList
	if errors.As(err, &list) {
		for _, e := range list {
			if e.Incomplete {
				return true
			}
		}
		return false
	}
	var perr *Error
	if errors.As(err, &perr) {
		return perr.Incomplete
	}
	return false
}
