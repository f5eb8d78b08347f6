package lang

import (
	"fmt"

	"github.com/sergev/plam/parser"
)

// RuntimeError is an evaluation failure located at the token that caused it.
type RuntimeError struct {
	Token   parser.Token
	Message string
	Hint    string // optional follow-up, e.g. a spelling suggestion
}

// NewRuntimeError builds a RuntimeError for tok.
func NewRuntimeError(tok parser.Token, msg string) *RuntimeError {
	return &RuntimeError{Token: tok, Message: msg}
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("[line %d] Runtime error: %s", e.Token.Line(), e.Message)
}

// Line returns the source line of the offending token.
func (e *RuntimeError) Line() int {
	return e.Token.Line()
}

// Control-flow signals travel up the Go call stack as errors until the
// enclosing loop or call frame intercepts them.

type breakSignal struct {
	keyword parser.Token
}

func (s *breakSignal) Error() string { return "'break' used outside loop." }

type continueSignal struct {
	keyword parser.Token
}

func (s *continueSignal) Error() string { return "'continue' used outside loop." }

type returnSignal struct {
	keyword parser.Token
	value   Value
}

func (s *returnSignal) Error() string { return "'return' used outside function." }

// escapedSignal converts a control signal that reached the top level into a
// runtime error. Other errors pass through unchanged.
func escapedSignal(err error) error {
	switch sig := err.(type) {
	case *breakSignal:
		return NewRuntimeError(sig.keyword, sig.Error())
	case *continueSignal:
		return NewRuntimeError(sig.keyword, sig.Error())
	case *returnSignal:
		return NewRuntimeError(sig.keyword, sig.Error())
	default:
		return err
	}
}
