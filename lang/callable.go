package lang

import (
	"fmt"

	"github.com/sergev/plam/parser"
)

// Callable is anything that can be invoked with a fixed number of arguments.
type Callable interface {
	Arity() int
	Call(in *Interpreter, args []Value) (Value, error)
	String() string
}

// Function is a user-defined function together with the environment it was
// declared in.
type Function struct {
	decl    *parser.FuncStmt
	closure *Env
}

// NewFunction binds decl to its defining environment.
func NewFunction(decl *parser.FuncStmt, closure *Env) *Function {
	return &Function{decl: decl, closure: closure}
}

func (f *Function) Arity() int {
	return len(f.decl.Params)
}

// Call runs the body in a fresh frame whose parent is the closure, not the
// caller's environment. Argument count is checked by the caller.
func (f *Function) Call(in *Interpreter, args []Value) (Value, error) {
	env := NewEnv(f.closure)
	for i, param := range f.decl.Params {
		env.Define(param.Lexeme, args[i])
	}
	err := in.ExecuteBlock(f.decl.Body, env)
	switch sig := err.(type) {
	case nil:
		return Null, nil
	case *returnSignal:
		return sig.value, nil
	case *breakSignal, *continueSignal:
		// Loops do not extend across function boundaries.
		return Value{}, escapedSignal(sig)
	default:
		return Value{}, err
	}
}

func (f *Function) String() string {
	return fmt.Sprintf("<fn %s>", f.decl.Name.Lexeme)
}

// Primitive is the Go implementation of a native built-in.
type Primitive func(in *Interpreter, args []Value) (Value, error)

// Native is a built-in function provided by the host.
type Native struct {
	Name  string
	NArgs int
	Fn    Primitive
}

// NativeValue wraps a primitive as a callable value.
func NativeValue(name string, nargs int, fn Primitive) Value {
	return CallableValue(&Native{Name: name, NArgs: nargs, Fn: fn})
}

func (n *Native) Arity() int {
	return n.NArgs
}

func (n *Native) Call(in *Interpreter, args []Value) (Value, error) {
	return n.Fn(in, args)
}

func (n *Native) String() string {
	return fmt.Sprintf("<native fn %s>", n.Name)
}
