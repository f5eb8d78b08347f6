package lang

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"strings"

	"github.com/sergev/plam/parser"
)

// DefaultMaxDepth bounds nested calls so runaway recursion becomes a
// runtime error instead of exhausting the Go stack.
const DefaultMaxDepth = 1000

// maxRepeatLen caps the result of string repetition.
const maxRepeatLen = 1 << 30

// Interpreter executes statement trees against a chain of environments.
type Interpreter struct {
	globals  *Env
	env      *Env
	out      io.Writer
	in       *bufio.Reader
	logger   *slog.Logger
	depth    int
	maxDepth int
}

// Option configures an Interpreter.
type Option func(*Interpreter)

// WithOutput directs print output to w.
func WithOutput(w io.Writer) Option {
	return func(in *Interpreter) { in.out = w }
}

// WithInput makes natives that read lines consume r.
func WithInput(r io.Reader) Option {
	return func(in *Interpreter) { in.in = bufio.NewReader(r) }
}

// WithLogger enables debug tracing of function calls.
func WithLogger(logger *slog.Logger) Option {
	return func(in *Interpreter) { in.logger = logger }
}

// WithMaxDepth limits the depth of nested calls. Non-positive values keep
// the default.
func WithMaxDepth(n int) Option {
	return func(in *Interpreter) {
		if n > 0 {
			in.maxDepth = n
		}
	}
}

// NewInterpreter constructs an interpreter rooted at a new global environment.
func NewInterpreter(opts ...Option) *Interpreter {
	global := NewEnv(nil)
	in := &Interpreter{
		globals:  global,
		env:      global,
		out:      os.Stdout,
		logger:   slog.New(slog.DiscardHandler),
		maxDepth: DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(in)
	}
	if in.in == nil {
		in.in = bufio.NewReader(os.Stdin)
	}
	return in
}

// Globals returns the outermost environment.
func (in *Interpreter) Globals() *Env {
	return in.globals
}

// Output returns the writer print statements write to.
func (in *Interpreter) Output() io.Writer {
	return in.out
}

// Input returns the reader natives read lines from.
func (in *Interpreter) Input() *bufio.Reader {
	return in.in
}

// Interpret executes top-level statements in order. The first runtime
// error stops execution and is returned; control signals that escaped every
// loop and function are reported as runtime errors.
func (in *Interpreter) Interpret(stmts []parser.Stmt) error {
	for _, stmt := range stmts {
		if err := in.Execute(stmt); err != nil {
			in.env = in.globals
			in.depth = 0
			return escapedSignal(err)
		}
	}
	return nil
}

// Execute runs a single statement in the current environment.
func (in *Interpreter) Execute(stmt parser.Stmt) error {
	switch s := stmt.(type) {
	case *parser.ExprStmt:
		_, err := in.Evaluate(s.Expr)
		return err
	case *parser.PrintStmt:
		val, err := in.Evaluate(s.Expr)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(in.out, Stringify(val))
		return err
	case *parser.VarStmt:
		val := Uninitialized
		if s.Init != nil {
			v, err := in.Evaluate(s.Init)
			if err != nil {
				return err
			}
			val = v
		}
		in.env.Define(s.Name.Lexeme, val)
		return nil
	case *parser.BlockStmt:
		return in.ExecuteBlock(s.Stmts, NewEnv(in.env))
	case *parser.IfStmt:
		cond, err := in.Evaluate(s.Cond)
		if err != nil {
			return err
		}
		if IsTruthy(cond) {
			return in.Execute(s.Then)
		}
		if s.Else != nil {
			return in.Execute(s.Else)
		}
		return nil
	case *parser.WhileStmt:
		return in.execWhile(s)
	case *parser.BreakStmt:
		return &breakSignal{keyword: s.Keyword}
	case *parser.ContinueStmt:
		return &continueSignal{keyword: s.Keyword}
	case *parser.FuncStmt:
		in.env.Define(s.Name.Lexeme, CallableValue(NewFunction(s, in.env)))
		return nil
	case *parser.ReturnStmt:
		val := Null
		if s.Result != nil {
			v, err := in.Evaluate(s.Result)
			if err != nil {
				return err
			}
			val = v
		}
		return &returnSignal{keyword: s.Keyword, value: val}
	default:
		return fmt.Errorf("unsupported statement %T", stmt)
	}
}

// ExecuteBlock runs stmts with env as the current environment. The previous
// environment is restored however the block exits.
func (in *Interpreter) ExecuteBlock(stmts []parser.Stmt, env *Env) error {
	previous := in.env
	in.env = env
	defer func() { in.env = previous }()

	for _, stmt := range stmts {
		if err := in.Execute(stmt); err != nil {
			return err
		}
	}
	return nil
}

// execWhile runs the loop body and then Post on every iteration. continue
// skips the rest of the body but not Post; break ends the loop at once.
func (in *Interpreter) execWhile(s *parser.WhileStmt) error {
	for {
		cond, err := in.Evaluate(s.Cond)
		if err != nil {
			return err
		}
		if !IsTruthy(cond) {
			return nil
		}
		switch err := in.Execute(s.Body); err.(type) {
		case nil, *continueSignal:
		case *breakSignal:
			return nil
		default:
			return err
		}
		if s.Post == nil {
			continue
		}
		switch err := in.Execute(s.Post); err.(type) {
		case nil, *continueSignal:
		case *breakSignal:
			return nil
		default:
			return err
		}
	}
}

// Evaluate computes the value of an expression.
func (in *Interpreter) Evaluate(expr parser.Expr) (Value, error) {
	switch e := expr.(type) {
	case *parser.LiteralExpr:
		return literalValue(e.Value), nil
	case *parser.VariableExpr:
		return in.env.Get(e.Name)
	case *parser.AssignExpr:
		val, err := in.Evaluate(e.Value)
		if err != nil {
			return Value{}, err
		}
		if err := in.env.Assign(e.Name, val); err != nil {
			return Value{}, err
		}
		return val, nil
	case *parser.TernaryExpr:
		cond, err := in.Evaluate(e.Cond)
		if err != nil {
			return Value{}, err
		}
		if IsTruthy(cond) {
			return in.Evaluate(e.First)
		}
		return in.Evaluate(e.Second)
	case *parser.LogicalExpr:
		left, err := in.Evaluate(e.Left)
		if err != nil {
			return Value{}, err
		}
		if e.Op.Type == parser.TokenOr {
			if IsTruthy(left) {
				return left, nil
			}
		} else if !IsTruthy(left) {
			return left, nil
		}
		return in.Evaluate(e.Right)
	case *parser.BinaryExpr:
		return in.evalBinary(e)
	case *parser.UnaryExpr:
		right, err := in.Evaluate(e.Right)
		if err != nil {
			return Value{}, err
		}
		switch e.Op.Type {
		case parser.TokenMinus:
			if err := checkNumbers(e.Op, right); err != nil {
				return Value{}, err
			}
			return NumberValue(-right.Number()), nil
		case parser.TokenBang:
			return BoolValue(!IsTruthy(right)), nil
		}
		return Value{}, NewRuntimeError(e.Op, fmt.Sprintf("Unknown unary operator '%s'.", e.Op.Lexeme))
	case *parser.GroupingExpr:
		return in.Evaluate(e.Inner)
	case *parser.CallExpr:
		return in.evalCall(e)
	default:
		return Value{}, fmt.Errorf("unsupported expression %T", expr)
	}
}

func literalValue(v interface{}) Value {
	switch val := v.(type) {
	case bool:
		return BoolValue(val)
	case float64:
		return NumberValue(val)
	case string:
		return StringValue(val)
	default:
		return Null
	}
}

func (in *Interpreter) evalBinary(e *parser.BinaryExpr) (Value, error) {
	left, err := in.Evaluate(e.Left)
	if err != nil {
		return Value{}, err
	}
	right, err := in.Evaluate(e.Right)
	if err != nil {
		return Value{}, err
	}

	switch e.Op.Type {
	case parser.TokenEqualEqual:
		return BoolValue(Equal(left, right)), nil
	case parser.TokenBangEqual:
		return BoolValue(!Equal(left, right)), nil
	case parser.TokenPlus:
		switch {
		case left.Type == TypeString && right.Type == TypeString:
			return StringValue(left.Str() + right.Str()), nil
		case left.Type == TypeNumber && right.Type == TypeNumber:
			return NumberValue(left.Number() + right.Number()), nil
		}
		return Value{}, NewRuntimeError(e.Op, "Operands must be two numbers or two strings.")
	case parser.TokenStar:
		switch {
		case left.Type == TypeString && right.Type == TypeNumber:
			return repeat(e.Op, left.Str(), right.Number())
		case left.Type == TypeNumber && right.Type == TypeString:
			return repeat(e.Op, right.Str(), left.Number())
		}
	}

	if err := checkNumbers(e.Op, left, right); err != nil {
		return Value{}, err
	}
	l, r := left.Number(), right.Number()
	switch e.Op.Type {
	case parser.TokenMinus:
		return NumberValue(l - r), nil
	case parser.TokenStar:
		return NumberValue(l * r), nil
	case parser.TokenSlash:
		if r == 0 {
			return Value{}, NewRuntimeError(e.Op, "Can't divide by zero.")
		}
		return NumberValue(l / r), nil
	case parser.TokenGreater:
		return BoolValue(l > r), nil
	case parser.TokenGreaterEqual:
		return BoolValue(l >= r), nil
	case parser.TokenLess:
		return BoolValue(l < r), nil
	case parser.TokenLessEqual:
		return BoolValue(l <= r), nil
	}
	return Value{}, NewRuntimeError(e.Op, fmt.Sprintf("Unknown operator '%s'.", e.Op.Lexeme))
}

func checkNumbers(op parser.Token, operands ...Value) error {
	for _, v := range operands {
		if v.Type != TypeNumber {
			return NewRuntimeError(op, "Operand must be a number.")
		}
	}
	return nil
}

// repeat implements string * count. A count at or below zero yields "".
func repeat(op parser.Token, s string, count float64) (Value, error) {
	if count != math.Trunc(count) {
		return Value{}, NewRuntimeError(op, "Can't multiply string by non-integer amount.")
	}
	if count <= 0 || s == "" {
		return StringValue(""), nil
	}
	if float64(len(s))*count > maxRepeatLen {
		return Value{}, NewRuntimeError(op, "String repetition result too large.")
	}
	return StringValue(strings.Repeat(s, int(count))), nil
}

func (in *Interpreter) evalCall(e *parser.CallExpr) (Value, error) {
	callee, err := in.Evaluate(e.Callee)
	if err != nil {
		return Value{}, err
	}
	args := make([]Value, 0, len(e.Args))
	for _, argExpr := range e.Args {
		arg, err := in.Evaluate(argExpr)
		if err != nil {
			return Value{}, err
		}
		args = append(args, arg)
	}

	fn := callee.Callable()
	if callee.Type != TypeCallable || fn == nil {
		return Value{}, NewRuntimeError(e.Paren, "Can only call functions and classes.")
	}
	if len(args) != fn.Arity() {
		return Value{}, NewRuntimeError(e.Paren,
			fmt.Sprintf("Expected %d arguments but got %d.", fn.Arity(), len(args)))
	}
	return in.call(fn, args, e.Paren)
}

func (in *Interpreter) call(fn Callable, args []Value, paren parser.Token) (Value, error) {
	if in.depth >= in.maxDepth {
		return Value{}, NewRuntimeError(paren, "Stack overflow.")
	}
	in.depth++
	defer func() { in.depth-- }()

	in.logger.Debug("call", "fn", fn.String(), "args", len(args), "line", paren.Line(), "depth", in.depth)
	val, err := fn.Call(in, args)
	if err != nil {
		var rerr *RuntimeError
		if _, native := fn.(*Native); native && !errors.As(err, &rerr) {
			// Host failures from built-ins surface at the call site.
			return Value{}, NewRuntimeError(paren, err.Error())
		}
		return Value{}, err
	}
	in.logger.Debug("return", "fn", fn.String(), "value", Stringify(val))
	return val, nil
}
