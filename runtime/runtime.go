package runtime

import (
	"bytes"
	"os"

	"github.com/sergev/plam/internal/diag"
	"github.com/sergev/plam/lang"
	"github.com/sergev/plam/parser"
)

// NewInterpreter constructs an interpreter with the built-ins installed.
func NewInterpreter(opts ...lang.Option) *lang.Interpreter {
	in := lang.NewInterpreter(opts...)
	installPrimitives(in)
	return in
}

// Run parses and executes src, sending diagnostics to rep. Source with any
// lexical or syntax error is not executed.
func Run(in *lang.Interpreter, src string, rep *diag.Reporter) {
	stmts, err := parser.Parse(src)
	if err != nil {
		rep.Report(err)
		return
	}
	rep.Report(in.Interpret(stmts))
}

// Eval is Run for interactive use: when src is a single expression
// statement its value is returned with ok set, so the caller can echo it.
func Eval(in *lang.Interpreter, src string, rep *diag.Reporter) (val lang.Value, ok bool) {
	stmts, err := parser.Parse(src)
	if err != nil {
		rep.Report(err)
		return lang.Null, false
	}
	if len(stmts) == 1 {
		if stmt, isExpr := stmts[0].(*parser.ExprStmt); isExpr {
			v, err := in.Evaluate(stmt.Expr)
			if err != nil {
				rep.Report(err)
				return lang.Null, false
			}
			return v, true
		}
	}
	rep.Report(in.Interpret(stmts))
	return lang.Null, false
}

// RunFile loads and executes a script, allowing a #! first line. The
// returned error covers only failure to read the file.
func RunFile(in *lang.Interpreter, path string, rep *diag.Reporter) error {
	src, err := ReadFile(path)
	if err != nil {
		return err
	}
	Run(in, src, rep)
	return nil
}

// ReadFile returns the source of a script with any #! line blanked out.
func ReadFile(path string) (string, error) {
	data, err := readFileSkippingShebang(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func readFileSkippingShebang(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if bytes.HasPrefix(data, []byte("#!")) {
		if idx := bytes.IndexByte(data, '\n'); idx >= 0 {
			// Keep the newline so line numbers still match the file.
			return data[idx:], nil
		}
		return []byte{}, nil
	}
	return data, nil
}
