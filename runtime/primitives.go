package runtime

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/sergev/plam/lang"
)

func installPrimitives(in *lang.Interpreter) {
	env := in.Globals()
	define := func(name string, nargs int, fn lang.Primitive) {
		env.Define(name, lang.NativeValue(name, nargs, fn))
	}

	define("clock", 0, primClock)
	define("print", 1, primPrint)
	define("input", 1, primInput)
}

// primClock returns wall-clock time in seconds since the Unix epoch.
func primClock(_ *lang.Interpreter, _ []lang.Value) (lang.Value, error) {
	return lang.NumberValue(float64(time.Now().UnixNano()) / float64(time.Second)), nil
}

func primPrint(in *lang.Interpreter, args []lang.Value) (lang.Value, error) {
	if _, err := fmt.Fprintln(in.Output(), lang.Stringify(args[0])); err != nil {
		return lang.Value{}, err
	}
	return lang.Null, nil
}

// primInput writes the prompt and reads one line without its terminator.
// End of input with nothing read yields null.
func primInput(in *lang.Interpreter, args []lang.Value) (lang.Value, error) {
	if _, err := fmt.Fprint(in.Output(), lang.Stringify(args[0])); err != nil {
		return lang.Value{}, err
	}
	line, err := in.Input().ReadString('\n')
	if err != nil {
		if !errors.Is(err, io.EOF) {
			return lang.Value{}, err
		}
		if line == "" {
			return lang.Null, nil
		}
	}
	return lang.StringValue(strings.TrimRight(line, "\r\n")), nil
}
