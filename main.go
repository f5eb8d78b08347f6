package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/peterh/liner"
	"github.com/sergev/plam/internal/config"
	"github.com/sergev/plam/internal/diag"
	"github.com/sergev/plam/lang"
	"github.com/sergev/plam/parser"
	"github.com/sergev/plam/runtime"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	flags := flag.NewFlagSet("plam", flag.ContinueOnError)
	flags.SetOutput(stderr)
	configPath := flags.String("config", config.DefaultPath(), "YAML settings file")
	trace := flags.Bool("trace", false, "log function calls to stderr")
	showAST := flags.Bool("ast", false, "print the syntax tree of the script instead of running it")
	flags.Usage = func() {
		fmt.Fprintln(stderr, "Usage: plam [flags] [script]")
		flags.PrintDefaults()
	}
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return diag.ExitOK
		}
		return diag.ExitUsage
	}
	if flags.NArg() > 1 {
		flags.Usage()
		return diag.ExitUsage
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "plam: %v\n", err)
		return diag.ExitConfig
	}

	in := runtime.NewInterpreter(
		lang.WithOutput(stdout),
		lang.WithInput(stdin),
		lang.WithLogger(newLogger(stderr, *trace || cfg.Trace)),
		lang.WithMaxDepth(cfg.MaxCallDepth),
	)
	rep := diag.NewReporter(stderr)

	if flags.NArg() == 0 {
		runREPL(in, cfg, rep, stdin, stdout)
		return diag.ExitOK
	}

	script := flags.Arg(0)
	if *showAST {
		src, err := readScript(script, stdin)
		if err != nil {
			fmt.Fprintf(stderr, "plam: %v\n", err)
			return diag.ExitNoInput
		}
		return dumpAST(src, stdout, rep)
	}
	if script == "-" {
		src, err := readScript(script, stdin)
		if err != nil {
			fmt.Fprintf(stderr, "plam: %v\n", err)
			return diag.ExitNoInput
		}
		runtime.Run(in, src, rep)
	} else if err := runtime.RunFile(in, script, rep); err != nil {
		fmt.Fprintf(stderr, "plam: %v\n", err)
		return diag.ExitNoInput
	}
	return rep.ExitCode()
}

func readScript(path string, stdin io.Reader) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(stdin)
		return string(data), err
	}
	return runtime.ReadFile(path)
}

func dumpAST(src string, stdout io.Writer, rep *diag.Reporter) int {
	stmts, err := parser.Parse(src)
	if err != nil {
		rep.Report(err)
		return rep.ExitCode()
	}
	for _, stmt := range stmts {
		fmt.Fprintln(stdout, parser.FormatStmt(stmt))
	}
	return diag.ExitOK
}

func newLogger(w io.Writer, trace bool) *slog.Logger {
	level := slog.LevelWarn
	if trace {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// session accumulates REPL input until it forms complete statements.
type session struct {
	in     *lang.Interpreter
	rep    *diag.Reporter
	out    io.Writer
	buffer strings.Builder
}

// feed appends a line of input and runs the buffer once it parses. It
// reports whether more input is needed. When final is set the buffer is run
// regardless, so errors for a truncated program are still shown.
func (s *session) feed(line string, final bool) bool {
	s.buffer.WriteString(line)
	s.buffer.WriteString("\n")
	src := s.buffer.String()
	if strings.TrimSpace(src) == "" {
		s.buffer.Reset()
		return false
	}
	if _, err := parser.Parse(src); parser.IsIncomplete(err) {
		// A lone expression may omit its semicolon.
		if _, err := parser.Parse(src + ";"); err == nil {
			src += ";"
		} else if !final {
			return true
		}
	}
	s.buffer.Reset()
	s.rep.Reset()
	if val, ok := runtime.Eval(s.in, src, s.rep); ok && val.Type != lang.TypeNull {
		fmt.Fprintln(s.out, lang.Stringify(val))
	}
	return false
}

func (s *session) pending() bool {
	return s.buffer.Len() > 0
}

func (s *session) reset() {
	s.buffer.Reset()
}

func runREPL(in *lang.Interpreter, cfg config.Config, rep *diag.Reporter, stdin io.Reader, stdout io.Writer) {
	s := &session{in: in, rep: rep, out: stdout}
	if f, ok := stdin.(*os.File); ok && f == os.Stdin && isInteractive() {
		runInteractiveREPL(s, cfg)
		return
	}
	runBufferedREPL(s, in.Input())
}

func runBufferedREPL(s *session, reader *bufio.Reader) {
	for {
		line, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			fmt.Fprintf(os.Stderr, "read error: %v\n", err)
			return
		}
		eof := errors.Is(err, io.EOF)
		if line != "" || s.pending() {
			s.feed(strings.TrimRight(line, "\r\n"), eof)
		}
		if eof {
			return
		}
	}
}

func runInteractiveREPL(s *session, cfg config.Config) {
	state := liner.NewLiner()
	defer state.Close()
	state.SetCtrlCAborts(true)

	if historyPath := cfg.HistoryFile; historyPath != "" {
		if f, err := os.Open(historyPath); err == nil {
			state.ReadHistory(f)
			f.Close()
		}
		defer func() {
			if f, err := os.Create(historyPath); err == nil {
				state.WriteHistory(f)
				f.Close()
			}
		}()
	}

	for {
		prompt := cfg.Prompt
		if s.pending() {
			prompt = cfg.ContinuationPrompt
		}
		input, err := state.Prompt(prompt)
		if err != nil {
			switch {
			case errors.Is(err, liner.ErrPromptAborted):
				fmt.Println()
				s.reset()
				continue
			case errors.Is(err, io.EOF):
				fmt.Println()
				return
			default:
				fmt.Fprintf(os.Stderr, "read error: %v\n", err)
				return
			}
		}
		if !s.feed(input, false) {
			if trimmed := strings.TrimSpace(input); trimmed != "" {
				state.AppendHistory(trimmed)
			}
		}
	}
}

func isInteractive() bool {
	info, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
