package parser

import (
	"strings"
	"testing"
)

func mustParse(t *testing.T, src string) []Stmt {
	t.Helper()
	stmts, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	return stmts
}

func parseExpr(t *testing.T, src string) Expr {
	t.Helper()
	stmts := mustParse(t, src+";")
	if len(stmts) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(stmts))
	}
	stmt, ok := stmts[0].(*ExprStmt)
	if !ok {
		t.Fatalf("expected ExprStmt, got %T", stmts[0])
	}
	return stmt.Expr
}

func parseErrors(t *testing.T, src string) ErrorList {
	t.Helper()
	_, err := Parse(src)
	if err == nil {
		t.Fatalf("expected parse error for %q", src)
	}
	list, ok := err.(ErrorList)
	if !ok {
		t.Fatalf("expected ErrorList, got %T", err)
	}
	return list
}

func TestParsePrecedence(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"1 + 2 * 3", "(+ 1 (* 2 3))"},
		{"(1 + 2) * 3", "(* (group (+ 1 2)) 3)"},
		{"1 - 2 - 3", "(- (- 1 2) 3)"},
		{"-a * !b", "(* (- a) (! b))"},
		{"a < b == c >= d", "(== (< a b) (>= c d))"},
		{"a or b and c", "(or a (and b c))"},
		{"a || b && c", "(or a (and b c))"},
		{"a == b and c != d", "(and (== a b) (!= c d))"},
		{"a ? b : c ? d : e", "(?: a b (?: c d e))"},
		{"x = y = 3", "(= x (= y 3))"},
		{"x = a ? 1 : 2", "(= x (?: a 1 2))"},
		{"a or b ? 1 : 2", "(?: (or a b) 1 2)"},
		{"f(1, g(2))(3)", "(call (call f 1 (call g 2)) 3)"},
		{`"s" * 2.5`, `(* "s" 2.5)`},
		{"null == false", "(== null false)"},
	}
	for _, tt := range tests {
		if got := FormatExpr(parseExpr(t, tt.src)); got != tt.want {
			t.Errorf("%s: got %s, want %s", tt.src, got, tt.want)
		}
	}
}

func TestParseCompoundAssignmentDesugars(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"x += 1", "(= x (+ x 1))"},
		{"x -= y * 2", "(= x (- x (* y 2)))"},
		{"x *= 3", "(= x (* x 3))"},
		{"x /= 4", "(= x (/ x 4))"},
		{"++x", "(= x (+ x 1))"},
		{"--x", "(= x (- x 1))"},
	}
	for _, tt := range tests {
		expr := parseExpr(t, tt.src)
		assign, ok := expr.(*AssignExpr)
		if !ok {
			t.Fatalf("%s: expected AssignExpr, got %T", tt.src, expr)
		}
		if assign.Name.Lexeme != "x" {
			t.Fatalf("%s: expected target x, got %q", tt.src, assign.Name.Lexeme)
		}
		if got := FormatExpr(expr); got != tt.want {
			t.Errorf("%s: got %s, want %s", tt.src, got, tt.want)
		}
	}
}

func TestParseInvalidAssignmentTargetIsNonFatal(t *testing.T) {
	stmts, err := Parse("a + b = c; var ok = 1;")
	list, isList := err.(ErrorList)
	if !isList || len(list) != 1 {
		t.Fatalf("expected single error, got %v", err)
	}
	if got := list[0].Error(); got != "[line 1] Error at '=': Invalid assignment target." {
		t.Fatalf("unexpected error %q", got)
	}
	if len(stmts) != 2 {
		t.Fatalf("expected parsing to continue with both statements, got %d", len(stmts))
	}
	if got := FormatStmt(stmts[0]); got != "(; (+ a b))" {
		t.Fatalf("expected left expression kept, got %s", got)
	}
}

func TestParseFunction(t *testing.T) {
	src := `
fn fact(n) {
	if (n <= 1) return 1;
	return n * fact(n - 1);
}
`
	stmts := mustParse(t, src)
	if len(stmts) != 1 {
		t.Fatalf("expected 1 declaration, got %d", len(stmts))
	}
	fn, ok := stmts[0].(*FuncStmt)
	if !ok {
		t.Fatalf("expected FuncStmt, got %T", stmts[0])
	}
	if fn.Name.Lexeme != "fact" {
		t.Fatalf("expected function name fact, got %s", fn.Name.Lexeme)
	}
	if len(fn.Params) != 1 || fn.Params[0].Lexeme != "n" {
		t.Fatalf("expected single parameter n, got %v", fn.Params)
	}
	if len(fn.Body) != 2 {
		t.Fatalf("expected 2 statements in body, got %d", len(fn.Body))
	}
	ifStmt, ok := fn.Body[0].(*IfStmt)
	if !ok {
		t.Fatalf("expected first statement to be IfStmt, got %T", fn.Body[0])
	}
	if _, ok := ifStmt.Then.(*ReturnStmt); !ok {
		t.Fatalf("expected then-branch ReturnStmt, got %T", ifStmt.Then)
	}
	if ret, ok := fn.Body[1].(*ReturnStmt); !ok || ret.Result == nil {
		t.Fatalf("expected second statement to return a value, got %#v", fn.Body[1])
	}
}

func TestParseForDesugarsToWhile(t *testing.T) {
	stmts := mustParse(t, "for (var i = 0; i < 3; i += 1) print(i);")
	block, ok := stmts[0].(*BlockStmt)
	if !ok {
		t.Fatalf("expected initializer block, got %T", stmts[0])
	}
	if len(block.Stmts) != 2 {
		t.Fatalf("expected init and loop, got %d statements", len(block.Stmts))
	}
	if _, ok := block.Stmts[0].(*VarStmt); !ok {
		t.Fatalf("expected VarStmt initializer, got %T", block.Stmts[0])
	}
	loop, ok := block.Stmts[1].(*WhileStmt)
	if !ok {
		t.Fatalf("expected WhileStmt, got %T", block.Stmts[1])
	}
	if loop.Post == nil || FormatStmt(loop.Post) != "(; (= i (+ i 1)))" {
		t.Fatalf("expected increment as post statement, got %v", loop.Post)
	}
	if got := FormatStmt(loop.Body); got != "(; (call print i))" {
		t.Fatalf("unexpected body %s", got)
	}

	stmts = mustParse(t, "for (;;) break;")
	loop, ok = stmts[0].(*WhileStmt)
	if !ok {
		t.Fatalf("expected bare WhileStmt without initializer, got %T", stmts[0])
	}
	if lit, ok := loop.Cond.(*LiteralExpr); !ok || lit.Value != true {
		t.Fatalf("expected missing condition to become true, got %v", FormatExpr(loop.Cond))
	}
	if loop.Post != nil {
		t.Fatalf("expected no post statement, got %v", FormatStmt(loop.Post))
	}
}

func TestParseStatementForms(t *testing.T) {
	src := `
var a;
var b = "x";
{ a = 1; }
if (a) b = 2; else { b = 3; }
while (true) { continue; }
fn noop() { return; }
`
	var got []string
	for _, stmt := range mustParse(t, src) {
		got = append(got, FormatStmt(stmt))
	}
	want := []string{
		"(var a)",
		`(var b "x")`,
		"(block (; (= a 1)))",
		"(if a (; (= b 2)) (block (; (= b 3))))",
		"(while true (block (continue)))",
		"(fn noop () (return))",
	}
	if strings.Join(got, "\n") != strings.Join(want, "\n") {
		t.Fatalf("statement forms mismatch:\n got %v\nwant %v", got, want)
	}
}

func TestParseRecoversFromMultipleErrors(t *testing.T) {
	stmts, err := Parse("var = 1; print(1 + ); var ok = true;")
	list, ok := err.(ErrorList)
	if !ok || len(list) != 2 {
		t.Fatalf("expected two independent errors, got %v", err)
	}
	if list[0].Msg != "Expected variable name." {
		t.Fatalf("unexpected first message %q", list[0].Msg)
	}
	if list[1].Msg != "Expected expression." || list[1].Tok.Lexeme != ")" {
		t.Fatalf("unexpected second error %v", list[1])
	}
	if len(stmts) != 1 {
		t.Fatalf("expected the valid declaration to survive, got %d statements", len(stmts))
	}
}

func TestParseErrorMessages(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"print(1)", "[line 1] Error at end: Expected ';' after expression."},
		{"(1 + 2;", "[line 1] Error at ';': Expected ')' after expression."},
		{"a ? b;", "[line 1] Error at ';': Expected ':' after '?' branch."},
		{"++1;", "[line 1] Error at '1': Expected identifier after '++'."},
		{"fn (a) {}", "[line 1] Error at '(': Expected function name."},
		{"\n\nbreak", "[line 3] Error at end: Expected ';' after 'break'."},
		{"this;", "[line 1] Error at 'this': 'this' is not supported."},
		{"if x) {}", "[line 1] Error at 'x': Expected '(' after 'if'."},
	}
	for _, tt := range tests {
		list := parseErrors(t, tt.src)
		if got := list[0].Error(); got != tt.want {
			t.Errorf("%q: got %q, want %q", tt.src, got, tt.want)
		}
	}
}

func TestParseClassIsRejectedWithoutCascade(t *testing.T) {
	stmts, err := Parse("class Foo { fn bar() { return 1; } } var x = 1;")
	list, ok := err.(ErrorList)
	if !ok || len(list) != 1 {
		t.Fatalf("expected exactly one error, got %v", err)
	}
	if list[0].Msg != "Classes are not supported." {
		t.Fatalf("unexpected message %q", list[0].Msg)
	}
	if len(stmts) != 1 {
		t.Fatalf("expected declaration after class to parse, got %d", len(stmts))
	}
}

func TestParseIncompleteInput(t *testing.T) {
	for _, src := range []string{"fn f() {", "if (x) {", "var x = (1 +", `print("abc`} {
		if _, err := Parse(src); !IsIncomplete(err) {
			t.Fatalf("expected incomplete error for %q, got %v", src, err)
		}
	}
	if _, err := Parse("var x = );"); IsIncomplete(err) {
		t.Fatalf("did not expect incomplete error for a complete but malformed line")
	}
}

func TestNewParserAddsMissingEOF(t *testing.T) {
	tokens := []Token{
		{Type: TokenIdentifier, Lexeme: "x", Pos: Position{Line: 1}},
		{Type: TokenSemicolon, Lexeme: ";", Pos: Position{Line: 1}},
	}
	stmts, err := NewParser(tokens).Parse()
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(stmts) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(stmts))
	}
}

func TestParseReader(t *testing.T) {
	stmts, err := ParseReader(strings.NewReader("var a = 1;\nvar b = a;\n"))
	if err != nil {
		t.Fatalf("ParseReader: %v", err)
	}
	if len(stmts) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(stmts))
	}
}

func TestParseRecoveryStopsAtClosingBrace(t *testing.T) {
	stmts, err := Parse("{ 1 + } var z = 1; var = 2;")
	list, ok := err.(ErrorList)
	if !ok || len(list) != 2 {
		t.Fatalf("expected two errors, got %v", err)
	}
	if list[0].Msg != "Expected expression." || list[0].Tok.Type != TokenRBrace {
		t.Fatalf("unexpected first error %v", list[0])
	}
	if list[1].Msg != "Expected variable name." {
		t.Fatalf("unexpected second error %v", list[1])
	}
	var got []string
	for _, stmt := range stmts {
		got = append(got, FormatStmt(stmt))
	}
	if strings.Join(got, " ") != "(block) (var z 1)" {
		t.Fatalf("declaration after the block was lost: %v", got)
	}
}

func TestParseRecoveryInsideFunctionBody(t *testing.T) {
	stmts, err := Parse("fn f() { var = 1; return 2; }\nvar after = f;")
	list, ok := err.(ErrorList)
	if !ok || len(list) != 1 {
		t.Fatalf("expected one error, got %v", err)
	}
	if len(stmts) != 2 {
		t.Fatalf("expected function and trailing declaration, got %d statements", len(stmts))
	}
	if got := FormatStmt(stmts[0]); got != "(fn f () (return 2))" {
		t.Fatalf("unexpected function %s", got)
	}
}
