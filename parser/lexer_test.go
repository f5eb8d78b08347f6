package parser

import (
	"reflect"
	"strings"
	"testing"
)

func lexAllTokens(t *testing.T, src string) []Token {
	t.Helper()
	tokens, err := Scan(src)
	if err != nil {
		t.Fatalf("unexpected lexer error: %v", err)
	}
	if len(tokens) == 0 || tokens[len(tokens)-1].Type != TokenEOF {
		t.Fatalf("expected token stream to end with EOF, got %v", tokens)
	}
	return tokens
}

func tokenTypes(tokens []Token) []TokenType {
	types := make([]TokenType, len(tokens))
	for i, tok := range tokens {
		types[i] = tok.Type
	}
	return types
}

func TestLexerIdentifiersAndKeywords(t *testing.T) {
	src := "and break class continue else false fn for if null or return super this true var while print foo _bar baz123"
	tokens := lexAllTokens(t, src)
	tokens = tokens[:len(tokens)-1] // drop EOF

	want := []struct {
		typ    TokenType
		lexeme string
	}{
		{TokenAnd, "and"},
		{TokenBreak, "break"},
		{TokenClass, "class"},
		{TokenContinue, "continue"},
		{TokenElse, "else"},
		{TokenFalse, "false"},
		{TokenFn, "fn"},
		{TokenFor, "for"},
		{TokenIf, "if"},
		{TokenNull, "null"},
		{TokenOr, "or"},
		{TokenReturn, "return"},
		{TokenSuper, "super"},
		{TokenThis, "this"},
		{TokenTrue, "true"},
		{TokenVar, "var"},
		{TokenWhile, "while"},
		{TokenIdentifier, "print"},
		{TokenIdentifier, "foo"},
		{TokenIdentifier, "_bar"},
		{TokenIdentifier, "baz123"},
	}

	if len(tokens) != len(want) {
		t.Fatalf("expected %d tokens, got %d", len(want), len(tokens))
	}
	for i, tt := range want {
		tok := tokens[i]
		if tok.Type != tt.typ {
			t.Errorf("token %d: expected type %v, got %v", i, tt.typ, tok.Type)
		}
		if tok.Lexeme != tt.lexeme {
			t.Errorf("token %d: expected lexeme %q, got %q", i, tt.lexeme, tok.Lexeme)
		}
	}
}

func TestLexerNumberLiterals(t *testing.T) {
	tokens := lexAllTokens(t, "0 123 3.14 10.")
	want := []struct {
		typ   TokenType
		value interface{}
	}{
		{TokenNumber, 0.0},
		{TokenNumber, 123.0},
		{TokenNumber, 3.14},
		{TokenNumber, 10.0},
		{TokenDot, nil},
		{TokenEOF, nil},
	}
	if len(tokens) != len(want) {
		t.Fatalf("expected %d tokens, got %d: %v", len(want), len(tokens), tokenTypes(tokens))
	}
	for i, w := range want {
		if tokens[i].Type != w.typ {
			t.Errorf("token %d: expected %v, got %v", i, w.typ, tokens[i].Type)
		}
		if w.value != nil && tokens[i].Value != w.value {
			t.Errorf("token %d: expected value %v, got %v", i, w.value, tokens[i].Value)
		}
	}
}

func TestLexerOperators(t *testing.T) {
	src := "( ) { } , . ; ? : + - * / ! != = == < <= > >= += -= *= /= ++ -- && ||"
	got := tokenTypes(lexAllTokens(t, src))
	want := []TokenType{
		TokenLParen, TokenRParen, TokenLBrace, TokenRBrace, TokenComma, TokenDot,
		TokenSemicolon, TokenQuestion, TokenColon, TokenPlus, TokenMinus, TokenStar,
		TokenSlash, TokenBang, TokenBangEqual, TokenAssign, TokenEqualEqual, TokenLess,
		TokenLessEqual, TokenGreater, TokenGreaterEqual, TokenPlusAssign, TokenMinusAssign,
		TokenStarAssign, TokenSlashAssign, TokenPlusPlus, TokenMinusMinus, TokenAnd, TokenOr,
		TokenEOF,
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("operator tokens mismatch:\n got %v\nwant %v", got, want)
	}
}

func TestLexerStringsAndComments(t *testing.T) {
	src := "// leading comment\n\"hi\\n\\\"there\\\"\" /* block\ncomment */ \"two\nlines\" x"
	tokens := lexAllTokens(t, src)
	if len(tokens) != 4 {
		t.Fatalf("expected 4 tokens, got %d: %v", len(tokens), tokenTypes(tokens))
	}
	if tokens[0].Type != TokenString || tokens[0].Value != "hi\n\"there\"" {
		t.Fatalf("unexpected first string token: %+v", tokens[0])
	}
	if tokens[0].Pos.Line != 2 {
		t.Fatalf("expected first string on line 2, got %d", tokens[0].Pos.Line)
	}
	if tokens[1].Value != "two\nlines" || tokens[1].Line() != 3 {
		t.Fatalf("unexpected multi-line string token: %+v", tokens[1])
	}
	if tokens[2].Type != TokenIdentifier || tokens[2].Line() != 4 {
		t.Fatalf("expected identifier on line 4, got %+v", tokens[2])
	}
}

func TestLexerReportsErrorsAndContinues(t *testing.T) {
	tokens, err := Scan("var a = 1 @ 2;\n# b")
	if err == nil {
		t.Fatalf("expected lexer errors")
	}
	list, ok := err.(ErrorList)
	if !ok || len(list) != 2 {
		t.Fatalf("expected two lexical errors, got %v", err)
	}
	if got := list[0].Error(); got != "[line 1] Error: Unexpected character '@'." {
		t.Fatalf("unexpected first error %q", got)
	}
	if list[1].Line() != 2 {
		t.Fatalf("expected second error on line 2, got %d", list[1].Line())
	}
	got := tokenTypes(tokens)
	want := []TokenType{TokenVar, TokenIdentifier, TokenAssign, TokenNumber, TokenNumber, TokenSemicolon, TokenIdentifier, TokenEOF}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("tokens after errors mismatch:\n got %v\nwant %v", got, want)
	}
}

func TestLexerIncompleteInput(t *testing.T) {
	for _, src := range []string{`"open`, "/* open", "x = \"abc\\"} {
		_, err := Scan(src)
		if err == nil || !IsIncomplete(err) {
			t.Fatalf("expected incomplete error for %q, got %v", src, err)
		}
		if !strings.Contains(err.Error(), "Unterminated") {
			t.Fatalf("expected unterminated message for %q, got %v", src, err)
		}
	}
	if _, err := Scan("a & b"); err == nil || IsIncomplete(err) {
		t.Fatalf("expected complete lexical error for lone '&', got %v", err)
	}
}

func TestLexerInvalidUTF8InString(t *testing.T) {
	tokens, err := Scan("var s = \"a\xffb\";\nprint(1);")
	list, ok := err.(ErrorList)
	if !ok || len(list) != 1 {
		t.Fatalf("expected a single lexical error, got %v", err)
	}
	if IsIncomplete(err) {
		t.Fatalf("a closed string with a bad byte is not incomplete input")
	}
	if !strings.Contains(list[0].Msg, "Invalid UTF-8") || list[0].Line() != 1 {
		t.Fatalf("unexpected error %v", list[0])
	}
	got := tokenTypes(tokens)
	want := []TokenType{
		TokenVar, TokenIdentifier, TokenAssign, TokenSemicolon,
		TokenIdentifier, TokenLParen, TokenNumber, TokenRParen, TokenSemicolon, TokenEOF,
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("scanning should resume after the literal:\n got %v\nwant %v", got, want)
	}
}
