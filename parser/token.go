package parser

// TokenType enumerates lexical categories recognised by the plam lexer.
type TokenType int

const (
	TokenEOF TokenType = iota
	TokenIllegal

	TokenIdentifier
	TokenNumber
	TokenString

	// Keywords
	TokenAnd
	TokenBreak
	TokenClass
	TokenContinue
	TokenElse
	TokenFalse
	TokenFn
	TokenFor
	TokenIf
	TokenNull
	TokenOr
	TokenReturn
	TokenSuper
	TokenThis
	TokenTrue
	TokenVar
	TokenWhile

	// Operators and punctuation
	TokenAssign       // =
	TokenPlusAssign   // +=
	TokenMinusAssign  // -=
	TokenStarAssign   // *=
	TokenSlashAssign  // /=
	TokenEqualEqual   // ==
	TokenBangEqual    // !=
	TokenPlus         // +
	TokenMinus        // -
	TokenPlusPlus     // ++
	TokenMinusMinus   // --
	TokenStar         // *
	TokenSlash        // /
	TokenLess         // <
	TokenLessEqual    // <=
	TokenGreater      // >
	TokenGreaterEqual // >=
	TokenBang         // !
	TokenQuestion     // ?
	TokenColon        // :

	TokenComma     // ,
	TokenDot       // .
	TokenSemicolon // ;
	TokenLParen    // (
	TokenRParen    // )
	TokenLBrace    // {
	TokenRBrace    // }
)

func (tt TokenType) String() string {
	switch tt {
	case TokenEOF:
		return "EOF"
	case TokenIllegal:
		return "illegal"
	case TokenIdentifier:
		return "identifier"
	case TokenNumber:
		return "number"
	case TokenString:
		return "string"
	case TokenAnd:
		return "and"
	case TokenBreak:
		return "break"
	case TokenClass:
		return "class"
	case TokenContinue:
		return "continue"
	case TokenElse:
		return "else"
	case TokenFalse:
		return "false"
	case TokenFn:
		return "fn"
	case TokenFor:
		return "for"
	case TokenIf:
		return "if"
	case TokenNull:
		return "null"
	case TokenOr:
		return "or"
	case TokenReturn:
		return "return"
	case TokenSuper:
		return "super"
	case TokenThis:
		return "this"
	case TokenTrue:
		return "true"
	case TokenVar:
		return "var"
	case TokenWhile:
		return "while"
	case TokenAssign:
		return "="
	case TokenPlusAssign:
		return "+="
	case TokenMinusAssign:
		return "-="
	case TokenStarAssign:
		return "*="
	case TokenSlashAssign:
		return "/="
	case TokenEqualEqual:
		return "=="
	case TokenBangEqual:
		return "!="
	case TokenPlus:
		return "+"
	case TokenMinus:
		return "-"
	case TokenPlusPlus:
		return "++"
	case TokenMinusMinus:
		return "--"
	case TokenStar:
		return "*"
	case TokenSlash:
		return "/"
	case TokenLess:
		return "<"
	case TokenLessEqual:
		return "<="
	case TokenGreater:
		return ">"
	case TokenGreaterEqual:
		return ">="
	case TokenBang:
		return "!"
	case TokenQuestion:
		return "?"
	case TokenColon:
		return ":"
	case TokenComma:
		return ","
	case TokenDot:
		return "."
	case TokenSemicolon:
		return ";"
	case TokenLParen:
		return "("
	case TokenRParen:
		return ")"
	case TokenLBrace:
		return "{"
	case TokenRBrace:
		return "}"
	default:
		return "unknown"
	}
}

// Position tracks a source location within a plam source file.
type Position struct {
	Offset int // zero-based byte offset
	Line   int // one-based line number
	Column int // one-based column number (rune count)
}

// Token is a single lexical unit produced by the lexer.
type Token struct {
	Type   TokenType
	Lexeme string      // source text of the token
	Value  interface{} // decoded literal: float64 for numbers, string for strings
	Pos    Position
}

// Line returns the one-based source line the token started on.
func (t Token) Line() int {
	return t.Pos.Line
}

// NewToken builds a token outside the lexer, mostly for hosts and tests that
// construct syntax trees by hand.
func NewToken(tt TokenType, lexeme string, line int) Token {
	return Token{
		Type:   tt,
		Lexeme: lexeme,
		Pos:    Position{Line: line},
	}
}
