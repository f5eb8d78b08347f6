package parser

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Scan converts source text into tokens. The returned slice always ends with
// an EOF token. Lexical errors do not stop the scan; they are collected and
// returned together as an ErrorList.
func Scan(src string) ([]Token, error) {
	lx := newLexer(src)
	var tokens []Token
	for {
		tok, err := lx.nextToken()
		if err != nil {
			lx.errs = append(lx.errs, asError(err, tok))
			continue
		}
		tokens = append(tokens, tok)
		if tok.Type == TokenEOF {
			break
		}
	}
	return tokens, lx.errs.Err()
}

type lexer struct {
	src    string
	pos    int
	line   int
	column int

	errs ErrorList
}

func newLexer(src string) *lexer {
	return &lexer{
		src:    src,
		line:   1,
		column: 1,
	}
}

type runeState struct {
	pos    int
	line   int
	column int
}

func (lx *lexer) mark() runeState {
	return runeState{
		pos:    lx.pos,
		line:   lx.line,
		column: lx.column,
	}
}

func (lx *lexer) restore(state runeState) {
	lx.pos = state.pos
	lx.line = state.line
	lx.column = state.column
}

func (lx *lexer) readRune() (rune, runeState, error) {
	if lx.pos >= len(lx.src) {
		return 0, lx.mark(), io.EOF
	}
	state := lx.mark()
	r, w := utf8.DecodeRuneInString(lx.src[lx.pos:])
	lx.pos += w
	if r == utf8.RuneError && w == 1 {
		lx.column++
		return 0, state, fmt.Errorf("Invalid UTF-8 encoding at byte %d.", state.pos)
	}
	if r == '\n' {
		lx.line++
		lx.column = 1
	} else {
		lx.column++
	}
	return r, state, nil
}

func (lx *lexer) unread(state runeState) {
	lx.restore(state)
}

func (lx *lexer) skipWhitespace() error {
	for {
		r, state, err := lx.readRune()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			lx.unread(state)
			return nil
		}
		switch {
		case unicode.IsSpace(r):
			continue
		case r == '/':
			next, nextState, err := lx.readRune()
			if err == io.EOF {
				lx.unread(state)
				return nil
			}
			if next == '/' && err == nil {
				lx.skipLine()
				continue
			}
			if next == '*' && err == nil {
				if err := lx.skipBlockComment(); err != nil {
					return err
				}
				continue
			}
			lx.unread(nextState)
			lx.unread(state)
			return nil
		default:
			lx.unread(state)
			return nil
		}
	}
}

func (lx *lexer) skipLine() {
	for {
		r, _, err := lx.readRune()
		if err == io.EOF || r == '\n' {
			return
		}
	}
}

func (lx *lexer) skipBlockComment() error {
	for {
		r, _, err := lx.readRune()
		if err == io.EOF {
			return newIncompleteError(errors.New("Unterminated block comment."))
		}
		if r == '*' {
			next, state, err := lx.readRune()
			if err == io.EOF {
				return newIncompleteError(errors.New("Unterminated block comment."))
			}
			if next == '/' {
				return nil
			}
			lx.unread(state)
		}
	}
}

func (lx *lexer) nextToken() (Token, error) {
	if err := lx.skipWhitespace(); err != nil {
		return lx.eofToken(), err
	}

	start := lx.mark()
	r, _, err := lx.readRune()
	if err == io.EOF {
		return lx.eofToken(), nil
	}
	if err != nil {
		return illegalToken(start, err)
	}

	switch {
	case isIdentifierStart(r):
		lexeme := lx.scanIdentifier(r)
		return makeIdentifierToken(lexeme, start), nil
	case isDigit(r):
		lexeme := lx.scanNumber(r)
		value, err := strconv.ParseFloat(lexeme, 64)
		if err != nil {
			return illegalToken(start, fmt.Errorf("Invalid number literal '%s'.", lexeme))
		}
		return Token{
			Type:   TokenNumber,
			Lexeme: lexeme,
			Value:  value,
			Pos:    positionFromState(start),
		}, nil
	case r == '"':
		value, err := lx.scanString()
		if err != nil {
			return illegalToken(start, err)
		}
		return Token{
			Type:   TokenString,
			Lexeme: lx.src[start.pos:lx.pos],
			Value:  value,
			Pos:    positionFromState(start),
		}, nil
	}

	var tt TokenType
	switch r {
	case '+':
		if lx.match('+') {
			tt = TokenPlusPlus
		} else if lx.match('=') {
			tt = TokenPlusAssign
		} else {
			tt = TokenPlus
		}
	case '-':
		if lx.match('-') {
			tt = TokenMinusMinus
		} else if lx.match('=') {
			tt = TokenMinusAssign
		} else {
			tt = TokenMinus
		}
	case '*':
		if lx.match('=') {
			tt = TokenStarAssign
		} else {
			tt = TokenStar
		}
	case '/':
		if lx.match('=') {
			tt = TokenSlashAssign
		} else {
			tt = TokenSlash
		}
	case '(':
		tt = TokenLParen
	case ')':
		tt = TokenRParen
	case '{':
		tt = TokenLBrace
	case '}':
		tt = TokenRBrace
	case ',':
		tt = TokenComma
	case '.':
		tt = TokenDot
	case ';':
		tt = TokenSemicolon
	case '?':
		tt = TokenQuestion
	case ':':
		tt = TokenColon
	case '=':
		if lx.match('=') {
			tt = TokenEqualEqual
		} else {
			tt = TokenAssign
		}
	case '!':
		if lx.match('=') {
			tt = TokenBangEqual
		} else {
			tt = TokenBang
		}
	case '<':
		if lx.match('=') {
			tt = TokenLessEqual
		} else {
			tt = TokenLess
		}
	case '>':
		if lx.match('=') {
			tt = TokenGreaterEqual
		} else {
			tt = TokenGreater
		}
	case '&':
		if !lx.match('&') {
			return illegalToken(start, errors.New("Unexpected character '&'."))
		}
		tt = TokenAnd
	case '|':
		if !lx.match('|') {
			return illegalToken(start, errors.New("Unexpected character '|'."))
		}
		tt = TokenOr
	default:
		return illegalToken(start, fmt.Errorf("Unexpected character '%c'.", r))
	}

	return Token{
		Type:   tt,
		Lexeme: lx.src[start.pos:lx.pos],
		Pos:    positionFromState(start),
	}, nil
}

func (lx *lexer) eofToken() Token {
	return Token{
		Type: TokenEOF,
		Pos: Position{
			Offset: lx.pos,
			Line:   lx.line,
			Column: lx.column,
		},
	}
}

func (lx *lexer) match(expected rune) bool {
	r, state, err := lx.readRune()
	if err != nil {
		lx.unread(state)
		return false
	}
	if r != expected {
		lx.unread(state)
		return false
	}
	return true
}

func (lx *lexer) peekRune(offset int) rune {
	state := lx.mark()
	defer lx.restore(state)
	var r rune
	for i := 0; i <= offset; i++ {
		next, _, err := lx.readRune()
		if err != nil {
			return 0
		}
		r = next
	}
	return r
}

func isIdentifierStart(r rune) bool {
	return unicode.IsLetter(r) || r == '_'
}

func isIdentifierPart(r rune) bool {
	return isIdentifierStart(r) || isDigit(r)
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func (lx *lexer) scanIdentifier(initial rune) string {
	var builder strings.Builder
	builder.WriteRune(initial)
	for {
		r, state, err := lx.readRune()
		if err != nil || !isIdentifierPart(r) {
			lx.unread(state)
			break
		}
		builder.WriteRune(r)
	}
	return builder.String()
}

// scanNumber reads digits with an optional fractional part. A trailing dot
// without digits after it is left for the next token.
func (lx *lexer) scanNumber(initial rune) string {
	var builder strings.Builder
	builder.WriteRune(initial)
	seenDot := false
	for {
		r, state, err := lx.readRune()
		if err != nil {
			lx.unread(state)
			break
		}
		if isDigit(r) {
			builder.WriteRune(r)
			continue
		}
		if r == '.' && !seenDot && isDigit(lx.peekRune(0)) {
			seenDot = true
			builder.WriteRune(r)
			continue
		}
		lx.unread(state)
		break
	}
	return builder.String()
}

// scanString reads up to the closing quote. A malformed byte inside the
// literal is reported once the whole literal has been consumed, so scanning
// resumes after it.
func (lx *lexer) scanString() (string, error) {
	var (
		builder strings.Builder
		badByte error
	)
	for {
		r, _, err := lx.readRune()
		if err == io.EOF {
			return "", newIncompleteError(errors.New("Unterminated string."))
		}
		if err != nil {
			if badByte == nil {
				badByte = err
			}
			builder.WriteRune(utf8.RuneError)
			continue
		}
		if r == '"' {
			break
		}
		if r == '\\' {
			esc, _, err := lx.readRune()
			if err == io.EOF {
				return "", newIncompleteError(errors.New("Unterminated string."))
			}
			if err != nil {
				if badByte == nil {
					badByte = err
				}
				builder.WriteRune(utf8.RuneError)
				continue
			}
			switch esc {
			case 'n':
				builder.WriteRune('\n')
			case 't':
				builder.WriteRune('\t')
			case '\\':
				builder.WriteRune('\\')
			case '"':
				builder.WriteRune('"')
			default:
				builder.WriteRune(esc)
			}
			continue
		}
		builder.WriteRune(r)
	}
	if badByte != nil {
		return "", badByte
	}
	return builder.String(), nil
}

func makeIdentifierToken(lexeme string, start runeState) Token {
	tt := TokenIdentifier
	if keywordType, ok := keywordToken(lexeme); ok {
		tt = keywordType
	}
	return Token{
		Type:   tt,
		Lexeme: lexeme,
		Pos:    positionFromState(start),
	}
}

func keywordToken(lexeme string) (TokenType, bool) {
	switch lexeme {
	case "and":
		return TokenAnd, true
	case "break":
		return TokenBreak, true
	case "class":
		return TokenClass, true
	case "continue":
		return TokenContinue, true
	case "else":
		return TokenElse, true
	case "false":
		return TokenFalse, true
	case "fn":
		return TokenFn, true
	case "for":
		return TokenFor, true
	case "if":
		return TokenIf, true
	case "null":
		return TokenNull, true
	case "or":
		return TokenOr, true
	case "return":
		return TokenReturn, true
	case "super":
		return TokenSuper, true
	case "this":
		return TokenThis, true
	case "true":
		return TokenTrue, true
	case "var":
		return TokenVar, true
	case "while":
		return TokenWhile, true
	default:
		return TokenIllegal, false
	}
}

func illegalToken(start runeState, err error) (Token, error) {
	return Token{
		Type: TokenIllegal,
		Pos:  positionFromState(start),
	}, err
}

func positionFromState(state runeState) Position {
	return Position{
		Offset: state.pos,
		Line:   state.line,
		Column: state.column,
	}
}
