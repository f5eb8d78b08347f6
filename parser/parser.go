package parser

import "fmt"

// maxArgs bounds parameter and argument lists.
const maxArgs = 255

// Parser turns a token sequence into statements by recursive descent, one
// method per precedence level.
type Parser struct {
	tokens  []Token
	current int
	blocks  int // nesting depth of brace-delimited blocks being parsed
	errs    ErrorList
}

// NewParser prepares a parser over tokens. A missing EOF terminator is added.
func NewParser(tokens []Token) *Parser {
	if n := len(tokens); n == 0 || tokens[n-1].Type != TokenEOF {
		eof := Token{Type: TokenEOF}
		if n > 0 {
			eof.Pos = tokens[n-1].Pos
		}
		tokens = append(tokens[:n:n], eof)
	}
	return &Parser{tokens: tokens}
}

// Parse consumes the whole token sequence. Malformed declarations are
// reported and skipped up to the next statement boundary, so the returned
// error may hold several independent diagnostics.
func (p *Parser) Parse() ([]Stmt, error) {
	var stmts []Stmt
	for !p.isAtEnd() {
		if stmt := p.declaration(); stmt != nil {
			stmts = append(stmts, stmt)
		}
	}
	return stmts, p.errs.Err()
}

func (p *Parser) peek() Token {
	return p.tokens[p.current]
}

func (p *Parser) previous() Token {
	return p.tokens[p.current-1]
}

func (p *Parser) isAtEnd() bool {
	return p.peek().Type == TokenEOF
}

func (p *Parser) check(tt TokenType) bool {
	if p.isAtEnd() {
		return false
	}
	return p.peek().Type == tt
}

func (p *Parser) advance() Token {
	if !p.isAtEnd() {
		p.current++
	}
	return p.previous()
}

func (p *Parser) match(types ...TokenType) bool {
	for _, tt := range types {
		if p.check(tt) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *Parser) consume(tt TokenType, msg string) (Token, error) {
	if p.check(tt) {
		return p.advance(), nil
	}
	return Token{}, p.errorAt(p.peek(), msg)
}

// errorAt records a diagnostic and returns it so the caller can unwind.
// Callers that can carry on simply ignore the result.
func (p *Parser) errorAt(tok Token, msg string) error {
	err := &Error{
		Tok:        tok,
		Msg:        msg,
		Incomplete: tok.Type == TokenEOF,
	}
	p.errs = append(p.errs, err)
	return err
}

// synchronize discards tokens until a likely statement boundary. Inside a
// block it stops before the closing brace so the block still ends there.
func (p *Parser) synchronize() {
	if p.closesBlock() {
		return
	}
	p.advance()
	for !p.isAtEnd() {
		if p.closesBlock() {
			return
		}
		if p.previous().Type == TokenSemicolon {
			return
		}
		switch p.peek().Type {
		case TokenClass, TokenFn, TokenVar, TokenFor, TokenIf, TokenWhile,
			TokenReturn, TokenBreak, TokenContinue:
			return
		}
		p.advance()
	}
}

func (p *Parser) closesBlock() bool {
	return p.blocks > 0 && p.check(TokenRBrace)
}

func (p *Parser) declaration() Stmt {
	stmt, err := p.parseDeclaration()
	if err != nil {
		p.synchronize()
		return nil
	}
	return stmt
}

func (p *Parser) parseDeclaration() (Stmt, error) {
	switch {
	case p.match(TokenVar):
		return p.varDeclaration()
	case p.match(TokenFn):
		return p.function("function")
	case p.match(TokenClass):
		p.skipClass(p.previous())
		return nil, nil
	}
	return p.statement()
}

// skipClass reports the unsupported declaration and steps over its body so
// the methods inside do not produce a cascade of errors.
func (p *Parser) skipClass(classTok Token) {
	p.errorAt(classTok, "Classes are not supported.")
	p.match(TokenIdentifier)
	if !p.match(TokenLBrace) {
		return
	}
	depth := 1
	for depth > 0 && !p.isAtEnd() {
		switch p.advance().Type {
		case TokenLBrace:
			depth++
		case TokenRBrace:
			depth--
		}
	}
}

func (p *Parser) varDeclaration() (Stmt, error) {
	name, err := p.consume(TokenIdentifier, "Expected variable name.")
	if err != nil {
		return nil, err
	}
	var init Expr
	if p.match(TokenAssign) {
		init, err = p.expression()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.consume(TokenSemicolon, "Expected ';' after variable declaration."); err != nil {
		return nil, err
	}
	return &VarStmt{Name: name, Init: init}, nil
}

func (p *Parser) function(kind string) (Stmt, error) {
	name, err := p.consume(TokenIdentifier, fmt.Sprintf("Expected %s name.", kind))
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(TokenLParen, fmt.Sprintf("Expected '(' after %s name.", kind)); err != nil {
		return nil, err
	}
	var params []Token
	if !p.check(TokenRParen) {
		for {
			if len(params) >= maxArgs {
				p.errorAt(p.peek(), fmt.Sprintf("Can't have more than %d parameters.", maxArgs))
			}
			param, err := p.consume(TokenIdentifier, "Expected parameter name.")
			if err != nil {
				return nil, err
			}
			params = append(params, param)
			if !p.match(TokenComma) {
				break
			}
		}
	}
	if _, err := p.consume(TokenRParen, "Expected ')' after parameters."); err != nil {
		return nil, err
	}
	if _, err := p.consume(TokenLBrace, fmt.Sprintf("Expected '{' before %s body.", kind)); err != nil {
		return nil, err
	}
	body, err := p.block()
	if err != nil {
		return nil, err
	}
	return &FuncStmt{Name: name, Params: params, Body: body}, nil
}

func (p *Parser) statement() (Stmt, error) {
	switch {
	case p.match(TokenFor):
		return p.forStatement()
	case p.match(TokenIf):
		return p.ifStatement()
	case p.match(TokenWhile):
		return p.whileStatement()
	case p.match(TokenLBrace):
		brace := p.previous()
		stmts, err := p.block()
		if err != nil {
			return nil, err
		}
		return &BlockStmt{Stmts: stmts, Posn: brace.Pos}, nil
	case p.match(TokenBreak):
		keyword := p.previous()
		if _, err := p.consume(TokenSemicolon, "Expected ';' after 'break'."); err != nil {
			return nil, err
		}
		return &BreakStmt{Keyword: keyword}, nil
	case p.match(TokenContinue):
		keyword := p.previous()
		if _, err := p.consume(TokenSemicolon, "Expected ';' after 'continue'."); err != nil {
			return nil, err
		}
		return &ContinueStmt{Keyword: keyword}, nil
	case p.match(TokenReturn):
		return p.returnStatement()
	}
	return p.expressionStatement()
}

// block parses declarations up to the closing brace; the opening brace has
// already been consumed.
func (p *Parser) block() ([]Stmt, error) {
	p.blocks++
	defer func() { p.blocks-- }()

	var stmts []Stmt
	for !p.check(TokenRBrace) && !p.isAtEnd() {
		if stmt := p.declaration(); stmt != nil {
			stmts = append(stmts, stmt)
		}
	}
	if _, err := p.consume(TokenRBrace, "Expected '}' after block."); err != nil {
		return nil, err
	}
	return stmts, nil
}

// forStatement desugars for(init; cond; incr) body into
// { init; while (cond) body post incr; }.
func (p *Parser) forStatement() (Stmt, error) {
	forTok := p.previous()
	if _, err := p.consume(TokenLParen, "Expected '(' after 'for'."); err != nil {
		return nil, err
	}

	var (
		init Stmt
		err  error
	)
	switch {
	case p.match(TokenSemicolon):
	case p.match(TokenVar):
		init, err = p.varDeclaration()
	default:
		init, err = p.expressionStatement()
	}
	if err != nil {
		return nil, err
	}

	var cond Expr
	if !p.check(TokenSemicolon) {
		if cond, err = p.expression(); err != nil {
			return nil, err
		}
	}
	if _, err := p.consume(TokenSemicolon, "Expected ';' after loop condition."); err != nil {
		return nil, err
	}

	var incr Expr
	if !p.check(TokenRParen) {
		if incr, err = p.expression(); err != nil {
			return nil, err
		}
	}
	if _, err := p.consume(TokenRParen, "Expected ')' after for clauses."); err != nil {
		return nil, err
	}

	body, err := p.statement()
	if err != nil {
		return nil, err
	}

	if cond == nil {
		cond = &LiteralExpr{Value: true, Posn: forTok.Pos}
	}
	loop := &WhileStmt{Cond: cond, Body: body, Posn: forTok.Pos}
	if incr != nil {
		loop.Post = &ExprStmt{Expr: incr}
	}
	if init == nil {
		return loop, nil
	}
	return &BlockStmt{Stmts: []Stmt{init, loop}, Posn: forTok.Pos}, nil
}

func (p *Parser) ifStatement() (Stmt, error) {
	ifTok := p.previous()
	if _, err := p.consume(TokenLParen, "Expected '(' after 'if'."); err != nil {
		return nil, err
	}
	cond, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(TokenRParen, "Expected ')' after if condition."); err != nil {
		return nil, err
	}
	thenBranch, err := p.statement()
	if err != nil {
		return nil, err
	}
	var elseBranch Stmt
	if p.match(TokenElse) {
		if elseBranch, err = p.statement(); err != nil {
			return nil, err
		}
	}
	return &IfStmt{
		Cond: cond,
		Then: thenBranch,
		Else: elseBranch,
		Posn: ifTok.Pos,
	}, nil
}

func (p *Parser) whileStatement() (Stmt, error) {
	whTok := p.previous()
	if _, err := p.consume(TokenLParen, "Expected '(' after 'while'."); err != nil {
		return nil, err
	}
	cond, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(TokenRParen, "Expected ')' after while condition."); err != nil {
		return nil, err
	}
	body, err := p.statement()
	if err != nil {
		return nil, err
	}
	return &WhileStmt{Cond: cond, Body: body, Posn: whTok.Pos}, nil
}

func (p *Parser) returnStatement() (Stmt, error) {
	keyword := p.previous()
	var result Expr
	if !p.check(TokenSemicolon) {
		expr, err := p.expression()
		if err != nil {
			return nil, err
		}
		result = expr
	}
	if _, err := p.consume(TokenSemicolon, "Expected ';' after return value."); err != nil {
		return nil, err
	}
	return &ReturnStmt{Keyword: keyword, Result: result}, nil
}

func (p *Parser) expressionStatement() (Stmt, error) {
	expr, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(TokenSemicolon, "Expected ';' after expression."); err != nil {
		return nil, err
	}
	return &ExprStmt{Expr: expr}, nil
}

func (p *Parser) expression() (Expr, error) {
	return p.assignment()
}

// assignment is right-associative. The target must be a plain variable;
// compound forms rewrite x op= v into x = x op v.
func (p *Parser) assignment() (Expr, error) {
	expr, err := p.ternary()
	if err != nil {
		return nil, err
	}
	if !p.match(TokenAssign, TokenPlusAssign, TokenMinusAssign, TokenStarAssign, TokenSlashAssign) {
		return expr, nil
	}
	equals := p.previous()
	value, err := p.assignment()
	if err != nil {
		return nil, err
	}
	target, ok := expr.(*VariableExpr)
	if !ok {
		p.errorAt(equals, "Invalid assignment target.")
		return expr, nil
	}
	if op, ok := compoundOperator(equals); ok {
		value = &BinaryExpr{Left: target, Op: op, Right: value}
	}
	return &AssignExpr{Name: target.Name, Value: value}, nil
}

func compoundOperator(equals Token) (Token, bool) {
	var tt TokenType
	switch equals.Type {
	case TokenPlusAssign:
		tt = TokenPlus
	case TokenMinusAssign:
		tt = TokenMinus
	case TokenStarAssign:
		tt = TokenStar
	case TokenSlashAssign:
		tt = TokenSlash
	default:
		return Token{}, false
	}
	return Token{Type: tt, Lexeme: tt.String(), Pos: equals.Pos}, true
}

func (p *Parser) ternary() (Expr, error) {
	cond, err := p.logicalOr()
	if err != nil {
		return nil, err
	}
	if !p.match(TokenQuestion) {
		return cond, nil
	}
	first, err := p.ternary()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(TokenColon, "Expected ':' after '?' branch."); err != nil {
		return nil, err
	}
	second, err := p.ternary()
	if err != nil {
		return nil, err
	}
	return &TernaryExpr{Cond: cond, First: first, Second: second}, nil
}

func (p *Parser) logicalOr() (Expr, error) {
	left, err := p.logicalAnd()
	if err != nil {
		return nil, err
	}
	for p.match(TokenOr) {
		op := p.previous()
		right, err := p.logicalAnd()
		if err != nil {
			return nil, err
		}
		left = &LogicalExpr{Left: left, Op: op, Right: right}
	}
	return left, nil
}

func (p *Parser) logicalAnd() (Expr, error) {
	left, err := p.equality()
	if err != nil {
		return nil, err
	}
	for p.match(TokenAnd) {
		op := p.previous()
		right, err := p.equality()
		if err != nil {
			return nil, err
		}
		left = &LogicalExpr{Left: left, Op: op, Right: right}
	}
	return left, nil
}

// binaryLevel parses a left-associative chain of operators of one precedence.
func (p *Parser) binaryLevel(operand func() (Expr, error), ops ...TokenType) (Expr, error) {
	left, err := operand()
	if err != nil {
		return nil, err
	}
	for p.match(ops...) {
		op := p.previous()
		right, err := operand()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Left: left, Op: op, Right: right}
	}
	return left, nil
}

func (p *Parser) equality() (Expr, error) {
	return p.binaryLevel(p.comparison, TokenBangEqual, TokenEqualEqual)
}

func (p *Parser) comparison() (Expr, error) {
	return p.binaryLevel(p.term, TokenGreater, TokenGreaterEqual, TokenLess, TokenLessEqual)
}

func (p *Parser) term() (Expr, error) {
	return p.binaryLevel(p.factor, TokenMinus, TokenPlus)
}

func (p *Parser) factor() (Expr, error) {
	return p.binaryLevel(p.unary, TokenSlash, TokenStar)
}

func (p *Parser) unary() (Expr, error) {
	if p.match(TokenPlusPlus, TokenMinusMinus) {
		return p.increment(p.previous())
	}
	if p.match(TokenBang, TokenMinus) {
		op := p.previous()
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		return &UnaryExpr{Op: op, Right: right}, nil
	}
	return p.call()
}

// increment rewrites ++x and --x into x = x + 1 and x = x - 1.
func (p *Parser) increment(op Token) (Expr, error) {
	name, err := p.consume(TokenIdentifier, fmt.Sprintf("Expected identifier after '%s'.", op.Lexeme))
	if err != nil {
		return nil, err
	}
	arith := TokenPlus
	if op.Type == TokenMinusMinus {
		arith = TokenMinus
	}
	return &AssignExpr{
		Name: name,
		Value: &BinaryExpr{
			Left:  &VariableExpr{Name: name},
			Op:    Token{Type: arith, Lexeme: arith.String(), Pos: op.Pos},
			Right: &LiteralExpr{Value: 1.0, Posn: op.Pos},
		},
	}, nil
}

func (p *Parser) call() (Expr, error) {
	expr, err := p.primary()
	if err != nil {
		return nil, err
	}
	for p.match(TokenLParen) {
		if expr, err = p.finishCall(expr); err != nil {
			return nil, err
		}
	}
	return expr, nil
}

func (p *Parser) finishCall(callee Expr) (Expr, error) {
	var args []Expr
	if !p.check(TokenRParen) {
		for {
			if len(args) >= maxArgs {
				p.errorAt(p.peek(), fmt.Sprintf("Can't have more than %d arguments.", maxArgs))
			}
			arg, err := p.expression()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if !p.match(TokenComma) {
				break
			}
		}
	}
	paren, err := p.consume(TokenRParen, "Expected ')' after arguments.")
	if err != nil {
		return nil, err
	}
	return &CallExpr{Callee: callee, Paren: paren, Args: args}, nil
}

func (p *Parser) primary() (Expr, error) {
	tok := p.peek()
	switch tok.Type {
	case TokenFalse, TokenTrue:
		p.advance()
		return &LiteralExpr{Value: tok.Type == TokenTrue, Posn: tok.Pos}, nil
	case TokenNull:
		p.advance()
		return &LiteralExpr{Value: nil, Posn: tok.Pos}, nil
	case TokenNumber, TokenString:
		p.advance()
		return &LiteralExpr{Value: tok.Value, Posn: tok.Pos}, nil
	case TokenIdentifier:
		p.advance()
		return &VariableExpr{Name: tok}, nil
	case TokenLParen:
		p.advance()
		inner, err := p.expression()
		if err != nil {
			return nil, err
		}
		if _, err := p.consume(TokenRParen, "Expected ')' after expression."); err != nil {
			return nil, err
		}
		return &GroupingExpr{Inner: inner}, nil
	case TokenThis, TokenSuper:
		return nil, p.errorAt(tok, fmt.Sprintf("'%s' is not supported.", tok.Lexeme))
	}
	return nil, p.errorAt(tok, "Expected expression.")
}
