package parser

// Expr represents an expression node. The set of implementations is closed:
// only types in this package satisfy it.
type Expr interface {
	Pos() Position
	exprNode()
}

// Stmt represents a statement node.
type Stmt interface {
	Pos() Position
	stmtNode()
}

// LiteralExpr is a constant: float64, string, bool or nil for null.
type LiteralExpr struct {
	Value interface{}
	Posn  Position
}

func (e *LiteralExpr) Pos() Position { return e.Posn }
func (*LiteralExpr) exprNode()       {}

// VariableExpr reads a named binding.
type VariableExpr struct {
	Name Token
}

func (e *VariableExpr) Pos() Position { return e.Name.Pos }
func (*VariableExpr) exprNode()       {}

// AssignExpr stores a value into an existing binding and yields it.
type AssignExpr struct {
	Name  Token
	Value Expr
}

func (e *AssignExpr) Pos() Position { return e.Name.Pos }
func (*AssignExpr) exprNode()       {}

// TernaryExpr is cond ? first : second.
type TernaryExpr struct {
	Cond   Expr
	First  Expr
	Second Expr
}

func (e *TernaryExpr) Pos() Position { return e.Cond.Pos() }
func (*TernaryExpr) exprNode()       {}

// LogicalExpr is a short-circuiting and/or.
type LogicalExpr struct {
	Left  Expr
	Op    Token
	Right Expr
}

func (e *LogicalExpr) Pos() Position { return e.Op.Pos }
func (*LogicalExpr) exprNode()       {}

// BinaryExpr represents infix operator application.
type BinaryExpr struct {
	Left  Expr
	Op    Token
	Right Expr
}

func (e *BinaryExpr) Pos() Position { return e.Op.Pos }
func (*BinaryExpr) exprNode()       {}

// UnaryExpr represents prefix operator application.
type UnaryExpr struct {
	Op    Token
	Right Expr
}

func (e *UnaryExpr) Pos() Position { return e.Op.Pos }
func (*UnaryExpr) exprNode()       {}

// GroupingExpr is a parenthesised expression.
type GroupingExpr struct {
	Inner Expr
}

func (e *GroupingExpr) Pos() Position { return e.Inner.Pos() }
func (*GroupingExpr) exprNode()       {}

// CallExpr invokes an expression with arguments. Paren is the closing
// parenthesis, used to locate call errors.
type CallExpr struct {
	Callee Expr
	Paren  Token
	Args   []Expr
}

func (e *CallExpr) Pos() Position { return e.Paren.Pos }
func (*CallExpr) exprNode()       {}

// ExprStmt evaluates an expression for side-effects.
type ExprStmt struct {
	Expr Expr
}

func (s *ExprStmt) Pos() Position { return s.Expr.Pos() }
func (*ExprStmt) stmtNode()       {}

// PrintStmt writes the stringified value of Expr. The surface syntax reaches
// printing through the print built-in; the node remains for hosts that build
// trees directly.
type PrintStmt struct {
	Expr Expr
}

func (s *PrintStmt) Pos() Position { return s.Expr.Pos() }
func (*PrintStmt) stmtNode()       {}

// VarStmt declares a binding, optionally initialised.
type VarStmt struct {
	Name Token
	Init Expr // may be nil
}

func (s *VarStmt) Pos() Position { return s.Name.Pos }
func (*VarStmt) stmtNode()       {}

// BlockStmt is a braced block introducing a new scope.
type BlockStmt struct {
	Stmts []Stmt
	Posn  Position
}

func (s *BlockStmt) Pos() Position { return s.Posn }
func (*BlockStmt) stmtNode()       {}

// IfStmt conditionally executes branches.
type IfStmt struct {
	Cond Expr
	Then Stmt
	Else Stmt // may be nil
	Posn Position
}

func (s *IfStmt) Pos() Position { return s.Posn }
func (*IfStmt) stmtNode()       {}

// WhileStmt repeats Body while Cond is truthy. Post, when present, runs after
// every iteration including those cut short by continue.
type WhileStmt struct {
	Cond Expr
	Body Stmt
	Post Stmt // may be nil
	Posn Position
}

func (s *WhileStmt) Pos() Position { return s.Posn }
func (*WhileStmt) stmtNode()       {}

// BreakStmt leaves the innermost loop.
type BreakStmt struct {
	Keyword Token
}

func (s *BreakStmt) Pos() Position { return s.Keyword.Pos }
func (*BreakStmt) stmtNode()       {}

// ContinueStmt skips to the next iteration of the innermost loop.
type ContinueStmt struct {
	Keyword Token
}

func (s *ContinueStmt) Pos() Position { return s.Keyword.Pos }
func (*ContinueStmt) stmtNode()       {}

// FuncStmt declares a named function.
type FuncStmt struct {
	Name   Token
	Params []Token
	Body   []Stmt
}

func (s *FuncStmt) Pos() Position { return s.Name.Pos }
func (*FuncStmt) stmtNode()       {}

// ReturnStmt exits the current function, optionally with a value.
type ReturnStmt struct {
	Keyword Token
	Result  Expr // may be nil
}

func (s *ReturnStmt) Pos() Position { return s.Keyword.Pos }
func (*ReturnStmt) stmtNode()       {}
