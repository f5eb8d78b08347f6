package parser

import (
	"strconv"
	"strings"
)

// FormatExpr renders an expression in fully parenthesised prefix form, e.g.
// (* (- 123) (group 45.67)).
func FormatExpr(expr Expr) string {
	switch e := expr.(type) {
	case *LiteralExpr:
		return literalText(e.Value)
	case *VariableExpr:
		return e.Name.Lexeme
	case *AssignExpr:
		return parenthesize("=", e.Name.Lexeme, FormatExpr(e.Value))
	case *TernaryExpr:
		return parenthesize("?:", FormatExpr(e.Cond), FormatExpr(e.First), FormatExpr(e.Second))
	case *LogicalExpr:
		return parenthesize(e.Op.Type.String(), FormatExpr(e.Left), FormatExpr(e.Right))
	case *BinaryExpr:
		return parenthesize(e.Op.Lexeme, FormatExpr(e.Left), FormatExpr(e.Right))
	case *UnaryExpr:
		return parenthesize(e.Op.Lexeme, FormatExpr(e.Right))
	case *GroupingExpr:
		return parenthesize("group", FormatExpr(e.Inner))
	case *CallExpr:
		parts := []string{FormatExpr(e.Callee)}
		for _, arg := range e.Args {
			parts = append(parts, FormatExpr(arg))
		}
		return parenthesize("call", parts...)
	default:
		return "<unknown expr>"
	}
}

// FormatStmt renders a statement in the same prefix form as FormatExpr.
func FormatStmt(stmt Stmt) string {
	switch s := stmt.(type) {
	case *ExprStmt:
		return parenthesize(";", FormatExpr(s.Expr))
	case *PrintStmt:
		return parenthesize("print", FormatExpr(s.Expr))
	case *VarStmt:
		if s.Init == nil {
			return parenthesize("var", s.Name.Lexeme)
		}
		return parenthesize("var", s.Name.Lexeme, FormatExpr(s.Init))
	case *BlockStmt:
		return parenthesize("block", printStmts(s.Stmts)...)
	case *IfStmt:
		if s.Else == nil {
			return parenthesize("if", FormatExpr(s.Cond), FormatStmt(s.Then))
		}
		return parenthesize("if", FormatExpr(s.Cond), FormatStmt(s.Then), FormatStmt(s.Else))
	case *WhileStmt:
		if s.Post == nil {
			return parenthesize("while", FormatExpr(s.Cond), FormatStmt(s.Body))
		}
		return parenthesize("while", FormatExpr(s.Cond), FormatStmt(s.Body), FormatStmt(s.Post))
	case *BreakStmt:
		return "(break)"
	case *ContinueStmt:
		return "(continue)"
	case *FuncStmt:
		params := make([]string, len(s.Params))
		for i, param := range s.Params {
			params[i] = param.Lexeme
		}
		parts := []string{s.Name.Lexeme, "(" + strings.Join(params, " ") + ")"}
		return parenthesize("fn", append(parts, printStmts(s.Body)...)...)
	case *ReturnStmt:
		if s.Result == nil {
			return "(return)"
		}
		return parenthesize("return", FormatExpr(s.Result))
	default:
		return "<unknown stmt>"
	}
}

func printStmts(stmts []Stmt) []string {
	out := make([]string, len(stmts))
	for i, stmt := range stmts {
		out[i] = FormatStmt(stmt)
	}
	return out
}

func parenthesize(name string, parts ...string) string {
	var b strings.Builder
	b.WriteByte('(')
	b.WriteString(name)
	for _, part := range parts {
		b.WriteByte(' ')
		b.WriteString(part)
	}
	b.WriteByte(')')
	return b.String()
}

func literalText(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return "null"
	case bool:
		return strconv.FormatBool(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case string:
		return strconv.Quote(val)
	default:
		return "<literal>"
	}
}
