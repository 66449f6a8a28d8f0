package internal

import (
	"fmt"
	"strings"
)

// printExprTree renders x in parenthesized prefix form, e.g. (* (- 123) (group 45.67))
func printExprTree(x expr) string {
	switch x := x.(type) {
	case *literalExpr:
		if s, ok := x.value.(string); ok {
			return fmt.Sprintf("%q", s)
		}
		return stringify(x.value)
	case *groupingExpr:
		return parenthesize("group", x.expression)
	case *unaryExpr:
		return parenthesize(x.operator.lexeme, x.right)
	case *binaryExpr:
		return parenthesize(x.operator.lexeme, x.left, x.right)
	case *logicalExpr:
		return parenthesize(x.operator.lexeme, x.left, x.right)
	case *variableExpr:
		return x.name.lexeme
	case *assignExpr:
		return parenthesize("= "+x.name.lexeme, x.value)
	case *callExpr:
		return parenthesize("call "+printExprTree(x.callee), x.arguments...)
	case *getExpr:
		return parenthesize(". "+x.name.lexeme, x.object)
	case *setExpr:
		return parenthesize("= . "+x.name.lexeme, x.object, x.value)
	case *thisExpr:
		return "this"
	}
	panic(fmt.Sprintf("unexpected expression %T", x))
}

func parenthesize(name string, exprs ...expr) string {
	var b strings.Builder
	b.WriteString("(")
	b.WriteString(name)
	for _, x := range exprs {
		b.WriteString(" ")
		b.WriteString(printExprTree(x))
	}
	b.WriteString(")")
	return b.String()
}

func printStmtTree(s stmt) string {
	switch s := s.(type) {
	case *exprStmt:
		return "(; " + printExprTree(s.expression) + ")"
	case *printStmt:
		return "(print " + printExprTree(s.expression) + ")"
	case *varStmt:
		if s.initializer == nil {
			return "(var " + s.name.lexeme + ")"
		}
		return "(var " + s.name.lexeme + " " + printExprTree(s.initializer) + ")"
	case *blockStmt:
		return "(block" + printStmtList(s.stmts) + ")"
	case *ifStmt:
		out := "(if " + printExprTree(s.condition) + " " + printStmtTree(s.thenBranch)
		if s.elseBranch != nil {
			out += " " + printStmtTree(s.elseBranch)
		}
		return out + ")"
	case *whileStmt:
		return "(while " + printExprTree(s.condition) + " " + printStmtTree(s.body) + ")"
	case *fnStmt:
		return printFn(s)
	case *returnStmt:
		if s.value == nil {
			return "(return)"
		}
		return "(return " + printExprTree(s.value) + ")"
	case *classStmt:
		out := "(class " + s.name.lexeme
		for _, m := range s.methods {
			out += " " + printFn(m)
		}
		return out + ")"
	}
	panic(fmt.Sprintf("unexpected statement %T", s))
}

func printFn(s *fnStmt) string {
	params := make([]string, len(s.params))
	for i, p := range s.params {
		params[i] = p.lexeme
	}
	return "(fun " + s.name.lexeme + " (" + strings.Join(params, " ") + ")" + printStmtList(s.body) + ")"
}

func printStmtList(stmts []stmt) string {
	out := ""
	for _, s := range stmts {
		out += " " + printStmtTree(s)
	}
	return out
}

// printRPN renders x in reverse Polish notation, e.g. 1 2 + 4 3 - *.
// Unary minus is written as "neg" to keep it apart from subtraction.
func printRPN(x expr) string {
	switch x := x.(type) {
	case *groupingExpr:
		return printRPN(x.expression)
	case *unaryExpr:
		op := x.operator.lexeme
		if x.operator.token == tkMinus {
			op = "neg"
		}
		return printRPN(x.right) + " " + op
	case *binaryExpr:
		return printRPN(x.left) + " " + printRPN(x.right) + " " + x.operator.lexeme
	case *logicalExpr:
		return printRPN(x.left) + " " + printRPN(x.right) + " " + x.operator.lexeme
	}
	return printExprTree(x)
}
