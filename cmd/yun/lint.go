package main

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/mgomes/yunscript/yun"
)

type lintWarning struct {
	Function string
	Pos      yun.Position
	Message  string
}

const topLevel = "<script>"

// logLint reports lint warnings for a freshly compiled script. Warnings
// never stop the run.
func logLint(logger *slog.Logger, name string, script *yun.Script) {
	for _, w := range lintScript(script) {
		logger.Warn(w.Message,
			"at", fmt.Sprintf("%s:%d:%d", name, w.Pos.Line, w.Pos.Column),
			"function", w.Function,
		)
	}
}

func lintScript(script *yun.Script) []lintWarning {
	warnings := make([]lintWarning, 0)
	lintStatements(topLevel, script.Statements(), &warnings)

	sort.SliceStable(warnings, func(i, j int) bool {
		if warnings[i].Pos.Line != warnings[j].Pos.Line {
			return warnings[i].Pos.Line < warnings[j].Pos.Line
		}
		if warnings[i].Pos.Column != warnings[j].Pos.Column {
			return warnings[i].Pos.Column < warnings[j].Pos.Column
		}
		return warnings[i].Function < warnings[j].Function
	})

	return warnings
}

func lintStatements(function string, statements []yun.Stmt, warnings *[]lintWarning) bool {
	terminated := false
	for _, stmt := range statements {
		if terminated {
			*warnings = append(*warnings, lintWarning{
				Function: function,
				Pos:      stmt.Pos(),
				Message:  "unreachable statement",
			})
			continue
		}
		if statementTerminates(function, stmt, warnings) {
			terminated = true
		}
	}
	return terminated
}

func statementTerminates(function string, stmt yun.Stmt, warnings *[]lintWarning) bool {
	switch typed := stmt.(type) {
	case *yun.ReturnStmt:
		lintExpr(function, typed.Value, warnings)
		return true
	case *yun.ExpressionStmt:
		lintExpr(function, typed.Expr, warnings)
		return callsNoReturn(typed.Expr)
	case *yun.PrintStmt:
		lintExpr(function, typed.Expr, warnings)
	case *yun.LetStmt:
		lintExpr(function, typed.Initializer, warnings)
	case *yun.DeclarativeStmt:
		lintExpr(function, typed.Value, warnings)
	case *yun.BlockStmt:
		return lintStatements(function, typed.Statements, warnings)
	case *yun.IfStmt:
		lintExpr(function, typed.Condition, warnings)
		thenTerminated := statementTerminates(function, typed.Then, warnings)
		if typed.Else == nil {
			return false
		}
		elseTerminated := statementTerminates(function, typed.Else, warnings)
		return thenTerminated && elseTerminated
	case *yun.WhileStmt:
		lintExpr(function, typed.Condition, warnings)
		statementTerminates(function, typed.Body, warnings)
	case *yun.FunctionStmt:
		lintStatements(typed.Name.Lexeme, typed.Body, warnings)
	case *yun.ClassStmt:
		for _, method := range typed.Methods {
			lintStatements(typed.Name.Lexeme+"."+method.Name.Lexeme, method.Body, warnings)
		}
	case *yun.ExportStmt:
		return statementTerminates(function, typed.Inner, warnings)
	}
	return false
}

// callsNoReturn reports calls to natives that never come back.
func callsNoReturn(expr yun.Expr) bool {
	call, ok := expr.(*yun.CallExpr)
	if !ok {
		return false
	}
	callee, ok := call.Callee.(*yun.VariableExpr)
	if !ok {
		return false
	}
	switch callee.Name.Lexeme {
	case "panic", "exit", "exitWithCode":
		return true
	}
	return false
}

// lintExpr looks for anonymous functions inside expressions.
func lintExpr(function string, expr yun.Expr, warnings *[]lintWarning) {
	switch typed := expr.(type) {
	case nil:
	case *yun.FunctionExpr:
		lintStatements(function+".<fn>", typed.Body, warnings)
	case *yun.UnaryExpr:
		lintExpr(function, typed.Right, warnings)
	case *yun.BinaryExpr:
		lintExpr(function, typed.Left, warnings)
		lintExpr(function, typed.Right, warnings)
	case *yun.LogicalExpr:
		lintExpr(function, typed.Left, warnings)
		lintExpr(function, typed.Right, warnings)
	case *yun.GroupingExpr:
		lintExpr(function, typed.Inner, warnings)
	case *yun.AssignExpr:
		lintExpr(function, typed.Value, warnings)
	case *yun.CallExpr:
		lintExpr(function, typed.Callee, warnings)
		for _, arg := range typed.Args {
			lintExpr(function, arg, warnings)
		}
	case *yun.GetExpr:
		lintExpr(function, typed.Object, warnings)
		lintExpr(function, typed.Index, warnings)
	case *yun.SetExpr:
		lintExpr(function, typed.Object, warnings)
		lintExpr(function, typed.Index, warnings)
		lintExpr(function, typed.Value, warnings)
	case *yun.ListExpr:
		for _, el := range typed.Elements {
			lintExpr(function, el, warnings)
		}
	case *yun.DictExpr:
		for _, entry := range typed.Entries {
			lintExpr(function, entry.Value, warnings)
		}
	}
}
