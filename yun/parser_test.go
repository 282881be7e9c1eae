package yun

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func parseSource(t *testing.T, source string) []Stmt {
	t.Helper()
	tokens, err := ScanTokens(source)
	if err != nil {
		t.Fatalf("scan failed: %v", err)
	}
	stmts, err := Parse(tokens)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	return stmts
}

func parseErrors(t *testing.T, source string) []string {
	t.Helper()
	tokens, err := ScanTokens(source)
	if err != nil {
		t.Fatalf("scan failed: %v", err)
	}
	_, err = Parse(tokens)
	var diags DiagnosticList
	if !errors.As(err, &diags) {
		t.Fatalf("expected DiagnosticList, got %T (%v)", err, err)
	}
	msgs := make([]string, len(diags))
	for i, d := range diags {
		msgs[i] = d.Error()
	}
	return msgs
}

// sexpr renders an expression tree with explicit grouping.
func sexpr(expr Expr) string {
	switch e := expr.(type) {
	case *LiteralExpr:
		if e.Value.Kind() == KindString {
			return fmt.Sprintf("%q", e.Value.Str())
		}
		return e.Value.String()
	case *VariableExpr:
		return e.Name.Lexeme
	case *UnaryExpr:
		return fmt.Sprintf("(%s %s)", e.Operator.Lexeme, sexpr(e.Right))
	case *BinaryExpr:
		return fmt.Sprintf("(%s %s %s)", e.Operator.Lexeme, sexpr(e.Left), sexpr(e.Right))
	case *LogicalExpr:
		return fmt.Sprintf("(%s %s %s)", e.Operator.Lexeme, sexpr(e.Left), sexpr(e.Right))
	case *GroupingExpr:
		return fmt.Sprintf("(group %s)", sexpr(e.Inner))
	case *AssignExpr:
		return fmt.Sprintf("(= %s %s)", e.Name.Lexeme, sexpr(e.Value))
	case *CallExpr:
		parts := []string{"call", sexpr(e.Callee)}
		for _, arg := range e.Args {
			parts = append(parts, sexpr(arg))
		}
		return "(" + strings.Join(parts, " ") + ")"
	case *GetExpr:
		if e.Index != nil {
			return fmt.Sprintf("(index %s %s)", sexpr(e.Object), sexpr(e.Index))
		}
		return fmt.Sprintf("(. %s %s)", sexpr(e.Object), e.Name.Lexeme)
	case *SetExpr:
		if e.Index != nil {
			return fmt.Sprintf("(set-index %s %s %s)", sexpr(e.Object), sexpr(e.Index), sexpr(e.Value))
		}
		return fmt.Sprintf("(set %s %s %s)", sexpr(e.Object), e.Name.Lexeme, sexpr(e.Value))
	case *ListExpr:
		parts := []string{"list"}
		for _, el := range e.Elements {
			parts = append(parts, sexpr(el))
		}
		return "(" + strings.Join(parts, " ") + ")"
	case *DictExpr:
		parts := []string{"dict"}
		for _, entry := range e.Entries {
			parts = append(parts, entry.Key+":"+sexpr(entry.Value))
		}
		return "(" + strings.Join(parts, " ") + ")"
	case *FunctionExpr:
		return fmt.Sprintf("(fn/%d)", len(e.Params))
	case *SelfExpr:
		return "self"
	case *SuperExpr:
		return "super." + e.Method.Lexeme
	default:
		return fmt.Sprintf("<%T>", expr)
	}
}

func TestParseExpressionShapes(t *testing.T) {
	cases := []struct {
		source string
		want   string
	}{
		{"1 + 2 * 3;", "(+ 1 (* 2 3))"},
		{"(1 + 2) * 3;", "(* (group (+ 1 2)) 3)"},
		{"a = b = 3;", "(= a (= b 3))"},
		{"-a - -b;", "(- (- a) (- b))"},
		{"!a == b;", "(== (! a) b)"},
		{"a < b == c >= d;", "(== (< a b) (>= c d))"},
		{"a or b and c;", "(or a (and b c))"},
		{"f(1, g(2))(3);", "(call (call f 1 (call g 2)) 3)"},
		{"a.b.c = 1;", "(set (. a b) c 1)"},
		{"xs[i + 1] = xs[0];", "(set-index xs (+ i 1) (index xs 0))"},
		{"obj.items[2].name;", "(. (index (. obj items) 2) name)"},
		{"[1, \"two\", [3],];", "(list 1 \"two\" (list 3))"},
		{"({ a: 1, \"b c\": 2, });", "(group (dict a:1 b c:2))"},
		{"fn(a, b) { return a; }(1, 2);", "(call (fn/2) 1 2)"},
		{"a - b - c;", "(- (- a b) c)"},
	}

	for _, tc := range cases {
		t.Run(tc.source, func(t *testing.T) {
			stmts := parseSource(t, tc.source)
			if len(stmts) != 1 {
				t.Fatalf("expected 1 statement, got %d", len(stmts))
			}
			stmt, ok := stmts[0].(*ExpressionStmt)
			if !ok {
				t.Fatalf("expected expression statement, got %T", stmts[0])
			}
			if got := sexpr(stmt.Expr); got != tc.want {
				t.Fatalf("shape mismatch: got %s, want %s", got, tc.want)
			}
		})
	}
}

func TestParseStatements(t *testing.T) {
	stmts := parseSource(t, `
let a;
let b = 2;
fn add(x, y) { return x + y; }
class Point < Base {
  init(x) { self.x = x; }
  fn norm() { return super.norm(); }
}
if (a) print 1; else { print 2; }
while (b > 0) b = b - 1;
export let c = 3;
use "lib/shapes";
buffer verts = [0, 1];
pipeline main = { shader: "flat" };
render frame = { pipeline: main };
render(frame);
`)

	var kinds []string
	for _, stmt := range stmts {
		kinds = append(kinds, fmt.Sprintf("%T", stmt))
	}
	want := []string{
		"*yun.LetStmt",
		"*yun.LetStmt",
		"*yun.FunctionStmt",
		"*yun.ClassStmt",
		"*yun.IfStmt",
		"*yun.WhileStmt",
		"*yun.ExportStmt",
		"*yun.UseStmt",
		"*yun.DeclarativeStmt",
		"*yun.DeclarativeStmt",
		"*yun.DeclarativeStmt",
		"*yun.ExpressionStmt",
	}
	if diff := cmp.Diff(want, kinds); diff != "" {
		t.Fatalf("statement kinds mismatch (-want +got):\n%s", diff)
	}

	if let := stmts[0].(*LetStmt); let.Initializer != nil {
		t.Fatalf("expected uninitialised let")
	}

	class := stmts[3].(*ClassStmt)
	if class.Superclass == nil || sexpr(class.Superclass) != "Base" {
		t.Fatalf("expected superclass Base, got %v", class.Superclass)
	}
	if len(class.Methods) != 2 || !class.Methods[0].IsInit || class.Methods[1].IsInit {
		t.Fatalf("unexpected methods: %+v", class.Methods)
	}

	ifStmt := stmts[4].(*IfStmt)
	if _, ok := ifStmt.Else.(*BlockStmt); !ok {
		t.Fatalf("expected block else branch, got %T", ifStmt.Else)
	}

	if decl := stmts[10].(*DeclarativeStmt); decl.Keyword.Lexeme != "render" || decl.Name.Lexeme != "frame" {
		t.Fatalf("unexpected declarative statement %+v", decl)
	}
}

func TestParseNodeIDsAreUnique(t *testing.T) {
	stmts := parseSource(t, "print a; print a; print a;")
	seen := map[NodeID]bool{}
	for _, stmt := range stmts {
		expr := stmt.(*PrintStmt).Expr
		if seen[expr.ID()] {
			t.Fatalf("duplicate node id %d", expr.ID())
		}
		seen[expr.ID()] = true
	}
}

func TestParseRecoversAndReportsEveryStatement(t *testing.T) {
	got := parseErrors(t, "print ;\nlet = 2;\nprint 1;\nlet x = (1 + ;\nprint 2")
	want := []string{
		"[1:7] SyntaxError at ';': unexpected token ';'",
		"[2:5] SyntaxError at '=': expected identifier, got '='",
		"[4:14] SyntaxError at ';': unexpected token ';'",
		"[5:8] SyntaxError at end: expected ';', got end of input",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("diagnostics mismatch (-want +got):\n%s", diff)
	}
}

func TestParseRecoversInsideBlocks(t *testing.T) {
	got := parseErrors(t, "fn f() {\n  print ;\n  let y = 2;\n  return y +;\n}\nprint f();")
	want := []string{
		"[2:9] SyntaxError at ';': unexpected token ';'",
		"[4:13] SyntaxError at ';': unexpected token ';'",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("diagnostics mismatch (-want +got):\n%s", diff)
	}
}

func TestParseInvalidAssignmentTarget(t *testing.T) {
	got := parseErrors(t, "1 + 2 = 3;")
	want := []string{"[1:7] SyntaxError at '=': invalid assignment target"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("diagnostics mismatch (-want +got):\n%s", diff)
	}
}

func TestParseTooManyArguments(t *testing.T) {
	args := make([]string, maxCallArgs+1)
	for i := range args {
		args[i] = "1"
	}
	got := parseErrors(t, "f("+strings.Join(args, ", ")+");")
	if len(got) != 1 || !strings.Contains(got[0], "too many arguments") {
		t.Fatalf("unexpected diagnostics: %v", got)
	}
}

func TestParseMissingClosingBrace(t *testing.T) {
	got := parseErrors(t, "fn f() { print 1;")
	if len(got) == 0 || !strings.Contains(got[len(got)-1], "expected '}'") {
		t.Fatalf("unexpected diagnostics: %v", got)
	}
}

func FuzzParseDoesNotPanic(f *testing.F) {
	f.Add("")
	f.Add("let x = 1; print x;")
	f.Add("class A < { init( }")
	f.Add("fn (,) { return; ")
	f.Add("[1, 2,, ]; {a: }")

	f.Fuzz(func(t *testing.T, source string) {
		_, _ = Compile(source)
	})
}
