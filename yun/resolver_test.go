package yun

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func resolveErrors(t *testing.T, source string) []string {
	t.Helper()
	_, err := Compile(source)
	var diags DiagnosticList
	if !errors.As(err, &diags) {
		t.Fatalf("expected DiagnosticList, got %T (%v)", err, err)
	}
	msgs := make([]string, len(diags))
	for i, d := range diags {
		if d.Kind != ResolutionError {
			t.Fatalf("expected resolution error, got %s", d.Kind)
		}
		msgs[i] = d.Error()
	}
	return msgs
}

func TestResolveReportsMisuse(t *testing.T) {
	cases := []struct {
		name   string
		source string
		want   []string
	}{
		{
			name:   "top level return",
			source: "return 1;",
			want:   []string{"[1:1] ResolutionError at 'return': can't return from top-level code"},
		},
		{
			name:   "self outside class",
			source: "fn f() { return self; }",
			want:   []string{"[1:17] ResolutionError at 'self': can't use 'self' outside of a method"},
		},
		{
			name:   "super outside class",
			source: "print super.x;",
			want:   []string{"[1:7] ResolutionError at 'super': can't use 'super' outside of a method"},
		},
		{
			name:   "super without superclass",
			source: "class A { f() { return super.f(); } }",
			want:   []string{"[1:24] ResolutionError at 'super': can't use 'super' in a class with no superclass"},
		},
		{
			name:   "self inheritance",
			source: "class A < A {}",
			want:   []string{"[1:11] ResolutionError at 'A': a class can't inherit from itself"},
		},
		{
			name:   "self as superclass",
			source: "class A < self {}",
			want:   []string{"[1:11] ResolutionError at 'self': can't use 'self' outside of a method"},
		},
		{
			name:   "super as superclass",
			source: "class A {} class B < A { m() {} } class C < super.m {}",
			want:   []string{"[1:45] ResolutionError at 'super': can't use 'super' outside of a method"},
		},
		{
			name:   "local self initializer",
			source: "{ let a = a; }",
			want:   []string{"[1:11] ResolutionError at 'a': can't read variable in its own initializer"},
		},
		{
			name:   "global self initializer",
			source: "let a = a;",
			want:   []string{"[1:9] ResolutionError at 'a': can't read variable in its own initializer"},
		},
		{
			name:   "aggregated",
			source: "return;\nclass B < B {}\nprint self;",
			want: []string{
				"[1:1] ResolutionError at 'return': can't return from top-level code",
				"[2:11] ResolutionError at 'B': a class can't inherit from itself",
				"[3:7] ResolutionError at 'self': can't use 'self' outside of a method",
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := resolveErrors(t, tc.source)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("diagnostics mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestResolveAllowsRedeclaredGlobalInitializer(t *testing.T) {
	if _, err := Compile("let a = 1; let a = a + 1;"); err != nil {
		t.Fatalf("compile failed: %v", err)
	}
}

func TestResolveDistances(t *testing.T) {
	stmts := parseSource(t, `
let g = 0;
fn outer(a) {
  let b = a;
  {
    let c = b;
    fn inner() { return a + c + g; }
  }
}
class P { m() { return self; } }
class Q < P { m() { return super.m(); } }
`)
	locals, err := Resolve(stmts)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}

	got := map[string][]int{}
	record := func(name string, id NodeID) {
		if d, ok := locals[id]; ok {
			got[name] = append(got[name], d)
		} else {
			got[name] = append(got[name], -1)
		}
	}
	var walkExpr func(Expr)
	var walkStmt func(Stmt)
	walkExpr = func(expr Expr) {
		switch e := expr.(type) {
		case *VariableExpr:
			record(e.Name.Lexeme, e.id)
		case *BinaryExpr:
			walkExpr(e.Left)
			walkExpr(e.Right)
		case *CallExpr:
			walkExpr(e.Callee)
		case *GetExpr:
			walkExpr(e.Object)
		case *SelfExpr:
			record("self", e.id)
		case *SuperExpr:
			record("super", e.id)
		}
	}
	walkStmt = func(stmt Stmt) {
		switch s := stmt.(type) {
		case *LetStmt:
			if s.Initializer != nil {
				walkExpr(s.Initializer)
			}
		case *BlockStmt:
			for _, inner := range s.Statements {
				walkStmt(inner)
			}
		case *FunctionStmt:
			for _, inner := range s.Body {
				walkStmt(inner)
			}
		case *ReturnStmt:
			walkExpr(s.Value)
		case *ClassStmt:
			for _, m := range s.Methods {
				walkStmt(m)
			}
		}
	}
	for _, stmt := range stmts {
		walkStmt(stmt)
	}

	want := map[string][]int{
		"a":     {0, 2},
		"b":     {1},
		"c":     {1},
		"g":     {-1},
		"self":  {1},
		"super": {2},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("distances mismatch (-want +got):\n%s", diff)
	}
}

// nestingProgram builds a random nesting of blocks, called functions,
// closures and methods. Every level declares v<level> and may shadow x;
// the innermost level prints x and every v. The returned lines are what a
// correct run prints.
func nestingProgram(rng *rand.Rand) (string, []string) {
	var b strings.Builder
	depth := 1 + rng.IntN(6)
	b.WriteString("let x = -1;\n")

	x := "-1"
	var closers []string
	for level := 0; level < depth; level++ {
		switch rng.IntN(4) {
		case 0:
			b.WriteString("{\n")
			closers = append(closers, "}\n")
		case 1:
			fmt.Fprintf(&b, "fn f%d() {\n", level)
			closers = append(closers, fmt.Sprintf("}\nf%d();\n", level))
		case 2:
			fmt.Fprintf(&b, "let k%d = fn() {\n", level)
			closers = append(closers, fmt.Sprintf("};\nk%d();\n", level))
		default:
			fmt.Fprintf(&b, "class C%d { run() {\n", level)
			closers = append(closers, fmt.Sprintf("} }\nC%d().run();\n", level))
		}
		fmt.Fprintf(&b, "let v%d = %d;\n", level, level)
		if rng.IntN(2) == 0 {
			fmt.Fprintf(&b, "let x = %d;\n", level*10)
			x = fmt.Sprint(level * 10)
		}
	}

	want := []string{x}
	b.WriteString("print x;\n")
	for level := 0; level < depth; level++ {
		fmt.Fprintf(&b, "print v%d;\n", level)
		want = append(want, fmt.Sprint(level))
	}
	b.WriteString("let read = fn() { return x; };\nprint read();\n")
	want = append(want, x)

	for i := len(closers) - 1; i >= 0; i-- {
		b.WriteString(closers[i])
	}
	b.WriteString("print x;\n")
	want = append(want, "-1")
	return b.String(), want
}

func TestResolverDistancesMatchRuntimeFrames(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	for i := 0; i < 200; i++ {
		source, want := nestingProgram(rng)
		var out bytes.Buffer
		interp := MustNewInterpreter(Config{Stdout: &out})
		status, err := interp.Run(context.Background(), source)
		if err != nil {
			t.Fatalf("program %d failed: %v\n%s", i, err, source)
		}
		if status != StatusCompleted {
			t.Fatalf("program %d ended with %s\n%s", i, status, source)
		}
		got := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
		if diff := cmp.Diff(want, got); diff != "" {
			t.Fatalf("program %d output mismatch (-want +got):\n%s\n%s", i, diff, source)
		}
	}
}
