package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/mgomes/yunscript/yun"
)

func compileScript(t *testing.T, source string) *yun.Script {
	t.Helper()
	script, err := yun.Compile(source)
	if err != nil {
		t.Fatalf("compile failed: %v", err)
	}
	return script
}

func TestLintReportsUnreachableStatements(t *testing.T) {
	script := compileScript(t, `fn f() {
  return 1;
  print "dead";
}
class A {
  m() {
    if (true) { return 1; } else { panic("no"); }
    print "dead too";
  }
}
onKey("a", fn() {
  exit();
  print "after exit";
});
while (false) { print "fine"; }
`)

	want := []lintWarning{
		{Function: "f", Pos: yun.Position{Line: 3, Column: 3}, Message: "unreachable statement"},
		{Function: "A.m", Pos: yun.Position{Line: 8, Column: 5}, Message: "unreachable statement"},
		{Function: "<script>.<fn>", Pos: yun.Position{Line: 13, Column: 3}, Message: "unreachable statement"},
	}
	if diff := cmp.Diff(want, lintScript(script)); diff != "" {
		t.Fatalf("warnings mismatch (-want +got):\n%s", diff)
	}
}

func TestLintAcceptsReachableCode(t *testing.T) {
	script := compileScript(t, `fn pick(n) {
  if (n > 0) return "pos";
  while (n < 0) { return "neg"; }
  return "zero";
}
print pick(1);
`)
	if got := lintScript(script); len(got) != 0 {
		t.Fatalf("expected no warnings, got %+v", got)
	}
}

func TestLogLintWritesWarnings(t *testing.T) {
	var buf bytes.Buffer
	script := compileScript(t, "fn f() {\n  return;\n  print 1;\n}\n")
	logLint(newLogger(&buf), "demo.yun", script)

	got := strings.TrimSpace(buf.String())
	want := "level=WARN msg=\"unreachable statement\" at=demo.yun:3:3 function=f"
	if got != want {
		t.Fatalf("unexpected log line\n got: %s\nwant: %s", got, want)
	}
}
