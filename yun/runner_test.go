package yun

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

// sourceBox hands the runner the current script text.
type sourceBox struct {
	mu     sync.Mutex
	source string
}

func (b *sourceBox) set(source string) {
	b.mu.Lock()
	b.source = source
	b.mu.Unlock()
}

func (b *sourceBox) load() (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.source, nil
}

// syncBuffer is a bytes.Buffer safe to read while the script writes.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func runRunner(r *Runner, ctx context.Context, changes <-chan struct{}) <-chan error {
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx, changes) }()
	return done
}

func waitErr(t *testing.T, done <-chan error) error {
	t.Helper()
	select {
	case err := <-done:
		return err
	case <-time.After(testTimeout):
		t.Fatalf("runner did not return")
		return nil
	}
}

func TestRunnerOnceCompletes(t *testing.T) {
	var out syncBuffer
	interp := MustNewInterpreter(Config{Stdout: &out})
	box := &sourceBox{source: `print "hello";`}

	runs := 0
	r := NewRunner(interp, RunnerConfig{Load: box.load, Once: true, OnRun: func(int) { runs++ }})
	if err := r.Run(context.Background(), nil); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if out.String() != "hello\n" {
		t.Fatalf("unexpected output %q", out.String())
	}
	if runs != 1 {
		t.Fatalf("expected one run, got %d", runs)
	}
}

func TestRunnerExitOnErrorReturnsFailure(t *testing.T) {
	interp := MustNewInterpreter(Config{Stdout: &syncBuffer{}})
	box := &sourceBox{source: "print missing;"}

	r := NewRunner(interp, RunnerConfig{Load: box.load, Policy: ExitOnError})
	err := waitErr(t, runRunner(r, context.Background(), nil))
	var re *RuntimeError
	if !errors.As(err, &re) || re.Kind != ErrUndefinedVariable {
		t.Fatalf("expected undefined variable error, got %v", err)
	}
}

func TestRunnerReturnsCompileErrors(t *testing.T) {
	interp := MustNewInterpreter(Config{Stdout: &syncBuffer{}})
	box := &sourceBox{source: "print ;"}

	r := NewRunner(interp, RunnerConfig{Load: box.load, Once: true, Policy: WaitForChange})
	err := r.Run(context.Background(), nil)
	var diags DiagnosticList
	if !errors.As(err, &diags) {
		t.Fatalf("expected diagnostics in once mode, got %v", err)
	}
}

func TestRunnerReturnsExit(t *testing.T) {
	interp := MustNewInterpreter(Config{Stdout: &syncBuffer{}})
	box := &sourceBox{source: "exitWithCode(7);"}

	r := NewRunner(interp, RunnerConfig{Load: box.load, Policy: WaitForChange})
	err := waitErr(t, runRunner(r, context.Background(), nil))
	var exit *ExitError
	if !errors.As(err, &exit) || exit.Code != 7 {
		t.Fatalf("expected exit 7, got %v", err)
	}
}

func TestRunnerLoadFailure(t *testing.T) {
	interp := MustNewInterpreter(Config{Stdout: &syncBuffer{}})
	loadErr := errors.New("script missing")
	r := NewRunner(interp, RunnerConfig{Load: func() (string, error) { return "", loadErr }, Once: true})
	if err := r.Run(context.Background(), nil); !errors.Is(err, loadErr) {
		t.Fatalf("expected load error, got %v", err)
	}
}

func TestRunnerRequiresLoader(t *testing.T) {
	r := NewRunner(MustNewInterpreter(Config{}), RunnerConfig{})
	if err := r.Run(context.Background(), nil); !errors.Is(err, errNoLoader) {
		t.Fatalf("expected errNoLoader, got %v", err)
	}
}

func TestRunnerWaitForChangeRecovers(t *testing.T) {
	var out syncBuffer
	finished := make(chan struct{})
	interp := MustNewInterpreter(Config{Stdout: &out, Natives: []Native{signalNative("finished", finished)}})
	box := &sourceBox{source: "print 1 + nil;"}

	reported := make(chan error, 1)
	r := NewRunner(interp, RunnerConfig{
		Load:   box.load,
		Policy: WaitForChange,
		Report: func(err error) { reported <- err },
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	changes := make(chan struct{})
	done := runRunner(r, ctx, changes)

	select {
	case err := <-reported:
		var re *RuntimeError
		if !errors.As(err, &re) || re.Kind != ErrType {
			t.Fatalf("expected type error to be reported, got %v", err)
		}
	case <-time.After(testTimeout):
		t.Fatalf("failure was not reported")
	}

	box.set(`print "fixed"; finished();`)
	changes <- struct{}{}
	waitFor(t, finished, "fixed script")

	cancel()
	if err := waitErr(t, done); err != nil {
		t.Fatalf("expected clean shutdown, got %v", err)
	}
	if out.String() != "fixed\n" {
		t.Fatalf("unexpected output %q", out.String())
	}
}

func TestRunnerChangeCancelsRunningScript(t *testing.T) {
	var out syncBuffer
	started := make(chan struct{})
	finished := make(chan struct{})
	interp := MustNewInterpreter(Config{Stdout: &out, Natives: []Native{
		signalNative("started", started),
		signalNative("finished", finished),
	}})
	box := &sourceBox{source: `print "first"; started(); while (true) {}`}

	var mu sync.Mutex
	var runs []int
	r := NewRunner(interp, RunnerConfig{
		Load:   box.load,
		Policy: ExitOnError,
		OnRun: func(run int) {
			mu.Lock()
			runs = append(runs, run)
			mu.Unlock()
		},
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	changes := make(chan struct{})
	done := runRunner(r, ctx, changes)

	waitFor(t, started, "first run")
	box.set(`print "second"; finished();`)
	changes <- struct{}{}
	waitFor(t, finished, "second run")

	cancel()
	if err := waitErr(t, done); err != nil {
		t.Fatalf("expected clean shutdown, got %v", err)
	}
	if out.String() != "first\nsecond\n" {
		t.Fatalf("unexpected output %q", out.String())
	}
	mu.Lock()
	defer mu.Unlock()
	if len(runs) != 2 || runs[0] != 1 || runs[1] != 2 {
		t.Fatalf("unexpected runs %v", runs)
	}
}

func TestRunnerIdleServicesKeys(t *testing.T) {
	ready := make(chan struct{})
	hit := make(chan struct{})
	interp := MustNewInterpreter(Config{Stdout: &syncBuffer{}, Natives: []Native{
		signalNative("ready", ready),
		signalNative("hit", hit),
	}})
	box := &sourceBox{source: `onKey("k", fn() { hit(); }); ready();`}

	r := NewRunner(interp, RunnerConfig{Load: box.load, Policy: WaitForChange})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := runRunner(r, ctx, nil)

	waitFor(t, ready, "script")
	if !interp.DispatchKey("k") {
		t.Fatalf("expected key handler")
	}
	waitFor(t, hit, "key callback")

	cancel()
	if err := waitErr(t, done); err != nil {
		t.Fatalf("expected clean shutdown, got %v", err)
	}
}

func TestRunnerOnCompileSeesScript(t *testing.T) {
	interp := MustNewInterpreter(Config{Stdout: &syncBuffer{}})
	box := &sourceBox{source: "let a = 1;\nprint a;"}

	var compiled *Script
	r := NewRunner(interp, RunnerConfig{
		Load:      box.load,
		Once:      true,
		OnCompile: func(s *Script) { compiled = s },
	})
	if err := r.Run(context.Background(), nil); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if compiled == nil || len(compiled.Statements()) != 2 {
		t.Fatalf("expected the compiled script, got %v", compiled)
	}
	if compiled.Source() != box.source {
		t.Fatalf("unexpected source %q", compiled.Source())
	}
}
