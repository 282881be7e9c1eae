package yun

import (
	"fmt"
	"strings"
)

// DiagnosticKind names the stage that rejected a script before it ran.
type DiagnosticKind string

const (
	LexError        DiagnosticKind = "LexError"
	SyntaxError     DiagnosticKind = "SyntaxError"
	ResolutionError DiagnosticKind = "ResolutionError"
)

// Diagnostic is a single compile-time error with its source position.
type Diagnostic struct {
	Kind    DiagnosticKind
	Pos     Position
	Lexeme  string
	AtEnd   bool
	Message string
}

func (d *Diagnostic) Error() string {
	where := ""
	switch {
	case d.AtEnd:
		where = " at end"
	case d.Lexeme != "":
		where = fmt.Sprintf(" at '%s'", d.Lexeme)
	}
	return formatReport(d.Pos, string(d.Kind), where, d.Message)
}

// DiagnosticList aggregates every diagnostic recorded by one pass.
type DiagnosticList []*Diagnostic

func (l DiagnosticList) Error() string {
	lines := make([]string, len(l))
	for i, d := range l {
		lines[i] = d.Error()
	}
	return strings.Join(lines, "\n")
}

func (l DiagnosticList) err() error {
	if len(l) == 0 {
		return nil
	}
	return l
}

func diagnosticAt(kind DiagnosticKind, tok Token, msg string) *Diagnostic {
	d := &Diagnostic{Kind: kind, Pos: tok.Pos, Message: msg}
	if tok.Type == tokenEOF {
		d.AtEnd = true
	} else {
		d.Lexeme = tok.Lexeme
	}
	return d
}

// RuntimeErrorKind classifies a failure raised while a script runs.
type RuntimeErrorKind string

const (
	ErrUndefinedVariable RuntimeErrorKind = "UndefinedVariable"
	ErrUninitialized     RuntimeErrorKind = "UninitializedVariable"
	ErrUndefinedProperty RuntimeErrorKind = "UndefinedProperty"
	ErrType              RuntimeErrorKind = "TypeError"
	ErrNotCallable       RuntimeErrorKind = "NotCallable"
	ErrArity             RuntimeErrorKind = "ArityMismatch"
	ErrIndexOutOfRange   RuntimeErrorKind = "IndexOutOfRange"
	ErrStackOverflow     RuntimeErrorKind = "StackOverflow"
	ErrNative            RuntimeErrorKind = "NativeError"
	ErrPanic             RuntimeErrorKind = "Panic"
	ErrInvalidSuperclass RuntimeErrorKind = "InvalidSuperclass"
	ErrHostUnavailable   RuntimeErrorKind = "HostUnavailable"
)

func (k RuntimeErrorKind) label() string {
	if k == ErrPanic {
		return "Panic"
	}
	return "RuntimeError"
}

// StackFrame is one active call at the time a runtime error was raised.
type StackFrame struct {
	Function string
	Pos      Position
}

// RuntimeError aborts the current run. Token is the offending token.
type RuntimeError struct {
	Kind    RuntimeErrorKind
	Token   Token
	Message string
	Frames  []StackFrame
}

const (
	runtimeErrorFrameHead = 8
	runtimeErrorFrameTail = 8
)

func (re *RuntimeError) Error() string {
	where := ""
	switch {
	case re.Token.Type == tokenEOF:
		where = " at end"
	case re.Token.Lexeme != "":
		where = fmt.Sprintf(" at '%s'", re.Token.Lexeme)
	}
	return formatReport(re.Token.Pos, re.Kind.label(), where, re.Message)
}

// Backtrace renders the call frames, innermost first.
func (re *RuntimeError) Backtrace() string {
	var b strings.Builder
	renderFrame := func(frame StackFrame) {
		if frame.Pos.Line > 0 {
			fmt.Fprintf(&b, "  at %s (%d:%d)\n", frame.Function, frame.Pos.Line, frame.Pos.Column)
		} else {
			fmt.Fprintf(&b, "  at %s\n", frame.Function)
		}
	}

	if len(re.Frames) <= runtimeErrorFrameHead+runtimeErrorFrameTail {
		for _, frame := range re.Frames {
			renderFrame(frame)
		}
		return b.String()
	}

	for _, frame := range re.Frames[:runtimeErrorFrameHead] {
		renderFrame(frame)
	}
	omitted := len(re.Frames) - (runtimeErrorFrameHead + runtimeErrorFrameTail)
	fmt.Fprintf(&b, "  ... %d frames omitted ...\n", omitted)
	for _, frame := range re.Frames[len(re.Frames)-runtimeErrorFrameTail:] {
		renderFrame(frame)
	}
	return b.String()
}

// ExitError is raised by exit and exitWithCode. Hosts terminate with Code;
// it is never reported as a failure.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit with code %d", e.Code)
}

func formatReport(pos Position, kind, where, msg string) string {
	return fmt.Sprintf("[%d:%d] %s%s: %s", pos.Line, pos.Column, kind, where, msg)
}
