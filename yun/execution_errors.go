package yun

import (
	"errors"
	"fmt"
)

var errInvalidNative = errors.New("native function needs a name, an implementation and a non-negative arity")

// interrupted reports whether the run should stop: either the interpreter
// was cancelled or the run's context ended.
func (exec *Execution) interrupted() bool {
	if exec.interp.cancelled.Load() {
		return true
	}
	if exec.ctx != nil {
		select {
		case <-exec.ctx.Done():
			return true
		default:
		}
	}
	return false
}

func (exec *Execution) runtimeError(kind RuntimeErrorKind, at Token, format string, args ...any) error {
	return &RuntimeError{
		Kind:    kind,
		Token:   at,
		Message: fmt.Sprintf(format, args...),
		Frames:  exec.stackTrace(),
	}
}

// withFrames attaches the current call stack to runtime errors raised
// outside the evaluator, such as environment lookups.
func (exec *Execution) withFrames(err error) error {
	if err == nil {
		return nil
	}
	var re *RuntimeError
	if errors.As(err, &re) && re.Frames == nil {
		re.Frames = exec.stackTrace()
	}
	return err
}

// nativeError turns an error returned by a native into a runtime error
// reported at the call. Exit requests pass through untouched.
func (exec *Execution) nativeError(at Token, err error) error {
	var exit *ExitError
	if errors.As(err, &exit) {
		return exit
	}
	var re *RuntimeError
	if errors.As(err, &re) {
		if re.Token.Type == "" {
			re.Token = at
		}
		if re.Frames == nil {
			re.Frames = exec.stackTrace()
		}
		return re
	}
	return exec.runtimeError(ErrNative, at, "%s", err.Error())
}

// stackTrace lists the active calls, innermost first.
func (exec *Execution) stackTrace() []StackFrame {
	frames := make([]StackFrame, len(exec.frames))
	for i, frame := range exec.frames {
		frames[len(exec.frames)-1-i] = frame
	}
	return frames
}
