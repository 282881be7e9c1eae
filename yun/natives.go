package yun

import (
	"fmt"
	"math"
	"time"
	"unicode/utf8"
)

const instantObjectName = "instant"

func registerStandardNatives(in *Interpreter) {
	register := func(name string, arity int, fn NativeFunc) {
		in.natives[name] = NewNative(name, arity, fn)
	}

	register("clock", 0, nativeClock)
	register("instant", 0, nativeInstant)
	register("elapsed", 1, nativeElapsed)

	register("sin", 1, unaryMath("sin", math.Sin))
	register("cos", 1, unaryMath("cos", math.Cos))
	register("tan", 1, unaryMath("tan", math.Tan))
	register("sqrt", 1, unaryMath("sqrt", math.Sqrt))
	register("abs", 1, unaryMath("abs", math.Abs))
	register("floor", 1, unaryMath("floor", math.Floor))
	register("ceil", 1, unaryMath("ceil", math.Ceil))
	register("round", 1, unaryMath("round", math.Round))
	register("pow", 2, binaryMath("pow", math.Pow))
	register("atan2", 2, binaryMath("atan2", math.Atan2))
	register("min", 2, binaryMath("min", math.Min))
	register("max", 2, binaryMath("max", math.Max))

	register("len", 1, nativeLen)
	register("string", 1, nativeString)
	register("panic", 1, nativePanic)
	register("exit", 0, nativeExit)
	register("exitWithCode", 1, nativeExitWithCode)

	register("render", 1, nativeRender)
	register("getWindowDimensions", 0, nativeWindowDimensions)
	register("onKey", 2, nativeOnKey)
}

func numberArg(name string, v Value) (float64, error) {
	if v.Kind() != KindNumber {
		return 0, fmt.Errorf("%s expects a number, got %s", name, v.Kind())
	}
	return v.Number(), nil
}

func unaryMath(name string, fn func(float64) float64) NativeFunc {
	return func(exec *Execution, args []Value) (Value, error) {
		x, err := numberArg(name, args[0])
		if err != nil {
			return NewNil(), err
		}
		return NewNumber(fn(x)), nil
	}
}

func binaryMath(name string, fn func(float64, float64) float64) NativeFunc {
	return func(exec *Execution, args []Value) (Value, error) {
		x, err := numberArg(name, args[0])
		if err != nil {
			return NewNil(), err
		}
		y, err := numberArg(name, args[1])
		if err != nil {
			return NewNil(), err
		}
		return NewNumber(fn(x, y)), nil
	}
}

// nativeClock returns wall-clock time in microseconds since the Unix epoch.
func nativeClock(exec *Execution, args []Value) (Value, error) {
	return NewNumber(float64(time.Now().UnixMicro())), nil
}

func nativeInstant(exec *Execution, args []Value) (Value, error) {
	return NewNativeObject(instantObjectName, time.Now()), nil
}

// nativeElapsed returns the microseconds since an instant was taken.
func nativeElapsed(exec *Execution, args []Value) (Value, error) {
	obj := args[0].NativeObject()
	if obj == nil {
		return NewNil(), fmt.Errorf("elapsed expects an instant, got %s", args[0].Kind())
	}
	start, ok := obj.Payload.(time.Time)
	if !ok {
		return NewNil(), fmt.Errorf("elapsed expects an instant, got %s", obj.Name)
	}
	return NewNumber(float64(time.Since(start).Microseconds())), nil
}

func nativeLen(exec *Execution, args []Value) (Value, error) {
	v := args[0]
	switch v.Kind() {
	case KindString:
		return NewNumber(float64(utf8.RuneCountInString(v.Str()))), nil
	case KindList:
		return NewNumber(float64(len(v.List().Elements))), nil
	case KindDict:
		return NewNumber(float64(len(v.Dict().Entries))), nil
	default:
		return NewNil(), fmt.Errorf("len expects a string, list or dictionary, got %s", v.Kind())
	}
}

func nativeString(exec *Execution, args []Value) (Value, error) {
	return NewString(args[0].String()), nil
}

func nativePanic(exec *Execution, args []Value) (Value, error) {
	return NewNil(), &RuntimeError{Kind: ErrPanic, Message: args[0].String()}
}

func nativeExit(exec *Execution, args []Value) (Value, error) {
	return NewNil(), &ExitError{Code: 0}
}

func nativeExitWithCode(exec *Execution, args []Value) (Value, error) {
	code, err := numberArg("exitWithCode", args[0])
	if err != nil {
		return NewNil(), err
	}
	if code != math.Trunc(code) || code < 0 || code > 255 {
		return NewNil(), fmt.Errorf("exitWithCode expects an integer between 0 and 255, got %s", formatNumber(code))
	}
	return NewNil(), &ExitError{Code: int(code)}
}

// nativeRender hands a snapshot of the payload to the host.
func nativeRender(exec *Execution, args []Value) (Value, error) {
	if err := exec.emit(RenderEvent{Payload: args[0].DeepCopy()}); err != nil {
		return NewNil(), err
	}
	return NewNil(), nil
}

func nativeWindowDimensions(exec *Execution, args []Value) (Value, error) {
	dims, err := exec.requestDimensions()
	if err != nil {
		return NewNil(), err
	}
	return NewDict(map[string]Value{
		"width":  NewNumber(float64(dims.Width)),
		"height": NewNumber(float64(dims.Height)),
	}), nil
}

// nativeOnKey registers a callback for a key name. Callbacks run between
// statements of the script, or while the runner idles after the script
// finished.
func nativeOnKey(exec *Execution, args []Value) (Value, error) {
	if args[0].Kind() != KindString {
		return NewNil(), fmt.Errorf("onKey expects a key name, got %s", args[0].Kind())
	}
	callback := args[1]
	arity := callableArity(callback)
	if arity < 0 {
		return NewNil(), fmt.Errorf("onKey expects a function, got %s", callback.Kind())
	}
	if arity > 1 {
		return NewNil(), fmt.Errorf("onKey callbacks take at most one argument, got %d", arity)
	}
	exec.interp.registerKey(args[0].Str(), callback)
	return NewNil(), nil
}
