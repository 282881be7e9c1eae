package yun

func (exec *Execution) evalCall(e *CallExpr) (Value, error) {
	callee, err := exec.evalExpression(e.Callee)
	if err != nil {
		return Value{}, err
	}

	args := make([]Value, 0, len(e.Args))
	for _, arg := range e.Args {
		val, err := exec.evalExpression(arg)
		if err != nil {
			return Value{}, err
		}
		args = append(args, val)
	}
	if exec.interrupted() {
		return NewVoid(), nil
	}

	return exec.callValue(callee, args, callSite(e))
}

// callSite picks the token a call is reported at: the callee's name when
// it has one, the opening paren otherwise.
func callSite(e *CallExpr) Token {
	switch c := e.Callee.(type) {
	case *VariableExpr:
		return c.Name
	case *GetExpr:
		if c.Index == nil {
			return c.Name
		}
	case *SuperExpr:
		return c.Method
	}
	return e.Paren
}

func callableArity(v Value) int {
	switch v.Kind() {
	case KindFunction:
		return v.Function().Arity()
	case KindNative:
		return v.Native().Arity
	case KindClass:
		return v.Class().Arity()
	default:
		return -1
	}
}

func isCallable(v Value) bool {
	return callableArity(v) >= 0
}

// callValue invokes a function, native or class. The argument count is
// checked before anything runs.
func (exec *Execution) callValue(callee Value, args []Value, at Token) (Value, error) {
	if !isCallable(callee) {
		return Value{}, exec.runtimeError(ErrNotCallable, at, "can only call functions and classes, got %s", callee.Kind())
	}
	if arity := callableArity(callee); len(args) != arity {
		return Value{}, exec.runtimeError(ErrArity, at, "expected %d arguments but got %d", arity, len(args))
	}

	switch callee.Kind() {
	case KindFunction:
		return exec.callFunction(callee.Function(), args, at)
	case KindClass:
		return exec.construct(callee.Class(), args, at)
	default:
		native := callee.Native()
		val, err := native.Fn(exec, args)
		if err != nil {
			return Value{}, exec.nativeError(at, err)
		}
		return val, nil
	}
}

// construct creates an instance and runs init on it. The result is always
// the instance, whatever init returns.
func (exec *Execution) construct(class *Class, args []Value, at Token) (Value, error) {
	inst := &Instance{Class: class, Fields: make(map[string]Value)}
	if init := class.FindMethod("init"); init != nil {
		if _, err := exec.callFunction(init.bind(inst), args, at); err != nil {
			return Value{}, err
		}
	}
	return NewInstance(inst), nil
}

func (exec *Execution) callFunction(fn *Function, args []Value, at Token) (Value, error) {
	if len(exec.frames) >= exec.interp.config.RecursionLimit {
		return Value{}, exec.runtimeError(ErrStackOverflow, at, "stack overflow (limit %d)", exec.interp.config.RecursionLimit)
	}
	name := fn.Name
	if name == "" {
		name = "<fn>"
	}
	exec.frames = append(exec.frames, StackFrame{Function: name, Pos: at.Pos})
	defer func() { exec.frames = exec.frames[:len(exec.frames)-1] }()

	env := newEnv(fn.Closure)
	for i, param := range fn.Params {
		env.Define(param.Lexeme, args[i])
	}

	c, err := exec.execBlock(fn.Body, env)
	if err != nil {
		return Value{}, err
	}

	if fn.IsInit {
		self := Token{Type: tokenSelf, Lexeme: "self", Pos: at.Pos}
		val, err := fn.Closure.GetAt(0, self)
		return val, exec.withFrames(err)
	}
	if c.kind == completionReturn {
		return c.value, nil
	}
	return NewVoid(), nil
}
