package yun

import (
	"context"
	"errors"
	"fmt"
)

type completionKind int

const (
	completionNormal completionKind = iota
	completionReturn
	completionCancelled
)

// completion is how a statement finished when it did not fail. Return
// carries the returned value up to the enclosing call; cancelled unwinds
// the whole run.
type completion struct {
	kind  completionKind
	value Value
}

var (
	normalCompletion    = completion{kind: completionNormal}
	cancelledCompletion = completion{kind: completionCancelled}
)

// Execution is the state of one script run: its globals, the current
// frame and the active call stack. Natives receive it to reach the run's
// context and the interpreter.
type Execution struct {
	interp  *Interpreter
	ctx     context.Context
	script  *Script
	globals *Env
	env     *Env
	frames  []StackFrame

	dispatching bool
}

func (in *Interpreter) newExecution(ctx context.Context, script *Script) *Execution {
	globals := newEnv(nil)
	for name, native := range in.natives {
		globals.Define(name, native)
	}
	return &Execution{
		interp:  in,
		ctx:     ctx,
		script:  script,
		globals: globals,
		env:     globals,
	}
}

// Context returns the context the run was started with.
func (exec *Execution) Context() context.Context { return exec.ctx }

// Interpreter returns the interpreter driving the run.
func (exec *Execution) Interpreter() *Interpreter { return exec.interp }

// Global reads a global binding of the run.
func (exec *Execution) Global(name string) (Value, bool) {
	b, ok := exec.globals.values[name]
	if !ok || !b.initialized {
		return Value{}, false
	}
	return b.value, true
}

func (exec *Execution) run() (Status, error) {
	for _, stmt := range exec.script.statements {
		c, err := exec.execStatement(stmt)
		if err != nil {
			return exec.settle(err)
		}
		if c.kind == completionCancelled {
			return StatusCancelled, nil
		}
	}
	if exec.interrupted() {
		return StatusCancelled, nil
	}
	if err := exec.drainKeyCallbacks(); err != nil {
		return exec.settle(err)
	}
	return StatusCompleted, nil
}

// settle classifies an error that reached the top of the run. Failures
// observed while a cancellation is pending belong to the teardown and
// are dropped.
func (exec *Execution) settle(err error) (Status, error) {
	var exit *ExitError
	if errors.As(err, &exit) {
		return StatusExited, exit
	}
	if exec.interrupted() {
		exec.interp.config.Logger.Debug("dropping error raised during cancellation", "error", err)
		return StatusCancelled, nil
	}
	return StatusFailed, err
}

func (exec *Execution) execStatement(stmt Stmt) (completion, error) {
	if exec.interrupted() {
		return cancelledCompletion, nil
	}
	if !exec.dispatching && len(exec.interp.pending) > 0 {
		if err := exec.drainKeyCallbacks(); err != nil {
			return normalCompletion, err
		}
		if exec.interrupted() {
			return cancelledCompletion, nil
		}
	}

	switch s := stmt.(type) {
	case *ExpressionStmt:
		_, err := exec.evalExpression(s.Expr)
		return normalCompletion, err
	case *PrintStmt:
		return exec.execPrint(s)
	case *LetStmt:
		if s.Initializer == nil {
			exec.env.Declare(s.Name.Lexeme)
			return normalCompletion, nil
		}
		val, err := exec.evalExpression(s.Initializer)
		if err != nil {
			return normalCompletion, err
		}
		exec.env.Define(s.Name.Lexeme, val)
		return normalCompletion, nil
	case *DeclarativeStmt:
		val, err := exec.evalExpression(s.Value)
		if err != nil {
			return normalCompletion, err
		}
		exec.env.Define(s.Name.Lexeme, val)
		return normalCompletion, nil
	case *BlockStmt:
		return exec.execBlock(s.Statements, newEnv(exec.env))
	case *IfStmt:
		cond, err := exec.evalExpression(s.Condition)
		if err != nil {
			return normalCompletion, err
		}
		if exec.interrupted() {
			return cancelledCompletion, nil
		}
		if cond.Truthy() {
			return exec.execStatement(s.Then)
		}
		if s.Else != nil {
			return exec.execStatement(s.Else)
		}
		return normalCompletion, nil
	case *WhileStmt:
		return exec.execWhile(s)
	case *FunctionStmt:
		fn := &Function{Name: s.Name.Lexeme, Params: s.Params, Body: s.Body, Closure: exec.env}
		exec.env.Define(s.Name.Lexeme, NewFunction(fn))
		return normalCompletion, nil
	case *ReturnStmt:
		val := NewNil()
		if s.Value != nil {
			v, err := exec.evalExpression(s.Value)
			if err != nil {
				return normalCompletion, err
			}
			val = v
		}
		return completion{kind: completionReturn, value: val}, nil
	case *ClassStmt:
		return normalCompletion, exec.execClass(s)
	case *ExportStmt:
		return exec.execStatement(s.Inner)
	case *UseStmt:
		exec.interp.config.Logger.Debug("ignoring use statement", "module", s.Path.Lexeme, "line", s.Keyword.Pos.Line)
		return normalCompletion, nil
	default:
		return normalCompletion, fmt.Errorf("unsupported statement %T", stmt)
	}
}

func (exec *Execution) execPrint(s *PrintStmt) (completion, error) {
	val, err := exec.evalExpression(s.Expr)
	if err != nil {
		return normalCompletion, err
	}
	if exec.interrupted() {
		return cancelledCompletion, nil
	}
	if _, err := fmt.Fprintln(exec.interp.config.Stdout, val.String()); err != nil {
		exec.interp.config.Logger.Warn("print failed", "error", err)
	}
	return normalCompletion, nil
}

// execBlock runs stmts in env and restores the previous frame afterwards.
func (exec *Execution) execBlock(stmts []Stmt, env *Env) (completion, error) {
	prev := exec.env
	exec.env = env
	defer func() { exec.env = prev }()

	for _, stmt := range stmts {
		c, err := exec.execStatement(stmt)
		if err != nil {
			return normalCompletion, err
		}
		if c.kind != completionNormal {
			return c, nil
		}
	}
	return normalCompletion, nil
}

func (exec *Execution) execWhile(s *WhileStmt) (completion, error) {
	for {
		cond, err := exec.evalExpression(s.Condition)
		if err != nil {
			return normalCompletion, err
		}
		if exec.interrupted() {
			return cancelledCompletion, nil
		}
		if !cond.Truthy() {
			return normalCompletion, nil
		}
		c, err := exec.execStatement(s.Body)
		if err != nil {
			return normalCompletion, err
		}
		if c.kind != completionNormal {
			return c, nil
		}
	}
}

func (exec *Execution) execClass(s *ClassStmt) error {
	var superclass *Class
	if s.Superclass != nil {
		val, err := exec.evalExpression(s.Superclass)
		if err != nil {
			return err
		}
		superclass = val.Class()
		if superclass == nil {
			tok := s.Name
			if v, ok := s.Superclass.(*VariableExpr); ok {
				tok = v.Name
			}
			return exec.runtimeError(ErrInvalidSuperclass, tok, "superclass must be a class, got %s", val.Kind())
		}
	}

	exec.env.Declare(s.Name.Lexeme)

	closure := exec.env
	if superclass != nil {
		closure = newEnv(exec.env)
		closure.Define("super", NewClass(superclass))
	}

	methods := make(map[string]*Function, len(s.Methods))
	for _, m := range s.Methods {
		methods[m.Name.Lexeme] = &Function{
			Name:    m.Name.Lexeme,
			Params:  m.Params,
			Body:    m.Body,
			Closure: closure,
			IsInit:  m.IsInit,
		}
	}

	class := &Class{Name: s.Name.Lexeme, Methods: methods, Superclass: superclass}
	return exec.withFrames(exec.env.Assign(s.Name, NewClass(class)))
}

func (exec *Execution) drainKeyCallbacks() error {
	for {
		select {
		case press := <-exec.interp.pending:
			if err := exec.invokeKeyCallback(press); err != nil {
				return err
			}
		default:
			return nil
		}
	}
}

// invokeKeyCallback runs a callback registered with onKey. Callbacks that
// take one parameter receive the key name.
func (exec *Execution) invokeKeyCallback(press keyPress) error {
	exec.dispatching = true
	defer func() { exec.dispatching = false }()

	var args []Value
	if callableArity(press.callback) == 1 {
		args = []Value{NewString(press.key)}
	}
	at := Token{Type: tokenIdent, Lexeme: "onKey"}
	_, err := exec.callValue(press.callback, args, at)
	return err
}
