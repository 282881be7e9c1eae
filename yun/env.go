package yun

type binding struct {
	value       Value
	initialized bool
}

// Env is one lexical frame. Frames are shared by pointer: closures keep
// the frame that was active when they were created.
type Env struct {
	parent *Env
	values map[string]binding
}

func newEnv(parent *Env) *Env {
	return &Env{parent: parent, values: make(map[string]binding)}
}

// Define binds name in this frame, replacing any existing binding.
func (e *Env) Define(name string, val Value) {
	e.values[name] = binding{value: val, initialized: true}
}

// Declare binds name in this frame without a value. Reading it fails until
// it is assigned.
func (e *Env) Declare(name string) {
	e.values[name] = binding{}
}

// Get searches this frame and then each enclosing frame for name.
func (e *Env) Get(name Token) (Value, error) {
	for env := e; env != nil; env = env.parent {
		if b, ok := env.values[name.Lexeme]; ok {
			return b.read(name)
		}
	}
	return Value{}, undefinedVariable(name)
}

// GetAt reads name from the frame exactly distance hops outward.
func (e *Env) GetAt(distance int, name Token) (Value, error) {
	env := e.Ancestor(distance)
	if env == nil {
		return Value{}, undefinedVariable(name)
	}
	b, ok := env.values[name.Lexeme]
	if !ok {
		return Value{}, undefinedVariable(name)
	}
	return b.read(name)
}

// Assign updates the nearest existing binding of name. It never declares.
func (e *Env) Assign(name Token, val Value) error {
	for env := e; env != nil; env = env.parent {
		if _, ok := env.values[name.Lexeme]; ok {
			env.values[name.Lexeme] = binding{value: val, initialized: true}
			return nil
		}
	}
	return undefinedVariable(name)
}

// AssignAt updates name in the frame exactly distance hops outward.
func (e *Env) AssignAt(distance int, name Token, val Value) error {
	env := e.Ancestor(distance)
	if env == nil {
		return undefinedVariable(name)
	}
	if _, ok := env.values[name.Lexeme]; !ok {
		return undefinedVariable(name)
	}
	env.values[name.Lexeme] = binding{value: val, initialized: true}
	return nil
}

// Ancestor walks distance parents outward. It returns nil if the chain is
// shorter than distance.
func (e *Env) Ancestor(distance int) *Env {
	env := e
	for i := 0; i < distance && env != nil; i++ {
		env = env.parent
	}
	return env
}

func (b binding) read(name Token) (Value, error) {
	if !b.initialized {
		return Value{}, &RuntimeError{
			Kind:    ErrUninitialized,
			Token:   name,
			Message: "variable '" + name.Lexeme + "' is not initialized",
		}
	}
	return b.value, nil
}

func undefinedVariable(name Token) error {
	return &RuntimeError{
		Kind:    ErrUndefinedVariable,
		Token:   name,
		Message: "undefined variable '" + name.Lexeme + "'",
	}
}
