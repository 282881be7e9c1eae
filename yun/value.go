package yun

type ValueKind int

const (
	KindNil ValueKind = iota
	KindVoid
	KindBool
	KindNumber
	KindString
	KindFunction
	KindNative
	KindClass
	KindInstance
	KindList
	KindDict
	KindNativeObject
)

// Value is a dynamically typed script value. The zero Value is nil.
type Value struct {
	kind ValueKind
	data any
}

// Function is a user-defined closure: its declaration plus the frame that
// was active when it was created.
type Function struct {
	Name    string
	Params  []Token
	Body    []Stmt
	Closure *Env
	IsInit  bool
}

func (f *Function) Arity() int { return len(f.Params) }

// bind returns a copy of f whose closure has a fresh frame holding self.
// Each bind gets its own frame so bound methods never share self.
func (f *Function) bind(inst *Instance) *Function {
	env := newEnv(f.Closure)
	env.Define("self", NewInstance(inst))
	return &Function{Name: f.Name, Params: f.Params, Body: f.Body, Closure: env, IsInit: f.IsInit}
}

// NativeFunc implements a host function. Arguments have already been
// checked against the declared arity.
type NativeFunc func(exec *Execution, args []Value) (Value, error)

type Native struct {
	Name  string
	Arity int
	Fn    NativeFunc
}

type Class struct {
	Name       string
	Methods    map[string]*Function
	Superclass *Class
}

// FindMethod looks name up on the class and then along its superclass chain.
func (c *Class) FindMethod(name string) *Function {
	for cl := c; cl != nil; cl = cl.Superclass {
		if m, ok := cl.Methods[name]; ok {
			return m
		}
	}
	return nil
}

// Arity is the arity of init, or zero for classes without one.
func (c *Class) Arity() int {
	if init := c.FindMethod("init"); init != nil {
		return init.Arity()
	}
	return 0
}

type Instance struct {
	Class  *Class
	Fields map[string]Value
}

type List struct {
	Elements []Value
}

type Dict struct {
	Entries map[string]Value
}

// NativeObject carries an opaque host payload. Only natives that know the
// concrete payload type inspect it.
type NativeObject struct {
	Name    string
	Payload any
}
