package yun

func NewNil() Value             { return Value{kind: KindNil} }
func NewVoid() Value            { return Value{kind: KindVoid} }
func NewBool(b bool) Value      { return Value{kind: KindBool, data: b} }
func NewNumber(f float64) Value { return Value{kind: KindNumber, data: f} }
func NewString(s string) Value  { return Value{kind: KindString, data: s} }
func NewFunction(f *Function) Value {
	return Value{kind: KindFunction, data: f}
}
func NewNative(name string, arity int, fn NativeFunc) Value {
	return Value{kind: KindNative, data: &Native{Name: name, Arity: arity, Fn: fn}}
}

func NewClass(c *Class) Value          { return Value{kind: KindClass, data: c} }
func NewInstance(inst *Instance) Value { return Value{kind: KindInstance, data: inst} }

// NewList wraps elems in a new shared list.
func NewList(elems []Value) Value {
	if elems == nil {
		elems = []Value{}
	}
	return Value{kind: KindList, data: &List{Elements: elems}}
}

// NewDict wraps entries in a new shared dictionary.
func NewDict(entries map[string]Value) Value {
	if entries == nil {
		entries = make(map[string]Value)
	}
	return Value{kind: KindDict, data: &Dict{Entries: entries}}
}

func NewNativeObject(name string, payload any) Value {
	return Value{kind: KindNativeObject, data: &NativeObject{Name: name, Payload: payload}}
}
