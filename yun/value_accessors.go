package yun

func (v Value) Kind() ValueKind { return v.kind }

func (v Value) IsNil() bool { return v.kind == KindNil }

func (v Value) IsVoid() bool { return v.kind == KindVoid }

func (v Value) Bool() bool {
	if v.kind == KindBool {
		return v.data.(bool)
	}
	return false
}

func (v Value) Number() float64 {
	if v.kind == KindNumber {
		return v.data.(float64)
	}
	return 0
}

// Str returns the string payload. Use String for the display form.
func (v Value) Str() string {
	if v.kind == KindString {
		return v.data.(string)
	}
	return ""
}

func (v Value) Function() *Function {
	if v.kind != KindFunction {
		return nil
	}
	return v.data.(*Function)
}

func (v Value) Native() *Native {
	if v.kind != KindNative {
		return nil
	}
	return v.data.(*Native)
}

func (v Value) Class() *Class {
	if v.kind != KindClass {
		return nil
	}
	return v.data.(*Class)
}

func (v Value) Instance() *Instance {
	if v.kind != KindInstance {
		return nil
	}
	return v.data.(*Instance)
}

func (v Value) List() *List {
	if v.kind != KindList {
		return nil
	}
	return v.data.(*List)
}

func (v Value) Dict() *Dict {
	if v.kind != KindDict {
		return nil
	}
	return v.data.(*Dict)
}

func (v Value) NativeObject() *NativeObject {
	if v.kind != KindNativeObject {
		return nil
	}
	return v.data.(*NativeObject)
}
