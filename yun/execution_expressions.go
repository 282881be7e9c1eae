package yun

import (
	"fmt"
	"math"
	"strconv"
)

// evalExpression evaluates expr. Once a cancellation is pending it stops
// evaluating and yields void; callers unwind at the next statement.
func (exec *Execution) evalExpression(expr Expr) (Value, error) {
	if exec.interrupted() {
		return NewVoid(), nil
	}

	switch e := expr.(type) {
	case *LiteralExpr:
		return e.Value, nil
	case *GroupingExpr:
		return exec.evalExpression(e.Inner)
	case *VariableExpr:
		return exec.lookupVariable(e.Name, e.id)
	case *AssignExpr:
		val, err := exec.evalExpression(e.Value)
		if err != nil {
			return Value{}, err
		}
		if err := exec.assignVariable(e.Name, e.id, val); err != nil {
			return Value{}, err
		}
		return val, nil
	case *UnaryExpr:
		return exec.evalUnary(e)
	case *BinaryExpr:
		return exec.evalBinary(e)
	case *LogicalExpr:
		return exec.evalLogical(e)
	case *CallExpr:
		return exec.evalCall(e)
	case *GetExpr:
		return exec.evalGet(e)
	case *SetExpr:
		return exec.evalSet(e)
	case *ListExpr:
		elems := make([]Value, 0, len(e.Elements))
		for _, el := range e.Elements {
			val, err := exec.evalExpression(el)
			if err != nil {
				return Value{}, err
			}
			elems = append(elems, val)
		}
		return NewList(elems), nil
	case *DictExpr:
		entries := make(map[string]Value, len(e.Entries))
		for _, entry := range e.Entries {
			val, err := exec.evalExpression(entry.Value)
			if err != nil {
				return Value{}, err
			}
			entries[entry.Key] = val
		}
		return NewDict(entries), nil
	case *FunctionExpr:
		return NewFunction(&Function{Params: e.Params, Body: e.Body, Closure: exec.env}), nil
	case *SelfExpr:
		return exec.lookupVariable(e.Keyword, e.id)
	case *SuperExpr:
		return exec.evalSuper(e)
	default:
		return Value{}, fmt.Errorf("unsupported expression %T", expr)
	}
}

func (exec *Execution) lookupVariable(name Token, id NodeID) (Value, error) {
	if distance, ok := exec.script.locals[id]; ok {
		val, err := exec.env.GetAt(distance, name)
		return val, exec.withFrames(err)
	}
	val, err := exec.globals.Get(name)
	return val, exec.withFrames(err)
}

func (exec *Execution) assignVariable(name Token, id NodeID, val Value) error {
	if distance, ok := exec.script.locals[id]; ok {
		return exec.withFrames(exec.env.AssignAt(distance, name, val))
	}
	return exec.withFrames(exec.globals.Assign(name, val))
}

func (exec *Execution) evalLogical(e *LogicalExpr) (Value, error) {
	left, err := exec.evalExpression(e.Left)
	if err != nil {
		return Value{}, err
	}
	if e.Operator.Type == tokenOr {
		if left.Truthy() {
			return left, nil
		}
	} else if !left.Truthy() {
		return left, nil
	}
	return exec.evalExpression(e.Right)
}

func (exec *Execution) evalGet(e *GetExpr) (Value, error) {
	obj, err := exec.evalExpression(e.Object)
	if err != nil {
		return Value{}, err
	}
	if e.Index != nil {
		index, err := exec.evalExpression(e.Index)
		if err != nil {
			return Value{}, err
		}
		list, i, err := exec.listSlot(obj, index, e.Name)
		if err != nil {
			return Value{}, err
		}
		return list.Elements[i], nil
	}

	name := e.Name.Lexeme
	switch obj.Kind() {
	case KindInstance:
		inst := obj.Instance()
		if val, ok := inst.Fields[name]; ok {
			return val, nil
		}
		if method := inst.Class.FindMethod(name); method != nil {
			return NewFunction(method.bind(inst)), nil
		}
		return Value{}, exec.runtimeError(ErrUndefinedProperty, e.Name, "undefined property '%s'", name)
	case KindDict:
		entries := obj.Dict().Entries
		if val, ok := entries[name]; ok {
			return val, nil
		}
		if val, ok := entries[strconv.Quote(name)]; ok {
			return val, nil
		}
		return NewNil(), nil
	default:
		return Value{}, exec.runtimeError(ErrType, e.Name, "only instances and dictionaries have properties, got %s", obj.Kind())
	}
}

func (exec *Execution) evalSet(e *SetExpr) (Value, error) {
	obj, err := exec.evalExpression(e.Object)
	if err != nil {
		return Value{}, err
	}

	if e.Index != nil {
		index, err := exec.evalExpression(e.Index)
		if err != nil {
			return Value{}, err
		}
		val, err := exec.evalExpression(e.Value)
		if err != nil {
			return Value{}, err
		}
		list, i, err := exec.listSlot(obj, index, e.Name)
		if err != nil {
			return Value{}, err
		}
		list.Elements[i] = val
		return val, nil
	}

	val, err := exec.evalExpression(e.Value)
	if err != nil {
		return Value{}, err
	}
	switch obj.Kind() {
	case KindInstance:
		obj.Instance().Fields[e.Name.Lexeme] = val
	case KindDict:
		obj.Dict().Entries[e.Name.Lexeme] = val
	default:
		return Value{}, exec.runtimeError(ErrType, e.Name, "only instances and dictionaries have fields, got %s", obj.Kind())
	}
	return val, nil
}

// listSlot validates an index access. Reads and writes share it, so both
// fail the same way for negative, fractional or out-of-range indexes.
func (exec *Execution) listSlot(obj, index Value, at Token) (*List, int, error) {
	list := obj.List()
	if list == nil {
		return nil, 0, exec.runtimeError(ErrType, at, "only lists can be indexed, got %s", obj.Kind())
	}
	if index.Kind() != KindNumber {
		return nil, 0, exec.runtimeError(ErrType, at, "list index must be a number, got %s", index.Kind())
	}
	n := index.Number()
	if n != math.Trunc(n) || n < 0 || n >= float64(len(list.Elements)) {
		return nil, 0, exec.runtimeError(ErrIndexOutOfRange, at, "list index %s out of range (length %d)", formatNumber(n), len(list.Elements))
	}
	return list, int(n), nil
}

func (exec *Execution) evalSuper(e *SuperExpr) (Value, error) {
	distance, ok := exec.script.locals[e.id]
	if !ok {
		return Value{}, exec.runtimeError(ErrUndefinedVariable, e.Keyword, "'super' is not bound here")
	}
	superVal, err := exec.env.GetAt(distance, e.Keyword)
	if err != nil {
		return Value{}, exec.withFrames(err)
	}
	selfTok := Token{Type: tokenSelf, Lexeme: "self", Pos: e.Keyword.Pos}
	selfVal, err := exec.env.GetAt(distance-1, selfTok)
	if err != nil {
		return Value{}, exec.withFrames(err)
	}

	superclass := superVal.Class()
	inst := selfVal.Instance()
	if superclass == nil || inst == nil {
		return Value{}, exec.runtimeError(ErrType, e.Keyword, "'super' used without a bound instance")
	}
	method := superclass.FindMethod(e.Method.Lexeme)
	if method == nil {
		return Value{}, exec.runtimeError(ErrUndefinedProperty, e.Method, "undefined property '%s'", e.Method.Lexeme)
	}
	return NewFunction(method.bind(inst)), nil
}
