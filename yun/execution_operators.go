package yun

import "strings"

func (exec *Execution) evalUnary(e *UnaryExpr) (Value, error) {
	right, err := exec.evalExpression(e.Right)
	if err != nil {
		return Value{}, err
	}
	if exec.interrupted() {
		return NewVoid(), nil
	}
	switch e.Operator.Type {
	case tokenMinus:
		if right.Kind() != KindNumber {
			return Value{}, exec.runtimeError(ErrType, e.Operator, "operand of '-' must be a number, got %s", right.Kind())
		}
		return NewNumber(-right.Number()), nil
	case tokenBang:
		return NewBool(!right.Truthy()), nil
	default:
		return Value{}, exec.runtimeError(ErrType, e.Operator, "unsupported unary operator %s", e.Operator.Lexeme)
	}
}

func (exec *Execution) evalBinary(e *BinaryExpr) (Value, error) {
	left, err := exec.evalExpression(e.Left)
	if err != nil {
		return Value{}, err
	}
	right, err := exec.evalExpression(e.Right)
	if err != nil {
		return Value{}, err
	}
	if exec.interrupted() {
		return NewVoid(), nil
	}

	op := e.Operator
	switch op.Type {
	case tokenPlus:
		return exec.addValues(left, right, op)
	case tokenMinus, tokenAsterisk, tokenSlash:
		return exec.arithmetic(left, right, op)
	case tokenLT, tokenLTE, tokenGT, tokenGTE:
		return exec.compareValues(left, right, op)
	case tokenEQ:
		return NewBool(left.Equal(right)), nil
	case tokenNotEQ:
		return NewBool(!left.Equal(right)), nil
	default:
		return Value{}, exec.runtimeError(ErrType, op, "unsupported operator %s", op.Lexeme)
	}
}

// addValues implements +. Appending to a list mutates it and returns the
// same list.
func (exec *Execution) addValues(left, right Value, op Token) (Value, error) {
	switch {
	case left.Kind() == KindNumber && right.Kind() == KindNumber:
		return NewNumber(left.Number() + right.Number()), nil
	case left.Kind() == KindString && right.Kind() == KindString:
		return NewString(left.Str() + right.Str()), nil
	case left.Kind() == KindList:
		list := left.List()
		list.Elements = append(list.Elements, right)
		return left, nil
	default:
		return Value{}, exec.runtimeError(ErrType, op, "cannot add %s and %s", left.Kind(), right.Kind())
	}
}

func (exec *Execution) arithmetic(left, right Value, op Token) (Value, error) {
	if left.Kind() != KindNumber || right.Kind() != KindNumber {
		return Value{}, exec.runtimeError(ErrType, op, "operands of '%s' must be numbers, got %s and %s", op.Lexeme, left.Kind(), right.Kind())
	}
	a, b := left.Number(), right.Number()
	switch op.Type {
	case tokenMinus:
		return NewNumber(a - b), nil
	case tokenAsterisk:
		return NewNumber(a * b), nil
	default:
		return NewNumber(a / b), nil
	}
}

func (exec *Execution) compareValues(left, right Value, op Token) (Value, error) {
	var cmp int
	switch {
	case left.Kind() == KindNumber && right.Kind() == KindNumber:
		a, b := left.Number(), right.Number()
		switch op.Type {
		case tokenLT:
			return NewBool(a < b), nil
		case tokenLTE:
			return NewBool(a <= b), nil
		case tokenGT:
			return NewBool(a > b), nil
		default:
			return NewBool(a >= b), nil
		}
	case left.Kind() == KindString && right.Kind() == KindString:
		cmp = strings.Compare(left.Str(), right.Str())
	default:
		return Value{}, exec.runtimeError(ErrType, op, "cannot compare %s and %s", left.Kind(), right.Kind())
	}

	switch op.Type {
	case tokenLT:
		return NewBool(cmp < 0), nil
	case tokenLTE:
		return NewBool(cmp <= 0), nil
	case tokenGT:
		return NewBool(cmp > 0), nil
	default:
		return NewBool(cmp >= 0), nil
	}
}
