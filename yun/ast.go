package yun

import "sync/atomic"

// NodeID identifies one AST node for the lifetime of the process. The
// resolver keys its scope-distance table by it.
type NodeID uint64

var lastNodeID atomic.Uint64

func nextNodeID() NodeID {
	return NodeID(lastNodeID.Add(1))
}

type Node interface {
	ID() NodeID
	Pos() Position
}

type Stmt interface {
	Node
	stmtNode()
}

type Expr interface {
	Node
	exprNode()
}

type LiteralExpr struct {
	Value    Value
	id       NodeID
	position Position
}

func (e *LiteralExpr) exprNode()     {}
func (e *LiteralExpr) ID() NodeID    { return e.id }
func (e *LiteralExpr) Pos() Position { return e.position }

type UnaryExpr struct {
	Operator Token
	Right    Expr
	id       NodeID
}

func (e *UnaryExpr) exprNode()     {}
func (e *UnaryExpr) ID() NodeID    { return e.id }
func (e *UnaryExpr) Pos() Position { return e.Operator.Pos }

type BinaryExpr struct {
	Left     Expr
	Operator Token
	Right    Expr
	id       NodeID
}

func (e *BinaryExpr) exprNode()     {}
func (e *BinaryExpr) ID() NodeID    { return e.id }
func (e *BinaryExpr) Pos() Position { return e.Operator.Pos }

// LogicalExpr is a short-circuiting `and` / `or`.
type LogicalExpr struct {
	Left     Expr
	Operator Token
	Right    Expr
	id       NodeID
}

func (e *LogicalExpr) exprNode()     {}
func (e *LogicalExpr) ID() NodeID    { return e.id }
func (e *LogicalExpr) Pos() Position { return e.Operator.Pos }

type GroupingExpr struct {
	Inner    Expr
	id       NodeID
	position Position
}

func (e *GroupingExpr) exprNode()     {}
func (e *GroupingExpr) ID() NodeID    { return e.id }
func (e *GroupingExpr) Pos() Position { return e.position }

type VariableExpr struct {
	Name Token
	id   NodeID
}

func (e *VariableExpr) exprNode()     {}
func (e *VariableExpr) ID() NodeID    { return e.id }
func (e *VariableExpr) Pos() Position { return e.Name.Pos }

type AssignExpr struct {
	Name  Token
	Value Expr
	id    NodeID
}

func (e *AssignExpr) exprNode()     {}
func (e *AssignExpr) ID() NodeID    { return e.id }
func (e *AssignExpr) Pos() Position { return e.Name.Pos }

type CallExpr struct {
	Callee Expr
	Paren  Token
	Args   []Expr
	id     NodeID
}

func (e *CallExpr) exprNode()     {}
func (e *CallExpr) ID() NodeID    { return e.id }
func (e *CallExpr) Pos() Position { return e.Paren.Pos }

// GetExpr reads `object.name` or, when Index is set, `object[index]`.
// For index access Name holds the opening bracket.
type GetExpr struct {
	Object Expr
	Name   Token
	Index  Expr
	id     NodeID
}

func (e *GetExpr) exprNode()     {}
func (e *GetExpr) ID() NodeID    { return e.id }
func (e *GetExpr) Pos() Position { return e.Name.Pos }

// SetExpr writes `object.name = value` or `object[index] = value`.
type SetExpr struct {
	Object Expr
	Name   Token
	Index  Expr
	Value  Expr
	id     NodeID
}

func (e *SetExpr) exprNode()     {}
func (e *SetExpr) ID() NodeID    { return e.id }
func (e *SetExpr) Pos() Position { return e.Name.Pos }

type ListExpr struct {
	Bracket  Token
	Elements []Expr
	id       NodeID
}

func (e *ListExpr) exprNode()     {}
func (e *ListExpr) ID() NodeID    { return e.id }
func (e *ListExpr) Pos() Position { return e.Bracket.Pos }

type DictEntry struct {
	Key   string
	Value Expr
}

type DictExpr struct {
	Brace   Token
	Entries []DictEntry
	id      NodeID
}

func (e *DictExpr) exprNode()     {}
func (e *DictExpr) ID() NodeID    { return e.id }
func (e *DictExpr) Pos() Position { return e.Brace.Pos }

// FunctionExpr is an anonymous `fn (params) { body }`.
type FunctionExpr struct {
	Keyword Token
	Params  []Token
	Body    []Stmt
	id      NodeID
}

func (e *FunctionExpr) exprNode()     {}
func (e *FunctionExpr) ID() NodeID    { return e.id }
func (e *FunctionExpr) Pos() Position { return e.Keyword.Pos }

type SelfExpr struct {
	Keyword Token
	id      NodeID
}

func (e *SelfExpr) exprNode()     {}
func (e *SelfExpr) ID() NodeID    { return e.id }
func (e *SelfExpr) Pos() Position { return e.Keyword.Pos }

type SuperExpr struct {
	Keyword Token
	Method  Token
	id      NodeID
}

func (e *SuperExpr) exprNode()     {}
func (e *SuperExpr) ID() NodeID    { return e.id }
func (e *SuperExpr) Pos() Position { return e.Keyword.Pos }
