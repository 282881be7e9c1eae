package yun

type ExpressionStmt struct {
	Expr Expr
	id   NodeID
}

func (s *ExpressionStmt) stmtNode()     {}
func (s *ExpressionStmt) ID() NodeID    { return s.id }
func (s *ExpressionStmt) Pos() Position { return s.Expr.Pos() }

type PrintStmt struct {
	Keyword Token
	Expr    Expr
	id      NodeID
}

func (s *PrintStmt) stmtNode()     {}
func (s *PrintStmt) ID() NodeID    { return s.id }
func (s *PrintStmt) Pos() Position { return s.Keyword.Pos }

// LetStmt declares a variable. A nil Initializer leaves the binding
// declared but uninitialized, which is distinct from holding nil.
type LetStmt struct {
	Name        Token
	Initializer Expr
	id          NodeID
}

func (s *LetStmt) stmtNode()     {}
func (s *LetStmt) ID() NodeID    { return s.id }
func (s *LetStmt) Pos() Position { return s.Name.Pos }

type BlockStmt struct {
	Statements []Stmt
	id         NodeID
	position   Position
}

func (s *BlockStmt) stmtNode()     {}
func (s *BlockStmt) ID() NodeID    { return s.id }
func (s *BlockStmt) Pos() Position { return s.position }

type IfStmt struct {
	Keyword   Token
	Condition Expr
	Then      Stmt
	Else      Stmt
	id        NodeID
}

func (s *IfStmt) stmtNode()     {}
func (s *IfStmt) ID() NodeID    { return s.id }
func (s *IfStmt) Pos() Position { return s.Keyword.Pos }

type WhileStmt struct {
	Keyword   Token
	Condition Expr
	Body      Stmt
	id        NodeID
}

func (s *WhileStmt) stmtNode()     {}
func (s *WhileStmt) ID() NodeID    { return s.id }
func (s *WhileStmt) Pos() Position { return s.Keyword.Pos }

// FunctionStmt is a named function or a class method. IsInit marks the
// method literally named init.
type FunctionStmt struct {
	Name   Token
	Params []Token
	Body   []Stmt
	IsInit bool
	id     NodeID
}

func (s *FunctionStmt) stmtNode()     {}
func (s *FunctionStmt) ID() NodeID    { return s.id }
func (s *FunctionStmt) Pos() Position { return s.Name.Pos }

type ReturnStmt struct {
	Keyword Token
	Value   Expr
	id      NodeID
}

func (s *ReturnStmt) stmtNode()     {}
func (s *ReturnStmt) ID() NodeID    { return s.id }
func (s *ReturnStmt) Pos() Position { return s.Keyword.Pos }

type ClassStmt struct {
	Name       Token
	Superclass Expr
	Methods    []*FunctionStmt
	id         NodeID
}

func (s *ClassStmt) stmtNode()     {}
func (s *ClassStmt) ID() NodeID    { return s.id }
func (s *ClassStmt) Pos() Position { return s.Name.Pos }

type ExportStmt struct {
	Keyword Token
	Inner   Stmt
	id      NodeID
}

func (s *ExportStmt) stmtNode()     {}
func (s *ExportStmt) ID() NodeID    { return s.id }
func (s *ExportStmt) Pos() Position { return s.Keyword.Pos }

// UseStmt names an import. The interpreter treats it as a no-op.
type UseStmt struct {
	Keyword Token
	Path    Token
	id      NodeID
}

func (s *UseStmt) stmtNode()     {}
func (s *UseStmt) ID() NodeID    { return s.id }
func (s *UseStmt) Pos() Position { return s.Keyword.Pos }

// DeclarativeStmt is `buffer`, `pipeline` or `render NAME = expr;`. The
// payload shape belongs to the host; the interpreter binds NAME to the
// evaluated value.
type DeclarativeStmt struct {
	Keyword Token
	Name    Token
	Value   Expr
	id      NodeID
}

func (s *DeclarativeStmt) stmtNode()     {}
func (s *DeclarativeStmt) ID() NodeID    { return s.id }
func (s *DeclarativeStmt) Pos() Position { return s.Keyword.Pos }
