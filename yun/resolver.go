package yun

type functionType int

const (
	functionNone functionType = iota
	functionPlain
	functionMethod
	functionInitializer
)

type classType int

const (
	classNone classType = iota
	classPlain
	classSubclass
)

// resolver computes how many frames separate each local reference from
// the frame that declares it. Its scopes mirror the frames the evaluator
// creates: one per block, one per function body holding the parameters,
// plus a self frame per method and a super frame per subclass.
type resolver struct {
	scopes  []map[string]bool
	globals map[string]bool
	locals  map[NodeID]int
	errs    DiagnosticList

	currentFunction functionType
	currentClass    classType
}

// Resolve returns the scope distance of every local variable, assignment,
// self and super reference, keyed by node id. Names not found in any
// enclosing scope are left out and looked up as globals at run time.
func Resolve(stmts []Stmt) (map[NodeID]int, error) {
	r := &resolver{
		globals: make(map[string]bool),
		locals:  make(map[NodeID]int),
	}
	r.resolveStatements(stmts)
	if err := r.errs.err(); err != nil {
		return nil, err
	}
	return r.locals, nil
}

func (r *resolver) errorAt(tok Token, msg string) {
	r.errs = append(r.errs, diagnosticAt(ResolutionError, tok, msg))
}

func (r *resolver) beginScope() {
	r.scopes = append(r.scopes, make(map[string]bool))
}

func (r *resolver) endScope() {
	r.scopes = r.scopes[:len(r.scopes)-1]
}

func (r *resolver) declare(name Token) {
	if len(r.scopes) == 0 {
		if _, ok := r.globals[name.Lexeme]; !ok {
			r.globals[name.Lexeme] = false
		}
		return
	}
	r.scopes[len(r.scopes)-1][name.Lexeme] = false
}

func (r *resolver) define(name Token) {
	if len(r.scopes) == 0 {
		r.globals[name.Lexeme] = true
		return
	}
	r.scopes[len(r.scopes)-1][name.Lexeme] = true
}

func (r *resolver) resolveLocal(id NodeID, name string) {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if _, ok := r.scopes[i][name]; ok {
			r.locals[id] = len(r.scopes) - 1 - i
			return
		}
	}
}

func (r *resolver) resolveStatements(stmts []Stmt) {
	for _, stmt := range stmts {
		r.resolveStatement(stmt)
	}
}

func (r *resolver) resolveStatement(stmt Stmt) {
	switch s := stmt.(type) {
	case *ExpressionStmt:
		r.resolveExpression(s.Expr)
	case *PrintStmt:
		r.resolveExpression(s.Expr)
	case *LetStmt:
		r.declare(s.Name)
		if s.Initializer != nil {
			r.resolveExpression(s.Initializer)
		}
		r.define(s.Name)
	case *DeclarativeStmt:
		r.declare(s.Name)
		r.resolveExpression(s.Value)
		r.define(s.Name)
	case *BlockStmt:
		r.beginScope()
		r.resolveStatements(s.Statements)
		r.endScope()
	case *IfStmt:
		r.resolveExpression(s.Condition)
		r.resolveStatement(s.Then)
		if s.Else != nil {
			r.resolveStatement(s.Else)
		}
	case *WhileStmt:
		r.resolveExpression(s.Condition)
		r.resolveStatement(s.Body)
	case *FunctionStmt:
		r.declare(s.Name)
		r.define(s.Name)
		r.resolveFunction(s.Params, s.Body, functionPlain)
	case *ReturnStmt:
		if r.currentFunction == functionNone {
			r.errorAt(s.Keyword, "can't return from top-level code")
		}
		if s.Value != nil {
			r.resolveExpression(s.Value)
		}
	case *ClassStmt:
		r.resolveClass(s)
	case *ExportStmt:
		r.resolveStatement(s.Inner)
	case *UseStmt:
	}
}

func (r *resolver) resolveClass(s *ClassStmt) {
	enclosingClass := r.currentClass
	defer func() { r.currentClass = enclosingClass }()

	r.declare(s.Name)
	r.define(s.Name)

	// The superclass expression belongs to the enclosing code, so self and
	// super in it are checked against the enclosing class.
	r.currentClass = classPlain
	if s.Superclass != nil {
		if v, ok := s.Superclass.(*VariableExpr); ok && v.Name.Lexeme == s.Name.Lexeme {
			r.errorAt(v.Name, "a class can't inherit from itself")
		}
		r.currentClass = enclosingClass
		r.resolveExpression(s.Superclass)
		r.currentClass = classSubclass
		r.beginScope()
		r.scopes[len(r.scopes)-1]["super"] = true
	}

	r.beginScope()
	r.scopes[len(r.scopes)-1]["self"] = true
	for _, method := range s.Methods {
		kind := functionMethod
		if method.IsInit {
			kind = functionInitializer
		}
		r.resolveFunction(method.Params, method.Body, kind)
	}
	r.endScope()

	if s.Superclass != nil {
		r.endScope()
	}
}

func (r *resolver) resolveFunction(params []Token, body []Stmt, kind functionType) {
	enclosing := r.currentFunction
	r.currentFunction = kind
	r.beginScope()
	for _, param := range params {
		r.declare(param)
		r.define(param)
	}
	r.resolveStatements(body)
	r.endScope()
	r.currentFunction = enclosing
}

func (r *resolver) resolveExpression(expr Expr) {
	switch e := expr.(type) {
	case *LiteralExpr:
	case *VariableExpr:
		r.resolveVariable(e)
	case *AssignExpr:
		r.resolveExpression(e.Value)
		r.resolveLocal(e.id, e.Name.Lexeme)
	case *UnaryExpr:
		r.resolveExpression(e.Right)
	case *BinaryExpr:
		r.resolveExpression(e.Left)
		r.resolveExpression(e.Right)
	case *LogicalExpr:
		r.resolveExpression(e.Left)
		r.resolveExpression(e.Right)
	case *GroupingExpr:
		r.resolveExpression(e.Inner)
	case *CallExpr:
		r.resolveExpression(e.Callee)
		for _, arg := range e.Args {
			r.resolveExpression(arg)
		}
	case *GetExpr:
		r.resolveExpression(e.Object)
		if e.Index != nil {
			r.resolveExpression(e.Index)
		}
	case *SetExpr:
		r.resolveExpression(e.Value)
		r.resolveExpression(e.Object)
		if e.Index != nil {
			r.resolveExpression(e.Index)
		}
	case *ListExpr:
		for _, elem := range e.Elements {
			r.resolveExpression(elem)
		}
	case *DictExpr:
		for _, entry := range e.Entries {
			r.resolveExpression(entry.Value)
		}
	case *FunctionExpr:
		r.resolveFunction(e.Params, e.Body, functionPlain)
	case *SelfExpr:
		if r.currentClass == classNone {
			r.errorAt(e.Keyword, "can't use 'self' outside of a method")
			return
		}
		r.resolveLocal(e.id, "self")
	case *SuperExpr:
		switch r.currentClass {
		case classNone:
			r.errorAt(e.Keyword, "can't use 'super' outside of a method")
			return
		case classPlain:
			r.errorAt(e.Keyword, "can't use 'super' in a class with no superclass")
			return
		}
		r.resolveLocal(e.id, "super")
	}
}

func (r *resolver) resolveVariable(e *VariableExpr) {
	name := e.Name.Lexeme
	if len(r.scopes) == 0 {
		if ready, ok := r.globals[name]; ok && !ready {
			r.errorAt(e.Name, "can't read variable in its own initializer")
		}
		return
	}
	if ready, ok := r.scopes[len(r.scopes)-1][name]; ok && !ready {
		r.errorAt(e.Name, "can't read variable in its own initializer")
		return
	}
	r.resolveLocal(e.id, name)
}
