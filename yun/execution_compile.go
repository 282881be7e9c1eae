package yun

// Script is a scanned, parsed and resolved program, ready to execute any
// number of times.
type Script struct {
	source     string
	statements []Stmt
	locals     map[NodeID]int
}

// Source returns the text the script was compiled from.
func (s *Script) Source() string { return s.source }

// Statements returns the top-level statements.
func (s *Script) Statements() []Stmt { return s.statements }

// Compile runs the scanner, parser and resolver over source. The first
// stage that reports problems stops compilation and its DiagnosticList is
// returned; nothing is executed.
func Compile(source string) (*Script, error) {
	tokens, err := ScanTokens(source)
	if err != nil {
		return nil, err
	}
	stmts, err := Parse(tokens)
	if err != nil {
		return nil, err
	}
	locals, err := Resolve(stmts)
	if err != nil {
		return nil, err
	}
	return &Script{source: source, statements: stmts, locals: locals}, nil
}
