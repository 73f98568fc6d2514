package parser

import (
	"errors"
	"io"
	"iter"

	"ptxparse/pkg/ast"
)

// Module is a forward-only cursor over the declarations of one PTX source.
// A Module must not be advanced from more than one goroutine at a time;
// independent Modules over the same source are safe.
type Module struct {
	src      string
	preamble ast.Preamble
	rest     string
	done     bool
}

// NewModule parses the preamble of src and returns a cursor positioned at the
// first declaration.
func NewModule(src string) (*Module, error) {
	rest, preamble, err := parsePreamble(skipOptional(src))
	if err != nil {
		return nil, locate(src, err)
	}
	return &Module{src: src, preamble: preamble, rest: rest}, nil
}

// Preamble returns the module header
func (m *Module) Preamble() ast.Preamble {
	return m.preamble
}

// Offset returns the byte offset of the cursor in the source
func (m *Module) Offset() int {
	return len(m.src) - len(m.rest)
}

// Done reports whether the cursor is exhausted
func (m *Module) Done() bool {
	return m.done
}

// Next returns the next declaration. It returns io.EOF once only whitespace
// and comments remain. Any other error is terminal: every later call returns
// io.EOF without parsing again.
func (m *Module) Next() (ast.Declaration, error) {
	if m.done {
		return ast.Declaration{}, io.EOF
	}

	input := skipOptional(m.rest)
	if input == "" {
		m.rest = input
		m.done = true
		return ast.Declaration{}, io.EOF
	}

	start := len(m.src) - len(input)
	rest, decl, err := parseDeclaration(input)
	if err != nil {
		m.done = true
		return ast.Declaration{}, locate(m.src, err)
	}

	m.rest = rest
	decl.Range = ast.RangeOf(m.src, start, len(m.src)-len(rest))
	return decl, nil
}

// All yields the remaining declarations in source order. A terminal error is
// yielded once as the last pair.
func (m *Module) All() iter.Seq2[ast.Declaration, error] {
	return func(yield func(ast.Declaration, error) bool) {
		for {
			decl, err := m.Next()
			if errors.Is(err, io.EOF) {
				return
			}
			if !yield(decl, err) || err != nil {
				return
			}
		}
	}
}

// Collect drains the cursor into a materialized PtxFile
func (m *Module) Collect(filename string) (*ast.PtxFile, error) {
	file := ast.NewPtxFile(filename, m.src, m.preamble)
	for decl, err := range m.All() {
		if err != nil {
			return nil, err
		}
		file.AddDeclaration(decl)
	}
	return file, nil
}

// parseDeclaration tries a function, then a global, at the same offset. When
// both fail the error that got further into the input wins. Unknown types are
// reported as-is: they are not a reason to try the other grammar.
func parseDeclaration(input string) (string, ast.Declaration, error) {
	rest, fn, fnErr := parseFunction(input)
	if fnErr == nil {
		return rest, ast.Declaration{Kind: ast.DeclFunction, Function: fn}, nil
	}
	var ute *UnknownTypeError
	if errors.As(fnErr, &ute) {
		return input, ast.Declaration{}, fnErr
	}

	rest, g, gErr := parseGlobal(input)
	if gErr == nil {
		return rest, ast.Declaration{Kind: ast.DeclGlobal, Global: g}, nil
	}

	fnRest, _ := remainingOf(fnErr)
	gRest, _ := remainingOf(gErr)
	if len(fnRest) < len(gRest) {
		return input, ast.Declaration{}, fnErr
	}
	return input, ast.Declaration{}, gErr
}
