package parser

import (
	"strconv"
	"strings"

	"ptxparse/pkg/ast"
)

var linkages = map[string]bool{
	".visible": true,
	".extern":  true,
	".weak":    true,
	".common":  true,
}

var stateSpaces = map[string]bool{
	".global": true,
	".const":  true,
	".shared": true,
	".local":  true,
}

var vectorWidths = map[string]int{
	".v2": 2,
	".v4": 4,
}

// parseGlobal parses a module-scope variable declaration
//
//	[linkage] space [.align N] [.v2|.v4] type name [ '[' [N] ']' ] [= init] ;
func parseGlobal(input string) (string, *ast.Global, error) {
	first := directiveName(input)
	if !linkages[first] && !stateSpaces[first] {
		return input, nil, mismatch("global", input, "expected state space or linkage directive, found "+firstRune(input))
	}

	end := declarationEnd(input)
	if end < 0 {
		return input, nil, unterminated("global", input, "missing ';'")
	}
	decl := input[:end]

	tokens, err := tokenize(decl)
	if err != nil {
		return input, nil, mismatch("global", input, err.Error())
	}
	ts := &tokenStream{tokens: tokens}
	g := &ast.Global{Raw: decl}

	// at anchors errors on the token at the stream position
	at := func() string {
		if t, ok := ts.peek(); ok {
			return input[t.Offset:]
		}
		return input[end:]
	}

	if t, ok := ts.peek(); ok && t.Type == tokDirective && linkages[t.Value] {
		g.Linkage = t.Value
		ts.next()
	}

	t, ok := ts.accept(tokDirective, "")
	if !ok || !stateSpaces[t.Value] {
		return input, nil, mismatch("global", at(), "expected state space")
	}
	g.StateSpace = t.Value

	if _, ok := ts.accept(tokDirective, ".align"); ok {
		n, ok := ts.accept(tokNumber, "")
		if !ok {
			return input, nil, mismatch("global", at(), ".align expects a number")
		}
		if g.Align, err = strconv.Atoi(n.Value); err != nil {
			return input, nil, mismatch("global", input[n.Offset:], ".align expects an integer")
		}
	}

	lanes := 1
	if t, ok := ts.peek(); ok && t.Type == tokDirective && vectorWidths[t.Value] > 0 {
		g.Vector = t.Value
		lanes = vectorWidths[t.Value]
		ts.next()
	}

	t, ok = ts.accept(tokDirective, "")
	if !ok {
		return input, nil, mismatch("global", at(), "expected type")
	}
	size, known := TypeSize(t.Value)
	if !known {
		return input, nil, &UnknownTypeError{Type: t.Value, remaining: input[t.Offset:]}
	}
	g.Type = t.Value
	g.ElementSize = size * lanes

	t, ok = ts.accept(tokIdent, "")
	if !ok {
		return input, nil, mismatch("global", at(), "expected variable name")
	}
	g.Name = t.Value

	if open, ok := ts.accept(tokPunct, "["); ok {
		closeAt := strings.IndexByte(decl[open.Offset:], ']')
		if closeAt < 0 {
			return input, nil, unterminated("global", input, "missing ']'")
		}
		closeAt += open.Offset
		g.HasArray = true
		g.ArrayLen = strings.TrimSpace(decl[open.Offset+1 : closeAt])
		for {
			t, ok := ts.next()
			if !ok || t.Offset == closeAt {
				break
			}
		}
	}

	if eq, ok := ts.accept(tokPunct, "="); ok {
		g.Initializer = strings.TrimSpace(decl[eq.Offset+1:])
		if g.Initializer == "" {
			return input, nil, mismatch("global", input[end:], "expected initializer after '='")
		}
		return input[end+1:], g, nil
	}

	if t, ok := ts.peek(); ok && t.Type != tokComment {
		return input, nil, mismatch("global", input[t.Offset:], "unexpected "+strconv.Quote(t.Value)+" in global declaration")
	}
	return input[end+1:], g, nil
}

// declarationEnd returns the index of the first ';' outside braces, or -1
func declarationEnd(input string) int {
	depth := 0
	for i := 0; i < len(input); i++ {
		switch input[i] {
		case '{':
			depth++
		case '}':
			depth--
		case ';':
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}
