package parser

import (
	"strconv"
	"strings"

	"ptxparse/pkg/ast"
)

// preambleDirectives are the directives allowed before the first declaration
var preambleDirectives = map[string]bool{
	".version":      true,
	".target":       true,
	".address_size": true,
}

// parsePreamble consumes the header directives. The first one must be
// .version; the preamble ends at the first line that is not a header
// directive.
func parsePreamble(input string) (string, ast.Preamble, error) {
	var preamble ast.Preamble

	rest := input
	start := -1
	for {
		candidate := skipOptional(rest)
		name := directiveName(candidate)
		if !preambleDirectives[name] {
			break
		}
		if start < 0 {
			if name != ".version" {
				return input, preamble, mismatch("preamble", candidate, "expected .version before "+name)
			}
			start = len(input) - len(candidate)
		}

		line := candidate
		if end := strings.IndexByte(line, '\n'); end >= 0 {
			line = line[:end]
		}
		directive, err := parseDirectiveLine(name, line, candidate)
		if err != nil {
			return input, preamble, err
		}
		if err := applyDirective(&preamble, directive, candidate); err != nil {
			return input, preamble, err
		}
		preamble.Directives = append(preamble.Directives, directive)
		rest = candidate[len(line):]
	}

	if start < 0 {
		candidate := skipOptional(input)
		return input, preamble, mismatch("preamble", candidate, "expected .version directive, found "+firstRune(candidate))
	}
	preamble.Raw = input[start : len(input)-len(rest)]
	return rest, preamble, nil
}

// directiveName returns the leading `.name` of input, or "" if there is none
func directiveName(input string) string {
	if !strings.HasPrefix(input, ".") {
		return ""
	}
	_, name, err := parseName(input[1:])
	if err != nil {
		return ""
	}
	return input[:len(name)+1]
}

// parseDirectiveLine splits one directive line into name and value, dropping
// a trailing comment. rest is the input starting at line and anchors errors.
func parseDirectiveLine(name, line, rest string) (ast.Directive, error) {
	tokens, err := tokenize(line)
	if err != nil {
		return ast.Directive{}, mismatch("preamble", rest, err.Error())
	}

	end := len(line)
	for _, t := range tokens {
		if t.Type == tokComment {
			end = t.Offset
			break
		}
	}
	raw := strings.TrimRight(line[:end], " \t\r")
	return ast.Directive{
		Name:  name,
		Value: strings.TrimSpace(raw[len(name):]),
		Raw:   raw,
	}, nil
}

// applyDirective records the typed value of a header directive
func applyDirective(preamble *ast.Preamble, d ast.Directive, rest string) error {
	tokens, err := tokenize(d.Value)
	if err != nil {
		return mismatch("preamble", rest, err.Error())
	}
	ts := &tokenStream{tokens: tokens}

	switch d.Name {
	case ".version":
		t, ok := ts.accept(tokNumber, "")
		if !ok || !strings.Contains(t.Value, ".") {
			return mismatch("preamble", rest, ".version expects MAJOR.MINOR")
		}
		preamble.Version = t.Value
	case ".target":
		for {
			t, ok := ts.accept(tokIdent, "")
			if !ok {
				return mismatch("preamble", rest, ".target expects a target name")
			}
			preamble.Target = append(preamble.Target, t.Value)
			if _, ok := ts.accept(tokPunct, ","); !ok {
				break
			}
		}
	case ".address_size":
		t, ok := ts.accept(tokNumber, "")
		if !ok {
			return mismatch("preamble", rest, ".address_size expects a number")
		}
		size, err := strconv.Atoi(t.Value)
		if err != nil {
			return mismatch("preamble", rest, ".address_size expects an integer")
		}
		preamble.AddressSize = size
	}

	if t, ok := ts.peek(); ok {
		return mismatch("preamble", rest, "unexpected "+tokenTypeName(t.Type)+" "+strconv.Quote(t.Value)+" in "+d.Name)
	}
	return nil
}
