package parser

import (
	"ptxparse/pkg/ast"
)

// parseFunction parses a signature followed by either ';' or a braced body
func parseFunction(input string) (string, *ast.Function, error) {
	rest, signature, err := parseFunctionSignature(input)
	if err != nil {
		return input, nil, err
	}

	rest = skipOptional(rest)
	if after, err := tag("function", rest, ";"); err == nil {
		return after, &ast.Function{Signature: signature}, nil
	}

	rest, body, err := parseFunctionBody(rest)
	if err != nil {
		if pe, ok := err.(*ParseError); ok && pe.Kind == KindMismatch {
			return input, nil, mismatch("function", pe.remaining, "expected ';' or '{' after signature, found "+firstRune(pe.remaining))
		}
		return input, nil, err
	}
	return rest, &ast.Function{Signature: signature, Body: body}, nil
}

// parseFunctionBody captures the balanced braced block as opaque text
func parseFunctionBody(input string) (string, *ast.FunctionBody, error) {
	rest, text, err := parseBracedBalanced(input)
	if err != nil {
		return input, nil, err
	}
	return rest, &ast.FunctionBody{Text: text}, nil
}

// parseFunctionSignature parses
//
//	(.visible .entry | .func) [(return)] name [(params)]
func parseFunctionSignature(input string) (string, ast.FunctionSignature, error) {
	var sig ast.FunctionSignature

	rest, err := parseLinkage(input)
	if err == nil {
		sig.Visible, sig.Entry = true, true
	} else if rest, err = tag("function signature", input, ".func"); err != nil {
		return input, sig, mismatch("function signature", input, "expected '.visible .entry' or '.func'")
	}

	rest, err = space1("function signature", rest)
	if err != nil {
		return input, sig, err
	}

	if after, raw, err := parseParenthesizedNaive(rest); err == nil {
		sig.ReturnValue = &ast.ReturnValue{Raw: raw}
		rest = after
	} else if pe := err.(*ParseError); pe.Kind == KindUnterminated {
		return input, sig, err
	}

	rest = space0(rest)
	rest, sig.Name, err = parseName(rest)
	if err != nil {
		return input, sig, err
	}

	rest = skipOptional(rest)
	after, raw, err := parseParenthesizedNaive(rest)
	switch {
	case err == nil:
		params := &ast.Parameters{Raw: raw}
		if err := decodeParameters(params, rest[1:]); err != nil {
			return input, sig, err
		}
		sig.Parameters = params
		rest = after
	case err.(*ParseError).Kind == KindUnterminated:
		return input, sig, err
	}

	return rest, sig, nil
}

// parseLinkage matches the two-token `.visible .entry` marker
func parseLinkage(input string) (string, error) {
	rest, err := tag("function signature", input, ".visible")
	if err != nil {
		return input, err
	}
	if rest, err = space1("function signature", rest); err != nil {
		return input, err
	}
	return tag("function signature", rest, ".entry")
}
