package parser

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// isSpecial reports punctuation that can never be part of a name
func isSpecial(r rune) bool {
	switch r {
	case '.', '/', '(', ')', '[', ']', '{', '}', ',', ';', ':', '%':
		return true
	}
	return false
}

// parseName scans a maximal non-empty run of non-whitespace, non-special runes
func parseName(input string) (string, string, error) {
	end := strings.IndexFunc(input, func(r rune) bool {
		return unicode.IsSpace(r) || isSpecial(r)
	})
	if end < 0 {
		end = len(input)
	}
	if end == 0 {
		return input, "", mismatch("name", input, "expected identifier")
	}
	return input[end:], input[:end], nil
}

// parseParenthesizedNaive matches '(' up to the first ')'. Nested parentheses
// are not tracked: "((a)" yields "(a".
func parseParenthesizedNaive(input string) (string, string, error) {
	if !strings.HasPrefix(input, "(") {
		return input, "", mismatch("parenthesized group", input, "expected '('")
	}
	end := strings.IndexByte(input[1:], ')')
	if end < 0 {
		return input, "", unterminated("parenthesized group", input, "missing ')'")
	}
	return input[end+2:], input[1 : end+1], nil
}

// parseBracedBalanced matches '{' up to its matching '}', tracking depth so
// nested braces stay inside the captured text.
func parseBracedBalanced(input string) (string, string, error) {
	if !strings.HasPrefix(input, "{") {
		return input, "", mismatch("braced block", input, "expected '{'")
	}
	depth := 0
	for i := 0; i < len(input); i++ {
		switch input[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return input[i+1:], input[1:i], nil
			}
		}
	}
	return input, "", unterminated("braced block", input, "missing '}'")
}

// isSpaceOrTab matches the characters allowed inside a single source line gap
func isSpaceOrTab(b byte) bool {
	return b == ' ' || b == '\t'
}

// isMultispace matches any whitespace, including line terminators
func isMultispace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\r' || b == '\n'
}

// space0 consumes spaces and tabs
func space0(input string) string {
	i := 0
	for i < len(input) && isSpaceOrTab(input[i]) {
		i++
	}
	return input[i:]
}

// space1 consumes at least one space or tab
func space1(rule, input string) (string, error) {
	rest := space0(input)
	if len(rest) == len(input) {
		return input, mismatch(rule, input, "expected whitespace")
	}
	return rest, nil
}

// multispace1 consumes at least one whitespace byte of any kind
func multispace1(input string) (string, bool) {
	i := 0
	for i < len(input) && isMultispace(input[i]) {
		i++
	}
	return input[i:], i > 0
}

// tag consumes a literal prefix
func tag(rule, input, literal string) (string, error) {
	if !strings.HasPrefix(input, literal) {
		return input, mismatch(rule, input, "expected "+literal)
	}
	return input[len(literal):], nil
}

// firstRune returns the first rune of input for diagnostics
func firstRune(input string) string {
	if input == "" {
		return "end of input"
	}
	r, _ := utf8.DecodeRuneInString(input)
	return "'" + string(r) + "'"
}
