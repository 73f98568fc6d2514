package parser

import (
	"strings"

	"ptxparse/pkg/ast"
)

// parseComment recognizes a line or block comment at the start of input.
// A line comment leaves its terminator unconsumed.
func parseComment(input string) (string, ast.Comment, error) {
	if len(input) < 2 || input[0] != '/' {
		return input, ast.Comment{}, mismatch("comment", input, "expected '//' or '/*'")
	}
	switch input[1] {
	case '/':
		body := input[2:]
		end := strings.IndexByte(body, '\n')
		if end < 0 {
			end = len(body)
		}
		return body[end:], ast.Comment{Kind: ast.CommentLine, Text: body[:end]}, nil
	case '*':
		body := input[2:]
		end := strings.Index(body, "*/")
		if end < 0 {
			return input, ast.Comment{}, unterminated("block comment", input, "missing '*/'")
		}
		return body[end+2:], ast.Comment{Kind: ast.CommentBlock, Text: body[:end]}, nil
	}
	return input, ast.Comment{}, mismatch("comment", input, "expected '//' or '/*'")
}

// commentOrWhitespace consumes one run of whitespace or one comment
func commentOrWhitespace(input string) (string, error) {
	if rest, ok := multispace1(input); ok {
		return rest, nil
	}
	rest, _, err := parseComment(input)
	if err != nil {
		return input, mismatch("comment or whitespace", input, "expected whitespace or comment, found "+firstRune(input))
	}
	return rest, nil
}

// skipCommentsAndWhitespace greedily consumes whitespace runs and comments and
// returns how many it consumed. It fails when it cannot consume anything, so
// callers decide whether skipping is optional.
func skipCommentsAndWhitespace(input string) (string, int, error) {
	count := 0
	for {
		rest, err := commentOrWhitespace(input)
		if err != nil {
			if count == 0 {
				return input, 0, err
			}
			return input, count, nil
		}
		input = rest
		count++
	}
}

// skipOptional is skipCommentsAndWhitespace with failure treated as no-op
func skipOptional(input string) string {
	rest, _, _ := skipCommentsAndWhitespace(input)
	return rest
}
