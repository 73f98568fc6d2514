package parser

import (
	"fmt"

	"ptxparse/pkg/ast"
)

// ErrorKind classifies a ParseError
type ErrorKind int

const (
	// KindMismatch means the rule did not match at the current offset
	KindMismatch ErrorKind = iota
	// KindUnterminated means a delimiter was opened but input ended first
	KindUnterminated
)

func (k ErrorKind) String() string {
	switch k {
	case KindMismatch:
		return "mismatch"
	case KindUnterminated:
		return "unterminated"
	default:
		return "unknown"
	}
}

// ParseError reports that a grammar rule failed. Offset and Pos are filled in
// once the error reaches a Module, which knows the full source.
type ParseError struct {
	Kind   ErrorKind
	Rule   string
	Msg    string
	Offset int
	Pos    ast.Position

	remaining string
}

func (e *ParseError) Error() string {
	if e.Pos.Line > 0 {
		return fmt.Sprintf("parse error at %d:%d in %s: %s", e.Pos.Line, e.Pos.Column, e.Rule, e.Msg)
	}
	return fmt.Sprintf("parse error in %s: %s", e.Rule, e.Msg)
}

// UnknownTypeError reports a type suffix missing from the width table
type UnknownTypeError struct {
	Type   string
	Offset int
	Pos    ast.Position

	remaining string
}

func (e *UnknownTypeError) Error() string {
	if e.Pos.Line > 0 {
		return fmt.Sprintf("unknown type %q at %d:%d", e.Type, e.Pos.Line, e.Pos.Column)
	}
	return fmt.Sprintf("unknown type %q", e.Type)
}

func mismatch(rule, input, msg string) *ParseError {
	return &ParseError{Kind: KindMismatch, Rule: rule, Msg: msg, remaining: input}
}

// unterminated anchors the error at end of input
func unterminated(rule, input, msg string) *ParseError {
	return &ParseError{Kind: KindUnterminated, Rule: rule, Msg: msg, remaining: input[len(input):]}
}

// remainingOf returns the unparsed input at the point of failure, or false for
// errors not produced by this package.
func remainingOf(err error) (string, bool) {
	switch e := err.(type) {
	case *ParseError:
		return e.remaining, true
	case *UnknownTypeError:
		return e.remaining, true
	}
	return "", false
}

// locate fills in Offset and Pos for errors raised while parsing src
func locate(src string, err error) error {
	switch e := err.(type) {
	case *ParseError:
		e.Offset = len(src) - len(e.remaining)
		e.Pos = ast.PositionAt(src, e.Offset)
	case *UnknownTypeError:
		e.Offset = len(src) - len(e.remaining)
		e.Pos = ast.PositionAt(src, e.Offset)
	}
	return err
}
