// Package parser implements a streaming, zero-copy parser for PTX modules.
//
// A module is a preamble (.version, .target, .address_size) followed by
// function and global declarations. Function bodies are captured verbatim and
// never interpreted. Every string in the produced records is a substring of
// the parsed source.
package parser

import (
	"fmt"

	"ptxparse/pkg/ast"
)

// Parser parses whole PTX files into materialized modules
type Parser struct{}

// New creates a new parser instance
func New() *Parser {
	return &Parser{}
}

// Parse parses content and collects every declaration. Errors keep their
// concrete type (*ParseError or *UnknownTypeError) behind the filename
// prefix, so callers can use errors.As.
func (p *Parser) Parse(filename, content string) (*ast.PtxFile, error) {
	m, err := NewModule(content)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}

	file, err := m.Collect(filename)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return file, nil
}
