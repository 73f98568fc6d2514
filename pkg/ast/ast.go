// Package ast defines the record types produced by the PTX parser.
//
// Every string field is a view into the source text the record was parsed
// from: it is a substring sharing the source's backing memory, never a copy.
package ast

import (
	"strings"
)

// Position represents a position in the source file
type Position struct {
	Line   int
	Column int
	Offset int
}

// Range represents a range in the source file
type Range struct {
	Start Position
	End   Position
}

// PositionAt converts a byte offset in src into a 1-based line/column position.
// Offsets outside src are clamped.
func PositionAt(src string, offset int) Position {
	if offset < 0 {
		offset = 0
	}
	if offset > len(src) {
		offset = len(src)
	}
	prefix := src[:offset]
	line := strings.Count(prefix, "\n") + 1
	column := offset - strings.LastIndexByte(prefix, '\n')
	return Position{Line: line, Column: column, Offset: offset}
}

// RangeOf returns the range covering src[start:end].
func RangeOf(src string, start, end int) Range {
	return Range{Start: PositionAt(src, start), End: PositionAt(src, end)}
}

// CommentKind distinguishes the two comment forms
type CommentKind int

const (
	CommentLine CommentKind = iota
	CommentBlock
)

func (k CommentKind) String() string {
	switch k {
	case CommentLine:
		return "line"
	case CommentBlock:
		return "block"
	default:
		return "unknown"
	}
}

// Comment is a line (`// ...`) or block (`/* ... */`) comment. Text excludes the
// comment markers and, for line comments, the line terminator.
type Comment struct {
	Kind CommentKind
	Text string
}

// Directive is a single preamble line such as `.version 7.0`
type Directive struct {
	Name  string // Directive keyword including the leading dot
	Value string // Everything after the keyword, trimmed
	Raw   string // Whole directive line without the terminator
}

// Preamble holds the header directives preceding any declaration
type Preamble struct {
	Raw         string
	Directives  []Directive
	Version     string   // e.g. "7.0"
	Target      []string // e.g. ["sm_80"]
	AddressSize int      // 0 when the directive is absent
}

// Global is a module-level variable declaration
type Global struct {
	Raw         string // Declaration text without the trailing ';'
	Linkage     string // .visible, .extern, .weak, .common or empty
	StateSpace  string // .global, .const, .shared or .local
	Align       int    // 0 when no .align is given
	Vector      string // .v2, .v4 or empty
	Type        string
	ElementSize int
	Name        string
	HasArray    bool
	ArrayLen    string // Text between the brackets, may be empty for `name[]`
	Initializer string // Text after '=', trimmed; empty when absent
}

// ReturnValue is the opaque text of a function's return-value clause
type ReturnValue struct {
	Raw string
}

// Parameter is one decoded `.param <type> <name>` entry
type Parameter struct {
	Name string
	Type string
	Size int
	Raw  string
}

// Parameters is a function's parameter group. Params is decoded from Raw.
type Parameters struct {
	Raw    string
	Params []Parameter
}

// Offsets returns the byte offset of each parameter when laid out in order,
// each aligned to its own size.
func (p *Parameters) Offsets() []int {
	if p == nil {
		return nil
	}
	offsets := make([]int, len(p.Params))
	offset := 0
	for i, param := range p.Params {
		offset = alignUp(offset, param.Size)
		offsets[i] = offset
		offset += param.Size
	}
	return offsets
}

// TotalSize returns the size in bytes of the laid out parameter buffer
func (p *Parameters) TotalSize() int {
	if p == nil || len(p.Params) == 0 {
		return 0
	}
	offsets := p.Offsets()
	last := len(p.Params) - 1
	return offsets[last] + p.Params[last].Size
}

func alignUp(offset, align int) int {
	if align <= 1 {
		return offset
	}
	return (offset + align - 1) / align * align
}

// FunctionSignature is everything before a function's body or terminator
type FunctionSignature struct {
	Visible     bool
	Entry       bool
	ReturnValue *ReturnValue
	Name        string
	Parameters  *Parameters
}

// FunctionBody is the raw text between the outermost braces of a function
type FunctionBody struct {
	Text string
}

// Function is a function declaration. Body is nil for `;`-terminated prototypes.
type Function struct {
	Signature FunctionSignature
	Body      *FunctionBody
}

// Name returns the function's name
func (f *Function) Name() string {
	return f.Signature.Name
}

// IsKernel reports whether the function is a `.visible .entry` kernel
func (f *Function) IsKernel() bool {
	return f.Signature.Entry
}

// DeclKind represents the type of a top-level declaration
type DeclKind int

const (
	DeclUnknown DeclKind = iota
	DeclFunction
	DeclGlobal
)

func (k DeclKind) String() string {
	switch k {
	case DeclFunction:
		return "function"
	case DeclGlobal:
		return "global"
	default:
		return "unknown"
	}
}

// Declaration is one top-level function or global. Exactly one of Function
// and Global is set, according to Kind.
type Declaration struct {
	Kind     DeclKind
	Function *Function
	Global   *Global
	Range    Range
}

// Name returns the declared name
func (d Declaration) Name() string {
	switch d.Kind {
	case DeclFunction:
		return d.Function.Name()
	case DeclGlobal:
		return d.Global.Name
	default:
		return ""
	}
}

// PtxFile is a fully materialized module
type PtxFile struct {
	Filename     string
	Content      string
	Preamble     Preamble
	Functions    []*Function
	Globals      []*Global
	Declarations []Declaration // Functions and globals in source order
}

// NewPtxFile creates an empty module for the given source
func NewPtxFile(filename, content string, preamble Preamble) *PtxFile {
	return &PtxFile{
		Filename:     filename,
		Content:      content,
		Preamble:     preamble,
		Functions:    make([]*Function, 0),
		Globals:      make([]*Global, 0),
		Declarations: make([]Declaration, 0),
	}
}

// AddDeclaration appends a declaration to the source-order list and to the
// per-kind list
func (f *PtxFile) AddDeclaration(decl Declaration) {
	switch decl.Kind {
	case DeclFunction:
		f.Functions = append(f.Functions, decl.Function)
	case DeclGlobal:
		f.Globals = append(f.Globals, decl.Global)
	}
	f.Declarations = append(f.Declarations, decl)
}

// FindFunction finds a function by name
func (f *PtxFile) FindFunction(name string) *Function {
	for _, fn := range f.Functions {
		if fn.Name() == name {
			return fn
		}
	}
	return nil
}

// FindDeclaration finds a function or global by name
func (f *PtxFile) FindDeclaration(name string) (Declaration, bool) {
	for _, decl := range f.Declarations {
		if decl.Name() == name {
			return decl, true
		}
	}
	return Declaration{}, false
}

// Kernels returns all `.visible .entry` functions
func (f *PtxFile) Kernels() []*Function {
	var kernels []*Function
	for _, fn := range f.Functions {
		if fn.IsKernel() {
			kernels = append(kernels, fn)
		}
	}
	return kernels
}
