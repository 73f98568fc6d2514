// Package formatter handles PTX reconstruction and human-readable summaries
package formatter

import (
	"fmt"
	"strings"

	"ptxparse/pkg/ast"
)

// Formatter handles code reconstruction and formatting
type Formatter struct {
	indentSize int
	useSpaces  bool
}

// New creates a new formatter
func New() *Formatter {
	return &Formatter{
		indentSize: 4,
		useSpaces:  false,
	}
}

// WithIndent returns a formatter indenting with the given number of spaces.
// Zero selects tabs.
func (f *Formatter) WithIndent(spaces int) *Formatter {
	return &Formatter{indentSize: spaces, useSpaces: spaces > 0}
}

// getIndent returns one level of indentation
func (f *Formatter) getIndent() string {
	if f.useSpaces {
		return strings.Repeat(" ", f.indentSize)
	}
	return "\t"
}

// FormatFile reconstructs a module with normalized spacing between
// declarations. Function bodies and initializers are emitted verbatim.
func (f *Formatter) FormatFile(file *ast.PtxFile) string {
	var result strings.Builder

	for _, d := range file.Preamble.Directives {
		result.WriteString(d.Raw)
		result.WriteString("\n")
	}

	for _, decl := range file.Declarations {
		result.WriteString("\n")
		result.WriteString(f.FormatDeclaration(decl))
		result.WriteString("\n")
	}

	return result.String()
}

// FormatDeclaration reconstructs a single function or global
func (f *Formatter) FormatDeclaration(decl ast.Declaration) string {
	switch decl.Kind {
	case ast.DeclFunction:
		return f.FormatFunction(decl.Function)
	case ast.DeclGlobal:
		return decl.Global.Raw + ";"
	default:
		return ""
	}
}

// FormatFunction reconstructs a function from its signature and raw body
func (f *Formatter) FormatFunction(fn *ast.Function) string {
	var result strings.Builder
	result.WriteString(f.FormatSignature(fn.Signature))

	if fn.Body == nil {
		result.WriteString(";")
		return result.String()
	}

	result.WriteString("\n{")
	result.WriteString(fn.Body.Text)
	result.WriteString("}")
	return result.String()
}

// FormatSignature reconstructs a signature, one parameter line per line
func (f *Formatter) FormatSignature(sig ast.FunctionSignature) string {
	var result strings.Builder

	if sig.Entry {
		result.WriteString(".visible .entry ")
	} else {
		result.WriteString(".func ")
	}

	if sig.ReturnValue != nil {
		result.WriteString("(" + strings.TrimSpace(sig.ReturnValue.Raw) + ") ")
	}
	result.WriteString(sig.Name)

	if sig.Parameters != nil {
		lines := f.parameterLines(sig.Parameters.Raw)
		if len(lines) == 0 {
			result.WriteString("()")
		} else {
			result.WriteString("(\n")
			indent := f.getIndent()
			for i, line := range lines {
				result.WriteString(indent + line)
				if i < len(lines)-1 {
					result.WriteString(",")
				}
				result.WriteString("\n")
			}
			result.WriteString(")")
		}
	}

	return result.String()
}

// parameterLines splits a raw parameter group into trimmed, comma-free
// entries. Lines the decoder skips are kept.
func (f *Formatter) parameterLines(raw string) []string {
	var lines []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSuffix(strings.TrimSpace(line), ",")
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// ExtractDeclaration returns the original source text of a declaration
func (f *Formatter) ExtractDeclaration(file *ast.PtxFile, decl ast.Declaration) string {
	return file.Content[decl.Range.Start.Offset:decl.Range.End.Offset]
}

// ExtractStandalone returns the preamble followed by a declaration's
// original text, which is itself a loadable module.
func (f *Formatter) ExtractStandalone(file *ast.PtxFile, decl ast.Declaration) string {
	return file.Preamble.Raw + "\n\n" + f.ExtractDeclaration(file, decl) + "\n"
}

// Summary renders a human-readable description of a parsed module
func (f *Formatter) Summary(file *ast.PtxFile, showBodies bool) string {
	var result strings.Builder
	indent := f.getIndent()

	fmt.Fprintf(&result, "Parsed file: %s\n", file.Filename)
	fmt.Fprintf(&result, "=====================================\n\n")

	fmt.Fprintf(&result, "PTX version: %s\n", file.Preamble.Version)
	if len(file.Preamble.Target) > 0 {
		fmt.Fprintf(&result, "Target: %s\n", strings.Join(file.Preamble.Target, ", "))
	}
	if file.Preamble.AddressSize > 0 {
		fmt.Fprintf(&result, "Address size: %d\n", file.Preamble.AddressSize)
	}
	result.WriteString("\n")

	for _, decl := range file.Declarations {
		switch decl.Kind {
		case ast.DeclFunction:
			f.writeFunction(&result, decl, indent, showBodies)
		case ast.DeclGlobal:
			f.writeGlobal(&result, decl, indent)
		}
		result.WriteString("\n")
	}

	fmt.Fprintf(&result, "Summary:\n")
	fmt.Fprintf(&result, "--------\n")
	fmt.Fprintf(&result, "Functions: %d (%d kernels)\n", len(file.Functions), len(file.Kernels()))
	fmt.Fprintf(&result, "Globals: %d\n", len(file.Globals))

	return result.String()
}

func (f *Formatter) writeFunction(w *strings.Builder, decl ast.Declaration, indent string, showBodies bool) {
	fn := decl.Function
	kind := "function"
	if fn.IsKernel() {
		kind = "kernel"
	}
	fmt.Fprintf(w, "%s: %s", kind, fn.Name())
	if fn.Body == nil {
		w.WriteString(" [prototype]")
	}
	w.WriteString("\n")
	fmt.Fprintf(w, "%sLocation: Line %d, Column %d\n", indent, decl.Range.Start.Line, decl.Range.Start.Column)

	if fn.Signature.ReturnValue != nil {
		fmt.Fprintf(w, "%sReturns: %s\n", indent, strings.TrimSpace(fn.Signature.ReturnValue.Raw))
	}

	if params := fn.Signature.Parameters; params != nil && len(params.Params) > 0 {
		fmt.Fprintf(w, "%sParameters (%d bytes):\n", indent, params.TotalSize())
		offsets := params.Offsets()
		for i, p := range params.Params {
			fmt.Fprintf(w, "%s%s%-4d %-7s %s\n", indent, indent, offsets[i], p.Type, p.Name)
		}
	}

	if showBodies && fn.Body != nil {
		fmt.Fprintf(w, "%sBody:\n", indent)
		for _, line := range strings.Split(strings.Trim(fn.Body.Text, "\n"), "\n") {
			fmt.Fprintf(w, "%s%s%s\n", indent, indent, line)
		}
	}
}

func (f *Formatter) writeGlobal(w *strings.Builder, decl ast.Declaration, indent string) {
	g := decl.Global
	fmt.Fprintf(w, "global: %s\n", g.Name)
	fmt.Fprintf(w, "%sLocation: Line %d, Column %d\n", indent, decl.Range.Start.Line, decl.Range.Start.Column)
	fmt.Fprintf(w, "%sSpace: %s", indent, g.StateSpace)
	if g.Linkage != "" {
		fmt.Fprintf(w, " [%s]", g.Linkage)
	}
	w.WriteString("\n")

	typ := g.Type
	if g.Vector != "" {
		typ = g.Vector + " " + typ
	}
	if g.HasArray {
		typ += "[" + g.ArrayLen + "]"
	}
	fmt.Fprintf(w, "%sType: %s (%d bytes per element)\n", indent, typ, g.ElementSize)
	if g.Align > 0 {
		fmt.Fprintf(w, "%sAlign: %d\n", indent, g.Align)
	}
	if g.Initializer != "" {
		fmt.Fprintf(w, "%sInitializer: %s\n", indent, g.Initializer)
	}
}
