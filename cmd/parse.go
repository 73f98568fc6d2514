package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"ptxparse/pkg/ast"
	"ptxparse/pkg/formatter"
	"ptxparse/pkg/parser"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"
)

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Parse a PTX module and list its declarations",
	Long: `Parse a PTX module and list its preamble, functions and globals.
The output can be in JSON or YAML format for further processing or human-readable format.
Defaults for --format and --bodies can be set in a .ptxparse.yaml file.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		filename := args[0]

		file, config, err := loadModule(cmd, filename)
		if err != nil {
			return err
		}

		// Flags override the config file
		format := config.Format
		if cmd.Flags().Changed("format") || format == "" {
			format, _ = cmd.Flags().GetString("format")
		}
		showBodies := config.ShowBodies
		if cmd.Flags().Changed("bodies") {
			showBodies, _ = cmd.Flags().GetBool("bodies")
		}

		out := cmd.OutOrStdout()
		switch format {
		case "json":
			return outputJSON(out, file, showBodies)
		case "yaml":
			return outputYAML(out, file, showBodies)
		case "human":
			_, err := io.WriteString(out, formatter.New().Summary(file, showBodies))
			return err
		default:
			return fmt.Errorf("unknown output format %q (expected human, json or yaml)", format)
		}
	},
}

func init() {
	parseCmd.Flags().StringP("format", "f", "human", "Output format (human, json, yaml)")
	parseCmd.Flags().BoolP("bodies", "b", false, "Include function bodies in the output")
}

// loadModule reads, configures and parses a PTX file
func loadModule(cmd *cobra.Command, filename string) (*ast.PtxFile, *Config, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	config, err := loadConfig(configPath, filename, cmd.ErrOrStderr())
	if err != nil {
		return nil, nil, err
	}

	file, err := parser.New().Parse(filename, string(content))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse %w", err)
	}

	return config.filter(file), config, nil
}

// Simplified structures for JSON/YAML output
type outputParameter struct {
	Name   string `json:"name" yaml:"name"`
	Type   string `json:"type" yaml:"type"`
	Size   int    `json:"size" yaml:"size"`
	Offset int    `json:"offset" yaml:"offset"`
}

type outputDeclaration struct {
	Kind        string            `json:"kind" yaml:"kind"`
	Name        string            `json:"name" yaml:"name"`
	Line        int               `json:"line" yaml:"line"`
	Column      int               `json:"column" yaml:"column"`
	Visible     bool              `json:"visible,omitempty" yaml:"visible,omitempty"`
	Entry       bool              `json:"entry,omitempty" yaml:"entry,omitempty"`
	ReturnValue string            `json:"returnValue,omitempty" yaml:"returnValue,omitempty"`
	Parameters  []outputParameter `json:"parameters,omitempty" yaml:"parameters,omitempty"`
	HasBody     bool              `json:"hasBody,omitempty" yaml:"hasBody,omitempty"`
	Body        string            `json:"body,omitempty" yaml:"body,omitempty"`
	Linkage     string            `json:"linkage,omitempty" yaml:"linkage,omitempty"`
	StateSpace  string            `json:"stateSpace,omitempty" yaml:"stateSpace,omitempty"`
	Type        string            `json:"type,omitempty" yaml:"type,omitempty"`
	Align       int               `json:"align,omitempty" yaml:"align,omitempty"`
	ArrayLen    string            `json:"arrayLen,omitempty" yaml:"arrayLen,omitempty"`
	Initializer string            `json:"initializer,omitempty" yaml:"initializer,omitempty"`
}

type outputModule struct {
	Filename     string              `json:"filename" yaml:"filename"`
	Version      string              `json:"version" yaml:"version"`
	Target       []string            `json:"target,omitempty" yaml:"target,omitempty"`
	AddressSize  int                 `json:"addressSize,omitempty" yaml:"addressSize,omitempty"`
	Declarations []outputDeclaration `json:"declarations" yaml:"declarations"`
}

func convertModule(file *ast.PtxFile, showBodies bool) outputModule {
	out := outputModule{
		Filename:     file.Filename,
		Version:      file.Preamble.Version,
		Target:       file.Preamble.Target,
		AddressSize:  file.Preamble.AddressSize,
		Declarations: make([]outputDeclaration, 0, len(file.Declarations)),
	}

	for _, decl := range file.Declarations {
		od := outputDeclaration{
			Kind:   decl.Kind.String(),
			Name:   decl.Name(),
			Line:   decl.Range.Start.Line,
			Column: decl.Range.Start.Column,
		}

		switch decl.Kind {
		case ast.DeclFunction:
			sig := decl.Function.Signature
			od.Visible = sig.Visible
			od.Entry = sig.Entry
			if sig.ReturnValue != nil {
				od.ReturnValue = sig.ReturnValue.Raw
			}
			if sig.Parameters != nil {
				offsets := sig.Parameters.Offsets()
				for i, p := range sig.Parameters.Params {
					od.Parameters = append(od.Parameters, outputParameter{
						Name:   p.Name,
						Type:   p.Type,
						Size:   p.Size,
						Offset: offsets[i],
					})
				}
			}
			if decl.Function.Body != nil {
				od.HasBody = true
				if showBodies {
					od.Body = decl.Function.Body.Text
				}
			}
		case ast.DeclGlobal:
			g := decl.Global
			od.Linkage = g.Linkage
			od.StateSpace = g.StateSpace
			od.Type = g.Type
			if g.Vector != "" {
				od.Type = g.Vector + " " + g.Type
			}
			od.Align = g.Align
			od.ArrayLen = g.ArrayLen
			od.Initializer = g.Initializer
		}

		out.Declarations = append(out.Declarations, od)
	}

	return out
}

func outputJSON(w io.Writer, file *ast.PtxFile, showBodies bool) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(convertModule(file, showBodies))
}

func outputYAML(w io.Writer, file *ast.PtxFile, showBodies bool) error {
	data, err := yaml.Marshal(convertModule(file, showBodies))
	if err != nil {
		return fmt.Errorf("failed to encode yaml: %w", err)
	}
	_, err = w.Write(data)
	return err
}
