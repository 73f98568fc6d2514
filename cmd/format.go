package cmd

import (
	"io"

	"ptxparse/pkg/formatter"

	"github.com/spf13/cobra"
)

var formatCmd = &cobra.Command{
	Use:   "format [file]",
	Short: "Re-emit a PTX module with normalized layout",
	Long: `Format a PTX module by parsing it and reconstructing every declaration.
Signatures are re-indented one parameter per line; function bodies and
global initializers are kept verbatim. Comments outside bodies are dropped.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		file, _, err := loadModule(cmd, args[0])
		if err != nil {
			return err
		}

		f := formatter.New()
		if indent, _ := cmd.Flags().GetInt("indent"); indent > 0 {
			f = f.WithIndent(indent)
		}

		_, err = io.WriteString(cmd.OutOrStdout(), f.FormatFile(file))
		return err
	},
}

func init() {
	formatCmd.Flags().IntP("indent", "i", 0, "Indent parameters with this many spaces (0 uses tabs)")
}
