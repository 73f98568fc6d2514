package cmd

import (
	"fmt"
	"io"

	"ptxparse/pkg/formatter"

	"github.com/spf13/cobra"
)

var extractCmd = &cobra.Command{
	Use:   "extract [file] [name]",
	Short: "Extract the source text of a single declaration",
	Long: `Extract the original text of a function or global declaration by name.
With --standalone the module preamble is prepended so the output is itself
a loadable PTX module.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		filename := args[0]
		name := args[1]

		file, _, err := loadModule(cmd, filename)
		if err != nil {
			return err
		}

		decl, ok := file.FindDeclaration(name)
		if !ok {
			return fmt.Errorf("declaration not found: %s", name)
		}

		standalone, _ := cmd.Flags().GetBool("standalone")

		f := formatter.New()
		var output string
		if standalone {
			output = f.ExtractStandalone(file, decl)
		} else {
			output = f.ExtractDeclaration(file, decl) + "\n"
		}

		_, err = io.WriteString(cmd.OutOrStdout(), output)
		return err
	},
}

func init() {
	extractCmd.Flags().BoolP("standalone", "s", false, "Prepend the module preamble")
}
