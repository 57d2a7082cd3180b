package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/tessera-rules/tessera/expr"
	"github.com/tessera-rules/tessera/planir"
)

// NewASTCommand creates the ast command.
func NewASTCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "ast EXPR",
		Short: "Print the structural descriptor of a CEL predicate",
		Long: `Compile a CEL predicate expression and print its structural
descriptor - the document a compiling engine inspects when deciding how
to index the condition.

With --format text the descriptor renders in one line; json and yaml
print the full structural document.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAST(rootOpts, args[0], cmd)
		},
	}
}

func runAST(opts *RootOptions, source string, cmd *cobra.Command) error {
	pred, err := expr.CEL[map[string]any](source)
	if err != nil {
		return err
	}
	node := pred.Descriptor()

	out := cmd.OutOrStdout()
	switch opts.Format {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(planir.NodeDoc(node))
	case "yaml":
		data, err := yaml.Marshal(planir.NodeDoc(node))
		if err != nil {
			return err
		}
		_, err = out.Write(data)
		return err
	default: // text
		_, err := fmt.Fprintln(out, node.String())
		return err
	}
}
