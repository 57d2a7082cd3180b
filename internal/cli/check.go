package cli

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/tessera-rules/tessera/expr"
)

// checkResult is one expression's outcome.
type checkResult struct {
	Expr  string `json:"expr" yaml:"expr"`
	Valid bool   `json:"valid" yaml:"valid"`
	Error string `json:"error,omitempty" yaml:"error,omitempty"`
}

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check EXPR...",
		Short: "Check CEL predicate expressions",
		Long: `Compile one or more CEL predicate expressions and report diagnostics.

Each expression is compiled against the same environment query
predicates use: a single variable 'fact' holding a map view of the
element under test, and a required boolean result.

Exits non-zero if any expression fails to compile.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(rootOpts, args, cmd)
		},
	}
}

func runCheck(opts *RootOptions, exprs []string, cmd *cobra.Command) error {
	results := make([]checkResult, 0, len(exprs))
	failed := 0
	for _, source := range exprs {
		slog.Debug("checking expression", "expr", source)
		res := checkResult{Expr: source, Valid: true}
		if _, err := expr.CEL[map[string]any](source); err != nil {
			res.Valid = false
			res.Error = err.Error()
			failed++
		}
		results = append(results, res)
	}

	if err := writeResults(cmd, opts.Format, results); err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d expression(s) failed to compile", failed, len(exprs))
	}
	return nil
}

func writeResults(cmd *cobra.Command, format string, results []checkResult) error {
	out := cmd.OutOrStdout()
	switch format {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	case "yaml":
		data, err := yaml.Marshal(results)
		if err != nil {
			return err
		}
		_, err = out.Write(data)
		return err
	default: // text
		for _, r := range results {
			if r.Valid {
				fmt.Fprintf(out, "ok: %s\n", r.Expr)
			} else {
				fmt.Fprintf(out, "error: %s\n  %s\n", r.Expr, r.Error)
			}
		}
		return nil
	}
}
