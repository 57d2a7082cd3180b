// Package cli implements the tessera developer tool: authoring-time
// checks over textual predicate expressions. The query surface itself is
// a Go API and needs no CLI; this tool exists for the one part of a rule
// definition that is text - CEL predicates - so authors can check and
// inspect them without writing a test program.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "text" | "json" | "yaml"
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json", "yaml"}

// NewRootCommand creates the root command for the tessera CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "tessera",
		Short: "Tessera rule-authoring tool",
		Long:  "Check and inspect the CEL predicate expressions used in tessera query definitions.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			if opts.Verbose {
				slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
					Level: slog.LevelDebug,
				})))
			}
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (text|json|yaml)")

	// Add subcommands
	cmd.AddCommand(NewCheckCommand(opts))
	cmd.AddCommand(NewASTCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
