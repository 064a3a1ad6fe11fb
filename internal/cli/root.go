package cli

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/hupe1980/paramgrid"
	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose   bool
	Format    string // "json" | "text"
	Docs      []string
	RateLimit float64
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the paramgrid CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "paramgrid",
		Short: "Query, adjust and densify labeled parameters",
		Long: `paramgrid loads parameter documents (JSON or YAML, local or from
mem://, s3:// and minio:// stores) and answers label queries, applies
adjustments and converts parameters to dense arrays.

Documents given with --doc are applied in order: the first one declaring a
schema defines the label grid, later ones adjust what came before.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			if len(opts.Docs) == 0 {
				return NewExitError(ExitCommandError, "at least one --doc is required")
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "log document loads to stderr")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringArrayVarP(&opts.Docs, "doc", "d", nil, "parameter document (path, URI or inline text); repeatable")
	cmd.PersistentFlags().Float64Var(&opts.RateLimit, "rate-limit", 0, "max remote fetches per second (0 = unlimited)")

	cmd.AddCommand(NewQueryCommand(opts))
	cmd.AddCommand(NewAdjustCommand(opts))
	cmd.AddCommand(NewArrayCommand(opts))

	return cmd
}

func (o *RootOptions) logger(cmd *cobra.Command) *paramgrid.Logger {
	if !o.Verbose {
		return paramgrid.NoopLogger()
	}
	return paramgrid.NewLogger(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   o.Verbose,
	}
}
