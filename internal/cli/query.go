package cli

import (
	"fmt"
	"io"

	"github.com/hupe1980/paramgrid/label"
	"github.com/hupe1980/paramgrid/store"
	"github.com/spf13/cobra"
)

var ops = []store.Op{store.OpEq, store.OpNe, store.OpLt, store.OpLte, store.OpGt, store.OpGte}

func parseOp(s string) (store.Op, error) {
	for _, op := range ops {
		if op.String() == s {
			return op, nil
		}
	}
	return 0, NewExitError(ExitCommandError, fmt.Sprintf("invalid op %q: must be one of eq, ne, lt, lte, gt, gte", s))
}

// NewQueryCommand creates the query command.
func NewQueryCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		op     string
		strict bool
	)
	cmd := &cobra.Command{
		Use:   "query <param> [label=value[,value...]...]",
		Short: "Select records of a parameter by label",
		Long: `Select records of a parameter.

Values listed for one label are alternatives; different labels must all
match. With --strict=false, records lacking a queried label are kept.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd, rootOpts, args[0], args[1:], op, strict)
		},
	}
	cmd.Flags().StringVar(&op, "op", "eq", "comparison (eq|ne|lt|lte|gt|gte)")
	cmd.Flags().BoolVar(&strict, "strict", true, "drop records lacking a queried label")
	return cmd
}

func runQuery(cmd *cobra.Command, opts *RootOptions, param string, assignments []string, opName string, strict bool) error {
	ctx := cmd.Context()
	f := opts.formatter(cmd)

	op, err := parseOp(opName)
	if err != nil {
		return err
	}
	p, _, err := opts.loadParameters(ctx, cmd)
	if err != nil {
		return err
	}
	labels, err := parseAssignments(p.Grid(), assignments)
	if err != nil {
		return err
	}

	records, err := p.Select(ctx, param, op, labels, strict)
	if err != nil {
		return f.Fail(ExitFailure, "query", err)
	}

	data := make([]map[string]any, len(records))
	for i, r := range records {
		data[i] = r.Map()
	}
	return f.Success(data, func(w io.Writer) {
		writeRecords(w, records)
	})
}

func writeRecords(w io.Writer, records []label.Record) {
	for _, r := range records {
		_, _ = fmt.Fprintln(w, r.String())
	}
}
