package cli

import (
	"fmt"
	"io"

	"github.com/hupe1980/paramgrid/codec"
	"github.com/spf13/cobra"
)

// ArrayResult is the output of the array command.
type ArrayResult struct {
	Labels []string `json:"labels"`
	Shape  []int    `json:"shape"`
	Values any      `json:"values"`
}

// NewArrayCommand creates the array command.
func NewArrayCommand(rootOpts *RootOptions) *cobra.Command {
	var state []string
	cmd := &cobra.Command{
		Use:   "array <param>",
		Short: "Convert a parameter to a dense nested array",
		Long: `Convert a parameter to a dense nested array.

Axes follow the grid's label order; each axis spans the label's domain,
narrowed by any --state label=value[,value...] restrictions. The records
must cover every cell exactly once.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runArray(cmd, rootOpts, args[0], state)
		},
	}
	cmd.Flags().StringArrayVar(&state, "state", nil, "restrict a label to values (label=v1,v2); repeatable")
	return cmd
}

func runArray(cmd *cobra.Command, opts *RootOptions, param string, state []string) error {
	ctx := cmd.Context()
	f := opts.formatter(cmd)

	p, _, err := opts.loadParameters(ctx, cmd)
	if err != nil {
		return err
	}
	if len(state) > 0 {
		values, err := parseAssignments(p.Grid(), state)
		if err != nil {
			return err
		}
		if err := p.SetState(values); err != nil {
			return f.Fail(ExitFailure, "set state", err)
		}
	}

	arr, err := p.ToArray(ctx, param)
	if err != nil {
		return f.Fail(ExitFailure, "array", err)
	}

	v := arr.Value()
	result := ArrayResult{Labels: arr.Labels(), Shape: arr.Shape, Values: v.Interface()}
	return f.Success(result, func(w io.Writer) {
		_, _ = fmt.Fprintf(w, "labels: %v\n", result.Labels)
		_, _ = fmt.Fprintf(w, "shape: %v\n", result.Shape)
		_, _ = fmt.Fprintf(w, "values: %s\n", codec.MustMarshal(codec.Default, v))
	})
}
