package cli

import (
	"fmt"
	"io"
	"maps"
	"slices"

	"github.com/hupe1980/paramgrid/codec"
	"github.com/hupe1980/paramgrid/label"
	"github.com/hupe1980/paramgrid/source"
	"github.com/spf13/cobra"
)

// AdjustResult is the per-parameter outcome of an adjust command.
type AdjustResult struct {
	Param    string `json:"param"`
	Updated  int    `json:"updated"`
	Deleted  int    `json:"deleted"`
	Appended int    `json:"appended"`
	Replaced int    `json:"replaced"`
}

// NewAdjustCommand creates the adjust command.
func NewAdjustCommand(rootOpts *RootOptions) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "adjust <adjustment>...",
		Short: "Merge adjustment documents onto the loaded parameters",
		Long: `Merge adjustment documents onto the parameters loaded with --doc.

Each adjustment is applied atomically across its parameters. Records with a
null value delete what they match; labels they omit match every value.
With --output the adjusted parameters are written as a document, compressed
when the name ends in .zst or .lz4.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdjust(cmd, rootOpts, args, output)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the adjusted parameters to this path or URI")
	return cmd
}

func runAdjust(cmd *cobra.Command, opts *RootOptions, uris []string, output string) error {
	ctx := cmd.Context()
	f := opts.formatter(cmd)

	p, l, err := opts.loadParameters(ctx, cmd)
	if err != nil {
		return err
	}
	docs, err := l.LoadAll(ctx, uris...)
	if err != nil {
		return WrapExitError(ExitCommandError, "load adjustments", err)
	}

	totals := make(map[string]*AdjustResult)
	for _, doc := range docs {
		adj := make(map[string][]label.Record, len(doc.Params))
		for _, name := range doc.Names() {
			adj[name] = doc.Params[name]
		}
		stats, err := p.Adjust(ctx, adj)
		if err != nil {
			return f.Fail(ExitFailure, "adjust", err)
		}
		for name, s := range stats {
			t, ok := totals[name]
			if !ok {
				t = &AdjustResult{Param: name}
				totals[name] = t
			}
			t.Updated += s.Updated
			t.Deleted += s.Deleted
			t.Appended += s.Appended
			t.Replaced += s.Replaced
		}
	}

	if output != "" {
		data, err := source.Encode(codec.ForPath(source.StripCompression(output)), p)
		if err != nil {
			return WrapExitError(ExitFailure, "encode", err)
		}
		if err := l.Save(ctx, output, data); err != nil {
			return WrapExitError(ExitCommandError, "save", err)
		}
	}

	results := make([]AdjustResult, 0, len(totals))
	for _, name := range slices.Sorted(maps.Keys(totals)) {
		results = append(results, *totals[name])
	}
	return f.Success(results, func(w io.Writer) {
		for _, r := range results {
			_, _ = fmt.Fprintf(w, "%s: updated=%d deleted=%d appended=%d replaced=%d\n",
				r.Param, r.Updated, r.Deleted, r.Appended, r.Replaced)
		}
	})
}
