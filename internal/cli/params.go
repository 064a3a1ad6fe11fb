package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/hupe1980/paramgrid"
	"github.com/hupe1980/paramgrid/label"
	"github.com/hupe1980/paramgrid/source"
	"github.com/spf13/cobra"
)

func (o *RootOptions) loader(cmd *cobra.Command) *source.Loader {
	opts := []source.Option{source.WithLogger(o.logger(cmd))}
	if o.RateLimit > 0 {
		opts = append(opts, source.WithRateLimit(o.RateLimit, 1))
	}
	return source.NewLoader(opts...)
}

// loadParameters loads and applies the --doc documents.
func (o *RootOptions) loadParameters(ctx context.Context, cmd *cobra.Command) (*paramgrid.Parameters, *source.Loader, error) {
	l := o.loader(cmd)
	docs, err := l.LoadAll(ctx, o.Docs...)
	if err != nil {
		return nil, nil, WrapExitError(ExitCommandError, "load documents", err)
	}
	p, err := source.Build(ctx, docs, paramgrid.WithLogger(o.logger(cmd)))
	if err != nil {
		return nil, nil, WrapExitError(ExitFailure, "build parameters", err)
	}
	return p, l, nil
}

// parseAssignments parses "label=v1,v2" arguments against the grid.
func parseAssignments(grid *label.Grid, args []string) (map[string][]label.Value, error) {
	out := make(map[string][]label.Value, len(args))
	for _, arg := range args {
		name, list, ok := strings.Cut(arg, "=")
		if !ok || name == "" || list == "" {
			return nil, NewExitError(ExitCommandError, fmt.Sprintf("invalid label assignment %q: expected label=value[,value...]", arg))
		}
		for _, tok := range strings.Split(list, ",") {
			out[name] = append(out[name], parseValue(grid, name, strings.TrimSpace(tok)))
		}
	}
	return out, nil
}

// parseValue resolves tok against the label's declared domain by textual
// form, falling back to int, float, bool and string in that order.
func parseValue(grid *label.Grid, name, tok string) label.Value {
	for _, v := range grid.Domain(name) {
		if v.String() == tok {
			return v
		}
	}
	if i, err := strconv.ParseInt(tok, 10, 64); err == nil {
		return label.Int(i)
	}
	if f, err := strconv.ParseFloat(tok, 64); err == nil {
		return label.Float(f)
	}
	if b, err := strconv.ParseBool(tok); err == nil {
		return label.Bool(b)
	}
	return label.String(tok)
}
