package source

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/hupe1980/paramgrid"
	"github.com/hupe1980/paramgrid/codec"
	"github.com/hupe1980/paramgrid/label"
)

// ErrNoSchema is returned when a grid is requested from documents that do
// not declare one.
var ErrNoSchema = errors.New("no schema declared")

// Document is a decoded parameter document.
type Document struct {
	// Schema holds the declared dimensions, or nil if the document has none.
	Schema []label.Dimension
	// Params maps parameter names to their records.
	Params map[string][]label.Record
}

// Names returns the parameter names in lexical order.
func (d *Document) Names() []string {
	return slices.Sorted(maps.Keys(d.Params))
}

// Grid builds the declared grid.
func (d *Document) Grid() (*label.Grid, error) {
	if d.Schema == nil {
		return nil, ErrNoSchema
	}
	return label.NewGrid(d.Schema...)
}

// Decode parses document bytes with c.
func Decode(c codec.Codec, data []byte) (*Document, error) {
	var raw map[string]any
	if err := c.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode %s: %w", c.Name(), err)
	}

	doc := &Document{Params: make(map[string][]label.Record, len(raw))}
	if s, ok := raw[SchemaKey]; ok {
		dims, err := decodeSchema(s)
		if err != nil {
			return nil, err
		}
		doc.Schema = dims
		delete(raw, SchemaKey)
	}

	dates := dateLabels(doc.Schema)
	for name, v := range raw {
		records, err := decodeRecords(v, dates)
		if err != nil {
			return nil, fmt.Errorf("parameter %s: %w", name, err)
		}
		doc.Params[name] = records
	}
	return doc, nil
}

func decodeRecords(raw any, dates map[string]bool) ([]label.Record, error) {
	list, ok := raw.([]any)
	if !ok || !isRecordList(list) {
		v, err := label.FromAny(raw)
		if err != nil {
			return nil, err
		}
		return []label.Record{label.NewRecord(v, nil)}, nil
	}

	records := make([]label.Record, 0, len(list))
	for i, item := range list {
		r, err := label.RecordFromMap(item.(map[string]any))
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		for name := range dates {
			v, ok := r.Labels[name]
			if !ok {
				continue
			}
			if s, ok := v.AsString(); ok {
				dv, err := label.ParseDate(s)
				if err != nil {
					return nil, fmt.Errorf("record %d: %s: %w", i, name, err)
				}
				r.Labels[name] = dv
			}
		}
		records = append(records, r)
	}
	return records, nil
}

// isRecordList reports whether every element is an object.
func isRecordList(list []any) bool {
	for _, item := range list {
		if _, ok := item.(map[string]any); !ok {
			return false
		}
	}
	return true
}

// Encode renders parameters as a document including the grid schema.
func Encode(c codec.Codec, p *paramgrid.Parameters) ([]byte, error) {
	out := map[string]any{SchemaKey: encodeSchema(p.Grid())}
	for _, name := range p.Names() {
		records, err := p.Records(name)
		if err != nil {
			return nil, err
		}
		list := make([]any, len(records))
		for i, r := range records {
			list[i] = r.Map()
		}
		out[name] = list
	}
	return c.Marshal(out)
}

// Build creates parameters from documents applied in order. The first
// declared schema defines the grid. A parameter's first occurrence adds
// it; later occurrences adjust it, one Adjust call per document.
func Build(ctx context.Context, docs []*Document, optFns ...paramgrid.Option) (*paramgrid.Parameters, error) {
	var grid *label.Grid
	for _, d := range docs {
		if d.Schema == nil {
			continue
		}
		g, err := d.Grid()
		if err != nil {
			return nil, err
		}
		grid = g
		break
	}
	if grid == nil {
		return nil, ErrNoSchema
	}

	p := paramgrid.New(grid, optFns...)
	for i, d := range docs {
		adj := make(map[string][]label.Record)
		for _, name := range d.Names() {
			if _, err := p.Sel(name); err == nil {
				adj[name] = d.Params[name]
				continue
			}
			if err := p.Add(ctx, name, d.Params[name]); err != nil {
				return nil, fmt.Errorf("document %d: %w", i, err)
			}
		}
		if len(adj) == 0 {
			continue
		}
		if _, err := p.Adjust(ctx, adj); err != nil {
			return nil, fmt.Errorf("document %d: %w", i, err)
		}
	}
	return p, nil
}
