package source

import (
	"errors"
	"fmt"

	"github.com/hupe1980/paramgrid/label"
)

// SchemaKey is the reserved document key declaring the label grid.
const SchemaKey = "schema"

// maxRange bounds the size of a min/max label domain.
const maxRange = 100_000

func decodeSchema(raw any) ([]label.Dimension, error) {
	m, ok := raw.(map[string]any)
	if !ok {
		return nil, errors.New("schema: expected an object")
	}
	list, ok := m["labels"].([]any)
	if !ok {
		return nil, errors.New("schema: expected a labels list")
	}

	dims := make([]label.Dimension, 0, len(list))
	for i, entry := range list {
		em, ok := entry.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("schema: label %d: expected an object", i)
		}
		d, err := decodeDimension(em)
		if err != nil {
			return nil, fmt.Errorf("schema: label %d: %w", i, err)
		}
		dims = append(dims, d)
	}
	return dims, nil
}

func decodeDimension(m map[string]any) (label.Dimension, error) {
	name, _ := m["name"].(string)
	if name == "" {
		return label.Dimension{}, errors.New("missing name")
	}
	d := label.Dimension{Name: name}

	if raw, ok := m["values"]; ok {
		list, ok := raw.([]any)
		if !ok {
			return d, fmt.Errorf("%s: values must be a list", name)
		}
		values, err := label.ValuesFromAny(list...)
		if err != nil {
			return d, fmt.Errorf("%s: %w", name, err)
		}
		d.Domain = values
	}

	_, hasMin := m["min"]
	_, hasMax := m["max"]
	if hasMin || hasMax {
		if d.Domain != nil {
			return d, fmt.Errorf("%s: values and min/max are exclusive", name)
		}
		lo, err := intField(m, "min")
		if err != nil {
			return d, fmt.Errorf("%s: %w", name, err)
		}
		hi, err := intField(m, "max")
		if err != nil {
			return d, fmt.Errorf("%s: %w", name, err)
		}
		if hi < lo || hi-lo >= maxRange {
			return d, fmt.Errorf("%s: invalid range [%d, %d]", name, lo, hi)
		}
		for v := lo; v <= hi; v++ {
			d.Domain = append(d.Domain, label.Int(v))
		}
	}

	if typ, _ := m["type"].(string); typ == "date" {
		for i, v := range d.Domain {
			s, ok := v.AsString()
			if !ok {
				return d, fmt.Errorf("%s: date values must be strings", name)
			}
			dv, err := label.ParseDate(s)
			if err != nil {
				return d, fmt.Errorf("%s: %w", name, err)
			}
			d.Domain[i] = dv
		}
	}

	if ranked, _ := m["ranked"].(bool); ranked {
		if len(d.Domain) == 0 {
			return d, fmt.Errorf("%s: a ranked label needs values", name)
		}
		d.Ordering = label.NewRanked(d.Domain...)
	}
	return d, nil
}

func intField(m map[string]any, key string) (int64, error) {
	v, err := label.FromAny(m[key])
	if err != nil {
		return 0, err
	}
	i, ok := v.AsInt64()
	if !ok || v.Kind != label.KindInt {
		return 0, fmt.Errorf("%s must be an integer", key)
	}
	return i, nil
}

func encodeSchema(grid *label.Grid) map[string]any {
	names := grid.Names()
	labels := make([]any, 0, len(names))
	for _, name := range names {
		d, _ := grid.Dimension(name)
		entry := map[string]any{"name": name}
		if len(d.Domain) > 0 {
			values := make([]any, len(d.Domain))
			for i, v := range d.Domain {
				values[i] = v.Interface()
			}
			entry["values"] = values
			if d.Domain[0].Kind == label.KindDate {
				entry["type"] = "date"
			}
		}
		if _, ok := d.Ordering.(*label.Ranked); ok {
			entry["ranked"] = true
		}
		labels = append(labels, entry)
	}
	return map[string]any{"labels": labels}
}

// dateLabels returns the names of dimensions whose domain holds dates.
func dateLabels(dims []label.Dimension) map[string]bool {
	out := make(map[string]bool)
	for _, d := range dims {
		if len(d.Domain) > 0 && d.Domain[0].Kind == label.KindDate {
			out[d.Name] = true
		}
	}
	return out
}
