package paramgrid

import (
	"fmt"

	"github.com/hupe1980/paramgrid/label"
)

// Validator checks the records of a parameter before they enter a store.
//
// Implementations return a *ValidationError listing every problem found, or
// nil when the records are acceptable.
type Validator interface {
	Validate(param string, records []label.Record) error
}

// ValidatorFunc adapts a function to the Validator interface.
type ValidatorFunc func(param string, records []label.Record) error

// Validate calls f(param, records).
func (f ValidatorFunc) Validate(param string, records []label.Record) error {
	return f(param, records)
}

// KindValidator checks payload kinds per parameter and label values against
// the grid's domains.
//
// Null payloads are always accepted: they request deletion. A Float kind also
// accepts ints. Array payloads are checked element-wise.
type KindValidator struct {
	Grid  *label.Grid
	Kinds map[string]label.Kind
}

// Validate implements Validator.
func (v KindValidator) Validate(param string, records []label.Record) error {
	verr := &ValidationError{}
	want, checkKind := v.Kinds[param]
	for _, r := range records {
		for _, name := range r.Labels.Names() {
			lv := r.Labels[name]
			switch {
			case !v.Grid.Has(name):
				verr.Add(param, fmt.Sprintf("label %q is not declared %s", name, r.Labels))
			case !v.Grid.Contains(name, lv):
				verr.Add(param, fmt.Sprintf("label %s=%s is not in its domain %s", name, lv, r.Labels))
			}
		}
		if auto, ok := r.Labels[label.AutoLabel]; ok && auto.Kind != label.KindBool {
			verr.Add(param, fmt.Sprintf("label %s must be a bool %s", label.AutoLabel, r.Labels))
		}
		if !checkKind || !r.HasValue() {
			continue
		}
		if !kindMatches(r.Value, want) {
			verr.Add(param, fmt.Sprintf("value %s is not of kind %s %s", r.Value, want, r.Labels))
		}
	}
	if verr.Empty() {
		return nil
	}
	return verr
}

func kindMatches(v label.Value, want label.Kind) bool {
	if items, ok := v.AsArray(); ok && want != label.KindArray {
		for _, item := range items {
			if !kindMatches(item, want) {
				return false
			}
		}
		return true
	}
	switch {
	case v.Kind == want:
		return true
	case want == label.KindFloat && v.Kind == label.KindInt:
		return true
	default:
		return false
	}
}
