package label

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/cespare/xxhash/v2"
)

const (
	// ValueField is the reserved field holding a record's payload.
	ValueField = "value"
	// AutoLabel is the reserved boolean label marking records synthesized
	// by an extension process rather than supplied explicitly.
	AutoLabel = "_auto"
)

// IsReserved reports whether name is a reserved field or label.
func IsReserved(name string) bool {
	return name == ValueField || name == AutoLabel
}

// Labels maps label names to label values.
type Labels map[string]Value

// Names returns the label names in lexical order, excluding AutoLabel.
func (l Labels) Names() []string {
	names := make([]string, 0, len(l))
	for k := range l {
		if k == AutoLabel {
			continue
		}
		names = append(names, k)
	}
	slices.Sort(names)
	return names
}

// Has reports whether the label is present.
func (l Labels) Has(name string) bool {
	_, ok := l[name]
	return ok
}

// Auto reports whether the AutoLabel is set to true.
func (l Labels) Auto() bool {
	v, ok := l[AutoLabel]
	if !ok {
		return false
	}
	b, _ := v.AsBool()
	return b
}

// Clone returns a deep copy.
func (l Labels) Clone() Labels {
	if l == nil {
		return nil
	}
	out := make(Labels, len(l))
	for k, v := range l {
		out[k] = v.Clone()
	}
	return out
}

// Without returns a copy without the given labels.
func (l Labels) Without(names ...string) Labels {
	out := l.Clone()
	for _, n := range names {
		delete(out, n)
	}
	return out
}

// Fingerprint returns a stable 64-bit hash of the labels (names and values),
// ignoring AutoLabel. Records with equal label coordinates share a
// fingerprint.
func (l Labels) Fingerprint() uint64 {
	d := xxhash.New()
	for _, name := range l.Names() {
		_, _ = d.WriteString(name)
		_, _ = d.WriteString("\x1e")
		_, _ = d.WriteString(l[name].Key())
		_, _ = d.WriteString("\x1d")
	}
	return d.Sum64()
}

// String renders the labels as "[a=1, b=x]", or "" when there are none.
func (l Labels) String() string {
	names := l.Names()
	if len(names) == 0 {
		return ""
	}
	parts := make([]string, len(names))
	for i, n := range names {
		parts[i] = n + "=" + l[n].String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Record is a value object: a set of labels plus a payload.
//
// A null Value marks the record for deletion when used in an adjustment.
type Record struct {
	Labels Labels
	Value  Value
}

// NewRecord creates a record from a payload and labels.
func NewRecord(value Value, labels Labels) Record {
	if labels == nil {
		labels = Labels{}
	}
	return Record{Labels: labels, Value: value}
}

// RecordFromMap builds a record from a decoded document entry such as
// {"year": 2024, "value": 1.5}.
func RecordFromMap(m map[string]any) (Record, error) {
	rec := Record{Labels: make(Labels, len(m)), Value: Null()}
	for k, raw := range m {
		v, err := FromAny(raw)
		if err != nil {
			return Record{}, fmt.Errorf("field %q: %w", k, err)
		}
		if k == ValueField {
			rec.Value = v
			continue
		}
		rec.Labels[k] = v
	}
	return rec, nil
}

// HasValue reports whether the payload is non-null.
func (r Record) HasValue() bool {
	return !r.Value.IsNull()
}

// Clone returns a deep copy of the record.
func (r Record) Clone() Record {
	return Record{Labels: r.Labels.Clone(), Value: r.Value.Clone()}
}

// Map returns the flattened representation {label...: v, "value": v}.
func (r Record) Map() map[string]any {
	out := make(map[string]any, len(r.Labels)+1)
	for k, v := range r.Labels {
		out[k] = v.Interface()
	}
	out[ValueField] = r.Value.Interface()
	return out
}

// String renders the record for diagnostics.
func (r Record) String() string {
	if s := r.Labels.String(); s != "" {
		return s + " value=" + r.Value.String()
	}
	return "value=" + r.Value.String()
}

// MarshalJSON writes the flattened representation with sorted keys.
func (r Record) MarshalJSON() ([]byte, error) {
	keys := make([]string, 0, len(r.Labels))
	for k := range r.Labels {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	var buf bytes.Buffer
	buf.WriteByte('{')
	for _, k := range keys {
		if err := writeField(&buf, k, r.Labels[k]); err != nil {
			return nil, err
		}
		buf.WriteByte(',')
	}
	if err := writeField(&buf, ValueField, r.Value); err != nil {
		return nil, err
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads the flattened representation.
func (r *Record) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var m map[string]any
	if err := dec.Decode(&m); err != nil {
		return err
	}
	rec, err := RecordFromMap(m)
	if err != nil {
		return err
	}
	*r = rec
	return nil
}

func writeField(buf *bytes.Buffer, key string, v Value) error {
	kb, err := json.Marshal(key)
	if err != nil {
		return err
	}
	vb, err := v.MarshalJSON()
	if err != nil {
		return err
	}
	buf.Write(kb)
	buf.WriteByte(':')
	buf.Write(vb)
	return nil
}

// CheckConsistent returns an ErrInconsistentLabels when the records do not
// share one label set.
func CheckConsistent(records []Record) ([]string, error) {
	if len(records) == 0 {
		return []string{}, nil
	}
	used := records[0].Labels.Names()
	for _, r := range records[1:] {
		got := r.Labels.Names()
		if !slices.Equal(used, got) {
			return nil, &ErrInconsistentLabels{Expected: used, Got: got, Record: r.Labels.Clone()}
		}
	}
	return used, nil
}
