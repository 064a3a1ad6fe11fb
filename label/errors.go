package label

import (
	"fmt"
	"strings"
)

// ErrNotOrderable indicates that a label's values cannot be placed under the
// label's ordering, e.g. values of mismatched kinds.
//
// The original underlying error can be accessed via errors.Unwrap.
type ErrNotOrderable struct {
	Label string
	Value Value
	cause error
}

// NewErrNotOrderable creates an ErrNotOrderable wrapping cause.
func NewErrNotOrderable(label string, v Value, cause error) *ErrNotOrderable {
	return &ErrNotOrderable{Label: label, Value: v, cause: cause}
}

func (e *ErrNotOrderable) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("label %q: value %s is not orderable: %v", e.Label, e.Value, e.cause)
	}
	return fmt.Sprintf("label %q: value %s is not orderable", e.Label, e.Value)
}

func (e *ErrNotOrderable) Unwrap() error { return e.cause }

// ErrUnknownLabel indicates a strict query against an undeclared label.
type ErrUnknownLabel struct {
	Label string
}

func (e *ErrUnknownLabel) Error() string {
	return fmt.Sprintf("unknown label: %s", e.Label)
}

// ErrUndeclaredLabel indicates a record carrying a label that the target
// collection does not declare. Record holds the offending record's labels.
type ErrUndeclaredLabel struct {
	Label  string
	Record Labels
}

func (e *ErrUndeclaredLabel) Error() string {
	if s := e.Record.String(); s != "" {
		return fmt.Sprintf("label %q was not declared in the defaults (record %s)", e.Label, s)
	}
	return fmt.Sprintf("label %q was not declared in the defaults", e.Label)
}

// Duplicate is a label coordinate covered by more than one record.
type Duplicate struct {
	Coords []Value
	Count  int
}

// ErrSparseRecords indicates that a record set does not exactly span its
// label space and therefore cannot be densified.
type ErrSparseRecords struct {
	Labels     []string
	Expected   int
	Actual     int
	Missing    [][]Value
	Extra      [][]Value
	Duplicates []Duplicate
}

func (e *ErrSparseRecords) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "records do not span the parameter space %v: expected %d, got %d",
		e.Labels, e.Expected, e.Actual)
	if len(e.Missing) > 0 {
		sb.WriteString("; missing combinations: ")
		writeCoords(&sb, e.Missing)
	}
	if len(e.Extra) > 0 {
		sb.WriteString("; extra combinations: ")
		writeCoords(&sb, e.Extra)
	}
	if len(e.Duplicates) > 0 {
		sb.WriteString("; duplicate combinations: ")
		for i, d := range e.Duplicates {
			if i > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "%s x%d", Array(d.Coords...), d.Count)
		}
	}
	return sb.String()
}

func writeCoords(sb *strings.Builder, coords [][]Value) {
	for i, c := range coords {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(Array(c...).String())
	}
}

// ErrInconsistentLabels indicates that the records of one parameter do not
// share one label set.
type ErrInconsistentLabels struct {
	Expected []string
	Got      []string
	Record   Labels
}

func (e *ErrInconsistentLabels) Error() string {
	return fmt.Sprintf("labels were added or omitted for some records: expected %v, got %v (record %s)",
		e.Expected, e.Got, e.Record)
}
