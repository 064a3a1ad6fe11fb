package paramgrid

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// ErrUnknownParameter indicates an operation on a parameter that was never
// added.
type ErrUnknownParameter struct {
	Name string
}

func (e *ErrUnknownParameter) Error() string {
	return fmt.Sprintf("unknown parameter: %s", e.Name)
}

// ValidationError collects validation messages per parameter.
type ValidationError struct {
	Messages map[string][]string
}

// Add records a message for a parameter.
func (e *ValidationError) Add(param, msg string) {
	if e.Messages == nil {
		e.Messages = make(map[string][]string)
	}
	e.Messages[param] = append(e.Messages[param], msg)
}

// Empty reports whether no messages were recorded.
func (e *ValidationError) Empty() bool {
	return len(e.Messages) == 0
}

func (e *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("validation failed")
	for _, param := range slices.Sorted(maps.Keys(e.Messages)) {
		for _, msg := range e.Messages[param] {
			fmt.Fprintf(&sb, "; %s: %s", param, msg)
		}
	}
	return sb.String()
}

// merge folds the messages of other into e.
func (e *ValidationError) merge(other *ValidationError) {
	for param, msgs := range other.Messages {
		for _, m := range msgs {
			e.Add(param, m)
		}
	}
}
