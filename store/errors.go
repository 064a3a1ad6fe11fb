package store

import (
	"errors"
	"fmt"
)

// ErrStoreMismatch is returned when combining results of different stores.
var ErrStoreMismatch = errors.New("store: results belong to different stores")

// ErrNoResults is returned when combining an empty list of results.
var ErrNoResults = errors.New("store: no results to combine")

// ErrIndexExists indicates an insert under an index already in use.
type ErrIndexExists struct {
	Index int
}

func (e *ErrIndexExists) Error() string {
	return fmt.Sprintf("store: index %d already exists", e.Index)
}
