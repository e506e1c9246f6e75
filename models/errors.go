package models

import (
	"errors"
	"fmt"
)

// ErrInvalidInputData marks an empty or degenerate price series or a non-positive current price
var ErrInvalidInputData = errors.New("invalid input data")

// UpstreamFetchError wraps a failure of an external collaborator while gathering inputs
type UpstreamFetchError struct {
	Source string
	Err    error
}

// Error implements the error interface
func (e *UpstreamFetchError) Error() string {
	return fmt.Sprintf("upstream fetch failed (%s): %v", e.Source, e.Err)
}

// Unwrap exposes the underlying error
func (e *UpstreamFetchError) Unwrap() error {
	return e.Err
}
