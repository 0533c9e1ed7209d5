package domain

import (
	"errors"
	"fmt"
)

// ErrCapacityExceeded is matched by every *CapacityError.
var ErrCapacityExceeded = errors.New("rule capacity exceeded")

// CapacityError reports a domain set larger than the configured rule limit.
type CapacityError struct {
	Count int // deduplicated domains
	Max   int // configured maximum
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("%d domains exceed limit of %d rules by %d", e.Count, e.Max, e.Overflow())
}

// Overflow is the number of domains over the limit.
func (e *CapacityError) Overflow() int { return e.Count - e.Max }

// Is lets errors.Is match ErrCapacityExceeded.
func (e *CapacityError) Is(target error) bool { return target == ErrCapacityExceeded }

// SchemaError is a malformed evidence file. The file is skipped; the walk continues.
type SchemaError struct {
	Path string
	Err  error
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("schema error in %s: %v", e.Path, e.Err)
}

func (e *SchemaError) Unwrap() error { return e.Err }
