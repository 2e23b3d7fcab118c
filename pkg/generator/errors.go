package generator

import (
	"errors"
	"fmt"
)

// Sentinel errors for errors.Is checks.
var (
	ErrNoStrategy    = errors.New("no generator strategy")
	ErrDepthExceeded = errors.New("schema depth exceeded")
)

// NoStrategyError reports a schema node that no strategy can handle.
type NoStrategyError struct {
	// Path is the JSON pointer of the node, relative to the generated root.
	Path string
}

func (e *NoStrategyError) Error() string {
	return fmt.Sprintf("no generator strategy matches schema at %s", e.Path)
}

// Is reports whether target is ErrNoStrategy.
func (e *NoStrategyError) Is(target error) bool { return target == ErrNoStrategy }

// DepthExceededError reports that generation recursed past the depth ceiling.
type DepthExceededError struct {
	Path  string
	Limit int
}

func (e *DepthExceededError) Error() string {
	return fmt.Sprintf("schema nesting exceeds depth limit %d at %s (reference cycle?)", e.Limit, e.Path)
}

// Is reports whether target is ErrDepthExceeded.
func (e *DepthExceededError) Is(target error) bool { return target == ErrDepthExceeded }
