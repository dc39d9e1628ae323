package sim

import (
	"context"
	"errors"
)

var (
	// ErrSourceExhausted is returned when a finite source has no more samples.
	ErrSourceExhausted = errors.New("sample source exhausted")
)

// Source delivers instrument samples in arrival order.
type Source interface {
	// Next returns the next sample. It blocks until a sample is available
	// or ctx is done.
	Next(ctx context.Context) (Sample, error)
	// Close cleans up resources associated with the source.
	Close() error
}
