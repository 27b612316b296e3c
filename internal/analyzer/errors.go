package analyzer

import (
	"errors"

	"TrendSentinel/internal/collector"
	"TrendSentinel/internal/trend"
)

var (
	// ErrInvalidParams is returned for analysis parameters rejected before any fetch.
	ErrInvalidParams = errors.New("invalid analysis parameters")
	// ErrComputation wraps indicator failures, including recovered panics.
	ErrComputation = errors.New("indicator computation failed")
)

// Process exit codes.
const (
	ExitOK                    = 0
	ExitUsage                 = 1
	ExitFetch                 = 2
	ExitEmptySeries           = 3
	ExitEmptyAfterAggregation = 4
	ExitMissingField          = 5
	ExitComputation           = 6
)

// ExitCode maps a run error to the process exit code.
// Anything not recognised is treated as a fetch failure.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, ErrInvalidParams):
		return ExitUsage
	case errors.Is(err, collector.ErrEmptySeries):
		return ExitEmptySeries
	case errors.Is(err, collector.ErrEmptyAfterAggregation):
		return ExitEmptyAfterAggregation
	case errors.Is(err, trend.ErrMissingField):
		return ExitMissingField
	case errors.Is(err, ErrComputation):
		return ExitComputation
	default:
		return ExitFetch
	}
}
