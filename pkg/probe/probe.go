// Package probe runs startup checks on the replay inputs.
package probe

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// DefaultTimeout bounds a check without its own timeout.
const DefaultTimeout = 5 * time.Second

// CheckFunc performs a check. It returns nil when the check passes.
type CheckFunc func(ctx context.Context) error

// Probe is a single startup check.
type Probe struct {
	Name     string
	Check    CheckFunc
	Critical bool // A failure prevents the replay from starting
	Timeout  time.Duration
}

// Result holds the outcome of a single probe.
type Result struct {
	Probe    Probe
	Error    error
	Duration time.Duration
}

// Run executes the probes in order. Each check gets its own timeout.
func Run(ctx context.Context, probes []Probe) []Result {
	results := make([]Result, len(probes))

	for i, p := range probes {
		timeout := p.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		start := time.Now()
		checkCtx, cancel := context.WithTimeout(ctx, timeout)
		err := p.Check(checkCtx)
		cancel()

		results[i] = Result{
			Probe:    p,
			Error:    err,
			Duration: time.Since(start),
		}
	}

	return results
}

// AnalyzeResults logs every result and joins the errors of failed critical probes.
func AnalyzeResults(results []Result) error {
	var criticalErrors []error

	for _, r := range results {
		if r.Error == nil {
			slog.Info("Startup check passed", "check", r.Probe.Name, "duration", r.Duration.Round(time.Millisecond))
			continue
		}
		if !r.Probe.Critical {
			slog.Warn("Startup check failed", "check", r.Probe.Name, "error", r.Error)
			continue
		}
		slog.Error("Startup check failed", "check", r.Probe.Name, "error", r.Error)
		criticalErrors = append(criticalErrors, fmt.Errorf("%s: %w", r.Probe.Name, r.Error))
	}

	return errors.Join(criticalErrors...)
}
