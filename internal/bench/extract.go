package bench

import (
	"errors"
	"fmt"
)

// ErrMalformedRun indicates a run whose cases lack one of the required
// numeric columns, or that carries duplicate case names within a suite.
var ErrMalformedRun = errors.New("malformed benchmark run")

// Extract converts a raw run into one CaseStatistics table per suite,
// keyed by suite name. Row order follows the run's sample order.
func Extract(run *Run) (map[string]*CaseStatistics, error) {
	out := make(map[string]*CaseStatistics, len(run.Suites))

	for _, suite := range run.Suites {
		stats := &CaseStatistics{}
		seen := make(map[string]bool, len(suite.Samples))

		for _, sample := range suite.Samples {
			if seen[sample.Name] {
				return nil, fmt.Errorf("%w: duplicate case %q in suite %q", ErrMalformedRun, sample.Name, suite.Name)
			}
			seen[sample.Name] = true

			for _, col := range RequiredColumns {
				if _, ok := sample.Values[col]; !ok {
					return nil, fmt.Errorf("%w: case %q in suite %q missing column %q", ErrMalformedRun, sample.Name, suite.Name, col)
				}
			}

			stats.Names = append(stats.Names, sample.Name)
			stats.Time = append(stats.Time, sample.Values[ColTime])
			stats.Memory = append(stats.Memory, sample.Values[ColMemory])
			stats.GCTime = append(stats.GCTime, sample.Values[ColGCTime])
			stats.Allocs = append(stats.Allocs, sample.Values[ColAllocs])
		}

		out[suite.Name] = stats
	}

	return out, nil
}
