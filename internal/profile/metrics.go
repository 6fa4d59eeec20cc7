package profile

import "benchreport/internal/bench"

// Metric is a named scalar cost extracted per case from a statistics table.
type Metric struct {
	Name    string
	Extract func(*bench.CaseStatistics) []float64
}

// Metrics returns the four cost metrics in their fixed order. GC time is
// biased by +1: raw GC time is frequently zero and profile ratios need
// strictly positive costs.
func Metrics() []Metric {
	return []Metric{
		{Name: "time", Extract: func(s *bench.CaseStatistics) []float64 { return clone(s.Time) }},
		{Name: "memory", Extract: func(s *bench.CaseStatistics) []float64 { return clone(s.Memory) }},
		{Name: "gctime", Extract: func(s *bench.CaseStatistics) []float64 { return biased(s.GCTime) }},
		{Name: "allocations", Extract: func(s *bench.CaseStatistics) []float64 { return clone(s.Allocs) }},
	}
}

func clone(v []float64) []float64 {
	out := make([]float64, len(v))
	copy(out, v)
	return out
}

func biased(v []float64) []float64 {
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = x + 1
	}
	return out
}
