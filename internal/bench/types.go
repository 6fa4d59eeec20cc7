package bench

import "time"

// Column names every benchmark case must report.
const (
	ColTime   = "time"
	ColMemory = "memory"
	ColGCTime = "gctime"
	ColAllocs = "allocations"
)

// RequiredColumns lists the numeric samples a well-formed case carries.
var RequiredColumns = []string{ColTime, ColMemory, ColGCTime, ColAllocs}

// Sample is one benchmark case as reported by the engine: a name plus the
// raw numeric samples keyed by column.
type Sample struct {
	Name   string             `json:"name"`
	Values map[string]float64 `json:"values"`
}

// SuiteRun groups the samples of one benchmark suite.
type SuiteRun struct {
	Name    string   `json:"name"`
	Samples []Sample `json:"samples"`
}

// Run represents the raw output of executing the benchmark suite against one
// code state. It is only consumed through Extract.
type Run struct {
	Timestamp time.Time  `json:"timestamp"`
	Commit    string     `json:"commit,omitempty"` // Git commit hash, if known
	Suites    []SuiteRun `json:"suites"`
}

// CaseStatistics is a columnar table with one row per benchmark case.
// Row order is the engine's reporting order and is preserved for display
// and for axis labeling.
type CaseStatistics struct {
	Names  []string
	Time   []float64
	Memory []float64
	GCTime []float64
	Allocs []float64
}

// Len returns the number of rows.
func (s *CaseStatistics) Len() int { return len(s.Names) }
