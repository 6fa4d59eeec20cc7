package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"benchreport/internal/bench"
)

func microStats() *bench.CaseStatistics {
	return &bench.CaseStatistics{
		Names:  []string{"foo", "bar"},
		Time:   []float64{10, 20},
		Memory: []float64{100, 200},
		GCTime: []float64{0, 5},
		Allocs: []float64{1, 2},
	}
}

func TestMetricsOrder(t *testing.T) {
	metrics := Metrics()
	require.Len(t, metrics, 4)
	assert.Equal(t, "time", metrics[0].Name)
	assert.Equal(t, "memory", metrics[1].Name)
	assert.Equal(t, "gctime", metrics[2].Name)
	assert.Equal(t, "allocations", metrics[3].Name)
}

func TestGCTimeBias(t *testing.T) {
	stats := microStats()
	var gctime Metric
	for _, m := range Metrics() {
		if m.Name == "gctime" {
			gctime = m
		}
	}
	require.NotNil(t, gctime.Extract)

	col := gctime.Extract(stats)
	// zero GC time maps to exactly 1, anything else to original + 1
	assert.Equal(t, []float64{1, 6}, col)
	// the table itself is untouched
	assert.Equal(t, []float64{0, 5}, stats.GCTime)
}

func TestExtractDoesNotAlias(t *testing.T) {
	stats := microStats()
	for _, m := range Metrics() {
		col := m.Extract(stats)
		col[0] = -1
	}
	assert.Equal(t, []float64{10, 20}, stats.Time)
	assert.Equal(t, []float64{100, 200}, stats.Memory)
	assert.Equal(t, []float64{1, 2}, stats.Allocs)
}
