package bench

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample(name string, time, memory, gctime, allocs float64) Sample {
	return Sample{
		Name: name,
		Values: map[string]float64{
			ColTime:   time,
			ColMemory: memory,
			ColGCTime: gctime,
			ColAllocs: allocs,
		},
	}
}

func microRun() *Run {
	return &Run{
		Suites: []SuiteRun{{
			Name: "micro",
			Samples: []Sample{
				sample("foo", 10, 100, 0, 1),
				sample("bar", 20, 200, 5, 2),
			},
		}},
	}
}

func TestExtract(t *testing.T) {
	tables, err := Extract(microRun())
	require.NoError(t, err)
	require.Len(t, tables, 1)

	stats := tables["micro"]
	require.NotNil(t, stats)
	assert.Equal(t, 2, stats.Len())
	assert.Equal(t, []string{"foo", "bar"}, stats.Names)
	assert.Equal(t, []float64{10, 20}, stats.Time)
	assert.Equal(t, []float64{100, 200}, stats.Memory)
	assert.Equal(t, []float64{0, 5}, stats.GCTime)
	assert.Equal(t, []float64{1, 2}, stats.Allocs)
}

func TestExtractPreservesRowOrder(t *testing.T) {
	run := &Run{
		Suites: []SuiteRun{{
			Name: "s",
			Samples: []Sample{
				sample("z", 1, 1, 0, 1),
				sample("a", 2, 2, 0, 2),
				sample("m", 3, 3, 0, 3),
			},
		}},
	}
	tables, err := Extract(run)
	require.NoError(t, err)
	assert.Equal(t, []string{"z", "a", "m"}, tables["s"].Names)
}

func TestExtractMissingColumn(t *testing.T) {
	run := &Run{
		Suites: []SuiteRun{{
			Name: "s",
			Samples: []Sample{{
				Name: "foo",
				Values: map[string]float64{
					ColTime:   10,
					ColMemory: 100,
					// gctime missing
					ColAllocs: 1,
				},
			}},
		}},
	}
	_, err := Extract(run)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedRun)
	assert.Contains(t, err.Error(), "gctime")
}

func TestExtractDuplicateName(t *testing.T) {
	run := &Run{
		Suites: []SuiteRun{{
			Name: "s",
			Samples: []Sample{
				sample("foo", 1, 1, 0, 1),
				sample("foo", 2, 2, 0, 2),
			},
		}},
	}
	_, err := Extract(run)
	assert.ErrorIs(t, err, ErrMalformedRun)
}

func TestExtractMultipleSuites(t *testing.T) {
	run := &Run{
		Suites: []SuiteRun{
			{Name: "a", Samples: []Sample{sample("x", 1, 1, 0, 1)}},
			{Name: "b", Samples: []Sample{sample("y", 2, 2, 0, 2), sample("z", 3, 3, 0, 3)}},
		},
	}
	tables, err := Extract(run)
	require.NoError(t, err)
	assert.Len(t, tables, 2)
	assert.Equal(t, 1, tables["a"].Len())
	assert.Equal(t, 2, tables["b"].Len())
}
