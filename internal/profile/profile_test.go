package profile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"benchreport/internal/bench"
)

func referenceStats() *bench.CaseStatistics {
	return &bench.CaseStatistics{
		Names:  []string{"foo", "bar"},
		Time:   []float64{12, 18},
		Memory: []float64{100, 200},
		GCTime: []float64{0, 5},
		Allocs: []float64{1, 2},
	}
}

func TestSuiteProfiles(t *testing.T) {
	dir := t.TempDir()
	gen := NewGenerator(dir)

	labeled := []LabeledStats{
		{Label: "this_commit", Stats: microStats()},
		{Label: "reference", Stats: referenceStats()},
	}

	files, err := gen.Suite("micro", labeled)
	require.NoError(t, err)

	// 4 per-metric profiles plus 1 combined, each as svg and png
	require.Len(t, files, 10)

	for _, metric := range []string{"time", "memory", "gctime", "allocations"} {
		assert.Contains(t, files, "profiles_this_commit_vs_reference_micro_"+metric+".svg")
		assert.Contains(t, files, "profiles_this_commit_vs_reference_micro_"+metric+".png")
	}
	assert.Contains(t, files, "profiles_this_commit_vs_reference_micro.svg")
	assert.Contains(t, files, "profiles_this_commit_vs_reference_micro.png")

	for _, f := range files {
		info, err := os.Stat(filepath.Join(dir, f))
		require.NoError(t, err, f)
		assert.Greater(t, info.Size(), int64(0), f)
	}
}

func TestSuiteProfilesDeterministic(t *testing.T) {
	labeled := []LabeledStats{
		{Label: "this_commit", Stats: microStats()},
		{Label: "reference", Stats: referenceStats()},
	}

	dirA, dirB := t.TempDir(), t.TempDir()
	filesA, err := NewGenerator(dirA).Suite("micro", labeled)
	require.NoError(t, err)
	filesB, err := NewGenerator(dirB).Suite("micro", labeled)
	require.NoError(t, err)
	require.Equal(t, filesA, filesB)

	// Vector output is plain text and must be bit-identical across runs.
	name := "profiles_this_commit_vs_reference_micro.svg"
	a, err := os.ReadFile(filepath.Join(dirA, name))
	require.NoError(t, err)
	b, err := os.ReadFile(filepath.Join(dirB, name))
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestSuiteSingleLabel(t *testing.T) {
	dir := t.TempDir()
	files, err := NewGenerator(dir).Suite("micro", []LabeledStats{{Label: "this_commit", Stats: microStats()}})
	require.NoError(t, err)
	assert.Contains(t, files, "profiles_this_commit_micro_time.svg")
	assert.Contains(t, files, "profiles_this_commit_micro.png")
}

func TestSuiteAllZeroColumn(t *testing.T) {
	// An all-zero metric column renders without error; it just carries no
	// discriminative power.
	zero := &bench.CaseStatistics{
		Names:  []string{"a", "b"},
		Time:   []float64{0, 0},
		Memory: []float64{0, 0},
		GCTime: []float64{0, 0},
		Allocs: []float64{0, 0},
	}
	dir := t.TempDir()
	_, err := NewGenerator(dir).Suite("zeros", []LabeledStats{
		{Label: "this_commit", Stats: zero},
		{Label: "reference", Stats: zero},
	})
	assert.NoError(t, err)
}

func TestSuiteLengthMismatch(t *testing.T) {
	short := &bench.CaseStatistics{
		Names:  []string{"foo"},
		Time:   []float64{1},
		Memory: []float64{1},
		GCTime: []float64{0},
		Allocs: []float64{1},
	}
	_, err := NewGenerator(t.TempDir()).Suite("micro", []LabeledStats{
		{Label: "this_commit", Stats: microStats()},
		{Label: "reference", Stats: short},
	})
	assert.Error(t, err)
}

func TestSuiteNoLabels(t *testing.T) {
	_, err := NewGenerator(t.TempDir()).Suite("micro", nil)
	assert.Error(t, err)
}
