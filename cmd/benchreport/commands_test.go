package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoryCommandEmpty(t *testing.T) {
	viper.Set("history.file", filepath.Join(t.TempDir(), "history.db"))
	defer viper.Set("history.file", nil)

	var out bytes.Buffer
	historyCmd.SetOut(&out)
	historyCmd.SetErr(&out)

	require.NoError(t, runHistory(historyCmd, nil))
	assert.Contains(t, out.String(), "No runs recorded.")
}

func TestPreviewCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.md")
	require.NoError(t, os.WriteFile(path, []byte("# Benchmark\n\nhello\n"), 0644))

	var out bytes.Buffer
	previewCmd.SetOut(&out)

	require.NoError(t, runPreview(previewCmd, []string{path}))
	assert.Contains(t, out.String(), "Benchmark")
}

func TestPreviewCommandMissingFile(t *testing.T) {
	err := runPreview(previewCmd, []string{filepath.Join(t.TempDir(), "nope.md")})
	assert.Error(t, err)
}
