package pkgmgr

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActivateNotAModule(t *testing.T) {
	m := NewGoModManager()
	err := m.Activate(context.Background(), t.TempDir())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSetup)
}

func TestActivateModule(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "go.mod"), []byte("module example.com/widget\n\ngo 1.25\n"), 0644))

	m := NewGoModManager()
	assert.NoError(t, m.Activate(context.Background(), dir))
}

func TestDevelopNotAModule(t *testing.T) {
	m := NewGoModManager()
	assert.ErrorIs(t, m.Develop(context.Background(), t.TempDir()), ErrSetup)
}
