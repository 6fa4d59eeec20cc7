// Package pkgmgr prepares the benchmarked package's module environment.
package pkgmgr

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

// ErrSetup indicates package registration or dependency resolution failed.
var ErrSetup = errors.New("package setup failed")

// Manager registers or activates the package under test.
type Manager interface {
	// Develop registers the package as a local development dependency so
	// the engine can switch branches in place between passes.
	Develop(ctx context.Context, dir string) error
	// Activate treats the directory as an independent environment.
	Activate(ctx context.Context, dir string) error
	// Instantiate resolves and installs the activated environment's
	// declared dependencies.
	Instantiate(ctx context.Context, dir string) error
}

// GoModManager implements Manager on top of the go tool's module commands.
type GoModManager struct{}

func NewGoModManager() *GoModManager {
	return &GoModManager{}
}

func (m *GoModManager) run(ctx context.Context, dir string, args ...string) error {
	cmd := exec.CommandContext(ctx, "go", args...)
	cmd.Dir = dir

	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%w: go %s: %v\nOutput:\n%s", ErrSetup, args[0], err, out.String())
	}
	return nil
}

// Develop verifies the module and warms its cache without touching go.mod,
// so the same tree stays buildable after a branch switch.
func (m *GoModManager) Develop(ctx context.Context, dir string) error {
	if err := m.Activate(ctx, dir); err != nil {
		return err
	}
	return m.run(ctx, dir, "mod", "download", "all")
}

// Activate checks the directory declares a module.
func (m *GoModManager) Activate(ctx context.Context, dir string) error {
	if _, err := os.Stat(filepath.Join(dir, "go.mod")); err != nil {
		return fmt.Errorf("%w: %s is not a Go module: %v", ErrSetup, dir, err)
	}
	return nil
}

// Instantiate downloads the module's declared dependencies.
func (m *GoModManager) Instantiate(ctx context.Context, dir string) error {
	return m.run(ctx, dir, "mod", "download")
}
