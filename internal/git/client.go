package git

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// Client handles git interactions by shelling out to the git binary.
type Client struct{}

// NewClient creates a new Git client.
func NewClient() *Client {
	return &Client{}
}

func (c *Client) output(dir string, args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	// Enforce no prompting
	cmd.Env = append(os.Environ(), "GIT_TERMINAL_PROMPT=0", "GIT_ASKPASS=/bin/true")

	var out, errBuf bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errBuf

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("git %s failed: %w\nStderr: %s", args[0], err, errBuf.String())
	}
	return strings.TrimSpace(out.String()), nil
}

// RepoExists reports whether the directory is a working copy of a git
// repository, detected by repository metadata rather than by flag.
func (c *Client) RepoExists(dir string) bool {
	if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
		return true
	}
	// Worktrees and submodules keep .git as a file; ask git itself.
	out, err := c.output(dir, "rev-parse", "--is-inside-work-tree")
	return err == nil && out == "true"
}

// CurrentCommitSHA returns the short hash of HEAD.
func (c *Client) CurrentCommitSHA(dir string) (string, error) {
	return c.output(dir, "rev-parse", "--short", "HEAD")
}

// CurrentBranch returns the name of the checked-out branch.
func (c *Client) CurrentBranch(dir string) (string, error) {
	return c.output(dir, "rev-parse", "--abbrev-ref", "HEAD")
}

// Checkout switches the working tree to the given ref.
func (c *Client) Checkout(dir, ref string) error {
	_, err := c.output(dir, "checkout", ref)
	return err
}

// RepoName resolves the repository's name from its origin remote, falling
// back to the directory's base name for repos without a remote.
func (c *Client) RepoName(dir string) (string, error) {
	url, err := c.output(dir, "remote", "get-url", "origin")
	if err != nil || url == "" {
		abs, absErr := filepath.Abs(dir)
		if absErr != nil {
			return "", fmt.Errorf("resolve repository name: %w", absErr)
		}
		return filepath.Base(abs), nil
	}
	name := strings.TrimSuffix(filepath.Base(url), ".git")
	return name, nil
}
