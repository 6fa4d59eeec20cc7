package bench

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Engine runs the benchmark suite against one code state. An empty ref
// benchmarks the working tree as-is; a non-empty ref is checked out first
// and the previous branch restored afterwards. The two passes of a
// comparison run must never execute concurrently: the engine owns the
// working tree while it runs.
type Engine interface {
	Run(ctx context.Context, dir, ref string) (*Run, error)
}

// BranchSwitcher is the slice of git behavior the engine needs to benchmark
// a reference branch in place.
type BranchSwitcher interface {
	CurrentBranch(dir string) (string, error)
	CurrentCommitSHA(dir string) (string, error)
	Checkout(dir, ref string) error
}

// GoEngine implements Engine using 'go test -bench'. One benchmarked
// package maps to one suite, named by the package import path's base.
type GoEngine struct {
	Switcher BranchSwitcher

	// execBench runs the suite in dir and returns the raw tool output;
	// overridable in tests.
	execBench func(ctx context.Context, dir string) (string, error)
}

func NewGoEngine(sw BranchSwitcher) *GoEngine {
	return &GoEngine{Switcher: sw, execBench: runGoBench}
}

var (
	// pkg: example.com/foo/bar
	pkgRegex = regexp.MustCompile(`^pkg:\s+(\S+)$`)
	// BenchmarkName-8   1000000   1000 ns/op   100 B/op   10 allocs/op
	benchRegex = regexp.MustCompile(`^(Benchmark.*?)(?:-\d+)?\s+(\d+)\s+([\d\.]+)\s+ns/op(?:\s+[\d\.]+\s+MB/s)?(?:\s+(\d+)\s+B/op)?(?:\s+(\d+)\s+allocs/op)?`)
)

func (e *GoEngine) Run(ctx context.Context, dir, ref string) (run *Run, err error) {
	if ref != "" {
		if e.Switcher == nil {
			return nil, fmt.Errorf("cannot benchmark ref %q without a branch switcher", ref)
		}
		prev, berr := e.Switcher.CurrentBranch(dir)
		if berr != nil {
			return nil, fmt.Errorf("resolve current branch: %w", berr)
		}
		if prev == "HEAD" {
			// Detached checkout (the usual CI state): there is no branch
			// name to come back to, so restore by commit.
			prev, berr = e.Switcher.CurrentCommitSHA(dir)
			if berr != nil {
				return nil, fmt.Errorf("resolve detached commit: %w", berr)
			}
		}
		if cerr := e.Switcher.Checkout(dir, ref); cerr != nil {
			return nil, fmt.Errorf("checkout %s: %w", ref, cerr)
		}
		defer func() {
			if rerr := e.Switcher.Checkout(dir, prev); rerr != nil {
				err = errors.Join(err, fmt.Errorf("restore working tree to %s: %w", prev, rerr))
			}
		}()
	}

	execBench := e.execBench
	if execBench == nil {
		execBench = runGoBench
	}
	output, err := execBench(ctx, dir)
	if err != nil {
		return nil, err
	}

	run = ParseOutput(output)
	run.Timestamp = time.Now()
	return run, nil
}

func runGoBench(ctx context.Context, dir string) (string, error) {
	args := []string{"test", "-bench=.", "-benchmem", "-run=^$", "./..."}
	cmd := exec.CommandContext(ctx, "go", args...)
	cmd.Dir = dir

	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("benchmark execution failed: %w\nOutput:\n%s", err, out.String())
	}
	return out.String(), nil
}

// ParseOutput parses standard 'go test -bench' output into a Run. Package
// header lines delimit suites; benchmark lines become samples. The Go
// runtime does not report per-op GC time, so that column is recorded as
// zero and carries meaning only when the engine supplies it.
func ParseOutput(output string) *Run {
	run := &Run{}
	var current *SuiteRun

	scanner := bufio.NewScanner(strings.NewReader(output))
	for scanner.Scan() {
		line := scanner.Text()

		if m := pkgRegex.FindStringSubmatch(line); m != nil {
			run.Suites = append(run.Suites, SuiteRun{Name: path.Base(m[1])})
			current = &run.Suites[len(run.Suites)-1]
			continue
		}

		m := benchRegex.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		if current == nil {
			// Single-package invocations omit the pkg header.
			run.Suites = append(run.Suites, SuiteRun{Name: "bench"})
			current = &run.Suites[0]
		}

		sample := Sample{
			Name: strings.TrimSpace(m[1]),
			Values: map[string]float64{
				ColTime:   0,
				ColMemory: 0,
				ColGCTime: 0,
				ColAllocs: 0,
			},
		}
		if ns, err := strconv.ParseFloat(m[3], 64); err == nil {
			sample.Values[ColTime] = ns
		}
		if len(m) > 4 && m[4] != "" {
			if b, err := strconv.ParseFloat(m[4], 64); err == nil {
				sample.Values[ColMemory] = b
			}
		}
		if len(m) > 5 && m[5] != "" {
			if a, err := strconv.ParseFloat(m[5], 64); err == nil {
				sample.Values[ColAllocs] = a
			}
		}
		current.Samples = append(current.Samples, sample)
	}

	// Drop suites that produced no benchmark lines (test-only packages).
	kept := run.Suites[:0]
	for _, s := range run.Suites {
		if len(s.Samples) > 0 {
			kept = append(kept, s)
		}
	}
	run.Suites = kept
	return run
}
