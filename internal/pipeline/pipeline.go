// Package pipeline drives the benchmark-report run: it resolves the run
// mode, executes the benchmark passes, judges them, and feeds the results
// through extraction, profiling, persistence, rendering, and publishing.
// Execution is strictly sequential; the engine owns the working tree.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"benchreport/internal/bench"
	"benchreport/internal/gist"
	"benchreport/internal/git"
	"benchreport/internal/pkgmgr"
	"benchreport/internal/profile"
	"benchreport/internal/report"
	"benchreport/internal/store"
	"benchreport/internal/ui"
)

// Mode is the resolved run mode.
type Mode int

const (
	// Standalone benchmarks only the current state.
	Standalone Mode = iota
	// Comparison benchmarks current and reference and judges the two.
	Comparison
)

func (m Mode) String() string {
	if m == Comparison {
		return "comparison"
	}
	return "standalone"
}

// PublishKind selects the publish behavior.
type PublishKind int

const (
	PublishNone PublishKind = iota
	PublishCreate
	PublishUpdate
)

// PublishMode carries the kind and, for updates, the target gist id.
type PublishMode struct {
	Kind   PublishKind
	GistID string
}

// Options are the invocation parameters.
type Options struct {
	Repo      string // repository identifier
	Dir       string // benchmark working directory
	Ref       string // reference branch; empty disables comparison
	OutputDir string // where artifacts are written; defaults to Dir
	BaseURL   string // absolute base for image links in the report
	Publish   PublishMode
	Public    bool // gist visibility
}

// RunContext is the per-run state threaded through every stage. The run
// name seeds every output file name: distinct code states get distinct
// names, re-runs of the same state intentionally overwrite.
type RunContext struct {
	RunName   string
	Mode      Mode
	OutputDir string
	BaseURL   string
}

// Results holds the runs and their judgement; Reference and Judgement are
// nil in standalone mode.
type Results struct {
	Current   *bench.Run
	Reference *bench.Run
	Judgement *bench.Judgement
}

// Outcome is what a completed run produced.
type Outcome struct {
	Context    RunContext
	Results    Results
	ReportPath string
	Payload    gist.Payload
	Gist       *gist.Handle
}

// Pipeline wires the collaborators. Publisher may be nil when publishing
// is disabled.
type Pipeline struct {
	Engine    bench.Engine
	Git       git.IClient
	Pkg       pkgmgr.Manager
	Publisher gist.Publisher
	Out       io.Writer
}

// Labels used for plotting and snapshot keys.
const (
	LabelCommit    = "this_commit"
	LabelReference = "reference"
)

// Run executes the full pipeline. Any stage failure aborts the remaining
// stages and propagates as a StageError; nothing is retried.
func (p *Pipeline) Run(ctx context.Context, opts Options) (*Outcome, error) {
	out := p.Out
	if out == nil {
		out = io.Discard
	}
	if opts.OutputDir == "" {
		opts.OutputDir = opts.Dir
	}

	// ResolveMode
	ui.Stage(out, "resolve mode")
	rc, err := p.resolveMode(opts)
	if err != nil {
		return nil, &StageError{Stage: "resolve mode", Err: err}
	}
	ui.Info(out, "run %s (%s mode)", rc.RunName, rc.Mode)

	// SetupPackage
	ui.Stage(out, "setup package")
	if err := p.setupPackage(ctx, rc, opts); err != nil {
		return nil, &StageError{Stage: "setup package", Err: err}
	}

	// RunCurrent
	ui.Stage(out, "benchmark current state")
	results := Results{}
	results.Current, err = p.Engine.Run(ctx, opts.Dir, "")
	if err != nil {
		return nil, &StageError{Stage: "benchmark current state", Err: err}
	}

	if rc.Mode == Comparison {
		results.Current.Commit = rc.RunName

		// RunReference
		ui.Stage(out, "benchmark reference "+opts.Ref)
		results.Reference, err = p.Engine.Run(ctx, opts.Dir, opts.Ref)
		if err != nil {
			return nil, &StageError{Stage: "benchmark reference", Err: err}
		}

		// Judge
		ui.Stage(out, "judge")
		results.Judgement, err = bench.Judge(results.Current, results.Reference)
		if err != nil {
			return nil, &StageError{Stage: "judge", Err: err}
		}
	}

	// ExtractStats
	ui.Stage(out, "extract statistics")
	current, reference, err := extractAll(results)
	if err != nil {
		return nil, &StageError{Stage: "extract statistics", Err: err}
	}

	// GenerateProfiles
	ui.Stage(out, "generate profiles")
	images, err := p.generateProfiles(rc, results, current, reference)
	if err != nil {
		return nil, &StageError{Stage: "generate profiles", Err: err}
	}

	// Persist
	ui.Stage(out, "persist snapshots")
	if err := p.persist(rc, results, current, reference); err != nil {
		return nil, &StageError{Stage: "persist snapshots", Err: err}
	}

	// Render
	ui.Stage(out, "render report")
	outcome := &Outcome{Context: rc, Results: results}
	if err := p.render(rc, results, images, opts, outcome); err != nil {
		return nil, &StageError{Stage: "render report", Err: err}
	}

	// Publish
	if opts.Publish.Kind != PublishNone {
		ui.Stage(out, "publish")
		handle, err := p.publish(ctx, opts, outcome.Payload)
		if err != nil {
			return nil, &StageError{Stage: "publish", Err: err}
		}
		outcome.Gist = handle
		ui.Info(out, "published: %s", handle.URL)
	}

	return outcome, nil
}

// resolveMode decides comparison vs standalone and names the run.
// Comparison requires both a named reference branch and repository
// metadata in the target directory.
func (p *Pipeline) resolveMode(opts Options) (RunContext, error) {
	rc := RunContext{OutputDir: opts.OutputDir, BaseURL: opts.BaseURL}

	if opts.Ref != "" && p.Git.RepoExists(opts.Dir) {
		rc.Mode = Comparison
		sha, err := p.Git.CurrentCommitSHA(opts.Dir)
		if err != nil {
			return rc, fmt.Errorf("resolve current commit: %w", err)
		}
		rc.RunName = sha
		return rc, nil
	}

	rc.Mode = Standalone
	name := opts.Repo
	if name == "" {
		var err error
		name, err = p.Git.RepoName(opts.Dir)
		if err != nil {
			return rc, fmt.Errorf("resolve repository name: %w", err)
		}
	}
	rc.RunName = strings.ToLower(filepath.Base(name))
	return rc, nil
}

func (p *Pipeline) setupPackage(ctx context.Context, rc RunContext, opts Options) error {
	if rc.Mode == Comparison {
		return p.Pkg.Develop(ctx, opts.Dir)
	}
	if err := p.Pkg.Activate(ctx, opts.Dir); err != nil {
		return err
	}
	return p.Pkg.Instantiate(ctx, opts.Dir)
}

func extractAll(results Results) (current, reference map[string]*bench.CaseStatistics, err error) {
	current, err = bench.Extract(results.Current)
	if err != nil {
		return nil, nil, err
	}
	if results.Reference != nil {
		reference, err = bench.Extract(results.Reference)
		if err != nil {
			return nil, nil, err
		}
	}
	return current, reference, nil
}

// generateProfiles renders the per-metric and combined profiles for every
// suite, in the current run's suite order, and returns the SVG images for
// the report overview.
func (p *Pipeline) generateProfiles(rc RunContext, results Results, current, reference map[string]*bench.CaseStatistics) ([]string, error) {
	gen := profile.NewGenerator(rc.OutputDir)

	var images []string
	for _, suite := range suiteNames(results.Current) {
		labeled := []profile.LabeledStats{{Label: LabelCommit, Stats: current[suite]}}
		if reference != nil {
			ref, ok := reference[suite]
			if !ok || ref.Len() != current[suite].Len() {
				// Suites can drift between branches; profile what aligns.
				continue
			}
			labeled = append(labeled, profile.LabeledStats{Label: LabelReference, Stats: ref})
		}
		files, err := gen.Suite(suite, labeled)
		if err != nil {
			return nil, err
		}
		for _, f := range files {
			if strings.HasSuffix(f, ".svg") {
				images = append(images, f)
			}
		}
	}
	return images, nil
}

func (p *Pipeline) persist(rc RunContext, results Results, current, reference map[string]*bench.CaseStatistics) error {
	for _, suite := range suiteNames(results.Current) {
		labeled := map[string]*bench.CaseStatistics{LabelCommit: current[suite]}
		name := fmt.Sprintf("%s_%s.gob", rc.RunName, suite)
		if rc.Mode == Comparison {
			if ref, ok := reference[suite]; ok {
				labeled[LabelReference] = ref
			}
			name = fmt.Sprintf("%s_vs_reference_%s.gob", rc.RunName, suite)
		}
		if err := store.SaveStats(filepath.Join(rc.OutputDir, name), labeled); err != nil {
			return err
		}
	}
	if results.Judgement != nil {
		name := fmt.Sprintf("%s_vs_reference_judgement.gob", rc.RunName)
		if err := store.SaveJudgement(filepath.Join(rc.OutputDir, name), results.Judgement); err != nil {
			return err
		}
	}
	return nil
}

// render writes the markdown exports and the combined report, and builds
// the gist payload. Section order is fixed: Overview, Judgement, current
// commit, Reference; the comparison-only sections vanish in standalone
// mode.
func (p *Pipeline) render(rc RunContext, results Results, images []string, opts Options, outcome *Outcome) error {
	currentMD, err := bench.FormatRun(results.Current)
	if err != nil {
		return err
	}

	sections := []report.Section{{Title: "Overview", Images: images}}
	files := map[string]gist.File{}

	if rc.Mode == Comparison {
		judgementMD := bench.FormatJudgement(results.Judgement)
		referenceMD, err := bench.FormatRun(results.Reference)
		if err != nil {
			return err
		}

		sections = append(sections,
			report.Section{Title: "Judgement", Body: judgementMD},
			report.Section{Title: "Commit " + rc.RunName, Body: currentMD},
			report.Section{Title: "Reference", Body: referenceMD},
		)

		judgementName := fmt.Sprintf("judgement_%s.md", rc.RunName)
		if err := store.WriteText(filepath.Join(rc.OutputDir, judgementName), judgementMD); err != nil {
			return err
		}
		if err := store.WriteText(filepath.Join(rc.OutputDir, "reference.md"), referenceMD); err != nil {
			return err
		}
		files[judgementName] = gist.File{Content: judgementMD}
		files["reference.md"] = gist.File{Content: referenceMD}
	} else {
		sections = append(sections, report.Section{Title: "Results: " + rc.RunName, Body: currentMD})
	}

	text := report.Render(sections, rc.BaseURL)
	reportName := rc.RunName + ".md"
	outcome.ReportPath = filepath.Join(rc.OutputDir, reportName)
	if err := store.WriteText(outcome.ReportPath, text); err != nil {
		return err
	}
	files[reportName] = gist.File{Content: text}

	// Profiles ride along as text so the report's image links resolve
	// against the gist's raw URLs.
	for _, img := range images {
		data, err := readArtifact(filepath.Join(rc.OutputDir, img))
		if err != nil {
			return err
		}
		files[img] = gist.File{Content: data}
	}

	outcome.Payload = gist.Payload{
		ID:          opts.Publish.GistID,
		Description: fmt.Sprintf("Benchmark report for %s (%s)", rc.RunName, rc.Mode),
		Public:      opts.Public,
		Files:       files,
	}

	return store.WriteJSON(filepath.Join(rc.OutputDir, rc.RunName+".json"), outcome.Payload)
}

func (p *Pipeline) publish(ctx context.Context, opts Options, payload gist.Payload) (*gist.Handle, error) {
	if p.Publisher == nil {
		return nil, fmt.Errorf("%w: no publisher configured", gist.ErrAuthentication)
	}
	mode := gist.Create
	if opts.Publish.Kind == PublishUpdate {
		mode = gist.Update
	}
	return p.Publisher.Publish(ctx, payload, mode)
}

// suiteNames preserves the run's reporting order; it is already stable
// for a given tree, so no re-sorting.
func suiteNames(run *bench.Run) []string {
	names := make([]string, 0, len(run.Suites))
	for _, s := range run.Suites {
		names = append(names, s.Name)
	}
	return names
}

func readArtifact(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: read artifact %s: %v", store.ErrIO, path, err)
	}
	return string(data), nil
}
