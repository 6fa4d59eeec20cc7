package bench

import (
	"fmt"
	"math"
)

// Verdict classifies a case's change relative to the reference run.
type Verdict string

const (
	Improvement Verdict = "improvement"
	Regression  Verdict = "regression"
	Invariant   Verdict = "invariant"
)

// Tolerances below which a ratio change is considered noise.
const (
	TimeTolerance   = 0.05
	MemoryTolerance = 0.01
)

// CaseJudgement holds the per-case ratios (current / reference) and their
// verdicts.
type CaseJudgement struct {
	Name          string
	TimeRatio     float64
	MemoryRatio   float64
	TimeVerdict   Verdict
	MemoryVerdict Verdict
}

// SuiteJudgement is the judgement of one suite, case order preserved.
type SuiteJudgement struct {
	Name  string
	Cases []CaseJudgement
}

// Judgement is the statistical comparison between two runs, keyed by suite.
type Judgement struct {
	Suites []SuiteJudgement
}

// Suite returns the judgement for a named suite, or nil.
func (j *Judgement) Suite(name string) *SuiteJudgement {
	for i := range j.Suites {
		if j.Suites[i].Name == name {
			return &j.Suites[i]
		}
	}
	return nil
}

// Judge compares a current run against a reference run. Suites and cases
// are matched by name; a suite or case present in only one run is skipped.
func Judge(current, reference *Run) (*Judgement, error) {
	if current == nil || reference == nil {
		return nil, fmt.Errorf("judge requires two runs")
	}

	refSuites := make(map[string]SuiteRun, len(reference.Suites))
	for _, s := range reference.Suites {
		refSuites[s.Name] = s
	}

	j := &Judgement{}
	for _, cur := range current.Suites {
		ref, ok := refSuites[cur.Name]
		if !ok {
			continue
		}

		refCases := make(map[string]Sample, len(ref.Samples))
		for _, s := range ref.Samples {
			refCases[s.Name] = s
		}

		sj := SuiteJudgement{Name: cur.Name}
		for _, c := range cur.Samples {
			r, ok := refCases[c.Name]
			if !ok {
				continue
			}
			cj := CaseJudgement{
				Name:        c.Name,
				TimeRatio:   ratio(c.Values[ColTime], r.Values[ColTime]),
				MemoryRatio: ratio(c.Values[ColMemory], r.Values[ColMemory]),
			}
			cj.TimeVerdict = classify(cj.TimeRatio, TimeTolerance)
			cj.MemoryVerdict = classify(cj.MemoryRatio, MemoryTolerance)
			sj.Cases = append(sj.Cases, cj)
		}
		j.Suites = append(j.Suites, sj)
	}

	return j, nil
}

func ratio(current, reference float64) float64 {
	if reference == 0 {
		if current == 0 {
			return 1
		}
		return math.NaN() // not comparable, classified as invariant
	}
	return current / reference
}

func classify(ratio, tolerance float64) Verdict {
	switch {
	case math.IsNaN(ratio):
		return Invariant
	case ratio > 1+tolerance:
		return Regression
	case ratio < 1-tolerance:
		return Improvement
	default:
		return Invariant
	}
}
