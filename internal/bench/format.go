package bench

import (
	"fmt"
	"strings"
)

// FormatStats renders a statistics table as a markdown table.
func FormatStats(stats *CaseStatistics) string {
	var b strings.Builder
	b.WriteString("| case | time (ns/op) | memory (B/op) | gctime (ns/op) | allocations |\n")
	b.WriteString("|---|---|---|---|---|\n")
	for i, name := range stats.Names {
		fmt.Fprintf(&b, "| %s | %.2f | %.0f | %.2f | %.0f |\n",
			name, stats.Time[i], stats.Memory[i], stats.GCTime[i], stats.Allocs[i])
	}
	return b.String()
}

// FormatRun renders the full export of one run: one table per suite, in
// the run's suite order.
func FormatRun(run *Run) (string, error) {
	tables, err := Extract(run)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	for _, suite := range run.Suites {
		fmt.Fprintf(&b, "## %s\n\n", suite.Name)
		b.WriteString(FormatStats(tables[suite.Name]))
		b.WriteString("\n")
	}
	return b.String(), nil
}

// FormatJudgement renders the judgement as markdown, flagging regressions.
func FormatJudgement(j *Judgement) string {
	var b strings.Builder
	for _, suite := range j.Suites {
		fmt.Fprintf(&b, "## %s\n\n", suite.Name)
		b.WriteString("| case | time ratio | time | memory ratio | memory |\n")
		b.WriteString("|---|---|---|---|---|\n")
		for _, c := range suite.Cases {
			fmt.Fprintf(&b, "| %s | %.3f | %s | %.3f | %s |\n",
				c.Name, c.TimeRatio, mark(c.TimeVerdict), c.MemoryRatio, mark(c.MemoryVerdict))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func mark(v Verdict) string {
	switch v {
	case Regression:
		return ":x: " + string(v)
	case Improvement:
		return ":white_check_mark: " + string(v)
	default:
		return string(v)
	}
}
