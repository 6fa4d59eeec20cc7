package profile

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"benchreport/internal/bench"
)

// LabeledStats is one candidate's statistics table. The generator takes an
// ordered slice rather than a map so identical inputs always produce
// identical plots (legend order, colors, file naming).
type LabeledStats struct {
	Label string
	Stats *bench.CaseStatistics
}

// Generator renders performance profiles into OutDir. Each profile is saved
// twice, as a vector (.svg) and a raster (.png) image.
type Generator struct {
	OutDir string
	Width  vg.Length
	Height vg.Length
}

func NewGenerator(outDir string) *Generator {
	return &Generator{OutDir: outDir, Width: 7 * vg.Inch, Height: 5 * vg.Inch}
}

// Suite produces one plot per cost metric plus one combined multi-metric
// performance profile for the given suite, and returns the written file
// names. The labeled tables must share row order; they derive from the
// same suite so this holds by construction.
func (g *Generator) Suite(suite string, labeled []LabeledStats) ([]string, error) {
	if len(labeled) == 0 {
		return nil, fmt.Errorf("no labeled statistics for suite %q", suite)
	}
	n := labeled[0].Stats.Len()
	for _, l := range labeled[1:] {
		if l.Stats.Len() != n {
			return nil, fmt.Errorf("suite %q: label %q has %d cases, want %d", suite, l.Label, l.Stats.Len(), n)
		}
	}

	prefix := "profiles_" + joinLabels(labeled)
	var files []string

	for _, metric := range Metrics() {
		name := fmt.Sprintf("%s_%s_%s", prefix, suite, metric.Name)
		written, err := g.metricPlot(suite, metric, labeled, name)
		if err != nil {
			return nil, err
		}
		files = append(files, written...)
	}

	name := fmt.Sprintf("%s_%s", prefix, suite)
	written, err := g.combinedPlot(suite, labeled, name)
	if err != nil {
		return nil, err
	}
	files = append(files, written...)

	return files, nil
}

// metricPlot draws each candidate's per-case cost against case index, with
// case names as rotated x tick labels.
func (g *Generator) metricPlot(suite string, metric Metric, labeled []LabeledStats, name string) ([]string, error) {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s: %s", suite, metric.Name)
	p.Y.Label.Text = metric.Name
	p.NominalX(labeled[0].Stats.Names...)
	p.X.Tick.Label.Rotation = math.Pi / 3
	p.X.Tick.Label.XAlign = draw.XRight
	p.X.Tick.Label.YAlign = draw.YCenter
	p.Legend.Top = true

	for i, l := range labeled {
		col := metric.Extract(l.Stats)
		pts := make(plotter.XYs, len(col))
		for j, v := range col {
			pts[j].X = float64(j)
			pts[j].Y = v
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return nil, fmt.Errorf("plot %s/%s: %w", suite, metric.Name, err)
		}
		line.Color = plotutil.Color(i)
		p.Add(line)
		p.Legend.Add(l.Label, line)
	}

	return g.save(p, name)
}

// combinedPlot draws the standard multi-metric performance profile: for
// each candidate and metric, the fraction of cases whose cost is within a
// ratio factor tau of the per-case best candidate, as a function of tau.
func (g *Generator) combinedPlot(suite string, labeled []LabeledStats, name string) ([]string, error) {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s: performance profile", suite)
	p.X.Label.Text = "tau"
	p.Y.Label.Text = "fraction of cases within tau of best"
	p.Y.Min, p.Y.Max = 0, 1.05
	p.Legend.Top = false

	metrics := Metrics()
	n := labeled[0].Stats.Len()

	// ratios[l][m][i] = cost of candidate l on case i, relative to the best
	// candidate for that metric and case.
	ratios := make([][][]float64, len(labeled))
	for li := range labeled {
		ratios[li] = make([][]float64, len(metrics))
		for mi := range metrics {
			ratios[li][mi] = make([]float64, n)
		}
	}

	tauMax := 1.0
	for mi, metric := range metrics {
		cols := make([][]float64, len(labeled))
		for li, l := range labeled {
			cols[li] = metric.Extract(l.Stats)
		}
		for i := 0; i < n; i++ {
			best := math.Inf(1)
			for li := range labeled {
				if cols[li][i] < best {
					best = cols[li][i]
				}
			}
			for li := range labeled {
				r := costRatio(cols[li][i], best)
				ratios[li][mi][i] = r
				if !math.IsInf(r, 1) && r > tauMax {
					tauMax = r
				}
			}
		}
	}
	if tauMax < 1.01 {
		tauMax = 1.01
	}

	const steps = 100
	series := 0
	for li, l := range labeled {
		for mi, metric := range metrics {
			pts := make(plotter.XYs, steps+1)
			for s := 0; s <= steps; s++ {
				tau := 1 + (tauMax-1)*float64(s)/steps
				within := 0
				for i := 0; i < n; i++ {
					if ratios[li][mi][i] <= tau {
						within++
					}
				}
				pts[s].X = tau
				pts[s].Y = float64(within) / float64(n)
			}
			line, err := plotter.NewLine(pts)
			if err != nil {
				return nil, fmt.Errorf("combined profile %s: %w", suite, err)
			}
			line.Color = plotutil.Color(series)
			series++
			p.Add(line)
			p.Legend.Add(fmt.Sprintf("%s (%s)", l.Label, metric.Name), line)
		}
	}

	return g.save(p, name)
}

func (g *Generator) save(p *plot.Plot, name string) ([]string, error) {
	var files []string
	for _, ext := range []string{".svg", ".png"} {
		file := name + ext
		if err := p.Save(g.Width, g.Height, filepath.Join(g.OutDir, file)); err != nil {
			return nil, fmt.Errorf("save %s: %w", file, err)
		}
		files = append(files, file)
	}
	return files, nil
}

// costRatio guards the degenerate all-zero column: a zero-cost case ties
// the zero best at ratio 1, anything else is pushed out of every tau.
func costRatio(cost, best float64) float64 {
	if best == 0 {
		if cost == 0 {
			return 1
		}
		return math.Inf(1)
	}
	return cost / best
}

func joinLabels(labeled []LabeledStats) string {
	parts := make([]string, len(labeled))
	for i, l := range labeled {
		parts[i] = l.Label
	}
	return strings.Join(parts, "_vs_")
}
