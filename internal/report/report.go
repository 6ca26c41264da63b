package report

import (
	"fmt"
	"io"
	"math"
	"strings"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/uniconv/internal/convergence"
)

const (
	plotWidth  = 70
	plotHeight = 12
)

func verdict(ok bool, yes, no string) string {
	if ok {
		return Pass.Render(yes)
	}
	return Fail.Render(no)
}

func row(sb *strings.Builder, label string, value any) {
	fmt.Fprintf(sb, "%s %s\n", Label.Render(fmt.Sprintf("%-10s", label)), Value.Render(fmt.Sprint(value)))
}

// Summary renders a check result as a bordered block.
func Summary(name string, res convergence.Result) string {
	var sb strings.Builder
	sb.WriteString(Title.Render(name))
	sb.WriteString("  ")
	sb.WriteString(verdict(res.Converged, "uniform", "not uniform"))
	sb.WriteString("\n\n")

	if res.Converged {
		row(&sb, "N", res.N)
	} else {
		row(&sb, "N", "none within max n")
	}
	row(&sb, "distance", formatDistance(res.Distance))
	row(&sb, "epsilon", res.Epsilon)
	row(&sb, "max n", res.MaxN)
	row(&sb, "strategy", res.Strategy)
	row(&sb, "probes", res.Probes)

	if !res.Converged && len(res.Trace) > 0 {
		sb.WriteString("\n")
		sb.WriteString(Warn.Render("distance is from the last probe, not a best value"))
		sb.WriteString("\n")
	}
	return Panel.Render(strings.TrimRight(sb.String(), "\n"))
}

// CompactnessSummary renders a boundedness result.
func CompactnessSummary(source string, res convergence.CompactnessResult) string {
	var sb strings.Builder
	sb.WriteString(Title.Render(source))
	sb.WriteString("  ")
	sb.WriteString(verdict(res.Bounded, "bounded", "not bounded"))
	sb.WriteString("\n\n")

	row(&sb, "points", res.Points)
	row(&sb, "dimension", res.Dimension)
	row(&sb, "diameter", formatDistance(res.Diameter))
	sb.WriteString("\n")
	sb.WriteString(Label.Render("closedness is not checked"))
	return Panel.Render(sb.String())
}

// MonotoneSummary lists the increases found by a monotonicity check.
func MonotoneSummary(report convergence.MonotoneReport) string {
	if report.Monotone {
		return Pass.Render(fmt.Sprintf("monotone over %d sampled indices", len(report.Profile)))
	}

	var sb strings.Builder
	sb.WriteString(Fail.Render(fmt.Sprintf("%d increases over %d sampled indices", len(report.Violations), len(report.Profile))))
	sb.WriteString("\n")
	for _, v := range report.Violations {
		fmt.Fprintf(&sb, "  n=%d -> n=%d: +%s\n", v.From, v.To, formatDistance(v.Increase))
	}
	sb.WriteString(Warn.Render("bisect results may depend on the probe path; consider --strategy linear"))
	return sb.String()
}

// TraceTable writes one line per probe.
func TraceTable(w io.Writer, res convergence.Result) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "PROBE\tN\tDISTANCE\tBELOW")
	for i, p := range res.Trace {
		fmt.Fprintf(tw, "%d\t%d\t%s\t%t\n", i+1, p.N, formatDistance(p.Distance), p.Below)
	}
	return tw.Flush()
}

// TracePlot plots the distance of each probe in search order.
func TracePlot(res convergence.Result) string {
	data := make([]float64, len(res.Trace))
	for i, p := range res.Trace {
		data[i] = p.Distance
	}
	return plot(data, fmt.Sprintf("sup-norm per probe (eps=%g)", res.Epsilon))
}

// ProfilePlot plots log10 of the sup-norm against sampled indices.
func ProfilePlot(profile []convergence.ProfilePoint) string {
	data := make([]float64, len(profile))
	for i, p := range profile {
		data[i] = math.Log10(p.Distance)
	}
	caption := "log10 sup-norm vs n"
	if len(profile) > 0 {
		caption = fmt.Sprintf("log10 sup-norm, n=%d..%d", profile[0].N, profile[len(profile)-1].N)
	}
	return plot(data, caption)
}

// plot drops non-finite values, which asciigraph cannot scale.
func plot(data []float64, caption string) string {
	clean := make([]float64, 0, len(data))
	for _, v := range data {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			clean = append(clean, v)
		}
	}
	if len(clean) == 0 {
		return "no finite values to plot"
	}

	return asciigraph.Plot(clean,
		asciigraph.Height(plotHeight),
		asciigraph.Width(plotWidth),
		asciigraph.Caption(caption),
	)
}

func formatDistance(d float64) string {
	switch {
	case math.IsNaN(d):
		return "NaN"
	case math.IsInf(d, 1):
		return "+Inf"
	case d == 0:
		return "0"
	}
	return fmt.Sprintf("%.6e", d)
}
