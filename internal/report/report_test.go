package report

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/uniconv/internal/convergence"
)

func converged() convergence.Result {
	return convergence.Result{
		Converged: true,
		Distance:  1.0 / 101,
		N:         101,
		Probes:    3,
		Epsilon:   0.01,
		MaxN:      200,
		Strategy:  convergence.StrategyBisect,
		Trace: []convergence.Probe{
			{N: 100, Distance: 0.01},
			{N: 150, Distance: 1.0 / 150, Below: true},
			{N: 101, Distance: 1.0 / 101, Below: true},
		},
	}
}

func TestSummary(t *testing.T) {
	out := Summary("inverse", converged())
	assert.Contains(t, out, "inverse")
	assert.Contains(t, out, "uniform")
	assert.Contains(t, out, "101")
	assert.NotContains(t, out, "last probe")
}

func TestSummary_NotConverged(t *testing.T) {
	res := converged()
	res.Converged = false
	res.N = 0

	out := Summary("inverse", res)
	assert.Contains(t, out, "not uniform")
	assert.Contains(t, out, "none within max n")
	assert.Contains(t, out, "last probe")
}

func TestCompactnessSummary(t *testing.T) {
	out := CompactnessSummary("cloud.csv", convergence.CompactnessResult{Bounded: true, Diameter: 5, Points: 2, Dimension: 2})
	assert.Contains(t, out, "bounded")
	assert.Contains(t, out, "5.000000e+00")
	assert.Contains(t, out, "closedness is not checked")
}

func TestMonotoneSummary(t *testing.T) {
	ok := MonotoneSummary(convergence.MonotoneReport{Monotone: true, Profile: make([]convergence.ProfilePoint, 4)})
	assert.Contains(t, ok, "monotone over 4")

	bad := MonotoneSummary(convergence.MonotoneReport{
		Profile:    make([]convergence.ProfilePoint, 4),
		Violations: []convergence.Violation{{From: 2, To: 3, Increase: 2.5}},
	})
	assert.Contains(t, bad, "1 increases")
	assert.Contains(t, bad, "n=2 -> n=3")
}

func TestTraceTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, TraceTable(&buf, converged()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], "PROBE"))
	assert.Contains(t, lines[3], "101")
	assert.Contains(t, lines[3], "true")
}

func TestTracePlot(t *testing.T) {
	out := TracePlot(converged())
	assert.Contains(t, out, "sup-norm per probe")
}

func TestPlot_SkipsNonFinite(t *testing.T) {
	assert.Equal(t, "no finite values to plot", plot([]float64{math.NaN(), math.Inf(1)}, "x"))

	profile := []convergence.ProfilePoint{{N: 1, Distance: 0}, {N: 10, Distance: 0.1}, {N: 100, Distance: 0.01}}
	out := ProfilePlot(profile)
	assert.Contains(t, out, "n=1..100")
}

func TestFormatDistance(t *testing.T) {
	assert.Equal(t, "NaN", formatDistance(math.NaN()))
	assert.Equal(t, "+Inf", formatDistance(math.Inf(1)))
	assert.Equal(t, "0", formatDistance(0))
	assert.Equal(t, "1.000000e-02", formatDistance(0.01))
}
