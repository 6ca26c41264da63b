package convergence

import (
	"fmt"
	"math"
)

// DefaultPoints is the domain sample count used when none is configured.
const DefaultPoints = 1000

// Analyzer evaluates convergence queries over a fixed sampling of an
// interval. The sampling is built once by New and never modified.
type Analyzer struct {
	start, end float64
	points     []float64
}

// New samples numPoints evenly spaced values over [start, end], both
// endpoints included. A reversed or degenerate interval is accepted and
// yields a negative or zero step.
func New(start, end float64, numPoints int) (*Analyzer, error) {
	if numPoints < 2 {
		return nil, fmt.Errorf("%w: num points %d < 2", ErrInvalidArgument, numPoints)
	}

	points := make([]float64, numPoints)
	dx := (end - start) / float64(numPoints-1)
	for i := range points {
		points[i] = start + float64(i)*dx
	}
	// start + (n-1)*dx can miss end by an ulp
	points[numPoints-1] = end

	return &Analyzer{start: start, end: end, points: points}, nil
}

// Domain returns a copy of the sample points.
func (a *Analyzer) Domain() []float64 {
	d := make([]float64, len(a.points))
	copy(d, a.points)
	return d
}

// Len returns the number of sample points.
func (a *Analyzer) Len() int { return len(a.points) }

// Bounds returns the interval the analyzer was built for.
func (a *Analyzer) Bounds() (start, end float64) { return a.start, a.end }

// SupNorm returns max |f(x, n) - lim(x)| over the sample points. Each of
// f and lim is called exactly once per point, in domain order.
//
// NaN is sticky: a single NaN difference makes the result NaN, though the
// remaining points are still evaluated. Errors from f or lim are returned
// unchanged.
func (a *Analyzer) SupNorm(f Sequence, lim Limit, n int) (float64, error) {
	sup := 0.0
	for _, x := range a.points {
		fx, err := f.At(x, n)
		if err != nil {
			return 0, err
		}
		lx, err := lim.At(x)
		if err != nil {
			return 0, err
		}

		// once sup is NaN every comparison is false, so it stays NaN
		diff := math.Abs(fx - lx)
		if math.IsNaN(diff) || diff > sup {
			sup = diff
		}
	}
	return sup, nil
}
