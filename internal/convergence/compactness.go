package convergence

import (
	"fmt"
	"math"
)

// CompactnessResult reports the diameter of a point cloud.
//
// Bounded is a stand-in for compactness in R^d: only boundedness is
// checked, closedness is not.
type CompactnessResult struct {
	Bounded   bool
	Diameter  float64
	Points    int
	Dimension int
}

// CheckCompactness computes the maximum pairwise Euclidean distance of
// points. An empty cloud is reported as not bounded with diameter 0; a
// single point is bounded with diameter 0. Every point must have the same
// length as the first, otherwise ErrDimensionMismatch is returned.
//
// The cloud is not retained and does not depend on the analyzer's domain.
func (a *Analyzer) CheckCompactness(points [][]float64) (CompactnessResult, error) {
	return Compactness(points)
}

// Compactness is CheckCompactness without an Analyzer.
func Compactness(points [][]float64) (CompactnessResult, error) {
	if len(points) == 0 {
		return CompactnessResult{}, nil
	}

	dim := len(points[0])
	for i, p := range points {
		if len(p) != dim {
			return CompactnessResult{}, fmt.Errorf("%w: point %d has dimension %d, want %d",
				ErrDimensionMismatch, i, len(p), dim)
		}
	}

	diameter := 0.0
	for i := 0; i < len(points); i++ {
		for j := i + 1; j < len(points); j++ {
			d := euclidean(points[i], points[j])
			if math.IsNaN(d) || d > diameter {
				diameter = d
			}
		}
	}

	return CompactnessResult{
		Bounded:   diameter < math.MaxFloat64,
		Diameter:  diameter,
		Points:    len(points),
		Dimension: dim,
	}, nil
}

func euclidean(p, q []float64) float64 {
	sum := 0.0
	for i := range p {
		diff := p[i] - q[i]
		sum += diff * diff
	}
	return math.Sqrt(sum)
}
