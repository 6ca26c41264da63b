package convergence

import (
	"fmt"
	"math"
	"slices"
	"sync"
)

// ProfilePoint is the sup-norm at a single index.
type ProfilePoint struct {
	N        int
	Distance float64
}

// Violation marks an adjacent pair of indices where the sup-norm grew.
type Violation struct {
	From, To int
	Increase float64
}

type MonotoneReport struct {
	Monotone   bool
	Profile    []ProfilePoint
	Violations []Violation
}

// Profile computes the sup-norm at each index in ns using up to workers
// goroutines. Results keep the order of ns. f and lim must be safe for
// concurrent use when workers > 1. The first error encountered, in ns
// order, is returned.
func (a *Analyzer) Profile(f Sequence, lim Limit, ns []int, workers int) ([]ProfilePoint, error) {
	for _, n := range ns {
		if n < 1 {
			return nil, fmt.Errorf("%w: index %d < 1", ErrInvalidArgument, n)
		}
	}
	if workers < 1 {
		workers = 1
	}
	if workers > len(ns) {
		workers = len(ns)
	}

	out := make([]ProfilePoint, len(ns))
	errs := make([]error, len(ns))

	if workers <= 1 {
		for i, n := range ns {
			out[i].N = n
			out[i].Distance, errs[i] = a.SupNorm(f, lim, n)
			if errs[i] != nil {
				return nil, errs[i]
			}
		}
		return out, nil
	}

	chunk := (len(ns) + workers - 1) / workers

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		start := w * chunk
		end := min(start+chunk, len(ns))
		if start >= end {
			break
		}

		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			for i := s; i < e; i++ {
				out[i].N = ns[i]
				out[i].Distance, errs[i] = a.SupNorm(f, lim, ns[i])
				if errs[i] != nil {
					return
				}
			}
		}(start, end)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// CheckMonotone samples the sup-norm at ns, sorted ascending with
// duplicates dropped, and reports every step where it increases.
func (a *Analyzer) CheckMonotone(f Sequence, lim Limit, ns []int) (MonotoneReport, error) {
	sorted := slices.Clone(ns)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)

	profile, err := a.Profile(f, lim, sorted, 1)
	if err != nil {
		return MonotoneReport{}, err
	}

	return MonotoneFromProfile(profile), nil
}

// MonotoneFromProfile reports every step of profile, taken in the given
// order, where the distance increases. A NaN distance following a finite
// one counts as an increase.
func MonotoneFromProfile(profile []ProfilePoint) MonotoneReport {
	report := MonotoneReport{Profile: profile}
	for i := 1; i < len(profile); i++ {
		prev, cur := profile[i-1], profile[i]
		if cur.Distance > prev.Distance || (math.IsNaN(cur.Distance) && !math.IsNaN(prev.Distance)) {
			report.Violations = append(report.Violations, Violation{
				From:     prev.N,
				To:       cur.N,
				Increase: cur.Distance - prev.Distance,
			})
		}
	}
	report.Monotone = len(report.Violations) == 0
	return report
}

// SampleIndices returns count indices spread geometrically over [1, maxN],
// always including 1 and maxN.
func SampleIndices(maxN, count int) []int {
	if maxN < 1 {
		return nil
	}
	if maxN == 1 {
		return []int{1}
	}
	if count < 2 {
		return []int{1, maxN}
	}

	ns := make([]int, 0, count)
	ratio := float64(maxN)
	for i := 0; i < count; i++ {
		n := int(math.Round(math.Pow(ratio, float64(i)/float64(count-1))))
		n = max(1, min(n, maxN))
		ns = append(ns, n)
	}
	slices.Sort(ns)
	return slices.Compact(ns)
}
