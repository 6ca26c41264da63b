package convergence

import (
	"fmt"
	"math"
)

const (
	DefaultEpsilon = 1e-6
	DefaultMaxN    = 10000
)

// Strategy selects how CheckUniform walks the index range.
type Strategy string

const (
	// StrategyBisect binary searches [1, MaxN]. It assumes the sup-norm is
	// non-increasing in n.
	StrategyBisect Strategy = "bisect"

	// StrategyLinear scans n = 1, 2, ... and stops at the first index below
	// epsilon. It makes no monotonicity assumption.
	StrategyLinear Strategy = "linear"
)

// ParseStrategy maps a name to a Strategy. The empty string selects
// StrategyBisect.
func ParseStrategy(name string) (Strategy, error) {
	switch Strategy(name) {
	case "", StrategyBisect:
		return StrategyBisect, nil
	case StrategyLinear:
		return StrategyLinear, nil
	}
	return "", fmt.Errorf("%w: unknown strategy %q", ErrInvalidArgument, name)
}

type SearchConfig struct {
	Epsilon  float64
	MaxN     int
	Strategy Strategy
}

func DefaultSearchConfig() SearchConfig {
	return SearchConfig{
		Epsilon:  DefaultEpsilon,
		MaxN:     DefaultMaxN,
		Strategy: StrategyBisect,
	}
}

func (c SearchConfig) validate() error {
	if c.MaxN < 1 {
		return fmt.Errorf("%w: max n %d < 1", ErrInvalidArgument, c.MaxN)
	}
	if math.IsNaN(c.Epsilon) {
		return fmt.Errorf("%w: epsilon is NaN", ErrInvalidArgument)
	}
	return nil
}

// Probe is one sup-norm evaluation made during a search.
type Probe struct {
	N        int
	Distance float64
	Below    bool
}

// Result describes the outcome of CheckUniform.
//
// When Converged is false, Distance is the sup-norm at the last probed
// index. It is an artifact of the search path, not a best distance; Trace
// holds every probe.
type Result struct {
	Converged bool
	Distance  float64
	N         int
	Probes    int
	Epsilon   float64
	MaxN      int
	Strategy  Strategy
	Trace     []Probe
}

// CheckUniform looks for the smallest n in [1, cfg.MaxN] whose sup-norm is
// strictly below cfg.Epsilon.
//
// With StrategyBisect the sup-norm must be non-increasing in n. If it is
// not, the search may miss a smaller valid n or report no convergence at
// all; the answer is then a function of the probe path.
func (a *Analyzer) CheckUniform(f Sequence, lim Limit, cfg SearchConfig) (Result, error) {
	if cfg.Strategy == "" {
		cfg.Strategy = StrategyBisect
	}
	if err := cfg.validate(); err != nil {
		return Result{}, err
	}

	res := Result{Epsilon: cfg.Epsilon, MaxN: cfg.MaxN, Strategy: cfg.Strategy}

	var err error
	switch cfg.Strategy {
	case StrategyBisect:
		err = a.bisect(f, lim, cfg, &res)
	case StrategyLinear:
		err = a.linear(f, lim, cfg, &res)
	default:
		return Result{}, fmt.Errorf("%w: unknown strategy %q", ErrInvalidArgument, cfg.Strategy)
	}
	if err != nil {
		return Result{}, err
	}

	res.Probes = len(res.Trace)
	return res, nil
}

// TestUniformConvergence is CheckUniform with the bisection strategy,
// reduced to the (converged, distance) pair.
func (a *Analyzer) TestUniformConvergence(f Sequence, lim Limit, epsilon float64, maxN int) (bool, float64, error) {
	res, err := a.CheckUniform(f, lim, SearchConfig{Epsilon: epsilon, MaxN: maxN, Strategy: StrategyBisect})
	if err != nil {
		return false, 0, err
	}
	return res.Converged, res.Distance, nil
}

func (a *Analyzer) bisect(f Sequence, lim Limit, cfg SearchConfig, res *Result) error {
	left, right := 1, cfg.MaxN
	last := 0.0

	for left <= right {
		mid := left + (right-left)/2
		sup, err := a.SupNorm(f, lim, mid)
		if err != nil {
			return err
		}

		below := sup < cfg.Epsilon
		res.Trace = append(res.Trace, Probe{N: mid, Distance: sup, Below: below})
		last = sup

		if below {
			res.Converged = true
			res.N = mid
			res.Distance = sup
			right = mid - 1
		} else {
			left = mid + 1
		}
	}

	if !res.Converged {
		res.Distance = last
	}
	return nil
}

func (a *Analyzer) linear(f Sequence, lim Limit, cfg SearchConfig, res *Result) error {
	for n := 1; n <= cfg.MaxN; n++ {
		sup, err := a.SupNorm(f, lim, n)
		if err != nil {
			return err
		}

		below := sup < cfg.Epsilon
		res.Trace = append(res.Trace, Probe{N: n, Distance: sup, Below: below})
		res.Distance = sup

		if below {
			res.Converged = true
			res.N = n
			return nil
		}
	}
	return nil
}
