// Package convergence tests uniform convergence of function sequences over
// a discretized interval and boundedness of finite point clouds.
//
// An [Analyzer] owns a fixed, evenly spaced sampling of [start, end] and
// answers read-only queries against it:
//
//   - [Analyzer.SupNorm]: discrete sup-norm ||f_n - f|| at one index
//   - [Analyzer.CheckUniform]: smallest sufficient index N for a tolerance
//   - [Analyzer.CheckMonotone]: diagnostic for the bisection precondition
//   - [Analyzer.Profile]: sup-norms at many indices, computed concurrently
//   - [Analyzer.CheckCompactness]: diameter-based boundedness test
//
// # Example
//
//	a, _ := convergence.New(0, 1, 100)
//	seq := convergence.SequenceFunc(func(x float64, n int) float64 { return 1 / float64(n) })
//	lim := convergence.LimitFunc(func(x float64) float64 { return 0 })
//	res, _ := a.CheckUniform(seq, lim, convergence.SearchConfig{Epsilon: 0.01, MaxN: 10000})
//	// res.Converged == true, res.N == 101
//
// # Monotone Precondition
//
// The default bisection strategy assumes the sup-norm is non-increasing in
// n. When that fails the result reflects the probes the search happened to
// make, not the true minimal N. Use [StrategyLinear] or
// [Analyzer.CheckMonotone] when the sequence may oscillate.
//
// # Thread Safety
//
// An Analyzer is immutable after [New] and may be shared between
// goroutines, provided the supplied [Sequence] and [Limit] are themselves
// safe for concurrent use.
package convergence
