package convergence

import "time"

// Benchmark runs op once and returns the elapsed wall-clock time in
// nanoseconds.
func Benchmark(op func()) int64 {
	start := time.Now()
	op()
	return time.Since(start).Nanoseconds()
}

// BenchmarkNanoseconds is Benchmark bound to an analyzer, for callers that
// hold one.
func (a *Analyzer) BenchmarkNanoseconds(op func()) int64 {
	return Benchmark(op)
}
