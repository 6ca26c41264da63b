package convergence

// Sequence is a parameterized family of functions f_n(x).
type Sequence interface {
	At(x float64, n int) (float64, error)
}

// Limit is the candidate limit function f(x).
type Limit interface {
	At(x float64) (float64, error)
}

// SequenceFunc adapts an infallible function to a Sequence.
type SequenceFunc func(x float64, n int) float64

func (f SequenceFunc) At(x float64, n int) (float64, error) {
	return f(x, n), nil
}

// LimitFunc adapts an infallible function to a Limit.
type LimitFunc func(x float64) float64

func (f LimitFunc) At(x float64) (float64, error) {
	return f(x), nil
}
