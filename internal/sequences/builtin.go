package sequences

import (
	"math"

	"github.com/san-kum/uniconv/internal/convergence"
)

func builtins() []Entry {
	zero := convergence.LimitFunc(func(x float64) float64 { return 0 })

	return []Entry{
		{
			Name:        "inverse",
			Description: "f_n(x) = 1/n, constant in x",
			Sequence:    convergence.SequenceFunc(inverse),
			Limit:       zero,
			Start:       0,
			End:         1,
			Monotone:    true,
		},
		{
			Name:        "shrink",
			Description: "f_n(x) = x/n",
			Sequence:    convergence.SequenceFunc(shrink),
			Limit:       zero,
			Start:       0,
			End:         1,
			Monotone:    true,
		},
		{
			Name:        "sinc",
			Description: "f_n(x) = sin(nx)/n",
			Sequence:    convergence.SequenceFunc(sinc),
			Limit:       zero,
			Start:       0,
			End:         2 * math.Pi,
		},
		{
			Name:        "identity",
			Description: "f_n(x) = f(x) = x^2, zero distance",
			Sequence:    convergence.SequenceFunc(func(x float64, n int) float64 { return square(x) }),
			Limit:       convergence.LimitFunc(square),
			Start:       -1,
			End:         1,
			Monotone:    true,
		},
		{
			Name:        "power",
			Description: "f_n(x) = x^n to the indicator of {1}; pointwise only, uniform on any finite grid",
			Sequence:    convergence.SequenceFunc(power),
			Limit:       convergence.LimitFunc(indicatorOne),
			Start:       0,
			End:         1,
			Monotone:    true,
		},
		{
			Name:        "oscillating",
			Description: "f_n(x) = 10/n for odd n, 1/n for even n",
			Sequence:    convergence.SequenceFunc(oscillating),
			Limit:       zero,
			Start:       0,
			End:         1,
		},
		{
			Name:        "exp-taylor",
			Description: "degree-n Taylor polynomial of e^x",
			Sequence:    convergence.SequenceFunc(expTaylor),
			Limit:       convergence.LimitFunc(math.Exp),
			Start:       -1,
			End:         1,
			Monotone:    true,
		},
		{
			Name:        "binomial-call",
			Description: "n-step CRR binomial call price vs Black-Scholes (K=100, T=1, r=5%, vol=20%)",
			Sequence:    DefaultOption.BinomialSequence(),
			Limit:       DefaultOption.BlackScholesLimit(),
			Start:       80,
			End:         120,
		},
	}
}

func inverse(x float64, n int) float64 { return 1 / float64(n) }

func shrink(x float64, n int) float64 { return x / float64(n) }

func sinc(x float64, n int) float64 { return math.Sin(float64(n)*x) / float64(n) }

func square(x float64) float64 { return x * x }

func power(x float64, n int) float64 { return math.Pow(x, float64(n)) }

func indicatorOne(x float64) float64 {
	if x == 1 {
		return 1
	}
	return 0
}

func oscillating(x float64, n int) float64 {
	return (1 + float64(n%2)*9) / float64(n)
}

func expTaylor(x float64, n int) float64 {
	sum, term := 1.0, 1.0
	for k := 1; k <= n; k++ {
		term *= x / float64(k)
		sum += term
	}
	return sum
}
