package sequences

import (
	"math"

	"github.com/san-kum/uniconv/internal/convergence"
)

// Option holds European call contract terms. The spot price is the
// domain variable and is not part of the contract.
type Option struct {
	Strike float64
	Expiry float64 // years
	Rate   float64 // continuously compounded
	Vol    float64
}

var DefaultOption = Option{Strike: 100, Expiry: 1, Rate: 0.05, Vol: 0.2}

// BlackScholesCall returns the closed-form call price at spot s.
func (o Option) BlackScholesCall(s float64) float64 {
	if o.Expiry <= 0 || o.Vol <= 0 {
		return math.Max(s-o.Strike*math.Exp(-o.Rate*o.Expiry), 0)
	}

	sqrtT := math.Sqrt(o.Expiry)
	d1 := (math.Log(s/o.Strike) + (o.Rate+0.5*o.Vol*o.Vol)*o.Expiry) / (o.Vol * sqrtT)
	d2 := d1 - o.Vol*sqrtT
	return s*normCDF(d1) - o.Strike*math.Exp(-o.Rate*o.Expiry)*normCDF(d2)
}

// BinomialCall prices the call on an n-step Cox-Ross-Rubinstein tree. The
// terminal payoffs are summed directly with log-space binomial weights, so
// the cost is O(n) rather than O(n^2).
func (o Option) BinomialCall(s float64, n int) float64 {
	if o.Expiry <= 0 || o.Vol <= 0 {
		return math.Max(s-o.Strike*math.Exp(-o.Rate*o.Expiry), 0)
	}
	if n < 1 {
		n = 1
	}
	dt := o.Expiry / float64(n)
	u := math.Exp(o.Vol * math.Sqrt(dt))
	d := 1 / u
	p := (math.Exp(o.Rate*dt) - d) / (u - d)

	logP, logQ := math.Log(p), math.Log(1-p)
	lgN, _ := math.Lgamma(float64(n) + 1)
	logU := math.Log(u)

	sum := 0.0
	for j := 0; j <= n; j++ {
		st := s * math.Exp(float64(2*j-n)*logU)
		if st <= o.Strike {
			continue
		}
		lgJ, _ := math.Lgamma(float64(j) + 1)
		lgNJ, _ := math.Lgamma(float64(n-j) + 1)
		w := math.Exp(lgN - lgJ - lgNJ + float64(j)*logP + float64(n-j)*logQ)
		sum += w * (st - o.Strike)
	}
	return math.Exp(-o.Rate*o.Expiry) * sum
}

func (o Option) BinomialSequence() convergence.Sequence {
	return convergence.SequenceFunc(func(x float64, n int) float64 { return o.BinomialCall(x, n) })
}

func (o Option) BlackScholesLimit() convergence.Limit {
	return convergence.LimitFunc(o.BlackScholesCall)
}

func normCDF(x float64) float64 {
	return 0.5 * math.Erfc(-x/math.Sqrt2)
}
