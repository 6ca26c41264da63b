package sequences

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBlackScholesCall(t *testing.T) {
	assert.InDelta(t, 10.450583572185565, DefaultOption.BlackScholesCall(100), 1e-9)

	// deep in the money approaches the discounted forward payoff
	deep := DefaultOption.BlackScholesCall(1000)
	assert.InDelta(t, 1000-100*math.Exp(-0.05), deep, 1e-6)

	expired := Option{Strike: 100, Expiry: 0, Rate: 0.05, Vol: 0.2}
	assert.Equal(t, 20.0, expired.BlackScholesCall(120))
	assert.Equal(t, 0.0, expired.BlackScholesCall(80))
}

func TestBinomialCall(t *testing.T) {
	tests := []struct {
		n    int
		want float64
	}{
		{10, 10.253409044871931},
		{11, 10.611200095875457},
		{100, 10.430611662249095},
		{101, 10.467954674844346},
		{500, 10.446585136446545},
	}

	for _, tt := range tests {
		assert.InDelta(t, tt.want, DefaultOption.BinomialCall(100, tt.n), 1e-8, "n=%d", tt.n)
	}
}

func TestBinomialCall_NoVolatility(t *testing.T) {
	for _, o := range []Option{
		{Strike: 100, Expiry: 1, Rate: 0.05, Vol: 0},
		{Strike: 100, Expiry: 0, Rate: 0.05, Vol: 0.2},
	} {
		for _, s := range []float64{80, 100, 120} {
			got := o.BinomialCall(s, 50)
			assert.False(t, math.IsNaN(got), "option %+v spot %v", o, s)
			assert.InDelta(t, o.BlackScholesCall(s), got, 1e-12, "option %+v spot %v", o, s)
		}
	}
}

func TestBinomialCall_OscillatesAroundLimit(t *testing.T) {
	bs := DefaultOption.BlackScholesCall(100)
	even := DefaultOption.BinomialCall(100, 100) - bs
	odd := DefaultOption.BinomialCall(100, 101) - bs

	assert.Negative(t, even)
	assert.Positive(t, odd)
	assert.Less(t, math.Abs(DefaultOption.BinomialCall(100, 1000)-bs), 0.01)
}
