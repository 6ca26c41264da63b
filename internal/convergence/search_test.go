package convergence_test

import (
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/uniconv/internal/convergence"
)

var (
	zeroLimit = convergence.LimitFunc(func(x float64) float64 { return 0 })
	inverse   = convergence.SequenceFunc(func(x float64, n int) float64 { return 1 / float64(n) })
)

// onlyAt is below any positive epsilon at the listed indices and 1 elsewhere.
func onlyAt(ns ...int) convergence.Sequence {
	hit := make(map[int]bool, len(ns))
	for _, n := range ns {
		hit[n] = true
	}
	return convergence.SequenceFunc(func(x float64, n int) float64 {
		if hit[n] {
			return 0
		}
		return 1
	})
}

func probeIndices(res convergence.Result) []int {
	ns := make([]int, len(res.Trace))
	for i, p := range res.Trace {
		ns[i] = p.N
	}
	return ns
}

var _ = Describe("CheckUniform", func() {
	var a *convergence.Analyzer

	BeforeEach(func() {
		var err error
		a, err = convergence.New(0, 1, 100)
		Expect(err).NotTo(HaveOccurred())
	})

	Context("with the bisect strategy", func() {
		It("finds the exact boundary for 1/n", func() {
			res, err := a.CheckUniform(inverse, zeroLimit, convergence.SearchConfig{Epsilon: 0.01, MaxN: 10000})
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Converged).To(BeTrue())
			Expect(res.N).To(Equal(101))
			Expect(res.Distance).To(BeNumerically("~", 1.0/101, 1e-15))
			Expect(res.Strategy).To(Equal(convergence.StrategyBisect))
		})

		It("converges to N = 1 when the distance is identically zero", func() {
			sq := func(x float64) float64 { return x * x }
			seq := convergence.SequenceFunc(func(x float64, n int) float64 { return sq(x) })

			res, err := a.CheckUniform(seq, convergence.LimitFunc(sq), convergence.DefaultSearchConfig())
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Converged).To(BeTrue())
			Expect(res.Distance).To(Equal(0.0))
			Expect(res.N).To(Equal(1))
		})

		It("uses a logarithmic number of probes", func() {
			res, err := a.CheckUniform(inverse, zeroLimit, convergence.DefaultSearchConfig())
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Probes).To(BeNumerically("<=", 14))
			Expect(res.Probes).To(Equal(len(res.Trace)))
		})

		It("reports the last probed distance when nothing converges", func() {
			res, err := a.CheckUniform(inverse, zeroLimit, convergence.SearchConfig{Epsilon: 1e-9, MaxN: 1000})
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Converged).To(BeFalse())
			Expect(res.N).To(Equal(0))

			last := res.Trace[len(res.Trace)-1]
			Expect(last.N).To(Equal(1000))
			Expect(res.Distance).To(Equal(last.Distance))
		})

		It("follows its probe path on non-monotone sequences", func() {
			// only n = 3 satisfies the tolerance; bisection over [1, 10]
			// probes 5, 8, 9, 10 and never sees it
			res, err := a.CheckUniform(onlyAt(3), zeroLimit, convergence.SearchConfig{Epsilon: 0.5, MaxN: 10})
			Expect(err).NotTo(HaveOccurred())
			Expect(probeIndices(res)).To(Equal([]int{5, 8, 9, 10}))
			Expect(res.Converged).To(BeFalse())
			Expect(res.Distance).To(Equal(1.0))
		})

		It("can report a larger N than the true minimum", func() {
			// valid at 1 and 5; the first probe hits 5 and the lower
			// half is then probed at 2, 3, 4 but never at 1
			res, err := a.CheckUniform(onlyAt(1, 5), zeroLimit, convergence.SearchConfig{Epsilon: 0.5, MaxN: 10})
			Expect(err).NotTo(HaveOccurred())
			Expect(probeIndices(res)).To(Equal([]int{5, 2, 3, 4}))
			Expect(res.Converged).To(BeTrue())
			Expect(res.N).To(Equal(5))
			Expect(res.Distance).To(Equal(0.0))
		})

		It("treats NaN distances as not converged", func() {
			seq := convergence.SequenceFunc(func(x float64, n int) float64 { return math.NaN() })
			res, err := a.CheckUniform(seq, zeroLimit, convergence.SearchConfig{Epsilon: 1, MaxN: 8})
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Converged).To(BeFalse())
			Expect(math.IsNaN(res.Distance)).To(BeTrue())
		})
	})

	Context("with the linear strategy", func() {
		It("finds the true minimum on non-monotone sequences", func() {
			res, err := a.CheckUniform(onlyAt(3), zeroLimit, convergence.SearchConfig{
				Epsilon: 0.5, MaxN: 10, Strategy: convergence.StrategyLinear,
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Converged).To(BeTrue())
			Expect(res.N).To(Equal(3))
			Expect(probeIndices(res)).To(Equal([]int{1, 2, 3}))
		})

		It("agrees with bisection on monotone sequences", func() {
			cfg := convergence.SearchConfig{Epsilon: 0.01, MaxN: 500, Strategy: convergence.StrategyLinear}
			lin, err := a.CheckUniform(inverse, zeroLimit, cfg)
			Expect(err).NotTo(HaveOccurred())

			cfg.Strategy = convergence.StrategyBisect
			bis, err := a.CheckUniform(inverse, zeroLimit, cfg)
			Expect(err).NotTo(HaveOccurred())

			Expect(lin.N).To(Equal(bis.N))
			Expect(lin.Distance).To(Equal(bis.Distance))
		})

		It("reports the distance at MaxN on failure", func() {
			res, err := a.CheckUniform(inverse, zeroLimit, convergence.SearchConfig{
				Epsilon: 0.01, MaxN: 50, Strategy: convergence.StrategyLinear,
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Converged).To(BeFalse())
			Expect(res.Probes).To(Equal(50))
			Expect(res.Distance).To(BeNumerically("~", 1.0/50, 1e-15))
		})
	})

	Context("with invalid arguments", func() {
		DescribeTable("rejects the configuration",
			func(cfg convergence.SearchConfig) {
				_, err := a.CheckUniform(inverse, zeroLimit, cfg)
				Expect(errors.Is(err, convergence.ErrInvalidArgument)).To(BeTrue())
			},
			Entry("zero max n", convergence.SearchConfig{Epsilon: 0.1, MaxN: 0}),
			Entry("negative max n", convergence.SearchConfig{Epsilon: 0.1, MaxN: -5}),
			Entry("NaN epsilon", convergence.SearchConfig{Epsilon: math.NaN(), MaxN: 10}),
			Entry("unknown strategy", convergence.SearchConfig{Epsilon: 0.1, MaxN: 10, Strategy: "golden"}),
		)
	})

	It("propagates errors from the sequence unchanged", func() {
		boom := errors.New("boom")
		seq := convergence.SequenceFunc(func(x float64, n int) float64 { return 0 })
		lim := limitErr{boom}

		_, err := a.CheckUniform(seq, lim, convergence.DefaultSearchConfig())
		Expect(err).To(BeIdenticalTo(boom))

		res, err := a.CheckUniform(inverse, zeroLimit, convergence.SearchConfig{Epsilon: 0.01, MaxN: 10000})
		Expect(err).NotTo(HaveOccurred())
		Expect(res.N).To(Equal(101))
	})

	It("returns bit-identical results for repeated queries", func() {
		cfg := convergence.SearchConfig{Epsilon: 0.003, MaxN: 10000}
		first, err := a.CheckUniform(inverse, zeroLimit, cfg)
		Expect(err).NotTo(HaveOccurred())

		for i := 0; i < 5; i++ {
			again, err := a.CheckUniform(inverse, zeroLimit, cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(again).To(Equal(first))
			Expect(math.Float64bits(again.Distance)).To(Equal(math.Float64bits(first.Distance)))
		}
	})
})

var _ = Describe("TestUniformConvergence", func() {
	It("returns the (converged, distance) pair", func() {
		a, err := convergence.New(0, 1, 100)
		Expect(err).NotTo(HaveOccurred())

		ok, dist, err := a.TestUniformConvergence(inverse, zeroLimit, 0.01, 10000)
		Expect(err).NotTo(HaveOccurred())
		Expect(ok).To(BeTrue())
		Expect(dist).To(BeNumerically("~", 1.0/101, 1e-15))
	})
})

var _ = Describe("ParseStrategy", func() {
	It("defaults to bisect", func() {
		s, err := convergence.ParseStrategy("")
		Expect(err).NotTo(HaveOccurred())
		Expect(s).To(Equal(convergence.StrategyBisect))
	})

	It("rejects unknown names", func() {
		_, err := convergence.ParseStrategy("newton")
		Expect(err).To(MatchError(convergence.ErrInvalidArgument))
	})
})

type limitErr struct{ err error }

func (l limitErr) At(x float64) (float64, error) { return 0, l.err }
