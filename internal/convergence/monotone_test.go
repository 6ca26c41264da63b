package convergence_test

import (
	"errors"
	"math"
	"sync/atomic"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/uniconv/internal/convergence"
)

var oscillating = convergence.SequenceFunc(func(x float64, n int) float64 {
	return (1 + float64(n%2)*9) / float64(n)
})

var _ = Describe("CheckMonotone", func() {
	var a *convergence.Analyzer

	BeforeEach(func() {
		a, _ = convergence.New(0, 1, 16)
	})

	It("accepts a non-increasing sequence", func() {
		report, err := a.CheckMonotone(inverse, zeroLimit, []int{1, 2, 4, 8, 16})
		Expect(err).NotTo(HaveOccurred())
		Expect(report.Monotone).To(BeTrue())
		Expect(report.Violations).To(BeEmpty())
		Expect(report.Profile).To(HaveLen(5))
	})

	It("flags each increase of an oscillating sequence", func() {
		report, err := a.CheckMonotone(oscillating, zeroLimit, []int{4, 1, 2, 3, 3})
		Expect(err).NotTo(HaveOccurred())
		Expect(report.Monotone).To(BeFalse())
		Expect(report.Profile).To(HaveLen(4))
		Expect(report.Violations).To(HaveLen(1))
		Expect(report.Violations[0].From).To(Equal(2))
		Expect(report.Violations[0].To).To(Equal(3))
		Expect(report.Violations[0].Increase).To(BeNumerically("~", 10.0/3-0.5, 1e-12))
	})
})

var _ = Describe("Profile", func() {
	It("preserves index order across workers", func() {
		a, _ := convergence.New(0, 1, 8)
		ns := make([]int, 40)
		for i := range ns {
			ns[i] = 40 - i
		}

		var calls atomic.Int64
		seq := convergence.SequenceFunc(func(x float64, n int) float64 {
			calls.Add(1)
			return 1 / float64(n)
		})

		profile, err := a.Profile(seq, zeroLimit, ns, 4)
		Expect(err).NotTo(HaveOccurred())
		Expect(profile).To(HaveLen(40))
		for i, p := range profile {
			Expect(p.N).To(Equal(ns[i]))
			Expect(p.Distance).To(Equal(1 / float64(ns[i])))
		}
		Expect(calls.Load()).To(Equal(int64(40 * 8)))
	})

	It("rejects indices below one", func() {
		a, _ := convergence.New(0, 1, 8)
		_, err := a.Profile(inverse, zeroLimit, []int{1, 0}, 2)
		Expect(errors.Is(err, convergence.ErrInvalidArgument)).To(BeTrue())
	})

	It("returns the capability error", func() {
		a, _ := convergence.New(0, 1, 8)
		boom := errors.New("boom")
		_, err := a.Profile(inverse, limitErr{boom}, []int{1, 2, 3, 4}, 3)
		Expect(err).To(BeIdenticalTo(boom))
	})
})

var _ = Describe("MonotoneFromProfile", func() {
	It("treats a NaN after a finite distance as an increase", func() {
		report := convergence.MonotoneFromProfile([]convergence.ProfilePoint{
			{N: 1, Distance: 1},
			{N: 2, Distance: math.NaN()},
			{N: 3, Distance: math.NaN()},
		})
		Expect(report.Monotone).To(BeFalse())
		Expect(report.Violations).To(HaveLen(1))
		Expect(report.Violations[0].To).To(Equal(2))
	})

	It("accepts an empty profile", func() {
		report := convergence.MonotoneFromProfile(nil)
		Expect(report.Monotone).To(BeTrue())
	})
})
