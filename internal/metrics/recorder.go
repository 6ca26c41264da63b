package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/san-kum/uniconv/internal/convergence"
)

const namespace = "uniconv"

// Recorder exports analyzer activity as Prometheus metrics.
type Recorder struct {
	checks      *prometheus.CounterVec
	probes      prometheus.Counter
	evaluations prometheus.Counter
	duration    prometheus.Histogram
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) (*Recorder, error) {
	r := &Recorder{
		checks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "checks_total",
			Help:      "Uniform convergence checks by strategy and outcome.",
		}, []string{"strategy", "converged"}),
		probes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "probes_total",
			Help:      "Sup-norm evaluations made by convergence searches.",
		}),
		evaluations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "evaluations_total",
			Help:      "Calls into instrumented sequences and limits.",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "check_duration_seconds",
			Help:      "Wall-clock time of convergence checks.",
			Buckets:   prometheus.ExponentialBuckets(1e-5, 4, 10),
		}),
	}

	for _, c := range []prometheus.Collector{r.checks, r.probes, r.evaluations, r.duration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Observe records one finished check.
func (r *Recorder) Observe(res convergence.Result, elapsed time.Duration) {
	r.checks.WithLabelValues(string(res.Strategy), strconv.FormatBool(res.Converged)).Inc()
	r.probes.Add(float64(res.Probes))
	r.duration.Observe(elapsed.Seconds())
}

// Sequence wraps seq so every call is counted.
func (r *Recorder) Sequence(seq convergence.Sequence) convergence.Sequence {
	return countedSequence{seq: seq, c: r.evaluations}
}

// Limit wraps lim so every call is counted.
func (r *Recorder) Limit(lim convergence.Limit) convergence.Limit {
	return countedLimit{lim: lim, c: r.evaluations}
}

type countedSequence struct {
	seq convergence.Sequence
	c   prometheus.Counter
}

func (s countedSequence) At(x float64, n int) (float64, error) {
	s.c.Inc()
	return s.seq.At(x, n)
}

type countedLimit struct {
	lim convergence.Limit
	c   prometheus.Counter
}

func (l countedLimit) At(x float64) (float64, error) {
	l.c.Inc()
	return l.lim.At(x)
}
