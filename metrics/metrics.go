// Package metrics exports run progress as Prometheus metrics.
//
// Metrics is an engine observer. Gauges follow the newest delivered progress, so
// a slow scrape never affects the run; counters only move on delivered progress.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/lixenwraith/mazega/genetic"
)

const (
	namespace = "mazega"
	subsystem = "engine"
)

// Metrics holds the run collectors. Labels: run_id on gauges, state on RunsTotal.
type Metrics struct {
	BestScore         *prometheus.GaugeVec
	BestSoFarScore    *prometheus.GaugeVec
	MeanScore         *prometheus.GaugeVec
	Generation        *prometheus.GaugeVec
	Solved            *prometheus.GaugeVec
	GenerationSeconds prometheus.Histogram
	ProgressTotal     prometheus.Counter
	RunsTotal         *prometheus.CounterVec
}

// New creates the collectors and registers them with reg
func New(reg prometheus.Registerer) (*Metrics, error) {
	gauge := func(name, help string) *prometheus.GaugeVec {
		return prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      name,
			Help:      help,
		}, []string{"run_id"})
	}

	m := &Metrics{
		BestScore:      gauge("best_score", "Best score of the latest observed generation"),
		BestSoFarScore: gauge("best_so_far_score", "Best score seen in the run"),
		MeanScore:      gauge("mean_score", "Mean score of the latest observed generation"),
		Generation:     gauge("generation", "Index of the latest observed generation"),
		Solved:         gauge("solved", "1 when the best path reaches the end cell"),
		GenerationSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "generation_seconds",
			Help:      "Time to evaluate and summarise one generation",
			Buckets:   prometheus.ExponentialBuckets(0.00005, 4, 10),
		}),
		ProgressTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "progress_total",
			Help:      "Progress notifications delivered to the metrics observer",
		}),
		RunsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "runs_total",
			Help:      "Finished runs by terminal state",
		}, []string{"state"}),
	}

	for _, c := range []prometheus.Collector{
		m.BestScore, m.BestSoFarScore, m.MeanScore, m.Generation, m.Solved,
		m.GenerationSeconds, m.ProgressTotal, m.RunsTotal,
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) Observe(p genetic.Progress) {
	id := p.RunID.String()

	m.BestScore.WithLabelValues(id).Set(p.Best.Score)
	m.BestSoFarScore.WithLabelValues(id).Set(p.BestSoFar.Score)
	m.MeanScore.WithLabelValues(id).Set(p.Stats.Mean)
	m.Generation.WithLabelValues(id).Set(float64(p.Generation))
	m.GenerationSeconds.Observe(p.Stats.Elapsed.Seconds())
	m.ProgressTotal.Inc()

	solved := 0.0
	if p.Route.Reached {
		solved = 1
	}
	m.Solved.WithLabelValues(id).Set(solved)

	if p.State.Terminal() {
		m.RunsTotal.WithLabelValues(p.State.String()).Inc()
	}
}
