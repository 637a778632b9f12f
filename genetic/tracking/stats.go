package tracking

import (
	"time"

	"gonum.org/v1/gonum/stat"
)

// Stats summarises the scores of one generation
type Stats struct {
	Generation int
	Best       float64
	Worst      float64
	Mean       float64
	StdDev     float64
	// AtOptimum counts members whose score reached the evaluator's optimum
	AtOptimum int
	Elapsed   time.Duration
}

// Summarize computes Stats for scores. higherIsBetter picks which extreme is Best.
func Summarize(generation int, scores []float64, higherIsBetter bool, optimum float64) Stats {
	s := Stats{Generation: generation}
	if len(scores) == 0 {
		return s
	}

	lo, hi := scores[0], scores[0]
	for _, v := range scores {
		lo = min(lo, v)
		hi = max(hi, v)
		if (higherIsBetter && v >= optimum) || (!higherIsBetter && v <= optimum) {
			s.AtOptimum++
		}
	}

	if higherIsBetter {
		s.Best, s.Worst = hi, lo
	} else {
		s.Best, s.Worst = lo, hi
	}

	if len(scores) > 1 {
		s.Mean, s.StdDev = stat.MeanStdDev(scores, nil)
	} else {
		s.Mean = scores[0]
	}
	return s
}
