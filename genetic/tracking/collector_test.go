package tracking

import (
	"math"
	"testing"
)

func TestSummarize_Maximize(t *testing.T) {
	s := Summarize(3, []float64{0.25, 1.0, 0.5, 0.25}, true, 1.0)

	if s.Generation != 3 {
		t.Errorf("expected generation 3, got %d", s.Generation)
	}
	if s.Best != 1.0 || s.Worst != 0.25 {
		t.Errorf("expected best 1.0 worst 0.25, got %v %v", s.Best, s.Worst)
	}
	if s.Mean != 0.5 {
		t.Errorf("expected mean 0.5, got %v", s.Mean)
	}
	// Sample standard deviation of {0.25, 1, 0.5, 0.25}
	want := math.Sqrt((0.0625 + 0.25 + 0 + 0.0625) / 3)
	if math.Abs(s.StdDev-want) > 1e-12 {
		t.Errorf("expected stddev %v, got %v", want, s.StdDev)
	}
	if s.AtOptimum != 1 {
		t.Errorf("expected 1 at optimum, got %d", s.AtOptimum)
	}
}

func TestSummarize_Minimize(t *testing.T) {
	s := Summarize(0, []float64{4, 2, 9}, false, 2)
	if s.Best != 2 || s.Worst != 9 {
		t.Errorf("expected best 2 worst 9, got %v %v", s.Best, s.Worst)
	}
	if s.AtOptimum != 1 {
		t.Errorf("expected 1 at optimum, got %d", s.AtOptimum)
	}
}

func TestSummarize_Degenerate(t *testing.T) {
	if s := Summarize(1, nil, true, 1); s.Best != 0 || s.Mean != 0 {
		t.Errorf("expected zero stats for empty scores, got %+v", s)
	}
	s := Summarize(1, []float64{0.5}, true, 1)
	if s.Mean != 0.5 || s.StdDev != 0 {
		t.Errorf("single score: expected mean 0.5 stddev 0, got %v %v", s.Mean, s.StdDev)
	}
}

func TestCollector_Capacity(t *testing.T) {
	c := NewCollector(3, true)
	for g := 0; g < 5; g++ {
		c.Collect(Stats{Generation: g, Best: float64(g)})
	}

	h := c.History()
	if len(h) != 3 {
		t.Fatalf("expected 3 retained entries, got %d", len(h))
	}
	if h[0].Generation != 2 || h[2].Generation != 4 {
		t.Errorf("expected generations 2..4, got %d..%d", h[0].Generation, h[2].Generation)
	}

	last, ok := c.Last()
	if !ok || last.Generation != 4 {
		t.Errorf("expected last generation 4, got %+v", last)
	}
}

func TestCollector_Stagnation(t *testing.T) {
	c := NewCollector(0, true)
	c.Collect(Stats{Generation: 0, Best: 0.2})
	c.Collect(Stats{Generation: 1, Best: 0.5})
	c.Collect(Stats{Generation: 2, Best: 0.5})
	c.Collect(Stats{Generation: 3, Best: 0.4})

	if got := c.Stagnation(); got != 2 {
		t.Errorf("expected stagnation 2, got %d", got)
	}

	c.Reset()
	if _, ok := c.Last(); ok {
		t.Error("expected empty collector after reset")
	}
	if c.Stagnation() != 0 {
		t.Error("expected zero stagnation after reset")
	}
}
