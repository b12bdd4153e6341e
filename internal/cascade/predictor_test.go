package cascade

import (
	"fmt"
	"math"
	"sync"
	"testing"
	"time"
)

func record(n int, phase, eff, q float64) Record {
	return Record{N: n, DeltaPhase: phase, Efficiency: eff, QEnt: q, Timestamp: time.Unix(0, 0)}
}

func TestPredict_DefaultBelowFiveRecords(t *testing.T) {
	p := NewPredictor()
	for i := 0; i < 4; i++ {
		p.Record(record(30, 0.28, 90, 0.7))
	}

	got := p.Predict(30, 0.28)
	if got.OptimalN != DefaultN || got.OptimalDeltaPhase != DefaultDeltaPhase {
		t.Errorf("default optimum = (%d, %v), want (%d, %v)",
			got.OptimalN, got.OptimalDeltaPhase, DefaultN, DefaultDeltaPhase)
	}
	if got.Confidence != 0.3 {
		t.Errorf("default confidence = %v, want 0.3", got.Confidence)
	}
}

func TestPredict_SimilarRecords(t *testing.T) {
	// Six near-identical high-efficiency attempts: probability must be 1.0.
	p := NewPredictor()
	for i := 0; i < 6; i++ {
		p.Record(record(30, 0.28, 97, 0.85))
	}

	got := p.Predict(30, 0.28)
	if got.BreakthroughProbability != 1.0 {
		t.Errorf("breakthrough probability = %v, want 1.0", got.BreakthroughProbability)
	}
	if got.Confidence < 0.5 {
		t.Errorf("confidence = %v, want >= 0.5", got.Confidence)
	}
	if math.Abs(got.PredictedEfficiency-97) > 1e-12 {
		t.Errorf("predicted efficiency = %v, want 97", got.PredictedEfficiency)
	}
	if got.OptimalN != 30 || got.OptimalDeltaPhase != 0.28 {
		t.Errorf("optimum = (%d, %v), want (30, 0.28)", got.OptimalN, got.OptimalDeltaPhase)
	}
}

func TestPredict_SimilarityWindow(t *testing.T) {
	p := NewPredictor()
	// Five records just inside and outside the window around (30, 0.25).
	p.Record(record(32, 0.25, 90, 0.5))     // |Δn|=2, in
	p.Record(record(33, 0.25, 10, 0.1))     // |Δn|=3, out
	p.Record(record(30, 0.296875, 90, 0.5)) // |Δδφ|≈0.047, in
	p.Record(record(30, 0.3125, 10, 0.1))   // |Δδφ|=0.0625, out
	p.Record(record(30, 0.25, 90, 0.5))     // exact, in

	got := p.Predict(30, 0.25)
	if math.Abs(got.PredictedEfficiency-90) > 1e-12 {
		t.Errorf("predicted efficiency = %v, want 90 (outside-window records leaked in)",
			got.PredictedEfficiency)
	}
	if math.Abs(got.Confidence-0.3) > 1e-12 {
		t.Errorf("confidence = %v, want 3/10", got.Confidence)
	}
}

func TestPredict_TrendFallback(t *testing.T) {
	// No records near the queried parameters: trend over the recent history
	// decides. Efficiency climbs toward 95+, so the banded probability is
	// at least 0.7, capped at 0.95.
	p := NewPredictor()
	for i := 0; i < 10; i++ {
		p.Record(record(60+i, 0.9, 80+float64(i)*2, 0.9))
	}

	got := p.Predict(10, 0.1)
	if got.BreakthroughProbability < 0.7 || got.BreakthroughProbability > 0.95 {
		t.Errorf("trend probability = %v, want [0.7, 0.95]", got.BreakthroughProbability)
	}
	if got.PredictedEfficiency > 100 {
		t.Errorf("predicted efficiency = %v, want clamped to 100", got.PredictedEfficiency)
	}
	t.Logf("trend: eff=%.1f prob=%.2f", got.PredictedEfficiency, got.BreakthroughProbability)
}

func TestPredict_TrendLowBand(t *testing.T) {
	// A trend projecting under 80 efficiency gets the flat floor; the
	// entanglement bonus never lifts the lowest band.
	p := NewPredictor()
	for i := 0; i < 8; i++ {
		p.Record(record(60+i, 0.9, 40, 0.9))
	}
	got := p.Predict(10, 0.1)
	if math.Abs(got.BreakthroughProbability-0.1) > 1e-9 {
		t.Errorf("flat low trend probability = %v, want 0.1", got.BreakthroughProbability)
	}
}

func TestPredict_GlobalBestIndependentOfFilter(t *testing.T) {
	p := NewPredictor()
	for i := 0; i < 5; i++ {
		p.Record(record(30, 0.28, 70, 0.4))
	}
	// The best-ever attempt is far from the query window.
	p.Record(record(55, 0.61, 99, 0.95))

	got := p.Predict(30, 0.28)
	if got.OptimalN != 55 || got.OptimalDeltaPhase != 0.61 {
		t.Errorf("optimum = (%d, %v), want global best (55, 0.61)",
			got.OptimalN, got.OptimalDeltaPhase)
	}
}

func TestRecord_FIFOEviction(t *testing.T) {
	p := NewPredictor()
	for i := 0; i < Capacity+25; i++ {
		p.Record(record(i, 0.1, 50, 0.5))
	}
	if p.Len() != Capacity {
		t.Fatalf("buffer length = %d, want %d", p.Len(), Capacity)
	}
	h := p.History()
	if h[0].N != 25 {
		t.Errorf("oldest record n = %d, want 25 (FIFO eviction)", h[0].N)
	}
	if h[len(h)-1].N != Capacity+24 {
		t.Errorf("newest record n = %d, want %d", h[len(h)-1].N, Capacity+24)
	}
}

func TestHistory_SnapshotIsCopy(t *testing.T) {
	p := NewPredictor()
	p.Record(record(1, 0.1, 50, 0.5))
	h := p.History()
	h[0].N = 999
	if p.History()[0].N != 1 {
		t.Errorf("History exposed internal storage")
	}
}

func TestPredictor_ConcurrentReads(t *testing.T) {
	p := NewPredictor()
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 500; i++ {
			p.Record(record(i%40, 0.2, float64(i%100), 0.6))
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 500; i++ {
			_ = p.Predict(30, 0.2)
			_ = p.History()
		}
	}()
	wg.Wait()
}

func TestEvaluate_BuildsRecord(t *testing.T) {
	ts := time.Unix(1000, 0)
	r := Evaluate(34, 0.3, 0.05, 2e5, ts)
	if r.N != 34 || r.DeltaPhase != 0.3 || !r.Timestamp.Equal(ts) {
		t.Errorf("record fields not carried: %+v", r)
	}
	if math.Abs(r.Efficiency-56) > 1e-9 {
		t.Errorf("efficiency = %v, want 56", r.Efficiency)
	}
}

func ExamplePredictor_Predict() {
	p := NewPredictor()
	for i := 0; i < 6; i++ {
		p.Record(Record{N: 30, DeltaPhase: 0.28, Efficiency: 97, QEnt: 0.85})
	}
	pred := p.Predict(30, 0.28)
	fmt.Printf("probability=%.1f confidence=%.1f\n", pred.BreakthroughProbability, pred.Confidence)
	// Output: probability=1.0 confidence=0.6
}
