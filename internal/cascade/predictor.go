// Package cascade owns the history-based breakthrough predictor: a bounded
// rolling buffer of evaluated cascade attempts and a regression-free
// heuristic over it. The buffer is the only mutable shared structure in the
// core; every prediction runs against a snapshot copy so exports can iterate
// concurrently with a tick.
package cascade

import (
	"math"
	"sync"
	"time"

	"github.com/htafolla/chrono-warp-drive-sub000/internal/metrics"
)

// Capacity bounds the rolling history; the oldest record is evicted first.
const Capacity = 100

// minRecords gates the heuristic; below it the tuned default applies.
const minRecords = 5

// Documented sweet-spot defaults returned before enough history exists.
const (
	DefaultN          = 29
	DefaultDeltaPhase = 0.27
)

// Similarity window for matching historical attempts.
const (
	similarN          = 2
	similarDeltaPhase = 0.05
)

// Record is one evaluated cascade attempt.
type Record struct {
	N          int       `json:"n"`
	DeltaPhase float64   `json:"delta_phase"`
	Efficiency float64   `json:"efficiency"` // [0, 100]
	QEnt       float64   `json:"q_ent"`
	Timestamp  time.Time `json:"timestamp"`
}

// Evaluate builds a record from the current cascade metrics.
func Evaluate(n int, deltaPhase, qEnt, cti float64, ts time.Time) Record {
	return Record{
		N:          n,
		DeltaPhase: deltaPhase,
		Efficiency: metrics.Efficiency(qEnt, cti),
		QEnt:       qEnt,
		Timestamp:  ts,
	}
}

// Prediction is the optimizer's suggestion for the next attempt.
type Prediction struct {
	OptimalN                int     `json:"optimal_n"`
	OptimalDeltaPhase       float64 `json:"optimal_delta_phase"`
	BreakthroughProbability float64 `json:"breakthrough_probability"`
	PredictedEfficiency     float64 `json:"predicted_efficiency"`
	Confidence              float64 `json:"confidence"`
	Recommendation          string  `json:"recommendation"`
}

// Predictor holds the bounded attempt history. Append-only with FIFO
// eviction; reads operate on copies.
type Predictor struct {
	mu      sync.Mutex
	records []Record
}

// NewPredictor returns an empty predictor.
func NewPredictor() *Predictor {
	return &Predictor{records: make([]Record, 0, Capacity)}
}

// Record appends an attempt, evicting the oldest when the buffer is full.
func (p *Predictor) Record(r Record) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.records) >= Capacity {
		p.records = p.records[1:]
	}
	p.records = append(p.records, r)
}

// Len reports the number of buffered records.
func (p *Predictor) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.records)
}

// History returns a snapshot copy of the buffer, oldest first.
func (p *Predictor) History() []Record {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Record, len(p.records))
	copy(out, p.records)
	return out
}

// Predict suggests parameters for an attempt at (n, deltaPhase).
//
// With fewer than 5 records the tuned default applies. Otherwise similar
// attempts (|Δn| ≤ 2, |Δδφ| ≤ 0.05) drive the estimate; with none, a
// linear-trend extrapolation over the 10 most recent records takes over.
// The optimal parameters always come from the single record maximizing
// efficiency · q_ent, independent of the similarity filter.
func (p *Predictor) Predict(n int, deltaPhase float64) Prediction {
	history := p.History()

	if len(history) < minRecords {
		return Prediction{
			OptimalN:                DefaultN,
			OptimalDeltaPhase:       DefaultDeltaPhase,
			BreakthroughProbability: 0.5,
			PredictedEfficiency:     85,
			Confidence:              0.3,
			Recommendation:          "insufficient history — using documented sweet-spot defaults",
		}
	}

	pred := Prediction{}
	pred.OptimalN, pred.OptimalDeltaPhase = bestParams(history)

	similar := filterSimilar(history, n, deltaPhase)
	if len(similar) > 0 {
		var effSum float64
		breakthroughs := 0
		for _, r := range similar {
			effSum += r.Efficiency
			if r.Efficiency >= 95 && r.QEnt > 0.8 {
				breakthroughs++
			}
		}
		pred.PredictedEfficiency = effSum / float64(len(similar))
		pred.BreakthroughProbability = float64(breakthroughs) / float64(len(similar))
		pred.Confidence = math.Min(1, float64(len(similar))/10)
		pred.Recommendation = recommend(pred.BreakthroughProbability)
		return pred
	}

	// No similar attempts: extrapolate the recent trend.
	recent := history
	if len(recent) > 10 {
		recent = recent[len(recent)-10:]
	}
	projEff := extrapolate(recent, func(r Record) float64 { return r.Efficiency })
	projQ := extrapolate(recent, func(r Record) float64 { return r.QEnt })

	var base float64
	switch {
	case projEff >= 95:
		base = 0.7
	case projEff >= 90:
		base = 0.5
	case projEff >= 80:
		base = 0.3
	default:
		base = 0.1
	}
	// The entanglement bonus applies only above the lowest band; a trend
	// projecting under 80 efficiency stays at the flat floor.
	prob := base
	if projEff >= 80 {
		prob += 0.2 * math.Max(0, math.Min(1, projQ))
	}
	pred.BreakthroughProbability = math.Min(0.95, prob)
	pred.PredictedEfficiency = math.Max(0, math.Min(100, projEff))
	pred.Confidence = 0.4
	pred.Recommendation = recommend(pred.BreakthroughProbability)
	return pred
}

// filterSimilar keeps records within the similarity window of (n, deltaPhase).
func filterSimilar(history []Record, n int, deltaPhase float64) []Record {
	var out []Record
	for _, r := range history {
		dn := r.N - n
		if dn < 0 {
			dn = -dn
		}
		if dn <= similarN && math.Abs(r.DeltaPhase-deltaPhase) <= similarDeltaPhase {
			out = append(out, r)
		}
	}
	return out
}

// bestParams finds the global best-so-far attempt by efficiency · q_ent.
func bestParams(history []Record) (int, float64) {
	bestN, bestPhase := DefaultN, float64(DefaultDeltaPhase)
	bestScore := math.Inf(-1)
	for _, r := range history {
		if s := r.Efficiency * r.QEnt; s > bestScore {
			bestScore = s
			bestN, bestPhase = r.N, r.DeltaPhase
		}
	}
	return bestN, bestPhase
}

// extrapolate fits a least-squares line over the records (in order) and
// projects one step past the end.
func extrapolate(records []Record, value func(Record) float64) float64 {
	n := len(records)
	if n == 0 {
		return 0
	}
	if n == 1 {
		return value(records[0])
	}

	var sumX, sumY, sumXY, sumXX float64
	for i, r := range records {
		x, y := float64(i), value(r)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}
	fn := float64(n)
	denom := fn*sumXX - sumX*sumX
	if denom == 0 {
		return sumY / fn
	}
	slope := (fn*sumXY - sumX*sumY) / denom
	intercept := (sumY - slope*sumX) / fn
	return intercept + slope*fn
}

func recommend(probability float64) string {
	switch {
	case probability >= 0.7:
		return "parameters primed — hold and attempt cascade"
	case probability >= 0.4:
		return "approaching breakthrough window — tune delta phase toward optimum"
	default:
		return "low breakthrough odds — shift n toward the historical optimum"
	}
}
