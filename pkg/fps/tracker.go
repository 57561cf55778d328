// Package fps records instantaneous frame rate samples for end of run
// reporting.
package fps

import (
	"fmt"
	"math"
)

// Tracker is an append-only record of positive fps samples.
type Tracker struct {
	samples []float64
}

func NewTracker() *Tracker {
	return &Tracker{}
}

// Add appends sample if it is a positive, finite rate and reports
// whether it was kept.
func (t *Tracker) Add(sample float64) bool {
	if !(sample > 0) || math.IsInf(sample, 0) {
		return false
	}
	t.samples = append(t.samples, sample)
	return true
}

func (t *Tracker) Len() int { return len(t.samples) }

func (t *Tracker) Samples() []float64 {
	return append([]float64(nil), t.samples...)
}

// Average is the unweighted mean of every sample, ok is false when
// nothing has been recorded.
func (t *Tracker) Average() (avg float64, ok bool) {
	if len(t.samples) == 0 {
		return 0, false
	}
	var sum float64
	for _, s := range t.samples {
		sum += s
	}
	return sum / float64(len(t.samples)), true
}

type Stats struct {
	Count          int
	Mean, Min, Max float64
}

func (s Stats) String() string {
	if s.Count == 0 {
		return "no frame rate samples recorded"
	}
	return fmt.Sprintf("%d samples, mean %.2f fps (min %.2f, max %.2f)", s.Count, s.Mean, s.Min, s.Max)
}

func (t *Tracker) Stats() Stats {
	mean, ok := t.Average()
	if !ok {
		return Stats{}
	}
	st := Stats{Count: len(t.samples), Mean: mean, Min: t.samples[0], Max: t.samples[0]}
	for _, s := range t.samples[1:] {
		st.Min = math.Min(st.Min, s)
		st.Max = math.Max(st.Max, s)
	}
	return st
}
