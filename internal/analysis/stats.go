package analysis

import (
	"math"
	"sort"
	"time"

	"ev-charge-planner/internal/charging"
	"ev-charge-planner/internal/model"
)

// PriceStats summarises the combined cost over a simulated horizon.
type PriceStats struct {
	Count int

	Start time.Time
	End   time.Time

	MinCents  float64
	MaxCents  float64
	MeanCents float64
	P05Cents  float64
	P95Cents  float64

	// Cheapest is the lowest-priced hour that is not yet past, nil if none.
	Cheapest *charging.SimulatedHour
}

func ComputePriceStats(rows []charging.SimulatedHour) PriceStats {
	s := PriceStats{}
	if len(rows) == 0 {
		return s
	}
	s.Count = len(rows)
	s.Start = rows[0].Start
	s.End = rows[len(rows)-1].End

	sum := 0.0
	minv := math.Inf(1)
	maxv := math.Inf(-1)
	vals := make([]float64, 0, len(rows))
	for _, r := range rows {
		v := r.CombinedCostCents
		vals = append(vals, v)
		sum += v
		if v < minv {
			minv = v
		}
		if v > maxv {
			maxv = v
		}
	}
	sort.Float64s(vals)
	s.MinCents = minv
	s.MaxCents = maxv
	s.MeanCents = sum / float64(len(vals))
	s.P05Cents = percentileSorted(vals, 0.05)
	s.P95Cents = percentileSorted(vals, 0.95)

	if upcoming := CheapestHours(rows, 1); len(upcoming) == 1 {
		s.Cheapest = &upcoming[0]
	}
	return s
}

// CheapestHours returns up to n hours that are not past, cheapest first.
// Ties keep chronological order. n <= 0 returns all of them.
func CheapestHours(rows []charging.SimulatedHour, n int) []charging.SimulatedHour {
	out := make([]charging.SimulatedHour, 0, len(rows))
	for _, r := range rows {
		if r.Classification != model.ClassificationPast {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CombinedCostCents < out[j].CombinedCostCents
	})
	if n > 0 && n < len(out) {
		out = out[:n]
	}
	return out
}

func percentileSorted(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	// Linear interpolation between order stats.
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}
