package charging

import (
	"fmt"
	"sort"
	"time"

	"ev-charge-planner/internal/model"
)

// noStopLabel is reported when a threshold never leads to any charging.
// It is indistinguishable from a stop exactly at now; kept as-is for compatibility.
const noStopLabel = "0.00"

// Sweep evaluates "charge whenever the combined cost <= X" for every distinct
// combined cost in rows and returns one scenario per price, ascending.
//
// Only the battery, initial charge, Now and Location fields of p are used;
// WillingToPay is ignored because each row supplies its own threshold.
func Sweep(rows []SimulatedHour, p model.ChargingParameters) []ScenarioRow {
	if len(rows) == 0 {
		return []ScenarioRow{}
	}
	ordered := make([]SimulatedHour, len(rows))
	copy(ordered, rows)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Start.Before(ordered[j].Start)
	})

	thresholds := distinctCosts(ordered)
	out := make([]ScenarioRow, 0, len(thresholds))
	for _, th := range thresholds {
		out = append(out, scenario(th, ordered, p))
	}
	return out
}

func distinctCosts(rows []SimulatedHour) []float64 {
	seen := make(map[float64]struct{}, len(rows))
	out := make([]float64, 0, len(rows))
	for _, r := range rows {
		if _, ok := seen[r.CombinedCostCents]; ok {
			continue
		}
		seen[r.CombinedCostCents] = struct{}{}
		out = append(out, r.CombinedCostCents)
	}
	sort.Float64s(out)
	return out
}

func scenario(threshold float64, rows []SimulatedHour, p model.ChargingParameters) ScenarioRow {
	level := p.CapacityKWh * p.InitialChargePercent / 100
	costCents := 0.0
	var stop *time.Time

	for _, r := range rows {
		if level >= p.CapacityKWh {
			break
		}
		if isPast(r.Start, p.Now) || r.CombinedCostCents > threshold {
			continue
		}
		minutes := eligibleMinutes(r.Start, r.End, p.Now)
		var charged float64
		level, charged = charge(level, p.CapacityKWh, possibleKWh(p.ChargingRateKWhPerHour, minutes))
		if charged > 0 {
			costCents += charged * r.CombinedCostCents
			end := r.End
			stop = &end
		}
	}

	return ScenarioRow{
		ThresholdPrice:            threshold,
		FinalStateOfChargePercent: level / p.CapacityKWh * 100,
		TotalCostCurrencyUnits:    costCents / 100,
		TimeUntilStopLabel:        stopLabel(stop, p.Now, p.Loc()),
		StopTime:                  stop,
	}
}

func stopLabel(stop *time.Time, now time.Time, loc *time.Location) string {
	if stop == nil {
		return noStopLabel
	}
	hours := "0.00"
	if d := stop.Sub(now).Hours(); d > 0 {
		hours = fmt.Sprintf("%.2f", d)
	}
	return hours + " (" + clockLabel(*stop, loc) + ")"
}
