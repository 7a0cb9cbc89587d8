package charging

import "time"

// ChargeWindow is a run of consecutive charging hours.
type ChargeWindow struct {
	Start time.Time
	End   time.Time

	EnergyKWh float64
	// AverageCostCents is the energy-weighted combined cost over the window.
	AverageCostCents float64
}

// ChargeWindows groups consecutive charging rows. A gap between slots or an
// idle hour closes the current window.
func ChargeWindows(rows []SimulatedHour) []ChargeWindow {
	var out []ChargeWindow
	var cur *ChargeWindow
	costCents := 0.0

	closeWindow := func() {
		if cur == nil {
			return
		}
		if cur.EnergyKWh > 0 {
			cur.AverageCostCents = costCents / cur.EnergyKWh
		}
		out = append(out, *cur)
		cur = nil
		costCents = 0
	}

	for _, r := range rows {
		if !r.IsCharging {
			closeWindow()
			continue
		}
		if cur != nil && !cur.End.Equal(r.Start) {
			closeWindow()
		}
		if cur == nil {
			cur = &ChargeWindow{Start: r.Start}
		}
		cur.End = r.End
		cur.EnergyKWh += r.ChargedEnergyKWh
		costCents += r.ChargedEnergyKWh * r.CombinedCostCents
	}
	closeWindow()
	return out
}
