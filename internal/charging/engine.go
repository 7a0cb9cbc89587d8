package charging

import (
	"sort"

	"ev-charge-planner/internal/model"
)

// Simulate walks the price series once in start order and decides, hour by hour,
// whether to charge at p.WillingToPayCentsPerKWh. It never mutates slots and has
// no error states: an empty series yields an empty result.
func Simulate(slots []model.PriceSlot, p model.ChargingParameters) *Result {
	sorted := sortedSlots(slots)
	loc := p.Loc()

	res := &Result{Rows: make([]SimulatedHour, 0, len(sorted))}
	level := p.CapacityKWh * p.InitialChargePercent / 100

	for _, s := range sorted {
		combined := s.MarketPriceCents + p.NetworkCostsCentsPerKWh
		minutes := eligibleMinutes(s.Start, s.End, p.Now)
		past := isPast(s.Start, p.Now)

		row := SimulatedHour{
			Start:             s.Start,
			End:               s.End,
			HourLabel:         hourLabel(s.Start, loc),
			MarketPriceCents:  s.MarketPriceCents,
			CombinedCostCents: combined,

			BatteryStateOfChargePercent: level / p.CapacityKWh * 100,
		}

		if !past && level < p.CapacityKWh && combined <= p.WillingToPayCentsPerKWh {
			var charged float64
			level, charged = charge(level, p.CapacityKWh, possibleKWh(p.ChargingRateKWhPerHour, minutes))
			if charged > 0 {
				row.IsCharging = true
				row.ChargedEnergyKWh = charged
				res.TotalCostCents += charged * combined
				res.TotalEnergyKWh += charged
			}
		}

		row.Classification = model.Classify(past, row.IsCharging)
		res.Rows = append(res.Rows, row)
	}

	return res
}

// charge adds up to possible kWh without exceeding capacity. Taking all the
// remaining space pins the level to capacity so no float residue is left over.
func charge(level, capacity, possible float64) (newLevel, charged float64) {
	space := capacity - level
	if space <= possible {
		return capacity, space
	}
	return level + possible, possible
}

func sortedSlots(slots []model.PriceSlot) []model.PriceSlot {
	out := make([]model.PriceSlot, len(slots))
	copy(out, slots)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Start.Before(out[j].Start)
	})
	return out
}
