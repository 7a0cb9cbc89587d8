package handlers

import (
	"ev-charge-planner/internal/analysis"
	"ev-charge-planner/internal/api/models"
	"ev-charge-planner/internal/charging"
	"ev-charge-planner/internal/model"
	"ev-charge-planner/internal/planner"
)

func buildResponse(plan *planner.Plan, includeScenarios bool, cheapest int) models.SimulationResponse {
	res := plan.Result
	summary := models.SimulationSummary{
		TotalCostCents:         res.TotalCostCents,
		TotalCostCurrencyUnits: res.TotalCostCurrencyUnits(),
		TotalEnergyKWh:         res.TotalEnergyKWh,
		FinalStateOfCharge:     finalStateOfCharge(plan.Inputs.CurrentChargePercent, res.TotalEnergyKWh, plan.CapacityKWh),
		Hours:                  len(res.Rows),
		Prices:                 toPriceStats(plan.Stats),
	}
	if len(res.Rows) > 0 {
		summary.Window = &models.TimeWindow{Start: plan.Stats.Start, End: plan.Stats.End}
	}
	for _, w := range plan.Windows {
		summary.ChargeWindows = append(summary.ChargeWindows, models.ChargeWindow{
			TimeWindow:       models.TimeWindow{Start: w.Start, End: w.End},
			AverageCostCents: w.AverageCostCents,
			EnergyKWh:        w.EnergyKWh,
		})
	}
	if cheapest > 0 {
		summary.CheapestHours = toScheduleRows(analysis.CheapestHours(res.Rows, cheapest))
	}

	resp := models.SimulationResponse{
		Now:      plan.Now,
		Inputs:   toInputs(plan.Inputs),
		Summary:  summary,
		Schedule: toScheduleRows(res.Rows),
	}
	if includeScenarios {
		resp.Scenarios = toScenarioRows(plan.Scenarios)
	}
	return resp
}

// finalStateOfCharge is the percentage after every charging hour, capped at 100.
func finalStateOfCharge(initialPercent, chargedKWh, capacityKWh float64) float64 {
	if capacityKWh <= 0 {
		return initialPercent
	}
	soc := initialPercent + chargedKWh/capacityKWh*100
	if soc > 100 {
		return 100
	}
	return soc
}

func toInputs(in model.Inputs) models.Inputs {
	return models.Inputs{
		CurrentChargePercent:    in.CurrentChargePercent,
		NetworkCostsCentsPerKWh: in.NetworkCostsCentsPerKWh,
		WillingToPayCentsPerKWh: in.WillingToPayCentsPerKWh,
	}
}

func toScheduleRows(rows []charging.SimulatedHour) []models.ScheduleRow {
	out := make([]models.ScheduleRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, models.ScheduleRow{
			Start:              r.Start,
			End:                r.End,
			Hour:               r.HourLabel,
			MarketPriceCents:   r.MarketPriceCents,
			CombinedCostCents:  r.CombinedCostCents,
			IsCharging:         r.IsCharging,
			StateOfChargeStart: r.BatteryStateOfChargePercent,
			ChargedEnergyKWh:   r.ChargedEnergyKWh,
			Classification:     string(r.Classification),
			Color:              r.Classification.Color(),
		})
	}
	return out
}

func toScenarioRows(rows []charging.ScenarioRow) []models.ScenarioRow {
	out := make([]models.ScenarioRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, models.ScenarioRow{
			ThresholdPrice:         r.ThresholdPrice,
			FinalStateOfCharge:     r.FinalStateOfChargePercent,
			TotalCostCurrencyUnits: r.TotalCostCurrencyUnits,
			TimeUntilStop:          r.TimeUntilStopLabel,
			StopTime:               r.StopTime,
		})
	}
	return out
}

func toPriceStats(s analysis.PriceStats) models.PriceStats {
	return models.PriceStats{
		Count:     s.Count,
		MinCents:  s.MinCents,
		MaxCents:  s.MaxCents,
		MeanCents: s.MeanCents,
		P05Cents:  s.P05Cents,
		P95Cents:  s.P95Cents,
	}
}

func toPriceSlots(slots []model.PriceSlot) []models.PriceSlot {
	out := make([]models.PriceSlot, 0, len(slots))
	for _, s := range slots {
		out = append(out, models.PriceSlot{Start: s.Start, End: s.End, MarketPriceCents: s.MarketPriceCents})
	}
	return out
}

func fromPriceSlots(slots []models.PriceSlot) []model.PriceSlot {
	out := make([]model.PriceSlot, 0, len(slots))
	for _, s := range slots {
		out = append(out, model.PriceSlot{Start: s.Start, End: s.End, MarketPriceCents: s.MarketPriceCents})
	}
	return out
}

// mergeInputs overlays the fields present in req onto base.
func mergeInputs(base model.Inputs, req models.InputsRequest) model.Inputs {
	if req.CurrentChargePercent != nil {
		base.CurrentChargePercent = *req.CurrentChargePercent
	}
	if req.NetworkCostsCentsPerKWh != nil {
		base.NetworkCostsCentsPerKWh = *req.NetworkCostsCentsPerKWh
	}
	if req.WillingToPayCentsPerKWh != nil {
		base.WillingToPayCentsPerKWh = *req.WillingToPayCentsPerKWh
	}
	return base
}
