package charging

import (
	"time"

	"ev-charge-planner/internal/model"
)

// SimulatedHour is one row of per-slot output.
// BatteryStateOfChargePercent is the state entering the slot, before any charge is applied.
type SimulatedHour struct {
	Start time.Time
	End   time.Time

	HourLabel string

	MarketPriceCents  float64
	CombinedCostCents float64

	IsCharging bool

	BatteryStateOfChargePercent float64
	ChargedEnergyKWh            float64

	Classification model.Classification
}

// Result is the output of one hourly simulation.
// Costs accumulate in cents; convert with TotalCostCurrencyUnits at the display boundary.
type Result struct {
	Rows           []SimulatedHour
	TotalCostCents float64
	TotalEnergyKWh float64
}

func (r *Result) TotalCostCurrencyUnits() float64 {
	return r.TotalCostCents / 100
}

// ScenarioRow is the outcome of charging whenever the combined cost is <= ThresholdPrice.
type ScenarioRow struct {
	ThresholdPrice            float64
	FinalStateOfChargePercent float64
	TotalCostCurrencyUnits    float64
	TimeUntilStopLabel        string

	// StopTime is the end of the last slot that added energy, nil if none did.
	StopTime *time.Time
}
