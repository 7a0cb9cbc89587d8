package models

import "time"

// SimulationResponse represents the result of one simulation run
type SimulationResponse struct {
	Now       time.Time         `json:"now"`
	Inputs    Inputs            `json:"inputs"`
	Summary   SimulationSummary `json:"summary"`
	Schedule  []ScheduleRow     `json:"schedule"`
	Scenarios []ScenarioRow     `json:"scenarios,omitempty"`
}

// Inputs echoes the committed or requested inputs.
type Inputs struct {
	CurrentChargePercent    float64 `json:"current_charge_percent"`
	NetworkCostsCentsPerKWh float64 `json:"network_costs_cents_per_kwh"`
	WillingToPayCentsPerKWh float64 `json:"willing_to_pay_cents_per_kwh"`
}

// SimulationSummary contains aggregated simulation results
type SimulationSummary struct {
	TotalCostCents         float64        `json:"total_cost_cents"`
	TotalCostCurrencyUnits float64        `json:"total_cost_currency_units"`
	TotalEnergyKWh         float64        `json:"total_energy_kwh"`
	FinalStateOfCharge     float64        `json:"final_state_of_charge_percent"`
	Hours                  int            `json:"hours"`
	Window                 *TimeWindow    `json:"window,omitempty"`
	ChargeWindows          []ChargeWindow `json:"charge_windows,omitempty"`
	Prices                 PriceStats     `json:"prices"`
	CheapestHours          []ScheduleRow  `json:"cheapest_hours,omitempty"`
}

// TimeWindow represents a time range
type TimeWindow struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// ChargeWindow represents a run of contiguous charging hours
type ChargeWindow struct {
	TimeWindow
	AverageCostCents float64 `json:"average_cost_cents_per_kwh"` // energy-weighted
	EnergyKWh        float64 `json:"energy_kwh"`
}

// PriceStats describes the combined-cost distribution of the visible hours.
type PriceStats struct {
	Count     int     `json:"count"`
	MinCents  float64 `json:"min_cents_per_kwh"`
	MaxCents  float64 `json:"max_cents_per_kwh"`
	MeanCents float64 `json:"mean_cents_per_kwh"`
	P05Cents  float64 `json:"p05_cents_per_kwh"`
	P95Cents  float64 `json:"p95_cents_per_kwh"`
}

// ScheduleRow represents one hour of the simulated schedule
type ScheduleRow struct {
	Start              time.Time `json:"start"`
	End                time.Time `json:"end"`
	Hour               string    `json:"hour"`
	MarketPriceCents   float64   `json:"market_price_cents_per_kwh"`
	CombinedCostCents  float64   `json:"combined_cost_cents_per_kwh"`
	IsCharging         bool      `json:"is_charging"`
	StateOfChargeStart float64   `json:"state_of_charge_percent"`
	ChargedEnergyKWh   float64   `json:"charged_energy_kwh"`
	Classification     string    `json:"classification"` // "PAST", "CHARGING", "IDLE"
	Color              string    `json:"color"`
}

// ScenarioRow represents one threshold of the scenario sweep
type ScenarioRow struct {
	ThresholdPrice         float64    `json:"threshold_price"`
	FinalStateOfCharge     float64    `json:"final_state_of_charge_percent"`
	TotalCostCurrencyUnits float64    `json:"total_cost_currency_units"`
	TimeUntilStop          string     `json:"time_until_stop"`
	StopTime               *time.Time `json:"stop_time,omitempty"`
}

// PricesResponse lists the current market slots
type PricesResponse struct {
	FetchedAt time.Time   `json:"fetched_at"`
	Slots     []PriceSlot `json:"slots"`
}

// SessionResponse is the planner plan plus session bookkeeping.
type SessionResponse struct {
	SimulationResponse
	FetchedAt     time.Time `json:"fetched_at"`
	PendingInputs *Inputs   `json:"pending_inputs,omitempty"`
}

// ThemeResponse reports the current theme.
type ThemeResponse struct {
	Mode   string `json:"mode"`
	IsDark bool   `json:"is_dark"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// InputsResponse reports inputs after an update.
type InputsResponse struct {
	Status string `json:"status"` // "pending" or "committed"
	Inputs Inputs `json:"inputs"`
}
