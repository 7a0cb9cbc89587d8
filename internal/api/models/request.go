package models

import "time"

// SimulateRequest represents the request body for a stateless simulation.
// When Slots is empty the prices are fetched for the default window around Now.
type SimulateRequest struct {
	Slots   []PriceSlot       `json:"slots,omitempty"`
	Vehicle VehicleConfig     `json:"vehicle,omitempty"`
	Inputs  InputsRequest     `json:"inputs"`
	Now     *time.Time        `json:"now,omitempty"` // default: server time
	Options SimulationOptions `json:"options,omitempty"`
}

// PriceSlot is one hourly market price in cents/kWh.
type PriceSlot struct {
	Start            time.Time `json:"start"`
	End              time.Time `json:"end"`
	MarketPriceCents float64   `json:"market_price_cents_per_kwh"`
}

// VehicleConfig overrides the server's vehicle; zero fields keep the configured value.
type VehicleConfig struct {
	CapacityKWh            float64 `json:"capacity_kwh,omitempty"`
	ChargingRateKWhPerHour float64 `json:"charging_rate_kw,omitempty"`
}

// InputsRequest carries the user-editable parameters. Pointers distinguish
// "not sent" from zero.
type InputsRequest struct {
	CurrentChargePercent    *float64 `json:"current_charge_percent"`
	NetworkCostsCentsPerKWh *float64 `json:"network_costs_cents_per_kwh"`
	WillingToPayCentsPerKWh *float64 `json:"willing_to_pay_cents_per_kwh"`
}

// SimulationOptions contains optional simulation parameters
type SimulationOptions struct {
	IncludeScenarios *bool `json:"include_scenarios,omitempty"` // default: true
	CheapestHours    int   `json:"cheapest_hours,omitempty"`    // 0 = none
}

// ThresholdRequest selects a scenario threshold as the new willingness to pay.
type ThresholdRequest struct {
	ThresholdPrice *float64 `json:"threshold_price" binding:"required"`
}

// ThemeRequest sets the theme mode or toggles it.
type ThemeRequest struct {
	Mode   string `json:"mode,omitempty"`
	Toggle bool   `json:"toggle,omitempty"`
}
