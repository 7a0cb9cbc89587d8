package model

import (
	"errors"
	"time"
)

// Design constants of the reference vehicle (Tesla Model Y, 11 kW AC).
const (
	DefaultCapacityKWh            = 75.0
	DefaultChargingRateKWhPerHour = 11.0
)

// ChargingParameters are constant for one simulation run.
// Units:
// - CapacityKWh: kWh
// - ChargingRateKWhPerHour: kWh per hour (kW)
// - InitialChargePercent: 0..100
// - NetworkCostsCentsPerKWh, WillingToPayCentsPerKWh: cents/kWh
type ChargingParameters struct {
	CapacityKWh             float64
	ChargingRateKWhPerHour  float64
	InitialChargePercent    float64
	NetworkCostsCentsPerKWh float64
	WillingToPayCentsPerKWh float64

	// Now is the evaluation instant.
	Now time.Time
	// Location is used for hour labels and clock times. nil means time.Local.
	Location *time.Location
}

// DefaultParameters returns the reference vehicle with the app's starting inputs.
func DefaultParameters(now time.Time) ChargingParameters {
	in := DefaultInputs()
	return in.Apply(ChargingParameters{
		CapacityKWh:            DefaultCapacityKWh,
		ChargingRateKWhPerHour: DefaultChargingRateKWhPerHour,
		Now:                    now,
	})
}

// Loc returns the configured location, falling back to time.Local.
func (p ChargingParameters) Loc() *time.Location {
	if p.Location == nil {
		return time.Local
	}
	return p.Location
}

// Validate checks the parameters at the outer surfaces (config, HTTP, CLI).
// The simulation itself never validates.
func (p ChargingParameters) Validate() error {
	if p.CapacityKWh <= 0 {
		return errors.New("capacity_kwh must be > 0")
	}
	if p.ChargingRateKWhPerHour <= 0 {
		return errors.New("charging_rate_kwh_per_hour must be > 0")
	}
	if p.InitialChargePercent < 0 || p.InitialChargePercent > 100 {
		return errors.New("initial charge must be within [0, 100]")
	}
	if p.Now.IsZero() {
		return errors.New("evaluation time is required")
	}
	return nil
}
