package model

// Inputs are the user-editable parameters.
// NetworkCosts and WillingToPay are expected to be >= 0 but it is not enforced;
// WillingToPay 0 means "only charge when free or paid to charge".
type Inputs struct {
	CurrentChargePercent    float64 `json:"current_charge_percent" yaml:"current_charge_percent"`
	NetworkCostsCentsPerKWh float64 `json:"network_costs_cents_per_kwh" yaml:"network_costs_cents_per_kwh"`
	WillingToPayCentsPerKWh float64 `json:"willing_to_pay_cents_per_kwh" yaml:"willing_to_pay_cents_per_kwh"`
}

func DefaultInputs() Inputs {
	return Inputs{
		CurrentChargePercent:    20,
		NetworkCostsCentsPerKWh: 12,
		WillingToPayCentsPerKWh: 12,
	}
}

// Apply copies the inputs onto p.
func (in Inputs) Apply(p ChargingParameters) ChargingParameters {
	p.InitialChargePercent = in.CurrentChargePercent
	p.NetworkCostsCentsPerKWh = in.NetworkCostsCentsPerKWh
	p.WillingToPayCentsPerKWh = in.WillingToPayCentsPerKWh
	return p
}
