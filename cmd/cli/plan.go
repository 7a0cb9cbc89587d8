package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"ev-charge-planner/internal/analysis"
	"ev-charge-planner/internal/charging"
	"ev-charge-planner/internal/logger"
	"ev-charge-planner/internal/planner"
)

type planOptions struct {
	charge       float64
	pay          float64
	network      float64
	out          string
	scenariosOut string
	cheapest     int
}

func newPlanCmd(g *globalOptions) *cobra.Command {
	o := &planOptions{}
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Simulate the charging schedule and the threshold scenarios",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPlan(cmd, g, o)
		},
	}
	f := cmd.Flags()
	f.Float64Var(&o.charge, "charge", 0, "current state of charge in percent")
	f.Float64Var(&o.pay, "pay", 0, "willing to pay in cents/kWh, network costs included")
	f.Float64Var(&o.network, "network", 0, "network costs in cents/kWh")
	f.StringVar(&o.out, "out", "", "write the schedule CSV to this path")
	f.StringVar(&o.scenariosOut, "scenarios-out", "", "write the scenario CSV to this path")
	f.IntVar(&o.cheapest, "cheapest", 0, "also list the N cheapest upcoming hours")
	return cmd
}

func runPlan(cmd *cobra.Command, g *globalOptions, o *planOptions) error {
	cfg, err := g.loadConfig()
	if err != nil {
		return err
	}
	logger.SetLevel(cfg.Logging.Level)
	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	now, err := g.evalTime()
	if err != nil {
		return err
	}

	in := cfg.Defaults
	if cmd.Flags().Changed("charge") {
		in.CurrentChargePercent = o.charge
	}
	if cmd.Flags().Changed("pay") {
		in.WillingToPayCentsPerKWh = o.pay
	}
	if cmd.Flags().Changed("network") {
		in.NetworkCostsCentsPerKWh = o.network
	}
	params := cfg.Vehicle.ToParameters(in, now, loc)
	if err := params.Validate(); err != nil {
		return err
	}

	slots, err := g.loadSlots(cmd.Context(), cfg, now)
	if err != nil {
		return err
	}
	plan := planner.Compute(slots, params, nil)

	w := cmd.OutOrStdout()
	printSchedule(w, plan.Result.Rows)
	fmt.Fprintf(w, "\nTotal energy: %.2f kWh  Total cost: %.2f\n", plan.Result.TotalEnergyKWh, plan.Result.TotalCostCurrencyUnits())
	for _, win := range plan.Windows {
		fmt.Fprintf(w, "Charge window %s - %s: %.2f kWh at %.2f c/kWh\n",
			win.Start.In(loc).Format("Mon 15:04"), win.End.In(loc).Format("15:04"), win.EnergyKWh, win.AverageCostCents)
	}
	if o.cheapest > 0 {
		fmt.Fprintln(w, "\nCheapest upcoming hours:")
		for _, r := range analysis.CheapestHours(plan.Result.Rows, o.cheapest) {
			fmt.Fprintf(w, "  %s  %.2f c/kWh\n", r.Start.In(loc).Format("Mon 15:04"), r.CombinedCostCents)
		}
	}
	fmt.Fprintln(w)
	printScenarios(w, plan.Scenarios)

	if o.out != "" {
		if err := charging.WriteScheduleCSVFile(o.out, plan.Result.Rows); err != nil {
			return err
		}
		fmt.Fprintf(w, "\nWrote %d rows to %s\n", len(plan.Result.Rows), o.out)
	}
	if o.scenariosOut != "" {
		if err := charging.WriteScenariosCSVFile(o.scenariosOut, plan.Scenarios); err != nil {
			return err
		}
		fmt.Fprintf(w, "Wrote %d scenarios to %s\n", len(plan.Scenarios), o.scenariosOut)
	}
	return nil
}

func printSchedule(w io.Writer, rows []charging.SimulatedHour) {
	fmt.Fprintf(w, "%-6s %-10s %-10s %-8s %-10s %-8s\n", "hour", "market", "combined", "soc%", "kWh", "status")
	for _, r := range rows {
		fmt.Fprintf(w, "%-6s %-10.2f %-10.2f %-8.1f %-10.2f %-8s\n",
			r.HourLabel,
			r.MarketPriceCents,
			r.CombinedCostCents,
			r.BatteryStateOfChargePercent,
			r.ChargedEnergyKWh,
			r.Classification,
		)
	}
}

func printScenarios(w io.Writer, scenarios []charging.ScenarioRow) {
	fmt.Fprintf(w, "%-10s %-8s %-10s %-20s\n", "threshold", "soc%", "cost", "time until stop")
	for _, s := range scenarios {
		fmt.Fprintf(w, "%-10.2f %-8.1f %-10.2f %-20s\n",
			s.ThresholdPrice,
			s.FinalStateOfChargePercent,
			s.TotalCostCurrencyUnits,
			s.TimeUntilStopLabel,
		)
	}
}
