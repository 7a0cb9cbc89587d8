package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newPricesCmd(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "prices",
		Short: "Print the hourly market prices in cents/kWh",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := g.loadConfig()
			if err != nil {
				return err
			}
			loc, err := cfg.Location()
			if err != nil {
				return err
			}
			now, err := g.evalTime()
			if err != nil {
				return err
			}
			slots, err := g.loadSlots(cmd.Context(), cfg, now)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%-17s %-6s %-8s\n", "start", "end", "cents")
			for _, s := range slots {
				fmt.Fprintf(w, "%-17s %-6s %-8.2f\n",
					s.Start.In(loc).Format("2006-01-02 15:04"),
					s.End.In(loc).Format("15:04"),
					s.MarketPriceCents,
				)
			}
			return nil
		},
	}
}
