package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"ev-charge-planner/internal/config"
	"ev-charge-planner/internal/data"
	"ev-charge-planner/internal/logger"
	"ev-charge-planner/internal/model"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// globalOptions are the flags shared by every subcommand.
type globalOptions struct {
	cfgPath  string
	dataPath string
	now      string
}

func newRootCmd() *cobra.Command {
	g := &globalOptions{}
	root := &cobra.Command{
		Use:          "charge-planner",
		Short:        "Plan EV charging against hourly day-ahead prices",
		SilenceUsage: true,
	}
	pf := root.PersistentFlags()
	pf.StringVarP(&g.cfgPath, "config", "c", "", "configuration file (built-in defaults when empty)")
	pf.StringVar(&g.dataPath, "data", "", "saved awattar JSON response; prices are fetched live when empty")
	pf.StringVar(&g.now, "now", "", "evaluation time in RFC3339 (default: current time)")

	root.AddCommand(newPlanCmd(g), newPricesCmd(g))
	return root
}

func (g *globalOptions) loadConfig() (*config.Config, error) {
	if g.cfgPath == "" {
		cfg := config.Default()
		cfg.ApplyEnv()
		return cfg, cfg.Validate()
	}
	cfg, err := config.Load(g.cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func (g *globalOptions) evalTime() (time.Time, error) {
	if g.now == "" {
		return time.Now(), nil
	}
	t, err := time.Parse(time.RFC3339, g.now)
	if err != nil {
		return time.Time{}, fmt.Errorf("--now: %w", err)
	}
	return t, nil
}

func (g *globalOptions) loadSlots(ctx context.Context, cfg *config.Config, now time.Time) ([]model.PriceSlot, error) {
	if g.dataPath != "" {
		slots, err := data.LoadAwattarJSON(g.dataPath)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", g.dataPath, err)
		}
		return slots, nil
	}
	client := data.NewAwattarClient(cfg.Market.BaseURL, cfg.Market.Timeout, logger.New("awattar"))
	start, end := cfg.Window(now)
	return client.Fetch(ctx, start, end)
}
