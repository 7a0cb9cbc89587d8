package charging

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

func WriteScheduleCSVFile(path string, rows []SimulatedHour) error {
	return writeFile(path, func(w io.Writer) error { return WriteScheduleCSV(w, rows) })
}

func WriteScenariosCSVFile(path string, scenarios []ScenarioRow) error {
	return writeFile(path, func(w io.Writer) error { return WriteScenariosCSV(w, scenarios) })
}

func WriteScheduleCSV(out io.Writer, rows []SimulatedHour) error {
	w := csv.NewWriter(out)

	header := []string{
		"index",
		"start",
		"end",
		"hour",
		"market_price_cents",
		"combined_cost_cents",
		"classification",
		"charging",
		"soc_start_percent",
		"charged_kwh",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for i, r := range rows {
		row := []string{
			strconv.Itoa(i),
			fmtTime(r.Start),
			fmtTime(r.End),
			r.HourLabel,
			fmtFloat(r.MarketPriceCents),
			fmtFloat(r.CombinedCostCents),
			string(r.Classification),
			strconv.FormatBool(r.IsCharging),
			fmtFloat(r.BatteryStateOfChargePercent),
			fmtFloat(r.ChargedEnergyKWh),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func WriteScenariosCSV(out io.Writer, scenarios []ScenarioRow) error {
	w := csv.NewWriter(out)

	header := []string{
		"threshold_cents",
		"final_soc_percent",
		"total_cost",
		"time_until_stop",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, s := range scenarios {
		row := []string{
			fmtFloat(s.ThresholdPrice),
			fmtFloat(s.FinalStateOfChargePercent),
			fmtFloat(s.TotalCostCurrencyUnits),
			s.TimeUntilStopLabel,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func writeFile(path string, write func(io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func fmtTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}

func fmtFloat(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}
