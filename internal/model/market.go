package model

import (
	"math"
	"time"
)

// PriceSlot is one hour of day-ahead market data.
// MarketPriceCents is the energy-only price in currency cents per kWh and may be negative.
type PriceSlot struct {
	Start            time.Time `json:"start"`
	End              time.Time `json:"end"`
	MarketPriceCents float64   `json:"market_price_cents"`
}

func (s PriceSlot) Duration() time.Duration {
	return s.End.Sub(s.Start)
}

// AwattarResponse matches the JSON shape of the awattar /v1/marketdata endpoint.
//
// Example:
// {
//   "object": "list",
//   "data": [ { "start_timestamp": 1700000000000, "end_timestamp": ..., "marketprice": 98.5, "unit": "Eur/MWh" } ]
// }
type AwattarResponse struct {
	Object string        `json:"object"`
	Data   []AwattarItem `json:"data"`
}

// AwattarItem is one hourly row. Timestamps are millisecond epochs, the price is per MWh.
type AwattarItem struct {
	StartTimestamp int64   `json:"start_timestamp"`
	EndTimestamp   int64   `json:"end_timestamp"`
	MarketPrice    float64 `json:"marketprice"`
	Unit           string  `json:"unit"`
}

// Slot converts the wire row into a PriceSlot in cents/kWh.
func (i AwattarItem) Slot() PriceSlot {
	return PriceSlot{
		Start:            time.UnixMilli(i.StartTimestamp),
		End:              time.UnixMilli(i.EndTimestamp),
		MarketPriceCents: CentsPerKWh(i.MarketPrice),
	}
}

// Slots converts every row of the response.
func (r AwattarResponse) Slots() []PriceSlot {
	out := make([]PriceSlot, 0, len(r.Data))
	for _, it := range r.Data {
		out = append(out, it.Slot())
	}
	return out
}

// CentsPerKWh converts a major-currency-per-MWh price to cents per kWh,
// rounded to 2 decimal places (1 MWh = 1000 kWh, 1 unit = 100 cents).
func CentsPerKWh(pricePerMWh float64) float64 {
	return math.Round(pricePerMWh*0.1*100) / 100
}
