package analysis

import (
	"testing"
	"time"

	"ev-charge-planner/internal/charging"
	"ev-charge-planner/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rows(t *testing.T, prices ...float64) []charging.SimulatedHour {
	t.Helper()
	now := time.Date(2024, 1, 10, 12, 45, 0, 0, time.UTC)
	base := now.Truncate(time.Hour).Add(-time.Hour)
	slots := make([]model.PriceSlot, 0, len(prices))
	for i, p := range prices {
		start := base.Add(time.Duration(i) * time.Hour)
		slots = append(slots, model.PriceSlot{Start: start, End: start.Add(time.Hour), MarketPriceCents: p})
	}
	params := model.DefaultParameters(now)
	params.Location = time.UTC
	return charging.Simulate(slots, params).Rows
}

func TestComputePriceStats(t *testing.T) {
	// The first two hours are past at 12:45.
	r := rows(t, 1, 2, 10, 4, 30)
	s := ComputePriceStats(r)

	assert.Equal(t, 5, s.Count)
	assert.InDelta(t, 13, s.MinCents, 1e-9)
	assert.InDelta(t, 42, s.MaxCents, 1e-9)
	assert.InDelta(t, 21.4, s.MeanCents, 1e-9)
	assert.InDelta(t, 13.2, s.P05Cents, 1e-9)
	assert.Equal(t, r[0].Start, s.Start)
	assert.Equal(t, r[4].End, s.End)

	require.NotNil(t, s.Cheapest)
	assert.InDelta(t, 16, s.Cheapest.CombinedCostCents, 1e-9)
}

func TestComputePriceStatsEmpty(t *testing.T) {
	s := ComputePriceStats(nil)
	assert.Zero(t, s.Count)
	assert.Nil(t, s.Cheapest)
}

func TestCheapestHours(t *testing.T) {
	r := rows(t, 1, 2, 10, 4, 4, 30)
	got := CheapestHours(r, 2)
	require.Len(t, got, 2)
	assert.True(t, got[0].Start.Before(got[1].Start), "ties keep chronological order")
	assert.InDelta(t, 16, got[0].CombinedCostCents, 1e-9)

	assert.Len(t, CheapestHours(r, 0), 4)
}
