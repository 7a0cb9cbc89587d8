package charging

import (
	"testing"

	"ev-charge-planner/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChargeWindows(t *testing.T) {
	p := testParams()
	p.WillingToPayCentsPerKWh = 20
	res := Simulate([]model.PriceSlot{
		hourSlot(1, 10), hourSlot(2, 20), hourSlot(3, 50), hourSlot(4, 5), hourSlot(6, 5),
	}, p)

	windows := ChargeWindows(res.Rows)
	require.Len(t, windows, 3)

	assert.Equal(t, hourSlot(1, 0).Start, windows[0].Start)
	assert.Equal(t, hourSlot(2, 0).End, windows[0].End)
	assert.InDelta(t, 22, windows[0].EnergyKWh, 1e-9)
	assert.InDelta(t, 15, windows[0].AverageCostCents, 1e-9)

	// Hours 4 and 6 are not adjacent.
	assert.Equal(t, hourSlot(4, 0).Start, windows[1].Start)
	assert.Equal(t, hourSlot(6, 0).Start, windows[2].Start)
}

func TestChargeWindowsNone(t *testing.T) {
	assert.Empty(t, ChargeWindows(nil))
}
