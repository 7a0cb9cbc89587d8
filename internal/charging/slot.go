package charging

import (
	"fmt"
	"time"
)

// pastCutoff is how far into a slot "now" must be before the slot counts as past.
// It assumes one-hour slots: the running hour flips to past at its midpoint.
const pastCutoff = 30 * time.Minute

const fullHourMinutes = 60.0

// eligibleMinutes is the chargeable time left in [start, end) as seen from now.
// Slots fully in the future or fully in the past report the whole hour.
func eligibleMinutes(start, end, now time.Time) float64 {
	if !now.Before(start) && now.Before(end) {
		return end.Sub(now).Minutes()
	}
	return fullHourMinutes
}

func isPast(start, now time.Time) bool {
	return start.Add(pastCutoff).Before(now)
}

// possibleKWh is the energy the charger can deliver in the given minutes.
func possibleKWh(ratePerHour, minutes float64) float64 {
	return ratePerHour * minutes / fullHourMinutes
}

func hourLabel(start time.Time, loc *time.Location) string {
	return fmt.Sprintf("%02d:00", start.In(loc).Hour())
}

func clockLabel(t time.Time, loc *time.Location) string {
	return t.In(loc).Format("15:04:05")
}
