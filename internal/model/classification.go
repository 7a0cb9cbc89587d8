package model

// Classification drives how an hour is presented.
// Keep these values stable; they are intended for CSV and JSON output.
type Classification string

const (
	ClassificationPast     Classification = "PAST"
	ClassificationCharging Classification = "CHARGING"
	ClassificationIdle     Classification = "IDLE"
)

func Classify(past, charging bool) Classification {
	switch {
	case past:
		return ClassificationPast
	case charging:
		return ClassificationCharging
	default:
		return ClassificationIdle
	}
}

// Color is the bar colour chart renderers use for the hour.
func (c Classification) Color() string {
	switch c {
	case ClassificationPast:
		return "#ccc"
	case ClassificationCharging:
		return "#80ef80"
	default:
		return "#ffb27f"
	}
}
