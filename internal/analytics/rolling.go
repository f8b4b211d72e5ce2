package analytics

import (
	"math"
)

// CalorieBand classifies a rolling calorie average against the
// configured daily target band.
type CalorieBand string

const (
	BandUnder CalorieBand = "under"
	BandIn    CalorieBand = "in"
	BandOver  CalorieBand = "over"
)

// RollingDay holds the trailing-window averages ending at one day.
// Averages are rounded to one decimal place.
type RollingDay struct {
	Date       string      `json:"date"`
	WindowDays int         `json:"windowDays"`
	Calories   float64     `json:"calories"`
	Protein    float64     `json:"protein"`
	Fat        float64     `json:"fat"`
	Carbs      float64     `json:"carbs"`
	Band       CalorieBand `json:"band"`
}

// round1 rounds to one decimal, half away from zero.
func round1(x float64) float64 {
	return math.Round(x*10) / 10
}

// Rolling returns the trailing rolling averages for every day in the
// series. The window ends at and includes day i and holds min(W, i+1)
// days: it widens from one day at the start of the series to the full
// configured width, and never looks ahead.
func (e *Engine) Rolling() []RollingDay {
	if e.rolling != nil {
		return e.rolling
	}

	days := e.days()
	window := e.policy.RollingWindowDays
	if window < 1 {
		window = 1
	}

	out := make([]RollingDay, 0, len(days))
	for i, d := range days {
		start := i - window + 1
		if start < 0 {
			start = 0
		}
		n := float64(i - start + 1)

		var cal, pro, fat, carb float64
		for _, w := range days[start : i+1] {
			cal += w.Calories
			pro += w.Protein
			fat += w.Fat
			carb += w.Carbs
		}

		avg := RollingDay{
			Date:       d.Date,
			WindowDays: i - start + 1,
			Calories:   round1(cal / n),
			Protein:    round1(pro / n),
			Fat:        round1(fat / n),
			Carbs:      round1(carb / n),
		}
		avg.Band = e.band(avg.Calories)
		out = append(out, avg)
	}

	e.rolling = out
	return out
}

// band classifies a calorie average against the target band.
func (e *Engine) band(calories float64) CalorieBand {
	switch {
	case calories < e.policy.CalorieTargetLow:
		return BandUnder
	case calories > e.policy.CalorieTargetHigh:
		return BandOver
	default:
		return BandIn
	}
}
