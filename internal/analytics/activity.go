package analytics

// ActivityDay is the per-date activity view: a reshaping of the day
// record's activity fields with no aggregation. Optional measurements
// stay nil so consumers can tell "no measurement" from "zero".
type ActivityDay struct {
	Date             string   `json:"date"`
	Steps            *int     `json:"steps,omitempty"`
	CaloriesConsumed float64  `json:"caloriesConsumed"`
	CaloriesBurned   *float64 `json:"caloriesBurned,omitempty"`
	RestingHR        *float64 `json:"restingHR,omitempty"`
	ActiveMinutes    *int     `json:"activeMinutes,omitempty"`
	SleepMinutes     *int     `json:"sleepMinutes,omitempty"`
	Weight           *float64 `json:"weight,omitempty"`
}

// Activity returns the activity series for every day, in date order.
func (e *Engine) Activity() []ActivityDay {
	if e.activity != nil {
		return e.activity
	}

	days := e.days()
	out := make([]ActivityDay, 0, len(days))
	for _, d := range days {
		out = append(out, ActivityDay{
			Date:             d.Date,
			Steps:            d.Steps,
			CaloriesConsumed: d.Calories,
			CaloriesBurned:   d.CaloriesBurned,
			RestingHR:        d.RestingHR,
			ActiveMinutes:    d.ActiveMinutes,
			SleepMinutes:     d.SleepMinutes,
			Weight:           d.Weight,
		})
	}

	e.activity = out
	return out
}
