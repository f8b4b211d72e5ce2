package health

// DayRecord represents one calendar day of the health log.
// Field names and JSON keys follow the health-data.json schema.
type DayRecord struct {
	// Date is the calendar day in ISO-8601 YYYY-MM-DD form. It is the
	// unique key of the record.
	Date string `json:"date"`

	// Weight is the measured body weight in lbs (nil when not logged)
	Weight *float64 `json:"weight"`

	// Calories is the day's total calorie intake
	Calories float64 `json:"calories"`

	// Protein is the day's total protein in grams
	Protein float64 `json:"protein"`

	// Fat is the day's total fat in grams
	Fat float64 `json:"fat"`

	// Carbs is the day's total carbohydrates in grams
	Carbs float64 `json:"carbs"`

	// Steps is the step count (nil when no measurement)
	Steps *int `json:"steps,omitempty"`

	// CaloriesBurned is the total energy expenditure (nil when no measurement)
	CaloriesBurned *float64 `json:"caloriesBurned,omitempty"`

	// RestingHR is the resting heart rate in bpm (nil when no measurement)
	RestingHR *float64 `json:"restingHR,omitempty"`

	// ActiveMinutes is fairly-active plus very-active minutes (nil when no measurement)
	ActiveMinutes *int `json:"activeMinutes,omitempty"`

	// SleepMinutes is total minutes asleep (nil when no measurement)
	SleepMinutes *int `json:"sleepMinutes,omitempty"`

	// Meals is the ordered list of logged meal items
	Meals []MealEntry `json:"meals"`

	// Workouts is the ordered list of logged exercise sessions
	Workouts []WorkoutEntry `json:"workouts"`
}

// MealEntry represents one logged food item within a day.
// Meal-level sums are informational; day totals are authoritative.
type MealEntry struct {
	// Time is a free-text time label ("7:30 AM", "Lunch")
	Time string `json:"time"`

	// Name is the food item name
	Name string `json:"name"`

	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Fat      float64 `json:"fat"`
	Carbs    float64 `json:"carbs"`
}

// WorkoutEntry represents one logged exercise session within a day.
type WorkoutEntry struct {
	// Name is the exercise identity key, matched by exact string equality
	Name string `json:"name"`

	// Weight is the load used in lbs
	Weight float64 `json:"weight"`

	// Sets is the number of sets performed
	Sets int `json:"sets"`

	// Reps encodes reps per set: a uniform integer or a per-set list
	Reps RepSpec `json:"reps"`
}

// Volume computes the training volume of the session:
// sets × weight × total reps across all sets. Unparsable rep tokens
// contribute zero rather than failing the computation.
func (w WorkoutEntry) Volume() float64 {
	return float64(w.Sets) * w.Weight * float64(w.Reps.Total(w.Sets))
}
