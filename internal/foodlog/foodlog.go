// Package foodlog parses the daily markdown food log format: one file per
// day, "## Section (~time)" headings with food bullets underneath, and an
// optional "## Workout" section listing exercise sessions.
package foodlog

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/secondkeith/vitalog/internal/errors"
	"github.com/secondkeith/vitalog/internal/health"
)

// Numeric grammar of the log lines. The format is hand-written prose, so
// amounts tolerate thousands separators and "~" approximations.
var (
	caloriesPattern = regexp.MustCompile(`~?([\d,]+)\s*cal`)
	proteinPattern  = regexp.MustCompile(`~?([\d.]+)g\s*protein`)
	fatPattern      = regexp.MustCompile(`~?([\d.]+)g\s*fat`)
	carbsPattern    = regexp.MustCompile(`~?([\d.]+)g\s*carb`)

	// Section headers carry an optional time like "Evening Snacks (~4:30 PM)"
	sectionTimePattern = regexp.MustCompile(`\(~?([\d:]+\s*(?:AM|PM|am|pm)?)\)`)

	// Exercise lines like "Pectoral Fly (Life Fitness) — 70 lbs, 4×10"
	exercisePattern = regexp.MustCompile(`^(.+?)\s*(?:\([^)]*\))?\s*[—–-]+\s*(\d+(?:\.\d+)?)\s*(?:lbs?|pounds?)`)
	setsRepsPattern = regexp.MustCompile(`(\d+)\s*[×x]\s*(\d+)`)
	varRepsPattern  = regexp.MustCompile(`sets?\s*\(([^)]+)\)`)
	setCountPattern = regexp.MustCompile(`(\d+)\s*sets?`)

	// Day totals line: "Daily totals: ..." or "Running total: ..."
	totalsPattern = regexp.MustCompile(`(?i)^(?:daily totals|running total)`)
)

// Parse reads one day's markdown log into a day record. The date is the
// log's filename date and must be YYYY-MM-DD. Day totals come from the
// totals line when present, otherwise from the sum of parsed meals.
func Parse(date string, source []byte) (*health.DayRecord, error) {
	if !health.ValidDate(date) {
		return nil, errors.NewBadDate(date)
	}

	doc := goldmark.New().Parser().Parse(text.NewReader(source))

	day := &health.DayRecord{
		Date:     date,
		Meals:    []health.MealEntry{},
		Workouts: []health.WorkoutEntry{},
	}

	var totals *health.DayRecord // non-nil once a totals line is seen
	sectionLabel := ""
	inWorkout := false

	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *ast.Heading:
			if node.Level != 2 {
				return ast.WalkContinue, nil
			}
			header := nodeText(node, source)
			inWorkout = strings.HasPrefix(strings.ToLower(header), "workout")
			if m := sectionTimePattern.FindStringSubmatch(header); m != nil {
				sectionLabel = strings.TrimSpace(m[1])
			} else {
				sectionLabel = strings.TrimSpace(strings.SplitN(header, "(", 2)[0])
			}
			return ast.WalkContinue, nil

		case *ast.ListItem:
			item := nodeText(node, source)
			if inWorkout {
				if w, ok := parseExercise(item); ok {
					day.Workouts = append(day.Workouts, w)
				}
				return ast.WalkSkipChildren, nil
			}

			if totalsPattern.MatchString(item) {
				totals = &health.DayRecord{}
				fillMacros(totals, item)
				return ast.WalkSkipChildren, nil
			}

			name := firstStrongText(node, source)
			if name == "" {
				return ast.WalkContinue, nil
			}
			if totalsPattern.MatchString(name) {
				totals = &health.DayRecord{}
				fillMacros(totals, item)
				return ast.WalkSkipChildren, nil
			}

			meal := health.MealEntry{Time: sectionLabel, Name: name}
			var macros health.DayRecord
			fillMacros(&macros, item)
			if macros.Calories == 0 {
				// no calorie figure at all (e.g. "Ice water"): not a meal entry
				return ast.WalkSkipChildren, nil
			}
			meal.Calories = macros.Calories
			meal.Protein = macros.Protein
			meal.Fat = macros.Fat
			meal.Carbs = macros.Carbs
			day.Meals = append(day.Meals, meal)
			return ast.WalkSkipChildren, nil
		}

		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	// Totals line wins; meal sums fill whatever it left at zero
	if totals != nil {
		day.Calories = totals.Calories
		day.Protein = totals.Protein
		day.Fat = totals.Fat
		day.Carbs = totals.Carbs
	}
	fillTotalsFromMeals(day)

	return day, nil
}

// fillMacros extracts calorie and macro figures from one line of text.
func fillMacros(d *health.DayRecord, line string) {
	if m := caloriesPattern.FindStringSubmatch(line); m != nil {
		d.Calories = parseAmount(m[1])
	}
	if m := proteinPattern.FindStringSubmatch(line); m != nil {
		d.Protein = parseAmount(m[1])
	}
	if m := fatPattern.FindStringSubmatch(line); m != nil {
		d.Fat = parseAmount(m[1])
	}
	if m := carbsPattern.FindStringSubmatch(line); m != nil {
		d.Carbs = parseAmount(m[1])
	}
}

// parseExercise reads one workout list item into a workout entry.
func parseExercise(line string) (health.WorkoutEntry, bool) {
	m := exercisePattern.FindStringSubmatch(line)
	if m == nil {
		return health.WorkoutEntry{}, false
	}

	w := health.WorkoutEntry{Name: strings.TrimSpace(m[1])}
	w.Weight = parseAmount(m[2])

	if sr := setsRepsPattern.FindStringSubmatch(line); sr != nil {
		w.Sets, _ = strconv.Atoi(sr[1])
		reps, _ := strconv.Atoi(sr[2])
		w.Reps = health.UniformReps(reps)
	}

	// Variable reps like "3 sets (10, 10, 6)" override the uniform count
	if vr := varRepsPattern.FindStringSubmatch(line); vr != nil {
		w.Reps = health.PerSetReps(strings.ReplaceAll(vr[1], " ", ""))
		if w.Sets == 0 {
			if sm := setCountPattern.FindStringSubmatch(line); sm != nil {
				w.Sets, _ = strconv.Atoi(sm[1])
			}
		}
	}

	return w, true
}

// fillTotalsFromMeals fills any zero day totals from meal sums.
func fillTotalsFromMeals(d *health.DayRecord) {
	if len(d.Meals) == 0 {
		return
	}

	var cal, pro, fat, carb float64
	for _, m := range d.Meals {
		cal += m.Calories
		pro += m.Protein
		fat += m.Fat
		carb += m.Carbs
	}

	if d.Calories == 0 {
		d.Calories = cal
	}
	if d.Protein == 0 {
		d.Protein = pro
	}
	if d.Fat == 0 {
		d.Fat = fat
	}
	if d.Carbs == 0 {
		d.Carbs = carb
	}
}

// parseAmount parses a numeric amount, tolerating thousands separators.
func parseAmount(s string) float64 {
	f, _ := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	return f
}

// nodeText concatenates the plain text of a node's subtree.
func nodeText(n ast.Node, source []byte) string {
	var sb strings.Builder
	_ = ast.Walk(n, func(child ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if t, ok := child.(*ast.Text); ok {
			sb.Write(t.Segment.Value(source))
			if t.SoftLineBreak() || t.HardLineBreak() {
				sb.WriteByte(' ')
			}
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(sb.String())
}

// firstStrongText returns the text of the first bold span directly under
// the item's first paragraph; food items are required to lead with a bold
// name, which is what separates them from commentary bullets.
func firstStrongText(item ast.Node, source []byte) string {
	var name string
	_ = ast.Walk(item, func(child ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering || name != "" {
			return ast.WalkContinue, nil
		}
		if em, ok := child.(*ast.Emphasis); ok && em.Level == 2 {
			name = nodeText(em, source)
			return ast.WalkStop, nil
		}
		return ast.WalkContinue, nil
	})
	return name
}
