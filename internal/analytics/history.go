package analytics

import (
	"github.com/secondkeith/vitalog/internal/health"
)

// Session is one logged exercise session paired with its day's date.
type Session struct {
	Date   string         `json:"date"`
	Weight float64        `json:"weight"`
	Sets   int            `json:"sets"`
	Reps   health.RepSpec `json:"reps"`
}

// ExerciseHistory is the full session history for one exercise name,
// ordered most-recent-session-first. Sessions[0] is the latest session.
type ExerciseHistory struct {
	Name     string    `json:"name"`
	Sessions []Session `json:"sessions"`
}

// Latest returns the most recent session for the exercise.
func (h ExerciseHistory) Latest() Session {
	return h.Sessions[0]
}

// Exercises groups every logged session by exact exercise name. The
// histories are built by scanning the series in descending date order,
// so within each group sessions run most-recent-first, and exercises
// appear in the order of their most recent occurrence. Exercises with
// no logged sessions are absent.
func (e *Engine) Exercises() []ExerciseHistory {
	if e.index != nil {
		return e.index
	}

	days := e.days()
	byName := make(map[string]int) // name -> index into out
	out := []ExerciseHistory{}

	for i := len(days) - 1; i >= 0; i-- {
		d := days[i]
		for _, w := range d.Workouts {
			session := Session{
				Date:   d.Date,
				Weight: w.Weight,
				Sets:   w.Sets,
				Reps:   w.Reps,
			}

			idx, seen := byName[w.Name]
			if !seen {
				byName[w.Name] = len(out)
				out = append(out, ExerciseHistory{Name: w.Name, Sessions: []Session{session}})
				continue
			}
			out[idx].Sessions = append(out[idx].Sessions, session)
		}
	}

	e.index = out
	return out
}

// Exercise returns the history for one exercise name, or false when the
// exercise has no logged sessions.
func (e *Engine) Exercise(name string) (ExerciseHistory, bool) {
	for _, h := range e.Exercises() {
		if h.Name == name {
			return h, true
		}
	}
	return ExerciseHistory{}, false
}
