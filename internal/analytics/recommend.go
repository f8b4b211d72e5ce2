package analytics

import (
	"math"
	"strconv"
)

// Rationale strings attached to recommendations.
const (
	rationaleIncrease = "hit all target reps — increase weight."
	rationaleHold     = "near target — same weight, push for full reps."
	rationaleBuild    = "below target — hold weight, build reps."
)

// Recommendation is the next-session prescription for one exercise,
// alongside the "last time" session it was derived from.
type Recommendation struct {
	Exercise string `json:"exercise"`

	LastDate   string  `json:"lastDate"`
	LastWeight float64 `json:"lastWeight"`
	LastSets   int     `json:"lastSets"`
	LastReps   string  `json:"lastReps"`

	Weight    float64 `json:"weight"`
	Sets      int     `json:"sets"`
	Reps      string  `json:"reps"`
	Rationale string  `json:"rationale"`

	// Sessions is the size of the exercise's full logged history
	Sessions int `json:"sessions"`
}

// Recommend derives the next-session prescription from an exercise's
// most recent session. Three mutually exclusive outcomes:
//
//   - every set hit the target: add weight (small increment below the
//     heavy threshold, large at or above it), keep sets, prescribe the
//     target rep count
//   - average within two reps of target: keep the weight, push for the
//     full target
//   - otherwise: keep the weight, build reps toward ceil(avg)+1 capped
//     at the target
//
// A session whose rep list never parses resolves to an empty rep
// sequence; its average is taken as zero, which lands in the build-reps
// branch rather than failing.
func Recommend(h ExerciseHistory, policy Policy) Recommendation {
	last := h.Latest()
	repValues := last.Reps.Values(last.Sets)

	allHitTarget := len(repValues) > 0
	sum := 0
	for _, v := range repValues {
		sum += v
		if v < policy.TargetReps {
			allHitTarget = false
		}
	}

	avgReps := 0.0
	if len(repValues) > 0 {
		avgReps = float64(sum) / float64(len(repValues))
	}

	rec := Recommendation{
		Exercise:   h.Name,
		LastDate:   last.Date,
		LastWeight: last.Weight,
		LastSets:   last.Sets,
		LastReps:   last.Reps.Display(),
		Weight:     last.Weight,
		Sets:       last.Sets,
		Sessions:   len(h.Sessions),
	}

	switch {
	case allHitTarget:
		increment := policy.SmallIncrement
		if last.Weight >= policy.HeavyThreshold {
			increment = policy.LargeIncrement
		}
		rec.Weight = last.Weight + increment
		rec.Reps = strconv.Itoa(policy.TargetReps)
		rec.Rationale = rationaleIncrease

	case avgReps >= float64(policy.TargetReps)-2:
		rec.Reps = strconv.Itoa(policy.TargetReps)
		rec.Rationale = rationaleHold

	default:
		target := int(math.Ceil(avgReps)) + 1
		if target > policy.TargetReps {
			target = policy.TargetReps
		}
		rec.Reps = strconv.Itoa(target)
		rec.Rationale = rationaleBuild
	}

	return rec
}

// Recommendations returns one recommendation per tracked exercise, in
// the discovery order of the exercise index.
func (e *Engine) Recommendations() []Recommendation {
	if e.recs != nil {
		return e.recs
	}

	histories := e.Exercises()
	recs := make([]Recommendation, 0, len(histories))
	for _, h := range histories {
		recs = append(recs, Recommend(h, e.policy))
	}

	e.recs = recs
	return recs
}

// Recommendation returns the recommendation for one exercise name, or
// false when the exercise has no logged sessions.
func (e *Engine) Recommendation(name string) (Recommendation, bool) {
	h, ok := e.Exercise(name)
	if !ok {
		return Recommendation{}, false
	}
	return Recommend(h, e.policy), true
}
