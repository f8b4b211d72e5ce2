package analytics

import (
	"github.com/secondkeith/vitalog/internal/config"
	"github.com/secondkeith/vitalog/internal/health"
)

// Policy holds the tunable constants of the nutrition and recommendation
// computations. Callers build one from config rather than editing engine
// logic to change behavior.
type Policy struct {
	// TargetReps is the per-set rep target for progressive overload
	TargetReps int

	// SmallIncrement is the weight increase below HeavyThreshold, in lbs
	SmallIncrement float64

	// LargeIncrement is the weight increase at or above HeavyThreshold, in lbs
	LargeIncrement float64

	// HeavyThreshold is the weight at which the larger increment applies, in lbs
	HeavyThreshold float64

	// RollingWindowDays is the maximum trailing window for rolling averages
	RollingWindowDays int

	// CalorieTargetLow and CalorieTargetHigh bound the daily calorie target band
	CalorieTargetLow  float64
	CalorieTargetHigh float64
}

// DefaultPolicy returns the documented default constants.
func DefaultPolicy() Policy {
	return Policy{
		TargetReps:        10,
		SmallIncrement:    5,
		LargeIncrement:    10,
		HeavyThreshold:    100,
		RollingWindowDays: 7,
		CalorieTargetLow:  1800,
		CalorieTargetHigh: 2200,
	}
}

// PolicyFromConfig builds the engine policy from loaded configuration.
func PolicyFromConfig(cfg *config.Config) Policy {
	if cfg == nil {
		return DefaultPolicy()
	}
	return Policy{
		TargetReps:        cfg.TargetReps,
		SmallIncrement:    cfg.SmallIncrement,
		LargeIncrement:    cfg.LargeIncrement,
		HeavyThreshold:    cfg.HeavyThreshold,
		RollingWindowDays: cfg.RollingWindowDays,
		CalorieTargetLow:  cfg.CalorieTargetLow,
		CalorieTargetHigh: cfg.CalorieTargetHigh,
	}
}

// Engine computes derived views over one immutable day-series snapshot.
// Every view is a pure function of the snapshot; results are cached on
// first access so repeated queries against the same snapshot do not
// recompute. The engine is not safe for concurrent use.
type Engine struct {
	series *health.Series
	policy Policy

	macros   []DayMacroShare
	rolling  []RollingDay
	activity []ActivityDay
	volume   []VolumeEntry
	index    []ExerciseHistory
	recs     []Recommendation
}

// NewEngine creates an engine over the given series. A nil series is the
// terminal "no data" condition: every view returns an empty result.
func NewEngine(series *health.Series, policy Policy) *Engine {
	return &Engine{series: series, policy: policy}
}

// Policy returns the policy constants the engine was built with.
func (e *Engine) Policy() Policy {
	return e.policy
}

// days returns the snapshot's records in ascending date order, or nil
// when there is no data.
func (e *Engine) days() []health.DayRecord {
	if e.series == nil {
		return nil
	}
	return e.series.Days()
}
