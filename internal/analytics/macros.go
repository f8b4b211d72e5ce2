package analytics

import (
	"github.com/secondkeith/vitalog/internal/health"
)

// MacroShare holds protein, fat, and carbs as percentages of their
// combined gram total for one day.
type MacroShare struct {
	Protein float64 `json:"protein"`
	Fat     float64 `json:"fat"`
	Carbs   float64 `json:"carbs"`
}

// DayMacroShare pairs a macro share with its date.
type DayMacroShare struct {
	Date string `json:"date"`
	MacroShare
}

// Shares computes the macro share for one day. When the day's macro
// total is zero all three shares are zero, never NaN, so display layers
// can chart the value directly.
func Shares(d health.DayRecord) MacroShare {
	total := d.Protein + d.Fat + d.Carbs
	if total == 0 {
		return MacroShare{}
	}
	return MacroShare{
		Protein: d.Protein / total * 100,
		Fat:     d.Fat / total * 100,
		Carbs:   d.Carbs / total * 100,
	}
}

// MacroShares returns the per-day macro shares for the whole series.
func (e *Engine) MacroShares() []DayMacroShare {
	if e.macros != nil {
		return e.macros
	}

	days := e.days()
	shares := make([]DayMacroShare, 0, len(days))
	for _, d := range days {
		shares = append(shares, DayMacroShare{Date: d.Date, MacroShare: Shares(d)})
	}

	e.macros = shares
	return shares
}
