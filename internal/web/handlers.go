package web

import (
	"database/sql"
	"encoding/json"
	"net/http"

	"github.com/secondkeith/vitalog/internal/analytics"
	"github.com/secondkeith/vitalog/internal/config"
	"github.com/secondkeith/vitalog/internal/db"
	"github.com/secondkeith/vitalog/internal/errors"
	"github.com/secondkeith/vitalog/internal/health"
)

// Handlers contains HTTP route handlers for the web UI.
type Handlers struct {
	db       *sql.DB
	cfg      *config.Config
	renderer *Renderer
}

// engine loads all stored days and builds an analytics engine over them.
// An empty store yields an engine that returns empty views.
func (h *Handlers) engine() (*analytics.Engine, error) {
	days, err := db.ListDays(h.db)
	if err != nil {
		return nil, err
	}

	policy := analytics.PolicyFromConfig(h.cfg)
	if len(days) == 0 {
		return analytics.NewEngine(nil, policy), nil
	}

	series, err := health.NewSeries(days)
	if err != nil {
		return nil, err
	}
	return analytics.NewEngine(series, policy), nil
}

// HandleDashboard handles GET /dashboard — the nutrition and activity overview.
func (h *Handlers) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	eng, err := h.engine()
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	rolling := eng.Rolling()

	h.renderer.renderPage(w, "dashboard", DashboardPageData{
		PageData: PageData{
			Title:   "Dashboard",
			Version: h.renderer.version,
			Nav:     "dashboard",
		},
		Rolling:  rolling,
		Activity: eng.Activity(),
		Macros:   eng.MacroShares(),
		HasData:  len(rolling) > 0,
	})
}

// HandleTraining handles GET /training — volume history and recommendations.
func (h *Handlers) HandleTraining(w http.ResponseWriter, r *http.Request) {
	eng, err := h.engine()
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	volume := eng.Volume()

	h.renderer.renderPage(w, "training", TrainingPageData{
		PageData: PageData{
			Title:   "Training",
			Version: h.renderer.version,
			Nav:     "training",
		},
		Volume:          volume,
		Recommendations: eng.Recommendations(),
		HasData:         len(volume) > 0,
	})
}

// HandleDays handles GET /days — list stored day records.
func (h *Handlers) HandleDays(w http.ResponseWriter, r *http.Request) {
	days, err := db.ListDays(h.db)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	h.renderer.renderPage(w, "days", DaysPageData{
		PageData: PageData{
			Title:   "Days",
			Version: h.renderer.version,
			Nav:     "days",
		},
		Days: days,
	})
}

// HandleDay handles GET /days/{date} — view a single day record.
func (h *Handlers) HandleDay(w http.ResponseWriter, r *http.Request) {
	date := r.PathValue("date")
	if !health.ValidDate(date) {
		h.renderer.renderError(w, r, errors.NewBadDate(date))
		return
	}

	day, err := db.GetDay(h.db, date)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	h.renderer.renderPage(w, "day", DayPageData{
		PageData: PageData{
			Title:   day.Date,
			Version: h.renderer.version,
			Nav:     "days",
		},
		Day: day,
	})
}

// writeJSON writes a JSON response for the charting endpoints.
func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"code":"INTERNAL","message":"encoding failed"}`, http.StatusInternalServerError)
	}
}

// apiView wraps one analytics view as a JSON endpoint.
func (h *Handlers) apiView(view func(*analytics.Engine) any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		eng, err := h.engine()
		if err != nil {
			h.renderer.renderError(w, r, err)
			return
		}
		writeJSON(w, view(eng))
	}
}

// HandleAPIRolling handles GET /api/rolling.
func (h *Handlers) HandleAPIRolling(w http.ResponseWriter, r *http.Request) {
	h.apiView(func(e *analytics.Engine) any {
		return map[string]any{"days": e.Rolling()}
	})(w, r)
}

// HandleAPIMacros handles GET /api/macros.
func (h *Handlers) HandleAPIMacros(w http.ResponseWriter, r *http.Request) {
	h.apiView(func(e *analytics.Engine) any {
		return map[string]any{"days": e.MacroShares()}
	})(w, r)
}

// HandleAPIActivity handles GET /api/activity.
func (h *Handlers) HandleAPIActivity(w http.ResponseWriter, r *http.Request) {
	h.apiView(func(e *analytics.Engine) any {
		return map[string]any{"days": e.Activity()}
	})(w, r)
}

// HandleAPIVolume handles GET /api/volume.
func (h *Handlers) HandleAPIVolume(w http.ResponseWriter, r *http.Request) {
	h.apiView(func(e *analytics.Engine) any {
		return map[string]any{"entries": e.Volume()}
	})(w, r)
}

// HandleAPIRecommendations handles GET /api/recommendations.
func (h *Handlers) HandleAPIRecommendations(w http.ResponseWriter, r *http.Request) {
	h.apiView(func(e *analytics.Engine) any {
		return map[string]any{"recommendations": e.Recommendations()}
	})(w, r)
}
