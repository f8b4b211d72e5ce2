package mcp

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/secondkeith/vitalog/internal/analytics"
	"github.com/secondkeith/vitalog/internal/config"
	"github.com/secondkeith/vitalog/internal/db"
	"github.com/secondkeith/vitalog/internal/errors"
	"github.com/secondkeith/vitalog/internal/foodlog"
	"github.com/secondkeith/vitalog/internal/health"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	db      *sql.DB
	baseDir string
	cfg     *config.Config
}

// NewHandlers creates a new Handlers instance. baseDir is the data
// directory used for default export paths.
func NewHandlers(db *sql.DB, baseDir string, cfg *config.Config) *Handlers {
	return &Handlers{db: db, baseDir: baseDir, cfg: cfg}
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

// Request types for each tool

// ImportRequest represents the arguments for health_import.
type ImportRequest struct {
	Path string `json:"path"`
	Mode string `json:"mode,omitempty"`
}

// ExportRequest represents the arguments for health_export.
type ExportRequest struct {
	Path string `json:"path,omitempty"`
}

// LogDayRequest represents the arguments for health_log_day.
type LogDayRequest struct {
	Date           string   `json:"date"`
	Markdown       string   `json:"markdown,omitempty"`
	Weight         *float64 `json:"weight,omitempty"`
	Steps          *int     `json:"steps,omitempty"`
	CaloriesBurned *float64 `json:"calories_burned,omitempty"`
	RestingHR      *float64 `json:"resting_hr,omitempty"`
	ActiveMinutes  *int     `json:"active_minutes,omitempty"`
	SleepMinutes   *int     `json:"sleep_minutes,omitempty"`
	Replace        bool     `json:"replace,omitempty"`
}

// DaysRequest represents the arguments for health_days.
type DaysRequest struct {
	Date string `json:"date,omitempty"`
}

// NameRequest represents the optional exercise-name filter shared by
// health_exercises and health_recommend.
type NameRequest struct {
	Name string `json:"name,omitempty"`
}

// Handler implementations

// HandleImport handles the health_import tool call.
func (h *Handlers) HandleImport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ImportRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	mode := db.ImportModeError
	switch input.Mode {
	case "", "error":
	case "replace":
		mode = db.ImportModeReplace
	case "skip":
		mode = db.ImportModeSkip
	}

	result, err := db.Import(h.db, db.ImportInput{
		Path: input.Path,
		Mode: mode,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleExport handles the health_export tool call.
func (h *Handlers) HandleExport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ExportRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := db.Export(h.db, h.baseDir, db.ExportInput{Path: input.Path})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleLogDay handles the health_log_day tool call.
func (h *Handlers) HandleLogDay(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[LogDayRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	day, err := buildDay(input)
	if err != nil {
		return errorResult(err), nil
	}

	if input.Replace {
		err = db.ReplaceDay(h.db, *day)
	} else {
		err = db.InsertDay(h.db, *day)
	}
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(map[string]any{
		"date":     day.Date,
		"meals":    len(day.Meals),
		"workouts": len(day.Workouts),
		"calories": day.Calories,
	})
}

// buildDay assembles a day record from the log_day arguments: markdown
// supplies meals, totals, and workouts; the wearable metrics pass through.
func buildDay(input LogDayRequest) (*health.DayRecord, error) {
	if !health.ValidDate(input.Date) {
		return nil, errors.NewBadDate(input.Date)
	}

	day := &health.DayRecord{
		Date:     input.Date,
		Meals:    []health.MealEntry{},
		Workouts: []health.WorkoutEntry{},
	}
	if input.Markdown != "" {
		parsed, err := foodlog.Parse(input.Date, []byte(input.Markdown))
		if err != nil {
			return nil, err
		}
		day = parsed
	}

	day.Weight = input.Weight
	day.Steps = input.Steps
	day.CaloriesBurned = input.CaloriesBurned
	day.RestingHR = input.RestingHR
	day.ActiveMinutes = input.ActiveMinutes
	day.SleepMinutes = input.SleepMinutes

	return day, nil
}

// HandleDays handles the health_days tool call.
func (h *Handlers) HandleDays(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[DaysRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	if input.Date != "" {
		day, err := db.GetDay(h.db, input.Date)
		if err != nil {
			return errorResult(err), nil
		}
		return successResult(map[string]any{"days": []health.DayRecord{*day}, "count": 1})
	}

	days, err := db.ListDays(h.db)
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(map[string]any{"days": days, "count": len(days)})
}

// HandleMacros handles the health_macros tool call.
func (h *Handlers) HandleMacros(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	eng, err := h.engine()
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(map[string]any{"days": eng.MacroShares()})
}

// HandleRolling handles the health_rolling tool call.
func (h *Handlers) HandleRolling(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	eng, err := h.engine()
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(map[string]any{"days": eng.Rolling()})
}

// HandleActivity handles the health_activity tool call.
func (h *Handlers) HandleActivity(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	eng, err := h.engine()
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(map[string]any{"days": eng.Activity()})
}

// HandleVolume handles the health_volume tool call.
func (h *Handlers) HandleVolume(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	eng, err := h.engine()
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(map[string]any{"entries": eng.Volume()})
}

// HandleExercises handles the health_exercises tool call.
func (h *Handlers) HandleExercises(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[NameRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	eng, err := h.engine()
	if err != nil {
		return errorResult(err), nil
	}

	if input.Name != "" {
		hist, ok := eng.Exercise(input.Name)
		if !ok {
			return errorResult(errors.NewNotFound(input.Name)), nil
		}
		return successResult(map[string]any{"exercises": []analytics.ExerciseHistory{hist}})
	}

	return successResult(map[string]any{"exercises": eng.Exercises()})
}

// HandleRecommend handles the health_recommend tool call.
func (h *Handlers) HandleRecommend(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[NameRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	eng, err := h.engine()
	if err != nil {
		return errorResult(err), nil
	}

	if input.Name != "" {
		rec, ok := eng.Recommendation(input.Name)
		if !ok {
			return errorResult(errors.NewNotFound(input.Name)), nil
		}
		return successResult(map[string]any{"recommendations": []analytics.Recommendation{rec}})
	}

	return successResult(map[string]any{"recommendations": eng.Recommendations()})
}

// Result helpers

// errorResult creates an MCP error result from any error.
// Uses IsError: true so MCP clients recognize failures properly.
// Internal error details are not exposed to prevent leaking sensitive info.
func errorResult(err error) *mcp.CallToolResult {
	var payload map[string]any

	if verr, ok := err.(*errors.VitaError); ok {
		errorObj := map[string]any{
			"code":    verr.Code,
			"message": verr.Message,
			"status":  verr.Status,
		}
		if verr.Code != errors.ErrInternal && verr.Details != nil {
			errorObj["details"] = verr.Details
		}
		payload = map[string]any{"error": errorObj}
	} else {
		payload = map[string]any{
			"error": map[string]any{
				"code":    "INTERNAL",
				"message": "an internal error occurred",
				"status":  500,
			},
		}
	}

	content, _ := json.Marshal(payload)
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult creates an MCP success result from any data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
