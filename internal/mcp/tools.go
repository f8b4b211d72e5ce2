package mcp

import "github.com/mark3labs/mcp-go/mcp"

// Tool definitions. Descriptions are what MCP clients show their users,
// so they spell out defaults and accepted values.

var importToolDef = mcp.NewTool("health_import",
	mcp.WithDescription("Import day records from a health-data JSON snapshot ({\"days\": [...]}). Duplicate dates follow the mode: error (default), replace, or skip."),
	mcp.WithString("path",
		mcp.Required(),
		mcp.Description("Path to the snapshot JSON file"),
	),
	mcp.WithString("mode",
		mcp.Description("Duplicate-date handling: error | replace | skip (default: error)"),
	),
)

var exportToolDef = mcp.NewTool("health_export",
	mcp.WithDescription("Export all day records to a health-data JSON snapshot."),
	mcp.WithString("path",
		mcp.Description("Output file path (default: exports/health-data-<timestamp>.json under the data directory)"),
	),
)

var logDayToolDef = mcp.NewTool("health_log_day",
	mcp.WithDescription("Record one day. Meals, day totals, and workouts are parsed from the markdown food log; wearable metrics are passed directly. Missing totals fall back to meal sums."),
	mcp.WithString("date",
		mcp.Required(),
		mcp.Description("Day date, YYYY-MM-DD"),
	),
	mcp.WithString("markdown",
		mcp.Description("The day's markdown food log (\"## Section (~time)\" headings, food bullets, optional \"## Workout\" section)"),
	),
	mcp.WithNumber("weight",
		mcp.Description("Morning body weight (lbs)"),
	),
	mcp.WithNumber("steps",
		mcp.Description("Step count"),
	),
	mcp.WithNumber("calories_burned",
		mcp.Description("Total calories burned"),
	),
	mcp.WithNumber("resting_hr",
		mcp.Description("Resting heart rate (bpm)"),
	),
	mcp.WithNumber("active_minutes",
		mcp.Description("Active minutes"),
	),
	mcp.WithNumber("sleep_minutes",
		mcp.Description("Sleep duration (minutes)"),
	),
	mcp.WithBoolean("replace",
		mcp.Description("Replace an existing record for this date instead of failing (default: false)"),
	),
)

var daysToolDef = mcp.NewTool("health_days",
	mcp.WithDescription("List stored day records in date order, or fetch a single day."),
	mcp.WithString("date",
		mcp.Description("Fetch only this date (YYYY-MM-DD)"),
	),
)

var macrosToolDef = mcp.NewTool("health_macros",
	mcp.WithDescription("Per-day macronutrient shares: protein, fat, and carbs as percentages of their combined gram total. A day with a zero macro total reports all-zero shares."),
)

var rollingToolDef = mcp.NewTool("health_rolling",
	mcp.WithDescription("Trailing rolling averages of calories and macros per day, with the day's calorie band (under | in | over) relative to the configured target range."),
)

var activityToolDef = mcp.NewTool("health_activity",
	mcp.WithDescription("Daily activity and recovery metrics: steps, calories burned, resting heart rate, active minutes, sleep, and weight where recorded."),
)

var volumeToolDef = mcp.NewTool("health_volume",
	mcp.WithDescription("Training volume (sets × weight × total reps) for every logged exercise session, in day order."),
)

var exercisesToolDef = mcp.NewTool("health_exercises",
	mcp.WithDescription("Per-exercise session history, most recent session first."),
	mcp.WithString("name",
		mcp.Description("Return only this exercise (exact name match)"),
	),
)

var recommendToolDef = mcp.NewTool("health_recommend",
	mcp.WithDescription("Next-session progressive-overload recommendation per exercise, derived from the most recent session against the configured rep target."),
	mcp.WithString("name",
		mcp.Description("Return only this exercise (exact name match)"),
	),
)
