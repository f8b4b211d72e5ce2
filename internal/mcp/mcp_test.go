package mcp

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/secondkeith/vitalog/internal/config"
	"github.com/secondkeith/vitalog/internal/db"
	"github.com/secondkeith/vitalog/internal/errors"
)

// testSetup creates a temporary database and config for testing.
func testSetup(t *testing.T) (*sql.DB, string, *config.Config) {
	t.Helper()

	tmpDir := t.TempDir()
	database, err := db.Init(tmpDir)
	if err != nil {
		t.Fatalf("failed to init db: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	return database, tmpDir, config.DefaultConfig()
}

// makeRequest creates a CallToolRequest with the given arguments.
func makeRequest(args map[string]any) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Arguments: args,
		},
	}
}

// sampleMarkdown returns a food log with two meals and one workout.
func sampleMarkdown() string {
	return `## Breakfast (~8:00 AM)

- **Oatmeal** — 300 cal, 10g protein, 5g fat, 50g carbs

## Lunch (~12:30 PM)

- **Chicken bowl** — 700 cal, 50g protein, 20g fat, 70g carbs

## Workout

1. Bench Press — 95 lbs, 3×10
`
}

// logDay stores one day through the handler, failing the test on error.
func logDay(t *testing.T, h *Handlers, date string, extra map[string]any) {
	t.Helper()

	args := map[string]any{
		"date":     date,
		"markdown": sampleMarkdown(),
	}
	for k, v := range extra {
		args[k] = v
	}

	result, err := h.HandleLogDay(context.Background(), makeRequest(args))
	if err != nil {
		t.Fatalf("log_day handler returned error: %v", err)
	}
	if result.IsError {
		t.Fatalf("log_day failed: %v", extractErrorMessage(result))
	}
}

// TestHandleLogDay tests the log_day handler.
func TestHandleLogDay(t *testing.T) {
	database, dir, cfg := testSetup(t)
	h := NewHandlers(database, dir, cfg)
	ctx := context.Background()

	tests := []struct {
		name      string
		args      map[string]any
		wantError bool
		errorCode string
	}{
		{
			name: "log valid day",
			args: map[string]any{
				"date":     "2025-06-14",
				"markdown": sampleMarkdown(),
				"weight":   180.5,
				"steps":    9500,
			},
			wantError: false,
		},
		{
			name: "log metrics-only day",
			args: map[string]any{
				"date":  "2025-06-15",
				"steps": 4000,
			},
			wantError: false,
		},
		{
			name: "log duplicate date",
			args: map[string]any{
				"date":     "2025-06-14",
				"markdown": sampleMarkdown(),
			},
			wantError: true,
			errorCode: "DUPLICATE_DATE",
		},
		{
			name: "log duplicate date with replace",
			args: map[string]any{
				"date":     "2025-06-14",
				"markdown": sampleMarkdown(),
				"replace":  true,
			},
			wantError: false,
		},
		{
			name: "log malformed date",
			args: map[string]any{
				"date": "June 14",
			},
			wantError: true,
			errorCode: "BAD_DATE",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := h.HandleLogDay(ctx, makeRequest(tt.args))
			if err != nil {
				t.Fatalf("handler returned error: %v", err)
			}

			if tt.wantError {
				if !result.IsError {
					t.Errorf("expected error result, got success")
				}
				if tt.errorCode != "" {
					assertErrorCode(t, result, tt.errorCode)
				}
			} else if result.IsError {
				t.Errorf("expected success, got error: %v", extractErrorMessage(result))
			}
		})
	}
}

// TestHandleDays tests the days handler.
func TestHandleDays(t *testing.T) {
	database, dir, cfg := testSetup(t)
	h := NewHandlers(database, dir, cfg)
	ctx := context.Background()

	logDay(t, h, "2025-06-14", nil)
	logDay(t, h, "2025-06-15", nil)

	t.Run("list all days", func(t *testing.T) {
		output := parseOutput(t, mustCall(t, h.HandleDays, ctx, map[string]any{}))
		if int(output["count"].(float64)) != 2 {
			t.Errorf("count = %v, want 2", output["count"])
		}
		days := output["days"].([]any)
		first := days[0].(map[string]any)
		if first["date"] != "2025-06-14" {
			t.Errorf("first date = %v, want 2025-06-14 (ascending order)", first["date"])
		}
	})

	t.Run("fetch single day", func(t *testing.T) {
		output := parseOutput(t, mustCall(t, h.HandleDays, ctx, map[string]any{"date": "2025-06-15"}))
		if int(output["count"].(float64)) != 1 {
			t.Errorf("count = %v, want 1", output["count"])
		}
	})

	t.Run("fetch missing day", func(t *testing.T) {
		result, err := h.HandleDays(ctx, makeRequest(map[string]any{"date": "2020-01-01"}))
		if err != nil {
			t.Fatalf("handler returned error: %v", err)
		}
		if !result.IsError {
			t.Fatal("expected error result")
		}
		assertErrorCode(t, result, "NOT_FOUND")
	})
}

// TestHandleAnalyticsViews verifies the read-only analytics tools return
// their view payloads over stored data.
func TestHandleAnalyticsViews(t *testing.T) {
	database, dir, cfg := testSetup(t)
	h := NewHandlers(database, dir, cfg)
	ctx := context.Background()

	logDay(t, h, "2025-06-14", map[string]any{"steps": 9500})

	t.Run("macros", func(t *testing.T) {
		output := parseOutput(t, mustCall(t, h.HandleMacros, ctx, map[string]any{}))
		days := output["days"].([]any)
		if len(days) != 1 {
			t.Fatalf("got %d macro days, want 1", len(days))
		}
	})

	t.Run("rolling", func(t *testing.T) {
		output := parseOutput(t, mustCall(t, h.HandleRolling, ctx, map[string]any{}))
		days := output["days"].([]any)
		if len(days) != 1 {
			t.Fatalf("got %d rolling days, want 1", len(days))
		}
		day := days[0].(map[string]any)
		if day["calories"].(float64) != 1000 {
			t.Errorf("rolling calories = %v, want 1000", day["calories"])
		}
	})

	t.Run("activity", func(t *testing.T) {
		output := parseOutput(t, mustCall(t, h.HandleActivity, ctx, map[string]any{}))
		days := output["days"].([]any)
		day := days[0].(map[string]any)
		if int(day["steps"].(float64)) != 9500 {
			t.Errorf("steps = %v, want 9500", day["steps"])
		}
	})

	t.Run("volume", func(t *testing.T) {
		output := parseOutput(t, mustCall(t, h.HandleVolume, ctx, map[string]any{}))
		entries := output["entries"].([]any)
		if len(entries) != 1 {
			t.Fatalf("got %d volume entries, want 1", len(entries))
		}
		entry := entries[0].(map[string]any)
		// 3 sets × 95 lbs × 30 reps
		if entry["volume"].(float64) != 8550 {
			t.Errorf("volume = %v, want 8550", entry["volume"])
		}
	})
}

// TestHandleAnalyticsViews_EmptyStore verifies analytics tools return empty
// payloads rather than errors when nothing is stored.
func TestHandleAnalyticsViews_EmptyStore(t *testing.T) {
	database, dir, cfg := testSetup(t)
	h := NewHandlers(database, dir, cfg)
	ctx := context.Background()

	for name, handler := range map[string]ToolHandlerFunc{
		"macros":    h.HandleMacros,
		"rolling":   h.HandleRolling,
		"activity":  h.HandleActivity,
		"volume":    h.HandleVolume,
		"exercises": h.HandleExercises,
		"recommend": h.HandleRecommend,
	} {
		t.Run(name, func(t *testing.T) {
			result, err := handler(ctx, makeRequest(map[string]any{}))
			if err != nil {
				t.Fatalf("handler returned error: %v", err)
			}
			if result.IsError {
				t.Fatalf("expected success on empty store, got: %v", extractErrorMessage(result))
			}
		})
	}
}

// TestHandleExercisesAndRecommend tests the per-exercise tools.
func TestHandleExercisesAndRecommend(t *testing.T) {
	database, dir, cfg := testSetup(t)
	h := NewHandlers(database, dir, cfg)
	ctx := context.Background()

	logDay(t, h, "2025-06-14", nil)

	t.Run("exercises by name", func(t *testing.T) {
		output := parseOutput(t, mustCall(t, h.HandleExercises, ctx, map[string]any{"name": "Bench Press"}))
		exercises := output["exercises"].([]any)
		if len(exercises) != 1 {
			t.Fatalf("got %d exercises, want 1", len(exercises))
		}
	})

	t.Run("exercises unknown name", func(t *testing.T) {
		result, err := h.HandleExercises(ctx, makeRequest(map[string]any{"name": "Deadlift"}))
		if err != nil {
			t.Fatalf("handler returned error: %v", err)
		}
		assertErrorCode(t, result, "NOT_FOUND")
	})

	t.Run("recommend all", func(t *testing.T) {
		output := parseOutput(t, mustCall(t, h.HandleRecommend, ctx, map[string]any{}))
		recs := output["recommendations"].([]any)
		if len(recs) != 1 {
			t.Fatalf("got %d recommendations, want 1", len(recs))
		}
		rec := recs[0].(map[string]any)
		// all sets hit 10 reps at 95 lbs, below the heavy threshold
		if rec["weight"].(float64) != 100 {
			t.Errorf("recommended weight = %v, want 100", rec["weight"])
		}
	})

	t.Run("recommend unknown name", func(t *testing.T) {
		result, err := h.HandleRecommend(ctx, makeRequest(map[string]any{"name": "Deadlift"}))
		if err != nil {
			t.Fatalf("handler returned error: %v", err)
		}
		assertErrorCode(t, result, "NOT_FOUND")
	})
}

// TestHandleExportImport tests the export and import handlers round trip.
func TestHandleExportImport(t *testing.T) {
	database, dir, cfg := testSetup(t)
	h := NewHandlers(database, dir, cfg)
	ctx := context.Background()

	logDay(t, h, "2025-06-14", nil)

	exportOutput := parseOutput(t, mustCall(t, h.HandleExport, ctx, map[string]any{}))
	exportPath, _ := exportOutput["path"].(string)
	if exportPath == "" {
		t.Fatal("export returned no path")
	}

	// Import into a fresh store
	database2, dir2, cfg2 := testSetup(t)
	h2 := NewHandlers(database2, dir2, cfg2)

	importOutput := parseOutput(t, mustCall(t, h2.HandleImport, ctx, map[string]any{"path": exportPath}))
	if int(importOutput["imported"].(float64)) != 1 {
		t.Errorf("imported = %v, want 1", importOutput["imported"])
	}

	daysOutput := parseOutput(t, mustCall(t, h2.HandleDays, ctx, map[string]any{}))
	if int(daysOutput["count"].(float64)) != 1 {
		t.Errorf("count after import = %v, want 1", daysOutput["count"])
	}
}

// TestHandleImport_MissingFile tests error mapping for a bad path.
func TestHandleImport_MissingFile(t *testing.T) {
	database, dir, cfg := testSetup(t)
	h := NewHandlers(database, dir, cfg)

	result, err := h.HandleImport(context.Background(), makeRequest(map[string]any{
		"path": "/does/not/exist.json",
	}))
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected error result")
	}
	assertErrorCode(t, result, "NOT_FOUND")
}

func TestServerRegistration(t *testing.T) {
	database, dir, cfg := testSetup(t)

	s := NewServer(database, dir, cfg, "test")
	tools := s.ListTools()
	if tools == nil {
		t.Fatal("expected tools to be registered, got nil")
	}

	expectedTools := []string{
		"health_import",
		"health_export",
		"health_log_day",
		"health_days",
		"health_macros",
		"health_rolling",
		"health_activity",
		"health_volume",
		"health_exercises",
		"health_recommend",
	}

	if len(tools) != len(expectedTools) {
		t.Errorf("registered tool count = %d, want %d", len(tools), len(expectedTools))
	}

	for _, name := range expectedTools {
		if _, ok := tools[name]; !ok {
			t.Errorf("missing registered tool: %s", name)
		}
	}
}

func TestServerRegistration_WithDisabledTools(t *testing.T) {
	database, dir, cfg := testSetup(t)

	cfg.DisabledTools = []string{"health_import", "health_export"}
	s := NewServer(database, dir, cfg, "test")
	tools := s.ListTools()

	if len(tools) != 8 {
		t.Errorf("registered tool count = %d, want 8", len(tools))
	}

	for _, name := range cfg.DisabledTools {
		if _, ok := tools[name]; ok {
			t.Errorf("disabled tool %q should not be registered", name)
		}
	}

	for _, name := range []string{"health_days", "health_recommend"} {
		if _, ok := tools[name]; !ok {
			t.Errorf("core tool %q should be registered", name)
		}
	}
}

func TestServerRegistration_AllToolsDisabled(t *testing.T) {
	database, dir, cfg := testSetup(t)

	cfg.DisabledTools = AllToolNames()
	s := NewServer(database, dir, cfg, "test")
	tools := s.ListTools()

	if len(tools) != 0 {
		t.Errorf("registered tool count = %d, want 0 (all disabled)", len(tools))
	}
}

func TestValidateDisabledTools(t *testing.T) {
	tests := []struct {
		name    string
		input   []string
		wantLen int
	}{
		{
			name:    "all valid",
			input:   []string{"health_import", "health_recommend"},
			wantLen: 0,
		},
		{
			name:    "one unknown",
			input:   []string{"health_import", "fake_tool"},
			wantLen: 1,
		},
		{
			name:    "all unknown",
			input:   []string{"foo", "bar", "baz"},
			wantLen: 3,
		},
		{
			name:    "empty list",
			input:   []string{},
			wantLen: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			unknown := ValidateDisabledTools(tt.input)
			if len(unknown) != tt.wantLen {
				t.Errorf("ValidateDisabledTools() returned %d unknown, want %d", len(unknown), tt.wantLen)
			}
		})
	}
}

func TestAllToolNames(t *testing.T) {
	names := AllToolNames()

	if len(names) != 10 {
		t.Errorf("AllToolNames() returned %d names, want 10", len(names))
	}

	unknown := ValidateDisabledTools(names)
	if len(unknown) != 0 {
		t.Errorf("AllToolNames() returned invalid names: %v", unknown)
	}
}

func TestErrorResult_InternalDoesNotExposeDetails(t *testing.T) {
	r := errorResult(errors.NewInternal(fmt.Errorf("sql error: open /tmp/secret.db: permission denied")))
	if !r.IsError {
		t.Fatal("expected IsError=true")
	}

	var payload map[string]any
	if err := json.Unmarshal([]byte(r.Content[0].(mcp.TextContent).Text), &payload); err != nil {
		t.Fatalf("failed to unmarshal error payload: %v", err)
	}
	errObj := payload["error"].(map[string]any)

	if errObj["code"] != string(errors.ErrInternal) {
		t.Fatalf("code=%v, want %v", errObj["code"], errors.ErrInternal)
	}
	if _, ok := errObj["details"]; ok {
		t.Fatal("expected INTERNAL errors to omit details")
	}
}

func TestErrorResult_NonInternalIncludesDetails(t *testing.T) {
	r := errorResult(errors.NewDuplicateDate("2025-06-14"))
	if !r.IsError {
		t.Fatal("expected IsError=true")
	}

	var payload map[string]any
	if err := json.Unmarshal([]byte(r.Content[0].(mcp.TextContent).Text), &payload); err != nil {
		t.Fatalf("failed to unmarshal error payload: %v", err)
	}
	errObj := payload["error"].(map[string]any)

	if errObj["code"] != string(errors.ErrDuplicateDate) {
		t.Fatalf("code=%v, want %v", errObj["code"], errors.ErrDuplicateDate)
	}
	if _, ok := errObj["details"]; !ok {
		t.Fatal("expected non-INTERNAL errors to include details when present")
	}
}

// Helper functions

// mustCall invokes a handler and fails the test on a transport error.
func mustCall(t *testing.T, handler ToolHandlerFunc, ctx context.Context, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	result, err := handler(ctx, makeRequest(args))
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	return result
}

// parseOutput extracts and unmarshals the JSON output from an MCP result.
func parseOutput(t *testing.T, result *mcp.CallToolResult) map[string]any {
	t.Helper()
	if result.IsError {
		t.Fatalf("expected success, got error: %v", extractErrorMessage(result))
	}
	var output map[string]any
	if err := json.Unmarshal([]byte(result.Content[0].(mcp.TextContent).Text), &output); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	return output
}

func assertErrorCode(t *testing.T, result *mcp.CallToolResult, expectedCode string) {
	t.Helper()

	if len(result.Content) == 0 {
		t.Errorf("no content in error result")
		return
	}

	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Errorf("content is not TextContent")
		return
	}

	var payload map[string]any
	if err := json.Unmarshal([]byte(text.Text), &payload); err != nil {
		t.Errorf("failed to unmarshal error payload: %v", err)
		return
	}

	errorObj, ok := payload["error"].(map[string]any)
	if !ok {
		t.Errorf("no error object in payload")
		return
	}

	code, ok := errorObj["code"].(string)
	if !ok {
		t.Errorf("no code in error object")
		return
	}

	if code != expectedCode {
		t.Errorf("got error code %q, want %q", code, expectedCode)
	}
}

func extractErrorMessage(result *mcp.CallToolResult) string {
	if len(result.Content) == 0 {
		return "<no content>"
	}

	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		return "<not text content>"
	}

	return text.Text
}

// The macros view reports gram shares of the protein+fat+carbs total.
// The tool description must say the same thing, or clients will read
// the percentages as calorie-weighted.
func TestMacrosToolDescription_GramShares(t *testing.T) {
	desc := toolRegistry["health_macros"].def.Description
	if !strings.Contains(desc, "gram total") {
		t.Errorf("description = %q, want gram-share wording", desc)
	}
	if strings.Contains(desc, "kcal") {
		t.Errorf("description = %q, must not claim calorie weighting", desc)
	}
}
