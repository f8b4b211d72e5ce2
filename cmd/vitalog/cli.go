package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/secondkeith/vitalog/internal/analytics"
	"github.com/secondkeith/vitalog/internal/config"
	"github.com/secondkeith/vitalog/internal/db"
	"github.com/secondkeith/vitalog/internal/errors"
	"github.com/secondkeith/vitalog/internal/foodlog"
	"github.com/secondkeith/vitalog/internal/health"
	"github.com/secondkeith/vitalog/internal/web"
)

// newCLIApp creates the CLI application with all commands.
func newCLIApp(database *sql.DB, baseDir string, cfg *config.Config) *cli.App {
	app := &cli.App{
		Name:    "vitalog",
		Usage:   "Health log analytics and training recommendations",
		Version: Version,
		Commands: []*cli.Command{
			importCmd(database),
			exportCmd(database, baseDir),
			logdayCmd(database),
			daysCmd(database),
			macrosCmd(database, cfg),
			rollingCmd(database, cfg),
			activityCmd(database, cfg),
			volumeCmd(database, cfg),
			exercisesCmd(database, cfg),
			recommendCmd(database, cfg),
			serveCmd(database, cfg),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// loadEngine builds an analytics engine over everything in the store.
// An empty store yields an engine that returns empty views.
func loadEngine(database *sql.DB, cfg *config.Config) (*analytics.Engine, error) {
	days, err := db.ListDays(database)
	if err != nil {
		return nil, err
	}

	policy := analytics.PolicyFromConfig(cfg)
	if len(days) == 0 {
		return analytics.NewEngine(nil, policy), nil
	}

	series, err := health.NewSeries(days)
	if err != nil {
		return nil, err
	}
	return analytics.NewEngine(series, policy), nil
}

// importCmd creates the import command.
func importCmd(database *sql.DB) *cli.Command {
	return &cli.Command{
		Name:  "import",
		Usage: "Import day records from a health-data JSON snapshot",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "path", Aliases: []string{"p"}, Required: true, Usage: "Snapshot file path"},
			&cli.StringFlag{Name: "mode", Aliases: []string{"m"}, Value: "error", Usage: "Duplicate-date mode: error|replace|skip"},
		},
		Action: func(c *cli.Context) error {
			output, err := db.Import(database, db.ImportInput{
				Path: c.String("path"),
				Mode: db.ImportMode(c.String("mode")),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// exportCmd creates the export command.
func exportCmd(database *sql.DB, baseDir string) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export all day records to a health-data JSON snapshot",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "path", Aliases: []string{"p"}, Usage: "Export file path (default: ~/.vitalog/exports/health-data-<timestamp>.json)"},
		},
		Action: func(c *cli.Context) error {
			output, err := db.Export(database, baseDir, db.ExportInput{
				Path: c.String("path"),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// logdayCmd creates the logday command.
func logdayCmd(database *sql.DB) *cli.Command {
	return &cli.Command{
		Name:      "logday",
		Usage:     "Record one day (markdown food log via --file or stdin, metrics via flags)",
		ArgsUsage: "<date>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "file", Aliases: []string{"f"}, Usage: "Markdown food log file"},
			&cli.Float64Flag{Name: "weight", Usage: "Morning body weight (lbs)"},
			&cli.IntFlag{Name: "steps", Usage: "Step count"},
			&cli.Float64Flag{Name: "calories-burned", Usage: "Total calories burned"},
			&cli.Float64Flag{Name: "resting-hr", Usage: "Resting heart rate (bpm)"},
			&cli.IntFlag{Name: "active-minutes", Usage: "Active minutes"},
			&cli.IntFlag{Name: "sleep-minutes", Usage: "Sleep duration (minutes)"},
			&cli.BoolFlag{Name: "replace", Usage: "Replace an existing record for this date"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return outputError(errors.NewInvalidRequest("date argument is required"))
			}
			date := c.Args().First()
			if !health.ValidDate(date) {
				return outputError(errors.NewBadDate(date))
			}

			markdown, err := readLogSource(c.String("file"))
			if err != nil {
				return outputError(err)
			}

			day := &health.DayRecord{
				Date:     date,
				Meals:    []health.MealEntry{},
				Workouts: []health.WorkoutEntry{},
			}
			if len(markdown) > 0 {
				day, err = foodlog.Parse(date, markdown)
				if err != nil {
					return outputError(err)
				}
			}

			if c.IsSet("weight") {
				w := c.Float64("weight")
				day.Weight = &w
			}
			if c.IsSet("steps") {
				s := c.Int("steps")
				day.Steps = &s
			}
			if c.IsSet("calories-burned") {
				b := c.Float64("calories-burned")
				day.CaloriesBurned = &b
			}
			if c.IsSet("resting-hr") {
				hr := c.Float64("resting-hr")
				day.RestingHR = &hr
			}
			if c.IsSet("active-minutes") {
				m := c.Int("active-minutes")
				day.ActiveMinutes = &m
			}
			if c.IsSet("sleep-minutes") {
				m := c.Int("sleep-minutes")
				day.SleepMinutes = &m
			}

			if c.Bool("replace") {
				err = db.ReplaceDay(database, *day)
			} else {
				err = db.InsertDay(database, *day)
			}
			if err != nil {
				return outputError(err)
			}

			return outputJSON(map[string]any{
				"date":     day.Date,
				"meals":    len(day.Meals),
				"workouts": len(day.Workouts),
				"calories": day.Calories,
			})
		},
	}
}

// daysCmd creates the days command.
func daysCmd(database *sql.DB) *cli.Command {
	return &cli.Command{
		Name:      "days",
		Usage:     "List stored day records, or fetch a single day",
		ArgsUsage: "[date]",
		Action: func(c *cli.Context) error {
			if c.NArg() > 0 {
				day, err := db.GetDay(database, c.Args().First())
				if err != nil {
					return outputError(err)
				}
				return outputJSON(day)
			}

			days, err := db.ListDays(database)
			if err != nil {
				return outputError(err)
			}
			return outputJSON(map[string]any{"days": days, "count": len(days)})
		},
	}
}

// macrosCmd creates the macros command.
func macrosCmd(database *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "macros",
		Usage: "Per-day macronutrient calorie shares",
		Action: func(c *cli.Context) error {
			eng, err := loadEngine(database, cfg)
			if err != nil {
				return outputError(err)
			}
			return outputJSON(map[string]any{"days": eng.MacroShares()})
		},
	}
}

// rollingCmd creates the rolling command.
func rollingCmd(database *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "rolling",
		Usage: "Trailing rolling averages with calorie band",
		Action: func(c *cli.Context) error {
			eng, err := loadEngine(database, cfg)
			if err != nil {
				return outputError(err)
			}
			return outputJSON(map[string]any{"days": eng.Rolling()})
		},
	}
}

// activityCmd creates the activity command.
func activityCmd(database *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "activity",
		Usage: "Daily activity and recovery metrics",
		Action: func(c *cli.Context) error {
			eng, err := loadEngine(database, cfg)
			if err != nil {
				return outputError(err)
			}
			return outputJSON(map[string]any{"days": eng.Activity()})
		},
	}
}

// volumeCmd creates the volume command.
func volumeCmd(database *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "volume",
		Usage: "Training volume per logged exercise session",
		Action: func(c *cli.Context) error {
			eng, err := loadEngine(database, cfg)
			if err != nil {
				return outputError(err)
			}
			return outputJSON(map[string]any{"entries": eng.Volume()})
		},
	}
}

// exercisesCmd creates the exercises command.
func exercisesCmd(database *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "exercises",
		Usage:     "Per-exercise session history, most recent first",
		ArgsUsage: "[name]",
		Action: func(c *cli.Context) error {
			eng, err := loadEngine(database, cfg)
			if err != nil {
				return outputError(err)
			}

			if c.NArg() > 0 {
				name := strings.Join(c.Args().Slice(), " ")
				hist, ok := eng.Exercise(name)
				if !ok {
					return outputError(errors.NewNotFound(name))
				}
				return outputJSON(hist)
			}

			return outputJSON(map[string]any{"exercises": eng.Exercises()})
		},
	}
}

// recommendCmd creates the recommend command.
func recommendCmd(database *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "recommend",
		Usage:     "Next-session progressive-overload recommendations",
		ArgsUsage: "[name]",
		Action: func(c *cli.Context) error {
			eng, err := loadEngine(database, cfg)
			if err != nil {
				return outputError(err)
			}

			if c.NArg() > 0 {
				name := strings.Join(c.Args().Slice(), " ")
				rec, ok := eng.Recommendation(name)
				if !ok {
					return outputError(errors.NewNotFound(name))
				}
				return outputJSON(rec)
			}

			return outputJSON(map[string]any{"recommendations": eng.Recommendations()})
		},
	}
}

// serveCmd creates the serve command.
func serveCmd(database *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the web dashboard",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "bind", Value: "127.0.0.1", Usage: "Bind address"},
			&cli.IntFlag{Name: "port", Value: 8787, Usage: "Listen port"},
		},
		Action: func(c *cli.Context) error {
			srv := web.NewServer(database, cfg, Version, c.String("bind"), c.Int("port"))
			return web.Run(srv)
		},
	}
}

// Helper functions

// outputJSON marshals result to stdout as JSON.
func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	if vErr, ok := err.(*errors.VitaError); ok {
		return cli.Exit(fmt.Sprintf("[%s] %s", vErr.Code, vErr.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}

// readLogSource reads the markdown food log from the given file, or from
// stdin when no file is given and data is piped. An empty result means no
// log was supplied.
func readLogSource(path string) ([]byte, error) {
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, errors.NewNotFound(path)
			}
			return nil, errors.NewInternal(err)
		}
		return data, nil
	}

	if !stdinHasData() {
		return nil, nil
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, nil
	}
	return data, nil
}

// stdinHasData returns true if stdin has piped data (not a terminal).
func stdinHasData() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}
