package db

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"

	"github.com/secondkeith/vitalog/internal/errors"
	"github.com/secondkeith/vitalog/internal/health"
)

// Snapshot is the on-disk health-data.json layout: one object holding
// the full day list.
type Snapshot struct {
	Days []health.DayRecord `json:"days"`
}

// ImportMode controls collision behavior during import.
type ImportMode string

const (
	ImportModeError   ImportMode = "error"   // fail on a duplicate date
	ImportModeReplace ImportMode = "replace" // overwrite the stored day
	ImportModeSkip    ImportMode = "skip"    // keep the stored day, count as skipped
)

// ImportInput contains parameters for the Import operation.
type ImportInput struct {
	Path string     // required
	Mode ImportMode // default: error
}

// ImportOutput contains the result of the Import operation.
type ImportOutput struct {
	Imported int           `json:"imported"`
	Skipped  int           `json:"skipped"`
	Errors   []ImportError `json:"errors"`
}

// ImportError describes one day that could not be imported.
type ImportError struct {
	Date    string `json:"date,omitempty"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Import loads a health-data.json snapshot file into the store.
func Import(database *sql.DB, input ImportInput) (*ImportOutput, error) {
	if input.Path == "" {
		return nil, errors.NewInvalidRequest("path is required")
	}
	if input.Mode == "" {
		input.Mode = ImportModeError
	}
	if input.Mode != ImportModeError && input.Mode != ImportModeReplace && input.Mode != ImportModeSkip {
		return nil, errors.NewInvalidRequest("mode must be one of: error, replace, skip")
	}

	data, err := os.ReadFile(input.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewNotFound(input.Path)
		}
		return nil, errors.NewInternal(fmt.Errorf("failed to read import file: %w", err))
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, errors.NewInvalidRequest(fmt.Sprintf("not a health-data snapshot: %v", err))
	}

	// One transaction for the whole snapshot: a failed import leaves
	// the store exactly as it was.
	tx, err := database.Begin()
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer tx.Rollback()

	out := &ImportOutput{Errors: []ImportError{}}
	for _, d := range snap.Days {
		if !health.ValidDate(d.Date) {
			if input.Mode == ImportModeError {
				return nil, errors.NewBadDate(d.Date)
			}
			out.Errors = append(out.Errors, ImportError{
				Date:    d.Date,
				Code:    string(errors.ErrBadDate),
				Message: "date must be YYYY-MM-DD",
			})
			continue
		}

		exists, err := hasDayTx(tx, d.Date)
		if err != nil {
			return nil, err
		}

		switch {
		case !exists:
			if err := insertDayTx(tx, d); err != nil {
				return nil, err
			}
			out.Imported++
		case input.Mode == ImportModeReplace:
			if err := replaceDayTx(tx, d); err != nil {
				return nil, err
			}
			out.Imported++
		case input.Mode == ImportModeSkip:
			out.Skipped++
		default:
			return nil, errors.NewDuplicateDate(d.Date)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, errors.NewInternal(err)
	}
	return out, nil
}
