package db

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/secondkeith/vitalog/internal/errors"
)

// ExportInput contains parameters for the Export operation.
type ExportInput struct {
	Path string // optional, default: <baseDir>/exports/health-data-<timestamp>.json
}

// ExportOutput contains the result of the Export operation.
type ExportOutput struct {
	Path       string `json:"path"`
	Count      int    `json:"count"`
	ExportedAt int64  `json:"exported_at"`
}

// Export writes the full store back out as a health-data.json snapshot,
// round-tripping the format the importer reads.
func Export(database *sql.DB, baseDir string, input ExportInput) (*ExportOutput, error) {
	now := time.Now()

	exportPath := input.Path
	if exportPath == "" {
		name := fmt.Sprintf("health-data-%s.json", now.Format("20060102-150405"))
		exportPath = filepath.Join(baseDir, "exports", name)
	}

	if err := os.MkdirAll(filepath.Dir(exportPath), 0700); err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to create export directory: %w", err))
	}

	days, err := ListDays(database)
	if err != nil {
		return nil, err
	}

	data, err := json.MarshalIndent(Snapshot{Days: days}, "", "  ")
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	data = append(data, '\n')

	// Write to a temp file first, then rename, so a failed export never
	// truncates an existing snapshot.
	tempPath := exportPath + ".tmp"
	if err := os.WriteFile(tempPath, data, 0600); err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to write export file: %w", err))
	}
	if err := os.Rename(tempPath, exportPath); err != nil {
		os.Remove(tempPath)
		return nil, errors.NewInternal(fmt.Errorf("failed to finalize export file: %w", err))
	}

	return &ExportOutput{
		Path:       exportPath,
		Count:      len(days),
		ExportedAt: now.Unix(),
	}, nil
}
