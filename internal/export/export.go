package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kelsos/timecamp-cli/internal/logger"
	"github.com/kelsos/timecamp-cli/internal/models"
)

// ExportFile is the on-disk shape of an entries export.
type ExportFile struct {
	ExportedAt string             `json:"exported_at"`
	From       string             `json:"from"`
	To         string             `json:"to"`
	Count      int                `json:"count"`
	Entries    []models.TimeEntry `json:"entries"`
}

// WriteEntries writes fetched time entries to a timestamped JSON file under
// exportDir and returns the file path.
func WriteEntries(entries []models.TimeEntry, query models.TimeEntriesQuery, exportDir string) (string, error) {
	if exportDir == "" {
		return "", fmt.Errorf("export directory cannot be empty")
	}

	if err := os.MkdirAll(exportDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}

	now := time.Now()
	fileName := fmt.Sprintf("entries_%s.json", now.Format("2006-01-02_15-04-05"))
	filePath := filepath.Join(exportDir, fileName)

	payload := ExportFile{
		ExportedAt: now.Format(time.RFC3339),
		From:       query.From,
		To:         query.To,
		Count:      len(entries),
		Entries:    entries,
	}

	jsonData, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal export data: %w", err)
	}

	if err := os.WriteFile(filePath, jsonData, 0600); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}

	logger.Info("Exported %d entries to %s", len(entries), filePath)
	return filePath, nil
}
