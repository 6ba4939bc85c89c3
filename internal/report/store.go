package report

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/pders01/visreg/internal/classify"
	"github.com/pders01/visreg/internal/models"
)

// Write stores data as indented JSON at path
func Write(fsys afero.Fs, path string, data *models.ReportData) error {
	out, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	if err := fsys.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}
	if err := afero.WriteFile(fsys, path, append(out, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// Read loads a report written by Write, restores its shared screenshot identity
// and files every diffed comparable screenshot under changed or unchanged
func Read(fsys afero.Fs, path string) (*models.ReportData, error) {
	raw, err := afero.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read report: %w", err)
	}

	var data models.ReportData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to parse report %s: %w", path, err)
	}
	if err := data.Meta.DiffBase.Validate(); err != nil {
		return nil, fmt.Errorf("report %s has an invalid diff base: %w", path, err)
	}
	if data.Screenshots == nil {
		return nil, fmt.Errorf("report %s has no screenshots", path)
	}

	classify.Reindex(data.Screenshots)
	classify.PartitionDiffed(data.Screenshots)
	if data.Approvals == nil {
		data.Approvals = models.NewApprovals()
	}
	return &data, nil
}
