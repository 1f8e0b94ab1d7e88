// Package sample loads a game catalog from a JSON fixture file.
package sample

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/vibefinder/vibefinder/internal/domain"
)

// Loader reads a catalog from a {"games": [...]} JSON file.
type Loader struct {
	path string
}

// NewLoader creates a loader for the given file path.
func NewLoader(path string) *Loader {
	return &Loader{path: path}
}

type sampleFile struct {
	Games []domain.GameRecord `json:"games"`
}

// Load parses the file and returns its records unvalidated. Validation
// happens at the indexing boundary so a bad record is reported per record,
// not as a file-level failure.
func (l *Loader) Load(_ context.Context) ([]domain.GameRecord, error) {
	raw, err := os.ReadFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("read sample catalog %s: %w", l.path, err)
	}

	var file sampleFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse sample catalog %s: %w", l.path, err)
	}
	return file.Games, nil
}
