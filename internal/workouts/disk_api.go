package workouts

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// DiskApi persists the workouts collection as a single JSON file.
type DiskApi struct {
	filePath string
}

func NewDiskApi(filePath string) *DiskApi {
	return &DiskApi{
		filePath: filePath,
	}
}

// LoadAll reads the collection from disk. A missing file is not an
// error, it just means no workouts were saved yet.
func (api *DiskApi) LoadAll(_ context.Context) ([]Workout, error) {
	fileBytes, err := os.ReadFile(api.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return []Workout{}, nil
		}
		return nil, fmt.Errorf("read workouts file: %w", err)
	}

	var workouts []Workout
	if err := json.Unmarshal(fileBytes, &workouts); err != nil {
		return nil, fmt.Errorf("unmarshal workouts file: %w", err)
	}

	return workouts, nil
}

// SaveAll writes the collection to a temp file first, then renames it
// over the target, so a crash mid-write never leaves a corrupt file.
func (api *DiskApi) SaveAll(_ context.Context, workouts []Workout) error {
	workoutsJson, err := json.Marshal(workouts)
	if err != nil {
		return fmt.Errorf("marshal workouts: %w", err)
	}

	tmpFile := api.filePath + ".tmp"
	if err := os.MkdirAll(filepath.Dir(api.filePath), os.ModePerm); err != nil {
		return fmt.Errorf("create workouts dir: %w", err)
	}
	if err := os.WriteFile(tmpFile, workoutsJson, 0o644); err != nil {
		return fmt.Errorf("write workouts file: %w", err)
	}
	if err := os.Rename(tmpFile, api.filePath); err != nil {
		return fmt.Errorf("replace workouts file: %w", err)
	}

	return nil
}
