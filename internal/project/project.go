package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/piwi3910/SprinklerLayout/internal/model"
)

// Extension is the file extension used for saved projects.
const Extension = ".sprinkler.json"

// SaveProject writes the project inputs to a JSON file, creating any missing
// parent directories.
func SaveProject(path string, p model.Project) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create project directory: %w", err)
	}
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal project: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write project file: %w", err)
	}
	return nil
}

// LoadProject reads a project from a JSON file. Settings missing from the
// file keep their defaults and an empty strategy reads as grid.
func LoadProject(path string) (model.Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Project{}, fmt.Errorf("failed to read project file: %w", err)
	}

	p := model.NewProject()
	p.Name = ""
	if err := json.Unmarshal(data, &p); err != nil {
		return model.Project{}, fmt.Errorf("failed to parse project file: %w", err)
	}

	if p.Strategy == "" {
		p.Strategy = model.StrategyGrid
	} else {
		s, err := model.ParseStrategy(string(p.Strategy))
		if err != nil {
			return model.Project{}, fmt.Errorf("invalid project file: %w", err)
		}
		p.Strategy = s
	}
	if len(p.Room) > 0 && len(p.Room) < 3 {
		return model.Project{}, fmt.Errorf("invalid project file: room has %d corners, need at least 3", len(p.Room))
	}
	if p.Name == "" {
		p.Name = filepath.Base(path)
	}
	return p, nil
}
