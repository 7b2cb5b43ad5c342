package director

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ivlev/scene2video/internal/system"
)

// DefaultDir is where timelines are written when no path is given.
const DefaultDir = "timelines"

// GeneratePath creates a timestamped timeline filename in dir.
func GeneratePath(dir string) string {
	if dir == "" {
		dir = DefaultDir
	}
	return filepath.Join(dir, fmt.Sprintf("timeline_%s.yaml", time.Now().Format("2006-01-02_15-04-05")))
}

// FindLatest returns the most recently modified timeline in dir.
func FindLatest(dir string) (string, error) {
	if dir == "" {
		dir = DefaultDir
	}
	path, err := system.FindLatest(dir, []string{".yaml", ".yml"})
	if err != nil {
		return "", fmt.Errorf("no timeline found: %w", err)
	}
	return path, nil
}

// Write stores s as YAML, creating the parent directory.
func Write(s *Scenario, path string) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Read loads a timeline file.
func Read(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &s, nil
}
