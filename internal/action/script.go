// internal/action/script.go
package action

import (
	"fmt"
	"os"
	"time"

	json "github.com/json-iterator/go"
)

// Script is a stored ordered Action list plus the screen dimensions it was
// recorded against. The executor consumes it as an opaque replay unit; the
// recorded dimensions drive coordinate rescaling onto the target device.
type Script struct {
	Name         string    `json:"name,omitempty"`
	Actions      []Action  `json:"actions"`
	ScreenWidth  int       `json:"screen_width"`
	ScreenHeight int       `json:"screen_height"`
	CreatedAt    time.Time `json:"created_at,omitempty"`
	UseCount     int       `json:"use_count,omitempty"`
}

// LoadScript reads a serialized script from disk.
func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read script %s: %w", path, err)
	}
	var s Script
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to decode script %s: %w", path, err)
	}
	return &s, nil
}

// Save writes the script to disk, creating or truncating the file.
func (s *Script) Save(path string) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode script: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write script %s: %w", path, err)
	}
	return nil
}
