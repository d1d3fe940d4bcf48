// File: internal/action/script_test.go
package action

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScript_SaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "open_settings.json")

	original := &Script{
		Name: "open settings",
		Actions: []Action{
			{Kind: "Launch", Text: "Settings"},
			{Kind: "Tap", Location: []int{500, 500}},
			{Kind: "Swipe", Location: []int{500, 800, 500, 200}},
			{Kind: "finish", Text: "done"},
		},
		ScreenWidth:  1080,
		ScreenHeight: 2400,
		CreatedAt:    time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC),
		UseCount:     3,
	}
	require.NoError(t, original.Save(path))

	loaded, err := LoadScript(path)
	require.NoError(t, err)
	assert.Equal(t, original, loaded)
}

func TestLoadScript_Errors(t *testing.T) {
	_, err := LoadScript(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorContains(t, err, "failed to read script")

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{not json"), 0o644))
	_, err = LoadScript(bad)
	assert.ErrorContains(t, err, "failed to decode script")
}

func TestLoadScript_HandRecordedFields(t *testing.T) {
	// Scripts are also written by hand; only actions and dimensions are
	// required.
	path := filepath.Join(t.TempDir(), "minimal.json")
	content := `{
		"actions": [
			{"action": "tap", "location": [100, 200]},
			{"action": "wait", "duration_ms": 1500},
			{"action": "type", "text": "hello"}
		],
		"screen_width": 1080,
		"screen_height": 2400
	}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	s, err := LoadScript(path)
	require.NoError(t, err)
	require.Len(t, s.Actions, 3)
	assert.Equal(t, []int{100, 200}, s.Actions[0].Location)
	assert.Equal(t, 1500, s.Actions[1].DurationMS)
	assert.Equal(t, "hello", s.Actions[2].Text)
	assert.Zero(t, s.UseCount)
}
