// File: internal/device/uitree_test.go
package device

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDump = `<?xml version='1.0' encoding='UTF-8' standalone='yes' ?>
<hierarchy rotation="0">
  <node class="android.widget.FrameLayout" bounds="[0,0][1080,2400]" clickable="false" text="" resource-id="" content-desc="">
    <node class="android.widget.TextView" bounds="[40,100][1040,200]" clickable="false" text="Settings" resource-id="android:id/title" content-desc=""/>
    <node class="android.widget.Switch" bounds="[900,300][1060,380]" clickable="true" text="" resource-id="android:id/switch_widget" content-desc="Bluetooth"/>
  </node>
</hierarchy>`

func TestParseUITree(t *testing.T) {
	root, err := ParseUITree(sampleDump)
	require.NoError(t, err)

	assert.Equal(t, "android.widget.FrameLayout", root.Class)
	require.Len(t, root.Children, 2)

	title := root.Children[0]
	assert.Equal(t, "Settings", title.Text)
	assert.Equal(t, [4]int{40, 100, 1040, 200}, title.Bounds)

	toggle := root.Children[1]
	assert.True(t, toggle.Clickable)
	assert.Equal(t, "Bluetooth", toggle.ContentDesc)
	cx, cy := toggle.Center()
	assert.Equal(t, 980, cx)
	assert.Equal(t, 340, cy)
}

func TestParseUITree_Malformed(t *testing.T) {
	_, err := ParseUITree("not xml at all <<<")
	assert.Error(t, err)

	_, err = ParseUITree("")
	assert.Error(t, err)
}

func TestUINode_Outline(t *testing.T) {
	root, err := ParseUITree(sampleDump)
	require.NoError(t, err)

	out := root.Outline()
	assert.Contains(t, out, `TextView "Settings"`)
	assert.Contains(t, out, "Switch (Bluetooth) clickable@(980,340)")
	// The structural FrameLayout adds nothing and is skipped.
	assert.NotContains(t, out, "FrameLayout")
}
