// File: internal/action/action_test.go
package action

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		in   string
		want Kind
	}{
		{"tap", KindTap},
		{"Tap", KindTap},
		{"  SWIPE  ", KindSwipe},
		{"Type", KindType},
		{"Launch", KindLaunch},
		{"wait", KindWait},
		{"HOME", KindHome},
		{"Back", KindBack},
		{"finish", KindFinish},
		{"long_press", KindUnknown},
		{"", KindUnknown},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Normalize(tc.in), "input %q", tc.in)
	}
}

func TestAction_LocationShapes(t *testing.T) {
	assert.True(t, Action{Location: []int{1, 2}}.HasPoint())
	assert.False(t, Action{Location: []int{1, 2}}.HasSegment())
	assert.True(t, Action{Location: []int{1, 2, 3, 4}}.HasSegment())
	assert.False(t, Action{Location: []int{1, 2, 3}}.HasPoint())
	assert.False(t, Action{}.HasPoint())
}
