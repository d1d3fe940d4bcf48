// File: internal/executor/apps_test.go
package executor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppResolver_BuiltinsCaseInsensitive(t *testing.T) {
	r := NewAppResolver(nil)

	cases := []struct {
		name string
		pkg  string
	}{
		{"settings", "com.android.settings"},
		{"Settings", "com.android.settings"},
		{"  YOUTUBE  ", "com.google.android.youtube"},
		{"Play Store", "com.android.vending"},
	}
	for _, tc := range cases {
		pkg, ok := r.Resolve(tc.name)
		assert.True(t, ok, tc.name)
		assert.Equal(t, tc.pkg, pkg)
	}
}

func TestAppResolver_OverridesWinOverBuiltins(t *testing.T) {
	r := NewAppResolver(map[string]string{
		"Chrome":  "org.chromium.chrome",
		"My Bank": "com.example.bank",
	})

	pkg, ok := r.Resolve("chrome")
	assert.True(t, ok)
	assert.Equal(t, "org.chromium.chrome", pkg)

	pkg, ok = r.Resolve("my bank")
	assert.True(t, ok)
	assert.Equal(t, "com.example.bank", pkg)
}

func TestAppResolver_PackageNamePassthrough(t *testing.T) {
	r := NewAppResolver(nil)

	pkg, ok := r.Resolve("com.vendor.someapp")
	assert.True(t, ok)
	assert.Equal(t, "com.vendor.someapp", pkg)

	// Two dots is the threshold; a bare domain-looking name is not enough.
	_, ok = r.Resolve("vendor.someapp")
	assert.False(t, ok)

	// Spaces disqualify the heuristic.
	_, ok = r.Resolve("com. vendor. app")
	assert.False(t, ok)
}

func TestAppResolver_UnknownAndEmpty(t *testing.T) {
	r := NewAppResolver(nil)

	_, ok := r.Resolve("Totally Unknown App")
	assert.False(t, ok)

	_, ok = r.Resolve("")
	assert.False(t, ok)

	_, ok = r.Resolve("   ")
	assert.False(t, ok)
}
