// internal/executor/apps.go
package executor

import "strings"

// builtinApps maps common app display names to their package identifiers.
// Launch is the one operation with no fallback tier: an unresolved name
// fails the step, because launching the wrong app is worse than stopping.
var builtinApps = map[string]string{
	"settings":   "com.android.settings",
	"chrome":     "com.android.chrome",
	"camera":     "com.android.camera2",
	"gallery":    "com.google.android.apps.photos",
	"photos":     "com.google.android.apps.photos",
	"gmail":      "com.google.android.gm",
	"youtube":    "com.google.android.youtube",
	"maps":       "com.google.android.apps.maps",
	"play store": "com.android.vending",
	"phone":      "com.google.android.dialer",
	"messages":   "com.google.android.apps.messaging",
	"contacts":   "com.google.android.contacts",
	"calendar":   "com.google.android.calendar",
	"clock":      "com.google.android.deskclock",
	"calculator": "com.google.android.calculator",
	"files":      "com.google.android.apps.nbu.files",
	"whatsapp":   "com.whatsapp",
	"telegram":   "org.telegram.messenger",
	"instagram":  "com.instagram.android",
	"twitter":    "com.twitter.android",
	"spotify":    "com.spotify.music",
}

// AppResolver maps app display names onto launchable package identifiers,
// with user-configured overrides taking precedence over the built-in table.
type AppResolver struct {
	overrides map[string]string
}

// NewAppResolver builds a resolver; overrides may be nil.
func NewAppResolver(overrides map[string]string) *AppResolver {
	normalized := make(map[string]string, len(overrides))
	for name, pkg := range overrides {
		normalized[strings.ToLower(strings.TrimSpace(name))] = pkg
	}
	return &AppResolver{overrides: normalized}
}

// Resolve looks up a display name case-insensitively. A name that already
// looks like a package identifier passes through untouched.
func (r *AppResolver) Resolve(name string) (string, bool) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return "", false
	}
	if pkg, ok := r.overrides[key]; ok {
		return pkg, true
	}
	if pkg, ok := builtinApps[key]; ok {
		return pkg, true
	}
	// Heuristic: "com.vendor.app" style names are packages already.
	if strings.Count(key, ".") >= 2 && !strings.ContainsAny(key, " \t") {
		return strings.TrimSpace(name), true
	}
	return "", false
}
