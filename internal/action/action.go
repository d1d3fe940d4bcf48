// internal/action/action.go
package action

import "strings"

// Kind is an enumeration of every device operation the engine knows how to
// replay. Model output preserves whatever casing it likes; dispatch is
// case-insensitive and happens in the executor, so Kind values here are the
// canonical lowercase forms.
type Kind string

const (
	KindTap    Kind = "tap"    // Taps a single point on the screen.
	KindSwipe  Kind = "swipe"  // Swipes between two points.
	KindType   Kind = "type"   // Types text into the focused field.
	KindWait   Kind = "wait"   // Pauses for a duration.
	KindLaunch Kind = "launch" // Launches an app by display name.
	KindHome   Kind = "home"   // Presses the home key.
	KindBack   Kind = "back"   // Presses the back key.
	KindFinish Kind = "finish" // Terminates the script successfully.

	// KindUnknown covers action names this build does not recognise. The
	// executor treats them as no-ops so that newer model vocabularies do not
	// abort whole scripts.
	KindUnknown Kind = "unknown"
)

// Normalize maps an arbitrarily cased action name onto a canonical Kind.
// Names outside the known vocabulary come back as KindUnknown.
func Normalize(name string) Kind {
	switch Kind(strings.ToLower(strings.TrimSpace(name))) {
	case KindTap, KindSwipe, KindType, KindWait, KindLaunch, KindHome, KindBack, KindFinish:
		return Kind(strings.ToLower(strings.TrimSpace(name)))
	default:
		return KindUnknown
	}
}

// Action is a single structured device operation, derived either from model
// output or from replay storage. Values are immutable once constructed: the
// parser builds one per model turn and the executor consumes it exactly once.
type Action struct {
	// Kind preserves the model's original casing. Use Normalize for dispatch.
	Kind string `json:"action"`

	// Location holds normalized screen coordinates in [0,1000], expressing a
	// fraction of screen width/height x1000. Two ints form a point, four a
	// segment (x1,y1,x2,y2). Any other non-zero length is passed through to
	// the device unscaled; scripts recorded against that behaviour depend on
	// it, so it is preserved rather than rejected.
	Location []int `json:"location,omitempty"`

	// Text carries the type target text, launch app name, or finish message.
	Text string `json:"text,omitempty"`

	// DurationMS is the wait duration in milliseconds; zero means unset.
	DurationMS int `json:"duration_ms,omitempty"`

	// Instruction is auxiliary context carried verbatim and never interpreted
	// by the executor.
	Instruction string `json:"instruction,omitempty"`
}

// HasPoint reports whether Location is an exact 2-int point.
func (a Action) HasPoint() bool { return len(a.Location) == 2 }

// HasSegment reports whether Location is an exact 4-int segment.
func (a Action) HasSegment() bool { return len(a.Location) == 4 }
