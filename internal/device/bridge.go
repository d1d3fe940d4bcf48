// internal/device/bridge.go

// Package device abstracts the privileged automation channel that actually
// moves the target: event injection when a UiAutomation connection is held,
// shell-grade fallbacks otherwise. The Router decides per operation which
// tier serves it.
package device

import "context"

// GlobalAction codes mirror the accessibility global action constants on the
// device side.
type GlobalAction int

const (
	GlobalActionBack GlobalAction = 1
	GlobalActionHome GlobalAction = 2
)

// Bridge is the capability set exposed by the privileged execution channel.
// The engine consumes it; it does not implement the channel itself. Every
// method is safe to call whether or not the high-fidelity tier is up —
// implementations report capability through Available and InitUIAutomation.
type Bridge interface {
	// InitUIAutomation establishes the event-injection connection once per
	// session. Returning false is not fatal: it routes all subsequent
	// operations onto the shell tier.
	InitUIAutomation(ctx context.Context) bool

	// Available reports whether the event-injection tier is currently usable.
	Available() bool

	// InjectTap delivers a tap through the event-injection tier.
	InjectTap(ctx context.Context, x, y int) (bool, error)

	// InjectSwipe delivers a full gesture through the event-injection tier.
	InjectSwipe(ctx context.Context, x1, y1, x2, y2, durationMS int) (bool, error)

	// PerformGlobalAction issues an accessibility global action (home, back).
	PerformGlobalAction(ctx context.Context, code GlobalAction) (bool, error)

	// ExecuteShellCommand runs a shell command on the device and returns its
	// combined output. Implementations enforce a hard timeout with forced
	// termination so a hung command becomes a fast, observable failure.
	ExecuteShellCommand(ctx context.Context, cmd string) (string, error)

	// CurrentIME returns the identifier of the active input method.
	CurrentIME(ctx context.Context) (string, error)

	// SetIME activates the given input method identifier.
	SetIME(ctx context.Context, id string) (bool, error)

	// IMEEnabled reports whether the given input method is enabled.
	IMEEnabled(ctx context.Context, id string) (bool, error)

	// Screenshot captures the screen to a file and returns its absolute path.
	Screenshot(ctx context.Context) (string, error)
}
