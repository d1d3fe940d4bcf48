// internal/device/router.go
package device

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

// MotionAction labels the phases of a synthesized pointer gesture.
type MotionAction int

const (
	MotionDown MotionAction = iota
	MotionMove
	MotionUp
)

// MotionEvent is one raw pointer event of a synthesized gesture, with its
// offset from the gesture start.
type MotionEvent struct {
	Action MotionAction
	X, Y   int
	At     time.Duration
}

// RawMotionInjector is an optional refinement of Bridge: channels that can
// deliver individual pointer events implement it, letting the Router
// synthesize swipe gestures itself instead of delegating whole gestures.
type RawMotionInjector interface {
	InjectMotionEvent(ctx context.Context, ev MotionEvent) (bool, error)
}

// SwipePath synthesizes a swipe as a down event, N interpolated move events
// and an up event, where N = duration/10ms with a floor of 10. X and y are
// interpolated linearly by elapsed-time fraction.
func SwipePath(x1, y1, x2, y2, durationMS int) []MotionEvent {
	steps := durationMS / 10
	if steps < 10 {
		steps = 10
	}
	duration := time.Duration(durationMS) * time.Millisecond

	path := make([]MotionEvent, 0, steps+2)
	path = append(path, MotionEvent{Action: MotionDown, X: x1, Y: y1})
	for i := 1; i <= steps; i++ {
		frac := float64(i) / float64(steps)
		path = append(path, MotionEvent{
			Action: MotionMove,
			X:      x1 + int(float64(x2-x1)*frac),
			Y:      y1 + int(float64(y2-y1)*frac),
			At:     time.Duration(frac * float64(duration)),
		})
	}
	path = append(path, MotionEvent{Action: MotionUp, X: x2, Y: y2, At: duration})
	return path
}

// Router fronts the two automation tiers. Every primitive tries event
// injection first when a one-time Initialize marked it available, and
// reissues the operation through a shell equivalent when injection is
// unavailable or errors. Initialize failure never aborts the session; it
// just pins everything to the shell tier.
type Router struct {
	bridge    Bridge
	logger    *zap.Logger
	available bool // Cached once by Initialize for the session.
}

// NewRouter wraps a bridge with two-tier routing policy.
func NewRouter(bridge Bridge, logger *zap.Logger) *Router {
	return &Router{bridge: bridge, logger: logger.Named("surface")}
}

// Initialize establishes the event-injection tier once per session and
// caches the verdict.
func (r *Router) Initialize(ctx context.Context) {
	r.available = r.bridge.InitUIAutomation(ctx)
	if !r.available {
		r.logger.Info("event injection unavailable, using shell tier for all operations")
	}
}

// Bridge exposes the underlying capability set for operations with no
// routing concern (IME queries, screenshots, raw shell).
func (r *Router) Bridge() Bridge { return r.bridge }

// Tap delivers a tap at pixel coordinates.
func (r *Router) Tap(ctx context.Context, x, y int) error {
	if r.available {
		ok, err := r.bridge.InjectTap(ctx, x, y)
		if err == nil && ok {
			return nil
		}
		r.logger.Warn("tap injection failed, falling back to shell", zap.Error(err))
	}
	_, err := r.bridge.ExecuteShellCommand(ctx, fmt.Sprintf("input tap %d %d", x, y))
	return err
}

// Swipe delivers a swipe gesture between two pixel points.
func (r *Router) Swipe(ctx context.Context, x1, y1, x2, y2, durationMS int) error {
	if r.available {
		if err := r.swipeViaInjection(ctx, x1, y1, x2, y2, durationMS); err == nil {
			return nil
		} else {
			r.logger.Warn("swipe injection failed, falling back to shell", zap.Error(err))
		}
	}
	_, err := r.bridge.ExecuteShellCommand(ctx,
		fmt.Sprintf("input swipe %d %d %d %d %d", x1, y1, x2, y2, durationMS))
	return err
}

// swipeViaInjection prefers raw pointer synthesis when the channel supports
// it, delegating whole-gesture delivery otherwise.
func (r *Router) swipeViaInjection(ctx context.Context, x1, y1, x2, y2, durationMS int) error {
	if raw, ok := r.bridge.(RawMotionInjector); ok {
		var elapsed time.Duration
		for _, ev := range SwipePath(x1, y1, x2, y2, durationMS) {
			if d := ev.At - elapsed; d > 0 {
				select {
				case <-time.After(d):
				case <-ctx.Done():
					return ctx.Err()
				}
				elapsed = ev.At
			}
			if ok, err := raw.InjectMotionEvent(ctx, ev); err != nil || !ok {
				return fmt.Errorf("motion event rejected at +%s: %w", ev.At, err)
			}
		}
		return nil
	}
	ok, err := r.bridge.InjectSwipe(ctx, x1, y1, x2, y2, durationMS)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("swipe injection rejected")
	}
	return nil
}

// GlobalAction issues home/back, degrading to key events on the shell tier.
func (r *Router) GlobalAction(ctx context.Context, code GlobalAction) error {
	if r.available {
		ok, err := r.bridge.PerformGlobalAction(ctx, code)
		if err == nil && ok {
			return nil
		}
		r.logger.Warn("global action failed, falling back to shell",
			zap.Int("code", int(code)), zap.Error(err))
	}
	keycode := map[GlobalAction]int{GlobalActionBack: 4, GlobalActionHome: 3}[code]
	if keycode == 0 {
		return fmt.Errorf("unsupported global action code %d", code)
	}
	_, err := r.bridge.ExecuteShellCommand(ctx, fmt.Sprintf("input keyevent %d", keycode))
	return err
}

// TypeText delivers text through the broadcast-text capability. The payload
// is base64 so arbitrary UTF-8 survives the shell boundary.
func (r *Router) TypeText(ctx context.Context, text string) error {
	encoded := base64.StdEncoding.EncodeToString([]byte(text))
	_, err := r.bridge.ExecuteShellCommand(ctx,
		fmt.Sprintf("am broadcast -a ADB_INPUT_B64 --es msg %s", encoded))
	return err
}

// LaunchApp starts the given package's launcher activity. There is no
// injection-tier equivalent; launching is always a shell operation.
func (r *Router) LaunchApp(ctx context.Context, pkg string) error {
	out, err := r.bridge.ExecuteShellCommand(ctx,
		fmt.Sprintf("monkey -p %s -c android.intent.category.LAUNCHER 1", pkg))
	if err != nil {
		return err
	}
	// monkey exits 0 even when it cannot resolve the package; the abort is
	// only visible in its output.
	if strings.Contains(out, "monkey aborted") || strings.Contains(out, "No activities found") {
		return fmt.Errorf("launch of %s aborted: no launchable activity", pkg)
	}
	return nil
}
