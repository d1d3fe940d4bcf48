// internal/executor/executor.go

// Package executor replays ordered Action lists against the automation
// surface. It owns coordinate rescaling, input-method bracketing, cooperative
// cancellation and failure classification. Its public boundary never
// panics: every internal fault becomes a structured ExecutionResult.
package executor

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/taskwizard/taskwizard/internal/action"
	"github.com/taskwizard/taskwizard/internal/device"
)

// swipeGestureMS is the fixed gesture duration for swipe steps.
const swipeGestureMS = 300

// ProgressFunc receives each step before it executes, with the pre-scaling
// Action for display.
type ProgressFunc func(stepIndex, total int, act action.Action)

// Delays are the settle pauses applied after each action class so the UI can
// catch up before the next step observes it.
type Delays struct {
	TapSettle    time.Duration
	SwipeSettle  time.Duration
	GlobalSettle time.Duration
	TextInput    time.Duration
	Launch       time.Duration
	DefaultWait  time.Duration // Used by wait steps with no duration.
}

// DefaultDelays returns the settle pauses used when config supplies none.
func DefaultDelays() Delays {
	return Delays{
		TapSettle:    1 * time.Second,
		SwipeSettle:  1 * time.Second,
		GlobalSettle: 1 * time.Second,
		TextInput:    500 * time.Millisecond,
		Launch:       3 * time.Second,
		DefaultWait:  2 * time.Second,
	}
}

// Options configures an Executor for one target surface.
type Options struct {
	// TargetWidth/TargetHeight are the pixel dimensions of the device being
	// driven.
	TargetWidth  int
	TargetHeight int
	// Delays override DefaultDelays when non-zero as a whole.
	Delays Delays
	// CompatibleIMEs overrides the built-in broadcast-capable IME identifiers.
	CompatibleIMEs []string
}

// Executor replays scripts against one automation surface. An instance is
// not designed for concurrent Execute calls; callers serialize.
type Executor struct {
	surface        *device.Router
	apps           *AppResolver
	logger         *zap.Logger
	delays         Delays
	targetWidth    int
	targetHeight   int
	compatibleIMEs []string
}

// New builds an Executor.
func New(surface *device.Router, apps *AppResolver, opts Options, logger *zap.Logger) *Executor {
	delays := opts.Delays
	if delays == (Delays{}) {
		delays = DefaultDelays()
	}
	imes := opts.CompatibleIMEs
	if len(imes) == 0 {
		imes = defaultCompatibleIMEs
	}
	return &Executor{
		surface:        surface,
		apps:           apps,
		logger:         logger.Named("executor"),
		delays:         delays,
		targetWidth:    opts.TargetWidth,
		targetHeight:   opts.TargetHeight,
		compatibleIMEs: imes,
	}
}

// Execute replays a script. Cancellation is cooperative: the context is
// polled once per step boundary, and a step already in flight always
// completes — no gesture is ever half-delivered. Whatever path the call
// exits by, a switched IME is restored first.
func (e *Executor) Execute(ctx context.Context, script *action.Script, onProgress ProgressFunc) (result action.ExecutionResult) {
	start := time.Now()

	if len(script.Actions) == 0 {
		return action.ExecutionResult{
			Outcome:   action.OutcomeFailure,
			StepIndex: 0,
			Message:   "no actions to execute",
		}
	}

	// In-step device work must not be interrupted mid-operation by the
	// caller's cancel; the step boundary poll is the only cancellation point.
	stepCtx := context.WithoutCancel(ctx)

	// Replay scale factors relative to the recording device. Normalized
	// coordinates rescale against the target alone, so these only matter for
	// diagnostics, but a wildly different aspect ratio is worth seeing.
	if script.ScreenWidth > 0 && script.ScreenHeight > 0 {
		e.logger.Debug("replay scale factors",
			zap.Float64("scale_x", float64(e.targetWidth)/float64(script.ScreenWidth)),
			zap.Float64("scale_y", float64(e.targetHeight)/float64(script.ScreenHeight)))
	}

	session := &imeSession{}
	stepIndex := 0
	defer e.restoreIME(stepCtx, session)
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("panic during execution", zap.Int("step", stepIndex), zap.Any("panic", r))
			result = action.ExecutionResult{
				Outcome:   action.OutcomeFailure,
				StepIndex: stepIndex,
				Message:   fmt.Sprintf("internal error: %v", r),
			}
		}
	}()

	total := len(script.Actions)
	completed := 0
	for i, act := range script.Actions {
		stepIndex = i
		if ctx.Err() != nil {
			e.logger.Info("execution cancelled", zap.Int("step", i), zap.Int("total", total))
			return action.ExecutionResult{Outcome: action.OutcomeCancelled}
		}
		if onProgress != nil {
			onProgress(i, total, act)
		}

		finished, err := e.dispatch(stepCtx, act, session)
		if err != nil {
			e.logger.Warn("step failed",
				zap.Int("step", i),
				zap.String("kind", act.Kind),
				zap.Error(err))
			return action.ExecutionResult{
				Outcome:   action.OutcomeFailure,
				StepIndex: i,
				Message:   err.Error(),
			}
		}
		completed++
		if finished {
			// finish terminates the loop successfully regardless of any
			// remaining steps.
			break
		}
	}

	return action.ExecutionResult{
		Outcome:   action.OutcomeSuccess,
		StepCount: completed,
		Duration:  time.Since(start),
	}
}

// ExecuteOne runs a single action interactively, with the same bracketing
// and cleanup guarantees as a full call.
func (e *Executor) ExecuteOne(ctx context.Context, act action.Action) (result action.StepResult) {
	stepCtx := context.WithoutCancel(ctx)
	session := &imeSession{}
	defer e.restoreIME(stepCtx, session)
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("panic during execution", zap.String("kind", act.Kind), zap.Any("panic", r))
			result = action.StepResult{
				ShouldContinue: true,
				ErrorMessage:   fmt.Sprintf("internal error: %v", r),
			}
		}
	}()

	finished, err := e.dispatch(stepCtx, act, session)
	if err != nil {
		return action.StepResult{ShouldContinue: true, ErrorMessage: err.Error()}
	}
	return action.StepResult{Success: true, ShouldContinue: !finished}
}

// dispatch executes one action. The returned bool reports a finish step.
func (e *Executor) dispatch(ctx context.Context, act action.Action, session *imeSession) (bool, error) {
	loc := e.scale(act.Location)

	switch action.Normalize(act.Kind) {
	case action.KindTap:
		if len(loc) < 2 {
			return false, fmt.Errorf("tap requires a coordinate point")
		}
		if err := e.surface.Tap(ctx, loc[0], loc[1]); err != nil {
			return false, fmt.Errorf("tap at (%d,%d) failed: %w", loc[0], loc[1], err)
		}
		time.Sleep(e.delays.TapSettle)

	case action.KindSwipe:
		if len(loc) < 4 {
			// Scripts recorded with truncated segments exist in the wild;
			// treating them as no-ops keeps old recordings replayable, at
			// the cost of possibly masking a recording bug. Hence the warn.
			e.logger.Warn("swipe with fewer than 4 coordinates treated as no-op",
				zap.Ints("location", act.Location))
			return false, nil
		}
		if err := e.surface.Swipe(ctx, loc[0], loc[1], loc[2], loc[3], swipeGestureMS); err != nil {
			return false, fmt.Errorf("swipe failed: %w", err)
		}
		time.Sleep(e.delays.SwipeSettle)

	case action.KindHome:
		if err := e.surface.GlobalAction(ctx, device.GlobalActionHome); err != nil {
			return false, fmt.Errorf("home failed: %w", err)
		}
		time.Sleep(e.delays.GlobalSettle)

	case action.KindBack:
		if err := e.surface.GlobalAction(ctx, device.GlobalActionBack); err != nil {
			return false, fmt.Errorf("back failed: %w", err)
		}
		time.Sleep(e.delays.GlobalSettle)

	case action.KindWait:
		d := time.Duration(act.DurationMS) * time.Millisecond
		if act.DurationMS <= 0 {
			d = e.delays.DefaultWait
		}
		time.Sleep(d)

	case action.KindType:
		if act.Text == "" {
			return false, fmt.Errorf("type requires non-empty text")
		}
		e.ensureIME(ctx, session)
		if err := e.surface.TypeText(ctx, act.Text); err != nil {
			return false, fmt.Errorf("text input failed: %w", err)
		}
		time.Sleep(e.delays.TextInput)

	case action.KindLaunch:
		pkg, ok := e.apps.Resolve(act.Text)
		if !ok {
			// No fallback here: launching an arbitrary guess is worse than
			// stopping the script.
			return false, fmt.Errorf("unknown app %q: no package mapping", act.Text)
		}
		if err := e.surface.LaunchApp(ctx, pkg); err != nil {
			return false, fmt.Errorf("launch of %s failed: %w", pkg, err)
		}
		time.Sleep(e.delays.Launch)

	case action.KindFinish:
		return true, nil

	default:
		// Unknown kinds are no-ops so scripts written against a newer action
		// vocabulary degrade instead of aborting.
		e.logger.Info("skipping unrecognized action kind", zap.String("kind", act.Kind))
	}

	return false, nil
}

// scale converts normalized [0,1000] coordinates to target pixels. Only
// exact points (2) and segments (4) are scaled; any other length passes
// through untouched. Old scripts depend on that passthrough, so it is
// preserved as-is.
func (e *Executor) scale(loc []int) []int {
	if len(loc) != 2 && len(loc) != 4 {
		return loc
	}
	out := make([]int, len(loc))
	for i, v := range loc {
		dim := e.targetWidth
		if i%2 == 1 {
			dim = e.targetHeight
		}
		out[i] = int(math.Round(float64(v) / 1000.0 * float64(dim)))
	}
	return out
}
