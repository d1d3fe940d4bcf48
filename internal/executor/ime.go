// internal/executor/ime.go
package executor

import (
	"context"

	"go.uber.org/zap"
)

// Input methods able to type programmatically via the text broadcast. The
// first entry is the current ADBKeyboard identifier, the second the legacy
// one still found on older installs.
var defaultCompatibleIMEs = []string{
	"com.android.adbkeyboard/.AdbIME",
	"com.android.adbkeyboard/com.android.adbkeyboard.AdbIME",
}

// imeSession tracks input-method bracketing for exactly one execution call.
// It is a value threaded through the call, never stored on the Executor, so
// a future concurrent-execution design carries no reentrancy hazard. The
// state machine is Untouched -> Switched -> Restored; restore runs on every
// exit path of the call.
type imeSession struct {
	attempted   bool   // Bracketing ran (successfully or not); never retried within a call.
	switched    bool   // A compatible IME is confirmed active and must be restored.
	originalIME string // Identifier active before bracketing.
}

// ensureIME performs bracketing before the first type step of a call. A
// failed switch is non-fatal: typing is still attempted, but the session is
// flagged degraded in the logs.
func (e *Executor) ensureIME(ctx context.Context, s *imeSession) {
	if s.attempted {
		return
	}
	s.attempted = true

	bridge := e.surface.Bridge()
	current, err := bridge.CurrentIME(ctx)
	if err != nil {
		e.logger.Warn("failed to read current IME, typing in degraded mode", zap.Error(err))
		return
	}

	for _, id := range e.compatibleIMEs {
		if current == id {
			// Already compatible: record it as both original and target so
			// restoration reasserts the same identifier.
			s.originalIME = current
			s.switched = true
			return
		}
	}

	for _, id := range e.compatibleIMEs {
		enabled, err := bridge.IMEEnabled(ctx, id)
		if err != nil || !enabled {
			continue
		}
		if ok, err := bridge.SetIME(ctx, id); err != nil || !ok {
			e.logger.Warn("failed to activate compatible IME", zap.String("ime", id), zap.Error(err))
			continue
		}
		// Only a read-back confirmation counts as switched; a silently
		// rejected switch must not trigger a bogus restore later.
		if active, err := bridge.CurrentIME(ctx); err == nil && active == id {
			s.originalIME = current
			s.switched = true
			e.logger.Debug("switched IME for text input",
				zap.String("from", current), zap.String("to", id))
			return
		}
	}

	e.logger.Warn("no compatible IME available, typing in degraded mode",
		zap.String("current", current))
}

// restoreIME undoes bracketing at call teardown. It is mandatory cleanup
// invoked on success, failure, cancellation and panic alike.
func (e *Executor) restoreIME(ctx context.Context, s *imeSession) {
	if !s.switched {
		return
	}
	if ok, err := e.surface.Bridge().SetIME(ctx, s.originalIME); err != nil || !ok {
		e.logger.Warn("failed to restore original IME",
			zap.String("ime", s.originalIME), zap.Error(err))
	}
	// Clear so a later call through the same session value starts fresh.
	*s = imeSession{}
}
