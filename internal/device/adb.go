// internal/device/adb.go
package device

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// Hard ceilings for on-device shell work. A command that outlives its
	// ceiling is killed, converting a hang into a fast failure.
	defaultCommandTimeout   = 10 * time.Second
	defaultBroadcastTimeout = 5 * time.Second
)

// ADBOptions configures the adb-backed bridge.
type ADBOptions struct {
	// ADBPath is the adb binary; defaults to "adb" on PATH.
	ADBPath string
	// Serial selects a device when more than one is attached.
	Serial string
	// CommandTimeout bounds generic shell commands (default 10s).
	CommandTimeout time.Duration
	// BroadcastTimeout bounds the text-broadcast command (default 5s).
	BroadcastTimeout time.Duration
	// ScreenshotDir receives pulled screenshots; defaults to the OS temp dir.
	ScreenshotDir string
}

// ADBBridge is the shell-grade realization of Bridge: every operation rides
// `adb shell`. It holds no event-injection connection, so InitUIAutomation
// always reports false and the Router keeps every primitive on the shell
// tier. A privileged on-device channel that does hold one implements the
// same interface and slots in without touching the engine.
type ADBBridge struct {
	opts   ADBOptions
	logger *zap.Logger
}

// NewADBBridge creates a bridge over the adb binary.
func NewADBBridge(opts ADBOptions, logger *zap.Logger) *ADBBridge {
	if opts.ADBPath == "" {
		opts.ADBPath = "adb"
	}
	if opts.CommandTimeout <= 0 {
		opts.CommandTimeout = defaultCommandTimeout
	}
	if opts.BroadcastTimeout <= 0 {
		opts.BroadcastTimeout = defaultBroadcastTimeout
	}
	if opts.ScreenshotDir == "" {
		opts.ScreenshotDir = os.TempDir()
	}
	return &ADBBridge{opts: opts, logger: logger.Named("adb_bridge")}
}

// InitUIAutomation reports false: plain adb carries no injection connection.
func (b *ADBBridge) InitUIAutomation(ctx context.Context) bool { return false }

// Available reports false for the same reason.
func (b *ADBBridge) Available() bool { return false }

// InjectTap is unsupported on the shell-grade bridge.
func (b *ADBBridge) InjectTap(ctx context.Context, x, y int) (bool, error) {
	return false, fmt.Errorf("event injection unavailable over adb")
}

// InjectSwipe is unsupported on the shell-grade bridge.
func (b *ADBBridge) InjectSwipe(ctx context.Context, x1, y1, x2, y2, durationMS int) (bool, error) {
	return false, fmt.Errorf("event injection unavailable over adb")
}

// PerformGlobalAction is unsupported on the shell-grade bridge; the Router
// translates global actions into key events instead.
func (b *ADBBridge) PerformGlobalAction(ctx context.Context, code GlobalAction) (bool, error) {
	return false, fmt.Errorf("global actions unavailable over adb")
}

// ExecuteShellCommand runs `adb shell <cmd>` under the hard timeout for its
// command class and returns combined output. Expiry kills the process.
func (b *ADBBridge) ExecuteShellCommand(ctx context.Context, cmd string) (string, error) {
	timeout := b.opts.CommandTimeout
	if strings.HasPrefix(cmd, "am broadcast") {
		timeout = b.opts.BroadcastTimeout
	}
	return b.run(ctx, timeout, "shell", cmd)
}

// CurrentIME reads the active input method identifier.
func (b *ADBBridge) CurrentIME(ctx context.Context) (string, error) {
	out, err := b.ExecuteShellCommand(ctx, "settings get secure default_input_method")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// SetIME activates the given input method and reports whether the device
// accepted it.
func (b *ADBBridge) SetIME(ctx context.Context, id string) (bool, error) {
	out, err := b.ExecuteShellCommand(ctx, "ime set "+id)
	if err != nil {
		return false, err
	}
	// `ime set` prints "Input method ... selected" on success and an error
	// line otherwise; exit status is 0 either way.
	return strings.Contains(out, "selected"), nil
}

// IMEEnabled reports whether the identifier appears in the enabled IME list.
func (b *ADBBridge) IMEEnabled(ctx context.Context, id string) (bool, error) {
	out, err := b.ExecuteShellCommand(ctx, "ime list -s")
	if err != nil {
		return false, err
	}
	for _, line := range strings.Split(out, "\n") {
		if strings.TrimSpace(line) == id {
			return true, nil
		}
	}
	return false, nil
}

// Screenshot captures the screen on-device, pulls the file locally, and
// returns the absolute local path.
func (b *ADBBridge) Screenshot(ctx context.Context) (string, error) {
	remote := fmt.Sprintf("/sdcard/taskwizard-%s.png", uuid.NewString())
	if _, err := b.ExecuteShellCommand(ctx, "screencap -p "+remote); err != nil {
		return "", fmt.Errorf("screencap failed: %w", err)
	}
	local := filepath.Join(b.opts.ScreenshotDir, filepath.Base(remote))
	if _, err := b.run(ctx, b.opts.CommandTimeout, "pull", remote, local); err != nil {
		return "", fmt.Errorf("pull failed: %w", err)
	}
	// Best effort; a leftover file on /sdcard is harmless.
	_, _ = b.ExecuteShellCommand(ctx, "rm "+remote)

	abs, err := filepath.Abs(local)
	if err != nil {
		return "", err
	}
	return abs, nil
}

// run invokes the adb binary with a hard deadline and forced kill on expiry.
func (b *ADBBridge) run(ctx context.Context, timeout time.Duration, args ...string) (string, error) {
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	full := args
	if b.opts.Serial != "" {
		full = append([]string{"-s", b.opts.Serial}, args...)
	}

	cmd := exec.CommandContext(runCtx, b.opts.ADBPath, full...)
	out, err := cmd.CombinedOutput()
	if runCtx.Err() == context.DeadlineExceeded {
		b.logger.Warn("adb command timed out, process killed",
			zap.Strings("args", full),
			zap.Duration("timeout", timeout))
		return "", fmt.Errorf("adb command timed out after %s", timeout)
	}
	if err != nil {
		return "", fmt.Errorf("adb %s: %w: %s", strings.Join(args, " "), err, strings.TrimSpace(string(out)))
	}
	return string(out), nil
}
