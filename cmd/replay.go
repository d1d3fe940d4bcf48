// -- cmd/replay.go --
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/taskwizard/taskwizard/internal/action"
)

var replayCmd = &cobra.Command{
	Use:   "replay <script.json>",
	Short: "Replay a stored action script against the connected device.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		script, err := action.LoadScript(args[0])
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		surface, exec := buildSurface(cmd)
		surface.Initialize(ctx)

		result := exec.Execute(ctx, script, func(step, total int, act action.Action) {
			fmt.Println(formatStep(step, total, act))
		})

		fmt.Println(result.String())
		if !result.Succeeded() {
			// Distinct exit for scripting; cancellation is not a failure.
			if result.Outcome == action.OutcomeFailure {
				return fmt.Errorf("replay %s", result.String())
			}
		}
		return nil
	},
}

// formatStep renders one progress line, showing segments as start->end and
// points as a coordinate pair.
func formatStep(step, total int, act action.Action) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%d/%d] %s", step+1, total, act.Kind)
	switch {
	case act.HasSegment():
		fmt.Fprintf(&b, " (%d,%d)->(%d,%d)",
			act.Location[0], act.Location[1], act.Location[2], act.Location[3])
	case act.HasPoint():
		fmt.Fprintf(&b, " (%d,%d)", act.Location[0], act.Location[1])
	case len(act.Location) > 0:
		fmt.Fprintf(&b, " %v", act.Location)
	}
	if act.Text != "" {
		fmt.Fprintf(&b, " %q", act.Text)
	}
	return b.String()
}

func init() {
	rootCmd.AddCommand(replayCmd)
}
