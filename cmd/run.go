// -- cmd/run.go --
package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/taskwizard/taskwizard/internal/agent"
	"github.com/taskwizard/taskwizard/internal/device"
	"github.com/taskwizard/taskwizard/internal/executor"
	"github.com/taskwizard/taskwizard/internal/modelclient"
	"github.com/taskwizard/taskwizard/internal/observability"
)

var (
	runMaxSteps int
	runUITree   bool
)

var runCmd = &cobra.Command{
	Use:   "run \"task description\"",
	Short: "Run a natural-language task against the connected device.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := observability.GetLogger()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		surface, exec := buildSurface(cmd)
		surface.Initialize(ctx)

		factory := modelclient.NewFactory(logger)
		model, err := factory.Client(cfg.Model)
		if err != nil {
			return err
		}

		a := agent.New(surface, exec, model, logger)
		a.IncludeUITree = runUITree

		maxSteps := runMaxSteps
		if maxSteps <= 0 {
			maxSteps = cfg.Executor.MaxSteps
		}
		return a.Run(ctx, args[0], maxSteps)
	},
}

// buildSurface wires the device bridge, router and executor from config.
func buildSurface(cmd *cobra.Command) (*device.Router, *executor.Executor) {
	logger := observability.GetLogger()

	bridge := device.NewADBBridge(device.ADBOptions{
		ADBPath:          cfg.Device.ADBPath,
		Serial:           deviceSerial(cmd),
		CommandTimeout:   cfg.Device.CommandTimeout,
		BroadcastTimeout: cfg.Device.BroadcastTimeout,
		ScreenshotDir:    cfg.Device.ScreenshotDir,
	}, logger)
	surface := device.NewRouter(bridge, logger)

	exec := executor.New(surface, executor.NewAppResolver(cfg.Apps), executor.Options{
		TargetWidth:  cfg.Device.ScreenWidth,
		TargetHeight: cfg.Device.ScreenHeight,
		Delays: executor.Delays{
			TapSettle:    cfg.Executor.TapSettle,
			SwipeSettle:  cfg.Executor.SwipeSettle,
			GlobalSettle: cfg.Executor.GlobalSettle,
			TextInput:    cfg.Executor.TextInput,
			Launch:       cfg.Executor.Launch,
			DefaultWait:  cfg.Executor.DefaultWait,
		},
		CompatibleIMEs: cfg.Executor.CompatibleIMEs,
	}, logger)

	return surface, exec
}

func init() {
	runCmd.Flags().IntVar(&runMaxSteps, "max-steps", 0, "model turn budget (default from config)")
	runCmd.Flags().BoolVar(&runUITree, "ui-tree", false, "include the view-hierarchy outline in model prompts")
	rootCmd.AddCommand(runCmd)
}
