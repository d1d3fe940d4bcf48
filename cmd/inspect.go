// -- cmd/inspect.go --
package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/taskwizard/taskwizard/internal/device"
	"github.com/taskwizard/taskwizard/internal/observability"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Print the interactive elements of the current screen.",
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := observability.GetLogger()

		bridge := device.NewADBBridge(device.ADBOptions{
			ADBPath:          cfg.Device.ADBPath,
			Serial:           deviceSerial(cmd),
			CommandTimeout:   cfg.Device.CommandTimeout,
			BroadcastTimeout: cfg.Device.BroadcastTimeout,
		}, logger)

		tree, err := device.DumpUITree(context.Background(), bridge)
		if err != nil {
			return err
		}
		fmt.Print(tree.Outline())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}
