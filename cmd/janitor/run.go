package janitor

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/openclaw/clawctl/internal/api"
	"github.com/openclaw/clawctl/internal/config"
)

var runJanitorCmd = &cobra.Command{
	Use:   "run <docker-prune|patch-scan>",
	Short: "Invokes a janitor task on demand",
	Long:  `Invokes a janitor Lambda immediately instead of waiting for its schedule`,
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) != 1 {
			return errors.New("exactly one task is required")
		}
		return config.ValidateConfig()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		commandID, err := api.InvokeJanitor(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Printf("dispatched SSM command %s\n", commandID)
		return nil
	},
}
