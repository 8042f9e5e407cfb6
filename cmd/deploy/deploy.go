package deploy

import (
	"github.com/spf13/cobra"

	"github.com/openclaw/clawctl/internal/api"
	"github.com/openclaw/clawctl/internal/config"
)

var DeployCmd = &cobra.Command{
	Use:   "deploy",
	Short: "Converges the full gateway stack for the configured environment",
	Long:  `Converges the full gateway stack for the configured environment. Reapplying is idempotent: existing resources are kept, the egress allowlist is synced to the configuration.`,
	Args: func(cmd *cobra.Command, args []string) error {
		return config.ValidateConfig()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return api.Deploy(cmd.Context())
	},
}
