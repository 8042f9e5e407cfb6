package allowlist

import (
	"github.com/spf13/cobra"

	"github.com/openclaw/clawctl/internal/api"
	"github.com/openclaw/clawctl/internal/config"
)

var applyAllowlistCmd = &cobra.Command{
	Use:   "apply",
	Short: "Converges the DNS firewall to the configured allowlist",
	Long:  `Converges the deployed DNS firewall domain set to exactly the configured allowed_domains. Reapplying an unchanged configuration is a no-op.`,
	Args: func(cmd *cobra.Command, args []string) error {
		return config.ValidateConfig()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return api.SyncAllowlist(cmd.Context())
	},
}
