package allowlist

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/openclaw/clawctl/internal/api"
	"github.com/openclaw/clawctl/internal/config"
	"github.com/openclaw/clawctl/internal/display"
)

var getAllowlistCmd = &cobra.Command{
	Use:   "get",
	Short: "Shows the effective egress allowlist",
	Long:  `Shows the provisioned egress allowlist, or the configured one when the firewall is not deployed yet`,
	Args: func(cmd *cobra.Command, args []string) error {
		return config.ValidateConfig()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		domains, deployed, err := api.CurrentAllowlist(cmd.Context())
		if err != nil {
			return err
		}
		if !deployed {
			fmt.Println(display.Grey("firewall not deployed, showing configured allowlist"))
		}
		for _, d := range domains {
			fmt.Println(d)
		}
		return nil
	},
}
