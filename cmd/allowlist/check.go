package allowlist

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/openclaw/clawctl/internal/config"
	"github.com/openclaw/clawctl/internal/display"
	"github.com/openclaw/clawctl/internal/policy"
)

var checkAllowlistCmd = &cobra.Command{
	Use:   "check <domain>",
	Short: "Evaluates the egress policy for one domain",
	Long:  `Evaluates the egress policy for one domain locally and prints the matching rule`,
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) != 1 {
			return errors.New("exactly one domain is required")
		}
		return config.ValidateConfig()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		c := config.GetConfig()
		decision := policy.Evaluate(c.AllowedDomains, args[0])
		if decision.Action == policy.ActionAllow {
			fmt.Printf("%s rule %d (matched %s)\n", display.Green("ALLOW"), decision.Priority, decision.Matched)
		} else {
			fmt.Printf("%s rule %d (%s)\n", display.Red("BLOCK"), decision.Priority, decision.Response)
		}
		return nil
	},
}
